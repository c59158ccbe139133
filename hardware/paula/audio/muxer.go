// This file is part of Gopher500.
//
// Gopher500 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher500 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher500.  If not, see <https://www.gnu.org/licenses/>.

package audio

import (
	"sync"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/logger"
)

// DefaultSampleRate of the Muxer output.
const DefaultSampleRate = 44100

// capacity of the stereo output ring, in frames
const muxerCapacity = 0x4000

// scale of a mixed channel pair. the largest sample value written by a channel
// is 127*64 and two channels are added together for each side
const muxerScale = 1.0 / 16384.0

// Frame is a single stereo output sample.
type Frame struct {
	Left  float32
	Right float32
}

// Muxer resamples the four channel queues to a fixed output rate. Channels 0
// and 3 are mixed to the left side and channels 1 and 2 are mixed to the right.
type Muxer struct {
	samplers [4]*Sampler

	// protects the output ring and the configuration below
	crit sync.Mutex

	method          SamplingMethod
	rate            int
	cyclesPerSample float64

	// master clock of the next output frame
	next float64

	ring  []Frame
	r     int
	w     int
	count int

	// number of frames dropped because the ring was full
	dropped int
}

// NewMuxer is the preferred method of initialisation for the Muxer type.
func NewMuxer(samplers [4]*Sampler) *Muxer {
	m := &Muxer{
		samplers: samplers,
		method:   SamplingLinear,
		ring:     make([]Frame, muxerCapacity),
	}
	m.SetSampleRate(DefaultSampleRate)
	return m
}

// SetSampleRate changes the output rate. Values of zero or less select the
// default rate.
func (m *Muxer) SetSampleRate(rate int) {
	m.crit.Lock()
	defer m.crit.Unlock()
	if rate <= 0 {
		rate = DefaultSampleRate
	}
	m.rate = rate
	m.cyclesPerSample = float64(clocks.MasterFrequency) / float64(rate)
}

// SampleRate returns the output rate.
func (m *Muxer) SampleRate() int {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.rate
}

// SetSamplingMethod changes the interpolation used to read the channels.
func (m *Muxer) SetSamplingMethod(method SamplingMethod) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.method = method
}

// Reset empties the output ring and restarts the output clock.
func (m *Muxer) Reset(clock clocks.Cycle) {
	m.crit.Lock()
	defer m.crit.Unlock()
	m.next = float64(clock)
	m.r, m.w, m.count = 0, 0, 0
	m.dropped = 0
}

// Synthesize output frames up to and including the clock.
func (m *Muxer) Synthesize(to clocks.Cycle) {
	m.crit.Lock()
	defer m.crit.Unlock()

	var dropped int

	for m.next <= float64(to) {
		clk := clocks.Cycle(m.next)
		ch0 := float32(m.samplers[0].Interpolate(m.method, clk))
		ch1 := float32(m.samplers[1].Interpolate(m.method, clk))
		ch2 := float32(m.samplers[2].Interpolate(m.method, clk))
		ch3 := float32(m.samplers[3].Interpolate(m.method, clk))

		f := Frame{
			Left:  (ch0 + ch3) * muxerScale,
			Right: (ch1 + ch2) * muxerScale,
		}

		if m.count == len(m.ring) {
			dropped++
		} else {
			m.ring[m.w] = f
			m.w = (m.w + 1) % len(m.ring)
			m.count++
		}

		m.next += m.cyclesPerSample
	}

	if dropped > 0 {
		m.dropped += dropped
		logger.Logf(logger.Allow, "muxer", "output buffer is full: %d frames dropped", dropped)
	}
}

// Count returns the number of frames waiting to be read.
func (m *Muxer) Count() int {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.count
}

// Dropped returns the number of frames lost to overflow since the last reset.
func (m *Muxer) Dropped() int {
	m.crit.Lock()
	defer m.crit.Unlock()
	return m.dropped
}

// Read frames into the slice. Returns the number of frames read.
func (m *Muxer) Read(dst []Frame) int {
	m.crit.Lock()
	defer m.crit.Unlock()

	n := 0
	for n < len(dst) && m.count > 0 {
		dst[n] = m.ring[m.r]
		m.r = (m.r + 1) % len(m.ring)
		m.count--
		n++
	}
	return n
}
