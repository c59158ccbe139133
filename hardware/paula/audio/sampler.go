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
	"strings"
	"sync"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/clocks"
)

// SamplingMethod decides how a Sampler computes the value between two
// samples.
type SamplingMethod int

// List of valid SamplingMethod values.
const (
	// the most recent sample
	SamplingNone SamplingMethod = iota

	// the sample closest in time
	SamplingNearest

	// linear interpolation between the two surrounding samples
	SamplingLinear
)

var samplingNames = []string{"NONE", "NEAREST", "LINEAR"}

func (m SamplingMethod) String() string {
	if m < 0 || int(m) >= len(samplingNames) {
		return "unknown"
	}
	return samplingNames[m]
}

// ParseSamplingMethod is the inverse of SamplingMethod.String().
// Case is not significant.
func ParseSamplingMethod(s string) (SamplingMethod, error) {
	s = strings.TrimSpace(s)
	for i, n := range samplingNames {
		if strings.EqualFold(n, s) {
			return SamplingMethod(i), nil
		}
	}
	return SamplingNone, curated.Errorf("audio: unknown sampling method (%s)", s)
}

// TaggedSample is a sample and the cycle it was produced on.
type TaggedSample struct {
	Tag    clocks.Cycle
	Sample int16
}

// SamplerCapacity is the number of samples a Sampler can hold.
const SamplerCapacity = 0x4000

// Sampler is a bounded queue of tagged samples. It is written by a single
// audio channel and read by the Muxer. Access is protected by a mutex so the
// two ends can be on different goroutines.
type Sampler struct {
	crit sync.Mutex

	buffer []TaggedSample
	r      int
	w      int
	count  int
}

// NewSampler is the preferred method of initialisation for the Sampler type.
func NewSampler() *Sampler {
	return &Sampler{
		buffer: make([]TaggedSample, SamplerCapacity),
	}
}

// Clear the queue.
func (s *Sampler) Clear() {
	s.crit.Lock()
	defer s.crit.Unlock()
	s.r, s.w, s.count = 0, 0, 0
}

// Count returns the number of samples in the queue.
func (s *Sampler) Count() int {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.count
}

// IsEmpty returns true if there are no samples in the queue.
func (s *Sampler) IsEmpty() bool {
	return s.Count() == 0
}

// IsFull returns true if there is no space in the queue.
func (s *Sampler) IsFull() bool {
	return s.Count() == len(s.buffer)
}

// Write a sample to the queue. Returns false if the queue is full, in which
// case the sample is discarded.
func (s *Sampler) Write(ts TaggedSample) bool {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.count == len(s.buffer) {
		return false
	}
	s.buffer[s.w] = ts
	s.w = (s.w + 1) % len(s.buffer)
	s.count++
	return true
}

// Samples returns a copy of the queue, oldest first.
func (s *Sampler) Samples() []TaggedSample {
	s.crit.Lock()
	defer s.crit.Unlock()

	c := make([]TaggedSample, s.count)
	for i := range c {
		c[i] = s.buffer[(s.r+i)%len(s.buffer)]
	}
	return c
}

// Interpolate returns the value of the channel at the clock. Samples that are
// no longer needed to compute values at or after the clock are removed from
// the queue. An empty queue has a value of zero.
func (s *Sampler) Interpolate(method SamplingMethod, clock clocks.Cycle) int16 {
	s.crit.Lock()
	defer s.crit.Unlock()

	if s.count == 0 {
		return 0
	}

	// drop samples while the successor is not later than the clock
	for s.count > 1 && s.buffer[(s.r+1)%len(s.buffer)].Tag <= clock {
		s.r = (s.r + 1) % len(s.buffer)
		s.count--
	}

	r1 := s.buffer[s.r]
	if s.count == 1 || method == SamplingNone {
		return r1.Sample
	}
	r2 := s.buffer[(s.r+1)%len(s.buffer)]

	// the clock is before the first sample. nothing to interpolate with
	if clock < r1.Tag {
		return r1.Sample
	}

	switch method {
	case SamplingNearest:
		if clock-r1.Tag < r2.Tag-clock {
			return r1.Sample
		}
		return r2.Sample
	case SamplingLinear:
		d := float64(r2.Tag - r1.Tag)
		if d == 0 {
			return r1.Sample
		}
		w := float64(clock-r1.Tag) / d
		return int16(float64(r1.Sample) + w*(float64(r2.Sample)-float64(r1.Sample)))
	}

	return r1.Sample
}
