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

package digest

import (
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash"
	"github.com/gopher500/gopher500/hardware/paula/audio"
)

// the length of the buffer we're using isn't really important. that said, it
// needs to be at least digestLength bytes in length and the space after the
// digest must be a multiple of a whole frame
const audioBufferLength = digestLength + 1024*frameLength

// two float32 values per frame
const frameLength = 8

// Audio implements the hardware.AudioMixer interface.
type Audio struct {
	digest   uint64
	buffer   []uint8
	bufferCt int
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio() *Audio {
	dig := &Audio{}
	dig.buffer = make([]uint8, audioBufferLength)
	dig.bufferCt = digestLength
	return dig
}

// Hash implements digest.Digest interface.
func (dig *Audio) Hash() string {
	return format(dig.digest)
}

// ResetDigest implements digest.Digest interface.
func (dig *Audio) ResetDigest() {
	dig.digest = 0
	dig.bufferCt = digestLength
}

// SetAudio implements the hardware.AudioMixer interface.
func (dig *Audio) SetAudio(frames []audio.Frame) error {
	for _, f := range frames {
		binary.BigEndian.PutUint32(dig.buffer[dig.bufferCt:], math.Float32bits(f.Left))
		binary.BigEndian.PutUint32(dig.buffer[dig.bufferCt+4:], math.Float32bits(f.Right))
		dig.bufferCt += frameLength

		if dig.bufferCt >= audioBufferLength {
			dig.flush()
		}
	}

	return nil
}

func (dig *Audio) flush() {
	if dig.bufferCt == digestLength {
		return
	}
	chain(dig.buffer, dig.digest)
	dig.digest = xxhash.Sum64(dig.buffer[:dig.bufferCt])
	dig.bufferCt = digestLength
}

// EndMixing implements the hardware.AudioMixer interface. Any buffered audio
// is included in the digest.
func (dig *Audio) EndMixing() error {
	dig.flush()
	return nil
}
