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

package drive

import (
	"github.com/cespare/xxhash"

	"github.com/gopher500/gopher500/curated"
)

// Geometry of a double density disk.
const (
	NumCylinders = 84
	NumSides     = 2
	NumTracks    = NumCylinders * NumSides

	// bytes of raw MFM data on every track
	TrackLength = 12668
)

// value of an MFM encoded zero byte. unwritten parts of a disk read as this
// value
const mfmZero = 0xaa

// Sentinal errors.
const (
	EmptyDisk    = "disk: no data"
	DiskTooLarge = "disk: data too large (%d bytes)"
)

// Disk is a raw MFM encoded disk. Disk image formats are not understood here.
// The disk is simply a stream of MFM bytes divided into tracks.
type Disk struct {
	tracks         [NumTracks][]byte
	writeProtected bool
	modified       bool
}

// NewDisk creates a disk from a stream of raw MFM bytes. The stream fills the
// tracks in order, cylinder 0 side 0 first. Any space left at the end of the
// stream reads as MFM encoded zeros.
func NewDisk(data []byte) (*Disk, error) {
	if len(data) == 0 {
		return nil, curated.Errorf(EmptyDisk)
	}
	if len(data) > NumTracks*TrackLength {
		return nil, curated.Errorf(DiskTooLarge, len(data))
	}

	dsk := NewBlankDisk()
	for t := range dsk.tracks {
		o := t * TrackLength
		if o >= len(data) {
			break
		}
		copy(dsk.tracks[t], data[o:])
	}

	return dsk, nil
}

// NewBlankDisk creates a disk with every track filled with MFM encoded zeros.
func NewBlankDisk() *Disk {
	dsk := &Disk{}
	for t := range dsk.tracks {
		dsk.tracks[t] = make([]byte, TrackLength)
		for i := range dsk.tracks[t] {
			dsk.tracks[t][i] = mfmZero
		}
	}
	return dsk
}

func track(cylinder int, side int) int {
	return cylinder*NumSides + side
}

// ReadByte returns the byte at the head position.
func (dsk *Disk) ReadByte(cylinder int, side int, offset int) uint8 {
	return dsk.tracks[track(cylinder, side)][offset]
}

// WriteByte stores the byte at the head position. Writes to a write
// protected disk are ignored.
func (dsk *Disk) WriteByte(value uint8, cylinder int, side int, offset int) {
	if dsk.writeProtected {
		return
	}
	dsk.tracks[track(cylinder, side)][offset] = value
	dsk.modified = true
}

// WriteProtected returns true if the disk cannot be written to.
func (dsk *Disk) WriteProtected() bool {
	return dsk.writeProtected
}

// SetWriteProtection sets the state of the write protection tab.
func (dsk *Disk) SetWriteProtection(protected bool) {
	dsk.writeProtected = protected
}

// Modified returns true if the disk has been written to since creation.
func (dsk *Disk) Modified() bool {
	return dsk.modified
}

// Track returns a copy of the track data.
func (dsk *Disk) Track(cylinder int, side int) []byte {
	t := make([]byte, TrackLength)
	copy(t, dsk.tracks[track(cylinder, side)])
	return t
}

// Bytes returns the disk as a stream of MFM bytes in the form accepted by
// NewDisk().
func (dsk *Disk) Bytes() []byte {
	b := make([]byte, 0, NumTracks*TrackLength)
	for _, t := range dsk.tracks {
		b = append(b, t...)
	}
	return b
}

// Checksum of the entire disk contents.
func (dsk *Disk) Checksum() uint64 {
	h := xxhash.New()
	for _, t := range dsk.tracks {
		_, _ = h.Write(t)
	}
	return h.Sum64()
}
