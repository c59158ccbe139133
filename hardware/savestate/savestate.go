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

// Package savestate is the checkpoint format of the emulation. Components
// write their fields in a fixed order as fixed width big-endian integers and
// read them back in the same order. There is no tagging. The format is
// identified only by the Version constant at the start of the data.
//
// Reading past the end of the data does not panic. Instead the State records
// the error, returns zero values and the error is reported by Err().
package savestate

import (
	"encoding/binary"

	"github.com/gopher500/gopher500/curated"
)

// Version identifies the layout of the data. It must be changed whenever a
// component changes the fields it saves.
const Version uint32 = 0x47503501

// Sentinel errors.
const (
	UnexpectedEnd   = "savestate: unexpected end of data"
	VersionMismatch = "savestate: version mismatch (%08x)"
)

// Stater is implemented by components that can be saved and restored.
type Stater interface {
	Save(*State)
	Load(*State)
}

// State is a buffer of saved fields and a read position.
type State struct {
	raw     []byte
	readPos int
	err     error
}

// NewState creates a State ready for writing. The Version is written first.
func NewState() *State {
	s := &State{raw: make([]byte, 0, 4096)}
	s.Write32(Version)
	return s
}

// FromBytes creates a State ready for reading. The Version is checked.
func FromBytes(raw []byte) (*State, error) {
	s := &State{raw: raw}
	if v := s.Read32(); s.err != nil {
		return nil, s.err
	} else if v != Version {
		return nil, curated.Errorf(VersionMismatch, v)
	}
	return s, nil
}

// Bytes returns the data written so far.
func (s *State) Bytes() []byte {
	return s.raw
}

// Err returns the first error encountered while reading.
func (s *State) Err() error {
	return s.err
}

// Remaining returns the number of bytes that have not yet been read.
func (s *State) Remaining() int {
	return len(s.raw) - s.readPos
}

func (s *State) Write8(v uint8) {
	s.raw = append(s.raw, v)
}

func (s *State) Write16(v uint16) {
	s.raw = binary.BigEndian.AppendUint16(s.raw, v)
}

func (s *State) Write32(v uint32) {
	s.raw = binary.BigEndian.AppendUint32(s.raw, v)
}

func (s *State) Write64(v uint64) {
	s.raw = binary.BigEndian.AppendUint64(s.raw, v)
}

// WriteInt64 is a convenience function for signed values, such as cycles.
func (s *State) WriteInt64(v int64) {
	s.Write64(uint64(v))
}

func (s *State) WriteBool(v bool) {
	if v {
		s.Write8(1)
	} else {
		s.Write8(0)
	}
}

// WriteData writes a length prefixed block of bytes.
func (s *State) WriteData(data []byte) {
	s.Write32(uint32(len(data)))
	s.raw = append(s.raw, data...)
}

// take returns the next n bytes or nil if there are not enough.
func (s *State) take(n int) []byte {
	if s.err != nil {
		return nil
	}
	if s.readPos+n > len(s.raw) {
		s.err = curated.Errorf(UnexpectedEnd)
		return nil
	}
	b := s.raw[s.readPos : s.readPos+n]
	s.readPos += n
	return b
}

func (s *State) Read8() uint8 {
	if b := s.take(1); b != nil {
		return b[0]
	}
	return 0
}

func (s *State) Read16() uint16 {
	if b := s.take(2); b != nil {
		return binary.BigEndian.Uint16(b)
	}
	return 0
}

func (s *State) Read32() uint32 {
	if b := s.take(4); b != nil {
		return binary.BigEndian.Uint32(b)
	}
	return 0
}

func (s *State) Read64() uint64 {
	if b := s.take(8); b != nil {
		return binary.BigEndian.Uint64(b)
	}
	return 0
}

func (s *State) ReadInt64() int64 {
	return int64(s.Read64())
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

// ReadData reads a block written by WriteData() into p. The length of the
// block must match the length of p.
func (s *State) ReadData(p []byte) {
	n := int(s.Read32())
	if s.err != nil {
		return
	}
	if n != len(p) {
		s.err = curated.Errorf("savestate: data block length mismatch (%d != %d)", n, len(p))
		return
	}
	if b := s.take(n); b != nil {
		copy(p, b)
	}
}
