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

package memory

import (
	"fmt"
	"strings"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/savestate"
)

// ChipRAMSize is the amount of chip RAM in bytes.
const ChipRAMSize = 0x80000

// PointerMask is applied to every DMA pointer. Pointers are always word
// aligned.
const PointerMask = ChipRAMSize - 2

// Sentinal errors.
const (
	LoadOutOfRange = "memory: load out of range (%#x + %d bytes)"
)

// ChipRAM is the memory shared by the CPU and the custom chips. Words are
// stored big endian.
type ChipRAM struct {
	data []uint8
}

// NewChipRAM is the preferred method of initialisation for the ChipRAM type.
func NewChipRAM() *ChipRAM {
	return &ChipRAM{
		data: make([]uint8, ChipRAMSize),
	}
}

// Clear sets every byte to zero.
func (ram *ChipRAM) Clear() {
	clear(ram.data)
}

func (ram *ChipRAM) mask(address uint32) uint32 {
	return address & (ChipRAMSize - 1)
}

// Peek8 returns the byte at the address. The address wraps at the end of
// chip RAM.
func (ram *ChipRAM) Peek8(address uint32) uint8 {
	return ram.data[ram.mask(address)]
}

// Poke8 stores the byte at the address.
func (ram *ChipRAM) Poke8(address uint32, value uint8) {
	ram.data[ram.mask(address)] = value
}

// Peek16 returns the word at the address. The lowest bit of the address is
// ignored.
func (ram *ChipRAM) Peek16(address uint32) uint16 {
	a := ram.mask(address) &^ 1
	return uint16(ram.data[a])<<8 | uint16(ram.data[a+1])
}

// Poke16 stores the word at the address. The lowest bit of the address is
// ignored.
func (ram *ChipRAM) Poke16(address uint32, value uint16) {
	a := ram.mask(address) &^ 1
	ram.data[a] = uint8(value >> 8)
	ram.data[a+1] = uint8(value)
}

// LoadData copies the data into chip RAM at the address.
func (ram *ChipRAM) LoadData(address uint32, data []uint8) error {
	if int(address)+len(data) > len(ram.data) {
		return curated.Errorf(LoadOutOfRange, address, len(data))
	}
	copy(ram.data[address:], data)
	return nil
}

// Slice returns a copy of the memory between the two addresses.
func (ram *ChipRAM) Slice(from uint32, to uint32) []uint8 {
	from = ram.mask(from)
	to = min(to, ChipRAMSize)
	if to <= from {
		return nil
	}
	c := make([]uint8, to-from)
	copy(c, ram.data[from:to])
	return c
}

// Dump returns a hex dump of the memory between the two addresses.
func (ram *ChipRAM) Dump(from uint32, to uint32) string {
	s := strings.Builder{}
	b := ram.Slice(from&^0x0f, to)
	for i := 0; i < len(b); i += 16 {
		s.WriteString(fmt.Sprintf("%06x |", int(from&^0x0f)+i))
		for j := i; j < min(i+16, len(b)); j++ {
			s.WriteString(fmt.Sprintf(" %02x", b[j]))
		}
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

// Save implements the savestate.Stater interface.
func (ram *ChipRAM) Save(s *savestate.State) {
	s.WriteData(ram.data)
}

// Load implements the savestate.Stater interface.
func (ram *ChipRAM) Load(s *savestate.State) {
	s.ReadData(ram.data)
}
