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
	"sort"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/logger"
)

// CustomBase is the address of the first custom chip register.
const CustomBase = 0xdff000

// number of word sized registers in the custom chip area
const numCustom = 0x100

// Sentinal errors returned by Table.Add().
const (
	RegisterMisaligned = "memory: register offset is not word aligned (%#03x)"
	RegisterOutOfRange = "memory: register offset out of range (%#03x)"
	RegisterDuplicate  = "memory: register already defined (%s)"
)

// PeekFunc returns the value of a register.
type PeekFunc func() uint16

// PokeFunc writes a value to a register.
type PokeFunc func(value uint16)

// Register is an entry in the register table. Either function can be nil. A
// register without a Peek function reads as zero and writes to a register
// without a Poke function are ignored.
type Register struct {
	Offset uint16
	Name   string
	Peek   PeekFunc
	Poke   PokeFunc
}

// Address returns the bus address of the register.
func (r Register) Address() uint32 {
	return CustomBase + uint32(r.Offset)
}

func (r Register) String() string {
	var rw string
	if r.Peek != nil {
		rw += "R"
	}
	if r.Poke != nil {
		rw += "W"
	}
	return fmt.Sprintf("%06x %-8s %s", r.Address(), r.Name, rw)
}

// Table maps custom register addresses to the functions that implement them.
// The table is built once at startup.
type Table struct {
	regs [numCustom]*Register
}

// NewTable is the preferred method of initialisation for the Table type.
func NewTable() *Table {
	return &Table{}
}

// Add a register to the table. The offset is relative to CustomBase.
func (tab *Table) Add(offset uint16, name string, peek PeekFunc, poke PokeFunc) error {
	if offset&0x01 != 0 {
		return curated.Errorf(RegisterMisaligned, offset)
	}
	idx := offset >> 1
	if int(idx) >= numCustom {
		return curated.Errorf(RegisterOutOfRange, offset)
	}
	if tab.regs[idx] != nil {
		return curated.Errorf(RegisterDuplicate, tab.regs[idx].Name)
	}
	tab.regs[idx] = &Register{
		Offset: offset,
		Name:   name,
		Peek:   peek,
		Poke:   poke,
	}
	return nil
}

func (tab *Table) lookup(address uint32) *Register {
	return tab.regs[(address&0x1ff)>>1]
}

// PeekCustom16 reads the register at the address. Unmapped registers read as
// zero.
func (tab *Table) PeekCustom16(address uint32) uint16 {
	r := tab.lookup(address)
	if r == nil || r.Peek == nil {
		return 0
	}
	return r.Peek()
}

// PokeCustom16 writes the value to the register at the address. Writes to
// unmapped registers are logged and ignored.
func (tab *Table) PokeCustom16(address uint32, value uint16) {
	r := tab.lookup(address)
	if r == nil || r.Poke == nil {
		logger.Logf(logger.Allow, "memory", "write to unmapped register %s (%04x)", RegisterName(address), value)
		return
	}
	r.Poke(value)
}

// Lookup returns the register at the address.
func (tab *Table) Lookup(address uint32) (Register, bool) {
	r := tab.lookup(address)
	if r == nil {
		return Register{}, false
	}
	return *r, true
}

// Registers returns every register in the table in address order.
func (tab *Table) Registers() []Register {
	var l []Register
	for _, r := range tab.regs {
		if r != nil {
			l = append(l, *r)
		}
	}
	sort.Slice(l, func(i, j int) bool {
		return l[i].Offset < l[j].Offset
	})
	return l
}

// RegisterName returns the canonical name of the custom register at the
// address.
func RegisterName(address uint32) string {
	if n, ok := CanonicalNames[uint16(address&0x1fe)]; ok {
		return n
	}
	return fmt.Sprintf("%06x", CustomBase+(address&0x1fe))
}
