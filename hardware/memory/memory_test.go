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

package memory_test

import (
	"strings"
	"testing"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/test"
)

func TestChipRAM(t *testing.T) {
	ram := memory.NewChipRAM()

	ram.Poke16(0x1000, 0x1234)
	test.ExpectEquality(t, ram.Peek16(0x1000), uint16(0x1234))
	test.ExpectEquality(t, ram.Peek8(0x1000), uint8(0x12))
	test.ExpectEquality(t, ram.Peek8(0x1001), uint8(0x34))

	// odd addresses are word aligned
	test.ExpectEquality(t, ram.Peek16(0x1001), uint16(0x1234))

	// addresses wrap
	ram.Poke16(memory.ChipRAMSize+0x2000, 0xabcd)
	test.ExpectEquality(t, ram.Peek16(0x2000), uint16(0xabcd))

	test.ExpectSuccess(t, ram.LoadData(0x3000, []uint8{1, 2, 3}))
	test.ExpectEquality(t, ram.Peek8(0x3002), uint8(3))

	err := ram.LoadData(memory.ChipRAMSize-1, []uint8{1, 2})
	test.ExpectEquality(t, curated.Is(err, memory.LoadOutOfRange), true)

	test.ExpectEquality(t, len(ram.Slice(0x3000, 0x3010)), 16)
	test.ExpectEquality(t, strings.HasPrefix(ram.Dump(0x3000, 0x3010), "003000 | 01 02 03"), true)

	ram.Clear()
	test.ExpectEquality(t, ram.Peek16(0x1000), uint16(0))
}

func TestRegisterTable(t *testing.T) {
	tab := memory.NewTable()

	var dmacon uint16
	test.ExpectSuccess(t, tab.Add(0x096, "DMACON", nil, func(v uint16) { dmacon = v }))
	test.ExpectSuccess(t, tab.Add(0x002, "DMACONR", func() uint16 { return dmacon }, nil))

	err := tab.Add(0x096, "DMACON", nil, nil)
	test.ExpectEquality(t, curated.Is(err, memory.RegisterDuplicate), true)
	err = tab.Add(0x097, "ODD", nil, nil)
	test.ExpectEquality(t, curated.Is(err, memory.RegisterMisaligned), true)
	err = tab.Add(0x200, "FAR", nil, nil)
	test.ExpectEquality(t, curated.Is(err, memory.RegisterOutOfRange), true)

	tab.PokeCustom16(0xdff096, 0x8200)
	test.ExpectEquality(t, dmacon, uint16(0x8200))
	test.ExpectEquality(t, tab.PeekCustom16(0xdff002), uint16(0x8200))

	// write only and unmapped registers read as zero
	test.ExpectEquality(t, tab.PeekCustom16(0xdff096), uint16(0))
	test.ExpectEquality(t, tab.PeekCustom16(0xdff180), uint16(0))

	regs := tab.Registers()
	test.DemandEquality(t, len(regs), 2)
	test.ExpectEquality(t, regs[0].Name, "DMACONR")
	test.ExpectEquality(t, regs[1].Address(), uint32(0xdff096))
	test.ExpectEquality(t, regs[1].String(), "dff096 DMACON   W")

	r, ok := tab.Lookup(0xdff002)
	test.ExpectEquality(t, ok, true)
	test.ExpectEquality(t, r.Name, "DMACONR")
}

func TestRegisterName(t *testing.T) {
	test.ExpectEquality(t, memory.RegisterName(0xdff0a4), "AUD0LEN")
	test.ExpectEquality(t, memory.RegisterName(0xdff024), "DSKLEN")
	test.ExpectEquality(t, memory.RegisterName(0xdff1fe), "dff1fe")
}
