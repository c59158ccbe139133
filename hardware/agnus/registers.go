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

package agnus

import (
	"fmt"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// register offsets handled by applyChange()
const (
	regDMACON  = 0x096
	regBPLCON0 = 0x100
	regBPLCON1 = 0x102
)

// delays between a register write and the change taking effect
const (
	dmaconDelay  = 2
	bplcon0Delay = 4
)

// applyChange is called by the REG slot with a delayed register write.
func (ag *Agnus) applyChange(address uint32, value uint16) {
	switch address & 0x1fe {
	case regDMACON:
		ag.SetDMACON(value)
	case regBPLCON0:
		ag.SetBPLCON0(value)
	case regBPLCON1:
		ag.SetBPLCON1(value)
	default:
		if ag.apply != nil {
			ag.apply(address, value)
		}
	}
}

// PokeDMACON writes the DMA control register. The change takes effect two
// DMA cycles later.
func (ag *Agnus) PokeDMACON(value uint16) {
	ag.RecordRegisterChange(clocks.DMACycles(dmaconDelay), regDMACON, value)
}

// DMACONR is the readable value of DMACON.
func (ag *Agnus) DMACONR() uint16 {
	return ag.dmacon
}

// SetDMACON changes the value of DMACON immediately. Bit 15 selects between
// setting and clearing the bits in value.
func (ag *Agnus) SetDMACON(value uint16) {
	old := ag.dmacon
	if value&0x8000 == 0x8000 {
		ag.dmacon |= value & 0x07ff
	} else {
		ag.dmacon &^= value & 0x07ff
	}
	if old == ag.dmacon {
		return
	}

	if ag.paula != nil {
		for nr, ch := range ag.paula.Audio {
			was := audioDMA(old, nr)
			now := audioDMA(ag.dmacon, nr)
			if !was && now {
				ag.audpt[nr] = ag.audlc[nr]
				ch.EnableDMA()
			} else if was && !now {
				ch.DisableDMA()
			}
		}
	}

	if dasBits(ag.v, old) != dasBits(ag.v, ag.dmacon) {
		ag.UpdateDasEvents(dasBits(ag.v, ag.dmacon))
		ag.rescheduleDas()
	}

	if (old^ag.dmacon)&(dmaEN|bplEN) != 0 {
		ag.UpdateBplEvents(ag.dmacon, ag.bplcon0, ag.h+2, clocks.HPOSMax)
		ag.rescheduleBpl()
	}
}

// an event in the current cycle is left to run. its handler schedules the
// next event from the new table
func (ag *Agnus) rescheduleDas() {
	if ag.Sched.IsDue(scheduler.DAS, ag.clock) {
		return
	}
	ag.ScheduleNextDasEvent(ag.h)
}

func (ag *Agnus) rescheduleBpl() {
	if ag.Sched.IsDue(scheduler.BPL, ag.clock) {
		return
	}
	ag.ScheduleNextBplEvent(ag.h)
}

// PokeBPLCON0 writes the bitplane control register. The change takes effect
// four DMA cycles later.
func (ag *Agnus) PokeBPLCON0(value uint16) {
	ag.RecordRegisterChange(clocks.DMACycles(bplcon0Delay), regBPLCON0, value)
}

// SetBPLCON0 changes the value of BPLCON0 immediately.
func (ag *Agnus) SetBPLCON0(value uint16) {
	old := ag.bplcon0
	ag.bplcon0 = value
	if old == value {
		return
	}

	// only the resolution and the number of bitplanes change the fetch
	// pattern
	if (old^value)&0xf000 != 0 {
		ag.UpdateBplEvents(ag.dmacon, ag.bplcon0, ag.h+2, clocks.HPOSMax)
		ag.rescheduleBpl()
	}
}

// BPLCON0 returns the value of the bitplane control register.
func (ag *Agnus) BPLCON0() uint16 {
	return ag.bplcon0
}

// PokeBPLCON1 writes the scroll register.
func (ag *Agnus) PokeBPLCON1(value uint16) {
	ag.RecordRegisterChange(clocks.DMACycles(1), regBPLCON1, value)
}

// SetBPLCON1 changes the scroll values immediately. The drawing flags of the
// rest of the line are recomputed.
func (ag *Agnus) SetBPLCON1(value uint16) {
	value &= 0xff
	if ag.bplcon1 == value {
		return
	}
	ag.bplcon1 = value
	ag.UpdateBplEvents(ag.dmacon, ag.bplcon0, ag.h+2, clocks.HPOSMax)
	ag.rescheduleBpl()
}

// PokeDDFSTRT writes the start of the fetch window. The window of the current
// line is not changed.
func (ag *Agnus) PokeDDFSTRT(value uint16) {
	ag.ddfstrt = value & 0xfc
}

// PokeDDFSTOP writes the end of the fetch window.
func (ag *Agnus) PokeDDFSTOP(value uint16) {
	ag.ddfstop = value & 0xfc
}

// PokeDIWSTRT writes the start of the display window.
func (ag *Agnus) PokeDIWSTRT(value uint16) {
	ag.diwstrt = value
}

// PokeDIWSTOP writes the end of the display window.
func (ag *Agnus) PokeDIWSTOP(value uint16) {
	ag.diwstop = value
}

// PokeBPL1MOD writes the modulo of the odd bitplanes.
func (ag *Agnus) PokeBPL1MOD(value uint16) {
	ag.bpl1mod = int16(value & 0xfffe)
}

// PokeBPL2MOD writes the modulo of the even bitplanes.
func (ag *Agnus) PokeBPL2MOD(value uint16) {
	ag.bpl2mod = int16(value & 0xfffe)
}

// VPOSR returns the long frame bit and the high bit of the vertical position.
func (ag *Agnus) VPOSR() uint16 {
	return uint16(ag.v>>8) & 0x01
}

// VHPOSR returns the low bits of the vertical position and the horizontal
// position.
func (ag *Agnus) VHPOSR() uint16 {
	return uint16(ag.v&0xff)<<8 | uint16(ag.h&0xff)
}

func setHigh(p uint32, value uint16) uint32 {
	return (p&0x0000ffff | uint32(value)<<16) & memory.PointerMask
}

func setLow(p uint32, value uint16) uint32 {
	return (p&0xffff0000 | uint32(value)) & memory.PointerMask
}

// SetBitplanePointer sets the DMA pointer of the bitplane.
func (ag *Agnus) SetBitplanePointer(plane int, address uint32) {
	ag.bplpt[plane] = address & memory.PointerMask
}

// SetAudioLocation sets the location latch of the audio channel.
func (ag *Agnus) SetAudioLocation(nr int, address uint32) {
	ag.audlc[nr] = address & memory.PointerMask
}

// SetDiskPointer sets the disk DMA pointer.
func (ag *Agnus) SetDiskPointer(address uint32) {
	ag.dskpt = address & memory.PointerMask
}

// SetSpritePointer sets the DMA pointer of the sprite.
func (ag *Agnus) SetSpritePointer(nr int, address uint32) {
	ag.sprpt[nr] = address & memory.PointerMask
}

// MapRegisters adds the Agnus registers to the register table.
func (ag *Agnus) MapRegisters(tab *memory.Table) error {
	regs := []memory.Register{
		{Offset: 0x002, Name: "DMACONR", Peek: ag.DMACONR},
		{Offset: 0x004, Name: "VPOSR", Peek: ag.VPOSR},
		{Offset: 0x006, Name: "VHPOSR", Peek: ag.VHPOSR},
		{Offset: 0x020, Name: "DSKPTH", Poke: func(v uint16) { ag.dskpt = setHigh(ag.dskpt, v) }},
		{Offset: 0x022, Name: "DSKPTL", Poke: func(v uint16) { ag.dskpt = setLow(ag.dskpt, v) }},
		{Offset: 0x08e, Name: "DIWSTRT", Poke: ag.PokeDIWSTRT},
		{Offset: 0x090, Name: "DIWSTOP", Poke: ag.PokeDIWSTOP},
		{Offset: 0x092, Name: "DDFSTRT", Poke: ag.PokeDDFSTRT},
		{Offset: 0x094, Name: "DDFSTOP", Poke: ag.PokeDDFSTOP},
		{Offset: regDMACON, Name: "DMACON", Poke: ag.PokeDMACON},
		{Offset: regBPLCON0, Name: "BPLCON0", Poke: ag.PokeBPLCON0},
		{Offset: regBPLCON1, Name: "BPLCON1", Poke: ag.PokeBPLCON1},
		{Offset: 0x108, Name: "BPL1MOD", Poke: ag.PokeBPL1MOD},
		{Offset: 0x10a, Name: "BPL2MOD", Poke: ag.PokeBPL2MOD},
	}

	for i := 0; i < 4; i++ {
		nr := i
		base := uint16(0x0a0 + nr*0x10)
		regs = append(regs,
			memory.Register{Offset: base, Name: fmt.Sprintf("AUD%dLCH", nr), Poke: func(v uint16) { ag.audlc[nr] = setHigh(ag.audlc[nr], v) }},
			memory.Register{Offset: base + 0x02, Name: fmt.Sprintf("AUD%dLCL", nr), Poke: func(v uint16) { ag.audlc[nr] = setLow(ag.audlc[nr], v) }},
		)
	}

	for i := 0; i < 6; i++ {
		plane := i
		base := uint16(0x0e0 + plane*4)
		regs = append(regs,
			memory.Register{Offset: base, Name: fmt.Sprintf("BPL%dPTH", plane+1), Poke: func(v uint16) { ag.bplpt[plane] = setHigh(ag.bplpt[plane], v) }},
			memory.Register{Offset: base + 0x02, Name: fmt.Sprintf("BPL%dPTL", plane+1), Poke: func(v uint16) { ag.bplpt[plane] = setLow(ag.bplpt[plane], v) }},
		)
	}

	for i := 0; i < 8; i++ {
		nr := i
		base := uint16(0x120 + nr*4)
		regs = append(regs,
			memory.Register{Offset: base, Name: fmt.Sprintf("SPR%dPTH", nr), Poke: func(v uint16) { ag.sprpt[nr] = setHigh(ag.sprpt[nr], v) }},
			memory.Register{Offset: base + 0x02, Name: fmt.Sprintf("SPR%dPTL", nr), Poke: func(v uint16) { ag.sprpt[nr] = setLow(ag.sprpt[nr], v) }},
		)

		pos := uint16(0x140 + nr*8)
		regs = append(regs,
			memory.Register{Offset: pos, Name: fmt.Sprintf("SPR%dPOS", nr), Poke: ag.sprites[nr].pokePOS},
			memory.Register{Offset: pos + 0x02, Name: fmt.Sprintf("SPR%dCTL", nr), Poke: ag.sprites[nr].pokeCTL},
		)
	}

	for _, r := range regs {
		if err := tab.Add(r.Offset, r.Name, r.Peek, r.Poke); err != nil {
			return err
		}
	}

	return nil
}
