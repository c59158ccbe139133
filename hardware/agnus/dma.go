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
)

// DMACON bits.
const (
	aud0EN = 0x0001
	dskEN  = 0x0010
	sprEN  = 0x0020
	bltEN  = 0x0040
	copEN  = 0x0080
	bplEN  = 0x0100
	dmaEN  = 0x0200
	bltPRI = 0x0400
)

// BusOwner identifies the user of the bus in a DMA cycle.
type BusOwner int

// List of valid BusOwner values.
const (
	BusNone BusOwner = iota
	BusCPU
	BusRefresh
	BusDisk
	BusAudio
	BusBitplane1
	BusBitplane2
	BusBitplane3
	BusBitplane4
	BusBitplane5
	BusBitplane6
	BusSprite0
	BusSprite1
	BusSprite2
	BusSprite3
	BusSprite4
	BusSprite5
	BusSprite6
	BusSprite7
	BusCopper
	BusBlitter

	NumBusOwners
)

func (o BusOwner) String() string {
	switch {
	case o == BusNone:
		return "none"
	case o == BusCPU:
		return "CPU"
	case o == BusRefresh:
		return "refresh"
	case o == BusDisk:
		return "disk"
	case o == BusAudio:
		return "audio"
	case o >= BusBitplane1 && o <= BusBitplane6:
		return fmt.Sprintf("bitplane %d", int(o-BusBitplane1)+1)
	case o >= BusSprite0 && o <= BusSprite7:
		return fmt.Sprintf("sprite %d", int(o-BusSprite0))
	case o == BusCopper:
		return "copper"
	case o == BusBlitter:
		return "blitter"
	}
	return "unknown bus owner"
}

// DMACON returns the value of the DMA control register.
func (ag *Agnus) DMACON() uint16 {
	return ag.dmacon
}

// AudioDMA returns true if DMA is enabled for the audio channel. Implements
// the paula.Bus interface.
func (ag *Agnus) AudioDMA(nr int) bool {
	return audioDMA(ag.dmacon, nr)
}

func audioDMA(dmacon uint16, nr int) bool {
	return dmacon&dmaEN != 0 && dmacon&(aud0EN<<nr) != 0
}

// DiskDMAEnabled implements the paula.Bus interface.
func (ag *Agnus) DiskDMAEnabled() bool {
	return ag.dmacon&(dmaEN|dskEN) == dmaEN|dskEN
}

// CopperDMA returns true if the copper may use the bus.
func (ag *Agnus) CopperDMA() bool {
	return ag.dmacon&(dmaEN|copEN) == dmaEN|copEN
}

// BlitterDMA returns true if the blitter may use the bus.
func (ag *Agnus) BlitterDMA() bool {
	return ag.dmacon&(dmaEN|bltEN) == dmaEN|bltEN
}

// ReloadAudioPointer copies the location latch of the audio channel to its
// DMA pointer. Implements the paula.Bus interface.
func (ag *Agnus) ReloadAudioPointer(nr int) {
	ag.audpt[nr] = ag.audlc[nr]
}

// DiskToMemory implements the paula.Bus interface.
func (ag *Agnus) DiskToMemory(word uint16) {
	ag.DoDiskDMAWrite(word)
}

// MemoryToDisk implements the paula.Bus interface.
func (ag *Agnus) MemoryToDisk() uint16 {
	return ag.DoDiskDMARead()
}

// claim the bus for the current cycle
func (ag *Agnus) claim(owner BusOwner, value uint16) {
	ag.busOwner[ag.h] = owner
	ag.busValue[ag.h] = value
	ag.usage[owner]++
}

// BusIsFree returns true if the bus has not been used in the current cycle.
func (ag *Agnus) BusIsFree() bool {
	return ag.busOwner[ag.h] == BusNone
}

// AllocateBus claims the bus for the copper, blitter or CPU. The result is
// false if the bus is already in use or if DMA for the owner is disabled.
func (ag *Agnus) AllocateBus(owner BusOwner) bool {
	if !ag.BusIsFree() {
		return false
	}

	switch owner {
	case BusCopper:
		if !ag.CopperDMA() || ag.h == 0xe0 {
			return false
		}
	case BusBlitter:
		if !ag.BlitterDMA() {
			return false
		}
	case BusCPU:
	default:
		panic(fmt.Sprintf("agnus: bus cannot be allocated to %s", owner))
	}

	ag.busOwner[ag.h] = owner
	return true
}

// DoDiskDMARead reads the word at the disk pointer and advances the pointer.
func (ag *Agnus) DoDiskDMARead() uint16 {
	v := ag.ram.Peek16(ag.dskpt)
	ag.dskpt = (ag.dskpt + 2) & memory.PointerMask
	ag.claim(BusDisk, v)
	return v
}

// DoDiskDMAWrite writes the word at the disk pointer and advances the
// pointer.
func (ag *Agnus) DoDiskDMAWrite(v uint16) {
	ag.ram.Poke16(ag.dskpt, v)
	ag.dskpt = (ag.dskpt + 2) & memory.PointerMask
	ag.claim(BusDisk, v)
}

// DoAudioDMA reads the word at the audio pointer of the channel and advances
// the pointer.
func (ag *Agnus) DoAudioDMA(nr int) uint16 {
	v := ag.ram.Peek16(ag.audpt[nr])
	ag.audpt[nr] = (ag.audpt[nr] + 2) & memory.PointerMask
	ag.claim(BusAudio, v)
	return v
}

// DoBitplaneDMA reads the word at the bitplane pointer and advances the
// pointer.
func (ag *Agnus) DoBitplaneDMA(plane int) uint16 {
	v := ag.ram.Peek16(ag.bplpt[plane])
	ag.bplpt[plane] = (ag.bplpt[plane] + 2) & memory.PointerMask
	ag.claim(BusBitplane1+BusOwner(plane), v)
	return v
}

// DoSpriteDMA reads the word at the sprite pointer and advances the pointer.
func (ag *Agnus) DoSpriteDMA(nr int) uint16 {
	v := ag.ram.Peek16(ag.sprpt[nr])
	ag.sprpt[nr] = (ag.sprpt[nr] + 2) & memory.PointerMask
	ag.claim(BusSprite0+BusOwner(nr), v)
	return v
}

// DoCopperDMA reads the word at the address on behalf of the copper.
func (ag *Agnus) DoCopperDMA(address uint32) uint16 {
	v := ag.ram.Peek16(address)
	ag.claim(BusCopper, v)
	return v
}

// DoBlitterDMARead reads the word at the address on behalf of the blitter.
func (ag *Agnus) DoBlitterDMARead(address uint32) uint16 {
	v := ag.ram.Peek16(address)
	ag.claim(BusBlitter, v)
	return v
}

// DoBlitterDMAWrite writes the word at the address on behalf of the blitter.
func (ag *Agnus) DoBlitterDMAWrite(address uint32, v uint16) {
	ag.ram.Poke16(address, v)
	ag.claim(BusBlitter, v)
}

// add the modulo to the pointer of the bitplane after the last fetch of the
// line. odd bitplanes use BPL1MOD
func (ag *Agnus) addBPLMOD(plane int) {
	mod := ag.bpl1mod
	if plane&0x01 == 0x01 {
		mod = ag.bpl2mod
	}
	ag.bplpt[plane] = uint32(int64(ag.bplpt[plane])+int64(mod)) & memory.PointerMask
}

// ClearStats resets the bus usage statistics.
func (ag *Agnus) ClearStats() {
	ag.usage = [NumBusOwners]int64{}
}

// Usage returns the number of DMA cycles used by each bus owner since the
// statistics were last cleared.
func (ag *Agnus) Usage() [NumBusOwners]int64 {
	return ag.usage
}

// BusOwners returns the owner of the bus for every cycle of the current line.
func (ag *Agnus) BusOwners() [clocks.HPOSCount]BusOwner {
	return ag.busOwner
}
