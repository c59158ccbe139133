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
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/savestate"
)

// sprite DMA is possible between these lines
const (
	sprFirstLine = 25
	sprLastLine  = clocks.VPOSMax
)

type sprite struct {
	vstart int
	vstop  int
	active bool

	// first data word of the line. passed to Denise with the second
	dataA uint16
}

func (spr *sprite) pokePOS(value uint16) {
	spr.vstart = spr.vstart&0x100 | int(value>>8)
}

func (spr *sprite) pokeCTL(value uint16) {
	spr.vstart = int(value&0x04)<<6 | spr.vstart&0xff
	spr.vstop = int(value&0x02)<<7 | int(value>>8)
}

func (spr *sprite) save(s *savestate.State) {
	s.Write16(uint16(spr.vstart))
	s.Write16(uint16(spr.vstop))
	s.WriteBool(spr.active)
	s.Write16(spr.dataA)
}

func (spr *sprite) load(s *savestate.State) {
	spr.vstart = int(s.Read16())
	spr.vstop = int(s.Read16())
	spr.active = s.ReadBool()
	spr.dataA = s.Read16()
}

// updateSpriteDMA decides which sprites fetch data in the line to come.
func (ag *Agnus) updateSpriteDMA() {
	v := ag.v + 1

	// control words are fetched in the first line of the sprite DMA area
	if v == sprFirstLine && ag.dmacon&(dmaEN|sprEN) == dmaEN|sprEN {
		for i := range ag.sprites {
			ag.sprites[i].vstop = sprFirstLine
		}
		return
	}

	if v == sprLastLine {
		for i := range ag.sprites {
			ag.sprites[i].active = false
		}
		return
	}

	for i := range ag.sprites {
		spr := &ag.sprites[i]
		if v == spr.vstart {
			spr.active = true
		}
		if v == spr.vstop {
			spr.active = false
		}
	}
}

// the first DMA cycle of a sprite fetches either the POS control word or the
// first data word
func (ag *Agnus) executeFirstSpriteCycle(nr int) {
	spr := &ag.sprites[nr]

	if ag.v == spr.vstop {
		spr.active = false
		if ag.BusIsFree() {
			spr.pokePOS(ag.DoSpriteDMA(nr))
		}
		return
	}

	if spr.active && ag.BusIsFree() {
		spr.dataA = ag.DoSpriteDMA(nr)
	}
}

// the second DMA cycle fetches either the CTL control word or the second data
// word
func (ag *Agnus) executeSecondSpriteCycle(nr int) {
	spr := &ag.sprites[nr]

	if ag.v == spr.vstop {
		spr.active = false
		if ag.BusIsFree() {
			spr.pokeCTL(ag.DoSpriteDMA(nr))
		}
		return
	}

	if spr.active && ag.BusIsFree() {
		dataB := ag.DoSpriteDMA(nr)
		if ag.denise != nil {
			ag.denise.SetSPRxDAT(nr, uint32(spr.dataA)<<16|uint32(dataB))
		}
	}
}
