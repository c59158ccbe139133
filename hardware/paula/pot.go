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

package paula

import (
	"math"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// PotLine identifies one of the four potentiometer inputs.
type PotLine int

// List of valid PotLine values. The value is also the position of the line's
// DAT bit in POTGO, counting in pairs of bits from bit 8.
const (
	PotX0 PotLine = iota
	PotY0
	PotX1
	PotY1
)

// number of lines the capacitors are discharged for after a POTGO start
const potDischargeLines = 8

type pot struct {
	potgo uint16

	// capacitor charge of each line. a line reads as high when the charge
	// reaches 1.0
	charge [4]float64

	// charge added to each line once per scanline. set by the peripheral
	// connected to the port
	delta [4]float64

	// counters visible in POT0DAT and POT1DAT
	count [4]uint8

	// the counters are incremented on every hsync while counting is true
	counting bool
}

func (p *pot) reset() {
	p.potgo = 0
	p.charge = [4]float64{}
	p.count = [4]uint8{}
	p.counting = false
}

// the line is configured as an output
func (p *pot) out(l PotLine) bool {
	return p.potgo&(0x0200<<(2*l)) != 0
}

// the output value of the line
func (p *pot) dat(l PotLine) bool {
	return p.potgo&(0x0100<<(2*l)) != 0
}

func (p *pot) hsync() {
	if !p.counting {
		return
	}
	for l := range p.count {
		if !p.out(PotLine(l)) && p.charge[l] < 1.0 {
			p.count[l]++
		}
	}
}

func (p *pot) save(s *savestate.State) {
	s.Write16(p.potgo)
	for l := range p.charge {
		s.Write64(math.Float64bits(p.charge[l]))
		s.Write8(p.count[l])
	}
	s.WriteBool(p.counting)
}

func (p *pot) load(s *savestate.State) {
	p.potgo = s.Read16()
	for l := range p.charge {
		p.charge[l] = math.Float64frombits(s.Read64())
		p.count[l] = s.Read8()
	}
	p.counting = s.ReadBool()
}

// SetPotCharge sets how quickly the capacitor of the line charges, as a
// fraction of full charge per scanline. A value of zero means that nothing
// is connected to the line.
func (pl *Paula) SetPotCharge(l PotLine, delta float64) {
	pl.pot.delta[l] = max(0, delta)
}

// PokePOTGO writes the potentiometer control register. Lines configured as
// outputs are driven to their DAT value immediately. Bit 0 starts the
// measurement: the counters are cleared and the capacitors discharged for
// eight lines, beginning at the end of the current line.
func (pl *Paula) PokePOTGO(value uint16) {
	pl.pot.potgo = value

	for l := PotX0; l <= PotY1; l++ {
		if pl.pot.out(l) {
			if pl.pot.dat(l) {
				pl.pot.charge[l] = 1.0
			} else {
				pl.pot.charge[l] = 0.0
			}
		}
	}

	if value&0x0001 == 0x0001 {
		pl.pot.count = [4]uint8{}
		pl.pot.counting = false
		pl.sched.ScheduleRel(scheduler.POT, pl.toLineEnd(), scheduler.PotDischarge, potDischargeLines)
	}
}

// PeekPOTGOR returns the level of every potentiometer line.
func (pl *Paula) PeekPOTGOR() uint16 {
	var v uint16
	for l := PotX0; l <= PotY1; l++ {
		if pl.pot.charge[l] >= 1.0 {
			v |= 0x0100 << (2 * l)
		}
	}
	return v
}

// PeekPOT0DAT returns the counters of the first control port.
func (pl *Paula) PeekPOT0DAT() uint16 {
	return uint16(pl.pot.count[PotY0])<<8 | uint16(pl.pot.count[PotX0])
}

// PeekPOT1DAT returns the counters of the second control port.
func (pl *Paula) PeekPOT1DAT() uint16 {
	return uint16(pl.pot.count[PotY1])<<8 | uint16(pl.pot.count[PotX1])
}

func (pl *Paula) servicePotEvent(id scheduler.EventID, remaining int64) {
	p := &pl.pot

	switch id {
	case scheduler.PotDischarge:
		remaining--
		if remaining > 0 {
			for l := PotX0; l <= PotY1; l++ {
				if !p.out(l) {
					p.charge[l] = 0.0
				}
			}
			pl.sched.ScheduleRel(scheduler.POT, clocks.DMACycles(clocks.HPOSCount), scheduler.PotDischarge, remaining)
			return
		}

		// input counters start at -1 and wrap to zero on the next hsync
		for l := PotX0; l <= PotY1; l++ {
			if p.out(l) {
				p.count[l] = 0
			} else {
				p.count[l] = 0xff
			}
		}
		p.counting = true
		pl.sched.ScheduleRel(scheduler.POT, clocks.DMACycles(clocks.HPOSCount), scheduler.PotCharge, 0)

	case scheduler.PotCharge:
		var cont bool
		for l := PotX0; l <= PotY1; l++ {
			if !p.out(l) && p.delta[l] > 0 && p.charge[l] < 1.0 {
				p.charge[l] += p.delta[l]
				cont = true
			}
		}
		if cont {
			pl.sched.ScheduleRel(scheduler.POT, clocks.DMACycles(clocks.HPOSCount), scheduler.PotCharge, 0)
		} else {
			p.counting = false
			pl.sched.Cancel(scheduler.POT)
		}
	}
}
