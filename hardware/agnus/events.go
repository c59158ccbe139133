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
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// beam positions of the vertical blank strobes
const (
	strobe1Line = 5
	strobe1Pos  = 84
	strobe2Line = 5
	strobe2Pos  = 178
)

// refresh cycles of every line
var refreshPositions = [...]int{0x01, 0x03, 0x05, 0xe2}

// dasBits returns the DMACON bits that decide the disk, audio and sprite
// table for the line.
func dasBits(v int, dmacon uint16) uint16 {
	if dmacon&dmaEN == 0 {
		return 0
	}
	bits := dmacon & 0x3f
	if v < sprFirstLine || v >= sprLastLine {
		bits &^= sprEN
	}
	return bits
}

// vertical start and stop lines of the display window. bit 8 of the stop
// line is the inverse of bit 7
func (ag *Agnus) diwVstrt() int {
	return int(ag.diwstrt >> 8)
}

func (ag *Agnus) diwVstop() int {
	return int(ag.diwstop>>8) | int(^ag.diwstop&0x8000)>>7
}

// the RAS slot is serviced in the last cycle of every line. the tables for
// the next line are built here so that BPL_EOL and the first DAS event can
// be scheduled from them
func (ag *Agnus) serviceRasEvent(_ scheduler.EventID, _ int64) {
	next := ag.v + 1
	lastLine := next > clocks.VPOSMax
	if lastLine {
		next = 0
	}

	if ag.paula != nil {
		ag.paula.HSync()
	}

	if next == 0 {
		ag.diwVFlop = false
	}
	if next == ag.diwVstrt() && !ag.diwVFlop {
		ag.diwVFlop = true
	}
	if next == ag.diwVstop() && ag.diwVFlop {
		ag.diwVFlop = false
	}

	ag.UpdateBplEvents(ag.dmacon, ag.bplcon0, 0, clocks.HPOSMax)
	ag.UpdateDasEvents(dasBits(next, ag.dmacon))
	ag.scheduleFirstDasEvent()

	if lastLine {
		ag.Sched.ScheduleRel(scheduler.VBL, clocks.DMACycles(1), scheduler.VblStrobe0, 0)
	}

	ag.Sched.ScheduleRel(scheduler.RAS, clocks.DMACycles(clocks.HPOSCount), scheduler.RasHSync, 0)
}

func (ag *Agnus) draw(id scheduler.EventID) {
	if ag.denise == nil {
		return
	}
	odd := id&scheduler.DrawOdd == scheduler.DrawOdd
	even := id&scheduler.DrawEven == scheduler.DrawEven
	if odd || even {
		ag.denise.Draw(hires(ag.bplcon0), odd, even)
	}
}

func (ag *Agnus) fetchBitplane(plane int, unit int) {
	v := ag.DoBitplaneDMA(plane)
	if ag.denise != nil {
		ag.denise.SetBPLxDAT(plane, v)
	}

	// modulo is added in the last fetch unit
	if ag.h > ag.ddfLast-unit {
		ag.addBPLMOD(plane)
	}
}

func (ag *Agnus) serviceBplEvent(id scheduler.EventID, _ int64) {
	base := scheduler.BplBase(id)

	switch {
	case base >= scheduler.BplL1 && base <= scheduler.BplL6:
		plane := int(base-scheduler.BplL1) / 4
		if plane == 0 {
			ag.draw(id)
			ag.fetchBitplane(plane, 8)
		} else {
			ag.fetchBitplane(plane, 8)
			ag.draw(id)
		}

	case base >= scheduler.BplH1 && base <= scheduler.BplH4:
		plane := int(base-scheduler.BplH1) / 4
		if plane == 0 {
			ag.draw(id)
			ag.fetchBitplane(plane, 4)
		} else {
			ag.fetchBitplane(plane, 4)
			ag.draw(id)
		}

	case base == scheduler.BplEOL:
		ag.draw(id)
		ag.scheduleFirstBplEvent()
		return

	default:
		// EventNone and BplSR only carry drawing flags
		ag.draw(id)
	}

	ag.ScheduleNextBplEvent(ag.h)
}

func (ag *Agnus) serviceDasEvent(id scheduler.EventID, _ int64) {
	switch {
	case id == scheduler.DasRefresh:
		for _, h := range refreshPositions {
			ag.busOwner[h] = BusRefresh
		}
		ag.usage[BusRefresh] += int64(len(refreshPositions))

	case id >= scheduler.DasD0 && id <= scheduler.DasD2:
		if ag.paula != nil {
			ag.paula.Disk.PerformDMA()
		}

	case id >= scheduler.DasA0 && id <= scheduler.DasA3:
		nr := int(id - scheduler.DasA0)
		if ag.paula != nil {
			ch := ag.paula.Audio[nr]
			if ch.DMARequest() {
				ch.WriteDMA(ag.DoAudioDMA(nr))
			}
		}

	case id >= scheduler.DasS0_1 && id <= scheduler.DasS7_2:
		n := int(id - scheduler.DasS0_1)
		if n&0x01 == 0 {
			ag.executeFirstSpriteCycle(n / 2)
		} else {
			ag.executeSecondSpriteCycle(n / 2)
		}

	case id == scheduler.DasSDMA:
		ag.updateSpriteDMA()

	case id == scheduler.DasTick:
		if ag.todB != nil {
			ag.todB.IncrementTOD()
		}

	case id == scheduler.DasTick2:
		// the second half of the TOD increment has no visible effect
	}

	ag.ScheduleNextDasEvent(ag.h)
}

func (ag *Agnus) serviceVblEvent(id scheduler.EventID, _ int64) {
	switch id {
	case scheduler.VblStrobe0:
		if ag.paula != nil {
			ag.paula.IRQ.RaiseIrq(interrupts.VERTB)
		}
		ag.Sched.ScheduleAbs(scheduler.VBL, ag.BeamToCycle(strobe1Line, strobe1Pos), scheduler.VblStrobe1, 0)

	case scheduler.VblStrobe1:
		if ag.todA != nil {
			ag.todA.IncrementTOD()
		}
		ag.Sched.ScheduleAbs(scheduler.VBL, ag.BeamToCycle(strobe2Line, strobe2Pos), scheduler.VblStrobe2, 0)

	case scheduler.VblStrobe2:
		for _, f := range ag.observers {
			f(ag.frame)
		}

		// the raster event arms the next strobe in the last line of the
		// frame
		ag.Sched.Cancel(scheduler.VBL)
	}
}

func (ag *Agnus) serviceInsEvent(id scheduler.EventID, _ int64) {
	if ag.inspector != nil {
		ag.inspector(id)
	}
	if ag.inspection > 0 {
		ag.Sched.ScheduleRel(scheduler.INS, ag.inspection, id, 0)
	} else {
		ag.Sched.Cancel(scheduler.INS)
	}
}
