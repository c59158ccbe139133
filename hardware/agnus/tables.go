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
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// lookup tables are indexed by resolution, number of bitplanes and position
// relative to the start of the fetch window
var bplDMA [2][7][clocks.HPOSCount]scheduler.EventID

// lookup table indexed by the lower six bits of DMACON and the horizontal
// position
var dasDMA [64][clocks.HPOSCount]scheduler.EventID

// the position of the bitplane fetches within a fetch unit
var loresFetch = [6]int{7, 3, 5, 1, 6, 2}
var hiresFetch = [4][2]int{{3, 7}, {1, 5}, {2, 6}, {0, 4}}

// first and last cycle of the fetch window allowed by the hardware
const (
	ddfMin = 0x18
	ddfMax = 0xd8
)

func init() {
	for bpu := 0; bpu <= 6; bpu++ {
		for unit := 0; unit <= ddfMax; unit += 8 {
			for plane := 0; plane < bpu; plane++ {
				bplDMA[0][bpu][unit+loresFetch[plane]] = scheduler.BplL1 + scheduler.EventID(plane*4)
			}

			// hires allows four bitplanes at most
			for plane := 0; plane < min(bpu, 4); plane++ {
				for _, p := range hiresFetch[plane] {
					bplDMA[1][bpu][unit+p] = scheduler.BplH1 + scheduler.EventID(plane*4)
				}
			}
		}
	}

	for dmacon := range dasDMA {
		p := &dasDMA[dmacon]

		p[0x01] = scheduler.DasRefresh

		if dmacon&dskEN != 0 {
			p[0x07] = scheduler.DasD0
			p[0x09] = scheduler.DasD1
			p[0x0b] = scheduler.DasD2
		}

		// audio slots are present even when audio DMA is off. the channel
		// decides whether a word is fetched
		p[0x0d] = scheduler.DasA0
		p[0x0f] = scheduler.DasA1
		p[0x11] = scheduler.DasA2
		p[0x13] = scheduler.DasA3

		if dmacon&sprEN != 0 {
			for i := 0; i < 16; i++ {
				p[0x15+i*2] = scheduler.DasS0_1 + scheduler.EventID(i)
			}
		}

		p[0x52] = scheduler.DasTick2
		p[0x66] = scheduler.DasTick
		p[0xdf] = scheduler.DasSDMA
	}
}

// bpu returns the number of bitplanes selected by BPLCON0. An invalid value
// in lores selects four bitplanes and in hires selects none.
func bpu(bplcon0 uint16) int {
	n := int((bplcon0 >> 12) & 0x07)
	if hires(bplcon0) {
		if n > 4 {
			return 0
		}
		return n
	}
	if n > 6 {
		return 4
	}
	return n
}

func hires(bplcon0 uint16) bool {
	return bplcon0&0x8000 == 0x8000
}

// ddfWindow returns the first and last cycle of the fetch window. The result
// is false if the window is empty.
func (ag *Agnus) ddfWindow() (int, int, bool) {
	strt := max(int(ag.ddfstrt&0xfc), ddfMin)
	stop := min(int(ag.ddfstop&0xfc), ddfMax)
	if stop < strt {
		return 0, 0, false
	}
	units := (stop-strt)/8 + 1
	return strt, strt + units*8 - 1, true
}

// inBplDmaLine returns true if bitplane DMA takes place in the current line.
func (ag *Agnus) inBplDmaLine(dmacon uint16, bplcon0 uint16) bool {
	return ag.diwVFlop && bpu(bplcon0) > 0 && dmacon&(dmaEN|bplEN) == dmaEN|bplEN
}

// UpdateBplEvents rebuilds the bitplane event table between the first and
// last positions. The table always ends with a BPL_EOL event.
func (ag *Agnus) UpdateBplEvents(dmacon uint16, bplcon0 uint16, first int, last int) {
	first = max(first, 0)
	last = min(last, clocks.HPOSMax)

	channels := bpu(bplcon0)
	res := 0
	if hires(bplcon0) {
		res = 1
	}

	var inWindow bool
	ag.ddfFirst, ag.ddfLast, inWindow = ag.ddfWindow()
	if !inWindow || !ag.inBplDmaLine(dmacon, bplcon0) {
		channels = 0
	}

	for i := first; i <= last; i++ {
		if channels > 0 && i >= ag.ddfFirst && i <= ag.ddfLast {
			ag.bplEvent[i] = bplDMA[res][channels][i-ag.ddfFirst]
		} else {
			ag.bplEvent[i] = scheduler.EventNone
		}
	}
	ag.bplEvent[clocks.HPOSMax] = scheduler.BplEOL

	if channels > 0 {
		ag.UpdateDrawingFlags(res == 1)
	} else {
		ag.updateBplJumpTable()
	}
}

// UpdateDrawingFlags superimposes the drawing flags on the bitplane event
// table. The flags are set at the end of every fetch unit, delayed by the
// scroll values in BPLCON1.
func (ag *Agnus) UpdateDrawingFlags(hires bool) {
	var unit, odd, even int
	if hires {
		unit = 4
		odd = int(ag.bplcon1&0x06) >> 1
		even = int(ag.bplcon1&0x60) >> 5
	} else {
		unit = 8
		odd = int(ag.bplcon1&0x0e) >> 1
		even = int(ag.bplcon1&0xe0) >> 5
	}

	end := min(ag.ddfLast+unit, clocks.HPOSMax)
	for i := ag.ddfFirst + unit - 1 + odd; i <= end; i += unit {
		ag.bplEvent[i] |= scheduler.DrawOdd
	}
	for i := ag.ddfFirst + unit - 1 + even; i <= end; i += unit {
		ag.bplEvent[i] |= scheduler.DrawEven
	}

	ag.updateBplJumpTable()
}

// UpdateDasEvents rebuilds the disk, audio and sprite event table for the
// lower six bits of DMACON.
func (ag *Agnus) UpdateDasEvents(dmacon uint16) {
	ag.dasEvent = dasDMA[dmacon&0x3f]
	ag.updateDasJumpTable()
}

// the jump tables are built backwards. an entry of zero means that there
// are no more events in the line
func (ag *Agnus) updateBplJumpTable() {
	var next uint8
	for i := clocks.HPOSMax; i >= 0; i-- {
		ag.nextBplEvent[i] = next
		if ag.bplEvent[i] != scheduler.EventNone {
			next = uint8(i)
		}
	}
}

func (ag *Agnus) updateDasJumpTable() {
	var next uint8
	for i := clocks.HPOSMax; i >= 0; i-- {
		ag.nextDasEvent[i] = next
		if ag.dasEvent[i] != scheduler.EventNone {
			next = uint8(i)
		}
	}
}

// ScheduleNextBplEvent arms the BPL slot with the next event after the
// position. The slot is left alone if there are no more events in the line.
func (ag *Agnus) ScheduleNextBplEvent(hpos int) {
	if next := int(ag.nextBplEvent[hpos]); next != 0 {
		ag.Sched.ScheduleRel(scheduler.BPL, clocks.DMACycles(int64(next-ag.h)), ag.bplEvent[next], 0)
	}
}

// ScheduleBplEventForCycle arms the BPL slot with the event at the position
// or, if there is none, with the next event after it.
func (ag *Agnus) ScheduleBplEventForCycle(hpos int) {
	if ag.bplEvent[hpos] != scheduler.EventNone {
		ag.Sched.ScheduleRel(scheduler.BPL, clocks.DMACycles(int64(hpos-ag.h)), ag.bplEvent[hpos], 0)
		return
	}
	ag.ScheduleNextBplEvent(hpos)
}

// ScheduleNextDasEvent arms the DAS slot with the next event after the
// position. The slot is cancelled if there are no more events in the line.
func (ag *Agnus) ScheduleNextDasEvent(hpos int) {
	if next := int(ag.nextDasEvent[hpos]); next != 0 {
		ag.Sched.ScheduleRel(scheduler.DAS, clocks.DMACycles(int64(next-ag.h)), ag.dasEvent[next], 0)
		return
	}
	ag.Sched.Cancel(scheduler.DAS)
}

// ScheduleDasEventForCycle arms the DAS slot with the event at the position
// or, if there is none, with the next event after it.
func (ag *Agnus) ScheduleDasEventForCycle(hpos int) {
	if ag.dasEvent[hpos] != scheduler.EventNone {
		ag.Sched.ScheduleRel(scheduler.DAS, clocks.DMACycles(int64(hpos-ag.h)), ag.dasEvent[hpos], 0)
		return
	}
	ag.ScheduleNextDasEvent(hpos)
}

// the first events of the next line are scheduled relative to the last
// cycle of the current line
func (ag *Agnus) scheduleFirstBplEvent() {
	first := 0
	if ag.bplEvent[0] == scheduler.EventNone {
		first = int(ag.nextBplEvent[0])
	}
	ag.Sched.ScheduleRel(scheduler.BPL, clocks.DMACycles(int64(first+clocks.HPOSCount-ag.h)), ag.bplEvent[first], 0)
}

func (ag *Agnus) scheduleFirstDasEvent() {
	first := 0
	if ag.dasEvent[0] == scheduler.EventNone {
		first = int(ag.nextDasEvent[0])
	}
	ag.Sched.ScheduleRel(scheduler.DAS, clocks.DMACycles(int64(first+clocks.HPOSCount-ag.h)), ag.dasEvent[first], 0)
}

// BplEvents returns a copy of the bitplane event table.
func (ag *Agnus) BplEvents() [clocks.HPOSCount]scheduler.EventID {
	return ag.bplEvent
}

// DasEvents returns a copy of the disk, audio and sprite event table.
func (ag *Agnus) DasEvents() [clocks.HPOSCount]scheduler.EventID {
	return ag.dasEvent
}
