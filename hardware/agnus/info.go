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
	"io"
	"strings"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// Info is a copy of the Agnus state for inspection.
type Info struct {
	Clock   clocks.Cycle
	VPOS    int
	HPOS    int
	Frame   int64
	DMACON  uint16
	BPLCON0 uint16
	BPLCON1 uint16
	DDFSTRT uint16
	DDFSTOP uint16
	DIWSTRT uint16
	DIWSTOP uint16
	BPL1MOD int16
	BPL2MOD int16
	BPLPT   [6]uint32
	AUDLC   [4]uint32
	AUDPT   [4]uint32
	SPRPT   [8]uint32
	DSKPT   uint32
	Pending int
	Usage   [NumBusOwners]int64
}

// Info returns the current state of Agnus.
func (ag *Agnus) Info() Info {
	return Info{
		Clock:   ag.clock,
		VPOS:    ag.v,
		HPOS:    ag.h,
		Frame:   ag.frame,
		DMACON:  ag.dmacon,
		BPLCON0: ag.bplcon0,
		BPLCON1: ag.bplcon1,
		DDFSTRT: ag.ddfstrt,
		DDFSTOP: ag.ddfstop,
		DIWSTRT: ag.diwstrt,
		DIWSTOP: ag.diwstop,
		BPL1MOD: ag.bpl1mod,
		BPL2MOD: ag.bpl2mod,
		BPLPT:   ag.bplpt,
		AUDLC:   ag.audlc,
		AUDPT:   ag.audpt,
		SPRPT:   ag.sprpt,
		DSKPT:   ag.dskpt,
		Pending: len(ag.recorder.changes),
		Usage:   ag.usage,
	}
}

func (info Info) String() string {
	return fmt.Sprintf("frame %d (%d,%d) DMACON=%04x BPLCON0=%04x", info.Frame, info.VPOS, info.HPOS, info.DMACON, info.BPLCON0)
}

// eventCode returns a two letter code for the event. Used by DumpEvents().
func eventCode(sl scheduler.Slot, id scheduler.EventID) string {
	if id == scheduler.EventNone {
		return ".."
	}

	name := scheduler.EventName(sl, id)
	name = strings.TrimPrefix(name, "BPL_")
	name = strings.TrimPrefix(name, "DAS_")
	if len(name) < 2 {
		return name + " "
	}
	return name[:2]
}

// DumpEvents writes the event tables of the current line. Sixteen positions
// are written per row.
func (ag *Agnus) DumpEvents(w io.Writer) {
	dump := func(sl scheduler.Slot, tab [clocks.HPOSCount]scheduler.EventID) {
		for row := 0; row < clocks.HPOSCount; row += 16 {
			s := strings.Builder{}
			s.WriteString(fmt.Sprintf("%-12s %02x:", sl, row))
			for i := row; i < row+16 && i < clocks.HPOSCount; i++ {
				s.WriteString(" ")
				s.WriteString(eventCode(sl, tab[i]))
			}
			s.WriteString("\n")
			io.WriteString(w, s.String())
		}
	}
	dump(scheduler.BPL, ag.bplEvent)
	dump(scheduler.DAS, ag.dasEvent)
}
