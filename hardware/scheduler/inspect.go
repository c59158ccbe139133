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

package scheduler

import (
	"fmt"
	"io"
	"strings"

	"github.com/gopher500/gopher500/hardware/clocks"
)

// SlotInfo is a copy of a single slot for inspection.
type SlotInfo struct {
	Slot      Slot
	SlotName  string
	Trigger   clocks.Cycle
	TriggerIn clocks.Cycle
	ID        EventID
	EventName string
	Data      int64
}

// Info is a copy of the slot table.
type Info struct {
	Cycle       clocks.Cycle
	NextTrigger clocks.Cycle
	Slots       [SlotCount]SlotInfo
}

// Inspect copies the slot table into the inspection snapshot.
func (s *Scheduler) Inspect() {
	s.crit.Lock()
	defer s.crit.Unlock()

	now := s.clock.Now()
	s.info.Cycle = now
	s.info.NextTrigger = s.nextTrigger
	for i, sl := range s.slots {
		si := &s.info.Slots[i]
		si.Slot = Slot(i)
		si.SlotName = Slot(i).String()
		si.Trigger = sl.trigger
		si.ID = sl.id
		si.EventName = EventName(Slot(i), sl.id)
		si.Data = sl.data
		if sl.trigger == clocks.NEVER {
			si.TriggerIn = clocks.NEVER
		} else {
			si.TriggerIn = sl.trigger - now
		}
	}
}

// Info returns the most recent inspection snapshot. It is safe to call from
// any goroutine.
func (s *Scheduler) Info() Info {
	s.crit.Lock()
	defer s.crit.Unlock()
	return s.info
}

// String returns a printable table of an inspection snapshot.
func (info Info) String() string {
	var b strings.Builder
	info.Write(&b)
	return b.String()
}

// Write a printable table of the inspection snapshot to the io.Writer.
func (info Info) Write(w io.Writer) {
	fmt.Fprintf(w, "cycle %d\n", info.Cycle)
	for _, si := range info.Slots {
		if si.Trigger == clocks.NEVER {
			fmt.Fprintf(w, "%-15s %-20s %s\n", si.SlotName, si.EventName, "never")
			continue
		}
		fmt.Fprintf(w, "%-15s %-20s %d (in %d DMA cycles) data=%d\n",
			si.SlotName, si.EventName, si.Trigger, clocks.AsDMACycles(si.TriggerIn), si.Data)
	}
}
