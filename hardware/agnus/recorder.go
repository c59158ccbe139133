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
	"sort"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/logger"
)

// maximum number of pending register changes
const recorderCapacity = 256

type change struct {
	trigger clocks.Cycle
	address uint32
	value   uint16
}

// recorder keeps register changes sorted by the cycle they take effect.
// changes with the same trigger are kept in the order they were recorded.
type recorder struct {
	changes []change
}

func (rec *recorder) clear() {
	rec.changes = rec.changes[:0]
}

func (rec *recorder) full() bool {
	return len(rec.changes) >= recorderCapacity
}

func (rec *recorder) insert(c change) {
	i := sort.Search(len(rec.changes), func(i int) bool {
		return rec.changes[i].trigger > c.trigger
	})
	rec.changes = append(rec.changes, change{})
	copy(rec.changes[i+1:], rec.changes[i:])
	rec.changes[i] = c
}

// next returns the trigger of the earliest change.
func (rec *recorder) next() clocks.Cycle {
	if len(rec.changes) == 0 {
		return clocks.NEVER
	}
	return rec.changes[0].trigger
}

// pop removes and returns every change due at or before the cycle.
func (rec *recorder) pop(cycle clocks.Cycle) []change {
	n := 0
	for n < len(rec.changes) && rec.changes[n].trigger <= cycle {
		n++
	}
	due := make([]change, n)
	copy(due, rec.changes[:n])
	rec.changes = append(rec.changes[:0], rec.changes[n:]...)
	return due
}

func (rec *recorder) save(s *savestate.State) {
	s.Write16(uint16(len(rec.changes)))
	for _, c := range rec.changes {
		s.WriteInt64(c.trigger)
		s.Write32(c.address)
		s.Write16(c.value)
	}
}

func (rec *recorder) load(s *savestate.State) {
	rec.clear()
	n := int(s.Read16())
	for i := 0; i < n; i++ {
		rec.changes = append(rec.changes, change{
			trigger: s.ReadInt64(),
			address: s.Read32(),
			value:   s.Read16(),
		})
	}
}

// RecordRegisterChange delays the write to the register by the number of
// cycles. Changes are applied by the REG slot in the order they were
// recorded.
func (ag *Agnus) RecordRegisterChange(delay clocks.Cycle, address uint32, value uint16) {
	if ag.recorder.full() {
		logger.Logf(logger.Allow, "agnus", "register change recorder is full: writing %04x to %s immediately", value, memory.RegisterName(address))
		ag.applyChange(address, value)
		return
	}
	ag.recorder.insert(change{trigger: ag.clock + delay, address: address, value: value})
	ag.scheduleNextRegEvent()
}

// PendingChanges returns the number of register changes waiting to be
// applied.
func (ag *Agnus) PendingChanges() int {
	return len(ag.recorder.changes)
}

func (ag *Agnus) scheduleNextRegEvent() {
	next := ag.recorder.next()
	if next == clocks.NEVER {
		ag.Sched.Cancel(scheduler.REG)
		return
	}
	ag.Sched.ScheduleAbs(scheduler.REG, next, scheduler.RegChange, 0)
}

func (ag *Agnus) serviceRegEvent(_ scheduler.EventID, _ int64) {
	for _, c := range ag.recorder.pop(ag.clock) {
		ag.applyChange(c.address, c.value)
	}
	ag.scheduleNextRegEvent()
}
