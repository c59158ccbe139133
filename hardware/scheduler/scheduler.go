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

// Package scheduler is the event scheduler of the emulation. It decides
// exactly which hardware action happens on which cycle of the master clock.
//
// The slot table is a fixed array of slots. Each slot holds a trigger cycle,
// an event id and a data value. A slot with a trigger cycle of clocks.NEVER is
// inactive. Components register a Handler for the slots they own and the
// handler is called when the slot is due. A handler will usually schedule
// the next event for its own slot before returning.
//
// ExecuteEventsUntil() dispatches every slot that is due. Primary slots are
// checked in the order of the Slot constants. When the SEC slot is due the
// secondary slots are checked in the same way. Two slots that are due on the
// same cycle are always dispatched in slot order.
//
// The trigger cycle of the SEC slot is always the earliest trigger cycle of
// the secondary slots. It is recalculated whenever a secondary slot changes.
//
// Dispatching an event id that is unknown to the slot, using a slot that
// doesn't exist and dispatching with a target cycle earlier than the previous
// target are programming errors and cause a panic.
package scheduler

import (
	"fmt"
	"sync"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/savestate"
)

// Clock is the source of the current master clock cycle.
type Clock interface {
	Now() clocks.Cycle
}

// Handler is called when a slot is due with the event id and data stored in
// the slot.
type Handler func(id EventID, data int64)

type slot struct {
	trigger clocks.Cycle
	id      EventID
	data    int64
}

// Scheduler owns the slot table.
type Scheduler struct {
	clock Clock

	slots    [SlotCount]slot
	handlers [SlotCount]Handler

	// earliest trigger of the primary slots. the dispatch pass is skipped
	// entirely if the target is before this value
	nextTrigger clocks.Cycle

	// target of the most recent call to ExecuteEventsUntil()
	lastTarget clocks.Cycle

	// inspection snapshot. the only part of the scheduler that is accessed by
	// more than one goroutine
	crit sync.Mutex
	info Info
}

// NewScheduler is the preferred method of initialisation for the Scheduler
// type.
func NewScheduler(clock Clock) *Scheduler {
	s := &Scheduler{clock: clock}
	s.Reset(true)
	return s
}

// Register the handler for a slot. A due slot without a handler is cancelled
// without a dispatch.
func (s *Scheduler) Register(sl Slot, h Handler) {
	s.checkSlot(sl)
	if sl == SEC {
		panic("scheduler: SEC slot cannot have a handler")
	}
	s.handlers[sl] = h
}

// Reset empties the slot table. On a hard reset the monotonic check is also
// reset because the clock will have restarted. The owner of the scheduler
// is responsible for re-arming the slots that must always be active.
func (s *Scheduler) Reset(hard bool) {
	for i := range s.slots {
		s.slots[i] = slot{trigger: clocks.NEVER}
	}
	s.nextTrigger = clocks.NEVER
	if hard {
		s.lastTarget = 0
	}
}

func (s *Scheduler) checkSlot(sl Slot) {
	if sl < 0 || sl >= SlotCount {
		panic(fmt.Sprintf("scheduler: slot out of range (%d)", int(sl)))
	}
}

// ScheduleAbs sets the slot to trigger at the cycle with the event id and
// data. An event id of EventNone cancels the slot.
func (s *Scheduler) ScheduleAbs(sl Slot, cycle clocks.Cycle, id EventID, data int64) {
	s.checkSlot(sl)
	if id == EventNone {
		s.Cancel(sl)
		return
	}
	s.slots[sl] = slot{trigger: cycle, id: id, data: data}
	s.triggerChanged(sl, cycle)
}

// ScheduleRel sets the slot to trigger at the current clock plus delta.
func (s *Scheduler) ScheduleRel(sl Slot, delta clocks.Cycle, id EventID, data int64) {
	s.ScheduleAbs(sl, s.clock.Now()+delta, id, data)
}

// ScheduleImm sets the slot to trigger at the current clock. It will be
// dispatched by the next call to ExecuteEventsUntil().
func (s *Scheduler) ScheduleImm(sl Slot, id EventID, data int64) {
	s.ScheduleAbs(sl, s.clock.Now(), id, data)
}

// ScheduleInc adds delta to the slot's current trigger cycle.
func (s *Scheduler) ScheduleInc(sl Slot, delta clocks.Cycle, id EventID, data int64) {
	s.checkSlot(sl)
	s.ScheduleAbs(sl, s.slots[sl].trigger+delta, id, data)
}

// RescheduleAbs changes the trigger cycle of the slot but keeps the event id
// and data.
func (s *Scheduler) RescheduleAbs(sl Slot, cycle clocks.Cycle) {
	s.checkSlot(sl)
	s.slots[sl].trigger = cycle
	s.triggerChanged(sl, cycle)
}

// RescheduleRel changes the trigger cycle of the slot to the current clock
// plus delta.
func (s *Scheduler) RescheduleRel(sl Slot, delta clocks.Cycle) {
	s.RescheduleAbs(sl, s.clock.Now()+delta)
}

// Cancel the slot.
func (s *Scheduler) Cancel(sl Slot) {
	s.checkSlot(sl)
	s.slots[sl] = slot{trigger: clocks.NEVER}
	if sl >= SEC {
		s.recomputeAggregate()
	}
}

// triggerChanged maintains the SEC slot and the fast path trigger. Changes to
// the SEC slot itself are overwritten by the aggregate.
func (s *Scheduler) triggerChanged(sl Slot, cycle clocks.Cycle) {
	if sl >= SEC {
		s.recomputeAggregate()
		return
	}
	s.nextTrigger = min(s.nextTrigger, cycle)
}

// recomputeAggregate sets the SEC slot to the earliest secondary trigger.
func (s *Scheduler) recomputeAggregate() {
	next := clocks.NEVER
	for sl := FirstSecondary; sl < SlotCount; sl++ {
		next = min(next, s.slots[sl].trigger)
	}

	if next == clocks.NEVER {
		s.slots[SEC] = slot{trigger: clocks.NEVER}
		return
	}

	s.slots[SEC] = slot{trigger: next, id: SecTrigger}
	s.nextTrigger = min(s.nextTrigger, next)
}

// IsDue returns true if the slot triggers on or before the cycle.
func (s *Scheduler) IsDue(sl Slot, cycle clocks.Cycle) bool {
	s.checkSlot(sl)
	return s.slots[sl].trigger <= cycle
}

// HasEvent returns true if the slot is active.
func (s *Scheduler) HasEvent(sl Slot) bool {
	s.checkSlot(sl)
	return s.slots[sl].trigger != clocks.NEVER
}

// IsPending returns true if the slot is active and triggers after the current
// clock.
func (s *Scheduler) IsPending(sl Slot) bool {
	return s.HasEvent(sl) && s.slots[sl].trigger > s.clock.Now()
}

// Trigger returns the trigger cycle of the slot.
func (s *Scheduler) Trigger(sl Slot) clocks.Cycle {
	s.checkSlot(sl)
	return s.slots[sl].trigger
}

// ID returns the event id of the slot.
func (s *Scheduler) ID(sl Slot) EventID {
	s.checkSlot(sl)
	return s.slots[sl].id
}

// Data returns the data value of the slot.
func (s *Scheduler) Data(sl Slot) int64 {
	s.checkSlot(sl)
	return s.slots[sl].data
}

// SetData changes the data value of the slot without changing the trigger.
func (s *Scheduler) SetData(sl Slot, data int64) {
	s.checkSlot(sl)
	s.slots[sl].data = data
}

// ExecuteEventsUntil dispatches every slot that is due on or before the
// target cycle.
func (s *Scheduler) ExecuteEventsUntil(target clocks.Cycle) {
	if target < s.lastTarget {
		panic(fmt.Sprintf("scheduler: target cycle %d is before previous target %d", target, s.lastTarget))
	}
	s.lastTarget = target

	if target < s.nextTrigger {
		return
	}

	for sl := REG; sl < SEC; sl++ {
		if s.slots[sl].trigger <= target {
			s.dispatch(sl)
		}
	}

	if s.slots[SEC].trigger <= target {
		for sl := FirstSecondary; sl < SlotCount; sl++ {
			if s.slots[sl].trigger <= target {
				s.dispatch(sl)
			}
		}
		s.recomputeAggregate()
	}

	s.nextTrigger = clocks.NEVER
	for sl := REG; sl <= SEC; sl++ {
		s.nextTrigger = min(s.nextTrigger, s.slots[sl].trigger)
	}
}

func (s *Scheduler) dispatch(sl Slot) {
	id := s.slots[sl].id
	if !IsValidEvent(sl, id) {
		panic(fmt.Sprintf("scheduler: invalid event id %d in slot %s", id, sl))
	}

	h := s.handlers[sl]
	if h == nil {
		s.Cancel(sl)
		return
	}
	h(id, s.slots[sl].data)
}

// Save implements the savestate.Stater interface.
func (s *Scheduler) Save(st *savestate.State) {
	for _, sl := range s.slots {
		st.WriteInt64(sl.trigger)
		st.WriteInt64(int64(sl.id))
		st.WriteInt64(sl.data)
	}
	st.WriteInt64(s.nextTrigger)
	st.WriteInt64(s.lastTarget)
}

// Load implements the savestate.Stater interface.
func (s *Scheduler) Load(st *savestate.State) {
	for i := range s.slots {
		s.slots[i].trigger = st.ReadInt64()
		s.slots[i].id = EventID(st.ReadInt64())
		s.slots[i].data = st.ReadInt64()
	}
	s.nextTrigger = st.ReadInt64()
	s.lastTarget = st.ReadInt64()
}
