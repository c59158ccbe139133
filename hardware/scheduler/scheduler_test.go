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

package scheduler_test

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/test"
)

type clock struct {
	now clocks.Cycle
}

func (c *clock) Now() clocks.Cycle {
	return c.now
}

// run advances the clock one DMA cycle at a time until the target.
func run(c *clock, s *scheduler.Scheduler, target clocks.Cycle) {
	for c.now < target {
		c.now += clocks.DMACycles(1)
		s.ExecuteEventsUntil(c.now)
	}
}

func aggregateHolds(s *scheduler.Scheduler) bool {
	next := clocks.NEVER
	for sl := scheduler.FirstSecondary; sl < scheduler.SlotCount; sl++ {
		next = min(next, s.Trigger(sl))
	}
	return s.Trigger(scheduler.SEC) == next
}

func TestSameCycleOrder(t *testing.T) {
	c := &clock{}
	s := scheduler.NewScheduler(c)

	var order []scheduler.Slot
	record := func(sl scheduler.Slot) scheduler.Handler {
		return func(id scheduler.EventID, data int64) {
			order = append(order, sl)
			s.Cancel(sl)
		}
	}
	s.Register(scheduler.BPL, record(scheduler.BPL))
	s.Register(scheduler.DAS, record(scheduler.DAS))
	s.Register(scheduler.REG, record(scheduler.REG))
	s.Register(scheduler.CH0, record(scheduler.CH0))

	// scheduled in reverse order to show that insertion order is irrelevant
	s.ScheduleAbs(scheduler.CH0, 80, scheduler.ChxPerfin, 0)
	s.ScheduleAbs(scheduler.DAS, 80, scheduler.DasRefresh, 0)
	s.ScheduleAbs(scheduler.BPL, 80, scheduler.BplL1, 0)
	s.ScheduleAbs(scheduler.REG, 80, scheduler.RegChange, 0)

	s.ExecuteEventsUntil(79)
	test.ExpectEquality(t, len(order), 0)

	s.ExecuteEventsUntil(80)
	test.DemandEquality(t, len(order), 4)
	test.ExpectEquality(t, order[0], scheduler.REG)
	test.ExpectEquality(t, order[1], scheduler.BPL)
	test.ExpectEquality(t, order[2], scheduler.DAS)
	test.ExpectEquality(t, order[3], scheduler.CH0)
}

func TestSecondaryOrder(t *testing.T) {
	c := &clock{}
	s := scheduler.NewScheduler(c)

	var order []scheduler.Slot
	for sl := scheduler.FirstSecondary; sl < scheduler.SlotCount; sl++ {
		sl := sl
		s.Register(sl, func(id scheduler.EventID, data int64) {
			order = append(order, sl)
			s.Cancel(sl)
		})
	}

	s.ScheduleAbs(scheduler.INS, 100, scheduler.InsEvents, 0)
	s.ScheduleAbs(scheduler.IRQ, 100, scheduler.IrqCheck, 0)
	s.ScheduleAbs(scheduler.IPL, 100, scheduler.IplChange, 0)
	s.ScheduleAbs(scheduler.DSK, 100, scheduler.DskRotate, 0)
	s.ScheduleAbs(scheduler.CH3, 100, scheduler.ChxPerfin, 0)

	s.ExecuteEventsUntil(100)
	test.DemandEquality(t, len(order), 5)
	test.ExpectEquality(t, order[0], scheduler.CH3)
	test.ExpectEquality(t, order[1], scheduler.DSK)
	test.ExpectEquality(t, order[2], scheduler.IPL)
	test.ExpectEquality(t, order[3], scheduler.IRQ)
	test.ExpectEquality(t, order[4], scheduler.INS)
	test.ExpectEquality(t, s.HasEvent(scheduler.SEC), false)
}

func TestEventZero(t *testing.T) {
	c := &clock{}
	s := scheduler.NewScheduler(c)

	var count int
	s.Register(scheduler.BLT, func(id scheduler.EventID, data int64) {
		count++
	})
	s.ScheduleAbs(scheduler.BLT, 10, scheduler.EventNone, 0)
	test.ExpectEquality(t, s.HasEvent(scheduler.BLT), false)

	s.ScheduleRel(scheduler.CH1, 10, scheduler.EventNone, 0)
	test.ExpectEquality(t, s.HasEvent(scheduler.CH1), false)
	test.ExpectEquality(t, s.HasEvent(scheduler.SEC), false)

	s.ExecuteEventsUntil(1000)
	test.ExpectEquality(t, count, 0)
}

func TestAggregateInvariant(t *testing.T) {
	c := &clock{}
	s := scheduler.NewScheduler(c)
	rng := rand.New(rand.NewSource(0x4489))

	// secondary handlers re-arm themselves at random intervals or go idle
	for sl := scheduler.FirstSecondary; sl < scheduler.SlotCount; sl++ {
		sl := sl
		id := scheduler.EventID(1)
		s.Register(sl, func(_ scheduler.EventID, data int64) {
			if rng.Intn(4) == 0 {
				s.Cancel(sl)
				return
			}
			s.ScheduleRel(sl, clocks.DMACycles(int64(rng.Intn(50)+1)), id, data+1)
		})
		s.ScheduleRel(sl, clocks.DMACycles(int64(sl)), id, 0)
		test.DemandSuccess(t, aggregateHolds(s))
	}

	// a primary handler that pokes secondary slots
	s.Register(scheduler.DAS, func(_ scheduler.EventID, _ int64) {
		sl := scheduler.FirstSecondary + scheduler.Slot(rng.Intn(int(scheduler.SlotCount-scheduler.FirstSecondary)))
		s.ScheduleRel(sl, clocks.DMACycles(int64(rng.Intn(20))), 1, 0)
		s.ScheduleRel(scheduler.DAS, clocks.DMACycles(7), scheduler.DasRefresh, 0)
	})
	s.ScheduleRel(scheduler.DAS, clocks.DMACycles(3), scheduler.DasRefresh, 0)

	for range 5000 {
		c.now += clocks.DMACycles(1)
		s.ExecuteEventsUntil(c.now)
		if !aggregateHolds(s) {
			t.Fatalf("aggregate invariant broken at cycle %d", c.now)
		}
	}
}

// trace runs a fixed scenario and returns a textual trace of every dispatch
// and the final inspection table.
func trace() string {
	c := &clock{}
	s := scheduler.NewScheduler(c)
	var b strings.Builder

	s.Register(scheduler.BPL, func(id scheduler.EventID, data int64) {
		b.WriteString(scheduler.EventName(scheduler.BPL, id))
		s.ScheduleRel(scheduler.BPL, clocks.DMACycles(3), scheduler.BplL1|scheduler.DrawOdd, data+1)
	})
	s.Register(scheduler.CH2, func(id scheduler.EventID, data int64) {
		b.WriteString("CH2")
		s.ScheduleRel(scheduler.CH2, clocks.DMACycles(5), scheduler.ChxPerfin, data+1)
	})
	s.Register(scheduler.KBD, func(id scheduler.EventID, data int64) {
		b.WriteString(scheduler.EventName(scheduler.KBD, id))
		s.Cancel(scheduler.KBD)
		s.ScheduleRel(scheduler.TXD, clocks.DMACycles(2), scheduler.TxdBit, 0)
	})
	s.Register(scheduler.TXD, func(id scheduler.EventID, data int64) {
		b.WriteString("TXD")
		s.Cancel(scheduler.TXD)
	})

	s.ScheduleImm(scheduler.BPL, scheduler.BplL1, 0)
	s.ScheduleRel(scheduler.CH2, clocks.DMACycles(1), scheduler.ChxPerfin, 0)
	s.ScheduleRel(scheduler.KBD, clocks.DMACycles(20), scheduler.KbdTimeout, 0)

	for c.now < clocks.DMACycles(100) {
		c.now += clocks.DMACycles(1)
		s.ExecuteEventsUntil(c.now)
		b.WriteString(".")
	}

	s.Inspect()
	b.WriteString(s.Info().String())
	return b.String()
}

func TestDeterminism(t *testing.T) {
	a := trace()
	for range 3 {
		test.ExpectEquality(t, trace(), a)
	}
	test.ExpectSuccess(t, strings.Contains(a, "KBD_TIMEOUT"))
	test.ExpectSuccess(t, strings.Contains(a, "BPL_L1_ODD"))
}

func TestPanics(t *testing.T) {
	c := &clock{}
	s := scheduler.NewScheduler(c)
	s.Register(scheduler.COP, func(id scheduler.EventID, data int64) {})

	test.DemandPanic(t, func() { s.ScheduleAbs(scheduler.SlotCount, 0, 1, 0) }, "slot range")
	test.DemandPanic(t, func() { s.Cancel(-1) }, "slot range")

	s.ExecuteEventsUntil(100)
	test.DemandPanic(t, func() { s.ExecuteEventsUntil(99) }, "monotonic")

	s.ScheduleAbs(scheduler.COP, 150, scheduler.EventID(1000), 0)
	test.DemandPanic(t, func() { s.ExecuteEventsUntil(200) }, "invalid event")
}

func TestUnregisteredSlot(t *testing.T) {
	c := &clock{}
	s := scheduler.NewScheduler(c)
	s.ScheduleAbs(scheduler.CIAB, 10, scheduler.CiaExecute, 0)
	s.ExecuteEventsUntil(10)
	test.ExpectEquality(t, s.HasEvent(scheduler.CIAB), false)
}

func TestRescheduleAndData(t *testing.T) {
	c := &clock{now: 1000}
	s := scheduler.NewScheduler(c)

	s.ScheduleRel(scheduler.POT, 50, scheduler.PotDischarge, 7)
	test.ExpectEquality(t, s.Trigger(scheduler.POT), clocks.Cycle(1050))
	test.ExpectEquality(t, s.Trigger(scheduler.SEC), clocks.Cycle(1050))
	test.ExpectEquality(t, s.IsPending(scheduler.POT), true)

	s.RescheduleRel(scheduler.POT, 20)
	test.ExpectEquality(t, s.Trigger(scheduler.SEC), clocks.Cycle(1020))
	test.ExpectEquality(t, s.ID(scheduler.POT), scheduler.PotDischarge)
	test.ExpectEquality(t, s.Data(scheduler.POT), int64(7))

	s.ScheduleInc(scheduler.POT, 30, scheduler.PotCharge, 8)
	test.ExpectEquality(t, s.Trigger(scheduler.POT), clocks.Cycle(1050))
	test.ExpectEquality(t, s.ID(scheduler.POT), scheduler.PotCharge)

	s.SetData(scheduler.POT, 9)
	test.ExpectEquality(t, s.Data(scheduler.POT), int64(9))

	test.ExpectEquality(t, s.IsDue(scheduler.POT, 1049), false)
	test.ExpectEquality(t, s.IsDue(scheduler.POT, 1050), true)

	s.Cancel(scheduler.POT)
	test.ExpectEquality(t, s.HasEvent(scheduler.SEC), false)
}

func TestSaveLoad(t *testing.T) {
	c := &clock{}
	s := scheduler.NewScheduler(c)
	s.ScheduleAbs(scheduler.RAS, 1816, scheduler.RasHSync, 0)
	s.ScheduleAbs(scheduler.DSK, 448, scheduler.DskRotate, 3)
	run(c, s, 100)

	st := savestate.NewState()
	s.Save(st)

	r, err := savestate.FromBytes(st.Bytes())
	test.DemandSuccess(t, err)
	l := scheduler.NewScheduler(c)
	l.Load(r)
	test.DemandSuccess(t, r.Err())

	for sl := scheduler.REG; sl < scheduler.SlotCount; sl++ {
		test.ExpectEquality(t, l.Trigger(sl), s.Trigger(sl), sl)
		test.ExpectEquality(t, l.ID(sl), s.ID(sl), sl)
		test.ExpectEquality(t, l.Data(sl), s.Data(sl), sl)
	}
}

func TestInspect(t *testing.T) {
	c := &clock{now: 80}
	s := scheduler.NewScheduler(c)
	s.ScheduleRel(scheduler.VBL, clocks.DMACycles(10), scheduler.VblStrobe1, 0)
	s.ScheduleRel(scheduler.COP, clocks.DMACycles(2), scheduler.EventID(99), 0)
	s.Inspect()

	info := s.Info()
	test.ExpectEquality(t, info.Slots[scheduler.VBL].EventName, "VBL_STROBE1")
	test.ExpectEquality(t, info.Slots[scheduler.VBL].TriggerIn, clocks.DMACycles(10))
	test.ExpectEquality(t, info.Slots[scheduler.SEC].EventName, "SEC_TRIGGER")
	test.ExpectEquality(t, info.Slots[scheduler.COP].EventName, scheduler.InvalidEvent)
	test.ExpectEquality(t, info.Slots[scheduler.BLT].Trigger, clocks.NEVER)
}
