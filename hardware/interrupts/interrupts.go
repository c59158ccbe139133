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

// Package interrupts is the interrupt controller. It holds the INTREQ and
// INTENA registers and presents the priority level of the highest pending
// interrupt to the CPU.
//
// Requests can be immediate, with RaiseIrq(), or delayed, with
// ScheduleIrqAbs() and ScheduleIrqRel(). Delayed requests are serviced by the
// IRQ slot of the scheduler.
//
// A change in priority level reaches the CPU through a short pipeline, which
// is advanced by the IPL slot of the scheduler once every DMA cycle.
package interrupts

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// CPU is the part of the CPU that receives the interrupt priority level.
type CPU interface {
	SetIPL(level uint8)
}

// Pin is an interrupt output of a peripheral chip. The CIA chips are
// connected to the PORTS and EXTER sources.
type Pin interface {
	IRQ() bool
}

// number of pipeline stages the IPL change is shifted through
const iplRepeat = 5

// Controller is the interrupt controller.
type Controller struct {
	sched *scheduler.Scheduler
	clock scheduler.Clock
	cpu   CPU

	// peripheral pins. may be nil
	ports Pin
	exter Pin

	intreq uint16
	intena uint16

	// trigger cycle of delayed requests for every source
	setIntreq [NumSources]clocks.Cycle

	// the lower byte is the most recent priority level. every IPL event
	// shifts the pipe left by one byte
	iplPipe uint64
}

// NewController is the preferred method of initialisation for the Controller
// type. The IRQ and IPL slot handlers are registered with the scheduler.
func NewController(sched *scheduler.Scheduler, clock scheduler.Clock, cpu CPU) *Controller {
	ic := &Controller{
		sched: sched,
		clock: clock,
		cpu:   cpu,
	}
	sched.Register(scheduler.IRQ, ic.serviceIrqEvent)
	sched.Register(scheduler.IPL, ic.serviceIplEvent)
	ic.Reset()
	return ic
}

// AttachPins connects the peripheral interrupt pins. Either pin can be nil.
func (ic *Controller) AttachPins(ports Pin, exter Pin) {
	ic.ports = ports
	ic.exter = exter
}

// Reset the controller.
func (ic *Controller) Reset() {
	ic.intreq = 0
	ic.intena = 0
	ic.iplPipe = 0
	for i := range ic.setIntreq {
		ic.setIntreq[i] = clocks.NEVER
	}
}

// RaiseIrq sets the request bit for the source immediately.
func (ic *Controller) RaiseIrq(src Source) {
	ic.SetINTREQ(true, src.Mask())
}

// ScheduleIrqAbs requests an interrupt at the trigger cycle. If a request
// for the source is already pending the earliest trigger is kept.
func (ic *Controller) ScheduleIrqAbs(src Source, trigger clocks.Cycle) {
	if trigger < ic.setIntreq[src] {
		ic.setIntreq[src] = trigger
	}
	if trigger < ic.sched.Trigger(scheduler.IRQ) {
		ic.sched.ScheduleAbs(scheduler.IRQ, trigger, scheduler.IrqCheck, 0)
	}
}

// ScheduleIrqRel requests an interrupt after a delay.
func (ic *Controller) ScheduleIrqRel(src Source, delay clocks.Cycle) {
	ic.ScheduleIrqAbs(src, ic.clock.Now()+delay)
}

// IsRequested returns true if the request bit for the source is set.
func (ic *Controller) IsRequested(src Source) bool {
	return ic.intreq&src.Mask() != 0
}

// IsScheduled returns true if a delayed request is pending for the source.
func (ic *Controller) IsScheduled(src Source) bool {
	return ic.setIntreq[src] != clocks.NEVER
}

// SetINTREQ sets or clears the bits of INTREQ given in value.
func (ic *Controller) SetINTREQ(set bool, value uint16) {
	value &= 0x7fff
	if set {
		ic.intreq |= value
	} else {
		ic.intreq &^= value
	}

	if ic.ports != nil && ic.ports.IRQ() {
		ic.intreq |= PORTS.Mask()
	}
	if ic.exter != nil && ic.exter.IRQ() {
		ic.intreq |= EXTER.Mask()
	}

	ic.CheckInterrupt()
}

// SetINTENA sets or clears the bits of INTENA given in value.
func (ic *Controller) SetINTENA(set bool, value uint16) {
	value &= 0x7fff
	if set {
		ic.intena |= value
	} else {
		ic.intena &^= value
	}
	ic.CheckInterrupt()
}

// PokeINTREQ writes the register. Bit 15 selects between set and clear.
func (ic *Controller) PokeINTREQ(value uint16) {
	ic.SetINTREQ(value&0x8000 != 0, value)
}

// PokeINTENA writes the register. Bit 15 selects between set and clear.
func (ic *Controller) PokeINTENA(value uint16) {
	ic.SetINTENA(value&0x8000 != 0, value)
}

// INTREQR returns the value of the INTREQ register.
func (ic *Controller) INTREQR() uint16 {
	return ic.intreq
}

// INTENAR returns the value of the INTENA register.
func (ic *Controller) INTENAR() uint16 {
	return ic.intena
}

// InterruptLevel returns the priority level of the highest pending enabled
// interrupt. The result is zero if the master enable bit is clear.
func (ic *Controller) InterruptLevel() uint8 {
	if ic.intena&0x4000 == 0 {
		return 0
	}

	mask := ic.intreq & ic.intena
	switch {
	case mask&0x6000 != 0:
		return 6
	case mask&0x1800 != 0:
		return 5
	case mask&0x0780 != 0:
		return 4
	case mask&0x0070 != 0:
		return 3
	case mask&0x0008 != 0:
		return 2
	case mask&0x0007 != 0:
		return 1
	}

	return 0
}

// CheckInterrupt pushes a change in priority level into the IPL pipe.
func (ic *Controller) CheckInterrupt() {
	level := uint64(ic.InterruptLevel())
	if ic.iplPipe&0xff != level {
		ic.iplPipe = (ic.iplPipe &^ 0xff) | level
		ic.sched.ScheduleRel(scheduler.IPL, 0, scheduler.IplChange, iplRepeat)
	}
}

// serviceIrqEvent sets every delayed request that is due.
func (ic *Controller) serviceIrqEvent(_ scheduler.EventID, _ int64) {
	now := ic.clock.Now()
	next := clocks.NEVER

	for src := range ic.setIntreq {
		if ic.setIntreq[src] == clocks.NEVER {
			continue
		}
		if now >= ic.setIntreq[src] {
			ic.setIntreq[src] = clocks.NEVER
			ic.SetINTREQ(true, Source(src).Mask())
		} else {
			next = min(next, ic.setIntreq[src])
		}
	}

	if next == clocks.NEVER {
		ic.sched.Cancel(scheduler.IRQ)
	} else {
		ic.sched.ScheduleAbs(scheduler.IRQ, next, scheduler.IrqCheck, 0)
	}
}

// serviceIplEvent presents the delayed level to the CPU and shifts the pipe.
func (ic *Controller) serviceIplEvent(_ scheduler.EventID, repeat int64) {
	if ic.cpu != nil {
		ic.cpu.SetIPL(uint8(ic.iplPipe >> 24))
	}
	ic.iplPipe = (ic.iplPipe << 8) | (ic.iplPipe & 0xff)

	if repeat > 0 {
		ic.sched.ScheduleRel(scheduler.IPL, clocks.DMACycles(1), scheduler.IplChange, repeat-1)
	} else {
		ic.sched.Cancel(scheduler.IPL)
	}
}

// Save implements the savestate.Stater interface.
func (ic *Controller) Save(s *savestate.State) {
	s.Write16(ic.intreq)
	s.Write16(ic.intena)
	for _, t := range ic.setIntreq {
		s.WriteInt64(t)
	}
	s.Write64(ic.iplPipe)
}

// Load implements the savestate.Stater interface.
func (ic *Controller) Load(s *savestate.State) {
	ic.intreq = s.Read16()
	ic.intena = s.Read16()
	for i := range ic.setIntreq {
		ic.setIntreq[i] = s.ReadInt64()
	}
	ic.iplPipe = s.Read64()
}

// Info is a copy of the controller state for inspection.
type Info struct {
	INTREQ uint16
	INTENA uint16
	Level  uint8

	// delayed requests, NEVER if there is no request for the source
	Pending [NumSources]clocks.Cycle
}

// Info returns a copy of the controller state. It must be called from the
// emulation goroutine.
func (ic *Controller) Info() Info {
	return Info{
		INTREQ:  ic.intreq,
		INTENA:  ic.intena,
		Level:   ic.InterruptLevel(),
		Pending: ic.setIntreq,
	}
}
