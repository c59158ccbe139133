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

package hardware

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/keyboard"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// idleCPU remembers the most recent interrupt priority level.
type idleCPU struct {
	ipl uint8
}

func (cpu *idleCPU) SetIPL(level uint8) {
	cpu.ipl = level
}

// duration of the handshake pulse on the SP line
const handshakePulse = 85

// the number of received key codes kept for inspection
const receivedCapacity = 16

// idleCIA counts TOD increments and receives key codes. If it is connected
// to the keyboard it acknowledges every received byte with a handshake.
type idleCIA struct {
	sched *scheduler.Scheduler
	clock scheduler.Clock
	slot  scheduler.Slot
	kb    *keyboard.Keyboard

	tod int64

	// serial input used by the keyboard in accurate mode
	sp    bool
	cnt   bool
	shift uint8
	bits  int

	received []uint8
}

func newIdleCIA(sched *scheduler.Scheduler, clock scheduler.Clock, slot scheduler.Slot) *idleCIA {
	return &idleCIA{
		sched:    sched,
		clock:    clock,
		slot:     slot,
		received: make([]uint8, 0, receivedCapacity),
	}
}

func (cia *idleCIA) reset() {
	cia.sp = false
	cia.cnt = false
	cia.shift = 0
	cia.bits = 0
	cia.received = cia.received[:0]
}

func (cia *idleCIA) IncrementTOD() {
	cia.tod++
}

func (cia *idleCIA) IRQ() bool {
	return false
}

// SetKeyCode is used by the keyboard when it is not in accurate mode.
func (cia *idleCIA) SetKeyCode(code uint8) {
	cia.receive(code)
}

func (cia *idleCIA) SetSP(value bool) {
	cia.sp = value
}

// bits are shifted in on the rising edge of CNT
func (cia *idleCIA) SetCNT(value bool) {
	rising := value && !cia.cnt
	cia.cnt = value
	if !rising {
		return
	}

	cia.shift <<= 1
	if cia.sp {
		cia.shift |= 0x01
	}
	cia.bits++
	if cia.bits == 8 {
		cia.bits = 0
		cia.receive(cia.shift)
	}
}

// receive the raw byte from the serial port and start the handshake. the raw
// byte is inverted and rotated; received keeps the decoded key code
func (cia *idleCIA) receive(raw uint8) {
	v := ^raw
	code := (v >> 1) | (v << 7)

	if len(cia.received) == receivedCapacity {
		copy(cia.received, cia.received[1:])
		cia.received = cia.received[:receivedCapacity-1]
	}
	cia.received = append(cia.received, code)

	if cia.kb == nil {
		return
	}
	cia.kb.SetSPLine(false, cia.clock.Now())
	cia.sched.ScheduleRel(cia.slot, clocks.USec(handshakePulse), scheduler.CiaWakeup, 0)
}

func (cia *idleCIA) ServiceEvent(id scheduler.EventID, _ int64) {
	if id == scheduler.CiaWakeup && cia.kb != nil {
		cia.sched.Cancel(cia.slot)
		cia.kb.SetSPLine(true, cia.clock.Now())
	}
}

// idleCoprocessor is the Copper or the Blitter when neither is emulated.
// Nothing schedules events in their slots so ServiceEvent() is never called.
type idleCoprocessor struct{}

func (idleCoprocessor) ServiceEvent(_ scheduler.EventID, _ int64) {}

// idleDenise counts the bitplane words it receives.
type idleDenise struct {
	words int64
}

func (d *idleDenise) SetBPLxDAT(_ int, _ uint16) {
	d.words++
}

func (d *idleDenise) SetSPRxDAT(_ int, _ uint32) {}

func (d *idleDenise) Draw(_ bool, _ bool, _ bool) {}
