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

// Package keyboard emulates the keyboard processor. Key codes are sent to
// CIA-A over the serial data line and every code must be acknowledged by a
// handshake on the SP line. A missing handshake puts the keyboard into sync
// mode.
//
// In accurate mode every bit is clocked out with KBD_DAT, KBD_CLK0 and
// KBD_CLK1 events. Otherwise the whole code is handed to CIA-A in one go.
package keyboard

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/logger"
)

// State of the keyboard processor.
type State int

// List of valid State values.
const (
	StateSelfTest State = iota
	StateSync
	StateStreamOn
	StateStreamOff
	StateSend
)

func (s State) String() string {
	switch s {
	case StateSelfTest:
		return "SELFTEST"
	case StateSync:
		return "SYNC"
	case StateStreamOn:
		return "STRM_ON"
	case StateStreamOff:
		return "STRM_OFF"
	case StateSend:
		return "SEND"
	}
	return "???"
}

// Special codes sent by the keyboard processor.
const (
	CodeInitiateStream  = 0xfd
	CodeTerminateStream = 0xfe
	CodeResync          = 0xff
)

// BufferSize is the capacity of the type ahead buffer.
const BufferSize = 128

// Timing of the keyboard protocol.
var (
	selfTestTimeout  = clocks.Sec(1)
	handshakeTimeout = clocks.MSec(143)
	bitTime          = clocks.USec(20)
)

// CIA is the part of CIA-A connected to the keyboard.
type CIA interface {
	// receive a whole byte in the serial data register
	SetKeyCode(code uint8)

	// level of the serial data line
	SetSP(value bool)

	// level of the count line
	SetCNT(value bool)
}

// Keyboard is the keyboard processor.
type Keyboard struct {
	sched *scheduler.Scheduler
	cia   CIA

	accurate bool

	state State

	keyDown [0x80]bool

	buffer []uint8

	// inverted and rotated code being sent
	shiftReg uint8

	// cycles of the most recent SP line changes
	spLow  clocks.Cycle
	spHigh clocks.Cycle
}

// NewKeyboard is the preferred method of initialisation for the Keyboard
// type. The KBD slot handler is registered with the scheduler.
func NewKeyboard(sched *scheduler.Scheduler, cia CIA) *Keyboard {
	kb := &Keyboard{
		sched:    sched,
		cia:      cia,
		accurate: true,
		buffer:   make([]uint8, 0, BufferSize),
	}
	sched.Register(scheduler.KBD, kb.serviceKeyboardEvent)
	return kb
}

// SetAccurate selects between the bit level protocol and the byte level
// shortcut.
func (kb *Keyboard) SetAccurate(accurate bool) {
	kb.accurate = accurate
}

// Reset the keyboard. All keys are released and the self test is started.
func (kb *Keyboard) Reset() {
	kb.keyDown = [0x80]bool{}
	kb.buffer = kb.buffer[:0]
	kb.shiftReg = 0
	kb.spLow = 0
	kb.spHigh = 0
	kb.state = StateSelfTest
	kb.execute()
}

// State returns the current protocol state.
func (kb *Keyboard) State() State {
	return kb.state
}

// KeyIsPressed returns true if the key is held down.
func (kb *Keyboard) KeyIsPressed(code uint8) bool {
	return kb.keyDown[code&0x7f]
}

// PressKey adds the key code to the type ahead buffer.
func (kb *Keyboard) PressKey(code uint8) {
	code &= 0x7f
	if kb.keyDown[code] || kb.bufferIsFull() {
		return
	}
	kb.keyDown[code] = true
	kb.writeToBuffer(code)
}

// ReleaseKey adds the release code for the key to the type ahead buffer.
func (kb *Keyboard) ReleaseKey(code uint8) {
	code &= 0x7f
	if !kb.keyDown[code] || kb.bufferIsFull() {
		return
	}
	kb.keyDown[code] = false
	kb.writeToBuffer(code | 0x80)
}

// ReleaseAllKeys releases every key that is held down.
func (kb *Keyboard) ReleaseAllKeys() {
	for i := range kb.keyDown {
		kb.ReleaseKey(uint8(i))
	}
}

// Buffered returns the number of codes in the type ahead buffer.
func (kb *Keyboard) Buffered() int {
	return len(kb.buffer)
}

func (kb *Keyboard) bufferIsFull() bool {
	return len(kb.buffer) >= BufferSize
}

func (kb *Keyboard) readFromBuffer() uint8 {
	v := kb.buffer[0]
	kb.buffer = append(kb.buffer[:0], kb.buffer[1:]...)
	return v
}

func (kb *Keyboard) writeToBuffer(code uint8) {
	kb.buffer = append(kb.buffer, code)

	// wake up the keyboard if it is idle
	if !kb.sched.HasEvent(scheduler.KBD) {
		kb.state = StateSend
		kb.execute()
	}
}

// SetSPLine is called by CIA-A whenever it changes the level of the SP line.
// The handshake is a low pulse on the line lasting at least a microsecond.
func (kb *Keyboard) SetSPLine(value bool, cycle clocks.Cycle) {
	if value {
		if kb.spHigh <= kb.spLow {
			kb.spHigh = cycle
		}
	} else {
		if kb.spLow <= kb.spHigh {
			kb.spLow = cycle
		}
	}

	usec := (kb.spHigh - kb.spLow) / clocks.USec(1)
	if usec >= 1 {
		kb.processHandshake()
	}
}

func (kb *Keyboard) processHandshake() {
	switch kb.state {
	case StateSelfTest, StateSync:
		kb.state = StateStreamOn
	case StateStreamOn:
		kb.state = StateStreamOff
	case StateStreamOff:
		kb.state = StateSend
	}
	kb.execute()
}

func (kb *Keyboard) execute() {
	switch kb.state {
	case StateSelfTest:
		kb.sched.ScheduleRel(scheduler.KBD, selfTestTimeout, scheduler.KbdTimeout, 0)
	case StateSync:
		kb.sendSyncPulse()
	case StateStreamOn:
		kb.sendKeyCode(CodeInitiateStream)
	case StateStreamOff:
		kb.sendKeyCode(CodeTerminateStream)
	case StateSend:
		if len(kb.buffer) > 0 {
			kb.sendKeyCode(kb.readFromBuffer())
		} else {
			kb.sched.Cancel(scheduler.KBD)
		}
	}
}

func (kb *Keyboard) sendKeyCode(code uint8) {
	// codes are sent inverted with bit 7 last
	kb.shiftReg = ^((code << 1) | (code >> 7))

	if kb.accurate {
		kb.sched.ScheduleImm(scheduler.KBD, scheduler.KbdDat, 0)
		return
	}

	kb.cia.SetKeyCode(kb.shiftReg)
	kb.sched.ScheduleRel(scheduler.KBD, 8*clocks.USec(60)+handshakeTimeout, scheduler.KbdTimeout, 0)
}

func (kb *Keyboard) sendSyncPulse() {
	if kb.accurate {
		kb.sched.ScheduleImm(scheduler.KBD, scheduler.KbdSyncDat0, 0)
		return
	}
	kb.sendKeyCode(CodeResync)
}

func (kb *Keyboard) serviceKeyboardEvent(id scheduler.EventID, nr int64) {
	switch id {
	case scheduler.KbdTimeout:
		logger.Logf(logger.Allow, "keyboard", "no handshake in state %s", kb.state)
		kb.state = StateSync
		kb.execute()

	case scheduler.KbdDat:
		if nr < 8 {
			kb.cia.SetSP((kb.shiftReg>>(7-nr))&0x01 == 0x01)
			kb.sched.ScheduleRel(scheduler.KBD, bitTime, scheduler.KbdClk0, nr)
		} else {
			kb.sched.ScheduleRel(scheduler.KBD, handshakeTimeout, scheduler.KbdTimeout, 0)
		}

	case scheduler.KbdClk0:
		kb.cia.SetCNT(false)
		kb.sched.ScheduleRel(scheduler.KBD, bitTime, scheduler.KbdClk1, nr)

	case scheduler.KbdClk1:
		kb.cia.SetCNT(true)
		kb.sched.ScheduleRel(scheduler.KBD, bitTime, scheduler.KbdDat, nr+1)

	case scheduler.KbdSyncDat0:
		kb.cia.SetSP(true)
		kb.sched.ScheduleRel(scheduler.KBD, bitTime, scheduler.KbdSyncClk0, 0)

	case scheduler.KbdSyncClk0:
		kb.cia.SetCNT(false)
		kb.sched.ScheduleRel(scheduler.KBD, bitTime, scheduler.KbdSyncClk1, 0)

	case scheduler.KbdSyncClk1:
		kb.cia.SetCNT(true)
		kb.sched.ScheduleRel(scheduler.KBD, bitTime, scheduler.KbdSyncDat1, 0)

	case scheduler.KbdSyncDat1:
		kb.cia.SetSP(false)
		kb.sched.ScheduleRel(scheduler.KBD, handshakeTimeout, scheduler.KbdTimeout, 0)
	}
}

// Save implements the savestate.Stater interface.
func (kb *Keyboard) Save(s *savestate.State) {
	s.Write8(uint8(kb.state))
	s.Write8(kb.shiftReg)
	s.WriteInt64(kb.spLow)
	s.WriteInt64(kb.spHigh)
	s.Write8(uint8(len(kb.buffer)))
	s.WriteData(kb.buffer)
	for _, d := range kb.keyDown {
		s.WriteBool(d)
	}
}

// Load implements the savestate.Stater interface.
func (kb *Keyboard) Load(s *savestate.State) {
	kb.state = State(s.Read8())
	kb.shiftReg = s.Read8()
	kb.spLow = s.ReadInt64()
	kb.spHigh = s.ReadInt64()
	n := int(s.Read8())
	kb.buffer = kb.buffer[:min(n, BufferSize)]
	s.ReadData(kb.buffer)
	for i := range kb.keyDown {
		kb.keyDown[i] = s.ReadBool()
	}
}
