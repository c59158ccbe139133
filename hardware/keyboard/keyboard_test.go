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

package keyboard_test

import (
	"testing"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/keyboard"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/test"
)

type clock struct {
	now clocks.Cycle
}

func (c *clock) Now() clocks.Cycle {
	return c.now
}

type cia struct {
	codes []uint8
	sp    []bool
	cnt   int
}

func (c *cia) SetKeyCode(code uint8) {
	c.codes = append(c.codes, code)
}

func (c *cia) SetSP(value bool) {
	c.sp = append(c.sp, value)
}

func (c *cia) SetCNT(value bool) {
	if !value {
		c.cnt++
	}
}

func handshake(clk *clock, kb *keyboard.Keyboard) {
	clk.now += clocks.USec(10)
	kb.SetSPLine(false, clk.now)
	clk.now += clocks.USec(85)
	kb.SetSPLine(true, clk.now)
}

func TestSimpleProtocol(t *testing.T) {
	clk := &clock{}
	sched := scheduler.NewScheduler(clk)
	c := &cia{}
	kb := keyboard.NewKeyboard(sched, c)
	kb.SetAccurate(false)
	kb.Reset()

	test.ExpectEquality(t, kb.State(), keyboard.StateSelfTest)
	test.ExpectEquality(t, sched.ID(scheduler.KBD), scheduler.KbdTimeout)
	test.ExpectEquality(t, sched.Trigger(scheduler.KBD), clocks.Sec(1))

	handshake(clk, kb)
	test.ExpectEquality(t, kb.State(), keyboard.StateStreamOn)
	handshake(clk, kb)
	test.ExpectEquality(t, kb.State(), keyboard.StateStreamOff)
	handshake(clk, kb)
	test.ExpectEquality(t, kb.State(), keyboard.StateSend)
	test.ExpectEquality(t, sched.HasEvent(scheduler.KBD), false)

	kb.PressKey(0x45)
	test.ExpectEquality(t, kb.KeyIsPressed(0x45), true)

	test.DemandEquality(t, len(c.codes), 3)
	test.ExpectEquality(t, c.codes[0], uint8(0x04))
	test.ExpectEquality(t, c.codes[1], uint8(0x02))
	test.ExpectEquality(t, c.codes[2], uint8(0x75))

	// pressing again does nothing. releasing is queued until the handshake
	kb.PressKey(0x45)
	kb.ReleaseKey(0x45)
	test.ExpectEquality(t, kb.Buffered(), 1)
	handshake(clk, kb)
	test.ExpectEquality(t, kb.Buffered(), 0)
	test.ExpectEquality(t, c.codes[3], uint8(0x74))
}

func TestResync(t *testing.T) {
	clk := &clock{}
	sched := scheduler.NewScheduler(clk)
	c := &cia{}
	kb := keyboard.NewKeyboard(sched, c)
	kb.SetAccurate(false)
	kb.Reset()

	// no handshake during the self test
	clk.now = sched.Trigger(scheduler.KBD)
	sched.ExecuteEventsUntil(clk.now)
	test.ExpectEquality(t, kb.State(), keyboard.StateSync)
	test.DemandEquality(t, len(c.codes), 1)
	test.ExpectEquality(t, c.codes[0], uint8(0x00))

	handshake(clk, kb)
	test.ExpectEquality(t, kb.State(), keyboard.StateStreamOn)
}

func TestShortPulseIgnored(t *testing.T) {
	clk := &clock{}
	sched := scheduler.NewScheduler(clk)
	kb := keyboard.NewKeyboard(sched, &cia{})
	kb.Reset()

	kb.SetSPLine(false, 100)
	kb.SetSPLine(true, 110)
	test.ExpectEquality(t, kb.State(), keyboard.StateSelfTest)
}

func TestAccurateProtocol(t *testing.T) {
	clk := &clock{}
	sched := scheduler.NewScheduler(clk)
	c := &cia{}
	kb := keyboard.NewKeyboard(sched, c)
	kb.Reset()

	handshake(clk, kb)
	test.ExpectEquality(t, sched.ID(scheduler.KBD), scheduler.KbdDat)

	for sched.ID(scheduler.KBD) != scheduler.KbdTimeout {
		clk.now = sched.Trigger(scheduler.KBD)
		sched.ExecuteEventsUntil(clk.now)
	}

	// 0xfd is sent as 0x04, most significant bit first
	test.DemandEquality(t, len(c.sp), 8)
	for i, b := range c.sp {
		test.ExpectEquality(t, b, i == 5, i)
	}
	test.ExpectEquality(t, c.cnt, 8)
	test.ExpectEquality(t, len(c.codes), 0)
}

func TestReleaseAll(t *testing.T) {
	clk := &clock{}
	sched := scheduler.NewScheduler(clk)
	kb := keyboard.NewKeyboard(sched, &cia{})
	kb.SetAccurate(false)
	kb.Reset()

	kb.PressKey(0x10)
	kb.PressKey(0x11)
	kb.ReleaseAllKeys()
	test.ExpectEquality(t, kb.KeyIsPressed(0x10), false)
	test.ExpectEquality(t, kb.KeyIsPressed(0x11), false)
}
