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

package uart_test

import (
	"testing"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/paula/uart"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/test"
)

type clock struct {
	now clocks.Cycle
}

func (c *clock) Now() clocks.Cycle {
	return c.now
}

type raiser struct {
	requested map[interrupts.Source]bool
	raised    []interrupts.Source
}

func (r *raiser) RaiseIrq(src interrupts.Source) {
	r.raised = append(r.raised, src)
	r.requested[src] = true
}

func (r *raiser) ScheduleIrqAbs(src interrupts.Source, _ int64) {
	r.RaiseIrq(src)
}

func (r *raiser) ScheduleIrqRel(src interrupts.Source, _ int64) {
	r.RaiseIrq(src)
}

func (r *raiser) IsRequested(src interrupts.Source) bool {
	return r.requested[src]
}

func TestLoopback(t *testing.T) {
	clk := &clock{}
	sched := scheduler.NewScheduler(clk)
	irq := &raiser{requested: make(map[interrupts.Source]bool)}
	line := uart.NewLine(true)

	u := uart.NewUART(sched, irq, nil, line)
	line.SetOnChange(u.RXDChanged)

	var sent []uint16
	u.SetOutput(func(v uint16) { sent = append(sent, v) })

	u.PokeSERPER(10)
	test.ExpectEquality(t, u.PeekSERDATR()&0x3000, uint16(0x3000))

	// 'A' with two stop bits
	u.PokeSERDAT(0x0341)
	test.DemandEquality(t, len(sent), 1)
	test.ExpectEquality(t, sent[0], uint16(0x0341))
	test.ExpectEquality(t, irq.raised[0], interrupts.TBE)

	// the transmit buffer is empty, the shift register is not
	test.ExpectEquality(t, u.PeekSERDATR()&0x3000, uint16(0x2000))

	for clk.now < clocks.DMACycles(11*20) {
		clk.now += clocks.DMACycles(1)
		sched.ExecuteEventsUntil(clk.now)
	}

	test.ExpectEquality(t, sched.HasEvent(scheduler.TXD), false)
	test.ExpectEquality(t, sched.HasEvent(scheduler.RXD), false)
	test.ExpectEquality(t, line.TXD(), true)

	v := u.PeekSERDATR()
	test.ExpectEquality(t, v&0x03ff, uint16(0x0341))
	test.ExpectEquality(t, v&0x4000, uint16(0x4000))
	test.ExpectEquality(t, v&0x8000, uint16(0))
	test.ExpectEquality(t, irq.raised[len(irq.raised)-1], interrupts.RBF)
}

func TestBreak(t *testing.T) {
	clk := &clock{}
	sched := scheduler.NewScheduler(clk)
	irq := &raiser{requested: make(map[interrupts.Source]bool)}
	line := uart.NewLine(false)

	u := uart.NewUART(sched, irq, brk(true), line)
	u.Reset()
	test.ExpectEquality(t, line.TXD(), false)
}

type brk bool

func (b brk) UARTBRK() bool {
	return bool(b)
}
