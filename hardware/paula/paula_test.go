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

package paula_test

import (
	"testing"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/drive"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/paula"
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

type bus struct {
	hpos     int
	audio    [4]bool
	reloaded [4]int
}

func (b *bus) AudioDMA(nr int) bool { return b.audio[nr] }
func (b *bus) ReloadAudioPointer(nr int) { b.reloaded[nr]++ }
func (b *bus) DiskDMAEnabled() bool { return false }
func (b *bus) DiskToMemory(_ uint16) {}
func (b *bus) MemoryToDisk() uint16 { return 0 }
func (b *bus) HPOS() int { return b.hpos }

type rig struct {
	clk   *clock
	bus   *bus
	sched *scheduler.Scheduler
	pl    *paula.Paula
	tab   *memory.Table
}

func newRig(t *testing.T) *rig {
	t.Helper()

	r := &rig{
		clk: &clock{},
		bus: &bus{},
		tab: memory.NewTable(),
	}
	r.sched = scheduler.NewScheduler(r.clk)

	var drives [4]*drive.Drive
	for i := range drives {
		drives[i] = drive.NewDrive(i)
	}
	r.pl = paula.NewPaula(r.sched, r.clk, r.bus, nil, drives)
	test.DemandSuccess(t, r.pl.MapRegisters(r.tab))
	return r
}

// run advances the clock one DMA cycle at a time until the target.
func (r *rig) run(target clocks.Cycle) {
	for r.clk.now < target {
		r.clk.now += clocks.DMACycles(1)
		r.sched.ExecuteEventsUntil(r.clk.now)
	}
}

func TestADKCON(t *testing.T) {
	r := newRig(t)

	r.tab.PokeCustom16(0xdff09e, 0x8811)
	test.ExpectEquality(t, r.tab.PeekCustom16(0xdff010), uint16(0x0811))
	test.ExpectEquality(t, r.pl.UARTBRK(), true)

	r.tab.PokeCustom16(0xdff09e, 0x0801)
	test.ExpectEquality(t, r.pl.ADKCON(), uint16(0x0010))
	test.ExpectEquality(t, r.pl.UARTBRK(), false)
}

func TestInterruptRegisters(t *testing.T) {
	r := newRig(t)

	r.tab.PokeCustom16(0xdff09a, 0xc008)
	r.tab.PokeCustom16(0xdff09c, 0x8008)
	test.ExpectEquality(t, r.tab.PeekCustom16(0xdff01c), uint16(0x4008))
	test.ExpectEquality(t, r.tab.PeekCustom16(0xdff01e), uint16(0x0008))
	test.ExpectEquality(t, r.pl.IRQ.InterruptLevel(), uint8(2))
}

func TestAudioIRQMode(t *testing.T) {
	r := newRig(t)

	r.tab.PokeCustom16(0xdff0a6, 200)
	r.tab.PokeCustom16(0xdff0a8, 64)
	r.tab.PokeCustom16(0xdff0aa, 0x7f80)

	// the interrupt asking for the next word arrives one DMA cycle later
	test.ExpectEquality(t, r.pl.IRQ.IsRequested(interrupts.AUD0), false)
	r.run(clocks.DMACycles(2))
	test.ExpectEquality(t, r.pl.IRQ.IsRequested(interrupts.AUD0), true)
	test.ExpectEquality(t, r.pl.Info().Audio[0].Audvol, uint16(64))
}

func TestPotOutput(t *testing.T) {
	r := newRig(t)

	r.tab.PokeCustom16(0xdff034, 0x0300)
	test.ExpectEquality(t, r.tab.PeekCustom16(0xdff016), uint16(0x0100))

	r.tab.PokeCustom16(0xdff034, 0xc200)
	test.ExpectEquality(t, r.tab.PeekCustom16(0xdff016), uint16(0x4000))
}

func TestPotCounter(t *testing.T) {
	r := newRig(t)

	r.pl.SetPotCharge(paula.PotX0, 0.25)
	r.tab.PokeCustom16(0xdff034, 0x0001)

	// the first discharge event is at the end of the current line
	lineEnd := clocks.DMACycles(clocks.HPOSMax)
	test.ExpectEquality(t, r.sched.Trigger(scheduler.POT), lineEnd)

	for line := int64(0); line < 20; line++ {
		r.clk.now = lineEnd + line*clocks.DMACycles(clocks.HPOSCount)
		r.pl.HSync()
		r.sched.ExecuteEventsUntil(r.clk.now)
	}

	// eight lines of discharge followed by four lines of charge
	test.ExpectEquality(t, r.tab.PeekCustom16(0xdff012)&0x00ff, uint16(3))
	test.ExpectEquality(t, r.tab.PeekCustom16(0xdff016), uint16(0x0100))
	test.ExpectEquality(t, r.sched.HasEvent(scheduler.POT), false)
}

func TestSaveLoad(t *testing.T) {
	r := newRig(t)

	r.tab.PokeCustom16(0xdff09e, 0x8400)
	r.tab.PokeCustom16(0xdff07e, 0x4489)
	r.tab.PokeCustom16(0xdff032, 0x0010)
	r.tab.PokeCustom16(0xdff0b6, 300)
	r.tab.PokeCustom16(0xdff0b8, 32)

	s := savestate.NewState()
	r.pl.Save(s)
	test.DemandSuccess(t, s.Err())
	before := r.pl.Info()

	r.pl.Reset()
	test.ExpectEquality(t, r.pl.ADKCON(), uint16(0))

	l, err := savestate.FromBytes(s.Bytes())
	test.DemandSuccess(t, err)
	r.pl.Load(l)
	test.DemandSuccess(t, l.Err())
	test.ExpectEquality(t, l.Remaining(), 0)

	after := r.pl.Info()
	test.ExpectEquality(t, after.ADKCON, before.ADKCON)
	test.ExpectEquality(t, after.Audio[1], before.Audio[1])
	test.ExpectEquality(t, after.UART, before.UART)
	test.ExpectEquality(t, after.Disk.DSKSYNC, before.Disk.DSKSYNC)
}
