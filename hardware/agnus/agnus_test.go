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

package agnus_test

import (
	"testing"

	"github.com/gopher500/gopher500/hardware/agnus"
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/drive"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/paula"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/test"
)

type denise struct {
	bpl   [6][]uint16
	draws int
}

func (d *denise) SetBPLxDAT(plane int, value uint16) {
	d.bpl[plane] = append(d.bpl[plane], value)
}

func (d *denise) SetSPRxDAT(_ int, _ uint32) {}

func (d *denise) Draw(_ bool, _ bool, _ bool) {
	d.draws++
}

type tod struct {
	count int
}

func (t *tod) IncrementTOD() {
	t.count++
}

type rig struct {
	ram    *memory.ChipRAM
	ag     *agnus.Agnus
	pl     *paula.Paula
	tab    *memory.Table
	denise *denise
	todA   *tod
	todB   *tod
}

func newRig(t *testing.T) *rig {
	t.Helper()

	r := &rig{
		ram:    memory.NewChipRAM(),
		tab:    memory.NewTable(),
		denise: &denise{},
		todA:   &tod{},
		todB:   &tod{},
	}
	r.ag = agnus.NewAgnus(r.ram)

	var drives [4]*drive.Drive
	for i := range drives {
		drives[i] = drive.NewDrive(i)
	}
	r.pl = paula.NewPaula(r.ag.Sched, r.ag, r.ag, nil, drives)

	r.ag.ConnectPaula(r.pl)
	r.ag.ConnectDenise(r.denise)
	r.ag.ConnectTOD(r.todA, r.todB)

	test.DemandSuccess(t, r.ag.MapRegisters(r.tab))
	test.DemandSuccess(t, r.pl.MapRegisters(r.tab))
	r.ag.SetRegisterApply(r.tab.PokeCustom16)

	r.ag.Sched.Reset(true)
	r.ag.Reset(true)
	r.pl.Reset()

	return r
}

func (r *rig) poke(offset uint32, value uint16) {
	r.tab.PokeCustom16(memory.CustomBase+offset, value)
}

// a single lores bitplane from line 0x2c with a fetch window of twenty units
func (r *rig) bitplanes() {
	r.ram.Poke16(0x1000, 0xabcd)
	r.poke(0x08e, 0x2c81)
	r.poke(0x090, 0x2cc1)
	r.poke(0x092, 0x0038)
	r.poke(0x094, 0x00d0)
	r.poke(0x0e0, 0x0000)
	r.poke(0x0e2, 0x1000)
	r.poke(0x108, 0x0008)
	r.poke(0x100, 0x1200)
	r.poke(0x096, 0x8300)
}

func TestDasTable(t *testing.T) {
	r := newRig(t)

	das := r.ag.DasEvents()
	test.ExpectEquality(t, das[0x01], scheduler.DasRefresh)
	test.ExpectEquality(t, das[0x07], scheduler.EventNone)
	test.ExpectEquality(t, das[0x0d], scheduler.DasA0)
	test.ExpectEquality(t, das[0x13], scheduler.DasA3)
	test.ExpectEquality(t, das[0x15], scheduler.EventNone)
	test.ExpectEquality(t, das[0x66], scheduler.DasTick)
	test.ExpectEquality(t, das[0xdf], scheduler.DasSDMA)

	// sprite DMA is not possible in the first line of the frame
	r.ag.SetDMACON(0x8000 | 0x0200 | 0x0010 | 0x0020)
	das = r.ag.DasEvents()
	test.ExpectEquality(t, das[0x07], scheduler.DasD0)
	test.ExpectEquality(t, das[0x09], scheduler.DasD1)
	test.ExpectEquality(t, das[0x0b], scheduler.DasD2)
	test.ExpectEquality(t, das[0x15], scheduler.EventNone)

	r.ag.ExecuteUntil(r.ag.BeamToCycle(30, 0))
	das = r.ag.DasEvents()
	test.ExpectEquality(t, das[0x15], scheduler.DasS0_1)
	test.ExpectEquality(t, das[0x33], scheduler.DasS7_2)
}

func TestBitplaneDMA(t *testing.T) {
	r := newRig(t)
	r.bitplanes()

	r.ag.ExecuteUntil(r.ag.BeamToCycle(0x2c, 0x10))
	bpl := r.ag.BplEvents()
	test.ExpectEquality(t, bpl[0x38], scheduler.EventNone)
	test.ExpectEquality(t, bpl[0x3f], scheduler.BplL1|scheduler.DrawOdd|scheduler.DrawEven)
	test.ExpectEquality(t, bpl[0x47], scheduler.BplL1|scheduler.DrawOdd|scheduler.DrawEven)
	test.ExpectEquality(t, bpl[0xd7], scheduler.BplL1|scheduler.DrawOdd|scheduler.DrawEven)
	test.ExpectEquality(t, bpl[0xd8], scheduler.EventNone)
	test.ExpectEquality(t, bpl[clocks.HPOSMax], scheduler.BplEOL)
	test.ExpectEquality(t, len(r.denise.bpl[0]), 0)

	r.ag.ExecuteUntil(r.ag.BeamToCycle(0x2c, 0x40))
	test.DemandEquality(t, len(r.denise.bpl[0]), 1)
	test.ExpectEquality(t, r.denise.bpl[0][0], 0xabcd)

	// twenty fetches and the modulo
	r.ag.ExecuteUntil(r.ag.BeamToCycle(0x2d, 0x10))
	test.ExpectEquality(t, len(r.denise.bpl[0]), 20)
	test.ExpectEquality(t, r.ag.Info().BPLPT[0], 0x1000+40+8)
	test.ExpectSuccess(t, r.denise.draws > 0)
	test.ExpectSuccess(t, r.ag.Usage()[agnus.BusBitplane1] == 20)
}

func TestNoBitplanesOutsideWindow(t *testing.T) {
	r := newRig(t)
	r.bitplanes()

	r.ag.ExecuteUntil(r.ag.BeamToCycle(0x2b, clocks.HPOSMax-1))
	test.ExpectEquality(t, len(r.denise.bpl[0]), 0)
	test.ExpectEquality(t, r.ag.BplEvents()[0x3f], scheduler.EventNone)
}

func TestRegisterDelay(t *testing.T) {
	r := newRig(t)

	r.poke(0x096, 0x8210)
	test.ExpectEquality(t, r.ag.DMACONR(), 0)
	test.ExpectEquality(t, r.ag.PendingChanges(), 1)

	r.ag.ExecuteUntil(clocks.DMACycles(1))
	test.ExpectEquality(t, r.ag.DMACONR(), 0)

	r.ag.ExecuteUntil(clocks.DMACycles(2))
	test.ExpectEquality(t, r.ag.DMACONR(), 0x0210)
	test.ExpectEquality(t, r.tab.PeekCustom16(memory.CustomBase+0x002), 0x0210)
	test.ExpectEquality(t, r.ag.PendingChanges(), 0)

	// clearing bits
	r.poke(0x096, 0x0010)
	r.ag.ExecuteUntil(clocks.DMACycles(4))
	test.ExpectEquality(t, r.ag.DMACONR(), 0x0200)
}

func TestRecorderOverflow(t *testing.T) {
	r := newRig(t)

	for i := 0; i < 256; i++ {
		r.ag.RecordRegisterChange(clocks.DMACycles(1000), 0x108, uint16(i*2))
	}
	test.ExpectEquality(t, r.ag.PendingChanges(), 256)

	// the recorder is full so the change is applied immediately
	r.ag.RecordRegisterChange(clocks.DMACycles(1000), 0x108, 0x0100)
	test.ExpectEquality(t, r.ag.PendingChanges(), 256)
	test.ExpectEquality(t, r.ag.Info().BPL1MOD, 0x0100)

	// recorded changes are applied in order
	r.ag.ExecuteUntil(clocks.DMACycles(1000))
	test.ExpectEquality(t, r.ag.PendingChanges(), 0)
	test.ExpectEquality(t, r.ag.Info().BPL1MOD, 510)
}

func TestBeam(t *testing.T) {
	r := newRig(t)

	r.ag.ExecuteUntil(clocks.DMACycles(10) + 3)
	test.ExpectEquality(t, r.ag.HPOS(), 10)
	test.ExpectEquality(t, r.ag.Now(), clocks.DMACycles(10))

	r.ag.ExecuteUntil(clocks.DMACycles(clocks.HPOSCount))
	test.ExpectEquality(t, r.ag.VPOS(), 1)
	test.ExpectEquality(t, r.ag.HPOS(), 0)
	test.ExpectEquality(t, r.ag.VHPOSR(), 0x0100)

	r.ag.ExecuteUntil(clocks.DMACycles(clocks.DMACyclesPerFrame))
	test.ExpectEquality(t, r.ag.Frame(), 1)
	test.ExpectEquality(t, r.ag.VPOS(), 0)
	test.ExpectEquality(t, r.ag.HPOS(), 0)
	test.ExpectEquality(t, r.ag.BeamToCycle(0, 0), clocks.DMACycles(clocks.DMACyclesPerFrame))
}

func TestVerticalBlank(t *testing.T) {
	r := newRig(t)

	var frames []int64
	r.ag.AddFrameObserver(func(frame int64) {
		frames = append(frames, frame)
	})

	r.ag.ExecuteUntil(clocks.DMACycles(clocks.DMACyclesPerFrame - 1))
	test.ExpectSuccess(t, !r.pl.IRQ.IsRequested(interrupts.VERTB))

	r.ag.ExecuteUntil(clocks.DMACycles(clocks.DMACyclesPerFrame))
	test.ExpectSuccess(t, r.pl.IRQ.IsRequested(interrupts.VERTB))
	test.ExpectEquality(t, r.todA.count, 0)
	test.ExpectEquality(t, r.todB.count, clocks.VPOSCount)
	test.ExpectEquality(t, len(frames), 0)

	r.ag.ExecuteUntil(r.ag.BeamToCycle(5, 85))
	test.ExpectEquality(t, r.todA.count, 1)
	test.ExpectEquality(t, len(frames), 0)

	r.ag.ExecuteUntil(r.ag.BeamToCycle(5, 179))
	test.DemandEquality(t, len(frames), 1)
	test.ExpectEquality(t, frames[0], 1)
}

func TestAudioDMA(t *testing.T) {
	r := newRig(t)

	r.ram.Poke16(0x2000, 0x7f80)
	r.ram.Poke16(0x2002, 0x7f80)
	r.poke(0x0a0, 0x0000)
	r.poke(0x0a2, 0x2000)
	r.poke(0x0a4, 2)
	r.poke(0x0a6, 200)
	r.poke(0x0a8, 64)
	r.poke(0x096, 0x8201)

	r.ag.ExecuteUntil(clocks.DMACycles(clocks.HPOSCount * 40))
	test.ExpectSuccess(t, r.ag.Usage()[agnus.BusAudio] > 0)
	test.ExpectSuccess(t, r.pl.BlocksFinished(0) > 0)

	// audio pointer stays within the sample block
	pt := r.ag.Info().AUDPT[0]
	test.ExpectSuccess(t, pt >= 0x2000 && pt <= 0x2004)
}

func TestBusAllocation(t *testing.T) {
	r := newRig(t)

	// DMA for the copper is off
	test.ExpectSuccess(t, !r.ag.AllocateBus(agnus.BusCopper))
	test.ExpectSuccess(t, r.ag.AllocateBus(agnus.BusCPU))
	test.ExpectSuccess(t, !r.ag.BusIsFree())
	test.ExpectSuccess(t, !r.ag.AllocateBus(agnus.BusCPU))

	r.ag.SetDMACON(0x8000 | 0x0200 | 0x0080)
	r.ag.ExecuteUntil(clocks.DMACycles(2))
	test.ExpectSuccess(t, r.ag.AllocateBus(agnus.BusCopper))
	test.ExpectEquality(t, r.ag.BusOwners()[2], agnus.BusCopper)

	test.ExpectEquality(t, agnus.BusBitplane3.String(), "bitplane 3")
	test.ExpectEquality(t, agnus.BusSprite7.String(), "sprite 7")
}

func TestSaveLoad(t *testing.T) {
	r := newRig(t)
	r.bitplanes()

	r.ag.ExecuteUntil(r.ag.BeamToCycle(0x2c, 0x50))

	s := savestate.NewState()
	r.ram.Save(s)
	r.ag.Sched.Save(s)
	r.ag.Save(s)
	r.pl.Save(s)

	target := r.ag.BeamToCycle(0x40, 0x10)
	r.ag.ExecuteUntil(target)
	want := r.ag.Info()

	ld, err := savestate.FromBytes(s.Bytes())
	test.DemandSuccess(t, err)
	r.ram.Load(ld)
	r.ag.Sched.Load(ld)
	r.ag.Load(ld)
	r.pl.Load(ld)
	test.DemandSuccess(t, ld.Err())
	test.ExpectEquality(t, r.ag.HPOS(), 0x50)

	r.ag.ExecuteUntil(target)
	got := r.ag.Info()

	// bus statistics are not part of the state
	got.Usage = [agnus.NumBusOwners]int64{}
	want.Usage = [agnus.NumBusOwners]int64{}
	test.ExpectEquality(t, got, want)
}
