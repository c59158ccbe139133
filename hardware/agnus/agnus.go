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

// Package agnus implements the DMA controller. Agnus owns the master clock,
// the beam position and the scheduler. Every other component of the
// emulation is driven by the scheduler that Agnus advances in ExecuteUntil().
//
// DMA slots within a line are decided by two event tables. The bitplane table
// fills the BPL slot and the disk, audio and sprite table fills the DAS slot.
// Both tables are copied from lookup tables built once at startup and are
// accompanied by jump tables that give the position of the next event in the
// line. Whenever a register write changes the DMA allocation the affected
// table is rebuilt and the slot rescheduled from the current position.
//
// Agnus does not know about the CPU. Copper, blitter and CIA chips are
// connected by registering handlers for their slots with the scheduler.
package agnus

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/paula"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// Denise receives bitplane and sprite data fetched by DMA.
type Denise interface {
	SetBPLxDAT(plane int, value uint16)
	SetSPRxDAT(sprite int, value uint32)

	// load the shift registers of the odd and/or even bitplanes
	Draw(hires bool, odd bool, even bool)
}

// TOD is the time of day counter of a CIA chip.
type TOD interface {
	IncrementTOD()
}

// FrameObserver is called once per frame with the frame number.
type FrameObserver func(frame int64)

// Inspector is called by the inspection event.
type Inspector func(id scheduler.EventID)

// Agnus is the DMA controller.
type Agnus struct {
	Sched *scheduler.Scheduler

	ram   *memory.ChipRAM
	paula *paula.Paula

	// optional collaborators
	denise    Denise
	todA      TOD
	todB      TOD
	observers []FrameObserver

	clock clocks.Cycle

	// beam position and frame counter
	h          int
	v          int
	frame      int64
	frameStart clocks.Cycle

	dmacon  uint16
	bplcon0 uint16
	bplcon1 uint16
	ddfstrt uint16
	ddfstop uint16
	diwstrt uint16
	diwstop uint16
	bpl1mod int16
	bpl2mod int16

	// the bitplane window for the current line is open
	diwVFlop bool

	// DMA pointers
	bplpt [6]uint32
	audlc [4]uint32
	audpt [4]uint32
	sprpt [8]uint32
	dskpt uint32

	sprites [8]sprite

	// event and jump tables for the current line
	bplEvent     [clocks.HPOSCount]scheduler.EventID
	dasEvent     [clocks.HPOSCount]scheduler.EventID
	nextBplEvent [clocks.HPOSCount]uint8
	nextDasEvent [clocks.HPOSCount]uint8

	// the fetch window of the current line. last is the final cycle of the
	// last fetch unit
	ddfFirst int
	ddfLast  int

	// delayed register writes
	recorder recorder
	apply    func(address uint32, value uint16)

	// bus usage for the current line and accumulated statistics
	busOwner [clocks.HPOSCount]BusOwner
	busValue [clocks.HPOSCount]uint16
	usage    [NumBusOwners]int64

	inspector  Inspector
	inspectID  scheduler.EventID
	inspection clocks.Cycle
}

// NewAgnus is the preferred method of initialisation for the Agnus type. The
// scheduler is created and the Agnus slot handlers are registered with it.
// Paula must be connected with ConnectPaula() before the emulation is reset.
func NewAgnus(ram *memory.ChipRAM) *Agnus {
	ag := &Agnus{
		ram: ram,
	}
	ag.Sched = scheduler.NewScheduler(ag)

	ag.Sched.Register(scheduler.REG, ag.serviceRegEvent)
	ag.Sched.Register(scheduler.RAS, ag.serviceRasEvent)
	ag.Sched.Register(scheduler.BPL, ag.serviceBplEvent)
	ag.Sched.Register(scheduler.DAS, ag.serviceDasEvent)
	ag.Sched.Register(scheduler.VBL, ag.serviceVblEvent)
	ag.Sched.Register(scheduler.INS, ag.serviceInsEvent)

	return ag
}

// ConnectPaula connects the chip that Agnus performs audio and disk DMA for.
func (ag *Agnus) ConnectPaula(pl *paula.Paula) {
	ag.paula = pl
}

// ConnectDenise connects the receiver of bitplane and sprite data. Can be
// nil.
func (ag *Agnus) ConnectDenise(denise Denise) {
	ag.denise = denise
}

// ConnectTOD connects the time of day counters of the two CIA chips. Either
// can be nil.
func (ag *Agnus) ConnectTOD(todA TOD, todB TOD) {
	ag.todA = todA
	ag.todB = todB
}

// SetRegisterApply sets the function used to apply delayed register writes
// that are not handled by Agnus itself.
func (ag *Agnus) SetRegisterApply(apply func(address uint32, value uint16)) {
	ag.apply = apply
}

// AddFrameObserver adds a function to be called at the end of every frame.
func (ag *Agnus) AddFrameObserver(f FrameObserver) {
	ag.observers = append(ag.observers, f)
}

// SetInspection sets the interval of the inspection event. An interval of
// zero disables the event.
func (ag *Agnus) SetInspection(id scheduler.EventID, interval clocks.Cycle, f Inspector) {
	ag.inspectID = id
	ag.inspection = interval
	ag.inspector = f
	if interval > 0 && f != nil {
		ag.Sched.ScheduleRel(scheduler.INS, interval, id, 0)
	} else {
		ag.Sched.Cancel(scheduler.INS)
	}
}

// Now implements the scheduler.Clock interface.
func (ag *Agnus) Now() clocks.Cycle {
	return ag.clock
}

// HPOS returns the horizontal beam position. Implements the paula.Bus
// interface.
func (ag *Agnus) HPOS() int {
	return ag.h
}

// VPOS returns the vertical beam position.
func (ag *Agnus) VPOS() int {
	return ag.v
}

// Frame returns the frame number.
func (ag *Agnus) Frame() int64 {
	return ag.frame
}

// BeamToCycle returns the cycle at which the beam reaches the position in the
// current frame.
func (ag *Agnus) BeamToCycle(v int, h int) clocks.Cycle {
	return ag.frameStart + clocks.DMACycles(int64(v*clocks.HPOSCount+h))
}

// Reset Agnus. The scheduler should be reset before Agnus and the other
// components after, so that every component can re-arm its slots.
func (ag *Agnus) Reset(hard bool) {
	if hard {
		ag.clock = 0
		ag.frame = 0
		ag.h = 0
		ag.v = 0
		ag.frameStart = 0
	}

	ag.dmacon = 0
	ag.bplcon0 = 0
	ag.bplcon1 = 0
	ag.ddfstrt = 0
	ag.ddfstop = 0
	ag.diwstrt = 0
	ag.diwstop = 0
	ag.bpl1mod = 0
	ag.bpl2mod = 0
	ag.diwVFlop = false
	ag.bplpt = [6]uint32{}
	ag.audlc = [4]uint32{}
	ag.audpt = [4]uint32{}
	ag.sprpt = [8]uint32{}
	ag.dskpt = 0
	ag.sprites = [8]sprite{}
	ag.recorder.clear()
	ag.ClearStats()
	for i := range ag.busOwner {
		ag.busOwner[i] = BusNone
	}

	ag.UpdateBplEvents(ag.dmacon, ag.bplcon0, 0, clocks.HPOSMax)
	ag.UpdateDasEvents(0)

	// the raster and vertical blank events are always pending. the first
	// vertical blank is at the start of the next frame
	ag.Sched.ScheduleAbs(scheduler.RAS, ag.BeamToCycle(ag.v, clocks.HPOSMax), scheduler.RasHSync, 0)
	ag.Sched.ScheduleAbs(scheduler.VBL, ag.frameStart+clocks.DMACycles(clocks.DMACyclesPerFrame), scheduler.VblStrobe0, 0)
	ag.ScheduleBplEventForCycle(ag.h)
	ag.ScheduleDasEventForCycle(ag.h)

	if ag.inspection > 0 && ag.inspector != nil {
		ag.Sched.ScheduleRel(scheduler.INS, ag.inspection, ag.inspectID, 0)
	}
}

// step advances the clock and the beam by one DMA cycle.
func (ag *Agnus) step() {
	ag.clock += clocks.DMACycles(1)
	ag.h++
	if ag.h > clocks.HPOSMax {
		ag.h = 0
		ag.v++
		for i := range ag.busOwner {
			ag.busOwner[i] = BusNone
		}
		if ag.v > clocks.VPOSMax {
			ag.v = 0
			ag.frame++
			ag.frameStart = ag.clock
		}
	}
	ag.Sched.ExecuteEventsUntil(ag.clock)
}

// ExecuteUntil advances the emulation one DMA cycle at a time until the
// target cycle. The target is rounded down to a whole DMA cycle.
func (ag *Agnus) ExecuteUntil(target clocks.Cycle) {
	target &^= clocks.DMACycles(1) - 1
	for ag.clock < target {
		ag.step()
	}
}

// Save implements the savestate.Stater interface.
func (ag *Agnus) Save(s *savestate.State) {
	s.WriteInt64(ag.clock)
	s.Write16(uint16(ag.h))
	s.Write16(uint16(ag.v))
	s.WriteInt64(ag.frame)
	s.WriteInt64(ag.frameStart)

	s.Write16(ag.dmacon)
	s.Write16(ag.bplcon0)
	s.Write16(ag.bplcon1)
	s.Write16(ag.ddfstrt)
	s.Write16(ag.ddfstop)
	s.Write16(ag.diwstrt)
	s.Write16(ag.diwstop)
	s.Write16(uint16(ag.bpl1mod))
	s.Write16(uint16(ag.bpl2mod))
	s.WriteBool(ag.diwVFlop)

	for _, p := range ag.bplpt {
		s.Write32(p)
	}
	for i := range ag.audlc {
		s.Write32(ag.audlc[i])
		s.Write32(ag.audpt[i])
	}
	for i := range ag.sprpt {
		s.Write32(ag.sprpt[i])
		ag.sprites[i].save(s)
	}
	s.Write32(ag.dskpt)

	for i := range ag.bplEvent {
		s.Write8(uint8(ag.bplEvent[i]))
		s.Write8(uint8(ag.dasEvent[i]))
	}
	s.Write16(uint16(ag.ddfFirst))
	s.Write16(uint16(ag.ddfLast))

	ag.recorder.save(s)
}

// Load implements the savestate.Stater interface.
func (ag *Agnus) Load(s *savestate.State) {
	ag.clock = s.ReadInt64()
	ag.h = int(s.Read16())
	ag.v = int(s.Read16())
	ag.frame = s.ReadInt64()
	ag.frameStart = s.ReadInt64()

	ag.dmacon = s.Read16()
	ag.bplcon0 = s.Read16()
	ag.bplcon1 = s.Read16()
	ag.ddfstrt = s.Read16()
	ag.ddfstop = s.Read16()
	ag.diwstrt = s.Read16()
	ag.diwstop = s.Read16()
	ag.bpl1mod = int16(s.Read16())
	ag.bpl2mod = int16(s.Read16())
	ag.diwVFlop = s.ReadBool()

	for i := range ag.bplpt {
		ag.bplpt[i] = s.Read32()
	}
	for i := range ag.audlc {
		ag.audlc[i] = s.Read32()
		ag.audpt[i] = s.Read32()
	}
	for i := range ag.sprpt {
		ag.sprpt[i] = s.Read32()
		ag.sprites[i].load(s)
	}
	ag.dskpt = s.Read32()

	for i := range ag.bplEvent {
		ag.bplEvent[i] = scheduler.EventID(s.Read8())
		ag.dasEvent[i] = scheduler.EventID(s.Read8())
	}
	ag.ddfFirst = int(s.Read16())
	ag.ddfLast = int(s.Read16())
	ag.updateBplJumpTable()
	ag.updateDasJumpTable()

	ag.recorder.load(s)
}
