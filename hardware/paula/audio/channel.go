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

// Package audio implements the four audio channels, the sample queues that
// connect them to the mixer and the mixer itself.
//
// Each channel is a state machine driven by the CHx slot of the scheduler.
// The states are named by the three bit codes used in hardware documentation.
//
//	000 idle
//	001 DMA enabled, waiting for the first data word
//	101 DMA enabled, first data word requested
//	010 output of the high byte of the buffer
//	011 output of the low byte of the buffer
//
// Whenever a state expects another period to elapse the channel schedules a
// ChxPerfin event for its slot. A channel that produces a sample writes it
// to its Sampler with the current cycle as the tag. A sample is written at
// most once for every value written to AUDxDAT. This stops very short
// periods from flooding the queue with duplicate samples.
package audio

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/logger"
)

// State of the channel state machine.
type State uint8

// List of valid State values.
const (
	State000 State = 0b000
	State001 State = 0b001
	State010 State = 0b010
	State011 State = 0b011
	State101 State = 0b101
)

func (s State) String() string {
	switch s {
	case State000:
		return "000"
	case State001:
		return "001"
	case State010:
		return "010"
	case State011:
		return "011"
	case State101:
		return "101"
	}
	return "???"
}

// Host is the part of the emulation that the channels depend on.
type Host interface {
	// audio DMA is enabled for the channel
	AudioDMA(nr int) bool

	// current value of the ADKCON register
	ADKCON() uint16

	// reload the channel's DMA pointer from the location latch
	ReloadAudioPointer(nr int)

	// the channel has played the last word of a block
	AudioBlockFinished(nr int)
}

// Channel is a single audio channel.
type Channel struct {
	nr    int
	slot  scheduler.Slot
	src   interrupts.Source
	sched *scheduler.Scheduler
	clock scheduler.Clock
	host  Host
	irq   interrupts.Raiser

	// the channel modulated by this channel in attach mode. nil for channel 3
	sibling *Channel

	sampler *Sampler

	state  State
	buffer uint16

	audlenLatch uint16
	audlen      uint16
	audperLatch uint16
	audper      int32
	audvolLatch uint16
	audvol      uint16
	auddat      uint16

	// DMA request to Agnus for one word of data
	audDR bool

	// the next 010->011 or 011->010 transition in DMA mode raises an
	// interrupt
	intreq2 bool

	// one-shot flags. set by a write to AUDxDAT
	enablePenhi bool
	enablePenlo bool
}

// NewChannel is the preferred method of initialisation for the Channel type.
// The channel registers its slot handler with the scheduler.
func NewChannel(nr int, sched *scheduler.Scheduler, clock scheduler.Clock, host Host, irq interrupts.Raiser, sampler *Sampler) *Channel {
	ch := &Channel{
		nr:      nr,
		slot:    scheduler.AudioSlot(nr),
		src:     interrupts.AudioSource(nr),
		sched:   sched,
		clock:   clock,
		host:    host,
		irq:     irq,
		sampler: sampler,
	}
	sched.Register(ch.slot, ch.serviceEvent)
	return ch
}

// SetSibling sets the channel that is modulated in attach mode.
func (ch *Channel) SetSibling(sibling *Channel) {
	ch.sibling = sibling
}

// Reset the channel.
func (ch *Channel) Reset() {
	ch.state = State000
	ch.buffer = 0
	ch.audlenLatch, ch.audlen = 0, 0
	ch.audperLatch, ch.audper = 0, 0
	ch.audvolLatch, ch.audvol = 0, 0
	ch.auddat = 0
	ch.audDR = false
	ch.intreq2 = false
	ch.enablePenhi = false
	ch.enablePenlo = false
	ch.sampler.Clear()
}

// State returns the current state.
func (ch *Channel) State() State {
	return ch.state
}

// Sampler returns the sample queue of the channel.
func (ch *Channel) Sampler() *Sampler {
	return ch.sampler
}

// PokeAUDxLEN writes the length latch.
func (ch *Channel) PokeAUDxLEN(value uint16) {
	ch.audlenLatch = value
}

// PokeAUDxPER writes the period latch.
func (ch *Channel) PokeAUDxPER(value uint16) {
	ch.audperLatch = value
}

// PokeAUDxVOL writes the volume latch. Only the lower seven bits are used and
// any value over 64 is treated as 64.
func (ch *Channel) PokeAUDxVOL(value uint16) {
	value &= 0x7f
	if value > 64 {
		value = 64
	}
	ch.audvolLatch = value
}

// PokeAUDxDAT is a write to the data register by the CPU. In IRQ mode, with
// no interrupt pending, the write starts the output of the data.
func (ch *Channel) PokeAUDxDAT(value uint16) {
	ch.latchData(value)
	if ch.state == State000 && !ch.AUDxON() && !ch.AUDxIP() {
		ch.move000to010()
	}
}

// WriteDMA is the delivery of a word requested by the channel.
func (ch *Channel) WriteDMA(value uint16) {
	ch.audDR = false
	ch.latchData(value)
}

func (ch *Channel) latchData(value uint16) {
	ch.auddat = value
	ch.enablePenhi = true
	ch.enablePenlo = true
}

// DMARequest returns true if the channel is waiting for a data word.
func (ch *Channel) DMARequest() bool {
	return ch.audDR
}

// EnableDMA is called when the channel's DMA enable bit is set.
func (ch *Channel) EnableDMA() {
	if ch.state == State000 {
		ch.move000to001()
	}
}

// DisableDMA is called when the channel's DMA enable bit is cleared.
func (ch *Channel) DisableDMA() {
	switch ch.state {
	case State001, State101:
		ch.sched.Cancel(ch.slot)
		ch.state = State000
	}
}

// AUDxON returns true if DMA is enabled for the channel.
func (ch *Channel) AUDxON() bool {
	return ch.host.AudioDMA(ch.nr)
}

// AUDxIP returns true if the channel's interrupt is pending.
func (ch *Channel) AUDxIP() bool {
	return ch.irq.IsRequested(ch.src)
}

// AUDxIR requests the channel's interrupt.
func (ch *Channel) AUDxIR() {
	ch.irq.ScheduleIrqRel(ch.src, clocks.DMACycles(1))
}

// attach volume: the channel modulates the volume of its sibling
func (ch *Channel) av() bool {
	return (ch.host.ADKCON()>>ch.nr)&0x01 != 0
}

// attach period: the channel modulates the period of its sibling
func (ch *Channel) ap() bool {
	return (ch.host.ADKCON()>>(ch.nr+4))&0x01 != 0
}

func (ch *Channel) napnav() bool {
	return !ch.ap() || ch.av()
}

func (ch *Channel) percntrld() {
	delay := int64(ch.audperLatch)
	if delay == 0 {
		delay = 0x10000
	}
	ch.audper = int32(delay)
	ch.sched.ScheduleRel(ch.slot, clocks.DMACycles(delay), scheduler.ChxPerfin, 0)
}

func (ch *Channel) lencntrld() {
	ch.audlen = ch.audlenLatch
}

func (ch *Channel) lencount() {
	ch.audlen--
}

func (ch *Channel) lenfin() bool {
	return ch.audlen == 1
}

func (ch *Channel) volcntrld() {
	ch.audvol = ch.audvolLatch
}

func (ch *Channel) pbufld1() {
	if !ch.av() {
		ch.buffer = ch.auddat
		return
	}
	if ch.sibling != nil {
		ch.sibling.PokeAUDxVOL(ch.auddat)
	}
}

func (ch *Channel) pbufld2() {
	if ch.sibling != nil {
		ch.sibling.PokeAUDxPER(ch.auddat)
	}
}

func (ch *Channel) penhi() {
	if !ch.enablePenhi {
		return
	}
	ch.pen(int8(ch.buffer >> 8))
	ch.enablePenhi = false
}

func (ch *Channel) penlo() {
	if !ch.enablePenlo {
		return
	}
	ch.pen(int8(ch.buffer))
	ch.enablePenlo = false
}

func (ch *Channel) pen(sample int8) {
	ts := TaggedSample{
		Tag:    ch.clock.Now(),
		Sample: int16(sample) * int16(ch.audvol),
	}
	if !ch.sampler.Write(ts) {
		logger.Logf(logger.Allow, "audio", "channel %d: sample buffer is full", ch.nr)
	}
}

func (ch *Channel) move000to001() {
	ch.lencntrld()
	ch.audDR = true
	ch.percntrld()
	ch.state = State001
}

func (ch *Channel) move000to010() {
	ch.volcntrld()
	ch.percntrld()
	ch.pbufld1()
	ch.AUDxIR()
	ch.state = State010
	ch.penhi()
}

func (ch *Channel) move001to101() {
	ch.AUDxIR()
	ch.audDR = true
	ch.host.ReloadAudioPointer(ch.nr)
	if !ch.lenfin() {
		ch.lencount()
	}
	ch.percntrld()
	ch.state = State101
}

func (ch *Channel) move101to010() {
	ch.percntrld()
	ch.volcntrld()
	ch.pbufld1()
	if ch.napnav() {
		ch.audDR = true
	}
	ch.state = State010
	ch.penhi()
}

func (ch *Channel) move010to011() {
	ch.percntrld()

	if ch.AUDxON() {
		if ch.lenfin() {
			ch.lencntrld()
			ch.host.ReloadAudioPointer(ch.nr)
			ch.intreq2 = true
			ch.host.AudioBlockFinished(ch.nr)
		} else {
			ch.lencount()
		}
	}

	if ch.ap() {
		ch.pbufld2()
		ch.requestNext()
	}

	ch.state = State011
	ch.penlo()
}

func (ch *Channel) move011to010() {
	ch.percntrld()
	ch.pbufld1()
	ch.volcntrld()
	if ch.napnav() {
		ch.requestNext()
	}
	ch.state = State010
	ch.penhi()
}

func (ch *Channel) move011to000() {
	ch.sched.Cancel(ch.slot)
	ch.intreq2 = false
	ch.state = State000
}

// requestNext asks for the next data word in DMA mode, raising the deferred
// block interrupt if there is one. In IRQ mode the interrupt asks the CPU for
// the next word.
func (ch *Channel) requestNext() {
	if ch.AUDxON() {
		ch.audDR = true
		if ch.intreq2 {
			ch.AUDxIR()
			ch.intreq2 = false
		}
	} else {
		ch.AUDxIR()
	}
}

func (ch *Channel) serviceEvent(_ scheduler.EventID, _ int64) {
	switch ch.state {
	case State001:
		ch.move001to101()
	case State101:
		ch.move101to010()
	case State010:
		ch.move010to011()
	case State011:
		if ch.AUDxON() || !ch.AUDxIP() {
			ch.move011to010()
		} else {
			ch.move011to000()
		}
	default:
		ch.sched.Cancel(ch.slot)
	}
}

// Save implements the savestate.Stater interface.
func (ch *Channel) Save(s *savestate.State) {
	s.Write8(uint8(ch.state))
	s.Write16(ch.buffer)
	s.Write16(ch.audlenLatch)
	s.Write16(ch.audlen)
	s.Write16(ch.audperLatch)
	s.Write32(uint32(ch.audper))
	s.Write16(ch.audvolLatch)
	s.Write16(ch.audvol)
	s.Write16(ch.auddat)
	s.WriteBool(ch.audDR)
	s.WriteBool(ch.intreq2)
	s.WriteBool(ch.enablePenhi)
	s.WriteBool(ch.enablePenlo)
}

// Load implements the savestate.Stater interface.
func (ch *Channel) Load(s *savestate.State) {
	ch.state = State(s.Read8())
	ch.buffer = s.Read16()
	ch.audlenLatch = s.Read16()
	ch.audlen = s.Read16()
	ch.audperLatch = s.Read16()
	ch.audper = int32(s.Read32())
	ch.audvolLatch = s.Read16()
	ch.audvol = s.Read16()
	ch.auddat = s.Read16()
	ch.audDR = s.ReadBool()
	ch.intreq2 = s.ReadBool()
	ch.enablePenhi = s.ReadBool()
	ch.enablePenlo = s.ReadBool()
}

// ChannelInfo is a copy of the channel registers for inspection.
type ChannelInfo struct {
	State       State
	DMA         bool
	AudlenLatch uint16
	Audlen      uint16
	AudperLatch uint16
	Audper      int32
	AudvolLatch uint16
	Audvol      uint16
	Auddat      uint16
	Queued      int
}

// Info returns a copy of the channel registers. It must be called from the
// emulation goroutine.
func (ch *Channel) Info() ChannelInfo {
	return ChannelInfo{
		State:       ch.state,
		DMA:         ch.AUDxON(),
		AudlenLatch: ch.audlenLatch,
		Audlen:      ch.audlen,
		AudperLatch: ch.audperLatch,
		Audper:      ch.audper,
		AudvolLatch: ch.audvolLatch,
		Audvol:      ch.audvol,
		Auddat:      ch.auddat,
		Queued:      ch.sampler.Count(),
	}
}
