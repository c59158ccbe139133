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

// Package paula ties together the parts of the Paula chip: the interrupt
// controller, the four audio channels and their mixer, the disk controller,
// the serial port and the potentiometer counters.
//
// Paula does not access memory itself. Every DMA transfer is requested from
// Agnus through the Bus interface. In turn Paula implements the host
// interfaces of the audio and disk packages so that neither of those
// packages needs to know about the DMA controller.
package paula

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/drive"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/paula/audio"
	"github.com/gopher500/gopher500/hardware/paula/disk"
	"github.com/gopher500/gopher500/hardware/paula/uart"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/logger"
)

// Bus is the part of Agnus that Paula uses for DMA.
type Bus interface {
	// the DMACON bits for the audio channel and the master enable are set
	AudioDMA(nr int) bool

	// copy the location latch of the audio channel to the DMA pointer
	ReloadAudioPointer(nr int)

	// the DMACON bits for disk DMA and the master enable are set
	DiskDMAEnabled() bool

	// transfer a word to and from memory at the disk DMA pointer
	DiskToMemory(word uint16)
	MemoryToDisk() uint16

	// the current horizontal beam position
	HPOS() int
}

// BlockObserver is called whenever an audio channel finishes a block of
// samples.
type BlockObserver func(nr int)

// Paula is the audio, disk, serial and interrupt chip.
type Paula struct {
	sched *scheduler.Scheduler
	clock scheduler.Clock
	bus   Bus

	IRQ   *interrupts.Controller
	Audio [4]*audio.Channel
	Muxer *audio.Muxer
	Disk  *disk.Controller
	UART  *uart.UART
	Line  *uart.Line

	adkcon uint16

	pot pot

	// number of blocks completed by each audio channel since reset
	blocks   [4]int
	observer BlockObserver
}

// NewPaula is the preferred method of initialisation for the Paula type.
func NewPaula(sched *scheduler.Scheduler, clock scheduler.Clock, bus Bus, cpu interrupts.CPU, drives [4]*drive.Drive) *Paula {
	pl := &Paula{
		sched: sched,
		clock: clock,
		bus:   bus,
	}

	pl.IRQ = interrupts.NewController(sched, clock, cpu)

	var samplers [4]*audio.Sampler
	for i := range pl.Audio {
		samplers[i] = audio.NewSampler()
		pl.Audio[i] = audio.NewChannel(i, sched, clock, pl, pl.IRQ, samplers[i])
	}
	for i := range pl.Audio {
		pl.Audio[i].SetSibling(pl.Audio[(i+1)%len(pl.Audio)])
	}
	pl.Muxer = audio.NewMuxer(samplers)

	pl.Disk = disk.NewController(sched, clock, pl.IRQ, pl, drives)

	pl.Line = uart.NewLine(false)
	pl.UART = uart.NewUART(sched, pl.IRQ, pl, pl.Line)
	pl.Line.SetOnChange(pl.UART.RXDChanged)

	sched.Register(scheduler.POT, pl.servicePotEvent)

	return pl
}

// SetBlockObserver sets the function called when an audio channel finishes
// a block. Can be nil.
func (pl *Paula) SetBlockObserver(f BlockObserver) {
	pl.observer = f
}

// Reset Paula and all the components it contains.
func (pl *Paula) Reset() {
	pl.adkcon = 0
	pl.IRQ.Reset()
	for _, ch := range pl.Audio {
		ch.Reset()
	}
	pl.Muxer.Reset(pl.clock.Now())
	pl.Disk.Reset()
	pl.UART.Reset()
	pl.pot.reset()
	pl.blocks = [4]int{}
}

// HSync is called by Agnus at the end of every line.
func (pl *Paula) HSync() {
	pl.pot.hsync()
	pl.Muxer.Synthesize(pl.clock.Now())
}

// PokeADKCON writes the audio and disk control register. Bit 15 selects
// between set and clear.
func (pl *Paula) PokeADKCON(value uint16) {
	if value&0x8000 == 0x8000 {
		pl.adkcon |= value & 0x7fff
	} else {
		pl.adkcon &^= value
	}

	if pl.adkcon&0x77 != 0 {
		logger.Logf(logger.Allow, "paula", "audio modulation enabled (ADKCON %04x)", pl.adkcon)
	}
}

// ADKCON returns the value of the audio and disk control register. Implements
// the audio.Host and disk.Host interfaces.
func (pl *Paula) ADKCON() uint16 {
	return pl.adkcon
}

// UARTBRK implements the uart.BreakLine interface.
func (pl *Paula) UARTBRK() bool {
	return pl.adkcon&0x0800 == 0x0800
}

// AudioDMA implements the audio.Host interface.
func (pl *Paula) AudioDMA(nr int) bool {
	return pl.bus.AudioDMA(nr)
}

// ReloadAudioPointer implements the audio.Host interface.
func (pl *Paula) ReloadAudioPointer(nr int) {
	pl.bus.ReloadAudioPointer(nr)
}

// AudioBlockFinished implements the audio.Host interface.
func (pl *Paula) AudioBlockFinished(nr int) {
	pl.blocks[nr]++
	if pl.observer != nil {
		pl.observer(nr)
	}
}

// BlocksFinished returns the number of blocks completed by the audio channel
// since reset.
func (pl *Paula) BlocksFinished(nr int) int {
	return pl.blocks[nr]
}

// DiskDMAEnabled implements the disk.Host interface.
func (pl *Paula) DiskDMAEnabled() bool {
	return pl.bus.DiskDMAEnabled()
}

// DiskToMemory implements the disk.Host interface.
func (pl *Paula) DiskToMemory(word uint16) {
	pl.bus.DiskToMemory(word)
}

// MemoryToDisk implements the disk.Host interface.
func (pl *Paula) MemoryToDisk() uint16 {
	return pl.bus.MemoryToDisk()
}

// cycles until the last DMA cycle of the current line
func (pl *Paula) toLineEnd() clocks.Cycle {
	return clocks.DMACycles(int64(clocks.HPOSMax - pl.bus.HPOS()))
}

// Save implements the savestate.Stater interface.
func (pl *Paula) Save(s *savestate.State) {
	s.Write16(pl.adkcon)
	pl.IRQ.Save(s)
	for _, ch := range pl.Audio {
		ch.Save(s)
	}
	pl.Disk.Save(s)
	pl.UART.Save(s)
	pl.pot.save(s)
}

// Load implements the savestate.Stater interface.
func (pl *Paula) Load(s *savestate.State) {
	pl.adkcon = s.Read16()
	pl.IRQ.Load(s)
	for _, ch := range pl.Audio {
		ch.Load(s)
	}
	pl.Disk.Load(s)
	pl.UART.Load(s)
	pl.pot.load(s)

	// sample queues are not part of the state
	for _, ch := range pl.Audio {
		ch.Sampler().Clear()
	}
	pl.Muxer.Reset(pl.clock.Now())
}

// Info is a copy of the Paula state for inspection.
type Info struct {
	ADKCON  uint16
	POTGO   uint16
	POT0DAT uint16
	POT1DAT uint16
	IRQ     interrupts.Info
	Audio   [4]audio.ChannelInfo
	Blocks  [4]int
	Disk    disk.Info
	UART    uart.Info
	Frames  int
	Dropped int
}

// Info returns a copy of the Paula state. It must be called from the
// emulation goroutine.
func (pl *Paula) Info() Info {
	info := Info{
		ADKCON:  pl.adkcon,
		POTGO:   pl.pot.potgo,
		POT0DAT: pl.PeekPOT0DAT(),
		POT1DAT: pl.PeekPOT1DAT(),
		IRQ:     pl.IRQ.Info(),
		Blocks:  pl.blocks,
		Disk:    pl.Disk.Info(),
		UART:    pl.UART.Info(),
		Frames:  pl.Muxer.Count(),
		Dropped: pl.Muxer.Dropped(),
	}
	for i, ch := range pl.Audio {
		info.Audio[i] = ch.Info()
	}
	return info
}
