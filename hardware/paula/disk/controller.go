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

// Package disk implements the disk controller. The controller moves bytes
// between the selected drive and a six byte FIFO on every DSK_ROTATE event
// and moves words between the FIFO and chip memory in the disk DMA slots
// allocated by Agnus.
//
// DMA states are:
//
//	OFF    bytes are read from the disk but not transferred
//	WAIT   as OFF but waiting for the sync word to appear in the FIFO
//	READ   words are transferred from the FIFO to memory
//	WRITE  words are transferred from memory to the FIFO
//	FLUSH  the FIFO is emptied to the disk after the last word
//
// In turbo mode the FIFO is bypassed and the whole block is transferred in
// one go when DMA is enabled.
package disk

import (
	"hash"

	"github.com/cespare/xxhash"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/drive"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/logger"
)

// RotationDelay is the time taken by a single byte to pass under the head.
var RotationDelay = clocks.DMACycles(56)

// DefaultSync is the sync word written by the operating system.
const DefaultSync = 0x4489

// number of auto sync rotation events before the sync interrupt is raised
const autoSyncCount = 20000

// maximum number of bytes in the FIFO
const fifoCapacity = 6

// Host is the part of the emulation that the controller depends on.
type Host interface {
	// current value of the ADKCON register
	ADKCON() uint16

	// disk DMA is enabled in DMACON
	DiskDMAEnabled() bool

	// write the word to memory at the disk DMA pointer and advance the
	// pointer
	DiskToMemory(word uint16)

	// read the word in memory at the disk DMA pointer and advance the pointer
	MemoryToDisk() uint16
}

// Controller is the disk controller.
type Controller struct {
	sched *scheduler.Scheduler
	clock scheduler.Clock
	irq   interrupts.Raiser
	host  Host

	config Config
	drives [4]*drive.Drive

	// disk waiting for the DCH_INSERT event. indexed by drive number
	diskToInsert [4]*drive.Disk

	state State

	// selected drive. -1 if no drive is selected
	selected int

	// the most recent byte read from the disk. bit 15 is set until the
	// value is read through DSKBYTR
	incoming uint16

	// the FIFO. the newest byte is in the lowest bits
	fifo      uint64
	fifoCount int

	dsklen  uint16
	dsksync uint16

	// last value of the CIA-B PRB register
	prb uint8

	// cycle of the most recent sync match
	syncCycle clocks.Cycle

	// auto sync watchdog
	syncCounter int

	// an overflow is logged once for every visit to a state
	overflowLogged bool

	checksum      hash.Hash64
	checksumCount int
}

// NewController is the preferred method of initialisation for the Controller
// type. The DSK and DCH slot handlers are registered with the scheduler.
func NewController(sched *scheduler.Scheduler, clock scheduler.Clock, irq interrupts.Raiser, host Host, drives [4]*drive.Drive) *Controller {
	dc := &Controller{
		sched:    sched,
		clock:    clock,
		irq:      irq,
		host:     host,
		drives:   drives,
		config:   DefaultConfig(),
		checksum: xxhash.New(),
	}
	sched.Register(scheduler.DSK, dc.serviceDiskEvent)
	sched.Register(scheduler.DCH, dc.serviceDiskChangeEvent)
	return dc
}

// Reset the controller and restart the rotation events.
func (dc *Controller) Reset() {
	dc.state = StateOff
	dc.selected = -1
	dc.incoming = 0
	dc.clearFifo()
	dc.dsklen = 0
	dc.dsksync = DefaultSync
	dc.prb = 0xff
	dc.syncCycle = 0
	dc.syncCounter = 0
	dc.overflowLogged = false
	dc.checksum.Reset()
	dc.checksumCount = 0
	dc.scheduleFirstDiskEvent()
}

// State returns the DMA state.
func (dc *Controller) State() State {
	return dc.state
}

func (dc *Controller) setState(state State) {
	if dc.state == state {
		return
	}
	dc.state = state
	dc.overflowLogged = false
	if state == StateOff {
		dc.dsklen = 0
	}
}

// Drive returns the drive with the number.
func (dc *Controller) Drive(nr int) *drive.Drive {
	return dc.drives[nr]
}

// SelectedDrive returns the selected drive or nil if no drive is selected.
func (dc *Controller) SelectedDrive() *drive.Drive {
	if dc.selected < 0 {
		return nil
	}
	return dc.drives[dc.selected]
}

// SelectDrive selects a drive directly without going through the PRB
// register. A value of -1 deselects all drives.
func (dc *Controller) SelectDrive(nr int) {
	if nr < 0 || nr >= len(dc.drives) {
		dc.selected = -1
		return
	}
	dc.selected = nr
}

// Spinning returns true if the motor of any drive is on.
func (dc *Controller) Spinning() bool {
	for _, d := range dc.drives {
		if d.Motor() {
			return true
		}
	}
	return false
}

// PRBChanged should be called whenever the PRB register of CIA-B changes. The
// change is passed to every connected drive and the selected drive is
// updated.
func (dc *Controller) PRBChanged(oldValue uint8, newValue uint8) {
	dc.prb = newValue
	dc.selected = -1
	for i, d := range dc.drives {
		if !dc.config.Connected[i] {
			continue
		}
		d.PRBChanged(oldValue, newValue)
		if d.IsSelected() {
			dc.selected = i
		}
	}
}

// StatusFlags returns the combined status lines of the connected drives.
func (dc *Controller) StatusFlags() uint8 {
	result := uint8(0xff)
	for i, d := range dc.drives {
		if dc.config.Connected[i] {
			result &= d.StatusFlags()
		}
	}
	return result
}

// InsertDisk schedules the disk to be inserted after the delay. If the drive
// already has a disk it is ejected immediately and the delay is extended so
// that the change can be detected.
func (dc *Controller) InsertDisk(nr int, dsk *drive.Disk, delay clocks.Cycle) {
	if dc.drives[nr].HasDisk() {
		dc.drives[nr].EjectDisk()
		delay = max(clocks.Sec(1.5), delay)
	}
	dc.diskToInsert[nr] = dsk
	dc.sched.ScheduleRel(scheduler.DCH, delay, scheduler.DchInsert, int64(nr))
}

// EjectDisk schedules the disk in the drive to be ejected after the delay.
func (dc *Controller) EjectDisk(nr int, delay clocks.Cycle) {
	dc.sched.ScheduleRel(scheduler.DCH, delay, scheduler.DchEject, int64(nr))
}

func (dc *Controller) serviceDiskChangeEvent(id scheduler.EventID, data int64) {
	nr := int(data)
	switch id {
	case scheduler.DchInsert:
		dc.drives[nr].InsertDisk(dc.diskToInsert[nr])
		dc.diskToInsert[nr] = nil
		logger.Logf(logger.Allow, "disk", "disk inserted in DF%d", nr)
	case scheduler.DchEject:
		dc.drives[nr].EjectDisk()
		logger.Logf(logger.Allow, "disk", "disk ejected from DF%d", nr)
	}
	dc.sched.Cancel(scheduler.DCH)
}

func (dc *Controller) scheduleFirstDiskEvent() {
	if dc.turbo() {
		dc.sched.Cancel(scheduler.DSK)
		return
	}
	dc.sched.ScheduleImm(scheduler.DSK, scheduler.DskRotate, 0)
}

func (dc *Controller) scheduleNextDiskEvent() {
	if dc.turbo() {
		dc.sched.Cancel(scheduler.DSK)
		return
	}
	dc.sched.ScheduleRel(scheduler.DSK, RotationDelay, scheduler.DskRotate, 0)
}

func (dc *Controller) serviceDiskEvent(_ scheduler.EventID, _ int64) {
	dc.executeFifo()
	dc.scheduleNextDiskEvent()
}

// FifoCount returns the number of bytes in the FIFO.
func (dc *Controller) FifoCount() int {
	return dc.fifoCount
}

func (dc *Controller) clearFifo() {
	dc.fifo = 0
	dc.fifoCount = 0
}

func (dc *Controller) fifoIsEmpty() bool {
	return dc.fifoCount == 0
}

func (dc *Controller) fifoHasWord() bool {
	return dc.fifoCount >= 2
}

func (dc *Controller) fifoCanStoreWord() bool {
	return dc.fifoCount <= fifoCapacity-2
}

// remove and return the oldest byte
func (dc *Controller) readFifo() uint8 {
	dc.fifoCount--
	return uint8(dc.fifo >> (8 * dc.fifoCount))
}

// remove and return the oldest word
func (dc *Controller) readFifo16() uint16 {
	dc.fifoCount -= 2
	return uint16(dc.fifo >> (8 * dc.fifoCount))
}

// add a byte to the FIFO. if the FIFO is full the oldest word is lost
func (dc *Controller) writeFifo(v uint8) {
	if dc.fifoCount == fifoCapacity {
		dc.fifoCount -= 2
		if !dc.overflowLogged {
			logger.Logf(logger.Allow, "disk", "FIFO overflow: oldest word lost (%s)", dc.state)
			dc.overflowLogged = true
		}
	}
	dc.fifo = (dc.fifo << 8) | uint64(v)
	dc.fifoCount++
}

func (dc *Controller) compareFifo(word uint16) bool {
	return dc.fifoHasWord() && uint16(dc.fifo) == word
}

// PushFifo adds a byte to the FIFO as though it had been read from the disk.
func (dc *Controller) PushFifo(v uint8) {
	dc.writeFifo(v)
}

// FifoBytes returns the contents of the FIFO, oldest byte first.
func (dc *Controller) FifoBytes() []uint8 {
	b := make([]uint8, dc.fifoCount)
	for i := range b {
		b[i] = uint8(dc.fifo >> (8 * (dc.fifoCount - 1 - i)))
	}
	return b
}

func (dc *Controller) executeFifo() {
	drv := dc.SelectedDrive()

	switch dc.state {
	case StateOff, StateWait, StateRead:
		v := uint8(0xff)
		if drv != nil {
			v = drv.ReadByteAndRotate()
		}
		dc.writeFifo(v)
		dc.incoming = uint16(v) | 0x8000

		sync := dc.compareFifo(dc.dsksync)
		if !sync && dc.config.AutoSync {
			sync = dc.syncCounter > autoSyncCount
			dc.syncCounter++
		}

		if sync {
			dc.syncCycle = dc.clock.Now()
			dc.irq.RaiseIrq(interrupts.DSKSYN)
			if dc.state == StateWait {
				dc.setState(StateRead)
				dc.clearFifo()
			}
			dc.syncCounter = 0
		}

	case StateWrite, StateFlush:
		if dc.fifoIsEmpty() {
			if dc.state == StateFlush {
				dc.setState(StateOff)
			}
			return
		}
		v := dc.readFifo()
		if drv != nil {
			drv.WriteByteAndRotate(v)
		}
	}
}

// PerformDMA transfers words between the FIFO and memory. It is called by
// Agnus in the disk DMA slots.
func (dc *Controller) PerformDMA() {
	if dc.dsklen&0x3fff == 0 {
		return
	}

	drv := dc.SelectedDrive()
	count := 1
	if drv != nil && dc.config.Speed > 1 {
		count = dc.config.Speed
	}

	switch dc.state {
	case StateRead:
		dc.performDMARead(count)
	case StateWrite:
		dc.performDMAWrite(count)
	}
}

func (dc *Controller) performDMARead(remaining int) {
	if !dc.fifoHasWord() {
		return
	}

	for {
		word := dc.readFifo16()
		dc.sum(word)
		dc.host.DiskToMemory(word)

		dc.dsklen--
		if dc.dsklen&0x3fff == 0 {
			dc.irq.RaiseIrq(interrupts.DSKBLK)
			dc.setState(StateOff)
			return
		}

		remaining--
		if remaining <= 0 {
			return
		}

		// what the rotation events would have done in the meantime
		dc.executeFifo()
		dc.executeFifo()

		if !dc.fifoHasWord() {
			return
		}
	}
}

func (dc *Controller) performDMAWrite(remaining int) {
	if !dc.fifoCanStoreWord() {
		return
	}

	for {
		word := dc.host.MemoryToDisk()
		dc.sum(word)
		dc.writeFifo(uint8(word >> 8))
		dc.writeFifo(uint8(word))

		dc.dsklen--
		if dc.dsklen&0x3fff == 0 {
			dc.irq.RaiseIrq(interrupts.DSKBLK)

			// the rotation events drain the FIFO
			dc.setState(StateFlush)
			return
		}

		remaining--
		if remaining <= 0 {
			return
		}

		dc.executeFifo()
		dc.executeFifo()

		if !dc.fifoCanStoreWord() {
			return
		}
	}
}

func (dc *Controller) performTurboDMA() {
	drv := dc.SelectedDrive()

	if dc.dsklen&0x3fff == 0 {
		return
	}

	switch dc.state {
	case StateWait:
		if drv != nil {
			drv.FindSyncMark()
		}
		fallthrough
	case StateRead:
		if drv != nil {
			for i := 0; i < int(dc.dsklen&0x3fff); i++ {
				word := drv.ReadWordAndRotate()
				dc.sum(word)
				dc.host.DiskToMemory(word)
			}
			dc.irq.RaiseIrq(interrupts.DSKSYN)
		}
	case StateWrite:
		if drv != nil {
			for i := 0; i < int(dc.dsklen&0x3fff); i++ {
				word := dc.host.MemoryToDisk()
				dc.sum(word)
				drv.WriteWordAndRotate(word)
			}
		}
	default:
		return
	}

	// the block interrupt is delayed to keep the order of events the same
	// as for a normal transfer
	dc.irq.ScheduleIrqRel(interrupts.DSKBLK, clocks.DMACycles(512))
	dc.setState(StateOff)
}

func (dc *Controller) sum(word uint16) {
	_, _ = dc.checksum.Write([]byte{uint8(word >> 8), uint8(word)})
	dc.checksumCount++
}

// Checksum returns the checksum of every word transferred since DMA was last
// enabled and the number of words.
func (dc *Controller) Checksum() (uint64, int) {
	return dc.checksum.Sum64(), dc.checksumCount
}

// Save implements the savestate.Stater interface.
func (dc *Controller) Save(s *savestate.State) {
	s.Write8(uint8(dc.state))
	s.Write8(uint8(int8(dc.selected)))
	s.Write16(dc.incoming)
	s.Write64(dc.fifo)
	s.Write8(uint8(dc.fifoCount))
	s.Write16(dc.dsklen)
	s.Write16(dc.dsksync)
	s.Write8(dc.prb)
	s.WriteInt64(dc.syncCycle)
	s.Write32(uint32(dc.syncCounter))
	for _, d := range dc.drives {
		d.Save(s)
	}
}

// Load implements the savestate.Stater interface.
func (dc *Controller) Load(s *savestate.State) {
	dc.state = State(s.Read8())
	dc.selected = int(int8(s.Read8()))
	dc.incoming = s.Read16()
	dc.fifo = s.Read64()
	dc.fifoCount = int(s.Read8())
	dc.dsklen = s.Read16()
	dc.dsksync = s.Read16()
	dc.prb = s.Read8()
	dc.syncCycle = s.ReadInt64()
	dc.syncCounter = int(s.Read32())
	for _, d := range dc.drives {
		d.Load(s)
	}
}

// Info is a copy of the controller registers for inspection.
type Info struct {
	State         State
	SelectedDrive int
	FifoCount     int
	Fifo          [fifoCapacity]uint8
	DSKLEN        uint16
	DSKBYTR       uint16
	DSKSYNC       uint16
	PRB           uint8
	Drives        [4]drive.Info
}

// Info returns a copy of the controller registers. Unlike a CPU read of
// DSKBYTR the byte valid flag is not cleared.
func (dc *Controller) Info() Info {
	info := Info{
		State:         dc.state,
		SelectedDrive: dc.selected,
		FifoCount:     dc.fifoCount,
		DSKLEN:        dc.dsklen,
		DSKBYTR:       dc.computeDSKBYTR(),
		DSKSYNC:       dc.dsksync,
		PRB:           dc.prb,
	}
	for i := range info.Fifo {
		info.Fifo[i] = uint8(dc.fifo >> (8 * i))
	}
	for i, d := range dc.drives {
		info.Drives[i] = d.Info()
	}
	return info
}
