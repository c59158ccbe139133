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

// Package drive emulates the floppy drive mechanism. The drive has a motor, a
// head that can be stepped between cylinders and a slot for a Disk. The disk
// controller reads and writes bytes at the head position with every byte
// rotating the disk by one position.
//
// Drive selection, motor and stepping are all controlled through the PRB
// register of CIA-B. The PRBChanged() function should be called whenever that
// register changes.
package drive

import (
	"fmt"

	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/logger"
)

// Head position of the drive.
type Head struct {
	Cylinder int
	Side     int
	Offset   int
}

func (h Head) String() string {
	return fmt.Sprintf("cyl=%d side=%d offset=%d", h.Cylinder, h.Side, h.Offset)
}

// IndexPulse is called when the disk completes a revolution under the head
// of a selected drive.
type IndexPulse func()

// Drive is a single floppy drive.
type Drive struct {
	nr int

	disk *Disk

	motor bool
	head  Head

	// the disk change line is low after a disk is ejected and stays low
	// until a disk is inserted and the head is stepped
	dskchange bool

	// last value of the CIA-B PRB register seen by the drive
	prb uint8

	// identification sequence. external drives shift out a 32bit id on
	// successive selections while the motor is off
	idCount int
	idBit   bool

	// most recent cylinders. one byte per step
	cylinderHistory uint64

	onIndex IndexPulse
}

// NewDrive is the preferred method of initialisation for the Drive type.
func NewDrive(nr int) *Drive {
	drv := &Drive{nr: nr}
	drv.Reset()
	return drv
}

func (drv *Drive) String() string {
	return fmt.Sprintf("df%d", drv.nr)
}

// Reset the drive mechanism. Any disk remains in the drive.
func (drv *Drive) Reset() {
	drv.motor = false
	drv.head = Head{}
	drv.prb = 0xff
	drv.idCount = 0
	drv.idBit = false
	drv.cylinderHistory = 0
}

// SetIndexPulse sets the function called on every revolution of the disk.
func (drv *Drive) SetIndexPulse(f IndexPulse) {
	drv.onIndex = f
}

// Head returns the head position.
func (drv *Drive) Head() Head {
	return drv.head
}

// Motor returns true if the drive motor is on.
func (drv *Drive) Motor() bool {
	return drv.motor
}

// SetMotor turns the motor on or off.
func (drv *Drive) SetMotor(on bool) {
	if drv.motor == on {
		return
	}
	drv.motor = on
	drv.idCount = 0
	if on {
		logger.Logf(logger.Allow, "drive", "%s: motor on", drv)
	} else {
		logger.Logf(logger.Allow, "drive", "%s: motor off", drv)
	}
}

// HasDisk returns true if there is a disk in the drive.
func (drv *Drive) HasDisk() bool {
	return drv.disk != nil
}

// Disk returns the disk in the drive. Returns nil if the drive is empty.
func (drv *Drive) Disk() *Disk {
	return drv.disk
}

// InsertDisk puts the disk in the drive. Any disk already in the drive is
// ejected first.
func (drv *Drive) InsertDisk(dsk *Disk) {
	if dsk == nil {
		return
	}
	drv.EjectDisk()
	drv.disk = dsk
	drv.head.Offset = 0
	logger.Logf(logger.Allow, "drive", "%s: disk inserted", drv)
}

// EjectDisk removes the disk from the drive.
func (drv *Drive) EjectDisk() {
	if drv.disk == nil {
		return
	}
	drv.disk = nil
	drv.dskchange = false
	logger.Logf(logger.Allow, "drive", "%s: disk ejected", drv)
}

// IsSelected returns true if the drive select line in PRB is low.
func (drv *Drive) IsSelected() bool {
	return drv.prb&(0x08<<drv.nr) == 0
}

// SelectSide moves the head to the upper (1) or lower (0) side of the disk.
func (drv *Drive) SelectSide(side int) {
	drv.head.Side = side & 0x01
}

// Step the head one cylinder. A dir value of zero steps towards the center of
// the disk.
func (drv *Drive) Step(dir int) {
	if drv.HasDisk() {
		drv.dskchange = true
	}

	if dir != 0 {
		if drv.head.Cylinder > 0 {
			drv.head.Cylinder--
		}
	} else {
		if drv.head.Cylinder < NumCylinders-1 {
			drv.head.Cylinder++
		}
	}

	drv.cylinderHistory = (drv.cylinderHistory << 8) | uint64(drv.head.Cylinder)
}

// PollsForDisk returns true if the recent head movements match the pattern
// used by the operating system to detect a disk being inserted.
func (drv *Drive) PollsForDisk() bool {
	if drv.HasDisk() {
		return false
	}

	signatures := []uint64{
		0x010001000100,
		0x000100010001,
		0x020302030203,
		0x030203020302,
	}

	const mask = 0xffffffff
	for _, s := range signatures {
		if drv.cylinderHistory&mask == s&mask {
			return true
		}
	}
	return false
}

// PRBChanged should be called whenever the PRB register of CIA-B changes.
func (drv *Drive) PRBChanged(oldValue uint8, newValue uint8) {
	oldMtr := oldValue&0x80 != 0
	oldSel := oldValue&(0x08<<drv.nr) != 0
	oldStep := oldValue&0x01 != 0
	newMtr := newValue&0x80 != 0
	newSel := newValue&(0x08<<drv.nr) != 0
	newStep := newValue&0x01 != 0
	newDir := newValue & 0x02

	drv.prb = newValue

	// the active low motor line is latched on the falling edge of the select
	// line
	if oldSel && !newSel {
		drv.idCount = (drv.idCount + 1) % 32
		drv.idBit = (drv.id()>>(31-drv.idCount))&0x01 != 0
		if !oldMtr || !newMtr {
			drv.SetMotor(true)
		} else {
			drv.SetMotor(false)
		}
	}

	if !oldStep && newStep && !oldSel {
		drv.Step(int(newDir))
	}

	if newValue&0x04 == 0 {
		drv.SelectSide(1)
	} else {
		drv.SelectSide(0)
	}
}

// drive identification. the internal drive has no id
func (drv *Drive) id() uint32 {
	if drv.nr == 0 {
		return 0x00000000
	}
	return 0xffffffff
}

// StatusFlags returns the value the drive drives onto the PRA port of CIA-A.
// Only the bits for a selected drive are ever pulled low.
func (drv *Drive) StatusFlags() uint8 {
	result := uint8(0xff)
	if !drv.IsSelected() {
		return result
	}

	// RDY
	if !drv.motor {
		if drv.idBit {
			result &= 0b11011111
		}
	} else if drv.HasDisk() {
		result &= 0b11011111
	}

	// TK0
	if drv.head.Cylinder == 0 {
		result &= 0b11101111
	}

	// WPRO
	if !drv.HasDisk() || drv.disk.WriteProtected() {
		result &= 0b11110111
	}

	// CHNG
	if !drv.dskchange {
		result &= 0b11111011
	}

	return result
}

func (drv *Drive) readByte() uint8 {
	if drv.disk == nil {
		return 0xff
	}
	return drv.disk.ReadByte(drv.head.Cylinder, drv.head.Side, drv.head.Offset)
}

func (drv *Drive) rotate() {
	drv.head.Offset++
	if drv.head.Offset >= TrackLength {
		drv.head.Offset = 0
		if drv.IsSelected() && drv.onIndex != nil {
			drv.onIndex()
		}
	}
}

// ReadByteAndRotate returns the byte under the head. The disk rotates if the
// motor is on.
func (drv *Drive) ReadByteAndRotate() uint8 {
	v := drv.readByte()
	if drv.motor {
		drv.rotate()
	}
	return v
}

// ReadWordAndRotate returns the next two bytes as a big endian word.
func (drv *Drive) ReadWordAndRotate() uint16 {
	hi := drv.ReadByteAndRotate()
	lo := drv.ReadByteAndRotate()
	return uint16(hi)<<8 | uint16(lo)
}

// WriteByteAndRotate writes the byte under the head. The disk rotates if the
// motor is on.
func (drv *Drive) WriteByteAndRotate(value uint8) {
	if drv.disk != nil {
		drv.disk.WriteByte(value, drv.head.Cylinder, drv.head.Side, drv.head.Offset)
	}
	if drv.motor {
		drv.rotate()
	}
}

// WriteWordAndRotate writes the word as two bytes, high byte first.
func (drv *Drive) WriteWordAndRotate(value uint16) {
	drv.WriteByteAndRotate(uint8(value >> 8))
	drv.WriteByteAndRotate(uint8(value))
}

// FindSyncMark rotates the disk until the head is just past the standard
// sync mark. If there is no sync mark on the track the head ends where it
// started.
func (drv *Drive) FindSyncMark() {
	if drv.disk == nil {
		return
	}
	for i := 0; i < TrackLength; i++ {
		if drv.ReadByteAndRotate() != 0x44 {
			continue
		}
		if drv.ReadByteAndRotate() != 0x89 {
			continue
		}
		return
	}
}

// Save implements the savestate.Stater interface. The disk is not part of
// the state.
func (drv *Drive) Save(s *savestate.State) {
	s.WriteBool(drv.motor)
	s.Write32(uint32(drv.head.Cylinder))
	s.Write32(uint32(drv.head.Side))
	s.Write32(uint32(drv.head.Offset))
	s.WriteBool(drv.dskchange)
	s.Write8(drv.prb)
	s.Write8(uint8(drv.idCount))
	s.WriteBool(drv.idBit)
	s.Write64(drv.cylinderHistory)
}

// Load implements the savestate.Stater interface.
func (drv *Drive) Load(s *savestate.State) {
	drv.motor = s.ReadBool()
	drv.head.Cylinder = int(s.Read32())
	drv.head.Side = int(s.Read32())
	drv.head.Offset = int(s.Read32())
	drv.dskchange = s.ReadBool()
	drv.prb = s.Read8()
	drv.idCount = int(s.Read8())
	drv.idBit = s.ReadBool()
	drv.cylinderHistory = s.Read64()
}

// Info is a copy of the drive state for inspection.
type Info struct {
	Head    Head
	HasDisk bool
	Motor   bool
}

// Info returns a copy of the drive state.
func (drv *Drive) Info() Info {
	return Info{
		Head:    drv.head,
		HasDisk: drv.HasDisk(),
		Motor:   drv.motor,
	}
}
