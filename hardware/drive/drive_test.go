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

package drive_test

import (
	"testing"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/drive"
	"github.com/gopher500/gopher500/test"
)

func TestNewDisk(t *testing.T) {
	_, err := drive.NewDisk(nil)
	test.ExpectFailure(t, err)
	test.ExpectEquality(t, curated.Is(err, drive.EmptyDisk), true)

	_, err = drive.NewDisk(make([]byte, drive.NumTracks*drive.TrackLength+1))
	test.ExpectEquality(t, curated.Is(err, drive.DiskTooLarge), true)

	dsk, err := drive.NewDisk([]byte{0x01, 0x02})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, dsk.ReadByte(0, 0, 0), uint8(0x01))
	test.ExpectEquality(t, dsk.ReadByte(0, 0, 1), uint8(0x02))
	test.ExpectEquality(t, dsk.ReadByte(0, 0, 2), uint8(0xaa))
	test.ExpectEquality(t, len(dsk.Bytes()), drive.NumTracks*drive.TrackLength)
}

func TestWriteProtection(t *testing.T) {
	dsk := drive.NewBlankDisk()
	sum := dsk.Checksum()

	dsk.SetWriteProtection(true)
	dsk.WriteByte(0x00, 1, 1, 100)
	test.ExpectEquality(t, dsk.Checksum(), sum)
	test.ExpectEquality(t, dsk.Modified(), false)

	dsk.SetWriteProtection(false)
	dsk.WriteByte(0x00, 1, 1, 100)
	test.ExpectInequality(t, dsk.Checksum(), sum)
	test.ExpectEquality(t, dsk.Modified(), true)
}

func TestRotation(t *testing.T) {
	data := make([]byte, drive.TrackLength)
	data[0] = 0x12
	data[1] = 0x34
	dsk, err := drive.NewDisk(data)
	test.DemandSuccess(t, err)

	drv := drive.NewDrive(0)
	test.ExpectEquality(t, drv.ReadByteAndRotate(), uint8(0xff))

	drv.InsertDisk(dsk)
	test.ExpectEquality(t, drv.HasDisk(), true)

	// the disk does not rotate while the motor is off
	test.ExpectEquality(t, drv.ReadByteAndRotate(), uint8(0x12))
	test.ExpectEquality(t, drv.ReadByteAndRotate(), uint8(0x12))

	drv.SetMotor(true)
	test.ExpectEquality(t, drv.ReadWordAndRotate(), uint16(0x1234))
	test.ExpectEquality(t, drv.Head().Offset, 2)

	var pulses int
	drv.SetIndexPulse(func() { pulses++ })
	drv.PRBChanged(0xff, 0x77)
	for i := 0; i < drive.TrackLength; i++ {
		drv.ReadByteAndRotate()
	}
	test.ExpectEquality(t, pulses, 1)
	test.ExpectEquality(t, drv.Head().Offset, 2)
}

func TestFindSyncMark(t *testing.T) {
	data := make([]byte, drive.TrackLength)
	data[500] = 0x44
	data[501] = 0x89
	dsk, err := drive.NewDisk(data)
	test.DemandSuccess(t, err)

	drv := drive.NewDrive(0)
	drv.InsertDisk(dsk)
	drv.SetMotor(true)
	drv.FindSyncMark()
	test.ExpectEquality(t, drv.Head().Offset, 502)
}

func TestPRB(t *testing.T) {
	drv := drive.NewDrive(1)
	test.ExpectEquality(t, drv.IsSelected(), false)
	test.ExpectEquality(t, drv.StatusFlags(), uint8(0xff))

	// select df1 with the motor line low
	drv.PRBChanged(0xff, 0x6f)
	test.ExpectEquality(t, drv.IsSelected(), true)
	test.ExpectEquality(t, drv.Motor(), true)

	// step towards the center while selected
	drv.PRBChanged(0x6f, 0x6c)
	drv.PRBChanged(0x6c, 0x6d)
	test.ExpectEquality(t, drv.Head().Cylinder, 1)

	// side select is active low
	drv.PRBChanged(0x6d, 0x69)
	test.ExpectEquality(t, drv.Head().Side, 1)

	// no disk: write protected and changed lines are low
	test.ExpectEquality(t, drv.StatusFlags(), uint8(0xf3))

	// deselected drives never pull status lines low
	drv.PRBChanged(0x69, 0x79)
	test.ExpectEquality(t, drv.StatusFlags(), uint8(0xff))
}

func TestPollsForDisk(t *testing.T) {
	drv := drive.NewDrive(0)
	for range 3 {
		drv.Step(0)
		drv.Step(1)
	}
	test.ExpectEquality(t, drv.PollsForDisk(), true)
	drv.InsertDisk(drive.NewBlankDisk())
	test.ExpectEquality(t, drv.PollsForDisk(), false)
}
