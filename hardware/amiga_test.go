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

package hardware_test

import (
	"path/filepath"
	"testing"

	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/agnus"
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/keyboard"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/preferences"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/test"
)

func newPreferences(t *testing.T) *preferences.Preferences {
	t.Helper()
	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)
	return p
}

func newAmiga(t *testing.T, p *preferences.Preferences) *hardware.Amiga {
	t.Helper()
	if p == nil {
		p = newPreferences(t)
	}
	a, err := hardware.NewAmiga(p)
	test.DemandSuccess(t, err)
	return a
}

func poke(a *hardware.Amiga, offset uint32, value uint16) {
	a.Registers.PokeCustom16(memory.CustomBase+offset, value)
}

func TestCreation(t *testing.T) {
	a := newAmiga(t, nil)

	test.ExpectEquality(t, a.Agnus.Now(), clocks.Cycle(0))
	test.ExpectEquality(t, a.Sched, a.Agnus.Sched)

	// raster and vertical blank events are always pending after a reset
	test.ExpectSuccess(t, a.Sched.HasEvent(scheduler.RAS))
	test.ExpectSuccess(t, a.Sched.HasEvent(scheduler.VBL))

	// the register table covers both chips
	_, ok := a.Registers.Lookup(memory.CustomBase + 0x096)
	test.ExpectSuccess(t, ok)
	_, ok = a.Registers.Lookup(memory.CustomBase + 0x09a)
	test.ExpectSuccess(t, ok)
}

func TestPreferencesApplied(t *testing.T) {
	p := newPreferences(t)
	test.DemandSuccess(t, p.DriveSpeed.Set(4))
	test.DemandSuccess(t, p.DF1.Set(true))
	test.DemandSuccess(t, p.SampleRate.Set(22050))

	a := newAmiga(t, p)
	cfg := a.Paula.Disk.Config()
	test.ExpectEquality(t, cfg.Speed, 4)
	test.ExpectEquality(t, cfg.Connected, [4]bool{true, true, false, false})
	test.ExpectEquality(t, a.Paula.Muxer.SampleRate(), 22050)

	test.DemandSuccess(t, p.DF1.Set(false))
	test.DemandSuccess(t, a.ApplyPreferences())
	test.ExpectEquality(t, a.Paula.Disk.Config().Connected[1], false)
}

func TestRunFrames(t *testing.T) {
	a := newAmiga(t, nil)

	a.RunFrames(2)
	test.ExpectEquality(t, a.Agnus.Frame(), int64(2))
	test.ExpectEquality(t, a.Agnus.VPOS(), 0)
	test.ExpectEquality(t, a.Agnus.HPOS(), 0)
	test.ExpectEquality(t, a.Agnus.Now(), clocks.DMACycles(2*clocks.DMACyclesPerFrame))

	a.ExecuteUntil(a.Agnus.Now() + clocks.DMACycles(clocks.HPOSCount*10+3))
	test.ExpectEquality(t, a.Agnus.VPOS(), 10)
	test.ExpectEquality(t, a.Agnus.HPOS(), 3)

	// the start of the next frame
	a.RunFrames(1)
	test.ExpectEquality(t, a.Agnus.Frame(), int64(3))
	test.ExpectEquality(t, a.Agnus.VPOS(), 0)

	frames := 0
	err := a.Run(func() (bool, error) {
		frames++
		return frames < 3, nil
	})
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, a.Agnus.Frame(), int64(6))
}

func TestVerticalBlankInterrupt(t *testing.T) {
	a := newAmiga(t, nil)

	// enable the vertical blank interrupt
	poke(a, 0x09a, 0xc020)
	a.RunFrames(1)
	a.ExecuteUntil(a.Agnus.Now() + clocks.DMACycles(clocks.HPOSCount))

	test.ExpectSuccess(t, a.Paula.IRQ.IsRequested(interrupts.VERTB))
	a.Inspect()
	test.ExpectEquality(t, a.Info().IPL, uint8(3))

	// acknowledge
	poke(a, 0x09c, 0x0020)
	a.ExecuteUntil(a.Agnus.Now() + clocks.DMACycles(16))
	a.Inspect()
	test.ExpectEquality(t, a.Info().IPL, uint8(0))
}

func TestKeyboardHandshake(t *testing.T) {
	a := newAmiga(t, nil)

	// the self test times out after one second, after which the keyboard
	// synchronises and starts the stream
	a.RunFrames(55)
	a.Inspect()
	info := a.Info()
	test.ExpectEquality(t, info.Keyboard.State, keyboard.StateSend)
	test.ExpectEquality(t, string(info.Keyboard.Received), string([]uint8{
		keyboard.CodeResync, keyboard.CodeInitiateStream, keyboard.CodeTerminateStream,
	}))

	a.Keyboard.PressKey(0x45)
	a.Keyboard.PressKey(0x40)
	a.Keyboard.ReleaseKey(0x45)
	a.RunFrames(1)

	a.Inspect()
	info = a.Info()
	test.ExpectEquality(t, info.Keyboard.Buffered, 0)
	test.DemandEquality(t, len(info.Keyboard.Received), 6)
	test.ExpectEquality(t, string(info.Keyboard.Received[3:]), string([]uint8{0x45, 0x40, 0xc5}))

	// the snapshot is not shared with the emulation
	info.Keyboard.Received[0] = 0
	test.ExpectEquality(t, a.Info().Keyboard.Received[0], uint8(keyboard.CodeResync))
}

func TestInspectionEvent(t *testing.T) {
	p := newPreferences(t)
	test.DemandSuccess(t, p.InspectionInterval.Set(0.005))

	a := newAmiga(t, p)
	test.ExpectSuccess(t, a.Sched.HasEvent(scheduler.INS))

	a.RunFrames(4)

	// snapshot has been taken by the inspection event, not by a call to
	// Inspect()
	info := a.Info()
	test.ExpectEquality(t, info.Agnus.Frame, int64(3))
	test.ExpectInequality(t, info.Events.Cycle, clocks.Cycle(0))
}

func TestSaveLoad(t *testing.T) {
	a := newAmiga(t, nil)

	poke(a, 0x09a, 0xc020)
	a.RAM.Poke16(0x2000, 0x1234)
	a.RunFrames(2)
	a.ExecuteUntil(a.Agnus.Now() + clocks.DMACycles(1000))

	data, err := a.Save()
	test.DemandSuccess(t, err)

	a.RunFrames(2)
	a.Inspect()
	first := a.Info()

	test.DemandSuccess(t, a.Load(data))
	a.RunFrames(2)
	a.Inspect()
	second := a.Info()

	// bus statistics are not part of the saved state
	first.Agnus.Usage = [agnus.NumBusOwners]int64{}
	second.Agnus.Usage = [agnus.NumBusOwners]int64{}
	test.ExpectEquality(t, first.Agnus, second.Agnus)
	test.ExpectEquality(t, first.Paula.IRQ, second.Paula.IRQ)
	test.ExpectEquality(t, first.Events.Slots, second.Events.Slots)
	test.ExpectEquality(t, a.RAM.Peek16(0x2000), uint16(0x1234))
}

func TestLoadFailure(t *testing.T) {
	a := newAmiga(t, nil)
	a.RunFrames(1)

	data, err := a.Save()
	test.DemandSuccess(t, err)

	now := a.Agnus.Now()

	// truncated data leaves the emulation unchanged
	test.ExpectFailure(t, a.Load(data[:len(data)/2]))
	test.ExpectEquality(t, a.Agnus.Now(), now)

	// as does trailing data
	test.ExpectFailure(t, a.Load(append(data, 0x00)))
	test.ExpectEquality(t, a.Agnus.Now(), now)

	// wrong version
	bad := append([]byte{}, data...)
	bad[0] ^= 0xff
	test.ExpectFailure(t, a.Load(bad))
	test.ExpectEquality(t, hardware.SnapshotVersion, savestate.Version)
}

func TestSnapshotPlumb(t *testing.T) {
	a := newAmiga(t, nil)
	a.RunFrames(1)

	st, err := a.Snapshot()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, st.Frame, int64(1))
	test.ExpectInequality(t, st.Size(), 0)

	a.RunFrames(3)
	test.DemandSuccess(t, a.Plumb(st))
	test.ExpectEquality(t, a.Agnus.Frame(), int64(1))

	// plumbing the same state twice
	a.RunFrames(1)
	test.DemandSuccess(t, a.Plumb(st))
	test.ExpectEquality(t, a.Agnus.Now(), st.Clock)

	test.DemandPanic(t, func() { _ = a.Plumb(nil) })
}

func TestHardReset(t *testing.T) {
	a := newAmiga(t, nil)
	a.RAM.Poke16(0x100, 0xffff)
	a.RunFrames(1)

	a.Reset(false)
	test.ExpectEquality(t, a.Agnus.Frame(), int64(1))
	test.ExpectEquality(t, a.RAM.Peek16(0x100), uint16(0xffff))

	a.Reset(true)
	test.ExpectEquality(t, a.Agnus.Frame(), int64(0))
	test.ExpectEquality(t, a.Agnus.Now(), clocks.Cycle(0))
	test.ExpectEquality(t, a.RAM.Peek16(0x100), uint16(0))
}
