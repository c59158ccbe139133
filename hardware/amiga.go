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

package hardware

import (
	"sync"

	"github.com/gopher500/gopher500/environment"
	"github.com/gopher500/gopher500/hardware/agnus"
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/drive"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/keyboard"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/paula"
	"github.com/gopher500/gopher500/hardware/paula/audio"
	"github.com/gopher500/gopher500/hardware/preferences"
	"github.com/gopher500/gopher500/hardware/scheduler"
	"github.com/gopher500/gopher500/logger"
)

// CIA is a complex interface adapter as seen by the rest of the machine. The
// scheduler calls ServiceEvent() for events in the CIA's slot.
type CIA interface {
	keyboard.CIA
	agnus.TOD
	interrupts.Pin
	ServiceEvent(id scheduler.EventID, data int64)
}

// Coprocessor is the Copper or the Blitter. The scheduler calls
// ServiceEvent() for events in the coprocessor's slot.
type Coprocessor interface {
	ServiceEvent(id scheduler.EventID, data int64)
}

// Collaborators are the chips that are not emulated by this package. Any nil
// field is replaced by an idle implementation.
type Collaborators struct {
	CPU     interrupts.CPU
	CIAA    CIA
	CIAB    CIA
	Copper  Coprocessor
	Blitter Coprocessor
	Denise  agnus.Denise
}

// Amiga is the main container for the emulated components of the Amiga.
type Amiga struct {
	Env *environment.Environment

	RAM       *memory.ChipRAM
	Agnus     *agnus.Agnus
	Paula     *paula.Paula
	Keyboard  *keyboard.Keyboard
	Drives    [4]*drive.Drive
	Registers *memory.Table

	// scheduler owned by Agnus. the field is a convenience
	Sched *scheduler.Scheduler

	Collaborators Collaborators

	// idle CIA-A is retained so that the composition root can connect it
	// to the keyboard. nil if CIA-A was supplied
	idleCIAA *idleCIA

	// audio mixers fed at the end of every frame
	mixers    []AudioMixer
	mixBuffer []audio.Frame
	mixErr    error

	// most recent inspection snapshot. the snapshot is written by the
	// emulation goroutine and can be read from any goroutine
	crit sync.Mutex
	info Info
}

// NewAmiga is the preferred method of initialisation for the Amiga type. The
// collaborators are all idle. The prefs argument can be nil, in which case
// preferences are loaded from the default file.
func NewAmiga(prefs *preferences.Preferences) (*Amiga, error) {
	return NewAmigaWithCollaborators(prefs, Collaborators{})
}

// NewAmigaWithCollaborators is like NewAmiga() but with some or all of the
// external chips supplied.
func NewAmigaWithCollaborators(prefs *preferences.Preferences, c Collaborators) (*Amiga, error) {
	env, err := environment.NewEnvironment(environment.MainEmulation, prefs)
	if err != nil {
		return nil, err
	}
	return newAmiga(env, c)
}

// NewAmigaInEnvironment creates an Amiga with idle collaborators in an
// existing environment.
func NewAmigaInEnvironment(env *environment.Environment) (*Amiga, error) {
	return newAmiga(env, Collaborators{})
}

func newAmiga(env *environment.Environment, c Collaborators) (*Amiga, error) {
	a := &Amiga{
		Env:       env,
		RAM:       memory.NewChipRAM(),
		Registers: memory.NewTable(),
	}

	a.Agnus = agnus.NewAgnus(a.RAM)
	a.Sched = a.Agnus.Sched

	if c.CPU == nil {
		c.CPU = &idleCPU{}
	}
	if c.CIAA == nil {
		a.idleCIAA = newIdleCIA(a.Sched, a.Agnus, scheduler.CIAA)
		c.CIAA = a.idleCIAA
	}
	if c.CIAB == nil {
		c.CIAB = newIdleCIA(a.Sched, a.Agnus, scheduler.CIAB)
	}
	if c.Copper == nil {
		c.Copper = idleCoprocessor{}
	}
	if c.Blitter == nil {
		c.Blitter = idleCoprocessor{}
	}
	if c.Denise == nil {
		c.Denise = &idleDenise{}
	}
	a.Collaborators = c

	for i := range a.Drives {
		a.Drives[i] = drive.NewDrive(i)
	}

	a.Paula = paula.NewPaula(a.Sched, a.Agnus, a.Agnus, c.CPU, a.Drives)
	a.Paula.IRQ.AttachPins(c.CIAA, c.CIAB)

	a.Agnus.ConnectPaula(a.Paula)
	a.Agnus.ConnectDenise(c.Denise)
	a.Agnus.ConnectTOD(c.CIAA, c.CIAB)

	a.Keyboard = keyboard.NewKeyboard(a.Sched, c.CIAA)
	if a.idleCIAA != nil {
		a.idleCIAA.kb = a.Keyboard
	}

	a.Sched.Register(scheduler.CIAA, c.CIAA.ServiceEvent)
	a.Sched.Register(scheduler.CIAB, c.CIAB.ServiceEvent)
	a.Sched.Register(scheduler.COP, c.Copper.ServiceEvent)
	a.Sched.Register(scheduler.BLT, c.Blitter.ServiceEvent)

	if err := a.Agnus.MapRegisters(a.Registers); err != nil {
		return nil, err
	}
	if err := a.Paula.MapRegisters(a.Registers); err != nil {
		return nil, err
	}
	a.Agnus.SetRegisterApply(a.Registers.PokeCustom16)

	if err := a.ApplyPreferences(); err != nil {
		return nil, err
	}

	a.Reset(true)

	logger.Logf(logger.Allow, "amiga", "created %d custom registers", len(a.Registers.Registers()))

	return a, nil
}

// ApplyPreferences copies the hardware preferences to the emulated
// components. It should be called after the preferences have been changed.
func (a *Amiga) ApplyPreferences() error {
	p := a.Env.Prefs

	dsk := a.Paula.Disk
	if err := dsk.SetSpeed(p.DriveSpeed.Get().(int)); err != nil {
		return err
	}
	dsk.SetAutoSync(p.AutoSync.Get().(bool))
	dsk.SetLockSync(p.LockSync.Get().(bool))

	// df0 is always connected
	connected := p.Connected()
	for nr := 1; nr < len(connected); nr++ {
		if err := dsk.SetConnected(nr, connected[nr]); err != nil {
			return err
		}
	}

	a.Keyboard.SetAccurate(p.AccurateKeyboard.Get().(bool))

	a.Paula.Muxer.SetSampleRate(p.SampleRate.Get().(int))
	a.Paula.Muxer.SetSamplingMethod(p.Sampling())

	interval := clocks.Sec(p.InspectionInterval.Get().(float64))
	a.Agnus.SetInspection(scheduler.InsAmiga, interval, a.serviceInspection)

	return nil
}

// Reset the emulation. A hard reset also clears chip RAM and returns the
// clock and the beam to zero.
//
// The scheduler is reset first and Agnus next so that every component can
// re-arm its slots.
func (a *Amiga) Reset(hard bool) {
	if hard {
		a.RAM.Clear()
		for _, drv := range a.Drives {
			drv.Reset()
		}
	}

	a.Sched.Reset(hard)
	a.Agnus.Reset(hard)
	a.Paula.Reset()
	a.Keyboard.Reset()

	if a.idleCIAA != nil {
		a.idleCIAA.reset()
	}

	a.Inspect()
}
