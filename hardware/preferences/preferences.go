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

// Package preferences declares the options of the emulated hardware. Values
// are persisted with the prefs package and can be overridden on the command
// line with the prefs command line stack.
package preferences

import (
	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/paula/audio"
	"github.com/gopher500/gopher500/hardware/paula/disk"
	"github.com/gopher500/gopher500/paths"
	"github.com/gopher500/gopher500/prefs"
)

// DefaultPrefsFile is the name of the preferences file in the resource
// directory.
const DefaultPrefsFile = "preferences"

// Sentinal errors returned by the pre-hooks of the preference values.
const (
	InvalidSampleRate = "preferences: invalid sample rate (%d)"
	InvalidInterval   = "preferences: invalid inspection interval (%.3f)"
)

// Preferences defines and collates the hardware preference values.
type Preferences struct {
	dsk *prefs.Disk

	// words moved in every disk DMA slot. -1 selects turbo mode
	DriveSpeed prefs.Int
	AutoSync   prefs.Bool
	LockSync   prefs.Bool

	// connection of the external drives. df0 is always connected
	DF1 prefs.Bool
	DF2 prefs.Bool
	DF3 prefs.Bool

	AccurateKeyboard prefs.Bool

	SamplingMethod prefs.String
	SampleRate     prefs.Int

	// interval between inspection events in seconds. zero disables
	// inspection
	InspectionInterval prefs.Float
}

func (p *Preferences) String() string {
	return p.dsk.String()
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type. Values are loaded from the preferences file in the
// resource directory.
func NewPreferences() (*Preferences, error) {
	return NewPreferencesFromFile(paths.ResourcePath(DefaultPrefsFile))
}

// NewPreferencesFromFile is like NewPreferences but loads values from the
// named file. A missing file is not an error.
func NewPreferencesFromFile(pth string) (*Preferences, error) {
	p := &Preferences{}

	p.DriveSpeed.SetHookPre(func(v prefs.Value) error {
		if !disk.IsValidSpeed(v.(int)) {
			return curated.Errorf(disk.InvalidSpeed, v.(int))
		}
		return nil
	})
	p.SamplingMethod.SetHookPre(func(v prefs.Value) error {
		_, err := audio.ParseSamplingMethod(v.(string))
		return err
	})
	p.SampleRate.SetHookPre(func(v prefs.Value) error {
		if v.(int) <= 0 {
			return curated.Errorf(InvalidSampleRate, v.(int))
		}
		return nil
	})
	p.InspectionInterval.SetHookPre(func(v prefs.Value) error {
		if v.(float64) < 0 {
			return curated.Errorf(InvalidInterval, v.(float64))
		}
		return nil
	})

	if err := p.SetDefaults(); err != nil {
		return nil, err
	}

	var err error
	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	err = p.dsk.Add("hardware.disk.speed", &p.DriveSpeed)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.disk.autosync", &p.AutoSync)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.disk.locksync", &p.LockSync)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.disk.df1", &p.DF1)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.disk.df2", &p.DF2)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.disk.df3", &p.DF3)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.keyboard.accurate", &p.AccurateKeyboard)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.audio.sampling", &p.SamplingMethod)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.audio.rate", &p.SampleRate)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}
	err = p.dsk.Add("hardware.inspection.interval", &p.InspectionInterval)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	err = p.dsk.Load(false)
	if err != nil && !curated.Is(err, prefs.NoPrefsFile) {
		return nil, curated.Errorf("preferences: %v", err)
	}

	return p, nil
}

// SetDefaults reverts all values to their default state.
func (p *Preferences) SetDefaults() error {
	cfg := disk.DefaultConfig()
	if err := p.DriveSpeed.Set(cfg.Speed); err != nil {
		return err
	}
	_ = p.AutoSync.Set(cfg.AutoSync)
	_ = p.LockSync.Set(cfg.LockSync)
	_ = p.DF1.Set(false)
	_ = p.DF2.Set(false)
	_ = p.DF3.Set(false)
	_ = p.AccurateKeyboard.Set(false)
	if err := p.SamplingMethod.Set(audio.SamplingLinear.String()); err != nil {
		return err
	}
	if err := p.SampleRate.Set(audio.DefaultSampleRate); err != nil {
		return err
	}
	return p.InspectionInterval.Set(0.0)
}

// Connected returns the connection state of the four drives.
func (p *Preferences) Connected() [4]bool {
	return [4]bool{
		true,
		p.DF1.Get().(bool),
		p.DF2.Get().(bool),
		p.DF3.Get().(bool),
	}
}

// Sampling returns the value of SamplingMethod as an audio.SamplingMethod.
func (p *Preferences) Sampling() audio.SamplingMethod {
	m, err := audio.ParseSamplingMethod(p.SamplingMethod.String())
	if err != nil {
		return audio.SamplingLinear
	}
	return m
}

// Load preference values from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}

// Save current preference values to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}
