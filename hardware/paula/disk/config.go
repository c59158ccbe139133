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

package disk

import (
	"github.com/gopher500/gopher500/curated"
)

// Sentinal errors returned by the configuration functions.
const (
	InvalidSpeed     = "disk: invalid drive speed (%d)"
	InvalidDrive     = "disk: invalid drive number (%d)"
	CannotDisconnect = "disk: df0 cannot be disconnected"
)

// TurboSpeed is the speed value that selects turbo mode. In turbo mode a
// whole block is transferred as soon as DMA is enabled.
const TurboSpeed = -1

// IsValidSpeed returns true if the value can be used as a drive speed.
func IsValidSpeed(speed int) bool {
	switch speed {
	case TurboSpeed, 1, 2, 4, 8:
		return true
	}
	return false
}

// Config of the disk controller.
type Config struct {
	// number of words transferred in every disk DMA slot. TurboSpeed
	// selects turbo mode
	Speed int

	// raise the sync interrupt periodically even if there is no sync mark
	// on the disk
	AutoSync bool

	// ignore writes of unusual values to DSKSYNC
	LockSync bool

	Connected [4]bool
}

// DefaultConfig is a standard drive with only the internal drive connected.
func DefaultConfig() Config {
	return Config{
		Speed:     1,
		Connected: [4]bool{true, false, false, false},
	}
}

// Config returns a copy of the current configuration.
func (dc *Controller) Config() Config {
	return dc.config
}

// SetSpeed changes the drive speed. Changing to or from turbo mode restarts
// the rotation events.
func (dc *Controller) SetSpeed(speed int) error {
	if !IsValidSpeed(speed) {
		return curated.Errorf(InvalidSpeed, speed)
	}
	if dc.config.Speed == speed {
		return nil
	}
	dc.config.Speed = speed
	dc.scheduleFirstDiskEvent()
	return nil
}

// SetAutoSync changes the auto sync option.
func (dc *Controller) SetAutoSync(auto bool) {
	dc.config.AutoSync = auto
}

// SetLockSync changes the lock sync option.
func (dc *Controller) SetLockSync(lock bool) {
	dc.config.LockSync = lock
}

// SetConnected connects or disconnects a drive.
func (dc *Controller) SetConnected(nr int, connected bool) error {
	if nr < 0 || nr >= len(dc.drives) {
		return curated.Errorf(InvalidDrive, nr)
	}
	if nr == 0 && !connected {
		return curated.Errorf(CannotDisconnect)
	}
	dc.config.Connected[nr] = connected
	return nil
}

func (dc *Controller) turbo() bool {
	return dc.config.Speed == TurboSpeed
}
