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
	"github.com/gopher500/gopher500/hardware/clocks"
)

// ExecuteUntil runs the emulation until the master clock reaches the target
// cycle. The target is rounded down to a whole DMA cycle.
func (a *Amiga) ExecuteUntil(target clocks.Cycle) {
	a.Agnus.ExecuteUntil(target)
}

// RunFrames runs the emulation until the start of the nth frame after the
// current one.
func (a *Amiga) RunFrames(n int) {
	if n <= 0 {
		return
	}
	target := a.Agnus.BeamToCycle(0, 0) + clocks.DMACycles(int64(n)*clocks.DMACyclesPerFrame)
	a.Agnus.ExecuteUntil(target)
}

// Run sets the emulation running one frame at a time. The continueCheck
// function is called at the end of every frame. The emulation stops when the
// function returns false or an error.
func (a *Amiga) Run(continueCheck func() (bool, error)) error {
	if continueCheck == nil {
		continueCheck = func() (bool, error) { return true, nil }
	}

	for {
		a.RunFrames(1)
		cont, err := continueCheck()
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
	}
}
