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
	"fmt"
	"io"
	"strings"

	"github.com/gopher500/gopher500/hardware/agnus"
	"github.com/gopher500/gopher500/hardware/keyboard"
	"github.com/gopher500/gopher500/hardware/paula"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// KeyboardInfo is a copy of the keyboard state.
type KeyboardInfo struct {
	State    keyboard.State
	Buffered int

	// decoded key codes received by the idle CIA-A, oldest first. empty if
	// CIA-A was supplied as a collaborator
	Received []uint8
}

// Info is a snapshot of the emulation for inspection.
type Info struct {
	Agnus    agnus.Info
	Paula    paula.Info
	Keyboard KeyboardInfo
	Events   scheduler.Info

	// priority level seen by the idle CPU. zero if the CPU was supplied as a
	// collaborator
	IPL uint8
}

// Snapshot returns a copy of the Info. The Received slice is not shared.
func (info Info) Snapshot() Info {
	n := info
	n.Keyboard.Received = append([]uint8(nil), info.Keyboard.Received...)
	return n
}

func (info Info) String() string {
	var b strings.Builder
	info.Write(&b)
	return b.String()
}

// Write the inspection snapshot as a printable summary.
func (info Info) Write(w io.Writer) {
	fmt.Fprintf(w, "%s\n", info.Agnus)
	fmt.Fprintf(w, "INTREQ=%04x INTENA=%04x IPL=%d\n", info.Paula.IRQ.INTREQ, info.Paula.IRQ.INTENA, info.IPL)
	for i, ch := range info.Paula.Audio {
		fmt.Fprintf(w, "audio %d: %v dma=%v AUDLEN=%04x AUDPER=%d AUDVOL=%d queued=%d blocks=%d\n",
			i, ch.State, ch.DMA, ch.AudlenLatch, ch.AudperLatch, ch.AudvolLatch, ch.Queued, info.Paula.Blocks[i])
	}
	fmt.Fprintf(w, "disk: %s DSKLEN=%04x DSKSYNC=%04x\n", info.Paula.Disk.State, info.Paula.Disk.DSKLEN, info.Paula.Disk.DSKSYNC)
	fmt.Fprintf(w, "keyboard: %s (%d buffered)\n", info.Keyboard.State, info.Keyboard.Buffered)
	info.Events.Write(w)
}

// Inspect takes a new inspection snapshot. It must be called from the
// emulation goroutine.
func (a *Amiga) Inspect() {
	a.inspect(scheduler.InsAmiga)
}

func (a *Amiga) inspect(id scheduler.EventID) {
	// the scheduler keeps its own snapshot under its own lock
	if id == scheduler.InsAmiga || id == scheduler.InsEvents {
		a.Sched.Inspect()
	}

	a.crit.Lock()
	defer a.crit.Unlock()

	switch id {
	case scheduler.InsAgnus:
		a.info.Agnus = a.Agnus.Info()
	case scheduler.InsPaula:
		a.info.Paula = a.Paula.Info()
	case scheduler.InsEvents:
		a.info.Events = a.Sched.Info()
	default:
		a.info.Agnus = a.Agnus.Info()
		a.info.Paula = a.Paula.Info()
		a.info.Events = a.Sched.Info()
		a.info.Keyboard = KeyboardInfo{
			State:    a.Keyboard.State(),
			Buffered: a.Keyboard.Buffered(),
		}
		if a.idleCIAA != nil {
			a.info.Keyboard.Received = append(a.info.Keyboard.Received[:0], a.idleCIAA.received...)
		}
		if cpu, ok := a.Collaborators.CPU.(*idleCPU); ok {
			a.info.IPL = cpu.ipl
		}
	}
}

// serviceInspection is called by the inspection event.
func (a *Amiga) serviceInspection(id scheduler.EventID) {
	a.inspect(id)
}

// Info returns the most recent inspection snapshot. It is safe to call from
// any goroutine.
func (a *Amiga) Info() Info {
	a.crit.Lock()
	defer a.crit.Unlock()
	return a.info.Snapshot()
}
