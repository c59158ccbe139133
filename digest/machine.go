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

package digest

import (
	"encoding/binary"

	"github.com/cespare/xxhash"
	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// Machine produces a digest of the machine state once per frame. The state
// included is the slot table of the scheduler, the interrupt registers and
// delayed interrupt requests, and the DMA pointers.
type Machine struct {
	amiga  *hardware.Amiga
	digest uint64
	buffer []byte
	frames int
}

// NewMachine is the preferred method of initialisation for the Machine type.
// The digest is attached to the emulation as a frame observer.
func NewMachine(amiga *hardware.Amiga) *Machine {
	dig := &Machine{
		amiga:  amiga,
		buffer: make([]byte, 0, 1024),
	}
	amiga.Agnus.AddFrameObserver(dig.frame)
	return dig
}

// Hash implements digest.Digest interface.
func (dig *Machine) Hash() string {
	return format(dig.digest)
}

// ResetDigest implements digest.Digest interface.
func (dig *Machine) ResetDigest() {
	dig.digest = 0
	dig.frames = 0
}

// Frames returns the number of frames included in the digest.
func (dig *Machine) Frames() int {
	return dig.frames
}

func (dig *Machine) put64(v uint64) {
	dig.buffer = binary.BigEndian.AppendUint64(dig.buffer, v)
}

func (dig *Machine) put32(v uint32) {
	dig.buffer = binary.BigEndian.AppendUint32(dig.buffer, v)
}

func (dig *Machine) frame(_ int64) {
	// preserve the first few bytes for a chained fingerprint
	dig.buffer = dig.buffer[:digestLength]
	chain(dig.buffer, dig.digest)

	sched := dig.amiga.Sched
	for sl := scheduler.REG; sl < scheduler.SlotCount; sl++ {
		dig.put64(uint64(sched.Trigger(sl)))
		dig.put64(uint64(sched.ID(sl)))
		dig.put64(uint64(sched.Data(sl)))
	}

	irq := dig.amiga.Paula.IRQ.Info()
	dig.put32(uint32(irq.INTREQ)<<16 | uint32(irq.INTENA))
	for _, p := range irq.Pending {
		dig.put64(uint64(p))
	}

	ag := dig.amiga.Agnus.Info()
	dig.put64(uint64(ag.Clock))
	for _, p := range ag.BPLPT {
		dig.put32(p)
	}
	for _, p := range ag.AUDPT {
		dig.put32(p)
	}
	dig.put32(ag.DSKPT)

	dig.digest = xxhash.Sum64(dig.buffer)
	dig.frames++
}
