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

package interrupts

import "fmt"

// Source is an interrupt source. The value is the bit position in the
// INTREQ and INTENA registers.
type Source int

// List of valid Source values.
const (
	TBE    Source = iota // serial transmit buffer empty
	DSKBLK               // disk block finished
	SOFT                 // software interrupt
	PORTS                // CIA A and external INT2
	COPER                // copper
	VERTB                // start of vertical blank
	BLIT                 // blitter finished
	AUD0                 // audio channel 0 block finished
	AUD1                 // audio channel 1 block finished
	AUD2                 // audio channel 2 block finished
	AUD3                 // audio channel 3 block finished
	RBF                  // serial receive buffer full
	DSKSYN               // disk sync word found
	EXTER                // CIA B and external INT6

	NumSources
)

var sourceNames = [NumSources]string{
	"TBE", "DSKBLK", "SOFT", "PORTS", "COPER", "VERTB", "BLIT",
	"AUD0", "AUD1", "AUD2", "AUD3", "RBF", "DSKSYN", "EXTER",
}

func (src Source) String() string {
	if src < 0 || src >= NumSources {
		return fmt.Sprintf("unknown interrupt source (%d)", int(src))
	}
	return sourceNames[src]
}

// Mask returns the INTREQ/INTENA bit for the source.
func (src Source) Mask() uint16 {
	return 1 << uint(src)
}

// AudioSource returns the interrupt source for the audio channel.
func AudioSource(channel int) Source {
	return AUD0 + Source(channel)
}

// Raiser is implemented by the interrupt controller. Components that raise
// interrupts should use this interface rather than the controller type.
type Raiser interface {
	RaiseIrq(src Source)
	ScheduleIrqAbs(src Source, trigger int64)
	ScheduleIrqRel(src Source, delay int64)
	IsRequested(src Source) bool
}
