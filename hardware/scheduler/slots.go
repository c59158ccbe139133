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

package scheduler

import "fmt"

// Slot identifies an entry in the slot table. The order of the constants is
// the dispatch order. Slots before SEC are primary slots and are checked on
// every dispatch pass. Slots after SEC are secondary slots and are checked
// only when SEC is due.
type Slot int

// List of valid Slot values.
const (
	// primary slots
	REG  Slot = iota // register change recorder
	RAS              // raster line
	CIAA             // CIA A execution
	CIAB             // CIA B execution
	BPL              // bitplane DMA
	DAS              // disk, audio and sprite DMA
	COP              // copper
	BLT              // blitter
	SEC              // entry point to the secondary slots

	// secondary slots
	CH0 // audio channel 0
	CH1 // audio channel 1
	CH2 // audio channel 2
	CH3 // audio channel 3
	DSK // disk controller
	DCH // disk change
	VBL // vertical blank strobes
	IPL // interrupt priority level pipe
	IRQ // delayed interrupt requests
	KBD // keyboard
	TXD // serial output
	RXD // serial input
	POT // potentiometer counters
	INS // inspection

	SlotCount
)

// FirstSecondary is the first slot in the secondary region.
const FirstSecondary = CH0

var slotNames = [SlotCount]string{
	"Registers", "Raster", "CIA A", "CIA B", "Bitplane DMA", "Other DMA",
	"Copper", "Blitter", "Secondary", "Audio 0", "Audio 1", "Audio 2",
	"Audio 3", "Disk", "Disk Change", "Vertical Blank", "IPL", "Interrupts",
	"Keyboard", "UART out", "UART in", "Potentiometer", "Inspection",
}

func (s Slot) String() string {
	if s < 0 || s >= SlotCount {
		return fmt.Sprintf("invalid slot (%d)", int(s))
	}
	return slotNames[s]
}

// IsPrimary returns true if the slot is in the primary region.
func (s Slot) IsPrimary() bool {
	return s >= REG && s <= SEC
}

// IsSecondary returns true if the slot is in the secondary region.
func (s Slot) IsSecondary() bool {
	return s >= FirstSecondary && s < SlotCount
}

// AudioSlot returns the slot for the audio channel.
func AudioSlot(channel int) Slot {
	return CH0 + Slot(channel)
}
