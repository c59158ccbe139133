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

// EventID names the sub-case of a slot that is to be performed when the
// slot is due. The meaning of an EventID depends on the slot. EventID zero is
// never dispatched.
type EventID int64

// EventNone is the id of an empty slot.
const EventNone EventID = 0

// REG slot.
const (
	RegChange EventID = iota + 1
)

// RAS slot.
const (
	RasHSync EventID = iota + 1
)

// CIAA and CIAB slots.
const (
	CiaExecute EventID = iota + 1
	CiaWakeup
)

// BPL slot. The lower two bits of a bitplane event are drawing flags that
// tell the display logic to load the odd or even bitplane shift registers
// during the cycle.
const (
	BplL1  EventID = 0x04
	BplL2  EventID = 0x08
	BplL3  EventID = 0x0c
	BplL4  EventID = 0x10
	BplL5  EventID = 0x14
	BplL6  EventID = 0x18
	BplH1  EventID = 0x1c
	BplH2  EventID = 0x20
	BplH3  EventID = 0x24
	BplH4  EventID = 0x28
	BplSR  EventID = 0x2c
	BplEOL EventID = 0x30

	// drawing flags
	DrawOdd  EventID = 0x01
	DrawEven EventID = 0x02
)

// BplBase removes the drawing flags from a bitplane event.
func BplBase(id EventID) EventID {
	return id &^ (DrawOdd | DrawEven)
}

// DAS slot.
const (
	DasRefresh EventID = iota + 1
	DasD0
	DasD1
	DasD2
	DasA0
	DasA1
	DasA2
	DasA3
	DasS0_1
	DasS0_2
	DasS1_1
	DasS1_2
	DasS2_1
	DasS2_2
	DasS3_1
	DasS3_2
	DasS4_1
	DasS4_2
	DasS5_1
	DasS5_2
	DasS6_1
	DasS6_2
	DasS7_1
	DasS7_2
	DasSDMA
	DasTick
	DasTick2
)

// COP slot.
const (
	CopReqDMA EventID = iota + 1
	CopWakeup
	CopFetch
	CopMove
	CopWaitOrSkip
	CopWait1
	CopWait2
	CopSkip1
	CopSkip2
	CopJmp1
	CopJmp2
	CopVBlank
)

// BLT slot.
const (
	BltStrt1 EventID = iota + 1
	BltStrt2
	BltCopySlow
	BltCopyFake
	BltLineFake
)

// SEC slot.
const (
	SecTrigger EventID = iota + 1
)

// CH0 to CH3 slots.
const (
	ChxPerfin EventID = iota + 1
)

// DSK slot.
const (
	DskRotate EventID = iota + 1
)

// DCH slot.
const (
	DchInsert EventID = iota + 1
	DchEject
)

// VBL slot.
const (
	VblStrobe0 EventID = iota + 1
	VblStrobe1
	VblStrobe2
)

// IPL slot.
const (
	IplChange EventID = iota + 1
)

// IRQ slot.
const (
	IrqCheck EventID = iota + 1
)

// KBD slot.
const (
	KbdTimeout EventID = iota + 1
	KbdDat
	KbdClk0
	KbdClk1
	KbdSyncDat0
	KbdSyncClk0
	KbdSyncDat1
	KbdSyncClk1
)

// TXD slot.
const (
	TxdBit EventID = iota + 1
)

// RXD slot.
const (
	RxdBit EventID = iota + 1
)

// POT slot.
const (
	PotDischarge EventID = iota + 1
	PotCharge
)

// INS slot. The event selects which inspection snapshot is refreshed.
const (
	InsNone EventID = iota + 1
	InsAmiga
	InsCPU
	InsMem
	InsCIA
	InsAgnus
	InsPaula
	InsDenise
	InsPorts
	InsEvents
)

// InvalidEvent is the name given to an event that is not known to a slot.
const InvalidEvent = "*** INVALID ***"

var eventNames [SlotCount]map[EventID]string

func init() {
	eventNames[REG] = map[EventID]string{RegChange: "REG_CHANGE"}
	eventNames[RAS] = map[EventID]string{RasHSync: "RAS_HSYNC"}

	cia := map[EventID]string{CiaExecute: "CIA_EXECUTE", CiaWakeup: "CIA_WAKEUP"}
	eventNames[CIAA] = cia
	eventNames[CIAB] = cia

	bpl := make(map[EventID]string)
	for id, name := range map[EventID]string{
		BplL1: "BPL_L1", BplL2: "BPL_L2", BplL3: "BPL_L3", BplL4: "BPL_L4",
		BplL5: "BPL_L5", BplL6: "BPL_L6", BplH1: "BPL_H1", BplH2: "BPL_H2",
		BplH3: "BPL_H3", BplH4: "BPL_H4", BplSR: "BPL_SR", BplEOL: "BPL_EOL",
	} {
		bpl[id] = name
		bpl[id|DrawOdd] = name + "_ODD"
		bpl[id|DrawEven] = name + "_EVEN"
		bpl[id|DrawOdd|DrawEven] = name + "_ODD_EVEN"
	}

	// drawing flags without a fetch
	bpl[DrawOdd] = "BPL_DRAW_ODD"
	bpl[DrawEven] = "BPL_DRAW_EVEN"
	bpl[DrawOdd|DrawEven] = "BPL_DRAW_ODD_EVEN"
	eventNames[BPL] = bpl

	das := map[EventID]string{
		DasRefresh: "DAS_REFRESH", DasD0: "DAS_D0", DasD1: "DAS_D1", DasD2: "DAS_D2",
		DasA0: "DAS_A0", DasA1: "DAS_A1", DasA2: "DAS_A2", DasA3: "DAS_A3",
		DasSDMA: "DAS_SDMA", DasTick: "DAS_TICK", DasTick2: "DAS_TICK2",
	}
	for i := DasS0_1; i <= DasS7_2; i++ {
		n := i - DasS0_1
		das[i] = "DAS_S" + string(rune('0'+n/2)) + "_" + string(rune('1'+n%2))
	}
	eventNames[DAS] = das

	eventNames[COP] = map[EventID]string{
		CopReqDMA: "COP_REQ_DMA", CopWakeup: "COP_WAKEUP", CopFetch: "COP_FETCH",
		CopMove: "COP_MOVE", CopWaitOrSkip: "COP_WAIT_OR_SKIP", CopWait1: "COP_WAIT1",
		CopWait2: "COP_WAIT2", CopSkip1: "COP_SKIP1", CopSkip2: "COP_SKIP2",
		CopJmp1: "COP_JMP1", CopJmp2: "COP_JMP2", CopVBlank: "COP_VBLANK",
	}
	eventNames[BLT] = map[EventID]string{
		BltStrt1: "BLT_STRT1", BltStrt2: "BLT_STRT2", BltCopySlow: "BLT_COPY_SLOW",
		BltCopyFake: "BLT_COPY_FAKE", BltLineFake: "BLT_LINE_FAKE",
	}
	eventNames[SEC] = map[EventID]string{SecTrigger: "SEC_TRIGGER"}

	chx := map[EventID]string{ChxPerfin: "CHX_PERFIN"}
	for s := CH0; s <= CH3; s++ {
		eventNames[s] = chx
	}

	eventNames[DSK] = map[EventID]string{DskRotate: "DSK_ROTATE"}
	eventNames[DCH] = map[EventID]string{DchInsert: "DCH_INSERT", DchEject: "DCH_EJECT"}
	eventNames[VBL] = map[EventID]string{VblStrobe0: "VBL_STROBE0", VblStrobe1: "VBL_STROBE1", VblStrobe2: "VBL_STROBE2"}
	eventNames[IPL] = map[EventID]string{IplChange: "IPL_CHANGE"}
	eventNames[IRQ] = map[EventID]string{IrqCheck: "IRQ_CHECK"}
	eventNames[KBD] = map[EventID]string{
		KbdTimeout: "KBD_TIMEOUT", KbdDat: "KBD_DAT", KbdClk0: "KBD_CLK0", KbdClk1: "KBD_CLK1",
		KbdSyncDat0: "KBD_SYNC_DAT0", KbdSyncClk0: "KBD_SYNC_CLK0",
		KbdSyncDat1: "KBD_SYNC_DAT1", KbdSyncClk1: "KBD_SYNC_CLK1",
	}
	eventNames[TXD] = map[EventID]string{TxdBit: "TXD_BIT"}
	eventNames[RXD] = map[EventID]string{RxdBit: "RXD_BIT"}
	eventNames[POT] = map[EventID]string{PotDischarge: "POT_DISCHARGE", PotCharge: "POT_CHARGE"}
	eventNames[INS] = map[EventID]string{
		InsNone: "INS_NONE", InsAmiga: "INS_AMIGA", InsCPU: "INS_CPU", InsMem: "INS_MEM",
		InsCIA: "INS_CIA", InsAgnus: "INS_AGNUS", InsPaula: "INS_PAULA",
		InsDenise: "INS_DENISE", InsPorts: "INS_PORTS", InsEvents: "INS_EVENTS",
	}
}

// EventName returns the name of the event for the slot. Events unknown to the
// slot are named InvalidEvent. The empty event is named "none".
func EventName(s Slot, id EventID) string {
	if id == EventNone {
		return "none"
	}
	if s < 0 || s >= SlotCount {
		return InvalidEvent
	}
	if n, ok := eventNames[s][id]; ok {
		return n
	}
	return InvalidEvent
}

// IsValidEvent returns true if the event is known to the slot.
func IsValidEvent(s Slot, id EventID) bool {
	if s < 0 || s >= SlotCount {
		return false
	}
	_, ok := eventNames[s][id]
	return ok
}
