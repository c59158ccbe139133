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

// Package inspect exports the inspection snapshot of the emulation in forms
// suitable for reading outside of the emulator. The YAML report is a
// readable summary and the memviz graph is a complete dump of the snapshot
// as a graphviz document.
package inspect

import (
	"fmt"

	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/clocks"
)

// Beam position at the time of the snapshot.
type Beam struct {
	Frame int64 `yaml:"frame" json:"frame"`
	VPOS  int   `yaml:"vpos" json:"vpos"`
	HPOS  int   `yaml:"hpos" json:"hpos"`
	Clock int64 `yaml:"clock" json:"clock"`
}

// Interrupts summarises the interrupt controller. Registers are formatted as
// hexadecimal strings.
type Interrupts struct {
	INTREQ string `yaml:"intreq" json:"intreq"`
	INTENA string `yaml:"intena" json:"intena"`
	Level  uint8  `yaml:"level" json:"level"`
	IPL    uint8  `yaml:"ipl" json:"ipl"`
}

// Channel summarises one audio channel.
type Channel struct {
	State  string `yaml:"state" json:"state"`
	DMA    bool   `yaml:"dma" json:"dma"`
	AUDLEN uint16 `yaml:"audlen" json:"audlen"`
	AUDPER uint16 `yaml:"audper" json:"audper"`
	AUDVOL uint16 `yaml:"audvol" json:"audvol"`
	Queued int    `yaml:"queued" json:"queued"`
	Blocks int    `yaml:"blocks" json:"blocks"`
}

// Disk summarises the disk controller.
type Disk struct {
	State    string `yaml:"state" json:"state"`
	Selected int    `yaml:"selected" json:"selected"`
	DSKLEN   string `yaml:"dsklen" json:"dsklen"`
	DSKSYNC  string `yaml:"dsksync" json:"dsksync"`
	DSKBYTR  string `yaml:"dskbytr" json:"dskbytr"`
	Fifo     int    `yaml:"fifo" json:"fifo"`
}

// Keyboard summarises the keyboard protocol.
type Keyboard struct {
	State    string   `yaml:"state" json:"state"`
	Buffered int      `yaml:"buffered" json:"buffered"`
	Received []string `yaml:"received,omitempty" json:"received,omitempty"`
}

// Slot is one pending event. The trigger is relative to the clock of the
// snapshot.
type Slot struct {
	Name      string `yaml:"name" json:"name"`
	Event     string `yaml:"event" json:"event"`
	TriggerIn int64  `yaml:"trigger_in" json:"trigger_in"`
	Data      int64  `yaml:"data,omitempty" json:"data,omitempty"`
}

// Report is the readable form of the inspection snapshot. Only slots with a
// pending event are listed.
type Report struct {
	Beam       Beam       `yaml:"beam" json:"beam"`
	DMACON     string     `yaml:"dmacon" json:"dmacon"`
	ADKCON     string     `yaml:"adkcon" json:"adkcon"`
	Interrupts Interrupts `yaml:"interrupts" json:"interrupts"`
	Channels   []Channel  `yaml:"channels" json:"channels"`
	Disk       Disk       `yaml:"disk" json:"disk"`
	Keyboard   Keyboard   `yaml:"keyboard" json:"keyboard"`
	Slots      []Slot     `yaml:"slots" json:"slots"`
	Frames     int        `yaml:"audio_frames" json:"audio_frames"`
	Dropped    int        `yaml:"audio_dropped" json:"audio_dropped"`
}

func hex16(v uint16) string {
	return fmt.Sprintf("%04x", v)
}

// NewReport is the preferred method of initialisation for the Report type.
func NewReport(info hardware.Info) Report {
	r := Report{
		Beam: Beam{
			Frame: info.Agnus.Frame,
			VPOS:  info.Agnus.VPOS,
			HPOS:  info.Agnus.HPOS,
			Clock: int64(info.Agnus.Clock),
		},
		DMACON: hex16(info.Agnus.DMACON),
		ADKCON: hex16(info.Paula.ADKCON),
		Interrupts: Interrupts{
			INTREQ: hex16(info.Paula.IRQ.INTREQ),
			INTENA: hex16(info.Paula.IRQ.INTENA),
			Level:  info.Paula.IRQ.Level,
			IPL:    info.IPL,
		},
		Disk: Disk{
			State:    info.Paula.Disk.State.String(),
			Selected: info.Paula.Disk.SelectedDrive,
			DSKLEN:   hex16(info.Paula.Disk.DSKLEN),
			DSKSYNC:  hex16(info.Paula.Disk.DSKSYNC),
			DSKBYTR:  hex16(info.Paula.Disk.DSKBYTR),
			Fifo:     info.Paula.Disk.FifoCount,
		},
		Keyboard: Keyboard{
			State:    info.Keyboard.State.String(),
			Buffered: info.Keyboard.Buffered,
		},
		Frames:  info.Paula.Frames,
		Dropped: info.Paula.Dropped,
	}

	for i, ch := range info.Paula.Audio {
		r.Channels = append(r.Channels, Channel{
			State:  ch.State.String(),
			DMA:    ch.DMA,
			AUDLEN: ch.AudlenLatch,
			AUDPER: ch.AudperLatch,
			AUDVOL: ch.AudvolLatch,
			Queued: ch.Queued,
			Blocks: info.Paula.Blocks[i],
		})
	}

	for _, k := range info.Keyboard.Received {
		r.Keyboard.Received = append(r.Keyboard.Received, fmt.Sprintf("%02x", k))
	}

	for _, sl := range info.Events.Slots {
		if sl.Trigger == clocks.NEVER {
			continue
		}
		r.Slots = append(r.Slots, Slot{
			Name:      sl.SlotName,
			Event:     sl.EventName,
			TriggerIn: int64(sl.TriggerIn),
			Data:      sl.Data,
		})
	}

	return r
}
