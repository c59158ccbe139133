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

// Package monitor is a single key stepping monitor for the emulation. Every
// key press is a command: step a cycle, a line or a frame, print the state
// of a chip, take and restore snapshots.
//
// The monitor reads keys from a KeyReader. The easyterm.Terminal type is a
// KeyReader when the terminal is in cbreak mode.
package monitor

import (
	"fmt"
	"io"

	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/agnus"
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/logger"
)

// KeyReader is the source of monitor commands.
type KeyReader interface {
	ReadKey() (byte, error)
}

// Monitor is the key stepping monitor.
type Monitor struct {
	amiga *hardware.Amiga
	in    KeyReader
	out   io.Writer

	snapshot *hardware.State
}

type command struct {
	key  byte
	help string
	fn   func(m *Monitor) error
}

var commands []command

func init() {
	commands = []command{
		{'c', "step one DMA cycle", func(m *Monitor) error {
			m.amiga.ExecuteUntil(m.amiga.Agnus.Now() + clocks.DMACycles(1))
			return nil
		}},
		{'l', "step to the start of the next line", func(m *Monitor) error {
			h := int64(m.amiga.Agnus.HPOS())
			m.amiga.ExecuteUntil(m.amiga.Agnus.Now() + clocks.DMACycles(clocks.HPOSCount-h))
			return nil
		}},
		{'f', "step to the start of the next frame", func(m *Monitor) error {
			m.amiga.RunFrames(1)
			return nil
		}},
		{'F', "run ten frames", func(m *Monitor) error {
			m.amiga.RunFrames(10)
			return nil
		}},
		{'a', "print Agnus registers", (*Monitor).printAgnus},
		{'p', "print Paula registers", (*Monitor).printPaula},
		{'e', "print the scheduler slot table", (*Monitor).printEvents},
		{'d', "print the DMA event tables for the current line", func(m *Monitor) error {
			m.amiga.Agnus.DumpEvents(m.out)
			return nil
		}},
		{'b', "print bus usage", (*Monitor).printUsage},
		{'s', "take a snapshot", func(m *Monitor) error {
			st, err := m.amiga.Snapshot()
			if err != nil {
				return err
			}
			m.snapshot = st
			fmt.Fprintf(m.out, "snapshot taken at frame %d (%d bytes)\n", st.Frame, st.Size())
			return nil
		}},
		{'o', "restore the snapshot", func(m *Monitor) error {
			if m.snapshot == nil {
				fmt.Fprintln(m.out, "no snapshot")
				return nil
			}
			return m.amiga.Plumb(m.snapshot)
		}},
		{'r', "soft reset", func(m *Monitor) error {
			m.amiga.Reset(false)
			return nil
		}},
		{'R', "hard reset", func(m *Monitor) error {
			m.amiga.Reset(true)
			return nil
		}},
		{'L', "print the log", func(m *Monitor) error {
			logger.Tail(m.out, 20)
			return nil
		}},
	}
}

// NewMonitor is the preferred method of initialisation for the Monitor type.
func NewMonitor(amiga *hardware.Amiga, in KeyReader, out io.Writer) *Monitor {
	return &Monitor{
		amiga: amiga,
		in:    in,
		out:   out,
	}
}

// Run reads and executes commands until the quit command or the end of
// input.
func (m *Monitor) Run() error {
	m.help()
	m.status()

	for {
		key, err := m.in.ReadKey()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("monitor: %w", err)
		}

		cont, err := m.Command(key)
		if err != nil {
			return fmt.Errorf("monitor: %w", err)
		}
		if !cont {
			return nil
		}
	}
}

// Command executes the command for the key. Returns false if the key is the
// quit command.
func (m *Monitor) Command(key byte) (bool, error) {
	switch key {
	case 'q':
		return false, nil
	case '?', 'h':
		m.help()
		return true, nil
	case ' ', '\n', '\r':
		return true, nil
	}

	for _, c := range commands {
		if c.key == key {
			if err := c.fn(m); err != nil {
				return false, err
			}
			m.status()
			return true, nil
		}
	}

	fmt.Fprintf(m.out, "unknown command (%q). press ? for help\n", key)
	return true, nil
}

func (m *Monitor) help() {
	for _, c := range commands {
		fmt.Fprintf(m.out, "%c  %s\n", c.key, c.help)
	}
	fmt.Fprintln(m.out, "?  help")
	fmt.Fprintln(m.out, "q  quit")
}

func (m *Monitor) status() {
	ag := m.amiga.Agnus
	fmt.Fprintf(m.out, "frame %d (%d,%d) cycle %d\n", ag.Frame(), ag.VPOS(), ag.HPOS(), ag.Now())
}

func (m *Monitor) printAgnus() error {
	info := m.amiga.Agnus.Info()
	fmt.Fprintf(m.out, "DMACON=%04x BPLCON0=%04x BPLCON1=%04x\n", info.DMACON, info.BPLCON0, info.BPLCON1)
	fmt.Fprintf(m.out, "DDFSTRT=%04x DDFSTOP=%04x DIWSTRT=%04x DIWSTOP=%04x\n", info.DDFSTRT, info.DDFSTOP, info.DIWSTRT, info.DIWSTOP)
	fmt.Fprintf(m.out, "BPL1MOD=%d BPL2MOD=%d\n", info.BPL1MOD, info.BPL2MOD)
	for i, p := range info.BPLPT {
		fmt.Fprintf(m.out, "BPL%dPT=%06x ", i+1, p)
	}
	fmt.Fprintln(m.out)
	for i := range info.AUDLC {
		fmt.Fprintf(m.out, "AUD%dLC=%06x AUD%dPT=%06x\n", i, info.AUDLC[i], i, info.AUDPT[i])
	}
	fmt.Fprintf(m.out, "DSKPT=%06x pending=%d\n", info.DSKPT, info.Pending)
	return nil
}

func (m *Monitor) printPaula() error {
	info := m.amiga.Paula.Info()
	fmt.Fprintf(m.out, "INTREQ=%04x INTENA=%04x level=%d ADKCON=%04x\n", info.IRQ.INTREQ, info.IRQ.INTENA, info.IRQ.Level, info.ADKCON)
	for i, ch := range info.Audio {
		fmt.Fprintf(m.out, "audio %d: %s blocks=%d queued=%d\n", i, ch.State, info.Blocks[i], ch.Queued)
	}
	fmt.Fprintf(m.out, "disk: %s drive=%d DSKLEN=%04x\n", info.Disk.State, info.Disk.SelectedDrive, info.Disk.DSKLEN)
	fmt.Fprintf(m.out, "muxer: %d frames waiting, %d dropped\n", info.Frames, info.Dropped)
	return nil
}

func (m *Monitor) printEvents() error {
	m.amiga.Sched.Inspect()
	m.amiga.Sched.Info().Write(m.out)
	return nil
}

func (m *Monitor) printUsage() error {
	usage := m.amiga.Agnus.Usage()
	for o := agnus.BusOwner(0); o < agnus.NumBusOwners; o++ {
		if usage[o] > 0 {
			fmt.Fprintf(m.out, "%-12s %d\n", o, usage[o])
		}
	}
	return nil
}
