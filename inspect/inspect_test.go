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

package inspect_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/preferences"
	"github.com/gopher500/gopher500/inspect"
	"github.com/gopher500/gopher500/test"
)

func newAmiga(t *testing.T) *hardware.Amiga {
	t.Helper()
	prefs, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)
	a, err := hardware.NewAmiga(prefs)
	test.DemandSuccess(t, err)
	return a
}

func TestReport(t *testing.T) {
	a := newAmiga(t)
	a.RunFrames(2)
	a.Inspect()

	rep := inspect.NewReport(a.Info())
	test.ExpectEquality(t, rep.Beam.Frame, int64(2))
	test.ExpectEquality(t, rep.Beam.VPOS, 0)
	test.ExpectEquality(t, rep.Beam.HPOS, 0)
	test.ExpectEquality(t, len(rep.Channels), 4)
	test.ExpectEquality(t, rep.Keyboard.State, a.Keyboard.State().String())

	// the raster line event is always pending
	var ras bool
	for _, sl := range rep.Slots {
		if sl.Name == "Raster" {
			ras = true
		}
		test.ExpectSuccess(t, sl.TriggerIn >= 0)
	}
	test.ExpectSuccess(t, ras)
}

func TestYAML(t *testing.T) {
	a := newAmiga(t)
	a.RunFrames(1)
	a.Inspect()
	info := a.Info()

	var b bytes.Buffer
	test.DemandSuccess(t, inspect.WriteYAML(&b, info))
	test.ExpectSuccess(t, strings.Contains(b.String(), "interrupts:"))
	test.ExpectSuccess(t, strings.Contains(b.String(), "slots:"))

	rep, err := inspect.ReadYAML(&b)
	test.DemandSuccess(t, err)
	want := inspect.NewReport(info)
	test.ExpectEquality(t, rep.Beam, want.Beam)
	test.ExpectEquality(t, rep.Interrupts, want.Interrupts)
	test.ExpectEquality(t, rep.Disk, want.Disk)
	test.ExpectEquality(t, len(rep.Slots), len(want.Slots))

	_, err = inspect.ReadYAML(strings.NewReader("beam: [1, 2"))
	test.ExpectFailure(t, err)
}

func TestGraph(t *testing.T) {
	a := newAmiga(t)
	a.Inspect()

	var b bytes.Buffer
	inspect.WriteGraph(&b, a.Info())
	test.ExpectSuccess(t, strings.HasPrefix(b.String(), "digraph"))
}
