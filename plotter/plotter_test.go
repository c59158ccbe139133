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

package plotter_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopher500/gopher500/hardware/paula/audio"
	"github.com/gopher500/gopher500/plotter"
	"github.com/gopher500/gopher500/test"
)

func TestRecorderLimit(t *testing.T) {
	rec := plotter.NewRecorder(audio.DefaultSampleRate, 5)
	test.ExpectSuccess(t, rec.SetAudio(make([]audio.Frame, 3)))
	test.ExpectEquality(t, rec.Len(), 3)
	test.ExpectSuccess(t, rec.SetAudio(make([]audio.Frame, 3)))
	test.ExpectEquality(t, rec.Len(), 5)
	test.ExpectSuccess(t, rec.SetAudio(make([]audio.Frame, 3)))
	test.ExpectEquality(t, rec.Len(), 5)
	test.ExpectSuccess(t, rec.EndMixing())
}

func TestSave(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "plot.png")

	rec := plotter.NewRecorder(audio.DefaultSampleRate, 1000)
	test.ExpectFailure(t, rec.Save(fn, "empty"))

	frames := make([]audio.Frame, 100)
	for i := range frames {
		frames[i].Left = float32(i%10) / 10
		frames[i].Right = -frames[i].Left
	}
	test.ExpectSuccess(t, rec.SetAudio(frames))

	p, err := rec.Plot("test")
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, p.Title.Text, "test")

	test.DemandSuccess(t, rec.Save(fn, "test"))
	fi, err := os.Stat(fn)
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, fi.Size() > 0)
}
