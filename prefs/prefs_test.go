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

package prefs_test

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/prefs"
	"github.com/gopher500/gopher500/test"
)

func tmpPrefsFile(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "gopher500_prefs_test")
}

func cmpPrefsFile(t *testing.T, fn string, expected string) {
	t.Helper()
	data, err := os.ReadFile(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(data), fmt.Sprintf("%s\n%s", prefs.WarningBoilerPlate, expected))
}

func TestBool(t *testing.T) {
	fn := tmpPrefsFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v, w, x prefs.Bool
	test.ExpectSuccess(t, dsk.Add("test", &v))
	test.ExpectSuccess(t, dsk.Add("testB", &w))
	test.ExpectSuccess(t, dsk.Add("testC", &x))
	test.ExpectFailure(t, dsk.Add("test", &x))

	test.ExpectSuccess(t, v.Set(true))
	test.ExpectSuccess(t, w.Set("foo"))
	test.ExpectSuccess(t, x.Set("TRUE"))
	test.ExpectFailure(t, x.Set(10))

	test.DemandSuccess(t, dsk.Save())
	cmpPrefsFile(t, fn, "test :: true\ntestB :: false\ntestC :: true\n")
}

func TestInt(t *testing.T) {
	fn := tmpPrefsFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v, w prefs.Int
	test.ExpectSuccess(t, dsk.Add("number", &v))
	test.ExpectSuccess(t, dsk.Add("numberB", &w))

	test.ExpectSuccess(t, v.Set(10))
	test.ExpectSuccess(t, w.Set("-99"))
	test.ExpectFailure(t, w.Set("foo"))
	test.ExpectEquality(t, w.Get().(int), -99)

	test.DemandSuccess(t, dsk.Save())
	cmpPrefsFile(t, fn, "number :: 10\nnumberB :: -99\n")
}

func TestFloatAndString(t *testing.T) {
	var f prefs.Float
	test.ExpectSuccess(t, f.Set("0.5"))
	test.ExpectEquality(t, f.String(), "0.500")
	test.ExpectSuccess(t, f.Set(2))
	test.ExpectEquality(t, f.Get().(float64), 2.0)

	var s prefs.String
	test.ExpectSuccess(t, s.Set("hello world"))
	s.SetMaxLen(5)
	test.ExpectEquality(t, s.String(), "hello")
	test.ExpectSuccess(t, s.Set("abcdefgh"))
	test.ExpectEquality(t, s.String(), "abcde")
}

func TestHooks(t *testing.T) {
	var v prefs.Int
	var post int

	v.SetHookPre(func(value prefs.Value) error {
		if value.(int) < 0 {
			return curated.Errorf("negative value")
		}
		return nil
	})
	v.SetHookPost(func(value prefs.Value) error {
		post = value.(int)
		return nil
	})

	test.ExpectSuccess(t, v.Set(5))
	test.ExpectEquality(t, post, 5)

	test.ExpectFailure(t, v.Set(-1))
	test.ExpectEquality(t, v.Get().(int), 5)
	test.ExpectEquality(t, post, 5)
}

func TestGeneric(t *testing.T) {
	var a, b int
	g := prefs.NewGeneric(
		func(v prefs.Value) error {
			_, err := fmt.Sscanf(v.(string), "%d,%d", &a, &b)
			return err
		},
		func() prefs.Value {
			return fmt.Sprintf("%d,%d", a, b)
		},
	)

	test.ExpectSuccess(t, g.Set("10,20"))
	test.ExpectEquality(t, a, 10)
	test.ExpectEquality(t, b, 20)
	test.ExpectEquality(t, g.String(), "10,20")
}

func TestLoadAndMerge(t *testing.T) {
	fn := tmpPrefsFile(t)

	// first disk creates the file because it doesn't exist yet
	dskA, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	var a prefs.Int
	test.ExpectSuccess(t, dskA.Add("alpha", &a))
	test.ExpectSuccess(t, a.Set(1))
	test.DemandSuccess(t, dskA.Load(true))
	cmpPrefsFile(t, fn, "alpha :: 1\n")

	// second disk shares the file
	dskB, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)
	var b prefs.Bool
	test.ExpectSuccess(t, dskB.Add("beta", &b))
	test.ExpectSuccess(t, b.Set(true))
	test.DemandSuccess(t, dskB.Save())
	cmpPrefsFile(t, fn, "alpha :: 1\nbeta :: true\n")

	// reload first disk with a changed value
	test.ExpectSuccess(t, a.Set(99))
	test.DemandSuccess(t, dskA.Load(false))
	test.ExpectEquality(t, a.Get().(int), 1)
}

func TestNoPrefsFile(t *testing.T) {
	dsk, err := prefs.NewDisk(tmpPrefsFile(t))
	test.DemandSuccess(t, err)
	err = dsk.Load(false)
	test.ExpectSuccess(t, curated.Is(err, prefs.NoPrefsFile))
}

func TestCommandLineOverride(t *testing.T) {
	fn := tmpPrefsFile(t)
	dsk, err := prefs.NewDisk(fn)
	test.DemandSuccess(t, err)

	var v prefs.Int
	test.ExpectSuccess(t, dsk.Add("speed", &v))
	test.ExpectSuccess(t, v.Set(1))
	test.DemandSuccess(t, dsk.Save())

	prefs.PushCommandLineStack("speed::4; other::x")
	test.DemandSuccess(t, dsk.Load(false))
	test.ExpectEquality(t, v.Get().(int), 4)
	test.ExpectEquality(t, prefs.PopCommandLineStack(), "other::x")
}
