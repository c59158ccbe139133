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

package digest_test

import (
	"path/filepath"
	"testing"

	"github.com/gopher500/gopher500/digest"
	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/paula/audio"
	"github.com/gopher500/gopher500/hardware/preferences"
	"github.com/gopher500/gopher500/test"
)

// run the emulation with audio DMA on channel 0 and return the digests
func run(t *testing.T, period uint16) (string, string) {
	t.Helper()

	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)

	a, err := hardware.NewAmiga(p)
	test.DemandSuccess(t, err)

	mach := digest.NewMachine(a)
	aud := digest.NewAudio()
	a.AddAudioMixer(aud)

	a.RAM.Poke16(0x2000, 0x7f80)
	a.RAM.Poke16(0x2002, 0x4020)
	poke := func(offset uint32, value uint16) {
		a.Registers.PokeCustom16(memory.CustomBase+offset, value)
	}
	poke(0x0a0, 0x0000)
	poke(0x0a2, 0x2000)
	poke(0x0a4, 2)
	poke(0x0a6, period)
	poke(0x0a8, 64)
	poke(0x096, 0x8201)

	a.RunFrames(5)
	test.DemandSuccess(t, a.EndMixing())
	// the frame that starts at reset has no vertical blank sequence so
	// five frames of emulation notify the observer four times
	test.ExpectEquality(t, mach.Frames(), 4)

	return mach.Hash(), aud.Hash()
}

func TestDeterminism(t *testing.T) {
	m1, a1 := run(t, 200)
	m2, a2 := run(t, 200)
	test.ExpectEquality(t, m1, m2)
	test.ExpectEquality(t, a1, a2)

	// a different period changes both the audio and the slot table
	m3, a3 := run(t, 300)
	test.ExpectInequality(t, m1, m3)
	test.ExpectInequality(t, a1, a3)
}

func TestAudioDigest(t *testing.T) {
	dig := digest.NewAudio()
	empty := dig.Hash()

	// nothing to flush
	test.ExpectSuccess(t, dig.EndMixing())
	test.ExpectEquality(t, dig.Hash(), empty)

	test.ExpectSuccess(t, dig.SetAudio([]audio.Frame{{Left: 0.5, Right: -0.5}}))
	test.ExpectSuccess(t, dig.EndMixing())
	first := dig.Hash()
	test.ExpectInequality(t, first, empty)

	// the same data again produces a different hash because hashes are
	// chained
	test.ExpectSuccess(t, dig.SetAudio([]audio.Frame{{Left: 0.5, Right: -0.5}}))
	test.ExpectSuccess(t, dig.EndMixing())
	test.ExpectInequality(t, dig.Hash(), first)

	dig.ResetDigest()
	test.ExpectEquality(t, dig.Hash(), empty)

	// more frames than fit in the buffer
	frames := make([]audio.Frame, 5000)
	for i := range frames {
		frames[i].Left = float32(i) / 5000
	}
	test.ExpectSuccess(t, dig.SetAudio(frames))
	test.ExpectInequality(t, dig.Hash(), empty)
}

func TestInterface(t *testing.T) {
	var _ digest.Digest = digest.NewAudio()
	var _ digest.Digest = &digest.Machine{}
	var _ hardware.AudioMixer = digest.NewAudio()
}
