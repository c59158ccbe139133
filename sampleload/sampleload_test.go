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

package sampleload_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/gopher500/gopher500/hardware"
	"github.com/gopher500/gopher500/hardware/memory"
	"github.com/gopher500/gopher500/hardware/preferences"
	"github.com/gopher500/gopher500/sampleload"
	"github.com/gopher500/gopher500/test"
)

// writeWAV creates a 16-bit stereo WAV file. the right channel is the
// negation of the left channel
func writeWAV(t *testing.T, fn string, rate int, left []int) {
	t.Helper()

	f, err := os.Create(fn)
	test.DemandSuccess(t, err)
	defer f.Close()

	data := make([]int, 0, len(left)*2)
	for _, v := range left {
		data = append(data, v, -v)
	}

	enc := wav.NewEncoder(f, rate, 16, 2, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 2, SampleRate: rate},
		Data:           data,
		SourceBitDepth: 16,
	}
	test.DemandSuccess(t, enc.Write(buf))
	test.DemandSuccess(t, enc.Close())
}

func TestLoadWAV(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sample.wav")
	writeWAV(t, fn, 22050, []int{0, 16384, -16384, 32767, -32768})

	s, err := sampleload.Load(fn)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, s.SampleRate, 22050.0)

	// padded to a whole number of words
	test.DemandEquality(t, len(s.Data), 6)
	test.ExpectEquality(t, s.Length(), uint16(3))
	test.ExpectEquality(t, s.Data[0], int8(0))
	test.ExpectEquality(t, s.Data[1], int8(64))
	test.ExpectEquality(t, s.Data[2], int8(-64))
	test.ExpectEquality(t, s.Data[3], int8(127))
	test.ExpectEquality(t, s.Data[4], int8(-127))
	test.ExpectEquality(t, s.Data[5], int8(0))

	// 3546895 / 22050
	test.ExpectEquality(t, s.Period(), uint16(161))

	ram := memory.NewChipRAM()
	test.DemandSuccess(t, s.Install(ram, 0x1001))
	test.ExpectEquality(t, ram.Peek16(0x1000), uint16(0x0040))
	test.ExpectEquality(t, ram.Peek16(0x1002), uint16(0xc07f))

	test.ExpectFailure(t, s.Install(ram, memory.ChipRAMSize-2))
}

func TestUnsupported(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sample.raw")
	test.DemandSuccess(t, os.WriteFile(fn, []byte{1, 2, 3, 4}, 0o644))

	_, err := sampleload.Load(fn)
	test.ExpectFailure(t, err)

	// not a wav file despite the extension
	fn = filepath.Join(t.TempDir(), "sample.wav")
	test.DemandSuccess(t, os.WriteFile(fn, []byte("not a wav file"), 0o644))
	_, err = sampleload.Load(fn)
	test.ExpectFailure(t, err)

	_, err = sampleload.Load(filepath.Join(t.TempDir(), "missing.wav"))
	test.ExpectFailure(t, err)
}

func TestStart(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "sample.wav")
	writeWAV(t, fn, 11025, []int{0, 8192, 16384, 8192, 0, -8192, -16384, -8192})

	s, err := sampleload.Load(fn)
	test.DemandSuccess(t, err)

	p, err := preferences.NewPreferencesFromFile(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)
	a, err := hardware.NewAmiga(p)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, s.Install(a.RAM, 0x4000))
	test.ExpectFailure(t, s.Start(a.Registers, 4, 0x4000, 64))
	test.DemandSuccess(t, s.Start(a.Registers, 2, 0x4000, 100))

	a.RunFrames(1)
	a.Inspect()
	info := a.Info()

	ch := info.Paula.Audio[2]
	test.ExpectSuccess(t, ch.DMA)
	test.ExpectEquality(t, ch.AudlenLatch, s.Length())
	test.ExpectEquality(t, ch.AudperLatch, s.Period())
	test.ExpectEquality(t, ch.AudvolLatch, uint16(sampleload.MaxVolume))
	test.ExpectEquality(t, info.Agnus.AUDLC[2], uint32(0x4000))
	test.ExpectSuccess(t, info.Paula.Blocks[2] > 0)
}
