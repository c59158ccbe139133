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

package hardware

import (
	"github.com/gopher500/gopher500/hardware/paula/audio"
)

// AudioMixer receives the output of the audio muxer. SetAudio() is called
// once per frame with every stereo frame produced since the previous call.
type AudioMixer interface {
	SetAudio(frames []audio.Frame) error
	EndMixing() error
}

// AddAudioMixer adds a mixer to receive audio output. The muxer output is
// only read when at least one mixer has been added.
func (a *Amiga) AddAudioMixer(m AudioMixer) {
	if len(a.mixers) == 0 {
		a.mixBuffer = make([]audio.Frame, 4096)
		a.Agnus.AddFrameObserver(a.mixAudio)
	}
	a.mixers = append(a.mixers, m)
}

func (a *Amiga) mixAudio(_ int64) {
	for {
		n := a.Paula.Muxer.Read(a.mixBuffer)
		if n == 0 {
			return
		}
		for _, m := range a.mixers {
			if err := m.SetAudio(a.mixBuffer[:n]); err != nil && a.mixErr == nil {
				a.mixErr = err
			}
		}
	}
}

// EndMixing flushes any remaining audio to the mixers and tells them that
// there is no more audio to come. The first error from any mixer, including
// errors returned by SetAudio() while the emulation was running, is returned.
func (a *Amiga) EndMixing() error {
	a.mixAudio(0)

	err := a.mixErr
	for _, m := range a.mixers {
		if e := m.EndMixing(); e != nil && err == nil {
			err = e
		}
	}
	a.mixErr = nil

	return err
}
