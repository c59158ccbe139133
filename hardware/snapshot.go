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
	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/logger"
)

// SnapshotVersion identifies the layout of data produced by Save().
const SnapshotVersion = savestate.Version

// Sentinal errors.
const (
	LoadError     = "amiga: cannot load snapshot: %v"
	TrailingBytes = "%d unread bytes"
)

// Save the complete state of the emulation. Collaborators are not part of
// the saved state.
func (a *Amiga) Save() ([]byte, error) {
	s := savestate.NewState()
	a.save(s)
	if err := s.Err(); err != nil {
		return nil, err
	}
	return s.Bytes(), nil
}

func (a *Amiga) save(s *savestate.State) {
	a.RAM.Save(s)
	a.Sched.Save(s)
	a.Agnus.Save(s)
	a.Paula.Save(s)
	a.Keyboard.Save(s)
}

// Load state previously created by Save(). If the data cannot be loaded the
// emulation is left as it was.
func (a *Amiga) Load(data []byte) error {
	s, err := savestate.FromBytes(data)
	if err != nil {
		return curated.Errorf(LoadError, err)
	}

	// state to restore if the load fails part way through
	restore := savestate.NewState()
	a.save(restore)

	a.load(s)

	err = s.Err()
	if err == nil && s.Remaining() > 0 {
		err = curated.Errorf(TrailingBytes, s.Remaining())
	}

	if err != nil {
		r, rerr := savestate.FromBytes(restore.Bytes())
		if rerr != nil {
			panic(rerr)
		}
		a.load(r)
		logger.Logf(logger.Allow, "amiga", "load failed. state restored")
		return curated.Errorf(LoadError, err)
	}

	a.Inspect()

	return nil
}

func (a *Amiga) load(s *savestate.State) {
	a.RAM.Load(s)
	a.Sched.Load(s)
	a.Agnus.Load(s)
	a.Paula.Load(s)
	a.Keyboard.Load(s)
}

// State is a snapshot of the emulation. It is produced by the Snapshot()
// function and can be restored with the Plumb() function.
type State struct {
	Frame int64
	Clock clocks.Cycle
	data  []byte
}

// Size returns the number of bytes in the snapshot.
func (st *State) Size() int {
	return len(st.data)
}

// Snapshot the state of the emulation.
func (a *Amiga) Snapshot() (*State, error) {
	data, err := a.Save()
	if err != nil {
		return nil, err
	}
	return &State{
		Frame: a.Agnus.Frame(),
		Clock: a.Agnus.Now(),
		data:  data,
	}, nil
}

// Plumb a previously snapshotted state into the emulation. The same State
// can be plumbed more than once.
func (a *Amiga) Plumb(st *State) error {
	if st == nil {
		panic("amiga: cannot plumb in a nil state")
	}
	return a.Load(st.data)
}
