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

package disk

// State of the disk DMA state machine.
type State int

// List of valid State values.
const (
	StateOff State = iota
	StateWait
	StateRead
	StateWrite
	StateFlush
)

func (s State) String() string {
	switch s {
	case StateOff:
		return "OFF"
	case StateWait:
		return "WAIT"
	case StateRead:
		return "READ"
	case StateWrite:
		return "WRITE"
	case StateFlush:
		return "FLUSH"
	}
	return "???"
}
