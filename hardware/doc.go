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

// Package hardware is the base package for the Amiga emulation. It and its
// sub-packages contain everything required for a headless emulation.
//
// The Amiga type is the composition root. It creates chip RAM, Agnus and
// the scheduler owned by Agnus, Paula and the components it contains, the
// keyboard, the floppy drives and the custom register table, and connects
// them together.
//
// The CPU, the two CIA chips, the Copper, the Blitter and Denise are not
// emulated by this package. They are represented by interfaces and can be
// supplied with the Collaborators type. Any collaborator that is not
// supplied is replaced by an idle implementation that accepts everything and
// does nothing of consequence. The idle CIA-A does acknowledge the keyboard
// so that the keyboard protocol can complete without a CPU.
package hardware
