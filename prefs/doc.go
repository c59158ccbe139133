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

// Package prefs implements typed preference values that can be saved to and
// loaded from disk.
//
// The Bool, Int, Float and String types hold a single live value that can be
// read from any goroutine. Pre-hooks are called before a new value is stored
// and can reject it by returning an error. Post-hooks are called after the
// value has been stored, which makes them suitable for copying the value into
// the emulation. The Generic type is for values that live elsewhere and are
// reached through set and get functions.
//
// Values are associated with a key and a Disk. A Disk writes every value as a
// "key :: value" line under a warning boilerplate. Entries in the file that
// are not part of the Disk are preserved when the Disk is saved, so more than
// one Disk can share a file.
//
// The command line stack allows preference values to be specified for the
// duration of a single run. A group is pushed with PushCommandLineStack() in
// the form "key::value; key::value" and the values are applied the next time
// a Disk containing the key is loaded.
package prefs
