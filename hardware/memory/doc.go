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

// Package memory implements chip RAM and the custom register table.
//
// Chip RAM is accessed by both the CPU and by DMA. Addresses wrap at the end
// of chip RAM and word accesses ignore the lowest address bit.
//
// The register table maps the custom register area starting at CustomBase
// to peek and poke functions supplied by the chips that implement the
// registers. The table is filled by the composition root when the emulation
// is created and is not changed afterwards. This keeps the mapping of
// addresses to chips in one place where it can be audited with Registers().
package memory
