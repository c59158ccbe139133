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

// Package clocks defines the master clock of the emulated machine and the
// fixed ratios between the master clock and the clocks of the individual
// chips.
//
// All time in the emulation is measured in master clock cycles. The DMA
// controller runs at one eighth of the master clock, the CPU at one quarter
// and the CIA chips at one fortieth.
package clocks

import "math"

// Cycle is a point in time or a duration measured in master clock cycles.
type Cycle = int64

// NEVER is the trigger cycle of an inactive event. It is later than any
// cycle that can be reached in a real run.
const NEVER Cycle = math.MaxInt64

// MasterFrequency is the frequency of the master clock (PAL).
const MasterFrequency = 28375160

// Frame geometry in DMA cycles and lines.
const (
	// number of DMA cycles in a line
	HPOSCount = 227

	// the last DMA cycle in a line
	HPOSMax = HPOSCount - 1

	// number of lines in a (long) PAL frame
	VPOSCount = 313

	// the last line in a frame
	VPOSMax = VPOSCount - 1
)

// DMACycles converts DMA cycles to master clock cycles.
func DMACycles(n int64) Cycle {
	return n * 8
}

// CPUCycles converts CPU cycles to master clock cycles.
func CPUCycles(n int64) Cycle {
	return n * 4
}

// CIACycles converts CIA cycles to master clock cycles.
func CIACycles(n int64) Cycle {
	return n * 40
}

// AsDMACycles converts master clock cycles to DMA cycles. Fractions of a DMA
// cycle are discarded.
func AsDMACycles(c Cycle) int64 {
	return c / 8
}

// AsCPUCycles converts master clock cycles to CPU cycles.
func AsCPUCycles(c Cycle) int64 {
	return c / 4
}

// USec converts microseconds to master clock cycles. The ratio is rounded to
// a whole number of cycles per microsecond.
func USec(n int64) Cycle {
	return n * 28
}

// MSec converts milliseconds to master clock cycles.
func MSec(n int64) Cycle {
	return n * 28000
}

// Sec converts seconds to master clock cycles. Fractional values are allowed.
func Sec(n float64) Cycle {
	return Cycle(n * 28000000)
}

// DMACyclesPerFrame is the duration of a frame in DMA cycles.
const DMACyclesPerFrame = HPOSCount * VPOSCount
