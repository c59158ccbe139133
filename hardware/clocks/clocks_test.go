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

package clocks_test

import (
	"testing"

	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/test"
)

func TestConversions(t *testing.T) {
	test.ExpectEquality(t, clocks.DMACycles(1), 8)
	test.ExpectEquality(t, clocks.CPUCycles(2), 8)
	test.ExpectEquality(t, clocks.CIACycles(1), 40)
	test.ExpectEquality(t, clocks.AsDMACycles(clocks.DMACycles(123)), 123)
	test.ExpectEquality(t, clocks.AsDMACycles(15), 1)
	test.ExpectEquality(t, clocks.USec(1), 28)
	test.ExpectEquality(t, clocks.MSec(1), clocks.USec(1000))
	test.ExpectEquality(t, clocks.Sec(1.5), clocks.MSec(1500))
	test.ExpectEquality(t, clocks.HPOSMax, 0xe2)
}
