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

// Package test contains helper functions for the project's unit tests.
//
// The Expect*() functions report a failed expectation with t.Errorf() and
// allow the test to continue. The Demand*() functions use t.Fatalf() and stop
// the test immediately. All functions accept an optional list of tags which are
// prepended to the failure message, useful when a test runs inside a loop.
//
// The writer types are io.Writer implementations that make it easy to check
// the output of functions that write text.
package test
