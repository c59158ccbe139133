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

package curated_test

import (
	"errors"
	"testing"

	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/test"
)

const testError = "test error: %s"
const wrapError = "wrapper: %v"

func TestDuplicateParts(t *testing.T) {
	e := curated.Errorf("error: %v", curated.Errorf("error: %s", "value"))
	test.ExpectEquality(t, e.Error(), "error: value")

	f := curated.Errorf("disk: %v", curated.Errorf("drive: %s", "no disk"))
	test.ExpectEquality(t, f.Error(), "disk: drive: no disk")
}

func TestIs(t *testing.T) {
	e := curated.Errorf(testError, "foo")
	test.ExpectSuccess(t, curated.IsAny(e))
	test.ExpectSuccess(t, curated.Is(e, testError))
	test.ExpectFailure(t, curated.Is(e, wrapError))

	f := curated.Errorf(wrapError, e)
	test.ExpectFailure(t, curated.Is(f, testError))
	test.ExpectSuccess(t, curated.Has(f, testError))
	test.ExpectSuccess(t, curated.Has(f, wrapError))

	plain := errors.New("plain")
	test.ExpectFailure(t, curated.IsAny(plain))
	test.ExpectFailure(t, curated.Has(plain, testError))
	test.ExpectFailure(t, curated.IsAny(nil))
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	e := curated.Errorf(wrapError, sentinel)
	test.ExpectSuccess(t, errors.Is(e, sentinel))
}
