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

package paths_test

import (
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/gopher500/gopher500/paths"
	"github.com/gopher500/gopher500/test"
)

func TestResourcePath(t *testing.T) {
	pth := paths.ResourcePath("foo", "bar")
	test.ExpectSuccess(t, strings.HasSuffix(pth, filepath.Join("foo", "bar")))
	test.ExpectSuccess(t, strings.Contains(pth, "gopher500"))

	pth = paths.ResourcePath("", "baz")
	test.ExpectSuccess(t, strings.HasSuffix(pth, "gopher500"+string(filepath.Separator)+"baz"))
}

func TestUniqueFilename(t *testing.T) {
	re := regexp.MustCompile(`^wav_df0_\d{8}_\d{6}$`)
	test.ExpectSuccess(t, re.MatchString(paths.UniqueFilename("wav", "df0")))

	re = regexp.MustCompile(`^wav_\d{8}_\d{6}$`)
	test.ExpectSuccess(t, re.MatchString(paths.UniqueFilename("wav", "  ")))
}
