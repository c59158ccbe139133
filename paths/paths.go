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

// Package paths contains functions to prepare paths for resources used by the
// emulator, for example the preferences file.
//
// Resources are found in the ".gopher500" directory of the current working
// directory if it exists. Otherwise the "gopher500" directory in the user's
// configuration directory is used.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// the base path for all resources. use getBasePath() rather than this value
// directly.
const baseResourcePath = ".gopher500"

// ResourcePath returns the resource path for the list of path components.
// The existence of the resource is not checked.
func ResourcePath(resource ...string) string {
	p := make([]string, 0, len(resource)+1)
	p = append(p, getBasePath())
	p = append(p, resource...)
	return filepath.Join(p...)
}

// ResourceDir is like ResourcePath except that the directory is created if it
// doesn't already exist.
func ResourceDir(resource ...string) (string, error) {
	p := ResourcePath(resource...)
	if err := os.MkdirAll(p, 0o700); err != nil {
		return "", fmt.Errorf("paths: %w", err)
	}
	return p, nil
}

func getBasePath() string {
	if _, err := os.Stat(baseResourcePath); err == nil {
		return baseResourcePath
	}

	cfg, err := os.UserConfigDir()
	if err != nil {
		return baseResourcePath
	}
	return filepath.Join(cfg, baseResourcePath[1:])
}

// UniqueFilename creates a filename that should not collide with any existing
// file, assuming a working clock. The format of the filename is:
//
//	prepend_name_YYYYMMDD_HHMMSS
//
// If name is empty the format is:
//
//	prepend_YYYYMMDD_HHMMSS
func UniqueFilename(prepend string, name string) string {
	n := time.Now()
	timestamp := fmt.Sprintf("%04d%02d%02d_%02d%02d%02d", n.Year(), n.Month(), n.Day(), n.Hour(), n.Minute(), n.Second())

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Sprintf("%s_%s", prepend, timestamp)
	}
	return fmt.Sprintf("%s_%s_%s", prepend, name, timestamp)
}
