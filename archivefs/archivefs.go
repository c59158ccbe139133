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

// Package archivefs gives access to files that may be inside an archive. Zip
// and 7z archives are treated as directories, so a path such as
// "disks/collection.zip/game.raw" is valid. A file with the gzip extension is
// decompressed by LoadFile().
package archivefs

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// Open and return an io.ReadSeeker for the specified filename. Filename can be
// inside an archive supported by archivefs.
//
// Returns the io.ReadSeeker, the size of the data behind the ReadSeeker and any
// errors.
func Open(filename string) (io.ReadSeeker, int, error) {
	var afs Path
	err := afs.Set(filename)
	if err != nil {
		return nil, 0, err
	}
	defer afs.Close()
	return afs.Open()
}

// LoadFile returns the contents of the file, which can be inside an archive.
// Files with the gzip extension are decompressed.
func LoadFile(filename string) ([]byte, error) {
	r, _, err := Open(filename)
	if err != nil {
		return nil, err
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("archivefs: load: %w", err)
	}

	if strings.ToUpper(filepath.Ext(filename)) != CompressedExtension {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("archivefs: load: %w", err)
	}
	defer zr.Close()

	data, err = io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("archivefs: load: %w", err)
	}

	return data, nil
}
