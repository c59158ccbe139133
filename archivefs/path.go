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

package archivefs

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
)

// Node represents a single part of a full path.
type Node struct {
	Name string

	// a directory has the the field of IsDir set to true
	IsDir bool

	// a recognised archive file has IsArchive set to true. note that an
	// archive file is also considered to be directory
	IsArchive bool
}

// Sort nodes with directories first. Names are compared without regard to
// case.
func Sort(nodes []Node) {
	slices.SortStableFunc(nodes, func(a, b Node) int {
		switch {
		case a.IsDir && !b.IsDir:
			return -1
		case !a.IsDir && b.IsDir:
			return 1
		}
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
}

func (e Node) String() string {
	return e.Name
}

// Path represents a single destination in the file system.
type Path struct {
	current string
	isDir   bool

	arc *archive

	// if the path is inside an archive, we split the in-archive path into
	// the path to a file and the file itself
	inArchivePath string
	inArchiveFile string
}

// String returns the current path.
func (afs Path) String() string {
	return afs.current
}

// Base returns the last element of the current path.
func (afs Path) Base() string {
	return filepath.Base(afs.current)
}

// Dir returns all but the last element of path.
func (afs Path) Dir() string {
	if afs.isDir {
		return afs.current
	}
	return filepath.Dir(afs.current)
}

// IsDir returns true if Path is currently set to a directory. For the
// purposes of archivefs, the root of an archive is treated as a directory.
func (afs Path) IsDir() bool {
	return afs.isDir
}

// InArchive returns true if path is currently inside an archive.
func (afs Path) InArchive() bool {
	return afs.arc != nil
}

// Open and return an io.ReadSeeker for the filename previously set by the
// Set() function.
//
// Returns the io.ReadSeeker, the size of the data behind the ReadSeeker and
// any errors.
func (afs Path) Open() (io.ReadSeeker, int, error) {
	if afs.isDir {
		return nil, 0, fmt.Errorf("archivefs: open: %s is a directory", afs.current)
	}

	if afs.arc != nil {
		f, _, ok := afs.arc.lookup(path.Join(afs.inArchivePath, afs.inArchiveFile))
		if !ok || f == nil {
			return nil, 0, fmt.Errorf("archivefs: open: %s not in archive", afs.inArchiveFile)
		}

		r, err := f.open()
		if err != nil {
			return nil, 0, fmt.Errorf("archivefs: open: %w", err)
		}
		defer r.Close()

		b, err := io.ReadAll(r)
		if err != nil {
			return nil, 0, fmt.Errorf("archivefs: open: %w", err)
		}

		return bytes.NewReader(b), len(b), nil
	}

	f, err := os.Open(afs.current)
	if err != nil {
		return nil, 0, err
	}

	info, err := f.Stat()
	if err != nil {
		return nil, 0, err
	}

	return f, int(info.Size()), nil
}

// Close any open archive files and reset path.
func (afs *Path) Close() {
	afs.current = ""
	afs.isDir = false
	afs.inArchivePath = ""
	afs.inArchiveFile = ""
	if afs.arc != nil {
		_ = afs.arc.Close()
		afs.arc = nil
	}
}

// List returns the child entries for the current path location. If the
// current path is a file then the list will be the contents of the containing
// directory of that file.
func (afs *Path) List() ([]Node, error) {
	var ent []Node

	if afs.arc != nil {
		ent = afs.arc.entries(afs.inArchivePath)
	} else {
		pth := afs.current
		if !afs.isDir {
			pth = filepath.Dir(pth)
		}

		dir, err := os.ReadDir(pth)
		if err != nil {
			return []Node{}, fmt.Errorf("archivefs: entries: %w", err)
		}

		for _, d := range dir {
			// using os.Stat() to get file information otherwise links to
			// directories do not have the IsDir() property
			p := filepath.Join(pth, d.Name())
			fi, err := os.Stat(p)
			if err != nil {
				continue
			}

			if fi.IsDir() {
				ent = append(ent, Node{
					Name:  d.Name(),
					IsDir: true,
				})
				continue
			}

			if arc, err := openArchive(p); err == nil {
				_ = arc.Close()
				ent = append(ent, Node{
					Name:      d.Name(),
					IsDir:     true,
					IsArchive: true,
				})
			} else {
				ent = append(ent, Node{
					Name: d.Name(),
				})
			}
		}
	}

	Sort(ent)

	return ent, nil
}

// Set the path. A path can continue through an archive file, in which case
// the remaining elements are looked up inside the archive.
func (afs *Path) Set(pth string) error {
	afs.Close()

	// clean path and split into parts
	pth = filepath.Clean(pth)
	lst := strings.Split(pth, string(filepath.Separator))

	// strings.Split will remove a leading filepath.Separator. we need to add
	// one back so that filepath.Join() works as expected
	if lst[0] == "" {
		lst[0] = string(filepath.Separator)
	}

	// reuse path string
	pth = ""

	for _, l := range lst {
		pth = filepath.Join(pth, l)

		if afs.arc != nil {
			if afs.inArchiveFile != "" {
				afs.Close()
				return fmt.Errorf("archivefs: set: %s is not a directory", pth)
			}

			p := path.Join(afs.inArchivePath, l)
			_, isDir, ok := afs.arc.lookup(p)
			if !ok {
				afs.Close()
				return fmt.Errorf("archivefs: set: %s not in archive", l)
			}

			afs.isDir = isDir
			if afs.isDir {
				afs.inArchivePath = p
				afs.inArchiveFile = ""
			} else {
				afs.inArchiveFile = l
			}

			continue
		}

		fi, err := os.Stat(pth)
		if err != nil {
			afs.Close()
			return fmt.Errorf("archivefs: set: %v", err)
		}

		afs.isDir = fi.IsDir()
		if afs.isDir {
			continue
		}

		afs.arc, err = openArchive(pth)
		if err == nil {
			// the root of an archive file is considered to be a directory
			afs.isDir = true
			continue
		}
		afs.arc = nil

		if err != errNotArchive {
			afs.Close()
			return fmt.Errorf("archivefs: set: %v", err)
		}
	}

	// make sure path is clean
	afs.current = filepath.Clean(pth)

	return nil
}
