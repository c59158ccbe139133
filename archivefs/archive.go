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
	"archive/zip"
	"errors"
	"io"
	"path"
	"strings"

	"github.com/bodgit/sevenzip"
)

// archiveFile is a single entry in an archive. names always use forward
// slashes regardless of host OS.
type archiveFile struct {
	name  string
	isDir bool
	open  func() (io.ReadCloser, error)
}

// archive is the common view of the supported archive formats.
type archive struct {
	closer io.Closer
	files  []archiveFile
}

// openArchive tries each supported archive format in turn. returns errNotArchive
// if the file is not a recognised archive.
func openArchive(filename string) (*archive, error) {
	zr, err := zip.OpenReader(filename)
	if err == nil {
		arc := &archive{closer: zr}
		for _, f := range zr.File {
			f := f
			arc.files = append(arc.files, archiveFile{
				name:  cleanArchiveName(f.Name),
				isDir: f.FileInfo().IsDir(),
				open:  f.Open,
			})
		}
		return arc, nil
	}
	if !errors.Is(err, zip.ErrFormat) {
		return nil, err
	}

	sz, err := sevenzip.OpenReader(filename)
	if err == nil {
		arc := &archive{closer: sz}
		for _, f := range sz.File {
			f := f
			arc.files = append(arc.files, archiveFile{
				name:  cleanArchiveName(f.Name),
				isDir: f.FileInfo().IsDir(),
				open:  f.Open,
			})
		}
		return arc, nil
	}

	return nil, errNotArchive
}

var errNotArchive = errors.New("not an archive")

func cleanArchiveName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Clean(name)
	return strings.TrimPrefix(name, "/")
}

func (arc *archive) Close() error {
	return arc.closer.Close()
}

// lookup returns the file with the exact name and whether the name is a
// directory. directories need not have an entry of their own in the archive
func (arc *archive) lookup(name string) (*archiveFile, bool, bool) {
	prefix := name + "/"
	isDir := false
	for i := range arc.files {
		f := &arc.files[i]
		if f.name == name {
			return f, f.isDir, true
		}
		if strings.HasPrefix(f.name, prefix) {
			isDir = true
		}
	}
	return nil, isDir, isDir
}

// entries in the directory. an empty dir is the root of the archive
func (arc *archive) entries(dir string) []Node {
	var ent []Node
	seen := make(map[string]bool)

	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	for _, f := range arc.files {
		if !strings.HasPrefix(f.name, prefix) || f.name == dir {
			continue
		}

		rest := strings.TrimPrefix(f.name, prefix)
		name, _, nested := strings.Cut(rest, "/")
		if seen[name] {
			continue
		}
		seen[name] = true

		ent = append(ent, Node{
			Name:  name,
			IsDir: nested || f.isDir,
		})
	}

	return ent
}
