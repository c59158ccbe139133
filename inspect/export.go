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

package inspect

import (
	"io"

	"github.com/bradleyjkemp/memviz"
	"github.com/gopher500/gopher500/curated"
	"github.com/gopher500/gopher500/hardware"
	"gopkg.in/yaml.v3"
)

// Sentinal errors.
const (
	ExportError = "inspect: export: %v"
	ImportError = "inspect: import: %v"
)

// WriteYAML writes the report form of the inspection snapshot.
func WriteYAML(w io.Writer, info hardware.Info) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewReport(info)); err != nil {
		return curated.Errorf(ExportError, err)
	}
	if err := enc.Close(); err != nil {
		return curated.Errorf(ExportError, err)
	}
	return nil
}

// ReadYAML reads a report previously written with WriteYAML.
func ReadYAML(r io.Reader) (Report, error) {
	var rep Report
	if err := yaml.NewDecoder(r).Decode(&rep); err != nil {
		return Report{}, curated.Errorf(ImportError, err)
	}
	return rep, nil
}

// WriteGraph writes the complete inspection snapshot as a graphviz document.
func WriteGraph(w io.Writer, info hardware.Info) {
	memviz.Map(w, &info)
}
