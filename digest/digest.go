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

// Package digest contains implementations of emulation observers such that a
// hash is produced. The hash can then be used to compare output from
// subsequent emulation executions - if a new hash differs from a previously
// recorded value then something has changed. We use this as the basis for
// determinism tests.
//
// Hashes are chained. The previous digest value is included at the start of
// the data of the next digest, so a difference at any point is carried to the
// end of the run.
//
// Note that the use of xxhash is fine for this application because this is
// not a cryptographic task.
package digest

import (
	"encoding/binary"
	"fmt"
)

// Digest implementations should return a hash in response to a Hash()
// request. Generation of the hash achieved via another interface.
type Digest interface {
	Hash() string
	ResetDigest()
}

// length of the chained digest value at the head of every buffer
const digestLength = 8

func chain(buffer []byte, digest uint64) {
	binary.BigEndian.PutUint64(buffer[:digestLength], digest)
}

func format(digest uint64) string {
	return fmt.Sprintf("%016x", digest)
}
