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

package logger_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/gopher500/gopher500/logger"
	"github.com/gopher500/gopher500/test"
)

func TestTail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "agnus", "first line")
	log.Log(logger.Allow, "paula", "second line")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "agnus: first line\npaula: second line\n")

	// more entries than there are is fine
	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "agnus: first line\npaula: second line\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "paula: second line\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeats(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	for range 3 {
		log.Log(logger.Allow, "audio", "sample buffer is full")
	}
	log.Log(logger.Allow, "disk", "fifo overflow")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "audio: sample buffer is full (repeat x3)\ndisk: fifo overflow\n")
	test.ExpectEquality(t, log.Len(), 2)
}

func TestBounded(t *testing.T) {
	log := logger.NewLogger(3)
	for i := range 10 {
		log.Logf(logger.Allow, "test", "%d", i)
	}
	test.ExpectEquality(t, log.Len(), 3)

	w := &strings.Builder{}
	log.Write(w)
	test.ExpectEquality(t, w.String(), "test: 7\ntest: 8\ntest: 9\n")
}

type stringer int

func (s stringer) String() string {
	return fmt.Sprintf("stringer %d", int(s))
}

func TestDetailTypes(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "a", errors.New("an error"))
	log.Log(logger.Allow, "b", stringer(5))
	log.Log(logger.Allow, "c", 10)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "a: an error\nb: stringer 5\nc: 10\n")
}

type toggle struct {
	allow bool
}

func (p toggle) AllowLogging() bool {
	return p.allow
}

func TestPermissions(t *testing.T) {
	log := logger.NewLogger(100)

	log.Log(logger.Deny, "test", "denied")
	log.Log(toggle{allow: false}, "test", "denied")
	test.ExpectEquality(t, log.Len(), 0)

	log.Log(toggle{allow: true}, "test", "allowed")
	test.ExpectEquality(t, log.Len(), 1)
}

func TestEcho(t *testing.T) {
	log := logger.NewLogger(10)
	var w test.CompareWriter
	log.SetEcho(&w)
	log.Log(logger.Allow, "echo", "hello")
	test.ExpectSuccess(t, w.Compare("echo: hello\n"))
	log.SetEcho(nil)
	log.Log(logger.Allow, "echo", "world")
	test.ExpectSuccess(t, w.Compare("echo: hello\n"))
}
