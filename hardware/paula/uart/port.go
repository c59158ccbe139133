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

package uart

// Port is the serial port connected to the UART.
type Port interface {
	// set the level of the transmit line
	SetTXD(value bool)

	// level of the receive line
	RXD() bool
}

// LineChange is called when the level of the receive line changes.
type LineChange func(value bool)

// Line is a serial port with nothing connected. The receive line is held
// high unless it is driven with Drive(). If loopback is set the transmit line
// is connected to the receive line.
type Line struct {
	txd      bool
	rxd      bool
	loopback bool
	onChange LineChange
}

// NewLine is the preferred method of initialisation for the Line type.
func NewLine(loopback bool) *Line {
	return &Line{
		txd:      true,
		rxd:      true,
		loopback: loopback,
	}
}

// SetOnChange sets the function called when the receive line changes.
func (l *Line) SetOnChange(f LineChange) {
	l.onChange = f
}

// SetTXD implements the Port interface.
func (l *Line) SetTXD(value bool) {
	l.txd = value
	if l.loopback {
		l.Drive(value)
	}
}

// TXD returns the level of the transmit line.
func (l *Line) TXD() bool {
	return l.txd
}

// RXD implements the Port interface.
func (l *Line) RXD() bool {
	return l.rxd
}

// Drive the receive line.
func (l *Line) Drive(value bool) {
	if l.rxd == value {
		return
	}
	l.rxd = value
	if l.onChange != nil {
		l.onChange(value)
	}
}
