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

// Package uart implements the serial port part of Paula. Data is shifted out
// one bit at a time by TXD_BIT events and shifted in by RXD_BIT events. The
// time between bits is given by the SERPER register.
package uart

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/hardware/savestate"
	"github.com/gopher500/gopher500/hardware/scheduler"
)

// Output is called with every value copied into the transmit shift register.
type Output func(value uint16)

// BreakLine reports the state of the UARTBRK bit of ADKCON.
type BreakLine interface {
	UARTBRK() bool
}

// UART is the serial port controller.
type UART struct {
	sched *scheduler.Scheduler
	irq   interrupts.Raiser
	brk   BreakLine
	port  Port

	output Output

	serper uint16

	receiveBuffer    uint16
	receiveShiftReg  uint16
	transmitBuffer   uint16
	transmitShiftReg uint16

	// current level of the transmit line
	outBit bool

	// number of bits received in the current packet
	recCnt int

	// overrun flag
	ovrun bool
}

// NewUART is the preferred method of initialisation for the UART type. The
// TXD and RXD slot handlers are registered with the scheduler.
func NewUART(sched *scheduler.Scheduler, irq interrupts.Raiser, brk BreakLine, port Port) *UART {
	u := &UART{
		sched: sched,
		irq:   irq,
		brk:   brk,
		port:  port,
	}
	sched.Register(scheduler.TXD, u.serviceTxdEvent)
	sched.Register(scheduler.RXD, u.serviceRxdEvent)
	u.Reset()
	return u
}

// SetOutput sets the function called with every transmitted value.
func (u *UART) SetOutput(f Output) {
	u.output = f
}

// Reset the UART.
func (u *UART) Reset() {
	u.serper = 0
	u.receiveBuffer = 0
	u.receiveShiftReg = 0
	u.transmitBuffer = 0
	u.transmitShiftReg = 0
	u.recCnt = 0
	u.ovrun = false
	u.outBit = true
	u.updateTXD()
}

// time between bits
func (u *UART) rate() clocks.Cycle {
	return clocks.DMACycles(int64(u.serper&0x7fff) + 1)
}

// number of data bits in a packet
func (u *UART) packetLength() int {
	if u.serper&0x8000 == 0x8000 {
		return 9
	}
	return 8
}

// PokeSERPER writes the period register.
func (u *UART) PokeSERPER(value uint16) {
	u.serper = value
}

// PokeSERDAT writes the transmit buffer. The value should include the stop
// bits. Transmission starts immediately if the shift register is empty.
func (u *UART) PokeSERDAT(value uint16) {
	u.transmitBuffer = value & 0x3ff
	if u.transmitShiftReg == 0 && u.transmitBuffer != 0 {
		u.copyToTransmitShiftRegister()
	}
}

// PeekSERDATR reads the receive buffer and the status bits.
func (u *UART) PeekSERDATR() uint16 {
	rbf := u.irq.IsRequested(interrupts.RBF)
	if !rbf {
		u.ovrun = false
	}

	v := u.receiveBuffer & 0x3ff
	if u.ovrun {
		v |= 0x8000
	}
	if rbf {
		v |= 0x4000
	}
	if u.transmitBuffer == 0 {
		v |= 0x2000
	}
	if u.transmitShiftReg == 0 {
		v |= 0x1000
	}
	if u.port.RXD() {
		v |= 0x0800
	}
	return v
}

func (u *UART) copyToTransmitShiftRegister() {
	if u.output != nil {
		u.output(u.transmitBuffer)
	}

	// shifting left adds the start bit
	u.transmitShiftReg = u.transmitBuffer << 1
	u.transmitBuffer = 0

	u.irq.RaiseIrq(interrupts.TBE)
	u.sched.ScheduleImm(scheduler.TXD, scheduler.TxdBit, 0)
}

func (u *UART) copyFromReceiveShiftRegister() {
	u.receiveBuffer = u.receiveShiftReg
	u.receiveShiftReg = 0
	u.ovrun = u.irq.IsRequested(interrupts.RBF)
	u.irq.RaiseIrq(interrupts.RBF)
}

func (u *UART) updateTXD() {
	brk := u.brk != nil && u.brk.UARTBRK()
	u.port.SetTXD(u.outBit && !brk)
}

// RXDChanged should be called when the level of the receive line changes. A
// falling edge is the start bit of a packet. The first sample is taken in the
// middle of the first data bit.
func (u *UART) RXDChanged(value bool) {
	if !value && !u.sched.HasEvent(scheduler.RXD) {
		u.recCnt = 0
		u.sched.ScheduleRel(scheduler.RXD, u.rate()*3/2, scheduler.RxdBit, 0)
	}
}

func (u *UART) serviceTxdEvent(_ scheduler.EventID, _ int64) {
	switch {
	case u.transmitShiftReg != 0:
		u.outBit = u.transmitShiftReg&0x01 == 0x01
		u.transmitShiftReg >>= 1
		u.updateTXD()
	case u.transmitBuffer != 0:
		u.copyToTransmitShiftRegister()
	default:
		u.outBit = true
		u.updateTXD()
		u.sched.Cancel(scheduler.TXD)
		return
	}
	u.sched.ScheduleRel(scheduler.TXD, u.rate(), scheduler.TxdBit, 0)
}

func (u *UART) serviceRxdEvent(_ scheduler.EventID, _ int64) {
	rxd := u.port.RXD()
	if rxd {
		u.receiveShiftReg |= 1 << u.recCnt
	} else {
		u.receiveShiftReg &^= 1 << u.recCnt
	}

	u.recCnt++
	if u.recCnt >= u.packetLength()+2 {
		u.copyFromReceiveShiftRegister()

		// a stop bit ends reception
		if rxd {
			u.sched.Cancel(scheduler.RXD)
			return
		}
		u.recCnt = 0
	}

	u.sched.ScheduleRel(scheduler.RXD, u.rate(), scheduler.RxdBit, 0)
}

// Save implements the savestate.Stater interface.
func (u *UART) Save(s *savestate.State) {
	s.Write16(u.serper)
	s.Write16(u.receiveBuffer)
	s.Write16(u.receiveShiftReg)
	s.Write16(u.transmitBuffer)
	s.Write16(u.transmitShiftReg)
	s.WriteBool(u.outBit)
	s.Write8(uint8(u.recCnt))
	s.WriteBool(u.ovrun)
}

// Load implements the savestate.Stater interface.
func (u *UART) Load(s *savestate.State) {
	u.serper = s.Read16()
	u.receiveBuffer = s.Read16()
	u.receiveShiftReg = s.Read16()
	u.transmitBuffer = s.Read16()
	u.transmitShiftReg = s.Read16()
	u.outBit = s.ReadBool()
	u.recCnt = int(s.Read8())
	u.ovrun = s.ReadBool()
}

// Info is a copy of the UART registers for inspection.
type Info struct {
	SERPER           uint16
	ReceiveBuffer    uint16
	ReceiveShiftReg  uint16
	TransmitBuffer   uint16
	TransmitShiftReg uint16
}

// Info returns a copy of the UART registers.
func (u *UART) Info() Info {
	return Info{
		SERPER:           u.serper,
		ReceiveBuffer:    u.receiveBuffer,
		ReceiveShiftReg:  u.receiveShiftReg,
		TransmitBuffer:   u.transmitBuffer,
		TransmitShiftReg: u.transmitShiftReg,
	}
}
