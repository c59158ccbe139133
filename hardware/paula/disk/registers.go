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

package disk

import (
	"github.com/gopher500/gopher500/hardware/clocks"
	"github.com/gopher500/gopher500/hardware/interrupts"
	"github.com/gopher500/gopher500/logger"
)

// PokeDSKLEN writes the DSKLEN register. DMA is only enabled when bit 15 is
// set in two consecutive writes. Bit 14 in both writes selects a write to the
// disk.
func (dc *Controller) PokeDSKLEN(value uint16) {
	old := dc.dsklen
	dc.dsklen = value

	dc.checksum.Reset()
	dc.checksumCount = 0

	if value&0x8000 == 0 {
		dc.setState(StateOff)
		dc.clearFifo()
	}

	if old&value&0x8000 == 0x8000 {
		if value&0x3fff == 0 {
			dc.irq.RaiseIrq(interrupts.DSKBLK)
			return
		}

		if old&value&0x4000 == 0x4000 {
			dc.setState(StateWrite)
		} else if dc.host.ADKCON()&0x0400 == 0x0400 {
			dc.setState(StateWait)
		} else {
			dc.setState(StateRead)
		}
		dc.clearFifo()
	}

	if dc.turbo() {
		dc.performTurboDMA()
	}
}

// DSKLEN returns the current value of the length register.
func (dc *Controller) DSKLEN() uint16 {
	return dc.dsklen
}

// PeekDSKDATR reads the DSKDATR register. The register can only be accessed by
// DMA so a CPU read returns zero.
func (dc *Controller) PeekDSKDATR() uint16 {
	return 0
}

// PokeDSKDAT writes the DSKDAT register. The register can only be accessed by
// DMA so a CPU write is ignored.
func (dc *Controller) PokeDSKDAT(_ uint16) {
}

// PeekDSKBYTR reads the DSKBYTR register. Reading the register clears the
// byte valid flag.
func (dc *Controller) PeekDSKBYTR() uint16 {
	v := dc.computeDSKBYTR()
	dc.incoming &= 0x7fff
	return v
}

func (dc *Controller) computeDSKBYTR() uint16 {
	// DSKBYT and DATA
	v := dc.incoming

	// DMAON
	if dc.host.DiskDMAEnabled() && dc.state != StateOff {
		v |= 0x4000
	}

	// DISKWRITE
	if dc.dsklen&0x4000 == 0x4000 {
		v |= 0x2000
	}

	// WORDEQUAL
	if dc.clock.Now()-dc.syncCycle <= clocks.USec(2) {
		v |= 0x1000
	}

	return v
}

// PokeDSKSYNC writes the sync word. Unusual values are ignored if the lock
// sync option is set.
func (dc *Controller) PokeDSKSYNC(value uint16) {
	if value != DefaultSync {
		if dc.config.LockSync {
			logger.Logf(logger.Allow, "disk", "write to DSKSYNC blocked (%04x)", value)
			return
		}
	}
	dc.dsksync = value
}

// DSKSYNC returns the current sync word.
func (dc *Controller) DSKSYNC() uint16 {
	return dc.dsksync
}
