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

package paula

import (
	"fmt"

	"github.com/gopher500/gopher500/hardware/memory"
)

// MapRegisters adds the Paula registers to the register table.
func (pl *Paula) MapRegisters(tab *memory.Table) error {
	regs := []memory.Register{
		{Offset: 0x008, Name: "DSKDATR", Peek: pl.Disk.PeekDSKDATR},
		{Offset: 0x010, Name: "ADKCONR", Peek: pl.ADKCON},
		{Offset: 0x012, Name: "POT0DAT", Peek: pl.PeekPOT0DAT},
		{Offset: 0x014, Name: "POT1DAT", Peek: pl.PeekPOT1DAT},
		{Offset: 0x016, Name: "POTGOR", Peek: pl.PeekPOTGOR},
		{Offset: 0x018, Name: "SERDATR", Peek: pl.UART.PeekSERDATR},
		{Offset: 0x01a, Name: "DSKBYTR", Peek: pl.Disk.PeekDSKBYTR},
		{Offset: 0x01c, Name: "INTENAR", Peek: pl.IRQ.INTENAR},
		{Offset: 0x01e, Name: "INTREQR", Peek: pl.IRQ.INTREQR},
		{Offset: 0x024, Name: "DSKLEN", Poke: pl.Disk.PokeDSKLEN},
		{Offset: 0x026, Name: "DSKDAT", Poke: pl.Disk.PokeDSKDAT},
		{Offset: 0x030, Name: "SERDAT", Poke: pl.UART.PokeSERDAT},
		{Offset: 0x032, Name: "SERPER", Poke: pl.UART.PokeSERPER},
		{Offset: 0x034, Name: "POTGO", Poke: pl.PokePOTGO},
		{Offset: 0x07e, Name: "DSKSYNC", Poke: pl.Disk.PokeDSKSYNC},
		{Offset: 0x09a, Name: "INTENA", Poke: pl.IRQ.PokeINTENA},
		{Offset: 0x09c, Name: "INTREQ", Poke: pl.IRQ.PokeINTREQ},
		{Offset: 0x09e, Name: "ADKCON", Poke: pl.PokeADKCON},
	}

	// AUDxLC is written to Agnus. the other audio registers are in Paula
	for i, ch := range pl.Audio {
		base := uint16(0x0a0 + i*0x10)
		regs = append(regs,
			memory.Register{Offset: base + 0x04, Name: fmt.Sprintf("AUD%dLEN", i), Poke: ch.PokeAUDxLEN},
			memory.Register{Offset: base + 0x06, Name: fmt.Sprintf("AUD%dPER", i), Poke: ch.PokeAUDxPER},
			memory.Register{Offset: base + 0x08, Name: fmt.Sprintf("AUD%dVOL", i), Poke: ch.PokeAUDxVOL},
			memory.Register{Offset: base + 0x0a, Name: fmt.Sprintf("AUD%dDAT", i), Poke: ch.PokeAUDxDAT},
		)
	}

	for _, r := range regs {
		if err := tab.Add(r.Offset, r.Name, r.Peek, r.Poke); err != nil {
			return err
		}
	}

	return nil
}
