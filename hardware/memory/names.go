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

package memory

// CanonicalNames lists the canonical name of every custom register by offset
// from CustomBase.
var CanonicalNames = map[uint16]string{
	0x000: "BLTDDAT",
	0x002: "DMACONR",
	0x004: "VPOSR",
	0x006: "VHPOSR",
	0x008: "DSKDATR",
	0x00a: "JOY0DAT",
	0x00c: "JOY1DAT",
	0x00e: "CLXDAT",
	0x010: "ADKCONR",
	0x012: "POT0DAT",
	0x014: "POT1DAT",
	0x016: "POTGOR",
	0x018: "SERDATR",
	0x01a: "DSKBYTR",
	0x01c: "INTENAR",
	0x01e: "INTREQR",
	0x020: "DSKPTH",
	0x022: "DSKPTL",
	0x024: "DSKLEN",
	0x026: "DSKDAT",
	0x028: "REFPTR",
	0x02a: "VPOSW",
	0x02c: "VHPOSW",
	0x02e: "COPCON",
	0x030: "SERDAT",
	0x032: "SERPER",
	0x034: "POTGO",
	0x036: "JOYTEST",
	0x038: "STREQU",
	0x03a: "STRVBL",
	0x03c: "STRHOR",
	0x03e: "STRLONG",
	0x040: "BLTCON0",
	0x042: "BLTCON1",
	0x044: "BLTAFWM",
	0x046: "BLTALWM",
	0x048: "BLTCPTH",
	0x04a: "BLTCPTL",
	0x04c: "BLTBPTH",
	0x04e: "BLTBPTL",
	0x050: "BLTAPTH",
	0x052: "BLTAPTL",
	0x054: "BLTDPTH",
	0x056: "BLTDPTL",
	0x058: "BLTSIZE",
	0x060: "BLTCMOD",
	0x062: "BLTBMOD",
	0x064: "BLTAMOD",
	0x066: "BLTDMOD",
	0x070: "BLTCDAT",
	0x072: "BLTBDAT",
	0x074: "BLTADAT",
	0x07e: "DSKSYNC",
	0x080: "COP1LCH",
	0x082: "COP1LCL",
	0x084: "COP2LCH",
	0x086: "COP2LCL",
	0x088: "COPJMP1",
	0x08a: "COPJMP2",
	0x08c: "COPINS",
	0x08e: "DIWSTRT",
	0x090: "DIWSTOP",
	0x092: "DDFSTRT",
	0x094: "DDFSTOP",
	0x096: "DMACON",
	0x098: "CLXCON",
	0x09a: "INTENA",
	0x09c: "INTREQ",
	0x09e: "ADKCON",
	0x0a0: "AUD0LCH",
	0x0a2: "AUD0LCL",
	0x0a4: "AUD0LEN",
	0x0a6: "AUD0PER",
	0x0a8: "AUD0VOL",
	0x0aa: "AUD0DAT",
	0x0b0: "AUD1LCH",
	0x0b2: "AUD1LCL",
	0x0b4: "AUD1LEN",
	0x0b6: "AUD1PER",
	0x0b8: "AUD1VOL",
	0x0ba: "AUD1DAT",
	0x0c0: "AUD2LCH",
	0x0c2: "AUD2LCL",
	0x0c4: "AUD2LEN",
	0x0c6: "AUD2PER",
	0x0c8: "AUD2VOL",
	0x0ca: "AUD2DAT",
	0x0d0: "AUD3LCH",
	0x0d2: "AUD3LCL",
	0x0d4: "AUD3LEN",
	0x0d6: "AUD3PER",
	0x0d8: "AUD3VOL",
	0x0da: "AUD3DAT",
	0x0e0: "BPL1PTH",
	0x0e2: "BPL1PTL",
	0x0e4: "BPL2PTH",
	0x0e6: "BPL2PTL",
	0x0e8: "BPL3PTH",
	0x0ea: "BPL3PTL",
	0x0ec: "BPL4PTH",
	0x0ee: "BPL4PTL",
	0x0f0: "BPL5PTH",
	0x0f2: "BPL5PTL",
	0x0f4: "BPL6PTH",
	0x0f6: "BPL6PTL",
	0x100: "BPLCON0",
	0x102: "BPLCON1",
	0x104: "BPLCON2",
	0x108: "BPL1MOD",
	0x10a: "BPL2MOD",
	0x110: "BPL1DAT",
	0x112: "BPL2DAT",
	0x114: "BPL3DAT",
	0x116: "BPL4DAT",
	0x118: "BPL5DAT",
	0x11a: "BPL6DAT",
	0x120: "SPR0PTH",
	0x122: "SPR0PTL",
	0x124: "SPR1PTH",
	0x126: "SPR1PTL",
	0x128: "SPR2PTH",
	0x12a: "SPR2PTL",
	0x12c: "SPR3PTH",
	0x12e: "SPR3PTL",
	0x130: "SPR4PTH",
	0x132: "SPR4PTL",
	0x134: "SPR5PTH",
	0x136: "SPR5PTL",
	0x138: "SPR6PTH",
	0x13a: "SPR6PTL",
	0x13c: "SPR7PTH",
	0x13e: "SPR7PTL",
	0x140: "SPR0POS",
	0x142: "SPR0CTL",
	0x144: "SPR0DATA",
	0x146: "SPR0DATB",
	0x148: "SPR1POS",
	0x14a: "SPR1CTL",
	0x14c: "SPR1DATA",
	0x14e: "SPR1DATB",
	0x150: "SPR2POS",
	0x152: "SPR2CTL",
	0x154: "SPR2DATA",
	0x156: "SPR2DATB",
	0x158: "SPR3POS",
	0x15a: "SPR3CTL",
	0x15c: "SPR3DATA",
	0x15e: "SPR3DATB",
	0x160: "SPR4POS",
	0x162: "SPR4CTL",
	0x164: "SPR4DATA",
	0x166: "SPR4DATB",
	0x168: "SPR5POS",
	0x16a: "SPR5CTL",
	0x16c: "SPR5DATA",
	0x16e: "SPR5DATB",
	0x170: "SPR6POS",
	0x172: "SPR6CTL",
	0x174: "SPR6DATA",
	0x176: "SPR6DATB",
	0x178: "SPR7POS",
	0x17a: "SPR7CTL",
	0x17c: "SPR7DATA",
	0x17e: "SPR7DATB",
	0x180: "COLOR00",
	0x182: "COLOR01",
	0x184: "COLOR02",
	0x186: "COLOR03",
	0x188: "COLOR04",
	0x18a: "COLOR05",
	0x18c: "COLOR06",
	0x18e: "COLOR07",
	0x190: "COLOR08",
	0x192: "COLOR09",
	0x194: "COLOR10",
	0x196: "COLOR11",
	0x198: "COLOR12",
	0x19a: "COLOR13",
	0x19c: "COLOR14",
	0x19e: "COLOR15",
	0x1a0: "COLOR16",
	0x1a2: "COLOR17",
	0x1a4: "COLOR18",
	0x1a6: "COLOR19",
	0x1a8: "COLOR20",
	0x1aa: "COLOR21",
	0x1ac: "COLOR22",
	0x1ae: "COLOR23",
	0x1b0: "COLOR24",
	0x1b2: "COLOR25",
	0x1b4: "COLOR26",
	0x1b6: "COLOR27",
	0x1b8: "COLOR28",
	0x1ba: "COLOR29",
	0x1bc: "COLOR30",
	0x1be: "COLOR31",
}
