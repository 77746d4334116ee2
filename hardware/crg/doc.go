// This file is part of panog2.
//
// panog2 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// panog2 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with panog2.  If not, see <https://www.gnu.org/licenses/>.

// Package crg is the clock and reset generator of the board.
//
// The 125MHz reference clock is buffered (IBUFG, BUFIO2) and fed to a single
// PLL_ADV running its VCO at 1GHz. The six PLL outputs are:
//
//	CLKOUT0  /5   0deg    200MHz  full rate memory clock
//	CLKOUT1  /10  0deg    100MHz  reserved
//	CLKOUT2  /10  270deg  100MHz  half rate memory clock
//	CLKOUT3  /10  250deg  100MHz  half rate memory clock, shifted
//	CLKOUT4  /10  0deg    100MHz  reserved
//	CLKOUT5  /20  0deg    50MHz   system clock
//
// Each memory channel has its own BUFPLL, taking the full rate clock, the
// system clock and the PLL lock. The BUFPLL produces the I/O clock of the
// channel and the quarter rate SERDES strobe. The read side of the channel
// shares both the clock and the strobe of the write side. Each channel also
// has its own pair of BUFGs for the half rate clocks. The shifted half rate
// clock and its inverse clock an ODDR2 which drives the differential memory
// clock through an OBUFDS.
//
// The reset sequencer holds the system domain in reset until the PLL has
// locked and the power-on counter has counted down to zero. Any of the reset
// pin, a software request or loss of lock reloads the counter and asserts
// the system reset immediately.
package crg
