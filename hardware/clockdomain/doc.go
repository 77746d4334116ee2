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

// Package clockdomain defines clock domains and the primitives that allow a
// signal to move safely from one domain to another.
//
// A Domain has a clock line and a reset line. Processes added to the domain
// are run on every rising edge of the clock and are told whether the domain
// is in reset. Nothing else should be read or written from another domain
// except through one of the synchronizer types:
//
//   - ResetSynchronizer: asynchronous assertion, synchronous deassertion.
//     Used for reset lines entering a domain.
//   - Synchronizer: a chain of flip-flops for a level signal. Used for slow
//     status signals such as PLL lock.
//
// Domain names follow the convention of the gateware: "sys", "por",
// "sdram_full_wr_a" etc.
package clockdomain
