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

// Package hardware is the base package for the Pano Logic G2 SoC model. The
// SoC type composes the clock and reset generator, the memory channels, the
// fixed memory regions and the control and status registers into a single
// board. The SoC is created with NewSoC() from an immutable board
// configuration.
//
// The SoC implements the channel.Registrar interface. Each memory channel
// registers itself with the SoC, which creates the controller and L2 cache
// for the channel and places the channel in the address space.
//
// Step() advances the simulation by one step of the timebase. StepSystemCycle()
// advances the simulation until the system clock has ticked. Run() steps the
// SoC until a continue check function says that the run should stop.
//
// Read() and Write() are the bus interface of the SoC. Accesses are refused
// while the system domain is held in reset.
//
// The subpackages contain the components of the board and are not normally
// needed outside of the SoC type.
package hardware
