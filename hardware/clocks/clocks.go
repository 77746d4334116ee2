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

// Package clocks defines the timebase of the model, the clock line type and
// the nominal frequencies of the Pano Logic G2 clock tree.
//
// Time is measured in steps. A step is one eighth of a period of the PLL's
// voltage controlled oscillator, which is the resolution to which the PLL
// can place the phase of an output. With the board's 1GHz VCO a step is
// 125ps.
//
// A clock line is anything that has a level at a given step. Periodic lines
// are pure functions of the step counter, which means that every clock domain
// in the model is derived from the same counter and that phase relationships
// between domains are exact.
package clocks

// Nominal frequencies (MHz) of the clock tree.
const (
	Reference  = 125.0
	VCO        = 1000.0
	MemoryFull = 200.0
	MemoryHalf = 100.0
	System     = 50.0
)

// Nominal phase offsets (degrees) of the two half-rate memory clocks.
const (
	HalfRatePhase        = 270.0
	HalfRateShiftedPhase = 250.0
)

// StepsPerVCO is the number of steps in one VCO period.
const StepsPerVCO = 8
