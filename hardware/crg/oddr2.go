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

package crg

import (
	"github.com/zeroclient/panog2/hardware/clocks"
)

// ODDR2 models the Spartan-6 output DDR flip-flop. D0 is clocked out on the
// rising edge of C0 and D1 on the rising edge of C1. C1 is always the
// inverse of C0 in this design so the output changes on both edges of C0.
type ODDR2 struct {
	D0 bool
	D1 bool
	C0 clocks.Line
}

// Level implements the clocks.Line interface for the Q output.
func (o ODDR2) Level(t clocks.Step) bool {
	if o.C0.Level(t) {
		return o.D0
	}
	return o.D1
}

// C1 returns the line clocking D1.
func (o ODDR2) C1() clocks.Line {
	return clocks.Inverted{Line: o.C0}
}

// DiffClock is the output of an OBUFDS.
type DiffClock struct {
	I clocks.Line
}

// P returns the level of the positive output.
func (d DiffClock) P(t clocks.Step) bool {
	return d.I.Level(t)
}

// N returns the level of the negative output.
func (d DiffClock) N(t clocks.Step) bool {
	return !d.I.Level(t)
}

// Level implements the clocks.Line interface. It is the same as P().
func (d DiffClock) Level(t clocks.Step) bool {
	return d.P(t)
}
