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
	"fmt"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
)

// BufPLL models the Spartan-6 BUFPLL primitive.
type BufPLL struct {
	Name   string
	Divide int

	pllin  clocks.Periodic
	gclk   clocks.Periodic
	locked clocks.Line

	strobe strobe
}

// NewBufPLL is the preferred method of initialisation for the BufPLL type.
// The PLLIN clock multiplied by Divide must have the same period as GCLK and
// every GCLK rising edge must coincide with a PLLIN rising edge.
func NewBufPLL(name string, divide int, pllin clocks.Periodic, gclk clocks.Periodic, locked clocks.Line) (*BufPLL, error) {
	if divide < 1 || divide > 8 {
		return nil, curated.Errorf(InvalidClocking, name, fmt.Sprintf("DIVIDE (%d) out of range", divide))
	}
	if pllin.Period*clocks.Step(divide) != gclk.Period {
		return nil, curated.Errorf(InvalidClocking, name,
			fmt.Sprintf("GCLK period (%d steps) is not DIVIDE times PLLIN period (%d steps)", gclk.Period, pllin.Period))
	}
	if (gclk.Offset-pllin.Offset)%pllin.Period != 0 {
		return nil, curated.Errorf(InvalidClocking, name, "GCLK is not phase aligned with PLLIN")
	}

	return &BufPLL{
		Name:   name,
		Divide: divide,
		pllin:  pllin,
		gclk:   gclk,
		locked: locked,
		strobe: strobe{
			gclk:   gclk,
			ioclk:  pllin.Period,
			locked: locked,
		},
	}, nil
}

func (b *BufPLL) String() string {
	return fmt.Sprintf("BUFPLL %s DIVIDE=%d", b.Name, b.Divide)
}

// IOClock returns the IOCLK output.
func (b *BufPLL) IOClock() clocks.Periodic {
	return b.pllin
}

// Strobe returns the SERDESSTROBE output.
func (b *BufPLL) Strobe() clocks.Line {
	return b.strobe
}

// StrobePeriod returns the period of the strobe in steps.
func (b *BufPLL) StrobePeriod() clocks.Step {
	return b.gclk.Period
}

// strobe is high for the last IOCLK cycle of every GCLK cycle. That is, it
// is high for the IOCLK cycle that ends on a GCLK rising edge. A strobe
// pulse is only generated if the BUFPLL is locked at the start of the pulse
// and is cut short if lock is lost.
type strobe struct {
	gclk   clocks.Periodic
	ioclk  clocks.Step
	locked clocks.Line
}

func (s strobe) Level(t clocks.Step) bool {
	p := (t - s.gclk.Offset) % s.gclk.Period
	if p < 0 {
		p += s.gclk.Period
	}
	start := s.gclk.Period - s.ioclk
	if p < start {
		return false
	}
	return s.locked.Level(t) && s.locked.Level(t-(p-start))
}
