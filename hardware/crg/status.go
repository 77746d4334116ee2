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

import "fmt"

// Status of the CRG as seen by the system domain.
type Status struct {
	// PLL lock after synchronisation into the system domain
	Locked bool

	State State
	POR   int

	// number of times the system reset has been asserted since power on
	Resets int
}

func (s Status) String() string {
	l := "unlocked"
	if s.Locked {
		l = "locked"
	}
	return fmt.Sprintf("%s reset=%s por=%d", l, s.State, s.POR)
}

// Bits of the status register.
const (
	StatusLocked    = 0x01
	StatusStateMask = 0x06
	StatusStateBit  = 1
	StatusPORBit    = 16
)

// Word returns the status as it appears in the status register.
func (s Status) Word() uint32 {
	var w uint32
	if s.Locked {
		w |= StatusLocked
	}
	w |= (uint32(s.State) << StatusStateBit) & StatusStateMask
	w |= uint32(s.POR) << StatusPORBit
	return w
}
