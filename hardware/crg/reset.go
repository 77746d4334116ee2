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
	"strings"

	"github.com/zeroclient/panog2/hardware/clockdomain"
)

// State of the reset sequencer.
type State int

// List of valid State values.
const (
	Asserted State = iota
	Counting
	Deasserted
)

func (s State) String() string {
	switch s {
	case Asserted:
		return "asserted"
	case Counting:
		return "counting"
	case Deasserted:
		return "deasserted"
	}
	return "unknown"
}

// Cause of a reset. More than one cause can be present at once.
type Cause int

// List of valid Cause values.
const (
	CausePin Cause = 1 << iota
	CauseSoftware
	CauseLockLoss
)

func (c Cause) String() string {
	var s []string
	if c&CausePin == CausePin {
		s = append(s, "pin")
	}
	if c&CauseSoftware == CauseSoftware {
		s = append(s, "software")
	}
	if c&CauseLockLoss == CauseLockLoss {
		s = append(s, "lock")
	}
	if len(s) == 0 {
		return "none"
	}
	return strings.Join(s, "+")
}

// sequencer is the power-on reset counter and the state that follows from
// it. It belongs to the por clock domain.
type sequencer struct {
	seed  int
	por   int
	state State

	// brings the combined reset cause into the por domain
	sync *clockdomain.ResetSynchronizer
}

func newSequencer(seed int, stages int) sequencer {
	return sequencer{
		seed:  seed,
		por:   seed,
		state: Asserted,
		sync:  clockdomain.NewResetSynchronizer(stages),
	}
}

// assert happens independently of the clock.
func (s *sequencer) assert() {
	s.sync.Assert()
	s.por = s.seed
	s.state = Asserted
}

// clock is called on every rising edge of the por clock with the combined
// reset cause.
func (s *sequencer) clock(cause bool) {
	s.sync.Clock(cause)

	if s.sync.Asserted() {
		s.por = s.seed
		s.state = Asserted
		return
	}

	if s.por > 0 {
		s.por--
	}

	if s.por == 0 {
		s.state = Deasserted
	} else {
		s.state = Counting
	}
}
