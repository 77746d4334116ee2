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

package clockdomain

// ResetSynchronizer brings an asynchronous reset into a clock domain. The
// output asserts as soon as Assert() is called and deasserts only after the
// input has been seen to be low on Stages consecutive clock edges.
type ResetSynchronizer struct {
	flops []bool
}

// NewResetSynchronizer is the preferred method of initialisation for the
// ResetSynchronizer type. The synchronizer powers up asserted. Stages less
// than one are treated as one.
func NewResetSynchronizer(stages int) *ResetSynchronizer {
	if stages < 1 {
		stages = 1
	}
	s := &ResetSynchronizer{
		flops: make([]bool, stages),
	}
	s.Assert()
	return s
}

// Assert presets every flop in the chain. This happens independently of the
// clock.
func (s *ResetSynchronizer) Assert() {
	for i := range s.flops {
		s.flops[i] = true
	}
}

// Clock the synchronizer with the current state of the reset input.
func (s *ResetSynchronizer) Clock(in bool) {
	if in {
		s.Assert()
		return
	}
	for i := len(s.flops) - 1; i > 0; i-- {
		s.flops[i] = s.flops[i-1]
	}
	s.flops[0] = false
}

// Asserted implements the ResetLine interface.
func (s *ResetSynchronizer) Asserted() bool {
	return s.flops[len(s.flops)-1]
}

// Stages returns the length of the flop chain.
func (s *ResetSynchronizer) Stages() int {
	return len(s.flops)
}

// Synchronizer is a chain of flip-flops that brings a level signal into a
// clock domain.
type Synchronizer struct {
	flops []bool
}

// NewSynchronizer is the preferred method of initialisation for the
// Synchronizer type. Stages less than two are treated as two.
func NewSynchronizer(stages int) *Synchronizer {
	if stages < 2 {
		stages = 2
	}
	return &Synchronizer{
		flops: make([]bool, stages),
	}
}

// Clock the synchronizer with the current state of the input.
func (s *Synchronizer) Clock(in bool) {
	for i := len(s.flops) - 1; i > 0; i-- {
		s.flops[i] = s.flops[i-1]
	}
	s.flops[0] = in
}

// Out returns the synchronized value.
func (s *Synchronizer) Out() bool {
	return s.flops[len(s.flops)-1]
}
