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

package clocks

import (
	"fmt"
	"math"
)

// Step is the unit of simulated time.
type Step int64

// Timebase converts between steps and real time for a given VCO frequency.
type Timebase struct {
	// VCO frequency in MHz
	VCO float64
}

// NewTimebase is the preferred method of initialisation for the Timebase type.
func NewTimebase(vco float64) Timebase {
	return Timebase{VCO: vco}
}

// StepDuration returns the duration of a step in nanoseconds.
func (tb Timebase) StepDuration() float64 {
	return 1000.0 / (tb.VCO * StepsPerVCO)
}

// Nanoseconds converts steps to nanoseconds.
func (tb Timebase) Nanoseconds(s Step) float64 {
	return float64(s) * tb.StepDuration()
}

// Steps converts nanoseconds to the nearest number of steps.
func (tb Timebase) Steps(ns float64) Step {
	return Step(math.Round(ns / tb.StepDuration()))
}

// Frequency returns the frequency in MHz of a line with the given period.
func (tb Timebase) Frequency(period Step) float64 {
	if period == 0 {
		return 0
	}
	return 1000.0 / tb.Nanoseconds(period)
}

// Format returns the step as a string in nanoseconds.
func (tb Timebase) Format(s Step) string {
	return fmt.Sprintf("%.3fns", tb.Nanoseconds(s))
}

// mod returns the non-negative remainder of a divided by b.
func mod(a, b Step) Step {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
