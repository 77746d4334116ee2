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

package hardware

import (
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/govern"
	"github.com/zeroclient/panog2/hardware/clocks"
)

// Sentinal error patterns.
const (
	UnsupportedState = "soc: unsupported state (%s) in Run() function"
	NotReleased      = "soc: system reset not released after %d system cycles"
)

// It can be expensive to do a full continue check every system cycle. The
// PerformanceBrake is a standard value that can be used to filter out
// expensive code paths within a continueCheck() implementation. For example:
//
//	performanceFilter++
//	if performanceFilter >= hardware.PerformanceBrake {
//		performanceFilter = 0
//		if end_condition == true {
//			return govern.Ending, nil
//		}
//	}
//	return govern.Running, nil
const PerformanceBrake = 100

// Step advances the SoC by one step of the timebase.
func (soc *SoC) Step() {
	soc.CRG.Step(soc.step)
	soc.step++
}

// Now returns the number of steps taken since power on.
func (soc *SoC) Now() clocks.Step {
	return soc.step
}

// StepSystemCycle advances the SoC until a rising edge of the system clock
// has been processed.
func (soc *SoC) StepSystemCycle() {
	for {
		t := soc.step
		soc.Step()
		if soc.CRG.Sys.Rising(t) {
			return
		}
	}
}

// Run sets the simulation running until the continueCheck function returns
// govern.Ending or govern.Initialising. The continueCheck function is called
// after every system cycle. A nil continueCheck function will run the SoC
// forever.
func (soc *SoC) Run(continueCheck func() (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func() (govern.State, error) { return govern.Running, nil }
	}

	var err error

	state := govern.Running

	for !state.Stopped() {
		switch state {
		case govern.Running:
			soc.StepSystemCycle()
		case govern.Paused:
		default:
			return curated.Errorf(UnsupportedState, state)
		}

		state, err = continueCheck()
		if err != nil {
			return err
		}
	}

	return nil
}

// RunForCycles runs the SoC for the specified number of system cycles. The
// continueCheck function is called after every system cycle with the number
// of cycles run so far and can end the run early.
func (soc *SoC) RunForCycles(numCycles int, continueCheck func(cycle int) (govern.State, error)) error {
	if continueCheck == nil {
		continueCheck = func(cycle int) (govern.State, error) { return govern.Running, nil }
	}

	state := govern.Running
	for cycle := 0; cycle < numCycles && !state.Stopped(); {
		var err error

		if state == govern.Running {
			soc.StepSystemCycle()
			cycle++
		}

		state, err = continueCheck(cycle)
		if err != nil {
			return err
		}
	}

	return nil
}

// RunUntilReleased runs the SoC until the system reset has been released.
// Returns an error if the reset is still asserted after the limit number of
// system cycles.
func (soc *SoC) RunUntilReleased(limit int) error {
	for i := 0; i < limit; i++ {
		soc.StepSystemCycle()
		if !soc.CRG.SysReset() {
			return nil
		}
	}
	return curated.Errorf(NotReleased, limit)
}
