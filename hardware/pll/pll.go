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

// Package pll models the Spartan-6 PLL_ADV primitive as it is used by the
// clock and reset generator: one reference input, a feedback multiplier, a
// reference divider and six independently divided and phase shifted outputs.
//
// Every output is a clocks.Periodic line derived from the VCO so the phase
// relationship between any two outputs is exactly the configured phase
// offsets, quantised to one eighth of a VCO period.
//
// The lock indicator rises a configured number of reference clock cycles
// after the PLL is released. Lock can be lost (and regained) at any step with
// the Unlock() and Relock() functions.
package pll

import (
	"fmt"
	"math"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
)

// NumOutputs is the number of clock outputs of the PLL.
const NumOutputs = 6

// Limits of the PLL_ADV primitive.
const (
	MinVCO     = 400.0
	MaxVCO     = 1080.0
	MaxDivide  = 128
	MaxMult    = 64
	MaxDivClk  = 52
	MinRefFreq = 19.0
)

// Sentinal error patterns.
const (
	InvalidConfig = "pll: %v"
	InvalidOutput = "pll: CLKOUT%d (%s): %v"
	NoSuchOutput  = "pll: no output named %s"
)

// Output describes one of the six PLL outputs.
type Output struct {
	Name   string
	Divide int

	// phase in degrees and duty cycle as a fraction
	Phase float64
	Duty  float64
}

// Config describes the PLL instance.
type Config struct {
	// period of the reference clock in nanoseconds
	RefPeriod float64

	DivClk int
	Mult   int

	Outputs [NumOutputs]Output

	// number of reference clock cycles between the PLL being released and
	// lock being indicated
	LockCycles int
}

// VCO returns the frequency of the voltage controlled oscillator in MHz.
func (cfg Config) VCO() float64 {
	return 1000.0 / cfg.RefPeriod * float64(cfg.Mult) / float64(cfg.DivClk)
}

// Validate checks the configuration against the limits of the primitive.
func (cfg Config) Validate() error {
	if cfg.RefPeriod <= 0 {
		return curated.Errorf(InvalidConfig, fmt.Sprintf("reference period (%v) must be positive", cfg.RefPeriod))
	}
	if 1000.0/cfg.RefPeriod < MinRefFreq {
		return curated.Errorf(InvalidConfig, fmt.Sprintf("reference frequency below %vMHz", MinRefFreq))
	}
	if cfg.DivClk < 1 || cfg.DivClk > MaxDivClk {
		return curated.Errorf(InvalidConfig, fmt.Sprintf("DIVCLK_DIVIDE (%d) out of range", cfg.DivClk))
	}
	if cfg.Mult < 1 || cfg.Mult > MaxMult {
		return curated.Errorf(InvalidConfig, fmt.Sprintf("CLKFBOUT_MULT (%d) out of range", cfg.Mult))
	}
	if vco := cfg.VCO(); vco < MinVCO || vco > MaxVCO {
		return curated.Errorf(InvalidConfig, fmt.Sprintf("VCO frequency (%.1fMHz) outside %v to %vMHz", vco, MinVCO, MaxVCO))
	}
	if cfg.LockCycles < 0 {
		return curated.Errorf(InvalidConfig, fmt.Sprintf("lock cycles (%d) must not be negative", cfg.LockCycles))
	}

	names := make(map[string]bool)
	for i, o := range cfg.Outputs {
		if o.Name == "" {
			return curated.Errorf(InvalidOutput, i, "", "output has no name")
		}
		if names[o.Name] {
			return curated.Errorf(InvalidOutput, i, o.Name, "duplicate name")
		}
		names[o.Name] = true

		if o.Divide < 1 || o.Divide > MaxDivide {
			return curated.Errorf(InvalidOutput, i, o.Name, fmt.Sprintf("divide (%d) out of range", o.Divide))
		}
		if o.Phase < 0 || o.Phase >= 360 {
			return curated.Errorf(InvalidOutput, i, o.Name, fmt.Sprintf("phase (%v) out of range", o.Phase))
		}
		if o.Duty <= 0 || o.Duty >= 1 {
			return curated.Errorf(InvalidOutput, i, o.Name, fmt.Sprintf("duty cycle (%v) out of range", o.Duty))
		}
	}

	return nil
}

// PLL is the running model of a PLL_ADV instance.
type PLL struct {
	cfg      Config
	timebase clocks.Timebase
	lines    [NumOutputs]clocks.Periodic

	// number of steps in a reference clock period
	refSteps clocks.Step

	// step at which lock is (or will be) indicated. negative values mean
	// that lock will never be indicated
	lockAt clocks.Step
}

// NewPLL is the preferred method of initialisation for the PLL type. The PLL
// is released at step zero.
func NewPLL(cfg Config) (*PLL, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	p := &PLL{
		cfg:      cfg,
		timebase: clocks.NewTimebase(cfg.VCO()),
		refSteps: clocks.Step(cfg.Mult * clocks.StepsPerVCO / cfg.DivClk),
	}

	for i, o := range cfg.Outputs {
		period := clocks.Step(o.Divide * clocks.StepsPerVCO)
		p.lines[i] = clocks.Periodic{
			Period: period,
			Offset: clocks.Step(math.Round(o.Phase / 360.0 * float64(period))),
			High:   clocks.Step(math.Round(o.Duty * float64(period))),
		}
	}

	p.Relock(0)

	return p, nil
}

func (p *PLL) String() string {
	return fmt.Sprintf("PLL_ADV VCO=%.1fMHz", p.cfg.VCO())
}

// Config returns a copy of the configuration the PLL was created with.
func (p *PLL) Config() Config {
	return p.cfg
}

// Timebase returns the timebase implied by the PLL's VCO.
func (p *PLL) Timebase() clocks.Timebase {
	return p.timebase
}

// ReferencePeriod returns the period of the reference clock in steps.
func (p *PLL) ReferencePeriod() clocks.Step {
	return p.refSteps
}

// Output returns the clock line of the numbered output.
func (p *PLL) Output(i int) clocks.Periodic {
	return p.lines[i]
}

// Named returns the clock line of the output with the given name.
func (p *PLL) Named(name string) (clocks.Periodic, int, error) {
	for i, o := range p.cfg.Outputs {
		if o.Name == name {
			return p.lines[i], i, nil
		}
	}
	return clocks.Periodic{}, -1, curated.Errorf(NoSuchOutput, name)
}

// Frequency returns the frequency of the numbered output in MHz.
func (p *PLL) Frequency(i int) float64 {
	return p.timebase.Frequency(p.lines[i].Period)
}

// Phase returns the phase of the numbered output after quantisation.
func (p *PLL) Phase(i int) float64 {
	return p.lines[i].Phase()
}

// PhaseResolution returns the resolution, in degrees of the output's own
// period, with which the numbered output's phase can be placed.
func (p *PLL) PhaseResolution(i int) float64 {
	return 360.0 / float64(p.lines[i].Period)
}

// Locked returns true if the PLL indicates lock at step t.
func (p *PLL) Locked(t clocks.Step) bool {
	return p.lockAt >= 0 && t >= p.lockAt
}

// Level implements the clocks.Line interface for the LOCKED output.
func (p *PLL) Level(t clocks.Step) bool {
	return p.Locked(t)
}

// LockAt returns the step at which lock is indicated. The second return
// value is false if the PLL will not lock.
func (p *PLL) LockAt() (clocks.Step, bool) {
	return p.lockAt, p.lockAt >= 0
}

// Unlock drops the lock indicator. The PLL will not lock again until Relock()
// is called.
func (p *PLL) Unlock() {
	p.lockAt = -1
}

// Relock releases the PLL at step t. Lock is indicated LockCycles reference
// clock periods later.
func (p *PLL) Relock(t clocks.Step) {
	p.lockAt = t + clocks.Step(p.cfg.LockCycles)*p.refSteps
}
