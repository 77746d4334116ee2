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

package trace

import (
	"fmt"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/logger"
)

// Sentinal error patterns.
const (
	UnknownSignal = "trace: no signal named %s"
	WAVError      = "trace: wav: %v"
	ChartError    = "trace: chart: %v"
)

// Probe is a named signal sampled by the Recorder.
type Probe struct {
	Name string
	Line clocks.Line
}

// Capture is the result of a recording.
type Capture struct {
	// names of the recorded signals in channel order
	Names []string

	// step of the first sample
	Start clocks.Step

	// one entry per step. each entry has one level per signal
	Samples [][]bool
}

// Len returns the number of steps in the capture.
func (c *Capture) Len() int {
	return len(c.Samples)
}

// Channel returns the levels of the named signal.
func (c *Capture) Channel(name string) ([]bool, error) {
	for i, n := range c.Names {
		if n == name {
			l := make([]bool, len(c.Samples))
			for s := range c.Samples {
				l[s] = c.Samples[s][i]
			}
			return l, nil
		}
	}
	return nil, curated.Errorf(UnknownSignal, name)
}

// Recorder samples a list of probes.
type Recorder struct {
	probes  []Probe
	capture Capture
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type.
func NewRecorder(probes ...Probe) *Recorder {
	r := &Recorder{
		probes: probes,
	}
	for _, p := range probes {
		r.capture.Names = append(r.capture.Names, p.Name)
	}
	r.capture.Start = -1
	return r
}

// Sample the level of every probe at step t. Steps should be consecutive.
func (r *Recorder) Sample(t clocks.Step) {
	if r.capture.Start == -1 {
		r.capture.Start = t
	}
	s := make([]bool, len(r.probes))
	for i, p := range r.probes {
		s[i] = p.Line.Level(t)
	}
	r.capture.Samples = append(r.capture.Samples, s)
}

// Capture returns the recording so far.
func (r *Recorder) Capture() *Capture {
	c := r.capture
	if c.Start == -1 {
		c.Start = 0
	}
	return &c
}

// Run steps the SoC for the number of steps, sampling every probe after each
// step.
func (r *Recorder) Run(soc *hardware.SoC, steps int) {
	logger.Logf(logger.Allow, "trace", "recording %d signals for %d steps", len(r.probes), steps)
	for i := 0; i < steps; i++ {
		t := soc.Now()
		soc.Step()
		r.Sample(t)
	}
}

// Probes returns the standard set of probes for the SoC: the system clock,
// PLL lock, the system reset and, for every memory channel, the full and half
// rate clocks, the SERDES strobe and the memory clock.
func Probes(soc *hardware.SoC) []Probe {
	p := []Probe{
		{Name: "sys_clk", Line: soc.CRG.Sys.Clk},
		{Name: "pll_lckd", Line: soc.CRG.PLL()},
		{Name: "sys_rst", Line: clocks.LineFunc(func(_ clocks.Step) bool {
			return soc.CRG.SysReset()
		})},
	}

	for _, ch := range soc.CRG.Channels {
		n := ch.Name
		p = append(p,
			Probe{Name: fmt.Sprintf("sdram_full_%s", n), Line: ch.FullWr.Clk},
			Probe{Name: fmt.Sprintf("sdram_half_%s", n), Line: ch.Half.Clk},
			Probe{Name: fmt.Sprintf("sdram_half_shifted_%s", n), Line: ch.HalfShifted},
			Probe{Name: fmt.Sprintf("clk4x_wr_strb_%s", n), Line: ch.WrStrobe},
			Probe{Name: fmt.Sprintf("ddram_clock_%s", n), Line: ch.MemClock},
		)
	}

	return p
}
