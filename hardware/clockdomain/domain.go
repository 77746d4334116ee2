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

import (
	"fmt"

	"github.com/zeroclient/panog2/hardware/clocks"
)

// ResetLine is the reset input of a domain.
type ResetLine interface {
	Asserted() bool
}

type noReset struct{}

func (_ noReset) Asserted() bool {
	return false
}

// NoReset can be used for domains whose reset is never driven.
var NoReset ResetLine = noReset{}

// Process is logic clocked by a domain. The step of the clock edge is
// supplied so that the process can sample lines belonging to the same clock
// tree. The reset argument is true if the domain is in reset at the edge.
type Process func(t clocks.Step, reset bool)

// Domain is a named clock domain.
type Domain struct {
	Name string
	Clk  clocks.Line
	Rst  ResetLine

	processes []Process

	// the number of rising edges seen by Tick()
	edges int
}

// NewDomain is the preferred method of initialisation for the Domain type.
// A nil reset line is the same as NoReset.
func NewDomain(name string, clk clocks.Line, rst ResetLine) *Domain {
	if rst == nil {
		rst = NoReset
	}
	return &Domain{
		Name: name,
		Clk:  clk,
		Rst:  rst,
	}
}

func (d *Domain) String() string {
	return fmt.Sprintf("cd_%s", d.Name)
}

// Add a process to the domain. Processes are run in the order they are added.
func (d *Domain) Add(p Process) {
	d.processes = append(d.processes, p)
}

// InReset returns true if the domain's reset is asserted.
func (d *Domain) InReset() bool {
	return d.Rst.Asserted()
}

// Rising returns true if the domain's clock has a rising edge at step t.
func (d *Domain) Rising(t clocks.Step) bool {
	return clocks.Rising(d.Clk, t)
}

// Tick runs the domain's processes if there is a rising clock edge at step t.
// Returns true if there was an edge.
func (d *Domain) Tick(t clocks.Step) bool {
	if !d.Rising(t) {
		return false
	}

	d.edges++
	for _, p := range d.processes {
		p(t, d.InReset())
	}

	return true
}

// Edges returns the number of rising edges seen by Tick().
func (d *Domain) Edges() int {
	return d.edges
}
