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

// Package platform describes the pins of the Pano Logic Zero Client G2 that
// the clock, reset and memory logic connect to. Every resource can be
// requested exactly once. Requesting a resource returns a typed handle whose
// electrical contract (single-ended or differential, active level, clock
// period) is fixed by the board.
package platform

import (
	"fmt"
	"sort"

	"github.com/zeroclient/panog2/curated"
)

// Name of the board.
const Name = "pano_logic_g2"

// The default clock of the board.
const (
	DefaultClkName   = "clk125"
	DefaultClkPeriod = 8.0
)

// Sentinal error patterns.
const (
	UnknownResource  = "platform: unknown resource (%s)"
	AlreadyRequested = "platform: resource already requested (%s)"
	WrongKind        = "platform: resource %s is not %s"
)

// Kind of resource.
type Kind int

// List of valid Kind values.
const (
	Clock Kind = iota
	Input
	Output
	DiffOutput
	DDR
)

func (k Kind) String() string {
	switch k {
	case Clock:
		return "a clock"
	case Input:
		return "an input"
	case Output:
		return "an output"
	case DiffOutput:
		return "a differential output"
	case DDR:
		return "a DDR pin group"
	}
	return "unknown"
}

// Signal is the handle returned by Request().
type Signal struct {
	Name string
	Kind Kind

	// clock period in nanoseconds. zero for non-clock resources
	Period float64

	// the pin is asserted when it is low
	ActiveLow bool

	// level of an output pin. for a differential output this is the level of
	// the P side, the N side is always the inverse
	level bool
}

func (s *Signal) String() string {
	return fmt.Sprintf("%s (%s)", s.Name, s.Kind)
}

// Drive sets the level of an output.
func (s *Signal) Drive(v bool) {
	s.level = v
}

// Level returns the level of an output.
func (s *Signal) Level() bool {
	return s.level
}

// P returns the level of the positive side of a differential output.
func (s *Signal) P() bool {
	return s.level
}

// N returns the level of the negative side of a differential output.
func (s *Signal) N() bool {
	return !s.level
}

// DDRPads is the pin group of a single DDR2 device.
type DDRPads struct {
	Name        string
	AddressBits int
	BankBits    int
	DataBits    int
	DM          int
	DQS         int
}

func (p DDRPads) String() string {
	return fmt.Sprintf("%s: a%d ba%d dq%d dm%d dqs%d", p.Name, p.AddressBits, p.BankBits, p.DataBits, p.DM, p.DQS)
}

type resource struct {
	kind      Kind
	period    float64
	activeLow bool
	pads      DDRPads
}

// Platform is the set of resources available on the board.
type Platform struct {
	resources map[string]resource
	requested map[string]bool
}

func ddr(name string) resource {
	return resource{
		kind: DDR,
		pads: DDRPads{
			Name:        name,
			AddressBits: 13,
			BankBits:    2,
			DataBits:    16,
			DM:          2,
			DQS:         2,
		},
	}
}

// NewPanoG2 is the preferred method of initialisation for the Platform type.
func NewPanoG2() *Platform {
	return &Platform{
		resources: map[string]resource{
			DefaultClkName:  {kind: Clock, period: DefaultClkPeriod},
			"cpu_reset":     {kind: Input, activeLow: true},
			"ddram_a":       ddr("ddram_a"),
			"ddram_b":       ddr("ddram_b"),
			"ddram_clock_a": {kind: DiffOutput},
			"ddram_clock_b": {kind: DiffOutput},
			"gmii_rst_n":    {kind: Output, activeLow: true},
		},
		requested: make(map[string]bool),
	}
}

func (plt *Platform) String() string {
	return Name
}

func (plt *Platform) claim(name string) (resource, error) {
	r, ok := plt.resources[name]
	if !ok {
		return resource{}, curated.Errorf(UnknownResource, name)
	}
	if plt.requested[name] {
		return resource{}, curated.Errorf(AlreadyRequested, name)
	}
	return r, nil
}

// Request a single pin or pin pair. DDR pin groups must be requested with
// RequestDDR().
func (plt *Platform) Request(name string) (*Signal, error) {
	r, err := plt.claim(name)
	if err != nil {
		return nil, err
	}
	if r.kind == DDR {
		return nil, curated.Errorf(WrongKind, name, "a single signal")
	}
	plt.requested[name] = true
	return &Signal{
		Name:      name,
		Kind:      r.kind,
		Period:    r.period,
		ActiveLow: r.activeLow,
	}, nil
}

// RequestDDR requests a DDR pin group.
func (plt *Platform) RequestDDR(name string) (DDRPads, error) {
	r, err := plt.claim(name)
	if err != nil {
		return DDRPads{}, err
	}
	if r.kind != DDR {
		return DDRPads{}, curated.Errorf(WrongKind, name, DDR)
	}
	plt.requested[name] = true
	return r.pads, nil
}

// Unrequested returns the sorted list of resources that have not been
// requested.
func (plt *Platform) Unrequested() []string {
	var u []string
	for n := range plt.resources {
		if !plt.requested[n] {
			u = append(u, n)
		}
	}
	sort.Strings(u)
	return u
}
