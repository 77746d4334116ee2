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

// Package sdram describes SDRAM modules: their geometry and their timing
// parameters. Timing parameters are given in nanoseconds (or in memory
// clock cycles) and are converted to controller cycles for a particular
// system clock frequency and PHY rate with the Settings() function.
package sdram

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/zeroclient/panog2/curated"
)

// Sentinal error patterns.
const (
	UnknownModule = "sdram: unknown module (%s)"
	InvalidRate   = "sdram: invalid rate (%s)"
	InvalidModule = "sdram: %s: %v"
)

// Memtype is the type of SDRAM.
type Memtype string

// List of valid Memtype values.
const (
	SDR   Memtype = "SDR"
	DDR   Memtype = "DDR"
	LPDDR Memtype = "LPDDR"
	DDR2  Memtype = "DDR2"
	DDR3  Memtype = "DDR3"
)

// Geometry of a module in address bits.
type Geometry struct {
	BankBits    int
	RowBits     int
	ColBits     int
	AddressBits int
}

// Timing parameters in controller cycles.
type Timing struct {
	TRP   int
	TRCD  int
	TWR   int
	TWTR  int
	TREFI int
	TRFC  int
	TCCD  int
}

func (t Timing) String() string {
	return fmt.Sprintf("tRP=%d tRCD=%d tWR=%d tWTR=%d tREFI=%d tRFC=%d tCCD=%d",
		t.TRP, t.TRCD, t.TWR, t.TWTR, t.TREFI, t.TRFC, t.TCCD)
}

// Module describes an SDRAM chip or module.
type Module struct {
	Name     string
	Memtype  Memtype
	NBanks   int
	NRows    int
	NCols    int
	DataBits int

	// timings in nanoseconds. a value of zero means the timing is not
	// specified in nanoseconds
	TRP   float64
	TRCD  float64
	TWR   float64
	TWTR  float64
	TREFI float64
	TRFC  float64

	// timings in memory clock cycles
	TCCDck int
}

// MT47H32M16 is the 512Mbit DDR2 device fitted to both channels of the
// board.
var MT47H32M16 = Module{
	Name:     "MT47H32M16",
	Memtype:  DDR2,
	NBanks:   4,
	NRows:    8192,
	NCols:    1024,
	DataBits: 16,
	TRP:      15,
	TRCD:     15,
	TWR:      15,
	TWTR:     7.5,
	TREFI:    7800,
	TRFC:     127.5,
	TCCDck:   2,
}

var modules = map[string]Module{
	MT47H32M16.Name: MT47H32M16,
}

// Lookup a module by name.
func Lookup(name string) (Module, error) {
	if m, ok := modules[name]; ok {
		return m, nil
	}
	return Module{}, curated.Errorf(UnknownModule, name)
}

// Size returns the size of the module in bytes.
func (m Module) Size() uint32 {
	return uint32(m.NBanks * m.NRows * m.NCols * m.DataBits / 8)
}

func log2(v int) int {
	return bits.Len(uint(v)) - 1
}

func isPow2(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// Validate checks that the module's geometry is usable.
func (m Module) Validate() error {
	if !isPow2(m.NBanks) {
		return curated.Errorf(InvalidModule, m.Name, fmt.Sprintf("number of banks (%d) is not a power of two", m.NBanks))
	}
	if !isPow2(m.NRows) {
		return curated.Errorf(InvalidModule, m.Name, fmt.Sprintf("number of rows (%d) is not a power of two", m.NRows))
	}
	if !isPow2(m.NCols) {
		return curated.Errorf(InvalidModule, m.Name, fmt.Sprintf("number of columns (%d) is not a power of two", m.NCols))
	}
	if m.DataBits%8 != 0 || m.DataBits == 0 {
		return curated.Errorf(InvalidModule, m.Name, fmt.Sprintf("data width (%d) is not a whole number of bytes", m.DataBits))
	}
	if uint64(m.NBanks)*uint64(m.NRows)*uint64(m.NCols)*uint64(m.DataBits/8) > math.MaxUint32 {
		return curated.Errorf(InvalidModule, m.Name, "module is larger than the address space")
	}
	return nil
}

// Geometry returns the address bits required by the module.
func (m Module) Geometry() Geometry {
	g := Geometry{
		BankBits: log2(m.NBanks),
		RowBits:  log2(m.NRows),
		ColBits:  log2(m.NCols),
	}
	g.AddressBits = g.RowBits
	if g.ColBits > g.AddressBits {
		g.AddressBits = g.ColBits
	}
	return g
}

// Rate is the ratio between the controller clock and the memory clock.
type Rate string

// Phases returns the number of DFI phases for the rate.
func (r Rate) Phases() (int, error) {
	switch r {
	case "1:1":
		return 1, nil
	case "1:2":
		return 2, nil
	case "1:4":
		return 4, nil
	}
	return 0, curated.Errorf(InvalidRate, r)
}

// Settings is the result of converting a module's timings for a controller
// running at a particular frequency.
type Settings struct {
	Module   Module
	ClkFreq  float64
	Rate     Rate
	Geometry Geometry
	Timing   Timing
}

// Settings converts the module's timings to cycles of a controller clocked
// at clkFreq (in MHz) for the PHY rate.
func (m Module) Settings(clkFreq float64, rate Rate) (Settings, error) {
	if err := m.Validate(); err != nil {
		return Settings{}, err
	}

	nphases, err := rate.Phases()
	if err != nil {
		return Settings{}, err
	}

	period := 1000.0 / clkFreq

	// a margin is added to nanosecond timings to account for the position
	// of the command within the controller cycle
	var margin float64
	switch nphases {
	case 2:
		margin = period / 2
	case 4:
		margin = 3 * period / 4
	}

	ns := func(t float64, withMargin bool) int {
		if t == 0 {
			return 0
		}
		if withMargin {
			t += margin
		}
		return int(math.Ceil(t / period))
	}

	ck := func(c int) int {
		return int(math.Ceil(float64(c) / float64(nphases)))
	}

	return Settings{
		Module:   m,
		ClkFreq:  clkFreq,
		Rate:     rate,
		Geometry: m.Geometry(),
		Timing: Timing{
			TRP:   ns(m.TRP, true),
			TRCD:  ns(m.TRCD, true),
			TWR:   ns(m.TWR, true),
			TWTR:  ns(m.TWTR, true),
			TREFI: ns(m.TREFI, false),
			TRFC:  ns(m.TRFC, true),
			TCCD:  ck(m.TCCDck),
		},
	}, nil
}
