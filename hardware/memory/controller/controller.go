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

// Package controller is the SDRAM controller of a memory channel. The
// controller sits between the L2 cache (or the system bus, if there is no
// cache) and the PHY.
//
// Only the behaviour visible from the bus is modelled: addresses are decoded
// to row, bank and column, the contents of the memory are kept, refresh is
// scheduled from the module's timing and, when enabled, bandwidth is
// accounted for.
package controller

import (
	"fmt"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/hardware/memory/ddrphy"
	"github.com/zeroclient/panog2/hardware/memory/sdram"
)

// MaxAddressBits is the widest address the controller can drive.
const MaxAddressBits = 14

// Sentinal error patterns.
const (
	InvalidGeometry = "controller: %s: %v"
	OutOfRange      = "controller: %s: address %#08x outside of module"
	Misaligned      = "controller: %s: misaligned address %#08x"
)

// AddressMapping is the order in which address bits are assigned to row,
// bank and column.
type AddressMapping string

// List of supported AddressMapping values.
const (
	RowBankCol AddressMapping = "ROW_BANK_COL"
)

// Settings of the controller.
type Settings struct {
	AddressMapping AddressMapping
	WithBandwidth  bool
	WithRefresh    bool
}

// NewSettings returns the default controller settings.
func NewSettings() Settings {
	return Settings{
		AddressMapping: RowBankCol,
		WithRefresh:    true,
	}
}

// Bandwidth counters.
type Bandwidth struct {
	Reads        int
	Writes       int
	BytesRead    int
	BytesWritten int
}

func (b Bandwidth) String() string {
	return fmt.Sprintf("reads=%d (%d bytes) writes=%d (%d bytes)", b.Reads, b.BytesRead, b.Writes, b.BytesWritten)
}

// Location of an address in the module.
type Location struct {
	Row  int
	Bank int
	Col  int
}

// Controller of one memory channel.
type Controller struct {
	Name     string
	settings Settings
	module   sdram.Settings
	phy      ddrphy.Settings

	// size of module in bytes
	size uint32

	// bytes in one controller word
	wordBytes uint32

	// number of low address bits in the column part of the word address
	cbaShift uint

	// sparse memory. indexed by 32 bit word address
	mem map[uint32]uint32

	bandwidth Bandwidth

	// refresh scheduling in system clock cycles
	refreshCount int
	refreshes    int

	// open row of each bank. -1 if the bank is precharged
	openRow []int
}

// NewController is the preferred method of initialisation for the Controller
// type. The name is used in error messages and should identify the channel.
func NewController(name string, phy ddrphy.Settings, module sdram.Settings, settings Settings) (*Controller, error) {
	g := module.Geometry

	if settings.AddressMapping == "" {
		settings.AddressMapping = RowBankCol
	}
	if settings.AddressMapping != RowBankCol {
		return nil, curated.Errorf(InvalidGeometry, name, fmt.Sprintf("unsupported address mapping (%s)", settings.AddressMapping))
	}
	if g.AddressBits > MaxAddressBits {
		return nil, curated.Errorf(InvalidGeometry, name,
			fmt.Sprintf("module needs %d address bits but the controller supports %d", g.AddressBits, MaxAddressBits))
	}
	if phy.NPhases < 1 || phy.DFIDataBits < 8 {
		return nil, curated.Errorf(InvalidGeometry, name, "PHY settings are not valid")
	}

	// a burst is two beats per phase
	burst := phy.NPhases * 2
	burstBits := 0
	for 1<<burstBits < burst {
		burstBits++
	}
	if g.ColBits < burstBits {
		return nil, curated.Errorf(InvalidGeometry, name, fmt.Sprintf("too few column bits (%d) for burst length %d", g.ColBits, burst))
	}

	ctrl := &Controller{
		Name:      name,
		settings:  settings,
		module:    module,
		phy:       phy,
		size:      module.Module.Size(),
		wordBytes: uint32(phy.PortDataWidth() / 8),
		cbaShift:  uint(g.ColBits - burstBits),
		mem:       make(map[uint32]uint32),
		openRow:   make([]int, 1<<g.BankBits),
	}
	for i := range ctrl.openRow {
		ctrl.openRow[i] = -1
	}

	return ctrl, nil
}

func (ctrl *Controller) String() string {
	return fmt.Sprintf("%s: %s %s", ctrl.Name, ctrl.module.Module.Name, ctrl.module.Timing)
}

// Size returns the number of bytes addressable by the controller.
func (ctrl *Controller) Size() uint32 {
	return ctrl.size
}

// Settings returns the controller settings.
func (ctrl *Controller) Settings() Settings {
	return ctrl.settings
}

// Decode returns the location of the byte address.
func (ctrl *Controller) Decode(address uint32) (Location, error) {
	if address >= ctrl.size {
		return Location{}, curated.Errorf(OutOfRange, ctrl.Name, address)
	}

	g := ctrl.module.Geometry
	word := address / ctrl.wordBytes
	burstBits := uint(g.ColBits) - ctrl.cbaShift

	return Location{
		Col:  int(word&((1<<ctrl.cbaShift)-1)) << burstBits,
		Bank: int(word>>ctrl.cbaShift) & ((1 << g.BankBits) - 1),
		Row:  int(word>>(ctrl.cbaShift+uint(g.BankBits))) & ((1 << g.RowBits) - 1),
	}, nil
}

// access checks the address and opens the row.
func (ctrl *Controller) access(address uint32) error {
	if address%4 != 0 {
		return curated.Errorf(Misaligned, ctrl.Name, address)
	}
	loc, err := ctrl.Decode(address)
	if err != nil {
		return err
	}
	ctrl.openRow[loc.Bank] = loc.Row
	return nil
}

// ReadWords reads consecutive 32 bit words starting at address.
func (ctrl *Controller) ReadWords(address uint32, words []uint32) error {
	for i := range words {
		a := address + uint32(i*4)
		if err := ctrl.access(a); err != nil {
			return err
		}
		words[i] = ctrl.mem[a>>2]
	}
	if ctrl.settings.WithBandwidth {
		ctrl.bandwidth.Reads++
		ctrl.bandwidth.BytesRead += len(words) * 4
	}
	return nil
}

// WriteWords writes consecutive 32 bit words starting at address.
func (ctrl *Controller) WriteWords(address uint32, words []uint32) error {
	for i := range words {
		a := address + uint32(i*4)
		if err := ctrl.access(a); err != nil {
			return err
		}
		ctrl.mem[a>>2] = words[i]
	}
	if ctrl.settings.WithBandwidth {
		ctrl.bandwidth.Writes++
		ctrl.bandwidth.BytesWritten += len(words) * 4
	}
	return nil
}

// Peek reads a word without affecting the bandwidth counters or the open
// rows.
func (ctrl *Controller) Peek(address uint32) (uint32, error) {
	if _, err := ctrl.Decode(address); err != nil {
		return 0, err
	}
	return ctrl.mem[address>>2], nil
}

// Bandwidth returns the bandwidth counters. The counters are always zero if
// bandwidth accounting is not enabled.
func (ctrl *Controller) Bandwidth() Bandwidth {
	return ctrl.bandwidth
}

// Refreshes returns the number of refresh commands issued.
func (ctrl *Controller) Refreshes() int {
	return ctrl.refreshes
}

// Tick is the controller's system domain process. Refresh is issued every
// tREFI cycles, closing all rows.
func (ctrl *Controller) Tick(_ clocks.Step, reset bool) {
	if reset {
		ctrl.refreshCount = 0
		for i := range ctrl.openRow {
			ctrl.openRow[i] = -1
		}
		return
	}

	if !ctrl.settings.WithRefresh || ctrl.module.Timing.TREFI == 0 {
		return
	}

	ctrl.refreshCount++
	if ctrl.refreshCount >= ctrl.module.Timing.TREFI {
		ctrl.refreshCount = 0
		ctrl.refreshes++
		for i := range ctrl.openRow {
			ctrl.openRow[i] = -1
		}
	}
}

// OpenRow returns the open row of a bank. The second return value is false if
// the bank is precharged.
func (ctrl *Controller) OpenRow(bank int) (int, bool) {
	r := ctrl.openRow[bank]
	return r, r >= 0
}
