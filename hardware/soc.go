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
	"fmt"

	"github.com/zeroclient/panog2/config"
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/hardware/crg"
	"github.com/zeroclient/panog2/hardware/memory/channel"
	"github.com/zeroclient/panog2/hardware/memory/controller"
	"github.com/zeroclient/panog2/hardware/memory/l2cache"
	"github.com/zeroclient/panog2/hardware/memory/memorymap"
	"github.com/zeroclient/panog2/hardware/netlist"
	"github.com/zeroclient/panog2/hardware/platform"
	"github.com/zeroclient/panog2/logger"
)

// Sentinal error patterns.
const (
	RegisterError  = "soc: channel %s: %v"
	NoPrimary      = "soc: no primary memory channel"
	UnknownChannel = "soc: no channel named %s"
)

// SoC is the model of the Pano Logic G2 system on chip.
type SoC struct {
	Config   *config.Config
	Platform *platform.Platform
	Netlist  *netlist.Netlist
	Map      *memorymap.Map
	CRG      *crg.CRG

	// memory channels in the order they appear in the configuration
	Channels []*channel.Channel

	// bindings indexed by region name
	bindings map[string]*channel.Binding
	primary  *channel.Binding

	// contents of the rom and sram regions indexed by region name. word
	// addresses
	mem map[string]map[uint32]uint32

	// control and status registers
	csr csr

	gmii *platform.Signal

	// the next step to be given to the CRG
	step clocks.Step
}

// NewSoC is the preferred method of initialisation for the SoC type. The
// configuration is validated before the SoC is built.
func NewSoC(cfg *config.Config) (*SoC, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	soc := &SoC{
		Config:   cfg,
		Platform: platform.NewPanoG2(),
		Netlist:  netlist.NewNetlist(),
		Map:      memorymap.NewMap(),
		bindings: make(map[string]*channel.Binding),
		mem:      make(map[string]map[uint32]uint32),
	}
	soc.csr.reset()

	for _, r := range cfg.FixedRegions() {
		if err := soc.Map.Add(r); err != nil {
			return nil, err
		}
		if r.Kind == memorymap.ROM || r.Kind == memorymap.SRAM {
			soc.mem[r.Name] = make(map[uint32]uint32)
		}
	}

	var err error

	soc.CRG, err = crg.NewCRG(cfg, soc.Platform, soc.Netlist)
	if err != nil {
		return nil, err
	}

	// control registers return to their reset values while the system
	// domain is in reset
	soc.CRG.Sys.Add(func(_ clocks.Step, reset bool) {
		if reset {
			soc.csr.reset()
		}
	})

	// the ethernet PHY is held out of reset for the lifetime of the board
	soc.gmii, err = soc.Platform.Request("gmii_rst_n")
	if err != nil {
		return nil, err
	}
	soc.gmii.Drive(true)
	soc.Netlist.Instantiate("OBUF", "gmii_rst_n_obuf").
		I("I", "1'b1").
		O("O", soc.gmii.Name)

	cs := controller.NewSettings()
	cs.WithBandwidth = true

	for _, c := range cfg.Channels {
		clks, err := soc.CRG.Channel(c.Name)
		if err != nil {
			return nil, err
		}

		ch, err := channel.Construct(cfg, c, soc.Platform, clks, soc.Netlist)
		if err != nil {
			return nil, err
		}

		if err := ch.Register(soc, cs); err != nil {
			return nil, err
		}

		soc.Channels = append(soc.Channels, ch)
	}

	if soc.primary == nil {
		return nil, curated.Errorf(NoPrimary)
	}

	if err := soc.Netlist.Err(); err != nil {
		return nil, err
	}
	if err := soc.Netlist.Validate(); err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "soc", "built with %d channels (primary at %s)", len(soc.Channels), soc.primary.Region)

	return soc, nil
}

func (soc *SoC) String() string {
	return fmt.Sprintf("%s: %s", platform.Name, soc.CRG.Status())
}

// Register implements the channel.Registrar interface. A controller and L2
// cache is created for the channel and the channel's region is added to the
// memory map. The controller is clocked by the system domain and the cache is
// cleared while the system domain is in reset.
func (soc *SoC) Register(reg channel.Registration) (*channel.Binding, error) {
	if reg.Role == config.Primary {
		if soc.primary != nil {
			return nil, curated.Errorf(RegisterError, reg.Name, "there is already a primary channel")
		}
		if reg.Origin != memorymap.OriginMainRAM {
			return nil, curated.Errorf(RegisterError, reg.Name,
				fmt.Sprintf("primary channel must be at %#08x not %#08x", memorymap.OriginMainRAM, reg.Origin))
		}
	}

	if reg.PHY == nil {
		return nil, curated.Errorf(RegisterError, reg.Name, "no PHY")
	}
	phy := reg.PHY.Settings()

	ctrl, err := controller.NewController(fmt.Sprintf("sdram_%s", reg.Name), phy, reg.Module, reg.Controller)
	if err != nil {
		return nil, curated.Errorf(RegisterError, reg.Name, err)
	}

	size := reg.Size
	if size == 0 {
		size = ctrl.Size()
	} else if size > ctrl.Size() {
		return nil, curated.Errorf(RegisterError, reg.Name,
			fmt.Sprintf("region size (%#x) is larger than the module (%#x)", size, ctrl.Size()))
	}

	cache, err := l2cache.NewCache(reg.L2.Size, reg.L2.MinDataWidth, phy.PortDataWidth(), reg.L2.Reverse, ctrl)
	if err != nil {
		return nil, curated.Errorf(RegisterError, reg.Name, err)
	}

	region := memorymap.Region{
		Name:   reg.Region,
		Origin: reg.Origin,
		Size:   size,
		Kind:   memorymap.SDRAM,
	}
	if err := soc.Map.Add(region); err != nil {
		return nil, curated.Errorf(RegisterError, reg.Name, err)
	}

	soc.CRG.Sys.Add(ctrl.Tick)
	soc.CRG.Sys.Add(func(_ clocks.Step, reset bool) {
		if reset {
			cache.Invalidate()
		}
	})

	soc.Netlist.Instantiate("LiteDRAMCore", ctrl.Name).
		P("module", reg.Module.Module.Name).
		P("address_mapping", string(reg.Controller.AddressMapping)).
		P("with_bandwidth", reg.Controller.WithBandwidth).
		P("l2_cache_size", reg.L2.Size).
		P("l2_cache_min_data_width", reg.L2.MinDataWidth).
		P("l2_cache_reverse", reg.L2.Reverse).
		P("origin", fmt.Sprintf("%#08x", region.Origin)).
		P("size", fmt.Sprintf("%#x", region.Size)).
		I("sys_clk", "sys_clk").
		I("sys_rst", "sys_rst").
		O("dfi", fmt.Sprintf("%s_dfi", reg.PHY.Name))

	b := &channel.Binding{
		Region:     region,
		Controller: ctrl,
		Cache:      cache,
	}
	soc.bindings[region.Name] = b
	if reg.Role == config.Primary {
		soc.primary = b
	}

	logger.Logf(logger.Allow, "soc", "channel %s (%s) registered at %s", reg.Name, reg.Role, region)

	return b, nil
}

// Channel returns the named memory channel.
func (soc *SoC) Channel(name string) (*channel.Channel, error) {
	for _, ch := range soc.Channels {
		if ch.Name == name {
			return ch, nil
		}
	}
	return nil, curated.Errorf(UnknownChannel, name)
}

// Primary returns the primary memory channel.
func (soc *SoC) Primary() *channel.Channel {
	for _, ch := range soc.Channels {
		if ch.Binding == soc.primary {
			return ch
		}
	}
	return nil
}

// Flush writes the dirty lines of every L2 cache to the controllers.
func (soc *SoC) Flush() error {
	for _, ch := range soc.Channels {
		if err := ch.Binding.Cache.Flush(); err != nil {
			return curated.Errorf(RegisterError, ch.Name, err)
		}
	}
	return nil
}

// GMIIReset returns the level of the ethernet PHY reset pin.
func (soc *SoC) GMIIReset() bool {
	return soc.gmii.Level()
}
