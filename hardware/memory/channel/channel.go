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

// Package channel integrates one DDR memory device into the SoC. A Channel
// is created in two stages:
//
//  1. Construct() builds the PHY from the channel's pin group and wires the
//     PHY's SERDES strobes to the clocks of the channel.
//
//  2. Register() hands the PHY, the module settings and the controller
//     settings to a Registrar (the SoC), which creates the controller and
//     the L2 cache and places the channel in the address space.
//
// The role of the channel decides where it is placed. A primary channel is
// always bound at the main RAM origin. A secondary channel is placed at the
// origin given in its configuration.
package channel

import (
	"fmt"

	"github.com/zeroclient/panog2/config"
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/crg"
	"github.com/zeroclient/panog2/hardware/memory/controller"
	"github.com/zeroclient/panog2/hardware/memory/ddrphy"
	"github.com/zeroclient/panog2/hardware/memory/l2cache"
	"github.com/zeroclient/panog2/hardware/memory/memorymap"
	"github.com/zeroclient/panog2/hardware/memory/sdram"
	"github.com/zeroclient/panog2/hardware/netlist"
	"github.com/zeroclient/panog2/hardware/platform"
)

// Sentinal error patterns.
const (
	ChannelError  = "channel %s: %v"
	NotRegistered = "channel %s: not registered"
)

// Registration is everything a Registrar needs to bind a channel.
type Registration struct {
	Role config.Role

	// name of the channel
	Name string

	Region string
	Origin uint32

	// zero means the size of the module
	Size uint32

	PHY        *ddrphy.PHY
	Module     sdram.Settings
	Controller controller.Settings
	L2         config.L2
}

// Binding is the result of a successful registration.
type Binding struct {
	Region     memorymap.Region
	Controller *controller.Controller
	Cache      *l2cache.Cache
}

// Read32 reads the word at the region relative address.
func (b *Binding) Read32(offset uint32) (uint32, error) {
	return b.Cache.Read32(offset)
}

// Write32 writes the word at the region relative address.
func (b *Binding) Write32(offset uint32, v uint32) error {
	return b.Cache.Write32(offset, v)
}

// Registrar is implemented by the SoC. Register() must create the controller
// and cache for the registration and add the region to the address space.
type Registrar interface {
	Register(reg Registration) (*Binding, error)
}

// Channel is one DDR memory channel.
type Channel struct {
	Name   string
	Config config.Channel
	Clocks *crg.ChannelClocks
	PHY    *ddrphy.PHY
	Module sdram.Settings

	// nil until Register() has succeeded
	Binding *Binding
}

func (ch *Channel) String() string {
	s := fmt.Sprintf("channel %s (%s, %s)", ch.Name, ch.Config.Role, ch.PHY)
	if ch.Binding != nil {
		s = fmt.Sprintf("%s at %s", s, ch.Binding.Region)
	}
	return s
}

// Construct the PHY of the channel and wire it to the channel's clocks. The
// PHY is recorded in the netlist.
func Construct(cfg *config.Config, c config.Channel, plt *platform.Platform, clks *crg.ChannelClocks, nl *netlist.Netlist) (*Channel, error) {
	pads, err := plt.RequestDDR(c.Pads)
	if err != nil {
		return nil, curated.Errorf(ChannelError, c.Name, err)
	}

	mod, err := sdram.Lookup(c.Module)
	if err != nil {
		return nil, curated.Errorf(ChannelError, c.Name, err)
	}
	settings, err := mod.Settings(cfg.SysFreq, cfg.Rate)
	if err != nil {
		return nil, curated.Errorf(ChannelError, c.Name, err)
	}

	phy, err := ddrphy.NewS6HalfRate(pads, mod.Memtype, c.ReadBitslip, c.WriteBitslip, c.DQSAlignment, c.Name)
	if err != nil {
		return nil, curated.Errorf(ChannelError, c.Name, err)
	}
	if err := phy.CheckGeometry(settings.Geometry); err != nil {
		return nil, curated.Errorf(ChannelError, c.Name, err)
	}

	// the read strobe is the same signal as the write strobe
	if err := phy.WireStrobes(clks.WrStrobe, clks.RdStrobe); err != nil {
		return nil, curated.Errorf(ChannelError, c.Name, err)
	}
	clks.FullWr.Add(phy.SerdesWrite)
	clks.FullRd.Add(phy.SerdesRead)

	strb := fmt.Sprintf("clk4x_wr_strb_%s", c.Name)
	phy.Elaborate(nl, strb, strb)

	return &Channel{
		Name:   c.Name,
		Config: c,
		Clocks: clks,
		PHY:    phy,
		Module: settings,
	}, nil
}

// Register the channel with the registrar. The controller settings are
// normally those returned by controller.NewSettings() with bandwidth
// accounting enabled.
func (ch *Channel) Register(r Registrar, cs controller.Settings) error {
	if err := ch.PHY.Validate(); err != nil {
		return curated.Errorf(ChannelError, ch.Name, err)
	}

	reg := Registration{
		Role:       ch.Config.Role,
		Name:       ch.Name,
		Region:     ch.Config.Region,
		Origin:     ch.Config.Origin,
		Size:       ch.Config.Size,
		PHY:        ch.PHY,
		Module:     ch.Module,
		Controller: cs,
		L2:         ch.Config.L2,
	}

	if reg.Role == config.Primary {
		reg.Origin = memorymap.OriginMainRAM
	}

	b, err := r.Register(reg)
	if err != nil {
		return err
	}
	ch.Binding = b

	return nil
}

// Peek reads the word at the region relative address through the cache.
func (ch *Channel) Peek(offset uint32) (uint32, error) {
	if ch.Binding == nil {
		return 0, curated.Errorf(NotRegistered, ch.Name)
	}
	return ch.Binding.Read32(offset)
}
