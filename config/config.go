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

package config

import (
	"fmt"
	"math/bits"
	"sort"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/hardware/memory/memorymap"
	"github.com/zeroclient/panog2/hardware/memory/sdram"
)

// Sentinal error patterns.
const (
	InvalidConfig  = "config: %s: %v"
	InvalidChannel = "config: channel %s: %s: %v"
)

// Role of a memory channel.
type Role string

// List of valid Role values.
const (
	Primary   Role = "primary"
	Secondary Role = "secondary"
)

// DQS alignment strategies supported by the PHY.
const (
	AlignC0   = "C0"
	AlignC1   = "C1"
	AlignNone = "NONE"
)

// L2 is the cache policy of a memory channel.
type L2 struct {
	// size of the cache in bytes. zero means there is no cache
	Size int

	// minimum width of a cache line in bits
	MinDataWidth int

	// reverse the order of words in a line on the way to the controller
	Reverse bool
}

// Channel describes one DDR memory channel.
type Channel struct {
	// short name of channel. used as the suffix of clock domain and
	// instance names
	Name string

	// platform resources
	Pads      string
	ClockPads string

	Role   Role
	Region string
	Origin uint32

	// addressable size of the region. zero means the size of the module
	Size uint32

	Module string

	ReadBitslip  int
	WriteBitslip int
	DQSAlignment string

	L2 L2
}

// Config is the complete, immutable board configuration.
type Config struct {
	// reference clock period in nanoseconds
	RefPeriod float64

	PLLDivClk int
	PLLMult   int

	// number of reference clock periods between release of the PLL and lock
	LockCycles int

	// divide and phase of each PLL output, in CLKOUT order
	PLLOutputs [6]PLLOutput

	// power-on reset counter width and seed
	PORBits int
	PORSeed int

	// number of flip-flops in the reset synchronizers
	ResetSyncStages int

	// number of flip-flops in the level synchronizers
	SyncStages int

	// system clock frequency in MHz. must match the frequency of the sys
	// output of the PLL
	SysFreq float64

	// controller clock to memory clock rate
	Rate sdram.Rate

	ROMSize     uint32
	SRAMSize    uint32
	EmulatorRAM bool

	Channels []Channel
}

// PLLOutput is the configuration of one PLL output.
type PLLOutput struct {
	Name   string
	Divide int
	Phase  float64
}

// Default returns the configuration of the board as built.
func Default() *Config {
	return &Config{
		RefPeriod:  8.0,
		PLLDivClk:  1,
		PLLMult:    8,
		LockCycles: 1024,
		PLLOutputs: [6]PLLOutput{
			{Name: "sdram_full", Divide: 5, Phase: 0},
			{Name: "reserved0", Divide: 10, Phase: 0},
			{Name: "sdram_half", Divide: 10, Phase: clocks.HalfRatePhase},
			{Name: "sdram_half_shifted", Divide: 10, Phase: clocks.HalfRateShiftedPhase},
			{Name: "reserved1", Divide: 10, Phase: 0},
			{Name: "sys", Divide: 20, Phase: 0},
		},
		PORBits:         11,
		PORSeed:         (1 << 11) - 1,
		ResetSyncStages: 2,
		SyncStages:      2,
		SysFreq:         clocks.System,
		Rate:            "1:2",
		ROMSize:         memorymap.SizeROM,
		SRAMSize:        memorymap.SizeSRAM,
		Channels: []Channel{
			{
				Name:         "b",
				Pads:         "ddram_b",
				ClockPads:    "ddram_clock_b",
				Role:         Primary,
				Region:       "main_ram",
				Origin:       memorymap.OriginMainRAM,
				Module:       sdram.MT47H32M16.Name,
				ReadBitslip:  0,
				WriteBitslip: 4,
				DQSAlignment: AlignC0,
				L2:           L2{Size: 8192, MinDataWidth: 128, Reverse: true},
			},
			{
				Name:         "a",
				Pads:         "ddram_a",
				ClockPads:    "ddram_clock_a",
				Role:         Secondary,
				Region:       "main_ram_2",
				Origin:       memorymap.OriginMainRAM2,
				Module:       sdram.MT47H32M16.Name,
				ReadBitslip:  0,
				WriteBitslip: 4,
				DQSAlignment: AlignC0,
				L2:           L2{Size: 8192, MinDataWidth: 128, Reverse: true},
			},
		},
	}
}

// copy returns a deep copy of the configuration.
func (cfg *Config) copy() *Config {
	c := *cfg
	c.Channels = make([]Channel, len(cfg.Channels))
	copy(c.Channels, cfg.Channels)
	return &c
}

// Derive returns a validated copy of the configuration after it has been
// modified by the function.
func (cfg *Config) Derive(f func(*Config)) (*Config, error) {
	c := cfg.copy()
	f(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// WithPrimary returns a copy of the configuration with the named channel as
// the primary channel. The channels swap region names and origins.
func (cfg *Config) WithPrimary(name string) (*Config, error) {
	if _, err := cfg.Channel(name); err != nil {
		return nil, err
	}

	return cfg.Derive(func(c *Config) {
		pi := -1
		ni := -1
		for i := range c.Channels {
			if c.Channels[i].Role == Primary {
				pi = i
			}
			if c.Channels[i].Name == name {
				ni = i
			}
		}
		if pi == -1 || pi == ni {
			c.Channels[ni].Role = Primary
			return
		}
		p := &c.Channels[pi]
		n := &c.Channels[ni]
		p.Role, n.Role = n.Role, p.Role
		p.Region, n.Region = n.Region, p.Region
		p.Origin, n.Origin = n.Origin, p.Origin
	})
}

// Channel returns the named channel.
func (cfg *Config) Channel(name string) (Channel, error) {
	for _, ch := range cfg.Channels {
		if ch.Name == name {
			return ch, nil
		}
	}
	return Channel{}, curated.Errorf(InvalidConfig, "channels", fmt.Sprintf("no channel named %s", name))
}

// Primary returns the primary channel.
func (cfg *Config) Primary() Channel {
	for _, ch := range cfg.Channels {
		if ch.Role == Primary {
			return ch
		}
	}
	return Channel{}
}

// PORMax returns the largest value the power-on reset counter can hold.
func (cfg *Config) PORMax() int {
	return (1 << cfg.PORBits) - 1
}

// ChannelSize returns the addressable size of the channel's region.
func (cfg *Config) ChannelSize(ch Channel) uint32 {
	if ch.Size != 0 {
		return ch.Size
	}
	m, err := sdram.Lookup(ch.Module)
	if err != nil {
		return 0
	}
	return m.Size()
}

// FixedRegions returns the regions of the address space that do not belong
// to a memory channel.
func (cfg *Config) FixedRegions() []memorymap.Region {
	r := []memorymap.Region{
		{Name: "rom", Origin: memorymap.OriginROM, Size: cfg.ROMSize, Kind: memorymap.ROM},
		{Name: "sram", Origin: memorymap.OriginSRAM, Size: cfg.SRAMSize, Kind: memorymap.SRAM},
		{Name: "csr", Origin: memorymap.OriginCSR, Size: memorymap.SizeCSR, Kind: memorymap.CSR},
	}
	if cfg.EmulatorRAM {
		r = append(r, memorymap.Region{Name: "emulator_ram", Origin: memorymap.OriginEmulatorRAM, Size: memorymap.SizeEmulatorRAM, Kind: memorymap.SRAM})
	}
	return r
}

func isPow2(v int) bool {
	return v > 0 && v&(v-1) == 0
}

// Validate checks the configuration for errors that would prevent the board
// from being built.
func (cfg *Config) Validate() error {
	if cfg.RefPeriod <= 0 {
		return curated.Errorf(InvalidConfig, "ref_period", "must be positive")
	}
	if cfg.PLLMult < 1 || cfg.PLLDivClk < 1 {
		return curated.Errorf(InvalidConfig, "pll", "multiplier and divider must be positive")
	}
	if cfg.LockCycles < 0 {
		return curated.Errorf(InvalidConfig, "lock_cycles", "must not be negative")
	}
	if cfg.PORBits < 1 || cfg.PORBits > 31 {
		return curated.Errorf(InvalidConfig, "por.bits", fmt.Sprintf("%d out of range", cfg.PORBits))
	}
	if cfg.PORSeed < 0 || cfg.PORSeed > cfg.PORMax() {
		return curated.Errorf(InvalidConfig, "por.seed", fmt.Sprintf("%d does not fit in %d bits", cfg.PORSeed, cfg.PORBits))
	}
	if cfg.ResetSyncStages < 1 {
		return curated.Errorf(InvalidConfig, "reset_sync_stages", "must be at least one")
	}
	if cfg.SyncStages < 2 {
		return curated.Errorf(InvalidConfig, "sync_stages", "must be at least two")
	}
	if cfg.SysFreq <= 0 {
		return curated.Errorf(InvalidConfig, "sys_freq", "must be positive")
	}
	if _, err := cfg.Rate.Phases(); err != nil {
		return curated.Errorf(InvalidConfig, "rate", err)
	}
	if len(cfg.Channels) == 0 {
		return curated.Errorf(InvalidConfig, "channels", "no memory channels")
	}

	m := memorymap.NewMap()
	for _, r := range cfg.FixedRegions() {
		if err := m.Add(r); err != nil {
			return curated.Errorf(InvalidConfig, r.Name, err)
		}
	}

	var primaries []string
	names := make(map[string]bool)

	for _, ch := range cfg.Channels {
		if ch.Name == "" {
			return curated.Errorf(InvalidConfig, "channels", "channel has no name")
		}
		if names[ch.Name] {
			return curated.Errorf(InvalidChannel, ch.Name, "name", "duplicate channel name")
		}
		names[ch.Name] = true

		switch ch.Role {
		case Primary:
			primaries = append(primaries, ch.Name)
			if ch.Origin != memorymap.OriginMainRAM {
				return curated.Errorf(InvalidChannel, ch.Name, "origin", fmt.Sprintf("primary channel must be at %#08x", memorymap.OriginMainRAM))
			}
		case Secondary:
		default:
			return curated.Errorf(InvalidChannel, ch.Name, "role", fmt.Sprintf("unknown role (%s)", ch.Role))
		}

		if ch.Pads == "" || ch.ClockPads == "" {
			return curated.Errorf(InvalidChannel, ch.Name, "pads", "pad group not specified")
		}

		mod, err := sdram.Lookup(ch.Module)
		if err != nil {
			return curated.Errorf(InvalidChannel, ch.Name, "module", err)
		}
		if err := mod.Validate(); err != nil {
			return curated.Errorf(InvalidChannel, ch.Name, "module", err)
		}

		if ch.ReadBitslip < 0 || ch.ReadBitslip > 7 {
			return curated.Errorf(InvalidChannel, ch.Name, "rd_bitslip", fmt.Sprintf("%d not in range 0 to 7", ch.ReadBitslip))
		}
		if ch.WriteBitslip < 0 || ch.WriteBitslip > 7 {
			return curated.Errorf(InvalidChannel, ch.Name, "wr_bitslip", fmt.Sprintf("%d not in range 0 to 7", ch.WriteBitslip))
		}

		switch ch.DQSAlignment {
		case AlignC0, AlignC1, AlignNone:
		default:
			return curated.Errorf(InvalidChannel, ch.Name, "dqs_ddr_alignment", fmt.Sprintf("unknown alignment (%s)", ch.DQSAlignment))
		}

		size := cfg.ChannelSize(ch)
		if size > mod.Size() {
			return curated.Errorf(InvalidChannel, ch.Name, "size", fmt.Sprintf("%#x larger than module (%#x)", size, mod.Size()))
		}
		if bits.OnesCount32(size) != 1 {
			return curated.Errorf(InvalidChannel, ch.Name, "size", fmt.Sprintf("%#x is not a power of two", size))
		}
		if ch.Origin&(size-1) != 0 {
			return curated.Errorf(InvalidChannel, ch.Name, "origin", fmt.Sprintf("%#08x not aligned to size", ch.Origin))
		}

		if ch.L2.Size != 0 {
			if !isPow2(ch.L2.Size) {
				return curated.Errorf(InvalidChannel, ch.Name, "l2_size", fmt.Sprintf("%d is not a power of two", ch.L2.Size))
			}
			if !isPow2(ch.L2.MinDataWidth) || ch.L2.MinDataWidth < 32 {
				return curated.Errorf(InvalidChannel, ch.Name, "l2_min_data_width", fmt.Sprintf("%d is not a power of two of at least 32", ch.L2.MinDataWidth))
			}
			if ch.L2.Size < ch.L2.MinDataWidth/8 {
				return curated.Errorf(InvalidChannel, ch.Name, "l2_size", "smaller than one cache line")
			}
		}

		err = m.Add(memorymap.Region{Name: ch.Region, Origin: ch.Origin, Size: size, Kind: memorymap.SDRAM})
		if err != nil {
			return curated.Errorf(InvalidChannel, ch.Name, "origin", err)
		}
	}

	if len(primaries) != 1 {
		sort.Strings(primaries)
		return curated.Errorf(InvalidConfig, "channels", fmt.Sprintf("exactly one primary channel required (have %v)", primaries))
	}

	return nil
}
