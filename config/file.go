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
	"os"

	"github.com/zeroclient/panog2/curated"
	"gopkg.in/yaml.v2"
)

// Sentinal error patterns.
const (
	BoardFileError = "config: board file: %v"
)

type l2File struct {
	Size         *int  `yaml:"size"`
	MinDataWidth *int  `yaml:"min_data_width"`
	Reverse      *bool `yaml:"reverse"`
}

type channelFile struct {
	Pads         *string `yaml:"pads"`
	ClockPads    *string `yaml:"clock_pads"`
	Role         *Role   `yaml:"role"`
	Region       *string `yaml:"region"`
	Origin       *uint32 `yaml:"origin"`
	Size         *uint32 `yaml:"size"`
	Module       *string `yaml:"module"`
	ReadBitslip  *int    `yaml:"rd_bitslip"`
	WriteBitslip *int    `yaml:"wr_bitslip"`
	DQSAlignment *string `yaml:"dqs_ddr_alignment"`
	L2           *l2File `yaml:"l2"`
}

type porFile struct {
	Bits *int `yaml:"bits"`
	Seed *int `yaml:"seed"`
}

// boardFile is the YAML representation of the configuration. Every field is
// optional so that only fields present in the file overlay the defaults.
type boardFile struct {
	LockCycles      *int                   `yaml:"lock_cycles"`
	POR             *porFile               `yaml:"por"`
	ResetSyncStages *int                   `yaml:"reset_sync_stages"`
	SyncStages      *int                   `yaml:"sync_stages"`
	ROMSize         *uint32                `yaml:"rom_size"`
	SRAMSize        *uint32                `yaml:"sram_size"`
	EmulatorRAM     *bool                  `yaml:"emulator_ram"`
	Channels        map[string]channelFile `yaml:"channels"`
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func setUint32(dst *uint32, src *uint32) {
	if src != nil {
		*dst = *src
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func (bf boardFile) apply(cfg *Config) error {
	setInt(&cfg.LockCycles, bf.LockCycles)
	if bf.POR != nil {
		setInt(&cfg.PORBits, bf.POR.Bits)
		if bf.POR.Bits != nil && bf.POR.Seed == nil {
			// a narrower counter with no explicit seed is seeded with the
			// largest value it can hold
			cfg.PORSeed = cfg.PORMax()
		}
		setInt(&cfg.PORSeed, bf.POR.Seed)
	}
	setInt(&cfg.ResetSyncStages, bf.ResetSyncStages)
	setInt(&cfg.SyncStages, bf.SyncStages)
	setUint32(&cfg.ROMSize, bf.ROMSize)
	setUint32(&cfg.SRAMSize, bf.SRAMSize)
	setBool(&cfg.EmulatorRAM, bf.EmulatorRAM)

	for name, cf := range bf.Channels {
		idx := -1
		for i := range cfg.Channels {
			if cfg.Channels[i].Name == name {
				idx = i
				break
			}
		}
		if idx == -1 {
			return curated.Errorf(InvalidChannel, name, "name", "no such channel on the board")
		}

		ch := &cfg.Channels[idx]
		setString(&ch.Pads, cf.Pads)
		setString(&ch.ClockPads, cf.ClockPads)
		if cf.Role != nil {
			ch.Role = *cf.Role
		}
		setString(&ch.Region, cf.Region)
		setUint32(&ch.Origin, cf.Origin)
		setUint32(&ch.Size, cf.Size)
		setString(&ch.Module, cf.Module)
		setInt(&ch.ReadBitslip, cf.ReadBitslip)
		setInt(&ch.WriteBitslip, cf.WriteBitslip)
		setString(&ch.DQSAlignment, cf.DQSAlignment)
		if cf.L2 != nil {
			setInt(&ch.L2.Size, cf.L2.Size)
			setInt(&ch.L2.MinDataWidth, cf.L2.MinDataWidth)
			setBool(&ch.L2.Reverse, cf.L2.Reverse)
		}
	}

	return nil
}

// Parse a board file and overlay it on the default configuration. The
// result is validated before it is returned.
func Parse(data []byte) (*Config, error) {
	var bf boardFile
	if err := yaml.UnmarshalStrict(data, &bf); err != nil {
		return nil, curated.Errorf(BoardFileError, err)
	}

	cfg := Default()
	if err := bf.apply(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Load the board file at path. An empty path returns the default
// configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf(BoardFileError, err)
	}

	return Parse(data)
}

// Marshal the configuration as a board file.
func (cfg *Config) Marshal() ([]byte, error) {
	bf := boardFile{
		LockCycles:      &cfg.LockCycles,
		POR:             &porFile{Bits: &cfg.PORBits, Seed: &cfg.PORSeed},
		ResetSyncStages: &cfg.ResetSyncStages,
		SyncStages:      &cfg.SyncStages,
		ROMSize:         &cfg.ROMSize,
		SRAMSize:        &cfg.SRAMSize,
		EmulatorRAM:     &cfg.EmulatorRAM,
		Channels:        make(map[string]channelFile),
	}

	for i := range cfg.Channels {
		ch := &cfg.Channels[i]
		bf.Channels[ch.Name] = channelFile{
			Pads:         &ch.Pads,
			ClockPads:    &ch.ClockPads,
			Role:         &ch.Role,
			Region:       &ch.Region,
			Origin:       &ch.Origin,
			Size:         &ch.Size,
			Module:       &ch.Module,
			ReadBitslip:  &ch.ReadBitslip,
			WriteBitslip: &ch.WriteBitslip,
			DQSAlignment: &ch.DQSAlignment,
			L2: &l2File{
				Size:         &ch.L2.Size,
				MinDataWidth: &ch.L2.MinDataWidth,
				Reverse:      &ch.L2.Reverse,
			},
		}
	}

	return yaml.Marshal(bf)
}
