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

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/zeroclient/panog2/config"
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/test"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	test.ExpectSuccess(t, cfg.Validate())

	test.ExpectEquality(t, cfg.PLLMult, 8)
	test.ExpectEquality(t, cfg.PORSeed, 2047)
	test.ExpectEquality(t, cfg.PORMax(), 2047)

	p := cfg.Primary()
	test.ExpectEquality(t, p.Name, "b")
	test.ExpectEquality(t, p.Origin, uint32(0x40000000))

	a, err := cfg.Channel("a")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, a.Role, config.Secondary)
	test.ExpectEquality(t, a.Origin, uint32(0x44000000))
	test.ExpectEquality(t, a.ReadBitslip, 0)
	test.ExpectEquality(t, a.WriteBitslip, 4)
	test.ExpectEquality(t, cfg.ChannelSize(a), uint32(0x4000000))

	_, err = cfg.Channel("c")
	test.ExpectSuccess(t, curated.Is(err, config.InvalidConfig))
}

func TestWithPrimary(t *testing.T) {
	def := config.Default()

	cfg, err := def.WithPrimary("a")
	test.ExpectSuccess(t, err)

	a, _ := cfg.Channel("a")
	b, _ := cfg.Channel("b")
	test.ExpectEquality(t, a.Role, config.Primary)
	test.ExpectEquality(t, a.Origin, uint32(0x40000000))
	test.ExpectEquality(t, a.Region, "main_ram")
	test.ExpectEquality(t, b.Role, config.Secondary)
	test.ExpectEquality(t, b.Origin, uint32(0x44000000))
	test.ExpectEquality(t, b.Region, "main_ram_2")

	// original is not changed
	test.ExpectEquality(t, def.Primary().Name, "b")

	// already primary
	cfg, err = def.WithPrimary("b")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cfg.Primary().Name, "b")

	_, err = def.WithPrimary("c")
	test.ExpectFailure(t, err)
}

func TestValidate(t *testing.T) {
	def := config.Default()

	_, err := def.Derive(func(c *config.Config) {
		c.Channels[1].WriteBitslip = 8
	})
	test.ExpectSuccess(t, curated.Is(err, config.InvalidChannel))
	test.ExpectEquality(t, err.Error(), "config: channel a: wr_bitslip: 8 not in range 0 to 7")

	_, err = def.Derive(func(c *config.Config) {
		c.Channels[0].DQSAlignment = "C2"
	})
	test.ExpectSuccess(t, curated.Is(err, config.InvalidChannel))

	// two primaries
	_, err = def.Derive(func(c *config.Config) {
		c.Channels[1].Role = config.Primary
	})
	test.ExpectFailure(t, err)

	// no primary
	_, err = def.Derive(func(c *config.Config) {
		c.Channels[0].Role = config.Secondary
		c.Channels[0].Origin = 0x48000000
	})
	test.ExpectSuccess(t, curated.Is(err, config.InvalidConfig))

	// overlapping channels
	_, err = def.Derive(func(c *config.Config) {
		c.Channels[1].Origin = 0x42000000
		c.Channels[1].Size = 0x2000000
	})
	test.ExpectSuccess(t, curated.Is(err, config.InvalidChannel))

	// emulator ram overlaps a channel moved onto it
	_, err = def.Derive(func(c *config.Config) {
		c.EmulatorRAM = true
		c.Channels[1].Origin = 0x50000000
		c.Channels[1].Size = 0x1000000
	})
	test.ExpectSuccess(t, curated.Is(err, config.InvalidChannel))

	_, err = def.Derive(func(c *config.Config) {
		c.PORSeed = 4096
	})
	test.ExpectSuccess(t, curated.Is(err, config.InvalidConfig))

	_, err = def.Derive(func(c *config.Config) {
		c.Channels[0].L2.Size = 1000
	})
	test.ExpectSuccess(t, curated.Is(err, config.InvalidChannel))

	// no cache at all is fine
	_, err = def.Derive(func(c *config.Config) {
		c.Channels[0].L2.Size = 0
	})
	test.ExpectSuccess(t, err)
}

const board = `
lock_cycles: 16
por:
  bits: 4
channels:
  a:
    role: primary
    region: main_ram
    origin: 0x40000000
    l2:
      reverse: false
  b:
    role: secondary
    region: main_ram_2
    origin: 0x44000000
`

func TestParse(t *testing.T) {
	cfg, err := config.Parse([]byte(board))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cfg.LockCycles, 16)
	test.ExpectEquality(t, cfg.PORBits, 4)
	test.ExpectEquality(t, cfg.PORSeed, 15)
	test.ExpectEquality(t, cfg.Primary().Name, "a")

	a, _ := cfg.Channel("a")
	test.ExpectFailure(t, a.L2.Reverse)
	test.ExpectEquality(t, a.L2.Size, 8192)

	_, err = config.Parse([]byte("channels:\n  c:\n    role: primary\n"))
	test.ExpectSuccess(t, curated.Is(err, config.InvalidChannel))

	_, err = config.Parse([]byte("unknown_field: 1\n"))
	test.ExpectSuccess(t, curated.Is(err, config.BoardFileError))
}

func TestLoad(t *testing.T) {
	cfg, err := config.Load("")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cfg.LockCycles, 1024)

	pth := filepath.Join(t.TempDir(), "board.yaml")
	test.ExpectSuccess(t, os.WriteFile(pth, []byte(board), 0o600))

	cfg, err = config.Load(pth)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, cfg.Primary().Name, "a")

	// marshalled configuration parses back to the same values
	data, err := cfg.Marshal()
	test.ExpectSuccess(t, err)
	again, err := config.Parse(data)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, again.Primary().Name, "a")
	test.ExpectEquality(t, again.PORSeed, 15)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	test.ExpectSuccess(t, curated.Is(err, config.BoardFileError))
}
