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

package crg_test

import (
	"testing"

	"github.com/zeroclient/panog2/config"
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/hardware/crg"
	"github.com/zeroclient/panog2/hardware/netlist"
	"github.com/zeroclient/panog2/hardware/platform"
	"github.com/zeroclient/panog2/test"
)

const lockCycles = 4

// sys clock period in steps
const sysPeriod = clocks.Step(160)

func newCRG(t *testing.T) (*crg.CRG, *netlist.Netlist) {
	t.Helper()

	cfg, err := config.Default().Derive(func(c *config.Config) {
		c.LockCycles = lockCycles
	})
	test.ExpectSuccess(t, err)

	nl := netlist.NewNetlist()
	c, err := crg.NewCRG(cfg, platform.NewPanoG2(), nl)
	if !test.ExpectSuccess(t, err) {
		t.FailNow()
	}
	return c, nl
}

// run steps the CRG from step "from" until the system reset is released or
// the limit is reached. returns the step at which the reset was released or
// -1 if it was not.
func run(c *crg.CRG, from clocks.Step, limit clocks.Step) clocks.Step {
	for t := from; t < from+limit; t++ {
		c.Step(t)
		if !c.SysReset() {
			return t
		}
	}
	return -1
}

func TestPowerOn(t *testing.T) {
	c, _ := newCRG(t)
	test.ExpectSuccess(t, c.SysReset())
	test.ExpectEquality(t, c.State(), crg.Asserted)
	test.ExpectEquality(t, c.PORCount(), 2047)

	lockAt, ok := c.PLL().LockAt()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, lockAt, clocks.Step(lockCycles*64))

	var edges int
	var prev int
	var t0 clocks.Step
	released := false

	for t0 = 0; t0 < 2100*sysPeriod; t0++ {
		c.Step(t0)
		if !c.Sys.Rising(t0) {
			continue
		}

		if t0 < lockAt {
			test.ExpectEquality(t, c.State(), crg.Asserted)
			test.ExpectEquality(t, c.PORCount(), 2047)
			prev = c.PORCount()
			continue
		}

		edges++

		// counter never goes up while counting and never decreases by more
		// than one per edge
		por := c.PORCount()
		test.ExpectSuccess(t, por >= 0)
		if c.State() != crg.Asserted {
			test.ExpectEquality(t, prev-por, 1)
		}
		prev = por

		// reset is released on the same edge the counter reaches zero
		test.ExpectEquality(t, c.SysReset(), por != 0)

		if !c.SysReset() {
			released = true
			break
		}
	}

	test.ExpectSuccess(t, released)
	test.ExpectEquality(t, edges, 2048)
	test.ExpectEquality(t, c.State(), crg.Deasserted)

	// counter stays at zero
	for t1 := t0 + 1; t1 < t0+10*sysPeriod; t1++ {
		c.Step(t1)
	}
	test.ExpectEquality(t, c.PORCount(), 0)
	test.ExpectFailure(t, c.SysReset())

	st := c.Status()
	test.ExpectSuccess(t, st.Locked)
	test.ExpectEquality(t, st.Resets, 0)
	test.ExpectEquality(t, st.Word(), uint32(crg.StatusLocked|int(crg.Deasserted)<<crg.StatusStateBit))
}

func TestNeverLocks(t *testing.T) {
	c, _ := newCRG(t)
	c.LoseLock()
	test.ExpectEquality(t, run(c, 0, 5000*sysPeriod), clocks.Step(-1))
	test.ExpectEquality(t, c.State(), crg.Asserted)
	test.ExpectFailure(t, c.Status().Locked)
}

func TestResetCauses(t *testing.T) {
	hold := func(t *testing.T, c *crg.CRG, s clocks.Step) {
		t.Helper()
		test.ExpectSuccess(t, c.SysReset())
		for i := s; i < s+sysPeriod; i++ {
			c.Step(i)
			test.ExpectSuccess(t, c.SysReset())
		}
	}

	causes := map[string]func(t *testing.T, c *crg.CRG, s clocks.Step){
		"pin": func(t *testing.T, c *crg.CRG, s clocks.Step) {
			c.PressReset()
			hold(t, c, s)
			c.ReleaseReset()
		},
		"software": func(t *testing.T, c *crg.CRG, s clocks.Step) {
			c.RequestReset()
			hold(t, c, s)
		},
		"lock": func(t *testing.T, c *crg.CRG, s clocks.Step) {
			c.LoseLock()
			hold(t, c, s)
			c.Relock(s + sysPeriod)
		},
	}

	for name, cause := range causes {
		t.Run(name, func(t *testing.T) {
			c, _ := newCRG(t)
			r := run(c, 0, 3000*sysPeriod)
			test.ExpectInequality(t, r, clocks.Step(-1))

			// assertion is immediate and held while the cause is present
			cause(t, c, r+1)
			test.ExpectEquality(t, c.PORCount(), 2047)
			test.ExpectEquality(t, c.State(), crg.Asserted)

			// and the system comes out of reset again
			r2 := run(c, r+1+sysPeriod, 3000*sysPeriod)
			test.ExpectInequality(t, r2, clocks.Step(-1))
			test.ExpectSuccess(t, r2-r >= 2048*sysPeriod)
			test.ExpectEquality(t, c.Status().Resets, 1)
		})
	}
}

func TestPinMidCount(t *testing.T) {
	c, _ := newCRG(t)

	var s clocks.Step
	for s = 0; c.PORCount() > 1000; s++ {
		c.Step(s)
	}
	test.ExpectEquality(t, c.State(), crg.Counting)

	// pulse the pin for one system cycle
	c.PressReset()
	test.ExpectEquality(t, c.PORCount(), 2047)
	test.ExpectSuccess(t, c.SysReset())
	test.ExpectFailure(t, c.ResetPin())
	for i := s; i < s+sysPeriod; i++ {
		c.Step(i)
	}
	c.ReleaseReset()
	test.ExpectSuccess(t, c.ResetPin())
	test.ExpectEquality(t, c.PORCount(), 2047)

	// counting resumes from the seed
	for i := s + sysPeriod; i < s+4*sysPeriod; i++ {
		c.Step(i)
	}
	test.ExpectSuccess(t, c.PORCount() < 2047)
	test.ExpectSuccess(t, c.PORCount() > 2040)
}

func TestHalfRatePhases(t *testing.T) {
	c, _ := newCRG(t)
	p := c.PLL()

	full, fi, err := p.Named(crg.OutputFull)
	test.ExpectSuccess(t, err)
	_, hi, err := p.Named(crg.OutputHalf)
	test.ExpectSuccess(t, err)
	_, si, err := p.Named(crg.OutputHalfShifted)
	test.ExpectSuccess(t, err)

	test.ExpectApproximate(t, p.Frequency(hi), p.Frequency(fi)/2, 1e-9)
	test.ExpectApproximate(t, p.Frequency(si), p.Frequency(fi)/2, 1e-9)
	test.ExpectApproximate(t, p.Frequency(fi), clocks.MemoryFull, 1e-9)

	res := p.PhaseResolution(hi)
	test.ExpectApproximate(t, p.Phase(hi), 270, res/2)
	test.ExpectApproximate(t, p.Phase(si), 250, res/2)
	test.ExpectApproximate(t, p.Phase(hi)-p.Phase(si), 20, res)

	// every channel has the same phase relationship
	for _, ch := range c.Channels {
		hp, ok := clocks.PeriodOf(ch.Half.Clk)
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, hp, 2*full.Period)
	}
}

func TestStrobes(t *testing.T) {
	c, _ := newCRG(t)
	lockAt, _ := c.PLL().LockAt()

	ioPeriod := clocks.Step(40)

	check := func(ch *crg.ChannelClocks, from clocks.Step) {
		t.Helper()

		// read and write share clock and strobe
		test.ExpectSuccess(t, ch.FullRd.Clk == ch.FullWr.Clk)
		test.ExpectSuccess(t, ch.RdStrobe == ch.WrStrobe)

		edges := clocks.RisingEdges(ch.WrStrobe, from, 8, 10*sysPeriod)
		test.ExpectEquality(t, len(edges), 8)
		for i := 1; i < len(edges); i++ {
			test.ExpectEquality(t, edges[i]-edges[i-1], 4*ioPeriod)
		}
		for _, e := range edges {
			// strobe rises on the IOCLK edge before the system clock edge
			test.ExpectEquality(t, e%sysPeriod, sysPeriod-ioPeriod)
			test.ExpectSuccess(t, clocks.Rising(ch.FullWr.Clk, e))
			test.ExpectFailure(t, ch.WrStrobe.Level(e+ioPeriod))
		}
	}

	// no strobe before lock
	for _, ch := range c.Channels {
		test.ExpectEquality(t, len(clocks.RisingEdges(ch.WrStrobe, 0, 1, lockAt)), 0)
		check(ch, lockAt)
	}

	// same phase after lock is lost and regained
	c.LoseLock()
	for _, ch := range c.Channels {
		test.ExpectFailure(t, ch.WrStrobe.Level(lockAt+3*sysPeriod-1))
	}
	c.Relock(12345)
	for _, ch := range c.Channels {
		check(ch, 12345)
	}
}

func TestMemoryClock(t *testing.T) {
	c, _ := newCRG(t)
	ch, err := c.Channel("a")
	test.ExpectSuccess(t, err)

	_, err = c.Channel("c")
	test.ExpectSuccess(t, curated.Is(err, crg.UnknownChannel))

	var high int
	for s := clocks.Step(0); s < 800; s++ {
		c.Step(s)
		test.ExpectInequality(t, ch.MemClock.P(s), ch.MemClock.N(s))
		test.ExpectEquality(t, ch.Pin().P(), ch.MemClock.P(s))
		if ch.MemClock.P(s) {
			high++
		}
		test.ExpectEquality(t, ch.ODDR2.C1().Level(s), !ch.HalfShifted.Level(s))
	}
	test.ExpectEquality(t, high, 400)

	edges := clocks.RisingEdges(ch.MemClock, 1, 3, 400)
	test.ExpectEquality(t, len(edges), 3)
	for _, e := range edges {
		test.ExpectEquality(t, e%80, clocks.Step(56))
	}
}

func TestDomains(t *testing.T) {
	c, _ := newCRG(t)

	names := []string{"por", "sys", "sdram_full_wr_b", "sdram_full_rd_b", "sdram_half_b", "sdram_full_wr_a", "sdram_full_rd_a", "sdram_half_a"}
	test.ExpectEquality(t, len(c.Domains()), len(names))
	for i, n := range names {
		test.ExpectEquality(t, c.Domains()[i].Name, n)
		d, err := c.Domain(n)
		test.ExpectSuccess(t, err)
		test.ExpectEquality(t, d.Name, n)
	}

	_, err := c.Domain("encoder")
	test.ExpectSuccess(t, curated.Is(err, crg.UnknownDomain))

	a, _ := c.Channel("a")
	b, _ := c.Channel("b")
	test.ExpectInequality(t, a.BufPLL, b.BufPLL)
}

func TestNetlist(t *testing.T) {
	_, nl := newCRG(t)
	test.ExpectSuccess(t, nl.Validate())

	test.ExpectEquality(t, len(nl.Kind("PLL_ADV")), 1)
	test.ExpectEquality(t, len(nl.Kind("BUFPLL")), 2)
	test.ExpectEquality(t, len(nl.Kind("BUFG")), 5)
	test.ExpectEquality(t, len(nl.Kind("ODDR2")), 2)
	test.ExpectEquality(t, len(nl.Kind("OBUFDS")), 2)

	pll, err := nl.Lookup("crg_pll_adv")
	test.ExpectSuccess(t, err)
	v, _ := pll.Param("CLKFBOUT_MULT")
	test.ExpectEquality(t, v.(int), 8)
	v, _ = pll.Param("CLKOUT3_PHASE")
	test.ExpectEquality(t, v.(float64), 250.0)
	v, _ = pll.Param("CLKIN1_PERIOD")
	test.ExpectEquality(t, v.(float64), 8.0)

	// reserved outputs are generated but not consumed
	test.ExpectEquality(t, len(nl.Loads("unbuf_reserved0")), 0)
	d, ok := nl.Driver("unbuf_reserved1")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, d.Name, "crg_pll_adv")

	// each BUFPLL drives its own strobe
	d, ok = nl.Driver("clk4x_wr_strb_a")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, d.Name, "sdram_full_bufpll_a")
}

func TestBufPLLValidation(t *testing.T) {
	full := clocks.Periodic{Period: 40, High: 20}
	sys := clocks.Periodic{Period: 160, High: 80}

	_, err := crg.NewBufPLL("x", 2, full, sys, clocks.Constant(true))
	test.ExpectSuccess(t, curated.Is(err, crg.InvalidClocking))

	_, err = crg.NewBufPLL("x", 4, full, clocks.Periodic{Period: 160, Offset: 10, High: 80}, clocks.Constant(true))
	test.ExpectSuccess(t, curated.Is(err, crg.InvalidClocking))

	b, err := crg.NewBufPLL("x", 4, full, sys, clocks.Constant(true))
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, b.StrobePeriod(), clocks.Step(160))
}

func TestConfigMismatch(t *testing.T) {
	cfg, err := config.Default().Derive(func(c *config.Config) {
		c.SysFreq = 25
	})
	test.ExpectSuccess(t, err)
	_, err = crg.NewCRG(cfg, platform.NewPanoG2(), netlist.NewNetlist())
	test.ExpectSuccess(t, curated.Is(err, crg.InvalidClocking))

	cfg, err = config.Default().Derive(func(c *config.Config) {
		c.PLLMult = 16
	})
	test.ExpectSuccess(t, err)
	_, err = crg.NewCRG(cfg, platform.NewPanoG2(), netlist.NewNetlist())
	test.ExpectFailure(t, err)
}
