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

package trace_test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zeroclient/panog2/config"
	"github.com/zeroclient/panog2/hardware"
	"github.com/zeroclient/panog2/hardware/clocks"
	"github.com/zeroclient/panog2/test"
	"github.com/zeroclient/panog2/trace"
)

func newSoC(t *testing.T) *hardware.SoC {
	t.Helper()

	cfg, err := config.Default().Derive(func(c *config.Config) {
		c.LockCycles = 4
	})
	if !test.ExpectSuccess(t, err) {
		t.FailNow()
	}

	soc, err := hardware.NewSoC(cfg)
	if !test.ExpectSuccess(t, err) {
		t.FailNow()
	}
	return soc
}

func TestRecorder(t *testing.T) {
	r := trace.NewRecorder(
		trace.Probe{Name: "clk", Line: clocks.Periodic{Period: 4, High: 2}},
		trace.Probe{Name: "one", Line: clocks.Constant(true)},
	)

	for s := clocks.Step(10); s < 18; s++ {
		r.Sample(s)
	}

	c := r.Capture()
	test.ExpectEquality(t, c.Len(), 8)
	test.ExpectEquality(t, c.Start, clocks.Step(10))

	clk, err := c.Channel("clk")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(clk), 8)

	// step 10 is half way through the period
	test.ExpectFailure(t, clk[0])
	test.ExpectFailure(t, clk[1])
	test.ExpectSuccess(t, clk[2])
	test.ExpectSuccess(t, clk[3])

	_, err = c.Channel("two")
	test.ExpectFailure(t, err)
}

func TestProbes(t *testing.T) {
	soc := newSoC(t)
	probes := trace.Probes(soc)

	// three board signals and five per channel
	test.ExpectEquality(t, len(probes), 3+5*len(soc.Channels))

	r := trace.NewRecorder(probes...)
	r.Run(soc, 1000)

	c := r.Capture()
	test.ExpectEquality(t, c.Len(), 1000)
	test.ExpectEquality(t, c.Start, clocks.Step(0))

	// lock happens at step 256 with a lock time of four reference cycles
	lck, err := c.Channel("pll_lckd")
	test.ExpectSuccess(t, err)
	test.ExpectFailure(t, lck[255])
	test.ExpectSuccess(t, lck[256])

	// the system reset is held through the whole capture
	rst, err := c.Channel("sys_rst")
	test.ExpectSuccess(t, err)
	for _, l := range rst {
		if !test.ExpectSuccess(t, l) {
			break
		}
	}

	// no strobes before lock
	strb, err := c.Channel("clk4x_wr_strb_b")
	test.ExpectSuccess(t, err)
	var n int
	for i, l := range strb {
		if l {
			test.ExpectSuccess(t, i >= 256)
			n++
		}
	}
	test.ExpectSuccess(t, n > 0)
}

func TestWAV(t *testing.T) {
	soc := newSoC(t)
	r := trace.NewRecorder(trace.Probes(soc)...)
	r.Run(soc, 640)
	c := r.Capture()

	fn := filepath.Join(t.TempDir(), "trace.wav")
	f, err := os.Create(fn)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, trace.WriteWAV(f, c))
	test.ExpectSuccess(t, f.Close())

	f, err = os.Open(fn)
	test.ExpectSuccess(t, err)
	defer f.Close()

	d, err := trace.ReadWAV(f)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, len(d.Names), len(c.Names))
	test.ExpectEquality(t, d.Names[0], "ch0")
	test.ExpectEquality(t, d.Len(), c.Len())

	for i := range c.Samples {
		for j := range c.Samples[i] {
			if !test.ExpectEquality(t, d.Samples[i][j], c.Samples[i][j]) {
				t.FailNow()
			}
		}
	}

	_, err = trace.ReadWAV(bytes.NewReader([]byte("not a wav file")))
	test.ExpectFailure(t, err)

	test.ExpectFailure(t, trace.WriteWAV(f, &trace.Capture{}))
}

func TestChart(t *testing.T) {
	soc := newSoC(t)
	r := trace.NewRecorder(trace.Probes(soc)...)
	r.Run(soc, 320)

	var b bytes.Buffer
	test.ExpectSuccess(t, trace.WriteChart(&b, r.Capture(), soc.CRG.Timebase(), "power on"))

	s := b.String()
	test.ExpectSuccess(t, strings.Contains(s, "power on"))
	test.ExpectSuccess(t, strings.Contains(s, "sys_clk"))
	test.ExpectSuccess(t, strings.Contains(s, "ddram_clock_a"))

	test.ExpectFailure(t, trace.WriteChart(&b, &trace.Capture{}, soc.CRG.Timebase(), ""))
}

func TestDigest(t *testing.T) {
	capture := func(lockCycles int) *trace.Capture {
		cfg, err := config.Default().Derive(func(c *config.Config) {
			c.LockCycles = lockCycles
		})
		test.ExpectSuccess(t, err)
		soc, err := hardware.NewSoC(cfg)
		test.ExpectSuccess(t, err)

		r := trace.NewRecorder(trace.Probes(soc)...)
		r.Run(soc, 1000)
		return r.Capture()
	}

	a := trace.NewDigest()
	a.Add(capture(4))
	b := trace.NewDigest()
	b.Add(capture(4))
	test.ExpectEquality(t, a.Hash(), b.Hash())

	c := trace.NewDigest()
	c.Add(capture(5))
	test.ExpectInequality(t, a.Hash(), c.Hash())

	a.ResetDigest()
	test.ExpectEquality(t, a.Hash(), fmt.Sprintf("%040x", 0))
}
