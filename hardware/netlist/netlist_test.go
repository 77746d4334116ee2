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

package netlist_test

import (
	"strings"
	"testing"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/netlist"
	"github.com/zeroclient/panog2/test"
)

func TestNetlist(t *testing.T) {
	nl := netlist.NewNetlist()

	b, err := nl.Add("BUFG", "bufg_a")
	test.ExpectSuccess(t, err)
	b.I("I", "half_a").O("O", "half_a_bufg")

	b, err = nl.Add("BUFG", "bufg_b")
	test.ExpectSuccess(t, err)
	b.I("I", "half_a").O("O", "half_b_bufg")

	_, err = nl.Add("BUFG", "bufg_a")
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, netlist.DuplicateInstance))

	test.ExpectEquality(t, nl.Len(), 2)
	test.ExpectEquality(t, len(nl.Kind("BUFG")), 2)
	test.ExpectEquality(t, len(nl.Kind("BUFPLL")), 0)
	test.ExpectEquality(t, strings.Join(nl.Loads("half_a"), ","), "bufg_a,bufg_b")

	d, ok := nl.Driver("half_b_bufg")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, d.Name, "bufg_b")

	_, ok = nl.Driver("half_a")
	test.ExpectFailure(t, ok)

	test.ExpectSuccess(t, nl.Validate())

	// second driver on an existing net
	b, _ = nl.Add("BUFG", "bufg_c")
	b.I("I", "half_a").O("O", "half_a_bufg")
	err = nl.Validate()
	test.ExpectSuccess(t, curated.Is(err, netlist.MultipleDrivers))
}

func TestInstance(t *testing.T) {
	nl := netlist.NewNetlist()
	b, _ := nl.Add("BUFPLL", "bufpll_a")
	inst := b.P("DIVIDE", 4).P("p_ENABLE_SYNC", "TRUE").I("PLLIN", "full").O("IOCLK", "ioclk_a").Instance()

	v, ok := inst.Param("DIVIDE")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, v.(int), 4)

	n, ok := inst.Net("IOCLK")
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, n, "ioclk_a")

	_, ok = inst.Net("SERDESSTROBE")
	test.ExpectFailure(t, ok)

	test.ExpectEquality(t, inst.String(), `BUFPLL bufpll_a #(DIVIDE=4, p_ENABLE_SYNC="TRUE")`)

	found, err := nl.Lookup("bufpll_a")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, found, inst)

	_, err = nl.Lookup("bufpll_b")
	test.ExpectSuccess(t, curated.Is(err, netlist.UnknownInstance))

	w := &strings.Builder{}
	nl.Write(w)
	test.ExpectSuccess(t, strings.Contains(w.String(), ".IOCLK"))
	test.ExpectEquality(t, strings.Join(nl.Nets(), ","), "full,ioclk_a")
}

func TestInstantiate(t *testing.T) {
	nl := netlist.NewNetlist()
	nl.Instantiate("OBUFDS", "obufds_a").I("I", "output_clk_a").O("O", "ddram_clock_a_p").O("OB", "ddram_clock_a_n")
	test.ExpectSuccess(t, nl.Err())

	nl.Instantiate("OBUFDS", "obufds_a").I("I", "output_clk_b")
	nl.Instantiate("OBUFDS", "obufds_a").I("I", "output_clk_c")
	test.ExpectSuccess(t, curated.Is(nl.Err(), netlist.DuplicateInstance))
	test.ExpectEquality(t, nl.Len(), 1)

	inst, _ := nl.Lookup("obufds_a")
	n, _ := inst.Net("I")
	test.ExpectEquality(t, n, "output_clk_a")
}
