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

package platform_test

import (
	"testing"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/platform"
	"github.com/zeroclient/panog2/test"
)

func TestRequest(t *testing.T) {
	plt := platform.NewPanoG2()

	clk, err := plt.Request(platform.DefaultClkName)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, clk.Kind, platform.Clock)
	test.ExpectEquality(t, clk.Period, 8.0)

	_, err = plt.Request(platform.DefaultClkName)
	test.ExpectSuccess(t, curated.Is(err, platform.AlreadyRequested))

	_, err = plt.Request("hdmi")
	test.ExpectSuccess(t, curated.Is(err, platform.UnknownResource))

	rst, err := plt.Request("cpu_reset")
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, rst.ActiveLow)

	ck, err := plt.Request("ddram_clock_a")
	test.ExpectSuccess(t, err)
	ck.Drive(true)
	test.ExpectSuccess(t, ck.P())
	test.ExpectFailure(t, ck.N())
}

func TestRequestDDR(t *testing.T) {
	plt := platform.NewPanoG2()

	_, err := plt.Request("ddram_a")
	test.ExpectSuccess(t, curated.Is(err, platform.WrongKind))

	pads, err := plt.RequestDDR("ddram_a")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, pads.Name, "ddram_a")
	test.ExpectEquality(t, pads.AddressBits, 13)
	test.ExpectEquality(t, pads.BankBits, 2)
	test.ExpectEquality(t, pads.DataBits, 16)

	_, err = plt.RequestDDR("ddram_a")
	test.ExpectSuccess(t, curated.Is(err, platform.AlreadyRequested))

	_, err = plt.RequestDDR("gmii_rst_n")
	test.ExpectSuccess(t, curated.Is(err, platform.WrongKind))

	// failed requests do not claim the resource
	test.ExpectEquality(t, len(plt.Unrequested()), 6)
}
