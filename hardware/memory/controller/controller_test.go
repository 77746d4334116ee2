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

package controller_test

import (
	"testing"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/memory/controller"
	"github.com/zeroclient/panog2/hardware/memory/ddrphy"
	"github.com/zeroclient/panog2/hardware/memory/sdram"
	"github.com/zeroclient/panog2/test"
)

var phySettings = ddrphy.Settings{
	Memtype:     sdram.DDR2,
	DataBits:    16,
	DFIDataBits: 32,
	NPhases:     2,
	NRanks:      1,
}

func newController(t *testing.T, settings controller.Settings) *controller.Controller {
	t.Helper()
	mod, err := sdram.MT47H32M16.Settings(50, "1:2")
	test.ExpectSuccess(t, err)
	ctrl, err := controller.NewController("main_ram", phySettings, mod, settings)
	if !test.ExpectSuccess(t, err) {
		t.FailNow()
	}
	return ctrl
}

func TestDecode(t *testing.T) {
	ctrl := newController(t, controller.NewSettings())
	test.ExpectEquality(t, ctrl.Size(), uint32(0x4000000))

	loc, err := ctrl.Decode(0)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, loc, controller.Location{})

	// one controller word is eight bytes and covers four columns
	loc, _ = ctrl.Decode(8)
	test.ExpectEquality(t, loc, controller.Location{Col: 4})

	// 256 words in a row of a bank
	loc, _ = ctrl.Decode(256 * 8)
	test.ExpectEquality(t, loc, controller.Location{Bank: 1})

	loc, _ = ctrl.Decode(4 * 256 * 8)
	test.ExpectEquality(t, loc, controller.Location{Row: 1})

	loc, _ = ctrl.Decode(0x3fffff8)
	test.ExpectEquality(t, loc, controller.Location{Row: 8191, Bank: 3, Col: 1020})

	_, err = ctrl.Decode(0x4000000)
	test.ExpectSuccess(t, curated.Is(err, controller.OutOfRange))
}

func TestReadWrite(t *testing.T) {
	settings := controller.NewSettings()
	settings.WithBandwidth = true
	ctrl := newController(t, settings)

	test.ExpectSuccess(t, ctrl.WriteWords(0x100, []uint32{1, 2, 3, 4}))
	w := make([]uint32, 4)
	test.ExpectSuccess(t, ctrl.ReadWords(0x100, w))
	test.ExpectEquality(t, w[3], uint32(4))

	v, err := ctrl.Peek(0x104)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, v, uint32(2))

	bw := ctrl.Bandwidth()
	test.ExpectEquality(t, bw.Reads, 1)
	test.ExpectEquality(t, bw.Writes, 1)
	test.ExpectEquality(t, bw.BytesRead, 16)
	test.ExpectEquality(t, bw.BytesWritten, 16)

	row, open := ctrl.OpenRow(0)
	test.ExpectSuccess(t, open)
	test.ExpectEquality(t, row, 0)

	test.ExpectSuccess(t, curated.Is(ctrl.WriteWords(0x102, []uint32{1}), controller.Misaligned))
	test.ExpectSuccess(t, curated.Is(ctrl.ReadWords(0x3fffffc, w), controller.OutOfRange))

	// no accounting
	ctrl = newController(t, controller.NewSettings())
	test.ExpectSuccess(t, ctrl.WriteWords(0x100, []uint32{1}))
	test.ExpectEquality(t, ctrl.Bandwidth(), controller.Bandwidth{})
}

func TestRefresh(t *testing.T) {
	ctrl := newController(t, controller.NewSettings())
	test.ExpectSuccess(t, ctrl.WriteWords(0, []uint32{1}))

	for i := 0; i < 390*3; i++ {
		ctrl.Tick(0, false)
	}
	test.ExpectEquality(t, ctrl.Refreshes(), 3)

	_, open := ctrl.OpenRow(0)
	test.ExpectFailure(t, open)

	// reset stops refresh
	ctrl.Tick(0, true)
	for i := 0; i < 389; i++ {
		ctrl.Tick(0, false)
	}
	test.ExpectEquality(t, ctrl.Refreshes(), 3)
}

func TestGeometry(t *testing.T) {
	mod, err := sdram.MT47H32M16.Settings(50, "1:2")
	test.ExpectSuccess(t, err)
	mod.Geometry.AddressBits = 15

	_, err = controller.NewController("main_ram_2", phySettings, mod, controller.NewSettings())
	test.ExpectSuccess(t, curated.Is(err, controller.InvalidGeometry))
	test.ExpectEquality(t, err.Error(), "controller: main_ram_2: module needs 15 address bits but the controller supports 14")
}
