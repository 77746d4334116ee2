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

package logger_test

import (
	"os"
	"testing"

	"github.com/zeroclient/panog2/logger"
	"github.com/zeroclient/panog2/test"
)

type prohibit struct{}

func (_ prohibit) AllowLogging() bool {
	return false
}

func TestLogger(t *testing.T) {
	tw := &test.Writer{}

	logger.Clear()
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare(""))

	logger.Log(logger.Allow, "crg", "pll locked")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("crg: pll locked\n"))

	// clear the test.Writer buffer before continuing, makes comparisons easier
	// to manage
	tw.Clear()

	logger.Log(logger.Allow, "crg", "system reset released")
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("crg: pll locked\ncrg: system reset released\n"))

	// repeated entries are folded
	tw.Clear()
	logger.Log(logger.Allow, "crg", "system reset released")
	logger.Tail(tw, 1)
	test.ExpectSuccess(t, tw.Compare("crg: system reset released (repeat x2)\n"))

	// asking for too many entries in a Tail() should be okay
	tw.Clear()
	logger.Tail(tw, 100)
	test.ExpectSuccess(t, tw.Compare("crg: pll locked\ncrg: system reset released (repeat x2)\n"))

	// asking for exactly the correct number of entries is okay
	tw.Clear()
	logger.Tail(tw, 2)
	test.ExpectSuccess(t, tw.Compare("crg: pll locked\ncrg: system reset released (repeat x2)\n"))
}

func TestPermission(t *testing.T) {
	tw := &test.Writer{}

	logger.Clear()
	logger.Log(prohibit{}, "soc", "should not appear")
	logger.Log(logger.Deny, "soc", "should not appear")
	logger.Logf(logger.Allow, "soc", "region %s at %#08x", "main_ram", 0x40000000)
	logger.Write(tw)
	test.ExpectSuccess(t, tw.Compare("soc: region main_ram at 0x40000000\n"))
}

func TestRecent(t *testing.T) {
	tw := &test.Writer{}

	logger.Clear()
	logger.Log(logger.Allow, "pll", "a")
	logger.WriteRecent(tw)
	test.ExpectSuccess(t, tw.Compare("pll: a\n"))

	tw.Clear()
	logger.Log(logger.Allow, "pll", "b")
	logger.WriteRecent(tw)
	test.ExpectSuccess(t, tw.Compare("pll: b\n"))

	tw.Clear()
	logger.WriteRecent(tw)
	test.ExpectSuccess(t, tw.Compare(""))
}

func TestEcho(t *testing.T) {
	tw := &test.Writer{}

	logger.Clear()
	logger.SetEcho(tw)
	defer logger.SetEcho(nil)

	logger.Log(logger.Allow, "ddrphy", "strobes wired")
	test.ExpectSuccess(t, tw.Compare("ddrphy: strobes wired\n"))
}

func TestIsTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "panog2_log")
	test.ExpectSuccess(t, err)
	defer f.Close()
	test.ExpectFailure(t, logger.IsTerminal(f))
}
