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

package govern_test

import (
	"testing"

	"github.com/zeroclient/panog2/govern"
	"github.com/zeroclient/panog2/test"
)

func TestState(t *testing.T) {
	test.ExpectEquality(t, govern.Running.String(), "Running")
	test.ExpectEquality(t, govern.State(99).String(), "")

	test.ExpectFailure(t, govern.Running.Stopped())
	test.ExpectFailure(t, govern.Paused.Stopped())
	test.ExpectSuccess(t, govern.Ending.Stopped())
	test.ExpectSuccess(t, govern.Initialising.Stopped())
}
