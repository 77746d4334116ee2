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

package logger

import (
	"fmt"
	"hash/fnv"
)

const normalPen = "\033[0m"

// pens used for tags. a tag always gets the same pen.
var pens = []string{
	"\033[32m", // green
	"\033[33m", // yellow
	"\033[34m", // blue
	"\033[35m", // magenta
	"\033[36m", // cyan
}

func colourise(e Entry) string {
	h := fnv.New32a()
	h.Write([]byte(e.Tag))
	pen := pens[h.Sum32()%uint32(len(pens))]

	s := fmt.Sprintf("%s%s%s: %s", pen, e.Tag, normalPen, e.Detail)
	if e.Repeated > 0 {
		s = fmt.Sprintf("%s (repeat x%d)", s, e.Repeated+1)
	}
	return s
}
