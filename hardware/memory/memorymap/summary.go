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

package memorymap

import (
	"fmt"
	"strings"
)

// Summary returns a single multiline string detailing all the regions in the
// address space, including the gaps between them. Useful for reference.
func (m *Map) Summary() string {
	s := strings.Builder{}

	var next uint64
	for _, r := range m.regions {
		if uint64(r.Origin) > next {
			s.WriteString(fmt.Sprintf("%08x -> %08x\t-\n", next, r.Origin-1))
		}
		s.WriteString(fmt.Sprintf("%08x -> %08x\t%s (%s)\n", r.Origin, r.Memtop(), r.Name, r.Kind))
		next = uint64(r.Memtop()) + 1
	}

	return s.String()
}
