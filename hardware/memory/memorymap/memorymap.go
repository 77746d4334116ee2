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
	"sort"

	"github.com/zeroclient/panog2/curated"
)

// Kind represents the different kinds of memory region.
type Kind int

func (k Kind) String() string {
	switch k {
	case ROM:
		return "ROM"
	case SRAM:
		return "SRAM"
	case SDRAM:
		return "SDRAM"
	case CSR:
		return "CSR"
	}

	return "undefined"
}

// The different kinds of region in the SoC.
const (
	Undefined Kind = iota
	ROM
	SRAM
	SDRAM
	CSR
)

// The origin and size of the fixed regions in the SoC. The size of the
// SDRAM regions depends on the module fitted to the board.
const (
	OriginROM         = uint32(0x00000000)
	SizeROM           = uint32(0x8000)
	OriginSRAM        = uint32(0x10000000)
	SizeSRAM          = uint32(0x8000)
	OriginMainRAM     = uint32(0x40000000)
	OriginMainRAM2    = uint32(0x44000000)
	OriginEmulatorRAM = uint32(0x50000000)
	SizeEmulatorRAM   = uint32(0x4000)
	OriginCSR         = uint32(0x60000000)
	SizeCSR           = uint32(0x10000)
)

// Sentinal error patterns.
const (
	Overlap       = "memorymap: region %s overlaps %s"
	InvalidRegion = "memorymap: region %s: %v"
	Unmapped      = "memorymap: unmapped address (%#08x)"
	UnknownRegion = "memorymap: no region named %s"
)

// Region is a named range of the address space.
type Region struct {
	Name   string
	Origin uint32
	Size   uint32
	Kind   Kind
}

// Memtop returns the last address in the region.
func (r Region) Memtop() uint32 {
	return r.Origin + r.Size - 1
}

// Contains returns true if the address is inside the region.
func (r Region) Contains(address uint32) bool {
	return address >= r.Origin && address-r.Origin < r.Size
}

// Overlaps returns true if the two regions share at least one address.
func (r Region) Overlaps(o Region) bool {
	return r.Origin <= o.Memtop() && o.Origin <= r.Memtop()
}

func (r Region) String() string {
	return fmt.Sprintf("%s %#08x -> %#08x (%s)", r.Name, r.Origin, r.Memtop(), r.Kind)
}

// Map is the collection of regions in the address space.
type Map struct {
	regions []Region
}

// NewMap is the preferred method of initialisation for the Map type.
func NewMap() *Map {
	return &Map{}
}

// Add a region to the map. The region must have a name that is not already
// in use, a non-zero size, must not wrap around the top of the address space
// and must not overlap any existing region.
func (m *Map) Add(r Region) error {
	if r.Name == "" {
		return curated.Errorf(InvalidRegion, "?", "no name")
	}
	if r.Size == 0 {
		return curated.Errorf(InvalidRegion, r.Name, "zero size")
	}
	if uint64(r.Origin)+uint64(r.Size) > 1<<32 {
		return curated.Errorf(InvalidRegion, r.Name, "extends beyond the address space")
	}

	for _, e := range m.regions {
		if e.Name == r.Name {
			return curated.Errorf(InvalidRegion, r.Name, "name already in use")
		}
		if e.Overlaps(r) {
			return curated.Errorf(Overlap, r.Name, e.Name)
		}
	}

	m.regions = append(m.regions, r)
	sort.Slice(m.regions, func(i, j int) bool {
		return m.regions[i].Origin < m.regions[j].Origin
	})

	return nil
}

// Decode returns the region the address falls within and the address
// relative to the region's origin.
func (m *Map) Decode(address uint32) (Region, uint32, error) {
	for _, r := range m.regions {
		if r.Contains(address) {
			return r, address - r.Origin, nil
		}
	}
	return Region{}, 0, curated.Errorf(Unmapped, address)
}

// Lookup returns the named region.
func (m *Map) Lookup(name string) (Region, error) {
	for _, r := range m.regions {
		if r.Name == name {
			return r, nil
		}
	}
	return Region{}, curated.Errorf(UnknownRegion, name)
}

// Regions returns the regions in order of origin.
func (m *Map) Regions() []Region {
	return m.regions
}
