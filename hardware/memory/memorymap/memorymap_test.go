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

package memorymap_test

import (
	"testing"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/memory/memorymap"
	"github.com/zeroclient/panog2/test"
)

const sdramSize = uint32(0x4000000)

func board(t *testing.T) *memorymap.Map {
	t.Helper()

	m := memorymap.NewMap()
	test.ExpectSuccess(t, m.Add(memorymap.Region{Name: "rom", Origin: memorymap.OriginROM, Size: memorymap.SizeROM, Kind: memorymap.ROM}))
	test.ExpectSuccess(t, m.Add(memorymap.Region{Name: "sram", Origin: memorymap.OriginSRAM, Size: memorymap.SizeSRAM, Kind: memorymap.SRAM}))
	test.ExpectSuccess(t, m.Add(memorymap.Region{Name: "csr", Origin: memorymap.OriginCSR, Size: memorymap.SizeCSR, Kind: memorymap.CSR}))
	test.ExpectSuccess(t, m.Add(memorymap.Region{Name: "main_ram_2", Origin: memorymap.OriginMainRAM2, Size: sdramSize, Kind: memorymap.SDRAM}))
	test.ExpectSuccess(t, m.Add(memorymap.Region{Name: "main_ram", Origin: memorymap.OriginMainRAM, Size: sdramSize, Kind: memorymap.SDRAM}))
	return m
}

const validMemMap = `00000000 -> 00007fff	rom (ROM)
00008000 -> 0fffffff	-
10000000 -> 10007fff	sram (SRAM)
10008000 -> 3fffffff	-
40000000 -> 43ffffff	main_ram (SDRAM)
44000000 -> 47ffffff	main_ram_2 (SDRAM)
48000000 -> 5fffffff	-
60000000 -> 6000ffff	csr (CSR)
`

func TestSummary(t *testing.T) {
	m := board(t)
	test.ExpectEquality(t, m.Summary(), validMemMap)
}

func TestDecode(t *testing.T) {
	m := board(t)

	r, a, err := m.Decode(0x44000000)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.Name, "main_ram_2")
	test.ExpectEquality(t, a, uint32(0))

	r, a, err = m.Decode(0x43ffffff)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.Name, "main_ram")
	test.ExpectEquality(t, a, sdramSize-1)

	_, _, err = m.Decode(0x48000000)
	test.ExpectSuccess(t, curated.Is(err, memorymap.Unmapped))

	r, err = m.Lookup("csr")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, r.Kind, memorymap.CSR)

	_, err = m.Lookup("emulator_ram")
	test.ExpectSuccess(t, curated.Is(err, memorymap.UnknownRegion))
}

func TestOverlap(t *testing.T) {
	m := board(t)

	// last byte of main_ram
	err := m.Add(memorymap.Region{Name: "x", Origin: 0x43ffffff, Size: 1, Kind: memorymap.SRAM})
	test.ExpectSuccess(t, curated.Is(err, memorymap.Overlap))

	// immediately after main_ram_2
	err = m.Add(memorymap.Region{Name: "x", Origin: 0x48000000, Size: 1, Kind: memorymap.SRAM})
	test.ExpectSuccess(t, err)

	err = m.Add(memorymap.Region{Name: "x", Origin: 0x49000000, Size: 1, Kind: memorymap.SRAM})
	test.ExpectSuccess(t, curated.Is(err, memorymap.InvalidRegion))

	err = m.Add(memorymap.Region{Name: "y", Origin: 0x49000000, Size: 0, Kind: memorymap.SRAM})
	test.ExpectSuccess(t, curated.Is(err, memorymap.InvalidRegion))

	err = m.Add(memorymap.Region{Name: "y", Origin: 0xffffff00, Size: 0x200, Kind: memorymap.SRAM})
	test.ExpectSuccess(t, curated.Is(err, memorymap.InvalidRegion))

	// regions are kept in order of origin
	regions := m.Regions()
	for i := 1; i < len(regions); i++ {
		test.ExpectSuccess(t, regions[i-1].Memtop() < regions[i].Origin)
	}
}
