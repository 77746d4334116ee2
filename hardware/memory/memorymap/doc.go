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

// Package memorymap describes the address space of the SoC as seen from the
// system bus.
//
// The address space is made up of named regions. Each region has an origin,
// a size and a Kind. Regions never overlap and Add() will refuse a region
// that would overlap an existing one.
//
//	m := memorymap.NewMap()
//	_ = m.Add(memorymap.Region{Name: "main_ram", Origin: memorymap.OriginMainRAM, Size: 0x4000000, Kind: memorymap.SDRAM})
//	r, _ := m.Decode(0x40001000)
//
// The Decode() function returns the region an address falls within, along
// with the address relative to the region's origin.
package memorymap
