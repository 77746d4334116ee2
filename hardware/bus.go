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

package hardware

import (
	"encoding/binary"
	"fmt"

	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/memory/memorymap"
)

// Sentinal error patterns.
const (
	BusError    = "soc: bus error: %v"
	BusInReset  = "soc: bus access at %#08x while in reset"
	ROMTooLarge = "soc: rom image (%d bytes) is larger than the rom region (%d bytes)"
)

// busError records the error in the bus error register and returns it as a
// curated BusError.
func (soc *SoC) busError(err interface{}) error {
	soc.csr.busErrors++
	return curated.Errorf(BusError, err)
}

func (soc *SoC) decode(address uint32) (memorymap.Region, uint32, error) {
	if soc.CRG.SysReset() {
		return memorymap.Region{}, 0, curated.Errorf(BusInReset, address)
	}
	if address&0x03 != 0 {
		return memorymap.Region{}, 0, soc.busError(fmt.Sprintf("misaligned address %#08x", address))
	}
	r, offset, err := soc.Map.Decode(address)
	if err != nil {
		return memorymap.Region{}, 0, soc.busError(err)
	}
	return r, offset, nil
}

// Read the 32-bit word at the address.
func (soc *SoC) Read(address uint32) (uint32, error) {
	r, offset, err := soc.decode(address)
	if err != nil {
		return 0, err
	}

	switch r.Kind {
	case memorymap.ROM, memorymap.SRAM:
		return soc.mem[r.Name][offset>>2], nil
	case memorymap.SDRAM:
		v, err := soc.bindings[r.Name].Read32(offset)
		if err != nil {
			return 0, soc.busError(err)
		}
		return v, nil
	case memorymap.CSR:
		v, ok := soc.readCSR(offset)
		if !ok {
			return 0, soc.busError(fmt.Sprintf("no register at %#08x", address))
		}
		return v, nil
	}

	return 0, soc.busError(fmt.Sprintf("%s cannot be read", r))
}

// Write the 32-bit word to the address.
func (soc *SoC) Write(address uint32, v uint32) error {
	r, offset, err := soc.decode(address)
	if err != nil {
		return err
	}

	switch r.Kind {
	case memorymap.SRAM:
		soc.mem[r.Name][offset>>2] = v
		return nil
	case memorymap.SDRAM:
		if err := soc.bindings[r.Name].Write32(offset, v); err != nil {
			return soc.busError(err)
		}
		return nil
	case memorymap.CSR:
		if !soc.writeCSR(offset, v) {
			return soc.busError(fmt.Sprintf("no register at %#08x", address))
		}
		return nil
	}

	return soc.busError(fmt.Sprintf("%s cannot be written", r))
}

// LoadROM copies the image into the rom region. The image is a sequence of
// little-endian 32-bit words. A short final word is padded with zeroes. The
// rom can be loaded while the system is in reset.
func (soc *SoC) LoadROM(image []byte) error {
	r, err := soc.Map.Lookup("rom")
	if err != nil {
		return err
	}
	if uint32(len(image)) > r.Size {
		return curated.Errorf(ROMTooLarge, len(image), r.Size)
	}

	rom := make(map[uint32]uint32)
	for i := 0; i < len(image); i += 4 {
		var w [4]byte
		copy(w[:], image[i:])
		rom[uint32(i)>>2] = binary.LittleEndian.Uint32(w[:])
	}
	soc.mem[r.Name] = rom

	return nil
}
