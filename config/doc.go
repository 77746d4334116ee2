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

// Package config holds the fixed parameters of the board: the PLL setup, the
// power-on reset counter, the memory channels and the optional regions of
// the address space.
//
// A Config is created once, with Default(), Load() or Parse(), and is then
// passed by pointer to every component that needs it. It must not be
// modified after creation. Use Derive() to create a modified copy.
//
// A board file is a YAML document that overlays the default values. Only the
// fields present in the file are changed. For example:
//
//	lock_cycles: 16
//	por:
//	  bits: 4
//	channels:
//	  a:
//	    role: primary
//	    region: main_ram
//	    origin: 0x40000000
//	  b:
//	    role: secondary
//	    region: main_ram_2
//	    origin: 0x44000000
package config
