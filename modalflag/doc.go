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

// Package modalflag is a wrapper for the flag package in the Go standard
// library. It provides a convenient method of handling program modes (and
// sub-modes) and allows different flags for each mode.
//
// At its simplest it can be used as a replacement for the flag package, with
// some differences. Whereas with the flag package you call flag.Parse(), with
// modalflag you call NewArgs() and Parse():
//
//	md := Modes{Output: os.Stdout}
//	md.NewArgs(os.Args[1:])
//	cycles := md.AddInt("cycles", 4096, "number of system clock cycles")
//	p, err := md.Parse()
//	switch p {
//	case ParseHelp:
//		// help message has already been printed
//		return
//	case ParseError:
//		fmt.Println(err)
//		return
//	}
//
// Modes are added with AddSubModes(). The first sub-mode is the default mode
// and is selected if the first argument is not one of the listed modes. After
// Parse() the selected mode is returned by Mode(). Flags specific to a mode
// are added after a call to NewMode() and the remaining arguments are parsed
// with another call to Parse().
//
// Sub-mode comparisons are case insensitive and modes are always reported in
// upper case.
package modalflag
