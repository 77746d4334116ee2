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

// Package curated is a helper package for the plain Go language error type.
// Curated errors implement the error interface.
//
// Curated errors are created with the Errorf() function. The pattern given to
// Errorf() identifies the error and packages should declare the patterns they
// use as constants. For example, the config package declares:
//
//	const InvalidChannel = "config: channel %s: %s: %v"
//
// and callers can test for the error with Is():
//
//	if curated.Is(err, config.InvalidChannel) {
//		...
//	}
//
// The Has() function is similar but checks if a pattern occurs somewhere in
// the error chain. The chain is built by passing one curated error as a value
// to another:
//
//	e := curated.Errorf(controller.AddressWidth, "main_ram", 15, 14)
//	f := curated.Errorf("soc: %v", e)
//
//	curated.Has(f, controller.AddressWidth) == true
//	curated.Is(f, controller.AddressWidth) == false
//
// The Error() function normalises the message so that adjacent duplicate
// parts are removed. Parts are separated by the sub-string ": ". This means
// that wrapping an error with a prefix it already carries has no visible
// effect:
//
//	soc: soc: bus error
//
// is printed as
//
//	soc: bus error
//
// The IsAny() function answers whether the error was created by Errorf(). In
// this project that distinguishes expected build-time configuration errors
// from unexpected failures (file system errors etc.)
package curated
