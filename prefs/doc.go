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

// Package prefs facilitates the storing of preference values on disk.
//
// A preference value is one of the types defined in this package (Bool, Int,
// Float and String). Values are associated with a key and added to a Disk
// instance. The Disk instance can then Save() and Load() all of its values in
// one go.
//
// The preferences file is a plain text file with one "key :: value" entry per
// line, sorted by key. More than one Disk instance can share the same file:
// entries that a Disk instance doesn't know about are preserved when the
// file is saved.
//
// Values can also be specified on the command line with a prefs string of the
// form "key::value; key::value". See PushCommandLineStack(). Command line
// values take precedence over values loaded from disk but are never saved
// unless the value is subsequently set by other means.
package prefs
