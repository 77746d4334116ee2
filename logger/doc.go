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

// Package logger is the central log repository for the model. Log entries
// are tagged with the part of the design that produced them (for example
// "crg", "pll" or "soc") and repeated entries are folded into a single entry
// with a repeat count.
//
// The size of the log is capped and older entries are dropped as new
// entries are added.
//
// Logging can be gated with the Permission interface. The Allow value can
// be used when a log entry should always be made. Components that can be
// instantiated in a "quiet" context (eg. throwaway elaborations made by the
// CHECK mode) implement Permission themselves.
//
// Entries can be echoed to an io.Writer as they are made with SetEcho(). When
// the echo output is a terminal the tag is coloured.
package logger
