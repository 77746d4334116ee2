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

// Package trace records the level of clock and reset signals at every step
// of the timebase. A capture can be written as a multichannel WAV file, with
// one channel per signal and one sample per step, or rendered as an HTML
// timing chart.
//
// A WAV file cannot express the 8GHz sample rate of the timebase. Captures
// are therefore written with time slowed down by TimeScale, giving a sample
// rate of SampleRate. Waveform viewers will show nanoseconds where the board
// would show picoseconds.
package trace
