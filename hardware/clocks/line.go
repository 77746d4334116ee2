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

package clocks

// Line is a clock or control signal. Level returns the state of the line at
// the given step.
type Line interface {
	Level(t Step) bool
}

// edgeDetector is implemented by lines that can answer the question of
// whether there is a rising edge at a step without evaluating the previous
// step.
type edgeDetector interface {
	Rising(t Step) bool
}

// Rising returns true if the line has a rising edge at step t. That is, the
// line is high at t and was low at t-1.
func Rising(l Line, t Step) bool {
	if e, ok := l.(edgeDetector); ok {
		return e.Rising(t)
	}
	return l.Level(t) && !l.Level(t-1)
}

// Falling returns true if the line has a falling edge at step t.
func Falling(l Line, t Step) bool {
	return !l.Level(t) && l.Level(t-1)
}

// LineFunc allows a function to be used as a Line.
type LineFunc func(t Step) bool

// Level implements the Line interface.
func (f LineFunc) Level(t Step) bool {
	return f(t)
}

// Constant is a line that never changes.
type Constant bool

// Level implements the Line interface.
func (c Constant) Level(_ Step) bool {
	return bool(c)
}

// Periodic is a free running clock line. The line is high for the first High
// steps of every period. Period zero starts at Offset.
type Periodic struct {
	Period Step
	Offset Step
	High   Step
}

// Level implements the Line interface.
func (p Periodic) Level(t Step) bool {
	return mod(t-p.Offset, p.Period) < p.High
}

// Rising implements the edgeDetector interface.
func (p Periodic) Rising(t Step) bool {
	return mod(t-p.Offset, p.Period) == 0
}

// Phase returns the offset of the line in degrees of its own period.
func (p Periodic) Phase() float64 {
	return float64(mod(p.Offset, p.Period)) * 360.0 / float64(p.Period)
}

// Inverted is the logical inverse of another line.
type Inverted struct {
	Line
}

// Level implements the Line interface.
func (i Inverted) Level(t Step) bool {
	return !i.Line.Level(t)
}

// PeriodOf returns the period of a line if it is periodic. The second return
// value is false if the period can't be determined.
func PeriodOf(l Line) (Step, bool) {
	switch l := l.(type) {
	case Periodic:
		return l.Period, true
	case *Periodic:
		return l.Period, true
	case Inverted:
		return PeriodOf(l.Line)
	}
	return 0, false
}

// RisingEdges returns the steps of the first n rising edges of the line at or
// after step from. Lines with no edges in the search limit return fewer than
// n values.
func RisingEdges(l Line, from Step, n int, limit Step) []Step {
	edges := make([]Step, 0, n)
	for t := from; t < from+limit && len(edges) < n; t++ {
		if Rising(l, t) {
			edges = append(edges, t)
		}
	}
	return edges
}
