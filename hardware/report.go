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
	"fmt"
	"io"
)

// WriteClocks writes the frequency and phase of every PLL output.
func (soc *SoC) WriteClocks(w io.Writer) {
	p := soc.CRG.PLL()
	for i, o := range p.Config().Outputs {
		fmt.Fprintf(w, "CLKOUT%d %-20s %8.3fMHz %7.2f° (±%.2f°)\n", i, o.Name, p.Frequency(i), p.Phase(i), p.PhaseResolution(i)/2)
	}
}

// WriteReport writes the state of the CRG and the activity of every memory
// channel.
func (soc *SoC) WriteReport(w io.Writer) {
	tb := soc.CRG.Timebase()
	fmt.Fprintf(w, "time: %s (%d system cycles)\n", tb.Format(soc.Now()), soc.CRG.Sys.Edges())
	fmt.Fprintf(w, "crg: %s resets=%d\n", soc.CRG.Status(), soc.CRG.Status().Resets)

	for _, ch := range soc.Channels {
		b := ch.Binding
		wr, rd := ch.PHY.Beats()
		fmt.Fprintf(w, "%s\n", ch)
		fmt.Fprintf(w, "    controller: %s\n", b.Controller.Bandwidth())
		fmt.Fprintf(w, "    refreshes:  %d\n", b.Controller.Refreshes())
		fmt.Fprintf(w, "    l2 cache:   %s (%s)\n", b.Cache, b.Cache.Stats())
		fmt.Fprintf(w, "    serdes:     %d write beats, %d read beats\n", wr, rd)
	}
}
