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

package trace

import (
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/zeroclient/panog2/curated"
	"github.com/zeroclient/panog2/hardware/clocks"
)

// signals are drawn one above the other. a high level is drawn this far above
// the signal's low level
const chartHigh = 0.8

// WriteChart renders the capture as an HTML timing chart. The x-axis is
// labelled in nanoseconds using the timebase.
func WriteChart(w io.Writer, c *Capture, tb clocks.Timebase, title string) error {
	if len(c.Names) == 0 {
		return curated.Errorf(ChartError, "no signals in capture")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    title,
			Subtitle: fmt.Sprintf("%d steps from %s", c.Len(), tb.Format(c.Start)),
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  "1200px",
			Height: fmt.Sprintf("%dpx", 120+40*len(c.Names)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: true, Trigger: "axis"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider", Start: 0, End: 100}),
		charts.WithXAxisOpts(opts.XAxis{Name: "ns"}),
		charts.WithYAxisOpts(opts.YAxis{Show: false}),
	)

	x := make([]string, c.Len())
	for i := range x {
		x[i] = fmt.Sprintf("%.3f", tb.Nanoseconds(c.Start+clocks.Step(i)))
	}
	line.SetXAxis(x)

	// the first signal is drawn at the top of the chart
	for i, n := range c.Names {
		base := float64(len(c.Names) - 1 - i)
		d := make([]opts.LineData, c.Len())
		for s := range c.Samples {
			v := base
			if c.Samples[s][i] {
				v += chartHigh
			}
			d[s] = opts.LineData{Value: v}
		}
		line.AddSeries(n, d)
	}

	if err := line.Render(w); err != nil {
		return curated.Errorf(ChartError, err)
	}

	return nil
}
