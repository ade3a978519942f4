/*
Copyright © 2018 the flightdata authors.
This file is part of flightdata.

flightdata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

flightdata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with flightdata.  If not, see <http://www.gnu.org/licenses/>.
*/

package flightdata

import (
	"fmt"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const (
	figWidth  = 7 * vg.Inch
	figHeight = 3 * vg.Inch
)

// PlotTimeSeries plots the named variable against hours since the
// start of the flight date and saves the figure to fname. The image
// format is chosen from the file extension (e.g. .png, .svg, .pdf).
// Masked values and rows without a valid time leave gaps in the line.
func (r *Record) PlotTimeSeries(fname, name string) error {
	v, ok := r.Get(name)
	if !ok {
		return fmt.Errorf("flightdata: plotting %s: variable is not present in the record", name)
	}
	segments := r.timeSeries(v)
	if len(segments) == 0 {
		return fmt.Errorf("flightdata: plotting %s: there are no values to plot", name)
	}

	p, err := plot.New()
	if err != nil {
		return fmt.Errorf("flightdata: plotting %s: %v", name, err)
	}
	p.Title.Text = fmt.Sprintf("%s %s %s", r.Platform, r.FlightNumber, name)
	p.X.Label.Text = "Hours (UTC)"
	p.Y.Label.Text = name
	if label := r.Labels[name]; label != "" {
		p.Y.Label.Text = label
	}
	for _, s := range segments {
		l, err := plotter.NewLine(s)
		if err != nil {
			return fmt.Errorf("flightdata: plotting %s: %v", name, err)
		}
		p.Add(l)
	}
	if err = p.Save(figWidth, figHeight, fname); err != nil {
		return fmt.Errorf("flightdata: saving plot of %s: %v", name, err)
	}
	return nil
}

// timeSeries splits v into runs of consecutive rows where
// both the time and the value are present. The x values are hours
// since midnight UTC of the first valid row.
func (r *Record) timeSeries(v *MaskedArray) []plotter.XYs {
	var o []plotter.XYs
	var cur plotter.XYs
	var midnight float64
	first := true
	for i, t := range r.Time {
		if t.IsZero() || v.Mask[i] {
			if len(cur) > 0 {
				o = append(o, cur)
				cur = nil
			}
			continue
		}
		if first {
			y, m, d := t.Date()
			midnight = float64(time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix())
			first = false
		}
		cur = append(cur, struct{ X, Y float64 }{
			X: (timeToSeconds(t) - midnight) / 3600,
			Y: v.Data[i],
		})
	}
	if len(cur) > 0 {
		o = append(o, cur)
	}
	return o
}
