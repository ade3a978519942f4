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
	"os"

	"github.com/ctessum/cdf"
)

// WriteNetCDF writes the variables that are present in r to a
// NetCDF (version 3) file, along the dimension "time".
// Masked values are replaced with the fill value of each variable,
// which is recorded in the "_FillValue" attribute.
func (r *Record) WriteNetCDF(fname string) error {
	n := r.Len()
	if n == 0 {
		return fmt.Errorf("flightdata: writing netcdf file %s: record has no data", fname)
	}

	var vars []string
	for _, v := range r.Present() {
		if v == TimeLabel || r.Labels[v] == TimeLabel {
			continue // The time axis is written separately.
		}
		vars = append(vars, v)
	}

	h := cdf.NewHeader([]string{"time"}, []int{n})
	h.AddVariable("time", []string{"time"}, []float64{0})
	h.AddAttribute("time", "units", epochUnits)
	h.AddAttribute("time", "long_name", "time")
	h.AddAttribute("time", "_FillValue", []float64{DefaultFill})
	for _, v := range vars {
		h.AddVariable(v, []string{"time"}, []float64{0})
		if label := r.Labels[v]; label != "" {
			h.AddAttribute(v, "long_name", label)
		}
		if u := r.Units(v); u != "" {
			h.AddAttribute(v, "units", u)
		}
		h.AddAttribute(v, "_FillValue", []float64{r.Vars[v].Fill})
	}
	for _, att := range []struct{ name, val string }{
		{ProjectKey, r.Project},
		{PlatformKey, r.Platform},
		{FlightNumberKey, r.FlightNumber},
	} {
		if att.val != "" {
			h.AddAttribute("", att.name, att.val)
		}
	}
	h.Define()

	for _, err := range h.Check() {
		return fmt.Errorf("flightdata: creating netcdf file %s: %v", fname, err)
	}

	ff, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("flightdata: creating netcdf file: %v", err)
	}
	f, err := cdf.Create(ff, h)
	if err != nil {
		ff.Close()
		return fmt.Errorf("flightdata: creating netcdf file %s: %v", fname, err)
	}

	t := make([]float64, n)
	for i, tt := range r.Time {
		if tt.IsZero() {
			t[i] = DefaultFill
		} else {
			t[i] = timeToSeconds(tt)
		}
	}
	data := map[string][]float64{"time": t}
	for _, v := range vars {
		data[v] = r.Vars[v].Filled(r.Vars[v].Fill)
	}
	for _, v := range append([]string{"time"}, vars...) {
		w := f.Writer(v, []int{0}, []int{n})
		if _, err := w.Write(data[v]); err != nil {
			ff.Close()
			return fmt.Errorf("flightdata: writing variable %s to netcdf file %s: %v", v, fname, err)
		}
	}
	return ff.Close()
}
