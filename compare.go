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

	"github.com/GaryBoone/GoStats/stats"
	"github.com/ctessum/atmos/evalstats"
)

// Comparison holds statistics comparing two measurements of the same
// quantity, such as the GPS and INS altitudes. The first measurement
// is treated as the reference.
type Comparison struct {
	Reference, Other string

	// N is the number of rows where both measurements are present.
	N int

	// MB and ME are the mean bias and mean error. MFB and MFE are the
	// mean fractional bias and error, and MR is the mean ratio.
	MB, ME, MFB, MFE, MR float64

	// Slope, Intercept and R2 describe the linear regression
	// of the other measurement on the reference.
	Slope, Intercept, R2 float64
}

// Compare calculates statistics comparing variable other to variable
// reference, using the rows where both are present.
func (r *Record) Compare(reference, other string) (*Comparison, error) {
	a, ok := r.Get(reference)
	if !ok {
		return nil, fmt.Errorf("flightdata: comparing %s and %s: %s is not present in the record", reference, other, reference)
	}
	b, ok := r.Get(other)
	if !ok {
		return nil, fmt.Errorf("flightdata: comparing %s and %s: %s is not present in the record", reference, other, other)
	}
	var x, y []float64
	for i := range a.Data {
		if a.Mask[i] || b.Mask[i] {
			continue
		}
		x = append(x, a.Data[i])
		y = append(y, b.Data[i])
	}
	if len(x) < 2 {
		return nil, fmt.Errorf("flightdata: comparing %s and %s: need at least 2 rows where both are present but there are %d", reference, other, len(x))
	}
	c := &Comparison{
		Reference: reference,
		Other:     other,
		N:         len(x),
		MB:        evalstats.MB(x, y),
		ME:        evalstats.ME(x, y),
		MFB:       evalstats.MFB(x, y),
		MFE:       evalstats.MFE(x, y),
		MR:        evalstats.MR(x, y),
	}
	c.Slope, c.Intercept, c.R2, _, _, _ = stats.LinearRegression(x, y)
	return c, nil
}
