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
	"math"
	"strings"

	"github.com/ctessum/unit"
)

// siConversion converts a value to SI units as v*scale + offset.
type siConversion struct {
	scale, offset float64
	dims          unit.Dimensions
}

// wattPerMeter2 is a unit of irradiance.
var wattPerMeter2 = unit.Dimensions{
	unit.MassDim: 1,
	unit.TimeDim: -3,
}

// siConversions holds the units that appear in flight level data
// labels. Angles are converted to radians.
var siConversions = map[string]siConversion{
	"meter":          {scale: 1, dims: unit.Meter},
	"km":             {scale: 1000, dims: unit.Meter},
	"ft":             {scale: 0.3048, dims: unit.Meter},
	"m/s":            {scale: 1, dims: unit.MeterPerSecond},
	"kt":             {scale: 1852. / 3600., dims: unit.MeterPerSecond},
	"meter second-2": {scale: 1, dims: unit.MeterPerSecond2},
	"Celsius":        {scale: 1, offset: 273.15, dims: unit.Kelvin},
	"K":              {scale: 1, dims: unit.Kelvin},
	"hPa":            {scale: 100, dims: unit.Pascal},
	"Pa":             {scale: 1, dims: unit.Pascal},
	"degree":         {scale: math.Pi / 180, dims: unit.Dimless},
	"%":              {scale: 0.01, dims: unit.Dimless},
	"gram/kg":        {scale: 1.e-3, dims: unit.Dimless},
	"ppbv":           {scale: 1.e-9, dims: unit.Dimless},
	"seconds":        {scale: 1, dims: unit.Second},
	"W m-2":          {scale: 1, dims: wattPerMeter2},
}

// LabelUnits returns the units at the end of a column label,
// which are written in parentheses, e.g. "(m/s)". It returns
// an empty string if the label has no units.
func LabelUnits(label string) string {
	label = strings.TrimSpace(label)
	if !strings.HasSuffix(label, ")") {
		return ""
	}
	depth := 0
	for i := len(label) - 1; i >= 0; i-- {
		switch label[i] {
		case ')':
			depth++
		case '(':
			depth--
			if depth == 0 {
				return strings.TrimSpace(label[i+1 : len(label)-1])
			}
		}
	}
	return ""
}

// Units returns the units of the named variable as written
// in its column label.
func (r *Record) Units(name string) string {
	if name == TimeLabel || r.Labels[name] == TimeLabel {
		return epochUnits
	}
	return LabelUnits(r.Labels[name])
}

// SI returns the named variable converted to SI units, along with
// the dimensions of the result. Angles are converted to radians and
// ratios to fractions. It returns an error if the units of the
// variable are not known.
func (r *Record) SI(name string) (*MaskedArray, unit.Dimensions, error) {
	v, ok := r.Get(name)
	if !ok {
		return nil, nil, fmt.Errorf("flightdata: converting %s to SI units: variable is not present in the record", name)
	}
	if name == TimeLabel || r.Labels[name] == TimeLabel {
		o := NewMaskedArray(v.Len(), v.Fill)
		copy(o.Data, v.Data)
		copy(o.Mask, v.Mask)
		return o, unit.Second, nil
	}
	u := r.Units(name)
	c, ok := siConversions[u]
	if !ok {
		return nil, nil, fmt.Errorf("flightdata: converting %s to SI units: unknown units '%s'", name, u)
	}
	o := NewMaskedArray(v.Len(), v.Fill)
	copy(o.Mask, v.Mask)
	for i, val := range v.Data {
		o.Data[i] = val*c.scale + c.offset
	}
	return o, c.dims, nil
}

// Quantity returns row i of the named variable in SI units and
// whether it is present.
func (r *Record) Quantity(name string, i int) (*unit.Unit, bool, error) {
	v, dims, err := r.SI(name)
	if err != nil {
		return nil, false, err
	}
	if i < 0 || i >= v.Len() {
		return nil, false, fmt.Errorf("flightdata: row %d of %s is out of range [0, %d)", i, name, v.Len())
	}
	val, ok := v.At(i)
	return unit.New(val, dims), ok, nil
}
