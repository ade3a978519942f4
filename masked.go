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
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// DefaultFill is the fill value used for arrays that are not read
// from a file, such as derived variables.
const DefaultFill = -9999.0

// MaskedArray is an array of values where some of the values
// may be missing.
type MaskedArray struct {
	// Data holds the values. Values where Mask is true
	// are undefined.
	Data []float64

	// Mask is true where a value is missing.
	Mask []bool

	// Fill is the missing-value sentinel declared for the array.
	Fill float64
}

// NewMaskedArray returns an array of n values, none of which are masked.
func NewMaskedArray(n int, fill float64) *MaskedArray {
	return &MaskedArray{
		Data: make([]float64, n),
		Mask: make([]bool, n),
		Fill: fill,
	}
}

// maskColumn scales raw by scale and masks the values that match
// missing. If compareRaw is false the scaled value is compared to the
// unscaled missing value, so a raw missing value is only masked
// when scale is 1. If compareRaw is true, the raw value is
// compared instead. Values must equal missing exactly. NaN values are
// always masked.
func maskColumn(raw []float64, scale, missing float64, compareRaw bool) *MaskedArray {
	m := NewMaskedArray(len(raw), missing)
	for i, v := range raw {
		s := v * scale
		m.Data[i] = s
		if compareRaw {
			m.Mask[i] = v == missing
		} else {
			m.Mask[i] = s == missing
		}
		if math.IsNaN(s) {
			m.Mask[i] = true
		}
	}
	return m
}

// Len returns the number of values in m, including masked values.
func (m *MaskedArray) Len() int { return len(m.Data) }

// At returns value i and whether it is present.
func (m *MaskedArray) At(i int) (float64, bool) {
	if m.Mask[i] {
		return m.Fill, false
	}
	return m.Data[i], true
}

// Masked returns whether value i is missing.
func (m *MaskedArray) Masked(i int) bool { return m.Mask[i] }

// Count returns the number of values that are not masked.
func (m *MaskedArray) Count() int {
	n := 0
	for _, masked := range m.Mask {
		if !masked {
			n++
		}
	}
	return n
}

// Valid returns the values that are not masked.
func (m *MaskedArray) Valid() []float64 {
	o := make([]float64, 0, len(m.Data))
	for i, v := range m.Data {
		if !m.Mask[i] {
			o = append(o, v)
		}
	}
	return o
}

// Filled returns a copy of the values in m with
// masked values replaced by v.
func (m *MaskedArray) Filled(v float64) []float64 {
	o := make([]float64, len(m.Data))
	copy(o, m.Data)
	for i, masked := range m.Mask {
		if masked {
			o[i] = v
		}
	}
	return o
}

// Stats holds summary statistics for the values in an array
// that are not masked. Min, Max, Mean and StdDev are NaN if
// Count is zero.
type Stats struct {
	Count                  int
	Min, Max, Mean, StdDev float64
}

// Stats calculates summary statistics for the values in m
// that are not masked. StdDev is the sample standard deviation.
func (m *MaskedArray) Stats() Stats {
	v := m.Valid()
	s := Stats{Count: len(v)}
	switch len(v) {
	case 0:
		nan := math.NaN()
		s.Min, s.Max, s.Mean, s.StdDev = nan, nan, nan, nan
	case 1:
		s.Min, s.Max, s.Mean = v[0], v[0], v[0]
	default:
		s.Min = floats.Min(v)
		s.Max = floats.Max(v)
		s.Mean, s.StdDev = stat.MeanStdDev(v, nil)
	}
	return s
}
