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
	"testing"
)

func TestCompare(t *testing.T) {
	r := loadSample(t, new(Loader))
	if err := r.Derive("altitude_offset", "altitude * 2 + 10"); err != nil {
		t.Fatal(err)
	}
	c, err := r.Compare("altitude", "altitude_offset")
	if err != nil {
		t.Fatal(err)
	}
	const tol = 1.e-6
	if c.N != 5 {
		t.Errorf("n: have %d, want 5", c.N)
	}
	mean := (1523.4 + 1530.1 + 1536.8 + 1543.0 + 1549.9) / 5
	tests := []struct {
		name       string
		have, want float64
	}{
		{name: "slope", have: c.Slope, want: 2},
		{name: "intercept", have: c.Intercept, want: 10},
		{name: "r2", have: c.R2, want: 1},
		{name: "mb", have: c.MB, want: mean + 10},
		{name: "me", have: c.ME, want: mean + 10},
	}
	for _, test := range tests {
		if math.Abs(test.have-test.want) > tol*math.Max(1, math.Abs(test.want)) {
			t.Errorf("%s: have %g, want %g", test.name, test.have, test.want)
		}
	}

	t.Run("masked", func(t *testing.T) {
		c, err := r.Compare("latitude", "longitude")
		if err != nil {
			t.Fatal(err)
		}
		if c.N != 4 {
			t.Errorf("n: have %d, want 4", c.N)
		}
	})
	t.Run("missing", func(t *testing.T) {
		if _, err := r.Compare("altitude", "altitude2"); err == nil {
			t.Error("expected an error")
		}
	})
}
