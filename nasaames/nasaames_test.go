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

package nasaames

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/kr/pretty"
)

const sampleFile = "../testdata/falcon_sample.na"

func TestHeader(t *testing.T) {
	f, err := Open(sampleFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	if f.FFI() != FFI1001 {
		t.Errorf("ffi: have %d, want %d", f.FFI(), FFI1001)
	}
	h, err := f.Header()
	if err != nil {
		t.Fatal(err)
	}
	want := &Header{
		NLHEAD: 23,
		FFI:    1001,
		ONAME:  "SAFIRE Falcon data team",
		ORG:    "SAFIRE (Meteo-France, CNRS, CNES), Toulouse, France",
		SNAME:  "FALCON-20",
		MNAME:  "HyMeX SOP1",
		IVOL:   1,
		NVOL:   1,
		DATE:   [3]int{2012, 10, 14},
		RDATE:  [3]int{2013, 5, 2},
		DX:     []float64{1},
		XNAME:  []string{"Time since 00:00 UTC (seconds)"},
		NV:     6,
		VSCAL:  []float64{1, 1, 1, 1, 0.1, 1},
		VMISS:  []float64{-9999, -9999, -9999, -9999, -9999, 99999},
		VNAME: []string{
			"latitude : from GPS (degree)",
			"longitude : from GPS (degree)",
			"altitude : from GPS (meter)",
			"air_temperature : from deiced Rosemount sensor (Celsius)",
			"relative_humidity : from Aerodata sensor (%)",
			"wind_speed : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (m/s)",
		},
		NSCOML: 0,
		SCOM:   []string{},
		NNCOML: 3,
		NCOM: []string{
			"Falcon-20 flight level data, 1 Hz",
			"Flight number: as120019",
			"Time offsets are seconds after 00:00 UTC on DATE",
		},
	}
	if !reflect.DeepEqual(h, want) {
		t.Errorf("header mismatch: %v", pretty.Diff(h, want))
	}
}

func TestData(t *testing.T) {
	f, err := Open(sampleFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	d, err := f.Data()
	if err != nil {
		t.Fatal(err)
	}
	if d.Rows() != 5 {
		t.Fatalf("rows: have %d, want 5", d.Rows())
	}
	wantX := []float64{36000, 36001, 36002, 36003, 36004.5}
	if !reflect.DeepEqual(d.X, wantX) {
		t.Errorf("x: have %v, want %v", d.X, wantX)
	}
	wantLat := []float64{43.6012, 43.6020, -9999, 43.6036, 43.6044}
	if !reflect.DeepEqual(d.V[0], wantLat) {
		t.Errorf("latitude: have %v, want %v", d.V[0], wantLat)
	}
	wantWind := []float64{9.8, 10.1, 99999, 10.6, 10.9}
	if !reflect.DeepEqual(d.V[5], wantWind) {
		t.Errorf("wind: have %v, want %v", d.V[5], wantWind)
	}

	// A second call returns the cached table.
	d2, err := f.Data()
	if err != nil {
		t.Fatal(err)
	}
	if d2 != d {
		t.Error("data was parsed twice")
	}
}

func TestUnsupportedFFI(t *testing.T) {
	f, err := Open("../testdata/ffi2010.na")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if f.FFI() != 2010 {
		t.Errorf("ffi: have %d, want 2010", f.FFI())
	}
	if _, err := f.Header(); !errors.Is(err, ErrUnsupportedFFI) {
		t.Errorf("header: have error %v, want %v", err, ErrUnsupportedFFI)
	}
	if _, err := f.Data(); !errors.Is(err, ErrUnsupportedFFI) {
		t.Errorf("data: have error %v, want %v", err, ErrUnsupportedFFI)
	}
}

// wrapped has a VSCAL list and data rows that span two lines, and Fortran exponents.
const wrapped = `18 1001
Author
Org
Source
Mission
1 1
2012 9 26 2012 9 27
0
Seconds
3
1 1
10
-999 -999 -999
a (m)
b (m)
c (m)
0
0
10 1.0 2.0
3.0D+00
11 4.0
5.0 6.0
`

func TestWrappedLines(t *testing.T) {
	f, err := NewReader(strings.NewReader(wrapped))
	if err != nil {
		t.Fatal(err)
	}
	h, err := f.Header()
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{1, 1, 10}; !reflect.DeepEqual(h.VSCAL, want) {
		t.Errorf("vscal: have %v, want %v", h.VSCAL, want)
	}
	d, err := f.Data()
	if err != nil {
		t.Fatal(err)
	}
	want := &Table{
		X: []float64{10, 11},
		V: [][]float64{{1, 4}, {2, 5}, {3, 6}},
	}
	if !reflect.DeepEqual(d, want) {
		t.Errorf("data mismatch: %v", pretty.Diff(d, want))
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{
			name:  "bad first line",
			input: "x 1001\n",
			line:  1,
		},
		{
			name:  "truncated header",
			input: "16 1001\nAuthor\nOrg\n",
			line:  4,
		},
		{
			name:  "bad date",
			input: "16 1001\nA\nO\nS\nM\n1 1\n2012 13 26 2012 9 27\n",
			line:  7,
		},
		{
			name:  "bad number in data",
			input: strings.Replace(wrapped, "11 4.0", "11 four", 1),
			line:  21,
		},
		{
			name:  "incomplete row",
			input: strings.TrimSuffix(wrapped, "5.0 6.0\n"),
			line:  21,
		},
		{
			name:  "too many values",
			input: strings.Replace(wrapped, "5.0 6.0", "5.0 6.0 7.0", 1),
			line:  22,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			f, err := NewReader(strings.NewReader(test.input))
			if err == nil {
				_, err = f.Data()
			}
			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("have error %v (%T), want *ParseError", err, err)
			}
			if perr.Line != test.line {
				t.Errorf("line: have %d, want %d (%v)", perr.Line, test.line, perr)
			}
		})
	}
}

func TestTruncatedHeaderEOF(t *testing.T) {
	_, err := NewReader(strings.NewReader(""))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("have error %v, want %v", err, io.ErrUnexpectedEOF)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	f, err := Open(sampleFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	h, err := f.Header()
	if err != nil {
		t.Fatal(err)
	}
	d, err := f.Data()
	if err != nil {
		t.Fatal(err)
	}

	var b bytes.Buffer
	if err = Write(&b, h, d); err != nil {
		t.Fatal(err)
	}
	f2, err := NewReader(&b)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := f2.Header()
	if err != nil {
		t.Fatal(err)
	}
	d2, err := f2.Data()
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(h, h2) {
		t.Errorf("header mismatch: %v", pretty.Diff(h, h2))
	}
	if !reflect.DeepEqual(d, d2) {
		t.Errorf("data mismatch: %v", pretty.Diff(d, d2))
	}
}

func TestWriteMismatch(t *testing.T) {
	h := &Header{VNAME: []string{"a"}, VSCAL: []float64{1}, VMISS: []float64{-9}}
	d := &Table{X: []float64{1, 2}, V: [][]float64{{1}}}
	if err := Write(new(bytes.Buffer), h, d); err == nil {
		t.Error("expected an error for a short variable")
	}
}
