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
	"io"
	"os"
	"reflect"
	"sort"
	"strconv"
	"testing"

	"github.com/ctessum/cdf"
	goshp "github.com/jonas-p/go-shp"
	"github.com/tealeg/xlsx"
)

func TestWriteNetCDF(t *testing.T) {
	r := loadSample(t, new(Loader))
	const fname = "testdata/flight_out.nc"
	if err := r.WriteNetCDF(fname); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)

	ff, err := os.Open(fname)
	if err != nil {
		t.Fatal(err)
	}
	defer ff.Close()
	f, err := cdf.Open(ff)
	if err != nil {
		t.Fatal(err)
	}

	wantVars := []string{"altitude", "latitude", "longitude",
		"relative_humidity", "temperature", "time", "wind_spd", "wind_spd2"}
	have := f.Header.Variables()
	sort.Strings(have)
	if !reflect.DeepEqual(have, wantVars) {
		t.Errorf("variables: have %v, want %v", have, wantVars)
	}
	if have := f.Header.GetAttribute("", FlightNumberKey); have != "as120019" {
		t.Errorf("flight number: have %v", have)
	}
	if have := f.Header.GetAttribute("time", "units"); have != epochUnits {
		t.Errorf("time units: have %v", have)
	}
	if have := f.Header.GetAttribute("altitude", "units"); have != "meter" {
		t.Errorf("altitude units: have %v", have)
	}

	read := func(v string) []float64 {
		rr := f.Reader(v, nil, nil)
		buf := rr.Zero(-1)
		if _, err := rr.Read(buf); err != nil && err != io.EOF {
			t.Fatal(err)
		}
		return buf.([]float64)
	}
	lat := read("latitude")
	if lat[2] != -9999 || lat[0] != 43.6012 {
		t.Errorf("latitude: have %v", lat)
	}
	wind := read("wind_spd")
	if wind[2] != 99999 {
		t.Errorf("masked wind speed should be written as the fill value; have %v", wind)
	}
	tt := read("time")
	if tt[4] != sampleStart+36004.5 {
		t.Errorf("time: have %v", tt)
	}
}

func TestWriteNetCDFEmpty(t *testing.T) {
	r := &Record{Vars: map[string]*MaskedArray{}}
	if err := r.WriteNetCDF("testdata/empty.nc"); err == nil {
		os.Remove("testdata/empty.nc")
		t.Error("expected an error for an empty record")
	}
}

func TestWriteShapefile(t *testing.T) {
	r := loadSample(t, new(Loader))
	if err := r.Derive("temperature_K", "temperature + 273.15"); err != nil {
		t.Fatal(err)
	}
	const base = "testdata/flight_track"
	if err := r.WriteShapefile(base+".shp", "altitude", "wind_spd", "temperature_K"); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".shp", ".shx", ".dbf", ".prj"} {
		defer os.Remove(base + ext)
	}

	s, err := goshp.Open(base + ".shp")
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	var names []string
	for _, f := range s.Fields() {
		names = append(names, f.String())
	}
	wantNames := []string{"time", "altitude", "wind_spd", "temperatur"}
	if !reflect.DeepEqual(names, wantNames) {
		t.Errorf("fields: have %v, want %v", names, wantNames)
	}

	var n int
	var times []string
	for s.Next() {
		n++
		i, shape := s.Shape()
		if _, ok := shape.(*goshp.Point); !ok {
			t.Errorf("shape %d is a %T", i, shape)
		}
		times = append(times, s.ReadAttribute(i, 0))
	}
	// The row with a missing latitude is skipped.
	if n != 4 {
		t.Errorf("have %d points, want 4", n)
	}
	if len(times) > 0 && times[0] != "2012-10-14T10:00:00Z" {
		t.Errorf("time: have %q", times[0])
	}
	if _, err := os.Stat(base + ".prj"); err != nil {
		t.Error(err)
	}
}

func TestWriteShapefileErrors(t *testing.T) {
	r := loadSample(t, new(Loader))
	if err := r.WriteShapefile("testdata/bad.shp", "pressure"); err == nil {
		t.Error("expected an error for a missing variable")
	}
	if err := r.WriteShapefile("testdata/bad.shp", "wind_spd", "wind_spd2"); err != nil {
		t.Fatal(err)
	}
	for _, ext := range []string{".shp", ".shx", ".dbf", ".prj"} {
		os.Remove("testdata/bad" + ext)
	}
	if err := r.Derive("temperature_K", "temperature + 273.15"); err != nil {
		t.Fatal(err)
	}
	if err := r.WriteShapefile("testdata/bad.shp", "temperature", "temperature_K"); err == nil {
		t.Error("expected an error for truncated attribute names that are the same")
	}

	r2 := &Record{Vars: map[string]*MaskedArray{"latitude": NewMaskedArray(0, DefaultFill)}}
	if err := r2.WriteShapefile("testdata/bad.shp"); err == nil {
		t.Error("expected an error for missing longitude")
	}
}

func TestPlotTimeSeries(t *testing.T) {
	r := loadSample(t, new(Loader))
	const fname = "testdata/latitude.png"
	if err := r.PlotTimeSeries(fname, "latitude"); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)
	if fi, err := os.Stat(fname); err != nil || fi.Size() == 0 {
		t.Errorf("plot was not written: %v", err)
	}

	// The missing latitude splits the line in two.
	segments := r.timeSeries(r.Vars["latitude"])
	if len(segments) != 2 || len(segments[0]) != 2 || len(segments[1]) != 2 {
		t.Fatalf("segments: %v", segments)
	}
	if segments[0][0].X != 10 {
		t.Errorf("x: have %g, want 10", segments[0][0].X)
	}
	if err := r.PlotTimeSeries(fname, "pressure"); err == nil {
		t.Error("expected an error for a missing variable")
	}
}

func TestWriteXLSX(t *testing.T) {
	r := loadSample(t, new(Loader))
	const fname = "testdata/flight_out.xlsx"
	if err := r.WriteXLSX(fname); err != nil {
		t.Fatal(err)
	}
	defer os.Remove(fname)

	f, err := xlsx.OpenFile(fname)
	if err != nil {
		t.Fatal(err)
	}
	s, ok := f.Sheet["flight"]
	if !ok {
		t.Fatal("missing flight sheet")
	}
	if len(s.Rows) != 6 {
		t.Fatalf("have %d rows, want 6", len(s.Rows))
	}
	var header []string
	for _, c := range s.Rows[0].Cells {
		header = append(header, c.Value)
	}
	wantHeader := []string{"time", "altitude", "latitude", "longitude",
		"relative_humidity", "temperature", "wind_spd", "wind_spd2"}
	if !reflect.DeepEqual(header, wantHeader) {
		t.Errorf("header: have %v, want %v", header, wantHeader)
	}
	if v := s.Rows[1].Cells[0].Value; v != "2012-10-14T10:00:00Z" {
		t.Errorf("time: have %q", v)
	}
	lat, err := strconv.ParseFloat(s.Rows[1].Cells[2].Value, 64)
	if err != nil || lat != 43.6012 {
		t.Errorf("latitude: have %g, %v", lat, err)
	}
	if v := s.Rows[3].Cells[2].Value; v != "" {
		t.Errorf("masked latitude should be blank but is %q", v)
	}
	info, ok := f.Sheet["info"]
	if !ok {
		t.Fatal("missing info sheet")
	}
	if v := info.Rows[2].Cells[1].Value; v != "as120019" {
		t.Errorf("flight number: have %q", v)
	}
}
