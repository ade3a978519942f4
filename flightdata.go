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

// Package flightdata reads aircraft flight level data in the NASA Ames
// exchange format and converts it to a record keyed by canonical
// variable names, so that downstream analysis does not depend on
// the naming conventions of a given instrument or processing chain.
package flightdata

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/flightdata/nasaames"
)

// Version gives the version number.
const Version = "1.0.0"

// ErrUnsupportedFormat is returned when a file does not use the
// NASA Ames "simple table with header" layout (FFI 1001).
var ErrUnsupportedFormat = errors.New("flightdata: unsupported file format")

// epochUnits describes the values held by the time column
// after the absolute time axis has been reconstructed.
const epochUnits = "seconds since 1970-01-01 00:00:00 UTC"

// Loader reads flight level data files.
type Loader struct {
	// NameMap maps canonical variable names to column labels.
	// If it is nil, the map returned by DefaultNameMap is used.
	NameMap NameMap

	// MaskRawValues specifies that missing values should be found by
	// comparing the unscaled values with the missing-value sentinels.
	// By default the scaled values are compared with the unscaled
	// sentinels, which only finds missing values in columns
	// with a scale factor of 1.
	MaskRawValues bool

	// Log receives status messages. If it is nil,
	// logrus.StandardLogger() is used.
	Log logrus.FieldLogger
}

// FlightData reads the NASA Ames FFI 1001 file fname using the given
// name map, or the default name map if mapping is nil.
// It returns an error wrapping ErrUnsupportedFormat if the file has
// a different format.
func FlightData(fname string, mapping NameMap) (*Record, error) {
	l := &Loader{NameMap: mapping}
	return l.Load(fname)
}

func (l *Loader) log() logrus.FieldLogger {
	if l.Log == nil {
		return logrus.StandardLogger()
	}
	return l.Log
}

// Load reads the named file. The file is closed before Load returns.
func (l *Loader) Load(fname string) (*Record, error) {
	f, err := nasaames.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("flightdata: opening %s: %w", fname, err)
	}
	defer f.Close()
	return l.read(f, fname)
}

// Read reads a file from r.
func (l *Loader) Read(r io.Reader) (*Record, error) {
	f, err := nasaames.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("flightdata: %w", err)
	}
	return l.read(f, "input")
}

func (l *Loader) read(f *nasaames.File, fname string) (*Record, error) {
	log := l.log().WithField("file", fname)

	if ffi := f.FFI(); ffi != nasaames.FFI1001 {
		log.WithFields(logrus.Fields{
			"ffi":  ffi,
			"want": nasaames.FFI1001,
		}).Warn("not a flight level data file")
		return nil, fmt.Errorf("%w: %s has file format index %d; want %d",
			ErrUnsupportedFormat, fname, ffi, nasaames.FFI1001)
	}

	h, err := f.Header()
	if err != nil {
		return nil, fmt.Errorf("flightdata: reading header of %s: %w", fname, err)
	}
	if h.NV == 0 {
		return nil, fmt.Errorf("flightdata: %s does not contain any variables", fname)
	}
	table, err := f.Data()
	if err != nil {
		return nil, fmt.Errorf("flightdata: reading data from %s: %w", fname, err)
	}

	// The time column has no missing value or scale factor in the
	// header, so it borrows those of the last variable.
	missing := append([]float64{h.VMISS[h.NV-1]}, h.VMISS...)
	scale := append([]float64{h.VSCAL[h.NV-1]}, h.VSCAL...)
	labels := append([]string{TimeLabel}, h.VNAME...)
	raw := append([][]float64{table.X}, table.V...)

	columns := make(map[string]*MaskedArray, len(labels))
	for j, label := range labels {
		// Later columns replace earlier columns with the same label.
		columns[label] = maskColumn(raw[j], scale[j], missing[j], l.MaskRawValues)
	}

	start := time.Date(h.DATE[0], time.Month(h.DATE[1]), h.DATE[2], 0, 0, 0, 0, time.UTC)
	times := absoluteTime(columns[TimeLabel], start)

	nameMap := l.NameMap
	if nameMap == nil {
		nameMap = falconNameMap
	}
	r := &Record{
		Project:      h.MNAME,
		Platform:     h.SNAME,
		FlightNumber: flightNumber(h.NCOM),
		Time:         times,
		Vars:         make(map[string]*MaskedArray, len(nameMap)),
		Labels:       make(map[string]string, len(nameMap)),
	}
	var absent []string
	for _, name := range nameMap.Names() {
		label := nameMap[name]
		r.Labels[name] = label
		r.Vars[name] = columns[label] // nil if the column is not in the file.
		if r.Vars[name] == nil {
			absent = append(absent, name)
		}
	}
	if len(absent) > 0 {
		log.WithField("variables", strings.Join(absent, ", ")).Debug("variables not present in file")
	}
	log.WithFields(logrus.Fields{
		"project":  r.Project,
		"platform": r.Platform,
		"flight":   r.FlightNumber,
		"rows":     table.Rows(),
	}).Info("read flight data")
	return r, nil
}

// absoluteTime converts the time offsets in t, which are in seconds
// after start, to seconds since 1970-01-01 00:00:00 UTC in place and
// returns the matching calendar times.
func absoluteTime(t *MaskedArray, start time.Time) []time.Time {
	offset := float64(start.Unix())
	o := make([]time.Time, t.Len())
	for i := range t.Data {
		t.Data[i] += offset
		if !t.Mask[i] {
			o[i] = secondsToTime(t.Data[i])
		}
	}
	return o
}

// secondsToTime converts seconds since 1970-01-01 00:00:00 UTC to
// a time, keeping fractional seconds.
func secondsToTime(s float64) time.Time {
	sec := math.Floor(s)
	nsec := math.Round((s - sec) * 1e9)
	return time.Unix(int64(sec), int64(nsec)).UTC()
}

// timeToSeconds is the inverse of secondsToTime.
func timeToSeconds(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// flightNumber returns the text after the first colon in
// the second normal comment line, e.g. "Flight number: as120019".
func flightNumber(comments []string) string {
	if len(comments) < 2 {
		return ""
	}
	c := comments[1]
	if i := strings.Index(c, ":"); i >= 0 {
		c = c[i+1:]
	}
	return strings.TrimSpace(c)
}
