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
	"sort"
	"time"
)

// Names of the metadata fields of a Record, as returned by Keys.
const (
	ProjectKey      = "project"
	PlatformKey     = "platform"
	FlightNumberKey = "flight_number"
)

// Record holds flight level data from a single file,
// keyed by canonical variable name.
type Record struct {
	Project      string // mission or project name
	Platform     string // aircraft name
	FlightNumber string

	// Time is the absolute time of each data row, in UTC. Rows where
	// the time offset is masked hold the zero time. The time column
	// uses the missing value and scale factor of the last variable in
	// the file, so a valid offset whose scaled value equals that missing
	// value is also given the zero time.
	Time []time.Time

	// Vars holds a value for every canonical name in the name map
	// that was used to read the record. The value is nil if the
	// file does not contain the matching column. Canonical names
	// that map to the time column hold seconds since
	// 1970-01-01 00:00:00 UTC. Canonical names that map to the same
	// label share an array.
	Vars map[string]*MaskedArray

	// Labels holds the column label (or derivation expression)
	// of each variable in Vars.
	Labels map[string]string
}

// Get returns the named variable and whether it is present
// in the record.
func (r *Record) Get(name string) (*MaskedArray, bool) {
	v := r.Vars[name]
	return v, v != nil
}

// Keys returns the names of the variables in the record,
// whether present or not, followed by the metadata keys.
func (r *Record) Keys() []string {
	o := make([]string, 0, len(r.Vars)+3)
	for k := range r.Vars {
		o = append(o, k)
	}
	sort.Strings(o)
	return append(o, ProjectKey, PlatformKey, FlightNumberKey)
}

// Present returns the sorted names of the variables that are
// present in the record.
func (r *Record) Present() []string {
	var o []string
	for k, v := range r.Vars {
		if v != nil {
			o = append(o, k)
		}
	}
	sort.Strings(o)
	return o
}

// Len returns the number of data rows in the record.
func (r *Record) Len() int { return len(r.Time) }

// VarSummary summarizes a single variable.
type VarSummary struct {
	Name    string
	Label   string
	Present bool
	Stats
}

// Summary returns summary statistics for every variable
// in the record, sorted by name.
func (r *Record) Summary() []VarSummary {
	names := make([]string, 0, len(r.Vars))
	for k := range r.Vars {
		names = append(names, k)
	}
	sort.Strings(names)
	o := make([]VarSummary, len(names))
	for i, name := range names {
		o[i] = VarSummary{Name: name, Label: r.Labels[name]}
		if v, ok := r.Get(name); ok {
			o[i].Present = true
			o[i].Stats = v.Stats()
		}
	}
	return o
}
