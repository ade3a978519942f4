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

	"github.com/tealeg/xlsx"
)

// WriteXLSX writes the variables that are present in r to a sheet
// called "flight" in an Excel workbook. The first row holds the
// variable names, and the first column holds the time. Masked values
// are left blank. A second sheet, "info", holds the flight information
// and the column label of each variable.
func (r *Record) WriteXLSX(fname string) error {
	f := xlsx.NewFile()
	data, err := f.AddSheet("flight")
	if err != nil {
		return fmt.Errorf("flightdata: writing excel file: %v", err)
	}
	var vars []string
	for _, v := range r.Present() {
		if v == TimeLabel || r.Labels[v] == TimeLabel {
			continue
		}
		vars = append(vars, v)
	}

	row := data.AddRow()
	row.AddCell().SetString("time")
	for _, v := range vars {
		row.AddCell().SetString(v)
	}
	for i, t := range r.Time {
		row = data.AddRow()
		cell := row.AddCell()
		if !t.IsZero() {
			cell.SetString(t.Format(time.RFC3339Nano))
		}
		for _, v := range vars {
			cell = row.AddCell()
			if val, ok := r.Vars[v].At(i); ok {
				cell.SetFloat(val)
			}
		}
	}

	info, err := f.AddSheet("info")
	if err != nil {
		return fmt.Errorf("flightdata: writing excel file: %v", err)
	}
	addInfo := func(k, v string) {
		row := info.AddRow()
		row.AddCell().SetString(k)
		row.AddCell().SetString(v)
	}
	addInfo(ProjectKey, r.Project)
	addInfo(PlatformKey, r.Platform)
	addInfo(FlightNumberKey, r.FlightNumber)
	for _, v := range vars {
		addInfo(v, r.Labels[v])
	}

	if err := f.Save(fname); err != nil {
		return fmt.Errorf("flightdata: saving excel file %s: %v", fname, err)
	}
	return nil
}
