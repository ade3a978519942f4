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
	"path/filepath"
	"strings"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
	goshp "github.com/jonas-p/go-shp"
)

// wgs84 is the spatial reference of GPS positions.
const wgs84 = `GEOGCS["GCS_WGS_1984",DATUM["D_WGS_1984",SPHEROID["WGS_1984",6378137,298.257223563]],PRIMEM["Greenwich",0],UNIT["Degree",0.017453292519943295]]`

// dbfNameLength is the maximum length of a shapefile attribute name.
const dbfNameLength = 10

// WriteShapefile writes the flight track in r to a point shapefile,
// with one point per row where both "longitude" and "latitude" are
// present. Each point has a "time" attribute and one attribute for each of
// the named variables; masked values are written as the fill value of
// the variable. Attribute names longer than 10 characters are truncated.
// Any extension on fname is replaced with ".shp", and a ".prj" file
// is written alongside it.
func (r *Record) WriteShapefile(fname string, vars ...string) error {
	lon, ok := r.Get("longitude")
	if !ok {
		return fmt.Errorf("flightdata: writing shapefile: record has no longitude")
	}
	lat, ok := r.Get("latitude")
	if !ok {
		return fmt.Errorf("flightdata: writing shapefile: record has no latitude")
	}

	fields := []goshp.Field{goshp.StringField("time", 25)}
	used := map[string]string{"time": "time"}
	arrays := make([]*MaskedArray, len(vars))
	for i, v := range vars {
		a, ok := r.Get(v)
		if !ok {
			return fmt.Errorf("flightdata: writing shapefile: variable %s is not present in the record", v)
		}
		arrays[i] = a
		name := v
		if len(name) > dbfNameLength {
			name = name[:dbfNameLength]
		}
		if other, ok := used[name]; ok {
			return fmt.Errorf("flightdata: writing shapefile: variables %s and %s have the same attribute name %s", other, v, name)
		}
		used[name] = v
		fields = append(fields, goshp.FloatField(name, 14, 6))
	}

	fileBase := strings.TrimSuffix(fname, filepath.Ext(fname))
	shape, err := shp.NewEncoderFromFields(fileBase+".shp", goshp.POINT, fields...)
	if err != nil {
		return fmt.Errorf("flightdata: creating shapefile: %v", err)
	}
	for i, t := range r.Time {
		if lon.Mask[i] || lat.Mask[i] {
			continue
		}
		vals := make([]interface{}, len(arrays)+1)
		vals[0] = ""
		if !t.IsZero() {
			vals[0] = t.Format(time.RFC3339Nano)
		}
		for j, a := range arrays {
			vals[j+1], _ = a.At(i)
		}
		if err = shape.EncodeFields(geom.Point{X: lon.Data[i], Y: lat.Data[i]}, vals...); err != nil {
			shape.Close()
			return fmt.Errorf("flightdata: writing shapefile: %v", err)
		}
	}
	shape.Close()

	f, err := os.Create(fileBase + ".prj")
	if err != nil {
		return fmt.Errorf("flightdata: creating prj file: %v", err)
	}
	if _, err = fmt.Fprint(f, wgs84); err != nil {
		f.Close()
		return fmt.Errorf("flightdata: writing prj file: %v", err)
	}
	return f.Close()
}
