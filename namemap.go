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
	"io"
	"sort"

	"github.com/BurntSushi/toml"
)

// NameMap maps canonical variable names to the labels of the
// columns that hold them in a NASA Ames file header, including
// the provenance and units text that follows the variable name.
type NameMap map[string]string

// TimeLabel is the label of the independent variable column
// that is added ahead of the header-declared columns.
const TimeLabel = "time"

// falconNameMap holds the column labels used in LATMOS/SAFIRE Falcon-20
// flight level data. The altitude is the GPS measurement; there
// is a second INS measurement. The humidity variables are from the
// Aerodata sensor; the second measurements are from the hygrometer.
var falconNameMap = NameMap{
	"time":                         TimeLabel,
	"latitude":                     "latitude : from GPS (degree)",
	"longitude":                    "longitude : from GPS (degree)",
	"altitude":                     "altitude : from GPS (meter)",
	"true_heading":                 "platform_orientation : from INS (degree)",
	"temperature":                  "air_temperature : from deiced Rosemount sensor (Celsius)",
	"dewpoint_temperature":         "dew_point_temperature : from 1011B top dew-point hygrometer (Celsius)",
	"wind_spd":                     "wind_speed : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (m/s)",
	"wind_dir":                     "wind_from_direction : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (degree)",
	"relative_humidity":            "relative_humidity : from Aerodata sensor (%)",
	"mixing_ratio":                 "humidity_mixing_ratio : from Aerodata sensor (gram/kg)",
	"pressure":                     "air_pressure : from front sensor, corrected for the so-called static defect (hPa)",
	"roll":                         "platform_roll_angle : from INS (degree)",
	"pitch":                        "platform_pitch_angle : from INS (degree)",
	"aircraft_air_speed":           "platform_speed_wrt_air : from pitot (m/s)",
	"platform_ground_speed":        "platform_speed_wrt_ground : from GPS (m/s)",
	"platform_ground_speed2":       "platform_speed_wrt_ground : from INS (kt)",
	"aircraft_vert_accel":          "platform_acceleration_along_vertical_axis : from INS (meter second-2)",
	"altitude2":                    "altitude : from INS (meter)",
	"mixing_ratio2":                "humidity_mixing_ratio : from top dew-point hygrometer (GE 1011B) (gram/kg)",
	"platform_course":              "platform_course : from INS (degree)",
	"platform_upward_ground_speed": "upward_platform_speed_wrt_ground : from GPS (m/s)",
	"attack_angle":                 "angle_of_attack : from sensor on the boom (degree)",
	"sideslip_angle":               "angle_of_sideslip : from sensor on the boom (degree)",
	"Uwind":                        "eastward_wind : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (m/s)",
	"Vwind":                        "northward_wind : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (m/s)",
	"air_vertical_velocity":        "upward_air_velocity : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (m/s)",
	"wind_dir2":                    "wind_from_direction : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (degree)",
	"wind_spd2":                    "wind_speed : Attitudes and speed wrt ground from INS, air angles from radome, air speed from pitot (m/s)",
}

// DefaultNameMap returns a copy of the name map for Falcon-20 flight
// level data. Changes to the returned map do not affect later calls.
func DefaultNameMap() NameMap { return falconNameMap.Copy() }

// Copy returns a copy of m.
func (m NameMap) Copy() NameMap {
	o := make(NameMap, len(m))
	for k, v := range m {
		o[k] = v
	}
	return o
}

// Names returns the canonical names in m in sorted order.
func (m NameMap) Names() []string {
	o := make([]string, 0, len(m))
	for k := range m {
		o = append(o, k)
	}
	sort.Strings(o)
	return o
}

// DuplicateLabels returns the labels that more than one canonical
// name maps to, along with the sorted canonical names that share them.
// Canonical names that share a label resolve to the same column.
func (m NameMap) DuplicateLabels() map[string][]string {
	byLabel := make(map[string][]string)
	for _, name := range m.Names() {
		byLabel[m[name]] = append(byLabel[m[name]], name)
	}
	o := make(map[string][]string)
	for label, names := range byLabel {
		if len(names) > 1 {
			o[label] = names
		}
	}
	return o
}

// ReadNameMap reads a name map from a TOML document with one
// canonical-name = "label" pair per line, e.g.
//
//	latitude = "latitude : from GPS (degree)"
func ReadNameMap(r io.Reader) (NameMap, error) {
	m := make(NameMap)
	if _, err := toml.DecodeReader(r, &m); err != nil {
		return nil, fmt.Errorf("flightdata: reading name map: %v", err)
	}
	return m, nil
}

// WriteTOML writes m to w in the format read by ReadNameMap.
func (m NameMap) WriteTOML(w io.Writer) error {
	if err := toml.NewEncoder(w).Encode(map[string]string(m)); err != nil {
		return fmt.Errorf("flightdata: writing name map: %v", err)
	}
	return nil
}
