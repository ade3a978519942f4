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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Write writes h and t to w as a FFI 1001 file. The line counts in h
// (NLHEAD, NV, NSCOML and NNCOML) are recalculated from the lengths of
// the slices they describe, and h is updated to match.
func Write(w io.Writer, h *Header, t *Table) error {
	if len(h.VNAME) != len(t.V) || len(h.VSCAL) != len(t.V) || len(h.VMISS) != len(t.V) {
		return fmt.Errorf("nasaames: writing file: header describes %d, %d and %d variables (VNAME, VSCAL, VMISS) "+
			"but there are %d data columns", len(h.VNAME), len(h.VSCAL), len(h.VMISS), len(t.V))
	}
	for i, v := range t.V {
		if len(v) != len(t.X) {
			return fmt.Errorf("nasaames: writing file: variable %d has %d values; want %d", i, len(v), len(t.X))
		}
	}
	dx := h.DX
	if len(dx) == 0 {
		dx = []float64{0}
	}
	xname := h.XNAME
	if len(xname) == 0 {
		xname = []string{"Time (seconds)"}
	}

	h.FFI = FFI1001
	h.NV = len(t.V)
	h.NSCOML = len(h.SCOM)
	h.NNCOML = len(h.NCOM)
	h.NLHEAD = 14 + h.NV + h.NSCOML + h.NNCOML

	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "%d %d\n", h.NLHEAD, h.FFI)
	for _, s := range []string{h.ONAME, h.ORG, h.SNAME, h.MNAME} {
		fmt.Fprintln(b, s)
	}
	fmt.Fprintf(b, "%d %d\n", h.IVOL, h.NVOL)
	fmt.Fprintf(b, "%d %d %d %d %d %d\n", h.DATE[0], h.DATE[1], h.DATE[2], h.RDATE[0], h.RDATE[1], h.RDATE[2])
	fmt.Fprintln(b, formatFloats(dx[:1]))
	fmt.Fprintln(b, xname[0])
	fmt.Fprintln(b, h.NV)
	fmt.Fprintln(b, formatFloats(h.VSCAL))
	fmt.Fprintln(b, formatFloats(h.VMISS))
	for _, s := range h.VNAME {
		fmt.Fprintln(b, s)
	}
	fmt.Fprintln(b, h.NSCOML)
	for _, s := range h.SCOM {
		fmt.Fprintln(b, s)
	}
	fmt.Fprintln(b, h.NNCOML)
	for _, s := range h.NCOM {
		fmt.Fprintln(b, s)
	}

	row := make([]float64, len(t.V)+1)
	for i, x := range t.X {
		row[0] = x
		for j, v := range t.V {
			row[j+1] = v[i]
		}
		fmt.Fprintln(b, formatFloats(row))
	}
	return b.Flush()
}

func formatFloats(v []float64) string {
	s := make([]string, len(v))
	for i, f := range v {
		s[i] = strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strings.Join(s, " ")
}
