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

// Package nasaames reads and writes files in the NASA Ames
// format for data exchange. Only the "simple table with header"
// layout (file format index 1001) is supported: one independent
// variable followed by NV primary variables per data row.
// A description of the format is available at
// https://espoarchive.nasa.gov/content/Ames_Format_Specification_v20.
package nasaames

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// FFI1001 is the file format index of a file with one real
// independent variable and NV primary variables ("simple table with header").
const FFI1001 = 1001

// ErrUnsupportedFFI is returned when the header of a file with a
// file format index other than FFI1001 is requested.
var ErrUnsupportedFFI = errors.New("nasaames: unsupported file format index")

// ParseError records a problem with a specific line of a file.
type ParseError struct {
	Line  int    // 1-based line number
	Field string // header item or "data"
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("nasaames: line %d: %s: %v", e.Line, e.Field, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Header holds the contents of a FFI 1001 file header. The field names
// follow the naming in the NASA Ames format specification.
type Header struct {
	NLHEAD int    // number of header lines, including this one
	FFI    int    // file format index
	ONAME  string // originator name
	ORG    string // originator organization
	SNAME  string // source (platform) name
	MNAME  string // mission (project) name
	IVOL   int    // file volume number
	NVOL   int    // total number of file volumes

	DATE  [3]int // UT date of the first data point: year, month, day
	RDATE [3]int // date of data reduction or revision: year, month, day

	DX    []float64 // interval between independent variable values; 0 if irregular
	XNAME []string  // independent variable name

	NV    int       // number of primary variables
	VSCAL []float64 // scale factor for each primary variable
	VMISS []float64 // missing-value sentinel for each primary variable
	VNAME []string  // name and units of each primary variable

	NSCOML int      // number of special comment lines
	SCOM   []string // special comments
	NNCOML int      // number of normal comment lines
	NCOM   []string // normal comments
}

// Table holds the data section of a FFI 1001 file.
type Table struct {
	// X holds the independent variable value of each row.
	X []float64
	// V holds the primary variables, one slice per variable,
	// each with len(X) values.
	V [][]float64
}

// Rows returns the number of data rows in t.
func (t *Table) Rows() int { return len(t.X) }

// File is a NASA Ames file opened for reading.
type File struct {
	s      *lineScanner
	closer io.Closer

	nlhead, ffi int

	header *Header
	data   *Table
}

// Open opens the named file and reads the first line of its header.
// The returned File should be closed after use.
func Open(name string) (*File, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	na, err := NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w (in file %s)", err, name)
	}
	na.closer = f
	return na, nil
}

// NewReader reads the first line of a NASA Ames header from r.
// Closing the returned File does not close r.
func NewReader(r io.Reader) (*File, error) {
	f := &File{s: newLineScanner(r)}
	v, err := f.s.ints(2, "NLHEAD FFI")
	if err != nil {
		return nil, err
	}
	f.nlhead, f.ffi = v[0], v[1]
	if f.nlhead < 1 {
		return nil, &ParseError{Line: 1, Field: "NLHEAD", Err: fmt.Errorf("invalid number of header lines %d", f.nlhead)}
	}
	return f, nil
}

// FFI returns the file format index.
func (f *File) FFI() int { return f.ffi }

// NLHEAD returns the number of header lines.
func (f *File) NLHEAD() int { return f.nlhead }

// Close releases the underlying file, if there is one.
// It is safe to call Close more than once.
func (f *File) Close() error {
	if f.closer == nil {
		return nil
	}
	err := f.closer.Close()
	f.closer = nil
	return err
}

// Header parses and returns the file header. It returns an error
// wrapping ErrUnsupportedFFI if the file format index is not FFI1001.
func (f *File) Header() (*Header, error) {
	if f.header != nil {
		return f.header, nil
	}
	if f.ffi != FFI1001 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedFFI, f.ffi)
	}
	h := &Header{NLHEAD: f.nlhead, FFI: f.ffi}
	s := f.s
	var err error

	for _, item := range []struct {
		dst  *string
		name string
	}{
		{&h.ONAME, "ONAME"},
		{&h.ORG, "ORG"},
		{&h.SNAME, "SNAME"},
		{&h.MNAME, "MNAME"},
	} {
		if *item.dst, err = s.text(item.name); err != nil {
			return nil, err
		}
	}

	vol, err := s.ints(2, "IVOL NVOL")
	if err != nil {
		return nil, err
	}
	h.IVOL, h.NVOL = vol[0], vol[1]

	dates, err := s.ints(6, "DATE RDATE")
	if err != nil {
		return nil, err
	}
	copy(h.DATE[:], dates[0:3])
	copy(h.RDATE[:], dates[3:6])
	if err = checkDate(h.DATE); err != nil {
		return nil, &ParseError{Line: s.line, Field: "DATE", Err: err}
	}

	if h.DX, err = s.floats(1, "DX"); err != nil {
		return nil, err
	}
	xname, err := s.text("XNAME")
	if err != nil {
		return nil, err
	}
	h.XNAME = []string{xname}

	nv, err := s.ints(1, "NV")
	if err != nil {
		return nil, err
	}
	h.NV = nv[0]
	if h.NV < 0 {
		return nil, &ParseError{Line: s.line, Field: "NV", Err: fmt.Errorf("negative number of variables %d", h.NV)}
	}
	if h.VSCAL, err = s.floats(h.NV, "VSCAL"); err != nil {
		return nil, err
	}
	if h.VMISS, err = s.floats(h.NV, "VMISS"); err != nil {
		return nil, err
	}
	if h.VNAME, err = s.lines(h.NV, "VNAME"); err != nil {
		return nil, err
	}

	if h.NSCOML, h.SCOM, err = s.commentBlock("NSCOML", "SCOM"); err != nil {
		return nil, err
	}
	if h.NNCOML, h.NCOM, err = s.commentBlock("NNCOML", "NCOM"); err != nil {
		return nil, err
	}

	if s.line > h.NLHEAD {
		return nil, &ParseError{Line: s.line, Field: "NLHEAD",
			Err: fmt.Errorf("header declares %d lines but is at least %d lines long", h.NLHEAD, s.line)}
	}
	// Skip anything left between the comments and the declared end of the header.
	for s.line < h.NLHEAD {
		if _, err = s.text("header"); err != nil {
			return nil, err
		}
	}
	f.header = h
	return h, nil
}

// Data parses and returns the data section of the file,
// parsing the header first if that has not happened yet.
// Values for a row may span more than one line.
func (f *File) Data() (*Table, error) {
	if f.data != nil {
		return f.data, nil
	}
	h, err := f.Header()
	if err != nil {
		return nil, err
	}
	t := &Table{V: make([][]float64, h.NV)}
	width := h.NV + 1
	row := make([]float64, 0, width)
	rowStart := 0
	for f.s.scan() {
		fields := strings.Fields(f.s.current)
		if len(fields) == 0 {
			continue
		}
		if len(row) == 0 {
			rowStart = f.s.line
		}
		for _, field := range fields {
			v, err := parseFloat(field)
			if err != nil {
				return nil, &ParseError{Line: f.s.line, Field: "data", Err: err}
			}
			row = append(row, v)
		}
		if len(row) < width {
			continue
		}
		if len(row) > width {
			return nil, &ParseError{Line: f.s.line, Field: "data",
				Err: fmt.Errorf("row starting on line %d has %d values; want %d", rowStart, len(row), width)}
		}
		t.X = append(t.X, row[0])
		for i, v := range row[1:] {
			t.V[i] = append(t.V[i], v)
		}
		row = row[:0]
	}
	if err = f.s.err(); err != nil {
		return nil, err
	}
	if len(row) != 0 {
		return nil, &ParseError{Line: f.s.line, Field: "data",
			Err: fmt.Errorf("incomplete row starting on line %d: %d of %d values", rowStart, len(row), width)}
	}
	for i := range t.V {
		if t.V[i] == nil {
			t.V[i] = []float64{}
		}
	}
	f.data = t
	return t, nil
}

func checkDate(d [3]int) error {
	if d[1] < 1 || d[1] > 12 || d[2] < 1 || d[2] > 31 {
		return fmt.Errorf("invalid date %04d-%02d-%02d", d[0], d[1], d[2])
	}
	return nil
}

// parseFloat parses a number, accepting Fortran double-precision
// exponents such as 1.5D+02.
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err == nil {
		return v, nil
	}
	if strings.ContainsAny(s, "dD") {
		return strconv.ParseFloat(strings.NewReplacer("d", "e", "D", "E").Replace(s), 64)
	}
	return v, err
}

// lineScanner reads a file line by line, keeping track of
// the current line number.
type lineScanner struct {
	sc      *bufio.Scanner
	line    int
	current string
}

func newLineScanner(r io.Reader) *lineScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineScanner{sc: sc}
}

func (s *lineScanner) scan() bool {
	if !s.sc.Scan() {
		return false
	}
	s.line++
	s.current = strings.TrimRight(s.sc.Text(), "\r")
	return true
}

func (s *lineScanner) err() error { return s.sc.Err() }

// next returns the next line or an error if the file ends early.
func (s *lineScanner) next(field string) (string, error) {
	if !s.scan() {
		err := s.err()
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return "", &ParseError{Line: s.line + 1, Field: field, Err: err}
	}
	return s.current, nil
}

func (s *lineScanner) text(field string) (string, error) {
	l, err := s.next(field)
	return strings.TrimSpace(l), err
}

func (s *lineScanner) lines(n int, field string) ([]string, error) {
	o := make([]string, n)
	for i := range o {
		l, err := s.text(field)
		if err != nil {
			return nil, err
		}
		o[i] = l
	}
	return o, nil
}

// tokens reads whole lines until at least n whitespace-separated
// values have been collected. It is an error for the last line
// read to contain more than n values in total.
func (s *lineScanner) tokens(n int, field string) ([]string, error) {
	var o []string
	for len(o) < n {
		l, err := s.next(field)
		if err != nil {
			return nil, err
		}
		o = append(o, strings.Fields(l)...)
	}
	if len(o) != n {
		return nil, &ParseError{Line: s.line, Field: field, Err: fmt.Errorf("found %d values; want %d", len(o), n)}
	}
	return o, nil
}

func (s *lineScanner) ints(n int, field string) ([]int, error) {
	tok, err := s.tokens(n, field)
	if err != nil {
		return nil, err
	}
	o := make([]int, n)
	for i, t := range tok {
		if o[i], err = strconv.Atoi(t); err != nil {
			return nil, &ParseError{Line: s.line, Field: field, Err: err}
		}
	}
	return o, nil
}

func (s *lineScanner) floats(n int, field string) ([]float64, error) {
	tok, err := s.tokens(n, field)
	if err != nil {
		return nil, err
	}
	o := make([]float64, n)
	for i, t := range tok {
		if o[i], err = parseFloat(t); err != nil {
			return nil, &ParseError{Line: s.line, Field: field, Err: err}
		}
	}
	return o, nil
}

// commentBlock reads a comment line count followed by that many lines.
func (s *lineScanner) commentBlock(countField, field string) (int, []string, error) {
	n, err := s.ints(1, countField)
	if err != nil {
		return 0, nil, err
	}
	if n[0] < 0 {
		return 0, nil, &ParseError{Line: s.line, Field: countField, Err: fmt.Errorf("negative line count %d", n[0])}
	}
	l := make([]string, n[0])
	for i := range l {
		if l[i], err = s.next(field); err != nil {
			return 0, nil, err
		}
	}
	return n[0], l, nil
}
