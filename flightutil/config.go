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


package flightutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ctessum/requestcache"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/flightdata"
	"github.com/spf13/cast"
)

var logger = logrus.StandardLogger()

func init() {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
		DisableSorting:  true,
	})
}

// setLogLevel sets the minimum severity of messages that are logged.
func setLogLevel(level string) error {
	if level == "" {
		return nil
	}
	l, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("flightdata: invalid log_level: %v", err)
	}
	logger.SetLevel(l)
	return nil
}

// loadOptions holds the settings used to read a flight level data file.
type loadOptions struct {
	nameMap       flightdata.NameMap
	maskRawValues bool
	derived       map[string]string
}

func newLoadOptions(cfg *viper.Viper) (*loadOptions, error) {
	m, err := nameMap(cfg.GetString("namemap_file"))
	if err != nil {
		return nil, err
	}
	derived, err := getStringMapString("derived", cfg)
	if err != nil {
		return nil, err
	}
	return &loadOptions{
		nameMap:       m,
		maskRawValues: cfg.GetBool("mask_raw_values"),
		derived:       derived,
	}, nil
}

func (o *loadOptions) load(fname string) (*flightdata.Record, error) {
	l := &flightdata.Loader{
		NameMap:       o.nameMap,
		MaskRawValues: o.maskRawValues,
		Log:           logger,
	}
	r, err := l.Load(os.ExpandEnv(fname))
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(o.derived))
	for name := range o.derived {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		expr := strings.Replace(o.derived[name], "\n", " ", -1)
		if err := r.Derive(name, expr); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// LoadRecord reads the flight level data file fname using the name map,
// masking and derived variable settings in cfg.
func LoadRecord(cfg *viper.Viper, fname string) (*flightdata.Record, error) {
	o, err := newLoadOptions(cfg)
	if err != nil {
		return nil, err
	}
	return o.load(fname)
}

// LoadRecords reads the flight level data files in fnames concurrently
// using the settings in cfg. Files that are listed more than once
// are only read once.
func LoadRecords(cfg *viper.Viper, fnames []string) ([]*flightdata.Record, error) {
	o, err := newLoadOptions(cfg)
	if err != nil {
		return nil, err
	}
	// Errors are returned as part of the result so that requests
	// waiting on a duplicate are also released.
	type result struct {
		r   *flightdata.Record
		err error
	}
	c := requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
		r, err := o.load(request.(string))
		return result{r: r, err: err}, nil
	}, runtime.GOMAXPROCS(-1), requestcache.Deduplicate(), requestcache.Memory(len(fnames)))

	results := make([]result, len(fnames))
	var wg sync.WaitGroup
	wg.Add(len(fnames))
	for i, f := range fnames {
		go func(i int, f string) {
			defer wg.Done()
			r, _ := c.NewRequest(context.TODO(), f, f).Result()
			results[i] = r.(result)
		}(i, f)
	}
	wg.Wait()
	records := make([]*flightdata.Record, len(fnames))
	for i, res := range results {
		if res.err != nil {
			return nil, res.err
		}
		records[i] = res.r
	}
	return records, nil
}

// nameMap reads the name map in fname, returning nil if
// fname is empty.
func nameMap(fname string) (flightdata.NameMap, error) {
	if fname == "" {
		return nil, nil
	}
	f, err := os.Open(os.ExpandEnv(fname))
	if err != nil {
		return nil, fmt.Errorf("flightdata: opening name map file: %v", err)
	}
	defer f.Close()
	return flightdata.ReadNameMap(f)
}

// getStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument or an environment variable.
func getStringMapString(varName string, cfg *viper.Viper) (map[string]string, error) {
	i := cfg.Get(varName)
	switch v := i.(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, nil
		}
		d := json.NewDecoder(bytes.NewBufferString(v))
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			return nil, fmt.Errorf("flightdata: reading %s: %v", varName, err)
		}
		return o, nil
	default:
		o, err := cast.ToStringMapStringE(i)
		if err != nil {
			return nil, fmt.Errorf("flightdata: invalid type for %s: %v", varName, err)
		}
		return o, nil
	}
}

// checkOutputFile returns the output file name, which is the input file
// name with its extension replaced by ext if out is empty, and checks
// that the output directory exists.
func checkOutputFile(out, in, ext string) (string, error) {
	if out == "" {
		out = strings.TrimSuffix(in, filepath.Ext(in)) + ext
	}
	out = os.ExpandEnv(out)
	if _, err := os.Stat(filepath.Dir(out)); err != nil {
		return out, fmt.Errorf("flightdata: the output directory doesn't exist: %v", err)
	}
	return out, nil
}

// presentFields returns the variables in fields that are present
// in r, logging the ones that are not.
func presentFields(r *flightdata.Record, fields []string) ([]string, error) {
	var o []string
	for _, f := range fields {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if _, ok := r.Vars[f]; !ok {
			return nil, fmt.Errorf("flightdata: field %s is not in the name map", f)
		}
		if _, ok := r.Get(f); !ok {
			logger.WithField("variable", f).Warn("skipping field that is not present in the file")
			continue
		}
		o = append(o, f)
	}
	return o, nil
}

// Summarize logs the flight information in r and summary
// statistics for each of its variables.
func Summarize(r *flightdata.Record, log logrus.FieldLogger) {
	fields := logrus.Fields{
		flightdata.ProjectKey:      r.Project,
		flightdata.PlatformKey:     r.Platform,
		flightdata.FlightNumberKey: r.FlightNumber,
		"rows":                     r.Len(),
	}
	if r.Len() > 0 {
		fields["start"] = r.Time[0].Format(time.RFC3339)
		fields["end"] = r.Time[r.Len()-1].Format(time.RFC3339)
	}
	log.WithFields(fields).Info("flight")
	for _, s := range r.Summary() {
		if !s.Present {
			log.WithField("variable", s.Name).Info("not present")
			continue
		}
		log.WithFields(logrus.Fields{
			"variable": s.Name,
			"count":    s.Count,
			"min":      s.Min,
			"max":      s.Max,
			"mean":     s.Mean,
			"std":      s.StdDev,
		}).Info("summary")
	}
}
