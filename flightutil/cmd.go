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


// Package flightutil contains the command-line interface and
// configuration handling for flightdata.
package flightutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/flightdata"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to flightdata.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "log_level",
			usage: `
              log_level specifies the minimum severity of log messages
              to print. It can be one of debug, info, warning, or error.`,
			defaultVal: "info",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "namemap_file",
			usage: `
              namemap_file specifies the location of a TOML file that
              maps canonical variable names to column labels, for example
              latitude = "latitude : from GPS (degree)". If it is not
              specified, the built-in map for Falcon-20 flight level
              data is used.`,
			shorthand:  "n",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "mask_raw_values",
			usage: `
              mask_raw_values specifies that missing values should be
              found by comparing the unscaled values in the file to the
              missing value indicators. By default the scaled values are
              compared, which only finds missing values in variables
              with a scale factor of 1.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "derived",
			usage: `
              derived specifies variables to calculate after reading the
              file, as a map of variable names to expressions, for example
              {"temperature_K":"temperature + 273.15"}. Derived variables
              are calculated in alphabetical order, so an expression can
              refer to derived variables whose names sort before its own.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{summaryCmd.Flags(), convertCmd.PersistentFlags(), plotCmd.Flags(), compareCmd.Flags()},
		},
		{
			name: "output",
			usage: `
              output specifies the location of the output file. If it is
              not specified, the input file name is used with the extension
              replaced.`,
			shorthand:  "o",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.PersistentFlags(), plotCmd.Flags()},
		},
		{
			name: "fields",
			usage: `
              fields specifies the variables to write as shapefile attributes
              in addition to the time.`,
			defaultVal: []string{"altitude", "temperature", "relative_humidity", "wind_spd", "wind_dir"},
			flagsets:   []*pflag.FlagSet{shapefileCmd.Flags()},
		},
		{
			name: "variable",
			usage: `
              variable specifies the variable to plot.`,
			shorthand:  "v",
			defaultVal: "altitude",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("FLIGHTDATA")
	Cfg.AutomaticEnv()

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := strings.TrimSpace(b.String())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(summaryCmd)
	Root.AddCommand(compareCmd)
	Root.AddCommand(nameMapCmd)
	Root.AddCommand(convertCmd)
	convertCmd.AddCommand(netcdfCmd)
	convertCmd.AddCommand(shapefileCmd)
	convertCmd.AddCommand(xlsxCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one,
// and sets up logging.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("flightdata: problem reading configuration file: %v", err)
		}
	}
	return setLogLevel(Cfg.GetString("log_level"))
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "flightdata",
	Short: "Read and convert aircraft flight level data.",
	Long: `flightdata reads aircraft flight level data in the NASA Ames
"simple table with header" format (FFI 1001), maps the column labels
in the file header to canonical variable names, and converts the result
to other formats.

Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'FLIGHTDATA_var' where 'var' is the
name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of flightdata.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "flightdata v%s\n", flightdata.Version)
	},
	DisableAutoGenTag: true,
}

var summaryCmd = &cobra.Command{
	Use:   "summary file...",
	Short: "Summarize flight level data files",
	Long: `summary reads one or more flight level data files and logs the flight
information and summary statistics for each variable in the name map.
Files are read concurrently.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		records, err := LoadRecords(Cfg, args)
		if err != nil {
			return err
		}
		for i, r := range records {
			Summarize(r, logger.WithField("file", args[i]))
		}
		return nil
	},
	DisableAutoGenTag: true,
}

var compareCmd = &cobra.Command{
	Use:   "compare file reference other",
	Short: "Compare two measurements",
	Long: `compare calculates statistics comparing two variables in a flight level
data file that measure the same quantity, for example altitude and altitude2
(the GPS and INS altitudes). The first variable is treated as the reference.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := LoadRecord(Cfg, args[0])
		if err != nil {
			return err
		}
		c, err := r.Compare(args[1], args[2])
		if err != nil {
			return err
		}
		logger.WithFields(logrus.Fields{
			"reference": c.Reference,
			"other":     c.Other,
			"n":         c.N,
			"MB":        c.MB,
			"ME":        c.ME,
			"MFB":       c.MFB,
			"MFE":       c.MFE,
			"MR":        c.MR,
			"slope":     c.Slope,
			"intercept": c.Intercept,
			"R2":        c.R2,
		}).Info("comparison")
		return nil
	},
	DisableAutoGenTag: true,
}

var nameMapCmd = &cobra.Command{
	Use:   "namemap",
	Short: "Print the name map",
	Long: `namemap prints the map of canonical variable names to column
labels that is in use, in the TOML format accepted by --namemap_file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := nameMap(Cfg.GetString("namemap_file"))
		if err != nil {
			return err
		}
		if m == nil {
			m = flightdata.DefaultNameMap()
		}
		return m.WriteTOML(cmd.OutOrStdout())
	},
	DisableAutoGenTag: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert flight level data to another format",
	Long: `convert converts a flight level data file to another format.
Use the subcommands specified below to choose the format.`,
	DisableAutoGenTag: true,
}

var netcdfCmd = &cobra.Command{
	Use:   "netcdf file",
	Short: "Convert to NetCDF",
	Long: `netcdf writes the variables in a flight level data file that
are in the name map to a NetCDF file, along with the flight information.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := LoadRecord(Cfg, args[0])
		if err != nil {
			return err
		}
		out, err := checkOutputFile(Cfg.GetString("output"), args[0], ".nc")
		if err != nil {
			return err
		}
		if err = r.WriteNetCDF(out); err != nil {
			return err
		}
		logger.WithField("file", out).Info("wrote netcdf file")
		return nil
	},
	DisableAutoGenTag: true,
}

var shapefileCmd = &cobra.Command{
	Use:   "shapefile file",
	Short: "Convert to a shapefile",
	Long: `shapefile writes the flight track in a flight level data file
to a point shapefile, with the variables listed in --fields as attributes.
Fields that are not present in the file are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := LoadRecord(Cfg, args[0])
		if err != nil {
			return err
		}
		out, err := checkOutputFile(Cfg.GetString("output"), args[0], ".shp")
		if err != nil {
			return err
		}
		fields, err := presentFields(r, Cfg.GetStringSlice("fields"))
		if err != nil {
			return err
		}
		if err = r.WriteShapefile(out, fields...); err != nil {
			return err
		}
		logger.WithField("file", out).Info("wrote shapefile")
		return nil
	},
	DisableAutoGenTag: true,
}

var xlsxCmd = &cobra.Command{
	Use:   "xlsx file",
	Short: "Convert to an Excel workbook",
	Long: `xlsx writes the variables in a flight level data file that are in
the name map to an Excel workbook, with one column per variable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := LoadRecord(Cfg, args[0])
		if err != nil {
			return err
		}
		out, err := checkOutputFile(Cfg.GetString("output"), args[0], ".xlsx")
		if err != nil {
			return err
		}
		if err = r.WriteXLSX(out); err != nil {
			return err
		}
		logger.WithField("file", out).Info("wrote excel file")
		return nil
	},
	DisableAutoGenTag: true,
}

var plotCmd = &cobra.Command{
	Use:   "plot file",
	Short: "Plot a time series",
	Long: `plot plots the time series of a variable in a flight level
data file. The image format is chosen from the extension of --output
(for example .png, .svg, or .pdf).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		r, err := LoadRecord(Cfg, args[0])
		if err != nil {
			return err
		}
		v := Cfg.GetString("variable")
		out, err := checkOutputFile(Cfg.GetString("output"), args[0], "_"+v+".png")
		if err != nil {
			return err
		}
		if err = r.PlotTimeSeries(out, v); err != nil {
			return err
		}
		logger.WithField("file", out).Info("wrote plot")
		return nil
	},
	DisableAutoGenTag: true,
}
