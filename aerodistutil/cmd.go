/*
Copyright © 2016 the AeroDist authors.
This file is part of AeroDist.

AeroDist is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

AeroDist is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with AeroDist.  If not, see <http://www.gnu.org/licenses/>.
*/

package aerodistutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aerosolmodel/aerodist"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

// Log collects status information from command-line operations. The
// aerodist library itself never logs; anything worth reporting, such
// as filled measurement gaps or skipped archive files, surfaces here.
var Log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Log.Formatter = &logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	}

	// Options are the configuration options available to AeroDist.
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
			name: "verbose",
			usage: `
              verbose turns on debug-level logging.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "to",
			usage: `
              to specifies the distribution representation to convert to.
              The choices are dNdDp, dNdlogDp, dSdDp, dSdlogDp, dVdDp,
              dVdlogDp, numberConcentration, and calibration.`,
			defaultVal: "dNdlogDp",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "gapfill",
			usage: `
              gapfill specifies whether gaps in a loaded time series should
              be filled with rows of zero concentration, marking periods
              where the instrument wasn't measuring.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), resampleCmd.Flags()},
		},
		{
			name: "gapscale",
			usage: `
              gapscale specifies how much longer than the typical sampling
              interval the spacing between two measurements must be to
              count as a gap.`,
			defaultVal: aerodist.DefaultGapScale,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags(), resampleCmd.Flags()},
		},
		{
			name: "window",
			usage: `
              window specifies the averaging window for resampling a time
              series, as a duration such as 30m or 1h.`,
			defaultVal: "1h",
			flagsets:   []*pflag.FlagSet{resampleCmd.Flags()},
		},
		{
			name: "scenario",
			usage: `
              scenario specifies the location of a TOML file describing the
              distribution to simulate. An empty location selects the
              default scenario: a single log-normal mode centered at
              200 nm.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{simulateCmd.Flags()},
		},
		{
			name: "series",
			usage: `
              series specifies what to simulate: a single distribution
              (dist), a time series (ts), or a vertical layer series (ls).`,
			defaultVal: "dist",
			flagsets:   []*pflag.FlagSet{simulateCmd.Flags()},
		},
		{
			name: "begin",
			usage: `
              begin specifies the beginning of the time window to read,
              for example 2012-03-01. Files from the day before the window
              opens are included so that day-boundary records aren't lost.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{armLsCmd.Flags(), armReadCmd.Flags()},
		},
		{
			name: "end",
			usage: `
              end specifies the end of the time window to read, for example
              2012-03-08. Files from the day after the window closes are
              included so that day-boundary records aren't lost.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{armLsCmd.Flags(), armReadCmd.Flags()},
		},
		{
			name: "products",
			usage: `
              products specifies a list of datastream products to read,
              such as tdmasize or aosacsm. An empty list reads every
              product AeroDist understands.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{armLsCmd.Flags(), armReadCmd.Flags()},
		},
		{
			name: "out",
			usage: `
              out specifies the directory the extracted data is written
              to.`,
			defaultVal: ".",
			flagsets:   []*pflag.FlagSet{armReadCmd.Flags()},
		},
		{
			name: "xlsx",
			usage: `
              xlsx specifies whether scalar data tables should be written
              as XLSX spreadsheets instead of CSV files.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{armReadCmd.Flags()},
		},
		{
			name: "derive",
			usage: `
              derive specifies columns to add to each extracted data table,
              as a mapping from new column names to arithmetic expressions
              over the existing columns, for example
              {"total_scatter": "Bs_G_Dry_1um_Neph3W_1 * 2"}.`,
			defaultVal: map[string]string{},
			flagsets:   []*pflag.FlagSet{armReadCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("AERODIST")

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
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
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
	Root.AddCommand(infoCmd)
	Root.AddCommand(convertCmd)
	Root.AddCommand(resampleCmd)
	Root.AddCommand(simulateCmd)
	Root.AddCommand(armCmd)
	armCmd.AddCommand(armLsCmd)
	armCmd.AddCommand(armReadCmd)
}

// setConfig sets the logging level and finds and reads in the
// configuration file, if there is one.
func setConfig() error {
	if Cfg.GetBool("verbose") {
		Log.Level = logrus.DebugLevel
	}
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("aerodist: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "aerodist",
	Short: "A toolkit for atmospheric aerosol size distributions.",
	Long: `AeroDist analyzes binned atmospheric aerosol particle size distributions.
Use the subcommands specified below to access the functionality.

Refer to the subcommand documentation for configuration options and default
settings. Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using command-line
arguments, or by setting environment variables in the format 'AERODIST_var'
where 'var' is the name of the variable to be set.
Refer to https://github.com/spf13/viper for additional configuration
information.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of AeroDist.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("AeroDist v%s\n", aerodist.Version)
	},
	DisableAutoGenTag: true,
}

var infoCmd = &cobra.Command{
	Use:   "info [snapshot file]",
	Short: "Describe a snapshot file.",
	Long: `info loads the snapshot at [snapshot file] and prints a short
description of it: what kind of object it holds, its distribution
representation, and the extent of its bins and rows.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Info(cmd.OutOrStdout(), args[0])
	},
	DisableAutoGenTag: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert [input file] [output file]",
	Short: "Convert a snapshot to a different representation.",
	Long: `convert loads the snapshot at [input file], converts it to the
distribution representation named by --to, and saves the result to
[output file]. Gaps in a time series are filled on load unless
--gapfill=false.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return Convert(args[0], args[1], Cfg.GetString("to"),
			Cfg.GetBool("gapfill"), Cfg.GetFloat64("gapscale"))
	},
	DisableAutoGenTag: true,
}

var resampleCmd = &cobra.Command{
	Use:   "resample [input file] [output file]",
	Short: "Average a time series over a coarser interval.",
	Long: `resample loads the time series snapshot at [input file], averages
it over consecutive windows of the duration given by --window, and
saves the result to [output file]. Gaps are filled on load unless
--gapfill=false, so quiet periods pull the averages down instead of
disappearing.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		window, err := time.ParseDuration(Cfg.GetString("window"))
		if err != nil {
			return fmt.Errorf("aerodist: invalid averaging window: %v", err)
		}
		return Resample(args[0], args[1], window,
			Cfg.GetBool("gapfill"), Cfg.GetFloat64("gapscale"))
	},
	DisableAutoGenTag: true,
}

var simulateCmd = &cobra.Command{
	Use:   "simulate [output file]",
	Short: "Generate a simulated distribution.",
	Long: `simulate generates a log-normal size distribution and saves it as a
snapshot to [output file]. --series chooses between a single
distribution, a time series, and a vertical layer series; --scenario
points to a TOML file overriding the simulation defaults.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := LoadScenario(Cfg.GetString("scenario"))
		if err != nil {
			return err
		}
		return Simulate(args[0], Cfg.GetString("series"), s)
	},
	DisableAutoGenTag: true,
}

var armCmd = &cobra.Command{
	Use:   "arm",
	Short: "Work with ARM climate research archive data.",
	Long: `arm reads instrument data files downloaded from the Atmospheric
Radiation Measurement (ARM) archive. Use the subcommands specified
below to summarize or extract the data.`,
	DisableAutoGenTag: true,
}

var armLsCmd = &cobra.Command{
	Use:   "ls [directory]",
	Short: "Summarize the ARM files in a directory.",
	Long: `ls scans [directory] for ARM datastream files and prints a
day-by-day table of how many files each product has, honoring the
--begin, --end, and --products filters.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := armReadOptions(Cfg)
		if err != nil {
			return err
		}
		return ArmLs(cmd.OutOrStdout(), args[0], opts)
	},
	DisableAutoGenTag: true,
}

var armReadCmd = &cobra.Command{
	Use:   "read [directory]",
	Short: "Extract ARM files to snapshots and data tables.",
	Long: `read parses the ARM datastream files in [directory], concatenates
the records by product, and writes each product to the --out
directory: size distribution products become time series snapshots,
and scalar products become CSV files (or XLSX spreadsheets with
--xlsx). --derive adds computed columns to the scalar tables.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := armReadOptions(Cfg)
		if err != nil {
			return err
		}
		return ArmRead(args[0], Cfg.GetString("out"), opts,
			GetStringMapString("derive", Cfg), Cfg.GetBool("xlsx"))
	},
	DisableAutoGenTag: true,
}
