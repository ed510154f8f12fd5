/*
Copyright © 2018 the rossconv authors.
This file is part of rossconv.

rossconv is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

rossconv is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with rossconv.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package rossconvutil provides the command-line interface for the
// EISMINT-ROSS dataset converter.
package rossconvutil

import (
	"fmt"
	"os"

	"github.com/glaciermodel/rossconv"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
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
	// Options are the configuration options available to rossconv.
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
			name: "prefix",
			usage: `
              prefix is prepended to the names of all three input files.`,
			shorthand:  "p",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "out",
			usage: `
              out specifies the output file location.`,
			shorthand:  "o",
			defaultVal: "ross.nc",
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
		{
			name: "verbose",
			usage: `
              verbose levels greater than zero echo the header and comment
              lines skipped while parsing the input files.`,
			shorthand:  "v",
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{convertCmd.Flags()},
		},
	}

	Cfg = viper.New()

	for _, option := range options {
		for _, set := range option.flagsets {
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
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
	Root.AddCommand(convertCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("rossconv: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "rossconv",
	Short: "A converter for the EISMINT-ROSS ice shelf benchmark dataset.",
	Long: `rossconv converts the EISMINT-ROSS ice shelf benchmark dataset into a
single self-describing NetCDF file.

Configuration can be changed by using a configuration file (and providing
the path to the file using the --config flag) or by using command-line
arguments.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of rossconv.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("rossconv v%s\n", rossconv.Version)
	},
	DisableAutoGenTag: true,
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert the EISMINT-ROSS dataset to NetCDF",
	Long: `convert reads the gridded data file and the two boundary-condition
list files of the EISMINT-ROSS distribution and writes one NetCDF file
holding every field grid with its metadata.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix := os.ExpandEnv(Cfg.GetString("prefix"))
		return Convert(
			prefix+GridFileName,
			prefix+KBCFileName,
			prefix+InletsFileName,
			os.ExpandEnv(Cfg.GetString("out")),
			cast.ToInt(Cfg.Get("verbose")),
		)
	},
	DisableAutoGenTag: true,
}
