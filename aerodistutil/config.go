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

	"github.com/aerosolmodel/aerodist/arm"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// GetStringMapString returns a map[string]string from a viper configuration,
// accounting for the fact that it might be a json object if it was set
// from a command line argument.
func GetStringMapString(varName string, cfg *viper.Viper) map[string]string {
	i := cfg.Get(varName)
	switch i.(type) {
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for getStringMapString variable %s: %#v", varName, i))
	}
}

// timeLayouts are the accepted text forms for the begin and end
// configuration variables.
var timeLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

// parseTime converts s to a time, trying each of the accepted layouts
// in turn. An empty string gives the zero time, which leaves the
// corresponding end of the window open.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("aerodist: time %q doesn't match any of the layouts %q", s, timeLayouts)
}

// armReadOptions builds archive reading options from the begin, end,
// and products configuration variables.
func armReadOptions(cfg *viper.Viper) (arm.ReadOptions, error) {
	var opts arm.ReadOptions
	var err error
	if opts.Begin, err = parseTime(cfg.GetString("begin")); err != nil {
		return opts, err
	}
	if opts.End, err = parseTime(cfg.GetString("end")); err != nil {
		return opts, err
	}
	// An unset products flag means all products, which ReadOptions
	// spells as nil rather than an empty list.
	if products := cfg.GetStringSlice("products"); len(products) > 0 {
		opts.Products = products
	}
	return opts, nil
}
