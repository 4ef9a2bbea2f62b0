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
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/aerosolmodel/aerodist"
)

// A Scenario describes what the simulate command should generate.
// The zero value selects the library defaults for everything but the
// time axis, which a time series scenario must set explicitly.
type Scenario struct {
	// Dist describes the log-normal mode to simulate.
	Dist aerodist.SimConfig

	// Layers describes the vertical structure when generating a
	// layer series.
	Layers aerodist.LayerSimConfig

	// Start and End bound the time axis when generating a time
	// series.
	Start, End time.Time

	// Step is the time series sampling interval as a duration string
	// such as 30s or 5m (default 1m).
	Step string
}

// LoadScenario reads a simulation scenario from the TOML file at
// path. An empty path gives the default scenario.
func LoadScenario(path string) (*Scenario, error) {
	s := new(Scenario)
	if path == "" {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, s); err != nil {
		return nil, fmt.Errorf("aerodist: reading scenario file: %v", err)
	}
	return s, nil
}

// Simulate generates the object selected by series ("dist" for a
// single distribution, "ts" for a time series, "ls" for a layer
// series) and saves it as a snapshot at outPath.
func Simulate(outPath, series string, s *Scenario) error {
	var d aerodist.Distribution
	var err error
	switch series {
	case "dist":
		d, err = aerodist.Simulate(s.Dist)
	case "ts":
		if s.Start.IsZero() || s.End.IsZero() {
			return fmt.Errorf("aerodist: a time series scenario must set Start and End")
		}
		step := time.Minute
		if s.Step != "" {
			if step, err = time.ParseDuration(s.Step); err != nil {
				return fmt.Errorf("aerodist: invalid scenario step: %v", err)
			}
		}
		d, err = aerodist.SimulateTS(s.Dist, s.Start, s.End, step)
	case "ls":
		d, err = aerodist.SimulateLS(s.Dist, s.Layers)
	default:
		return fmt.Errorf("aerodist: unknown series type %q; use dist, ts, or ls", series)
	}
	if err != nil {
		return err
	}
	Log.Debugf("simulated %s with %d bins", series, d.Dist().Bins())
	return saveSnapshot(outPath, d)
}
