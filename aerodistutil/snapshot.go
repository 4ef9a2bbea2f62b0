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
	"io"
	"os"
	"time"

	"github.com/aerosolmodel/aerodist"
)

// loadSnapshot reads the snapshot at path. When gapFill is true and
// the snapshot holds a time series, measurement gaps are filled with
// zero rows and the number of insertions is logged.
func loadSnapshot(path string, gapFill bool, gapScale float64) (aerodist.Distribution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("aerodist: opening snapshot: %v", err)
	}
	defer f.Close()
	d, err := aerodist.Load(f, &aerodist.LoadOptions{})
	if err != nil {
		return nil, fmt.Errorf("aerodist: loading %s: %v", path, err)
	}
	if ts, ok := d.(*aerodist.SizeDistTS); ok && gapFill {
		if n := ts.FillGaps(gapScale); n > 0 {
			Log.Warnf("%s: filled %d measurement gaps with zero rows", path, n)
		}
	}
	return d, nil
}

// saveSnapshot writes d as a snapshot at path.
func saveSnapshot(path string, d aerodist.Distribution) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("aerodist: creating snapshot: %v", err)
	}
	if err := d.Save(f); err != nil {
		f.Close()
		return fmt.Errorf("aerodist: writing %s: %v", path, err)
	}
	return f.Close()
}

// Info writes a short description of the snapshot at path to w: the
// kind of object, its distribution representation, and the extent of
// its bins and rows.
func Info(w io.Writer, path string) error {
	d, err := loadSnapshot(path, false, 0)
	if err != nil {
		return err
	}
	dist := d.Dist()
	edges := dist.Edges()
	switch dd := d.(type) {
	case *aerodist.SizeDistTS:
		fmt.Fprintln(w, "object = time series")
		fmt.Fprintf(w, "distributionType = %s\n", dist.Kind())
		fmt.Fprintf(w, "bins = %d [%g, %g] nm\n", dist.Bins(), edges[0], edges[len(edges)-1])
		fmt.Fprintf(w, "rows = %d\n", dist.Rows())
		if dist.Rows() > 0 {
			begin, end := dd.TimeSpan()
			fmt.Fprintf(w, "span = %s to %s\n",
				begin.UTC().Format(time.RFC3339), end.UTC().Format(time.RFC3339))
		}
	case *aerodist.SizeDistLS:
		bounds := dd.LayerBounds()
		fmt.Fprintln(w, "object = layer series")
		fmt.Fprintf(w, "distributionType = %s\n", dist.Kind())
		fmt.Fprintf(w, "bins = %d [%g, %g] nm\n", dist.Bins(), edges[0], edges[len(edges)-1])
		fmt.Fprintf(w, "rows = %d\n", dist.Rows())
		if len(bounds) > 0 {
			fmt.Fprintf(w, "span = %g to %g m\n", bounds[0][0], bounds[len(bounds)-1][1])
		}
	default:
		keys := dist.Keys()
		fmt.Fprintln(w, "object = distribution")
		fmt.Fprintf(w, "distributionType = %s\n", dist.Kind())
		fmt.Fprintf(w, "bins = %d [%g, %g] nm\n", dist.Bins(), edges[0], edges[len(edges)-1])
		fmt.Fprintf(w, "rows = %d\n", dist.Rows())
		if len(keys) > 0 {
			fmt.Fprintf(w, "span = %g to %g\n", keys[0], keys[len(keys)-1])
		}
	}
	return nil
}

// Convert loads the snapshot at inPath, converts it to the
// representation named by to, and saves the result at outPath. Time
// series and layer series keep their row structure through the
// conversion.
func Convert(inPath, outPath, to string, gapFill bool, gapScale float64) error {
	kind, err := aerodist.ParseKind(to)
	if err != nil {
		return err
	}
	d, err := loadSnapshot(inPath, gapFill, gapScale)
	if err != nil {
		return err
	}
	var converted aerodist.Distribution
	switch dd := d.(type) {
	case *aerodist.SizeDistTS:
		converted, err = dd.Convert(kind)
	case *aerodist.SizeDistLS:
		converted, err = dd.Convert(kind)
	default:
		converted, err = dd.Dist().Convert(kind)
	}
	if err != nil {
		return err
	}
	Log.Debugf("converted %s from %s to %s", inPath, d.Dist().Kind(), kind)
	return saveSnapshot(outPath, converted)
}

// Resample loads the time series snapshot at inPath, averages it over
// consecutive windows of the given duration, and saves the result at
// outPath.
func Resample(inPath, outPath string, window time.Duration, gapFill bool, gapScale float64) error {
	if window <= 0 {
		return fmt.Errorf("aerodist: averaging window must be positive, got %v", window)
	}
	d, err := loadSnapshot(inPath, gapFill, gapScale)
	if err != nil {
		return err
	}
	ts, ok := d.(*aerodist.SizeDistTS)
	if !ok {
		return fmt.Errorf("aerodist: %s doesn't hold a time series", inPath)
	}
	resampled := ts.Resample(window)
	Log.Debugf("resampled %s from %d to %d rows", inPath, ts.Rows(), resampled.Rows())
	return saveSnapshot(outPath, resampled)
}
