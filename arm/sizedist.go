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

package arm

import (
	"fmt"
	"math"
	"time"

	"github.com/aerosolmodel/aerodist"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// SizeDistData is the Dataset for size distribution products: a time
// series of binned measurements. Bin edges are reconstructed from the
// file's bin midpoints, so the series is ready for the representation
// conversions and resampling the aerodist package provides.
type SizeDistData struct {
	*aerodist.SizeDistTS
	product string
}

var _ Dataset = (*SizeDistData)(nil)

// ProductName gives the datastream product identifier the data came
// from.
func (d *SizeDistData) ProductName() string { return d.product }

// parseTDMASize reads a tandem differential mobility analyzer size
// distribution file: bin midpoints in `diameter_mid` [μm] and
// dN/dlogDp in `number_concentration` [1/cm³, time by diameter].
func parseTDMASize(ff *cdf.File) (Dataset, error) {
	return parseSizeProduct(ff, "tdmasize", "diameter_mid", "number_concentration")
}

// parseTDMAAPSSize reads a merged mobility/aerodynamic size
// distribution file: bin midpoints in `diameter` [μm] and dN/dlogDp
// in `dn_dlogdp` [1/cm³, time by diameter].
func parseTDMAAPSSize(ff *cdf.File) (Dataset, error) {
	return parseSizeProduct(ff, "tdmaapssize", "diameter", "dn_dlogdp")
}

func parseSizeProduct(ff *cdf.File, product, diameterVar, dataVar string) (Dataset, error) {
	times, err := readTimes(ff)
	if err != nil {
		return nil, err
	}
	diam, err := readVar(ff, diameterVar)
	if err != nil {
		return nil, err
	}
	if len(diam.Shape) != 1 {
		return nil, fmt.Errorf("%s has shape %v, want 1 dimension", diameterVar, diam.Shape)
	}
	centers := make([]float64, len(diam.Elements))
	for i, d := range diam.Elements {
		centers[i] = d * 1000 // μm -> nm
	}
	edges, err := edgesFromCenters(centers)
	if err != nil {
		return nil, fmt.Errorf("%s: %v", diameterVar, err)
	}
	data, err := readVar(ff, dataVar)
	if err != nil {
		return nil, err
	}
	if len(data.Shape) != 2 || data.Shape[0] != len(times) || data.Shape[1] != len(centers) {
		return nil, fmt.Errorf("%s has shape %v, want [%d %d]",
			dataVar, data.Shape, len(times), len(centers))
	}
	ts, err := aerodist.NewTSNoGapFill(edges, aerodist.DNdlogDp, times, data)
	if err != nil {
		return nil, err
	}
	return &SizeDistData{SizeDistTS: ts, product: product}, nil
}

// edgesFromCenters reconstructs bin edges from bin midpoints,
// assuming locally geometric bin spacing: interior edges are the
// geometric means of neighboring midpoints, and the outermost edges
// extrapolate the first and last spacing ratios.
func edgesFromCenters(centers []float64) ([]float64, error) {
	n := len(centers)
	if n < 2 {
		return nil, fmt.Errorf("need at least 2 bin midpoints, got %d", n)
	}
	for i, c := range centers {
		if c <= 0 {
			return nil, fmt.Errorf("bin midpoint %d = %g, want positive", i, c)
		}
		if i > 0 && c <= centers[i-1] {
			return nil, fmt.Errorf("bin midpoints not increasing (%g then %g)",
				centers[i-1], c)
		}
	}
	edges := make([]float64, n+1)
	for i := 1; i < n; i++ {
		edges[i] = math.Sqrt(centers[i-1] * centers[i])
	}
	edges[0] = centers[0] * centers[0] / edges[1]
	edges[n] = centers[n-1] * centers[n-1] / edges[n-1]
	return edges, nil
}

// concatSizeDists combines consecutive size distribution files into
// one time series, re-sorted by time. All files must share the same
// bins and representation.
func concatSizeDists(data []Dataset) (Dataset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("no datasets to concatenate")
	}
	first, ok := data[0].(*SizeDistData)
	if !ok {
		return nil, fmt.Errorf("dataset 0 is %T, want *SizeDistData", data[0])
	}
	if len(data) == 1 {
		return first, nil
	}
	edges := first.Edges()
	nbins := first.Bins()
	var times []time.Time
	nrows := 0
	for i, x := range data {
		d, ok := x.(*SizeDistData)
		if !ok {
			return nil, fmt.Errorf("dataset %d is %T, want *SizeDistData", i, x)
		}
		if d.Kind() != first.Kind() {
			return nil, fmt.Errorf("dataset %d is %s, want %s", i, d.Kind(), first.Kind())
		}
		if !sameFloats(d.Edges(), edges) {
			return nil, fmt.Errorf("dataset %d has different bins", i)
		}
		times = append(times, d.Times()...)
		nrows += d.Rows()
	}
	merged := sparse.ZerosDense(nrows, nbins)
	at := 0
	for _, x := range data {
		d := x.(*SizeDistData)
		copy(merged.Elements[at:at+len(d.Data().Elements)], d.Data().Elements)
		at += len(d.Data().Elements)
	}
	ts, err := aerodist.NewTSNoGapFill(edges, first.Kind(), times, merged)
	if err != nil {
		return nil, err
	}
	return &SizeDistData{SizeDistTS: ts, product: first.product}, nil
}

func sameFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
