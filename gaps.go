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

package aerodist

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// DefaultGapScale is the gap detection threshold used when no scale
// is given: a row-key delta is a gap when it exceeds the median delta
// multiplied by this factor.
const DefaultGapScale = 1.1

// FillGaps finds gaps in the row index, for example from an
// instrument being shut off, and makes them explicit: for every
// inter-row delta larger than scale times the median delta, one
// all-zero row is inserted just after the gap start (at start plus
// the median delta) and one just before the gap end (at end minus the
// median delta). The zero band keeps a gap visible as zeros instead
// of letting later resampling or plotting interpolate across it.
//
// FillGaps mutates the table in place and returns the number of gaps
// found; it never fails. A scale of zero or less selects
// DefaultGapScale.
func (d *SizeDist) FillGaps(scale float64) int {
	if scale <= 0 {
		scale = DefaultGapScale
	}
	if len(d.keys) < 2 {
		return 0
	}
	deltas := make([]float64, len(d.keys)-1)
	for i := range deltas {
		deltas[i] = d.keys[i+1] - d.keys[i]
	}
	sorted := append([]float64(nil), deltas...)
	sort.Float64s(sorted)
	typical := stat.Quantile(0.5, stat.Empirical, sorted, nil)
	threshold := typical * scale

	var inserts []float64
	ngaps := 0
	for i, delta := range deltas {
		if delta <= threshold {
			continue
		}
		ngaps++
		start, end := d.keys[i], d.keys[i+1]
		k1, k2 := start+typical, end-typical
		inserts = append(inserts, k1)
		if k2 != k1 {
			inserts = append(inserts, k2)
		}
	}
	zero := make([]float64, d.Bins())
	for _, k := range inserts {
		if d.keyRow(k) < 0 {
			d.insertRow(k, zero)
		}
	}
	return ngaps
}
