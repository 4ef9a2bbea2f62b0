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
	"math"
	"time"

	"github.com/ctessum/sparse"
)

// A SizeDistTS is a size distribution time series: a SizeDist whose
// row keys are timestamps, stored as Unix seconds.
type SizeDistTS struct {
	SizeDist
}

// timeKey converts a timestamp to its row-key representation.
func timeKey(t time.Time) float64 {
	return float64(t.Unix()) + float64(t.Nanosecond())/1e9
}

// keyTime converts a row key back to a timestamp in UTC.
func keyTime(k float64) time.Time {
	sec := math.Floor(k)
	return time.Unix(int64(sec), int64(math.Round((k-sec)*1e9))).UTC()
}

// NewTS creates a size distribution time series from bin edges
// (nanometers), a representation kind, row timestamps, and row data
// with shape [len(times), len(edges)-1]. Rows are sorted by time.
// Gaps in the time index are filled with zero-row bands
// (see FillGaps) using the default gap scale; use NewTSNoGapFill to
// keep the index as given.
func NewTS(edges []float64, kind Kind, times []time.Time, data *sparse.DenseArray) (*SizeDistTS, error) {
	d, err := NewTSNoGapFill(edges, kind, times, data)
	if err != nil {
		return nil, err
	}
	d.FillGaps(DefaultGapScale)
	return d, nil
}

// NewTSNoGapFill is NewTS without the gap-filling step.
func NewTSNoGapFill(edges []float64, kind Kind, times []time.Time, data *sparse.DenseArray) (*SizeDistTS, error) {
	keys := make([]float64, len(times))
	for i, t := range times {
		keys[i] = timeKey(t)
	}
	d, err := New(edges, kind, keys, data)
	if err != nil {
		return nil, err
	}
	return &SizeDistTS{SizeDist: *d}, nil
}

func (d *SizeDistTS) objectType() string { return "SizeDist_TS" }

// Copy returns a deep, independent copy.
func (d *SizeDistTS) Copy() *SizeDistTS {
	return &SizeDistTS{SizeDist: *d.SizeDist.Copy()}
}

// Convert returns a new time series holding this one's rows converted
// to the given representation kind.
func (d *SizeDistTS) Convert(to Kind) (*SizeDistTS, error) {
	c, err := d.SizeDist.Convert(to)
	if err != nil {
		return nil, err
	}
	return &SizeDistTS{SizeDist: *c}, nil
}

// Times returns the row timestamps, sorted ascending, in UTC.
func (d *SizeDistTS) Times() []time.Time {
	times := make([]time.Time, len(d.keys))
	for i, k := range d.keys {
		times[i] = keyTime(k)
	}
	return times
}

// TimeSpan returns the first and last row timestamps. Both are the
// zero time when the series is empty.
func (d *SizeDistTS) TimeSpan() (time.Time, time.Time) {
	if len(d.keys) == 0 {
		return time.Time{}, time.Time{}
	}
	return keyTime(d.keys[0]), keyTime(d.keys[len(d.keys)-1])
}

// ZoomTime returns a new series truncated to the rows with
// start <= time <= end. A zero start or end leaves that side unbounded.
func (d *SizeDistTS) ZoomTime(start, end time.Time) *SizeDistTS {
	lo, hi := math.Inf(-1), math.Inf(1)
	if !start.IsZero() {
		lo = timeKey(start)
	}
	if !end.IsZero() {
		hi = timeKey(end)
	}
	var idx []int
	for i, k := range d.keys {
		if k >= lo && k <= hi {
			idx = append(idx, i)
		}
	}
	return &SizeDistTS{SizeDist: d.selectRows(idx)}
}

// Resample returns a new series averaged over consecutive windows of
// the given length. Windows are right-closed and labeled by their
// right edge, anchored so that the first row falls on the first
// label. Per-bin means skip NaN values; a window with no valid values
// for a bin yields NaN there, keeping the output grid regular. For
// the calibration kind, NaN means are coerced to 0 instead, because a
// missing calibration point means "no particles counted" rather than
// "unknown". A non-positive window returns an unchanged copy.
func (d *SizeDistTS) Resample(window time.Duration) *SizeDistTS {
	w := window.Seconds()
	if w <= 0 || d.Rows() < 2 {
		return d.Copy()
	}
	nbins := d.Bins()
	t0 := d.keys[0]
	nwin := int(math.Ceil((d.keys[len(d.keys)-1]-t0)/w)) + 1

	sums := make([]float64, nwin*nbins)
	counts := make([]int, nwin*nbins)
	for i, k := range d.keys {
		win := int(math.Ceil((k - t0) / w))
		if win < 0 {
			win = 0
		} else if win >= nwin {
			win = nwin - 1
		}
		for j := 0; j < nbins; j++ {
			v := d.data.Elements[i*nbins+j]
			if math.IsNaN(v) {
				continue
			}
			sums[win*nbins+j] += v
			counts[win*nbins+j]++
		}
	}

	keys := make([]float64, nwin)
	data := sparse.ZerosDense(nwin, nbins)
	for win := 0; win < nwin; win++ {
		keys[win] = t0 + float64(win)*w
		for j := 0; j < nbins; j++ {
			if n := counts[win*nbins+j]; n > 0 {
				data.Elements[win*nbins+j] = sums[win*nbins+j] / float64(n)
			} else if d.kind != Calibration {
				data.Elements[win*nbins+j] = math.NaN()
			}
		}
	}
	return &SizeDistTS{SizeDist: d.withRows(keys, data)}
}

// AverageAll collapses the series to a single-row table (key 0) of
// per-bin means over all rows, skipping NaN values. A bin with no
// valid values averages to NaN.
func (d *SizeDistTS) AverageAll() *SizeDist {
	nbins := d.Bins()
	data := sparse.ZerosDense(1, nbins)
	for j := 0; j < nbins; j++ {
		var sum float64
		var n int
		for i := 0; i < d.Rows(); i++ {
			v := d.data.Elements[i*nbins+j]
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
		}
		if n > 0 {
			data.Elements[j] = sum / float64(n)
		} else {
			data.Elements[j] = math.NaN()
		}
	}
	out := d.withRows([]float64{0}, data)
	return &out
}
