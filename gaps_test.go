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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

// gapDist builds a table with the given row keys and a recognizable
// value pattern (row i holds i+1 in every bin).
func gapDist(t *testing.T, keys []float64) *SizeDist {
	t.Helper()
	data := sparse.ZerosDense(len(keys), 2)
	for i := range keys {
		data.Elements[2*i] = float64(i + 1)
		data.Elements[2*i+1] = float64(i + 1)
	}
	d, err := New([]float64{100, 200, 400}, DNdDp, keys, data)
	if err != nil {
		t.Fatal(err)
	}
	return d
}

func TestFillGaps(t *testing.T) {
	// One inter-row delta five times the median spacing.
	d := gapDist(t, []float64{0, 1, 2, 3, 4, 9, 10, 11, 12, 13})
	if n := d.FillGaps(0); n != 1 {
		t.Fatalf("found %d gaps, want 1", n)
	}
	want := []float64{0, 1, 2, 3, 4, 5, 8, 9, 10, 11, 12, 13}
	if !reflect.DeepEqual(d.Keys(), want) {
		t.Fatalf("keys after fill = %v, want %v", d.Keys(), want)
	}
	for i := 1; i < d.Rows(); i++ {
		if d.Keys()[i] <= d.Keys()[i-1] {
			t.Fatalf("keys not strictly increasing at %d: %v", i, d.Keys())
		}
	}
	for _, k := range []float64{5, 8} {
		row := d.Row(d.keyRow(k))
		if row[0] != 0 || row[1] != 0 {
			t.Errorf("inserted row at key %g = %v, want zeros", k, row)
		}
	}
	// Rows on either side of the gap keep their values.
	if row := d.Row(d.keyRow(4)); row[0] != 5 {
		t.Errorf("row at key 4 = %v, want value 5", row)
	}
	if row := d.Row(d.keyRow(9)); row[0] != 6 {
		t.Errorf("row at key 9 = %v, want value 6", row)
	}
}

func TestFillGapsScale(t *testing.T) {
	// A 5x delta is not a gap when the threshold scale is 10.
	d := gapDist(t, []float64{0, 1, 2, 3, 4, 9, 10, 11, 12, 13})
	if n := d.FillGaps(10); n != 0 {
		t.Fatalf("found %d gaps, want 0", n)
	}
	if d.Rows() != 10 {
		t.Errorf("rows = %d, want 10 unchanged", d.Rows())
	}
}

func TestFillGapsCoincidentBand(t *testing.T) {
	// start+typical == end-typical: the zero band collapses to a
	// single row.
	d := gapDist(t, []float64{0, 1, 2, 3, 4, 6, 7, 8, 9})
	if n := d.FillGaps(0); n != 1 {
		t.Fatalf("found %d gaps, want 1", n)
	}
	want := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	if !reflect.DeepEqual(d.Keys(), want) {
		t.Fatalf("keys after fill = %v, want %v", d.Keys(), want)
	}
	if row := d.Row(d.keyRow(5)); row[0] != 0 {
		t.Errorf("inserted row = %v, want zeros", row)
	}
}

func TestFillGapsShortSeries(t *testing.T) {
	for _, keys := range [][]float64{nil, {3}} {
		d := gapDist(t, keys)
		if n := d.FillGaps(0); n != 0 {
			t.Errorf("%d-row table: found %d gaps, want 0", len(keys), n)
		}
	}
}
