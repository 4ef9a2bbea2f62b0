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
	"reflect"
	"testing"

	"github.com/ctessum/sparse"
)

func TestNewValidation(t *testing.T) {
	good := sparse.ZerosDense(1, 2)
	cases := []struct {
		name  string
		edges []float64
		kind  Kind
		keys  []float64
		data  *sparse.DenseArray
	}{
		{"one edge", []float64{100}, DNdDp, nil, nil},
		{"non-increasing edges", []float64{100, 100, 200}, DNdDp, []float64{0}, good},
		{"decreasing edges", []float64{200, 100, 400}, DNdDp, []float64{0}, good},
		{"unknown kind", []float64{100, 200, 400}, Kind("dXdDp"), []float64{0}, good},
		{"shape mismatch", []float64{100, 200, 400, 800}, DNdDp, []float64{0}, good},
		{"keys without data", []float64{100, 200, 400}, DNdDp, []float64{0}, nil},
		{"NaN key", []float64{100, 200, 400}, DNdDp, []float64{math.NaN()}, good},
		{"duplicate keys", []float64{100, 200, 400}, DNdDp,
			[]float64{1, 1}, sparse.ZerosDense(2, 2)},
	}
	for _, c := range cases {
		if _, err := New(c.edges, c.kind, c.keys, c.data); err == nil {
			t.Errorf("%s: no error", c.name)
		}
	}
}

func TestNewGeometry(t *testing.T) {
	d, err := New([]float64{100, 200, 400, 800}, DNdDp, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{150, 300, 600}; !reflect.DeepEqual(d.Centers(), want) {
		t.Errorf("centers = %v, want %v", d.Centers(), want)
	}
	if want := []float64{100, 200, 400}; !reflect.DeepEqual(d.Widths(), want) {
		t.Errorf("widths = %v, want %v", d.Widths(), want)
	}
	if d.Bins() != 3 || d.Rows() != 0 {
		t.Errorf("got %d bins x %d rows, want 3 x 0", d.Bins(), d.Rows())
	}
}

func TestNewSortsRows(t *testing.T) {
	data := sparse.ZerosDense(3, 2)
	copy(data.Elements, []float64{
		20, 21, // key 2
		0, 1, // key 0
		10, 11, // key 1
	})
	d, err := New([]float64{100, 200, 400}, DNdDp, []float64{2, 0, 1}, data)
	if err != nil {
		t.Fatal(err)
	}
	if want := []float64{0, 1, 2}; !reflect.DeepEqual(d.Keys(), want) {
		t.Fatalf("keys = %v, want %v", d.Keys(), want)
	}
	want := []float64{0, 1, 10, 11, 20, 21}
	if !reflect.DeepEqual(d.Data().Elements, want) {
		t.Errorf("rows not carried with keys: %v, want %v", d.Data().Elements, want)
	}
}

func TestNewCopiesInputs(t *testing.T) {
	edges := []float64{100, 200, 400}
	keys := []float64{0}
	data := sparse.ZerosDense(1, 2)
	d, err := New(edges, DNdDp, keys, data)
	if err != nil {
		t.Fatal(err)
	}
	edges[0] = -1
	keys[0] = -1
	data.Elements[0] = -1
	if d.Edges()[0] != 100 || d.Keys()[0] != 0 || d.Data().Elements[0] != 0 {
		t.Error("table shares memory with constructor arguments")
	}
}

func TestCopyIndependence(t *testing.T) {
	d := testDist(t, DNdDp)
	c := d.Copy()
	c.Data().Elements[0] = 99
	c.Edges()[0] = 99
	if d.Data().Elements[0] == 99 || d.Edges()[0] == 99 {
		t.Error("copy shares memory with the original")
	}
}

func TestRow(t *testing.T) {
	d := testDist(t, DNdDp)
	row := d.Row(1)
	if want := []float64{4, 5, 6}; !reflect.DeepEqual(row, want) {
		t.Fatalf("row 1 = %v, want %v", row, want)
	}
	row[0] = 99
	if d.Data().Elements[3] == 99 {
		t.Error("Row returns a view, want a copy")
	}
}

func TestMesh(t *testing.T) {
	d := testDist(t, DNdDp)
	x, y, z := d.Mesh()
	if !reflect.DeepEqual(x, d.Edges()) {
		t.Errorf("x = %v, want %v", x, d.Edges())
	}
	if !reflect.DeepEqual(y, d.Keys()) {
		t.Errorf("y = %v, want %v", y, d.Keys())
	}
	if !reflect.DeepEqual(z.Elements, d.Data().Elements) {
		t.Errorf("z = %v, want %v", z.Elements, d.Data().Elements)
	}
	z.Elements[0] = 99
	if d.Data().Elements[0] == 99 {
		t.Error("Mesh returns a view of the data, want a copy")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range Kinds() {
		got, err := ParseKind(string(k))
		if err != nil || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k, got, err)
		}
	}
	if _, err := ParseKind("dNdD"); err == nil {
		t.Error("ParseKind accepted an unknown identifier")
	}
}
