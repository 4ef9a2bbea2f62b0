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
	"bytes"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/ctessum/sparse"
	"github.com/tealeg/xlsx"
)

// testTable builds a small two-column table by hand.
func testTable(t *testing.T) *Table {
	t.Helper()
	d := sparse.ZerosDense(3, 2)
	for i, v := range []float64{1, 2, 3, 4, 5, 6} {
		d.Elements[i] = v
	}
	return &Table{
		product: "aosacsm",
		times: []time.Time{
			armDay1,
			armDay1.Add(30 * time.Second),
			armDay1.Add(time.Minute),
		},
		columns: []string{"a", "b"},
		data:    d,
	}
}

func TestTableColumn(t *testing.T) {
	tbl := testTable(t)
	b, err := tbl.Column("b")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{2, 4, 6} {
		if different(b[i], want, testTolerance) {
			t.Errorf("row %d: got %g, want %g", i, b[i], want)
		}
	}
	if _, err := tbl.Column("nope"); err == nil {
		t.Error("expected error for unknown column")
	}
}

func TestTableDerive(t *testing.T) {
	tbl := testTable(t)
	err := tbl.Derive(map[string]string{
		"total": "a + b",
		"ratio": "a / b",
	})
	if err != nil {
		t.Fatal(err)
	}
	// Derived columns are added in lexical order.
	wantCols := []string{"a", "b", "ratio", "total"}
	cols := tbl.Columns()
	if len(cols) != len(wantCols) {
		t.Fatalf("got columns %v, want %v", cols, wantCols)
	}
	for i, c := range cols {
		if c != wantCols[i] {
			t.Errorf("column %d: got %s, want %s", i, c, wantCols[i])
		}
	}
	total, err := tbl.Column("total")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{3, 7, 11} {
		if different(total[i], want, testTolerance) {
			t.Errorf("total row %d: got %g, want %g", i, total[i], want)
		}
	}
	ratio, err := tbl.Column("ratio")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{0.5, 0.75, 5. / 6.} {
		if different(ratio[i], want, testTolerance) {
			t.Errorf("ratio row %d: got %g, want %g", i, ratio[i], want)
		}
	}

	// Columns derived earlier are available to later expressions.
	if err := tbl.Derive(map[string]string{"doubled": "total * 2"}); err != nil {
		t.Fatal(err)
	}
	doubled, err := tbl.Column("doubled")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{6, 14, 22} {
		if different(doubled[i], want, testTolerance) {
			t.Errorf("doubled row %d: got %g, want %g", i, doubled[i], want)
		}
	}
}

func TestTableDeriveFunctions(t *testing.T) {
	tbl := testTable(t)
	if err := tbl.Derive(map[string]string{"e": "exp(a)"}); err != nil {
		t.Fatal(err)
	}
	e, err := tbl.Column("e")
	if err != nil {
		t.Fatal(err)
	}
	for i, a := range []float64{1, 3, 5} {
		if different(e[i], math.Exp(a), testTolerance) {
			t.Errorf("row %d: got %g, want %g", i, e[i], math.Exp(a))
		}
	}
	if err := tbl.Derive(map[string]string{"r": "sqrt(b)"}); err != nil {
		t.Fatal(err)
	}
	r, err := tbl.Column("r")
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range []float64{2, 4, 6} {
		if different(r[i], math.Sqrt(b), testTolerance) {
			t.Errorf("row %d: got %g, want %g", i, r[i], math.Sqrt(b))
		}
	}
}

func TestTableDeriveErrors(t *testing.T) {
	tests := []struct {
		name  string
		exprs map[string]string
	}{
		{"existing column", map[string]string{"a": "b"}},
		{"unknown column", map[string]string{"x": "missing + 1"}},
		{"syntax error", map[string]string{"y": "a +"}},
		{"non-numeric result", map[string]string{"z": "a > 1"}},
	}
	for _, test := range tests {
		tbl := testTable(t)
		if err := tbl.Derive(test.exprs); err == nil {
			t.Errorf("%s: expected error", test.name)
		}
	}
}

func TestTableWriteCSV(t *testing.T) {
	tbl := testTable(t)
	var buf bytes.Buffer
	if err := tbl.WriteCSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := `time,a,b
2012-03-01 00:20:02,1,2
2012-03-01 00:20:32,3,4
2012-03-01 00:21:02,5,6
`
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestTableWriteXLSX(t *testing.T) {
	dir, err := ioutil.TempDir("", "aerodist")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "table.xlsx")
	tbl := testTable(t)
	if err := tbl.WriteXLSX(path); err != nil {
		t.Fatal(err)
	}

	f, err := xlsx.OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	sheet, ok := f.Sheet["aosacsm"]
	if !ok {
		t.Fatal("missing sheet aosacsm")
	}
	if len(sheet.Rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(sheet.Rows))
	}
	wantHeader := []string{"time", "a", "b"}
	for j, want := range wantHeader {
		if got := sheet.Rows[0].Cells[j].Value; got != want {
			t.Errorf("header cell %d: got %q, want %q", j, got, want)
		}
	}
	if got := sheet.Rows[1].Cells[0].Value; got != "2012-03-01 00:20:02" {
		t.Errorf("time cell: got %q", got)
	}
	wantVals := [][]float64{{1, 2}, {3, 4}, {5, 6}}
	for i, row := range wantVals {
		for j, want := range row {
			got, err := strconv.ParseFloat(sheet.Rows[i+1].Cells[j+1].Value, 64)
			if err != nil {
				t.Fatalf("cell (%d,%d): %v", i+1, j+1, err)
			}
			if different(got, want, testTolerance) {
				t.Errorf("cell (%d,%d): got %g, want %g", i+1, j+1, got, want)
			}
		}
	}
}

func TestConcatTables(t *testing.T) {
	d1 := sparse.ZerosDense(2, 2)
	d1.Elements = []float64{5, 6, 7, 8}
	d2 := sparse.ZerosDense(1, 2)
	d2.Elements = []float64{1, 2}
	a := &Table{
		product: "aosacsm",
		times:   []time.Time{armDay1.Add(time.Hour), armDay1.Add(2 * time.Hour)},
		columns: []string{"a", "b"},
		data:    d1,
	}
	b := &Table{
		product: "aosacsm",
		times:   []time.Time{armDay1},
		columns: []string{"a", "b"},
		data:    d2,
	}
	got, err := concatTables([]Dataset{a, b})
	if err != nil {
		t.Fatal(err)
	}
	tbl := got.(*Table)
	if tbl.Rows() != 3 {
		t.Fatalf("got %d rows, want 3", tbl.Rows())
	}
	// Rows are re-sorted by time.
	wantTimes := []time.Time{armDay1, armDay1.Add(time.Hour), armDay1.Add(2 * time.Hour)}
	for i, tt := range tbl.Times() {
		if !tt.Equal(wantTimes[i]) {
			t.Errorf("time %d: got %v, want %v", i, tt, wantTimes[i])
		}
	}
	col, err := tbl.Column("a")
	if err != nil {
		t.Fatal(err)
	}
	for i, want := range []float64{1, 5, 7} {
		if different(col[i], want, testTolerance) {
			t.Errorf("row %d: got %g, want %g", i, col[i], want)
		}
	}
}

func TestConcatTablesErrors(t *testing.T) {
	base := testTable(t)
	otherProduct := testTable(t)
	otherProduct.product = "noaaaos"
	otherColumns := testTable(t)
	otherColumns.columns = []string{"a", "c"}

	if _, err := concatTables(nil); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := concatTables([]Dataset{base, otherProduct}); err == nil {
		t.Error("expected error for mismatched products")
	}
	if _, err := concatTables([]Dataset{base, otherColumns}); err == nil {
		t.Error("expected error for mismatched columns")
	}
	if _, err := concatTables([]Dataset{&SizeDistData{product: "aosacsm"}}); err == nil {
		t.Error("expected error for wrong dataset type")
	}
}
