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
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/tealeg/xlsx"
)

// Table holds time-indexed scalar measurements from an ARM datastream
// that are not size distributions, such as composition or optical data.
// Each column is one measured quantity.
type Table struct {
	product string
	times   []time.Time
	columns []string
	data    *sparse.DenseArray
}

var _ Dataset = (*Table)(nil)

// ProductName returns the name of the measurement product
// this table was read from.
func (t *Table) ProductName() string { return t.product }

// TimeSpan returns the time of the first and last row in the table.
func (t *Table) TimeSpan() (time.Time, time.Time) {
	if len(t.times) == 0 {
		return time.Time{}, time.Time{}
	}
	return t.times[0], t.times[len(t.times)-1]
}

// Times returns the measurement time of each row.
func (t *Table) Times() []time.Time {
	o := make([]time.Time, len(t.times))
	copy(o, t.times)
	return o
}

// Columns returns the names of the table columns.
func (t *Table) Columns() []string {
	o := make([]string, len(t.columns))
	copy(o, t.columns)
	return o
}

// Rows returns the number of rows in the table.
func (t *Table) Rows() int { return len(t.times) }

// Column returns the values in the named column, one per row.
func (t *Table) Column(name string) ([]float64, error) {
	j := t.columnIndex(name)
	if j < 0 {
		return nil, fmt.Errorf("arm: table for %s has no column %q", t.product, name)
	}
	o := make([]float64, len(t.times))
	for i := range t.times {
		o[i] = t.data.Get(i, j)
	}
	return o, nil
}

func (t *Table) columnIndex(name string) int {
	for j, c := range t.columns {
		if c == name {
			return j
		}
	}
	return -1
}

// tableFunctions are the functions available to expressions
// given to Derive, in addition to the operators built in to
// the expression language:
//
// 'exp(x)' applies the exponential function e^x.
//
// 'log(x)' applies the natural logarithm.
//
// 'sqrt(x)' applies the square root.
var tableFunctions = map[string]govaluate.ExpressionFunction{
	"exp": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("arm: got %d arguments for function 'exp', but needs 1", len(arg))
		}
		return (float64)(math.Exp(arg[0].(float64))), nil
	},
	"log": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("arm: got %d arguments for function 'log', but needs 1", len(arg))
		}
		return (float64)(math.Log(arg[0].(float64))), nil
	},
	"sqrt": func(arg ...interface{}) (interface{}, error) {
		if len(arg) != 1 {
			return nil, fmt.Errorf("arm: got %d arguments for function 'sqrt', but needs 1", len(arg))
		}
		return (float64)(math.Sqrt(arg[0].(float64))), nil
	},
}

// Derive adds new columns to the table, where exprs maps each new
// column name to an expression that defines how it should be
// calculated from the existing columns. Expressions can use the
// functions defined in tableFunctions. Derived columns are added in
// lexical order of their names, and each derived column is available
// to the expressions of the columns that follow it.
func (t *Table) Derive(exprs map[string]string) error {
	names := make([]string, 0, len(exprs))
	for name := range exprs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if t.columnIndex(name) >= 0 {
			return fmt.Errorf("arm: derived column %q already exists in table for %s", name, t.product)
		}
		expression, err := govaluate.NewEvaluableExpressionWithFunctions(exprs[name], tableFunctions)
		if err != nil {
			return fmt.Errorf("arm: expression for %q: %v", name, err)
		}
		cols := make(map[string]int)
		for _, v := range expression.Vars() {
			j := t.columnIndex(v)
			if j < 0 {
				return fmt.Errorf("arm: expression for %q uses column %q, which is not in the table for %s", name, v, t.product)
			}
			cols[v] = j
		}
		vals := make([]float64, len(t.times))
		params := make(map[string]interface{})
		for i := range t.times {
			for v, j := range cols {
				params[v] = t.data.Get(i, j)
			}
			result, err := expression.Evaluate(params)
			if err != nil {
				return fmt.Errorf("arm: evaluating %q for row %d: %v", name, i, err)
			}
			v, ok := result.(float64)
			if !ok {
				return fmt.Errorf("arm: expression for %q returned %T; it must return a number", name, result)
			}
			vals[i] = v
		}
		t.addColumn(name, vals)
	}
	return nil
}

// addColumn appends a column to the table. len(vals) must equal
// the number of rows.
func (t *Table) addColumn(name string, vals []float64) {
	d := sparse.ZerosDense(len(t.times), len(t.columns)+1)
	for i := range t.times {
		for j := range t.columns {
			d.Set(t.data.Get(i, j), i, j)
		}
		d.Set(vals[i], i, len(t.columns))
	}
	t.columns = append(t.columns, name)
	t.data = d
}

// WriteCSV writes the table to w in comma-separated-value format.
// The first column holds the measurement times.
func (t *Table) WriteCSV(w io.Writer) error {
	const timeLayout = "2006-01-02 15:04:05.999999999"
	if _, err := fmt.Fprintln(w, strings.Join(append([]string{"time"}, t.columns...), ",")); err != nil {
		return err
	}
	row := make([]string, len(t.columns)+1)
	for i, tt := range t.times {
		row[0] = tt.UTC().Format(timeLayout)
		for j := range t.columns {
			row[j+1] = strconv.FormatFloat(t.data.Get(i, j), 'g', -1, 64)
		}
		if _, err := fmt.Fprintln(w, strings.Join(row, ",")); err != nil {
			return err
		}
	}
	return nil
}

// WriteXLSX writes the table to an Excel workbook at path, with one
// sheet named after the measurement product.
func (t *Table) WriteXLSX(path string) error {
	const timeLayout = "2006-01-02 15:04:05.999999999"
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(t.product)
	if err != nil {
		return fmt.Errorf("arm: creating sheet for %s: %v", t.product, err)
	}
	header := sheet.AddRow()
	header.AddCell().SetString("time")
	for _, c := range t.columns {
		header.AddCell().SetString(c)
	}
	for i, tt := range t.times {
		row := sheet.AddRow()
		row.AddCell().SetString(tt.UTC().Format(timeLayout))
		for j := range t.columns {
			row.AddCell().SetFloat(t.data.Get(i, j))
		}
	}
	return f.Save(path)
}

// concatTables merges tables read from consecutive files of the same
// product into a single table sorted by time.
func concatTables(data []Dataset) (Dataset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("arm: no tables to concatenate")
	}
	t0, ok := data[0].(*Table)
	if !ok {
		return nil, fmt.Errorf("arm: expected *Table but got %T", data[0])
	}
	if len(data) == 1 {
		return t0, nil
	}
	type row struct {
		t    time.Time
		vals []float64
	}
	var rows []row
	for _, d := range data {
		t, ok := d.(*Table)
		if !ok {
			return nil, fmt.Errorf("arm: expected *Table but got %T", d)
		}
		if t.product != t0.product {
			return nil, fmt.Errorf("arm: cannot concatenate tables for %s and %s", t0.product, t.product)
		}
		if len(t.columns) != len(t0.columns) {
			return nil, fmt.Errorf("arm: tables for %s have %d and %d columns", t.product, len(t0.columns), len(t.columns))
		}
		for j, c := range t.columns {
			if c != t0.columns[j] {
				return nil, fmt.Errorf("arm: tables for %s have mismatched columns %q and %q", t.product, t0.columns[j], c)
			}
		}
		for i := range t.times {
			vals := make([]float64, len(t.columns))
			for j := range t.columns {
				vals[j] = t.data.Get(i, j)
			}
			rows = append(rows, row{t: t.times[i], vals: vals})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].t.Before(rows[j].t) })
	times := make([]time.Time, len(rows))
	d := sparse.ZerosDense(len(rows), len(t0.columns))
	for i, r := range rows {
		times[i] = r.t
		for j, v := range r.vals {
			d.Set(v, i, j)
		}
	}
	return &Table{
		product: t0.product,
		times:   times,
		columns: t0.Columns(),
		data:    d,
	}, nil
}

// parseTDMAHyg reads a tandem DMA hygroscopic growth file. The
// hygroscopic growth factor distributions are stored as one column
// per growth-factor bin, named gf_<bin center>.
func parseTDMAHyg(ff *cdf.File) (Dataset, error) {
	times, err := readTimes(ff)
	if err != nil {
		return nil, err
	}
	mids, err := readVar(ff, "growth_factor_mid")
	if err != nil {
		return nil, err
	}
	if len(mids.Shape) != 1 {
		return nil, fmt.Errorf("arm: variable growth_factor_mid should have 1 dimension but has %d", len(mids.Shape))
	}
	dists, err := readVar(ff, "hyg_distributions")
	if err != nil {
		return nil, err
	}
	if len(dists.Shape) != 2 || dists.Shape[0] != len(times) || dists.Shape[1] != mids.Shape[0] {
		return nil, fmt.Errorf("arm: variable hyg_distributions should have shape [%d, %d] but has %v",
			len(times), mids.Shape[0], dists.Shape)
	}
	columns := make([]string, mids.Shape[0])
	for j := range columns {
		columns[j] = fmt.Sprintf("gf_%g", mids.Get(j))
	}
	return &Table{
		product: "tdmahyg",
		times:   times,
		columns: columns,
		data:    dists,
	}, nil
}

// parseAOSACSM reads an aerosol chemical speciation monitor file,
// keeping the non-refractory mass concentrations.
func parseAOSACSM(ff *cdf.File) (Dataset, error) {
	return parseColumns(ff, "aosacsm", []string{
		"total_organics",
		"sulfate",
		"nitrate",
		"ammonium",
		"chloride",
	})
}

// parseNOAAAOS reads a NOAA aerosol observing system file, keeping
// the submicron nephelometer scattering coefficients for the three
// wavelengths and the green-light absorption coefficient.
func parseNOAAAOS(ff *cdf.File) (Dataset, error) {
	return parseColumns(ff, "noaaaos", []string{
		"Bs_G_Dry_1um_Neph3W_1",
		"Bs_B_Dry_1um_Neph3W_1",
		"Bs_R_Dry_1um_Neph3W_1",
		"Ba_G_Dry_1um_PSAP1W_1",
	})
}

// parseColumns reads the named one-dimensional time-series variables
// from ff into a table, one variable per column.
func parseColumns(ff *cdf.File, product string, vars []string) (Dataset, error) {
	times, err := readTimes(ff)
	if err != nil {
		return nil, err
	}
	d := sparse.ZerosDense(len(times), len(vars))
	for j, v := range vars {
		col, err := readVar(ff, v)
		if err != nil {
			return nil, err
		}
		if len(col.Shape) != 1 || col.Shape[0] != len(times) {
			return nil, fmt.Errorf("arm: variable %s should have shape [%d] but has %v", v, len(times), col.Shape)
		}
		for i := range times {
			d.Set(col.Get(i), i, j)
		}
	}
	columns := make([]string, len(vars))
	copy(columns, vars)
	return &Table{
		product: product,
		times:   times,
		columns: columns,
		data:    d,
	}, nil
}
