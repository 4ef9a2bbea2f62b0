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
	"fmt"
	"math"
	"sort"

	"github.com/ctessum/sparse"
)

// A SizeDist is a binned particle size distribution table. Rows are
// indexed by a scalar key (a timestamp or an altitude, never both)
// and columns correspond one-to-one to diameter bins. The meaning of
// the per-bin values is given by the table's representation Kind.
//
// A SizeDist is a single-owner value: conversion always returns a new
// table, and the only operations that change a table in place are the
// explicitly named mutators FillGaps (time series) and AddLayer
// (layer series).
type SizeDist struct {
	edges   []float64 // bin edges [nm], length bins+1, strictly increasing
	centers []float64
	widths  []float64
	kind    Kind
	keys    []float64          // sorted ascending, no duplicates
	data    *sparse.DenseArray // shape [rows, bins]
}

// New creates a size distribution table from bin edges (nanometers,
// strictly increasing), a representation kind, row keys, and row data
// with shape [len(keys), len(edges)-1]. Rows are sorted by key. A nil
// data argument (with nil keys) creates an empty table.
func New(edges []float64, kind Kind, keys []float64, data *sparse.DenseArray) (*SizeDist, error) {
	if len(edges) < 2 {
		return nil, fmt.Errorf("aerodist: need at least 2 bin edges, got %d", len(edges))
	}
	for i := 0; i < len(edges)-1; i++ {
		if edges[i+1] <= edges[i] {
			return nil, fmt.Errorf("aerodist: bin edges must be strictly increasing "+
				"(edge %d = %g, edge %d = %g)", i, edges[i], i+1, edges[i+1])
		}
	}
	if _, err := ParseKind(string(kind)); err != nil {
		return nil, err
	}
	nbins := len(edges) - 1
	if data == nil {
		if len(keys) != 0 {
			return nil, fmt.Errorf("aerodist: %d row keys given without data", len(keys))
		}
		data = sparse.ZerosDense(0, nbins)
	}
	if len(data.Shape) != 2 || data.Shape[1] != nbins || data.Shape[0] != len(keys) {
		return nil, fmt.Errorf("aerodist: data shape %v does not match %d keys x %d bins",
			data.Shape, len(keys), nbins)
	}
	d := &SizeDist{
		edges: append([]float64(nil), edges...),
		kind:  kind,
		keys:  append([]float64(nil), keys...),
		data:  data.Copy(),
	}
	d.centers = make([]float64, nbins)
	d.widths = make([]float64, nbins)
	for i := 0; i < nbins; i++ {
		d.centers[i] = (edges[i] + edges[i+1]) / 2
		d.widths[i] = edges[i+1] - edges[i]
	}
	if err := d.sortRows(); err != nil {
		return nil, err
	}
	return d, nil
}

// sortRows orders rows by ascending key, carrying the data rows along,
// and rejects NaN or duplicate keys.
func (d *SizeDist) sortRows() error {
	for _, k := range d.keys {
		if math.IsNaN(k) {
			return fmt.Errorf("aerodist: NaN row key")
		}
	}
	if !sort.Float64sAreSorted(d.keys) {
		order := make([]int, len(d.keys))
		for i := range order {
			order[i] = i
		}
		sort.Slice(order, func(i, j int) bool { return d.keys[order[i]] < d.keys[order[j]] })
		keys := make([]float64, len(d.keys))
		data := sparse.ZerosDense(d.data.Shape...)
		for to, from := range order {
			keys[to] = d.keys[from]
			copy(data.Elements[to*d.Bins():(to+1)*d.Bins()],
				d.data.Elements[from*d.Bins():(from+1)*d.Bins()])
		}
		d.keys, d.data = keys, data
	}
	for i := 0; i < len(d.keys)-1; i++ {
		if d.keys[i] == d.keys[i+1] {
			return fmt.Errorf("aerodist: duplicate row key %g", d.keys[i])
		}
	}
	return nil
}

// Kind returns the table's representation kind.
func (d *SizeDist) Kind() Kind { return d.kind }

// Edges returns the bin edges [nm].
func (d *SizeDist) Edges() []float64 { return d.edges }

// Centers returns the bin centers [nm].
func (d *SizeDist) Centers() []float64 { return d.centers }

// Widths returns the bin widths [nm].
func (d *SizeDist) Widths() []float64 { return d.widths }

// Keys returns the row keys, sorted ascending.
func (d *SizeDist) Keys() []float64 { return d.keys }

// Data returns the underlying row-by-bin value array.
func (d *SizeDist) Data() *sparse.DenseArray { return d.data }

// Rows returns the number of rows.
func (d *SizeDist) Rows() int { return len(d.keys) }

// Bins returns the number of diameter bins.
func (d *SizeDist) Bins() int { return len(d.edges) - 1 }

// Dist returns the underlying table; it makes SizeDist and the types
// embedding it satisfy the Distribution interface.
func (d *SizeDist) Dist() *SizeDist { return d }

func (d *SizeDist) objectType() string { return "SizeDist" }

// Copy returns a deep, independent copy.
func (d *SizeDist) Copy() *SizeDist {
	return &SizeDist{
		edges:   append([]float64(nil), d.edges...),
		centers: append([]float64(nil), d.centers...),
		widths:  append([]float64(nil), d.widths...),
		kind:    d.kind,
		keys:    append([]float64(nil), d.keys...),
		data:    d.data.Copy(),
	}
}

// Row returns a copy of the values in row i.
func (d *SizeDist) Row(i int) []float64 {
	return append([]float64(nil), d.data.Elements[i*d.Bins():(i+1)*d.Bins()]...)
}

// Mesh returns the plotting mesh for this table: x holds the bin
// edges (length bins+1), y the row keys, and z the value array.
// It is a hook for presentation layers; this package does no
// rendering itself.
func (d *SizeDist) Mesh() (x, y []float64, z *sparse.DenseArray) {
	return append([]float64(nil), d.edges...),
		append([]float64(nil), d.keys...),
		d.data.Copy()
}

// insertRow adds a row at the given key, keeping rows sorted.
// The caller is responsible for rejecting duplicate keys first.
func (d *SizeDist) insertRow(key float64, row []float64) {
	nbins := d.Bins()
	at := sort.SearchFloat64s(d.keys, key)
	keys := make([]float64, len(d.keys)+1)
	copy(keys, d.keys[:at])
	keys[at] = key
	copy(keys[at+1:], d.keys[at:])

	data := sparse.ZerosDense(len(keys), nbins)
	copy(data.Elements, d.data.Elements[:at*nbins])
	copy(data.Elements[at*nbins:(at+1)*nbins], row)
	copy(data.Elements[(at+1)*nbins:], d.data.Elements[at*nbins:])
	d.keys, d.data = keys, data
}

// keyRow returns the row index for key, or -1.
func (d *SizeDist) keyRow(key float64) int {
	i := sort.SearchFloat64s(d.keys, key)
	if i < len(d.keys) && d.keys[i] == key {
		return i
	}
	return -1
}

// withRows returns a table sharing this table's bin geometry and kind
// but holding the given rows. The keys must already be sorted and the
// arguments are adopted, not copied.
func (d *SizeDist) withRows(keys []float64, data *sparse.DenseArray) SizeDist {
	return SizeDist{
		edges:   append([]float64(nil), d.edges...),
		centers: append([]float64(nil), d.centers...),
		widths:  append([]float64(nil), d.widths...),
		kind:    d.kind,
		keys:    keys,
		data:    data,
	}
}

// selectRows returns a table holding copies of the rows at the given
// indices, which must be ascending.
func (d *SizeDist) selectRows(idx []int) SizeDist {
	nbins := d.Bins()
	keys := make([]float64, len(idx))
	data := sparse.ZerosDense(len(idx), nbins)
	for to, from := range idx {
		keys[to] = d.keys[from]
		copy(data.Elements[to*nbins:(to+1)*nbins],
			d.data.Elements[from*nbins:(from+1)*nbins])
	}
	return d.withRows(keys, data)
}
