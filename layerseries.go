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

// A SizeDistLS is a vertically layered size distribution: a SizeDist
// whose rows are altitude layers. Each row is keyed by its layer's
// center altitude [m] and carries the layer's boundary pair. Layer
// series are never gap-filled; a zero band in the altitude index
// would break the one-boundary-pair-per-row correspondence.
type SizeDistLS struct {
	SizeDist
	bounds [][2]float64 // [low, high] per row, ordered like the rows
}

// NewLS creates a layer series from bin edges (nanometers), a
// representation kind, layer boundary pairs ([low, high] in meters),
// and row data with shape [len(bounds), len(edges)-1]. Rows are keyed
// by layer center altitude and sorted by it, carrying their boundary
// pairs along. Layers must not overlap; stacked layers sharing a
// boundary are legal.
func NewLS(edges []float64, kind Kind, bounds [][2]float64, data *sparse.DenseArray) (*SizeDistLS, error) {
	keys := make([]float64, len(bounds))
	for i, b := range bounds {
		if b[1] <= b[0] {
			return nil, fmt.Errorf("aerodist: layer bounds must satisfy low < high, got [%g, %g]",
				b[0], b[1])
		}
		keys[i] = (b[0] + b[1]) / 2
	}

	// Order layers by center altitude before handing the rows over,
	// so that the stored bounds stay parallel to the sorted rows.
	order := make([]int, len(bounds))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return keys[order[i]] < keys[order[j]] })
	sortedBounds := make([][2]float64, len(bounds))
	sortedKeys := make([]float64, len(bounds))
	for to, from := range order {
		sortedBounds[to] = bounds[from]
		sortedKeys[to] = keys[from]
	}
	if data != nil && len(data.Shape) == 2 && data.Shape[0] == len(bounds) {
		sorted := sparse.ZerosDense(data.Shape...)
		nbins := data.Shape[1]
		for to, from := range order {
			copy(sorted.Elements[to*nbins:(to+1)*nbins],
				data.Elements[from*nbins:(from+1)*nbins])
		}
		data = sorted
	}

	d, err := New(edges, kind, sortedKeys, data)
	if err != nil {
		return nil, err
	}
	for i := 1; i < len(sortedBounds); i++ {
		if sortedBounds[i][0] < sortedBounds[i-1][1] {
			return nil, OverlappingLayerError{Low: sortedBounds[i][0], High: sortedBounds[i][1]}
		}
	}
	return &SizeDistLS{SizeDist: *d, bounds: sortedBounds}, nil
}

func (d *SizeDistLS) objectType() string { return "SizeDist_LS" }

// Copy returns a deep, independent copy.
func (d *SizeDistLS) Copy() *SizeDistLS {
	return &SizeDistLS{
		SizeDist: *d.SizeDist.Copy(),
		bounds:   append([][2]float64(nil), d.bounds...),
	}
}

// Convert returns a new layer series holding this one's rows
// converted to the given representation kind.
func (d *SizeDistLS) Convert(to Kind) (*SizeDistLS, error) {
	c, err := d.SizeDist.Convert(to)
	if err != nil {
		return nil, err
	}
	return &SizeDistLS{
		SizeDist: *c,
		bounds:   append([][2]float64(nil), d.bounds...),
	}, nil
}

// LayerBounds returns the [low, high] boundary pairs [m], one per
// row, ordered like the rows.
func (d *SizeDistLS) LayerBounds() [][2]float64 {
	return append([][2]float64(nil), d.bounds...)
}

// LayerCenters returns the layer center altitudes [m] (the row keys).
func (d *SizeDistLS) LayerCenters() []float64 {
	return append([]float64(nil), d.keys...)
}

// LayerThickness returns high minus low [m] for each layer.
func (d *SizeDistLS) LayerThickness() []float64 {
	th := make([]float64, len(d.bounds))
	for i, b := range d.bounds {
		th[i] = b[1] - b[0]
	}
	return th
}

// AddLayer inserts a single-row distribution as a new layer with the
// given [low, high] boundary pair. The incoming distribution must
// share this series' bin edges; it is converted to this series' kind
// first. The new pair must be exactly adjacent in the merged sorted
// set of all boundary values (no existing boundary strictly between
// low and high) and its center altitude must not duplicate an
// existing row key; otherwise AddLayer fails with
// OverlappingLayerError and leaves the series unchanged. Sharing a
// boundary with an existing layer is legal.
func (d *SizeDistLS) AddLayer(sd *SizeDist, bounds [2]float64) error {
	low, high := bounds[0], bounds[1]
	if high <= low {
		return fmt.Errorf("aerodist: layer bounds must satisfy low < high, got [%g, %g]",
			low, high)
	}
	if sd.Rows() != 1 {
		return fmt.Errorf("aerodist: a layer must be a single-row distribution, got %d rows",
			sd.Rows())
	}
	if len(sd.edges) != len(d.edges) {
		return fmt.Errorf("aerodist: layer has %d bins, series has %d", sd.Bins(), d.Bins())
	}
	for i := range d.edges {
		if sd.edges[i] != d.edges[i] {
			return fmt.Errorf("aerodist: layer bin edge %d is %g, series has %g",
				i, sd.edges[i], d.edges[i])
		}
	}
	conv, err := sd.Convert(d.kind)
	if err != nil {
		return err
	}
	for _, b := range d.bounds {
		if (b[0] > low && b[0] < high) || (b[1] > low && b[1] < high) {
			return OverlappingLayerError{Low: low, High: high}
		}
	}
	mid := (low + high) / 2
	if d.keyRow(mid) >= 0 {
		return OverlappingLayerError{Low: low, High: high}
	}

	at := sort.SearchFloat64s(d.keys, mid)
	nb := make([][2]float64, 0, len(d.bounds)+1)
	nb = append(nb, d.bounds[:at]...)
	nb = append(nb, bounds)
	nb = append(nb, d.bounds[at:]...)
	d.bounds = nb
	d.insertRow(mid, conv.Row(0))
	return nil
}

// ZoomAltitude returns a new series truncated to the layers whose
// center altitude satisfies bottom <= center <= top.
func (d *SizeDistLS) ZoomAltitude(bottom, top float64) *SizeDistLS {
	var idx []int
	var bounds [][2]float64
	for i, k := range d.keys {
		if k >= bottom && k <= top {
			idx = append(idx, i)
			bounds = append(bounds, d.bounds[i])
		}
	}
	return &SizeDistLS{SizeDist: d.selectRows(idx), bounds: bounds}
}

// AverageAll collapses the series to a single-row table (key 0) of
// thickness-weighted per-bin means over all layers, skipping NaN
// values. A bin with no valid values averages to NaN.
func (d *SizeDistLS) AverageAll() *SizeDist {
	nbins := d.Bins()
	th := d.LayerThickness()
	data := sparse.ZerosDense(1, nbins)
	for j := 0; j < nbins; j++ {
		var sum, weight float64
		for i := 0; i < d.Rows(); i++ {
			v := d.data.Elements[i*nbins+j]
			if math.IsNaN(v) {
				continue
			}
			sum += v * th[i]
			weight += th[i]
		}
		if weight > 0 {
			data.Elements[j] = sum / weight
		} else {
			data.Elements[j] = math.NaN()
		}
	}
	out := d.withRows([]float64{0}, data)
	return &out
}
