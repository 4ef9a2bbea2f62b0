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
	"time"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// A SimConfig describes a single-mode log-normal size distribution to
// simulate. Zero-valued fields select the defaults. Simulated data is
// used for testing, evaluation, and demonstration.
type SimConfig struct {
	// DiameterRange is the [min, max] diameter [nm] the bins cover
	// (default [10, 2500]).
	DiameterRange [2]float64
	// NumEdges is the number of bin edges, spaced evenly in log10
	// diameter (default 100).
	NumEdges int
	// ModeCenter is the mode's center diameter [nm] (default 200).
	ModeCenter float64
	// ModeWidth is the mode's Gaussian width in decades of log10
	// diameter (default 0.2).
	ModeWidth float64
	// Particles is the total particle count in the mode (default 1000).
	Particles float64
}

func (c *SimConfig) setDefaults() {
	if c.DiameterRange == ([2]float64{}) {
		c.DiameterRange = [2]float64{10, 2500}
	}
	if c.NumEdges == 0 {
		c.NumEdges = 100
	}
	if c.ModeCenter == 0 {
		c.ModeCenter = 200
	}
	if c.ModeWidth == 0 {
		c.ModeWidth = 0.2
	}
	if c.Particles == 0 {
		c.Particles = 1000
	}
}

// Simulate builds a single-row dNdDp distribution (key 0) with one
// log-normal mode: a Gaussian density in log10 diameter evaluated at
// the bin centers, scaled so that the total particle count over the
// bins equals cfg.Particles, then divided by the linear bin widths.
func Simulate(cfg SimConfig) (*SizeDist, error) {
	cfg.setDefaults()
	if cfg.DiameterRange[0] <= 0 || cfg.DiameterRange[1] <= cfg.DiameterRange[0] {
		return nil, fmt.Errorf("aerodist: diameter range must be positive and increasing, got [%g, %g]",
			cfg.DiameterRange[0], cfg.DiameterRange[1])
	}
	if cfg.NumEdges < 2 {
		return nil, fmt.Errorf("aerodist: need at least 2 bin edges, got %d", cfg.NumEdges)
	}
	if cfg.ModeCenter <= 0 {
		return nil, fmt.Errorf("aerodist: mode center must be positive, got %g nm", cfg.ModeCenter)
	}
	if cfg.ModeWidth <= 0 {
		return nil, fmt.Errorf("aerodist: mode width must be positive, got %g", cfg.ModeWidth)
	}
	if cfg.Particles < 0 {
		return nil, fmt.Errorf("aerodist: particle count must not be negative, got %g", cfg.Particles)
	}

	logEdges := make([]float64, cfg.NumEdges)
	floats.Span(logEdges, math.Log10(cfg.DiameterRange[0]), math.Log10(cfg.DiameterRange[1]))
	nbins := cfg.NumEdges - 1
	mode := distuv.Normal{Mu: math.Log10(cfg.ModeCenter), Sigma: cfg.ModeWidth}
	counts := make([]float64, nbins)
	for j := 0; j < nbins; j++ {
		logCenter := (logEdges[j] + logEdges[j+1]) / 2
		counts[j] = mode.Prob(logCenter) * (logEdges[j+1] - logEdges[j])
	}
	floats.Scale(cfg.Particles/floats.Sum(counts), counts)

	edges := make([]float64, cfg.NumEdges)
	for i, le := range logEdges {
		edges[i] = math.Pow(10, le)
	}
	data := sparse.ZerosDense(1, nbins)
	for j := 0; j < nbins; j++ {
		data.Elements[j] = counts[j] / (edges[j+1] - edges[j])
	}
	return New(edges, DNdDp, []float64{0}, data)
}

// SimulateTS builds a dNdDp time series with one row every step from
// start (inclusive) to end (exclusive). The mode center drifts
// sinusoidally around cfg.ModeCenter with an amplitude of 100 nm,
// completing five full oscillations across the rows.
func SimulateTS(cfg SimConfig, start, end time.Time, step time.Duration) (*SizeDistTS, error) {
	cfg.setDefaults()
	if step <= 0 {
		return nil, fmt.Errorf("aerodist: simulation step must be positive, got %v", step)
	}
	periods := int(end.Sub(start) / step)
	if periods < 1 {
		return nil, fmt.Errorf("aerodist: simulation span %v shorter than step %v",
			end.Sub(start), step)
	}

	times := make([]time.Time, periods)
	var edges []float64
	var data *sparse.DenseArray
	for i := 0; i < periods; i++ {
		times[i] = start.Add(time.Duration(i) * step)
		var phase float64
		if periods > 1 {
			phase = 5 * 2 * math.Pi * float64(i) / float64(periods-1)
		}
		c := cfg
		c.ModeCenter = cfg.ModeCenter + 100*math.Sin(phase)
		d, err := Simulate(c)
		if err != nil {
			return nil, err
		}
		if data == nil {
			edges = d.Edges()
			data = sparse.ZerosDense(periods, d.Bins())
		}
		copy(data.Elements[i*d.Bins():(i+1)*d.Bins()], d.Row(0))
	}
	return NewTS(edges, DNdDp, times, data)
}

// A LayerSimConfig describes the vertical structure of a simulated
// layer series. Zero-valued fields select the defaults. The per-mode
// slices must have equal lengths.
type LayerSimConfig struct {
	// HeightLimits is the [bottom, top] altitude range [m] the layers
	// cover (default [0, 6000]).
	HeightLimits [2]float64
	// Layers is the number of evenly spaced layers (default 100).
	Layers int
	// ModeHeights are the altitudes [m] where each mode peaks
	// (default [500, 4000]).
	ModeHeights []float64
	// ModeThicknesses are the Gaussian widths σ [m] of each mode's
	// vertical extent (default [100, 300]).
	ModeThicknesses []float64
	// ModeDensities are the particle counts of each mode at its peak
	// (default [1000, 5000]).
	ModeDensities []float64
	// ModeCenters are the center diameters [nm] of each mode
	// (default [200, 800]).
	ModeCenters []float64
}

func (c *LayerSimConfig) setDefaults() {
	if c.HeightLimits == ([2]float64{}) {
		c.HeightLimits = [2]float64{0, 6000}
	}
	if c.Layers == 0 {
		c.Layers = 100
	}
	if c.ModeHeights == nil {
		c.ModeHeights = []float64{500, 4000}
	}
	if c.ModeThicknesses == nil {
		c.ModeThicknesses = []float64{100, 300}
	}
	if c.ModeDensities == nil {
		c.ModeDensities = []float64{1000, 5000}
	}
	if c.ModeCenters == nil {
		c.ModeCenters = []float64{200, 800}
	}
}

// SimulateLS builds a dNdDp layer series: evenly spaced layer
// boundaries between the height limits, each layer holding the sum
// over modes of the mode's distribution weighted by a Gaussian in
// altitude, exp(-(h-μ)²/(2σ²)), evaluated at the layer center.
func SimulateLS(cfg SimConfig, lcfg LayerSimConfig) (*SizeDistLS, error) {
	cfg.setDefaults()
	lcfg.setDefaults()
	if lcfg.Layers < 1 {
		return nil, fmt.Errorf("aerodist: layer count must be positive, got %d", lcfg.Layers)
	}
	if lcfg.HeightLimits[1] <= lcfg.HeightLimits[0] {
		return nil, fmt.Errorf("aerodist: height limits must be increasing, got [%g, %g]",
			lcfg.HeightLimits[0], lcfg.HeightLimits[1])
	}
	nmodes := len(lcfg.ModeHeights)
	if nmodes == 0 {
		return nil, fmt.Errorf("aerodist: layer simulation needs at least one mode")
	}
	if len(lcfg.ModeThicknesses) != nmodes || len(lcfg.ModeDensities) != nmodes ||
		len(lcfg.ModeCenters) != nmodes {
		return nil, fmt.Errorf("aerodist: per-mode slices have mismatched lengths %d, %d, %d, %d",
			nmodes, len(lcfg.ModeThicknesses), len(lcfg.ModeDensities), len(lcfg.ModeCenters))
	}
	for m, σ := range lcfg.ModeThicknesses {
		if σ <= 0 {
			return nil, fmt.Errorf("aerodist: mode %d thickness must be positive, got %g m", m, σ)
		}
	}

	boundaries := make([]float64, lcfg.Layers+1)
	floats.Span(boundaries, lcfg.HeightLimits[0], lcfg.HeightLimits[1])
	bounds := make([][2]float64, lcfg.Layers)
	for i := range bounds {
		bounds[i] = [2]float64{boundaries[i], boundaries[i+1]}
	}

	// The shape of each mode does not depend on altitude, so its
	// distribution is generated once and only the weight varies by
	// layer.
	var edges []float64
	base := make([][]float64, nmodes)
	for m := 0; m < nmodes; m++ {
		c := cfg
		c.ModeCenter = lcfg.ModeCenters[m]
		c.Particles = lcfg.ModeDensities[m]
		d, err := Simulate(c)
		if err != nil {
			return nil, err
		}
		edges = d.Edges()
		base[m] = d.Row(0)
	}

	nbins := len(edges) - 1
	data := sparse.ZerosDense(lcfg.Layers, nbins)
	for i, b := range bounds {
		h := (b[0] + b[1]) / 2
		for m := 0; m < nmodes; m++ {
			δ := h - lcfg.ModeHeights[m]
			σ := lcfg.ModeThicknesses[m]
			weight := math.Exp(-δ * δ / (2 * σ * σ))
			for j := 0; j < nbins; j++ {
				data.Elements[i*nbins+j] += base[m][j] * weight
			}
		}
	}
	return NewLS(edges, DNdDp, bounds, data)
}
