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
	"testing"
	"time"

	"gonum.org/v1/gonum/floats"
)

func TestSimulateDefaults(t *testing.T) {
	d, err := Simulate(SimConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != DNdDp {
		t.Errorf("kind = %s, want %s", d.Kind(), DNdDp)
	}
	if d.Rows() != 1 || d.Bins() != 99 {
		t.Fatalf("shape = %dx%d, want 1x99", d.Rows(), d.Bins())
	}
	edges := d.Edges()
	if different(edges[0], 10, testTolerance) {
		t.Errorf("first edge = %g, want 10", edges[0])
	}
	if different(edges[len(edges)-1], 2500, testTolerance) {
		t.Errorf("last edge = %g, want 2500", edges[len(edges)-1])
	}
	// Edges are evenly spaced in log10 diameter.
	logStep := (math.Log10(2500) - math.Log10(10)) / 99
	for i := 0; i < len(edges)-1; i++ {
		if different(math.Log10(edges[i+1])-math.Log10(edges[i]), logStep, 1e-6) {
			t.Fatalf("edge %d–%d log spacing = %g, want %g", i, i+1,
				math.Log10(edges[i+1])-math.Log10(edges[i]), logStep)
		}
	}
	for i, v := range d.Data().Elements {
		if math.IsNaN(v) || v < 0 {
			t.Fatalf("bin %d = %g, want finite and nonnegative", i, v)
		}
	}

	// The bin with the most particles should straddle the mode center.
	counts, err := d.Convert(NumberConcentration)
	if err != nil {
		t.Fatal(err)
	}
	peak := floats.MaxIdx(counts.Row(0))
	geoCenter := math.Sqrt(edges[peak] * edges[peak+1])
	if math.Abs(math.Log10(geoCenter/200)) > logStep {
		t.Errorf("peak bin center = %g nm, want within one bin of 200 nm", geoCenter)
	}
}

func TestSimulateParticleCount(t *testing.T) {
	for _, particles := range []float64{250, 1000, 5000} {
		d, err := Simulate(SimConfig{Particles: particles})
		if err != nil {
			t.Fatal(err)
		}
		counts, err := d.Convert(NumberConcentration)
		if err != nil {
			t.Fatal(err)
		}
		if total := floats.Sum(counts.Data().Elements); different(total, particles, testTolerance) {
			t.Errorf("total particles = %g, want %g", total, particles)
		}
	}
}

func TestSimulateValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  SimConfig
	}{
		{"zero minimum diameter", SimConfig{DiameterRange: [2]float64{0, 100}}},
		{"decreasing diameter range", SimConfig{DiameterRange: [2]float64{100, 50}}},
		{"single edge", SimConfig{NumEdges: 1}},
		{"negative mode center", SimConfig{ModeCenter: -5}},
		{"negative mode width", SimConfig{ModeWidth: -1}},
		{"negative particle count", SimConfig{Particles: -2}},
	}
	for _, c := range cases {
		if _, err := Simulate(c.cfg); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
}

func TestSimulateTS(t *testing.T) {
	start := testEpoch
	end := testEpoch.Add(10 * time.Minute)
	d, err := SimulateTS(SimConfig{}, start, end, time.Minute)
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != DNdDp {
		t.Errorf("kind = %s, want %s", d.Kind(), DNdDp)
	}
	if d.Rows() != 10 {
		t.Fatalf("rows = %d, want 10", d.Rows())
	}
	for i, tm := range d.Times() {
		want := start.Add(time.Duration(i) * time.Minute)
		if !tm.Equal(want) {
			t.Errorf("row %d time = %v, want %v", i, tm, want)
		}
	}

	// The drifting mode center should move the peak bin across rows.
	counts, err := d.Convert(NumberConcentration)
	if err != nil {
		t.Fatal(err)
	}
	peaks := make(map[int]bool)
	for i := 0; i < counts.Rows(); i++ {
		peaks[floats.MaxIdx(counts.Row(i))] = true
	}
	if len(peaks) < 2 {
		t.Errorf("peak bin constant across rows; the mode center should drift")
	}
}

func TestSimulateTSValidation(t *testing.T) {
	if _, err := SimulateTS(SimConfig{}, testEpoch, testEpoch.Add(time.Hour), 0); err == nil {
		t.Error("nonpositive step: expected an error")
	}
	if _, err := SimulateTS(SimConfig{}, testEpoch, testEpoch.Add(time.Minute), time.Hour); err == nil {
		t.Error("span shorter than step: expected an error")
	}
}

func TestSimulateLS(t *testing.T) {
	d, err := SimulateLS(SimConfig{}, LayerSimConfig{})
	if err != nil {
		t.Fatal(err)
	}
	if d.Kind() != DNdDp {
		t.Errorf("kind = %s, want %s", d.Kind(), DNdDp)
	}
	bounds := d.LayerBounds()
	if len(bounds) != 100 {
		t.Fatalf("layers = %d, want 100", len(bounds))
	}
	if bounds[0][0] != 0 {
		t.Errorf("bottom boundary = %g, want 0", bounds[0][0])
	}
	if bounds[len(bounds)-1][1] != 6000 {
		t.Errorf("top boundary = %g, want 6000", bounds[len(bounds)-1][1])
	}
	for i := 1; i < len(bounds); i++ {
		if bounds[i][0] != bounds[i-1][1] {
			t.Fatalf("layer %d bottom = %g, want %g (adjacent layers)",
				i, bounds[i][0], bounds[i-1][1])
		}
	}

	// Aerosol should be concentrated near the default mode heights of
	// 500 and 4000 m and vanish away from them. With 60 m layers,
	// layer 8 straddles 500 m and layer 66 straddles 4000 m.
	rowSum := func(i int) float64 { return floats.Sum(d.Row(i)) }
	if a, b := rowSum(8), rowSum(25); a < 1e6*b {
		t.Errorf("near-surface mode: layer 8 sum = %g not >> layer 25 sum = %g", a, b)
	}
	if a, b := rowSum(66), rowSum(99); a < 1e6*b {
		t.Errorf("elevated mode: layer 66 sum = %g not >> layer 99 sum = %g", a, b)
	}
}

func TestSimulateLSValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  LayerSimConfig
	}{
		{"negative layer count", LayerSimConfig{Layers: -1}},
		{"decreasing height limits", LayerSimConfig{HeightLimits: [2]float64{100, 50}}},
		{"no modes", LayerSimConfig{ModeHeights: []float64{}}},
		{"mismatched mode slices", LayerSimConfig{
			ModeHeights:     []float64{500},
			ModeThicknesses: []float64{100, 300},
			ModeDensities:   []float64{1000},
			ModeCenters:     []float64{200},
		}},
		{"nonpositive thickness", LayerSimConfig{
			ModeHeights:     []float64{500},
			ModeThicknesses: []float64{0},
			ModeDensities:   []float64{1000},
			ModeCenters:     []float64{200},
		}},
	}
	for _, c := range cases {
		if _, err := SimulateLS(SimConfig{}, c.cfg); err == nil {
			t.Errorf("%s: expected an error", c.name)
		}
	}
	if _, err := SimulateLS(SimConfig{ModeWidth: -1}, LayerSimConfig{}); err == nil {
		t.Error("bad mode shape: expected an error")
	}
}
