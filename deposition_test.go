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

	"github.com/ctessum/atmos/seinfeld"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"
)

func testMet() DepositionMet {
	return DepositionMet{
		SurfaceLayerHeight: unit.New(50, unit.Meter),
		RoughnessLength:    unit.New(0.1, unit.Meter),
		FrictionVelocity:   unit.New(0.3, unit.MeterPerSecond),
		ObukhovLength:      unit.New(-100, unit.Meter),
		Temperature:        unit.New(293.15, unit.Kelvin),
		Pressure:           unit.New(101325, unit.Pascal),
		ParticleDensity:    unit.New(1500, unit.KilogramPerMeter3),
		Season:             seinfeld.Midsummer,
		LandUse:            seinfeld.Grass,
	}
}

func TestDepositionVelocities(t *testing.T) {
	d := testDist(t, DNdDp)
	vd, err := d.DepositionVelocities(testMet())
	if err != nil {
		t.Fatal(err)
	}
	if len(vd) != d.Bins() {
		t.Fatalf("got %d velocities for %d bins", len(vd), d.Bins())
	}
	for j, v := range vd {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			t.Errorf("bin %d (center %g nm): velocity = %g m/s, want finite and positive",
				j, d.Centers()[j], v)
		}
	}
}

func TestDepositionVelocitySizeDependence(t *testing.T) {
	// Coarse particles settle gravitationally, so deposition speeds up
	// with diameter in the supermicron range.
	edges := []float64{200, 400, 8000, 12000} // centers 300 nm, 4.2 μm, 10 μm
	data := sparse.ZerosDense(1, 3)
	d, err := New(edges, DNdDp, []float64{0}, data)
	if err != nil {
		t.Fatal(err)
	}
	vd, err := d.DepositionVelocities(testMet())
	if err != nil {
		t.Fatal(err)
	}
	if vd[2] <= vd[1] {
		t.Errorf("velocity at 10 μm = %g not greater than at 4.2 μm = %g", vd[2], vd[1])
	}
	if vd[2] <= vd[0] {
		t.Errorf("velocity at 10 μm = %g not greater than at 300 nm = %g", vd[2], vd[0])
	}
}

func TestDepositionMetValidation(t *testing.T) {
	d := testDist(t, DNdDp)

	met := testMet()
	met.FrictionVelocity = nil
	if _, err := d.DepositionVelocities(met); err == nil {
		t.Error("nil field: expected an error")
	}

	met = testMet()
	met.Temperature = unit.New(293.15, unit.Meter)
	if _, err := d.DepositionVelocities(met); err == nil {
		t.Error("wrong dimensions: expected an error")
	}

	met = testMet()
	met.Temperature = unit.New(-5, unit.Kelvin)
	if _, err := d.DepositionVelocities(met); err == nil {
		t.Error("nonpositive temperature: expected an error")
	}

	met = testMet()
	met.Pressure = unit.New(0, unit.Pascal)
	if _, err := d.DepositionVelocities(met); err == nil {
		t.Error("nonpositive pressure: expected an error")
	}
}
