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

// Package dma models the cylindrical column of a differential
// mobility analyzer and converts classifier voltages to the particle
// diameters they select.
package dma

import (
	"fmt"
	"math"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/unit"
)

const (
	elementaryCharge = 1.602e-19 // [C]
	airMolarMass     = 0.028964  // [kg/mol]
	gasConstant      = 8.314     // [J/(mol K)]

	maxIterations  = 1000
	convergenceTol = 1.48e-8 // relative step size at convergence
)

// A DMA holds the geometry of a differential mobility analyzer
// column. All dimensions are in meters.
type DMA struct {
	Length      float64 // effective length of the column
	OuterRadius float64
	InnerRadius float64
}

// New creates a DMA with the given column length, outer radius, and
// inner radius [m].
func New(length, outerRadius, innerRadius float64) (*DMA, error) {
	if length <= 0 || outerRadius <= 0 || innerRadius <= 0 {
		return nil, fmt.Errorf("dma: dimensions (%g, %g, %g) must be positive",
			length, outerRadius, innerRadius)
	}
	if outerRadius <= innerRadius {
		return nil, fmt.Errorf("dma: outer radius %g m must exceed inner radius %g m",
			outerRadius, innerRadius)
	}
	return &DMA{Length: length, OuterRadius: outerRadius, InnerRadius: innerRadius}, nil
}

// NewNOAAWide creates a DMA with the dimensions of the wide-range
// column developed by NOAA.
func NewNOAAWide() *DMA {
	return &DMA{Length: 0.34054, OuterRadius: 0.03613, InnerRadius: 0.0312}
}

// NewTSI3071 creates a DMA with the dimensions of the TSI 3071 column.
func NewTSI3071() *DMA {
	return &DMA{Length: 0.4444, OuterRadius: 0.0195834, InnerRadius: 0.0093726}
}

// NewTSI3081 creates a DMA with the dimensions of the TSI 3081 long column.
func NewTSI3081() *DMA {
	return &DMA{Length: 0.44369, OuterRadius: 0.01961, InnerRadius: 0.00937}
}

// NewTSI3085 creates a DMA with the dimensions of the TSI 3085 nano column.
func NewTSI3085() *DMA {
	return &DMA{Length: 0.04987, OuterRadius: 0.01961, InnerRadius: 0.00937}
}

// FromTOML loads a custom column geometry from a TOML file with keys
// Length, OuterRadius, and InnerRadius [m].
func FromTOML(path string) (*DMA, error) {
	d := new(DMA)
	if _, err := toml.DecodeFile(path, d); err != nil {
		return nil, fmt.Errorf("dma: reading geometry file: %v", err)
	}
	return New(d.Length, d.OuterRadius, d.InnerRadius)
}

// Gamma is the geometry factor L / ln(ro/ri) relating the column
// dimensions to the electric field between the electrodes.
func (d *DMA) Gamma() float64 {
	return d.Length / math.Log(d.OuterRadius/d.InnerRadius)
}

// LPM converts a flow rate from liters per minute to a dimensioned
// flow [m³/s].
func LPM(x float64) *unit.Unit {
	return unit.New(x/60*0.001, unit.Meter3PerSecond)
}

// VoltageToDiameter gives the diameter [nm] of the singly charged
// particles the column selects at the given voltage [V], carrier gas
// temperature [K] and pressure [Pa], and sheath and excess flows
// [m³/s]. The centroid electrical mobility of the transfer function
// is zc = (qc+qm) / (4*pi*gamma*V), which is inverted for diameter by
// damped Newton iteration.
func (d *DMA) VoltageToDiameter(voltage float64, temp, press, sheath, excess *unit.Unit) (float64, error) {
	if voltage <= 0 {
		return 0, fmt.Errorf("dma: voltage must be positive, got %g V", voltage)
	}
	fields := []struct {
		name string
		u    *unit.Unit
		want unit.Dimensions
	}{
		{"temperature", temp, unit.Kelvin},
		{"pressure", press, unit.Pascal},
		{"sheath flow", sheath, unit.Meter3PerSecond},
		{"excess flow", excess, unit.Meter3PerSecond},
	}
	for _, f := range fields {
		if f.u == nil {
			return 0, fmt.Errorf("dma: %s is nil", f.name)
		}
		if err := f.u.Check(f.want); err != nil {
			return 0, fmt.Errorf("dma: %s: %v", f.name, err)
		}
		if f.u.Value() <= 0 {
			return 0, fmt.Errorf("dma: %s must be positive, got %g", f.name, f.u.Value())
		}
	}
	zc := (sheath.Value() + excess.Value()) / (4 * math.Pi * d.Gamma() * voltage)
	return invertMobility(zc, temp.Value(), press.Value())
}

// Viscosity gives the dynamic viscosity of air [kg/(m s)] at
// temperature T [K] (Sutherland form).
func Viscosity(T float64) float64 {
	return 1.458e-6 * math.Pow(T, 1.5) / (T + 110.4)
}

// MeanFreePath gives the mean free path [m] of air molecules at
// temperature T [K] and pressure P [Pa].
func MeanFreePath(T, P float64) float64 {
	return 2 * Viscosity(T) / (P * math.Sqrt(8*airMolarMass/(math.Pi*gasConstant*T)))
}

// SlipCorrection gives the Cunningham slip correction factor for a
// particle of diameter d [nm] in air at temperature T [K] and
// pressure P [Pa].
func SlipCorrection(d, T, P float64) float64 {
	kn := 2 * MeanFreePath(T, P) / (d * 1e-9)
	return 1 + kn*(1.142+0.558*math.Exp(-0.999/kn))
}

// Mobility gives the electrical mobility [m²/(V s)] of a singly
// charged particle of diameter d [nm] in air at temperature T [K]
// and pressure P [Pa].
func Mobility(d, T, P float64) float64 {
	return SlipCorrection(d, T, P) * elementaryCharge / (3 * math.Pi * Viscosity(T) * d * 1e-9)
}

// invertMobility finds the diameter [nm] whose mobility at (T, P)
// equals zc. Mobility decreases monotonically with diameter, so the
// root is unique; Newton steps are damped to keep the iterate
// positive and the residual shrinking.
func invertMobility(zc, T, P float64) (float64, error) {
	f := func(d float64) float64 { return Mobility(d, T, P) - zc }
	x := 1.0 // [nm]
	fx := f(x)
	for i := 0; i < maxIterations; i++ {
		h := x * 1e-6
		dfdx := (f(x+h) - f(x-h)) / (2 * h)
		if dfdx == 0 {
			return 0, fmt.Errorf("dma: mobility inversion stalled at %g nm", x)
		}
		step := fx / dfdx
		xNew := x - step
		fNew := f(xNew)
		for j := 0; xNew <= 0 || math.Abs(fNew) > math.Abs(fx); j++ {
			if j >= 60 {
				return 0, fmt.Errorf("dma: mobility inversion stalled at %g nm", x)
			}
			step /= 2
			xNew = x - step
			fNew = f(xNew)
		}
		if math.Abs(step) <= x*convergenceTol {
			return xNew, nil
		}
		x, fx = xNew, fNew
	}
	return 0, fmt.Errorf("dma: mobility inversion did not converge after %d iterations",
		maxIterations)
}
