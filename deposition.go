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

	"github.com/ctessum/atmos/seinfeld"
	"github.com/ctessum/unit"
)

const rr = 287.058 // (J /kg K), specific gas constant for dry air

// DepositionMet bundles the meteorological and surface state needed
// to compute dry deposition velocities. Dimensioned fields are
// dimension-checked before use.
type DepositionMet struct {
	SurfaceLayerHeight *unit.Unit // height of the surface layer [m]
	RoughnessLength    *unit.Unit // [m]
	FrictionVelocity   *unit.Unit // [m/s]
	ObukhovLength      *unit.Unit // Monin-Obukhov length [m]
	Temperature        *unit.Unit // surface air temperature [K]
	Pressure           *unit.Unit // [Pa]
	ParticleDensity    *unit.Unit // [kg/m³]
	Season             seinfeld.SeasonalCategory
	LandUse            seinfeld.LandUseCategory
}

func (m DepositionMet) check() error {
	fields := []struct {
		name string
		u    *unit.Unit
		want unit.Dimensions
	}{
		{"SurfaceLayerHeight", m.SurfaceLayerHeight, unit.Meter},
		{"RoughnessLength", m.RoughnessLength, unit.Meter},
		{"FrictionVelocity", m.FrictionVelocity, unit.MeterPerSecond},
		{"ObukhovLength", m.ObukhovLength, unit.Meter},
		{"Temperature", m.Temperature, unit.Kelvin},
		{"Pressure", m.Pressure, unit.Pascal},
		{"ParticleDensity", m.ParticleDensity, unit.KilogramPerMeter3},
	}
	for _, f := range fields {
		if f.u == nil {
			return fmt.Errorf("aerodist: DepositionMet field %s is nil", f.name)
		}
		if err := f.u.Check(f.want); err != nil {
			return fmt.Errorf("aerodist: DepositionMet field %s: %v", f.name, err)
		}
	}
	if m.Temperature.Value() <= 0 {
		return fmt.Errorf("aerodist: temperature must be positive, got %g K",
			m.Temperature.Value())
	}
	if m.Pressure.Value() <= 0 {
		return fmt.Errorf("aerodist: pressure must be positive, got %g Pa",
			m.Pressure.Value())
	}
	return nil
}

// DepositionVelocities computes the particle dry deposition velocity
// [m/s] at every bin center from gravitational settling plus
// aerodynamic and surface resistance (Seinfeld and Pandis 2006
// equation 19.7). Air density follows from temperature and pressure
// via the ideal gas law.
func (d *SizeDist) DepositionVelocities(met DepositionMet) ([]float64, error) {
	if err := met.check(); err != nil {
		return nil, err
	}
	T := met.Temperature.Value()
	P := met.Pressure.Value()
	ρAir := P / (rr * T)
	out := make([]float64, d.Bins())
	for j, c := range d.centers {
		out[j] = seinfeld.DryDepParticle(
			met.SurfaceLayerHeight.Value(),
			met.RoughnessLength.Value(),
			met.FrictionVelocity.Value(),
			met.ObukhovLength.Value(),
			c*1e-9, // diameter nm -> m
			T, P,
			met.ParticleDensity.Value(),
			ρAir,
			met.Season, met.LandUse)
	}
	return out, nil
}
