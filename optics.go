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

	"github.com/ctessum/sparse"
)

// Default optical parameters used by AOD when the corresponding
// AODOptions fields are left at their zero values.
const (
	DefaultWavelength      = 600.0 // vacuum wavelength [nm]
	DefaultRefractiveIndex = complex(1.6, 0)
	DefaultMieAngles       = 100 // scattering-angle resolution
)

// A MieResult holds the single-particle optical properties of one
// particle diameter as computed by a Mie calculator. Cross-sections
// are in μm².
type MieResult struct {
	ExtinctionEfficiency   float64
	ScatteringEfficiency   float64
	ExtinctionCrossSection float64
	ScatteringCrossSection float64
}

// A MieCalculator computes single-particle Mie optical properties.
// Implementations are external to this package; sizeParam is the
// dimensionless size parameter 2*pi*radius/wavelength, and diameter
// is the particle diameter in μm. angles gives the scattering-angle
// resolution.
type MieCalculator interface {
	Mie(sizeParam float64, refractiveIndex complex128, angles int,
		diameter float64) (MieResult, error)
}

// A ZeroLayerPolicy says what AOD does with layers whose bins are all
// zero: gap bands inherited from an upstream time series, or layers
// that are genuinely empty. The total is the same either way; the
// policy only controls the per-layer output table.
type ZeroLayerPolicy int

const (
	// ZeroLayersKeep lists all-zero layers in the per-layer results
	// with an AOD of 0.
	ZeroLayersKeep ZeroLayerPolicy = iota
	// ZeroLayersSkip drops all-zero layers from the per-layer results.
	ZeroLayersSkip
)

// AODOptions configures an optical depth calculation. Zero-valued
// fields select the package defaults.
type AODOptions struct {
	Wavelength      float64    // vacuum wavelength [nm]
	RefractiveIndex complex128 // particle refractive index
	Angles          int        // scattering-angle resolution
	ZeroLayers      ZeroLayerPolicy
}

// An AODResult holds the outcome of an optical depth calculation.
// LayerCenters, Layer, and the rows of ExtCoeff are parallel; under
// ZeroLayersSkip they cover only the layers with particles in them.
type AODResult struct {
	// Total is the column-integrated aerosol optical depth.
	Total float64
	// LayerCenters are the center altitudes [m] of the reported layers.
	LayerCenters []float64
	// Layer is the optical depth contributed by each reported layer.
	Layer []float64
	// ExtCoeff is the extinction coefficient [1/m] per reported layer
	// and diameter bin.
	ExtCoeff *sparse.DenseArray
	// CrossSections are the per-bin single-particle extinction
	// cross-sections [μm²] the calculation used.
	CrossSections []float64
	// Wavelength [nm] and RefractiveIndex echo the values used.
	Wavelength      float64
	RefractiveIndex complex128
}

// AOD computes the aerosol optical depth of the layered distribution
// at one wavelength using externally supplied Mie single-particle
// optics. The distribution is converted to per-bin particle
// concentrations [1/cm³] first; per-particle extinction cross-sections
// depend only on diameter, wavelength, and refractive index, so the
// calculator is invoked once per diameter bin and the results are
// reused across layers. The extinction coefficient of a layer and bin
// is concentration times cross-section (converted to 1/m); a layer's
// optical depth is its coefficients summed over bins times its
// thickness, and the total is the sum over layers.
func (d *SizeDistLS) AOD(calc MieCalculator, opts AODOptions) (*AODResult, error) {
	if calc == nil {
		return nil, fmt.Errorf("aerodist: AOD requires a Mie calculator")
	}
	if opts.Wavelength <= 0 {
		opts.Wavelength = DefaultWavelength
	}
	if opts.RefractiveIndex == 0 {
		opts.RefractiveIndex = DefaultRefractiveIndex
	}
	if opts.Angles <= 0 {
		opts.Angles = DefaultMieAngles
	}

	nc, err := d.Convert(NumberConcentration)
	if err != nil {
		return nil, err
	}

	nbins := d.Bins()
	wavelengthUm := opts.Wavelength / 1000
	cs := make([]float64, nbins)
	for j, c := range d.centers {
		diameterUm := c / 1000
		sizeParam := 2 * math.Pi * (diameterUm / 2) / wavelengthUm
		res, err := calc.Mie(sizeParam, opts.RefractiveIndex, opts.Angles, diameterUm)
		if err != nil {
			return nil, fmt.Errorf("aerodist: Mie calculation for diameter %g nm: %v", c, err)
		}
		cs[j] = res.ExtinctionCrossSection
	}

	var layers []int
	for i := 0; i < nc.Rows(); i++ {
		if opts.ZeroLayers == ZeroLayersSkip && zeroRow(nc.data, i, nbins) {
			continue
		}
		layers = append(layers, i)
	}

	thickness := d.LayerThickness()
	result := &AODResult{
		LayerCenters:    make([]float64, len(layers)),
		Layer:           make([]float64, len(layers)),
		ExtCoeff:        sparse.ZerosDense(len(layers), nbins),
		CrossSections:   cs,
		Wavelength:      opts.Wavelength,
		RefractiveIndex: opts.RefractiveIndex,
	}
	for to, i := range layers {
		result.LayerCenters[to] = d.keys[i]
		var sum float64
		for j := 0; j < nbins; j++ {
			// Concentrations are 1/cm³ and cross-sections μm²; the
			// product in SI units is the extinction coefficient.
			coeff := nc.data.Elements[i*nbins+j] * 1e6 * cs[j] * 1e-12
			result.ExtCoeff.Elements[to*nbins+j] = coeff
			sum += coeff * thickness[i]
		}
		result.Layer[to] = sum
		result.Total += sum
	}
	return result, nil
}

// zeroRow reports whether every bin of row i is exactly zero.
func zeroRow(data *sparse.DenseArray, i, nbins int) bool {
	for _, v := range data.Elements[i*nbins : (i+1)*nbins] {
		if v != 0 {
			return false
		}
	}
	return true
}
