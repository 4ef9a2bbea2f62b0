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

// Package aerodist analyzes atmospheric aerosol particle size
// distributions. It represents binned distributions over time or
// altitude, converts between the common representations of such
// data (number, surface, and volume weighting on natural or
// base-10-logarithmic diameter axes), and derives column optical
// properties from layered distributions using externally supplied
// Mie single-particle calculations.
//
// Diameters are specified in nanometers throughout.
package aerodist

import "fmt"

// Version gives the version number of this module.
const Version = "0.4.1"

// A Kind identifies how the per-bin values of a size distribution
// are to be interpreted. The taxonomy has two orthogonal axes, the
// weighting basis (particle number, surface, or volume) and the
// diameter-axis scaling (natural or base-10 logarithmic), plus two
// special kinds outside the axes.
type Kind string

const (
	DNdDp    Kind = "dNdDp"
	DNdlogDp Kind = "dNdlogDp"
	DSdDp    Kind = "dSdDp"
	DSdlogDp Kind = "dSdlogDp"
	DVdDp    Kind = "dVdDp"
	DVdlogDp Kind = "dVdlogDp"

	// NumberConcentration holds the raw number of particles in each
	// bin rather than a density; there is no normalization by bin
	// width.
	NumberConcentration Kind = "numberConcentration"

	// Calibration marks raw instrument calibration data. It takes
	// part in no conversion other than the identity.
	Calibration Kind = "calibration"
)

// Kinds lists the members of the representation taxonomy.
func Kinds() []Kind {
	return []Kind{DNdDp, DNdlogDp, DSdDp, DSdlogDp, DVdDp, DVdlogDp,
		NumberConcentration, Calibration}
}

// ParseKind converts s to a Kind, failing if s is not a member of the
// representation taxonomy.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if s == string(k) {
			return k, nil
		}
	}
	return "", fmt.Errorf("aerodist: unknown distribution type %q", s)
}

// weighting bases and diameter scalings for the six axis kinds.
type basis int

const (
	number basis = iota
	surface
	volume
)

type scaling int

const (
	natural scaling = iota
	logarithmic
)

var kindAxes = map[Kind]struct {
	b basis
	s scaling
}{
	DNdDp:    {number, natural},
	DNdlogDp: {number, logarithmic},
	DSdDp:    {surface, natural},
	DSdlogDp: {surface, logarithmic},
	DVdDp:    {volume, natural},
	DVdlogDp: {volume, logarithmic},
}

// An UnsupportedConversionError is returned when no conversion path
// is defined between two representation kinds.
type UnsupportedConversionError struct {
	From, To Kind
}

func (e UnsupportedConversionError) Error() string {
	return fmt.Sprintf("aerodist: unsupported conversion from %s to %s",
		e.From, e.To)
}

// An OverlappingLayerError is returned when a new layer boundary pair
// intersects a layer already in a layer series.
type OverlappingLayerError struct {
	Low, High float64
}

func (e OverlappingLayerError) Error() string {
	return fmt.Sprintf("aerodist: layer (%g,%g) overlaps an existing layer",
		e.Low, e.High)
}

// A NotASizeDistributionError is returned when a serialized snapshot
// header is malformed or missing required fields.
type NotASizeDistributionError struct {
	Reason string
}

func (e NotASizeDistributionError) Error() string {
	return fmt.Sprintf("aerodist: not a size distribution snapshot: %s",
		e.Reason)
}

// An UnknownObjectTypeError is returned when a serialized snapshot
// declares an object type other than the three distribution variants.
type UnknownObjectTypeError struct {
	Type string
}

func (e UnknownObjectTypeError) Error() string {
	return fmt.Sprintf("aerodist: unknown object type %q", e.Type)
}
