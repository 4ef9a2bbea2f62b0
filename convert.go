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

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// A convStep is one step along a conversion path. It returns the
// per-bin factors that the step multiplies each table column by.
type convStep func(centers, widths []float64) []float64

// convPaths maps a (source, target) kind pair to its conversion-step
// sequence. Pairs involving the calibration kind are deliberately
// absent: calibration data takes part in no conversion. Identity
// pairs are also absent; they are handled before lookup so that a
// same-kind conversion stays bit-for-bit identical.
var convPaths map[[2]Kind][]convStep

func init() {
	convPaths = make(map[[2]Kind][]convStep)
	axisKinds := []Kind{DNdDp, DNdlogDp, DSdDp, DSdlogDp, DVdDp, DVdlogDp}
	for _, from := range axisKinds {
		for _, to := range axisKinds {
			if from == to {
				continue
			}
			convPaths[[2]Kind{from, to}] = axisSteps(from, to)
		}
		// numberConcentration is raw counts: the path to it runs
		// through dNdDp and multiplies by the bin widths, undoing the
		// per-diameter normalization; the path from it divides by the
		// widths and continues from dNdDp.
		to := append([]convStep{}, axisSteps(from, DNdDp)...)
		convPaths[[2]Kind{from, NumberConcentration}] = append(to, stepMulWidths)
		frm := []convStep{stepDivWidths}
		convPaths[[2]Kind{NumberConcentration, from}] = append(frm, axisSteps(DNdDp, from)...)
	}
}

// axisSteps builds the step sequence between two axis kinds: the
// diameter-scaling step first, then the weighting-basis step.
func axisSteps(from, to Kind) []convStep {
	fa, ta := kindAxes[from], kindAxes[to]
	var steps []convStep
	if fa.s != ta.s {
		if ta.s == logarithmic {
			steps = append(steps, stepToLog)
		} else {
			steps = append(steps, stepToNatural)
		}
	}
	if fa.b != ta.b {
		steps = append(steps, stepBasis(fa.b, ta.b))
	}
	return steps
}

// Natural and base-10-logarithmic diameter scalings relate by
// dN/dlogDp = ln(10)*Dp*dN/dDp, evaluated at the bin center.
func stepToLog(centers, _ []float64) []float64 {
	f := make([]float64, len(centers))
	for i, c := range centers {
		f[i] = c * math.Ln10
	}
	return f
}

func stepToNatural(centers, _ []float64) []float64 {
	f := make([]float64, len(centers))
	for i, c := range centers {
		f[i] = 1 / (c * math.Ln10)
	}
	return f
}

// Per-particle surface and volume for a sphere of diameter c.
func surfaceOfDiameter(c float64) float64 {
	r := c / 2
	return 4 * math.Pi * r * r
}

func volumeOfDiameter(c float64) float64 {
	r := c / 2
	return 4. / 3. * math.Pi * r * r * r
}

// stepBasis returns the weighting-basis step between two bases,
// assuming spherical particles.
func stepBasis(from, to basis) convStep {
	return func(centers, _ []float64) []float64 {
		f := make([]float64, len(centers))
		for i, c := range centers {
			var num float64 = 1
			var den float64 = 1
			switch to {
			case surface:
				num = surfaceOfDiameter(c)
			case volume:
				num = volumeOfDiameter(c)
			}
			switch from {
			case surface:
				den = surfaceOfDiameter(c)
			case volume:
				den = volumeOfDiameter(c)
			}
			f[i] = num / den
		}
		return f
	}
}

func stepMulWidths(_, widths []float64) []float64 {
	return append([]float64(nil), widths...)
}

func stepDivWidths(_, widths []float64) []float64 {
	f := make([]float64, len(widths))
	for i, w := range widths {
		f[i] = 1 / w
	}
	return f
}

// CanConvert reports whether a conversion path exists from one kind
// to another. Identity is always convertible.
func CanConvert(from, to Kind) bool {
	if from == to {
		_, err := ParseKind(string(from))
		return err == nil
	}
	_, ok := convPaths[[2]Kind{from, to}]
	return ok
}

// Convert returns a new table holding this distribution expressed in
// the given representation kind. The receiver is never modified.
// Converting a table to its own kind returns an unchanged copy with
// no arithmetic applied. Conversion to or from the calibration kind
// (identity aside), or involving an unknown kind, fails with an
// UnsupportedConversionError.
func (d *SizeDist) Convert(to Kind) (*SizeDist, error) {
	if to == d.kind {
		return d.Copy(), nil
	}
	steps, ok := convPaths[[2]Kind{d.kind, to}]
	if !ok {
		return nil, UnsupportedConversionError{From: d.kind, To: to}
	}
	out := d.Copy()
	out.kind = to
	for _, step := range steps {
		scaleColumns(out.data, step(out.centers, out.widths))
	}
	return out, nil
}

// scaleColumns multiplies every row of data elementwise by the
// per-bin factors.
func scaleColumns(data *sparse.DenseArray, factors []float64) {
	nbins := len(factors)
	for i := 0; i < data.Shape[0]; i++ {
		floats.Mul(data.Elements[i*nbins:(i+1)*nbins], factors)
	}
}
