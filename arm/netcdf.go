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

package arm

import (
	"fmt"
	"io"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
)

// readVar reads all of variable v out of NetCDF file ff, converting
// to float64. If the variable's outermost dimension is the file's
// record dimension, records are read until the file ends.
func readVar(ff *cdf.File, v string) (*sparse.DenseArray, error) {
	dims := ff.Header.Lengths(v)
	if dims == nil {
		return nil, fmt.Errorf("variable %q not in file", v)
	}
	dims = append([]int(nil), dims...)
	if len(dims) > 0 && dims[0] == 0 {
		return readRecordVar(ff, v, dims)
	}
	n := 1
	for _, d := range dims {
		n *= d
	}
	r := ff.Reader(v, nil, nil)
	buf := r.Zero(n)
	if _, err := r.Read(buf); err != nil && err != io.EOF {
		return nil, fmt.Errorf("reading variable %q: %v", v, err)
	}
	data := sparse.ZerosDense(dims...)
	if err := bufToFloats(buf, data.Elements); err != nil {
		return nil, fmt.Errorf("variable %q: %v", v, err)
	}
	return data, nil
}

// readRecordVar reads a variable laid out along the record dimension,
// one record at a time, until the file ends.
func readRecordVar(ff *cdf.File, v string, dims []int) (*sparse.DenseArray, error) {
	recLen := 1
	for _, d := range dims[1:] {
		recLen *= d
	}
	r := ff.Reader(v, nil, nil)
	var vals []float64
	nrec := 0
	for {
		buf := r.Zero(recLen)
		n, err := r.Read(buf)
		if n > 0 {
			rec := make([]float64, n)
			if cerr := bufToFloats(buf, rec); cerr != nil {
				return nil, fmt.Errorf("variable %q: %v", v, cerr)
			}
			vals = append(vals, rec...)
		}
		if n == recLen {
			nrec++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading variable %q record %d: %v", v, nrec, err)
		}
	}
	dims[0] = nrec
	data := sparse.ZerosDense(dims...)
	copy(data.Elements, vals)
	return data, nil
}

// bufToFloats converts a typed slice returned by a cdf Reader into
// out, which must be at least as long as the buffer's prefix that was
// actually read.
func bufToFloats(buf interface{}, out []float64) error {
	switch b := buf.(type) {
	case []float32:
		for i := range out {
			out[i] = float64(b[i])
		}
	case []float64:
		copy(out, b)
	case []int32:
		for i := range out {
			out[i] = float64(b[i])
		}
	case []int16:
		for i := range out {
			out[i] = float64(b[i])
		}
	case []uint8:
		for i := range out {
			out[i] = float64(b[i])
		}
	default:
		return fmt.Errorf("unsupported data type %T", buf)
	}
	return nil
}

// readTimes reads the measurement time axis following the archive
// convention: scalar `base_time` epoch seconds plus a `time_offset`
// seconds series.
func readTimes(ff *cdf.File) ([]time.Time, error) {
	bt, err := readVar(ff, "base_time")
	if err != nil {
		return nil, err
	}
	if len(bt.Elements) != 1 {
		return nil, fmt.Errorf("base_time holds %d values, want 1", len(bt.Elements))
	}
	base := time.Unix(int64(bt.Elements[0]), 0).UTC()
	offsets, err := readVar(ff, "time_offset")
	if err != nil {
		return nil, err
	}
	if len(offsets.Shape) != 1 {
		return nil, fmt.Errorf("time_offset has shape %v, want 1 dimension", offsets.Shape)
	}
	times := make([]time.Time, len(offsets.Elements))
	for i, off := range offsets.Elements {
		times[i] = base.Add(time.Duration(off * float64(time.Second)))
	}
	return times, nil
}
