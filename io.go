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
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/ctessum/sparse"
)

// A Distribution is any of the three size distribution variants, as
// returned by Load. Dist gives access to the shared table; callers
// needing variant-specific operations type-switch on the concrete
// types.
type Distribution interface {
	Dist() *SizeDist
	Save(w io.Writer) error
	objectType() string
}

var (
	_ Distribution = (*SizeDist)(nil)
	_ Distribution = (*SizeDistTS)(nil)
	_ Distribution = (*SizeDistLS)(nil)
)

// timeKeyLayout is the text form of time-series row keys, always UTC.
const timeKeyLayout = "2006-01-02 15:04:05.999999999"

// maxHeaderLines caps how far Load scans for the end-of-header marker
// before deciding the input is not a snapshot at all.
const maxHeaderLines = 50

// Save writes the table as a flat-text snapshot that Load can read
// back.
//
// A snapshot is a short `key = value` header (bin edges,
// representation kind, object type, and for layer series the layer
// boundaries), a line holding only "#", and then the rows as CSV with
// the row key in the first column. Numbers are written in their
// shortest exact form, so a save/load round trip reproduces values
// bit-for-bit.
func (d *SizeDist) Save(w io.Writer) error {
	return d.save(w, d.objectType(), "key", formatFloat, nil)
}

// Save writes the time series as a flat-text snapshot that Load can
// read back. Row keys are written as UTC timestamps.
func (d *SizeDistTS) Save(w io.Writer) error {
	return d.SizeDist.save(w, d.objectType(), "time", formatTimeKey, nil)
}

// Save writes the layer series as a flat-text snapshot that Load can
// read back. The layer boundary pairs go into the header, so a
// round trip preserves them.
func (d *SizeDistLS) Save(w io.Writer) error {
	return d.SizeDist.save(w, d.objectType(), "altitude", formatFloat, d.bounds)
}

func (d *SizeDist) save(w io.Writer, objectType, keyLabel string,
	formatKey func(float64) string, bounds [][2]float64) error {
	b := bufio.NewWriter(w)
	fmt.Fprintf(b, "bins = [%s]\n", joinFloats(d.edges))
	fmt.Fprintf(b, "distributionType = %s\n", d.kind)
	fmt.Fprintf(b, "objectType = %s\n", objectType)
	if bounds != nil {
		flat := make([]float64, 0, 2*len(bounds))
		for _, p := range bounds {
			flat = append(flat, p[0], p[1])
		}
		fmt.Fprintf(b, "layerBounds = [%s]\n", joinFloats(flat))
	}
	fmt.Fprintln(b, "#")

	nbins := d.Bins()
	cols := make([]string, nbins+1)
	cols[0] = keyLabel
	for j := 0; j < nbins; j++ {
		cols[j+1] = formatFloat(d.edges[j]) + "-" + formatFloat(d.edges[j+1])
	}
	fmt.Fprintln(b, strings.Join(cols, ","))
	row := make([]string, nbins+1)
	for i, k := range d.keys {
		row[0] = formatKey(k)
		for j := 0; j < nbins; j++ {
			row[j+1] = formatFloat(d.data.Elements[i*nbins+j])
		}
		fmt.Fprintln(b, strings.Join(row, ","))
	}
	return b.Flush()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

func formatTimeKey(k float64) string { return keyTime(k).Format(timeKeyLayout) }

func joinFloats(v []float64) string {
	s := make([]string, len(v))
	for i, x := range v {
		s[i] = formatFloat(x)
	}
	return strings.Join(s, ", ")
}

// parseFloatList parses "[a, b, c]" (brackets optional) into floats.
func parseFloatList(s string) ([]float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	fields := strings.Split(s, ",")
	v := make([]float64, len(fields))
	for i, f := range fields {
		x, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("value %d: %v", i, err)
		}
		v[i] = x
	}
	return v, nil
}

// LoadOptions controls snapshot loading. GapFill applies only to time
// series; a GapScale of zero or less selects DefaultGapScale. Passing
// nil to Load uses the defaults: time series are gap-filled at the
// default scale.
type LoadOptions struct {
	GapFill  bool
	GapScale float64
}

// Load reads a snapshot written by Save and reconstructs the
// distribution, dispatching on the declared object type. Inputs that
// do not look like snapshots at all fail with
// NotASizeDistributionError; snapshots declaring an unknown object
// type fail with UnknownObjectTypeError. Unknown header keys are
// ignored. Time series are gap-filled according to opts (by default
// they are, like NewTS); base tables and layer series never gap-fill.
// For layer series the row keys are derived from the layerBounds
// header entry.
func Load(r io.Reader, opts *LoadOptions) (Distribution, error) {
	if opts == nil {
		opts = &LoadOptions{GapFill: true, GapScale: DefaultGapScale}
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<22)

	header := make(map[string]string)
	nheader := 0
	for {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			return nil, NotASizeDistributionError{Reason: "missing '#' header terminator"}
		}
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			break
		}
		nheader++
		if nheader > maxHeaderLines {
			return nil, NotASizeDistributionError{Reason: fmt.Sprintf(
				"no '#' header terminator within %d lines", maxHeaderLines)}
		}
		eq := strings.Index(line, "=")
		if eq < 0 {
			return nil, NotASizeDistributionError{Reason: fmt.Sprintf(
				"header line %d has no '='", nheader)}
		}
		header[strings.TrimSpace(line[:eq])] = strings.TrimSpace(line[eq+1:])
	}

	binsStr, ok := header["bins"]
	if !ok {
		return nil, NotASizeDistributionError{Reason: "missing bins"}
	}
	edges, err := parseFloatList(binsStr)
	if err != nil {
		return nil, NotASizeDistributionError{Reason: fmt.Sprintf("bins: %v", err)}
	}
	if len(edges) < 2 {
		return nil, NotASizeDistributionError{Reason: fmt.Sprintf(
			"bins holds %d edges, need at least 2", len(edges))}
	}
	kindStr, ok := header["distributionType"]
	if !ok {
		return nil, NotASizeDistributionError{Reason: "missing distributionType"}
	}
	kind, err := ParseKind(kindStr)
	if err != nil {
		return nil, NotASizeDistributionError{Reason: fmt.Sprintf(
			"unknown distribution type %q", kindStr)}
	}
	objectType, ok := header["objectType"]
	if !ok {
		return nil, NotASizeDistributionError{Reason: "missing objectType"}
	}

	// The first body line labels the columns; the rest are data rows.
	nbins := len(edges) - 1
	var keyStrs []string
	var values []float64
	first := true
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			continue
		}
		fields := strings.Split(line, ",")
		if len(fields) != nbins+1 {
			return nil, fmt.Errorf("aerodist: snapshot row %d has %d columns, want %d",
				len(keyStrs)+1, len(fields), nbins+1)
		}
		keyStrs = append(keyStrs, strings.TrimSpace(fields[0]))
		for j, f := range fields[1:] {
			v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
			if err != nil {
				return nil, fmt.Errorf("aerodist: snapshot row %d, bin %d: %v",
					len(keyStrs), j, err)
			}
			values = append(values, v)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	nrows := len(keyStrs)
	data := sparse.ZerosDense(nrows, nbins)
	copy(data.Elements, values)

	switch objectType {
	case "SizeDist":
		keys := make([]float64, nrows)
		for i, s := range keyStrs {
			if keys[i], err = strconv.ParseFloat(s, 64); err != nil {
				return nil, fmt.Errorf("aerodist: snapshot row %d key: %v", i+1, err)
			}
		}
		return New(edges, kind, keys, data)
	case "SizeDist_TS":
		times := make([]time.Time, nrows)
		for i, s := range keyStrs {
			if times[i], err = time.Parse(timeKeyLayout, s); err != nil {
				return nil, fmt.Errorf("aerodist: snapshot row %d key: %v", i+1, err)
			}
		}
		d, err := NewTSNoGapFill(edges, kind, times, data)
		if err != nil {
			return nil, err
		}
		if opts.GapFill {
			d.FillGaps(opts.GapScale)
		}
		return d, nil
	case "SizeDist_LS":
		boundsStr, ok := header["layerBounds"]
		if !ok {
			return nil, NotASizeDistributionError{Reason: "missing layerBounds"}
		}
		flat, err := parseFloatList(boundsStr)
		if err != nil {
			return nil, NotASizeDistributionError{Reason: fmt.Sprintf("layerBounds: %v", err)}
		}
		if len(flat) != 2*nrows {
			return nil, NotASizeDistributionError{Reason: fmt.Sprintf(
				"layerBounds holds %d values for %d rows", len(flat), nrows)}
		}
		bounds := make([][2]float64, nrows)
		for i := range bounds {
			bounds[i] = [2]float64{flat[2*i], flat[2*i+1]}
		}
		return NewLS(edges, kind, bounds, data)
	}
	return nil, UnknownObjectTypeError{Type: objectType}
}
