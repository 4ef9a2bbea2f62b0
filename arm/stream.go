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
	"strings"
	"time"
)

// A StreamName is a parsed ARM data file name. The archive names
// files `<site><product><facility>.<level>.<yyyymmdd>.<hhmmss>.cdf`
// (or `.nc`), e.g. `sgptdmasizeC1.b1.20120301.002002.cdf` is
// Southern Great Plains tandem-DMA size data from facility C1 at
// processing level b1, starting 2012-03-01 00:20:02 UTC.
type StreamName struct {
	Site     string // observatory site code, e.g. "sgp"
	Product  string // datastream product identifier, e.g. "tdmasize"
	Facility string // measurement facility, e.g. "C1"
	Level    string // data processing level, e.g. "b1"
	Time     time.Time
}

// String reassembles the file name the fields were parsed from,
// without the extension.
func (n StreamName) String() string {
	return fmt.Sprintf("%s%s%s.%s.%s", n.Site, n.Product, n.Facility, n.Level,
		n.Time.Format("20060102.150405"))
}

// ParseStreamName parses an ARM data file name (or path; only the
// base name is considered). It fails for names that do not follow the
// archive convention and for products this package does not support.
func ParseStreamName(name string) (StreamName, error) {
	base := name
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}
	parts := strings.Split(base, ".")
	if len(parts) != 5 {
		return StreamName{}, fmt.Errorf("arm: file name %q has %d dot-separated fields, want 5",
			base, len(parts))
	}
	if ext := parts[4]; ext != "cdf" && ext != "nc" {
		return StreamName{}, fmt.Errorf("arm: file name %q has extension %q, want cdf or nc",
			base, ext)
	}
	site, product, facility, err := splitDatastream(parts[0])
	if err != nil {
		return StreamName{}, err
	}
	ts, err := time.Parse("20060102.150405", parts[2]+"."+parts[3])
	if err != nil {
		return StreamName{}, fmt.Errorf("arm: file name %q: %v", base, err)
	}
	return StreamName{
		Site:     site,
		Product:  product,
		Facility: facility,
		Level:    parts[1],
		Time:     ts,
	}, nil
}

// splitDatastream decomposes `<site><product><facility>` by locating
// the longest supported product identifier inside it. The site code
// is lowercase letters; the facility begins with an uppercase letter.
func splitDatastream(ds string) (site, product, facility string, err error) {
	for name := range products {
		i := strings.Index(ds, name)
		if i <= 0 || len(name) <= len(product) {
			continue
		}
		s, f := ds[:i], ds[i+len(name):]
		if !isLowerAlpha(s) || f == "" || f[0] < 'A' || f[0] > 'Z' {
			continue
		}
		site, product, facility = s, name, f
	}
	if product == "" {
		return "", "", "", fmt.Errorf("arm: datastream %q does not contain a supported product (%s)",
			ds, strings.Join(Products(), ", "))
	}
	return site, product, facility, nil
}

func isLowerAlpha(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 'a' || s[i] > 'z' {
			return false
		}
	}
	return len(s) > 0
}
