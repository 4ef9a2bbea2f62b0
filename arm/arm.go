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

// Package arm reads aerosol measurement files from the US Department
// of Energy Atmospheric Radiation Measurement (ARM) archive
// (http://www.archive.arm.gov). Files are NetCDF datastreams named
// `<site><product><facility>.<level>.<yyyymmdd>.<hhmmss>.cdf`; this
// package parses the datastream names, reads the products it knows
// about, and concatenates multi-file measurement periods into single
// datasets.
package arm

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/geom"
)

// A Dataset holds the contents of one or more ARM data files for a
// single product. The concrete type depends on the product:
// *SizeDistData for size distribution products and *Table for
// everything else.
type Dataset interface {
	// ProductName gives the datastream product identifier the data
	// came from.
	ProductName() string

	// TimeSpan gives the times of the first and last measurements.
	TimeSpan() (time.Time, time.Time)
}

// A Product describes how to read and combine the files of one ARM
// datastream product.
type Product struct {
	// Name is the datastream product identifier, e.g. "tdmasize".
	Name string

	// Parse reads one data file.
	Parse func(f *cdf.File) (Dataset, error)

	// Concat combines the datasets from consecutive data files into
	// one, sorting rows by time.
	Concat func(data []Dataset) (Dataset, error)
}

// products is the registry of supported datastream products.
var products = map[string]Product{
	"tdmasize":    {Name: "tdmasize", Parse: parseTDMASize, Concat: concatSizeDists},
	"tdmaapssize": {Name: "tdmaapssize", Parse: parseTDMAAPSSize, Concat: concatSizeDists},
	"tdmahyg":     {Name: "tdmahyg", Parse: parseTDMAHyg, Concat: concatTables},
	"aosacsm":     {Name: "aosacsm", Parse: parseAOSACSM, Concat: concatTables},
	"noaaaos":     {Name: "noaaaos", Parse: parseNOAAAOS, Concat: concatTables},
}

// Products lists the supported datastream product identifiers.
func Products() []string {
	names := make([]string, 0, len(products))
	for name := range products {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sites gives the locations (longitude x, latitude y) of ARM
// observatory sites by site code.
var Sites = map[string]geom.Point{
	"sgp": {X: -97.485, Y: 36.605},  // Southern Great Plains, Lamont, Oklahoma (central facility)
	"nsa": {X: -156.616, Y: 71.323}, // North Slope of Alaska, Barrow
	"twp": {X: 147.425, Y: -2.061},  // Tropical Western Pacific, Manus Island
	"ena": {X: -28.026, Y: 39.091},  // Eastern North Atlantic, Graciosa Island
}

// windowTolerance widens name-timestamp filtering by a whole day on
// each side: a file is considered for a window if its name timestamp
// is within this tolerance of it, since one day's file can hold
// measurements for any time that day.
const windowTolerance = 86399 * time.Second

// ReadOptions selects which files ReadDir and Availability consider.
type ReadOptions struct {
	// Begin and End bound the measurement window. Zero values leave
	// the window unbounded on that side. A reversed window matches no
	// files.
	Begin, End time.Time

	// Products limits reading to the named datastream products; nil
	// means all supported products.
	Products []string
}

// wantProduct reports whether the options select the named product.
func (o *ReadOptions) wantProduct(name string) bool {
	if o.Products == nil {
		_, ok := products[name]
		return ok
	}
	for _, p := range o.Products {
		if p == name {
			return true
		}
	}
	return false
}

// inWindow reports whether a file whose name carries timestamp ts can
// hold measurements inside the window.
func (o *ReadOptions) inWindow(ts time.Time) bool {
	if !o.Begin.IsZero() && ts.Before(o.Begin.Add(-windowTolerance)) {
		return false
	}
	if !o.End.IsZero() && ts.After(o.End.Add(windowTolerance)) {
		return false
	}
	return true
}

// ReadDir reads the ARM data files in dir that match opts and returns
// one concatenated Dataset per product, keyed by product identifier.
// Files whose names are not parseable datastream names, and files for
// products outside the selection, are skipped. A window matching no
// files yields an empty map.
func ReadDir(dir string, opts ReadOptions) (map[string]Dataset, error) {
	names, err := matchingFiles(dir, &opts)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[string][]Dataset)
	for _, name := range names {
		d, err := readFile(filepath.Join(dir, name.path), name.stream.Product)
		if err != nil {
			return nil, err
		}
		byProduct[name.stream.Product] = append(byProduct[name.stream.Product], d)
	}
	out := make(map[string]Dataset, len(byProduct))
	for product, data := range byProduct {
		d, err := products[product].Concat(data)
		if err != nil {
			return nil, fmt.Errorf("arm: concatenating %s: %v", product, err)
		}
		out[product] = d
	}
	return out, nil
}

// matchedFile pairs a file name with its parsed datastream name.
type matchedFile struct {
	path   string
	stream StreamName
}

// matchingFiles lists the data files in dir selected by opts, sorted
// by name timestamp.
func matchingFiles(dir string, opts *ReadOptions) ([]matchedFile, error) {
	fis, err := ioutil.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("arm: reading directory: %v", err)
	}
	var out []matchedFile
	for _, fi := range fis {
		if fi.IsDir() {
			continue
		}
		stream, err := ParseStreamName(fi.Name())
		if err != nil {
			continue
		}
		if !opts.wantProduct(stream.Product) || !opts.inWindow(stream.Time) {
			continue
		}
		out = append(out, matchedFile{path: fi.Name(), stream: stream})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].stream.Time.Before(out[j].stream.Time) })
	return out, nil
}

// readFile parses a single data file with the named product's parser.
func readFile(path, product string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("arm: %v", err)
	}
	defer f.Close()
	cf, err := cdf.Open(f)
	if err != nil {
		return nil, fmt.Errorf("arm: opening %s: %v", path, err)
	}
	d, err := products[product].Parse(cf)
	if err != nil {
		return nil, fmt.Errorf("arm: parsing %s: %v", path, err)
	}
	return d, nil
}

// An AvailabilityTable summarizes how many data files exist per
// product and per day in one archive directory.
type AvailabilityTable struct {
	// Products are the product identifiers present, sorted.
	Products []string
	// Days are the days (midnight UTC) with at least one file, sorted.
	Days []time.Time
	// SiteCodes are the observatory site codes present, sorted; Sites
	// maps the known ones to their locations.
	SiteCodes []string

	counts map[string]int
}

func availabilityKey(product string, day time.Time) string {
	return product + "|" + day.Format("20060102")
}

// Count gives the number of files for a product on a day.
func (t *AvailabilityTable) Count(product string, day time.Time) int {
	return t.counts[availabilityKey(product, day.UTC().Truncate(24*time.Hour))]
}

// String renders the table as text, one row per day and one column
// per product.
func (t *AvailabilityTable) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "%-12s", "day")
	for _, p := range t.Products {
		fmt.Fprintf(&b, " %*s", len(p)+2, p)
	}
	fmt.Fprintln(&b)
	for _, day := range t.Days {
		fmt.Fprintf(&b, "%-12s", day.Format("2006-01-02"))
		for _, p := range t.Products {
			fmt.Fprintf(&b, " %*d", len(p)+2, t.Count(p, day))
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

// Availability scans the data file names in dir (without opening the
// files) and counts files per product and day within the selection.
func Availability(dir string, opts ReadOptions) (*AvailabilityTable, error) {
	names, err := matchingFiles(dir, &opts)
	if err != nil {
		return nil, err
	}
	t := &AvailabilityTable{counts: make(map[string]int)}
	seenProduct := make(map[string]bool)
	seenDay := make(map[time.Time]bool)
	seenSite := make(map[string]bool)
	for _, name := range names {
		day := name.stream.Time.UTC().Truncate(24 * time.Hour)
		t.counts[availabilityKey(name.stream.Product, day)]++
		if !seenProduct[name.stream.Product] {
			seenProduct[name.stream.Product] = true
			t.Products = append(t.Products, name.stream.Product)
		}
		if !seenDay[day] {
			seenDay[day] = true
			t.Days = append(t.Days, day)
		}
		if !seenSite[name.stream.Site] {
			seenSite[name.stream.Site] = true
			t.SiteCodes = append(t.SiteCodes, name.stream.Site)
		}
	}
	sort.Strings(t.Products)
	sort.Strings(t.SiteCodes)
	sort.Slice(t.Days, func(i, j int) bool { return t.Days[i].Before(t.Days[j]) })
	return t, nil
}
