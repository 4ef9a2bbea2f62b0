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

package aerodistutil

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/aerosolmodel/aerodist/arm"
)

// ArmLs writes a day-by-product table of the ARM datastream files in
// dir to w, followed by the locations of the observatory sites the
// files came from.
func ArmLs(w io.Writer, dir string, opts arm.ReadOptions) error {
	av, err := arm.Availability(dir, opts)
	if err != nil {
		return err
	}
	if len(av.Days) == 0 {
		Log.Warnf("%s: no ARM files match the selection", dir)
		return nil
	}
	if _, err := fmt.Fprint(w, av.String()); err != nil {
		return err
	}
	for _, code := range av.SiteCodes {
		pt, ok := arm.Sites[code]
		if !ok {
			continue
		}
		if _, err := fmt.Fprintf(w, "site %s: lon %g, lat %g\n", code, pt.X, pt.Y); err != nil {
			return err
		}
	}
	return nil
}

// ArmRead parses the ARM datastream files in dir, concatenates the
// records by product, and writes each product into outDir: size
// distribution products as time series snapshots, scalar products as
// CSV files (or XLSX spreadsheets when asXLSX is set). derive maps
// new table column names to expressions over the existing columns.
func ArmRead(dir, outDir string, opts arm.ReadOptions, derive map[string]string, asXLSX bool) error {
	data, err := arm.ReadDir(dir, opts)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		Log.Warnf("%s: no ARM files match the selection", dir)
		return nil
	}
	products := make([]string, 0, len(data))
	for product := range data {
		products = append(products, product)
	}
	sort.Strings(products)
	for _, product := range products {
		var path string
		switch d := data[product].(type) {
		case *arm.SizeDistData:
			path = filepath.Join(outDir, product+".csv")
			if err := saveSnapshot(path, d.SizeDistTS); err != nil {
				return err
			}
		case *arm.Table:
			if len(derive) > 0 {
				if err := d.Derive(derive); err != nil {
					return err
				}
			}
			if asXLSX {
				path = filepath.Join(outDir, product+".xlsx")
				if err := d.WriteXLSX(path); err != nil {
					return err
				}
			} else {
				path = filepath.Join(outDir, product+".csv")
				if err := writeTableCSV(path, d); err != nil {
					return err
				}
			}
		default:
			return fmt.Errorf("aerodist: no writer for ARM data type %T", d)
		}
		Log.Infof("wrote %s", path)
	}
	return nil
}

func writeTableCSV(path string, t *arm.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("aerodist: creating table file: %v", err)
	}
	if err := t.WriteCSV(f); err != nil {
		f.Close()
		return fmt.Errorf("aerodist: writing %s: %v", path, err)
	}
	return f.Close()
}
