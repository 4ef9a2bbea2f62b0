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
	"testing"
	"time"
)

func TestParseStreamName(t *testing.T) {
	tests := []struct {
		name string
		want StreamName
	}{
		{
			name: "sgptdmasizeC1.b1.20120301.002002.cdf",
			want: StreamName{
				Site:     "sgp",
				Product:  "tdmasize",
				Facility: "C1",
				Level:    "b1",
				Time:     time.Date(2012, time.March, 1, 0, 20, 2, 0, time.UTC),
			},
		},
		{
			name: "sgptdmaapssizeC1.c1.20090714.010203.cdf",
			want: StreamName{
				Site:     "sgp",
				Product:  "tdmaapssize",
				Facility: "C1",
				Level:    "c1",
				Time:     time.Date(2009, time.July, 14, 1, 2, 3, 0, time.UTC),
			},
		},
		{
			name: "nsanoaaaosX1.a1.20140615.000000.nc",
			want: StreamName{
				Site:     "nsa",
				Product:  "noaaaos",
				Facility: "X1",
				Level:    "a1",
				Time:     time.Date(2014, time.June, 15, 0, 0, 0, 0, time.UTC),
			},
		},
		{
			name: "/data/arm/enaaosacsmC1.b1.20150102.030405.cdf",
			want: StreamName{
				Site:     "ena",
				Product:  "aosacsm",
				Facility: "C1",
				Level:    "b1",
				Time:     time.Date(2015, time.January, 2, 3, 4, 5, 0, time.UTC),
			},
		},
	}
	for _, test := range tests {
		got, err := ParseStreamName(test.name)
		if err != nil {
			t.Errorf("%s: %v", test.name, err)
			continue
		}
		if got != test.want {
			t.Errorf("%s: got %+v, want %+v", test.name, got, test.want)
		}
	}
}

func TestStreamNameString(t *testing.T) {
	const name = "sgptdmasizeC1.b1.20120301.002002.cdf"
	n, err := ParseStreamName(name)
	if err != nil {
		t.Fatal(err)
	}
	want := "sgptdmasizeC1.b1.20120301.002002"
	if n.String() != want {
		t.Errorf("got %q, want %q", n.String(), want)
	}
}

func TestParseStreamNameErrors(t *testing.T) {
	tests := []string{
		"foo.cdf",                                 // too few fields
		"sgptdmasizeC1.b1.20120301.002002.txt",    // wrong extension
		"sgpunknownproductC1.b1.20120301.002002.cdf", // unsupported product
		"sgptdmasize.b1.20120301.002002.cdf",      // no facility
		"tdmasizeC1.b1.20120301.002002.cdf",       // no site
		"SGPtdmasizeC1.b1.20120301.002002.cdf",    // site not lowercase
		"sgptdmasizec1.b1.20120301.002002.cdf",    // facility not capitalized
		"sgptdmasizeC1.b1.20121301.002002.cdf",    // invalid month
	}
	for _, name := range tests {
		if _, err := ParseStreamName(name); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}
