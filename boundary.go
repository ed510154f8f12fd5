/*
Copyright © 2018 the rossconv authors.
This file is part of rossconv.

rossconv is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

rossconv is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with rossconv.  If not, see <http://www.gnu.org/licenses/>.
*/

package rossconv

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// UV converts a velocity given as magnitude and compass azimuth [degrees]
// into Cartesian components. NaN or infinite inputs propagate.
func UV(mag, azi float64) (u, v float64) {
	u = mag * math.Cos(azi*math.Pi/180)
	v = mag * math.Sin(azi*math.Pi/180)
	return u, v
}

// InitVelocityDefaults fills the velocity-component grids with the
// nonzero missing sentinel everywhere and then zeroes all four edges,
// which conditions the Laplace solution of the downstream solver.
// Boundary-condition records applied afterwards take precedence at the
// cells they name.
//
// All writes here go through Elements: DenseArray.Set drops zero values.
func (d *Dataset) InitVelocityDefaults() {
	for i := 0; i < d.Mx; i++ {
		for j := 0; j < d.My; j++ {
			d.Ubar.Elements[d.Ubar.Index1d(i, j)] = MissingVel
			d.Vbar.Elements[d.Vbar.Index1d(i, j)] = MissingVel
		}
	}
	for i := 0; i < d.Mx; i++ {
		d.Ubar.Elements[d.Ubar.Index1d(i, 0)] = 0
		d.Vbar.Elements[d.Vbar.Index1d(i, 0)] = 0
		d.Ubar.Elements[d.Ubar.Index1d(i, d.My-1)] = 0
		d.Vbar.Elements[d.Vbar.Index1d(i, d.My-1)] = 0
	}
	for j := 0; j < d.My; j++ {
		d.Ubar.Elements[d.Ubar.Index1d(0, j)] = 0
		d.Vbar.Elements[d.Vbar.Index1d(0, j)] = 0
		d.Ubar.Elements[d.Ubar.Index1d(d.Mx-1, j)] = 0
		d.Vbar.Elements[d.Vbar.Index1d(d.Mx-1, j)] = 0
	}
}

// imposeBC marks cell (i,j) as a Dirichlet boundary location carrying the
// velocity (u,v).
func (d *Dataset) imposeBC(i, j int, u, v float64) {
	d.Mask.Elements[d.Mask.Index1d(i, j)] = MaskSheet
	d.BCFlag.Elements[d.BCFlag.Index1d(i, j)] = 1
	d.Ubar.Elements[d.Ubar.Index1d(i, j)] = u
	d.Vbar.Elements[d.Vbar.Index1d(i, j)] = v
}

// readRecord returns the whitespace-separated fields of the next record,
// or an IncompleteRecordError if the stream ends before record n of want.
func readRecord(s *bufio.Scanner, name string, n, want, fields int) ([]string, error) {
	if !s.Scan() {
		if err := s.Err(); err != nil {
			return nil, fmt.Errorf("rossconv: %s: %v", name, err)
		}
		return nil, &IncompleteRecordError{File: name, Want: want, Got: n}
	}
	f := strings.Fields(s.Text())
	if len(f) < fields {
		return nil, fmt.Errorf("rossconv: %s: record %d: expected %d fields, got %d", name, n+1, fields, len(f))
	}
	return f, nil
}

// cell converts the record coordinates (row relative to the offset region,
// column) into grid indices, checking bounds.
func (d *Dataset) cell(name string, n int, rowField, colField string) (i, j int, err error) {
	row, err := strconv.Atoi(rowField)
	if err != nil {
		return 0, 0, fmt.Errorf("rossconv: %s: record %d: %v", name, n+1, err)
	}
	col, err := strconv.Atoi(colField)
	if err != nil {
		return 0, 0, fmt.Errorf("rossconv: %s: record %d: %v", name, n+1, err)
	}
	i = row + d.Xs
	j = col
	if i < 0 || i >= d.Mx || j < 0 || j >= d.My {
		return 0, 0, fmt.Errorf("rossconv: %s: record %d: cell (%d, %d) outside the %d by %d grid",
			name, n+1, row, col, d.Mx, d.My)
	}
	return i, j, nil
}

// ApplyKBC reads exactly n "row col" records from r and imposes a velocity
// boundary condition at each named cell, taking the velocity from the
// already-parsed magnitude and azimuth grids. Trailing lines beyond n are
// ignored. Applying the same file twice is idempotent.
func (d *Dataset) ApplyKBC(r io.Reader, name string, n int) error {
	s := bufio.NewScanner(r)
	for count := 0; count < n; count++ {
		f, err := readRecord(s, name, count, n, 2)
		if err != nil {
			return err
		}
		i, j, err := d.cell(name, count, f[0], f[1])
		if err != nil {
			return err
		}
		u, v := UV(d.Mag.Get(i, j), d.Azi.Get(i, j))
		d.imposeBC(i, j, u, v)
	}
	return nil
}

// ApplyInlets reads exactly n "row col azimuth magnitude" records from r,
// with the azimuth in degrees and the magnitude in m/year, and imposes the
// given velocity at each named cell. Trailing lines beyond n are ignored.
func (d *Dataset) ApplyInlets(r io.Reader, name string, n int) error {
	s := bufio.NewScanner(r)
	for count := 0; count < n; count++ {
		f, err := readRecord(s, name, count, n, 4)
		if err != nil {
			return err
		}
		i, j, err := d.cell(name, count, f[0], f[1])
		if err != nil {
			return err
		}
		azi, err := strconv.ParseFloat(f[2], 64)
		if err != nil {
			return fmt.Errorf("rossconv: %s: record %d: %v", name, count+1, err)
		}
		mag, err := strconv.ParseFloat(f[3], 64)
		if err != nil {
			return fmt.Errorf("rossconv: %s: record %d: %v", name, count+1, err)
		}
		u, v := UV(mag/SecPerA, azi)
		d.imposeBC(i, j, u, v)
	}
	return nil
}
