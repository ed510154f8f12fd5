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
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// outVar describes one data variable of the output schema. The variable
// names and metadata strings are a stable contract for downstream
// consumers and must not change.
type outVar struct {
	name     string
	longName string
	stdName  string
	units    string
	missing  interface{} // []float32 or []int32; nil if none
	isInt    bool
	data     *sparse.DenseArray
}

// outputVars lists the data variables in file order.
func (d *Dataset) outputVars() []outVar {
	return []outVar{
		{name: "lat", longName: "RIGGS grid south latitude", data: d.Lat},
		{name: "lon", longName: "RIGGS grid west longitude", data: d.Lon},
		{name: "mask", longName: "grounded or floating integer mask",
			isInt: true, data: d.Mask},
		{name: "azi_obs", longName: "EISMINT ROSS observed ice velocity azimuth",
			units: "degrees east", missing: []float32{MissingAzi}, data: d.Azi},
		{name: "mag_obs", longName: "EISMINT ROSS observed ice velocity magnitude",
			units: "m s-1", missing: []float32{MissingMag}, data: d.Mag},
		{name: "thk", longName: "floating ice shelf thickness",
			units: "m", missing: []float32{MissingThk}, data: d.Thk},
		{name: "accur", longName: "EISMINT ROSS flag for accurate observed velocity",
			missing: []int32{MissingAccur}, isInt: true, data: d.Accur},
		{name: "topg", longName: "bedrock surface elevation", stdName: "bedrock_altitude",
			units: "m", missing: []float32{MissingTopg}, data: d.Topg},
		{name: "acab", longName: "mean annual net ice equivalent accumulation rate",
			stdName: "land_ice_surface_specific_mass_balance",
			units:   "m s-1", missing: []float32{MissingAcab}, data: d.Acab},
		{name: "barB", longName: "vertically-averaged ice hardness coefficient",
			units: "Pa^(1/3)", missing: []float32{MissingBarB}, data: d.BarB},
		{name: "artm", longName: "annual mean air temperature at ice surface",
			stdName: "surface_temperature",
			units:   "K", missing: []float32{MissingArtm}, data: d.Artm},
		{name: "ubar", longName: "vertical average of horizontal velocity of ice in projection_x_coordinate direction",
			units: "m s-1", missing: []float32{MissingVel}, data: d.Ubar},
		{name: "vbar", longName: "vertical average of horizontal velocity of ice in projection_y_coordinate direction",
			units: "m s-1", missing: []float32{MissingVel}, data: d.Vbar},
		{name: "bcflag", longName: "location of Dirichlet boundary condition for velocity",
			isInt: true, data: d.BCFlag},
	}
}

// defineHeader builds the fixed output schema: an unlimited time axis of
// length 1, the two spatial axes, and two dummy singleton vertical axes.
func (d *Dataset) defineHeader() (*cdf.Header, error) {
	h := cdf.NewHeader([]string{"t", "x", "y", "z", "zb"}, []int{0, d.Mx, d.My, 1, 1})
	h.AddAttribute("", "Conventions", "CF-1.0")

	h.AddVariable("t", []string{"t"}, []float64{0})
	h.AddAttribute("t", "units", "seconds since 2007-01-01 00:00:00")

	h.AddVariable("x", []string{"x"}, []float64{0})
	h.AddAttribute("x", "axis", "X")
	h.AddAttribute("x", "long_name", "x-coordinate in Cartesian system")
	h.AddAttribute("x", "standard_name", "projection_x_coordinate")
	h.AddAttribute("x", "units", "m")

	h.AddVariable("y", []string{"y"}, []float64{0})
	h.AddAttribute("y", "axis", "Y")
	h.AddAttribute("y", "long_name", "y-coordinate in Cartesian system")
	h.AddAttribute("y", "standard_name", "projection_y_coordinate")
	h.AddAttribute("y", "units", "m")

	h.AddVariable("z", []string{"z"}, []float64{0})
	h.AddAttribute("z", "axis", "Z")
	h.AddAttribute("z", "long_name", "z-coordinate in Cartesian system")
	h.AddAttribute("z", "standard_name", "projection_z_coordinate")
	h.AddAttribute("z", "positive", "up")
	h.AddAttribute("z", "units", "m")

	h.AddVariable("zb", []string{"zb"}, []float64{0})
	h.AddAttribute("zb", "long_name", "z-coordinate in bedrock")
	h.AddAttribute("zb", "standard_name", "projection_z_coordinate_in_bedrock")
	h.AddAttribute("zb", "positive", "up")
	h.AddAttribute("zb", "units", "m")

	for _, v := range d.outputVars() {
		if v.isInt {
			h.AddVariable(v.name, []string{"t", "x", "y"}, []int32{0})
		} else {
			h.AddVariable(v.name, []string{"t", "x", "y"}, []float32{0})
		}
		h.AddAttribute(v.name, "long_name", v.longName)
		if v.stdName != "" {
			h.AddAttribute(v.name, "standard_name", v.stdName)
		}
		if v.units != "" {
			h.AddAttribute(v.name, "units", v.units)
		}
		if v.missing != nil {
			h.AddAttribute(v.name, "missing_value", v.missing)
		}
	}

	h.Define()
	for _, err := range h.Check() {
		return nil, fmt.Errorf("rossconv: defining netcdf header: %v", err)
	}
	return h, nil
}

// axisSpan fills a coordinate axis of n cells spaced dx apart and centered
// on the grid middle.
func axisSpan(n int, dx float64) []float64 {
	half := (n - 1) / 2
	ax := make([]float64, n)
	floats.Span(ax, -dx*float64(half), dx*float64(n-1-half))
	return ax
}

func writeVar(f *cdf.File, name string, begin, end []int, data interface{}) error {
	w := f.Writer(name, begin, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("rossconv: writing variable %s to netcdf file: %v", name, err)
	}
	return nil
}

// Write writes the dataset to w as a NetCDF (classic) file. Each field
// grid is written as a 3-D array with a leading time axis of length 1.
func (d *Dataset) Write(w *os.File) error {
	h, err := d.defineHeader()
	if err != nil {
		return err
	}
	f, err := cdf.Create(w, h)
	if err != nil {
		return fmt.Errorf("rossconv: creating netcdf file: %v", err)
	}

	if err := writeVar(f, "t", []int{0}, []int{1}, []float64{0}); err != nil {
		return err
	}
	if err := writeVar(f, "x", []int{0}, []int{d.Mx}, axisSpan(d.Mx, DxROSS)); err != nil {
		return err
	}
	if err := writeVar(f, "y", []int{0}, []int{d.My}, axisSpan(d.My, DxROSS)); err != nil {
		return err
	}
	if err := writeVar(f, "z", []int{0}, []int{1}, []float64{0}); err != nil {
		return err
	}
	if err := writeVar(f, "zb", []int{0}, []int{1}, []float64{0}); err != nil {
		return err
	}

	begin := []int{0, 0, 0}
	end := []int{1, d.Mx, d.My}
	for _, v := range d.outputVars() {
		if v.isInt {
			buf := make([]int32, len(v.data.Elements))
			for i, e := range v.data.Elements {
				buf[i] = int32(e)
			}
			if err := writeVar(f, v.name, begin, end, buf); err != nil {
				return err
			}
		} else {
			buf := make([]float32, len(v.data.Elements))
			for i, e := range v.data.Elements {
				buf[i] = float32(e)
			}
			if err := writeVar(f, v.name, begin, end, buf); err != nil {
				return err
			}
		}
	}
	if err := cdf.UpdateNumRecs(w); err != nil {
		return fmt.Errorf("rossconv: finalizing netcdf file: %v", err)
	}
	return nil
}

// WriteFile writes the dataset to path. The file is assembled in a
// temporary file in the same directory and renamed into place on success,
// so a partial write never leaves something that could be mistaken for a
// complete output.
func (d *Dataset) WriteFile(path string) error {
	w, err := ioutil.TempFile(filepath.Dir(path), filepath.Base(path))
	if err != nil {
		return fmt.Errorf("rossconv: creating output file: %v", err)
	}
	tmp := w.Name()
	if err := d.Write(w); err != nil {
		w.Close()
		os.Remove(tmp)
		return err
	}
	if err := w.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rossconv: closing output file: %v", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rossconv: renaming output file: %v", err)
	}
	return nil
}

// ReadDataset reads a file previously produced by Write back into memory.
// The grid-file bookkeeping fields Xm and Xs are not stored in the file
// and are left zero.
func ReadDataset(rw cdf.ReaderWriterAt) (*Dataset, error) {
	f, err := cdf.Open(rw)
	if err != nil {
		return nil, fmt.Errorf("rossconv: opening dataset: %v", err)
	}
	mx := f.Header.Lengths("x")[0]
	my := f.Header.Lengths("y")[0]
	d := newDataset(mx, my)
	for _, v := range d.outputVars() {
		r := f.Reader(v.name, []int{0, 0, 0}, []int{1, mx, my})
		buf := r.Zero(mx * my)
		if _, err := r.Read(buf); err != nil {
			return nil, fmt.Errorf("rossconv: reading variable %s: %v", v.name, err)
		}
		switch b := buf.(type) {
		case []float32:
			for i, e := range b {
				v.data.Elements[i] = float64(e)
			}
		case []int32:
			for i, e := range b {
				v.data.Elements[i] = float64(e)
			}
		default:
			return nil, fmt.Errorf("rossconv: variable %s has unexpected type %T", v.name, buf)
		}
	}
	return d, nil
}
