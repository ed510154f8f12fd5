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

// Package rossconv converts the EISMINT-ROSS ice shelf benchmark dataset
// (one block-structured gridded ASCII file plus two boundary-condition
// list files) into a single self-describing NetCDF file.
package rossconv

import "github.com/ctessum/sparse"

// Version gives the version number of this version of rossconv.
const Version = "1.0.2"

const (
	// SecPerA is the number of seconds in a year.
	SecPerA = 3.1556926e7

	// DxROSS is the physical grid cell spacing [m].
	DxROSS = 6822.0
)

// Ice mask categories.
const (
	MaskSheet    = 1 // ice resting on bedrock
	MaskFloating = 3 // ice floating on ocean water
)

// Missing-value sentinels, one per field. Each sentinel is pre-filled into
// the rows of the grid not covered by the data file, and is declared as the
// missing_value attribute of the corresponding output variable.
const (
	MissingAzi   = 9999.0
	MissingMag   = 9999.0
	MissingThk   = 1.0
	MissingAccur = -1
	MissingTopg  = -600.0
	MissingAcab  = 0.2 / SecPerA
	MissingBarB  = 9999.0
	MissingArtm  = 248.0
	MissingVel   = 1.0 / SecPerA
)

// Dataset holds the full set of gridded fields produced by the conversion
// pipeline. Every array has shape (Mx, My).
type Dataset struct {
	Xm int // number of data rows in the grid file
	My int // grid height; the long dimension
	Xs int // row offset: My − Xm
	Mx int // total number of rows; equals My

	Lat, Lon   *sparse.DenseArray // RIGGS grid coordinates [degrees]
	Mask       *sparse.DenseArray // grounded or floating integer mask
	Azi        *sparse.DenseArray // observed velocity azimuth [degrees east]
	Mag        *sparse.DenseArray // observed velocity magnitude [m s-1]
	Thk        *sparse.DenseArray // ice shelf thickness [m]
	Accur      *sparse.DenseArray // accurate-observation flag
	Topg       *sparse.DenseArray // bedrock surface elevation [m]
	Acab       *sparse.DenseArray // accumulation rate [m s-1]
	BarB       *sparse.DenseArray // vertically-averaged ice hardness [Pa^(1/3)]
	Artm       *sparse.DenseArray // annual mean surface temperature [K]
	Ubar, Vbar *sparse.DenseArray // observed velocity components [m s-1]
	BCFlag     *sparse.DenseArray // Dirichlet boundary condition marker
}

func newDataset(mx, my int) *Dataset {
	return &Dataset{
		Mx:     mx,
		My:     my,
		Lat:    sparse.ZerosDense(mx, my),
		Lon:    sparse.ZerosDense(mx, my),
		Mask:   sparse.ZerosDense(mx, my),
		Azi:    sparse.ZerosDense(mx, my),
		Mag:    sparse.ZerosDense(mx, my),
		Thk:    sparse.ZerosDense(mx, my),
		Accur:  sparse.ZerosDense(mx, my),
		Topg:   sparse.ZerosDense(mx, my),
		Acab:   sparse.ZerosDense(mx, my),
		BarB:   sparse.ZerosDense(mx, my),
		Artm:   sparse.ZerosDense(mx, my),
		Ubar:   sparse.ZerosDense(mx, my),
		Vbar:   sparse.ZerosDense(mx, my),
		BCFlag: sparse.ZerosDense(mx, my),
	}
}
