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

package rossconvutil

import (
	"fmt"
	"io"
	"os"

	"github.com/glaciermodel/rossconv"
	"github.com/sirupsen/logrus"
)

// Default input file names of the EISMINT-ROSS distribution.
const (
	GridFileName   = "111by147Grid.dat"
	KBCFileName    = "kbc.dat"
	InletsFileName = "inlets.dat"
)

// Record counts fixed by the EISMINT-ROSS distribution. The list files do
// not describe their own length.
const (
	KBCRecordCount   = 77
	InletRecordCount = 22
)

var logger = logrus.StandardLogger()

// Convert runs the whole conversion pipeline: parse the grid file, apply
// the boundary-condition files, and write the NetCDF output to outFile.
// verbose levels greater than zero echo skipped input lines.
func Convert(gridFile, kbcFile, inletsFile, outFile string, verbose int) error {
	if verbose > 0 {
		logrus.SetLevel(logrus.DebugLevel)
	}

	logger.Infof("reading grid data from %s", gridFile)
	d, err := readGrid(gridFile)
	if err != nil {
		return err
	}

	d.InitVelocityDefaults()

	logger.Infof("reading boundary condition locations from %s", kbcFile)
	if err := applyBC(d, kbcFile, KBCRecordCount, (*rossconv.Dataset).ApplyKBC); err != nil {
		return err
	}

	logger.Infof("reading additional boundary condition locations and data from %s", inletsFile)
	if err := applyBC(d, inletsFile, InletRecordCount, (*rossconv.Dataset).ApplyInlets); err != nil {
		return err
	}

	if err := d.WriteFile(outFile); err != nil {
		return err
	}
	logger.Infof("NetCDF file %s created", outFile)
	return nil
}

func readGrid(name string) (*rossconv.Dataset, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("rossconv: opening grid file: %v", err)
	}
	defer f.Close()
	r := rossconv.NewGridReader(f, name)
	r.Log = logger
	return r.Read()
}

func applyBC(d *rossconv.Dataset, name string, n int,
	apply func(*rossconv.Dataset, io.Reader, string, int) error) error {
	f, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("rossconv: opening boundary condition file: %v", err)
	}
	defer f.Close()
	return apply(d, f, name, n)
}
