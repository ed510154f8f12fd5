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
	"strconv"
	"strings"

	"github.com/ctessum/sparse"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// RIGGS survey reference coordinates [degrees], from the original RIGGS
// documents. The output lat/lon grids are computed from these constants,
// not from the coordinate blocks in the grid file.
const (
	riggsLatMin = -12.3325
	riggsLatMax = -5.42445
	riggsLonMin = -5.26168
	riggsLonMax = 3.72207
)

// GridReader parses the block-structured EISMINT-ROSS grid file
// (111by147Grid.dat in the benchmark distribution). Row 0 is the
// southernmost row. The dataset documentation also describes a
// row-flipped orientation; this reader does not implement it.
type GridReader struct {
	// Log echoes skipped header and comment lines at debug level.
	Log logrus.FieldLogger

	name  string
	s     *bufio.Scanner
	line  int
	block string
}

// NewGridReader returns a reader for the grid file in r.
// name is used in error messages.
func NewGridReader(r io.Reader, name string) *GridReader {
	return &GridReader{
		Log:  logrus.StandardLogger(),
		name: name,
		s:    bufio.NewScanner(r),
	}
}

func (g *GridReader) incomplete() *ParseError {
	return &ParseError{File: g.name, Line: g.line, Block: g.block}
}

func (g *GridReader) errf(err error) *ParseError {
	return &ParseError{File: g.name, Line: g.line, Block: g.block, Err: err}
}

func (g *GridReader) readLine() (string, error) {
	if !g.s.Scan() {
		if err := g.s.Err(); err != nil {
			return "", g.errf(err)
		}
		return "", g.incomplete()
	}
	g.line++
	return g.s.Text(), nil
}

// skipLines consumes n comment or label lines, echoing each to the logger.
func (g *GridReader) skipLines(n int) error {
	for i := 0; i < n; i++ {
		line, err := g.readLine()
		if err != nil {
			return err
		}
		g.Log.Debug(line)
	}
	return nil
}

// discardValueLines consumes n single-value lines, checking that each
// parses as a number but keeping nothing.
func (g *GridReader) discardValueLines(n int) error {
	for i := 0; i < n; i++ {
		line, err := g.readLine()
		if err != nil {
			return err
		}
		if _, err := strconv.ParseFloat(strings.TrimSpace(line), 64); err != nil {
			return g.errf(err)
		}
	}
	return nil
}

// readValueRow reads one data row of exactly d.My whitespace-separated
// numeric tokens.
func (g *GridReader) readValueRow(d *Dataset) ([]float64, error) {
	line, err := g.readLine()
	if err != nil {
		return nil, err
	}
	toks := strings.Fields(line)
	if len(toks) != d.My {
		return nil, g.errf(fmt.Errorf("expected %d values but found %d", d.My, len(toks)))
	}
	row := make([]float64, len(toks))
	for j, tok := range toks {
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, g.errf(err)
		}
		row[j] = v
	}
	return row, nil
}

// blockOptions configures the generic scaled block reader.
type blockOptions struct {
	missing float64 // sentinel pre-filled into the offset rows
	shift   float64 // added to each parsed value
	scale   float64 // multiplies each shifted value
}

// readScaled reads one 2-D field block: two skipped label lines, a fill of
// rows 0..Xs-1 with the missing value, then Xm data rows, one file line
// per grid row, storing (v+shift)*scale column by column from row Xs on.
func (g *GridReader) readScaled(d *Dataset, dst *sparse.DenseArray, block string, opt blockOptions) error {
	g.block = block
	if err := g.skipLines(2); err != nil {
		return err
	}
	for i := 0; i < d.Xs; i++ {
		for j := 0; j < d.My; j++ {
			dst.Elements[dst.Index1d(i, j)] = opt.missing
		}
	}
	for i := 0; i < d.Xm; i++ {
		row, err := g.readValueRow(d)
		if err != nil {
			return err
		}
		for j, v := range row {
			dst.Elements[dst.Index1d(i+d.Xs, j)] = (v + opt.shift) * opt.scale
		}
	}
	return nil
}

// readMask reads the ice mask block. The first two offset rows are forced
// to the grounded-sheet category and the remaining offset rows to the
// floating-shelf category; data rows carry a 0/1 floating flag.
func (g *GridReader) readMask(d *Dataset) error {
	g.block = "mask"
	if err := g.skipLines(2); err != nil {
		return err
	}
	for i := 0; i < d.Xs; i++ {
		v := float64(MaskFloating)
		if i < 2 {
			v = MaskSheet
		}
		for j := 0; j < d.My; j++ {
			d.Mask.Elements[d.Mask.Index1d(i, j)] = v
		}
	}
	for i := 0; i < d.Xm; i++ {
		row, err := g.readValueRow(d)
		if err != nil {
			return err
		}
		for j, v := range row {
			if v == 1 {
				d.Mask.Elements[d.Mask.Index1d(i+d.Xs, j)] = MaskFloating
			} else {
				d.Mask.Elements[d.Mask.Index1d(i+d.Xs, j)] = MaskSheet
			}
		}
	}
	return nil
}

// readAccur reads the velocity-accuracy flag block: offset rows get the
// sentinel −1, data rows map the token to 1 or 0.
func (g *GridReader) readAccur(d *Dataset) error {
	g.block = "accur"
	if err := g.skipLines(2); err != nil {
		return err
	}
	for i := 0; i < d.Xs; i++ {
		for j := 0; j < d.My; j++ {
			d.Accur.Elements[d.Accur.Index1d(i, j)] = MissingAccur
		}
	}
	for i := 0; i < d.Xm; i++ {
		row, err := g.readValueRow(d)
		if err != nil {
			return err
		}
		for j, v := range row {
			if v == 1 {
				d.Accur.Elements[d.Accur.Index1d(i+d.Xs, j)] = 1
			} else {
				d.Accur.Elements[d.Accur.Index1d(i+d.Xs, j)] = 0
			}
		}
	}
	return nil
}

// readThkOverride reads the block marking cells whose thickness is forced
// to 1 m. Unlike every other data block, the override addresses row i
// directly rather than i+Xs; downstream consumers depend on exactly this
// fill.
func (g *GridReader) readThkOverride(d *Dataset) error {
	g.block = "thickness override"
	if err := g.skipLines(2); err != nil {
		return err
	}
	for i := 0; i < d.Xm; i++ {
		row, err := g.readValueRow(d)
		if err != nil {
			return err
		}
		for j, v := range row {
			if v == 1 {
				d.Thk.Elements[d.Thk.Index1d(i, j)] = 1.0
			}
		}
	}
	return nil
}

// fillCoords computes the RIGGS latitude/longitude grids analytically by
// linear interpolation between the reference coordinates. The latitude
// origin sits 46 rows south of the first surveyed row.
func fillCoords(d *Dataset) {
	dlat := (riggsLatMax - riggsLatMin) / 110.0
	dlon := (riggsLonMax - riggsLonMin) / 146.0
	lat0 := riggsLatMin - dlat*46.0
	latv := make([]float64, d.Mx)
	lonv := make([]float64, d.My)
	floats.Span(latv, lat0, lat0+dlat*float64(d.Mx-1))
	floats.Span(lonv, riggsLonMin, riggsLonMin+dlon*float64(d.My-1))
	for i := 0; i < d.Mx; i++ {
		for j := 0; j < d.My; j++ {
			d.Lat.Elements[d.Lat.Index1d(i, j)] = latv[i]
			d.Lon.Elements[d.Lon.Index1d(i, j)] = lonv[j]
		}
	}
}

// Read parses the whole grid file and returns the populated field grids.
// On failure the returned dataset is nil and no partial result is usable.
func (g *GridReader) Read() (*Dataset, error) {
	g.block = "header"
	if err := g.skipLines(1); err != nil {
		return nil, err
	}

	g.block = "dimensions"
	line, err := g.readLine()
	if err != nil {
		return nil, err
	}
	f := strings.Fields(line)
	if len(f) < 2 {
		return nil, g.errf(fmt.Errorf("expected two grid dimensions, got %q", line))
	}
	xm, err := strconv.Atoi(f[0])
	if err != nil {
		return nil, g.errf(err)
	}
	my, err := strconv.Atoi(f[1])
	if err != nil {
		return nil, g.errf(err)
	}
	if xm <= 0 || my < xm {
		return nil, g.errf(fmt.Errorf("invalid grid dimensions %d by %d", xm, my))
	}
	d := newDataset(my, my)
	d.Xm = xm
	d.Xs = my - xm

	fillCoords(d)

	// Both position blocks are discarded: the output coordinates come from
	// the RIGGS reference constants above, not from the file. They are
	// still consumed value by value so the later blocks start at the right
	// line. Each block carries one more value than it has rows.
	g.block = "rows position"
	if err := g.skipLines(2); err != nil {
		return nil, err
	}
	if err := g.discardValueLines(d.Xm); err != nil {
		return nil, err
	}
	if err := g.skipLines(1); err != nil {
		return nil, err
	}
	g.block = "columns position"
	if err := g.skipLines(2); err != nil {
		return nil, err
	}
	if err := g.discardValueLines(d.My); err != nil {
		return nil, err
	}
	if err := g.skipLines(1); err != nil {
		return nil, err
	}

	if err := g.readMask(d); err != nil {
		return nil, err
	}
	if err := g.readScaled(d, d.Azi, "azi", blockOptions{missing: MissingAzi, scale: 1}); err != nil {
		return nil, err
	}
	if err := g.readScaled(d, d.Mag, "mag", blockOptions{missing: MissingMag, scale: 1 / SecPerA}); err != nil {
		return nil, err
	}
	if err := g.readScaled(d, d.Thk, "thk", blockOptions{missing: MissingThk, scale: 1}); err != nil {
		return nil, err
	}
	if err := g.readAccur(d); err != nil {
		return nil, err
	}
	if err := g.readScaled(d, d.Topg, "topg", blockOptions{missing: MissingTopg, scale: -1}); err != nil {
		return nil, err
	}
	if err := g.readThkOverride(d); err != nil {
		return nil, err
	}
	if err := g.readScaled(d, d.Acab, "acab", blockOptions{missing: MissingAcab, scale: 1 / (SecPerA * 1000)}); err != nil {
		return nil, err
	}
	if err := g.readScaled(d, d.BarB, "barB", blockOptions{missing: MissingBarB, scale: 1}); err != nil {
		return nil, err
	}
	if err := g.readScaled(d, d.Artm, "artm", blockOptions{missing: MissingArtm, shift: 273.15, scale: 1}); err != nil {
		return nil, err
	}
	return d, nil
}
