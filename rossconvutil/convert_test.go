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
	"bufio"
	"fmt"
	"io/ioutil"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/glaciermodel/rossconv"
)

const (
	synthXm = 111
	synthMy = 147
	synthXs = synthMy - synthXm
)

// writeSynthGrid writes a full-size grid file in the 111by147Grid.dat
// layout with constant 2-D blocks.
func writeSynthGrid(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, "EISMINT-ROSS synthetic full-size grid")
	fmt.Fprintf(w, "%d %d\n", synthXm, synthMy)

	fmt.Fprintln(w, "rows position")
	fmt.Fprintln(w, "(km)")
	for i := 0; i <= synthXm; i++ { // one extra value, as in the original file
		fmt.Fprintln(w, "0.0")
	}
	fmt.Fprintln(w, "columns position")
	fmt.Fprintln(w, "(km)")
	for j := 0; j <= synthMy; j++ {
		fmt.Fprintln(w, "0.0")
	}

	blocks := []struct{ label, value string }{
		{"mask", "1"},
		{"azimuth", "45.0"},
		{"magnitude", "400.0"},
		{"thickness", "300.0"},
		{"accuracy", "1"},
		{"seabed depth", "500.0"},
		{"sometimes grounded", "0"},
		{"accumulation", "120.0"},
		{"hardness", "1.9"},
		{"surface temperature", "-25.0"},
	}
	for _, b := range blocks {
		fmt.Fprintln(w, b.label)
		fmt.Fprintln(w, "(units)")
		row := strings.TrimSpace(strings.Repeat(b.value+" ", synthMy))
		for i := 0; i < synthXm; i++ {
			fmt.Fprintln(w, row)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
}

// writeSynthBCFiles writes kbc.dat and inlets.dat with the expected record
// counts, naming pairwise distinct cells.
func writeSynthBCFiles(t *testing.T, kbcPath, inletsPath string) {
	t.Helper()
	var kbc strings.Builder
	for k := 0; k < KBCRecordCount; k++ {
		fmt.Fprintf(&kbc, "%d %d\n", k%synthXm, k)
	}
	if err := ioutil.WriteFile(kbcPath, []byte(kbc.String()), 0644); err != nil {
		t.Fatal(err)
	}
	var inlets strings.Builder
	for k := 0; k < InletRecordCount; k++ {
		fmt.Fprintf(&inlets, "%d %d %g %g\n", k, 120, 90.0, 10.0)
	}
	if err := ioutil.WriteFile(inletsPath, []byte(inlets.String()), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestConvert(t *testing.T) {
	dir, err := ioutil.TempDir("", "rossconv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	gridFile := filepath.Join(dir, GridFileName)
	kbcFile := filepath.Join(dir, KBCFileName)
	inletsFile := filepath.Join(dir, InletsFileName)
	outFile := filepath.Join(dir, "ross.nc")
	writeSynthGrid(t, gridFile)
	writeSynthBCFiles(t, kbcFile, inletsFile)

	if err := Convert(gridFile, kbcFile, inletsFile, outFile, 0); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(outFile)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	d, err := rossconv.ReadDataset(f)
	if err != nil {
		t.Fatal(err)
	}
	if d.Mx != synthMy || d.My != synthMy {
		t.Fatalf("got dimensions (%d, %d); want (%d, %d)", d.Mx, d.My, synthMy, synthMy)
	}

	// Every boundary-condition record names a distinct cell.
	nbc := 0
	for i := 0; i < d.Mx; i++ {
		for j := 0; j < d.My; j++ {
			if d.BCFlag.Get(i, j) == 1 {
				nbc++
				if got := d.Mask.Get(i, j); got != rossconv.MaskSheet {
					t.Errorf("mask[%d][%d] = %g; want sheet at a boundary cell", i, j, got)
				}
			}
		}
	}
	if want := KBCRecordCount + InletRecordCount; nbc != want {
		t.Errorf("%d cells have bcflag set; want %d", nbc, want)
	}

	// A kbc cell carries the velocity from the magnitude/azimuth grids.
	wantU, wantV := rossconv.UV(400.0/rossconv.SecPerA, 45.0)
	i, j := synthXs, 0 // kbc record "0 0"
	if !within(d.Ubar.Get(i, j), wantU) || !within(d.Vbar.Get(i, j), wantV) {
		t.Errorf("kbc velocity = (%g, %g); want (%g, %g)",
			d.Ubar.Get(i, j), d.Vbar.Get(i, j), wantU, wantV)
	}

	// An inlet cell carries the velocity from its own record.
	wantU, wantV = rossconv.UV(10.0/rossconv.SecPerA, 90.0)
	i, j = synthXs, 120 // inlet record "0 120 90 10"
	if !within(d.Ubar.Get(i, j), wantU) || !within(d.Vbar.Get(i, j), wantV) {
		t.Errorf("inlet velocity = (%g, %g); want (%g, %g)",
			d.Ubar.Get(i, j), d.Vbar.Get(i, j), wantU, wantV)
	}
}

func within(got, want float64) bool {
	return math.Abs(got-want) <= 1.0e-6*math.Max(1, math.Abs(want))
}

func TestConvertShortKBC(t *testing.T) {
	dir, err := ioutil.TempDir("", "rossconv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)

	gridFile := filepath.Join(dir, GridFileName)
	kbcFile := filepath.Join(dir, KBCFileName)
	inletsFile := filepath.Join(dir, InletsFileName)
	outFile := filepath.Join(dir, "ross.nc")
	writeSynthGrid(t, gridFile)
	writeSynthBCFiles(t, kbcFile, inletsFile)

	// Drop the last kbc record.
	b, err := ioutil.ReadFile(kbcFile)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.SplitAfter(string(b), "\n")
	short := strings.Join(lines[:KBCRecordCount-1], "")
	if err := ioutil.WriteFile(kbcFile, []byte(short), 0644); err != nil {
		t.Fatal(err)
	}

	err = Convert(gridFile, kbcFile, inletsFile, outFile, 0)
	re, ok := err.(*rossconv.IncompleteRecordError)
	if !ok {
		t.Fatalf("got %T (%v); want *IncompleteRecordError", err, err)
	}
	if re.Want != KBCRecordCount || re.Got != KBCRecordCount-1 {
		t.Errorf("got want=%d got=%d", re.Want, re.Got)
	}
	if _, err := os.Stat(outFile); !os.IsNotExist(err) {
		t.Error("an output file was written despite the error")
	}
}

func TestConvertMissingInput(t *testing.T) {
	dir, err := ioutil.TempDir("", "rossconv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	err = Convert(filepath.Join(dir, GridFileName), filepath.Join(dir, KBCFileName),
		filepath.Join(dir, InletsFileName), filepath.Join(dir, "ross.nc"), 0)
	if err == nil {
		t.Fatal("expected an error for missing input files")
	}
}
