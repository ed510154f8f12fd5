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
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
)

func TestOptionDefaults(t *testing.T) {
	if got := Cfg.GetString("out"); got != "ross.nc" {
		t.Errorf("out = %q; want ross.nc", got)
	}
	if got := Cfg.GetString("prefix"); got != "" {
		t.Errorf("prefix = %q; want empty", got)
	}
	if got := Cfg.GetInt("verbose"); got != 0 {
		t.Errorf("verbose = %d; want 0", got)
	}
}

func TestSetConfig(t *testing.T) {
	dir, err := ioutil.TempDir("", "rossconv")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	cfgFile := filepath.Join(dir, "rossconv.toml")
	f, err := os.Create(cfgFile)
	if err != nil {
		t.Fatal(err)
	}
	fmt.Fprintln(f, `out = "shelf.nc"`)
	fmt.Fprintln(f, `verbose = 1`)
	f.Close()

	Cfg.Set("config", cfgFile)
	defer Cfg.Set("config", "")
	if err := setConfig(); err != nil {
		t.Fatal(err)
	}
	if got := Cfg.GetString("out"); got != "shelf.nc" {
		t.Errorf("out = %q; want shelf.nc", got)
	}
	if got := Cfg.GetInt("verbose"); got != 1 {
		t.Errorf("verbose = %d; want 1", got)
	}
}

func TestSetConfigMissingFile(t *testing.T) {
	Cfg.Set("config", filepath.Join("testdata", "no-such-config.toml"))
	defer Cfg.Set("config", "")
	if err := setConfig(); err == nil {
		t.Error("expected an error for a missing configuration file")
	}
}
