package config

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"

	"github.com/omniscale/fulldisc/proj"
	"github.com/omniscale/fulldisc/raster"
	"github.com/omniscale/fulldisc/render"
)

func TestParseRenderDefaults(t *testing.T) {
	opts, err := ParseRender([]string{"-source", "world.jpg"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Source != "world.jpg" || opts.Satellite != "" || opts.Output != "" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Resolution != render.DefaultResolution || opts.Height != proj.DefaultHeight {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.Interpolation != "bilinear" || opts.Background != "transparent" || opts.Supersample != 1 {
		t.Errorf("unexpected defaults %+v", opts)
	}
	if opts.MaxPixels != raster.DefaultMaxPixels || opts.CacheDir != "" || opts.LongitudeSet {
		t.Errorf("unexpected defaults %+v", opts)
	}
}

func TestParseRenderFlags(t *testing.T) {
	opts, err := ParseRender([]string{
		"-source", "world.png",
		"-satellite", "goes-16",
		"-longitude", "-75",
		"-resolution", "1024",
		"-interpolation", "nearest",
		"-output", "east.png",
		"-sweep", "x",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !opts.LongitudeSet || opts.Longitude != -75 {
		t.Errorf("longitude not set %+v", opts)
	}
	if opts.Resolution != 1024 || opts.Interpolation != "nearest" || opts.Output != "east.png" || opts.Sweep != "x" {
		t.Errorf("unexpected options %+v", opts)
	}
}

func TestParseRenderInvalid(t *testing.T) {
	for _, tt := range []struct {
		args    []string
		projErr bool
	}{
		{[]string{}, false},
		{[]string{"-source", "w.jpg", "-longitude", "181"}, true},
		{[]string{"-source", "w.jpg", "-height", "0"}, true},
		{[]string{"-source", "w.jpg", "-resolution", "-1"}, true},
		{[]string{"-source", "w.jpg", "-sweep", "z"}, true},
		{[]string{"-source", "w.jpg", "-interpolation", "cubic"}, false},
		{[]string{"-source", "w.jpg", "-background", "white"}, false},
		{[]string{"-source", "w.jpg", "-supersample", "9"}, false},
		{[]string{"-source", "w.jpg", "-unknown"}, false},
		{[]string{"-source", "w.jpg", "extra"}, false},
	} {
		_, err := ParseRender(tt.args)
		if err == nil {
			t.Errorf("%v: expected error", tt.args)
			continue
		}
		if !tt.projErr {
			continue
		}
		errs, ok := err.(Errors)
		if !ok || errors.Cause(errs.ProjectionError()) != proj.ErrProjection {
			t.Errorf("%v: expected projection error, got %v", tt.args, err)
		}
	}
}

func TestParseRenderConfigFile(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "fulldisc.json")
	err := ioutil.WriteFile(fname, []byte(`{
		"source": "world.jpg",
		"satellite": "himawari-8",
		"longitude": 0,
		"resolution": 2048,
		"background": "black",
		"cachedir": "/tmp/fulldisc"
	}`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	opts, err := ParseRender([]string{"-config", fname, "-resolution", "512"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Source != "world.jpg" || opts.Satellite != "himawari-8" || opts.Background != "black" {
		t.Errorf("config not applied %+v", opts)
	}
	if !opts.LongitudeSet || opts.Longitude != 0 {
		t.Errorf("longitude from config not applied %+v", opts)
	}
	if opts.Resolution != 512 {
		t.Errorf("flag did not take precedence: %d", opts.Resolution)
	}
	if opts.CacheDir != "/tmp/fulldisc" {
		t.Errorf("cachedir %q", opts.CacheDir)
	}

	if err := ioutil.WriteFile(fname, []byte(`{"resolutoin": 5}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ParseRender([]string{"-config", fname, "-source", "w.jpg"}); err == nil {
		t.Error("expected error for unknown config field")
	}
	if _, err := ParseRender([]string{"-config", fname + ".missing"}); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestParseCache(t *testing.T) {
	opts, err := ParseCache([]string{"-cachedir", "/tmp/c", "list"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.Action != "list" || opts.CacheDir != "/tmp/c" || opts.CacheBackend != "badger" {
		t.Errorf("unexpected options %+v", opts)
	}

	for _, args := range [][]string{
		{"list"},
		{"-cachedir", "/tmp/c"},
		{"-cachedir", "/tmp/c", "purge"},
		{"-cachedir", "/tmp/c", "list", "clear"},
	} {
		if _, err := ParseCache(args); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestParseSatellites(t *testing.T) {
	opts, err := ParseSatellites([]string{"-satellites", "extra.yml"})
	if err != nil {
		t.Fatal(err)
	}
	if opts.SatellitesFile != "extra.yml" {
		t.Errorf("unexpected options %+v", opts)
	}
}
