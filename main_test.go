package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/integrator"
	"github.com/df07/go-photon-renderer/pkg/loaders"
	"github.com/df07/go-photon-renderer/pkg/photonmap"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

func TestParseOptionsDefaults(t *testing.T) {
	o, err := parseOptions(nil, io.Discard)
	if err != nil {
		t.Fatalf("parseOptions failed: %v", err)
	}
	if o != defaultOptions() {
		t.Errorf("Expected defaults, got %+v", o)
	}
	if _, err := o.renderConfig(); err != nil {
		t.Errorf("Default options should give a valid render config: %v", err)
	}
}

func TestParseOptionsConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.yaml")
	config := "scene: caustic\nalgorithm: photon\nwidth: 32\nheight: 24\nppp: 3\nphotons: 5000\nphoton_kernel: cone\n"
	if err := os.WriteFile(path, []byte(config), 0644); err != nil {
		t.Fatal(err)
	}

	o, err := parseOptions([]string{"-config", path, "-ppp", "7"}, io.Discard)
	if err != nil {
		t.Fatalf("parseOptions failed: %v", err)
	}
	if o.Scene != "caustic" || o.Algorithm != "photon" || o.Width != 32 || o.Height != 24 || o.Photons != 5000 || o.Kernel != "cone" {
		t.Errorf("Config file values not applied: %+v", o)
	}
	if o.Samples != 7 {
		t.Errorf("Command line flag should override the file, got ppp %d", o.Samples)
	}
	if o.Division != defaultOptions().Division {
		t.Errorf("Unset values should keep their defaults, got division %q", o.Division)
	}
}

func TestParseOptionsErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("scene: cornell\ncolour: red\n"), 0644)

	tests := map[string][]string{
		"unknown flag":       {"-fast"},
		"stray argument":     {"cornell"},
		"missing config":     {"-config", filepath.Join(dir, "none.yaml")},
		"unknown config key": {"-config", bad},
	}
	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseOptions(args, io.Discard); err == nil {
				t.Errorf("Expected an error for %v", args)
			}
		})
	}
}

func TestIntegratorOptions(t *testing.T) {
	s, err := scene.Load("cornell")
	if err != nil {
		t.Fatal(err)
	}

	o := defaultOptions()
	o.PhotonMode = "roulette"
	o.Kernel = "gaussian"
	o.NoNextEvent = true
	opts, err := o.integratorOptions(s)
	if err != nil {
		t.Fatal(err)
	}
	pc := opts.Photon
	if pc.Mode != integrator.RouletteMode || pc.Kernel != photonmap.GaussianKernel || pc.NextEvent || pc.MaxBounces != -1 {
		t.Errorf("Unexpected photon settings %+v", pc)
	}
	if pc.Radius != s.PhotonRadius {
		t.Errorf("Expected the scene radius %f, got %f", s.PhotonRadius, pc.Radius)
	}

	o = defaultOptions()
	o.PhotonRadius = 0.3
	opts, _ = o.integratorOptions(s)
	if opts.Photon.Radius != 0.3 || opts.Photon.MaxBounces != integrator.DefaultPhotonConfig().MaxBounces {
		t.Errorf("Unexpected photon settings %+v", opts.Photon)
	}

	o.Kernel = "triangle"
	if _, err := o.integratorOptions(s); !errors.Is(err, core.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for an unknown kernel, got %v", err)
	}
}

func TestRunRendersImage(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name      string
		algorithm string
		output    string
		toneMap   string
	}{
		{"path tracing ppm", "path", "out/pt.ppm", ""},
		{"iterative bmp", "path-iterative", "pti.bmp", "gm:0.45"},
		{"photon png", "photon", "pm.png", "eq"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := defaultOptions()
			o.Scene = "sphere-box"
			o.Algorithm = tt.algorithm
			o.Width, o.Height, o.Samples = 16, 12, 2
			o.Photons = 2000
			o.MaxBounces = 3
			o.Output = filepath.Join(dir, tt.output)
			o.ToneMap = tt.toneMap
			o.Preview = filepath.Join(dir, tt.name+".preview.png")
			o.PreviewSize = 8
			o.Quiet = true

			if err := run(context.Background(), o, io.Discard); err != nil {
				t.Fatalf("run failed: %v", err)
			}

			img, err := loaders.LoadImage(o.Output)
			if err != nil {
				t.Fatalf("Output not readable: %v", err)
			}
			if img.Width != 16 || img.Height != 12 {
				t.Errorf("Expected a 16x12 image, got %dx%d", img.Width, img.Height)
			}
			preview, err := loaders.LoadImage(o.Preview)
			if err != nil {
				t.Fatalf("Preview not readable: %v", err)
			}
			if preview.Width != 8 || preview.Height != 6 {
				t.Errorf("Expected an 8x6 preview, got %dx%d", preview.Width, preview.Height)
			}
		})
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]func(*options){
		"unknown scene":     func(o *options) { o.Scene = "nonexistent" },
		"unknown algorithm": func(o *options) { o.Algorithm = "bdpt" },
		"bad division":      func(o *options) { o.Division = "region:0:1" },
		"bad tone map":      func(o *options) { o.ToneMap = "reinhard" },
		"bad format":        func(o *options) { o.Output = filepath.Join(dir, "x.tga") },
		"zero samples":      func(o *options) { o.Samples = 0 },
		"zero photons":      func(o *options) { o.Algorithm = "photon"; o.Photons = 0 },
	}

	for name, modify := range tests {
		t.Run(name, func(t *testing.T) {
			o := defaultOptions()
			o.Width, o.Height, o.Samples = 4, 4, 1
			o.Quiet = true
			o.Output = filepath.Join(dir, "x.ppm")
			modify(&o)
			if err := run(context.Background(), o, io.Discard); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestRunListScenes(t *testing.T) {
	o := defaultOptions()
	o.ListScenes = true

	var out bytes.Buffer
	if err := run(context.Background(), o, &out); err != nil {
		t.Fatal(err)
	}
	for _, name := range scene.Names() {
		if !strings.Contains(out.String(), name) {
			t.Errorf("Scene list is missing %s:\n%s", name, out.String())
		}
	}
}
