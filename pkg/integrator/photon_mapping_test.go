package integrator

import (
	"context"
	"errors"
	"math"
	"testing"

	"gonum.org/v1/gonum/stat"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/photonmap"
)

func TestPhotonConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*PhotonConfig)
		valid  bool
	}{
		{"defaults", func(c *PhotonConfig) {}, true},
		{"no photons", func(c *PhotonConfig) { c.Photons = 0 }, false},
		{"zero radius", func(c *PhotonConfig) { c.Radius = 0 }, false},
		{"negative radius", func(c *PhotonConfig) { c.Radius = -0.1 }, false},
		{"NaN radius", func(c *PhotonConfig) { c.Radius = math.NaN() }, false},
		{"no neighbors", func(c *PhotonConfig) { c.Neighbors = 0 }, false},
		{"unlimited split", func(c *PhotonConfig) { c.MaxBounces = -1 }, false},
		{"unlimited roulette", func(c *PhotonConfig) { c.MaxBounces = -1; c.Mode = RouletteMode }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPhotonConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got %v", err)
			}
			if !tt.valid && !errors.Is(err, core.ErrInvalidConfig) {
				t.Errorf("Expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParsePhotonMode(t *testing.T) {
	for name, want := range map[string]PhotonMode{"split": SplitMode, "": SplitMode, "roulette": RouletteMode, "RR": RouletteMode} {
		got, err := ParsePhotonMode(name)
		if err != nil || got != want {
			t.Errorf("ParsePhotonMode(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParsePhotonMode("both"); err == nil {
		t.Error("Expected error for unknown mode")
	}
}

func TestPhotonMappingBeforePreprocess(t *testing.T) {
	pm := NewPhotonMappingIntegrator(loadScene(t, "sphere-box"), DefaultPhotonConfig(), nil)
	if c := pm.RayColor(towardSphere, core.NewSeededSampler(1)); c != (core.Vec3{}) {
		t.Errorf("Expected black before the photon map exists, got %v", c)
	}
	if pm.PhotonMap() != nil {
		t.Error("Expected no photon map before Preprocess")
	}
}

func TestPhotonMappingPreprocess(t *testing.T) {
	cfg := DefaultPhotonConfig()
	cfg.Photons = 5000
	pm := NewPhotonMappingIntegrator(loadScene(t, "sphere-box"), cfg, nil)

	if err := pm.Preprocess(context.Background(), nil); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if got := pm.PhotonMap().Len(); got != cfg.Photons {
		t.Errorf("Expected %d photons, got %d", cfg.Photons, got)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := pm.Preprocess(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPhotonMappingMissIsBlack(t *testing.T) {
	cfg := DefaultPhotonConfig()
	cfg.Photons = 1000
	pm := NewPhotonMappingIntegrator(loadScene(t, "sphere-box"), cfg, nil)
	if err := pm.Preprocess(context.Background(), nil); err != nil {
		t.Fatal(err)
	}

	ray := core.NewRay(core.NewVec3(0, 0, -7), core.NewVec3(0, 0, -1))
	if c := pm.RayColor(ray, core.NewSeededSampler(1)); c != (core.Vec3{}) {
		t.Errorf("Expected black for a miss, got %v", c)
	}
}

// TestPhotonMappingAgreesWithPathTracing compares the radiance of a wall of
// the closed diffuse box under every photon mapping variant with the path
// traced reference
func TestPhotonMappingAgreesWithPathTracing(t *testing.T) {
	s := closedBox(t)
	ray := core.NewRay(core.Vec3{}, core.NewVec3(0, -1, 0))

	pt := NewPathTracingIntegrator(s, PathTracingConfig{MaxBounces: -1})
	sampler := core.NewSeededSampler(5)
	values := make([]float64, 20000)
	for i := range values {
		values[i] = pt.RayColor(ray, sampler).Luminance()
	}
	reference := stat.Mean(values, nil)

	tests := []struct {
		name      string
		mode      PhotonMode
		nextEvent bool
		kernel    photonmap.Kernel
	}{
		{"split", SplitMode, false, photonmap.BoxKernel},
		{"split with shadow rays", SplitMode, true, photonmap.BoxKernel},
		{"roulette", RouletteMode, false, photonmap.BoxKernel},
		{"cone kernel", SplitMode, true, photonmap.ConeKernel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultPhotonConfig()
			cfg.Photons = 50000
			cfg.Radius = 0.2
			cfg.Mode = tt.mode
			cfg.NextEvent = tt.nextEvent
			cfg.Kernel = tt.kernel
			cfg.MaxBounces = -1
			if tt.mode == SplitMode {
				cfg.MaxBounces = 8
			}

			pm := NewPhotonMappingIntegrator(s, cfg, nil)
			if err := pm.Preprocess(context.Background(), nil); err != nil {
				t.Fatal(err)
			}

			sampler := core.NewSeededSampler(9)
			estimates := make([]float64, 2000)
			for i := range estimates {
				estimates[i] = pm.RayColor(ray, sampler).Luminance()
			}
			got := stat.Mean(estimates, nil)

			if rel := math.Abs(got-reference) / reference; rel > 0.2 {
				t.Errorf("Photon estimate %f differs from path traced %f by %.0f%%", got, reference, rel*100)
			}
		})
	}
}
