package integrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// Preprocess runs once before any RayColor call, e.g. to cast photons.
	// Progress is reported as fractions of the preprocessing work.
	Preprocess(ctx context.Context, progress core.Progress) error

	// RayColor estimates the radiance arriving along ray. It is called
	// concurrently; all mutable state lives in the sampler.
	RayColor(ray core.Ray, sampler core.Sampler) core.Vec3
}

// Algorithm names a light transport algorithm
type Algorithm string

const (
	PathTracing          Algorithm = "path"
	IterativePathTracing Algorithm = "path-iterative"
	PhotonMapping        Algorithm = "photon"
)

// ParseAlgorithm accepts an algorithm name and a few common aliases
func ParseAlgorithm(name string) (Algorithm, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "path", "pt", "path-tracing", "":
		return PathTracing, nil
	case "path-iterative", "iterative", "pt-iterative":
		return IterativePathTracing, nil
	case "photon", "pm", "photon-mapping":
		return PhotonMapping, nil
	}
	return "", fmt.Errorf("%w: unknown algorithm %q (want path, path-iterative or photon)", core.ErrInvalidConfig, name)
}

// Options carries the settings of every algorithm; only the selected one is used
type Options struct {
	PathTracing PathTracingConfig
	Photon      PhotonConfig
}

// DefaultOptions returns the default settings of every algorithm
func DefaultOptions() Options {
	return Options{
		PathTracing: DefaultPathTracingConfig(),
		Photon:      DefaultPhotonConfig(),
	}
}

// New creates the integrator for algorithm over s after validating its settings
func New(algorithm Algorithm, s *scene.Scene, opts Options, logger core.Logger) (Integrator, error) {
	switch algorithm {
	case PathTracing, IterativePathTracing:
		cfg := opts.PathTracing
		cfg.Iterative = cfg.Iterative || algorithm == IterativePathTracing
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return NewPathTracingIntegrator(s, cfg), nil
	case PhotonMapping:
		if err := opts.Photon.Validate(); err != nil {
			return nil, err
		}
		return NewPhotonMappingIntegrator(s, opts.Photon, logger), nil
	}
	return nil, fmt.Errorf("%w: unknown algorithm %q", core.ErrInvalidConfig, algorithm)
}

// depthCeiling stops paths that Russian roulette never terminates, such as
// rays trapped between two perfect mirrors
const depthCeiling = 512

// depthLimit converts a bounce setting (-1 for unlimited) into a hard limit
func depthLimit(maxBounces int) int {
	if maxBounces < 0 {
		return depthCeiling
	}
	return maxBounces
}
