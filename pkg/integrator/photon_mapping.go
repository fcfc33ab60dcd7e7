package integrator

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/lights"
	"github.com/df07/go-photon-renderer/pkg/material"
	"github.com/df07/go-photon-renderer/pkg/photonmap"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// PhotonMode selects how camera paths continue at non-diffuse components
type PhotonMode int

const (
	// SplitMode evaluates every component at each hit without roulette
	SplitMode PhotonMode = iota
	// RouletteMode follows a single component chosen by Russian roulette
	RouletteMode
)

// ParsePhotonMode accepts "split" or "roulette"
func ParsePhotonMode(name string) (PhotonMode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "split", "":
		return SplitMode, nil
	case "roulette", "rr":
		return RouletteMode, nil
	}
	return SplitMode, fmt.Errorf("%w: unknown photon mode %q (want split or roulette)", core.ErrInvalidConfig, name)
}

func (m PhotonMode) String() string {
	if m == RouletteMode {
		return "roulette"
	}
	return "split"
}

// PhotonConfig controls both phases of photon mapping
type PhotonConfig struct {
	Photons       int              // Total photons stored across all lights
	Radius        float64          // Gather radius
	Neighbors     int              // Maximum photons per density estimate
	Kernel        photonmap.Kernel // Distance falloff of the density estimate
	NextEvent     bool             // Direct light from shadow rays instead of first-hit photons
	SameSurface   bool             // Only gather photons that landed on the surface being shaded
	Mode          PhotonMode
	MaxBounces    int   // Camera path depth; -1 is allowed in roulette mode only
	PhotonBounces int   // Photon path depth; <= 0 relies on roulette alone
	Seed          int64 // Base seed of the photon casting phase
}

// DefaultPhotonConfig returns the default photon mapping settings
func DefaultPhotonConfig() PhotonConfig {
	return PhotonConfig{
		Photons:       100000,
		Radius:        0.05,
		Neighbors:     10000,
		Kernel:        photonmap.BoxKernel,
		NextEvent:     true,
		SameSurface:   true,
		Mode:          SplitMode,
		MaxBounces:    8,
		PhotonBounces: 64,
		Seed:          1,
	}
}

// Validate checks the settings before any photon is cast
func (c PhotonConfig) Validate() error {
	switch {
	case c.Photons <= 0:
		return fmt.Errorf("%w: photon count must be positive, got %d", core.ErrInvalidConfig, c.Photons)
	case !(c.Radius > 0) || math.IsInf(c.Radius, 1):
		return fmt.Errorf("%w: photon radius must be positive and finite, got %g", core.ErrInvalidConfig, c.Radius)
	case c.Neighbors <= 0:
		return fmt.Errorf("%w: photon neighbors must be positive, got %d", core.ErrInvalidConfig, c.Neighbors)
	case c.MaxBounces < -1:
		return fmt.Errorf("%w: max bounces must be -1 (unlimited) or >= 0, got %d", core.ErrInvalidConfig, c.MaxBounces)
	case c.MaxBounces == -1 && c.Mode == SplitMode:
		return fmt.Errorf("%w: split mode branches at every hit and needs a bounce limit", core.ErrInvalidConfig)
	}
	return nil
}

// PhotonMappingIntegrator estimates radiance from a photon map built in
// Preprocess. Diffuse radiance comes from the density of nearby photons,
// mirror and glass paths are traced recursively.
type PhotonMappingIntegrator struct {
	scene  *scene.Scene
	config PhotonConfig
	logger core.Logger
	limit  int

	photons *photonmap.Map
}

// NewPhotonMappingIntegrator creates a photon mapping integrator; Preprocess
// must run before RayColor
func NewPhotonMappingIntegrator(s *scene.Scene, config PhotonConfig, logger core.Logger) *PhotonMappingIntegrator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &PhotonMappingIntegrator{
		scene:  s,
		config: config,
		logger: logger,
		limit:  depthLimit(config.MaxBounces),
	}
}

// Preprocess casts the photons and builds the photon map
func (pm *PhotonMappingIntegrator) Preprocess(ctx context.Context, progress core.Progress) error {
	if err := pm.config.Validate(); err != nil {
		return err
	}

	start := time.Now()
	pm.logger.Printf("Casting %d photons from %d lights (next event: %t)\n",
		pm.config.Photons, len(pm.scene.Lights), pm.config.NextEvent)

	m, err := photonmap.Cast(ctx, pm.scene, photonmap.CastConfig{
		Photons:    pm.config.Photons,
		MaxBounces: pm.config.PhotonBounces,
		SkipDirect: pm.config.NextEvent,
		Seed:       pm.config.Seed,
	}, progress)
	if err != nil {
		return fmt.Errorf("photon casting: %w", err)
	}

	emitted := 0
	for _, n := range m.Emitted {
		emitted += n
	}
	pm.logger.Printf("Photon map ready: %d photons stored from %d emitted paths in %v\n",
		m.Len(), emitted, time.Since(start))
	if m.Len() < pm.config.Photons {
		pm.logger.Printf("Warning: only %d of %d photons landed on a surface\n", m.Len(), pm.config.Photons)
	}

	pm.photons = m
	return nil
}

// PhotonMap returns the map built by Preprocess, or nil before it has run
func (pm *PhotonMappingIntegrator) PhotonMap() *photonmap.Map {
	return pm.photons
}

// RayColor estimates the radiance along a camera ray
func (pm *PhotonMappingIntegrator) RayColor(ray core.Ray, sampler core.Sampler) core.Vec3 {
	if pm.photons == nil {
		return core.Vec3{}
	}
	return pm.radiance(ray, sampler, 0)
}

func (pm *PhotonMappingIntegrator) radiance(ray core.Ray, sampler core.Sampler, depth int) core.Vec3 {
	if depth >= pm.limit {
		return core.Vec3{}
	}

	hit, ok := pm.scene.Hit(ray)
	if !ok {
		return core.Vec3{}
	}

	mat := hit.Object.Material
	if mat.Emits {
		return mat.Emission
	}

	// Inside a transparent object: never estimate density on the way out
	if !hit.FrontFace && !mat.Kt.IsZero() {
		out := mat.RefractedRay(ray, &hit.HitRecord)
		return mat.Kt.MultiplyVec(pm.radiance(out, sampler, depth+1))
	}

	if pm.config.Mode == RouletteMode {
		return pm.sampled(ray, &hit, mat, sampler, depth)
	}
	return pm.split(ray, &hit, mat, sampler, depth)
}

// split adds the diffuse estimate and both recursive branches
func (pm *PhotonMappingIntegrator) split(ray core.Ray, hit *scene.Intersection, mat *material.Material, sampler core.Sampler, depth int) core.Vec3 {
	branches := mat.SampleAll(ray, &hit.HitRecord, sampler)

	var color core.Vec3
	if branches.Diffuse > 0 {
		color = pm.diffuse(hit, mat.Kd)
	}
	if branches.Specular > 0 {
		color = color.Add(mat.Ks.MultiplyVec(pm.radiance(branches.SpecularRay, sampler, depth+1)))
	}
	if branches.Refractive > 0 {
		color = color.Add(mat.Kt.MultiplyVec(pm.radiance(branches.RefractiveRay, sampler, depth+1)))
	}
	return color
}

// sampled follows one roulette-selected component
func (pm *PhotonMappingIntegrator) sampled(ray core.Ray, hit *scene.Intersection, mat *material.Material, sampler core.Sampler, depth int) core.Vec3 {
	eval := mat.Evaluate(ray, &hit.HitRecord, sampler)
	switch eval.Component {
	case material.DiffuseComponent:
		// Weight is kd/pd and the estimate is linear in reflectance
		return pm.diffuse(hit, eval.Weight)
	case material.SpecularComponent, material.RefractiveComponent:
		return eval.Weight.MultiplyVec(pm.radiance(eval.Scattered, sampler, depth+1))
	default:
		return core.Vec3{}
	}
}

// diffuse returns the radiance leaving a surface of reflectance kd: the photon
// density estimate plus, with next-event estimation, the shadow-ray term
func (pm *PhotonMappingIntegrator) diffuse(hit *scene.Intersection, kd core.Vec3) core.Vec3 {
	var surface *scene.Object
	if pm.config.SameSurface {
		surface = hit.Object
	}

	estimate := pm.photons.Gather(hit.Point, pm.config.Neighbors, pm.config.Radius, pm.config.Kernel, surface)
	color := estimate.Irradiance.MultiplyVec(kd).Multiply(1 / math.Pi)

	if pm.config.NextEvent {
		color = color.Add(lights.CastShadowRays(pm.scene, pm.scene.Lights, hit.Point, hit.Normal, kd))
	}
	return color
}
