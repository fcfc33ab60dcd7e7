package photonmap

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/lights"
	"github.com/df07/go-photon-renderer/pkg/material"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// CastConfig controls the photon emission phase
type CastConfig struct {
	Photons    int   // Total photons to store, split between lights by power
	MaxBounces int   // Bounce limit per photon path; <= 0 relies on Russian roulette alone
	SkipDirect bool  // Do not store first-hit photons; direct light comes from shadow rays instead
	Seed       int64 // Base seed; light i uses Seed+i
}

// maxAttemptsPerPhoton bounds emission for lights whose photons mostly escape
const maxAttemptsPerPhoton = 100

// progressBatch is how many stored photons are reported at once
const progressBatch = 1024

// Map is a finished, read-only photon map
type Map struct {
	*KDTree
	Emitted []int // Paths emitted per light
	Stored  []int // Photons stored per light
}

// Cast traces photons from every light of the scene and builds the photon
// map. Lights are traced in parallel, each with its own random source and
// photon buffer; buffers are merged in light order so the result does not
// depend on scheduling.
func Cast(ctx context.Context, s *scene.Scene, cfg CastConfig, progress core.Progress) (*Map, error) {
	if cfg.Photons <= 0 {
		return nil, fmt.Errorf("photon budget must be positive, got %d", cfg.Photons)
	}
	if progress == nil {
		progress = core.NopProgress{}
	}

	budgets := lights.DistributePhotons(s.Lights, cfg.Photons)
	buffers := make([][]Photon, len(s.Lights))
	emitted := make([]int, len(s.Lights))
	increment := 1.0 / float64(cfg.Photons)

	g, ctx := errgroup.WithContext(ctx)
	for i := range s.Lights {
		if budgets[i] == 0 {
			continue
		}
		g.Go(func() error {
			c := &caster{
				scene:    s,
				cfg:      cfg,
				sampler:  core.NewSeededSampler(cfg.Seed + int64(i)),
				quota:    budgets[i],
				photons:  make([]Photon, 0, budgets[i]),
				progress: progress,
				step:     increment,
			}
			if err := c.castLight(ctx, s.Lights[i]); err != nil {
				return fmt.Errorf("light %d: %w", i, err)
			}
			buffers[i], emitted[i] = c.photons, c.emitted
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &Map{Emitted: emitted, Stored: make([]int, len(s.Lights))}
	var all []Photon
	for i, buffer := range buffers {
		m.Stored[i] = len(buffer)
		all = append(all, buffer...)
	}
	m.KDTree = NewKDTree(all)
	return m, nil
}

// caster traces the photons of one light
type caster struct {
	scene    *scene.Scene
	cfg      CastConfig
	sampler  core.Sampler
	quota    int
	photons  []Photon
	emitted  int
	progress core.Progress
	step     float64
	pending  int
}

func (c *caster) castLight(ctx context.Context, light lights.PointLight) error {
	maxAttempts := c.quota * maxAttemptsPerPhoton
	for len(c.photons) < c.quota && c.emitted < maxAttempts {
		if c.emitted%progressBatch == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		emission := light.SampleEmission(c.sampler.Get2D())
		c.emitted++
		c.trace(emission.Ray, emission.Flux)
	}
	c.flushProgress()

	// Every photon shares its light's power with all emitted paths, stored or not
	norm := 1.0 / float64(c.emitted)
	for i := range c.photons {
		c.photons[i].Flux = c.photons[i].Flux.Multiply(norm)
	}
	return nil
}

// trace follows one photon path, storing it at diffuse bounces. The stored
// flux is divided by the diffuse selection probability so that storing only
// on diffuse events stays unbiased.
func (c *caster) trace(ray core.Ray, flux core.Vec3) {
	for depth := 0; c.cfg.MaxBounces <= 0 || depth < c.cfg.MaxBounces; depth++ {
		hit, ok := c.scene.Hit(ray)
		if !ok {
			return
		}

		mat := hit.Object.Material
		if mat.Emits {
			return
		}

		eval := mat.Evaluate(ray, &hit.HitRecord, c.sampler)
		switch eval.Component {
		case material.Absorbed:
			return
		case material.DiffuseComponent:
			if !c.cfg.SkipDirect || depth > 0 {
				lat, az := core.EncodeDirection(ray.Direction.Normalize().Negate())
				c.store(Photon{
					Position: hit.Point,
					Flux:     flux.Multiply(1 / eval.Probability),
					Latitude: lat,
					Azimuth:  az,
					Surface:  hit.Object,
					Depth:    depth,
				})
				if len(c.photons) == c.quota {
					return
				}
			}
		}

		flux = flux.MultiplyVec(eval.Weight)
		ray = eval.Scattered
	}
}

func (c *caster) store(p Photon) {
	c.photons = append(c.photons, p)
	c.pending++
	if c.pending == progressBatch {
		c.flushProgress()
	}
}

func (c *caster) flushProgress() {
	if c.pending > 0 {
		c.progress.Increment(float64(c.pending) * c.step)
		c.pending = 0
	}
}
