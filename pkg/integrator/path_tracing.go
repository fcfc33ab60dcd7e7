package integrator

import (
	"context"
	"fmt"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/lights"
	"github.com/df07/go-photon-renderer/pkg/material"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// PathTracingConfig controls the path tracer
type PathTracingConfig struct {
	MaxBounces int  `yaml:"max_bounces"` // Surface interactions per path; -1 leaves termination to Russian roulette
	Iterative  bool `yaml:"iterative"`   // Use the loop form instead of recursion
}

// DefaultPathTracingConfig returns unlimited bounces with recursive tracing
func DefaultPathTracingConfig() PathTracingConfig {
	return PathTracingConfig{MaxBounces: -1}
}

// Validate rejects bounce limits below the unlimited sentinel
func (c PathTracingConfig) Validate() error {
	if c.MaxBounces < -1 {
		return fmt.Errorf("%w: max bounces must be -1 (unlimited) or >= 0, got %d", core.ErrInvalidConfig, c.MaxBounces)
	}
	return nil
}

// PathTracingIntegrator implements unidirectional path tracing with Russian
// roulette on the material components and shadow rays toward point lights
type PathTracingIntegrator struct {
	scene  *scene.Scene
	config PathTracingConfig
	limit  int
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator(s *scene.Scene, config PathTracingConfig) *PathTracingIntegrator {
	return &PathTracingIntegrator{
		scene:  s,
		config: config,
		limit:  depthLimit(config.MaxBounces),
	}
}

// Preprocess implements Integrator; path tracing needs no preparation
func (pt *PathTracingIntegrator) Preprocess(ctx context.Context, progress core.Progress) error {
	return ctx.Err()
}

// RayColor computes the color for a single camera ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, sampler core.Sampler) core.Vec3 {
	if pt.config.Iterative {
		return pt.traceIterative(ray, sampler)
	}
	return pt.trace(ray, sampler, 0)
}

// trace is the recursive estimator. Direct light from the point lights is
// evaluated at every diffuse surface outside the roulette draw; the roulette
// only picks how the path continues.
func (pt *PathTracingIntegrator) trace(ray core.Ray, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth >= pt.limit {
		return core.Vec3{}
	}

	hit, ok := pt.scene.Hit(ray)
	if !ok {
		return core.Vec3{}
	}

	mat := hit.Object.Material
	if mat.Emits {
		return mat.Emission
	}

	color := pt.directLight(&hit, mat)

	// The continuation would return black anyway
	if depth+1 >= pt.limit {
		return color
	}

	eval := mat.Evaluate(ray, &hit.HitRecord, sampler)
	if eval.Component == material.Absorbed {
		return color
	}

	incoming := pt.trace(eval.Scattered, sampler, depth+1)
	return color.Add(eval.Weight.MultiplyVec(incoming))
}

// traceIterative computes the same estimator as trace with an explicit
// throughput instead of recursion
func (pt *PathTracingIntegrator) traceIterative(ray core.Ray, sampler core.Sampler) core.Vec3 {
	var color core.Vec3
	throughput := core.NewVec3(1, 1, 1)

	for depth := 0; depth < pt.limit; depth++ {
		hit, ok := pt.scene.Hit(ray)
		if !ok {
			break
		}

		mat := hit.Object.Material
		if mat.Emits {
			color = color.Add(throughput.MultiplyVec(mat.Emission))
			break
		}

		color = color.Add(throughput.MultiplyVec(pt.directLight(&hit, mat)))
		if depth+1 >= pt.limit {
			break
		}

		eval := mat.Evaluate(ray, &hit.HitRecord, sampler)
		if eval.Component == material.Absorbed {
			break
		}

		throughput = throughput.MultiplyVec(eval.Weight)
		ray = eval.Scattered
	}

	return color
}

// directLight returns the shadow-ray estimate for the diffuse part of mat
func (pt *PathTracingIntegrator) directLight(hit *scene.Intersection, mat *material.Material) core.Vec3 {
	if mat.Kd.IsZero() {
		return core.Vec3{}
	}
	return lights.CastShadowRays(pt.scene, pt.scene.Lights, hit.Point, hit.Normal, mat.Kd)
}
