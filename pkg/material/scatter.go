package material

import (
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/geometry"
)

// Component identifies which part of a material handled an interaction
type Component uint8

const (
	Absorbed Component = iota
	DiffuseComponent
	SpecularComponent
	RefractiveComponent
)

func (c Component) String() string {
	switch c {
	case DiffuseComponent:
		return "diffuse"
	case SpecularComponent:
		return "specular"
	case RefractiveComponent:
		return "refractive"
	default:
		return "absorbed"
	}
}

// Probabilities holds the selection probability of each scattering component.
// Whatever is left to reach 1 is the probability of absorption.
type Probabilities struct {
	Diffuse    float64
	Specular   float64
	Refractive float64
}

// Sum returns the total probability of the path surviving
func (p Probabilities) Sum() float64 {
	return p.Diffuse + p.Specular + p.Refractive
}

// Choose selects a component from a uniform sample x in [0,1)
func (p Probabilities) Choose(x float64) Component {
	switch {
	case x < p.Diffuse:
		return DiffuseComponent
	case x < p.Diffuse+p.Specular:
		return SpecularComponent
	case x < p.Diffuse+p.Specular+p.Refractive:
		return RefractiveComponent
	default:
		return Absorbed
	}
}

// rouletteRescale leaves a residual absorption probability when the material
// would otherwise scatter with certainty
const rouletteRescale = 1.1

// RouletteProbabilities returns the Russian-roulette probabilities: the
// luminances of Kd, Ks and Kt, rescaled by 1.1×sum when they add up to more than 1.
func (m *Material) RouletteProbabilities() Probabilities {
	p := Probabilities{
		Diffuse:    m.Kd.Luminance(),
		Specular:   m.Ks.Luminance(),
		Refractive: m.Kt.Luminance(),
	}
	if sum := p.Sum(); sum > 1 {
		divisor := rouletteRescale * sum
		p.Diffuse /= divisor
		p.Specular /= divisor
		p.Refractive /= divisor
	}
	return p
}

// BranchProbabilities returns the component luminances normalized to sum to 1,
// or all zeros for a black material.
func (m *Material) BranchProbabilities() Probabilities {
	p := Probabilities{
		Diffuse:    m.Kd.Luminance(),
		Specular:   m.Ks.Luminance(),
		Refractive: m.Kt.Luminance(),
	}
	sum := p.Sum()
	if sum <= 0 {
		return Probabilities{}
	}
	p.Diffuse /= sum
	p.Specular /= sum
	p.Refractive /= sum
	return p
}

// Evaluation is the outcome of a Russian-roulette scattering decision
type Evaluation struct {
	Component   Component
	Probability float64   // Probability with which Component was selected
	Weight      core.Vec3 // Component reflectance divided by Probability
	Scattered   core.Ray  // Outgoing ray, meaningless when absorbed
}

// Evaluate picks one component by Russian roulette and returns the
// continuation ray together with its unbiased weight.
func (m *Material) Evaluate(rayIn core.Ray, hit *geometry.HitRecord, sampler core.Sampler) Evaluation {
	p := m.RouletteProbabilities()
	component := p.Choose(sampler.Get1D())

	switch component {
	case DiffuseComponent:
		return Evaluation{
			Component:   component,
			Probability: p.Diffuse,
			Weight:      m.Kd.Multiply(1 / p.Diffuse),
			Scattered:   DiffuseRay(hit, sampler),
		}
	case SpecularComponent:
		return Evaluation{
			Component:   component,
			Probability: p.Specular,
			Weight:      m.Ks.Multiply(1 / p.Specular),
			Scattered:   SpecularRay(rayIn, hit),
		}
	case RefractiveComponent:
		return Evaluation{
			Component:   component,
			Probability: p.Refractive,
			Weight:      m.Kt.Multiply(1 / p.Refractive),
			Scattered:   m.RefractedRay(rayIn, hit),
		}
	default:
		return Evaluation{Component: Absorbed, Probability: 1 - p.Sum()}
	}
}

// Sample picks one non-absorbing component with the normalized branch
// probabilities and returns its continuation ray.
func (m *Material) Sample(rayIn core.Ray, hit *geometry.HitRecord, sampler core.Sampler) (core.Ray, Component) {
	p := m.BranchProbabilities()
	if p.Sum() == 0 {
		return core.Ray{}, Absorbed
	}

	// Rounding may leave x past the last bucket; that still means refraction
	component := p.Choose(sampler.Get1D())
	if component == Absorbed {
		component = RefractiveComponent
	}

	switch component {
	case DiffuseComponent:
		return DiffuseRay(hit, sampler), component
	case SpecularComponent:
		return SpecularRay(rayIn, hit), component
	default:
		return m.RefractedRay(rayIn, hit), component
	}
}

// Branches holds one continuation ray for every component together with the
// normalized probability of each.
type Branches struct {
	Probabilities
	DiffuseRay    core.Ray
	SpecularRay   core.Ray
	RefractiveRay core.Ray
}

// SampleAll builds the continuation ray of every component at once
func (m *Material) SampleAll(rayIn core.Ray, hit *geometry.HitRecord, sampler core.Sampler) Branches {
	return Branches{
		Probabilities: m.BranchProbabilities(),
		DiffuseRay:    DiffuseRay(hit, sampler),
		SpecularRay:   SpecularRay(rayIn, hit),
		RefractiveRay: m.RefractedRay(rayIn, hit),
	}
}

// DiffuseRay samples a cosine-weighted bounce about the oriented hit normal
func DiffuseRay(hit *geometry.HitRecord, sampler core.Sampler) core.Ray {
	dir := core.SampleCosineHemisphere(hit.Normal, sampler.Get2D())
	return core.NewOffsetRay(hit.Point, dir)
}

// SpecularRay mirrors the incoming ray about the oriented hit normal
func SpecularRay(rayIn core.Ray, hit *geometry.HitRecord) core.Ray {
	dir := Reflect(rayIn.Direction.Normalize(), hit.Normal)
	return core.NewOffsetRay(hit.Point, dir)
}

// RefractedRay bends the incoming ray through the surface with Snell's law.
// Total internal reflection falls back to a mirror reflection.
func (m *Material) RefractedRay(rayIn core.Ray, hit *geometry.HitRecord) core.Ray {
	// A missing index passes straight through
	ratio := m.RefractiveIndex
	if ratio <= 0 {
		ratio = 1
	}
	if hit.FrontFace {
		ratio = 1 / ratio
	}

	unit := rayIn.Direction.Normalize()
	dir, ok := Refract(unit, hit.Normal, ratio)
	if !ok {
		dir = Reflect(unit, hit.Normal)
	}
	return core.NewOffsetRay(hit.Point, dir)
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}

// Refract calculates the refraction of unit vector uv through a surface with
// normal n facing against it; etaiOverEtat is the ratio of indices. It
// reports false on total internal reflection.
func Refract(uv, n core.Vec3, etaiOverEtat float64) (core.Vec3, bool) {
	cosTheta := math.Min(-uv.Dot(n), 1.0)
	sinTheta := math.Sqrt(math.Max(0, 1.0-cosTheta*cosTheta))
	if etaiOverEtat*sinTheta > 1.0 {
		return core.Vec3{}, false
	}

	rOutPerp := uv.Add(n.Multiply(cosTheta)).Multiply(etaiOverEtat)
	rOutParallel := n.Multiply(-math.Sqrt(math.Abs(1.0 - rOutPerp.LengthSquared())))
	return rOutPerp.Add(rOutParallel).Normalize(), true
}
