package lights

import (
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// PointLight is an isotropic point emitter with intensity Color
type PointLight struct {
	Position core.Vec3
	Color    core.Vec3
}

// NewPointLight creates a new point light
func NewPointLight(position, color core.Vec3) PointLight {
	return PointLight{Position: position, Color: color}
}

// Power is the scalar weight used to split a photon budget between lights
func (l PointLight) Power() float64 {
	return l.Color.Luminance()
}

// Flux returns the total radiant power of the light, 4π·I
func (l PointLight) Flux() core.Vec3 {
	return l.Color.Multiply(4 * math.Pi)
}

// Sample returns the direction, distance and intensity of the light seen from point
func (l PointLight) Sample(point core.Vec3) LightSample {
	toLight := l.Position.Subtract(point)
	distance := toLight.Length()
	return LightSample{
		Direction: toLight.Multiply(1 / distance),
		Distance:  distance,
		Intensity: l.Color,
	}
}

// SampleEmission emits a photon in a uniformly distributed direction
func (l PointLight) SampleEmission(sample core.Vec2) EmissionSample {
	dir := core.SampleUniformSphere(sample)
	return EmissionSample{
		Ray:       core.NewRay(l.Position, dir.Direction),
		Direction: dir,
		Flux:      l.Flux(),
	}
}
