package lights

import "github.com/df07/go-photon-renderer/pkg/core"

// Occluder answers visibility queries for shadow rays
type Occluder interface {
	// Occluded reports whether anything blocks the ray strictly inside (tMin, tMax)
	Occluded(ray core.Ray, tMin, tMax float64) bool
}

// LightSample contains information about a light as seen from a shading point
type LightSample struct {
	Direction core.Vec3 // Unit direction from shading point to light
	Distance  float64   // Distance to light
	Intensity core.Vec3 // Emitted intensity toward the shading point
}

// EmissionSample is a photon leaving a light
type EmissionSample struct {
	Ray       core.Ray
	Direction core.SphericalDirection
	Flux      core.Vec3 // Total power carried before normalization
}
