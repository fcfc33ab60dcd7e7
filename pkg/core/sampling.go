package core

import (
	"math"
	"math/rand"
)

// Sampler provides random sampling for rendering algorithms
// Can be swapped out for deterministic testing or different sampling patterns
type Sampler interface {
	Get1D() float64
	Get2D() Vec2
}

// RandomSampler wraps a standard Go random generator
type RandomSampler struct {
	random *rand.Rand
}

// NewRandomSampler creates a sampler from a Go random generator
func NewRandomSampler(random *rand.Rand) *RandomSampler {
	return &RandomSampler{random: random}
}

// NewSeededSampler creates a sampler with its own generator seeded with seed
func NewSeededSampler(seed int64) *RandomSampler {
	return NewRandomSampler(rand.New(rand.NewSource(seed)))
}

// Get1D returns a random float64 in [0, 1)
func (r *RandomSampler) Get1D() float64 {
	return r.random.Float64()
}

// Get2D returns two random float64 values in [0, 1)
func (r *RandomSampler) Get2D() Vec2 {
	return NewVec2(r.random.Float64(), r.random.Float64())
}

// Tangents builds two unit vectors orthogonal to normal and to each other.
// The helper axis is picked away from the dominant component of normal so the
// cross product never degenerates.
func Tangents(normal Vec3) (Vec3, Vec3) {
	var nt Vec3
	if math.Abs(normal.X) > 0.1 {
		nt = NewVec3(0, 1, 0)
	} else {
		nt = NewVec3(1, 0, 0)
	}

	tangent := nt.Cross(normal).Normalize()
	bitangent := normal.Cross(tangent)
	return tangent, bitangent
}

// SampleCosineHemisphere generates a cosine-weighted random direction in hemisphere around normal
func SampleCosineHemisphere(normal Vec3, sample Vec2) Vec3 {
	// sin²(latitude) is uniform for a cosine-weighted lobe
	sin2Lat := sample.X
	cosLat := math.Sqrt(1.0 - sin2Lat)
	sinLat := math.Sqrt(sin2Lat)
	az := 2.0 * math.Pi * sample.Y

	tangent, bitangent := Tangents(normal)

	return normal.Multiply(cosLat).
		Add(tangent.Multiply(sinLat * math.Cos(az))).
		Add(bitangent.Multiply(sinLat * math.Sin(az)))
}

// SphericalDirection is a unit direction together with its latitude and azimuth
type SphericalDirection struct {
	Direction Vec3
	Latitude  float64 // polar angle measured from +Y, in [0, π]
	Azimuth   float64 // angle around +Y measured from +Z, in [0, 2π)
}

// SampleUniformSphere generates a direction uniformly distributed over the unit sphere
func SampleUniformSphere(sample Vec2) SphericalDirection {
	cosLat := 2*sample.X - 1
	lat := math.Acos(cosLat)
	sinLat := math.Sin(lat)
	az := 2 * math.Pi * sample.Y

	return SphericalDirection{
		Direction: NewVec3(sinLat*math.Sin(az), cosLat, sinLat*math.Cos(az)),
		Latitude:  lat,
		Azimuth:   az,
	}
}

// EncodeDirection returns the latitude/azimuth pair of a unit direction,
// using the same convention as SampleUniformSphere
func EncodeDirection(dir Vec3) (latitude, azimuth float64) {
	latitude = math.Acos(max(-1, min(1, dir.Y)))
	azimuth = math.Atan2(dir.X, dir.Z)
	if azimuth < 0 {
		azimuth += 2 * math.Pi
	}
	return latitude, azimuth
}

// DecodeDirection is the inverse of EncodeDirection
func DecodeDirection(latitude, azimuth float64) Vec3 {
	sinLat := math.Sin(latitude)
	return NewVec3(sinLat*math.Sin(azimuth), math.Cos(latitude), sinLat*math.Cos(azimuth))
}
