package geometry

import (
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point  core.Vec3 // A point on the plane
	Normal core.Vec3 // Unit normal
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3) *Plane {
	return &Plane{
		Point:  point,
		Normal: normal.Normalize(),
	}
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Parallel rays never hit
	if math.Abs(denominator) < 1e-8 {
		return nil, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t < tMin || t > tMax {
		return nil, false
	}

	hitRecord := &HitRecord{
		T:     t,
		Point: ray.At(t),
	}
	hitRecord.SetFaceNormal(ray, p.Normal)

	return hitRecord, true
}

// BoundingBox returns a bounding box for this plane
func (p *Plane) BoundingBox() core.AABB {
	const largeValue = 1e6
	const epsilon = 0.001 // Small thickness to avoid zero-width bounding box

	lo := core.NewVec3(-largeValue, -largeValue, -largeValue)
	hi := core.NewVec3(largeValue, largeValue, largeValue)

	// Axis-aligned planes get a thin slab for better BVH splits
	switch getAxisAlignment(p.Normal) {
	case XAxisAligned:
		lo.X, hi.X = p.Point.X-epsilon, p.Point.X+epsilon
	case YAxisAligned:
		lo.Y, hi.Y = p.Point.Y-epsilon, p.Point.Y+epsilon
	case ZAxisAligned:
		lo.Z, hi.Z = p.Point.Z-epsilon, p.Point.Z+epsilon
	}

	return core.NewAABB(lo, hi)
}

// AxisAlignment describes which axis a normal is parallel to, if any
type AxisAlignment int

const (
	NotAxisAligned AxisAlignment = iota
	XAxisAligned
	YAxisAligned
	ZAxisAligned
)

func getAxisAlignment(normal core.Vec3) AxisAlignment {
	const tolerance = 1e-9
	switch {
	case math.Abs(math.Abs(normal.X)-1) < tolerance:
		return XAxisAligned
	case math.Abs(math.Abs(normal.Y)-1) < tolerance:
		return YAxisAligned
	case math.Abs(math.Abs(normal.Z)-1) < tolerance:
		return ZAxisAligned
	default:
		return NotAxisAligned
	}
}
