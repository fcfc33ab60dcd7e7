package geometry

import (
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// Sphere is the set of points at distance Radius from Center
type Sphere struct {
	Center core.Vec3
	Radius float64
}

// NewSphere creates a sphere; a negative radius is taken by its magnitude
func NewSphere(center core.Vec3, radius float64) *Sphere {
	return &Sphere{Center: center, Radius: math.Abs(radius)}
}

// Hit returns the nearest crossing of the sphere surface in [tMin, tMax]
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	if s.Radius == 0 {
		return nil, false
	}

	// t² a + 2t h + c = 0 with h = oc·d
	oc := ray.Origin.Subtract(s.Center)
	a := ray.Direction.Dot(ray.Direction)
	h := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	disc := h*h - a*c
	if disc < 0 || a == 0 {
		return nil, false
	}

	// Stable form: q never subtracts two close values
	q := -(h + math.Copysign(math.Sqrt(disc), h))
	t0, t1 := q/a, c/q
	if q == 0 {
		t0, t1 = 0, 0
	}
	if t0 > t1 {
		t0, t1 = t1, t0
	}

	t := t0
	if t < tMin || t > tMax {
		t = t1
		if t < tMin || t > tMax {
			return nil, false
		}
	}

	rec := &HitRecord{T: t, Point: ray.At(t)}
	rec.SetFaceNormal(ray, rec.Point.Subtract(s.Center).Multiply(1/s.Radius))
	return rec, true
}

// BoundingBox returns the cube enclosing the sphere
func (s *Sphere) BoundingBox() core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABB(s.Center.Subtract(r), s.Center.Add(r))
}
