package geometry

import "github.com/df07/go-photon-renderer/pkg/core"

// Box face indices as returned by Faces
const (
	BoxFront  = iota // Z+
	BoxBack          // Z-
	BoxRight         // X+
	BoxLeft          // X-
	BoxTop           // Y+
	BoxBottom        // Y-
)

// Box represents an axis-aligned box made up of 6 quads
type Box struct {
	Center core.Vec3 // Center point of the box
	Size   core.Vec3 // Half-extents along each axis
	faces  [6]*Quad
	bbox   core.AABB
}

// NewBox creates an axis-aligned box. Size holds half-extents, so a size of
// (1,1,1) creates a 2x2x2 box. Every face normal points outward.
func NewBox(center, size core.Vec3) *Box {
	b := &Box{Center: center, Size: size}

	lo := center.Subtract(size)
	hi := center.Add(size)
	dx := core.NewVec3(2*size.X, 0, 0)
	dy := core.NewVec3(0, 2*size.Y, 0)
	dz := core.NewVec3(0, 0, 2*size.Z)

	b.faces[BoxFront] = NewQuad(core.NewVec3(lo.X, lo.Y, hi.Z), dx, dy)
	b.faces[BoxBack] = NewQuad(core.NewVec3(hi.X, lo.Y, lo.Z), dx.Negate(), dy)
	b.faces[BoxRight] = NewQuad(core.NewVec3(hi.X, lo.Y, hi.Z), dz.Negate(), dy)
	b.faces[BoxLeft] = NewQuad(lo, dz, dy)
	b.faces[BoxTop] = NewQuad(core.NewVec3(lo.X, hi.Y, hi.Z), dx, dz.Negate())
	b.faces[BoxBottom] = NewQuad(lo, dx, dz)

	b.bbox = core.NewAABB(lo, hi)
	return b
}

// Faces returns the six faces so each wall can carry its own material
func (b *Box) Faces() [6]*Quad {
	return b.faces
}

// Hit tests if a ray intersects with any face of the box
func (b *Box) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestT := tMax

	for _, face := range b.faces {
		if hit, isHit := face.Hit(ray, tMin, closestT); isHit {
			closestT = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}
