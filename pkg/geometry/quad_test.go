package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-photon-renderer/pkg/core"
)

func TestQuad_Hit_BasicIntersection(t *testing.T) {
	// 1x1 quad in the XZ plane at y=0
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))

	ray := core.NewRay(core.NewVec3(0.5, 1, 0.5), core.NewVec3(0, -1, 0))
	hit, isHit := quad.Hit(ray, 0.001, 1000.0)
	if !isHit {
		t.Fatal("Expected hit, but got miss")
	}
	if math.Abs(hit.T-1.0) > 1e-9 {
		t.Errorf("Expected t=1, got t=%f", hit.T)
	}
	if !vecNear(hit.Point, core.NewVec3(0.5, 0, 0.5), 1e-9) {
		t.Errorf("Expected hit point (0.5,0,0.5), got %v", hit.Point)
	}
}

func TestQuad_Hit_OutsideBounds(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1))

	origins := map[string]core.Vec3{
		"negative X": core.NewVec3(-0.5, 1, 0.5),
		"positive X": core.NewVec3(1.5, 1, 0.5),
		"negative Z": core.NewVec3(0.5, 1, -0.5),
		"positive Z": core.NewVec3(0.5, 1, 1.5),
	}

	for name, origin := range origins {
		t.Run(name, func(t *testing.T) {
			ray := core.NewRay(origin, core.NewVec3(0, -1, 0))
			if _, isHit := quad.Hit(ray, 0.001, 1000.0); isHit {
				t.Error("Expected miss outside quad bounds")
			}
		})
	}
}

func TestQuad_BoundingBox_Padded(t *testing.T) {
	quad := NewQuad(core.NewVec3(5, 0, 0), core.NewVec3(0, 2, 0), core.NewVec3(0, 0, 3))
	box := quad.BoundingBox()

	if box.Max.X-box.Min.X <= 0 {
		t.Errorf("Expected padded X extent, got %v", box)
	}
	if math.Abs(box.Max.Y-2) > 1e-9 || math.Abs(box.Max.Z-3) > 1e-9 {
		t.Errorf("Unexpected extents %v", box)
	}
}
