package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-photon-renderer/pkg/core"
)

func TestPlane_Hit(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 2, 0))

	tests := []struct {
		name          string
		ray           core.Ray
		expectHit     bool
		expectedT     float64
		expectedFront bool
	}{
		{"from above", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), true, 2, true},
		{"from below", core.NewRay(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0)), true, 2, false},
		{"parallel", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0)), false, 0, false},
		{"pointing away", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), false, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Hit(tt.ray, 0.001, 1000)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%v, got %v", tt.expectHit, isHit)
			}
			if !isHit {
				return
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %v, got %v", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Dot(tt.ray.Direction) >= 0 {
				t.Errorf("Normal %v should face against the ray", hit.Normal)
			}
		})
	}
}

func TestGetAxisAlignment(t *testing.T) {
	tests := []struct {
		name     string
		normal   core.Vec3
		expected AxisAlignment
	}{
		{"X-axis aligned", core.NewVec3(1, 0, 0), XAxisAligned},
		{"Y-axis aligned", core.NewVec3(0, 1, 0), YAxisAligned},
		{"Z-axis aligned", core.NewVec3(0, 0, 1), ZAxisAligned},
		{"Negative X-axis aligned", core.NewVec3(-1, 0, 0), XAxisAligned},
		{"Not axis aligned", core.NewVec3(0.707, 0.707, 0), NotAxisAligned},
		{"Nearly axis aligned but not quite", core.NewVec3(0.999, 0.001, 0), NotAxisAligned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := getAxisAlignment(tt.normal); result != tt.expected {
				t.Errorf("getAxisAlignment(%v) = %v, want %v", tt.normal, result, tt.expected)
			}
		})
	}
}

func TestPlane_BoundingBox_AxisAligned(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 2, 0), core.NewVec3(0, 1, 0))
	box := plane.BoundingBox()

	if box.Min.Y > 2 || box.Max.Y < 2 || box.Max.Y-box.Min.Y > 0.01 {
		t.Errorf("Expected thin slab around y=2, got %v", box)
	}
	if box.Max.X < 1e5 || box.Min.Z > -1e5 {
		t.Errorf("Expected wide extent along X and Z, got %v", box)
	}
}
