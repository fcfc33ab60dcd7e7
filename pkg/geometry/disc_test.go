package geometry

import (
	"testing"

	"github.com/df07/go-photon-renderer/pkg/core"
)

func TestDisc_Hit(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1.0)

	tests := []struct {
		name      string
		origin    core.Vec3
		expectHit bool
	}{
		{"center", core.NewVec3(0, 1, 0), true},
		{"inside rim", core.NewVec3(0.7, 1, 0.7), true},
		{"outside rim", core.NewVec3(0.8, 1, 0.8), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.origin, core.NewVec3(0, -1, 0))
			if _, isHit := disc.Hit(ray, 0.001, 100); isHit != tt.expectHit {
				t.Errorf("Expected hit=%v, got %v", tt.expectHit, isHit)
			}
		})
	}
}

func TestDisc_ZeroRadius(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 0)
	ray := core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0))

	if _, isHit := disc.Hit(ray, 0.001, 100); isHit {
		t.Error("Zero-radius disc should never be hit")
	}
}

func TestDisc_Basis(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0), 2)

	if d := disc.Right.Dot(disc.Normal); d > 1e-9 || d < -1e-9 {
		t.Errorf("Right not perpendicular to normal: %f", d)
	}
	if d := disc.Up.Dot(disc.Normal); d > 1e-9 || d < -1e-9 {
		t.Errorf("Up not perpendicular to normal: %f", d)
	}
}
