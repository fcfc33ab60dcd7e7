package scene

import (
	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/geometry"
	"github.com/df07/go-photon-renderer/pkg/material"
)

// NewCausticScene creates a glass sphere resting above a diffuse floor. The
// light is focused through the sphere onto the floor, which path tracing with
// point lights cannot reach but photon mapping can.
func NewCausticScene() *Scene {
	s := NewScene("caustic", CameraConfig{
		Focus: core.NewVec3(0, 1.2, -4),
		Front: core.NewVec3(0, -0.6, 2.5),
		Up:    core.NewVec3(0, 1, 0.24),
	})
	s.PhotonRadius = 0.03

	s.Add("floor", geometry.NewQuad(core.NewVec3(-3, -1, -3), core.NewVec3(6, 0, 0), core.NewVec3(0, 0, 6)), material.Diffuse(warm.Multiply(0.7)))
	s.Add("back wall", geometry.NewQuad(core.NewVec3(-3, -1, 3), core.NewVec3(0, 4, 0), core.NewVec3(6, 0, 0)), material.Diffuse(blue))
	s.Add("lens", geometry.NewSphere(core.NewVec3(0, 0, 0), 0.6), material.Refractive(glass, 1.5))
	s.Add("pedestal", geometry.NewDisc(core.NewVec3(1.4, -0.99, 0.8), core.NewVec3(0, 1, 0), 0.5), material.Diffuse(gold))

	s.AddLight(core.NewVec3(0, 2.5, 0), core.NewVec3(6, 6, 6))
	return s
}
