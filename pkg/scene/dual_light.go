package scene

import (
	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/geometry"
	"github.com/df07/go-photon-renderer/pkg/material"
)

// NewDualLightScene creates diffuse spheres on a floor lit by two lights of
// very different power, which exercises the per-light photon budget split
func NewDualLightScene() *Scene {
	s := NewScene("dual-light", CameraConfig{
		Focus: core.NewVec3(0, 0.5, -5),
		Front: core.NewVec3(0, -0.1, 2.5),
		Up:    core.NewVec3(0, 1, 0.04),
	})
	s.PhotonRadius = 0.08

	s.Add("floor", geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)), material.Diffuse(white))
	s.Add("backdrop", geometry.NewTriangle(
		core.NewVec3(-4, -1, 3),
		core.NewVec3(0, 4, 3),
		core.NewVec3(4, -1, 3),
	), material.Diffuse(core.NewVec3(0.6, 0.6, 0.6)))

	s.Add("left sphere", geometry.NewSphere(core.NewVec3(-1.2, -0.4, 0.5), 0.6), material.Diffuse(red))
	s.Add("center sphere", geometry.NewSphere(core.NewVec3(0, -0.5, 1.2), 0.5),
		material.Add(material.Diffuse(gold.Multiply(0.6)), material.Specular(core.NewVec3(0.3, 0.3, 0.3))))
	s.Add("right sphere", geometry.NewSphere(core.NewVec3(1.2, -0.4, 0.5), 0.6), material.Diffuse(green))

	s.AddLight(core.NewVec3(-2, 2, -1), core.NewVec3(8, 7, 6))
	s.AddLight(core.NewVec3(2, 1.5, -0.5), core.NewVec3(0.5, 0.6, 1))
	return s
}
