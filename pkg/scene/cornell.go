package scene

import (
	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/geometry"
	"github.com/df07/go-photon-renderer/pkg/material"
)

// NewCornellScene creates a Cornell box out of infinite planes with a mirror
// sphere and a glass sphere under a single point light
func NewCornellScene() *Scene {
	s := NewScene("cornell", CameraConfig{
		Focus: core.NewVec3(0, 0, -3.5),
		Front: core.NewVec3(0, 0, 3),
		Up:    core.NewVec3(0, 1, 0),
	})
	s.PhotonRadius = 0.05

	whiteWall := material.Diffuse(white)

	// Every plane normal points into the box
	s.Add("floor", geometry.NewPlane(core.NewVec3(0, -1, 0), core.NewVec3(0, 1, 0)), whiteWall)
	s.Add("ceiling", geometry.NewPlane(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), whiteWall)
	s.Add("back wall", geometry.NewPlane(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), whiteWall)
	s.Add("left wall", geometry.NewPlane(core.NewVec3(-1, 0, 0), core.NewVec3(1, 0, 0)), material.Diffuse(red))
	s.Add("right wall", geometry.NewPlane(core.NewVec3(1, 0, 0), core.NewVec3(-1, 0, 0)), material.Diffuse(green))

	mirror := material.Add(material.Specular(core.NewVec3(0.85, 0.85, 0.85)), material.Diffuse(core.NewVec3(0.05, 0.05, 0.05)))
	s.Add("mirror sphere", geometry.NewSphere(core.NewVec3(-0.45, -0.65, 0.4), 0.35), mirror)
	s.Add("glass sphere", geometry.NewSphere(core.NewVec3(0.45, -0.65, -0.1), 0.35), material.Refractive(glass, 1.5))

	s.AddLight(core.NewVec3(0, 0.8, 0), core.NewVec3(1, 1, 1))
	return s
}
