package scene

import (
	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/geometry"
	"github.com/df07/go-photon-renderer/pkg/material"
)

// NewSphereBoxScene creates a red diffuse unit sphere inside an axis-aligned
// white box lit by one point light. The side facing the camera is open so
// rays that leave through the opening see nothing.
func NewSphereBoxScene() *Scene {
	s := NewScene("sphere-box", CameraConfig{
		Focus: core.NewVec3(0, 0, -7),
		Front: core.NewVec3(0, 0, 2.5),
		Up:    core.NewVec3(0, 1, 0),
	})

	walls := material.Diffuse(core.NewVec3(0.8, 0.8, 0.8))
	box := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(2, 2, 2))
	faces := box.Faces()
	s.Add("back wall", faces[geometry.BoxFront], walls)
	s.Add("left wall", faces[geometry.BoxLeft], walls)
	s.Add("right wall", faces[geometry.BoxRight], walls)
	s.Add("ceiling", faces[geometry.BoxTop], walls)
	s.Add("floor", faces[geometry.BoxBottom], walls)

	s.Add("sphere", geometry.NewSphere(core.NewVec3(0, -1, 0.5), 1), material.Diffuse(core.NewVec3(0.8, 0.1, 0.1)))

	s.AddLight(core.NewVec3(0, 1.5, -0.5), core.NewVec3(3, 3, 3))
	return s
}
