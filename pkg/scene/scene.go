package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/geometry"
	"github.com/df07/go-photon-renderer/pkg/lights"
	"github.com/df07/go-photon-renderer/pkg/material"
)

// ErrMalformedScene is returned when a scene cannot be rendered as described
var ErrMalformedScene = errors.New("malformed scene")

// CameraConfig places a pinhole camera. The length of Front is the focal
// distance and the length of Up is the half-height of the image plane.
type CameraConfig struct {
	Focus core.Vec3 `yaml:"focus"`
	Front core.Vec3 `yaml:"front"`
	Up    core.Vec3 `yaml:"up"`
}

// Object pairs a shape with the material it is made of. Several objects may
// share one material.
type Object struct {
	Name     string
	Shape    geometry.Shape
	Material *material.Material
}

// Scene contains all the elements needed for rendering. It is read-only once
// Preprocess has returned and is shared by every render worker.
type Scene struct {
	Name         string
	Camera       CameraConfig
	Objects      []*Object
	Lights       []lights.PointLight
	PhotonRadius float64 // Preferred photon gather radius; zero means no preference

	bvh *geometry.BVH
}

// Intersection is the closest surface hit along a ray
type Intersection struct {
	geometry.HitRecord
	Object *Object
}

// NewScene creates an empty scene
func NewScene(name string, camera CameraConfig) *Scene {
	return &Scene{Name: name, Camera: camera}
}

// Add appends an object and returns it
func (s *Scene) Add(name string, shape geometry.Shape, mat *material.Material) *Object {
	obj := &Object{Name: name, Shape: shape, Material: mat}
	s.Objects = append(s.Objects, obj)
	return obj
}

// AddLight appends a point light
func (s *Scene) AddLight(position, color core.Vec3) {
	s.Lights = append(s.Lights, lights.NewPointLight(position, color))
}

// Preprocess validates the scene and builds its acceleration structure
func (s *Scene) Preprocess() error {
	if len(s.Objects) == 0 {
		return fmt.Errorf("%w: scene %q has no objects", ErrMalformedScene, s.Name)
	}

	shapes := make([]geometry.Shape, len(s.Objects))
	for i, obj := range s.Objects {
		if obj.Shape == nil || obj.Material == nil {
			return fmt.Errorf("%w: object %d (%s) needs both a shape and a material", ErrMalformedScene, i, obj.Name)
		}
		if !obj.Material.Kt.IsZero() && obj.Material.RefractiveIndex <= 0 {
			return fmt.Errorf("%w: object %d (%s) is transmissive but has refractive index %g",
				ErrMalformedScene, i, obj.Name, obj.Material.RefractiveIndex)
		}
		shapes[i] = obj.Shape
	}

	if s.Camera.Front.IsZero() || s.Camera.Up.IsZero() {
		return fmt.Errorf("%w: camera needs non-zero front and up vectors", ErrMalformedScene)
	}

	s.bvh = geometry.NewBVH(shapes)
	return nil
}

// Hit finds the nearest object along the ray
func (s *Scene) Hit(ray core.Ray) (Intersection, bool) {
	if s.bvh != nil {
		hit, idx, ok := s.bvh.Hit(ray, 0, math.Inf(1))
		if !ok {
			return Intersection{}, false
		}
		return Intersection{HitRecord: *hit, Object: s.Objects[idx]}, true
	}

	// Linear fallback for scenes that were never preprocessed
	var closest Intersection
	found := false
	tMax := math.Inf(1)
	for _, obj := range s.Objects {
		if hit, ok := obj.Shape.Hit(ray, 0, tMax); ok {
			closest = Intersection{HitRecord: *hit, Object: obj}
			tMax = hit.T
			found = true
		}
	}
	return closest, found
}

// Occluded reports whether any object lies on the ray strictly inside (tMin, tMax)
func (s *Scene) Occluded(ray core.Ray, tMin, tMax float64) bool {
	if s.bvh != nil {
		return s.bvh.Occluded(ray, tMin, tMax)
	}
	for _, obj := range s.Objects {
		if _, ok := obj.Shape.Hit(ray, tMin, tMax); ok {
			return true
		}
	}
	return false
}

// GetPrimitiveCount returns the number of objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	return len(s.Objects)
}
