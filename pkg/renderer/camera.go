package renderer

import (
	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// Camera generates primary rays for a pinhole camera at Focus looking along
// Front. The image plane spans ±Up vertically and keeps the pixel aspect
// ratio horizontally. A camera owns its jitter random source, so each render
// worker needs its own Clone.
type Camera struct {
	focus  core.Vec3
	front  core.Vec3
	up     core.Vec3
	left   core.Vec3
	width  int
	height int

	// Jitter moves each ray to a random position inside its pixel; when off,
	// rays go through pixel centers
	Jitter  bool
	sampler core.Sampler
}

// NewCamera creates a camera for a width×height image with jittered rays
func NewCamera(cfg scene.CameraConfig, width, height int, seed int64) *Camera {
	aspect := float64(width) / float64(height)
	left := cfg.Up.Cross(cfg.Front).Normalize().Multiply(cfg.Up.Length() * aspect)

	return &Camera{
		focus:   cfg.Focus,
		front:   cfg.Front,
		up:      cfg.Up,
		left:    left,
		width:   width,
		height:  height,
		Jitter:  true,
		sampler: core.NewSeededSampler(seed),
	}
}

// Clone returns a copy of the camera with its own random source
func (c *Camera) Clone(seed int64) *Camera {
	clone := *c
	clone.sampler = core.NewSeededSampler(seed)
	return &clone
}

// GetRay returns a unit-direction ray through the pixel at row i, column j
func (c *Camera) GetRay(i, j int) core.Ray {
	u, v := 0.5, 0.5
	if c.Jitter {
		s := c.sampler.Get2D()
		u, v = s.X, s.Y
	}

	x := 1 - (float64(j)+u)*2/float64(c.width)
	y := 1 - (float64(i)+v)*2/float64(c.height)

	dir := c.left.Multiply(x).Add(c.up.Multiply(y)).Add(c.front).Normalize()
	return core.NewRay(c.focus, dir)
}
