// Package photonmap stores photons traced from the lights of a scene and
// answers density queries over them.
package photonmap

import (
	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// Photon is a packet of light recorded where it met a diffuse surface
type Photon struct {
	Position core.Vec3
	Flux     core.Vec3 // Power carried, already normalized by the emitted path count
	Latitude float64   // Incident direction (toward where the photon came from)
	Azimuth  float64
	Surface  *scene.Object // Object the photon landed on
	Depth    int           // Number of bounces before it was stored; 0 for direct hits
}

// IncidentDirection decodes the unit direction the photon arrived from
func (p *Photon) IncidentDirection() core.Vec3 {
	return core.DecodeDirection(p.Latitude, p.Azimuth)
}
