package scene

import (
	"golang.org/x/image/colornames"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// Named reflectances shared by the built-in scenes. Palette colors are scaled
// down so that no surface reflects all incident light.
var (
	white = core.ColorFromRGBA(colornames.White).Multiply(0.75)
	red   = core.ColorFromRGBA(colornames.Firebrick).Multiply(0.9)
	green = core.ColorFromRGBA(colornames.Forestgreen).Multiply(0.9)
	blue  = core.ColorFromRGBA(colornames.Steelblue).Multiply(0.9)
	gold  = core.ColorFromRGBA(colornames.Goldenrod).Multiply(0.8)
	glass = core.ColorFromRGBA(colornames.White).Multiply(0.9)
	warm  = core.ColorFromRGBA(colornames.Wheat)
)
