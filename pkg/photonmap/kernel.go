package photonmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/scene"
)

// Kernel weights photons by their distance from the gather point. Every
// kernel is normalized to average 1 over the gather disc, so the estimate
// stays Σ Φ·w / (π r²) whichever kernel is chosen.
type Kernel int

const (
	BoxKernel Kernel = iota
	ConeKernel
	GaussianKernel
)

// Gaussian filter constants from Jensen's photon mapping
const (
	gaussianAlpha = 0.918
	gaussianBeta  = 1.953
)

// gaussianNorm rescales the gaussian filter to unit mean over the disc
var gaussianNorm = func() float64 {
	eb := math.Exp(-gaussianBeta)
	mean := 1 - (1-(2/gaussianBeta)*(1-math.Exp(-gaussianBeta/2)))/(1-eb)
	return 1 / (gaussianAlpha * mean)
}()

// ParseKernel accepts "box", "cone" or "gaussian"
func ParseKernel(name string) (Kernel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "box", "uniform", "":
		return BoxKernel, nil
	case "cone", "linear":
		return ConeKernel, nil
	case "gaussian", "gauss":
		return GaussianKernel, nil
	}
	return BoxKernel, fmt.Errorf("unknown density kernel %q (want box, cone or gaussian)", name)
}

func (k Kernel) String() string {
	switch k {
	case ConeKernel:
		return "cone"
	case GaussianKernel:
		return "gaussian"
	default:
		return "box"
	}
}

// Weight returns the kernel value for a photon at squared distance distSq
func (k Kernel) Weight(distSq, radius float64) float64 {
	switch k {
	case ConeKernel:
		// (r - d)/r integrates to a third of the disc area
		return 3 * math.Max(0, 1-math.Sqrt(distSq)/radius)
	case GaussianKernel:
		s := distSq / (radius * radius)
		w := gaussianAlpha * (1 - (1-math.Exp(-gaussianBeta*s/2))/(1-math.Exp(-gaussianBeta)))
		return w * gaussianNorm
	default:
		return 1
	}
}

// Estimate is the flux density gathered around a point
type Estimate struct {
	Irradiance core.Vec3 // Σ Φ·w / (π r²)
	Count      int       // Photons that contributed
}

// Gather estimates the incident flux density at point from up to k photons
// within radius. When surface is non-nil only photons that landed on it count.
func (t *KDTree) Gather(point core.Vec3, k int, radius float64, kernel Kernel, surface *scene.Object) Estimate {
	var sum core.Vec3
	count := 0

	for _, n := range t.Nearest(point, k, radius) {
		if surface != nil && n.Photon.Surface != surface {
			continue
		}
		sum = sum.Add(n.Photon.Flux.Multiply(kernel.Weight(n.DistanceSquared, radius)))
		count++
	}

	return Estimate{
		Irradiance: sum.Multiply(1 / (math.Pi * radius * radius)),
		Count:      count,
	}
}
