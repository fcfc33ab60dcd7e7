package lights

import (
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// DistributePhotons splits a total photon budget between lights in
// proportion to their power. The floors are handed out first and the
// remainder goes round-robin from the first light, so the result always sums
// to total. When no light has any power the budget is split evenly.
func DistributePhotons(lights []PointLight, total int) []int {
	budgets := make([]int, len(lights))
	if len(lights) == 0 || total <= 0 {
		return budgets
	}

	sum := 0.0
	for _, light := range lights {
		sum += math.Max(0, light.Power())
	}

	assigned := 0
	if sum > 0 {
		for i, light := range lights {
			budgets[i] = int(float64(total) * math.Max(0, light.Power()) / sum)
			assigned += budgets[i]
		}
	}

	for i := 0; assigned < total; i = (i + 1) % len(lights) {
		budgets[i]++
		assigned++
	}

	return budgets
}

// CastShadowRays evaluates direct lighting from every point light at a
// diffuse surface with reflectance kd. Each light is visited exactly once and
// contributes I/d² · kd/π · cos θ when nothing lies between it and the point.
// normal must face the side the point is viewed from; lights behind the
// surface contribute nothing.
func CastShadowRays(occluder Occluder, lights []PointLight, point, normal, kd core.Vec3) core.Vec3 {
	var total core.Vec3
	brdf := kd.Multiply(1 / math.Pi)

	for _, light := range lights {
		sample := light.Sample(point)
		if sample.Distance <= core.RayEpsilon {
			continue
		}

		cosTheta := normal.Dot(sample.Direction)
		if cosTheta <= 0 {
			continue
		}

		shadowRay := core.NewOffsetRay(point, sample.Direction)
		if occluder.Occluded(shadowRay, 0, sample.Distance-2*core.RayEpsilon) {
			continue
		}

		irradiance := sample.Intensity.Multiply(cosTheta / (sample.Distance * sample.Distance))
		total = total.Add(irradiance.MultiplyVec(brdf))
	}

	return total
}
