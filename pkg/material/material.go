package material

import "github.com/df07/go-photon-renderer/pkg/core"

// Material describes how a surface responds to light. Kd, Ks and Kt are the
// diffuse, specular and transmissive fractions of incident light. A material
// is plain data, read-only during a render, and may be shared by any number
// of objects.
type Material struct {
	Kd              core.Vec3 // Diffuse reflectance
	Ks              core.Vec3 // Perfect mirror reflectance
	Kt              core.Vec3 // Transmittance
	RefractiveIndex float64   // Index of refraction relative to the outside medium
	Emits           bool      // Whether the surface is a light emitter
	Emission        core.Vec3 // Emitted radiance when Emits is set
}

// Diffuse creates a lambertian material with reflectance kd
func Diffuse(kd core.Vec3) *Material {
	return &Material{Kd: kd}
}

// Specular creates a perfect mirror with reflectance ks
func Specular(ks core.Vec3) *Material {
	return &Material{Ks: ks}
}

// Refractive creates a transparent material with transmittance kt and index of refraction index
func Refractive(kt core.Vec3, index float64) *Material {
	return &Material{Kt: kt, RefractiveIndex: index}
}

// Emitter creates a material that emits ke and is not shaded
func Emitter(ke core.Vec3) *Material {
	return &Material{Emits: true, Emission: ke}
}

// Add combines two materials component-wise, e.g. a diffuse base with a
// specular coat. The refractive index of whichever side has transmission wins.
func Add(a, b *Material) *Material {
	index := a.RefractiveIndex
	if b.RefractiveIndex != 0 && (index == 0 || !b.Kt.IsZero()) {
		index = b.RefractiveIndex
	}

	return &Material{
		Kd:              a.Kd.Add(b.Kd),
		Ks:              a.Ks.Add(b.Ks),
		Kt:              a.Kt.Add(b.Kt),
		RefractiveIndex: index,
		Emits:           a.Emits || b.Emits,
		Emission:        a.Emission.Add(b.Emission),
	}
}

// Emitted returns the emission of the material and whether it emits at all
func (m *Material) Emitted() (core.Vec3, bool) {
	return m.Emission, m.Emits
}
