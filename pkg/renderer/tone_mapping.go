package renderer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// ToneMapper maps the value channel (largest RGB component) of a pixel of
// img onto [0, 1]
type ToneMapper interface {
	Map(img *Image, v float64) float64
}

// Clamping cuts every value above 1
type Clamping struct{}

func (Clamping) Map(_ *Image, v float64) float64 { return math.Min(v, 1) }

// Equalization divides by the image luminance
type Equalization struct{}

func (Equalization) Map(img *Image, v float64) float64 { return v / img.MaxLuminance }

// EqualizationClamping treats Limit as white
type EqualizationClamping struct{ Limit float64 }

func (t EqualizationClamping) Map(_ *Image, v float64) float64 {
	return math.Min(v, t.Limit) / t.Limit
}

// Gamma equalizes and then raises to Gamma
type Gamma struct{ Gamma float64 }

func (t Gamma) Map(img *Image, v float64) float64 {
	return math.Pow(v/img.MaxLuminance, t.Gamma)
}

// GammaClamping treats Limit as white and then raises to Gamma
type GammaClamping struct{ Limit, Gamma float64 }

func (t GammaClamping) Map(_ *Image, v float64) float64 {
	return math.Pow(math.Min(v, t.Limit)/t.Limit, t.Gamma)
}

// ParseToneMapper reads "name[:p1[:p2]]". Names and aliases are clamping (cl),
// equalization (eq), equalization_clamping:TOP (eq_cl), gamma:G (gm) and
// gamma_clamping:TOP:G (gm_cl). An empty string means equalization.
func ParseToneMapper(s string) (ToneMapper, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	params := make([]float64, 0, len(parts)-1)
	for _, p := range parts[1:] {
		f, err := strconv.ParseFloat(p, 64)
		if err != nil || !(f > 0) {
			return nil, fmt.Errorf("%w: tone mapping parameter %q must be a positive number", core.ErrInvalidConfig, p)
		}
		params = append(params, f)
	}

	need := func(n int) error {
		if len(params) != n {
			return fmt.Errorf("%w: tone mapping %q takes %d parameter(s), got %d", core.ErrInvalidConfig, parts[0], n, len(params))
		}
		return nil
	}

	switch strings.ToLower(parts[0]) {
	case "clamping", "cl":
		if err := need(0); err != nil {
			return nil, err
		}
		return Clamping{}, nil
	case "equalization", "eq", "":
		if err := need(0); err != nil {
			return nil, err
		}
		return Equalization{}, nil
	case "equalization_clamping", "eq_cl":
		if err := need(1); err != nil {
			return nil, err
		}
		return EqualizationClamping{Limit: params[0]}, nil
	case "gamma", "gm":
		if err := need(1); err != nil {
			return nil, err
		}
		return Gamma{Gamma: params[0]}, nil
	case "gamma_clamping", "gm_cl":
		if err := need(2); err != nil {
			return nil, err
		}
		return GammaClamping{Limit: params[0], Gamma: params[1]}, nil
	}
	return nil, fmt.Errorf("%w: unknown tone mapping %q", core.ErrInvalidConfig, parts[0])
}

// ToneMap rescales every pixel so that its largest channel becomes tm's
// value, which preserves hue and saturation. Afterwards the image luminance is 1.
func (img *Image) ToneMap(tm ToneMapper) {
	for k := range img.Blue {
		v := max(img.Red[k], img.Green[k], img.Blue[k])
		if v <= 0 {
			img.Red[k], img.Green[k], img.Blue[k] = 0, 0, 0
			continue
		}
		scale := tm.Map(img, v) / v
		img.Red[k] *= scale
		img.Green[k] *= scale
		img.Blue[k] *= scale
	}
	img.MaxLuminance = 1
}
