package renderer

import (
	"image"
	"image/color"
	"math"

	"github.com/df07/go-photon-renderer/pkg/core"
)

// DefaultResolution is the number of quantization steps of 8-bit output
const DefaultResolution = 255

// Image is a high dynamic range raster stored as separate red, green and blue
// planes in row-major order. Each pixel is written by exactly one render
// worker, so Set needs no lock.
type Image struct {
	Width, Height int
	Red           []float64
	Green         []float64
	Blue          []float64

	Resolution   int     // Quantization steps used by integer codecs
	MaxLuminance float64 // Channel value that maps to Resolution
	Partial      bool    // Set when the render stopped before every pixel was written
}

// NewImage creates a black image with 8-bit resolution and unit luminance
func NewImage(width, height int) *Image {
	n := max(0, width) * max(0, height)
	return &Image{
		Width:        width,
		Height:       height,
		Red:          make([]float64, n),
		Green:        make([]float64, n),
		Blue:         make([]float64, n),
		Resolution:   DefaultResolution,
		MaxLuminance: 1,
	}
}

// Pixels returns the number of pixels
func (img *Image) Pixels() int {
	return len(img.Blue)
}

// At returns the pixel at row i, column j
func (img *Image) At(i, j int) core.Vec3 {
	k := i*img.Width + j
	return core.NewVec3(img.Red[k], img.Green[k], img.Blue[k])
}

// Set writes the pixel at row i, column j
func (img *Image) Set(i, j int, c core.Vec3) {
	k := i*img.Width + j
	img.Red[k], img.Green[k], img.Blue[k] = c.X, c.Y, c.Z
}

// UpdateLuminance sets MaxLuminance to the largest channel value in the
// image. A black image keeps a luminance of 1.
func (img *Image) UpdateLuminance() {
	peak := 0.0
	for k := range img.Blue {
		peak = max(peak, img.Red[k], img.Green[k], img.Blue[k])
	}
	if peak <= 0 || math.IsInf(peak, 1) || math.IsNaN(peak) {
		peak = 1
	}
	img.MaxLuminance = peak
}

// Quantize maps a channel value onto [0, Resolution] using MaxLuminance
func (img *Image) Quantize(v float64) int {
	if !(v > 0) {
		return 0
	}
	q := math.Round(v * float64(img.Resolution) / img.MaxLuminance)
	return int(min(q, float64(img.Resolution)))
}

// ToRGBA converts the image to 8 bits per channel, MaxLuminance mapping to white
func (img *Image) ToRGBA() *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, img.Width, img.Height))
	scale := 255 / img.MaxLuminance
	for i := 0; i < img.Height; i++ {
		for j := 0; j < img.Width; j++ {
			c := img.At(i, j).Multiply(scale).Clamp(0, 255)
			out.SetRGBA(j, i, color.RGBA{
				R: uint8(math.Round(c.X)),
				G: uint8(math.Round(c.Y)),
				B: uint8(math.Round(c.Z)),
				A: 255,
			})
		}
	}
	return out
}

// FromImage converts a decoded image into linear values in [0, 1]
func FromImage(src image.Image) *Image {
	b := src.Bounds()
	img := NewImage(b.Dx(), b.Dy())
	for i := 0; i < img.Height; i++ {
		for j := 0; j < img.Width; j++ {
			r, g, bl, _ := src.At(b.Min.X+j, b.Min.Y+i).RGBA()
			img.Set(i, j, core.NewVec3(float64(r)/0xffff, float64(g)/0xffff, float64(bl)/0xffff))
		}
	}
	return img
}
