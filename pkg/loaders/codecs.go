package loaders

import (
	"bufio"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/df07/go-photon-renderer/pkg/renderer"
)

// Format is an output image format
type Format string

const (
	FormatPPM Format = "ppm"
	FormatBMP Format = "bmp"
	FormatPNG Format = "png"
)

// ParseFormat accepts ppm, bmp or png
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimPrefix(name, "."))); f {
	case FormatPPM, FormatBMP, FormatPNG:
		return f, nil
	}
	return "", fmt.Errorf("unsupported image format %q (want ppm, bmp or png)", name)
}

// FormatFromPath deduces the format from a file extension
func FormatFromPath(path string) (Format, error) {
	return ParseFormat(filepath.Ext(path))
}

// Encode writes img to w in format. BMP and PNG are 8-bit and map the image
// luminance to white.
func Encode(w io.Writer, img *renderer.Image, format Format) error {
	switch format {
	case FormatPPM:
		return WritePPM(w, img)
	case FormatBMP:
		return bmp.Encode(w, img.ToRGBA())
	case FormatPNG:
		return png.Encode(w, img.ToRGBA())
	}
	return fmt.Errorf("unsupported image format %q", format)
}

// SaveImage writes img to path; an empty format is deduced from the extension
func SaveImage(path string, img *renderer.Image, format Format) error {
	if format == "" {
		var err error
		if format, err = FormatFromPath(path); err != nil {
			return err
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	if err := Encode(f, img, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s image: %w", format, err)
	}
	return f.Close()
}

// Decode reads a PPM, PNG, JPEG or BMP image
func Decode(r io.Reader) (*renderer.Image, error) {
	br := bufioReader(r)
	if magic, err := br.Peek(2); err == nil && string(magic) == "P3" {
		return ReadPPM(br)
	}

	src, _, err := image.Decode(br)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return renderer.FromImage(src), nil
}

// LoadImage loads an image file into linear color planes
func LoadImage(filename string) (*renderer.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	return Decode(file)
}

func bufioReader(r io.Reader) *bufio.Reader {
	if br, ok := r.(*bufio.Reader); ok {
		return br
	}
	return bufio.NewReader(r)
}
