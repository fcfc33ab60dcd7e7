package loaders

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-photon-renderer/pkg/core"
	"github.com/df07/go-photon-renderer/pkg/renderer"
)

func testImage() *renderer.Image {
	img := renderer.NewImage(2, 2)
	img.Set(0, 0, core.NewVec3(1, 1, 1))
	img.Set(0, 1, core.NewVec3(1, 0, 0))
	img.Set(1, 0, core.NewVec3(0, 1, 0))
	img.Set(1, 1, core.NewVec3(0, 0, 1))
	return img
}

func TestFormats(t *testing.T) {
	for path, want := range map[string]Format{"out.ppm": FormatPPM, "a/b.BMP": FormatBMP, "x.png": FormatPNG} {
		got, err := FormatFromPath(path)
		if err != nil || got != want {
			t.Errorf("FormatFromPath(%q) = %v, %v; want %v", path, got, err, want)
		}
	}
	if _, err := FormatFromPath("image.tiff"); err == nil {
		t.Error("Expected error for an unsupported extension")
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for _, format := range []Format{FormatPPM, FormatBMP, FormatPNG} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, testImage(), format); err != nil {
				t.Fatalf("Encode failed: %v", err)
			}

			back, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if back.Width != 2 || back.Height != 2 {
				t.Fatalf("Expected 2x2, got %dx%d", back.Width, back.Height)
			}
			want := testImage()
			for i := 0; i < 2; i++ {
				for j := 0; j < 2; j++ {
					if d := back.At(i, j).Subtract(want.At(i, j)).Length(); d > 1e-6 {
						t.Errorf("Pixel (%d,%d) = %v, want %v", i, j, back.At(i, j), want.At(i, j))
					}
				}
			}
		})
	}
}

// TestLoadImage creates a test PNG and verifies loading
func TestLoadImage(t *testing.T) {
	testFile := filepath.Join(t.TempDir(), "test.png")

	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{R: 255, G: 0, B: 0, A: 255})
	img.Set(1, 0, color.RGBA{R: 0, G: 0, B: 255, A: 255})

	f, err := os.Create(testFile)
	if err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	f.Close()

	loaded, err := LoadImage(testFile)
	if err != nil {
		t.Fatalf("LoadImage failed: %v", err)
	}
	if loaded.At(0, 0) != core.NewVec3(1, 0, 0) || loaded.At(0, 1) != core.NewVec3(0, 0, 1) {
		t.Errorf("Unexpected pixels %v %v", loaded.At(0, 0), loaded.At(0, 1))
	}

	if _, err := LoadImage(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("Expected error for a missing file")
	}
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.ppm", "out.bmp", "out.png"} {
		path := filepath.Join(dir, name)
		if err := SaveImage(path, testImage(), ""); err != nil {
			t.Fatalf("SaveImage(%s) failed: %v", name, err)
		}
		if _, err := LoadImage(path); err != nil {
			t.Errorf("Saved %s could not be loaded: %v", name, err)
		}
	}
	if err := SaveImage(filepath.Join(dir, "out.gif"), testImage(), ""); err == nil {
		t.Error("Expected error for an unsupported format")
	}
}

func TestThumbnail(t *testing.T) {
	img := renderer.NewImage(200, 100)
	thumb := Thumbnail(img, 50)
	if b := thumb.Bounds(); b.Dx() != 50 || b.Dy() != 25 {
		t.Errorf("Expected a 50x25 thumbnail, got %v", b)
	}

	small := Thumbnail(testImage(), 50)
	if b := small.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("Small images should keep their size, got %v", b)
	}
}
