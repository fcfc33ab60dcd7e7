package loaders

import (
	"image"

	"github.com/nfnt/resize"

	"github.com/df07/go-photon-renderer/pkg/renderer"
)

// Thumbnail scales img down to fit in maxSize×maxSize, keeping the aspect
// ratio. Images that already fit are only converted.
func Thumbnail(img *renderer.Image, maxSize uint) image.Image {
	return resize.Thumbnail(maxSize, maxSize, img.ToRGBA(), resize.Lanczos3)
}
