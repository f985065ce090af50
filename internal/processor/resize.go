package processor

import (
	"image"

	"github.com/nfnt/resize"
)

const (
	MinRescale = 10
	MaxRescale = 500
)

// ScaledSize applies a rescale percent to one dimension, never below 1px.
func ScaledSize(dim, percent int) int {
	n := dim * percent / 100
	if n < 1 {
		return 1
	}
	return n
}

// Resize scales img by percent with Lanczos3 resampling. 100 returns img
// itself so lossless outputs stay pixel identical.
func Resize(img image.Image, percent int) (image.Image, error) {
	if percent < MinRescale || percent > MaxRescale {
		return nil, ErrRescaleRange
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}
	if percent == 100 {
		return img, nil
	}

	width := ScaledSize(b.Dx(), percent)
	height := ScaledSize(b.Dy(), percent)
	return resize.Resize(uint(width), uint(height), img, resize.Lanczos3), nil
}
