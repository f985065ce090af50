package processor

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"recast/internal/format"
)

// ModeOf classifies a decoded image the way the capability table needs it.
// Truecolor PNGs without an alpha channel decode to *image.RGBA and are
// reported as RGB once their pixels are confirmed opaque.
func ModeOf(img image.Image) Mode {
	switch m := img.(type) {
	case *image.Paletted:
		return ModePalette
	case *image.Gray, *image.Gray16:
		return ModeGray
	case *image.YCbCr, *image.CMYK:
		return ModeRGB
	case *image.RGBA:
		if m.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	case *image.RGBA64:
		if m.Opaque() {
			return ModeRGB
		}
		return ModeRGBA
	default:
		return ModeRGBA
	}
}

// Normalize adapts img to what the target color class can encode.
// Alpha-capable targets get img back untouched.
func Normalize(img image.Image, class format.ColorClass, background color.RGBA) (image.Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmptyImage
	}
	if class == format.AlphaCapable {
		return img, nil
	}

	switch ModeOf(img) {
	case ModeRGB:
		return img, nil
	case ModeGray:
		return toRGB(img), nil
	case ModePalette:
		// Expand first so partially transparent palette entries blend
		// instead of showing the transparency key.
		return flatten(imaging.Clone(img), background), nil
	default:
		return flatten(img, background), nil
	}
}

// flatten composites img over a solid background, using img's own alpha
// as the mask. The result is fully opaque.
func flatten(img image.Image, background color.RGBA) *image.RGBA {
	b := img.Bounds()
	background.A = 0xff
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: background}, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Over)
	return canvas
}

func toRGB(img image.Image) *image.RGBA {
	b := img.Bounds()
	canvas := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(canvas, canvas.Bounds(), img, b.Min, draw.Src)
	return canvas
}

// toNRGBA forces an alpha channel, fully opaque where the source had none.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Bounds().Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
