package processor

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/chai2010/webp"
	"github.com/gen2brain/avif"
	"github.com/jsummers/gobmp"

	"recast/internal/format"
	"recast/internal/ico"
)

// avifSpeed trades encode time for size on libaom's 0 (slowest) to 10 scale.
const avifSpeed = 6

// iconFramePNGLevel is the compression used for icon frames, matching the
// PNG path's default.
const iconFramePNGLevel = 6

type encodeFunc func(w io.Writer, img image.Image, req Request) error

var encoders = map[format.Format]encodeFunc{
	format.JPEG: encodeJPEG,
	format.PNG:  encodePNGRequest,
	format.WEBP: encodeWEBP,
	format.AVIF: encodeAVIF,
	format.BMP:  encodeBMP,
	format.ICO:  encodeICO,
}

// Encode writes one normalized image in the request's target format.
func Encode(w io.Writer, img image.Image, req Request) error {
	enc, ok := encoders[req.Target.Format]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, req.Target)
	}
	return enc(w, img, req)
}

func encodeJPEG(w io.Writer, img image.Image, req Request) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: req.Quality})
}

func encodeWEBP(w io.Writer, img image.Image, req Request) error {
	return webp.Encode(w, img, &webp.Options{Quality: float32(req.Quality)})
}

func encodeAVIF(w io.Writer, img image.Image, req Request) error {
	return avif.Encode(w, img, avif.Options{
		Quality:      req.Quality,
		QualityAlpha: req.Quality,
		Speed:        avifSpeed,
	})
}

// pngCompression maps the 0-9 zlib effort scale onto the presets Go's
// encoder exposes.
func pngCompression(level int) png.CompressionLevel {
	switch {
	case level <= 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

func encodePNGRequest(w io.Writer, img image.Image, req Request) error {
	return encodePNG(w, img, req.Compression)
}

func encodePNG(w io.Writer, img image.Image, level int) error {
	enc := png.Encoder{CompressionLevel: pngCompression(level)}
	return enc.Encode(w, img)
}

// encodeBMP always receives opaque RGB from the normalizer.
func encodeBMP(w io.Writer, img image.Image, _ Request) error {
	return gobmp.Encode(w, img)
}

func encodeICO(w io.Writer, img image.Image, _ Request) error {
	return encodeSingleIcon(w, img)
}

// encodeSingleIcon wraps one image of at most 256x256 in a one-frame icon.
func encodeSingleIcon(w io.Writer, img image.Image) error {
	blob, err := pngBytes(img, iconFramePNGLevel)
	if err != nil {
		return err
	}
	b := ico.NewBuilder()
	if err := b.Add(img.Bounds().Dx(), img.Bounds().Dy(), blob); err != nil {
		return err
	}
	_, err = b.WriteTo(w)
	return err
}
