package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"recast/internal/format"
)

func opaqueImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 0x60,
				A: 0xff,
			})
		}
	}
	return img
}

// translucentImage has a fully transparent left third, a half transparent
// middle third, and an opaque right third.
func translucentImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var a uint8
			switch {
			case x < w/3:
				a = 0
			case x < 2*w/3:
				a = 0x80
			default:
				a = 0xff
			}
			img.SetNRGBA(x, y, color.NRGBA{R: 0xff, G: uint8((y * 255) / h), B: 0x20, A: a})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func testRequest(t *testing.T, target string) Request {
	t.Helper()

	req := DefaultRequest()
	req.Target = format.MustParse(target)
	req.OutputDir = t.TempDir()
	return req
}

func fixedClock(ts string) func() time.Time {
	return func() time.Time {
		tm, err := time.Parse(TimestampLayout, ts)
		if err != nil {
			panic(err)
		}
		return tm
	}
}

func newConverter(t *testing.T, req Request, opts ...Option) *Converter {
	t.Helper()

	opts = append([]Option{WithClock(fixedClock("20240102_030405"))}, opts...)
	c, err := New(req, opts...)
	if err != nil {
		t.Fatalf("new converter: %v", err)
	}
	return c
}

func sourceDir(t *testing.T) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "src")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	return dir
}

func decodeFile(t *testing.T, path string) (image.Image, string) {
	t.Helper()

	img, kind, err := Decode(path)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return img, kind
}

func isOpaque(img image.Image) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if _, _, _, a := img.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}
	return true
}

func samePixels(a, b image.Image) bool {
	if a.Bounds().Size() != b.Bounds().Size() {
		return false
	}
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, a1 := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return false
			}
		}
	}
	return true
}
