package processor

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"testing"

	besticon "github.com/mat/besticon/ico"

	"recast/internal/ico"
)

func TestRenderIconFramesCentered(t *testing.T) {
	sources := map[string]*image.NRGBA{
		"wide":        toNRGBA(translucentImage(300, 100)),
		"tall":        toNRGBA(opaqueImage(51, 240)),
		"small":       toNRGBA(opaqueImage(20, 11)),
		"transparent": image.NewNRGBA(image.Rect(0, 0, 97, 64)),
	}

	for name, src := range sources {
		t.Run(name, func(t *testing.T) {
			frames := renderIconFrames(src)
			if len(frames) != len(IconSizes) {
				t.Fatalf("got %d frames", len(frames))
			}

			for i, f := range frames {
				size := IconSizes[i]
				if f.Size != size || f.Canvas.Bounds() != image.Rect(0, 0, size, size) {
					t.Fatalf("frame %d: size %d canvas %v", i, f.Size, f.Canvas.Bounds())
				}

				w, h := f.Placed.Dx(), f.Placed.Dy()
				if w > size || h > size {
					t.Fatalf("size %d: thumbnail %dx%d overflows", size, w, h)
				}
				if w > src.Bounds().Dx() || h > src.Bounds().Dy() {
					t.Fatalf("size %d: thumbnail %dx%d upscaled from %v", size, w, h, src.Bounds().Size())
				}
				if w != size && h != size && (w != src.Bounds().Dx() || h != src.Bounds().Dy()) {
					t.Fatalf("size %d: thumbnail %dx%d neither fills the box nor keeps source size", size, w, h)
				}

				left, right := f.Placed.Min.X, size-f.Placed.Max.X
				top, bottom := f.Placed.Min.Y, size-f.Placed.Max.Y
				if left != (size-w)/2 || top != (size-h)/2 {
					t.Fatalf("size %d: origin %v", size, f.Placed.Min)
				}
				if diff(left, right) > 1 || diff(top, bottom) > 1 {
					t.Fatalf("size %d: padding l=%d r=%d t=%d b=%d", size, left, right, top, bottom)
				}
				if right < left || bottom < top {
					t.Fatalf("size %d: odd pixel must go to the trailing edge", size)
				}

				assertTransparentOutside(t, f)
			}
		})
	}
}

func assertTransparentOutside(t *testing.T, f iconFrame) {
	t.Helper()
	b := f.Canvas.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if image.Pt(x, y).In(f.Placed) {
				continue
			}
			if a := f.Canvas.NRGBAAt(x, y).A; a != 0 {
				t.Fatalf("size %d: padding pixel (%d,%d) has alpha %d", f.Size, x, y, a)
			}
		}
	}
}

func TestAssembleIconRoundTrip(t *testing.T) {
	frames := renderIconFrames(toNRGBA(translucentImage(300, 100)))
	data, err := assembleIcon(frames)
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}

	c, err := ico.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if int(c.Header.Count) != len(IconSizes) {
		t.Fatalf("count = %d", c.Header.Count)
	}
	if !c.Contiguous(len(data)) {
		t.Fatalf("offsets are not contiguous")
	}

	for i, e := range c.Entries {
		w, h := e.Dimensions()
		if w != IconSizes[i] || h != IconSizes[i] {
			t.Fatalf("entry %d = %dx%d", i, w, h)
		}
		if e.Planes != 1 || e.BitsPerPixel != 32 || e.Colors != 0 {
			t.Fatalf("entry %d fields = %+v", i, e)
		}
		if i > 0 && e.Offset <= c.Entries[i-1].Offset {
			t.Fatalf("entry %d offset not increasing", i)
		}

		frame, err := png.Decode(bytes.NewReader(c.Payloads[i]))
		if err != nil {
			t.Fatalf("payload %d: %v", i, err)
		}
		if !samePixels(frame, frames[i].Canvas) {
			t.Fatalf("payload %d does not match its canvas", i)
		}
	}

	img, err := besticon.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("third-party decode: %v", err)
	}
	if w := img.Bounds().Dx(); w != img.Bounds().Dy() || !isIconSize(w) {
		t.Fatalf("third-party decoder returned %v", img.Bounds())
	}

	if _, kind, err := image.DecodeConfig(bytes.NewReader(data)); err != nil || kind != "ico" {
		t.Fatalf("registered decoder: kind=%q err=%v", kind, err)
	}
}

func TestBuildIconFallback(t *testing.T) {
	c := newConverter(t, testRequest(t, "ico"))
	c.assemble = func([]iconFrame) ([]byte, error) {
		return nil, errors.New("simulated assembly failure")
	}

	data, outcome, err := c.buildIcon(translucentImage(300, 100))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if outcome != IconFallback {
		t.Fatalf("outcome = %v", outcome)
	}

	parsed, err := ico.Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(parsed.Entries) != 1 {
		t.Fatalf("fallback has %d frames", len(parsed.Entries))
	}
	if w, h := parsed.Entries[0].Dimensions(); w != 16 || h != 16 {
		t.Fatalf("fallback frame = %dx%d", w, h)
	}
}

func TestBuildIconFallbackFails(t *testing.T) {
	c := newConverter(t, testRequest(t, "ico"))
	c.assemble = func([]iconFrame) ([]byte, error) {
		return nil, errors.New("simulated assembly failure")
	}
	c.singleIcon = func(io.Writer, image.Image) error {
		return errors.New("simulated fallback failure")
	}

	data, outcome, err := c.buildIcon(opaqueImage(32, 32))
	if err == nil {
		t.Fatalf("expected error")
	}
	if outcome != IconFailed || data != nil {
		t.Fatalf("outcome = %v, %d bytes", outcome, len(data))
	}
}

func isIconSize(n int) bool {
	for _, size := range IconSizes {
		if size == n {
			return true
		}
	}
	return false
}

func diff(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
