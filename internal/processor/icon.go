package processor

import (
	"bytes"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"recast/internal/ico"
)

// IconSizes are the square frames written into every multi-size icon,
// smallest first.
var IconSizes = []int{16, 32, 48, 64, 128, 256}

type iconFrame struct {
	Size   int
	Canvas *image.NRGBA
	// Placed is where the thumbnail sits on the canvas.
	Placed image.Rectangle
}

// renderIconFrames letterboxes src into each standard size. Thumbnails
// only ever shrink; padding is floor((S-dim)/2) so any odd pixel lands on
// the trailing edge.
func renderIconFrames(src *image.NRGBA) []iconFrame {
	frames := make([]iconFrame, 0, len(IconSizes))
	for _, size := range IconSizes {
		thumb := imaging.Fit(src, size, size, imaging.Lanczos)
		canvas := imaging.New(size, size, color.NRGBA{})
		tb := thumb.Bounds()
		pos := image.Pt((size-tb.Dx())/2, (size-tb.Dy())/2)
		frames = append(frames, iconFrame{
			Size:   size,
			Canvas: imaging.Paste(canvas, thumb, pos),
			Placed: image.Rectangle{Min: pos, Max: pos.Add(tb.Size())},
		})
	}
	return frames
}

// assembleIcon encodes each frame as a standalone PNG and lays the
// container out in memory.
func assembleIcon(frames []iconFrame) ([]byte, error) {
	b := ico.NewBuilder()
	for _, f := range frames {
		blob, err := pngBytes(f.Canvas, iconFramePNGLevel)
		if err != nil {
			return nil, fmt.Errorf("frame %dx%d: %w", f.Size, f.Size, err)
		}
		if err := b.Add(f.Size, f.Size, blob); err != nil {
			return nil, fmt.Errorf("frame %dx%d: %w", f.Size, f.Size, err)
		}
	}
	return b.Bytes()
}

// buildIcon produces the multi-size container, or a single 16x16 frame
// when assembly fails.
func (c *Converter) buildIcon(img image.Image) ([]byte, IconOutcome, error) {
	frames := renderIconFrames(toNRGBA(img))

	data, err := c.assemble(frames)
	if err == nil {
		return data, IconFull, nil
	}
	c.log.Warn("multi-size icon failed, writing single frame", "err", err)

	var buf bytes.Buffer
	if ferr := c.singleIcon(&buf, frames[0].Canvas); ferr != nil {
		return nil, IconFailed, fmt.Errorf("multi-size: %v; single frame: %w", err, ferr)
	}
	return buf.Bytes(), IconFallback, nil
}

func pngBytes(img image.Image, level int) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodePNG(&buf, img, level); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
