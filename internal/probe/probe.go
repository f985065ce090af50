// Package probe describes source images before conversion: what they are,
// how big, which color mode, and which metadata a re-encode will drop.
package probe

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"recast/internal/ico"
	"recast/internal/processor"
	"recast/pkg/imgutil"
)

type Info struct {
	Path    string
	Kind    imgutil.Kind
	Width   int
	Height  int
	Mode    processor.Mode
	Details []Detail
	Frames  []Frame
}

// Detail groups metadata values under a category such as "GPS".
type Detail struct {
	Category string
	Values   []string
}

// Frame is one entry of an icon source's directory.
type Frame struct {
	Width  int
	Height int
	Size   int
	PNG    bool
}

// File probes one path. Unknown kinds are reported without decoding.
func File(path string) (Info, error) {
	info := Info{Path: path}

	file, err := os.Open(path)
	if err != nil {
		return info, err
	}
	defer file.Close()

	kind, err := imgutil.SniffReader(file)
	if err != nil {
		return info, err
	}
	info.Kind = kind
	if kind == imgutil.KindUnknown {
		return info, nil
	}

	img, _, err := processor.Decode(path)
	if err != nil {
		return info, err
	}
	info.Width, info.Height = img.Bounds().Dx(), img.Bounds().Dy()
	info.Mode = processor.ModeOf(img)

	switch kind {
	case imgutil.KindJPEG, imgutil.KindTIFF:
		info.Details, err = exifDetails(file)
	case imgutil.KindPNG:
		info.Details, err = pngDetails(file)
	case imgutil.KindICO:
		info.Frames, err = icoFrames(file)
	}
	if err != nil {
		return info, err
	}
	return info, nil
}

func icoFrames(rs io.ReadSeeker) ([]Frame, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(rs)
	if err != nil {
		return nil, err
	}
	c, err := ico.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("icon directory: %w", err)
	}

	frames := make([]Frame, len(c.Entries))
	for i, e := range c.Entries {
		w, h := e.Dimensions()
		frames[i] = Frame{Width: w, Height: h, Size: int(e.Size), PNG: c.IsPNG(i)}
	}
	return frames, nil
}

func hasPrefix(buf, prefix []byte) bool {
	return bytes.HasPrefix(buf, prefix)
}
