// Package ico lays out the icon container: a 6-byte header, one 16-byte
// directory entry per frame, then the frame payloads in directory order.
// Frames are stored as standalone PNG streams. All fields are little-endian.
package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const (
	HeaderSize = 6
	EntrySize  = 16

	TypeIcon = 1

	// MaxDimension is the largest frame edge a directory entry can describe.
	MaxDimension = 256
)

var (
	ErrEmpty         = errors.New("ico: container has no frames")
	ErrTooManyFrames = errors.New("ico: too many frames")
	ErrDimension     = errors.New("ico: frame dimensions must be between 1 and 256")
	ErrCountMismatch = errors.New("ico: entry count does not match payload count")
	ErrSizeMismatch  = errors.New("ico: entry size does not match payload length")
	ErrOffset        = errors.New("ico: entry offset does not match layout")
	ErrNotPNG        = errors.New("ico: payload is not a PNG stream")
	ErrTruncated     = errors.New("ico: truncated container")
	ErrHeader        = errors.New("ico: invalid header")
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// Header is the ICONDIR record.
type Header struct {
	Reserved uint16
	Type     uint16
	Count    uint16
}

// DirEntry is one ICONDIRENTRY record.
type DirEntry struct {
	Width        uint8
	Height       uint8
	Colors       uint8
	Reserved     uint8
	Planes       uint16
	BitsPerPixel uint16
	Size         uint32
	Offset       uint32
}

// Dimensions decodes the width and height bytes, where 0 means 256.
func (e DirEntry) Dimensions() (int, int) {
	return decodeDimension(e.Width), decodeDimension(e.Height)
}

func encodeDimension(v int) uint8 {
	if v == MaxDimension {
		return 0
	}
	return uint8(v)
}

func decodeDimension(b uint8) int {
	if b == 0 {
		return MaxDimension
	}
	return int(b)
}

// PayloadStart is the offset of the first payload for a container of n frames.
func PayloadStart(n int) uint32 {
	return uint32(HeaderSize + EntrySize*n)
}

// Builder accumulates frames and serialises them once they validate.
// Entries and blobs stay index aligned.
type Builder struct {
	entries []DirEntry
	blobs   [][]byte
}

func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a frame. blob must be a complete PNG stream of the given size.
func (b *Builder) Add(width, height int, blob []byte) error {
	if width < 1 || width > MaxDimension || height < 1 || height > MaxDimension {
		return fmt.Errorf("%w: got %dx%d", ErrDimension, width, height)
	}
	if !bytes.HasPrefix(blob, pngSignature) {
		return ErrNotPNG
	}
	if len(b.entries) == 0xffff {
		return ErrTooManyFrames
	}

	b.entries = append(b.entries, DirEntry{
		Width:        encodeDimension(width),
		Height:       encodeDimension(height),
		Planes:       1,
		BitsPerPixel: 32,
		Size:         uint32(len(blob)),
	})
	b.blobs = append(b.blobs, blob)
	b.layout()
	return nil
}

// Len is the number of frames added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

func (b *Builder) Header() Header {
	return Header{Reserved: 0, Type: TypeIcon, Count: uint16(len(b.entries))}
}

// Entries returns a copy of the directory with offsets filled in.
func (b *Builder) Entries() []DirEntry {
	out := make([]DirEntry, len(b.entries))
	copy(out, b.entries)
	return out
}

func (b *Builder) layout() {
	offset := PayloadStart(len(b.entries))
	for i := range b.entries {
		b.entries[i].Offset = offset
		offset += b.entries[i].Size
	}
}

// Validate checks the count, size and offset invariants.
func (b *Builder) Validate() error {
	if len(b.entries) == 0 {
		return ErrEmpty
	}
	if len(b.entries) != len(b.blobs) {
		return fmt.Errorf("%w: %d entries, %d payloads", ErrCountMismatch, len(b.entries), len(b.blobs))
	}
	if int(b.Header().Count) != len(b.entries) {
		return ErrTooManyFrames
	}
	return validateLayout(b.entries, blobLengths(b.blobs))
}

func blobLengths(blobs [][]byte) []int {
	lengths := make([]int, len(blobs))
	for i, blob := range blobs {
		lengths[i] = len(blob)
	}
	return lengths
}

func validateLayout(entries []DirEntry, lengths []int) error {
	want := PayloadStart(len(entries))
	for i, e := range entries {
		if int(e.Size) != lengths[i] {
			return fmt.Errorf("%w: entry %d declares %d, payload is %d", ErrSizeMismatch, i, e.Size, lengths[i])
		}
		if e.Offset != want {
			return fmt.Errorf("%w: entry %d at %d, want %d", ErrOffset, i, e.Offset, want)
		}
		want += e.Size
	}
	return nil
}

// Bytes validates and serialises the container.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the header, the full directory and then every payload.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}

	cw := &countingWriter{w: w}
	if err := binary.Write(cw, binary.LittleEndian, b.Header()); err != nil {
		return cw.n, err
	}
	if err := binary.Write(cw, binary.LittleEndian, b.entries); err != nil {
		return cw.n, err
	}
	for _, blob := range b.blobs {
		if _, err := cw.Write(blob); err != nil {
			return cw.n, err
		}
	}
	return cw.n, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
