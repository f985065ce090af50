package ico

import (
	"bytes"
	"encoding/binary"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, size int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 0x80, A: 0xff})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestBuilderLayout(t *testing.T) {
	sizes := []int{16, 32, 256}
	b := NewBuilder()
	var blobs [][]byte
	for _, size := range sizes {
		blob := encodePNG(t, size)
		blobs = append(blobs, blob)
		if err := b.Add(size, size, blob); err != nil {
			t.Fatalf("add %d: %v", size, err)
		}
	}

	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}

	if got := binary.LittleEndian.Uint16(data[0:2]); got != 0 {
		t.Fatalf("reserved = %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[2:4]); got != TypeIcon {
		t.Fatalf("type = %d", got)
	}
	if got := binary.LittleEndian.Uint16(data[4:6]); int(got) != len(sizes) {
		t.Fatalf("count = %d", got)
	}

	offset := HeaderSize + EntrySize*len(sizes)
	for i, size := range sizes {
		entry := data[HeaderSize+EntrySize*i : HeaderSize+EntrySize*(i+1)]
		wantDim := byte(size)
		if size == 256 {
			wantDim = 0
		}
		if entry[0] != wantDim || entry[1] != wantDim {
			t.Fatalf("entry %d dims = %d,%d want %d", i, entry[0], entry[1], wantDim)
		}
		if entry[2] != 0 || entry[3] != 0 {
			t.Fatalf("entry %d colors/reserved = %d,%d", i, entry[2], entry[3])
		}
		if got := binary.LittleEndian.Uint16(entry[4:6]); got != 1 {
			t.Fatalf("entry %d planes = %d", i, got)
		}
		if got := binary.LittleEndian.Uint16(entry[6:8]); got != 32 {
			t.Fatalf("entry %d bpp = %d", i, got)
		}
		if got := binary.LittleEndian.Uint32(entry[8:12]); int(got) != len(blobs[i]) {
			t.Fatalf("entry %d size = %d want %d", i, got, len(blobs[i]))
		}
		if got := binary.LittleEndian.Uint32(entry[12:16]); int(got) != offset {
			t.Fatalf("entry %d offset = %d want %d", i, got, offset)
		}
		if !bytes.Equal(data[offset:offset+len(blobs[i])], blobs[i]) {
			t.Fatalf("entry %d payload mismatch", i)
		}
		offset += len(blobs[i])
	}
	if offset != len(data) {
		t.Fatalf("payload region ends at %d, file is %d bytes", offset, len(data))
	}
}

func TestBuilderValidate(t *testing.T) {
	if err := NewBuilder().Validate(); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty builder: got %v", err)
	}

	b := NewBuilder()
	if err := b.Add(16, 16, encodePNG(t, 16)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Add(32, 32, encodePNG(t, 32)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := b.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	b.entries[1].Offset++
	if _, err := b.Bytes(); !errors.Is(err, ErrOffset) {
		t.Fatalf("tampered offset: got %v", err)
	}
	b.layout()

	b.entries[0].Size--
	if err := b.Validate(); !errors.Is(err, ErrSizeMismatch) {
		t.Fatalf("tampered size: got %v", err)
	}
	b.entries[0].Size++

	b.blobs = b.blobs[:1]
	if err := b.Validate(); !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("dropped blob: got %v", err)
	}
}

func TestBuilderAddRejects(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(0, 16, encodePNG(t, 16)); !errors.Is(err, ErrDimension) {
		t.Fatalf("zero width: got %v", err)
	}
	if err := b.Add(257, 257, encodePNG(t, 16)); !errors.Is(err, ErrDimension) {
		t.Fatalf("257: got %v", err)
	}
	if err := b.Add(16, 16, []byte("BM not a png")); !errors.Is(err, ErrNotPNG) {
		t.Fatalf("bmp payload: got %v", err)
	}
	if b.Len() != 0 {
		t.Fatalf("rejected frames were kept: %d", b.Len())
	}
}

func TestParseRoundTrip(t *testing.T) {
	b := NewBuilder()
	for _, size := range []int{16, 48, 256} {
		if err := b.Add(size, size, encodePNG(t, size)); err != nil {
			t.Fatalf("add: %v", err)
		}
	}
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}

	c, err := Parse(data)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(c.Entries) != 3 || len(c.Payloads) != 3 {
		t.Fatalf("got %d entries, %d payloads", len(c.Entries), len(c.Payloads))
	}
	if !c.Contiguous(len(data)) {
		t.Fatalf("payloads not contiguous")
	}
	for i, want := range []int{16, 48, 256} {
		w, h := c.Entries[i].Dimensions()
		if w != want || h != want {
			t.Fatalf("entry %d = %dx%d, want %d", i, w, h, want)
		}
		if !c.IsPNG(i) {
			t.Fatalf("entry %d not png", i)
		}
		img, err := png.Decode(bytes.NewReader(c.Payloads[i]))
		if err != nil {
			t.Fatalf("decode payload %d: %v", i, err)
		}
		if img.Bounds().Dx() != want {
			t.Fatalf("payload %d width = %d", i, img.Bounds().Dx())
		}
	}
}

func TestParseTruncated(t *testing.T) {
	b := NewBuilder()
	if err := b.Add(16, 16, encodePNG(t, 16)); err != nil {
		t.Fatalf("add: %v", err)
	}
	data, err := b.Bytes()
	if err != nil {
		t.Fatalf("bytes: %v", err)
	}

	if _, err := Parse(data[:len(data)-1]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("short payload: got %v", err)
	}
	if _, err := Parse(data[:10]); !errors.Is(err, ErrTruncated) {
		t.Fatalf("short directory: got %v", err)
	}

	bad := append([]byte{}, data...)
	bad[2] = 2
	if _, err := Parse(bad); !errors.Is(err, ErrHeader) {
		t.Fatalf("cursor type: got %v", err)
	}
}
