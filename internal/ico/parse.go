package ico

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Container is a parsed icon file.
type Container struct {
	Header   Header
	Entries  []DirEntry
	Payloads [][]byte
}

// Parse reads an icon container and slices out each frame payload.
// It accepts any payload encoding; callers decide what to do with BMP frames.
func Parse(data []byte) (*Container, error) {
	r := bytes.NewReader(data)

	var c Container
	if err := binary.Read(r, binary.LittleEndian, &c.Header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrTruncated, err)
	}
	if c.Header.Reserved != 0 || c.Header.Type != TypeIcon {
		return nil, fmt.Errorf("%w: reserved=%d type=%d", ErrHeader, c.Header.Reserved, c.Header.Type)
	}
	if c.Header.Count == 0 {
		return nil, ErrEmpty
	}

	c.Entries = make([]DirEntry, c.Header.Count)
	if err := binary.Read(r, binary.LittleEndian, c.Entries); err != nil {
		return nil, fmt.Errorf("%w: directory: %v", ErrTruncated, err)
	}

	c.Payloads = make([][]byte, len(c.Entries))
	for i, e := range c.Entries {
		end := uint64(e.Offset) + uint64(e.Size)
		if end > uint64(len(data)) || e.Offset < PayloadStart(len(c.Entries)) {
			return nil, fmt.Errorf("%w: entry %d spans %d..%d of %d", ErrTruncated, i, e.Offset, end, len(data))
		}
		c.Payloads[i] = data[e.Offset:end]
	}
	return &c, nil
}

// IsPNG reports whether payload i is a PNG stream.
func (c *Container) IsPNG(i int) bool {
	return bytes.HasPrefix(c.Payloads[i], pngSignature)
}

// Contiguous reports whether the payloads follow the directory back to back
// and the last one ends at size.
func (c *Container) Contiguous(size int) bool {
	if err := validateLayout(c.Entries, blobLengths(c.Payloads)); err != nil {
		return false
	}
	last := c.Entries[len(c.Entries)-1]
	return int(last.Offset)+int(last.Size) == size
}
