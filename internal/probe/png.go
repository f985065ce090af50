package probe

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
	"strings"
)

var pngSignature = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}

// pngDetails walks the chunk list for text keys, tIME and eXIf.
func pngDetails(rs io.ReadSeeker) ([]Detail, error) {
	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	br := bufio.NewReader(rs)

	sig := make([]byte, 8)
	if _, err := io.ReadFull(br, sig); err != nil {
		return nil, err
	}
	if !hasPrefix(sig, pngSignature) {
		return nil, errors.New("invalid PNG signature")
	}

	var text, timestamps, exifChunks []string
	for {
		lenBuf := make([]byte, 4)
		if _, err := io.ReadFull(br, lenBuf); err != nil {
			if err == io.EOF {
				break
			}
			return nil, err
		}
		length := binary.BigEndian.Uint32(lenBuf)

		chunkType := make([]byte, 4)
		if _, err := io.ReadFull(br, chunkType); err != nil {
			return nil, err
		}
		chunkName := string(chunkType)

		switch chunkName {
		case "tEXt", "zTXt", "iTXt":
			data := make([]byte, length)
			if _, err := io.ReadFull(br, data); err != nil {
				return nil, err
			}
			if _, err := io.CopyN(io.Discard, br, 4); err != nil {
				return nil, err
			}
			if key := textKey(data); key != "" {
				text = append(text, key)
			}
		case "tIME", "eXIf":
			if chunkName == "tIME" {
				timestamps = append(timestamps, "tIME")
			} else {
				exifChunks = append(exifChunks, "eXIf")
			}
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return nil, err
			}
		default:
			if _, err := io.CopyN(io.Discard, br, int64(length)+4); err != nil {
				return nil, err
			}
		}

		if chunkName == "IEND" {
			break
		}
	}

	var details []Detail
	details = appendDetail(details, "Text", text)
	details = appendDetail(details, "Timestamp", timestamps)
	details = appendDetail(details, "EXIF", exifChunks)
	return details, nil
}

func textKey(data []byte) string {
	idx := strings.IndexByte(string(data), 0)
	if idx <= 0 {
		return ""
	}
	return string(data[:idx])
}
