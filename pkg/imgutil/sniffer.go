package imgutil

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindJPEG
	KindPNG
	KindTIFF
	KindGIF
	KindBMP
	KindWEBP
	KindICO
	KindAVIF
	KindHEIF
)

func (k Kind) String() string {
	switch k {
	case KindJPEG:
		return "jpeg"
	case KindPNG:
		return "png"
	case KindTIFF:
		return "tiff"
	case KindGIF:
		return "gif"
	case KindBMP:
		return "bmp"
	case KindWEBP:
		return "webp"
	case KindICO:
		return "ico"
	case KindAVIF:
		return "avif"
	case KindHEIF:
		return "heif"
	default:
		return "unknown"
	}
}

// HeaderSize is how many leading bytes DetectHeader looks at.
const HeaderSize = 12

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	gifSig    = []byte("GIF8")
	bmpSig    = []byte("BM")
	icoSig    = []byte{0x00, 0x00, 0x01, 0x00}
	riffSig   = []byte("RIFF")
	webpSig   = []byte("WEBP")
	ftypSig   = []byte("ftyp")
)

// DetectHeader inspects the first bytes of a file for known signatures.
func DetectHeader(header []byte) (Kind, error) {
	if len(header) < 4 {
		return KindUnknown, errors.New("header too short")
	}

	switch {
	case hasPrefix(header, jpegSig):
		return KindJPEG, nil
	case hasPrefix(header, pngSig):
		return KindPNG, nil
	case hasPrefix(header, tiffSigLE) || hasPrefix(header, tiffSigBE):
		return KindTIFF, nil
	case hasPrefix(header, gifSig):
		return KindGIF, nil
	case hasPrefix(header, icoSig):
		return KindICO, nil
	case hasPrefix(header, bmpSig):
		return KindBMP, nil
	}

	if len(header) >= HeaderSize {
		if hasPrefix(header, riffSig) && bytes.Equal(header[8:12], webpSig) {
			return KindWEBP, nil
		}
		if bytes.Equal(header[4:8], ftypSig) {
			switch string(header[8:12]) {
			case "avif", "avis":
				return KindAVIF, nil
			case "heic", "heix", "hevc", "hevx", "mif1", "msf1":
				return KindHEIF, nil
			}
		}
	}

	return KindUnknown, nil
}

// SniffFile reads the leading bytes of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to HeaderSize bytes from r and determines its type.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, HeaderSize)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n])
}

var sourceExts = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
	".avif": true,
	".bmp":  true,
	".ico":  true,
	".heic": true,
	".heif": true,
	".gif":  true,
	".tif":  true,
	".tiff": true,
}

// HasImageExt reports whether path carries an extension the converter
// picks up when expanding a directory.
func HasImageExt(path string) bool {
	return sourceExts[strings.ToLower(filepath.Ext(path))]
}

func hasPrefix(buf, prefix []byte) bool {
	return bytes.HasPrefix(buf, prefix)
}
