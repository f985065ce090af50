package processor

import (
	"fmt"
	"image/color"

	"recast/internal/format"
)

// White is the default compositing background.
var White = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}

// Request is the immutable parameter set shared by every file in a batch.
type Request struct {
	Target      format.Target
	Quality     int
	Compression int
	Rescale     int
	OutputDir   string
	Background  color.RGBA
}

// DefaultRequest is PNG at compression 6 with no rescale. OutputDir is left
// for the caller.
func DefaultRequest() Request {
	return Request{
		Target:      format.MustParse("png"),
		Quality:     100,
		Compression: 6,
		Rescale:     100,
		Background:  White,
	}
}

func (r Request) Validate() error {
	if r.Target.Format == format.Unknown {
		return fmt.Errorf("output format is required")
	}
	if r.Quality < 1 || r.Quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", r.Quality)
	}
	if r.Compression < 0 || r.Compression > 9 {
		return fmt.Errorf("compression level must be between 0 and 9, got %d", r.Compression)
	}
	if r.Rescale < MinRescale || r.Rescale > MaxRescale {
		return fmt.Errorf("rescale must be between %d and %d percent, got %d", MinRescale, MaxRescale, r.Rescale)
	}
	if r.OutputDir == "" {
		return fmt.Errorf("output directory is required")
	}
	return nil
}

// Mode is the pixel layout class of a decoded bitmap.
type Mode int

const (
	ModeRGB Mode = iota
	ModeRGBA
	ModeGray
	ModePalette
)

func (m Mode) String() string {
	switch m {
	case ModeRGB:
		return "RGB"
	case ModeRGBA:
		return "RGBA"
	case ModeGray:
		return "L"
	case ModePalette:
		return "P"
	default:
		return "unknown"
	}
}

// State tracks a file through the pipeline.
type State int

const (
	StatePending State = iota
	StateDecoded
	StateResized
	StateNormalized
	StateEncoded
	StateWritten
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDecoded:
		return "decoded"
	case StateResized:
		return "resized"
	case StateNormalized:
		return "normalized"
	case StateEncoded:
		return "encoded"
	case StateWritten:
		return "written"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// IconOutcome records which icon path produced the output.
type IconOutcome int

const (
	IconNone IconOutcome = iota
	IconFull
	IconFallback
	IconFailed
)

func (o IconOutcome) String() string {
	switch o {
	case IconFull:
		return "full"
	case IconFallback:
		return "fallback"
	case IconFailed:
		return "failed"
	default:
		return "none"
	}
}

type Result struct {
	Source string
	Output string
	OK     bool
	State  State
	Err    error
	Icon   IconOutcome
	Width  int
	Height int
}

// Reason is the failure message, empty on success.
func (r Result) Reason() string {
	if r.Err == nil {
		return ""
	}
	return r.Err.Error()
}

// Status is how a batch ended.
type Status int

const (
	BatchComplete Status = iota
	BatchCancelled
	BatchAborted
)

func (s Status) String() string {
	switch s {
	case BatchComplete:
		return "complete"
	case BatchCancelled:
		return "cancelled"
	case BatchAborted:
		return "aborted"
	default:
		return "unknown"
	}
}

type Batch struct {
	Target    format.Target
	Timestamp string
	Requested int
	Results   []Result
	Status    Status
}

func (b Batch) Converted() int {
	n := 0
	for _, res := range b.Results {
		if res.OK {
			n++
		}
	}
	return n
}

func (b Batch) Failed() int {
	return len(b.Results) - b.Converted()
}

// Summary is the one-line report shown when a batch finishes.
func (b Batch) Summary() string {
	return fmt.Sprintf("Converted %d images to %s", b.Converted(), b.Target.Label())
}

// Progress is reported after each file completes.
type Progress struct {
	Index  int
	Total  int
	Result Result
}
