package processor

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a file failed in.
type Stage int

const (
	StageDecode Stage = iota
	StageResize
	StageNormalize
	StageEncode
	StageContainer
	StageWrite
)

func (s Stage) String() string {
	switch s {
	case StageDecode:
		return "decode"
	case StageResize:
		return "resize"
	case StageNormalize:
		return "normalize"
	case StageEncode:
		return "encode"
	case StageContainer:
		return "icon container"
	case StageWrite:
		return "write"
	default:
		return "unknown"
	}
}

var (
	// ErrOutputDir aborts the batch: every later file would fail the same way.
	ErrOutputDir = errors.New("output directory is not writable")

	ErrEmptyImage        = errors.New("image has no pixels")
	ErrRescaleRange      = fmt.Errorf("rescale percent must be between %d and %d", MinRescale, MaxRescale)
	ErrUnsupportedFormat = errors.New("unsupported output format")
)

// StageError is a per-file failure. It never aborts the batch.
type StageError struct {
	Stage Stage
	Path  string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// FailedStage extracts the stage from a per-file error.
func FailedStage(err error) (Stage, bool) {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage, true
	}
	return 0, false
}
