// Package processor converts images one file at a time: decode, rescale,
// normalize the color mode for the target format, encode, and commit the
// output atomically.
package processor

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"recast/internal/format"
)

// Converter runs batches for one Request.
type Converter struct {
	req        Request
	log        *log.Logger
	now        func() time.Time
	decode     func(path string) (image.Image, string, error)
	assemble   func(frames []iconFrame) ([]byte, error)
	singleIcon func(w io.Writer, img image.Image) error
}

type Option func(*Converter)

func WithLogger(l *log.Logger) Option {
	return func(c *Converter) {
		if l != nil {
			c.log = l
		}
	}
}

// WithClock replaces time.Now for the batch timestamp.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.now = now
		}
	}
}

func New(req Request, opts ...Option) (*Converter, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c := &Converter{
		req:        req,
		log:        log.New(io.Discard),
		now:        time.Now,
		decode:     Decode,
		assemble:   assembleIcon,
		singleIcon: encodeSingleIcon,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Request returns the batch parameters.
func (c *Converter) Request() Request {
	return c.req
}

// Run converts paths in order. A failing file is recorded and skipped;
// only an unusable output directory stops the batch with an error.
// Cancellation is checked between files and ends the batch with
// BatchCancelled and a nil error.
func (c *Converter) Run(ctx context.Context, paths []string, progress func(Progress)) (Batch, error) {
	batch := Batch{
		Target:    c.req.Target,
		Timestamp: c.now().Format(TimestampLayout),
		Requested: len(paths),
		Results:   make([]Result, 0, len(paths)),
	}

	if err := checkOutputDir(c.req.OutputDir); err != nil {
		batch.Status = BatchAborted
		return batch, err
	}

	for i, path := range paths {
		if ctx != nil && ctx.Err() != nil {
			c.log.Info("batch cancelled", "done", i, "total", len(paths))
			batch.Status = BatchCancelled
			return batch, nil
		}

		res, err := c.convertFile(path, batch.Timestamp)
		batch.Results = append(batch.Results, res)
		if progress != nil {
			progress(Progress{Index: i + 1, Total: len(paths), Result: res})
		}
		if err != nil {
			c.log.Error("batch aborted", "err", err)
			batch.Status = BatchAborted
			return batch, err
		}
	}

	c.log.Info(batch.Summary(), "failed", batch.Failed())
	return batch, nil
}

// convertFile walks one file through the pipeline. The returned error is
// non-nil only when the batch must stop.
func (c *Converter) convertFile(path, stamp string) (Result, error) {
	res := Result{Source: path, State: StatePending}
	fail := func(stage Stage, err error) (Result, error) {
		res.State = StateFailed
		res.Err = &StageError{Stage: stage, Path: path, Err: err}
		c.log.Warn("conversion failed", "file", path, "stage", stage, "err", err)
		return res, nil
	}

	img, kind, err := c.decode(path)
	if err != nil {
		return fail(StageDecode, err)
	}
	res.State = StateDecoded
	c.log.Debug("decoded", "file", path, "kind", kind, "mode", ModeOf(img), "size", img.Bounds().Size())

	if c.req.Rescale != 100 {
		if img, err = Resize(img, c.req.Rescale); err != nil {
			return fail(StageResize, err)
		}
	}
	res.State = StateResized

	img, err = Normalize(img, c.req.Target.Format.Class(), c.req.Background)
	if err != nil {
		return fail(StageNormalize, err)
	}
	res.State = StateNormalized
	res.Width, res.Height = img.Bounds().Dx(), img.Bounds().Dy()

	name := OutputName(path, c.req.Target, c.req.Rescale, stamp)

	var data []byte
	if c.req.Target.Format == format.ICO {
		data, res.Icon, err = c.buildIcon(img)
		if err != nil {
			return fail(StageContainer, err)
		}
	} else {
		var buf bytes.Buffer
		if err := Encode(&buf, img, c.req); err != nil {
			return fail(StageEncode, err)
		}
		data = buf.Bytes()
	}
	res.State = StateEncoded

	out, err := commit(c.req.OutputDir, name, data)
	if err != nil {
		if errors.Is(err, ErrOutputDir) {
			res.State = StateFailed
			res.Err = &StageError{Stage: StageWrite, Path: path, Err: err}
			return res, err
		}
		return fail(StageWrite, err)
	}
	res.State = StateWritten
	res.Output = out
	res.OK = true
	c.log.Debug("written", "file", path, "output", out, "icon", res.Icon)
	return res, nil
}

// Run is a convenience for a single batch with a default Converter.
func Run(ctx context.Context, paths []string, req Request, progress func(Progress)) (Batch, error) {
	c, err := New(req)
	if err != nil {
		return Batch{Target: req.Target, Requested: len(paths), Status: BatchAborted}, err
	}
	return c.Run(ctx, paths, progress)
}
