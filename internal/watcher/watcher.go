// Package watcher converts images as they are dropped into a folder.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"recast/internal/processor"
	"recast/pkg/imgutil"
)

// DefaultDelay is how long a file must stay quiet before it is converted.
const DefaultDelay = 500 * time.Millisecond

// Converter is the part of processor.Converter the watcher drives.
type Converter interface {
	Run(ctx context.Context, paths []string, progress func(processor.Progress)) (processor.Batch, error)
}

// Watcher monitors one folder and converts each settled image in turn.
type Watcher struct {
	dir      string
	conv     Converter
	fs       *fsnotify.Watcher
	log      *log.Logger
	delay    time.Duration
	onBatch  func(processor.Batch)
	produced map[string]bool
}

type Option func(*Watcher)

func WithLogger(l *log.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.log = l
		}
	}
}

// WithDelay overrides DefaultDelay.
func WithDelay(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// OnBatch is called after every conversion.
func OnBatch(fn func(processor.Batch)) Option {
	return func(w *Watcher) {
		w.onBatch = fn
	}
}

// New creates a watcher for dir.
func New(dir string, conv Converter, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		dir:      dir,
		conv:     conv,
		fs:       fsWatcher,
		log:      log.New(io.Discard),
		delay:    DefaultDelay,
		produced: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run blocks until ctx is cancelled. Files are converted one at a time on
// the calling goroutine. An unusable output directory ends the watch with
// an error; any other conversion failure is logged and skipped.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	if err := w.fs.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch folder %s: %w", w.dir, err)
	}
	w.log.Info("watching folder", "dir", w.dir)

	ready := make(chan string)
	debounce := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range debounce {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.wanted(event) {
				continue
			}

			name := event.Name
			if timer, exists := debounce[name]; exists {
				timer.Stop()
			}
			debounce[name] = time.AfterFunc(w.delay, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			delete(debounce, name)
			if err := w.convert(ctx, name); err != nil {
				return err
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", "err", err)
		}
	}
}

func (w *Watcher) wanted(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	base := filepath.Base(event.Name)
	if base == "" || base[0] == '.' {
		return false
	}
	if w.produced[event.Name] {
		return false
	}
	return imgutil.HasImageExt(event.Name)
}

func (w *Watcher) convert(ctx context.Context, path string) error {
	kind, err := imgutil.SniffFile(path)
	if err != nil {
		w.log.Debug("dropped file vanished", "file", path, "err", err)
		return nil
	}
	if kind == imgutil.KindUnknown {
		w.log.Warn("skipping file with unknown signature", "file", path)
		return nil
	}

	batch, err := w.conv.Run(ctx, []string{path}, nil)
	for _, res := range batch.Results {
		if res.OK {
			w.produced[res.Output] = true
			w.log.Info("converted", "file", path, "output", res.Output)
		} else if res.Err != nil {
			w.log.Warn("conversion failed", "file", path, "reason", res.Reason())
		}
	}
	if w.onBatch != nil && len(batch.Results) > 0 {
		w.onBatch(batch)
	}
	if errors.Is(err, processor.ErrOutputDir) {
		return err
	}
	return nil
}
