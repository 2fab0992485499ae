package tables

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher reports changes to the pricing file. It watches the parent
// directory so editors that replace the file by rename are still seen.
type Watcher struct {
	path     string
	onChange func(string)
	logger   log.FieldLogger
	fw       *fsnotify.Watcher
}

// NewWatcher creates a watcher for path; onChange receives the changed path.
func NewWatcher(path string, onChange func(string), logger log.FieldLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return &Watcher{path: abs, onChange: onChange, logger: logger, fw: fw}, nil
}

// Run blocks until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				w.onChange(w.path)
			}
		case err, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			w.logger.WithError(err).Warn("pricing table watcher error")
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fw.Close()
}
