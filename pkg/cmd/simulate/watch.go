package simulate

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/mpapenbr/tyrestrat/log"
)

// fileWatcher reports changes of a single file. The parent directory is
// watched so files replaced by editors (rename + create) are noticed as well.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	file    string
	l       *log.Logger
}

func newFileWatcher(file string, l *log.Logger) (*fileWatcher, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, err
	}
	return &fileWatcher{watcher: watcher, file: abs, l: l}, nil
}

// run calls onChange for every write or create event of the file until ctx
// is done or the watcher is closed.
func (w *fileWatcher) run(ctx context.Context, onChange func()) {
	defer w.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			w.l.Info("context done, stopping file watch")
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				w.l.Info("watcher events channel closed, stopping file watch")
				return
			}
			if filepath.Clean(event.Name) != w.file {
				continue
			}
			w.l.Debug("change detected",
				log.String("file", event.Name), log.Any("event", event))
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				onChange()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				w.l.Info("watcher errors channel closed, stopping file watch")
				return
			}
			w.l.Error("watcher error", log.ErrorField(err))
		}
	}
}
