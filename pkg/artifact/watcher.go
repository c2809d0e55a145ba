package artifact

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/churnlabs/churnserve/pkg/logger"
	"github.com/fsnotify/fsnotify"
)

const debounceWindow = 500 * time.Millisecond

// Watcher triggers a reload when the artifact file is replaced on disk.
// It watches the parent directory: model rollouts typically write a temp file
// and rename over the artifact, which drops the watch on the file itself.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	done      chan struct{}
}

func Watch(path string, reload func() error) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	w := &Watcher{fsWatcher: fsWatcher, done: make(chan struct{})}
	go w.run(filepath.Base(path), reload)
	logger.Info(fmt.Sprintf("Watching artifact %s for replacement", path))
	return w, nil
}

func (w *Watcher) run(base string, reload func() error) {
	var timer *time.Timer
	for {
		select {
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce: a rollout produces several events for one artifact.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounceWindow, func() {
				if err := reload(); err != nil {
					logger.Error("Artifact watcher reload failed, previous model keeps serving", err)
				}
			})
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			logger.Error("Artifact watcher error", err)
		case <-w.done:
			return
		}
	}
}

func (w *Watcher) Close() error {
	close(w.done)
	return w.fsWatcher.Close()
}
