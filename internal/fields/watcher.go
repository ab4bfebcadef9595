package fields

import (
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Reload carries the result of re-reading a watched override file.
type Reload struct {
	Defs []Definition
	Err  error
}

// Watcher re-reads a field override file whenever it changes on disk.
// The parent directory is watched so editors that replace the file on save
// are still observed.
type Watcher struct {
	Path    string
	Reloads <-chan Reload // Read-only external channel

	reloads chan Reload
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the override file at path.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Reload, 4)
	return &Watcher{
		Path:    abs,
		Reloads: ch,
		reloads: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher and the Reloads channel.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.reloads)
}

func (w *Watcher) loop() {
	defer close(w.done)

	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emit()
				}
				return
			}
			if filepath.Clean(event.Name) != w.Path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case <-ticker.C:
			if !pending.IsZero() && time.Since(pending) >= debounce {
				pending = time.Time{}
				w.emit()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event retries.
		}
	}
}

func (w *Watcher) emit() {
	defs, err := LoadOverrides(w.Path)
	select {
	case w.reloads <- Reload{Defs: defs, Err: err}:
	default:
		// Consumer is behind; it will see the next change.
	}
}
