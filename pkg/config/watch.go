package config

import (
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/leterax/bookroom/internal/logging"
)

// Watcher reloads a config file whenever it changes and publishes every
// valid result on Updates. Invalid edits are logged and skipped.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
	updates chan *Config
	stop    chan struct{}
	stopped chan struct{}
}

// Watch starts watching path. The parent directory is watched so editors
// that replace the file on save are seen too.
func Watch(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("config: watch %s: %w", path, err)
	}

	w := &Watcher{
		path:    abs,
		watcher: fw,
		updates: make(chan *Config, 1),
		stop:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

// Updates delivers reloaded configurations. Only the newest pending one is
// kept, so a slow reader never blocks the watcher.
func (w *Watcher) Updates() <-chan *Config {
	return w.updates
}

func (w *Watcher) loop() {
	defer close(w.stopped)

	for {
		select {
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger().Warn("config watch error", "path", w.path, "err", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logging.Logger().Warn("config reload rejected", "path", w.path, "err", err)
		return
	}
	logging.Logger().Info("config reloaded", "path", w.path, "profile", cfg.Book.Profile)

	// Drop a stale pending update in favour of the new one.
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.stop)
	err := w.watcher.Close()
	<-w.stopped
	return err
}
