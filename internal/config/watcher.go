package config

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/vaultsh/vaultsh/internal/logging"
)

// ReloadHandler receives the freshly loaded configuration after the
// watched file changes.
type ReloadHandler func(Config)

// Watcher reloads a config file when it changes on disk. The parent
// directory is watched rather than the file itself, so editors that
// replace files on save are still observed.
type Watcher struct {
	fsw     *fsnotify.Watcher
	path    string
	handler ReloadHandler
	log     *logging.Logger

	closeOnce sync.Once
	done      chan struct{}
	wg        sync.WaitGroup
}

// Watch starts watching path and invokes handler on every successful
// reload. Failed reloads are logged and skipped.
func Watch(path string, log *logging.Logger, handler ReloadHandler) (*Watcher, error) {
	if log == nil {
		log = logging.Null
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolving %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("config: creating watcher: %w", err)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("config: watching %s: %w", filepath.Dir(abs), err)
	}

	w := &Watcher{
		fsw:     fsw,
		path:    abs,
		handler: handler,
		log:     log.WithComponent("config.watcher"),
		done:    make(chan struct{}),
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// loop processes filesystem events until Close.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}

			cfg, err := Load(w.path)
			if err != nil {
				w.log.Warn("reload failed: %v", err)
				continue
			}
			w.log.Info("configuration reloaded")
			if w.handler != nil {
				w.handler(cfg)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error: %v", err)
		}
	}
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}
