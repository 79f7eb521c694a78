// This file implements a file system watcher over the local data directory.
// Manual deletions or additions under <data>/series trigger a debounced
// library-verify run so the UI stays honest about what is really on disk.

package library

import (
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kumoreader/kumo-go/internal/jobs"
)

// WatcherService watches the series data directory for file system changes
// and triggers the library-verify job when archives appear or disappear.
type WatcherService struct {
	ctx           jobs.JobContext
	watcher       *fsnotify.Watcher
	dirty         bool
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
}

// NewWatcherService creates a new file system watcher service.
func NewWatcherService(ctx jobs.JobContext) *WatcherService {
	return &WatcherService{
		ctx:           ctx,
		debounceDelay: 2 * time.Second, // Wait 2 seconds after last change before verifying
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the data directory for changes.
func (w *WatcherService) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	w.watcher = watcher

	seriesRoot := filepath.Join(w.ctx.Config().Data.Path, "series")
	if err := os.MkdirAll(seriesRoot, os.ModePerm); err != nil {
		watcher.Close()
		return err
	}

	// Watch the series root recursively; files are watched via their
	// parent directory.
	err = filepath.WalkDir(seriesRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return err
	}

	log.Printf("File watcher started for data directory: %s", seriesRoot)

	go w.processEvents()
	return nil
}

// Stop stops the file watcher service.
func (w *WatcherService) Stop() error {
	close(w.stopChan)
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}

func (w *WatcherService) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("File watcher error: %v", err)

		case <-w.stopChan:
			return
		}
	}
}

func (w *WatcherService) handleEvent(event fsnotify.Event) {
	// Ignore Chmod events; they fire when folders are merely opened.
	if event.Op == fsnotify.Chmod {
		return
	}

	hasRelevantOp := event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Remove == fsnotify.Remove

	if !hasRelevantOp {
		return
	}

	info, err := os.Stat(event.Name)
	isDir := err == nil && info.IsDir()

	// New series folders need to be added to the watch list.
	if event.Op&fsnotify.Create == fsnotify.Create && isDir {
		w.watcher.Add(event.Name)
		w.markDirty()
		return
	}

	// Only archive changes matter; previews and covers churn during imports.
	if !isDir && IsSupportedArchive(filepath.Base(event.Name)) {
		w.markDirty()
	}
}

func (w *WatcherService) markDirty() {
	w.mu.Lock()
	w.dirty = true
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, w.triggerVerify)
	w.mu.Unlock()
}

func (w *WatcherService) triggerVerify() {
	w.mu.Lock()
	if !w.dirty {
		w.mu.Unlock()
		return
	}
	w.dirty = false
	w.mu.Unlock()

	if err := w.ctx.JobManager().RunJob("library-verify", w.ctx); err != nil {
		log.Printf("Watcher could not start library-verify: %v", err)
	}
}
