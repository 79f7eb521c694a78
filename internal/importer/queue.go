// The import queue: a single-flight work queue of file imports, drained in
// small batches with the batch members downloading concurrently. Enqueue
// operations never surface errors to their callers; everything is logged and
// the queue keeps going.

package importer

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/kumoreader/kumo-go/internal/catalog"
	"github.com/kumoreader/kumo-go/internal/models"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/transfer"
	"github.com/kumoreader/kumo-go/internal/websocket"
)

// batchSize bounds how many files download concurrently in one drain cycle.
// Small on purpose: the remote server is usually a home NAS.
const batchSize = 2

// Queue is the import queue. Construct one per application with NewQueue;
// all state is instance-local so tests can run isolated queues.
type Queue struct {
	st       *store.Store
	resolver *Resolver
	catalog  Catalog
	transfer transfer.Service
	hub      *websocket.Hub // may be nil
	dataDir  string

	mu         sync.Mutex
	processing bool
	pending    []models.ImportTask
	inFlight   map[string]bool

	kick chan struct{}
}

// NewQueue creates an import queue over the given collaborators. hub may be
// nil when no progress feed is wanted.
func NewQueue(st *store.Store, cat Catalog, tr transfer.Service, hub *websocket.Hub, dataDir string) *Queue {
	return &Queue{
		st:       st,
		resolver: NewResolver(st, cat, tr, dataDir),
		catalog:  cat,
		transfer: tr,
		hub:      hub,
		dataDir:  dataDir,
		inFlight: make(map[string]bool),
		kick:     make(chan struct{}, 1),
	}
}

// Start launches the queue's consumer goroutine. The consumer is
// edge-triggered: it wakes on every kick and drains until the queue is
// empty. A single consumer means at most one drain cycle is ever active.
// Cancel ctx to stop.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-q.kick:
				for q.Pending() > 0 {
					if ctx.Err() != nil {
						return
					}
					q.Drain(ctx)
				}
			}
		}
	}()
}

// Kick nudges the consumer. Safe to call from any goroutine; kicks during a
// drain coalesce into one.
func (q *Queue) Kick() {
	select {
	case q.kick <- struct{}{}:
	default:
	}
}

// EnqueueFile resolves the local series for seriesID and appends one import
// task for fileID. Errors are logged, not returned: a failed resolution or
// metadata fetch means nothing is enqueued.
func (q *Queue) EnqueueFile(ctx context.Context, seriesID, fileID int64) {
	ref, err := q.resolver.ResolveSeries(ctx, seriesID)
	if err != nil {
		log.Printf("Error resolving local series %d: %v", seriesID, err)
		return
	}

	remote, err := q.catalog.GetFile(ctx, fileID)
	if err != nil {
		log.Printf("Error fetching remote file %d: %v", fileID, err)
		return
	}

	q.append(taskFromRemote(*remote, ref))
}

// EnqueueSeries resolves the local series for seriesID and appends one
// import task per file in the remote listing, in listing order.
func (q *Queue) EnqueueSeries(ctx context.Context, seriesID int64) {
	ref, err := q.resolver.ResolveSeries(ctx, seriesID)
	if err != nil {
		log.Printf("Error resolving local series %d: %v", seriesID, err)
		return
	}

	files, err := q.catalog.GetSeriesFiles(ctx, seriesID)
	if err != nil {
		log.Printf("Error fetching file listing for series %d: %v", seriesID, err)
		return
	}

	tasks := make([]models.ImportTask, 0, len(files))
	for _, f := range files {
		tasks = append(tasks, taskFromRemote(f, ref))
	}
	q.append(tasks...)
}

func taskFromRemote(f catalog.RemoteFile, ref *SeriesRef) models.ImportTask {
	return models.ImportTask{
		ID:             f.ID,
		Path:           f.Path,
		FileName:       f.FileName,
		FileFormat:     f.FileFormat,
		Volume:         f.Volume,
		Chapter:        f.Chapter,
		TotalPages:     f.TotalPages,
		CurrentPage:    f.CurrentPage,
		IsRead:         f.IsRead,
		LibraryID:      ref.LibraryID,
		LocalSeriesID:  ref.LocalID,
		RemoteSeriesID: ref.RemoteSeriesID,
		SeriesTitle:    ref.Title,
	}
}

// append adds tasks to pending, dropping any whose key is already pending or
// in flight. Re-enqueuing a file that is mid-download is a no-op.
func (q *Queue) append(tasks ...models.ImportTask) {
	q.mu.Lock()
	added := 0
	for _, t := range tasks {
		key := t.Key()
		if q.inFlight[key] || q.pendingHasLocked(key) {
			continue
		}
		q.pending = append(q.pending, t)
		added++
	}
	q.mu.Unlock()

	if added > 0 {
		q.Kick()
	}
}

func (q *Queue) pendingHasLocked(key string) bool {
	for _, t := range q.pending {
		if t.Key() == key {
			return true
		}
	}
	return false
}

// Drain processes one batch from the front of the queue. The batch members
// run concurrently; one member's failure never cancels its siblings. Every
// batch member is removed from pending once the batch settles, whatever its
// outcome.
func (q *Queue) Drain(ctx context.Context) {
	q.mu.Lock()
	if len(q.pending) == 0 {
		q.processing = false
		q.mu.Unlock()
		return
	}
	q.processing = true

	n := batchSize
	if len(q.pending) < n {
		n = len(q.pending)
	}
	batch := make([]models.ImportTask, n)
	copy(batch, q.pending[:n])
	for _, t := range batch {
		q.inFlight[t.Key()] = true
	}
	q.mu.Unlock()

	log.Printf("Importing batch of %d file(s)", len(batch))

	var wg sync.WaitGroup
	for _, task := range batch {
		wg.Add(1)
		go func(task models.ImportTask) {
			defer wg.Done()
			q.importOne(ctx, task)
		}(task)
	}
	wg.Wait()

	settled := make(map[string]bool, len(batch))
	for _, t := range batch {
		settled[t.Key()] = true
	}

	q.mu.Lock()
	var kept []models.ImportTask
	for _, t := range q.pending {
		if !settled[t.Key()] {
			kept = append(kept, t)
		}
	}
	q.pending = kept
	for key := range settled {
		delete(q.inFlight, key)
	}
	q.processing = false
	q.mu.Unlock()
}

// importOne runs the per-task import steps. Failures are logged and
// swallowed; the task settles either way.
func (q *Queue) importOne(ctx context.Context, task models.ImportTask) {
	existing, err := q.st.GetFileByNameAndSeries(task.FileName, task.LocalSeriesID)
	if err != nil {
		log.Printf("Error checking for existing file %s: %v", task.FileName, err)
		q.broadcast(task, "failed", "could not check local library")
		return
	}
	if existing != nil {
		log.Printf("File %s already exists in series %d, skipping", task.FileName, task.LocalSeriesID)
		q.broadcast(task, "skipped", "already imported")
		return
	}

	if _, err := q.st.InsertFile(&models.File{
		Path:        task.Path,
		FileName:    task.FileName,
		FileFormat:  task.FileFormat,
		Volume:      task.Volume,
		Chapter:     task.Chapter,
		TotalPages:  task.TotalPages,
		CurrentPage: task.CurrentPage,
		IsRead:      task.IsRead,
		SeriesID:    task.LocalSeriesID,
		Metadata:    "{}",
	}); err != nil {
		log.Printf("Error inserting file record %s: %v", task.FileName, err)
		q.broadcast(task, "failed", "could not create file record")
		return
	}

	filesDir := SeriesFilesDir(q.dataDir, task.LocalSeriesID)

	// Preview download is best-effort.
	previewURL := q.catalog.PreviewImageURL(task.LibraryID, task.RemoteSeriesID, task.ID)
	if err := q.transfer.Download(ctx, previewURL, filepath.Join(filesDir, task.FileName+".jpg")); err != nil {
		log.Printf("Error downloading preview image for %s: %v", task.FileName, err)
	}

	start := time.Now()
	archiveURL := q.catalog.FileURL(task.ID)
	if err := q.transfer.DownloadArchive(ctx, archiveURL, filepath.Join(filesDir, task.FileName)); err != nil {
		// The record stays. The missing archive shows up in the next
		// library-verify run, from where the user can re-trigger the import.
		log.Printf("Error downloading file %s: %v", task.FileName, err)
		q.broadcast(task, "degraded", "archive download failed")
		return
	}

	log.Printf("%s downloaded in %s", task.FileName, time.Since(start).Round(time.Millisecond))
	q.broadcast(task, "completed", "import finished")
}

func (q *Queue) broadcast(task models.ImportTask, status, message string) {
	if q.hub == nil {
		return
	}
	q.hub.BroadcastJSON(models.ProgressUpdate{
		JobID:   "importer",
		Message: fmt.Sprintf("%s: %s", task.FileName, message),
		ItemID:  task.ID,
		Status:  status,
		Done:    true,
	})
}

// Pending returns the number of queued tasks.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Processing reports whether a drain cycle is active.
func (q *Queue) Processing() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.processing
}

// Snapshot returns a copy of the pending tasks for UI display.
func (q *Queue) Snapshot() []models.ImportTask {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := make([]models.ImportTask, len(q.pending))
	copy(tasks, q.pending)
	return tasks
}
