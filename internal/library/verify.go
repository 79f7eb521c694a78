// The library-verify job: finds file records whose archive is missing on
// disk. Import failures are log-and-drop (there is no automatic retry), so
// this is how degraded imports eventually surface to the user.

package library

import (
	"log"
	"os"
	"path/filepath"

	"github.com/kumoreader/kumo-go/internal/importer"
	"github.com/kumoreader/kumo-go/internal/jobs"
	"github.com/kumoreader/kumo-go/internal/models"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/websocket"
)

// MissingArchives returns every file record whose archive does not exist
// under the data directory.
func MissingArchives(st *store.Store, dataDir string) ([]*models.File, error) {
	files, err := st.ListAllFiles()
	if err != nil {
		return nil, err
	}

	var missing []*models.File
	for _, f := range files {
		archivePath := filepath.Join(importer.SeriesFilesDir(dataDir, f.SeriesID), f.FileName)
		if !fileExists(archivePath) {
			missing = append(missing, f)
		}
	}
	return missing, nil
}

// RunVerifyJob is the "library-verify" job task. It reports each degraded
// record over the websocket hub so the UI can offer a re-import.
func RunVerifyJob(ctx jobs.JobContext) {
	st := store.New(ctx.DB())
	missing, err := MissingArchives(st, ctx.Config().Data.Path)
	if err != nil {
		log.Printf("Library verify failed: %v", err)
		return
	}

	for _, f := range missing {
		log.Printf("Archive missing for file %s (series %d)", f.FileName, f.SeriesID)
		broadcastMissing(ctx.WsHub(), f)
	}

	total, err := st.CountFiles()
	if err != nil {
		total = -1
	}
	log.Printf("Library verify complete: %d of %d file(s) missing their archive", len(missing), total)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func broadcastMissing(hub *websocket.Hub, f *models.File) {
	if hub == nil {
		return
	}
	hub.BroadcastJSON(models.ProgressUpdate{
		JobID:   "library-verify",
		Message: f.FileName + ": archive missing on disk",
		ItemID:  f.ID,
		Status:  "degraded",
		Done:    true,
	})
}
