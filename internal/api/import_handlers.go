// Handlers for the import queue endpoints. Enqueueing is fire-and-forget:
// the handler answers 202 immediately and the queue logs any failure
// internally, matching how the UI treats imports.

package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kumoreader/kumo-go/internal/models"
)

type importFilePayload struct {
	SeriesID int64 `json:"series_id"`
	FileID   int64 `json:"file_id"`
}

type importSeriesPayload struct {
	SeriesID int64 `json:"series_id"`
}

func (s *Server) handleImportFile(w http.ResponseWriter, r *http.Request) {
	var payload importFilePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.SeriesID == 0 || payload.FileID == 0 {
		RespondWithError(w, http.StatusBadRequest, "series_id and file_id are required")
		return
	}

	// The enqueue outlives the request; it performs remote fetches of its own.
	go s.queue.EnqueueFile(context.Background(), payload.SeriesID, payload.FileID)

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleImportSeries(w http.ResponseWriter, r *http.Request) {
	var payload importSeriesPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.SeriesID == 0 {
		RespondWithError(w, http.StatusBadRequest, "series_id is required")
		return
	}

	go s.queue.EnqueueSeries(context.Background(), payload.SeriesID)

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func (s *Server) handleImportQueueStatus(w http.ResponseWriter, r *http.Request) {
	tasks := s.queue.Snapshot()
	if tasks == nil {
		tasks = []models.ImportTask{}
	}
	RespondWithJSON(w, http.StatusOK, map[string]interface{}{
		"processing": s.queue.Processing(),
		"pending":    len(tasks),
		"tasks":      tasks,
	})
}
