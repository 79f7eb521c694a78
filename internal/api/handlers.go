package api

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/kumoreader/kumo-go/internal/importer"
)

func (s *Server) handleGetVersion(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, map[string]string{"version": s.app.Version()})
}

func (s *Server) handleListSeries(w http.ResponseWriter, r *http.Request) {
	seriesList, err := s.store.ListSeries()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list series")
		return
	}
	RespondWithJSON(w, http.StatusOK, seriesList)
}

func (s *Server) handleListSeriesFiles(w http.ResponseWriter, r *http.Request) {
	seriesID, err := seriesIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid series ID")
		return
	}

	files, err := s.store.ListFilesBySeries(seriesID)
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to list files")
		return
	}
	RespondWithJSON(w, http.StatusOK, files)
}

func (s *Server) handleGetSeriesCover(w http.ResponseWriter, r *http.Request) {
	seriesID, err := seriesIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid series ID")
		return
	}

	coverPath := importer.CoverPath(s.app.Config().Data.Path, seriesID)
	if _, err := os.Stat(coverPath); err != nil {
		RespondWithError(w, http.StatusNotFound, "Cover not found")
		return
	}
	http.ServeFile(w, r, coverPath)
}

// handleDeleteSeries removes a series, its file rows (cascade) and its data
// folder. A failure to remove the folder is logged but does not fail the
// request; the rows are already gone.
func (s *Server) handleDeleteSeries(w http.ResponseWriter, r *http.Request) {
	seriesID, err := seriesIDParam(r)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid series ID")
		return
	}

	if err := s.store.DeleteSeries(seriesID); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to delete series")
		return
	}

	if err := os.RemoveAll(importer.SeriesDir(s.app.Config().Data.Path, seriesID)); err != nil {
		log.Printf("Error deleting data folder for series %d: %v", seriesID, err)
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type progressPayload struct {
	CurrentPage int  `json:"current_page"`
	IsRead      bool `json:"is_read"`
}

func (s *Server) handleUpdateFileProgress(w http.ResponseWriter, r *http.Request) {
	fileID, err := strconv.ParseInt(chi.URLParam(r, "fileID"), 10, 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid file ID")
		return
	}

	var payload progressPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if err := s.store.UpdateFileProgress(fileID, payload.CurrentPage, payload.IsRead); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to update progress")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	config, err := s.store.AllConfig()
	if err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to read config")
		return
	}
	RespondWithJSON(w, http.StatusOK, config)
}

type configPayload struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (s *Server) handleSetConfig(w http.ResponseWriter, r *http.Request) {
	var payload configPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if payload.Key == "" {
		RespondWithError(w, http.StatusBadRequest, "key is required")
		return
	}

	if err := s.store.SetConfigValue(payload.Key, payload.Value); err != nil {
		RespondWithError(w, http.StatusInternalServerError, "Failed to save config")
		return
	}
	RespondWithJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, s.app.JobManager().GetStatus())
}

func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	jobName := chi.URLParam(r, "jobName")
	if err := s.app.JobManager().RunJob(jobName, s.app); err != nil {
		RespondWithError(w, http.StatusConflict, err.Error())
		return
	}
	RespondWithJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

func seriesIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "seriesID"), 10, 64)
}
