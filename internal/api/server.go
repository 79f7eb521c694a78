// It defines the API server, sets up the routes (endpoints)
// using chi, and links them to the handler functions.

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kumoreader/kumo-go/internal/core"
	"github.com/kumoreader/kumo-go/internal/importer"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/websocket"
)

// Server holds the dependencies for our API.
type Server struct {
	app   *core.App
	store *store.Store
	queue *importer.Queue
}

// Store returns the store instance.
func (s *Server) Store() *store.Store {
	return s.store
}

// NewServer creates a new Server instance.
func NewServer(app *core.App, queue *importer.Queue) *Server {
	return &Server{
		app:   app,
		store: store.New(app.DB()),
		queue: queue,
	}
}

// Router sets up and returns the main router for the application.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)    // Logs requests to the console
	r.Use(middleware.Recoverer) // Recovers from panics
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleGetVersion)

		// Import queue
		r.Post("/import/file", s.handleImportFile)
		r.Post("/import/series", s.handleImportSeries)
		r.Get("/import/queue", s.handleImportQueueStatus)

		// Local library
		r.Get("/series", s.handleListSeries)
		r.Get("/series/{seriesID}/files", s.handleListSeriesFiles)
		r.Get("/series/{seriesID}/cover", s.handleGetSeriesCover)
		r.Delete("/series/{seriesID}", s.handleDeleteSeries)
		r.Post("/series/{seriesID}/files/{fileID}/progress", s.handleUpdateFileProgress)

		// Reader configuration
		r.Get("/config", s.handleGetConfig)
		r.Put("/config", s.handleSetConfig)

		// Background jobs
		r.Get("/jobs/status", s.handleJobStatus)
		r.Post("/jobs/{jobName}/run", s.handleRunJob)
	})

	// WebSocket progress feed
	r.Get("/api/ws", func(w http.ResponseWriter, r *http.Request) {
		websocket.ServeWs(s.app.WsHub(), w, r)
	})

	return r
}
