package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kumoreader/kumo-go/internal/api"
	"github.com/kumoreader/kumo-go/internal/catalog"
	"github.com/kumoreader/kumo-go/internal/core"
	"github.com/kumoreader/kumo-go/internal/importer"
	"github.com/kumoreader/kumo-go/internal/jobs"
	"github.com/kumoreader/kumo-go/internal/library"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/transfer"
)

var version = "dev"

func main() {
	log.SetOutput(os.Stdout)
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Initialize the core application components
	app, err := core.New(version)
	if err != nil {
		log.Fatalf("Fatal error during application setup: %v", err)
	}
	defer app.Close()

	st := store.New(app.DB())

	// The remote server address lives in the config table (the UI edits it
	// there); config.yml only provides the initial value.
	serverURL, err := st.GetConfigValue("server")
	if err != nil {
		log.Fatalf("Could not read server address: %v", err)
	}
	if serverURL == "" && app.Config().Server.URL != "" {
		serverURL = app.Config().Server.URL
		if err := st.SetConfigValue("server", serverURL); err != nil {
			log.Printf("Warning: could not persist server address: %v", err)
		}
	}
	if serverURL == "" {
		log.Println("No remote server configured; imports will fail until one is set.")
	}

	// Wire up the import queue and start its consumer.
	queue := importer.NewQueue(st, catalog.New(serverURL), transfer.NewHTTPService(), app.WsHub(), app.Config().Data.Path)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	queue.Start(ctx)

	// Register background jobs and start the scheduler.
	app.JobManager().Register("library-verify", library.RunVerifyJob)
	jobs.StartJobs(app)

	// Watch the data directory so manual changes surface in the UI.
	watcher := library.NewWatcherService(app)
	if err := watcher.Start(); err != nil {
		log.Printf("Warning: could not start data directory watcher: %v", err)
	} else {
		defer watcher.Stop()
	}

	// Setup the API server
	server := api.NewServer(app, queue)
	addr := fmt.Sprintf(":%d", app.Config().Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Router(),
	}
	// --- Graceful Shutdown ---
	// Start the server in a goroutine so it doesn't block.
	go func() {
		log.Printf("Starting web server on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not start server: %v", err)
		}
	}()

	// Wait for an interrupt signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a context with a timeout to allow existing connections to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	// Attempt a graceful shutdown.
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited.")
}
