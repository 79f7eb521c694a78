// Shared test setup utilities, which simplify the importer and API tests.

package testutil

import (
	"testing"

	"github.com/kumoreader/kumo-go/internal/config"
	"github.com/kumoreader/kumo-go/internal/core"
	"github.com/kumoreader/kumo-go/internal/jobs"
	"github.com/kumoreader/kumo-go/internal/websocket"
)

// SetupTestApp initializes a core.App backed by an in-memory database and a
// throwaway data directory.
func SetupTestApp(t *testing.T) *core.App {
	t.Helper()
	database := SetupTestDB(t)

	cfg := &config.Config{}
	cfg.Data.Path = t.TempDir()

	hub := websocket.NewHub()
	go hub.Run()

	return core.NewApp(cfg, database, hub, jobs.NewManager(), "test")
}
