package testutil

import (
	"testing"

	"github.com/kumoreader/kumo-go/internal/api"
	"github.com/kumoreader/kumo-go/internal/catalog"
	"github.com/kumoreader/kumo-go/internal/core"
	"github.com/kumoreader/kumo-go/internal/importer"
	"github.com/kumoreader/kumo-go/internal/store"
)

// SetupTestServer initializes a full core.App, import queue and api.Server
// for integration testing. The queue talks to a fake remote server built
// from fixture (which may be nil for an empty remote) and records its asset
// transfers instead of performing real downloads.
func SetupTestServer(t *testing.T, fixture *RemoteFixture) (*api.Server, *core.App, *importer.Queue) {
	t.Helper()
	app := SetupTestApp(t)

	if fixture == nil {
		fixture = &RemoteFixture{}
	}
	remote := NewRemoteServer(t, fixture)

	queue := importer.NewQueue(
		store.New(app.DB()),
		catalog.New(remote.URL),
		NewRecordingTransfer(),
		app.WsHub(),
		app.Config().Data.Path,
	)

	return api.NewServer(app, queue), app, queue
}
