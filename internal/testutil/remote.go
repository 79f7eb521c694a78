// A fake remote library server for tests: the three metadata endpoints plus
// the binary asset routes, backed by in-memory fixtures.

package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/kumoreader/kumo-go/internal/catalog"
)

// RemoteFixture holds the data a fake remote server responds with.
type RemoteFixture struct {
	Series map[int64]catalog.RemoteSeries
	Files  map[int64][]catalog.RemoteFile // keyed by series id

	// Assets that should 404 instead of serving bytes.
	MissingCovers bool
}

// NewRemoteServer starts an httptest server speaking the remote library
// protocol over fixture. It shuts down with the test.
func NewRemoteServer(t *testing.T, fixture *RemoteFixture) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/series/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/series/")
		if id, ok := parseID(strings.TrimSuffix(rest, "/files")); ok && strings.HasSuffix(rest, "/files") {
			writeJSON(w, map[string]interface{}{"files": fixture.Files[id]})
			return
		}
		id, ok := parseID(rest)
		if !ok {
			http.NotFound(w, r)
			return
		}
		series, found := fixture.Series[id]
		if !found {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, series)
	})

	mux.HandleFunc("/file/", func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseID(strings.TrimPrefix(r.URL.Path, "/file/"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		for _, files := range fixture.Files {
			for _, f := range files {
				if f.ID == id {
					writeJSON(w, map[string]interface{}{"file": f})
					return
				}
			}
		}
		http.NotFound(w, r)
	})

	mux.HandleFunc("/cover-image/", func(w http.ResponseWriter, r *http.Request) {
		if fixture.MissingCovers {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, "cover-bytes")
	})
	mux.HandleFunc("/preview-image/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "preview-bytes")
	})
	mux.HandleFunc("/get-file/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "archive-bytes")
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func parseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	return id, err == nil
}

func writeJSON(w http.ResponseWriter, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}
