package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kumoreader/kumo-go/internal/catalog"
	"github.com/kumoreader/kumo-go/internal/models"
	"github.com/kumoreader/kumo-go/internal/testutil"
)

func importFixture() *testutil.RemoteFixture {
	return &testutil.RemoteFixture{
		Series: map[int64]catalog.RemoteSeries{
			5: {ID: 5, Path: "/remote/series/5", LibraryID: 2, Title: "Blame", MangaData: json.RawMessage(`{}`)},
		},
		Files: map[int64][]catalog.RemoteFile{
			5: {
				{ID: 50, FileName: "v01.cbz", FileFormat: "cbz", Volume: 1, Chapter: 1, TotalPages: 30, CurrentPage: 1, Path: "/remote/files/50"},
				{ID: 51, FileName: "v02.cbz", FileFormat: "cbz", Volume: 2, Chapter: 1, TotalPages: 30, CurrentPage: 1, Path: "/remote/files/51"},
			},
		},
	}
}

func TestImportFile(t *testing.T) {
	server, _, queue := testutil.SetupTestServer(t, importFixture())
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	body := bytes.NewBufferString(`{"series_id": 5, "file_id": 50}`)
	resp, err := http.Post(ts.URL+"/api/import/file", "application/json", body)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", resp.StatusCode)
	}

	// The enqueue happens after the response; wait for the task to land.
	waitFor(t, 2*time.Second, func() bool { return queue.Pending() == 1 })

	tasks := queue.Snapshot()
	if tasks[0].FileName != "v01.cbz" {
		t.Errorf("Unexpected queued task: %+v", tasks[0])
	}
}

func TestImportFileValidation(t *testing.T) {
	server, _, _ := testutil.SetupTestServer(t, importFixture())
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	cases := []string{
		`{"series_id": 5}`,
		`{"file_id": 50}`,
		`not json`,
	}
	for _, payload := range cases {
		resp, err := http.Post(ts.URL+"/api/import/file", "application/json", bytes.NewBufferString(payload))
		if err != nil {
			t.Fatalf("Request failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("Payload %q: expected 400, got %d", payload, resp.StatusCode)
		}
	}
}

func TestImportSeries(t *testing.T) {
	server, _, queue := testutil.SetupTestServer(t, importFixture())
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	body := bytes.NewBufferString(`{"series_id": 5}`)
	resp, err := http.Post(ts.URL+"/api/import/series", "application/json", body)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d", resp.StatusCode)
	}

	waitFor(t, 2*time.Second, func() bool { return queue.Pending() == 2 })
}

func TestImportQueueStatus(t *testing.T) {
	server, _, queue := testutil.SetupTestServer(t, importFixture())
	ts := httptest.NewServer(server.Router())
	defer ts.Close()

	// Empty queue first: tasks must be a JSON array, not null.
	resp, err := http.Get(ts.URL + "/api/import/queue")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	var status struct {
		Processing bool                `json:"processing"`
		Pending    int                 `json:"pending"`
		Tasks      []models.ImportTask `json:"tasks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	resp.Body.Close()
	if status.Pending != 0 || status.Processing || status.Tasks == nil {
		t.Errorf("Unexpected empty-queue status: %+v", status)
	}

	queue.EnqueueSeries(context.Background(), 5)

	resp, err = http.Get(ts.URL + "/api/import/queue")
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if status.Pending != 2 || len(status.Tasks) != 2 {
		t.Errorf("Unexpected queue status after enqueue: %+v", status)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("Condition not met before timeout")
}
