package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/kumoreader/kumo-go/internal/models"
)

func TestHub(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	// Mock client
	client := &Client{
		hub:  hub,
		send: make(chan []byte, 1),
	}

	// Test registration
	hub.register <- client
	time.Sleep(10 * time.Millisecond)
	if len(hub.clients) != 1 {
		t.Fatalf("Expected 1 client after registration, got %d", len(hub.clients))
	}

	// Test broadcast of a progress update
	hub.BroadcastJSON(models.ProgressUpdate{
		JobID:   "importer",
		Message: "Imported a.cbz",
		Status:  "completed",
		Done:    true,
	})

	select {
	case received := <-client.send:
		var update models.ProgressUpdate
		if err := json.Unmarshal(received, &update); err != nil {
			t.Fatalf("Broadcast payload is not valid JSON: %v", err)
		}
		if update.JobID != "importer" || update.Message != "Imported a.cbz" {
			t.Errorf("Client received wrong payload: %+v", update)
		}
	case <-time.After(1 * time.Second):
		t.Fatal("Client did not receive broadcast message in time")
	}

	// Test unregistration
	hub.unregister <- client
	// Allow the hub to process the unregister message
	time.Sleep(10 * time.Millisecond)
	if len(hub.clients) != 0 {
		t.Fatalf("Expected 0 clients after unregistration, got %d", len(hub.clients))
	}
}
