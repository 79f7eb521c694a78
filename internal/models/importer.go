package models

import "fmt"

// ImportTask is one file's pending import. Tasks live only in the in-memory
// queue; they are dropped once their batch settles, whether or not the
// download steps succeeded.
type ImportTask struct {
	ID             int64  `json:"id"` // remote file id
	Path           string `json:"path"`
	FileName       string `json:"file_name"`
	FileFormat     string `json:"file_format"`
	Volume         int    `json:"volume"`
	Chapter        int    `json:"chapter"`
	TotalPages     int    `json:"total_pages"`
	CurrentPage    int    `json:"current_page"`
	IsRead         bool   `json:"is_read"`
	LibraryID      int64  `json:"library_id"`
	LocalSeriesID  int64  `json:"local_series_id"`
	RemoteSeriesID int64  `json:"remote_series_id"`
	SeriesTitle    string `json:"series_title"`
}

// Key returns the deduplication key for the task. Two tasks with the same
// key address the same local file record.
func (t ImportTask) Key() string {
	return fmt.Sprintf("%d-%s", t.LocalSeriesID, t.FileName)
}

// ProgressUpdate is the payload broadcast over the WebSocket hub while the
// import queue and background jobs are working.
type ProgressUpdate struct {
	JobID    string  `json:"job_id"`
	Message  string  `json:"message"`
	Progress float64 `json:"progress"`
	ItemID   int64   `json:"item_id,omitempty"`
	Status   string  `json:"status,omitempty"`
	Done     bool    `json:"done"`
}
