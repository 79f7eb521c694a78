// This file defines the core data structures (models) for the local
// library: series mirrored from the remote server and the archive files
// that belong to them.

package models

import "time"

// Series represents one manga series in the local library. MangaData and
// Metadata hold serialized JSON blobs; CoverImage is the file name of the
// cover inside the series' data directory.
type Series struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	TitleSafe  string    `json:"title_safe"`
	Path       string    `json:"path"`
	MangaData  string    `json:"manga_data"`
	Metadata   string    `json:"metadata"`
	CoverImage string    `json:"cover_image"`
	FileCount  int       `json:"file_count,omitempty"`
	Files      []*File   `json:"files,omitempty"` // omitempty hides it when not loaded
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// File represents a single importable archive (cbz/zip) of a series.
type File struct {
	ID          int64     `json:"id"`
	Path        string    `json:"path"`
	FileName    string    `json:"file_name"`
	FileFormat  string    `json:"file_format"`
	Volume      int       `json:"volume"`
	Chapter     int       `json:"chapter"`
	TotalPages  int       `json:"total_pages"`
	CurrentPage int       `json:"current_page"`
	IsRead      bool      `json:"is_read"`
	SeriesID    int64     `json:"series_id"`
	Metadata    string    `json:"metadata"`
	CreatedAt   time.Time `json:"-"` // Hide from JSON responses
	UpdatedAt   time.Time `json:"-"` // Hide from JSON responses
}

// Page represents a single page within an archive, which is an image file
// inside it.
type Page struct {
	FileName string `json:"file_name"`
	Index    int    `json:"index"`
}
