package catalog

import "encoding/json"

// RemoteSeries is the metadata returned by the remote server for a series.
type RemoteSeries struct {
	ID        int64           `json:"id"`
	Path      string          `json:"path"`
	LibraryID int64           `json:"libraryId"`
	Title     string          `json:"title"`
	MangaData json.RawMessage `json:"mangaData"`
}

// RemoteFile is the metadata returned by the remote server for a file.
type RemoteFile struct {
	ID          int64  `json:"id"`
	FileName    string `json:"fileName"`
	FileFormat  string `json:"fileFormat"`
	Volume      int    `json:"volume"`
	Chapter     int    `json:"chapter"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
	IsRead      bool   `json:"isRead"`
	Path        string `json:"path"`
}
