// The read-only client for the remote library server. It covers the three
// metadata endpoints the importer needs plus the URL builders for binary
// assets (covers, previews, archives).

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Client performs read requests against a remote library server.
type Client struct {
	client  *http.Client
	baseURL string
}

// New creates a new Client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		client:  &http.Client{Timeout: 20 * time.Second},
		baseURL: baseURL,
	}
}

// GetSeries fetches the metadata of a single remote series.
func (c *Client) GetSeries(ctx context.Context, seriesID int64) (*RemoteSeries, error) {
	var series RemoteSeries
	if err := c.getJSON(ctx, fmt.Sprintf("%s/series/%d", c.baseURL, seriesID), &series); err != nil {
		return nil, err
	}
	if series.Title == "" {
		return nil, fmt.Errorf("series %d has no title in remote response", seriesID)
	}
	return &series, nil
}

// GetSeriesFiles fetches the file listing of a remote series.
func (c *Client) GetSeriesFiles(ctx context.Context, seriesID int64) ([]RemoteFile, error) {
	var payload struct {
		Files []RemoteFile `json:"files"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/series/%d/files", c.baseURL, seriesID), &payload); err != nil {
		return nil, err
	}
	return payload.Files, nil
}

// GetFile fetches the metadata of a single remote file.
func (c *Client) GetFile(ctx context.Context, fileID int64) (*RemoteFile, error) {
	var payload struct {
		File *RemoteFile `json:"file"`
	}
	if err := c.getJSON(ctx, fmt.Sprintf("%s/file/%d", c.baseURL, fileID), &payload); err != nil {
		return nil, err
	}
	if payload.File == nil {
		return nil, fmt.Errorf("file %d missing from remote response", fileID)
	}
	return payload.File, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("remote server returned status %d for %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(dest)
}

// CoverImageURL returns the download URL of a series' cover image.
func (c *Client) CoverImageURL(libraryID, seriesID int64) string {
	return fmt.Sprintf("%s/cover-image/%d/%d.jpg", c.baseURL, libraryID, seriesID)
}

// PreviewImageURL returns the download URL of a file's preview thumbnail.
func (c *Client) PreviewImageURL(libraryID, seriesID, fileID int64) string {
	return fmt.Sprintf("%s/preview-image/%d/%d/%d.jpg", c.baseURL, libraryID, seriesID, fileID)
}

// FileURL returns the download URL of a file's archive content.
func (c *Client) FileURL(fileID int64) string {
	return fmt.Sprintf("%s/get-file/%d", c.baseURL, fileID)
}
