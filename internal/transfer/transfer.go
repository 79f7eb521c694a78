// Downloads binary assets (covers, previews, archives) from the remote
// server to the local data directory.

package transfer

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/melbahja/got"
)

// Service is the narrow contract consumed by the importer: fetch a URL to a
// local path, and make sure a directory exists. Implementations never panic;
// every failure is a returned error.
type Service interface {
	Download(ctx context.Context, url, dest string) error
	DownloadArchive(ctx context.Context, url, dest string) error
	EnsureDir(path string) error
}

// HTTPService downloads assets over plain HTTP. Small images go through a
// single GET; archives go through got, which splits large responses into
// concurrent ranged chunks when the server supports it.
type HTTPService struct {
	client *http.Client
}

// NewHTTPService creates an HTTPService with a generous timeout for large
// archive responses.
func NewHTTPService() *HTTPService {
	return &HTTPService{
		client: &http.Client{Timeout: 10 * time.Minute},
	}
}

// Download fetches url into dest. The body is written to a temporary file in
// the destination directory first, then renamed, so a failed download never
// leaves a truncated file behind.
func (s *HTTPService) Download(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download of %s returned status %d", url, resp.StatusCode)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".download-*")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", dest, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), dest)
}

// DownloadArchive fetches a (potentially large) archive into dest.
func (s *HTTPService) DownloadArchive(ctx context.Context, url, dest string) error {
	dl := got.NewDownload(ctx, url, dest)
	if err := dl.Init(); err != nil {
		return fmt.Errorf("failed to start archive download of %s: %w", url, err)
	}
	if err := dl.Start(); err != nil {
		return fmt.Errorf("archive download of %s failed: %w", url, err)
	}
	return nil
}

// EnsureDir creates path and any missing parents. An already existing
// directory is success.
func (s *HTTPService) EnsureDir(path string) error {
	return os.MkdirAll(path, os.ModePerm)
}
