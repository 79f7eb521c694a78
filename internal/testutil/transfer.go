// A recording stand-in for the asset transfer service. It writes small
// placeholder files so disk-state assertions work, and can be told to fail
// specific URLs to exercise partial-failure paths.

package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

type RecordingTransfer struct {
	mu        sync.Mutex
	Downloads []string // URLs passed to Download
	Archives  []string // URLs passed to DownloadArchive
	Dirs      []string // paths passed to EnsureDir

	// FailURL makes any download of a URL containing this substring fail.
	FailURL string
}

func NewRecordingTransfer() *RecordingTransfer {
	return &RecordingTransfer{}
}

func (r *RecordingTransfer) Download(ctx context.Context, url, dest string) error {
	r.mu.Lock()
	r.Downloads = append(r.Downloads, url)
	r.mu.Unlock()
	return r.write(url, dest)
}

func (r *RecordingTransfer) DownloadArchive(ctx context.Context, url, dest string) error {
	r.mu.Lock()
	r.Archives = append(r.Archives, url)
	r.mu.Unlock()
	return r.write(url, dest)
}

func (r *RecordingTransfer) EnsureDir(path string) error {
	r.mu.Lock()
	r.Dirs = append(r.Dirs, path)
	r.mu.Unlock()
	return os.MkdirAll(path, os.ModePerm)
}

func (r *RecordingTransfer) write(url, dest string) error {
	if r.FailURL != "" && strings.Contains(url, r.FailURL) {
		return fmt.Errorf("stubbed failure for %s", url)
	}
	if err := os.MkdirAll(filepath.Dir(dest), os.ModePerm); err != nil {
		return err
	}
	return os.WriteFile(dest, []byte("stub-asset"), 0644)
}

// DownloadCount returns how many image downloads were recorded.
func (r *RecordingTransfer) DownloadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Downloads)
}

// ArchiveCount returns how many archive downloads were recorded.
func (r *RecordingTransfer) ArchiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.Archives)
}
