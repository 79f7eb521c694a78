// This file is responsible for parsing archive files like .cbz and .zip to
// get at the image pages they contain.

package library

import (
	"archive/zip"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kumoreader/kumo-go/internal/models"
)

// isImageFile checks if a filename has a common image file extension.
func isImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".jpg" || ext == ".jpeg" || ext == ".png" || ext == ".gif" || ext == ".webp"
}

// IsSupportedArchive reports whether a file name looks like an importable
// archive.
func IsSupportedArchive(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".cbz" || ext == ".zip"
}

// FormatOf returns the file_format value for an archive name.
func FormatOf(name string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), ".")
}

// ParseArchive reads a .cbz/.zip file and returns a sorted list of its
// image pages.
func ParseArchive(filePath string) ([]*models.Page, error) {
	if !IsSupportedArchive(filePath) {
		return nil, fmt.Errorf("unsupported archive type: %s", filepath.Ext(filePath))
	}

	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var pages []*models.Page
	for _, f := range r.File {
		// Skip directories and non-image files
		if f.FileInfo().IsDir() || !isImageFile(f.Name) {
			continue
		}
		pages = append(pages, &models.Page{FileName: f.Name})
	}

	// Sort pages alphabetically by filename to ensure correct order.
	sort.Slice(pages, func(i, j int) bool {
		return pages[i].FileName < pages[j].FileName
	})

	// Assign index after sorting
	for i := range pages {
		pages[i].Index = i
	}

	return pages, nil
}

// CountPages returns the number of image pages in an archive.
func CountPages(filePath string) (int, error) {
	pages, err := ParseArchive(filePath)
	if err != nil {
		return 0, err
	}
	return len(pages), nil
}

// FirstPageData returns the raw bytes of the first image page of an
// archive, used for preview generation.
func FirstPageData(filePath string) ([]byte, error) {
	pages, err := ParseArchive(filePath)
	if err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("archive %s contains no image pages", filePath)
	}

	r, err := zip.OpenReader(filePath)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	for _, f := range r.File {
		if f.Name == pages[0].FileName {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}
	return nil, fmt.Errorf("first page %s vanished from archive", pages[0].FileName)
}
