package library_test

import (
	"bytes"
	"image"
	_ "image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/kumoreader/kumo-go/internal/library"
	"github.com/kumoreader/kumo-go/internal/testutil"
)

func TestGenerateThumbnail(t *testing.T) {
	thumb, err := library.GenerateThumbnail(testutil.TestPNG(t))
	if err != nil {
		t.Fatalf("GenerateThumbnail failed: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("Thumbnail is not a decodable image: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("Expected a jpeg thumbnail, got %s", format)
	}
	if img.Bounds().Dx() == 0 || img.Bounds().Dy() == 0 {
		t.Error("Thumbnail has zero dimensions")
	}
}

func TestGenerateThumbnailRejectsGarbage(t *testing.T) {
	if _, err := library.GenerateThumbnail([]byte("not an image")); err == nil {
		t.Fatal("Expected an error for non-image data")
	}
}

func TestWritePreview(t *testing.T) {
	dir := t.TempDir()
	archive := testutil.CreateTestCBZ(t, dir, "v01.cbz", []string{"001.png"})
	preview := filepath.Join(dir, "v01.cbz.jpg")

	if err := library.WritePreview(archive, preview); err != nil {
		t.Fatalf("WritePreview failed: %v", err)
	}

	data, err := os.ReadFile(preview)
	if err != nil {
		t.Fatalf("Preview file missing: %v", err)
	}
	if _, format, err := image.Decode(bytes.NewReader(data)); err != nil || format != "jpeg" {
		t.Errorf("Preview is not a jpeg (%s): %v", format, err)
	}
}
