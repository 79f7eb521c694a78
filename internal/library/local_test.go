package library_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kumoreader/kumo-go/internal/importer"
	"github.com/kumoreader/kumo-go/internal/library"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/testutil"
)

func TestAddLocalSeriesImportsArchives(t *testing.T) {
	st := store.New(testutil.SetupTestDB(t))
	srcDir := t.TempDir()
	dataDir := t.TempDir()

	a := testutil.CreateTestCBZ(t, srcDir, "v01.cbz", []string{"001.png", "002.png"})
	b := testutil.CreateTestCBZ(t, srcDir, "v02.cbz", []string{"001.png"})

	series, err := library.AddLocalSeries(st, dataDir, "Dorohedoro", `{"authors":["Q. Hayashida"]}`, []string{a, b})
	if err != nil {
		t.Fatalf("AddLocalSeries failed: %v", err)
	}
	if series.Title != "Dorohedoro" {
		t.Errorf("Unexpected series title %q", series.Title)
	}

	files, err := st.ListFilesBySeries(series.ID)
	if err != nil {
		t.Fatalf("ListFilesBySeries failed: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("Expected 2 file rows, got %d", len(files))
	}
	if files[0].TotalPages != 2 || files[0].CurrentPage != 1 {
		t.Errorf("Page data not recorded: total=%d current=%d", files[0].TotalPages, files[0].CurrentPage)
	}

	filesDir := importer.SeriesFilesDir(dataDir, series.ID)
	for _, name := range []string{"v01.cbz", "v02.cbz"} {
		if _, err := os.Stat(filepath.Join(filesDir, name)); err != nil {
			t.Errorf("Archive %s not copied: %v", name, err)
		}
		if _, err := os.Stat(filepath.Join(filesDir, name+".jpg")); err != nil {
			t.Errorf("Preview for %s not generated: %v", name, err)
		}
	}
}

func TestAddLocalSeriesReusesSeriesAndSkipsDuplicates(t *testing.T) {
	st := store.New(testutil.SetupTestDB(t))
	srcDir := t.TempDir()
	dataDir := t.TempDir()

	a := testutil.CreateTestCBZ(t, srcDir, "v01.cbz", []string{"001.png"})

	first, err := library.AddLocalSeries(st, dataDir, "Dorohedoro", "", []string{a})
	if err != nil {
		t.Fatalf("First AddLocalSeries failed: %v", err)
	}
	second, err := library.AddLocalSeries(st, dataDir, "Dorohedoro", "", []string{a})
	if err != nil {
		t.Fatalf("Second AddLocalSeries failed: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("Expected series reuse, got IDs %d and %d", first.ID, second.ID)
	}

	files, _ := st.ListFilesBySeries(first.ID)
	if len(files) != 1 {
		t.Errorf("Duplicate import created %d file rows, want 1", len(files))
	}
}

func TestAddLocalSeriesSkipsUnsupportedFiles(t *testing.T) {
	st := store.New(testutil.SetupTestDB(t))
	srcDir := t.TempDir()
	dataDir := t.TempDir()

	txt := filepath.Join(srcDir, "notes.txt")
	if err := os.WriteFile(txt, []byte("not an archive"), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	cbz := testutil.CreateTestCBZ(t, srcDir, "v01.cbz", []string{"001.png"})

	series, err := library.AddLocalSeries(st, dataDir, "Dorohedoro", "", []string{txt, cbz})
	if err != nil {
		t.Fatalf("AddLocalSeries failed: %v", err)
	}

	files, _ := st.ListFilesBySeries(series.ID)
	if len(files) != 1 {
		t.Fatalf("Expected only the cbz to import, got %d rows", len(files))
	}
	if files[0].FileName != "v01.cbz" {
		t.Errorf("Unexpected imported file %q", files[0].FileName)
	}
}
