package store_test

import (
	"testing"

	"github.com/kumoreader/kumo-go/internal/models"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/testutil"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(testutil.SetupTestDB(t))
}

func insertTestSeries(t *testing.T, st *store.Store, title string) int64 {
	t.Helper()
	id, err := st.InsertSeries(title, "slug", "/remote/path", "{}", "{}", "cover.jpg")
	if err != nil {
		t.Fatalf("Failed to insert series %q: %v", title, err)
	}
	return id
}

func insertTestFile(t *testing.T, st *store.Store, seriesID int64, name string, volume, chapter int) int64 {
	t.Helper()
	id, err := st.InsertFile(&models.File{
		Path:        "/remote/files/" + name,
		FileName:    name,
		FileFormat:  "cbz",
		Volume:      volume,
		Chapter:     chapter,
		TotalPages:  20,
		CurrentPage: 1,
		SeriesID:    seriesID,
		Metadata:    "{}",
	})
	if err != nil {
		t.Fatalf("Failed to insert file %q: %v", name, err)
	}
	return id
}

func TestSeriesRoundTrip(t *testing.T) {
	st := newTestStore(t)

	id := insertTestSeries(t, st, "One Piece")

	byTitle, err := st.GetSeriesByTitle("One Piece")
	if err != nil {
		t.Fatalf("GetSeriesByTitle failed: %v", err)
	}
	if byTitle == nil || byTitle.ID != id {
		t.Fatalf("Expected series %d, got %+v", id, byTitle)
	}

	byID, err := st.GetSeriesByID(id)
	if err != nil {
		t.Fatalf("GetSeriesByID failed: %v", err)
	}
	if byID.Title != "One Piece" {
		t.Errorf("Expected title 'One Piece', got %q", byID.Title)
	}
}

func TestGetSeriesByTitleNotFound(t *testing.T) {
	st := newTestStore(t)

	series, err := st.GetSeriesByTitle("Nothing Here")
	if err != nil {
		t.Fatalf("Expected no error for a missing title, got %v", err)
	}
	if series != nil {
		t.Errorf("Expected nil for a missing title, got %+v", series)
	}
}

func TestListSeriesOrderAndFileCount(t *testing.T) {
	st := newTestStore(t)

	bID := insertTestSeries(t, st, "Berserk")
	aID := insertTestSeries(t, st, "Akira")
	insertTestFile(t, st, bID, "v01.cbz", 1, 1)
	insertTestFile(t, st, bID, "v02.cbz", 2, 1)

	list, err := st.ListSeries()
	if err != nil {
		t.Fatalf("ListSeries failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("Expected 2 series, got %d", len(list))
	}
	if list[0].ID != aID || list[1].ID != bID {
		t.Errorf("Expected title order Akira, Berserk; got %q, %q", list[0].Title, list[1].Title)
	}
	if list[0].FileCount != 0 || list[1].FileCount != 2 {
		t.Errorf("Unexpected file counts: %d, %d", list[0].FileCount, list[1].FileCount)
	}
}

func TestFileNaturalKeyIsUnique(t *testing.T) {
	st := newTestStore(t)

	seriesID := insertTestSeries(t, st, "Berserk")
	insertTestFile(t, st, seriesID, "v01.cbz", 1, 1)

	_, err := st.InsertFile(&models.File{
		Path: "/elsewhere", FileName: "v01.cbz", FileFormat: "cbz",
		SeriesID: seriesID, Metadata: "{}",
	})
	if err == nil {
		t.Fatal("Expected a constraint violation for a duplicate (series, file name) pair")
	}

	// The same file name under a different series is fine.
	otherID := insertTestSeries(t, st, "Akira")
	insertTestFile(t, st, otherID, "v01.cbz", 1, 1)
}

func TestGetFileByNameAndSeries(t *testing.T) {
	st := newTestStore(t)

	seriesID := insertTestSeries(t, st, "Berserk")
	fileID := insertTestFile(t, st, seriesID, "v01.cbz", 1, 1)

	file, err := st.GetFileByNameAndSeries("v01.cbz", seriesID)
	if err != nil {
		t.Fatalf("GetFileByNameAndSeries failed: %v", err)
	}
	if file == nil || file.ID != fileID {
		t.Fatalf("Expected file %d, got %+v", fileID, file)
	}

	missing, err := st.GetFileByNameAndSeries("v99.cbz", seriesID)
	if err != nil {
		t.Fatalf("Expected no error for a missing file, got %v", err)
	}
	if missing != nil {
		t.Errorf("Expected nil for a missing file, got %+v", missing)
	}
}

func TestListFilesBySeriesReadingOrder(t *testing.T) {
	st := newTestStore(t)

	seriesID := insertTestSeries(t, st, "Berserk")
	insertTestFile(t, st, seriesID, "v02c01.cbz", 2, 1)
	insertTestFile(t, st, seriesID, "v01c02.cbz", 1, 2)
	insertTestFile(t, st, seriesID, "v01c01.cbz", 1, 1)

	files, err := st.ListFilesBySeries(seriesID)
	if err != nil {
		t.Fatalf("ListFilesBySeries failed: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 files, got %d", len(files))
	}
	want := []string{"v01c01.cbz", "v01c02.cbz", "v02c01.cbz"}
	for i, name := range want {
		if files[i].FileName != name {
			t.Errorf("Position %d: expected %q, got %q", i, name, files[i].FileName)
		}
	}
}

func TestDeleteSeriesCascadesToFiles(t *testing.T) {
	st := newTestStore(t)

	seriesID := insertTestSeries(t, st, "Berserk")
	insertTestFile(t, st, seriesID, "v01.cbz", 1, 1)
	insertTestFile(t, st, seriesID, "v02.cbz", 2, 1)

	if err := st.DeleteSeries(seriesID); err != nil {
		t.Fatalf("DeleteSeries failed: %v", err)
	}

	files, err := st.ListAllFiles()
	if err != nil {
		t.Fatalf("ListAllFiles failed: %v", err)
	}
	if len(files) != 0 {
		t.Errorf("Expected cascade delete to remove file rows, %d remain", len(files))
	}
}

func TestCountFiles(t *testing.T) {
	st := newTestStore(t)

	count, err := st.CountFiles()
	if err != nil {
		t.Fatalf("CountFiles failed: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 files in an empty library, got %d", count)
	}

	seriesID := insertTestSeries(t, st, "Berserk")
	insertTestFile(t, st, seriesID, "v01.cbz", 1, 1)
	insertTestFile(t, st, seriesID, "v02.cbz", 2, 1)

	count, err = st.CountFiles()
	if err != nil {
		t.Fatalf("CountFiles failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 files, got %d", count)
	}
}

func TestUpdateFileProgress(t *testing.T) {
	st := newTestStore(t)

	seriesID := insertTestSeries(t, st, "Berserk")
	fileID := insertTestFile(t, st, seriesID, "v01.cbz", 1, 1)

	if err := st.UpdateFileProgress(fileID, 17, true); err != nil {
		t.Fatalf("UpdateFileProgress failed: %v", err)
	}

	file, err := st.GetFileByNameAndSeries("v01.cbz", seriesID)
	if err != nil || file == nil {
		t.Fatalf("File row missing: %v", err)
	}
	if file.CurrentPage != 17 || !file.IsRead {
		t.Errorf("Progress not persisted: page=%d read=%v", file.CurrentPage, file.IsRead)
	}
}
