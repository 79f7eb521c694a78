// The direct "add files" flow: import archives that already live on the
// user's disk into the local library, without touching the remote server.

package library

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/kumoreader/kumo-go/internal/importer"
	"github.com/kumoreader/kumo-go/internal/models"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/util"
)

// AddLocalSeries creates (or reuses, matched by title) a local series and
// imports the given archives into it. Unsupported files are skipped with a
// log line; archives that already have a file record are skipped silently.
func AddLocalSeries(st *store.Store, dataDir, title, mangaData string, archivePaths []string) (*models.Series, error) {
	if mangaData == "" {
		mangaData = "{}"
	}

	series, err := st.GetSeriesByTitle(title)
	if err != nil {
		return nil, fmt.Errorf("looking up series %q: %w", title, err)
	}
	if series == nil {
		id, err := st.InsertSeries(title, util.Slugify(title), "", mangaData, "{}", "cover.jpg")
		if err != nil {
			return nil, fmt.Errorf("creating series %q: %w", title, err)
		}
		series, err = st.GetSeriesByID(id)
		if err != nil {
			return nil, err
		}
	}

	filesDir := importer.SeriesFilesDir(dataDir, series.ID)
	if err := os.MkdirAll(filesDir, os.ModePerm); err != nil {
		return nil, fmt.Errorf("creating series folder: %w", err)
	}

	for _, src := range archivePaths {
		if err := addLocalFile(st, series.ID, filesDir, src); err != nil {
			log.Printf("Error adding local file %s: %v", src, err)
		}
	}

	return series, nil
}

func addLocalFile(st *store.Store, seriesID int64, filesDir, src string) error {
	base := filepath.Base(src)
	if !IsSupportedArchive(base) {
		return fmt.Errorf("unsupported file type")
	}
	fileName := util.SanitizeFilename(base)

	existing, err := st.GetFileByNameAndSeries(fileName, seriesID)
	if err != nil {
		return err
	}
	if existing != nil {
		log.Printf("File %s already exists in series %d, skipping", fileName, seriesID)
		return nil
	}

	totalPages, err := CountPages(src)
	if err != nil {
		return fmt.Errorf("counting pages: %w", err)
	}

	dest := filepath.Join(filesDir, fileName)
	if err := copyFile(src, dest); err != nil {
		return fmt.Errorf("copying archive: %w", err)
	}

	// Preview generation is best-effort.
	if err := WritePreview(dest, dest+".jpg"); err != nil {
		log.Printf("Error generating preview for %s: %v", fileName, err)
	}

	_, err = st.InsertFile(&models.File{
		Path:        dest,
		FileName:    fileName,
		FileFormat:  FormatOf(fileName),
		TotalPages:  totalPages,
		CurrentPage: 1,
		SeriesID:    seriesID,
		Metadata:    "{}",
	})
	return err
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
