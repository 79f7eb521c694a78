package importer

import (
	"path/filepath"
	"strconv"
)

// Local data directory layout, one folder per imported series:
//
//	<data>/series/<localID>/cover.jpg
//	<data>/series/<localID>/files/<fileName>
//	<data>/series/<localID>/files/<fileName>.jpg

func SeriesDir(dataDir string, localID int64) string {
	return filepath.Join(dataDir, "series", strconv.FormatInt(localID, 10))
}

func SeriesFilesDir(dataDir string, localID int64) string {
	return filepath.Join(SeriesDir(dataDir, localID), "files")
}

func CoverPath(dataDir string, localID int64) string {
	return filepath.Join(SeriesDir(dataDir, localID), "cover.jpg")
}
