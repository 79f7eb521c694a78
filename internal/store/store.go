// To handle all database interactions. This is our
// data access layer, keeping SQL queries separate from business logic.

package store

import (
	"database/sql"
	"time"

	"github.com/kumoreader/kumo-go/internal/models"
)

// Store provides all functions to interact with the database.
type Store struct {
	db *sql.DB
}

// New creates a new Store instance.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// GetSeriesByTitle finds a series by its exact title. It returns (nil, nil)
// when no series with that title exists.
func (s *Store) GetSeriesByTitle(title string) (*models.Series, error) {
	series, err := s.scanSeries(s.db.QueryRow(
		"SELECT id, title, title_safe, path, manga_data, metadata, cover_image, created_at, updated_at FROM series WHERE title = ?", title))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return series, err
}

// GetSeriesByID fetches a single series by its primary key.
func (s *Store) GetSeriesByID(id int64) (*models.Series, error) {
	return s.scanSeries(s.db.QueryRow(
		"SELECT id, title, title_safe, path, manga_data, metadata, cover_image, created_at, updated_at FROM series WHERE id = ?", id))
}

func (s *Store) scanSeries(row *sql.Row) (*models.Series, error) {
	var series models.Series
	err := row.Scan(&series.ID, &series.Title, &series.TitleSafe, &series.Path,
		&series.MangaData, &series.Metadata, &series.CoverImage, &series.CreatedAt, &series.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &series, nil
}

// InsertSeries creates a new series row and returns its ID.
func (s *Store) InsertSeries(title, titleSafe, path, mangaData, metadata, coverImage string) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO series (title, title_safe, path, manga_data, metadata, cover_image, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		title, titleSafe, path, mangaData, metadata, coverImage, time.Now(), time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListSeries fetches all series ordered by title, each annotated with its
// file count.
func (s *Store) ListSeries() ([]*models.Series, error) {
	query := `
        SELECT
            s.id, s.title, s.title_safe, s.path, s.manga_data, s.metadata, s.cover_image,
            s.created_at, s.updated_at,
            COUNT(f.id) AS file_count
        FROM series s
        LEFT JOIN file f ON f.series_id = s.id
        GROUP BY s.id
        ORDER BY s.title ASC
    `
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seriesList []*models.Series
	for rows.Next() {
		var series models.Series
		if err := rows.Scan(
			&series.ID, &series.Title, &series.TitleSafe, &series.Path, &series.MangaData,
			&series.Metadata, &series.CoverImage, &series.CreatedAt, &series.UpdatedAt,
			&series.FileCount,
		); err != nil {
			return nil, err
		}
		seriesList = append(seriesList, &series)
	}
	return seriesList, rows.Err()
}

// DeleteSeries removes a series row. Its file rows are removed by the
// ON DELETE CASCADE constraint.
func (s *Store) DeleteSeries(id int64) error {
	_, err := s.db.Exec("DELETE FROM series WHERE id = ?", id)
	return err
}

// InsertFile creates a new file row and returns its ID.
func (s *Store) InsertFile(f *models.File) (int64, error) {
	res, err := s.db.Exec(`
        INSERT INTO file (
            path, file_name, file_format, volume, chapter,
            total_pages, current_page, is_read, series_id, metadata, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.Path, f.FileName, f.FileFormat, f.Volume, f.Chapter,
		f.TotalPages, f.CurrentPage, f.IsRead, f.SeriesID, f.Metadata, time.Now(), time.Now())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// GetFileByNameAndSeries finds a file row by its (file_name, series_id)
// natural key. It returns (nil, nil) when no such row exists.
func (s *Store) GetFileByNameAndSeries(fileName string, seriesID int64) (*models.File, error) {
	row := s.db.QueryRow(
		"SELECT id, path, file_name, file_format, volume, chapter, total_pages, current_page, is_read, series_id, metadata, created_at, updated_at FROM file WHERE file_name = ? AND series_id = ?",
		fileName, seriesID)
	file, err := scanFile(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return file, err
}

func scanFile(row *sql.Row) (*models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.Path, &f.FileName, &f.FileFormat, &f.Volume, &f.Chapter,
		&f.TotalPages, &f.CurrentPage, &f.IsRead, &f.SeriesID, &f.Metadata, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// ListFilesBySeries fetches all file rows of a series in reading order.
func (s *Store) ListFilesBySeries(seriesID int64) ([]*models.File, error) {
	return s.queryFiles(
		"SELECT id, path, file_name, file_format, volume, chapter, total_pages, current_page, is_read, series_id, metadata, created_at, updated_at FROM file WHERE series_id = ? ORDER BY volume, chapter, file_name",
		seriesID)
}

// ListAllFiles fetches every file row in the library.
func (s *Store) ListAllFiles() ([]*models.File, error) {
	return s.queryFiles(
		"SELECT id, path, file_name, file_format, volume, chapter, total_pages, current_page, is_read, series_id, metadata, created_at, updated_at FROM file ORDER BY series_id, volume, chapter, file_name")
}

func (s *Store) queryFiles(query string, args ...interface{}) ([]*models.File, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var files []*models.File
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.Path, &f.FileName, &f.FileFormat, &f.Volume, &f.Chapter,
			&f.TotalPages, &f.CurrentPage, &f.IsRead, &f.SeriesID, &f.Metadata, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		files = append(files, &f)
	}
	return files, rows.Err()
}

// CountFiles returns the total number of file rows in the library.
func (s *Store) CountFiles() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM file").Scan(&count)
	return count, err
}

// UpdateFileProgress updates the reading progress for a given file.
func (s *Store) UpdateFileProgress(fileID int64, currentPage int, isRead bool) error {
	_, err := s.db.Exec("UPDATE file SET current_page = ?, is_read = ?, updated_at = ? WHERE id = ?",
		currentPage, isRead, time.Now(), fileID)
	return err
}
