package importer

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/kumoreader/kumo-go/internal/catalog"
	"github.com/kumoreader/kumo-go/internal/store"
	"github.com/kumoreader/kumo-go/internal/transfer"
	"github.com/kumoreader/kumo-go/internal/util"
)

// Catalog is the read contract against the remote library server. The
// concrete implementation is catalog.Client.
type Catalog interface {
	GetSeries(ctx context.Context, seriesID int64) (*catalog.RemoteSeries, error)
	GetSeriesFiles(ctx context.Context, seriesID int64) ([]catalog.RemoteFile, error)
	GetFile(ctx context.Context, fileID int64) (*catalog.RemoteFile, error)
	CoverImageURL(libraryID, seriesID int64) string
	PreviewImageURL(libraryID, seriesID, fileID int64) string
	FileURL(fileID int64) string
}

// SeriesRef maps a remote series onto its local record.
type SeriesRef struct {
	LocalID        int64
	RemoteSeriesID int64
	LibraryID      int64
	Title          string
}

// Resolver ensures a local series record exists for a remote series.
// Resolution is idempotent: the same remote series always maps onto the same
// local record, matched by exact title.
type Resolver struct {
	st       *store.Store
	catalog  Catalog
	transfer transfer.Service
	dataDir  string

	// Enqueues run on fresh goroutines per request, so the title lookup
	// and the insert must not interleave or the same remote series gets
	// two local rows.
	mu sync.Mutex
}

func NewResolver(st *store.Store, cat Catalog, tr transfer.Service, dataDir string) *Resolver {
	return &Resolver{st: st, catalog: cat, transfer: tr, dataDir: dataDir}
}

// ResolveSeries fetches the remote series metadata and returns the local
// mapping, creating the local record, its data folder and (best-effort) its
// cover image on first reference.
func (r *Resolver) ResolveSeries(ctx context.Context, remoteSeriesID int64) (*SeriesRef, error) {
	remote, err := r.catalog.GetSeries(ctx, remoteSeriesID)
	if err != nil {
		return nil, fmt.Errorf("fetching remote series %d: %w", remoteSeriesID, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := r.st.GetSeriesByTitle(remote.Title)
	if err != nil {
		return nil, fmt.Errorf("looking up local series %q: %w", remote.Title, err)
	}
	if existing != nil {
		// Already imported. The folder creation is idempotent and repairs a
		// manually deleted data directory.
		if err := r.transfer.EnsureDir(SeriesFilesDir(r.dataDir, existing.ID)); err != nil {
			log.Printf("Error creating folder for series %q: %v", existing.Title, err)
		}
		return &SeriesRef{
			LocalID:        existing.ID,
			RemoteSeriesID: remote.ID,
			LibraryID:      remote.LibraryID,
			Title:          existing.Title,
		}, nil
	}

	mangaData := string(remote.MangaData)
	if mangaData == "" {
		mangaData = "{}"
	}
	localID, err := r.st.InsertSeries(remote.Title, util.Slugify(remote.Title), remote.Path, mangaData, "{}", "cover.jpg")
	if err != nil {
		return nil, fmt.Errorf("creating local series %q: %w", remote.Title, err)
	}

	if err := r.transfer.EnsureDir(SeriesFilesDir(r.dataDir, localID)); err != nil {
		log.Printf("Error creating folder for series %q: %v", remote.Title, err)
	}

	// A missing cover is tolerated; the series is still usable.
	coverURL := r.catalog.CoverImageURL(remote.LibraryID, remote.ID)
	if err := r.transfer.Download(ctx, coverURL, CoverPath(r.dataDir, localID)); err != nil {
		log.Printf("Error downloading cover image for %q: %v", remote.Title, err)
	}

	return &SeriesRef{
		LocalID:        localID,
		RemoteSeriesID: remote.ID,
		LibraryID:      remote.LibraryID,
		Title:          remote.Title,
	}, nil
}
