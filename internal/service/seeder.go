package service

import (
    "context"
    "fmt"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/movielist/internal/metrics"
    "github.com/iliyamo/movielist/internal/model"
    "github.com/iliyamo/movielist/internal/moviedb"
)

// SeedState is the catalog seeding state.
type SeedState string

const (
    Unseeded SeedState = "UNSEEDED"
    Seeded   SeedState = "SEEDED"
)

// TopRatedSource fetches one page of top-rated movies and maps them.
type TopRatedSource interface {
    TopRated(ctx context.Context, page int) ([]moviedb.Movie, error)
    ToCatalog(m moviedb.Movie) model.CatalogMovie
}

// CatalogStore is the part of the catalog repository seeding needs.
type CatalogStore interface {
    Count(ctx context.Context) (int, error)
    InsertBatch(ctx context.Context, movies []model.CatalogMovie) (int, error)
}

// Seeder populates an empty catalog from the top-rated list.
type Seeder struct {
    Source TopRatedSource
    Store  CatalogStore
    Pages  int
    Log    logrus.FieldLogger
}

// SeedResult reports what a Run did.
type SeedResult struct {
    State    SeedState
    Inserted int
    Skipped  int // repeated titles dropped before insert
}

// Run seeds the catalog when it is empty.  A catalog with at least one row
// is left alone.  Pages are fetched in order; if any fetch fails nothing is
// written and the catalog stays UNSEEDED so the next start retries.
func (s *Seeder) Run(ctx context.Context) (SeedResult, error) {
    n, err := s.Store.Count(ctx)
    if err != nil {
        return SeedResult{State: Unseeded}, fmt.Errorf("count catalog: %w", err)
    }
    if n > 0 {
        s.Log.WithField("rows", n).Info("catalog already seeded")
        return SeedResult{State: Seeded}, nil
    }

    pages := s.Pages
    if pages < 1 {
        pages = 5
    }
    seen := make(map[string]bool)
    var batch []model.CatalogMovie
    skipped := 0
    for page := 1; page <= pages; page++ {
        results, err := s.Source.TopRated(ctx, page)
        if err != nil {
            return SeedResult{State: Unseeded}, fmt.Errorf("fetch top rated page %d: %w", page, err)
        }
        for _, raw := range results {
            // catalog titles are unique; first occurrence wins
            if seen[raw.Title] {
                skipped++
                continue
            }
            seen[raw.Title] = true
            batch = append(batch, s.Source.ToCatalog(raw))
        }
    }

    inserted, err := s.Store.InsertBatch(ctx, batch)
    if err != nil {
        return SeedResult{State: Unseeded}, fmt.Errorf("insert catalog: %w", err)
    }
    metrics.SetCatalogSeeded(inserted)
    s.Log.WithFields(logrus.Fields{"inserted": inserted, "skipped": skipped, "pages": pages}).Info("catalog seeded")
    return SeedResult{State: Seeded, Inserted: inserted, Skipped: skipped}, nil
}
