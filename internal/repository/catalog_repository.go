package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movielist/internal/model"
)

// CatalogRepo encapsulates the queries on catalog_movies.  Handlers only
// read from it; Count and InsertBatch exist for the seeding routine.
type CatalogRepo struct {
	db *sqlx.DB
}

// NewCatalogRepo constructs a CatalogRepo with the provided DB handle.
func NewCatalogRepo(db *sqlx.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// ListAll returns every catalog movie in insertion order.
func (r *CatalogRepo) ListAll(ctx context.Context) ([]model.CatalogMovie, error) {
	const q = `SELECT id, title, year, description, rating, review, img_url
	           FROM catalog_movies ORDER BY id`
	out := []model.CatalogMovie{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of catalog rows.
func (r *CatalogRepo) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM catalog_movies`); err != nil {
		return 0, err
	}
	return n, nil
}

// InsertBatch inserts all movies in a single transaction and returns how
// many rows were written.  Either every movie is stored or none is.
func (r *CatalogRepo) InsertBatch(ctx context.Context, movies []model.CatalogMovie) (n int, err error) {
	for i := range movies {
		if err := validateRecord(movies[i].Title, movies[i].ImageURL); err != nil {
			return 0, fmt.Errorf("catalog movie %d: %w", i, err)
		}
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const q = `INSERT INTO catalog_movies (title, year, description, rating, review, img_url)
	           VALUES (:title, :year, :description, :rating, :review, :img_url)`
	stmt, err := tx.PrepareNamedContext(ctx, q)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for i := range movies {
		res, execErr := stmt.ExecContext(ctx, movies[i])
		if execErr != nil {
			return 0, fmt.Errorf("insert %q: %w", movies[i].Title, execErr)
		}
		if id, idErr := res.LastInsertId(); idErr == nil {
			movies[i].ID = uint64(id)
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, err
	}
	return len(movies), nil
}

// validateRecord enforces the non-null columns before touching the DB.
func validateRecord(title, imageURL string) error {
	if title == "" {
		return fmt.Errorf("%w: title", ErrMissingField)
	}
	if imageURL == "" {
		return fmt.Errorf("%w: img_url", ErrMissingField)
	}
	return nil
}
