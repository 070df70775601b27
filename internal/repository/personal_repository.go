package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/iliyamo/movielist/internal/model"
)

const personalColumns = `id, title, year, description, rating, review, img_url`

// PersonalRepo encapsulates all database queries on personal_movies.
type PersonalRepo struct {
	db *sqlx.DB
}

// NewPersonalRepo constructs a PersonalRepo with the provided DB handle.
func NewPersonalRepo(db *sqlx.DB) *PersonalRepo {
	return &PersonalRepo{db: db}
}

// ListByRatingDesc returns the personal list ordered by rating, highest
// first.  Unrated rows come last and equal ratings keep insertion order.
// "rating IS NULL" sorts false before true on both MySQL and SQLite.
func (r *PersonalRepo) ListByRatingDesc(ctx context.Context) ([]model.PersonalMovie, error) {
	const q = `SELECT ` + personalColumns + `
	           FROM personal_movies
	           ORDER BY rating IS NULL, rating DESC, id`
	out := []model.PersonalMovie{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByTitle looks up an entry whose title matches exactly, including
// case.  The comparison is repeated in Go because MySQL's default
// collation compares case-insensitively.
func (r *PersonalRepo) FindByTitle(ctx context.Context, title string) (*model.PersonalMovie, bool, error) {
	const q = `SELECT ` + personalColumns + ` FROM personal_movies WHERE title = ? ORDER BY id`
	var candidates []model.PersonalMovie
	if err := r.db.SelectContext(ctx, &candidates, q, title); err != nil {
		return nil, false, err
	}
	for i := range candidates {
		if candidates[i].Title == title {
			return &candidates[i], true, nil
		}
	}
	return nil, false, nil
}

// Insert stores m and populates its ID.  Title and ImageURL are required.
func (r *PersonalRepo) Insert(ctx context.Context, m *model.PersonalMovie) error {
	if err := validateRecord(m.Title, m.ImageURL); err != nil {
		return err
	}
	const q = `INSERT INTO personal_movies (title, year, description, rating, review, img_url)
	           VALUES (:title, :year, :description, :rating, :review, :img_url)`
	res, err := r.db.NamedExecContext(ctx, q, m)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	m.ID = uint64(id)
	return nil
}

// GetByID fetches one entry.  It returns ErrMovieNotFound if no row is found.
func (r *PersonalRepo) GetByID(ctx context.Context, id uint64) (*model.PersonalMovie, error) {
	const q = `SELECT ` + personalColumns + ` FROM personal_movies WHERE id = ?`
	var m model.PersonalMovie
	if err := r.db.GetContext(ctx, &m, q, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMovieNotFound
		}
		return nil, err
	}
	return &m, nil
}

// UpdateReview replaces the review text of one entry and leaves every other
// column untouched.
func (r *PersonalRepo) UpdateReview(ctx context.Context, id uint64, review string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE personal_movies SET review = ? WHERE id = ?`, review, id)
	if err != nil {
		return err
	}
	return r.requireAffected(ctx, res, id)
}

// DeleteByID removes one entry.  It returns ErrMovieNotFound when the id
// does not exist.
func (r *PersonalRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM personal_movies WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrMovieNotFound
	}
	return nil
}

// requireAffected maps a zero-row UPDATE to ErrMovieNotFound.  MySQL reports
// zero affected rows when the new value equals the old one, so existence is
// confirmed with a lookup before giving up.
func (r *PersonalRepo) requireAffected(ctx context.Context, res sql.Result, id uint64) error {
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM personal_movies WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrMovieNotFound
	}
	return err
}
