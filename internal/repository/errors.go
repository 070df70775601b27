// Package repository defines error types that are reused across the movie
// repositories.  These sentinel values allow handlers to distinguish
// between failure scenarios.  ErrMovieNotFound means the requested row does
// not exist, while ErrMissingField signals that an insert was attempted
// without one of the required columns.
package repository

import "errors"

// ErrMovieNotFound is returned when a personal-list id does not exist.
// Handlers translate this into an HTTP 404 response.
var ErrMovieNotFound = errors.New("movie not found")

// ErrMissingField is returned when a record lacks a required value such as
// the title or poster URL.  It is wrapped with the column name.
var ErrMissingField = errors.New("missing required field")
