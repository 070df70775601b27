package moviedb

import (
	"strconv"
	"strings"

	"github.com/iliyamo/movielist/internal/model"
)

// Mapper turns raw lookup records into store records.
type Mapper struct {
	ImageBaseURL string
}

// Year returns the integer before the first '-' of a release date, or 0
// when the date is empty or malformed.
func Year(releaseDate string) int {
	prefix, _, _ := strings.Cut(releaseDate, "-")
	y, err := strconv.Atoi(strings.TrimSpace(prefix))
	if err != nil {
		return 0
	}
	return y
}

// ImageURL joins the image base URL and a poster path.
func (m Mapper) ImageURL(posterPath string) string {
	return m.ImageBaseURL + posterPath
}

// ToCatalog maps a lookup record onto a catalog row with the "-" review.
func (m Mapper) ToCatalog(mv Movie) model.CatalogMovie {
	review := model.CatalogDefaultReview
	return model.CatalogMovie{
		Title:       mv.Title,
		Year:        Year(mv.ReleaseDate),
		Description: mv.Overview,
		Rating:      mv.VoteAverage,
		Review:      &review,
		ImageURL:    m.ImageURL(mv.PosterPath),
	}
}

// ToPersonal maps a lookup record onto a personal-list row with the
// "Not reviewed" review.
func (m Mapper) ToPersonal(mv Movie) model.PersonalMovie {
	review := model.PersonalDefaultReview
	return model.PersonalMovie{
		Title:       mv.Title,
		Year:        Year(mv.ReleaseDate),
		Description: mv.Overview,
		Rating:      mv.VoteAverage,
		Review:      &review,
		ImageURL:    m.ImageURL(mv.PosterPath),
	}
}
