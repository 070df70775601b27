package model

// Default review texts written by the lookup mapping.
const (
	CatalogDefaultReview  = "-"
	PersonalDefaultReview = "Not reviewed"
)

// CatalogMovie represents a reference movie shown on the home page.  Rows
// are written once while seeding and are never changed by user actions.
// This struct corresponds to a row in the `catalog_movies` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – non-empty title, unique across the catalog.
//  Year        – release year.
//  Description – synopsis text.
//  Rating      – average score (nullable).
//  Review      – free text (nullable), "-" for seeded rows.
//  ImageURL    – absolute URL of the poster art.
type CatalogMovie struct {
	ID          uint64   `db:"id" json:"id"`                   // catalog_movies.id
	Title       string   `db:"title" json:"title"`             // catalog_movies.title
	Year        int      `db:"year" json:"year"`               // catalog_movies.year
	Description string   `db:"description" json:"description"` // catalog_movies.description
	Rating      *float64 `db:"rating" json:"rating"`           // catalog_movies.rating (nullable)
	Review      *string  `db:"review" json:"review"`           // catalog_movies.review (nullable)
	ImageURL    string   `db:"img_url" json:"img_url"`         // catalog_movies.img_url
}

// PersonalMovie is an entry of the user's own list, stored in the
// `personal_movies` table.  It has the same shape as CatalogMovie but the
// title is not unique; duplicate adds are refused by the Add handler.  Only
// the Review field is ever updated after insertion.
type PersonalMovie struct {
	ID          uint64   `db:"id" json:"id"`                   // personal_movies.id
	Title       string   `db:"title" json:"title"`             // personal_movies.title
	Year        int      `db:"year" json:"year"`               // personal_movies.year
	Description string   `db:"description" json:"description"` // personal_movies.description
	Rating      *float64 `db:"rating" json:"rating"`           // personal_movies.rating (nullable)
	Review      *string  `db:"review" json:"review"`           // personal_movies.review (nullable)
	ImageURL    string   `db:"img_url" json:"img_url"`         // personal_movies.img_url
}
