package handler // handler defines http handlers

import (
    "context" // context is passed to the lookup and store calls
    "strconv" // strconv parses query identifiers

    "github.com/labstack/echo/v4" // echo defines request context types
    "github.com/sirupsen/logrus"  // logrus carries structured handler logs

    "github.com/iliyamo/movielist/internal/model"      // model holds the store records
    "github.com/iliyamo/movielist/internal/moviedb"    // moviedb is the lookup client
    "github.com/iliyamo/movielist/internal/queue"      // queue defines activity events
    "github.com/iliyamo/movielist/internal/repository" // repository holds data access layer
    "github.com/iliyamo/movielist/internal/service"    // service publishes activity events
    "github.com/iliyamo/movielist/internal/utils"      // utils signs flash messages
)

// DuplicateMessage is flashed when a title is already on the personal list.
const DuplicateMessage = "This movie has been already selected"

// MovieLookup is the part of the lookup client the handlers use.
type MovieLookup interface {
    Search(ctx context.Context, query string) ([]moviedb.Movie, error)
    Details(ctx context.Context, id int64) (moviedb.Movie, error)
    ToPersonal(m moviedb.Movie) model.PersonalMovie
}

// MovieHandler bundles everything the movie routes need.  It is built once
// at startup and shared by all requests.
type MovieHandler struct {
    Catalog  *repository.CatalogRepo   // Catalog provides the seeded home-page movies
    Personal *repository.PersonalRepo  // Personal provides the user's list
    Lookup   MovieLookup               // Lookup queries the external movie service
    Flash    *utils.FlashSigner        // Flash signs one-shot notices
    Events   service.ActivityPublisher // Events receives add/review/delete activity
    Log      logrus.FieldLogger        // Log records failures that are not returned to the client
}

// NewMovieHandler constructs a MovieHandler and panics if a required
// dependency is nil.  A nil publisher is replaced with a no-op.
func NewMovieHandler(catalog *repository.CatalogRepo, personal *repository.PersonalRepo, lookup MovieLookup, flash *utils.FlashSigner, events service.ActivityPublisher, log logrus.FieldLogger) *MovieHandler {
    if catalog == nil || personal == nil || lookup == nil || flash == nil || log == nil {
        panic("nil dependency passed to NewMovieHandler")
    }
    if events == nil {
        events = service.NopPublisher{}
    }
    return &MovieHandler{Catalog: catalog, Personal: personal, Lookup: lookup, Flash: flash, Events: events, Log: log}
}

// publish sends an activity event; failures are logged and swallowed so
// the request still succeeds.
func (h *MovieHandler) publish(c echo.Context, action string, m *model.PersonalMovie) {
    var review *string
    if action == queue.ActionReviewed {
        review = m.Review
    }
    ev := service.NewActivityEvent(action, m.ID, m.Title, review)
    if err := h.Events.PublishActivity(c.Request().Context(), ev); err != nil {
        h.Log.WithError(err).WithField("action", action).Warn("publish activity event failed")
    }
}

// personalID parses the ?id= query parameter of a personal-list entry.
func personalID(c echo.Context) (uint64, bool) {
    id, err := strconv.ParseUint(c.QueryParam("id"), 10, 64)
    return id, err == nil && id > 0
}
