// Package handler exposes the HTTP handlers of the movie list.  Each
// handler reads and validates its input, calls the stores and/or the lookup
// client and answers with a JSON view model or a redirect.
package handler

import (
    "errors"
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/movielist/internal/middleware"
    "github.com/iliyamo/movielist/internal/model"
    "github.com/iliyamo/movielist/internal/moviedb"
    "github.com/iliyamo/movielist/internal/queue"
    "github.com/iliyamo/movielist/internal/repository"
)

// CatalogView is the home page view model.
type CatalogView struct {
    Movies []model.CatalogMovie `json:"movies"`
    Flash  string               `json:"flash,omitempty"`
}

// PersonalListView is the "my list" view model.
type PersonalListView struct {
    Movies []model.PersonalMovie `json:"movies"`
    Flash  string                `json:"flash,omitempty"`
}

// SearchFormView describes the search form and its validation errors.
type SearchFormView struct {
    Form struct {
        Title string `json:"title"`
    } `json:"form"`
    Errors map[string]string `json:"errors,omitempty"`
}

// SelectView lists the raw search results the user can pick from.
type SelectView struct {
    Options []moviedb.Movie `json:"options"`
}

// ReviewFormView describes the review form of one entry.
type ReviewFormView struct {
    Movie *model.PersonalMovie `json:"movie"`
    Form  struct {
        Review string `json:"review"`
    } `json:"form"`
    Errors map[string]string `json:"errors,omitempty"`
}

// Home handles GET / and lists the catalog in insertion order.
func (h *MovieHandler) Home(c echo.Context) error {
    movies, err := h.Catalog.ListAll(c.Request().Context())
    if err != nil {
        h.Log.WithError(err).Error("list catalog")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, CatalogView{Movies: movies, Flash: middleware.FlashMessage(c)})
}

// MyList handles GET /mylist and lists the personal list by rating.
func (h *MovieHandler) MyList(c echo.Context) error {
    return h.renderList(c)
}

func (h *MovieHandler) renderList(c echo.Context) error {
    movies, err := h.Personal.ListByRatingDesc(c.Request().Context())
    if err != nil {
        h.Log.WithError(err).Error("list personal movies")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    }
    return c.JSON(http.StatusOK, PersonalListView{Movies: movies, Flash: middleware.FlashMessage(c)})
}

// Add handles GET /add?title=.  A title already on the personal list is
// refused with a flash notice and a redirect home.  Otherwise the first
// search result is stored and the personal list is returned.
func (h *MovieHandler) Add(c echo.Context) error {
    ctx := c.Request().Context()
    title := c.QueryParam("title")
    if strings.TrimSpace(title) == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }

    if _, found, err := h.Personal.FindByTitle(ctx, title); err != nil {
        h.Log.WithError(err).Error("find personal movie by title")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
    } else if found {
        if err := middleware.SetFlash(c, h.Flash, DuplicateMessage); err != nil {
            return err
        }
        return c.Redirect(http.StatusFound, "/")
    }

    results, err := h.Lookup.Search(ctx, title)
    if err != nil {
        return h.lookupFailed(c, "search", err)
    }
    if len(results) == 0 {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    }

    m := h.Lookup.ToPersonal(results[0])
    if err := h.Personal.Insert(ctx, &m); err != nil {
        return h.insertFailed(c, err)
    }
    h.publish(c, queue.ActionAdded, &m)
    return h.renderList(c)
}

// Search handles GET|POST /search.  GET returns the empty form; POST with a
// non-blank title returns every search result for selection.
func (h *MovieHandler) Search(c echo.Context) error {
    var view SearchFormView
    if c.Request().Method != http.MethodPost {
        return c.JSON(http.StatusOK, view)
    }

    view.Form.Title = c.Request().PostFormValue("title")
    if strings.TrimSpace(view.Form.Title) == "" {
        view.Errors = map[string]string{"title": "This field is required."}
        return c.JSON(http.StatusUnprocessableEntity, view)
    }

    results, err := h.Lookup.Search(c.Request().Context(), view.Form.Title)
    if err != nil {
        return h.lookupFailed(c, "search", err)
    }
    return c.JSON(http.StatusOK, SelectView{Options: results})
}

// Find handles GET /find?id= with a lookup-service id.  The full record is
// fetched, stored on the personal list, and the client is sent to /mylist.
func (h *MovieHandler) Find(c echo.Context) error {
    externalID, err := strconv.ParseInt(c.QueryParam("id"), 10, 64)
    if err != nil || externalID <= 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    raw, err := h.Lookup.Details(c.Request().Context(), externalID)
    if err != nil {
        return h.lookupFailed(c, "details", err)
    }

    m := h.Lookup.ToPersonal(raw)
    if err := h.Personal.Insert(c.Request().Context(), &m); err != nil {
        return h.insertFailed(c, err)
    }
    h.publish(c, queue.ActionAdded, &m)
    return c.Redirect(http.StatusFound, "/mylist")
}

// Review handles GET|POST /review?id=.  GET returns the form for an
// existing entry; POST with a non-blank review replaces the review text.
func (h *MovieHandler) Review(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := personalID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    m, err := h.Personal.GetByID(ctx, id)
    if err != nil {
        return h.storeFailed(c, "get personal movie", err)
    }

    view := ReviewFormView{Movie: m}
    if c.Request().Method != http.MethodPost {
        return c.JSON(http.StatusOK, view)
    }

    view.Form.Review = c.Request().PostFormValue("review")
    if strings.TrimSpace(view.Form.Review) == "" {
        view.Errors = map[string]string{"review": "This field is required."}
        return c.JSON(http.StatusUnprocessableEntity, view)
    }
    if err := h.Personal.UpdateReview(ctx, id, view.Form.Review); err != nil {
        return h.storeFailed(c, "update review", err)
    }
    m.Review = &view.Form.Review
    h.publish(c, queue.ActionReviewed, m)
    return c.Redirect(http.StatusSeeOther, "/mylist")
}

// Delete handles GET /delete?id= and removes an entry from the personal list.
func (h *MovieHandler) Delete(c echo.Context) error {
    ctx := c.Request().Context()
    id, ok := personalID(c)
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    m, err := h.Personal.GetByID(ctx, id)
    if err != nil {
        return h.storeFailed(c, "get personal movie", err)
    }
    if err := h.Personal.DeleteByID(ctx, id); err != nil {
        return h.storeFailed(c, "delete personal movie", err)
    }
    h.publish(c, queue.ActionDeleted, m)
    return c.Redirect(http.StatusFound, "/mylist")
}

// lookupFailed answers an ExternalServiceFailure with a generic error.
func (h *MovieHandler) lookupFailed(c echo.Context, op string, err error) error {
    h.Log.WithError(err).WithField("op", op).Error("movie lookup failed")
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "movie lookup failed"})
}

func (h *MovieHandler) insertFailed(c echo.Context, err error) error {
    if errors.Is(err, repository.ErrMissingField) {
        h.Log.WithError(err).Warn("lookup record incomplete")
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "movie lookup failed"})
    }
    h.Log.WithError(err).Error("insert personal movie")
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

func (h *MovieHandler) storeFailed(c echo.Context, op string, err error) error {
    if errors.Is(err, repository.ErrMovieNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
    }
    h.Log.WithError(err).Error(op)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}
