package router // package router defines how HTTP routes are registered for the app

import (
	"net/http" // net/http provides the method names used by Match

	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/iliyamo/movielist/internal/handler" // import the handlers that implement the movie pages
	"github.com/iliyamo/movielist/internal/metrics" // import the Prometheus registry handler
)

// RegisterRoutes registers the operational endpoints: the health check used
// by load balancers and the Prometheus scrape endpoint.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
}

// RegisterMovies registers the movie pages.  homeCache wraps only the home
// page because the catalog does not change once seeded; pass nil to serve
// it uncached.
func RegisterMovies(e *echo.Echo, h *handler.MovieHandler, homeCache echo.MiddlewareFunc) {
	formMethods := []string{http.MethodGet, http.MethodPost}

	if homeCache != nil {
		e.GET("/", h.Home, homeCache)
	} else {
		e.GET("/", h.Home)
	}
	e.GET("/mylist", h.MyList)
	// Add takes the first search hit; Search + Find let the user pick one.
	e.GET("/add", h.Add)
	e.Match(formMethods, "/search", h.Search)
	e.GET("/find", h.Find)
	e.Match(formMethods, "/review", h.Review)
	e.GET("/delete", h.Delete)
}
