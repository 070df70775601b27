package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordHTTPRequest(t *testing.T) {
	before := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/mylist", "200"))
	RecordHTTPRequest("get", "/mylist", http.StatusOK, 20*time.Millisecond)
	after := testutil.ToFloat64(httpRequests.WithLabelValues("GET", "/mylist", "200"))
	assert.Equal(t, before+1, after)
}

func TestRecordLookup(t *testing.T) {
	before := testutil.ToFloat64(lookupRequests.WithLabelValues("search", "ok"))
	RecordLookup("search", "ok", 0)
	assert.Equal(t, before+1, testutil.ToFloat64(lookupRequests.WithLabelValues("search", "ok")))
}

func TestInFlight(t *testing.T) {
	done := InFlight()
	assert.Equal(t, 1.0, testutil.ToFloat64(httpInFlight))
	done()
	assert.Equal(t, 0.0, testutil.ToFloat64(httpInFlight))
}

func TestHandlerExposesMetrics(t *testing.T) {
	SetCatalogSeeded(100)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "movielist_catalog_seeded_rows 100")
}
