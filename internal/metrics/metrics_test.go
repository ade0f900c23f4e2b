package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(MalformedLines)
	MalformedLines.Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(MalformedLines))

	okBefore := testutil.ToFloat64(QueriesTotal.WithLabelValues("ok"))
	QueriesTotal.WithLabelValues("ok").Inc()
	assert.Equal(t, okBefore+1, testutil.ToFloat64(QueriesTotal.WithLabelValues("ok")))
}

func TestHandlerExposesMetrics(t *testing.T) {
	FilesRead.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "usage_timeline_files_read_total")
}
