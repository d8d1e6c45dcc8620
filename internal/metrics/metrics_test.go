package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveReminders(t *testing.T) {
	m := New()
	m.ObserveReminders(map[string]int{"deal_dormant": 2, "lead_froid": 1}, 3, 4)
	m.ObserveReminders(map[string]int{"deal_dormant": 1}, 0, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reminderRuns))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.remindersFired.WithLabelValues("deal_dormant")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.remindersPruned))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.remindersUnread))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("GET", "/x", 200, time.Millisecond)
		m.ObserveReminders(nil, 0, 0)
		m.ObserveEmail("SENT")
	})
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "/api/deals", 200, 5*time.Millisecond)

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.Contains(body, `formatech_http_requests_total{method="GET",route="/api/deals",status="200"} 1`))
}
