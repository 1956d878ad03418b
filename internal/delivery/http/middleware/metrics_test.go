package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"

	"activitysignup/internal/observability"
)

func sampleCount(t *testing.T, method, status string) uint64 {
	t.Helper()
	var m dto.Metric
	h := observability.HTTPRequestDuration.WithLabelValues(method, status).(prometheus.Histogram)
	require.NoError(t, h.Write(&m))
	return m.GetHistogram().GetSampleCount()
}

func TestMetricsMiddleware(t *testing.T) {
	before := sampleCount(t, http.MethodPatch, "418")

	handler := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPatch, "/activities", nil))

	require.Equal(t, http.StatusTeapot, rr.Code)
	require.Equal(t, before+1, sampleCount(t, http.MethodPatch, "418"))
}

func TestMiddlewareChainSharesWrapper(t *testing.T) {
	var cap capturingHandler
	before := sampleCount(t, http.MethodPost, "201")

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	handler := MetricsMiddleware(LoggingMiddleware(slog.New(&cap), inner))
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/activities/x/signup", nil))

	require.Equal(t, http.StatusCreated, rr.Code)
	require.Equal(t, before+1, sampleCount(t, http.MethodPost, "201"))

	var status slog.Value
	cap.record.Attrs(func(a slog.Attr) bool {
		if a.Key == "status" {
			status = a.Value
		}
		return true
	})
	require.Equal(t, int64(http.StatusCreated), status.Int64())
}
