package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/openreuse/donatehub/internal/app/system/metrics"
)

func scrape(t *testing.T, reg *prometheus.Registry) string {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("scrape status = %d", rr.Code)
	}
	return rr.Body.String()
}

func TestRecorders(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	c.RecordLogin("success")
	c.RecordLogin("success")
	c.RecordLogin("user_not_found")
	c.RecordDonationSubmitted("clothes")
	c.RecordDonationSubmitted("")
	c.RecordTransition("pending", "accepted")

	body := scrape(t, reg)

	for _, want := range []string{
		`donatehub_login_attempts_total{outcome="success"} 2`,
		`donatehub_login_attempts_total{outcome="user_not_found"} 1`,
		`donatehub_donations_submitted_total{item_type="clothes"} 1`,
		`donatehub_donations_submitted_total{item_type="other"} 1`,
		`donatehub_donation_transitions_total{from="pending",to="accepted"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape missing %q", want)
		}
	}
}

func TestMiddlewareCountsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := metrics.NewCollector(reg)

	r := chi.NewRouter()
	r.Use(c.Middleware)
	r.Get("/donations/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, path := range []string{"/donations/1", "/donations/2"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
		if rr.Code != http.StatusNoContent {
			t.Fatalf("status = %d", rr.Code)
		}
	}

	body := scrape(t, reg)
	want := `donatehub_http_requests_total{method="GET",route="/donations/{id}",status="204"} 2`
	if !strings.Contains(body, want) {
		t.Errorf("scrape missing %q", want)
	}
}
