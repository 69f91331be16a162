package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/bridgeforms/internal/http/handlers"
	httpmiddleware "github.com/wolfman30/bridgeforms/internal/http/middleware"
	"github.com/wolfman30/bridgeforms/internal/pipeline"
	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

type fakeContact struct{ calls int }

func (f *fakeContact) Submit(_ context.Context, req *submission.ContactRequest) (*pipeline.ContactResult, error) {
	f.calls++
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &pipeline.ContactResult{Name: req.FullName, Email: req.Email, Timestamp: time.Now()}, nil
}

type fakeBooking struct{ calls int }

func (f *fakeBooking) Submit(_ context.Context, req *submission.BookingRequest) (*pipeline.BookingResult, error) {
	f.calls++
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return &pipeline.BookingResult{ClientName: req.ClientName, ReservationCode: "BKAB12CD34"}, nil
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) (bool, error) { return false, nil }

type testRouter struct {
	handler http.Handler
	contact *fakeContact
	booking *fakeBooking
}

func newTestRouter(t *testing.T, mutate func(*Config)) *testRouter {
	t.Helper()
	logger := logging.Discard()
	contact := &fakeContact{}
	booking := &fakeBooking{}

	reg := prometheus.NewRegistry()
	cfg := &Config{
		Logger:             logger,
		Submissions:        handlers.NewSubmissionHandler(contact, booking, logger),
		System:             handlers.NewSystemHandler("bridgeforms", "test", []string{"https://forms.example.com"}),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"https://forms.example.com"},
		MaxBodyBytes:       1 << 20,
	}
	if mutate != nil {
		mutate(cfg)
	}
	return &testRouter{handler: New(cfg), contact: contact, booking: booking}
}

func (tr *testRouter) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	tr.handler.ServeHTTP(rr, req)
	return rr
}

const contactBody = `{"fullName":"Jane Doe","email":"jane@x.com","phone":"555-1111","service":"Tax","message":"Hi","contactMethod":"email"}`
const bookingBody = `{"client_name":"Sam Lee","client_email":"sam@example.com","business_name":"Lee Bakery","client_message":"Hi","consultation_date":"2025-03-01T15:00:00Z"}`

func TestRouterHealthEndpoint(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodGet, "/health", "", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestRouterSubmissionPaths(t *testing.T) {
	tr := newTestRouter(t, nil)

	for _, path := range []string{"/contact", "/api/contact"} {
		rr := tr.do(http.MethodPost, path, contactBody, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
	for _, path := range []string{"/meet/schedule", "/api/meet/schedule"} {
		rr := tr.do(http.MethodPost, path, bookingBody, nil)
		assert.Equal(t, http.StatusOK, rr.Code, path)
	}
	assert.Equal(t, 2, tr.contact.calls)
	assert.Equal(t, 2, tr.booking.calls)
}

func TestRouterNotFoundJSON(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodGet, "/unknown", "", nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"success":false,"error":"Route not found","path":"/unknown"}`, rr.Body.String())
}

func TestRouterMethodNotAllowed(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodGet, "/contact", "", nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, 0, tr.contact.calls)
}

func TestRouterCORSBlocksUnknownOrigin(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodPost, "/contact", contactBody, map[string]string{"Origin": "https://evil.example"})

	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, 0, tr.contact.calls)
}

func TestRouterCORSPreflight(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodOptions, "/meet/schedule", "", map[string]string{
		"Origin":                        "https://forms.example.com",
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "https://forms.example.com", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestRouterRateLimitedSubmissions(t *testing.T) {
	tr := newTestRouter(t, func(cfg *Config) { cfg.Limiter = denyAll{} })

	rr := tr.do(http.MethodPost, "/contact", contactBody, nil)
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, 0, tr.contact.calls)

	rr = tr.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rr.Code, "system routes are not rate limited")
}

func TestRouterBodyLimit(t *testing.T) {
	tr := newTestRouter(t, func(cfg *Config) { cfg.MaxBodyBytes = 16 })

	rr := tr.do(http.MethodPost, "/contact", contactBody, nil)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, 0, tr.contact.calls)
}

func TestRouterMetricsEndpoint(t *testing.T) {
	tr := newTestRouter(t, nil)

	rr := tr.do(http.MethodGet, "/metrics", "", nil)

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRouterWithoutSubmissions(t *testing.T) {
	tr := newTestRouter(t, func(cfg *Config) { cfg.Submissions = nil })

	rr := tr.do(http.MethodPost, "/contact", contactBody, nil)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}

var _ httpmiddleware.Limiter = denyAll{}
