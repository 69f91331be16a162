package pipeline

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/wolfman30/bridgeforms/internal/calendar"
	"github.com/wolfman30/bridgeforms/internal/compose"
	"github.com/wolfman30/bridgeforms/internal/notify"
	"github.com/wolfman30/bridgeforms/internal/submission"
)

// callLog records the order in which collaborators were invoked.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, name)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type mockEmailSender struct {
	log  *callLog
	sent []notify.EmailMessage
	err  error
}

func (m *mockEmailSender) Send(_ context.Context, msg notify.EmailMessage) (string, error) {
	m.log.add("email")
	m.sent = append(m.sent, msg)
	if m.err != nil {
		return "", m.err
	}
	return "msg-1", nil
}

type mockScheduler struct {
	log      *callLog
	requests []calendar.MeetingRequest
	err      error
	endSkew  time.Duration // shifts the reported end away from start + duration
}

func (m *mockScheduler) CreateMeeting(_ context.Context, req calendar.MeetingRequest) (*calendar.Booking, error) {
	m.log.add("calendar")
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &calendar.Booking{
		MeetLink:       "https://meet.google.com/abc-defg-hij",
		EventID:        "evt-1",
		EventLink:      "https://calendar.google.com/event?eid=evt-1",
		ConfirmedStart: req.Start,
		ConfirmedEnd:   req.End().Add(m.endSkew),
	}, nil
}

type recordedFallback struct {
	kind     submission.Kind
	formData any
	cause    error
}

type mockRecorder struct {
	log     *callLog
	records []recordedFallback
	err     error
}

func (m *mockRecorder) Record(_ context.Context, kind submission.Kind, formData any, cause error) (string, error) {
	m.log.add("fallback")
	m.records = append(m.records, recordedFallback{kind: kind, formData: formData, cause: cause})
	if m.err != nil {
		return "", m.err
	}
	return "submission_1740841200000_0a1b2c3d.json", nil
}

var errProviderDown = errors.New("provider unavailable")

var testBrand = compose.Branding{
	ProductName:     "BridgeForms",
	OrgName:         "Bankston Alliance",
	ConsultantName:  "Brittany Bankston",
	ConsultantTitle: "Business Consultant",
	PlatformName:    "Yoreflow Bookings",
}

var fixedNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testBuilder() *compose.Builder {
	b, err := compose.NewBuilder(testBrand, nil)
	if err != nil {
		panic(err)
	}
	return b
}
