// Package calendar creates consultation events with an attached video meeting.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// MeetingRequest describes the event to create.
type MeetingRequest struct {
	Title           string
	Description     string
	Attendees       []string
	Start           time.Time
	DurationMinutes int
	Conferencing    bool // attach a provider-generated video meeting
}

// End is Start plus the requested duration.
func (r MeetingRequest) End() time.Time {
	return r.Start.Add(time.Duration(r.DurationMinutes) * time.Minute)
}

// Booking is the outcome of a successful CreateMeeting call.
type Booking struct {
	MeetLink       string
	EventID        string
	EventLink      string
	ConfirmedStart time.Time
	ConfirmedEnd   time.Time
}

// Scheduler creates calendar events. Event and meeting link are created in a
// single call: either both exist or an error is returned.
type Scheduler interface {
	CreateMeeting(ctx context.Context, req MeetingRequest) (*Booking, error)
}

// StubScheduler fabricates bookings without calling any provider. It is used
// in development when calendar credentials are absent.
type StubScheduler struct {
	logger *logging.Logger
}

// NewStubScheduler creates a stub scheduler.
func NewStubScheduler(logger *logging.Logger) *StubScheduler {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubScheduler{logger: logger}
}

// CreateMeeting returns a fake booking derived from the request.
func (s *StubScheduler) CreateMeeting(ctx context.Context, req MeetingRequest) (*Booking, error) {
	start := req.Start.UTC()
	id := fmt.Sprintf("stub%d", start.Unix())
	booking := &Booking{
		MeetLink:       "https://meet.google.com/" + id,
		EventID:        id,
		EventLink:      "https://calendar.google.com/calendar/event?eid=" + id,
		ConfirmedStart: start,
		ConfirmedEnd:   req.End().UTC(),
	}
	s.logger.Info("stub scheduler: would create meeting", "title", req.Title, "attendees", req.Attendees, "start", start, "event_id", id)
	return booking, nil
}

var _ Scheduler = (*StubScheduler)(nil)
