package calendar

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// GoogleConfig holds the OAuth client and refresh token obtained during the
// one-time consent flow, plus the target calendar.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	RedirectURL  string
	CalendarID   string
	Timeout      time.Duration
}

// GoogleScheduler creates Google Calendar events with a Google Meet link.
type GoogleScheduler struct {
	events     *gcal.EventsService
	calendarID string
	logger     *logging.Logger
}

// NewGoogleScheduler builds a scheduler authenticated with a refresh token.
func NewGoogleScheduler(ctx context.Context, cfg GoogleConfig, logger *logging.Logger) (*GoogleScheduler, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" || cfg.RefreshToken == "" {
		return nil, errors.New("calendar: google client id, secret and refresh token are required")
	}
	oauthCfg := &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarScope, gcal.CalendarEventsScope},
	}
	tokens := oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.RefreshToken})

	httpClient := oauth2.NewClient(ctx, tokens)
	httpClient.Timeout = cfg.Timeout

	svc, err := gcal.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("calendar: create google service: %w", err)
	}
	return NewGoogleSchedulerWithService(svc, cfg.CalendarID, logger), nil
}

// NewGoogleSchedulerWithService wraps an existing Calendar API client.
func NewGoogleSchedulerWithService(svc *gcal.Service, calendarID string, logger *logging.Logger) *GoogleScheduler {
	if logger == nil {
		logger = logging.Default()
	}
	if calendarID == "" {
		calendarID = "primary"
	}
	return &GoogleScheduler{events: svc.Events, calendarID: calendarID, logger: logger}
}

// CreateMeeting inserts the event and requests a Meet conference in the same
// call. Attendees receive the provider's invitation emails.
func (g *GoogleScheduler) CreateMeeting(ctx context.Context, req MeetingRequest) (*Booking, error) {
	if req.Start.IsZero() {
		return nil, submission.CalendarError("create meeting", errors.New("start time required"))
	}
	if req.DurationMinutes <= 0 {
		return nil, submission.CalendarError("create meeting", fmt.Errorf("invalid duration %d minutes", req.DurationMinutes))
	}

	start := req.Start.UTC()
	end := req.End().UTC()

	event := &gcal.Event{
		Summary:     req.Title,
		Description: req.Description,
		Start:       &gcal.EventDateTime{DateTime: start.Format(time.RFC3339), TimeZone: "UTC"},
		End:         &gcal.EventDateTime{DateTime: end.Format(time.RFC3339), TimeZone: "UTC"},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 10},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}
	for _, email := range req.Attendees {
		if email = strings.TrimSpace(email); email != "" {
			event.Attendees = append(event.Attendees, &gcal.EventAttendee{Email: email})
		}
	}
	if req.Conferencing {
		event.ConferenceData = &gcal.ConferenceData{
			CreateRequest: &gcal.CreateConferenceRequest{
				RequestId:             "meet_" + uuid.NewString(),
				ConferenceSolutionKey: &gcal.ConferenceSolutionKey{Type: "hangoutsMeet"},
			},
		}
	}

	call := g.events.Insert(g.calendarID, event).SendUpdates("all").Context(ctx)
	if req.Conferencing {
		call = call.ConferenceDataVersion(1)
	}
	created, err := call.Do()
	if err != nil {
		g.logger.Error("google calendar insert failed", "error", err, "calendar_id", g.calendarID)
		return nil, submission.CalendarError("insert event", fmt.Errorf("calendar: google insert: %w", err))
	}

	booking := &Booking{
		MeetLink:       meetLink(created),
		EventID:        created.Id,
		EventLink:      created.HtmlLink,
		ConfirmedStart: parseEventTime(created.Start, start),
		ConfirmedEnd:   parseEventTime(created.End, end),
	}
	if req.Conferencing && booking.MeetLink == "" {
		g.logger.Error("google calendar event created without meet link", "event_id", created.Id)
		return nil, submission.CalendarError("insert event", fmt.Errorf("calendar: event %s has no joinable meeting link", created.Id))
	}

	g.logger.Info("google calendar event created",
		"event_id", booking.EventID,
		"start", booking.ConfirmedStart,
		"end", booking.ConfirmedEnd,
		"attendees", len(event.Attendees),
	)
	return booking, nil
}

func meetLink(ev *gcal.Event) string {
	if ev.HangoutLink != "" {
		return ev.HangoutLink
	}
	if ev.ConferenceData != nil {
		for _, ep := range ev.ConferenceData.EntryPoints {
			if ep != nil && ep.EntryPointType == "video" && ep.Uri != "" {
				return ep.Uri
			}
		}
	}
	return ""
}

func parseEventTime(dt *gcal.EventDateTime, fallback time.Time) time.Time {
	if dt == nil || dt.DateTime == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, dt.DateTime)
	if err != nil {
		return fallback
	}
	return t.UTC()
}

var _ Scheduler = (*GoogleScheduler)(nil)
