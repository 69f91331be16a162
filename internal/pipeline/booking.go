package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wolfman30/bridgeforms/internal/calendar"
	"github.com/wolfman30/bridgeforms/internal/compose"
	"github.com/wolfman30/bridgeforms/internal/fallback"
	"github.com/wolfman30/bridgeforms/internal/notify"
	"github.com/wolfman30/bridgeforms/internal/observability/metrics"
	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// ConsultationMinutes is the length of every booked consultation.
const ConsultationMinutes = 60

const consultationLength = ConsultationMinutes * time.Minute

// BookingConfig wires the booking pipeline.
type BookingConfig struct {
	Sender    notify.EmailSender
	Scheduler calendar.Scheduler
	Recorder  fallback.Recorder
	Builder   *compose.Builder

	FromEmail     string
	FromName      string
	Bcc           []string
	OperatorEmail string // invited to every event alongside the client

	NewCode submission.CodeGenerator

	Logger  *logging.Logger
	Metrics *metrics.SubmissionMetrics
}

// BookingResult is returned when both the calendar event and the
// confirmation email succeeded.
type BookingResult struct {
	ClientName      string
	ClientEmail     string
	BusinessName    string
	ReservationCode string
	MeetLink        string
	CalendarLink    string
	EventID         string
	ScheduledTime   time.Time
	EndTime         time.Time
	MessageID       string
}

// BookingPipeline schedules a consultation and confirms it by email.
type BookingPipeline struct {
	cfg BookingConfig
	run runner
}

// NewBookingPipeline checks that every collaborator is present.
func NewBookingPipeline(cfg BookingConfig) (*BookingPipeline, error) {
	if cfg.Sender == nil {
		return nil, errors.New("pipeline: booking email sender required")
	}
	if cfg.Scheduler == nil {
		return nil, errors.New("pipeline: booking scheduler required")
	}
	if cfg.Recorder == nil {
		return nil, errors.New("pipeline: booking fallback recorder required")
	}
	if cfg.Builder == nil {
		return nil, errors.New("pipeline: booking message builder required")
	}
	if strings.TrimSpace(cfg.OperatorEmail) == "" {
		return nil, errors.New("pipeline: booking operator email required")
	}
	if cfg.NewCode == nil {
		cfg.NewCode = submission.NewReservationCode
	}
	return &BookingPipeline{
		cfg: cfg,
		run: newRunner(submission.KindBooking, cfg.Recorder, cfg.Logger, cfg.Metrics),
	}, nil
}

// Submit runs the booking flow. The calendar event is always created before
// the email is attempted, and a created event is not rolled back when the
// email fails.
func (p *BookingPipeline) Submit(ctx context.Context, req *submission.BookingRequest) (*BookingResult, error) {
	if req == nil {
		return nil, p.run.invalid(&submission.ValidationError{Missing: []string{"client_name", "client_email", "business_name", "client_message", "consultation_date"}})
	}
	if err := req.Validate(); err != nil {
		return nil, p.run.invalid(err)
	}

	code := p.cfg.NewCode()
	logger := p.run.logger.With("reservation_code", code)

	var (
		start   time.Time
		booking *calendar.Booking
	)
	err := p.run.step(ctx, stepCalendar, func(ctx context.Context) error {
		var err error
		start, err = req.RequestedStart()
		if err != nil {
			return submission.CalendarError("parse start", err)
		}
		booking, err = p.cfg.Scheduler.CreateMeeting(ctx, p.meetingRequest(req, start))
		if err != nil {
			return asCalendarError(err)
		}
		return nil
	})
	if err != nil {
		return nil, p.run.degrade(ctx, req.FormData(), err)
	}
	logger.Info("consultation event created", "event_id", booking.EventID, "start", booking.ConfirmedStart)

	var msg compose.Message
	err = p.run.step(ctx, stepCompose, func(context.Context) error {
		var err error
		msg, err = p.cfg.Builder.BookingMessage(req, code, compose.Meeting{
			MeetLink:  booking.MeetLink,
			EventLink: booking.EventLink,
			Start:     start,
		})
		return err
	})
	if err != nil {
		return nil, p.run.degrade(ctx, req.FormData(), err)
	}

	var messageID string
	err = p.run.step(ctx, stepEmail, func(ctx context.Context) error {
		var err error
		messageID, err = p.cfg.Sender.Send(ctx, notify.EmailMessage{
			FromEmail: p.cfg.FromEmail,
			FromName:  p.cfg.FromName,
			To:        []string{req.ClientEmail},
			Bcc:       p.cfg.Bcc,
			Subject:   msg.Subject,
			Body:      msg.Text,
			HTML:      msg.HTML,
		})
		return err
	})
	if err != nil {
		logger.Warn("confirmation email failed after event creation", "event_id", booking.EventID)
		return nil, p.run.degrade(ctx, req.FormData(), asEmailError(err))
	}

	p.run.succeeded()
	logger.Info("consultation booked", "event_id", booking.EventID, "message_id", messageID)
	return &BookingResult{
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		BusinessName:    req.BusinessName,
		ReservationCode: code,
		MeetLink:        booking.MeetLink,
		CalendarLink:    booking.EventLink,
		EventID:         booking.EventID,
		ScheduledTime:   booking.ConfirmedStart,
		EndTime:         booking.ConfirmedStart.Add(consultationLength),
		MessageID:       messageID,
	}, nil
}

func (p *BookingPipeline) meetingRequest(req *submission.BookingRequest, start time.Time) calendar.MeetingRequest {
	return calendar.MeetingRequest{
		Title:           fmt.Sprintf("Consultation with %s - %s", req.ClientName, req.BusinessName),
		Description:     fmt.Sprintf("Business Consultation\nClient: %s\nBusiness: %s", req.ClientName, req.BusinessName),
		Attendees:       []string{req.ClientEmail, p.cfg.OperatorEmail},
		Start:           start,
		DurationMinutes: ConsultationMinutes,
		Conferencing:    true,
	}
}

func asCalendarError(err error) error {
	if submission.IsCalendarError(err) {
		return err
	}
	return submission.CalendarError("create meeting", fmt.Errorf("pipeline: %w", err))
}
