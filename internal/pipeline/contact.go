package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wolfman30/bridgeforms/internal/compose"
	"github.com/wolfman30/bridgeforms/internal/fallback"
	"github.com/wolfman30/bridgeforms/internal/notify"
	"github.com/wolfman30/bridgeforms/internal/observability/metrics"
	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// ContactConfig wires the contact pipeline.
type ContactConfig struct {
	Sender   notify.EmailSender
	Recorder fallback.Recorder
	Builder  *compose.Builder

	FromEmail string
	FromName  string
	To        []string
	Bcc       []string

	Now     func() time.Time
	Logger  *logging.Logger
	Metrics *metrics.SubmissionMetrics
}

// ContactResult is returned when the notification email was accepted.
type ContactResult struct {
	Name       string
	Email      string
	FilesCount int
	Timestamp  time.Time
	MessageID  string
}

// ContactPipeline validates a contact request and emails it to the operators.
type ContactPipeline struct {
	cfg ContactConfig
	run runner
}

// NewContactPipeline checks that every collaborator is present.
func NewContactPipeline(cfg ContactConfig) (*ContactPipeline, error) {
	if cfg.Sender == nil {
		return nil, errors.New("pipeline: contact email sender required")
	}
	if cfg.Recorder == nil {
		return nil, errors.New("pipeline: contact fallback recorder required")
	}
	if cfg.Builder == nil {
		return nil, errors.New("pipeline: contact message builder required")
	}
	if len(cfg.To) == 0 {
		return nil, errors.New("pipeline: contact recipient required")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &ContactPipeline{
		cfg: cfg,
		run: newRunner(submission.KindContact, cfg.Recorder, cfg.Logger, cfg.Metrics),
	}, nil
}

// Submit runs the contact flow. It returns a *submission.ValidationError
// before any side effect, a *DegradedError once the submission has been saved
// to the fallback store, or a *submission.FallbackStorageError if even that
// failed.
func (p *ContactPipeline) Submit(ctx context.Context, req *submission.ContactRequest) (*ContactResult, error) {
	if req == nil {
		return nil, p.run.invalid(&submission.ValidationError{Missing: []string{"fullName", "email", "phone", "service", "message", "contactMethod"}})
	}
	if err := req.Validate(); err != nil {
		return nil, p.run.invalid(err)
	}

	var msg compose.Message
	err := p.run.step(ctx, stepCompose, func(context.Context) error {
		var err error
		msg, err = p.cfg.Builder.ContactMessage(req)
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
			To:        p.cfg.To,
			Bcc:       p.cfg.Bcc,
			Subject:   msg.Subject,
			Body:      msg.Text,
			HTML:      msg.HTML,
		})
		return err
	})
	if err != nil {
		return nil, p.run.degrade(ctx, req.FormData(), asEmailError(err))
	}

	p.run.succeeded()
	p.run.logger.Info("contact submission delivered", "message_id", messageID, "files", req.FilesCount())
	return &ContactResult{
		Name:       req.FullName,
		Email:      req.Email,
		FilesCount: req.FilesCount(),
		Timestamp:  p.cfg.Now().UTC(),
		MessageID:  messageID,
	}, nil
}

// asEmailError keeps provider classification for senders that return plain
// errors.
func asEmailError(err error) error {
	if submission.IsEmailError(err) {
		return err
	}
	return submission.EmailError("send", fmt.Errorf("pipeline: %w", err))
}
