package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// EmailSender defines the interface for sending emails.
// Implementations can be swapped (SendGrid, SES, stub) without changing callers.
// Send makes exactly one delivery attempt and returns the provider message id.
type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) (string, error)
}

// EmailMessage represents an email to be sent.
type EmailMessage struct {
	FromEmail string
	FromName  string
	To        []string
	Bcc       []string
	Subject   string
	Body      string // Plain text body
	HTML      string // Optional HTML body
}

func (m EmailMessage) validate() error {
	if m.FromEmail == "" {
		return fmt.Errorf("notify: sender address required")
	}
	if len(m.To) == 0 {
		return fmt.Errorf("notify: at least one recipient required")
	}
	return nil
}

type sendgridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// SendGridSender sends emails via SendGrid API.
type SendGridSender struct {
	client  sendgridClient
	timeout time.Duration
	logger  *logging.Logger
}

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey  string
	Timeout time.Duration
}

// NewSendGridSender creates a new SendGrid email sender.
func NewSendGridSender(cfg SendGridConfig, logger *logging.Logger) *SendGridSender {
	if cfg.APIKey == "" {
		return nil
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &SendGridSender{
		client:  sendgrid.NewSendClient(cfg.APIKey),
		timeout: cfg.Timeout,
		logger:  logger,
	}
}

// Send sends an email via SendGrid.
func (s *SendGridSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	if s == nil || s.client == nil {
		return "", submission.EmailError("sendgrid", fmt.Errorf("notify: sendgrid client not configured"))
	}
	if err := msg.validate(); err != nil {
		return "", submission.EmailError("sendgrid", err)
	}
	ctx, cancel := withTimeout(ctx, s.timeout)
	defer cancel()

	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(msg.FromName, msg.FromEmail))
	message.Subject = msg.Subject

	p := mail.NewPersonalization()
	for _, to := range msg.To {
		p.AddTos(mail.NewEmail("", to))
	}
	for _, bcc := range msg.Bcc {
		p.AddBCCs(mail.NewEmail("", bcc))
	}
	message.AddPersonalizations(p)

	text := msg.Body
	if text == "" {
		text = msg.HTML
	}
	message.AddContent(mail.NewContent("text/plain", text))
	if msg.HTML != "" {
		message.AddContent(mail.NewContent("text/html", msg.HTML))
	}

	response, err := s.client.SendWithContext(ctx, message)
	if err != nil {
		s.logger.Error("sendgrid send failed", "error", err, "to", msg.To)
		return "", submission.EmailError("sendgrid", fmt.Errorf("notify: sendgrid send failed: %w", err))
	}

	if response.StatusCode >= 400 {
		s.logger.Error("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", msg.To)
		return "", submission.EmailError("sendgrid", fmt.Errorf("notify: sendgrid returned status %d: %s", response.StatusCode, response.Body))
	}

	messageID := headerValue(response.Headers, "X-Message-Id")
	s.logger.Info("email sent via sendgrid", "to", msg.To, "subject", msg.Subject, "status", response.StatusCode, "message_id", messageID)
	return messageID, nil
}

func headerValue(headers map[string][]string, key string) string {
	if values := headers[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

// StubEmailSender is a no-op sender for testing or when email is disabled.
type StubEmailSender struct {
	logger *logging.Logger
}

// NewStubEmailSender creates a stub email sender that logs but doesn't send.
func NewStubEmailSender(logger *logging.Logger) *StubEmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	return &StubEmailSender{logger: logger}
}

// Send logs the email but doesn't actually send it.
func (s *StubEmailSender) Send(ctx context.Context, msg EmailMessage) (string, error) {
	// No sender address is needed when nothing leaves the process.
	if len(msg.To) == 0 {
		return "", submission.EmailError("stub", fmt.Errorf("notify: at least one recipient required"))
	}
	id := "stub-" + uuid.NewString()
	s.logger.Info("stub email sender: would send email", "to", msg.To, "bcc", msg.Bcc, "subject", msg.Subject, "message_id", id)
	return id, nil
}

func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

var (
	_ EmailSender = (*SendGridSender)(nil)
	_ EmailSender = (*StubEmailSender)(nil)
)
