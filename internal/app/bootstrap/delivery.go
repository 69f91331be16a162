// Package bootstrap builds the runtime collaborators of the API server from
// configuration.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	"github.com/wolfman30/bridgeforms/internal/calendar"
	"github.com/wolfman30/bridgeforms/internal/compose"
	appconfig "github.com/wolfman30/bridgeforms/internal/config"
	"github.com/wolfman30/bridgeforms/internal/fallback"
	"github.com/wolfman30/bridgeforms/internal/notify"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

// BuildEmailSender returns the configured email provider. awsCfg is only
// required for SES.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (notify.EmailSender, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch provider := cfg.ResolvedEmailProvider(); provider {
	case "sendgrid":
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:  cfg.SendGridAPIKey,
			Timeout: cfg.EmailTimeout,
		}, logger)
		if sender == nil {
			return nil, errors.New("bootstrap: sendgrid selected without SENDGRID_API_KEY")
		}
		logger.Info("email provider: sendgrid")
		return sender, nil
	case "ses":
		if awsCfg == nil {
			return nil, errors.New("bootstrap: ses selected without AWS configuration")
		}
		logger.Info("email provider: ses", "region", awsCfg.Region)
		return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{Timeout: cfg.EmailTimeout}, logger), nil
	case "stub":
		logger.Warn("email provider: stub; no emails will be delivered")
		return notify.NewStubEmailSender(logger), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown email provider %q", provider)
	}
}

// BuildScheduler returns the Google Calendar scheduler, or a stub outside
// production when no credentials are configured.
func BuildScheduler(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (calendar.Scheduler, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if !cfg.CalendarConfigured() {
		if cfg.IsProduction() {
			return nil, errors.New("bootstrap: google calendar credentials are required in production")
		}
		logger.Warn("google calendar not configured; using stub scheduler")
		return calendar.NewStubScheduler(logger), nil
	}
	scheduler, err := calendar.NewGoogleScheduler(ctx, calendar.GoogleConfig{
		ClientID:     cfg.GoogleCalendarClientID,
		ClientSecret: cfg.GoogleCalendarClientSecret,
		RefreshToken: cfg.GoogleCalendarRefreshToken,
		RedirectURL:  cfg.GoogleCalendarRedirectURI,
		CalendarID:   cfg.GoogleCalendarID,
		Timeout:      cfg.CalendarTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}
	return scheduler, nil
}

// BuildRecorder returns the fallback store selected by FALLBACK_BACKEND.
func BuildRecorder(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (fallback.Recorder, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config required")
	}
	switch cfg.FallbackBackend {
	case "", "file":
		return fallback.NewFileRecorder(cfg.FallbackDir, logger), nil
	case "s3":
		if awsCfg == nil {
			return nil, errors.New("bootstrap: s3 fallback selected without AWS configuration")
		}
		client := s3.NewFromConfig(*awsCfg, func(o *s3.Options) {
			o.UsePathStyle = cfg.AWSEndpointOverride != ""
		})
		recorder, err := fallback.NewS3Recorder(client, cfg.FallbackS3Bucket, "", logger)
		if err != nil {
			return nil, err
		}
		return recorder, nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown fallback backend %q", cfg.FallbackBackend)
	}
}

// BuildMessageBuilder renders emails with the configured branding and
// display time zone.
func BuildMessageBuilder(cfg *appconfig.Config) (*compose.Builder, error) {
	if cfg == nil {
		return nil, errors.New("bootstrap: config required")
	}
	loc := time.UTC
	if cfg.DisplayTimezone != "" {
		l, err := time.LoadLocation(cfg.DisplayTimezone)
		if err != nil {
			return nil, fmt.Errorf("bootstrap: load DISPLAY_TIMEZONE: %w", err)
		}
		loc = l
	}
	return compose.NewBuilder(compose.Branding{
		ProductName:     cfg.BrandName,
		OrgName:         cfg.BookingOrgName,
		ConsultantName:  cfg.ConsultantName,
		ConsultantTitle: cfg.ConsultantTitle,
		PlatformName:    cfg.BookingPlatformName,
	}, loc)
}
