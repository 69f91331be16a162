package bootstrap

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/aws/aws-sdk-go-v2/aws"

	"github.com/wolfman30/bridgeforms/internal/calendar"
	appconfig "github.com/wolfman30/bridgeforms/internal/config"
	"github.com/wolfman30/bridgeforms/internal/fallback"
	httpmiddleware "github.com/wolfman30/bridgeforms/internal/http/middleware"
	"github.com/wolfman30/bridgeforms/internal/notify"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

func TestBuildEmailSenderRequiresConfig(t *testing.T) {
	if _, err := BuildEmailSender(nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestBuildEmailSenderSelection(t *testing.T) {
	logger := logging.Discard()
	awsCfg := &aws.Config{Region: "us-east-1"}

	cases := []struct {
		name string
		cfg  *appconfig.Config
		want any
	}{
		{"stub by default", &appconfig.Config{EmailProvider: "auto"}, &notify.StubEmailSender{}},
		{"sendgrid when key set", &appconfig.Config{EmailProvider: "auto", SendGridAPIKey: "SG.key"}, &notify.SendGridSender{}},
		{"ses when from address set", &appconfig.Config{EmailProvider: "auto", ContactFromEmail: "forms@example.com"}, &notify.SESSender{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sender, err := BuildEmailSender(tc.cfg, awsCfg, logger)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			switch tc.want.(type) {
			case *notify.StubEmailSender:
				if _, ok := sender.(*notify.StubEmailSender); !ok {
					t.Fatalf("expected stub sender, got %T", sender)
				}
			case *notify.SendGridSender:
				if _, ok := sender.(*notify.SendGridSender); !ok {
					t.Fatalf("expected sendgrid sender, got %T", sender)
				}
			case *notify.SESSender:
				if _, ok := sender.(*notify.SESSender); !ok {
					t.Fatalf("expected ses sender, got %T", sender)
				}
			}
		})
	}
}

func TestBuildEmailSenderSESNeedsAWS(t *testing.T) {
	cfg := &appconfig.Config{EmailProvider: "ses"}
	if _, err := BuildEmailSender(cfg, nil, logging.Discard()); err == nil {
		t.Fatalf("expected error without AWS config")
	}
}

func TestBuildSchedulerStubOutsideProduction(t *testing.T) {
	cfg := &appconfig.Config{Env: "development"}

	s, err := BuildScheduler(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*calendar.StubScheduler); !ok {
		t.Fatalf("expected stub scheduler, got %T", s)
	}
}

func TestBuildSchedulerProductionRequiresCredentials(t *testing.T) {
	cfg := &appconfig.Config{Env: "production"}
	if _, err := BuildScheduler(context.Background(), cfg, logging.Discard()); err == nil {
		t.Fatalf("expected error in production without credentials")
	}
}

func TestBuildSchedulerGoogle(t *testing.T) {
	cfg := &appconfig.Config{
		GoogleCalendarClientID:     "client",
		GoogleCalendarClientSecret: "secret",
		GoogleCalendarRefreshToken: "refresh",
		GoogleCalendarID:           "primary",
		CalendarTimeout:            time.Second,
	}
	s, err := BuildScheduler(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := s.(*calendar.GoogleScheduler); !ok {
		t.Fatalf("expected google scheduler, got %T", s)
	}
}

func TestBuildRecorderFile(t *testing.T) {
	cfg := &appconfig.Config{FallbackBackend: "file", FallbackDir: t.TempDir()}

	r, err := BuildRecorder(cfg, nil, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*fallback.FileRecorder); !ok {
		t.Fatalf("expected file recorder, got %T", r)
	}
}

func TestBuildRecorderS3(t *testing.T) {
	cfg := &appconfig.Config{FallbackBackend: "s3", FallbackS3Bucket: "forms-fallback"}

	if _, err := BuildRecorder(cfg, nil, logging.Discard()); err == nil {
		t.Fatalf("expected error without AWS config")
	}
	r, err := BuildRecorder(cfg, &aws.Config{Region: "us-east-1"}, logging.Discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := r.(*fallback.S3Recorder); !ok {
		t.Fatalf("expected s3 recorder, got %T", r)
	}
}

func TestBuildRecorderUnknownBackend(t *testing.T) {
	cfg := &appconfig.Config{FallbackBackend: "dynamo"}
	if _, err := BuildRecorder(cfg, nil, logging.Discard()); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestBuildMessageBuilderInvalidTimezone(t *testing.T) {
	if _, err := BuildMessageBuilder(&appconfig.Config{DisplayTimezone: "Mars/Olympus"}); err == nil {
		t.Fatalf("expected error for invalid timezone")
	}
	if _, err := BuildMessageBuilder(&appconfig.Config{DisplayTimezone: "UTC", BrandName: "BridgeForms"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildRedisClientDisabled(t *testing.T) {
	if client := BuildRedisClient(context.Background(), &appconfig.Config{}, nil, true); client != nil {
		t.Fatalf("expected nil client without REDIS_ADDR")
	}
}

func TestBuildRateLimiter(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	logger := logging.Discard()

	if l := BuildRateLimiter(ctx, &appconfig.Config{RateLimitRPS: 0}, nil, logger); l != nil {
		t.Fatalf("expected limiter disabled for zero rps")
	}

	cfg := &appconfig.Config{RateLimitRPS: 1, RateLimitBurst: 10}
	if _, ok := BuildRateLimiter(ctx, cfg, nil, logger).(*httpmiddleware.RateLimiter); !ok {
		t.Fatalf("expected in-memory limiter without redis")
	}

	mr := miniredis.RunT(t)
	client := BuildRedisClient(ctx, &appconfig.Config{RedisAddr: mr.Addr()}, logger, true)
	if client == nil {
		t.Fatalf("expected redis client")
	}
	defer client.Close()
	if _, ok := BuildRateLimiter(ctx, cfg, client, logger).(*httpmiddleware.RedisLimiter); !ok {
		t.Fatalf("expected redis limiter when redis is available")
	}
}
