package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	PublicBaseURL string
	LogLevel      string
	LogFormat     string

	// HTTP edge
	CORSAllowedOrigins []string
	FrontendURL        string
	MaxBodyBytes       int64
	RateLimitRPS       float64
	RateLimitBurst     int
	RedisAddr          string
	RedisPassword      string
	RedisTLS           bool

	// Email delivery
	EmailProvider    string
	SendGridAPIKey   string
	EmailTimeout     time.Duration
	ContactFromEmail string
	ContactFromName  string
	ContactTo        []string
	ContactBcc       []string
	BookingFromEmail string
	BookingFromName  string
	BookingBcc       []string

	// Google Calendar
	OperatorEmail              string
	GoogleCalendarClientID     string
	GoogleCalendarClientSecret string
	GoogleCalendarRefreshToken string
	GoogleCalendarRedirectURI  string
	GoogleCalendarID           string
	CalendarTimeout            time.Duration

	// Message branding
	DisplayTimezone     string
	BrandName           string
	BookingOrgName      string
	ConsultantName      string
	ConsultantTitle     string
	BookingPlatformName string

	// Fallback persistence
	FallbackBackend  string
	FallbackDir      string
	FallbackS3Bucket string

	// AWS (SES + S3)
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "5000"),
		Env:           getEnv("ENV", "development"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		FrontendURL:        getEnv("FRONTEND_URL", ""),
		MaxBodyBytes:       int64(getEnvAsInt("MAX_BODY_BYTES", 1<<20)),
		RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 1),
		RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 10),
		RedisAddr:          getEnv("REDIS_ADDR", ""),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		RedisTLS:           getEnvAsBool("REDIS_TLS", false),

		EmailProvider:    strings.ToLower(strings.TrimSpace(getEnv("EMAIL_PROVIDER", "auto"))),
		SendGridAPIKey:   getEnv("SENDGRID_API_KEY", ""),
		EmailTimeout:     getEnvAsDuration("EMAIL_TIMEOUT", 15*time.Second),
		ContactFromEmail: getEnv("CONTACT_FROM_EMAIL", ""),
		ContactFromName:  getEnv("CONTACT_FROM_NAME", "BridgeForms"),
		ContactTo:        getEnvAsList("CONTACT_TO", nil),
		ContactBcc:       getEnvAsList("CONTACT_BCC", nil),
		BookingFromEmail: getEnv("BOOKING_FROM_EMAIL", ""),
		BookingFromName:  getEnv("BOOKING_FROM_NAME", "Bankston Alliance"),
		BookingBcc:       getEnvAsList("BOOKING_BCC", nil),

		OperatorEmail:              getEnv("OPERATOR_EMAIL", ""),
		GoogleCalendarClientID:     getEnv("GOOGLE_CALENDAR_CLIENT_ID", ""),
		GoogleCalendarClientSecret: getEnv("GOOGLE_CALENDAR_CLIENT_SECRET", ""),
		GoogleCalendarRefreshToken: getEnv("GOOGLE_CALENDAR_REFRESH_TOKEN", ""),
		GoogleCalendarRedirectURI:  getEnv("GOOGLE_CALENDAR_REDIRECT_URI", "http://localhost:5000/oauth2callback"),
		GoogleCalendarID:           getEnv("GOOGLE_CALENDAR_ID", "primary"),
		CalendarTimeout:            getEnvAsDuration("CALENDAR_TIMEOUT", 20*time.Second),

		DisplayTimezone:     getEnv("DISPLAY_TIMEZONE", "UTC"),
		BrandName:           getEnv("BRAND_NAME", "BridgeForms"),
		BookingOrgName:      getEnv("BOOKING_ORG_NAME", "Bankston Alliance"),
		ConsultantName:      getEnv("CONSULTANT_NAME", "Brittany Bankston"),
		ConsultantTitle:     getEnv("CONSULTANT_TITLE", "Business Consultant & Tax Professional"),
		BookingPlatformName: getEnv("BOOKING_PLATFORM_NAME", "Yoreflow Bookings"),

		FallbackBackend:  strings.ToLower(strings.TrimSpace(getEnv("FALLBACK_BACKEND", "file"))),
		FallbackDir:      getEnv("FALLBACK_DIR", "data"),
		FallbackS3Bucket: getEnv("FALLBACK_S3_BUCKET", ""),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// AllowedOrigins returns the CORS allowlist, including FrontendURL in production.
func (c *Config) AllowedOrigins() []string {
	origins := append([]string(nil), c.CORSAllowedOrigins...)
	if c.IsProduction() && strings.TrimSpace(c.FrontendURL) != "" {
		origins = append(origins, strings.TrimSpace(c.FrontendURL))
	}
	return origins
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// CalendarConfigured reports whether Google Calendar credentials are present.
func (c *Config) CalendarConfigured() bool {
	return c.GoogleCalendarClientID != "" && c.GoogleCalendarClientSecret != "" && c.GoogleCalendarRefreshToken != ""
}

// ResolvedEmailProvider maps "auto" to a concrete provider name.
func (c *Config) ResolvedEmailProvider() string {
	if c.EmailProvider != "" && c.EmailProvider != "auto" {
		return c.EmailProvider
	}
	if c.SendGridAPIKey != "" {
		return "sendgrid"
	}
	if c.ContactFromEmail != "" || c.BookingFromEmail != "" {
		return "ses"
	}
	return "stub"
}

// NeedsAWS reports whether any selected backend talks to AWS.
func (c *Config) NeedsAWS() bool {
	return c.ResolvedEmailProvider() == "ses" || c.FallbackBackend == "s3"
}

// Validate reports settings that cannot work together. Every booking invites
// OPERATOR_EMAIL and every contact form goes to CONTACT_TO, so both are
// required whatever the provider. Real providers also need sender addresses.
func (c *Config) Validate() error {
	provider := c.ResolvedEmailProvider()
	switch provider {
	case "sendgrid":
		if c.SendGridAPIKey == "" {
			return fmt.Errorf("config: EMAIL_PROVIDER=sendgrid requires SENDGRID_API_KEY")
		}
	case "ses", "stub":
	default:
		return fmt.Errorf("config: unknown EMAIL_PROVIDER %q", c.EmailProvider)
	}

	if strings.TrimSpace(c.OperatorEmail) == "" {
		return fmt.Errorf("config: OPERATOR_EMAIL is required")
	}
	if len(c.ContactTo) == 0 {
		return fmt.Errorf("config: CONTACT_TO requires at least one recipient")
	}
	if provider != "stub" {
		if strings.TrimSpace(c.ContactFromEmail) == "" {
			return fmt.Errorf("config: EMAIL_PROVIDER=%s requires CONTACT_FROM_EMAIL", provider)
		}
		if strings.TrimSpace(c.BookingFromEmail) == "" {
			return fmt.Errorf("config: EMAIL_PROVIDER=%s requires BOOKING_FROM_EMAIL", provider)
		}
	}

	switch c.FallbackBackend {
	case "file":
		if strings.TrimSpace(c.FallbackDir) == "" {
			return fmt.Errorf("config: FALLBACK_DIR is required for the file fallback backend")
		}
	case "s3":
		if strings.TrimSpace(c.FallbackS3Bucket) == "" {
			return fmt.Errorf("config: FALLBACK_BACKEND=s3 requires FALLBACK_S3_BUCKET")
		}
	default:
		return fmt.Errorf("config: unknown FALLBACK_BACKEND %q", c.FallbackBackend)
	}

	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("config: invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated variable, dropping blanks.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
