// Package fallback persists submissions whose delivery failed so that no
// accepted request is silently lost.
package fallback

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wolfman30/bridgeforms/internal/submission"
)

// Recorder durably stores a failed submission and returns its record id.
// A record is written once and never read back or updated by the service.
type Recorder interface {
	Record(ctx context.Context, kind submission.Kind, formData any, cause error) (string, error)
}

// Record is the persisted document.
type Record struct {
	Timestamp string `json:"timestamp"`
	FormData  any    `json:"formData"`
	Error     string `json:"error"`
}

// layout maps a submission kind to its directory and filename prefix.
type layout struct {
	dir    string
	prefix string
}

var layouts = map[submission.Kind]layout{
	submission.KindContact: {dir: "submissions", prefix: "submission"},
	submission.KindBooking: {dir: "consultations", prefix: "consultation"},
}

func layoutFor(kind submission.Kind) (layout, error) {
	l, ok := layouts[kind]
	if !ok {
		return layout{}, fmt.Errorf("fallback: unknown submission kind %q", kind)
	}
	return l, nil
}

// recordName is <prefix>_<unix millis>_<8 hex>.json. The random suffix keeps
// names unique across concurrent failures within the same millisecond.
func recordName(prefix string, now time.Time) (string, error) {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", fmt.Errorf("fallback: random suffix: %w", err)
	}
	return fmt.Sprintf("%s_%d_%s.json", prefix, now.UnixMilli(), hex.EncodeToString(b[:])), nil
}

func encodeRecord(now time.Time, formData any, cause error) ([]byte, error) {
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	data, err := json.MarshalIndent(Record{
		Timestamp: now.UTC().Format(time.RFC3339Nano),
		FormData:  formData,
		Error:     msg,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("fallback: marshal record: %w", err)
	}
	return data, nil
}

func storageError(err error) error {
	return &submission.FallbackStorageError{Err: err}
}
