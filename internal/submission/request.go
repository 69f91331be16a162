// Package submission holds the form payloads accepted by the service, their
// presence validation, and the error taxonomy shared by the delivery pipelines.
package submission

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Kind identifies which pipeline a submission belongs to.
type Kind string

const (
	KindContact Kind = "contact"
	KindBooking Kind = "booking"
)

// ContactRequest is the body of POST /contact.
type ContactRequest struct {
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone"`
	Service       string     `json:"service"`
	Message       string     `json:"message"`
	ContactMethod string     `json:"contactMethod"`
	CompanyName   string     `json:"companyName,omitempty"`
	NumEmployees  FlexString `json:"numEmployees,omitempty"`
	Interests     StringList `json:"interests,omitempty"`
	UploadedFiles []string   `json:"uploadedFiles,omitempty"`

	// Raw is the body exactly as received; fallback records persist it verbatim.
	Raw json.RawMessage `json:"-"`
}

// Validate reports every required field that is empty.
func (r *ContactRequest) Validate() error {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("fullName", r.FullName)
	check("email", r.Email)
	check("phone", r.Phone)
	check("service", r.Service)
	check("message", r.Message)
	check("contactMethod", r.ContactMethod)
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// FilesCount is the number of pre-uploaded file URLs attached to the request.
func (r *ContactRequest) FilesCount() int {
	return len(r.UploadedFiles)
}

// FormData returns the payload to persist in a fallback record.
func (r *ContactRequest) FormData() any {
	if len(r.Raw) > 0 {
		return r.Raw
	}
	return r
}

// BookingRequest is the body of POST /meet/schedule.
type BookingRequest struct {
	ClientName       string `json:"client_name"`
	ClientEmail      string `json:"client_email"`
	BusinessName     string `json:"business_name"`
	ClientMessage    string `json:"client_message"`
	ConsultationDate string `json:"consultation_date"`

	Raw json.RawMessage `json:"-"`
}

// Validate reports every required field that is empty. The date is only
// checked for presence; parsing happens when the meeting is scheduled.
func (r *BookingRequest) Validate() error {
	var missing []string
	check := func(name, value string) {
		if value == "" {
			missing = append(missing, name)
		}
	}
	check("client_name", r.ClientName)
	check("client_email", r.ClientEmail)
	check("business_name", r.BusinessName)
	check("client_message", r.ClientMessage)
	check("consultation_date", r.ConsultationDate)
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// consultationLayouts are tried in order; zone-less forms are read as UTC.
var consultationLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// RequestedStart parses ConsultationDate as an ISO-8601 timestamp.
func (r *BookingRequest) RequestedStart() (time.Time, error) {
	value := strings.TrimSpace(r.ConsultationDate)
	for _, layout := range consultationLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("submission: unparseable consultation_date %q", r.ConsultationDate)
}

// FormData returns the payload to persist in a fallback record.
func (r *BookingRequest) FormData() any {
	if len(r.Raw) > 0 {
		return r.Raw
	}
	return r
}

// StringList accepts either a JSON array of strings or a single string.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var single string
		if err := json.Unmarshal(data, &single); err != nil {
			return err
		}
		if single == "" {
			*l = nil
		} else {
			*l = StringList{single}
		}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("submission: expected string or array of strings: %w", err)
	}
	*l = many
	return nil
}

// Join renders the list the way the notification bodies show it.
func (l StringList) Join() string {
	return strings.Join(l, ", ")
}

// FlexString accepts a JSON string or number and keeps its textual form.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("submission: expected string or number: %w", err)
	}
	*s = FlexString(num.String())
	return nil
}
