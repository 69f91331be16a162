package submission

import (
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validContact() ContactRequest {
	return ContactRequest{
		FullName:      "Jane Doe",
		Email:         "jane@x.com",
		Phone:         "555-1111",
		Service:       "Tax",
		Message:       "Hi",
		ContactMethod: "email",
	}
}

func TestContactRequest_Validate(t *testing.T) {
	req := validContact()
	require.NoError(t, req.Validate())

	req.Phone = ""
	req.ContactMethod = ""
	err := req.Validate()
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"phone", "contactMethod"}, verr.Missing)
	assert.True(t, errors.Is(err, ErrMissingFields))
}

func TestContactRequest_ValidateIsPresenceOnly(t *testing.T) {
	req := validContact()
	req.Email = "not-an-email"
	req.Phone = "call me maybe"
	assert.NoError(t, req.Validate())
}

func TestContactRequest_DecodeFlexibleFields(t *testing.T) {
	body := `{"fullName":"Jane","interests":"Payroll","numEmployees":25,"uploadedFiles":["https://cdn/a.pdf"]}`
	var req ContactRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, StringList{"Payroll"}, req.Interests)
	assert.Equal(t, FlexString("25"), req.NumEmployees)
	assert.Equal(t, 1, req.FilesCount())

	body = `{"interests":["Payroll","Tax"],"numEmployees":"10-50"}`
	req = ContactRequest{}
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	assert.Equal(t, "Payroll, Tax", req.Interests.Join())
	assert.Equal(t, FlexString("10-50"), req.NumEmployees)

	body = `{"interests":{"a":1}}`
	req = ContactRequest{}
	assert.Error(t, json.Unmarshal([]byte(body), &req))
}

func TestContactRequest_FormDataPrefersRaw(t *testing.T) {
	req := validContact()
	assert.Equal(t, &req, req.FormData())

	req.Raw = json.RawMessage(`{"fullName":"Jane Doe","extra":true}`)
	assert.Equal(t, req.Raw, req.FormData())
}

func TestBookingRequest_Validate(t *testing.T) {
	req := BookingRequest{}
	err := req.Validate()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"client_name", "client_email", "business_name", "client_message", "consultation_date"}, verr.Missing)

	req = BookingRequest{
		ClientName:       "Sam",
		ClientEmail:      "sam@example.com",
		BusinessName:     "Sam Co",
		ClientMessage:    "Quarterly taxes",
		ConsultationDate: "next tuesday",
	}
	assert.NoError(t, req.Validate(), "date format is not validated")
}

func TestBookingRequest_RequestedStart(t *testing.T) {
	cases := map[string]time.Time{
		"2025-03-01T15:00:00Z":      time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
		"2025-03-01T10:00:00-05:00": time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
		"2025-03-01T15:00":          time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
		"2025-03-01T15:00:00.000Z":  time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
	}
	for in, want := range cases {
		req := BookingRequest{ConsultationDate: in}
		got, err := req.RequestedStart()
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	_, err := (&BookingRequest{ConsultationDate: "tomorrow"}).RequestedStart()
	assert.Error(t, err)
}

var reservationPattern = regexp.MustCompile(`^BK[A-Z0-9]{8}$`)

func TestNewReservationCode(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 500; i++ {
		code := NewReservationCode()
		require.Len(t, code, 10)
		require.Regexp(t, reservationPattern, code)
		seen[code] = struct{}{}
	}
	assert.Greater(t, len(seen), 490)
}

func TestProviderErrorClassification(t *testing.T) {
	cause := errors.New("quota exceeded")
	calErr := CalendarError("insert event", cause)
	emailErr := EmailError("send", cause)

	assert.True(t, IsCalendarError(calErr))
	assert.False(t, IsEmailError(calErr))
	assert.True(t, IsEmailError(emailErr))
	assert.True(t, errors.Is(calErr, cause))
	assert.Equal(t, "calendar provider: insert event: quota exceeded", calErr.Error())

	storeErr := &FallbackStorageError{Err: cause}
	assert.True(t, errors.Is(storeErr, cause))
}
