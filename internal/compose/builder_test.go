package compose

import (
	"strings"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/bridgeforms/internal/submission"
)

var testBrand = Branding{
	ProductName:     "BridgeForms",
	OrgName:         "Bankston Alliance",
	ConsultantName:  "Brittany Bankston",
	ConsultantTitle: "Business Consultant and Tax Professional",
	PlatformName:    "Yoreflow Bookings",
}

func mustBuilder(t *testing.T, brand Branding, location *time.Location) *Builder {
	t.Helper()
	b, err := NewBuilder(brand, location)
	require.NoError(t, err)
	return b
}

func contactRequest() *submission.ContactRequest {
	return &submission.ContactRequest{
		FullName:      "Jane Doe",
		Email:         "jane@x.com",
		Phone:         "555-1111",
		Service:       "Tax",
		Message:       "Hi",
		ContactMethod: "email",
	}
}

func TestContactMessage_ContainsRequiredFields(t *testing.T) {
	b := mustBuilder(t, testBrand, nil)
	req := contactRequest()

	msg, err := b.ContactMessage(req)
	require.NoError(t, err)

	assert.Equal(t, "BridgeForms - New Contact from Jane Doe", msg.Subject)
	for _, value := range []string{req.FullName, req.Email, req.Phone, req.Service, req.Message, req.ContactMethod} {
		assert.Contains(t, msg.Text, value)
		assert.Contains(t, msg.HTML, value)
	}
}

func TestContactMessage_OptionalFallbacks(t *testing.T) {
	b := mustBuilder(t, testBrand, nil)

	msg, err := b.ContactMessage(contactRequest())
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "Company Name: Not provided")
	assert.Contains(t, msg.Text, "Employees: Not provided")
	assert.Contains(t, msg.Text, "Interests: None")
	assert.Contains(t, msg.Text, "No files uploaded")
	assert.Contains(t, msg.HTML, "<p>No files uploaded</p>")
	assert.Contains(t, msg.HTML, "Uploaded Files (0)")
	assert.Contains(t, msg.HTML, "<strong>Company Name:</strong> Not provided")
	assert.Contains(t, msg.HTML, "<strong>Interests:</strong> None")
}

func TestContactMessage_FilesAndOptionalFields(t *testing.T) {
	b := mustBuilder(t, testBrand, nil)
	req := contactRequest()
	req.CompanyName = "Doe Holdings"
	req.NumEmployees = "12"
	req.Interests = submission.StringList{"Payroll", "Bookkeeping"}
	req.UploadedFiles = []string{"https://cdn.example.com/a.pdf", "https://cdn.example.com/b.png"}

	msg, err := b.ContactMessage(req)
	require.NoError(t, err)

	assert.Contains(t, msg.Text, "File 1: https://cdn.example.com/a.pdf\nFile 2: https://cdn.example.com/b.png\n")
	assert.NotContains(t, msg.Text, "No files uploaded")
	assert.Contains(t, msg.Text, "Interests: Payroll, Bookkeeping")
	assert.Contains(t, msg.Text, "Employees: 12")
	assert.Contains(t, msg.HTML, "Uploaded Files (2)")
	assert.Contains(t, msg.HTML, `<strong>File 2:</strong> <a href="https://cdn.example.com/b.png"`)
	assert.Contains(t, msg.HTML, "Doe Holdings")
}

func TestContactMessage_EscapesHTML(t *testing.T) {
	b := mustBuilder(t, testBrand, nil)
	req := contactRequest()
	req.Message = "<script>alert(1)</script>"

	msg, err := b.ContactMessage(req)
	require.NoError(t, err)

	assert.NotContains(t, msg.HTML, "<script>")
	assert.Contains(t, msg.Text, "<script>alert(1)</script>")
}

func TestContactMessage_Deterministic(t *testing.T) {
	b := mustBuilder(t, testBrand, nil)
	req := contactRequest()
	req.UploadedFiles = []string{"https://cdn.example.com/a.pdf"}

	first, err := b.ContactMessage(req)
	require.NoError(t, err)
	second, err := b.ContactMessage(req)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func bookingRequest() *submission.BookingRequest {
	return &submission.BookingRequest{
		ClientName:       "Sam Lee",
		ClientEmail:      "sam@example.com",
		BusinessName:     "Lee Bakery",
		ClientMessage:    "Need help with payroll",
		ConsultationDate: "2025-03-01T15:00:00Z",
	}
}

func TestBookingMessage(t *testing.T) {
	b := mustBuilder(t, testBrand, nil)
	meeting := Meeting{
		MeetLink:  "https://meet.google.com/abc-defg-hij",
		EventLink: "https://calendar.google.com/event?eid=xyz",
		Start:     time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
	}

	msg, err := b.BookingMessage(bookingRequest(), "BKABCD1234", meeting)
	require.NoError(t, err)

	assert.Equal(t, "Consultation Confirmation - BKABCD1234", msg.Subject)
	for _, body := range []string{msg.Text, msg.HTML} {
		assert.Contains(t, body, "Sam Lee")
		assert.Contains(t, body, "sam@example.com")
		assert.Contains(t, body, "Lee Bakery")
		assert.Contains(t, body, "Need help with payroll")
		assert.Contains(t, body, "BKABCD1234")
		assert.Contains(t, body, "03:00 PM")
		assert.Contains(t, body, "Saturday, March 1, 2025")
		assert.Contains(t, body, "https://meet.google.com/abc-defg-hij")
		assert.Contains(t, body, "Brittany Bankston")
	}
	assert.Contains(t, msg.Text, "Google Calendar Link: https://calendar.google.com/event?eid=xyz")
	assert.True(t, strings.HasPrefix(msg.Text, "Consultation Booking Confirmation - Bankston Alliance"))
}

func TestBookingMessage_DisplayLocation(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	b := mustBuilder(t, testBrand, ny)

	msg, err := b.BookingMessage(bookingRequest(), "BKABCD1234", Meeting{
		Start: time.Date(2025, 3, 1, 15, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Contains(t, msg.Text, "Time: 10:00 AM")
}
