// Package compose renders the notification emails sent by the submission
// pipelines. Rendering is a pure function of its inputs.
package compose

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"text/template"
	"time"

	"github.com/wolfman30/bridgeforms/internal/submission"
)

const (
	notProvided = "Not provided"
	noInterests = "None"
	noFiles     = "No files uploaded"
)

// Message is a rendered email: subject plus text and HTML bodies.
type Message struct {
	Subject string
	Text    string
	HTML    string
}

// Branding holds the names printed in email bodies.
type Branding struct {
	ProductName     string // contact notifications, e.g. "BridgeForms"
	OrgName         string // booking confirmations, e.g. "Bankston Alliance"
	ConsultantName  string
	ConsultantTitle string
	PlatformName    string
}

// Meeting is the calendar data a booking confirmation refers to.
type Meeting struct {
	MeetLink  string
	EventLink string
	Start     time.Time
}

// Builder renders contact and booking messages.
type Builder struct {
	brand    Branding
	location *time.Location

	contactText *template.Template
	contactHTML *htmltemplate.Template
	bookingText *template.Template
	bookingHTML *htmltemplate.Template
}

// NewBuilder parses the email templates. A nil location renders times in UTC.
func NewBuilder(brand Branding, location *time.Location) (*Builder, error) {
	if location == nil {
		location = time.UTC
	}
	b := &Builder{brand: brand, location: location}

	var err error
	if b.contactText, err = template.New("contact.txt").Option("missingkey=error").Parse(contactTextTmpl); err != nil {
		return nil, fmt.Errorf("compose: parse contact text: %w", err)
	}
	if b.contactHTML, err = htmltemplate.New("contact.html").Option("missingkey=error").Parse(contactHTMLTmpl); err != nil {
		return nil, fmt.Errorf("compose: parse contact html: %w", err)
	}
	if b.bookingText, err = template.New("booking.txt").Option("missingkey=error").Parse(bookingTextTmpl); err != nil {
		return nil, fmt.Errorf("compose: parse booking text: %w", err)
	}
	if b.bookingHTML, err = htmltemplate.New("booking.html").Option("missingkey=error").Parse(bookingHTMLTmpl); err != nil {
		return nil, fmt.Errorf("compose: parse booking html: %w", err)
	}
	return b, nil
}

type fileLink struct {
	N   int
	URL string
}

type contactView struct {
	Brand         Branding
	FullName      string
	Email         string
	Phone         string
	ContactMethod string
	CompanyName   string
	NumEmployees  string
	Service       string
	Interests     string
	Files         []fileLink
	NoFiles       string
	Message       string
}

// ContactMessage renders the operator notification for a contact submission.
func (b *Builder) ContactMessage(req *submission.ContactRequest) (Message, error) {
	view := contactView{
		Brand:         b.brand,
		FullName:      req.FullName,
		Email:         req.Email,
		Phone:         req.Phone,
		ContactMethod: req.ContactMethod,
		CompanyName:   orDefault(req.CompanyName, notProvided),
		NumEmployees:  orDefault(string(req.NumEmployees), notProvided),
		Service:       req.Service,
		Interests:     orDefault(req.Interests.Join(), noInterests),
		Files:         numberFiles(req.UploadedFiles),
		NoFiles:       noFiles,
		Message:       req.Message,
	}

	text, err := render(b.contactText, view)
	if err != nil {
		return Message{}, err
	}
	html, err := renderHTML(b.contactHTML, view)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Subject: fmt.Sprintf("%s - New Contact from %s", b.brand.ProductName, req.FullName),
		Text:    text,
		HTML:    html,
	}, nil
}

type bookingView struct {
	Brand           Branding
	Time            string
	Date            string
	ClientName      string
	ClientEmail     string
	BusinessName    string
	ClientMessage   string
	ReservationCode string
	MeetLink        string
	EventLink       string
}

// BookingMessage renders the confirmation for a scheduled consultation.
func (b *Builder) BookingMessage(req *submission.BookingRequest, code string, meeting Meeting) (Message, error) {
	start := meeting.Start.In(b.location)
	view := bookingView{
		Brand:           b.brand,
		Time:            start.Format("03:04 PM"),
		Date:            start.Format("Monday, January 2, 2006"),
		ClientName:      req.ClientName,
		ClientEmail:     req.ClientEmail,
		BusinessName:    req.BusinessName,
		ClientMessage:   req.ClientMessage,
		ReservationCode: code,
		MeetLink:        meeting.MeetLink,
		EventLink:       meeting.EventLink,
	}

	text, err := render(b.bookingText, view)
	if err != nil {
		return Message{}, err
	}
	html, err := renderHTML(b.bookingHTML, view)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Subject: fmt.Sprintf("Consultation Confirmation - %s", code),
		Text:    text,
		HTML:    html,
	}, nil
}

func render(t *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("compose: execute %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func renderHTML(t *htmltemplate.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("compose: execute %s: %w", t.Name(), err)
	}
	return buf.String(), nil
}

func numberFiles(urls []string) []fileLink {
	if len(urls) == 0 {
		return nil
	}
	links := make([]fileLink, len(urls))
	for i, url := range urls {
		links[i] = fileLink{N: i + 1, URL: url}
	}
	return links
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
