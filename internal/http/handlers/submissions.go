package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/wolfman30/bridgeforms/internal/pipeline"
	"github.com/wolfman30/bridgeforms/internal/submission"
	"github.com/wolfman30/bridgeforms/pkg/logging"
)

const (
	msgMissingFields  = "All required fields must be filled"
	msgInvalidBody    = "Invalid request body"
	msgBodyTooLarge   = "Request body too large"
	msgInternal       = "Internal server error"
	msgContactSaved   = "Failed to send email. Form saved locally."
	msgBookingSaved   = "Failed to schedule consultation. Data saved locally."
	msgContactSuccess = "Contact form submitted successfully"
	msgBookingSuccess = "Consultation scheduled successfully"
)

// ContactSubmitter runs the contact pipeline.
type ContactSubmitter interface {
	Submit(ctx context.Context, req *submission.ContactRequest) (*pipeline.ContactResult, error)
}

// BookingSubmitter runs the booking pipeline.
type BookingSubmitter interface {
	Submit(ctx context.Context, req *submission.BookingRequest) (*pipeline.BookingResult, error)
}

// SubmissionHandler serves the public form endpoints.
type SubmissionHandler struct {
	contact ContactSubmitter
	booking BookingSubmitter
	logger  *logging.Logger
}

// NewSubmissionHandler creates the form endpoints handler.
func NewSubmissionHandler(contact ContactSubmitter, booking BookingSubmitter, logger *logging.Logger) *SubmissionHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &SubmissionHandler{contact: contact, booking: booking, logger: logger}
}

type contactData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	FilesCount int    `json:"filesCount"`
	Timestamp  string `json:"timestamp"`
	MessageID  string `json:"messageId,omitempty"`
}

// SubmitContact handles POST /contact.
func (h *SubmissionHandler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var req submission.ContactRequest
	if !h.decode(w, r, &req, &req.Raw) {
		return
	}

	// Side effects run to completion even if the client goes away.
	result, err := h.contact.Submit(context.WithoutCancel(r.Context()), &req)
	if err != nil {
		h.writeSubmitError(w, err, msgContactSaved)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: msgContactSuccess,
		Data: contactData{
			Name:       result.Name,
			Email:      result.Email,
			FilesCount: result.FilesCount,
			Timestamp:  formatTimestamp(result.Timestamp),
			MessageID:  result.MessageID,
		},
	})
}

type bookingData struct {
	ClientName      string `json:"client_name"`
	ClientEmail     string `json:"client_email"`
	BusinessName    string `json:"business_name"`
	ReservationCode string `json:"reservation_code"`
	MeetLink        string `json:"meet_link"`
	CalendarLink    string `json:"calendar_link"`
	EventID         string `json:"event_id"`
	ScheduledTime   string `json:"scheduled_time"`
	EndTime         string `json:"end_time"`
	EmailID         string `json:"email_id,omitempty"`
}

// ScheduleConsultation handles POST /meet/schedule.
func (h *SubmissionHandler) ScheduleConsultation(w http.ResponseWriter, r *http.Request) {
	var req submission.BookingRequest
	if !h.decode(w, r, &req, &req.Raw) {
		return
	}

	result, err := h.booking.Submit(context.WithoutCancel(r.Context()), &req)
	if err != nil {
		h.writeSubmitError(w, err, msgBookingSaved)
		return
	}

	writeJSON(w, http.StatusOK, successResponse{
		Success: true,
		Message: msgBookingSuccess,
		Data: bookingData{
			ClientName:      result.ClientName,
			ClientEmail:     result.ClientEmail,
			BusinessName:    result.BusinessName,
			ReservationCode: result.ReservationCode,
			MeetLink:        result.MeetLink,
			CalendarLink:    result.CalendarLink,
			EventID:         result.EventID,
			ScheduledTime:   formatTimestamp(result.ScheduledTime),
			EndTime:         formatTimestamp(result.EndTime),
			EmailID:         result.MessageID,
		},
	})
}

// decode reads the body into dst and keeps the exact bytes in raw. It writes
// the error response itself and reports whether the handler should continue.
func (h *SubmissionHandler) decode(w http.ResponseWriter, r *http.Request, dst any, raw *json.RawMessage) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return false
		}
		h.logger.Warn("failed to read request body", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}

	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		body = []byte("{}")
	}
	if err := json.Unmarshal(body, dst); err != nil {
		h.logger.Warn("invalid submission body", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return false
	}
	*raw = json.RawMessage(body)
	return true
}

func (h *SubmissionHandler) writeSubmitError(w http.ResponseWriter, err error, savedMsg string) {
	var validationErr *submission.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:         msgMissingFields,
			MissingFields: validationErr.Missing,
		})
		return
	}

	if degraded, ok := pipeline.AsDegraded(err); ok {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:        savedMsg,
			SubmissionID: degraded.SubmissionID,
		})
		return
	}

	h.logger.Error("submission lost", "error", err)
	writeError(w, http.StatusInternalServerError, msgInternal)
}
