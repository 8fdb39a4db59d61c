package submission

import (
	"context"
	"errors"

	"autobid/models"
	"autobid/services/marketplace"
	"autobid/services/storage"
	"autobid/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

// GenericFailureMessage is shown when neither the server nor the local
// encoding step produced anything more specific.
const GenericFailureMessage = "Network error. Please check your connection and try again."

// EvidenceFailureMessage is shown when an attached file can no longer be read.
const EvidenceFailureMessage = "An attached image could not be read. Please attach it again."

// BookingClient sends an encoded booking to the marketplace.
type BookingClient interface {
	SubmitBooking(ctx context.Context, body []byte, contentType string) (json.RawMessage, error)
}

// SubmissionError is a failed booking attempt. Message is what the buyer sees.
type SubmissionError struct {
	Message string
	Cause   error
}

func (e *SubmissionError) Error() string {
	if e.Cause != nil {
		return "booking submission failed: " + e.Message + ": " + e.Cause.Error()
	}
	return "booking submission failed: " + e.Message
}

func (e *SubmissionError) Unwrap() error { return e.Cause }

// Submitter encodes and sends booking payloads.
type Submitter struct {
	client BookingClient
	store  storage.EvidenceStore
	logger *zap.Logger
}

func NewSubmitter(client BookingClient, store storage.EvidenceStore, logger *zap.Logger) *Submitter {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Submitter{client: client, store: store, logger: logger}
}

type successData struct {
	Message string `json:"message"`
}

// Submit sends one booking. Callers are responsible for ensuring it runs at
// most once per confirmation.
func (s *Submitter) Submit(ctx context.Context, p models.SubmissionPayload) (models.BookingResult, error) {
	body, contentType, err := Encode(ctx, p, s.store)
	if err != nil {
		s.logger.Error("submission: failed to encode booking", zap.String("vehicleID", p.VehicleID), zap.Error(err))
		return models.BookingResult{}, &SubmissionError{Message: EvidenceFailureMessage, Cause: err}
	}

	data, err := s.client.SubmitBooking(ctx, body, contentType)
	if err != nil {
		msg := FailureMessage(err)
		s.logger.Warn("submission: booking rejected", zap.String("vehicleID", p.VehicleID), zap.String("message", msg), zap.Error(err))
		return models.BookingResult{}, &SubmissionError{Message: msg, Cause: err}
	}

	result := models.BookingResult{Success: true, VehicleID: p.VehicleID}
	var sd successData
	if len(data) > 0 && json.Unmarshal(data, &sd) == nil {
		result.Message = sd.Message
	}
	s.logger.Info("submission: booking accepted", zap.String("vehicleID", p.VehicleID), zap.Int("lineItems", len(p.Services)))
	return result, nil
}

// FailureMessage picks the most specific text for a failed submission: a
// server field error, then the server message, then the generic network text.
func FailureMessage(err error) string {
	var apiErr *marketplace.APIError
	if errors.As(err, &apiErr) {
		if msg, ok := apiErr.FirstFieldError(); ok {
			return msg
		}
		if apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return GenericFailureMessage
}
