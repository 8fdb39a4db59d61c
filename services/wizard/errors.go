package wizard

import (
	"errors"
	"fmt"
	"strings"

	"autobid/models"
)

var (
	ErrFirstStage           = errors.New("already at the first stage")
	ErrFinalStage           = errors.New("already at the final stage; confirm payment to submit")
	ErrNotPaymentStage      = errors.New("payment can only be confirmed at the payment stage")
	ErrSubmissionInProgress = errors.New("a submission is already in progress")
	ErrUnknownService       = errors.New("unknown optional service")
	ErrUnknownLocation      = errors.New("unknown delivery location")
	ErrInvalidDeliveryMode  = errors.New("invalid delivery mode")
	ErrInvalidEvidenceKind  = errors.New("invalid evidence kind")
)

// Field names reported in validation errors.
const (
	FieldDeliveryLocation = "delivery_location"
	FieldReceiverName     = "receiver_name"
	FieldReceiverEmail    = "receiver_email"
	FieldReceiverPhone    = "receiver_phone"
)

// FieldError is one failed check of a stage gate.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a forward transition. It carries every failing
// field, not just the first.
type ValidationError struct {
	Stage  models.WizardStage `json:"stage"`
	Fields []FieldError       `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("stage %d validation failed: %s", e.Stage, strings.Join(msgs, "; "))
}

// Has reports whether field failed.
func (e *ValidationError) Has(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}
