package wizard

import (
	"regexp"

	"autobid/models"
)

// whitespace covers Unicode spaces too; RE2's \s alone is ASCII only.
const whitespace = `\s\v\p{Z}\x{FEFF}`

var (
	emailPattern = regexp.MustCompile(`^[^` + whitespace + `@]+@[^` + whitespace + `@]+\.[^` + whitespace + `@]+$`)
	phonePattern = regexp.MustCompile(`^[0-9+\-` + whitespace + `]{7,15}$`)
)

// ValidateDeliveryAndContact checks the stage 2 gate. It returns nil or a
// *ValidationError listing every failing field in a fixed order.
func ValidateDeliveryAndContact(state *models.WizardState) error {
	var fields []FieldError

	if state.DeliveryMode == models.DeliveryDoor && state.SelectedLocation() == nil {
		fields = append(fields, FieldError{Field: FieldDeliveryLocation, Message: "select a delivery location"})
	}
	if state.Contact.ReceiverName == "" {
		fields = append(fields, FieldError{Field: FieldReceiverName, Message: "receiver name is required"})
	}
	if !emailPattern.MatchString(state.Contact.ReceiverEmail) {
		fields = append(fields, FieldError{Field: FieldReceiverEmail, Message: "enter a valid email address"})
	}
	if !phonePattern.MatchString(state.Contact.ReceiverPhone) {
		fields = append(fields, FieldError{Field: FieldReceiverPhone, Message: "enter a valid phone number"})
	}
	if state.Evidence.IDFront == nil {
		fields = append(fields, FieldError{Field: string(models.EvidenceIDFront), Message: "attach the front of your ID"})
	}
	if state.Evidence.IDBack == nil {
		fields = append(fields, FieldError{Field: string(models.EvidenceIDBack), Message: "attach the back of your ID"})
	}

	if len(fields) > 0 {
		return &ValidationError{Stage: models.StageDeliveryAndContact, Fields: fields}
	}
	return nil
}

// ValidatePayment checks the stage 3 gate.
func ValidatePayment(state *models.WizardState) error {
	if state.Evidence.PaymentProof == nil {
		return &ValidationError{
			Stage:  models.StagePayment,
			Fields: []FieldError{{Field: string(models.EvidencePaymentProof), Message: "attach the payment screenshot"}},
		}
	}
	return nil
}
