package submission

import (
	"errors"
	"fmt"

	"autobid/models"
	"autobid/utils"
)

// ErrIncomplete means the wizard state lacks something the payload needs.
// The stage gates normally catch this first.
var ErrIncomplete = errors.New("booking is incomplete")

// Field is one text field of the multi-part request.
type Field struct {
	Name  string
	Value string
}

// fileOrder is the order evidence files are attached in.
var fileOrder = []models.EvidenceKind{
	models.EvidencePaymentProof,
	models.EvidenceIDFront,
	models.EvidenceIDBack,
}

// Assemble builds the booking payload. Line items are the selected optional
// services followed by every fixed fee, each group in catalog order; a waived
// fee is sent with a zero price.
func Assemble(vehicle models.Vehicle, state *models.WizardState, breakdown models.PricingBreakdown) (models.SubmissionPayload, error) {
	p := models.SubmissionPayload{
		VehicleID:       vehicle.ID,
		DeliveryType:    state.DeliveryMode,
		DeliveryCharges: utils.FormatAmount(breakdown.DeliveryCharge),
		ReceiverName:    state.Contact.ReceiverName,
		ReceiverEmail:   state.Contact.ReceiverEmail,
		ReceiverPhone:   state.Contact.ReceiverPhone,
		Services:        make([]models.LineItem, 0, len(breakdown.Services)+len(breakdown.FixedFees)),
	}

	switch state.DeliveryMode {
	case models.DeliverySelfPickup:
		p.CurrentLocation = models.SelfPickupLabel
		p.DeliveryLocation = models.SelfPickupLabel
	case models.DeliveryDoor:
		loc := state.SelectedLocation()
		if loc == nil {
			return models.SubmissionPayload{}, fmt.Errorf("%w: no delivery location", ErrIncomplete)
		}
		p.CurrentLocation = loc.Name
		p.DeliveryLocation = state.Contact.DeliveryAddress
		if p.DeliveryLocation == "" {
			p.DeliveryLocation = loc.Name
		}
	default:
		return models.SubmissionPayload{}, fmt.Errorf("%w: delivery mode %q", ErrIncomplete, state.DeliveryMode)
	}

	for _, svc := range breakdown.Services {
		p.Services = append(p.Services, models.LineItem{Name: svc.Name, Price: utils.FormatAmount(svc.Amount)})
	}
	for _, fee := range breakdown.FixedFees {
		p.Services = append(p.Services, models.LineItem{Name: fee.Name, Price: utils.FormatAmount(fee.Contribution)})
	}

	for _, kind := range fileOrder {
		ref := state.Evidence.Get(kind)
		if ref == nil {
			return models.SubmissionPayload{}, fmt.Errorf("%w: missing %s", ErrIncomplete, kind)
		}
		p.Files = append(p.Files, models.EvidenceFile{
			Field:       kind,
			Ref:         ref.Ref,
			FileName:    ref.FileName,
			ContentType: ref.ContentType,
		})
	}
	return p, nil
}

// Fields flattens the payload's text fields in the order they are sent.
func Fields(p models.SubmissionPayload) []Field {
	fields := []Field{
		{"vehicle_id", p.VehicleID},
		{"delivery_type", string(p.DeliveryType)},
		{"delivery_charges", p.DeliveryCharges},
		{"receiver_name", p.ReceiverName},
		{"receiver_email", p.ReceiverEmail},
		{"receiver_phone", p.ReceiverPhone},
		{"current_location", p.CurrentLocation},
		{"delivery_location", p.DeliveryLocation},
	}
	for i, item := range p.Services {
		fields = append(fields,
			Field{fmt.Sprintf("services[%d][name]", i), item.Name},
			Field{fmt.Sprintf("services[%d][price]", i), item.Price},
		)
	}
	return fields
}
