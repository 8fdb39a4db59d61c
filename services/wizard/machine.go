package wizard

import (
	"strings"
	"time"

	"autobid/models"
)

// now is swapped in tests.
var now = time.Now

// New starts a wizard at the services stage with door delivery selected and
// the receiver contact pre-filled from the buyer's profile.
func New(id, userID string, vehicle models.Vehicle, catalog models.CatalogSnapshot, defaults models.ProfileDefaults) *models.WizardState {
	t := now()
	return &models.WizardState{
		ID:                 id,
		UserID:             userID,
		Vehicle:            vehicle,
		Stage:              models.StageServices,
		Catalog:            normalizeCatalog(catalog),
		SelectedServiceIDs: []string{},
		DeliveryMode:       models.DeliveryDoor,
		Contact: models.ContactInfo{
			ReceiverName:  strings.TrimSpace(defaults.Name),
			ReceiverEmail: strings.TrimSpace(defaults.Email),
			ReceiverPhone: strings.TrimSpace(defaults.Phone),
		},
		CreatedAt: t,
		UpdatedAt: t,
	}
}

func normalizeCatalog(c models.CatalogSnapshot) models.CatalogSnapshot {
	if c.FixedFees == nil {
		c.FixedFees = []models.FixedFee{}
	}
	if c.OptionalServices == nil {
		c.OptionalServices = []models.OptionalService{}
	}
	if c.Locations == nil {
		c.Locations = []models.DeliveryLocation{}
	}
	return c
}

func touch(state *models.WizardState) {
	state.UpdatedAt = now()
}

func guard(state *models.WizardState) error {
	if state.Submitting {
		return ErrSubmissionInProgress
	}
	return nil
}

// ReplaceCatalog swaps in freshly loaded catalog data. Selections that no
// longer resolve are dropped so pricing never refers to a vanished entry.
func ReplaceCatalog(state *models.WizardState, catalog models.CatalogSnapshot) error {
	if err := guard(state); err != nil {
		return err
	}
	state.Catalog = normalizeCatalog(catalog)

	kept := make([]string, 0, len(state.SelectedServiceIDs))
	for _, id := range state.SelectedServiceIDs {
		if _, ok := state.Catalog.Service(id); ok {
			kept = append(kept, id)
		}
	}
	state.SelectedServiceIDs = kept
	if state.SelectedLocationID != "" && state.SelectedLocation() == nil {
		state.SelectedLocationID = ""
	}
	touch(state)
	return nil
}

// ToggleService adds or removes an optional service from the selection.
func ToggleService(state *models.WizardState, serviceID string) error {
	if err := guard(state); err != nil {
		return err
	}
	for i, id := range state.SelectedServiceIDs {
		if id == serviceID {
			state.SelectedServiceIDs = append(state.SelectedServiceIDs[:i], state.SelectedServiceIDs[i+1:]...)
			touch(state)
			return nil
		}
	}
	if _, ok := state.Catalog.Service(serviceID); !ok {
		return ErrUnknownService
	}
	state.SelectedServiceIDs = append(state.SelectedServiceIDs, serviceID)
	touch(state)
	return nil
}

// SetDeliveryMode switches delivery mode. Self pickup clears the location.
func SetDeliveryMode(state *models.WizardState, mode models.DeliveryMode) error {
	if err := guard(state); err != nil {
		return err
	}
	if !mode.Valid() {
		return ErrInvalidDeliveryMode
	}
	state.DeliveryMode = mode
	if mode == models.DeliverySelfPickup {
		state.SelectedLocationID = ""
	}
	touch(state)
	return nil
}

// SelectLocation picks a door-delivery location. Picking a location implies
// door delivery.
func SelectLocation(state *models.WizardState, locationID string) error {
	if err := guard(state); err != nil {
		return err
	}
	if _, ok := state.Catalog.Location(locationID); !ok {
		return ErrUnknownLocation
	}
	state.DeliveryMode = models.DeliveryDoor
	state.SelectedLocationID = locationID
	touch(state)
	return nil
}

// ContactPatch carries the contact fields being edited; nil fields are left alone.
type ContactPatch struct {
	ReceiverName    *string `json:"receiverName"`
	ReceiverEmail   *string `json:"receiverEmail"`
	ReceiverPhone   *string `json:"receiverPhone"`
	DeliveryAddress *string `json:"deliveryAddress"`
}

// UpdateContact applies a contact edit.
func UpdateContact(state *models.WizardState, patch ContactPatch) error {
	if err := guard(state); err != nil {
		return err
	}
	apply := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	apply(&state.Contact.ReceiverName, patch.ReceiverName)
	apply(&state.Contact.ReceiverEmail, patch.ReceiverEmail)
	apply(&state.Contact.ReceiverPhone, patch.ReceiverPhone)
	apply(&state.Contact.DeliveryAddress, patch.DeliveryAddress)
	touch(state)
	return nil
}

// AttachEvidence records an uploaded file and returns the reference it
// replaced, if any.
func AttachEvidence(state *models.WizardState, kind models.EvidenceKind, ref models.EvidenceRef) (*models.EvidenceRef, error) {
	if err := guard(state); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, ErrInvalidEvidenceKind
	}
	previous := state.Evidence.Get(kind)
	state.Evidence.Set(kind, &ref)
	touch(state)
	return previous, nil
}

// DetachEvidence removes an evidence reference and returns it.
func DetachEvidence(state *models.WizardState, kind models.EvidenceKind) (*models.EvidenceRef, error) {
	if err := guard(state); err != nil {
		return nil, err
	}
	if !kind.Valid() {
		return nil, ErrInvalidEvidenceKind
	}
	previous := state.Evidence.Get(kind)
	state.Evidence.Set(kind, nil)
	touch(state)
	return previous, nil
}

// Next moves forward one stage. Leaving stage 2 is gated on
// ValidateDeliveryAndContact; on failure the stage is unchanged.
func Next(state *models.WizardState) error {
	if err := guard(state); err != nil {
		return err
	}
	switch state.Stage {
	case models.StageServices:
		state.Stage = models.StageDeliveryAndContact
	case models.StageDeliveryAndContact:
		if err := ValidateDeliveryAndContact(state); err != nil {
			return err
		}
		state.Stage = models.StagePayment
	default:
		return ErrFinalStage
	}
	touch(state)
	return nil
}

// Back moves to the previous stage, keeping everything entered.
func Back(state *models.WizardState) error {
	if err := guard(state); err != nil {
		return err
	}
	if state.Stage <= models.StageServices {
		return ErrFirstStage
	}
	state.Stage--
	touch(state)
	return nil
}

// BeginSubmit passes the payment gate and marks the wizard as submitting.
// Until EndSubmit is called every other transition is refused.
func BeginSubmit(state *models.WizardState) error {
	if err := guard(state); err != nil {
		return err
	}
	if state.Stage != models.StagePayment {
		return ErrNotPaymentStage
	}
	if err := ValidatePayment(state); err != nil {
		return err
	}
	state.Submitting = true
	touch(state)
	return nil
}

// EndSubmit clears the submitting flag after a failed attempt so the buyer
// can correct and retry. The stage stays at payment.
func EndSubmit(state *models.WizardState) {
	state.Submitting = false
	touch(state)
}
