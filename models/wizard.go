package models

import "time"

// WizardStage is the current screen of the booking wizard.
type WizardStage int

const (
	StageServices           WizardStage = 1
	StageDeliveryAndContact WizardStage = 2
	StagePayment            WizardStage = 3
)

func (s WizardStage) String() string {
	switch s {
	case StageServices:
		return "services"
	case StageDeliveryAndContact:
		return "delivery_and_contact"
	case StagePayment:
		return "payment"
	default:
		return "unknown"
	}
}

// ContactInfo is the receiver of the vehicle.
type ContactInfo struct {
	ReceiverName    string `json:"receiverName"`
	ReceiverEmail   string `json:"receiverEmail"`
	ReceiverPhone   string `json:"receiverPhone"`
	DeliveryAddress string `json:"deliveryAddress,omitempty"` // free text, door delivery only
}

// EvidenceKind names an uploaded image. Values are the multipart field names
// used by the booking endpoint.
type EvidenceKind string

const (
	EvidenceIDFront      EvidenceKind = "emirate_id_front"
	EvidenceIDBack       EvidenceKind = "emirate_id_back"
	EvidencePaymentProof EvidenceKind = "payment_screenshot"
)

func (k EvidenceKind) Valid() bool {
	switch k {
	case EvidenceIDFront, EvidenceIDBack, EvidencePaymentProof:
		return true
	}
	return false
}

// EvidenceRef points at a stored evidence file.
type EvidenceRef struct {
	Ref         string    `json:"ref"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType,omitempty"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

// EvidenceSet holds the identity documents and the payment proof.
type EvidenceSet struct {
	IDFront      *EvidenceRef `json:"idFront,omitempty"`
	IDBack       *EvidenceRef `json:"idBack,omitempty"`
	PaymentProof *EvidenceRef `json:"paymentProof,omitempty"`
}

// Get returns the reference stored for kind, or nil.
func (e EvidenceSet) Get(kind EvidenceKind) *EvidenceRef {
	switch kind {
	case EvidenceIDFront:
		return e.IDFront
	case EvidenceIDBack:
		return e.IDBack
	case EvidencePaymentProof:
		return e.PaymentProof
	}
	return nil
}

// Set replaces the reference stored for kind.
func (e *EvidenceSet) Set(kind EvidenceKind, ref *EvidenceRef) {
	switch kind {
	case EvidenceIDFront:
		e.IDFront = ref
	case EvidenceIDBack:
		e.IDBack = ref
	case EvidencePaymentProof:
		e.PaymentProof = ref
	}
}

// All lists the attached references.
func (e EvidenceSet) All() []EvidenceRef {
	var refs []EvidenceRef
	for _, r := range []*EvidenceRef{e.IDFront, e.IDBack, e.PaymentProof} {
		if r != nil {
			refs = append(refs, *r)
		}
	}
	return refs
}

// WizardState is everything a single booking wizard instance knows. It is
// owned by one wizard and discarded on successful submission or cancel.
type WizardState struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId,omitempty"`
	Vehicle            Vehicle         `json:"vehicle"`
	Stage              WizardStage     `json:"stage"`
	Catalog            CatalogSnapshot `json:"catalog"`
	SelectedServiceIDs []string        `json:"selectedServiceIds"`
	DeliveryMode       DeliveryMode    `json:"deliveryMode"`
	SelectedLocationID string          `json:"selectedLocationId,omitempty"`
	Contact            ContactInfo     `json:"contact"`
	Evidence           EvidenceSet     `json:"evidence"`
	Submitting         bool            `json:"submitting"`
	// Version is bumped by every save; a save of an older version fails.
	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// IsSelected reports whether an optional service is in the selection set.
func (w *WizardState) IsSelected(serviceID string) bool {
	for _, id := range w.SelectedServiceIDs {
		if id == serviceID {
			return true
		}
	}
	return false
}

// SelectedLocation resolves the chosen delivery location against the catalog.
func (w *WizardState) SelectedLocation() *DeliveryLocation {
	if w.SelectedLocationID == "" {
		return nil
	}
	loc, ok := w.Catalog.Location(w.SelectedLocationID)
	if !ok {
		return nil
	}
	return &loc
}
