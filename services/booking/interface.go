package booking

import (
	"context"
	"io"
	"time"

	"autobid/database/repository/receipt"
	"autobid/models"
	"autobid/services/storage"
	"autobid/services/wizard"

	"go.uber.org/zap"
)

// WizardService drives booking wizards on behalf of the HTTP layer. Every
// method returns the wizard together with a freshly computed price.
type WizardService interface {
	Open(ctx context.Context, req OpenRequest) (*WizardView, error)
	Get(ctx context.Context, wizardID string) (*WizardView, error)
	ToggleService(ctx context.Context, wizardID, serviceID string) (*WizardView, error)
	SetDeliveryMode(ctx context.Context, wizardID string, mode models.DeliveryMode) (*WizardView, error)
	SelectLocation(ctx context.Context, wizardID, locationID string) (*WizardView, error)
	UpdateContact(ctx context.Context, wizardID string, patch wizard.ContactPatch) (*WizardView, error)
	AttachEvidence(ctx context.Context, wizardID string, kind models.EvidenceKind, upload EvidenceUpload) (*WizardView, error)
	DetachEvidence(ctx context.Context, wizardID string, kind models.EvidenceKind) (*WizardView, error)
	Next(ctx context.Context, wizardID string) (*WizardView, error)
	Back(ctx context.Context, wizardID string) (*WizardView, error)
	ReloadCatalogs(ctx context.Context, wizardID string) (*WizardView, error)
	Confirm(ctx context.Context, wizardID string) (*ConfirmResult, error)
	Cancel(ctx context.Context, wizardID string) error
	Receipt(ctx context.Context, wizardID string) (*models.Receipt, error)
}

// OpenRequest starts a wizard for one vehicle.
type OpenRequest struct {
	VehicleID string `json:"vehicleId"`
	UserID    string `json:"userId,omitempty"`
}

// EvidenceUpload is an image handed over by the buyer.
type EvidenceUpload struct {
	FileName    string
	ContentType string
	Body        io.Reader
}

// WizardView is what clients render.
type WizardView struct {
	State   *models.WizardState     `json:"wizard"`
	Pricing models.PricingBreakdown `json:"pricing"`
}

// ConfirmResult is returned once the marketplace accepted the booking.
type ConfirmResult struct {
	VehicleID string `json:"vehicleId"`
	Message   string `json:"message,omitempty"`
	ReceiptID string `json:"receiptId,omitempty"`
}

// Marketplace reads the vehicle and the buyer's profile.
type Marketplace interface {
	GetVehicle(ctx context.Context, vehicleID string) (models.Vehicle, error)
	GetProfileDefaults(ctx context.Context) (models.ProfileDefaults, error)
}

// CatalogLoader fetches the service and location catalogs.
type CatalogLoader interface {
	Load(ctx context.Context) models.CatalogSnapshot
	Reload(ctx context.Context, prev models.CatalogSnapshot) models.CatalogSnapshot
}

// BookingSubmitter sends an assembled booking.
type BookingSubmitter interface {
	Submit(ctx context.Context, payload models.SubmissionPayload) (models.BookingResult, error)
}

// DefaultWizardService implements WizardService.
type DefaultWizardService struct {
	Marketplace   Marketplace
	Catalogs      CatalogLoader
	Store         WizardStore
	Evidence      storage.EvidenceStore
	Submitter     BookingSubmitter
	Receipts      receiptRepo.ReceiptRepository // optional
	TTL           time.Duration
	SubmitTimeout time.Duration
	Logger        *zap.Logger
}
