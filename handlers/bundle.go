package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Wizard endpoints
	OpenWizardHandler     gin.HandlerFunc
	GetWizardHandler      gin.HandlerFunc
	CancelWizardHandler   gin.HandlerFunc
	ToggleServiceHandler  gin.HandlerFunc
	UpdateDeliveryHandler gin.HandlerFunc
	UpdateContactHandler  gin.HandlerFunc
	AttachEvidenceHandler gin.HandlerFunc
	DetachEvidenceHandler gin.HandlerFunc
	NextStageHandler      gin.HandlerFunc
	PreviousStageHandler  gin.HandlerFunc
	ReloadCatalogsHandler gin.HandlerFunc
	ConfirmHandler        gin.HandlerFunc

	// Receipt endpoints
	GetReceiptHandler gin.HandlerFunc

	RateLimitPerMinute int
}

// NewHandlerBundle wires a WizardHandler into a bundle.
func NewHandlerBundle(h *WizardHandler, rateLimitPerMinute int) *HandlerBundle {
	return &HandlerBundle{
		OpenWizardHandler:     h.OpenWizardHandler,
		GetWizardHandler:      h.GetWizardHandler,
		CancelWizardHandler:   h.CancelWizardHandler,
		ToggleServiceHandler:  h.ToggleServiceHandler,
		UpdateDeliveryHandler: h.UpdateDeliveryHandler,
		UpdateContactHandler:  h.UpdateContactHandler,
		AttachEvidenceHandler: h.AttachEvidenceHandler,
		DetachEvidenceHandler: h.DetachEvidenceHandler,
		NextStageHandler:      h.NextStageHandler,
		PreviousStageHandler:  h.PreviousStageHandler,
		ReloadCatalogsHandler: h.ReloadCatalogsHandler,
		ConfirmHandler:        h.ConfirmHandler,
		GetReceiptHandler:     h.GetReceiptHandler,
		RateLimitPerMinute:    rateLimitPerMinute,
	}
}
