package handlers

import (
	"context"
	"errors"
	"net/http"

	"autobid/models"
	"autobid/services/booking"
	"autobid/services/marketplace"
	"autobid/services/storage"
	"autobid/services/submission"
	"autobid/services/wizard"
	"autobid/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WizardHandler exposes booking wizards over HTTP.
type WizardHandler struct {
	Service booking.WizardService
}

func NewWizardHandler(svc booking.WizardService) *WizardHandler {
	return &WizardHandler{Service: svc}
}

func ok(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var vErr *wizard.ValidationError
	var subErr *submission.SubmissionError

	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "please correct the highlighted fields", "stage": vErr.Stage.String(), "fields": vErr.Fields})
	case errors.As(err, &subErr):
		getLogger(c).Warn("booking submission failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": subErr.Message})
	case errors.Is(err, booking.ErrWizardNotFound), errors.Is(err, booking.ErrReceiptNotFound), errors.Is(err, marketplace.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrSubmissionInProgress),
		errors.Is(err, booking.ErrConflict),
		errors.Is(err, wizard.ErrFirstStage),
		errors.Is(err, wizard.ErrFinalStage),
		errors.Is(err, wizard.ErrNotPaymentStage):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrUnknownService),
		errors.Is(err, wizard.ErrUnknownLocation),
		errors.Is(err, wizard.ErrInvalidDeliveryMode),
		errors.Is(err, wizard.ErrInvalidEvidenceKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, booking.ErrReceiptsUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "the marketplace did not respond in time"})
	default:
		getLogger(c).Error("wizard request failed", zap.String("path", c.FullPath()), zap.Error(err))
		var apiErr *marketplace.APIError
		if errors.As(err, &apiErr) {
			c.JSON(http.StatusBadGateway, gin.H{"error": submission.FailureMessage(err)})
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "internal error", "")
	}
}

func (h *WizardHandler) respondView(c *gin.Context, status int, v *booking.WizardView, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, status, v)
}

// OpenWizardHandler starts a wizard for a vehicle.
func (h *WizardHandler) OpenWizardHandler(c *gin.Context) {
	var req booking.OpenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.VehicleID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "vehicleId is required"})
		return
	}
	req.UserID = c.GetString("userID")
	v, err := h.Service.Open(c.Request.Context(), req)
	h.respondView(c, http.StatusCreated, v, err)
}

func (h *WizardHandler) GetWizardHandler(c *gin.Context) {
	v, err := h.Service.Get(c.Request.Context(), c.Param("id"))
	h.respondView(c, http.StatusOK, v, err)
}

func (h *WizardHandler) CancelWizardHandler(c *gin.Context) {
	if err := h.Service.Cancel(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *WizardHandler) ToggleServiceHandler(c *gin.Context) {
	v, err := h.Service.ToggleService(c.Request.Context(), c.Param("id"), c.Param("serviceId"))
	h.respondView(c, http.StatusOK, v, err)
}

type deliveryRequest struct {
	Mode       models.DeliveryMode `json:"mode"`
	LocationID string              `json:"locationId"`
}

// UpdateDeliveryHandler switches the delivery mode or picks a location.
// Choosing a location implies door delivery.
func (h *WizardHandler) UpdateDeliveryHandler(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	ctx, id := c.Request.Context(), c.Param("id")

	var (
		v   *booking.WizardView
		err error
	)
	switch {
	case req.LocationID != "" && req.Mode != models.DeliverySelfPickup:
		v, err = h.Service.SelectLocation(ctx, id, req.LocationID)
	case req.Mode != "":
		v, err = h.Service.SetDeliveryMode(ctx, id, req.Mode)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "mode or locationId is required"})
		return
	}
	h.respondView(c, http.StatusOK, v, err)
}

func (h *WizardHandler) UpdateContactHandler(c *gin.Context) {
	var patch wizard.ContactPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	v, err := h.Service.UpdateContact(c.Request.Context(), c.Param("id"), patch)
	h.respondView(c, http.StatusOK, v, err)
}

// AttachEvidenceHandler accepts a multipart "file" for one evidence kind.
func (h *WizardHandler) AttachEvidenceHandler(c *gin.Context) {
	kind := models.EvidenceKind(c.Param("kind"))
	if !kind.Valid() {
		respondError(c, wizard.ErrInvalidEvidenceKind)
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "file not provided", err.Error())
		return
	}
	if fileHeader.Size > storage.MaxEvidenceSize {
		respondError(c, storage.ErrTooLarge)
		return
	}
	f, err := fileHeader.Open()
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "could not read file", err.Error())
		return
	}
	defer f.Close()

	v, err := h.Service.AttachEvidence(c.Request.Context(), c.Param("id"), kind, booking.EvidenceUpload{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Body:        f,
	})
	h.respondView(c, http.StatusOK, v, err)
}

func (h *WizardHandler) DetachEvidenceHandler(c *gin.Context) {
	v, err := h.Service.DetachEvidence(c.Request.Context(), c.Param("id"), models.EvidenceKind(c.Param("kind")))
	h.respondView(c, http.StatusOK, v, err)
}

func (h *WizardHandler) NextStageHandler(c *gin.Context) {
	v, err := h.Service.Next(c.Request.Context(), c.Param("id"))
	h.respondView(c, http.StatusOK, v, err)
}

func (h *WizardHandler) PreviousStageHandler(c *gin.Context) {
	v, err := h.Service.Back(c.Request.Context(), c.Param("id"))
	h.respondView(c, http.StatusOK, v, err)
}

func (h *WizardHandler) ReloadCatalogsHandler(c *gin.Context) {
	v, err := h.Service.ReloadCatalogs(c.Request.Context(), c.Param("id"))
	h.respondView(c, http.StatusOK, v, err)
}

// ConfirmHandler submits the booking.
func (h *WizardHandler) ConfirmHandler(c *gin.Context) {
	res, err := h.Service.Confirm(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

func (h *WizardHandler) GetReceiptHandler(c *gin.Context) {
	r, err := h.Service.Receipt(c.Request.Context(), c.Param("wizardId"))
	if err != nil {
		respondError(c, err)
		return
	}
	// a receipt opened by a signed-in user is only shown to that user
	if r.UserID != "" && r.UserID != c.GetString("userID") {
		respondError(c, booking.ErrReceiptNotFound)
		return
	}
	ok(c, http.StatusOK, r)
}
