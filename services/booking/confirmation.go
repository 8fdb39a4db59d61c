package booking

import (
	"context"
	"errors"
	"time"

	"autobid/database/repository/receipt"
	"autobid/models"
	"autobid/services/pricing"
	"autobid/services/submission"
	"autobid/services/wizard"
	"autobid/utils"

	"go.uber.org/zap"
)

const defaultSubmitTimeout = 60 * time.Second

func (s *DefaultWizardService) submitTimeout() time.Duration {
	if s.SubmitTimeout > 0 {
		return s.SubmitTimeout
	}
	return defaultSubmitTimeout
}

// Confirm submits the booking. Only one submission per wizard can be in
// flight: the submit lock is taken before anything else and the wizard is
// marked as submitting before the marketplace is called. On success the
// wizard and its evidence are discarded; on failure the wizard stays on the
// payment stage so the buyer can correct and retry.
func (s *DefaultWizardService) Confirm(ctx context.Context, wizardID string) (*ConfirmResult, error) {
	// The lock outlives the submission deadline so it cannot expire mid-call.
	acquired, err := s.Store.AcquireSubmitLock(ctx, wizardID, s.submitTimeout()+30*time.Second)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, wizard.ErrSubmissionInProgress
	}

	state, err := s.beginSubmit(ctx, wizardID)
	if err != nil {
		s.releaseLock(ctx, wizardID)
		return nil, err
	}

	breakdown := pricing.ForState(state)
	payload, err := submission.Assemble(state.Vehicle, state, breakdown)
	if err != nil {
		s.abortSubmit(ctx, state)
		return nil, err
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.submitTimeout())
	result, err := s.Submitter.Submit(submitCtx, payload)
	cancel()
	if err != nil {
		s.abortSubmit(ctx, state)
		return nil, err
	}

	out := &ConfirmResult{VehicleID: result.VehicleID, Message: result.Message}
	out.ReceiptID = s.recordReceipt(ctx, state, payload, breakdown, result)

	s.discardAll(ctx, state)
	if err := s.Store.Delete(ctx, wizardID); err != nil {
		s.logger().Warn("booking: failed to delete submitted wizard", zap.String("wizardID", wizardID), zap.Error(err))
	}
	s.logger().Info("booking: booking confirmed",
		zap.String("wizardID", wizardID),
		zap.String("vehicleID", payload.VehicleID),
		zap.String("grandTotal", utils.FormatAmount(breakdown.GrandTotal)))
	return out, nil
}

// beginSubmit marks the wizard as submitting. The submit lock is already held,
// so only an edit that passed the lock check earlier can still conflict; the
// wizard is reloaded until the mark sticks.
func (s *DefaultWizardService) beginSubmit(ctx context.Context, wizardID string) (*models.WizardState, error) {
	for attempt := 1; ; attempt++ {
		state, err := s.Store.Get(ctx, wizardID)
		if err != nil {
			return nil, err
		}
		if err := wizard.BeginSubmit(state); err != nil {
			return nil, err
		}
		err = s.Store.Save(ctx, state, s.ttl())
		if errors.Is(err, ErrConflict) && attempt < maxSaveAttempts {
			continue
		}
		if err != nil {
			return nil, err
		}
		return state, nil
	}
}

// abortSubmit returns a wizard to the editable payment stage.
func (s *DefaultWizardService) abortSubmit(ctx context.Context, state *models.WizardState) {
	wizard.EndSubmit(state)
	if err := s.Store.Save(ctx, state, s.ttl()); err != nil {
		s.logger().Error("booking: failed to reset submitting wizard", zap.String("wizardID", state.ID), zap.Error(err))
	}
	s.releaseLock(ctx, state.ID)
}

func (s *DefaultWizardService) releaseLock(ctx context.Context, wizardID string) {
	if err := s.Store.ReleaseSubmitLock(ctx, wizardID); err != nil {
		s.logger().Error("booking: failed to release submit lock", zap.String("wizardID", wizardID), zap.Error(err))
	}
}

// recordReceipt stores what was accepted. The booking already exists
// remotely, so a storage failure is logged and not returned.
func (s *DefaultWizardService) recordReceipt(ctx context.Context, state *models.WizardState, payload models.SubmissionPayload, breakdown models.PricingBreakdown, result models.BookingResult) string {
	if s.Receipts == nil {
		return ""
	}
	id, err := s.Receipts.Create(ctx, models.Receipt{
		WizardID:       state.ID,
		UserID:         state.UserID,
		VehicleID:      payload.VehicleID,
		DeliveryType:   string(payload.DeliveryType),
		DeliveryCharge: payload.DeliveryCharges,
		LineItems:      payload.Services,
		GrandTotal:     utils.FormatAmount(breakdown.GrandTotal),
		Message:        result.Message,
	})
	if err != nil {
		s.logger().Error("booking: failed to store receipt", zap.String("wizardID", state.ID), zap.Error(err))
		return ""
	}
	return id
}

// Cancel discards a wizard and its evidence. A wizard being submitted
// cannot be cancelled.
func (s *DefaultWizardService) Cancel(ctx context.Context, wizardID string) error {
	locked, err := s.Store.SubmitLocked(ctx, wizardID)
	if err != nil {
		return err
	}
	if locked {
		return wizard.ErrSubmissionInProgress
	}
	state, err := s.Store.Get(ctx, wizardID)
	if err != nil {
		return err
	}
	s.discardAll(ctx, state)
	if err := s.Store.Delete(ctx, wizardID); err != nil {
		return err
	}
	s.logger().Info("booking: wizard cancelled", zap.String("wizardID", wizardID))
	return nil
}

// Receipt looks up the booking recorded for a submitted wizard.
func (s *DefaultWizardService) Receipt(ctx context.Context, wizardID string) (*models.Receipt, error) {
	if s.Receipts == nil {
		return nil, ErrReceiptsUnavailable
	}
	r, err := s.Receipts.GetByWizardID(ctx, wizardID)
	if errors.Is(err, receiptRepo.ErrNotFound) {
		return nil, ErrReceiptNotFound
	}
	return r, err
}
