package booking

import (
	"context"
	"time"

	"autobid/models"
	"autobid/services/wizard"

	"go.uber.org/zap"
)

// AttachEvidence stores an uploaded image and records it on the wizard. A
// previously attached file of the same kind is removed from storage.
func (s *DefaultWizardService) AttachEvidence(ctx context.Context, wizardID string, kind models.EvidenceKind, upload EvidenceUpload) (*WizardView, error) {
	if !kind.Valid() {
		return nil, wizard.ErrInvalidEvidenceKind
	}
	// Reject early so nothing is written for a missing wizard.
	if _, err := s.Store.Get(ctx, wizardID); err != nil {
		return nil, err
	}

	stored, err := s.Evidence.Save(ctx, wizardID, upload.FileName, upload.Body)
	if err != nil {
		return nil, err
	}

	var previous *models.EvidenceRef
	state, err := s.mutate(ctx, wizardID, func(st *models.WizardState) error {
		prev, err := wizard.AttachEvidence(st, kind, models.EvidenceRef{
			Ref:         stored.Ref,
			FileName:    upload.FileName,
			ContentType: upload.ContentType,
			Size:        stored.Size,
			UploadedAt:  time.Now().UTC(),
		})
		previous = prev
		return err
	})
	if err != nil {
		s.discard(ctx, stored.Ref)
		return nil, err
	}
	if previous != nil {
		s.discard(ctx, previous.Ref)
	}

	s.logger().Info("booking: evidence attached",
		zap.String("wizardID", wizardID),
		zap.String("kind", string(kind)),
		zap.Int64("size", stored.Size))
	return view(state), nil
}

// DetachEvidence removes an attached image from the wizard and from storage.
func (s *DefaultWizardService) DetachEvidence(ctx context.Context, wizardID string, kind models.EvidenceKind) (*WizardView, error) {
	var previous *models.EvidenceRef
	state, err := s.mutate(ctx, wizardID, func(st *models.WizardState) error {
		prev, err := wizard.DetachEvidence(st, kind)
		previous = prev
		return err
	})
	if err != nil {
		return nil, err
	}
	if previous != nil {
		s.discard(ctx, previous.Ref)
	}
	return view(state), nil
}

// discard removes a stored file, logging rather than failing.
func (s *DefaultWizardService) discard(ctx context.Context, ref string) {
	if err := s.Evidence.Delete(ctx, ref); err != nil {
		s.logger().Warn("booking: failed to delete evidence", zap.String("ref", ref), zap.Error(err))
	}
}

func (s *DefaultWizardService) discardAll(ctx context.Context, state *models.WizardState) {
	for _, ref := range state.Evidence.All() {
		s.discard(ctx, ref.Ref)
	}
}
