package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autobid/models"
	"autobid/services/pricing"
	"autobid/services/wizard"
	"autobid/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func (s *DefaultWizardService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return utils.GetLogger()
}

func (s *DefaultWizardService) ttl() time.Duration {
	if s.TTL > 0 {
		return s.TTL
	}
	return utils.DefaultWizardTTL
}

func view(state *models.WizardState) *WizardView {
	return &WizardView{State: state, Pricing: pricing.ForState(state)}
}

// Open fetches the vehicle, the buyer's profile and both catalogs, then
// stores a fresh wizard at the services stage. A missing profile or a failed
// catalog degrades the wizard instead of failing it.
func (s *DefaultWizardService) Open(ctx context.Context, req OpenRequest) (*WizardView, error) {
	if req.VehicleID == "" {
		return nil, fmt.Errorf("vehicle id is required")
	}
	vehicle, err := s.Marketplace.GetVehicle(ctx, req.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle %s: %w", req.VehicleID, err)
	}

	defaults, err := s.Marketplace.GetProfileDefaults(ctx)
	if err != nil {
		s.logger().Warn("booking: profile defaults unavailable", zap.String("vehicleID", req.VehicleID), zap.Error(err))
		defaults = models.ProfileDefaults{}
	}

	snapshot := s.Catalogs.Load(ctx)

	state := wizard.New(uuid.New().String(), req.UserID, vehicle, snapshot, defaults)
	if err := s.Store.Create(ctx, state, s.ttl()); err != nil {
		return nil, err
	}
	s.logger().Info("booking: wizard opened",
		zap.String("wizardID", state.ID),
		zap.String("vehicleID", vehicle.ID),
		zap.Bool("servicesLoaded", snapshot.ServicesStatus.Loaded),
		zap.Bool("locationsLoaded", snapshot.LocationsStatus.Loaded))
	return view(state), nil
}

// Get returns the wizard and its current price.
func (s *DefaultWizardService) Get(ctx context.Context, wizardID string) (*WizardView, error) {
	state, err := s.Store.Get(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	return view(state), nil
}

// maxSaveAttempts bounds how often a conflicting save is reloaded and retried.
const maxSaveAttempts = 3

// mutate loads a wizard, applies fn and saves the result. Wizards with a
// submission in flight are refused before they are loaded. A save that loses
// a race is retried on a fresh copy, so the submit lock is checked again.
func (s *DefaultWizardService) mutate(ctx context.Context, wizardID string, fn func(*models.WizardState) error) (*models.WizardState, error) {
	for attempt := 1; ; attempt++ {
		locked, err := s.Store.SubmitLocked(ctx, wizardID)
		if err != nil {
			return nil, err
		}
		if locked {
			return nil, wizard.ErrSubmissionInProgress
		}
		state, err := s.Store.Get(ctx, wizardID)
		if err != nil {
			return nil, err
		}
		if err := fn(state); err != nil {
			return nil, err
		}
		err = s.Store.Save(ctx, state, s.ttl())
		if errors.Is(err, ErrConflict) && attempt < maxSaveAttempts {
			s.logger().Debug("booking: retrying conflicting save", zap.String("wizardID", wizardID), zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		return state, nil
	}
}

func (s *DefaultWizardService) mutateView(ctx context.Context, wizardID string, fn func(*models.WizardState) error) (*WizardView, error) {
	state, err := s.mutate(ctx, wizardID, fn)
	if err != nil {
		return nil, err
	}
	return view(state), nil
}

func (s *DefaultWizardService) ToggleService(ctx context.Context, wizardID, serviceID string) (*WizardView, error) {
	return s.mutateView(ctx, wizardID, func(st *models.WizardState) error {
		return wizard.ToggleService(st, serviceID)
	})
}

func (s *DefaultWizardService) SetDeliveryMode(ctx context.Context, wizardID string, mode models.DeliveryMode) (*WizardView, error) {
	return s.mutateView(ctx, wizardID, func(st *models.WizardState) error {
		return wizard.SetDeliveryMode(st, mode)
	})
}

func (s *DefaultWizardService) SelectLocation(ctx context.Context, wizardID, locationID string) (*WizardView, error) {
	return s.mutateView(ctx, wizardID, func(st *models.WizardState) error {
		return wizard.SelectLocation(st, locationID)
	})
}

func (s *DefaultWizardService) UpdateContact(ctx context.Context, wizardID string, patch wizard.ContactPatch) (*WizardView, error) {
	return s.mutateView(ctx, wizardID, func(st *models.WizardState) error {
		return wizard.UpdateContact(st, patch)
	})
}

// Next advances the wizard, running the gate of the stage being left.
func (s *DefaultWizardService) Next(ctx context.Context, wizardID string) (*WizardView, error) {
	return s.mutateView(ctx, wizardID, wizard.Next)
}

func (s *DefaultWizardService) Back(ctx context.Context, wizardID string) (*WizardView, error) {
	return s.mutateView(ctx, wizardID, wizard.Back)
}

// ReloadCatalogs retries the catalogs that failed or came back empty.
func (s *DefaultWizardService) ReloadCatalogs(ctx context.Context, wizardID string) (*WizardView, error) {
	current, err := s.Store.Get(ctx, wizardID)
	if err != nil {
		return nil, err
	}
	snapshot := s.Catalogs.Reload(ctx, current.Catalog)
	return s.mutateView(ctx, wizardID, func(st *models.WizardState) error {
		return wizard.ReplaceCatalog(st, snapshot)
	})
}
