package catalog

import (
	"context"

	"autobid/models"
	"autobid/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Source fetches raw catalog rows from the marketplace.
type Source interface {
	FetchServiceCatalog(ctx context.Context) ([]ServiceEntry, error)
	FetchLocationCatalog(ctx context.Context) ([]LocationEntry, error)
}

// Loader builds catalog snapshots for wizards. Loading never fails: a catalog
// that cannot be fetched degrades to an empty list and the failure is logged
// and recorded in the snapshot status.
type Loader struct {
	source Source
	logger *zap.Logger
}

func NewLoader(source Source, logger *zap.Logger) *Loader {
	if logger == nil {
		logger = utils.GetLogger()
	}
	return &Loader{source: source, logger: logger}
}

// Load fetches both catalogs concurrently.
func (l *Loader) Load(ctx context.Context) models.CatalogSnapshot {
	return l.load(ctx, true, true)
}

// Reload refetches only the catalogs that failed or came back empty in prev,
// keeping the rest. This backs the manual pull-to-retry.
func (l *Loader) Reload(ctx context.Context, prev models.CatalogSnapshot) models.CatalogSnapshot {
	needServices := !prev.ServicesStatus.Loaded || (len(prev.FixedFees) == 0 && len(prev.OptionalServices) == 0)
	needLocations := !prev.LocationsStatus.Loaded || len(prev.Locations) == 0

	next := l.load(ctx, needServices, needLocations)
	if !needServices {
		next.FixedFees = prev.FixedFees
		next.OptionalServices = prev.OptionalServices
		next.ServicesStatus = prev.ServicesStatus
	}
	if !needLocations {
		next.Locations = prev.Locations
		next.LocationsStatus = prev.LocationsStatus
	}
	return next
}

func (l *Loader) load(ctx context.Context, services, locations bool) models.CatalogSnapshot {
	snap := models.CatalogSnapshot{
		FixedFees:        []models.FixedFee{},
		OptionalServices: []models.OptionalService{},
		Locations:        []models.DeliveryLocation{},
	}

	// Each goroutine writes only its own fields of snap, and both always
	// return nil so one failure never cancels the other fetch.
	var g errgroup.Group
	if services {
		g.Go(func() error {
			entries, err := l.source.FetchServiceCatalog(ctx)
			if err != nil {
				l.logger.Warn("catalog: service catalog unavailable, continuing without fees/services", zap.Error(err))
				snap.ServicesStatus = models.CatalogStatus{Error: err.Error()}
				return nil
			}
			snap.FixedFees, snap.OptionalServices = Split(entries)
			snap.ServicesStatus = models.CatalogStatus{Loaded: true}
			return nil
		})
	}
	if locations {
		g.Go(func() error {
			entries, err := l.source.FetchLocationCatalog(ctx)
			if err != nil {
				l.logger.Warn("catalog: location catalog unavailable, continuing without locations", zap.Error(err))
				snap.LocationsStatus = models.CatalogStatus{Error: err.Error()}
				return nil
			}
			snap.Locations = Locations(entries)
			snap.LocationsStatus = models.CatalogStatus{Loaded: true}
			return nil
		})
	}
	_ = g.Wait()

	l.logger.Debug("catalog: loaded",
		zap.Int("fixedFees", len(snap.FixedFees)),
		zap.Int("optionalServices", len(snap.OptionalServices)),
		zap.Int("locations", len(snap.Locations)),
	)
	return snap
}
