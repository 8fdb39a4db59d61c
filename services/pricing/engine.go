package pricing

import (
	"autobid/models"

	"github.com/shopspring/decimal"
)

// Input is everything the total depends on.
type Input struct {
	BasePrice          decimal.Decimal
	FixedFees          []models.FixedFee
	OptionalServices   []models.OptionalService
	SelectedServiceIDs []string
	DeliveryMode       models.DeliveryMode
	Location           *models.DeliveryLocation
}

// ComputeTotal itemizes and sums a booking. It is a pure function of its
// input: the grand total is always base + fixed fees + services + delivery.
func ComputeTotal(in Input) models.PricingBreakdown {
	b := models.PricingBreakdown{
		BasePrice:      in.BasePrice,
		FixedFees:      make([]models.FeeLine, 0, len(in.FixedFees)),
		FixedFeesTotal: decimal.Zero,
		Services:       make([]models.ServiceLine, 0, len(in.SelectedServiceIDs)),
		ServicesTotal:  decimal.Zero,
		DeliveryMode:   in.DeliveryMode,
		DeliveryCharge: decimal.Zero,
	}

	for _, fee := range in.FixedFees {
		contribution := fee.Amount
		if fee.Waived {
			contribution = decimal.Zero
		}
		b.FixedFees = append(b.FixedFees, models.FeeLine{
			ID:           fee.ID,
			Name:         fee.Name,
			Amount:       fee.Amount,
			Waived:       fee.Waived,
			Contribution: contribution,
		})
		b.FixedFeesTotal = b.FixedFeesTotal.Add(contribution)
	}

	selected := make(map[string]struct{}, len(in.SelectedServiceIDs))
	for _, id := range in.SelectedServiceIDs {
		selected[id] = struct{}{}
	}
	// Catalog order, so the itemization is stable whatever order the buyer
	// toggled things in. Ids missing from the catalog are ignored.
	for _, svc := range in.OptionalServices {
		if _, ok := selected[svc.ID]; !ok {
			continue
		}
		b.Services = append(b.Services, models.ServiceLine{ID: svc.ID, Name: svc.Name, Amount: svc.Amount})
		b.ServicesTotal = b.ServicesTotal.Add(svc.Amount)
	}

	if in.DeliveryMode == models.DeliveryDoor {
		if in.Location != nil {
			b.DeliveryCharge = in.Location.Charge
		} else {
			b.Provisional = true
		}
	}

	b.GrandTotal = b.BasePrice.Add(b.FixedFeesTotal).Add(b.ServicesTotal).Add(b.DeliveryCharge)
	return b
}

// ForState prices a wizard against the catalog it currently holds.
func ForState(state *models.WizardState) models.PricingBreakdown {
	return ComputeTotal(Input{
		BasePrice:          state.Vehicle.BasePrice(),
		FixedFees:          state.Catalog.FixedFees,
		OptionalServices:   state.Catalog.OptionalServices,
		SelectedServiceIDs: state.SelectedServiceIDs,
		DeliveryMode:       state.DeliveryMode,
		Location:           state.SelectedLocation(),
	})
}
