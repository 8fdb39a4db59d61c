package pricing_test

import (
	"reflect"
	"testing"

	"autobid/models"
	"autobid/services/pricing"

	"github.com/shopspring/decimal"
)

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func sampleInput() pricing.Input {
	return pricing.Input{
		BasePrice: amt(50000),
		FixedFees: []models.FixedFee{
			{ID: "f1", Name: "Registration", Amount: amt(1500)},
			{ID: "f2", Name: "Inspection", Amount: amt(500), Waived: true},
		},
		OptionalServices: []models.OptionalService{
			{ID: "s1", Name: "Detailing", Amount: amt(300)},
			{ID: "s2", Name: "Tinting", Amount: amt(200)},
			{ID: "s3", Name: "Warranty", Amount: amt(900)},
		},
		SelectedServiceIDs: []string{"s2", "s1"},
		DeliveryMode:       models.DeliveryDoor,
		Location:           &models.DeliveryLocation{ID: "l1", Name: "Dubai", Charge: amt(250)},
	}
}

func TestComputeTotal_DoorDelivery(t *testing.T) {
	b := pricing.ComputeTotal(sampleInput())

	if !b.GrandTotal.Equal(amt(52250)) {
		t.Fatalf("expected grand total 52250, got %s", b.GrandTotal)
	}
	if !b.DeliveryCharge.Equal(amt(250)) {
		t.Fatalf("expected delivery 250, got %s", b.DeliveryCharge)
	}
	if !b.FixedFeesTotal.Equal(amt(1500)) {
		t.Fatalf("expected fixed fees 1500, got %s", b.FixedFeesTotal)
	}
	if !b.ServicesTotal.Equal(amt(500)) {
		t.Fatalf("expected services 500, got %s", b.ServicesTotal)
	}
	if b.Provisional {
		t.Fatal("expected a final total once a location is chosen")
	}
}

func TestComputeTotal_SelfPickup(t *testing.T) {
	in := sampleInput()
	in.DeliveryMode = models.DeliverySelfPickup
	in.Location = nil

	b := pricing.ComputeTotal(in)
	if !b.GrandTotal.Equal(amt(52000)) {
		t.Fatalf("expected grand total 52000, got %s", b.GrandTotal)
	}
	if !b.DeliveryCharge.IsZero() {
		t.Fatalf("expected zero delivery, got %s", b.DeliveryCharge)
	}
}

func TestComputeTotal_SelfPickupIgnoresLocation(t *testing.T) {
	in := sampleInput()
	in.DeliveryMode = models.DeliverySelfPickup

	b := pricing.ComputeTotal(in)
	if !b.DeliveryCharge.IsZero() {
		t.Fatalf("expected zero delivery under self pickup, got %s", b.DeliveryCharge)
	}
}

func TestComputeTotal_DoorDeliveryWithoutLocationIsProvisional(t *testing.T) {
	in := sampleInput()
	in.Location = nil

	b := pricing.ComputeTotal(in)
	if !b.DeliveryCharge.IsZero() {
		t.Fatalf("expected zero delivery, got %s", b.DeliveryCharge)
	}
	if !b.Provisional {
		t.Fatal("expected provisional total")
	}
	if b.DeliveryMode != models.DeliveryDoor {
		t.Fatalf("expected mode to stay door delivery, got %s", b.DeliveryMode)
	}
}

func TestComputeTotal_WaivedFeeStillItemized(t *testing.T) {
	b := pricing.ComputeTotal(sampleInput())

	if len(b.FixedFees) != 2 {
		t.Fatalf("expected 2 fee lines, got %d", len(b.FixedFees))
	}
	waived := b.FixedFees[1]
	if !waived.Waived {
		t.Fatal("expected second fee to be waived")
	}
	if !waived.Amount.Equal(amt(500)) {
		t.Fatalf("expected waived fee to keep amount 500, got %s", waived.Amount)
	}
	if !waived.Contribution.IsZero() {
		t.Fatalf("expected waived fee to contribute 0, got %s", waived.Contribution)
	}
}

func TestComputeTotal_ServicesInCatalogOrder(t *testing.T) {
	b := pricing.ComputeTotal(sampleInput())

	if len(b.Services) != 2 {
		t.Fatalf("expected 2 service lines, got %d", len(b.Services))
	}
	if b.Services[0].ID != "s1" || b.Services[1].ID != "s2" {
		t.Fatalf("expected catalog order s1,s2, got %s,%s", b.Services[0].ID, b.Services[1].ID)
	}
}

func TestComputeTotal_UnknownServiceIgnored(t *testing.T) {
	in := sampleInput()
	in.SelectedServiceIDs = append(in.SelectedServiceIDs, "gone")

	b := pricing.ComputeTotal(in)
	if !b.ServicesTotal.Equal(amt(500)) {
		t.Fatalf("expected unknown id to add nothing, got %s", b.ServicesTotal)
	}
}

func TestComputeTotal_EmptyCatalogs(t *testing.T) {
	b := pricing.ComputeTotal(pricing.Input{BasePrice: amt(18000), DeliveryMode: models.DeliverySelfPickup})
	if !b.GrandTotal.Equal(amt(18000)) {
		t.Fatalf("expected base price only, got %s", b.GrandTotal)
	}
	if b.FixedFees == nil || b.Services == nil {
		t.Fatal("expected empty, non-nil line lists")
	}
}

func TestComputeTotal_Additivity(t *testing.T) {
	inputs := []pricing.Input{sampleInput()}
	partial := sampleInput()
	partial.SelectedServiceIDs = nil
	partial.FixedFees[1].Waived = false
	inputs = append(inputs, partial)
	decimals := sampleInput()
	decimals.BasePrice = decimal.RequireFromString("49999.99")
	decimals.Location.Charge = decimal.RequireFromString("0.01")
	inputs = append(inputs, decimals)

	for i, in := range inputs {
		b := pricing.ComputeTotal(in)
		sum := b.BasePrice.Add(b.FixedFeesTotal).Add(b.ServicesTotal).Add(b.DeliveryCharge)
		if !b.GrandTotal.Equal(sum) {
			t.Fatalf("case %d: grand total %s != component sum %s", i, b.GrandTotal, sum)
		}
	}
}

func TestComputeTotal_Idempotent(t *testing.T) {
	in := sampleInput()
	first := pricing.ComputeTotal(in)
	second := pricing.ComputeTotal(in)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical breakdowns, got %+v and %+v", first, second)
	}
}

func TestForState_UsesAcceptedBid(t *testing.T) {
	bid := amt(45000)
	state := &models.WizardState{
		Vehicle:      models.Vehicle{ID: "7", Price: amt(50000), CurrentBid: &bid},
		DeliveryMode: models.DeliverySelfPickup,
	}
	b := pricing.ForState(state)
	if !b.GrandTotal.Equal(amt(45000)) {
		t.Fatalf("expected accepted bid as base, got %s", b.GrandTotal)
	}
}
