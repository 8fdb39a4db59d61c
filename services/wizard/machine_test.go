package wizard_test

import (
	"errors"
	"testing"
	"time"

	"autobid/models"
	"autobid/services/wizard"

	"github.com/shopspring/decimal"
)

func newState() *models.WizardState {
	catalog := models.CatalogSnapshot{
		FixedFees: []models.FixedFee{{ID: "f1", Name: "Registration", Amount: decimal.NewFromInt(1500)}},
		OptionalServices: []models.OptionalService{
			{ID: "s1", Name: "Detailing", Amount: decimal.NewFromInt(300)},
			{ID: "s2", Name: "Tinting", Amount: decimal.NewFromInt(200)},
		},
		Locations: []models.DeliveryLocation{
			{ID: "l1", Name: "Dubai", Charge: decimal.NewFromInt(250)},
			{ID: "l2", Name: "Sharjah", Charge: decimal.NewFromInt(400)},
		},
	}
	vehicle := models.Vehicle{ID: "42", Price: decimal.NewFromInt(50000)}
	return wizard.New("w1", "u1", vehicle, catalog, models.ProfileDefaults{
		Name:  " Jane Doe ",
		Email: "jane@example.com",
		Phone: "+971 50 123 4567",
	})
}

func evidence(name string) models.EvidenceRef {
	return models.EvidenceRef{Ref: "ref-" + name, FileName: name + ".jpg", Size: 10, UploadedAt: time.Now()}
}

// readyForPayment walks a fresh wizard to the payment stage.
func readyForPayment(t *testing.T) *models.WizardState {
	t.Helper()
	s := newState()
	if err := wizard.Next(s); err != nil {
		t.Fatalf("stage 1 next: %v", err)
	}
	if err := wizard.SelectLocation(s, "l1"); err != nil {
		t.Fatalf("select location: %v", err)
	}
	for _, k := range []models.EvidenceKind{models.EvidenceIDFront, models.EvidenceIDBack} {
		if _, err := wizard.AttachEvidence(s, k, evidence(string(k))); err != nil {
			t.Fatalf("attach %s: %v", k, err)
		}
	}
	if err := wizard.Next(s); err != nil {
		t.Fatalf("stage 2 next: %v", err)
	}
	return s
}

func TestNew_Defaults(t *testing.T) {
	s := newState()
	if s.Stage != models.StageServices {
		t.Fatalf("expected stage 1, got %d", s.Stage)
	}
	if s.DeliveryMode != models.DeliveryDoor {
		t.Fatalf("expected door delivery, got %s", s.DeliveryMode)
	}
	if s.Contact.ReceiverName != "Jane Doe" {
		t.Fatalf("expected trimmed name, got %q", s.Contact.ReceiverName)
	}
	if s.SelectedServiceIDs == nil {
		t.Fatal("expected empty selection set")
	}
}

func TestNext_StageOneIsUnconditional(t *testing.T) {
	s := newState()
	s.Contact = models.ContactInfo{}
	if err := wizard.Next(s); err != nil {
		t.Fatalf("expected stage 1 to advance, got %v", err)
	}
	if s.Stage != models.StageDeliveryAndContact {
		t.Fatalf("expected stage 2, got %d", s.Stage)
	}
}

func TestNext_StageTwoReportsAllFailures(t *testing.T) {
	s := newState()
	_ = wizard.Next(s)
	s.Contact.ReceiverEmail = ""
	s.Contact.ReceiverPhone = "12"

	err := wizard.Next(s)
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if s.Stage != models.StageDeliveryAndContact {
		t.Fatalf("expected stage unchanged, got %d", s.Stage)
	}

	want := []string{
		wizard.FieldDeliveryLocation,
		wizard.FieldReceiverEmail,
		wizard.FieldReceiverPhone,
		string(models.EvidenceIDFront),
		string(models.EvidenceIDBack),
	}
	if len(verr.Fields) != len(want) {
		t.Fatalf("expected %d field errors, got %d: %v", len(want), len(verr.Fields), verr.Fields)
	}
	for i, f := range want {
		if verr.Fields[i].Field != f {
			t.Fatalf("field %d: expected %s, got %s", i, f, verr.Fields[i].Field)
		}
	}
	if verr.Has(wizard.FieldReceiverName) {
		t.Fatal("receiver name is set and must not be reported")
	}
}

func TestNext_StageTwoOnlyEmailMissing(t *testing.T) {
	s := newState()
	_ = wizard.Next(s)
	_ = wizard.SelectLocation(s, "l1")
	_, _ = wizard.AttachEvidence(s, models.EvidenceIDFront, evidence("front"))
	_, _ = wizard.AttachEvidence(s, models.EvidenceIDBack, evidence("back"))
	s.Contact.ReceiverEmail = ""

	err := wizard.Next(s)
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != wizard.FieldReceiverEmail {
		t.Fatalf("expected exactly the email error, got %v", verr.Fields)
	}
	if s.Stage != models.StageDeliveryAndContact {
		t.Fatalf("expected stage unchanged, got %d", s.Stage)
	}
}

func TestNext_SelfPickupNeedsNoLocation(t *testing.T) {
	s := newState()
	_ = wizard.Next(s)
	_ = wizard.SetDeliveryMode(s, models.DeliverySelfPickup)
	_, _ = wizard.AttachEvidence(s, models.EvidenceIDFront, evidence("front"))
	_, _ = wizard.AttachEvidence(s, models.EvidenceIDBack, evidence("back"))

	if err := wizard.Next(s); err != nil {
		t.Fatalf("expected self pickup to pass, got %v", err)
	}
	if s.Stage != models.StagePayment {
		t.Fatalf("expected stage 3, got %d", s.Stage)
	}
}

func TestValidateDeliveryAndContact_Formats(t *testing.T) {
	cases := []struct {
		email, phone string
		emailOK      bool
		phoneOK      bool
	}{
		{"a@b.co", "0501234567", true, true},
		{"a b@c.d", "+971-50-123", false, true},
		{"a@b", "123456", false, false},
		{"@b.c", "1234567890123456", false, false},
		{"x@y.z", "050 123 45ab", true, false},
		{"a\u00a0b@c.de", "050\u00a0123\u00a04567", false, true},
		{"a@b\u3000c.de", "0501234567", false, true},
		{"a\u2009@b.de", "0501234567", false, true},
	}
	for _, tc := range cases {
		s := newState()
		s.Contact.ReceiverEmail = tc.email
		s.Contact.ReceiverPhone = tc.phone
		err := wizard.ValidateDeliveryAndContact(s)
		var verr *wizard.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected validation error (evidence missing), got %v", err)
		}
		if verr.Has(wizard.FieldReceiverEmail) == tc.emailOK {
			t.Fatalf("email %q: expected ok=%v", tc.email, tc.emailOK)
		}
		if verr.Has(wizard.FieldReceiverPhone) == tc.phoneOK {
			t.Fatalf("phone %q: expected ok=%v", tc.phone, tc.phoneOK)
		}
	}
}

func TestBack_PreservesState(t *testing.T) {
	s := readyForPayment(t)
	_ = wizard.ToggleService(s, "s1")

	if err := wizard.Back(s); err != nil {
		t.Fatalf("back: %v", err)
	}
	if err := wizard.Back(s); err != nil {
		t.Fatalf("back: %v", err)
	}
	if s.Stage != models.StageServices {
		t.Fatalf("expected stage 1, got %d", s.Stage)
	}
	if !errors.Is(wizard.Back(s), wizard.ErrFirstStage) {
		t.Fatal("expected ErrFirstStage at stage 1")
	}
	if s.SelectedLocationID != "l1" || s.Evidence.IDFront == nil || !s.IsSelected("s1") {
		t.Fatal("expected selections to survive going back")
	}
}

func TestNext_ReenteringDoesNotRevalidateEarlierStages(t *testing.T) {
	s := readyForPayment(t)
	_ = wizard.Back(s)
	_ = wizard.Back(s)
	// Stage 1 has no gate, so breaking stage 2 data still lets it advance.
	s.Contact.ReceiverEmail = ""
	if err := wizard.Next(s); err != nil {
		t.Fatalf("expected stage 1 to advance, got %v", err)
	}
	if err := wizard.Next(s); err == nil {
		t.Fatal("expected stage 2 gate to be checked again on the forward move")
	}
}

func TestNext_FinalStage(t *testing.T) {
	s := readyForPayment(t)
	if !errors.Is(wizard.Next(s), wizard.ErrFinalStage) {
		t.Fatal("expected ErrFinalStage")
	}
}

func TestSetDeliveryMode_SelfPickupClearsLocation(t *testing.T) {
	s := newState()
	_ = wizard.SelectLocation(s, "l2")
	if err := wizard.SetDeliveryMode(s, models.DeliverySelfPickup); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if s.SelectedLocationID != "" {
		t.Fatalf("expected location cleared, got %s", s.SelectedLocationID)
	}
	if err := wizard.SetDeliveryMode(s, models.DeliveryDoor); err != nil {
		t.Fatalf("set mode: %v", err)
	}
	if s.SelectedLocationID != "" {
		t.Fatal("door delivery must not restore a location")
	}
	if !errors.Is(wizard.SetDeliveryMode(s, "teleport"), wizard.ErrInvalidDeliveryMode) {
		t.Fatal("expected ErrInvalidDeliveryMode")
	}
}

func TestSelectLocation(t *testing.T) {
	s := newState()
	_ = wizard.SetDeliveryMode(s, models.DeliverySelfPickup)
	if err := wizard.SelectLocation(s, "l1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if s.DeliveryMode != models.DeliveryDoor {
		t.Fatal("expected selecting a location to switch to door delivery")
	}
	if !errors.Is(wizard.SelectLocation(s, "nowhere"), wizard.ErrUnknownLocation) {
		t.Fatal("expected ErrUnknownLocation")
	}
	if s.SelectedLocationID != "l1" {
		t.Fatal("failed selection must not change the location")
	}
}

func TestToggleService(t *testing.T) {
	s := newState()
	_ = wizard.ToggleService(s, "s2")
	_ = wizard.ToggleService(s, "s1")
	if !s.IsSelected("s1") || !s.IsSelected("s2") {
		t.Fatal("expected both selected")
	}
	_ = wizard.ToggleService(s, "s2")
	if s.IsSelected("s2") {
		t.Fatal("expected s2 removed")
	}
	if !errors.Is(wizard.ToggleService(s, "nope"), wizard.ErrUnknownService) {
		t.Fatal("expected ErrUnknownService")
	}
}

func TestUpdateContact_Partial(t *testing.T) {
	s := newState()
	email := " new@example.com "
	if err := wizard.UpdateContact(s, wizard.ContactPatch{ReceiverEmail: &email}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if s.Contact.ReceiverEmail != "new@example.com" {
		t.Fatalf("expected trimmed email, got %q", s.Contact.ReceiverEmail)
	}
	if s.Contact.ReceiverName != "Jane Doe" {
		t.Fatal("untouched fields must keep their value")
	}
}

func TestAttachEvidence_ReturnsReplaced(t *testing.T) {
	s := newState()
	first := evidence("a")
	if prev, _ := wizard.AttachEvidence(s, models.EvidenceIDFront, first); prev != nil {
		t.Fatal("expected no previous reference")
	}
	prev, _ := wizard.AttachEvidence(s, models.EvidenceIDFront, evidence("b"))
	if prev == nil || prev.Ref != first.Ref {
		t.Fatalf("expected replaced reference %s, got %v", first.Ref, prev)
	}
	if _, err := wizard.AttachEvidence(s, "selfie", evidence("c")); !errors.Is(err, wizard.ErrInvalidEvidenceKind) {
		t.Fatal("expected ErrInvalidEvidenceKind")
	}
}

func TestBeginSubmit_RequiresPaymentProof(t *testing.T) {
	s := readyForPayment(t)
	err := wizard.BeginSubmit(s)
	var verr *wizard.ValidationError
	if !errors.As(err, &verr) || !verr.Has(string(models.EvidencePaymentProof)) {
		t.Fatalf("expected missing payment proof, got %v", err)
	}
	if s.Submitting {
		t.Fatal("blocked submit must not set submitting")
	}
}

func TestBeginSubmit_Guard(t *testing.T) {
	s := readyForPayment(t)
	_, _ = wizard.AttachEvidence(s, models.EvidencePaymentProof, evidence("pay"))

	if err := wizard.BeginSubmit(s); err != nil {
		t.Fatalf("begin submit: %v", err)
	}
	if !errors.Is(wizard.BeginSubmit(s), wizard.ErrSubmissionInProgress) {
		t.Fatal("expected second submit to be refused")
	}
	if !errors.Is(wizard.ToggleService(s, "s1"), wizard.ErrSubmissionInProgress) {
		t.Fatal("expected mutations to be refused while submitting")
	}
	if !errors.Is(wizard.Back(s), wizard.ErrSubmissionInProgress) {
		t.Fatal("expected back to be refused while submitting")
	}

	wizard.EndSubmit(s)
	if s.Submitting || s.Stage != models.StagePayment {
		t.Fatal("expected submitting reset and stage kept at payment")
	}
	if err := wizard.BeginSubmit(s); err != nil {
		t.Fatalf("expected retry to be allowed, got %v", err)
	}
}

func TestBeginSubmit_WrongStage(t *testing.T) {
	s := newState()
	if !errors.Is(wizard.BeginSubmit(s), wizard.ErrNotPaymentStage) {
		t.Fatal("expected ErrNotPaymentStage")
	}
}

func TestReplaceCatalog_DropsVanishedSelections(t *testing.T) {
	s := newState()
	_ = wizard.ToggleService(s, "s1")
	_ = wizard.ToggleService(s, "s2")
	_ = wizard.SelectLocation(s, "l2")

	err := wizard.ReplaceCatalog(s, models.CatalogSnapshot{
		OptionalServices: []models.OptionalService{{ID: "s2", Name: "Tinting", Amount: decimal.NewFromInt(200)}},
		Locations:        []models.DeliveryLocation{{ID: "l1", Name: "Dubai", Charge: decimal.NewFromInt(250)}},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if s.IsSelected("s1") || !s.IsSelected("s2") {
		t.Fatalf("expected only s2 to remain, got %v", s.SelectedServiceIDs)
	}
	if s.SelectedLocationID != "" {
		t.Fatal("expected vanished location cleared")
	}
	if s.Catalog.FixedFees == nil {
		t.Fatal("expected empty, non-nil fee list")
	}
}
