package submission_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"autobid/models"
	"autobid/services/marketplace"
	"autobid/services/pricing"
	"autobid/services/storage"
	"autobid/services/submission"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (m *memStore) Save(_ context.Context, _ string, fileName string, r io.Reader) (storage.StoredFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return storage.StoredFile{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[fileName] = data
	return storage.StoredFile{Ref: fileName, Size: int64(len(data))}, nil
}

func (m *memStore) Open(_ context.Context, ref string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[ref]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memStore) Delete(_ context.Context, ref string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, ref)
	return nil
}

type fakeClient struct {
	calls       int
	body        []byte
	contentType string
	data        json.RawMessage
	err         error
}

func (f *fakeClient) SubmitBooking(_ context.Context, body []byte, contentType string) (json.RawMessage, error) {
	f.calls++
	f.body = body
	f.contentType = contentType
	return f.data, f.err
}

func amt(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func readyState() *models.WizardState {
	return &models.WizardState{
		ID:      "w1",
		Vehicle: models.Vehicle{ID: "v9", Price: amt(50000)},
		Stage:   models.StagePayment,
		Catalog: models.CatalogSnapshot{
			FixedFees: []models.FixedFee{
				{ID: "f1", Name: "Registration", Amount: amt(1500)},
				{ID: "f2", Name: "Inspection", Amount: amt(500), Waived: true},
			},
			OptionalServices: []models.OptionalService{
				{ID: "s1", Name: "Detailing", Amount: amt(300)},
				{ID: "s2", Name: "Tinting", Amount: amt(200)},
			},
			Locations: []models.DeliveryLocation{{ID: "l1", Name: "Dubai", Charge: amt(250)}},
		},
		SelectedServiceIDs: []string{"s2", "s1"},
		DeliveryMode:       models.DeliveryDoor,
		SelectedLocationID: "l1",
		Contact: models.ContactInfo{
			ReceiverName:  "Sara",
			ReceiverEmail: "sara@example.com",
			ReceiverPhone: "+971 5555555",
		},
		Evidence: models.EvidenceSet{
			IDFront:      &models.EvidenceRef{Ref: "front.jpg", FileName: "front.jpg", ContentType: "image/jpeg"},
			IDBack:       &models.EvidenceRef{Ref: "back.jpg", FileName: "back.jpg", ContentType: "image/jpeg"},
			PaymentProof: &models.EvidenceRef{Ref: "pay.png", FileName: "pay.png", ContentType: "image/png"},
		},
	}
}

func assemble(t *testing.T, state *models.WizardState) models.SubmissionPayload {
	t.Helper()
	p, err := submission.Assemble(state.Vehicle, state, pricing.ForState(state))
	if err != nil {
		t.Fatalf("assemble: %v", err)
	}
	return p
}

func TestAssemble_DoorDelivery(t *testing.T) {
	p := assemble(t, readyState())

	if p.VehicleID != "v9" || p.DeliveryType != models.DeliveryDoor {
		t.Fatalf("unexpected header fields: %+v", p)
	}
	if p.DeliveryCharges != "250.00" {
		t.Fatalf("expected delivery charges 250.00, got %s", p.DeliveryCharges)
	}
	if p.CurrentLocation != "Dubai" || p.DeliveryLocation != "Dubai" {
		t.Fatalf("expected Dubai for both locations, got %q / %q", p.CurrentLocation, p.DeliveryLocation)
	}

	want := []models.LineItem{
		{Name: "Detailing", Price: "300.00"},
		{Name: "Tinting", Price: "200.00"},
		{Name: "Registration", Price: "1500.00"},
		{Name: "Inspection", Price: "0.00"},
	}
	if len(p.Services) != len(want) {
		t.Fatalf("expected %d line items, got %d", len(want), len(p.Services))
	}
	for i := range want {
		if p.Services[i] != want[i] {
			t.Fatalf("line item %d: expected %+v, got %+v", i, want[i], p.Services[i])
		}
	}

	kinds := []models.EvidenceKind{models.EvidencePaymentProof, models.EvidenceIDFront, models.EvidenceIDBack}
	for i, k := range kinds {
		if p.Files[i].Field != k {
			t.Fatalf("file %d: expected %s, got %s", i, k, p.Files[i].Field)
		}
	}
}

func TestAssemble_AddressOverridesLocationName(t *testing.T) {
	state := readyState()
	state.Contact.DeliveryAddress = "Villa 12, Jumeirah"
	p := assemble(t, state)
	if p.DeliveryLocation != "Villa 12, Jumeirah" {
		t.Fatalf("expected address text, got %q", p.DeliveryLocation)
	}
	if p.CurrentLocation != "Dubai" {
		t.Fatalf("expected location name, got %q", p.CurrentLocation)
	}
}

func TestAssemble_SelfPickup(t *testing.T) {
	state := readyState()
	state.DeliveryMode = models.DeliverySelfPickup
	state.SelectedLocationID = ""

	p := assemble(t, state)
	if p.DeliveryCharges != "0.00" {
		t.Fatalf("expected 0.00, got %s", p.DeliveryCharges)
	}
	if p.CurrentLocation != models.SelfPickupLabel || p.DeliveryLocation != models.SelfPickupLabel {
		t.Fatalf("expected Self Pickup labels, got %q / %q", p.CurrentLocation, p.DeliveryLocation)
	}
}

func TestAssemble_MissingEvidence(t *testing.T) {
	state := readyState()
	state.Evidence.PaymentProof = nil
	_, err := submission.Assemble(state.Vehicle, state, pricing.ForState(state))
	if !errors.Is(err, submission.ErrIncomplete) {
		t.Fatalf("expected ErrIncomplete, got %v", err)
	}
}

func TestFields_Order(t *testing.T) {
	fields := submission.Fields(assemble(t, readyState()))
	var names []string
	for _, f := range fields {
		names = append(names, f.Name)
	}
	got := strings.Join(names, ",")
	want := "vehicle_id,delivery_type,delivery_charges,receiver_name,receiver_email,receiver_phone," +
		"current_location,delivery_location," +
		"services[0][name],services[0][price],services[1][name],services[1][price]," +
		"services[2][name],services[2][price],services[3][name],services[3][price]"
	if got != want {
		t.Fatalf("unexpected field order:\n got  %s\n want %s", got, want)
	}
}

func seededStore() *memStore {
	store := newMemStore()
	store.files["front.jpg"] = []byte("FRONT")
	store.files["back.jpg"] = []byte("BACK")
	store.files["pay.png"] = []byte("PAY")
	return store
}

func TestSubmit_EncodesMultipart(t *testing.T) {
	client := &fakeClient{data: json.RawMessage(`{"message":"Booking created"}`)}
	s := submission.NewSubmitter(client, seededStore(), zap.NewNop())

	res, err := s.Submit(context.Background(), assemble(t, readyState()))
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !res.Success || res.Message != "Booking created" || res.VehicleID != "v9" {
		t.Fatalf("unexpected result: %+v", res)
	}
	if client.calls != 1 {
		t.Fatalf("expected exactly one call, got %d", client.calls)
	}

	_, params, err := mime.ParseMediaType(client.contentType)
	if err != nil {
		t.Fatalf("content type: %v", err)
	}
	r := multipart.NewReader(bytes.NewReader(client.body), params["boundary"])
	form, err := r.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	if got := form.Value["services[3][price]"]; len(got) != 1 || got[0] != "0.00" {
		t.Fatalf("expected waived fee price 0.00, got %v", got)
	}
	if got := form.Value["delivery_charges"]; len(got) != 1 || got[0] != "250.00" {
		t.Fatalf("expected delivery charges 250.00, got %v", got)
	}
	fh := form.File["payment_screenshot"]
	if len(fh) != 1 || fh[0].Filename != "pay.png" {
		t.Fatalf("expected payment_screenshot file, got %v", fh)
	}
	f, _ := fh[0].Open()
	data, _ := io.ReadAll(f)
	f.Close()
	if string(data) != "PAY" {
		t.Fatalf("expected file body PAY, got %q", data)
	}
}

func TestSubmit_MissingStoredFile(t *testing.T) {
	client := &fakeClient{}
	store := seededStore()
	delete(store.files, "back.jpg")

	_, err := submission.NewSubmitter(client, store, zap.NewNop()).Submit(context.Background(), assemble(t, readyState()))
	var subErr *submission.SubmissionError
	if !errors.As(err, &subErr) {
		t.Fatalf("expected SubmissionError, got %v", err)
	}
	if subErr.Message != submission.EvidenceFailureMessage {
		t.Fatalf("unexpected message %q", subErr.Message)
	}
	if client.calls != 0 {
		t.Fatalf("expected no outbound call, got %d", client.calls)
	}
}

func TestFailureMessage_Precedence(t *testing.T) {
	fieldErr := &marketplace.APIError{
		Status:  422,
		Message: "Validation failed",
		FieldErrors: map[string][]string{
			"receiver_phone": {"The receiver phone format is invalid."},
		},
	}
	if got := submission.FailureMessage(fieldErr); got != "The receiver phone format is invalid." {
		t.Fatalf("expected field error, got %q", got)
	}

	msgErr := &marketplace.APIError{Status: 400, Message: "Vehicle already booked"}
	if got := submission.FailureMessage(msgErr); got != "Vehicle already booked" {
		t.Fatalf("expected server message, got %q", got)
	}

	if got := submission.FailureMessage(errors.New("dial tcp: refused")); got != submission.GenericFailureMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestSubmit_ServerRejection(t *testing.T) {
	client := &fakeClient{err: &marketplace.APIError{Status: 400, Message: "Vehicle already booked"}}
	_, err := submission.NewSubmitter(client, seededStore(), zap.NewNop()).Submit(context.Background(), assemble(t, readyState()))

	var subErr *submission.SubmissionError
	if !errors.As(err, &subErr) || subErr.Message != "Vehicle already booked" {
		t.Fatalf("expected server message, got %v", err)
	}
}
