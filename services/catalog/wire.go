package catalog

import (
	"bytes"

	"autobid/models"
	"autobid/utils"

	"github.com/goccy/go-json"
)

// Wire literals used by the marketplace catalog. They are interpreted here
// and nowhere else.
const (
	serviceTypeFixed = "1"
	paidCheckWaived  = "1"
)

// FlexString accepts a JSON string, number, bool or null and keeps its text.
// The catalog API is not consistent about quoting ids and amounts.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	*f = FlexString(data)
	return nil
}

func (f FlexString) String() string { return string(f) }

// ServiceEntry is one row of the service catalog as the API sends it.
type ServiceEntry struct {
	ID            FlexString `json:"id"`
	ServiceName   string     `json:"service_name"`
	ServiceAmount FlexString `json:"service_amount"`
	ServiceType   FlexString `json:"service_type"`
	PaidCheck     FlexString `json:"paid_check"`
}

// LocationEntry is one row of the delivery location catalog.
type LocationEntry struct {
	ID            FlexString `json:"id"`
	Location      string     `json:"location"`
	ServiceAmount FlexString `json:"service_amount"`
}

// Split partitions service catalog rows into fixed fees and optional
// services, preserving catalog order within each list.
func Split(entries []ServiceEntry) ([]models.FixedFee, []models.OptionalService) {
	fees := make([]models.FixedFee, 0)
	services := make([]models.OptionalService, 0)
	for _, e := range entries {
		amount := utils.ParseAmount(e.ServiceAmount.String())
		if e.ServiceType.String() == serviceTypeFixed {
			fees = append(fees, models.FixedFee{
				ID:     e.ID.String(),
				Name:   e.ServiceName,
				Amount: amount,
				Waived: e.PaidCheck.String() == paidCheckWaived,
			})
			continue
		}
		services = append(services, models.OptionalService{
			ID:     e.ID.String(),
			Name:   e.ServiceName,
			Amount: amount,
		})
	}
	return fees, services
}

// Locations converts location catalog rows.
func Locations(entries []LocationEntry) []models.DeliveryLocation {
	out := make([]models.DeliveryLocation, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.DeliveryLocation{
			ID:     e.ID.String(),
			Name:   e.Location,
			Charge: utils.ParseAmount(e.ServiceAmount.String()),
		})
	}
	return out
}

// DecodeServices parses a JSON array of service catalog rows.
func DecodeServices(data []byte) ([]ServiceEntry, error) {
	var entries []ServiceEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// DecodeLocations parses a JSON array of location catalog rows.
func DecodeLocations(data []byte) ([]LocationEntry, error) {
	var entries []LocationEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
