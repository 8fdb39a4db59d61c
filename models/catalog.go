package models

import "github.com/shopspring/decimal"

// FixedFee is a mandatory charge. A waived fee still carries its original
// amount so it can be shown struck through.
type FixedFee struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
	Waived bool            `json:"waived"`
}

// OptionalService is a value-added service the buyer may select.
type OptionalService struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// DeliveryLocation is a door-delivery destination and its charge.
type DeliveryLocation struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Charge decimal.Decimal `json:"charge"`
}

// CatalogStatus reports how the last load of one catalog went.
type CatalogStatus struct {
	Loaded bool   `json:"loaded"`
	Error  string `json:"error,omitempty"`
}

// CatalogSnapshot holds whatever catalog data is currently available to a
// wizard. Lists are empty, never nil, when their load failed.
type CatalogSnapshot struct {
	FixedFees        []FixedFee         `json:"fixedFees"`
	OptionalServices []OptionalService  `json:"optionalServices"`
	Locations        []DeliveryLocation `json:"locations"`
	ServicesStatus   CatalogStatus      `json:"servicesStatus"`
	LocationsStatus  CatalogStatus      `json:"locationsStatus"`
}

// Service looks up an optional service by id.
func (c CatalogSnapshot) Service(id string) (OptionalService, bool) {
	for _, s := range c.OptionalServices {
		if s.ID == id {
			return s, true
		}
	}
	return OptionalService{}, false
}

// Location looks up a delivery location by id.
func (c CatalogSnapshot) Location(id string) (DeliveryLocation, bool) {
	for _, l := range c.Locations {
		if l.ID == id {
			return l, true
		}
	}
	return DeliveryLocation{}, false
}
