package models

import "github.com/shopspring/decimal"

// Vehicle is the read-only listing the booking is made for.
type Vehicle struct {
	ID         string           `json:"id"`
	Title      string           `json:"title,omitempty"`
	Price      decimal.Decimal  `json:"price"`
	CurrentBid *decimal.Decimal `json:"currentBid,omitempty"` // accepted bid, when the vehicle was won at auction
}

// BasePrice is the accepted bid when present, otherwise the list price.
func (v Vehicle) BasePrice() decimal.Decimal {
	if v.CurrentBid != nil {
		return *v.CurrentBid
	}
	return v.Price
}

// ProfileDefaults pre-fills the receiver contact fields.
type ProfileDefaults struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}
