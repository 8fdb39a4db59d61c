package models

import "github.com/shopspring/decimal"

// FeeLine is one fixed fee as shown to the buyer.
type FeeLine struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Amount       decimal.Decimal `json:"amount"` // original amount, shown even when waived
	Waived       bool            `json:"waived"`
	Contribution decimal.Decimal `json:"contribution"` // what it adds to the total
}

// ServiceLine is one selected optional service.
type ServiceLine struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// PricingBreakdown is derived from wizard state on demand and never stored.
type PricingBreakdown struct {
	BasePrice      decimal.Decimal `json:"basePrice"`
	FixedFees      []FeeLine       `json:"fixedFees"`
	FixedFeesTotal decimal.Decimal `json:"fixedFeesTotal"`
	Services       []ServiceLine   `json:"services"`
	ServicesTotal  decimal.Decimal `json:"servicesTotal"`
	DeliveryMode   DeliveryMode    `json:"deliveryMode"`
	DeliveryCharge decimal.Decimal `json:"deliveryCharge"`
	GrandTotal     decimal.Decimal `json:"grandTotal"`
	Provisional    bool            `json:"provisional"` // door delivery without a chosen location
}
