package models

import "time"

// Receipt records a booking that the marketplace accepted.
type Receipt struct {
	ID             string     `bson:"id" json:"id"`
	WizardID       string     `bson:"wizard_id" json:"wizardId"`
	UserID         string     `bson:"user_id,omitempty" json:"userId,omitempty"`
	VehicleID      string     `bson:"vehicle_id" json:"vehicleId"`
	DeliveryType   string     `bson:"delivery_type" json:"deliveryType"`
	DeliveryCharge string     `bson:"delivery_charge" json:"deliveryCharge"`
	LineItems      []LineItem `bson:"line_items" json:"lineItems"`
	GrandTotal     string     `bson:"grand_total" json:"grandTotal"`
	Message        string     `bson:"message,omitempty" json:"message,omitempty"`
	CreatedAt      time.Time  `bson:"created_at" json:"createdAt"`
}
