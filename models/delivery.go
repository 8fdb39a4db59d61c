package models

// DeliveryMode is how the buyer receives the vehicle. The values double as
// the booking endpoint's delivery_type tags.
type DeliveryMode string

const (
	DeliveryDoor       DeliveryMode = "door_delivery"
	DeliverySelfPickup DeliveryMode = "self_pickup"
)

// SelfPickupLabel is sent in place of a location when the buyer collects the vehicle.
const SelfPickupLabel = "Self Pickup"

func (m DeliveryMode) Valid() bool {
	return m == DeliveryDoor || m == DeliverySelfPickup
}
