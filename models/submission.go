package models

// LineItem is one entry of the booking receipt sent to the marketplace.
type LineItem struct {
	Name  string `json:"name" bson:"name"`
	Price string `json:"price" bson:"price"`
}

// EvidenceFile is a file attachment of the booking submission.
type EvidenceFile struct {
	Field       EvidenceKind `json:"field"`
	Ref         string       `json:"ref"`
	FileName    string       `json:"fileName"`
	ContentType string       `json:"contentType,omitempty"`
}

// SubmissionPayload is the multi-part booking request, before encoding.
type SubmissionPayload struct {
	VehicleID        string         `json:"vehicle_id"`
	DeliveryType     DeliveryMode   `json:"delivery_type"`
	DeliveryCharges  string         `json:"delivery_charges"`
	ReceiverName     string         `json:"receiver_name"`
	ReceiverEmail    string         `json:"receiver_email"`
	ReceiverPhone    string         `json:"receiver_phone"`
	CurrentLocation  string         `json:"current_location"`
	DeliveryLocation string         `json:"delivery_location"`
	Services         []LineItem     `json:"services"`
	Files            []EvidenceFile `json:"files"`
}

// BookingResult is the interpreted outcome of a booking submission.
type BookingResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	VehicleID string `json:"vehicleId"`
}
