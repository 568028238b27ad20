package models

import "time"

// Booking statuses.
const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking is the finalized record written once, when OTP verification
// completes. The dialogue core never reads it back.
type Booking struct {
	ID             string    `json:"id" bson:"_id"`
	SessionID      string    `json:"sessionId" bson:"sessionId"`
	Service        string    `json:"service" bson:"service"`
	Package        string    `json:"package" bson:"package"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email" bson:"email"`
	Phone          string    `json:"phone" bson:"phone"`
	PhoneCountry   string    `json:"phoneCountry,omitempty" bson:"phoneCountry,omitempty"`
	ServiceCountry string    `json:"serviceCountry" bson:"serviceCountry"`
	Address        string    `json:"address" bson:"address"`
	PostalCode     string    `json:"postalCode" bson:"postalCode"`
	EventDate      string    `json:"eventDate" bson:"eventDate"`
	Message        string    `json:"message,omitempty" bson:"message,omitempty"`
	Language       string    `json:"language" bson:"language"`
	Status         string    `json:"status" bson:"status"`
	CreatedAt      time.Time `json:"createdAt" bson:"createdAt"`
}

// BookingFromIntent builds the persistable record from a completed intent.
func BookingFromIntent(id, sessionID, language string, intent *IntentRecord) *Booking {
	return &Booking{
		ID:             id,
		SessionID:      sessionID,
		Service:        intent.Service,
		Package:        intent.Package,
		Name:           intent.Name,
		Email:          intent.Email,
		Phone:          intent.Phone,
		PhoneCountry:   intent.PhoneCountry,
		ServiceCountry: intent.ServiceCountry,
		Address:        intent.Address,
		PostalCode:     intent.PostalCode,
		EventDate:      intent.EventDate,
		Message:        intent.Message,
		Language:       language,
		Status:         BookingStatusConfirmed,
		CreatedAt:      time.Now().UTC(),
	}
}
