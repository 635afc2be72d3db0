package models

import "time"

// Event is the normalized read shape of an event, independent of the backend
// that stores it. Payment fields only carry meaning when IsPaid is true.
type Event struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Date          string  `json:"date"`
	Venue         string  `json:"venue"`
	ImageURL      *string `json:"imageUrl"`
	IsPaid        bool    `json:"isPaid"`
	Price         *int    `json:"price"`
	UpiID         *string `json:"upi_id"`
	AccountNumber *string `json:"account_number"`
	IFSC          *string `json:"ifsc"`
	QRURL         *string `json:"qr_url"`
}

// EventSummary is an Event plus the number of registrations it has at read time.
type EventSummary struct {
	Event
	RegistrationCount int64 `json:"registrationCount"`
}

type Registration struct {
	ID           string    `json:"id"`
	EventID      string    `json:"eventId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	RegNumber    string    `json:"regNumber"`
	UTR          *string   `json:"utr"`
	PaymentSSURL *string   `json:"paymentSsUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}
