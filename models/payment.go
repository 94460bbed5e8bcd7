package models

// PaymentOrder mirrors the external gateway order opened for a booking.
// Amount is in minor currency units (sessionRate * 100).
type PaymentOrder struct {
	OrderID  string `json:"orderId"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}
