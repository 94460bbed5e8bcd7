package models

import "time"

// Booking lifecycle states.
const (
	BookingStatusPending     = "pending"
	BookingStatusConfirmed   = "confirmed"
	BookingStatusCompleted   = "completed"
	BookingStatusCancelled   = "cancelled"
	BookingStatusRescheduled = "rescheduled"
)

// Payment states.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// Session states (secondary flag, toggled post-confirmation).
const (
	SessionStatusPending   = "pending"
	SessionStatusCompleted = "completed"
)

// Prescription is set by the treating psychologist after a session.
type Prescription struct {
	Title        string    `bson:"title" json:"title"`
	Medications  []string  `bson:"medications,omitempty" json:"medications,omitempty"`
	Advice       string    `bson:"advice,omitempty" json:"advice,omitempty"`
	FollowUpDate time.Time `bson:"followUpDate,omitempty" json:"followUpDate,omitzero"`
}

// Booking links a patient, a psychologist and one slot window, carrying
// payment and session lifecycle state.
type Booking struct {
	ID             string  `bson:"id" json:"id"`
	UserID         string  `bson:"userId" json:"userId"`
	PsychologistID string  `bson:"psychologistId" json:"psychologistId"`
	SlotDate       string  `bson:"slotDate" json:"slotDate"` // "YYYY-MM-DD"
	SlotDay        string  `bson:"slotDay" json:"slotDay"`   // "Mon".."Sat"
	SlotStartTime  string  `bson:"slotStartTime" json:"slotStartTime"`
	SlotEndTime    string  `bson:"slotEndTime" json:"slotEndTime"`
	SessionRate    float64 `bson:"sessionRate" json:"sessionRate"` // snapshotted at creation

	Status        string `bson:"status" json:"status"`
	SessionStatus string `bson:"sessionStatus" json:"sessionStatus"`
	PaymentStatus string `bson:"paymentStatus" json:"paymentStatus"`

	// Active mirrors status != cancelled; it backs the partial unique index
	// that enforces one live booking per (psychologist, window).
	Active bool `bson:"active" json:"-"`

	// Razorpay correlation identifiers, opaque to this service.
	RazorpayOrderID   string `bson:"razorpayOrderId,omitempty" json:"razorpayOrderId,omitempty"`
	RazorpayPaymentID string `bson:"razorpayPaymentId,omitempty" json:"razorpayPaymentId,omitempty"`
	RazorpaySignature string `bson:"razorpaySignature,omitempty" json:"-"`

	MeetingLink string `bson:"meetingLink,omitempty" json:"meetingLink,omitempty"`

	CancellationReason string    `bson:"cancellationReason,omitempty" json:"cancellationReason,omitempty"`
	CancelledBy        Role      `bson:"cancelledBy,omitempty" json:"cancelledBy,omitempty"`
	CancelledAt        time.Time `bson:"cancelledAt,omitempty" json:"cancelledAt,omitzero"`

	RescheduleReason string `bson:"rescheduleReason,omitempty" json:"rescheduleReason,omitempty"`

	Notes        string        `bson:"notes,omitempty" json:"notes,omitempty"` // patient-supplied, <=500 chars
	Prescription *Prescription `bson:"prescription,omitempty" json:"prescription,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingWithOrder is returned on creation so the client can complete payment.
type BookingWithOrder struct {
	Booking *Booking      `json:"booking"`
	Order   *PaymentOrder `json:"order"`
}
