package booking

import (
	"context"

	"solace/models"
)

// Caller identifies the authenticated principal invoking an operation.
type Caller struct {
	ID   string
	Role models.Role
}

// CreateBookingRequest is the payload for reserving a slot window.
type CreateBookingRequest struct {
	PsychologistID string `json:"psychologistId" binding:"required"`
	SlotDate       string `json:"slotDate" binding:"required"`
	SlotStartTime  string `json:"slotStartTime" binding:"required"`
	SlotEndTime    string `json:"slotEndTime" binding:"required"`
	Notes          string `json:"notes"`
}

// VerifyPaymentRequest carries the client's payment proof.
type VerifyPaymentRequest struct {
	BookingID         string `json:"bookingId" binding:"required"`
	RazorpayOrderID   string `json:"razorpayOrderId" binding:"required"`
	RazorpayPaymentID string `json:"razorpayPaymentId" binding:"required"`
	RazorpaySignature string `json:"razorpaySignature" binding:"required"`
}

// RescheduleRequest substitutes a new window on the same booking record.
type RescheduleRequest struct {
	SlotDate      string `json:"slotDate" binding:"required"`
	SlotStartTime string `json:"slotStartTime" binding:"required"`
	SlotEndTime   string `json:"slotEndTime" binding:"required"`
	Reason        string `json:"reason"`
}

// Notifier is the fire-and-forget notification side-channel. Failures are
// logged by the caller and never propagate.
type Notifier interface {
	Create(ctx context.Context, n models.Notification) error
}

// Mailer sends booking emails; failures never affect booking state.
type Mailer interface {
	SendBookingConfirmation(to, patientName, psychologistName, date, start, end string, rate float64) error
	SendMeetingLink(to, patientName, psychologistName, date, start, end, meetingLink string) error
}

// ReminderScheduler enqueues a session reminder once a booking is confirmed.
type ReminderScheduler interface {
	ScheduleSessionReminder(booking *models.Booking) error
}

// Service is the booking lifecycle controller.
type Service interface {
	CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.BookingWithOrder, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*models.Booking, error)
	GetBooking(ctx context.Context, caller Caller, bookingID string) (*models.Booking, error)
	ListMyBookings(ctx context.Context, caller Caller, page, limit int64) ([]models.Booking, error)
	CancelBooking(ctx context.Context, caller Caller, bookingID, reason string) (*models.Booking, error)
	RescheduleBooking(ctx context.Context, caller Caller, bookingID string, req RescheduleRequest) (*models.Booking, error)
	UpdateSessionStatus(ctx context.Context, caller Caller, bookingID, sessionStatus string) (*models.Booking, error)
	UpdateMeetingLink(ctx context.Context, caller Caller, bookingID, link string) (*models.Booking, error)
	SendMeetingLink(ctx context.Context, caller Caller, bookingID, link string) (*models.Booking, error)
	SetPrescription(ctx context.Context, caller Caller, bookingID string, prescription models.Prescription) (*models.Booking, error)
}
