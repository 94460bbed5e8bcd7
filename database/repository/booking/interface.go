package bookingRepo

import (
	"context"
	"errors"

	"solace/models"
)

// ErrDuplicateSlot is returned when the partial unique index rejects a second
// live booking for the same (psychologist, date, start, end) window.
var ErrDuplicateSlot = errors.New("slot already booked")

// BookingRepository is the persistence contract for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, bookingID string) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error

	// FindActiveByWindow returns the non-cancelled booking occupying the exact
	// window, or nil if none. excludeID skips the caller's own record during
	// reschedule conflict checks.
	FindActiveByWindow(ctx context.Context, psychologistID, date, start, end, excludeID string) (*models.Booking, error)

	// ConfirmPayment applies the pending -> confirmed transition atomically,
	// guarded on the current status, and records the payment correlation ids.
	// applied is false when the booking was not pending (e.g. a retried
	// verification call), in which case the stored document is returned as-is.
	ConfirmPayment(ctx context.Context, bookingID, paymentID, signature string) (booking *models.Booking, applied bool, err error)

	// MarkPaymentFailed flags the booking after a signature mismatch.
	MarkPaymentFailed(ctx context.Context, bookingID string) error

	ListByUser(ctx context.Context, userID string, page, limit int64) ([]models.Booking, error)
	ListByPsychologist(ctx context.Context, psychologistID string, page, limit int64) ([]models.Booking, error)

	// CountActiveForSlot reports live bookings referencing a declared slot
	// window (used to refuse slot deletion).
	CountActiveForSlot(ctx context.Context, psychologistID, date, start, end string) (int64, error)
}
