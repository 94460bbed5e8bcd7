package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	bookingRepo "solace/database/repository/booking"
	psychologistRepo "solace/database/repository/psychologist"
	userRepo "solace/database/repository/user"
	"solace/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxNotesLength = 500

// DefaultBookingService is the production booking lifecycle controller.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	PsychRepo psychologistRepo.PsychologistRepository
	UserRepo  userRepo.UserRepository
	Payments  PaymentBridge
	Notifier  Notifier
	Mailer    Mailer
	Reminders ReminderScheduler
	Logger    *zap.Logger

	// DefaultRate is used when a psychologist has no session rate set.
	DefaultRate float64
	Currency    string
}

// CreateBooking reserves a declared slot window for a patient and opens the
// external payment order. The booking starts in pending/pending and the
// partial unique index closes the check-then-insert race.
func (s *DefaultBookingService) CreateBooking(ctx context.Context, userID string, req CreateBookingRequest) (*models.BookingWithOrder, error) {
	if len(req.Notes) > maxNotesLength {
		return nil, NewValidationError(fmt.Sprintf("notes must be at most %d characters", maxNotesLength))
	}

	date, err := NormalizeDate(req.SlotDate)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	startMin, err := ParseClock(req.SlotStartTime)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	endMin, err := ParseClock(req.SlotEndTime)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}
	if startMin >= endMin {
		return nil, NewValidationError("slot start must be before slot end")
	}

	psy, err := s.PsychRepo.GetByID(ctx, req.PsychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load psychologist: %w", err)
	}
	if psy == nil || !psy.Bookable() {
		return nil, NewNotFoundError("psychologist not found or not accepting bookings")
	}

	slot := FindScheduleSlot(psy.Schedule, date, req.SlotStartTime, req.SlotEndTime)
	if slot == nil {
		return nil, NewValidationError("requested slot is not available on the psychologist's schedule")
	}

	existing, err := s.Repo.FindActiveByWindow(ctx, psy.ID, date, req.SlotStartTime, req.SlotEndTime, "")
	if err != nil {
		return nil, fmt.Errorf("failed to check window conflicts: %w", err)
	}
	if existing != nil {
		return nil, NewConflictError("slot already booked")
	}

	rate := psy.SessionRate
	if rate <= 0 {
		rate = s.DefaultRate
	}

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:             uuid.New().String(),
		UserID:         userID,
		PsychologistID: psy.ID,
		SlotDate:       date,
		SlotDay:        slotDay(slot, date),
		SlotStartTime:  req.SlotStartTime,
		SlotEndTime:    req.SlotEndTime,
		SessionRate:    rate,
		Status:         models.BookingStatusPending,
		SessionStatus:  models.SessionStatusPending,
		PaymentStatus:  models.PaymentStatusPending,
		Active:         true,
		Notes:          req.Notes,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.Repo.Create(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateSlot) {
			return nil, NewConflictError("slot already booked")
		}
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	order, err := s.Payments.CreateOrder(ctx, int64(math.Round(rate*100)), s.Currency, booking.ID, map[string]string{
		"bookingId":      booking.ID,
		"userId":         userID,
		"psychologistId": psy.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open payment order: %w", err)
	}

	booking.RazorpayOrderID = order.OrderID
	if err := s.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to record payment order: %w", err)
	}

	// The declared slot is implicitly consumed; the unique index stays the
	// real guard, so a failure here is only logged.
	if err := s.PsychRepo.SetSlotAvailability(ctx, psy.ID, date, req.SlotStartTime, req.SlotEndTime, false); err != nil {
		s.Logger.Warn("failed to mark slot unavailable", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	return &models.BookingWithOrder{Booking: booking, Order: order}, nil
}

// VerifyPayment checks the client's payment proof and, on a valid signature,
// applies the pending -> confirmed transition. The psychologist's session
// counter increments only when that guarded transition actually applied, so
// a retried verification call cannot double-count.
func (s *DefaultBookingService) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFoundError("booking not found")
	}
	if booking.RazorpayOrderID == "" || booking.RazorpayOrderID != req.RazorpayOrderID {
		return nil, NewValidationError("order does not belong to this booking")
	}

	if !s.Payments.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		// Only a booking still awaiting payment may be flagged failed; a bad
		// proof against a settled booking must not touch its payment state.
		if booking.Status == models.BookingStatusPending {
			if err := s.Repo.MarkPaymentFailed(ctx, booking.ID); err != nil {
				s.Logger.Error("failed to flag failed payment", zap.String("bookingId", booking.ID), zap.Error(err))
			}
		}
		return nil, NewPaymentError("payment signature verification failed")
	}

	updated, applied, err := s.Repo.ConfirmPayment(ctx, booking.ID, req.RazorpayPaymentID, req.RazorpaySignature)
	if err != nil {
		return nil, fmt.Errorf("failed to confirm payment: %w", err)
	}

	if !applied {
		// Retried call against an already-confirmed booking is harmless.
		if updated.Status == models.BookingStatusConfirmed && updated.PaymentStatus == models.PaymentStatusPaid {
			return updated, nil
		}
		return nil, NewValidationError(fmt.Sprintf("booking is not awaiting payment (status %s)", updated.Status))
	}

	if err := s.PsychRepo.IncrementTotalSessions(ctx, updated.PsychologistID); err != nil {
		s.Logger.Error("failed to increment session counter", zap.String("psychologistId", updated.PsychologistID), zap.Error(err))
	}

	sessionTime := fmt.Sprintf("%s %s-%s", updated.SlotDate, updated.SlotStartTime, updated.SlotEndTime)
	s.notify(ctx, updated.UserID, models.RoleUser,
		"Session confirmed",
		fmt.Sprintf("Your session on %s is confirmed.", sessionTime),
		"booking_confirmed", models.NotificationPriorityHigh, updated.ID)
	s.notify(ctx, updated.PsychologistID, models.RolePsychologist,
		"New confirmed session",
		fmt.Sprintf("A session on %s has been booked and paid.", sessionTime),
		"booking_confirmed", models.NotificationPriorityHigh, updated.ID)

	s.sendConfirmationEmail(ctx, updated)

	if s.Reminders != nil {
		if err := s.Reminders.ScheduleSessionReminder(updated); err != nil {
			s.Logger.Warn("failed to schedule session reminder", zap.String("bookingId", updated.ID), zap.Error(err))
		}
	}

	return updated, nil
}

// notify emits a fire-and-forget in-app notification.
func (s *DefaultBookingService) notify(ctx context.Context, recipientID string, role models.Role, title, description, notifType, priority, bookingID string) {
	n := models.Notification{
		ID:            uuid.New().String(),
		RecipientID:   recipientID,
		RecipientRole: role,
		Title:         title,
		Description:   description,
		Type:          notifType,
		Priority:      priority,
		Metadata:      map[string]string{"bookingId": bookingID},
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.Notifier.Create(ctx, n); err != nil {
		s.Logger.Warn("failed to emit notification",
			zap.String("recipientId", recipientID),
			zap.String("type", notifType),
			zap.Error(err),
		)
	}
}

// sendConfirmationEmail mails the patient; failure never rolls back the
// confirmed transition.
func (s *DefaultBookingService) sendConfirmationEmail(ctx context.Context, booking *models.Booking) {
	if s.Mailer == nil {
		return
	}
	patient, psy, err := s.loadParties(ctx, booking)
	if err != nil {
		s.Logger.Warn("failed to load parties for confirmation email", zap.String("bookingId", booking.ID), zap.Error(err))
		return
	}
	if err := s.Mailer.SendBookingConfirmation(
		patient.Email, patient.Name, psy.Name,
		booking.SlotDate, booking.SlotStartTime, booking.SlotEndTime,
		booking.SessionRate,
	); err != nil {
		s.Logger.Warn("failed to send confirmation email", zap.String("bookingId", booking.ID), zap.Error(err))
	}
}

func (s *DefaultBookingService) loadParties(ctx context.Context, booking *models.Booking) (*models.User, *models.Psychologist, error) {
	patient, err := s.UserRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		return nil, nil, err
	}
	if patient == nil {
		return nil, nil, fmt.Errorf("user %s not found", booking.UserID)
	}
	psy, err := s.PsychRepo.GetByID(ctx, booking.PsychologistID)
	if err != nil {
		return nil, nil, err
	}
	if psy == nil {
		return nil, nil, fmt.Errorf("psychologist %s not found", booking.PsychologistID)
	}
	return patient, psy, nil
}

// slotDay resolves the weekday tag, preferring the declared slot's day.
func slotDay(slot *models.ScheduleSlot, date string) string {
	if slot.Day != "" {
		return slot.Day
	}
	if t, err := time.Parse("2006-01-02", date); err == nil {
		return t.Format("Mon")
	}
	return ""
}
