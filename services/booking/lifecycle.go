package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "solace/database/repository/booking"
	"solace/models"

	"go.uber.org/zap"
)

// canManage reports whether the caller may mutate this booking: the owning
// patient, the assigned psychologist, or platform staff. Any other
// psychologist is refused.
func canManage(caller Caller, booking *models.Booking) bool {
	switch caller.Role {
	case models.RoleUser:
		return caller.ID == booking.UserID
	case models.RolePsychologist:
		return caller.ID == booking.PsychologistID
	case models.RoleAdmin, models.RoleSuperAdmin:
		return true
	}
	return false
}

// isAssignedPsychologist restricts an operation to the treating psychologist
// (or staff, when staffAllowed is set).
func isAssignedPsychologist(caller Caller, booking *models.Booking, staffAllowed bool) bool {
	if caller.Role == models.RolePsychologist && caller.ID == booking.PsychologistID {
		return true
	}
	return staffAllowed && caller.Role.IsStaff()
}

func (s *DefaultBookingService) getManaged(ctx context.Context, caller Caller, bookingID string) (*models.Booking, error) {
	booking, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if booking == nil {
		return nil, NewNotFoundError("booking not found")
	}
	if !canManage(caller, booking) {
		return nil, NewForbiddenError("you are not allowed to access this booking")
	}
	return booking, nil
}

// GetBooking returns one booking visible to the caller.
func (s *DefaultBookingService) GetBooking(ctx context.Context, caller Caller, bookingID string) (*models.Booking, error) {
	return s.getManaged(ctx, caller, bookingID)
}

// ListMyBookings returns the caller's bookings, newest first.
func (s *DefaultBookingService) ListMyBookings(ctx context.Context, caller Caller, page, limit int64) ([]models.Booking, error) {
	switch caller.Role {
	case models.RoleUser:
		return s.Repo.ListByUser(ctx, caller.ID, page, limit)
	case models.RolePsychologist:
		return s.Repo.ListByPsychologist(ctx, caller.ID, page, limit)
	}
	return nil, NewForbiddenError("my-bookings is scoped to patients and psychologists")
}

// CancelBooking transitions any non-terminal booking to cancelled. Cancelled
// is terminal; a paid booking is flagged refunded as bookkeeping only — no
// gateway refund is issued here.
func (s *DefaultBookingService) CancelBooking(ctx context.Context, caller Caller, bookingID, reason string) (*models.Booking, error) {
	booking, err := s.getManaged(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}

	switch booking.Status {
	case models.BookingStatusCancelled:
		return nil, NewValidationError("booking already cancelled")
	case models.BookingStatusCompleted:
		return nil, NewValidationError("completed booking cannot be cancelled")
	}

	booking.Status = models.BookingStatusCancelled
	booking.Active = false
	booking.CancellationReason = reason
	booking.CancelledBy = caller.Role
	booking.CancelledAt = time.Now().UTC()
	if booking.PaymentStatus == models.PaymentStatusPaid {
		booking.PaymentStatus = models.PaymentStatusRefunded
	}

	if err := s.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}

	// Release the declared slot.
	if err := s.PsychRepo.SetSlotAvailability(ctx, booking.PsychologistID, booking.SlotDate, booking.SlotStartTime, booking.SlotEndTime, true); err != nil {
		s.Logger.Warn("failed to release slot after cancellation", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	sessionTime := fmt.Sprintf("%s %s-%s", booking.SlotDate, booking.SlotStartTime, booking.SlotEndTime)
	s.notify(ctx, booking.UserID, models.RoleUser,
		"Session cancelled",
		fmt.Sprintf("Your session on %s was cancelled.", sessionTime),
		"booking_cancelled", models.NotificationPriorityHigh, booking.ID)
	s.notify(ctx, booking.PsychologistID, models.RolePsychologist,
		"Session cancelled",
		fmt.Sprintf("The session on %s was cancelled.", sessionTime),
		"booking_cancelled", models.NotificationPriorityHigh, booking.ID)

	return booking, nil
}

// RescheduleBooking substitutes a new window on the same record. The new
// window must pass the same exact-match availability check and the same
// conflict check, excluding this booking's own prior record.
func (s *DefaultBookingService) RescheduleBooking(ctx context.Context, caller Caller, bookingID string, req RescheduleRequest) (*models.Booking, error) {
	booking, err := s.getManaged(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != models.BookingStatusConfirmed && booking.Status != models.BookingStatusRescheduled {
		return nil, NewValidationError(fmt.Sprintf("booking in status %s cannot be rescheduled", booking.Status))
	}

	date, err := NormalizeDate(req.SlotDate)
	if err != nil {
		return nil, NewValidationError(err.Error())
	}

	psy, err := s.PsychRepo.GetByID(ctx, booking.PsychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load psychologist: %w", err)
	}
	if psy == nil {
		return nil, NewNotFoundError("psychologist not found")
	}

	slot := FindScheduleSlot(psy.Schedule, date, req.SlotStartTime, req.SlotEndTime)
	if slot == nil {
		return nil, NewValidationError("requested slot is not available on the psychologist's schedule")
	}

	existing, err := s.Repo.FindActiveByWindow(ctx, psy.ID, date, req.SlotStartTime, req.SlotEndTime, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check window conflicts: %w", err)
	}
	if existing != nil {
		return nil, NewConflictError("slot already booked")
	}

	prevDate, prevStart, prevEnd := booking.SlotDate, booking.SlotStartTime, booking.SlotEndTime

	booking.SlotDate = date
	booking.SlotDay = slotDay(slot, date)
	booking.SlotStartTime = req.SlotStartTime
	booking.SlotEndTime = req.SlotEndTime
	booking.Status = models.BookingStatusRescheduled
	booking.RescheduleReason = req.Reason

	if err := s.Repo.Update(ctx, booking); err != nil {
		if errors.Is(err, bookingRepo.ErrDuplicateSlot) {
			return nil, NewConflictError("slot already booked")
		}
		return nil, fmt.Errorf("failed to reschedule booking: %w", err)
	}

	// Swap the availability flags of the prior and new windows.
	if err := s.PsychRepo.SetSlotAvailability(ctx, psy.ID, prevDate, prevStart, prevEnd, true); err != nil {
		s.Logger.Warn("failed to release previous slot", zap.String("bookingId", booking.ID), zap.Error(err))
	}
	if err := s.PsychRepo.SetSlotAvailability(ctx, psy.ID, date, req.SlotStartTime, req.SlotEndTime, false); err != nil {
		s.Logger.Warn("failed to mark new slot unavailable", zap.String("bookingId", booking.ID), zap.Error(err))
	}

	sessionTime := fmt.Sprintf("%s %s-%s", booking.SlotDate, booking.SlotStartTime, booking.SlotEndTime)
	s.notify(ctx, booking.UserID, models.RoleUser,
		"Session rescheduled",
		fmt.Sprintf("Your session has been moved to %s.", sessionTime),
		"booking_rescheduled", models.NotificationPriorityHigh, booking.ID)
	s.notify(ctx, booking.PsychologistID, models.RolePsychologist,
		"Session rescheduled",
		fmt.Sprintf("A session has been moved to %s.", sessionTime),
		"booking_rescheduled", models.NotificationPriorityHigh, booking.ID)

	return booking, nil
}

// UpdateSessionStatus toggles the secondary session flag. Marking the session
// completed promotes the booking status to completed as well; the coupling is
// one-directional and completion is reachable only from confirmed.
func (s *DefaultBookingService) UpdateSessionStatus(ctx context.Context, caller Caller, bookingID, sessionStatus string) (*models.Booking, error) {
	booking, err := s.getManaged(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAssignedPsychologist(caller, booking, true) {
		return nil, NewForbiddenError("only the assigned psychologist or an admin may update session status")
	}

	switch sessionStatus {
	case models.SessionStatusPending, models.SessionStatusCompleted:
	default:
		return nil, NewValidationError(fmt.Sprintf("invalid session status %q", sessionStatus))
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, NewValidationError("cancelled booking cannot change session status")
	}

	if sessionStatus == models.SessionStatusCompleted {
		if booking.Status != models.BookingStatusConfirmed {
			return nil, NewValidationError(fmt.Sprintf("session completion requires a confirmed booking (status %s)", booking.Status))
		}
		booking.Status = models.BookingStatusCompleted
	}
	booking.SessionStatus = sessionStatus

	if err := s.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update session status: %w", err)
	}
	return booking, nil
}

// UpdateMeetingLink stores the session meeting link.
func (s *DefaultBookingService) UpdateMeetingLink(ctx context.Context, caller Caller, bookingID, link string) (*models.Booking, error) {
	booking, err := s.getManaged(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAssignedPsychologist(caller, booking, true) {
		return nil, NewForbiddenError("only the assigned psychologist or an admin may set the meeting link")
	}
	if link == "" {
		return nil, NewValidationError("meeting link must not be empty")
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, NewValidationError("cancelled booking cannot receive a meeting link")
	}

	booking.MeetingLink = link
	if err := s.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to update meeting link: %w", err)
	}
	return booking, nil
}

// SendMeetingLink delivers the meeting link to the patient. A freshly
// supplied link is persisted first; otherwise the stored one is used.
func (s *DefaultBookingService) SendMeetingLink(ctx context.Context, caller Caller, bookingID, link string) (*models.Booking, error) {
	booking, err := s.getManaged(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAssignedPsychologist(caller, booking, true) {
		return nil, NewForbiddenError("only the assigned psychologist or an admin may send the meeting link")
	}

	if link != "" && link != booking.MeetingLink {
		booking.MeetingLink = link
		if err := s.Repo.Update(ctx, booking); err != nil {
			return nil, fmt.Errorf("failed to store meeting link: %w", err)
		}
	}
	if booking.MeetingLink == "" {
		return nil, NewValidationError("no meeting link available to send")
	}

	s.notify(ctx, booking.UserID, models.RoleUser,
		"Meeting link ready",
		fmt.Sprintf("The meeting link for your session on %s is available.", booking.SlotDate),
		"meeting_link", models.NotificationPriorityHigh, booking.ID)
	s.notify(ctx, booking.PsychologistID, models.RolePsychologist,
		"Meeting link sent",
		fmt.Sprintf("The meeting link for the session on %s was sent to the patient.", booking.SlotDate),
		"meeting_link", models.NotificationPriorityNormal, booking.ID)

	if s.Mailer != nil {
		patient, psy, err := s.loadParties(ctx, booking)
		if err != nil {
			s.Logger.Warn("failed to load parties for meeting-link email", zap.String("bookingId", booking.ID), zap.Error(err))
		} else if err := s.Mailer.SendMeetingLink(
			patient.Email, patient.Name, psy.Name,
			booking.SlotDate, booking.SlotStartTime, booking.SlotEndTime,
			booking.MeetingLink,
		); err != nil {
			s.Logger.Warn("failed to send meeting-link email", zap.String("bookingId", booking.ID), zap.Error(err))
		}
	}

	return booking, nil
}

// SetPrescription records the treating psychologist's prescription after a
// completed session.
func (s *DefaultBookingService) SetPrescription(ctx context.Context, caller Caller, bookingID string, prescription models.Prescription) (*models.Booking, error) {
	booking, err := s.getManaged(ctx, caller, bookingID)
	if err != nil {
		return nil, err
	}
	if !isAssignedPsychologist(caller, booking, false) {
		return nil, NewForbiddenError("only the treating psychologist may set a prescription")
	}
	if prescription.Title == "" {
		return nil, NewValidationError("prescription title is required")
	}
	if booking.SessionStatus != models.SessionStatusCompleted {
		return nil, NewValidationError("prescription can only be set after the session is completed")
	}

	booking.Prescription = &prescription
	if err := s.Repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to store prescription: %w", err)
	}
	return booking, nil
}
