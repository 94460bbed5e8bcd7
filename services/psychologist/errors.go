package psychologist

import (
	"errors"
	"fmt"

	"solace/services/booking"
)

var (
	ErrNotFound           = errors.New("psychologist not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInviteInvalid      = errors.New("invite not found or expired")
	ErrSlotInUse          = errors.New("slot has an active booking")
)

// ScheduleConflictError rejects overlapping availability windows at creation
// time, carrying the exact conflicts so the caller can self-correct.
type ScheduleConflictError struct {
	Conflicts []booking.SlotConflict
}

func (e *ScheduleConflictError) Error() string {
	return fmt.Sprintf("schedule has %d overlapping window(s)", len(e.Conflicts))
}
