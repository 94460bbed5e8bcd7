package psychologist

import (
	"context"

	"solace/models"
)

// OnboardRequest completes an invited psychologist's account.
type OnboardRequest struct {
	InviteToken    string  `json:"inviteToken" binding:"required"`
	Name           string  `json:"name" binding:"required"`
	Password       string  `json:"password" binding:"required,min=8"`
	PhoneNumber    string  `json:"phoneNumber"`
	Specialization string  `json:"specialization"`
	SessionRate    float64 `json:"sessionRate"`
}

// Service manages psychologist accounts and their availability schedule.
type Service interface {
	// Onboard consumes a single-use invite token and creates an approved
	// account. Returns the account and a signed auth token.
	Onboard(ctx context.Context, req OnboardRequest) (*models.Psychologist, string, error)

	// Authenticate verifies credentials and returns a signed auth token.
	Authenticate(ctx context.Context, email, password string) (*models.Psychologist, string, error)

	GetByID(ctx context.Context, id string) (*models.Psychologist, error)

	// AddScheduleSlots appends availability windows after validating each
	// window and rejecting overlaps against the existing schedule.
	AddScheduleSlots(ctx context.Context, psychologistID string, slots []models.ScheduleSlot) ([]models.ScheduleSlot, error)

	GetSchedule(ctx context.Context, psychologistID string) ([]models.ScheduleSlot, error)

	// DeleteScheduleSlot removes a declared window, refused while an active
	// booking references it.
	DeleteScheduleSlot(ctx context.Context, psychologistID, slotID string) error
}
