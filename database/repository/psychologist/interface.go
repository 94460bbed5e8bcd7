package psychologistRepo

import (
	"context"

	"solace/models"
)

// PsychologistRepository is the persistence contract for psychologist aggregates.
type PsychologistRepository interface {
	Create(ctx context.Context, p *models.Psychologist) error
	Update(ctx context.Context, p *models.Psychologist) error
	GetByID(ctx context.Context, id string) (*models.Psychologist, error)
	GetByEmail(ctx context.Context, email string) (*models.Psychologist, error)

	// AddScheduleSlots appends declared availability windows.
	AddScheduleSlots(ctx context.Context, id string, slots []models.ScheduleSlot) error
	// RemoveScheduleSlot deletes one declared window by its slot id.
	RemoveScheduleSlot(ctx context.Context, id, slotID string) error
	// SetSlotAvailability toggles the available flag on the matching window.
	SetSlotAvailability(ctx context.Context, id, date, start, end string, available bool) error

	// IncrementTotalSessions bumps the lifetime session counter by one.
	IncrementTotalSessions(ctx context.Context, id string) error
}
