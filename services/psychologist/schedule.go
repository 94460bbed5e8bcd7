package psychologist

import (
	"context"
	"fmt"

	"solace/models"
	"solace/services/booking"

	"github.com/google/uuid"
)

// AddScheduleSlots validates and appends availability windows. Two windows on
// the same date conflict iff their half-open minute ranges intersect; the
// rejection names each overlapping window.
func (s *DefaultPsychologistService) AddScheduleSlots(ctx context.Context, psychologistID string, slots []models.ScheduleSlot) ([]models.ScheduleSlot, error) {
	if len(slots) == 0 {
		return nil, fmt.Errorf("no slots supplied")
	}

	p, err := s.Repo.GetByID(ctx, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load psychologist: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}

	for i := range slots {
		if err := booking.ValidateSlotWindow(slots[i]); err != nil {
			return nil, err
		}
		if slots[i].Date != "" {
			date, err := booking.NormalizeDate(slots[i].Date)
			if err != nil {
				return nil, err
			}
			slots[i].Date = date
		}
		slots[i].ID = uuid.New().String()
		slots[i].IsAvailable = true
	}

	conflicts, err := booking.FindScheduleConflicts(p.Schedule, slots)
	if err != nil {
		return nil, err
	}
	if len(conflicts) > 0 {
		return nil, &ScheduleConflictError{Conflicts: conflicts}
	}

	if err := s.Repo.AddScheduleSlots(ctx, psychologistID, slots); err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *DefaultPsychologistService) GetSchedule(ctx context.Context, psychologistID string) ([]models.ScheduleSlot, error) {
	p, err := s.Repo.GetByID(ctx, psychologistID)
	if err != nil {
		return nil, fmt.Errorf("failed to load psychologist: %w", err)
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p.Schedule, nil
}

// DeleteScheduleSlot removes a declared window unless a live booking still
// references it.
func (s *DefaultPsychologistService) DeleteScheduleSlot(ctx context.Context, psychologistID, slotID string) error {
	p, err := s.Repo.GetByID(ctx, psychologistID)
	if err != nil {
		return fmt.Errorf("failed to load psychologist: %w", err)
	}
	if p == nil {
		return ErrNotFound
	}

	var slot *models.ScheduleSlot
	for i := range p.Schedule {
		if p.Schedule[i].ID == slotID {
			slot = &p.Schedule[i]
			break
		}
	}
	if slot == nil {
		return fmt.Errorf("schedule slot %s not found", slotID)
	}

	count, err := s.BookingRepo.CountActiveForSlot(ctx, psychologistID, slot.Date, slot.StartTime, slot.EndTime)
	if err != nil {
		return fmt.Errorf("failed to check slot bookings: %w", err)
	}
	if count > 0 {
		return ErrSlotInUse
	}

	return s.Repo.RemoveScheduleSlot(ctx, psychologistID, slotID)
}
