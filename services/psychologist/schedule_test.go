package psychologist

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"solace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubPsychRepo struct {
	p *models.Psychologist
}

func (r *stubPsychRepo) Create(ctx context.Context, p *models.Psychologist) error { return nil }
func (r *stubPsychRepo) Update(ctx context.Context, p *models.Psychologist) error { return nil }
func (r *stubPsychRepo) GetByID(ctx context.Context, id string) (*models.Psychologist, error) {
	if r.p != nil && r.p.ID == id {
		return r.p, nil
	}
	return nil, nil
}
func (r *stubPsychRepo) GetByEmail(ctx context.Context, email string) (*models.Psychologist, error) {
	return nil, nil
}
func (r *stubPsychRepo) AddScheduleSlots(ctx context.Context, id string, slots []models.ScheduleSlot) error {
	if r.p == nil || r.p.ID != id {
		return fmt.Errorf("psychologist %s not found", id)
	}
	r.p.Schedule = append(r.p.Schedule, slots...)
	return nil
}
func (r *stubPsychRepo) RemoveScheduleSlot(ctx context.Context, id, slotID string) error {
	out := r.p.Schedule[:0]
	for _, s := range r.p.Schedule {
		if s.ID != slotID {
			out = append(out, s)
		}
	}
	r.p.Schedule = out
	return nil
}
func (r *stubPsychRepo) SetSlotAvailability(ctx context.Context, id, date, start, end string, available bool) error {
	return nil
}
func (r *stubPsychRepo) IncrementTotalSessions(ctx context.Context, id string) error { return nil }

// stubBookingRepo only answers CountActiveForSlot; everything else is unused
// by the schedule operations.
type stubBookingRepo struct {
	activeWindows map[string]int64
}

func windowKey(psychologistID, date, start, end string) string {
	return psychologistID + "|" + date + "|" + start + "|" + end
}

func (r *stubBookingRepo) Create(ctx context.Context, b *models.Booking) error { return nil }
func (r *stubBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return nil, nil
}
func (r *stubBookingRepo) Update(ctx context.Context, b *models.Booking) error { return nil }
func (r *stubBookingRepo) FindActiveByWindow(ctx context.Context, psychologistID, date, start, end, excludeID string) (*models.Booking, error) {
	return nil, nil
}
func (r *stubBookingRepo) ConfirmPayment(ctx context.Context, bookingID, paymentID, signature string) (*models.Booking, bool, error) {
	return nil, false, nil
}
func (r *stubBookingRepo) MarkPaymentFailed(ctx context.Context, bookingID string) error { return nil }
func (r *stubBookingRepo) ListByUser(ctx context.Context, userID string, page, limit int64) ([]models.Booking, error) {
	return nil, nil
}
func (r *stubBookingRepo) ListByPsychologist(ctx context.Context, psychologistID string, page, limit int64) ([]models.Booking, error) {
	return nil, nil
}
func (r *stubBookingRepo) CountActiveForSlot(ctx context.Context, psychologistID, date, start, end string) (int64, error) {
	return r.activeWindows[windowKey(psychologistID, date, start, end)], nil
}

func newScheduleService(p *models.Psychologist, bookings *stubBookingRepo) *DefaultPsychologistService {
	if bookings == nil {
		bookings = &stubBookingRepo{activeWindows: map[string]int64{}}
	}
	return &DefaultPsychologistService{
		Repo:        &stubPsychRepo{p: p},
		BookingRepo: bookings,
		Logger:      zap.NewNop(),
	}
}

func TestAddScheduleSlots(t *testing.T) {
	ctx := context.Background()

	t.Run("valid windows get ids and default to available", func(t *testing.T) {
		svc := newScheduleService(&models.Psychologist{ID: "psy-1"}, nil)

		slots, err := svc.AddScheduleSlots(ctx, "psy-1", []models.ScheduleSlot{
			{Date: "2026-09-10", Day: "Thu", StartTime: "10:00", EndTime: "11:00"},
			{Date: "2026-09-10", Day: "Thu", StartTime: "11:00", EndTime: "12:00"},
		})
		require.NoError(t, err)
		require.Len(t, slots, 2)
		for _, s := range slots {
			assert.NotEmpty(t, s.ID)
			assert.True(t, s.IsAvailable)
		}
	})

	t.Run("overlap with an existing window is rejected with details", func(t *testing.T) {
		svc := newScheduleService(&models.Psychologist{
			ID: "psy-1",
			Schedule: []models.ScheduleSlot{
				{ID: "a", Date: "2026-09-10", StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
			},
		}, nil)

		_, err := svc.AddScheduleSlots(ctx, "psy-1", []models.ScheduleSlot{
			{Date: "2026-09-10", StartTime: "10:30", EndTime: "11:30"},
		})
		var conflictErr *ScheduleConflictError
		require.ErrorAs(t, err, &conflictErr)
		require.Len(t, conflictErr.Conflicts, 1)
		assert.Equal(t, "a", conflictErr.Conflicts[0].Existing.ID)
	})

	t.Run("overlapping windows within one request are rejected", func(t *testing.T) {
		svc := newScheduleService(&models.Psychologist{ID: "psy-1"}, nil)

		_, err := svc.AddScheduleSlots(ctx, "psy-1", []models.ScheduleSlot{
			{Date: "2026-09-10", StartTime: "10:00", EndTime: "11:00"},
			{Date: "2026-09-10", StartTime: "10:30", EndTime: "11:30"},
		})
		var conflictErr *ScheduleConflictError
		require.ErrorAs(t, err, &conflictErr)
	})

	t.Run("inverted window is rejected", func(t *testing.T) {
		svc := newScheduleService(&models.Psychologist{ID: "psy-1"}, nil)

		_, err := svc.AddScheduleSlots(ctx, "psy-1", []models.ScheduleSlot{
			{Date: "2026-09-10", StartTime: "11:00", EndTime: "10:00"},
		})
		require.Error(t, err)
		var conflictErr *ScheduleConflictError
		assert.False(t, errors.As(err, &conflictErr))
	})

	t.Run("unknown psychologist", func(t *testing.T) {
		svc := newScheduleService(&models.Psychologist{ID: "psy-1"}, nil)

		_, err := svc.AddScheduleSlots(ctx, "psy-2", []models.ScheduleSlot{
			{Date: "2026-09-10", StartTime: "10:00", EndTime: "11:00"},
		})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestDeleteScheduleSlot(t *testing.T) {
	ctx := context.Background()

	base := func() *models.Psychologist {
		return &models.Psychologist{
			ID: "psy-1",
			Schedule: []models.ScheduleSlot{
				{ID: "slot-1", Date: "2026-09-10", StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
			},
		}
	}

	t.Run("removes an unreferenced window", func(t *testing.T) {
		p := base()
		svc := newScheduleService(p, nil)

		require.NoError(t, svc.DeleteScheduleSlot(ctx, "psy-1", "slot-1"))
		assert.Empty(t, p.Schedule)
	})

	t.Run("refused while a live booking references the window", func(t *testing.T) {
		p := base()
		svc := newScheduleService(p, &stubBookingRepo{activeWindows: map[string]int64{
			windowKey("psy-1", "2026-09-10", "10:00", "11:00"): 1,
		}})

		err := svc.DeleteScheduleSlot(ctx, "psy-1", "slot-1")
		assert.ErrorIs(t, err, ErrSlotInUse)
		assert.Len(t, p.Schedule, 1)
	})

	t.Run("unknown slot id", func(t *testing.T) {
		svc := newScheduleService(base(), nil)
		assert.Error(t, svc.DeleteScheduleSlot(ctx, "psy-1", "slot-9"))
	})
}
