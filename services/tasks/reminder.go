package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"solace/models"

	"github.com/hibiken/asynq"
)

const TypeSessionReminder = "booking:reminder"

// ReminderLeadTime is how long before the session start the reminder fires.
const ReminderLeadTime = time.Hour

// NewSessionReminderTask builds the asynq task scheduled at fireAt.
func NewSessionReminderTask(payload models.ReminderPayload, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt)}

	return task, opts, nil
}

// AsynqReminderScheduler enqueues session reminders for both parties of a
// confirmed booking.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func (s *AsynqReminderScheduler) ScheduleSessionReminder(booking *models.Booking) error {
	start, err := time.ParseInLocation("2006-01-02 15:04", booking.SlotDate+" "+booking.SlotStartTime, time.Local)
	if err != nil {
		return fmt.Errorf("cannot parse session start: %w", err)
	}
	fireAt := start.Add(-ReminderLeadTime)
	if fireAt.Before(time.Now()) {
		// Session starts within the lead time; skip rather than fire late.
		return nil
	}

	body := fmt.Sprintf("Your session on %s starts at %s.", booking.SlotDate, booking.SlotStartTime)
	recipients := []models.ReminderPayload{
		{
			BookingID:     booking.ID,
			RecipientID:   booking.UserID,
			RecipientRole: models.RoleUser,
			Title:         "Upcoming session",
			Body:          body,
			FireDate:      fireAt.Format(time.RFC3339),
		},
		{
			BookingID:     booking.ID,
			RecipientID:   booking.PsychologistID,
			RecipientRole: models.RolePsychologist,
			Title:         "Upcoming session",
			Body:          body,
			FireDate:      fireAt.Format(time.RFC3339),
		},
	}

	for _, payload := range recipients {
		task, opts, err := NewSessionReminderTask(payload, fireAt)
		if err != nil {
			return err
		}
		if _, err := s.Client.Enqueue(task, opts...); err != nil {
			return fmt.Errorf("failed to enqueue reminder: %w", err)
		}
	}
	return nil
}
