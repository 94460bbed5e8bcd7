package models

import "time"

// Notification priorities.
const (
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// Notification is a persisted in-app notification; delivery of the matching
// push is best-effort and never blocks the workflow that emitted it.
type Notification struct {
	ID            string            `bson:"id" json:"id"`
	RecipientID   string            `bson:"recipientId" json:"recipientId"`
	RecipientRole Role              `bson:"recipientRole" json:"recipientRole"`
	Title         string            `bson:"title" json:"title"`
	Description   string            `bson:"description" json:"description"`
	Type          string            `bson:"type" json:"type"` // e.g. "booking_confirmed"
	Priority      string            `bson:"priority" json:"priority"`
	Metadata      map[string]string `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Read          bool              `bson:"read" json:"read"`
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
}

// ReminderPayload is the asynq task body for scheduled session reminders.
type ReminderPayload struct {
	BookingID     string `json:"bookingId"`
	RecipientID   string `json:"recipientId"`
	RecipientRole Role   `json:"recipientRole"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	FireDate      string `json:"fireDate"`
}
