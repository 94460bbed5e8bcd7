package models

import "time"

// Psychologist approval states.
const (
	PsychologistStatusApplied  = "applied"
	PsychologistStatusSelected = "selected"
	PsychologistStatusRejected = "rejected"
)

// ScheduleSlot is a declared availability window on a psychologist's schedule.
// Date is optional for day-of-week-only templates.
type ScheduleSlot struct {
	ID          string `bson:"id" json:"id"`
	Date        string `bson:"date,omitempty" json:"date,omitempty"` // "YYYY-MM-DD"
	Day         string `bson:"day" json:"day"`                       // "Mon".."Sat"
	StartTime   string `bson:"startTime" json:"startTime"`           // "HH:MM", 24-hour
	EndTime     string `bson:"endTime" json:"endTime"`
	IsAvailable bool   `bson:"isAvailable" json:"isAvailable"`
}

// Psychologist is the provider aggregate; availability slots are embedded.
type Psychologist struct {
	ID             string         `bson:"id" json:"id"`
	Name           string         `bson:"name" json:"name"`
	Email          string         `bson:"email" json:"email"`
	PhoneNumber    string         `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	PasswordHash   string         `bson:"passwordHash" json:"-"`
	Specialization string         `bson:"specialization,omitempty" json:"specialization,omitempty"`
	SessionRate    float64        `bson:"sessionRate,omitempty" json:"sessionRate,omitempty"`
	Status         string         `bson:"status" json:"status"` // applied | selected | rejected
	Active         bool           `bson:"active" json:"active"`
	Schedule       []ScheduleSlot `bson:"schedule,omitempty" json:"schedule,omitempty"`
	TotalSessions  int            `bson:"totalSessions" json:"totalSessions"`
	FCMToken       string         `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt      time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// Bookable reports whether the psychologist can accept new bookings.
func (p *Psychologist) Bookable() bool {
	return p.Active && p.Status == PsychologistStatusSelected
}
