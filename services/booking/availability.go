package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"solace/models"
)

// ParseClock converts an "HH:MM" 24-hour string to minutes since midnight.
func ParseClock(s string) (int, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	return hours*60 + minutes, nil
}

// NormalizeDate reduces an ISO date (with or without a time component) to
// "YYYY-MM-DD".
func NormalizeDate(s string) (string, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
}

// rangesOverlap reports whether two half-open minute ranges [s1,e1) and
// [s2,e2) intersect.
func rangesOverlap(s1, e1, s2, e2 int) bool {
	return s1 < e2 && s2 < e1
}

// FindScheduleSlot looks for a declared slot matching the requested window
// verbatim: exact date, exact start and end time, and isAvailable=true.
// This is an exact-match lookup, not a coverage check.
func FindScheduleSlot(schedule []models.ScheduleSlot, date, start, end string) *models.ScheduleSlot {
	for i := range schedule {
		slot := &schedule[i]
		if !slot.IsAvailable {
			continue
		}
		slotDate, err := NormalizeDate(slot.Date)
		if err != nil {
			continue
		}
		if slotDate == date && slot.StartTime == start && slot.EndTime == end {
			return slot
		}
	}
	return nil
}

// SlotConflict describes one overlap between an incoming slot and an
// existing declared window, so callers can self-correct.
type SlotConflict struct {
	Existing    models.ScheduleSlot `json:"existing"`
	Incoming    models.ScheduleSlot `json:"incoming"`
	Description string              `json:"description"`
}

// sameDay reports whether two slots compete for the same calendar day:
// matching concrete dates, or matching weekdays for date-less templates.
func sameDay(a, b models.ScheduleSlot) bool {
	if a.Date != "" && b.Date != "" {
		da, errA := NormalizeDate(a.Date)
		db, errB := NormalizeDate(b.Date)
		return errA == nil && errB == nil && da == db
	}
	if a.Date == "" && b.Date == "" {
		return a.Day == b.Day
	}
	return false
}

// FindScheduleConflicts checks incoming slots against the existing schedule
// and against each other, returning every half-open interval overlap.
func FindScheduleConflicts(existing []models.ScheduleSlot, incoming []models.ScheduleSlot) ([]SlotConflict, error) {
	var conflicts []SlotConflict

	check := func(in models.ScheduleSlot, against models.ScheduleSlot) error {
		if !sameDay(in, against) {
			return nil
		}
		inStart, err := ParseClock(in.StartTime)
		if err != nil {
			return err
		}
		inEnd, err := ParseClock(in.EndTime)
		if err != nil {
			return err
		}
		exStart, err := ParseClock(against.StartTime)
		if err != nil {
			return err
		}
		exEnd, err := ParseClock(against.EndTime)
		if err != nil {
			return err
		}
		if rangesOverlap(inStart, inEnd, exStart, exEnd) {
			day := against.Date
			if day == "" {
				day = against.Day
			}
			conflicts = append(conflicts, SlotConflict{
				Existing: against,
				Incoming: in,
				Description: fmt.Sprintf("slot %s-%s overlaps declared window %s-%s on %s",
					in.StartTime, in.EndTime, against.StartTime, against.EndTime, day),
			})
		}
		return nil
	}

	for i, in := range incoming {
		for _, ex := range existing {
			if err := check(in, ex); err != nil {
				return nil, err
			}
		}
		// Incoming slots must not overlap each other either.
		for j := 0; j < i; j++ {
			if err := check(in, incoming[j]); err != nil {
				return nil, err
			}
		}
	}
	return conflicts, nil
}

// ValidateSlotWindow enforces the startTime < endTime invariant at the caller
// boundary, since it is not stored.
func ValidateSlotWindow(slot models.ScheduleSlot) error {
	start, err := ParseClock(slot.StartTime)
	if err != nil {
		return err
	}
	end, err := ParseClock(slot.EndTime)
	if err != nil {
		return err
	}
	if start >= end {
		return fmt.Errorf("slot %s-%s: start must be before end", slot.StartTime, slot.EndTime)
	}
	return nil
}
