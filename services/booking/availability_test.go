package booking

import (
	"testing"

	"solace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"09:30", 570, false},
		{"23:59", 1439, false},
		{"24:00", 0, true},
		{"12:60", 0, true},
		{"9:30:00", 0, true},
		{"half past nine", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := ParseClock(tc.in)
		if tc.wantErr {
			assert.Error(t, err, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
	}
}

func TestNormalizeDate(t *testing.T) {
	got, err := NormalizeDate("2026-09-10")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-10", got)

	got, err = NormalizeDate("2026-09-10T00:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, "2026-09-10", got)

	_, err = NormalizeDate("10/09/2026")
	assert.Error(t, err)
}

func TestRangesOverlap(t *testing.T) {
	// Half-open intervals: touching endpoints do not overlap.
	assert.False(t, rangesOverlap(600, 660, 660, 720))
	assert.False(t, rangesOverlap(660, 720, 600, 660))
	assert.True(t, rangesOverlap(600, 660, 630, 690))
	assert.True(t, rangesOverlap(600, 720, 630, 660))
	assert.True(t, rangesOverlap(630, 660, 600, 720))
}

func TestFindScheduleSlot(t *testing.T) {
	schedule := []models.ScheduleSlot{
		{ID: "a", Date: "2026-09-10", StartTime: "10:00", EndTime: "11:00", IsAvailable: true},
		{ID: "b", Date: "2026-09-10", StartTime: "11:00", EndTime: "12:00", IsAvailable: false},
		{ID: "c", Date: "2026-09-10T00:00:00Z", StartTime: "14:00", EndTime: "15:00", IsAvailable: true},
	}

	t.Run("matches the window verbatim", func(t *testing.T) {
		slot := FindScheduleSlot(schedule, "2026-09-10", "10:00", "11:00")
		require.NotNil(t, slot)
		assert.Equal(t, "a", slot.ID)
	})

	t.Run("a covering window is not a match", func(t *testing.T) {
		// 10:15-10:45 sits inside slot a but is not declared itself.
		assert.Nil(t, FindScheduleSlot(schedule, "2026-09-10", "10:15", "10:45"))
	})

	t.Run("unavailable slots are skipped", func(t *testing.T) {
		assert.Nil(t, FindScheduleSlot(schedule, "2026-09-10", "11:00", "12:00"))
	})

	t.Run("slot dates with a time component still match", func(t *testing.T) {
		slot := FindScheduleSlot(schedule, "2026-09-10", "14:00", "15:00")
		require.NotNil(t, slot)
		assert.Equal(t, "c", slot.ID)
	})
}

func TestFindScheduleConflicts(t *testing.T) {
	existing := []models.ScheduleSlot{
		{ID: "a", Date: "2026-09-10", StartTime: "10:00", EndTime: "11:00"},
		{ID: "b", Day: "Mon", StartTime: "09:00", EndTime: "10:00"},
	}

	t.Run("adjacent windows are fine", func(t *testing.T) {
		conflicts, err := FindScheduleConflicts(existing, []models.ScheduleSlot{
			{Date: "2026-09-10", StartTime: "11:00", EndTime: "12:00"},
		})
		require.NoError(t, err)
		assert.Empty(t, conflicts)
	})

	t.Run("overlap with a declared window is reported", func(t *testing.T) {
		conflicts, err := FindScheduleConflicts(existing, []models.ScheduleSlot{
			{Date: "2026-09-10", StartTime: "10:30", EndTime: "11:30"},
		})
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "a", conflicts[0].Existing.ID)
	})

	t.Run("date-less templates conflict by weekday", func(t *testing.T) {
		conflicts, err := FindScheduleConflicts(existing, []models.ScheduleSlot{
			{Day: "Mon", StartTime: "09:30", EndTime: "10:30"},
			{Day: "Tue", StartTime: "09:30", EndTime: "10:30"},
		})
		require.NoError(t, err)
		require.Len(t, conflicts, 1)
		assert.Equal(t, "b", conflicts[0].Existing.ID)
	})

	t.Run("incoming slots are checked against each other", func(t *testing.T) {
		conflicts, err := FindScheduleConflicts(nil, []models.ScheduleSlot{
			{Date: "2026-09-12", StartTime: "10:00", EndTime: "11:00"},
			{Date: "2026-09-12", StartTime: "10:30", EndTime: "11:30"},
		})
		require.NoError(t, err)
		assert.Len(t, conflicts, 1)
	})

	t.Run("malformed times surface as errors", func(t *testing.T) {
		_, err := FindScheduleConflicts(existing, []models.ScheduleSlot{
			{Date: "2026-09-10", StartTime: "25:00", EndTime: "26:00"},
		})
		assert.Error(t, err)
	})
}

func TestValidateSlotWindow(t *testing.T) {
	assert.NoError(t, ValidateSlotWindow(models.ScheduleSlot{StartTime: "10:00", EndTime: "11:00"}))
	assert.Error(t, ValidateSlotWindow(models.ScheduleSlot{StartTime: "11:00", EndTime: "10:00"}))
	assert.Error(t, ValidateSlotWindow(models.ScheduleSlot{StartTime: "10:00", EndTime: "10:00"}))
	assert.Error(t, ValidateSlotWindow(models.ScheduleSlot{StartTime: "ten", EndTime: "11:00"}))
}
