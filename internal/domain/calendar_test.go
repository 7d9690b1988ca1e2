package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// monday is the start of the week used throughout the calendar tests.
var monday = time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC)

func TestStartOfWeek(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
	}{
		{"monday midnight", monday},
		{"wednesday afternoon", time.Date(2024, 1, 10, 15, 20, 0, 0, time.UTC)},
		{"sunday late", time.Date(2024, 1, 14, 23, 59, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, StartOfWeek(tt.now, nil))
		})
	}
}

func TestStartOfWeek_Location(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// Sunday 20:00 UTC is already Monday 05:00 at UTC+9.
	now := time.Date(2024, 1, 14, 20, 0, 0, 0, time.UTC)

	start := StartOfWeek(now, loc)

	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, loc), start)
}

func TestSlotOf(t *testing.T) {
	tests := []struct {
		name   string
		offset time.Duration
		want   int
		wantOK bool
	}{
		{"week start", 0, 0, true},
		{"rounds down", 3*time.Hour + 20*time.Minute, 3, true},
		{"rounds up", 3*time.Hour + 40*time.Minute, 4, true},
		{"half rounds to even (up)", time.Hour + 30*time.Minute, 2, true},
		{"half rounds to even (down)", 2*time.Hour + 30*time.Minute, 2, true},
		{"last slot", 167 * time.Hour, 167, true},
		{"past the week", 167*time.Hour + 40*time.Minute, 0, false},
		{"before the week", -time.Hour, 0, false},
		{"just before the week rounds to zero", -20 * time.Minute, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SlotOf(monday.Add(tt.offset), monday)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSlotHelpers(t *testing.T) {
	assert.Equal(t, 63, SlotFromDayHour(2, 15))
	assert.Equal(t, 2, SlotDay(63))
	assert.Equal(t, 15, SlotHour(63))
	assert.Equal(t, "Wed 15:00", SlotLabel(63))
}

func TestNewWeeklyCalendar_PastIsOccupied(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 20, 0, 0, time.UTC)

	cal := NewWeeklyCalendar(now, time.UTC)

	assert.Equal(t, monday, cal.Start())
	assert.Equal(t, 63, cal.CurrentSlot())
	assert.False(t, cal.IsFree(0))
	assert.False(t, cal.IsFree(62))
	// 15:00 already started at 15:20.
	assert.False(t, cal.IsFree(63))
	assert.True(t, cal.IsFree(64))
	assert.True(t, cal.IsFree(167))
	assert.False(t, cal.IsFree(168))
	assert.False(t, cal.IsFree(-1))
	assert.Equal(t, SlotsPerWeek-64, cal.FreeCount())
}

func TestNewWeeklyCalendar_OnTheHourKeepsCurrentSlot(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

	cal := NewWeeklyCalendar(now, time.UTC)

	assert.Equal(t, 63, cal.CurrentSlot())
	assert.True(t, cal.IsFree(63))
	assert.Equal(t, SlotsPerWeek-63, cal.FreeCount())
}

func TestNewWeeklyCalendar_EndOfWeekHasNoFreeSlot(t *testing.T) {
	now := time.Date(2024, 1, 14, 23, 40, 0, 0, time.UTC)

	cal := NewWeeklyCalendar(now, time.UTC)

	assert.Equal(t, LastSlot, cal.CurrentSlot())
	assert.Zero(t, cal.FreeCount())
	assert.False(t, cal.IsFree(LastSlot))
}

func TestNewWeeklyCalendar_FreeSlotsNeverStartBeforeNow(t *testing.T) {
	// Setup
	now := monday.Add(2*time.Hour + 20*time.Minute)

	// Execute
	cal := NewWeeklyCalendar(now, time.UTC)

	// Assert
	assert.Equal(t, 2, cal.CurrentSlot())
	free := cal.FreeSlotsUpTo(LastSlot)
	require.NotEmpty(t, free)
	assert.Equal(t, 3, free[0])
	for _, s := range free {
		assert.False(t, cal.SlotTime(s).Before(now), "slot %d", s)
	}
}

func TestWeeklyCalendar_SlotTime(t *testing.T) {
	cal := NewWeeklyCalendar(monday, time.UTC)

	assert.Equal(t, monday.Add(37*time.Hour), cal.SlotTime(37))
}

func TestWeeklyCalendar_FreeSlotsUpTo(t *testing.T) {
	cal := NewWeeklyCalendar(monday.Add(2*time.Hour), time.UTC)
	cal.Occupy(3)
	cal.Occupy(500) // ignored

	assert.Equal(t, []int{2, 4, 5}, cal.FreeSlotsUpTo(5))
	assert.Empty(t, cal.FreeSlotsUpTo(1))
	assert.Len(t, cal.FreeSlotsUpTo(1000), SlotsPerWeek-3)
}

func TestWeeklyCalendar_DeadlineSlot(t *testing.T) {
	cal := NewWeeklyCalendar(monday, time.UTC)

	assert.Equal(t, LastSlot, cal.DeadlineSlot(nil))
	assert.Equal(t, 29, cal.DeadlineSlot(timePtr(monday.Add(29*time.Hour))))
	// Off the hour, the deadline is the last slot starting at or before due.
	assert.Equal(t, 8, cal.DeadlineSlot(timePtr(monday.Add(8*time.Hour+40*time.Minute))))
	assert.Equal(t, 8, cal.DeadlineSlot(timePtr(monday.Add(8*time.Hour+20*time.Minute))))
	assert.Equal(t, LastSlot, cal.DeadlineSlot(timePtr(monday.Add(167*time.Hour+40*time.Minute))))
	assert.Equal(t, LastSlot, cal.DeadlineSlot(timePtr(monday.Add(200*time.Hour))))
	assert.Equal(t, LastSlot, cal.DeadlineSlot(timePtr(monday.Add(-48*time.Hour))))
}

func TestBuildCalendar(t *testing.T) {
	now := monday.Add(10 * time.Hour)
	future := monday.Add(20 * time.Hour)
	past := monday.Add(5 * time.Hour)
	nextWeek := monday.Add(200 * time.Hour)
	done := monday.Add(2 * time.Hour)

	tasks := []*Task{
		{ID: 1, Status: StatusPending, ScheduledTime: &future},
		{ID: 2, Status: StatusPending, ScheduledTime: &past},
		{ID: 3, Status: StatusPending},
		{ID: 4, Status: StatusCompleted, ScheduledTime: &future, CompletedAt: &done},
		{ID: 5, Status: StatusPending, ScheduledTime: &nextWeek},
		nil,
	}

	cal, already, toSchedule := BuildCalendar(now, time.UTC, tasks)

	require.Len(t, already, 1)
	assert.Equal(t, 1, already[0].ID)
	require.Len(t, toSchedule, 3)
	assert.Equal(t, []int{2, 3, 5}, []int{toSchedule[0].ID, toSchedule[1].ID, toSchedule[2].ID})

	assert.False(t, cal.IsFree(20))
	assert.False(t, cal.IsFree(5))
	assert.True(t, cal.IsFree(11))
	// The rescheduled task keeps its stale time until allocation replaces it.
	assert.Equal(t, past, *tasks[1].ScheduledTime)
}

func TestBuildCalendar_KeepsTaskInProgressSlot(t *testing.T) {
	// Setup
	now := monday.Add(10*time.Hour + 5*time.Minute)
	running := monday.Add(10 * time.Hour)
	tasks := []*Task{{ID: 1, Status: StatusPending, ScheduledTime: &running}}

	// Execute
	cal, already, toSchedule := BuildCalendar(now, time.UTC, tasks)

	// Assert
	require.Len(t, already, 1)
	assert.Empty(t, toSchedule)
	assert.False(t, cal.IsFree(10))
}

func TestWeeklyCalendar_DaylightSavingUsesWallClock(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks jump from 02:00 to 03:00 on Sunday 2024-03-10.
	now := time.Date(2024, 3, 4, 9, 0, 0, 0, loc)
	cal := NewWeeklyCalendar(now, loc)
	require.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, loc), cal.Start())

	sundayAfternoon := SlotFromDayHour(6, 15)
	st := cal.SlotTime(sundayAfternoon)
	assert.Equal(t, time.Date(2024, 3, 10, 15, 0, 0, 0, loc), st)
	assert.Equal(t, 15, st.Hour())

	slot, ok := cal.SlotOf(st)
	require.True(t, ok)
	assert.Equal(t, sundayAfternoon, slot)
	assert.Equal(t, sundayAfternoon, cal.DeadlineSlot(&st))

	// 02:00 does not exist that night.
	assert.False(t, cal.IsFree(SlotFromDayHour(6, 2)))
	assert.True(t, cal.IsFree(SlotFromDayHour(6, 3)))
	assert.Equal(t, SlotsPerWeek-SlotFromDayHour(0, 9)-1, cal.FreeCount())
}

func TestWeeklyCalendar_DaylightSavingFallBack(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// Clocks fall back from 02:00 to 01:00 on Sunday 2024-11-03.
	cal := NewWeeklyCalendar(time.Date(2024, 10, 28, 0, 0, 0, 0, loc), loc)

	evening := SlotFromDayHour(6, 20)
	st := cal.SlotTime(evening)

	assert.Equal(t, time.Date(2024, 11, 3, 20, 0, 0, 0, loc), st)
	slot, ok := cal.SlotOf(st)
	require.True(t, ok)
	assert.Equal(t, evening, slot)
	assert.Equal(t, SlotsPerWeek, cal.FreeCount())
}
