package domain

import (
	"math"
	"time"
)

// Calendar dimensions.
const (
	HoursPerDay  = 24
	DaysPerWeek  = 7
	SlotsPerWeek = HoursPerDay * DaysPerWeek
	LastSlot     = SlotsPerWeek - 1
)

// StartOfWeek returns Monday 00:00 at or before now in loc.
func StartOfWeek(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	n := now.In(loc)
	offset := (int(n.Weekday()) + 6) % DaysPerWeek // Monday = 0
	y, m, d := n.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// SlotOf maps t to an hour slot of the week starting at startOfWeek.
// Wall-clock hours are rounded half to even. ok is false when the slot falls outside [0, LastSlot].
func SlotOf(t, startOfWeek time.Time) (slot int, ok bool) {
	return inWeek(math.RoundToEven(wallHours(t, startOfWeek)))
}

// wallHours is the local day offset from startOfWeek times 24 plus the local
// time of day, both read in startOfWeek's location. Daylight-saving shifts do
// not move a slot away from its hour of day.
func wallHours(t, startOfWeek time.Time) float64 {
	lt := t.In(startOfWeek.Location())
	y, m, d := lt.Date()
	sy, sm, sd := startOfWeek.Date()
	days := time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Sub(time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)).Hours() / HoursPerDay
	clock := float64(lt.Hour()) + float64(lt.Minute())/60 + float64(lt.Second())/3600 + float64(lt.Nanosecond())/3.6e12
	return math.Round(days)*HoursPerDay + clock
}

func inWeek(s float64) (int, bool) {
	if s < 0 || s > LastSlot {
		return 0, false
	}
	return int(s), true
}

// SlotStart returns the wall-clock start of slot in the week starting at startOfWeek.
// A slot skipped by a daylight-saving jump normalizes to the following hour.
func SlotStart(startOfWeek time.Time, slot int) time.Time {
	y, m, d := startOfWeek.Date()
	return time.Date(y, m, d+SlotDay(slot), SlotHour(slot), 0, 0, 0, startOfWeek.Location())
}

// SlotHour returns the hour of day (0-23) of a slot.
func SlotHour(slot int) int { return slot % HoursPerDay }

// SlotDay returns the Monday-based day index (0-6) of a slot.
func SlotDay(slot int) int { return slot / HoursPerDay }

// SlotFromDayHour composes a slot index from a day and an hour.
func SlotFromDayHour(day, hour int) int { return day*HoursPerDay + hour }

// WeeklyCalendar tracks slot occupancy for one anchored week.
// It is a private working copy; nothing about it is persisted.
type WeeklyCalendar struct {
	start    time.Time
	occupied [SlotsPerWeek]bool
	current  int // slot containing now
	first    int // first slot starting at or after now
}

// NewWeeklyCalendar creates an empty calendar for the week containing now.
// Slots starting before now are marked occupied, as are hours that do not
// exist on the local clock.
func NewWeeklyCalendar(now time.Time, loc *time.Location) *WeeklyCalendar {
	start := StartOfWeek(now, loc)
	h := wallHours(now, start)
	c := &WeeklyCalendar{
		start:   start,
		current: clampSlot(int(math.Floor(h))),
		first:   int(math.Ceil(h)),
	}
	for i := 0; i < SlotsPerWeek; i++ {
		if i < c.first || SlotStart(start, i).Hour() != SlotHour(i) {
			c.occupied[i] = true
		}
	}
	return c
}

func clampSlot(s int) int {
	if s < 0 {
		return 0
	}
	if s > LastSlot {
		return LastSlot
	}
	return s
}

// BuildCalendar builds the occupancy for now and partitions pending tasks into
// those already holding a slot that has not ended and those that need allocation.
// Tasks are not mutated; non-pending tasks are ignored.
func BuildCalendar(now time.Time, loc *time.Location, tasks []*Task) (cal *WeeklyCalendar, already, toSchedule []*Task) {
	cal = NewWeeklyCalendar(now, loc)
	for _, t := range tasks {
		if t == nil || !t.IsPending() {
			continue
		}
		if t.ScheduledTime != nil {
			if slot, ok := SlotOf(*t.ScheduledTime, cal.start); ok && slot >= cal.current {
				cal.occupied[slot] = true
				already = append(already, t)
				continue
			}
		}
		toSchedule = append(toSchedule, t)
	}
	return cal, already, toSchedule
}

// Start returns the anchor of the week.
func (c *WeeklyCalendar) Start() time.Time { return c.start }

// CurrentSlot returns the slot containing now.
func (c *WeeklyCalendar) CurrentSlot() int { return c.current }

// SlotOf maps t into this calendar's week.
func (c *WeeklyCalendar) SlotOf(t time.Time) (int, bool) { return SlotOf(t, c.start) }

// SlotTime returns the wall-clock start time of a slot.
func (c *WeeklyCalendar) SlotTime(slot int) time.Time { return SlotStart(c.start, slot) }

// IsFree reports whether slot is in range and unoccupied.
func (c *WeeklyCalendar) IsFree(slot int) bool {
	return slot >= 0 && slot < SlotsPerWeek && !c.occupied[slot]
}

// Occupy marks slot as taken. Out-of-range slots are ignored.
func (c *WeeklyCalendar) Occupy(slot int) {
	if slot >= 0 && slot < SlotsPerWeek {
		c.occupied[slot] = true
	}
}

// FreeSlotsUpTo returns unoccupied slots with index <= deadline, ascending.
func (c *WeeklyCalendar) FreeSlotsUpTo(deadline int) []int {
	if deadline > LastSlot {
		deadline = LastSlot
	}
	var out []int
	for s := 0; s <= deadline; s++ {
		if !c.occupied[s] {
			out = append(out, s)
		}
	}
	return out
}

// FreeCount returns the number of unoccupied slots.
func (c *WeeklyCalendar) FreeCount() int {
	n := 0
	for _, o := range c.occupied {
		if !o {
			n++
		}
	}
	return n
}

// DeadlineSlot maps a due date to the last slot a task may use: the latest
// slot starting at or before due. A missing due date, or one outside the
// week, allows the whole week.
func (c *WeeklyCalendar) DeadlineSlot(due *time.Time) int {
	if due == nil {
		return LastSlot
	}
	if s, ok := inWeek(math.Floor(wallHours(*due, c.start))); ok {
		return s
	}
	return LastSlot
}
