package domain

import (
	"fmt"
	"time"
)

// Profile is the learned productivity profile: preferred slots for deep and
// shallow work. A Profile is never mutated after it is published; training
// produces a new value.
type Profile struct {
	LastTrained      time.Time `json:"last_trained"`
	DeepWorkSlots    []int     `json:"deep_work_slots"`
	ShallowWorkSlots []int     `json:"shallow_work_slots"`
}

// EmptyProfile returns the cold-start profile.
func EmptyProfile() *Profile {
	return &Profile{DeepWorkSlots: []int{}, ShallowWorkSlots: []int{}}
}

// IsEmpty reports whether the profile has no preferred slots.
func (p *Profile) IsEmpty() bool {
	return p == nil || (len(p.DeepWorkSlots) == 0 && len(p.ShallowWorkSlots) == 0)
}

// IsTrained reports whether the profile came out of a training run.
func (p *Profile) IsTrained() bool {
	return p != nil && !p.LastTrained.IsZero()
}

// SlotsFor returns the preferred slots for the given kind of work.
func (p *Profile) SlotsFor(kind WorkKind) []int {
	if p == nil {
		return nil
	}
	if kind == WorkDeep {
		return p.DeepWorkSlots
	}
	return p.ShallowWorkSlots
}

// Normalized returns a copy with out-of-range and duplicate slots removed.
// Order of first occurrence is kept.
func (p *Profile) Normalized() *Profile {
	if p == nil {
		return EmptyProfile()
	}
	return &Profile{
		LastTrained:      p.LastTrained,
		DeepWorkSlots:    normalizeSlots(p.DeepWorkSlots),
		ShallowWorkSlots: normalizeSlots(p.ShallowWorkSlots),
	}
}

func normalizeSlots(in []int) []int {
	out := make([]int, 0, len(in))
	seen := make(map[int]struct{}, len(in))
	for _, s := range in {
		if s < 0 || s > LastSlot {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// HabitCenter is a cluster center rounded back into calendar coordinates.
type HabitCenter struct {
	Day  int // 0 = Monday
	Hour int // 0-23
}

// ClampHabitCenter clamps day to [0,6] and hour to [0,23].
func ClampHabitCenter(day, hour int) HabitCenter {
	return HabitCenter{Day: clamp(day, 0, DaysPerWeek-1), Hour: clamp(hour, 0, HoursPerDay-1)}
}

// Slot returns the slot index of the center itself.
func (h HabitCenter) Slot() int { return SlotFromDayHour(h.Day, h.Hour) }

// String renders the center as "Mon 09:00".
func (h HabitCenter) String() string {
	return fmt.Sprintf("%s %02d:00", ShortDayNames[h.Day], h.Hour)
}

// ExpandCenters turns each center into a window of hours [h-radius, h+radius]
// on the same day, wrapping around midnight without changing the day.
// The result is deduplicated in generation order.
func ExpandCenters(centers []HabitCenter, radius int) []int {
	out := []int{}
	seen := map[int]struct{}{}
	for _, c := range centers {
		for off := -radius; off <= radius; off++ {
			hour := ((c.Hour+off)%HoursPerDay + HoursPerDay) % HoursPerDay
			slot := SlotFromDayHour(c.Day, hour)
			if _, dup := seen[slot]; dup {
				continue
			}
			seen[slot] = struct{}{}
			out = append(out, slot)
		}
	}
	return out
}

// SlotLabel renders a slot index as "Mon 09:00".
func SlotLabel(slot int) string {
	return HabitCenter{Day: SlotDay(slot), Hour: SlotHour(slot)}.String()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
