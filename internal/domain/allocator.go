package domain

// AllocationPolicy holds the tunables of slot selection.
type AllocationPolicy struct {
	DaytimeStart         int // First fallback hour, inclusive
	DaytimeEnd           int // Last fallback hour, inclusive
	DeepWorkThresholdMin int
}

// DefaultAllocationPolicy returns the stock policy.
func DefaultAllocationPolicy() AllocationPolicy {
	return AllocationPolicy{
		DaytimeStart:         DefaultDaytimeStart,
		DaytimeEnd:           DefaultDaytimeEnd,
		DeepWorkThresholdMin: DefaultDeepWorkThresholdMin,
	}
}

// SlotSource tells how an assignment was chosen.
type SlotSource string

const (
	SourcePreferred SlotSource = "preferred" // From the learned profile
	SourceDaytime   SlotSource = "daytime"   // Daytime fallback window
	SourceAny       SlotSource = "any"       // Any free slot before the deadline
)

// Assignment is one slot decision made by the Allocator.
// Fields are ordered to minimize memory padding.
type Assignment struct {
	Task   *Task
	Kind   WorkKind
	Source SlotSource
	Slot   int
}

// Allocator places tasks into free calendar slots.
type Allocator struct {
	profile *Profile
	rand    RandomSource
	policy  AllocationPolicy
}

// NewAllocator creates an Allocator. A nil profile behaves as EmptyProfile.
func NewAllocator(profile *Profile, rnd RandomSource, policy AllocationPolicy) *Allocator {
	if profile == nil {
		profile = EmptyProfile()
	}
	return &Allocator{profile: profile, rand: rnd, policy: policy}
}

// Allocate picks a slot for each task in order and occupies it in cal.
// Tasks with no free slot at or before their deadline are returned in skipped.
// Neither the tasks nor the profile are modified.
func (a *Allocator) Allocate(cal *WeeklyCalendar, tasks []*Task) (assigned []Assignment, skipped []*Task) {
	for _, t := range tasks {
		slot, kind, src, ok := a.pick(cal, t)
		if !ok {
			skipped = append(skipped, t)
			continue
		}
		cal.Occupy(slot)
		assigned = append(assigned, Assignment{Task: t, Slot: slot, Kind: kind, Source: src})
	}
	return assigned, skipped
}

func (a *Allocator) pick(cal *WeeklyCalendar, t *Task) (int, WorkKind, SlotSource, bool) {
	kind := t.Kind(a.policy.DeepWorkThresholdMin)
	candidates := cal.FreeSlotsUpTo(cal.DeadlineSlot(t.DueDate))
	if len(candidates) == 0 {
		return 0, kind, "", false
	}

	free := make(map[int]struct{}, len(candidates))
	for _, s := range candidates {
		free[s] = struct{}{}
	}

	var smart []int
	for _, s := range a.profile.SlotsFor(kind) {
		if _, ok := free[s]; ok {
			smart = append(smart, s)
		}
	}
	if len(smart) > 0 {
		return a.choose(smart), kind, SourcePreferred, true
	}

	var daytime []int
	for _, s := range candidates {
		if h := SlotHour(s); h >= a.policy.DaytimeStart && h <= a.policy.DaytimeEnd {
			daytime = append(daytime, s)
		}
	}
	if len(daytime) > 0 {
		return a.choose(daytime), kind, SourceDaytime, true
	}
	return a.choose(candidates), kind, SourceAny, true
}

func (a *Allocator) choose(slots []int) int {
	if a.rand == nil {
		return slots[0]
	}
	return slots[a.rand.IntN(len(slots))]
}
