package domain

import (
	"context"
	"math/rand/v2"
	"time"
)

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates the store if it doesn't exist.
	Initialize(ctx context.Context) error

	// IsInitialized reports whether the store already exists.
	IsInitialized() bool
}

// TaskRepository manages task persistence.
type TaskRepository interface {
	// Get retrieves a task by ID. Returns nil if not found.
	Get(ctx context.Context, id int) (*Task, error)

	// List retrieves tasks matching the filter, ordered by ascending ID.
	List(ctx context.Context, filter TaskFilter) ([]*Task, error)

	// Save creates or updates a task.
	Save(ctx context.Context, task *Task) error

	// Delete removes a task by ID.
	Delete(ctx context.Context, id int) error

	// NextID returns the next available task ID.
	NextID(ctx context.Context) (int, error)

	// SaveSchedule writes scheduled times for several tasks as one atomic batch.
	// Either every update is persisted or none is.
	SaveSchedule(ctx context.Context, updates []ScheduleUpdate) error
}

// TaskFilter specifies criteria for listing tasks.
type TaskFilter struct {
	Status *Status // nil = all tasks
}

// FilterStatus returns a filter matching one status.
func FilterStatus(s Status) TaskFilter {
	return TaskFilter{Status: &s}
}

// Matches reports whether t passes the filter.
func (f TaskFilter) Matches(t *Task) bool {
	return f.Status == nil || t.Status == *f.Status
}

// ProfileStore persists the productivity profile.
type ProfileStore interface {
	// Load reads the stored profile. A missing file yields EmptyProfile and no error.
	Load() (*Profile, error)

	// Save replaces the stored profile atomically.
	Save(p *Profile) error
}

// ProfileProvider hands out the current profile and swaps in new ones.
// Readers always observe a complete profile, old or new.
type ProfileProvider interface {
	// Current returns the active profile. Never nil.
	Current() *Profile

	// Replace persists p and makes it current.
	Replace(p *Profile) error

	// Reload re-reads the profile from storage.
	Reload() error
}

// RunLocker serializes allocation runs across goroutines and processes.
type RunLocker interface {
	// Lock blocks until the run lock is held or ctx is done.
	// The returned function releases the lock.
	Lock(ctx context.Context) (unlock func(), err error)
}

// RandomSource picks uniformly among candidates.
type RandomSource interface {
	// IntN returns a value in [0, n). n is always > 0.
	IntN(n int) int
}

// NewRandomSource returns a RandomSource seeded from the clock.
func NewRandomSource() RandomSource {
	now := uint64(time.Now().UnixNano())
	return rand.New(rand.NewPCG(now, now>>1|1))
}

// NewSeededRandom returns a deterministic RandomSource.
func NewSeededRandom(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Logger records operational events.
// kv is a flat list of alternating keys and values.
type Logger interface {
	Debug(category, msg string, kv ...any)
	Info(category, msg string, kv ...any)
	Warn(category, msg string, kv ...any)
	Error(category, msg string, kv ...any)
}

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, string, ...any) {}
func (NopLogger) Info(string, string, ...any)  {}
func (NopLogger) Warn(string, string, ...any)  {}
func (NopLogger) Error(string, string, ...any) {}

// LoggerOrNop returns l, or a NopLogger when l is nil.
func LoggerOrNop(l Logger) Logger {
	if l == nil {
		return NopLogger{}
	}
	return l
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (data dir + global).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// Clock provides time operations for testability.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// ConfigInfo describes one configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager inspects configuration files.
type ConfigManager interface {
	// GetDataConfigInfo returns the data directory config file.
	GetDataConfigInfo() ConfigInfo

	// GetGlobalConfigInfo returns the global config file.
	GetGlobalConfigInfo() ConfigInfo
}
