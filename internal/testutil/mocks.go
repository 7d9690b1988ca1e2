// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/runoshun/weekplan/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockTaskRepository is a test double for domain.TaskRepository.
// Fields are ordered to minimize memory padding.
type MockTaskRepository struct {
	Tasks           map[int]*domain.Task
	SaveErr         error
	GetErr          error
	ListErr         error
	DeleteErr       error
	NextIDErr       error
	SaveScheduleErr error
	ScheduleBatches [][]domain.ScheduleUpdate
	NextIDN         int
}

// NewMockTaskRepository creates a new MockTaskRepository with initialized maps.
func NewMockTaskRepository() *MockTaskRepository {
	return &MockTaskRepository{
		Tasks:   make(map[int]*domain.Task),
		NextIDN: 1,
	}
}

// Add stores tasks directly, bypassing SaveErr.
func (m *MockTaskRepository) Add(tasks ...*domain.Task) {
	for _, t := range tasks {
		m.Tasks[t.ID] = t
		if t.ID >= m.NextIDN {
			m.NextIDN = t.ID + 1
		}
	}
}

// Get retrieves a task by ID.
func (m *MockTaskRepository) Get(_ context.Context, id int) (*domain.Task, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	task, ok := m.Tasks[id]
	if !ok {
		return nil, nil
	}
	return task, nil
}

// List returns matching tasks ordered by ID.
func (m *MockTaskRepository) List(_ context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	tasks := make([]*domain.Task, 0, len(m.Tasks))
	for _, t := range m.Tasks {
		if filter.Matches(t) {
			tasks = append(tasks, t)
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

// Save saves a task.
func (m *MockTaskRepository) Save(_ context.Context, task *domain.Task) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Tasks[task.ID] = task
	return nil
}

// Delete removes a task by ID.
func (m *MockTaskRepository) Delete(_ context.Context, id int) error {
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.Tasks, id)
	return nil
}

// NextID returns the next available task ID.
func (m *MockTaskRepository) NextID(_ context.Context) (int, error) {
	if m.NextIDErr != nil {
		return 0, m.NextIDErr
	}
	id := m.NextIDN
	m.NextIDN++
	return id, nil
}

// SaveSchedule records the batch. With SaveScheduleErr set nothing is applied.
func (m *MockTaskRepository) SaveSchedule(_ context.Context, updates []domain.ScheduleUpdate) error {
	if m.SaveScheduleErr != nil {
		return m.SaveScheduleErr
	}
	for _, u := range updates {
		if _, ok := m.Tasks[u.TaskID]; !ok {
			return fmt.Errorf("task %d: %w", u.TaskID, domain.ErrTaskNotFound)
		}
	}
	m.ScheduleBatches = append(m.ScheduleBatches, updates)
	return nil
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize records the call.
func (m *MockStoreInitializer) Initialize(_ context.Context) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.Initialized = true
	return nil
}

// IsInitialized returns the configured value.
func (m *MockStoreInitializer) IsInitialized() bool {
	return m.Initialized
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	DataConfigInfo   domain.ConfigInfo
	GlobalConfigInfo domain.ConfigInfo
}

// GetDataConfigInfo returns the configured data config info.
func (m *MockConfigManager) GetDataConfigInfo() domain.ConfigInfo { return m.DataConfigInfo }

// GetGlobalConfigInfo returns the configured global config info.
func (m *MockConfigManager) GetGlobalConfigInfo() domain.ConfigInfo { return m.GlobalConfigInfo }

// MockProfileStore is a test double for domain.ProfileStore.
type MockProfileStore struct {
	Profile *domain.Profile
	LoadErr error
	SaveErr error
	Saves   int
}

// Load returns the stored profile or EmptyProfile.
func (m *MockProfileStore) Load() (*domain.Profile, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Profile == nil {
		return domain.EmptyProfile(), nil
	}
	return m.Profile, nil
}

// Save stores p.
func (m *MockProfileStore) Save(p *domain.Profile) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Profile = p
	m.Saves++
	return nil
}

// MockProfileProvider is a test double for domain.ProfileProvider.
type MockProfileProvider struct {
	Profile    *domain.Profile
	ReplaceErr error
	Replaced   []*domain.Profile
	Reloads    int
}

// Current returns the configured profile, or EmptyProfile.
func (m *MockProfileProvider) Current() *domain.Profile {
	if m.Profile == nil {
		return domain.EmptyProfile()
	}
	return m.Profile
}

// Replace swaps the profile unless ReplaceErr is set.
func (m *MockProfileProvider) Replace(p *domain.Profile) error {
	if m.ReplaceErr != nil {
		return m.ReplaceErr
	}
	m.Profile = p
	m.Replaced = append(m.Replaced, p)
	return nil
}

// Reload counts calls.
func (m *MockProfileProvider) Reload() error {
	m.Reloads++
	return nil
}

// SequenceRandom replays scripted picks. Each value is taken modulo n;
// once exhausted it returns 0.
type SequenceRandom struct {
	Values []int
	Calls  []int // n of every call
}

// IntN returns the next scripted value.
func (r *SequenceRandom) IntN(n int) int {
	r.Calls = append(r.Calls, n)
	if len(r.Values) == 0 {
		return 0
	}
	v := r.Values[0]
	r.Values = r.Values[1:]
	return v % n
}

// MockRunLocker is a test double for domain.RunLocker.
type MockRunLocker struct {
	LockErr error
	mu      sync.Mutex
	Locks   int
	Unlocks int
}

// Lock counts acquisitions.
func (m *MockRunLocker) Lock(_ context.Context) (func(), error) {
	if m.LockErr != nil {
		return nil, m.LockErr
	}
	m.mu.Lock()
	m.Locks++
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		m.Unlocks++
		m.mu.Unlock()
	}, nil
}

// LogEntry is one call recorded by MockLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	KV       []any
}

// MockLogger records log calls.
type MockLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (m *MockLogger) record(level, category, msg string, kv []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, LogEntry{Level: level, Category: category, Msg: msg, KV: kv})
}

// Debug records a debug entry.
func (m *MockLogger) Debug(category, msg string, kv ...any) { m.record("debug", category, msg, kv) }

// Info records an info entry.
func (m *MockLogger) Info(category, msg string, kv ...any) { m.record("info", category, msg, kv) }

// Warn records a warn entry.
func (m *MockLogger) Warn(category, msg string, kv ...any) { m.record("warn", category, msg, kv) }

// Error records an error entry.
func (m *MockLogger) Error(category, msg string, kv ...any) { m.record("error", category, msg, kv) }

// Has reports whether an entry with the given level and message was recorded.
func (m *MockLogger) Has(level, msg string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Entries {
		if e.Level == level && e.Msg == msg {
			return true
		}
	}
	return false
}
