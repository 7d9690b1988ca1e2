// Package jsonstore provides a JSON file-based implementation of TaskRepository.
package jsonstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"syscall"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/infra/fsutil"
)

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Tasks map[string]*taskData `json:"tasks"`
	Meta  meta                 `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	NextTaskID int `json:"nextTaskID"`
}

// taskData is the JSON representation of a task. The map key carries the ID.
type taskData = domain.Task

// Store implements domain.TaskRepository using a JSON file.
// Every operation holds a flock on a sibling lock file, so several
// processes can share one store.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the store file path.
func (s *Store) Path() string { return s.path }

// Get retrieves a task by ID.
func (s *Store) Get(ctx context.Context, id int) (*domain.Task, error) {
	var task *domain.Task
	err := s.withLock(ctx, func(data *storeData) error {
		key := strconv.Itoa(id)
		if t, ok := data.Tasks[key]; ok {
			task = t
			task.ID = id
		}
		return nil
	})
	return task, err
}

// List retrieves tasks matching the filter, sorted by ID.
func (s *Store) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	var tasks []*domain.Task
	err := s.withLock(ctx, func(data *storeData) error {
		for key, t := range data.Tasks {
			id, _ := strconv.Atoi(key)
			t.ID = id
			if filter.Matches(t) {
				tasks = append(tasks, t)
			}
		}
		return nil
	})

	// Sort by ID for consistent ordering
	slices.SortFunc(tasks, func(a, b *domain.Task) int {
		return a.ID - b.ID
	})

	return tasks, err
}

// Save creates or updates a task.
func (s *Store) Save(ctx context.Context, task *domain.Task) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		key := strconv.Itoa(task.ID)
		data.Tasks[key] = task
		if task.ID >= data.Meta.NextTaskID {
			data.Meta.NextTaskID = task.ID + 1
		}
		return nil
	})
}

// Delete removes a task by ID.
func (s *Store) Delete(ctx context.Context, id int) error {
	return s.withLockWrite(ctx, func(data *storeData) error {
		delete(data.Tasks, strconv.Itoa(id))
		return nil
	})
}

// NextID returns the next available task ID.
func (s *Store) NextID(ctx context.Context) (int, error) {
	var id int
	err := s.withLockWrite(ctx, func(data *storeData) error {
		id = data.Meta.NextTaskID
		data.Meta.NextTaskID++
		return nil
	})
	return id, err
}

// SaveSchedule applies all updates in one read-modify-write under the
// exclusive lock. If any task is missing, nothing is written.
func (s *Store) SaveSchedule(ctx context.Context, updates []domain.ScheduleUpdate) error {
	if len(updates) == 0 {
		return nil
	}
	return s.withLockWrite(ctx, func(data *storeData) error {
		for _, u := range updates {
			if _, ok := data.Tasks[strconv.Itoa(u.TaskID)]; !ok {
				return fmt.Errorf("task %d: %w", u.TaskID, domain.ErrTaskNotFound)
			}
		}
		for _, u := range updates {
			at := u.ScheduledTime
			data.Tasks[strconv.Itoa(u.TaskID)].ScheduledTime = &at
		}
		return nil
	})
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
func (s *Store) Initialize(_ context.Context) error {
	// Ensure parent directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	// Check if file already exists
	if _, err := os.Stat(s.path); err == nil {
		return nil // Already exists
	}

	data := &storeData{
		Meta:  meta{NextTaskID: 1},
		Tasks: make(map[string]*taskData),
	}

	return s.write(data)
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(ctx context.Context, fn func(*storeData) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

// withLockWrite executes fn with an exclusive (write) lock and writes the result.
// Nothing is written when fn fails.
func (s *Store) withLockWrite(ctx context.Context, fn func(*storeData) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	if err := fn(data); err != nil {
		return err
	}

	return s.write(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	// Ensure lock file directory exists
	dir := filepath.Dir(s.lockPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}

	// Ensure maps are initialized
	if data.Tasks == nil {
		data.Tasks = make(map[string]*taskData)
	}
	if data.Meta.NextTaskID < 1 {
		data.Meta.NextTaskID = 1
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}
	return fsutil.WriteFileAtomic(s.path, content, 0o600)
}

// Ensure Store implements the store ports.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
