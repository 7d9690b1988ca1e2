// Package sqlstore implements domain.TaskRepository on database/sql.
// SQLite (modernc.org/sqlite) and PostgreSQL (github.com/lib/pq) are supported.
package sqlstore

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/runoshun/weekplan/internal/domain"
)

//go:embed migrations.sql
var migrations string

// Ensure Store implements the domain interfaces.
var (
	_ domain.TaskRepository   = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)

const nextIDKey = "next_task_id"

const taskColumns = `id, task_name, status, created_at, due_date, scheduled_time, completed_at,
	my_day_date, predicted_time_min, actual_time_taken_min, predicted_priority`

// Options selects and configures the backend.
type Options struct {
	Driver      string        // domain.DriverSQLite or domain.DriverPostgres
	Path        string        // sqlite database file
	DSN         string        // postgres connection string
	BusyTimeout time.Duration // sqlite busy timeout
}

// Store is a SQL-backed task repository.
// Fields are ordered to minimize memory padding.
type Store struct {
	db      *sql.DB
	dialect dialect
	ready   atomic.Bool
}

// Open opens the database. The schema is created by Initialize.
func Open(opts Options) (*Store, error) {
	d, ok := dialects[opts.Driver]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDriver, opts.Driver)
	}

	dsn := opts.DSN
	if d.driverName == "sqlite" {
		if strings.TrimSpace(opts.Path) == "" {
			return nil, errors.New("sqlite path is required")
		}
		if err := os.MkdirAll(filepath.Dir(opts.Path), 0o750); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
		dsn = opts.Path
	} else if strings.TrimSpace(dsn) == "" {
		return nil, errors.New("postgres dsn is required")
	}

	db, err := sql.Open(d.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", opts.Driver, err)
	}
	if d.singleConn {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}
	if d.pragmaSetup {
		if opts.BusyTimeout > 0 {
			_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", opts.BusyTimeout.Milliseconds()))
		}
		_, _ = db.Exec("PRAGMA journal_mode = WAL")
		_, _ = db.Exec("PRAGMA synchronous = NORMAL")
	}

	return &Store{db: db, dialect: d}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Initialize creates the schema if it does not exist.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, migrations); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	s.ready.Store(true)
	return nil
}

// IsInitialized reports whether the schema exists.
func (s *Store) IsInitialized() bool {
	if s.ready.Load() {
		return true
	}
	var v int64
	err := s.db.QueryRowContext(context.Background(),
		s.dialect.rebind(`SELECT value FROM meta WHERE key = ?`), nextIDKey).Scan(&v)
	if err != nil {
		return false
	}
	s.ready.Store(true)
	return true
}

func (s *Store) checkReady(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !s.IsInitialized() {
		return domain.ErrNotInitialized
	}
	return nil
}

// Get retrieves a task by ID. Returns nil if not found.
func (s *Store) Get(ctx context.Context, id int) (*domain.Task, error) {
	if err := s.checkReady(ctx); err != nil {
		return nil, err
	}
	row := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	task, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task #%d: %w", id, err)
	}
	return task, nil
}

// List retrieves tasks matching the filter, ordered by ID.
func (s *Store) List(ctx context.Context, filter domain.TaskFilter) ([]*domain.Task, error) {
	if err := s.checkReady(ctx); err != nil {
		return nil, err
	}

	query := `SELECT ` + taskColumns + ` FROM tasks`
	var args []any
	if filter.Status != nil {
		query += ` WHERE status = ?`
		args = append(args, string(*filter.Status))
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Save creates or updates a task.
func (s *Store) Save(ctx context.Context, task *domain.Task) error {
	if err := s.checkReady(ctx); err != nil {
		return err
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, s.dialect.rebind(`INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				task_name = excluded.task_name,
				status = excluded.status,
				created_at = excluded.created_at,
				due_date = excluded.due_date,
				scheduled_time = excluded.scheduled_time,
				completed_at = excluded.completed_at,
				my_day_date = excluded.my_day_date,
				predicted_time_min = excluded.predicted_time_min,
				actual_time_taken_min = excluded.actual_time_taken_min,
				predicted_priority = excluded.predicted_priority`),
			task.ID,
			task.Name,
			string(task.Status),
			formatTime(task.Created),
			nullTime(task.DueDate),
			nullTime(task.ScheduledTime),
			nullTime(task.CompletedAt),
			nullTime(task.MyDayDate),
			nullInt(task.PredictedTimeMin),
			nullInt(task.ActualTimeTakenMin),
			nullString(task.PredictedPriority),
		)
		if err != nil {
			return fmt.Errorf("save task #%d: %w", task.ID, err)
		}

		// Keep the sequence ahead of explicitly numbered tasks.
		_, err = tx.ExecContext(ctx,
			s.dialect.rebind(`UPDATE meta SET value = ? WHERE key = ? AND value <= ?`),
			task.ID+1, nextIDKey, task.ID)
		return err
	})
}

// Delete removes a task by ID.
func (s *Store) Delete(ctx context.Context, id int) error {
	if err := s.checkReady(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, s.dialect.rebind(`DELETE FROM tasks WHERE id = ?`), id); err != nil {
		return fmt.Errorf("delete task #%d: %w", id, err)
	}
	return nil
}

// NextID returns the next available task ID.
func (s *Store) NextID(ctx context.Context) (int, error) {
	if err := s.checkReady(ctx); err != nil {
		return 0, err
	}
	var next int
	err := s.db.QueryRowContext(ctx,
		s.dialect.rebind(`UPDATE meta SET value = value + 1 WHERE key = ? RETURNING value - 1`),
		nextIDKey).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("next task id: %w", err)
	}
	return next, nil
}

// SaveSchedule writes all scheduled times in one transaction.
// An unknown task ID aborts the whole batch with domain.ErrTaskNotFound.
func (s *Store) SaveSchedule(ctx context.Context, updates []domain.ScheduleUpdate) error {
	if err := s.checkReady(ctx); err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	return s.inTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(`UPDATE tasks SET scheduled_time = ? WHERE id = ?`))
		if err != nil {
			return err
		}
		defer func() { _ = stmt.Close() }()

		for _, u := range updates {
			res, err := stmt.ExecContext(ctx, formatTime(u.ScheduledTime), u.TaskID)
			if err != nil {
				return fmt.Errorf("schedule task #%d: %w", u.TaskID, err)
			}
			if n, err := res.RowsAffected(); err == nil && n == 0 {
				return fmt.Errorf("%w: #%d", domain.ErrTaskNotFound, u.TaskID)
			}
		}
		return nil
	})
}

func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task                             domain.Task
		status, created                  string
		due, scheduled, completed, myDay sql.NullString
		predicted, actual                sql.NullInt64
		priority                         sql.NullString
	)
	if err := row.Scan(&task.ID, &task.Name, &status, &created, &due, &scheduled, &completed,
		&myDay, &predicted, &actual, &priority); err != nil {
		return nil, err
	}

	var err error
	task.Status = domain.Status(status)
	if task.Created, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return nil, fmt.Errorf("created_at: %w", err)
	}
	if task.DueDate, err = parseNullTime(due); err != nil {
		return nil, fmt.Errorf("due_date: %w", err)
	}
	if task.ScheduledTime, err = parseNullTime(scheduled); err != nil {
		return nil, fmt.Errorf("scheduled_time: %w", err)
	}
	if task.CompletedAt, err = parseNullTime(completed); err != nil {
		return nil, fmt.Errorf("completed_at: %w", err)
	}
	if task.MyDayDate, err = parseNullTime(myDay); err != nil {
		return nil, fmt.Errorf("my_day_date: %w", err)
	}
	task.PredictedTimeMin = intFromNull(predicted)
	task.ActualTimeTakenMin = intFromNull(actual)
	task.PredictedPriority = priority.String
	return &task, nil
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

func parseNullTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func nullInt(i *int) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*i), Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
