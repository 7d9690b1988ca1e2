// Package runlock serializes allocation runs within and across processes.
package runlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/runoshun/weekplan/internal/domain"
)

// Ensure Locker implements domain.RunLocker.
var _ domain.RunLocker = (*Locker)(nil)

// pollInterval is how often a contended file lock is retried.
const pollInterval = 50 * time.Millisecond

// Locker combines an in-process semaphore with an flock on a lock file.
// Fields are ordered to minimize memory padding.
type Locker struct {
	sem  chan struct{}
	path string
}

// New creates a Locker using the lock file at path.
func New(path string) *Locker {
	return &Locker{
		sem:  make(chan struct{}, 1),
		path: path,
	}
}

// Path returns the lock file path.
func (l *Locker) Path() string {
	return l.path
}

// Lock blocks until both locks are held or ctx is done.
func (l *Locker) Lock(ctx context.Context) (func(), error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	f, err := l.lockFile(ctx)
	if err != nil {
		<-l.sem
		return nil, err
	}

	return func() {
		_ = syscall.Flock(int(f.Fd()), syscall.LOCK_UN)
		_ = f.Close()
		<-l.sem
	}, nil
}

func (l *Locker) lockFile(ctx context.Context) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		err := syscall.Flock(int(f.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, syscall.EWOULDBLOCK) && !errors.Is(err, syscall.EAGAIN) {
			_ = f.Close()
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			_ = f.Close()
			return nil, ctx.Err()
		}
	}
}
