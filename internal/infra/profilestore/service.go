package profilestore

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/runoshun/weekplan/internal/domain"
)

// Ensure Service implements domain.ProfileProvider.
var _ domain.ProfileProvider = (*Service)(nil)

// Service holds the active profile. Readers load it through an atomic
// pointer and never block on writers.
// Fields are ordered to minimize memory padding.
type Service struct {
	store   domain.ProfileStore
	logger  domain.Logger
	current atomic.Pointer[domain.Profile]
	mu      sync.Mutex // Serializes Replace and Reload
}

// NewService creates a Service and loads the stored profile.
// Load failures are logged and leave the empty profile active.
func NewService(store domain.ProfileStore, logger domain.Logger) *Service {
	s := &Service{store: store, logger: domain.LoggerOrNop(logger)}
	s.current.Store(domain.EmptyProfile())
	if err := s.Reload(); err != nil {
		s.logger.Warn("profile", "initial load failed", "err", err)
	}
	return s
}

// Current returns the active profile. Never nil.
func (s *Service) Current() *domain.Profile {
	return s.current.Load()
}

// Replace persists p and makes it current. On a save error the active
// profile is unchanged.
func (s *Service) Replace(p *domain.Profile) error {
	if p == nil {
		p = domain.EmptyProfile()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Save(p); err != nil {
		return err
	}
	s.current.Store(p.Normalized())
	return nil
}

// Reload re-reads the stored profile. A malformed file activates the empty
// profile and is only logged. Other read errors keep the current profile.
func (s *Service) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.store.Load()
	if errors.Is(err, domain.ErrMalformedProfile) {
		s.logger.Warn("profile", "malformed profile, using empty profile", "err", err)
		s.current.Store(domain.EmptyProfile())
		return nil
	}
	if err != nil {
		return err
	}
	if p == nil {
		p = domain.EmptyProfile()
	}
	s.current.Store(p)
	s.logger.Debug("profile", "profile loaded",
		"deep_slots", len(p.DeepWorkSlots),
		"shallow_slots", len(p.ShallowWorkSlots),
		"trained", p.IsTrained(),
	)
	return nil
}
