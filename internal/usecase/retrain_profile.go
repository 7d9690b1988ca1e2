package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/weekplan/internal/cluster"
	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase/shared"
)

// habitRadius is how many hours either side of a center count as preferred.
const habitRadius = 1

// RetrainProfileInput contains the parameters for retraining.
type RetrainProfileInput struct{}

// Insufficient reports that training was skipped for lack of data.
type Insufficient struct {
	Found    int
	Required int
}

// RetrainProfileOutput contains the result of retraining.
// Exactly one of Profile and Insufficient is set.
type RetrainProfileOutput struct {
	Profile      *domain.Profile
	Insufficient *Insufficient
	Message      string
	TaskCount    int
}

// RetrainProfile is the use case for learning the productivity profile from
// completed tasks.
// Fields are ordered to minimize memory padding.
type RetrainProfile struct {
	tasks    domain.TaskRepository
	profiles domain.ProfileProvider
	clock    domain.Clock
	logger   domain.Logger
	config   *domain.Config
}

// NewRetrainProfile creates a new RetrainProfile use case.
func NewRetrainProfile(
	tasks domain.TaskRepository,
	profiles domain.ProfileProvider,
	clock domain.Clock,
	config *domain.Config,
	logger domain.Logger,
) *RetrainProfile {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &RetrainProfile{
		tasks:    tasks,
		profiles: profiles,
		clock:    clock,
		config:   config,
		logger:   domain.LoggerOrNop(logger),
	}
}

// Execute clusters completion times of deep and shallow work and publishes a
// new profile. With too few qualifying tasks the current profile is left as is.
func (uc *RetrainProfile) Execute(ctx context.Context, _ RetrainProfileInput) (*RetrainProfileOutput, error) {
	loc, err := uc.config.Location()
	if err != nil {
		return nil, err
	}

	completed, err := uc.tasks.List(ctx, domain.FilterStatus(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}

	var deep, shallow []*domain.Task
	threshold := uc.config.Calendar.DeepWorkThresholdMin
	for _, t := range completed {
		if !t.IsTrainable() {
			continue
		}
		if domain.ClassifyMinutes(*t.ActualTimeTakenMin, threshold) == domain.WorkDeep {
			deep = append(deep, t)
		} else {
			shallow = append(shallow, t)
		}
	}

	found := len(deep) + len(shallow)
	required := uc.config.Training.MinCompleted
	if found < required {
		uc.logger.Info("train", "skipped: not enough data", "found", found, "required", required)
		return &RetrainProfileOutput{
			Insufficient: &Insufficient{Found: found, Required: required},
			Message:      fmt.Sprintf("Not enough data. You need at least %d completed tasks. You have %d.", required, found),
			TaskCount:    found,
		}, nil
	}

	deepSlots, err := uc.learnSlots(deep, uc.config.Training.DeepClusters, loc)
	if err != nil {
		return nil, fmt.Errorf("cluster deep work: %w", err)
	}
	shallowSlots, err := uc.learnSlots(shallow, uc.config.Training.ShallowClusters, loc)
	if err != nil {
		return nil, fmt.Errorf("cluster shallow work: %w", err)
	}

	profile := &domain.Profile{
		LastTrained:      uc.clock.Now(),
		DeepWorkSlots:    deepSlots,
		ShallowWorkSlots: shallowSlots,
	}
	if err := uc.profiles.Replace(profile); err != nil {
		uc.logger.Error("train", "profile save failed", "err", err)
		return nil, fmt.Errorf("%w: %w", domain.ErrProfilePersist, err)
	}

	uc.logger.Info("train", "profile retrained",
		"tasks", found,
		"deep_slots", len(deepSlots),
		"shallow_slots", len(shallowSlots),
	)
	return &RetrainProfileOutput{
		Profile:   profile,
		Message:   fmt.Sprintf("Profile retrained successfully on %d tasks.", found),
		TaskCount: found,
	}, nil
}

// learnSlots returns the preferred slots around the k habit centers of tasks.
// Subsets smaller than k yield no slots.
func (uc *RetrainProfile) learnSlots(tasks []*domain.Task, k int, loc *time.Location) ([]int, error) {
	points := shared.CompletionPoints(tasks, loc)
	if k <= 0 || len(points) < k {
		return []int{}, nil
	}
	centers, _, err := cluster.Standardized(points, k, cluster.Options{
		Rand:     domain.NewSeededRandom(uc.config.Training.Seed),
		Restarts: uc.config.Training.Restarts,
	})
	if errors.Is(err, cluster.ErrTooFewPoints) {
		return []int{}, nil
	}
	if err != nil {
		return nil, err
	}

	habits := make([]domain.HabitCenter, len(centers))
	for i, c := range centers {
		habits[i] = shared.RoundCenter(c)
	}
	return domain.ExpandCenters(habits, habitRadius), nil
}
