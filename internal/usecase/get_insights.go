package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/runoshun/weekplan/internal/cluster"
	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase/shared"
)

// insightClusters is the number of habits the insight engine looks for.
const insightClusters = 2

// GetInsightsInput contains the parameters for computing insights.
type GetInsightsInput struct{}

// GetInsightsOutput contains the insight text and weekday histogram.
// DailySummary is nil when there is not enough data.
// Fields are ordered to minimize memory padding.
type GetInsightsOutput struct {
	DailySummary *domain.DailySummary `json:"daily_summary"`
	Center       *domain.HabitCenter  `json:"-"`
	Insight      string               `json:"insight"`
	Priority     string               `json:"-"`
	ClusterSize  int                  `json:"-"`
	Sufficient   bool                 `json:"-"`
}

// GetInsights is the use case for describing the dominant completion habit.
type GetInsights struct {
	tasks  domain.TaskRepository
	logger domain.Logger
	config *domain.Config
}

// NewGetInsights creates a new GetInsights use case.
func NewGetInsights(tasks domain.TaskRepository, config *domain.Config, logger domain.Logger) *GetInsights {
	if config == nil {
		config = domain.NewDefaultConfig()
	}
	return &GetInsights{tasks: tasks, config: config, logger: domain.LoggerOrNop(logger)}
}

// Execute clusters completion times and describes the largest cluster.
func (uc *GetInsights) Execute(ctx context.Context, _ GetInsightsInput) (*GetInsightsOutput, error) {
	loc, err := uc.config.Location()
	if err != nil {
		return nil, err
	}

	completed, err := uc.tasks.List(ctx, domain.FilterStatus(domain.StatusCompleted))
	if err != nil {
		return nil, fmt.Errorf("list completed tasks: %w", err)
	}

	var done []*domain.Task
	for _, t := range completed {
		if t.CompletedAt != nil {
			done = append(done, t)
		}
	}
	if len(done) < uc.config.Insights.MinCompleted || len(done) < insightClusters {
		return &GetInsightsOutput{Insight: domain.NotEnoughDataInsight}, nil
	}

	points := shared.CompletionPoints(done, loc)
	var counts [domain.DaysPerWeek]int
	for _, p := range points {
		counts[int(p[0])]++
	}

	centers, labels, err := cluster.Standardized(points, insightClusters, cluster.Options{
		Rand:     domain.NewSeededRandom(uc.config.Training.Seed),
		Restarts: uc.config.Training.Restarts,
	})
	if err != nil {
		return nil, fmt.Errorf("cluster completions: %w", err)
	}

	top := modeLabel(labels, len(centers))
	var priorities []string
	for i, l := range labels {
		if l == top {
			priorities = append(priorities, done[i].PriorityLabel())
		}
	}
	center := shared.RoundCenter(centers[top])
	priority := modeString(priorities)

	uc.logger.Debug("insights", "habit found", "center", center.String(), "size", len(priorities))
	return &GetInsightsOutput{
		DailySummary: domain.NewDailySummary(counts),
		Center:       &center,
		Insight:      domain.HabitSentence(center, len(priorities), priority),
		Priority:     priority,
		ClusterSize:  len(priorities),
		Sufficient:   true,
	}, nil
}

// modeLabel returns the most frequent label. Ties go to the lower label.
func modeLabel(labels []int, k int) int {
	return (&cluster.Result{Centers: make([]cluster.Point, k), Labels: labels}).Largest()
}

// modeString returns the most frequent value. Ties go to the smallest string.
func modeString(values []string) string {
	counts := map[string]int{}
	for _, v := range values {
		counts[v]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", 0
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}
