package shared

import (
	"testing"
	"time"

	"github.com/runoshun/weekplan/internal/cluster"
	"github.com/runoshun/weekplan/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestWeekday(t *testing.T) {
	assert.Equal(t, 0, Weekday(time.Date(2024, 1, 8, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 2, Weekday(time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6, Weekday(time.Date(2024, 1, 14, 12, 0, 0, 0, time.UTC)))
}

func TestCompletionPoint_UsesLocation(t *testing.T) {
	// Sunday 22:00 UTC is Monday 07:00 at UTC+9.
	ts := time.Date(2024, 1, 14, 22, 0, 0, 0, time.UTC)

	assert.Equal(t, cluster.Point{6, 22}, CompletionPoint(ts, nil))
	assert.Equal(t, cluster.Point{0, 7}, CompletionPoint(ts, time.FixedZone("UTC+9", 9*3600)))
}

func TestCompletionPoints_SkipsMissingTimestamps(t *testing.T) {
	done := time.Date(2024, 1, 9, 14, 30, 0, 0, time.UTC)
	tasks := []*domain.Task{
		{ID: 1, CompletedAt: &done},
		{ID: 2},
	}

	assert.Equal(t, []cluster.Point{{1, 14}}, CompletionPoints(tasks, time.UTC))
}

func TestRoundCenter(t *testing.T) {
	tests := []struct {
		name string
		in   cluster.Point
		want domain.HabitCenter
	}{
		{"plain", cluster.Point{1.2, 9.7}, domain.HabitCenter{Day: 1, Hour: 10}},
		{"half to even", cluster.Point{2.5, 10.5}, domain.HabitCenter{Day: 2, Hour: 10}},
		{"clamped", cluster.Point{6.6, 23.6}, domain.HabitCenter{Day: 6, Hour: 23}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RoundCenter(tt.in))
		})
	}
}
