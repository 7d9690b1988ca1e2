package shared

import (
	"math"
	"time"

	"github.com/runoshun/weekplan/internal/cluster"
	"github.com/runoshun/weekplan/internal/domain"
)

// Weekday returns the Monday-based day index (0-6) of t.
func Weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % domain.DaysPerWeek
}

// CompletionPoint projects a completion timestamp to (weekday, hour) in loc.
func CompletionPoint(t time.Time, loc *time.Location) cluster.Point {
	if loc == nil {
		loc = time.UTC
	}
	lt := t.In(loc)
	return cluster.Point{float64(Weekday(lt)), float64(lt.Hour())}
}

// CompletionPoints projects the completion time of every task that has one.
func CompletionPoints(tasks []*domain.Task, loc *time.Location) []cluster.Point {
	points := make([]cluster.Point, 0, len(tasks))
	for _, t := range tasks {
		if t.CompletedAt != nil {
			points = append(points, CompletionPoint(*t.CompletedAt, loc))
		}
	}
	return points
}

// RoundCenter rounds a cluster center half to even and clamps it into the week.
func RoundCenter(p cluster.Point) domain.HabitCenter {
	return domain.ClampHabitCenter(int(math.RoundToEven(p[0])), int(math.RoundToEven(p[1])))
}
