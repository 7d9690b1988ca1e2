// Package domain contains core scheduling entities, pure algorithms and port interfaces.
package domain

import (
	"strings"
	"time"
)

// DefaultPredictedMinutes is used when a task carries no duration estimate.
const DefaultPredictedMinutes = 30

// Task is a unit of work as seen by the scheduler.
// Fields are ordered to minimize memory padding.
type Task struct {
	Created            time.Time  `json:"created_at"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	ScheduledTime      *time.Time `json:"scheduled_time,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	MyDayDate          *time.Time `json:"my_day_date,omitempty"`
	PredictedTimeMin   *int       `json:"predicted_time_min,omitempty"`
	ActualTimeTakenMin *int       `json:"actual_time_taken_min,omitempty"`
	Name               string     `json:"task_name"`
	PredictedPriority  string     `json:"predicted_priority,omitempty"`
	Status             Status     `json:"status"`
	ID                 int        `json:"id"`
}

// IsPending reports whether the task takes part in allocation.
func (t *Task) IsPending() bool {
	return t.Status == StatusPending
}

// IsScheduled reports whether the task has been given a slot.
func (t *Task) IsScheduled() bool {
	return t.ScheduledTime != nil
}

// EffectiveMinutes returns the predicted duration, falling back to DefaultPredictedMinutes.
func (t *Task) EffectiveMinutes() int {
	if t.PredictedTimeMin == nil {
		return DefaultPredictedMinutes
	}
	return *t.PredictedTimeMin
}

// Kind classifies the task by its predicted duration.
func (t *Task) Kind(thresholdMin int) WorkKind {
	return ClassifyMinutes(t.EffectiveMinutes(), thresholdMin)
}

// PriorityLabel returns the priority label used by insights.
// Tasks without a label count as "Low".
func (t *Task) PriorityLabel() string {
	if p := strings.TrimSpace(t.PredictedPriority); p != "" {
		return p
	}
	return "Low"
}

// IsTrainable reports whether the task can feed profile training.
func (t *Task) IsTrainable() bool {
	return t.Status == StatusCompleted && t.CompletedAt != nil && t.ActualTimeTakenMin != nil
}

// Clone returns a deep copy of the task.
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	c := *t
	c.DueDate = cloneTime(t.DueDate)
	c.ScheduledTime = cloneTime(t.ScheduledTime)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.MyDayDate = cloneTime(t.MyDayDate)
	c.PredictedTimeMin = cloneInt(t.PredictedTimeMin)
	c.ActualTimeTakenMin = cloneInt(t.ActualTimeTakenMin)
	return &c
}

// WorkKind separates sustained work from short work.
type WorkKind string

const (
	WorkDeep    WorkKind = "deep"
	WorkShallow WorkKind = "shallow"
)

// ClassifyMinutes returns WorkDeep for durations strictly above thresholdMin.
func ClassifyMinutes(minutes, thresholdMin int) WorkKind {
	if minutes > thresholdMin {
		return WorkDeep
	}
	return WorkShallow
}

// ScheduleUpdate is one entry of an atomic scheduled-time batch write.
type ScheduleUpdate struct {
	ScheduledTime time.Time
	TaskID        int
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
