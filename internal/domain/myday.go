package domain

import (
	"sort"
	"time"
)

// RecentCompletionWindow is how long a completed task stays in the daily list.
const RecentCompletionWindow = 24 * time.Hour

// Today returns midnight of now's date in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// InMyDay reports whether the task was put on the My Day list for now's date in loc.
func (t *Task) InMyDay(now time.Time, loc *time.Location) bool {
	if t.MyDayDate == nil {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.MyDayDate.In(loc).Date()
	ty, tm, td := now.In(loc).Date()
	return y == ty && m == tm && d == td
}

// ToggleMyDay puts the task on today's list, or takes it off if it is already there.
// It returns true when the task is now on the list.
func (t *Task) ToggleMyDay(now time.Time, loc *time.Location) bool {
	if t.InMyDay(now, loc) {
		t.MyDayDate = nil
		return false
	}
	today := Today(now, loc)
	t.MyDayDate = &today
	return true
}

// TaskGroups is the task list as it looks today.
type TaskGroups struct {
	MyDay     []*Task // pending tasks on today's list, earliest due first
	Pending   []*Task // other pending tasks, earliest due first
	Completed []*Task // completed within RecentCompletionWindow, newest first
}

// GroupTasks splits tasks into today's groups. Tasks without a due date sort
// after dated ones; ties keep the input order. Older completed tasks are dropped.
func GroupTasks(tasks []*Task, now time.Time, loc *time.Location) TaskGroups {
	var g TaskGroups
	since := now.Add(-RecentCompletionWindow)
	for _, t := range tasks {
		switch {
		case t.IsPending() && t.InMyDay(now, loc):
			g.MyDay = append(g.MyDay, t)
		case t.IsPending():
			g.Pending = append(g.Pending, t)
		case t.CompletedAt != nil && !t.CompletedAt.Before(since):
			g.Completed = append(g.Completed, t)
		}
	}
	sort.SliceStable(g.MyDay, func(i, j int) bool { return dueBefore(g.MyDay[i], g.MyDay[j]) })
	sort.SliceStable(g.Pending, func(i, j int) bool { return dueBefore(g.Pending[i], g.Pending[j]) })
	sort.SliceStable(g.Completed, func(i, j int) bool {
		return g.Completed[i].CompletedAt.After(*g.Completed[j].CompletedAt)
	})
	return g
}

func dueBefore(a, b *Task) bool {
	switch {
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}
