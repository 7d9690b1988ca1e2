package tui

import (
	"time"

	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgWeekLoaded carries a fresh snapshot of the week.
type MsgWeekLoaded struct {
	Now      time.Time
	Location *time.Location
	Profile  *domain.Profile
	Tasks    []*domain.Task // Pending tasks
}

func (MsgWeekLoaded) sealed() {}

// MsgScheduled is sent when an allocation run finishes.
type MsgScheduled struct {
	Output *usecase.AllocateScheduleOutput
}

func (MsgScheduled) sealed() {}

// MsgRetrained is sent when a retrain run finishes.
type MsgRetrained struct {
	Output *usecase.RetrainProfileOutput
}

func (MsgRetrained) sealed() {}

// MsgTaskCompleted is sent when a task is marked done.
type MsgTaskCompleted struct {
	TaskID int
}

func (MsgTaskCompleted) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}
