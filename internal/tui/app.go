package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/weekplan/internal/app"
	"github.com/runoshun/weekplan/internal/domain"
	"github.com/runoshun/weekplan/internal/usecase"
)

// Model is the bubbletea model for the week view.
type Model struct {
	// Dependencies (pointers first for alignment)
	container *app.Container
	err       error
	loc       *time.Location
	profile   *domain.Profile

	// State
	tasks       []*domain.Task
	slots       map[int]*domain.Task // Slot index -> pending task scheduled there
	deep        map[int]bool
	shallow     map[int]bool
	unslotted   []*domain.Task // Pending tasks without a slot this week
	status      string
	weekStart   time.Time
	keys        KeyMap
	styles      Styles
	help        help.Model
	mode        Mode
	width       int
	height      int
	cursor      int // Selected slot
	current     int // Slot containing now
	confirmID   int
	loaded      bool
	cursorMoved bool
}

// New creates a new week view bound to the container.
func New(c *app.Container) *Model {
	return &Model{
		container: c,
		mode:      ModeNormal,
		keys:      DefaultKeyMap(),
		styles:    DefaultStyles(),
		help:      help.New(),
		slots:     map[int]*domain.Task{},
		deep:      map[int]bool{},
		shallow:   map[int]bool{},
	}
}

// Init initializes the model and returns the initial command.
func (m *Model) Init() tea.Cmd {
	return m.loadWeek()
}

// loadWeek returns a command that snapshots pending tasks and the profile.
func (m *Model) loadWeek() tea.Cmd {
	c := m.container
	return func() tea.Msg {
		loc, err := c.AppConfig.Location()
		if err != nil {
			return MsgError{Err: err}
		}
		pending := domain.StatusPending
		out, err := c.ListTasksUseCase().Execute(context.Background(), usecase.ListTasksInput{Status: &pending})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgWeekLoaded{
			Now:      c.Clock.Now(),
			Location: loc,
			Profile:  c.Profiles.Current(),
			Tasks:    out.Tasks,
		}
	}
}

// runSchedule returns a command that runs one allocation.
func (m *Model) runSchedule() tea.Cmd {
	c := m.container
	return func() tea.Msg {
		out, err := c.AllocateScheduleUseCase().Execute(context.Background(), usecase.AllocateScheduleInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgScheduled{Output: out}
	}
}

// runRetrain returns a command that retrains the profile.
func (m *Model) runRetrain() tea.Cmd {
	c := m.container
	return func() tea.Msg {
		out, err := c.RetrainProfileUseCase().Execute(context.Background(), usecase.RetrainProfileInput{})
		if err != nil {
			return MsgError{Err: err}
		}
		return MsgRetrained{Output: out}
	}
}

// completeTask returns a command that marks a task done.
func (m *Model) completeTask(id int) tea.Cmd {
	c := m.container
	return func() tea.Msg {
		if _, err := c.CompleteTaskUseCase().Execute(context.Background(), usecase.CompleteTaskInput{TaskID: id}); err != nil {
			return MsgError{Err: err}
		}
		return MsgTaskCompleted{TaskID: id}
	}
}

// applyWeek rebuilds the slot index from a snapshot.
func (m *Model) applyWeek(msg MsgWeekLoaded) {
	m.loc = msg.Location
	m.profile = msg.Profile
	m.tasks = msg.Tasks
	m.weekStart = domain.StartOfWeek(msg.Now, msg.Location)
	m.current = domain.NewWeeklyCalendar(msg.Now, msg.Location).CurrentSlot()

	m.slots = make(map[int]*domain.Task, len(msg.Tasks))
	m.unslotted = nil
	for _, t := range msg.Tasks {
		if t.ScheduledTime != nil {
			if slot, ok := domain.SlotOf(*t.ScheduledTime, m.weekStart); ok {
				if _, taken := m.slots[slot]; !taken {
					m.slots[slot] = t
					continue
				}
			}
		}
		m.unslotted = append(m.unslotted, t)
	}

	m.deep = slotSet(msg.Profile.SlotsFor(domain.WorkDeep))
	m.shallow = slotSet(msg.Profile.SlotsFor(domain.WorkShallow))

	if !m.cursorMoved {
		m.cursor = m.current
	}
	m.loaded = true
}

// SelectedTask returns the task in the selected slot, or nil.
func (m *Model) SelectedTask() *domain.Task {
	return m.slots[m.cursor]
}

// Cursor returns the selected slot.
func (m *Model) Cursor() int {
	return m.cursor
}

func (m *Model) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next > domain.LastSlot {
		return
	}
	// Up/down never wrap across days.
	if (delta == 1 || delta == -1) && domain.SlotDay(next) != domain.SlotDay(m.cursor) {
		return
	}
	m.cursor = next
	m.cursorMoved = true
}

func slotSet(slots []int) map[int]bool {
	out := make(map[int]bool, len(slots))
	for _, s := range slots {
		out[s] = true
	}
	return out
}
