package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/runoshun/weekplan/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case MsgWeekLoaded:
		m.applyWeek(msg)
		return m, nil

	case MsgScheduled:
		out := msg.Output
		m.err = nil
		m.status = fmt.Sprintf("Scheduled %d new task(s), %d already placed", len(out.Newly), len(out.Already))
		if n := len(out.Unscheduled); n > 0 {
			m.status += fmt.Sprintf(", %d without a free slot", n)
		}
		return m, m.loadWeek()

	case MsgRetrained:
		m.err = nil
		m.status = msg.Output.Message
		return m, m.loadWeek()

	case MsgTaskCompleted:
		m.mode = ModeNormal
		m.confirmID = 0
		m.err = nil
		m.status = fmt.Sprintf("Completed task #%d", msg.TaskID)
		return m, m.loadWeek()

	case MsgError:
		m.mode = ModeNormal
		m.err = msg.Err
		m.status = ""
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case ModeHelp:
		return m.handleHelpMode(msg)
	case ModeConfirm:
		return m.handleConfirmMode(msg)
	case ModeNormal:
		return m.handleNormalMode(msg)
	}
	return m, nil
}

func (m *Model) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.mode = ModeHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
		return m, nil

	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-domain.HoursPerDay)
		return m, nil

	case key.Matches(msg, m.keys.Right):
		m.moveCursor(domain.HoursPerDay)
		return m, nil

	case key.Matches(msg, m.keys.Now):
		m.cursor = m.current
		m.cursorMoved = false
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadWeek()

	case key.Matches(msg, m.keys.Schedule):
		m.status = "Scheduling..."
		return m, m.runSchedule()

	case key.Matches(msg, m.keys.Retrain):
		m.status = "Retraining..."
		return m, m.runRetrain()

	case key.Matches(msg, m.keys.Done):
		task := m.SelectedTask()
		if task == nil {
			return m, nil
		}
		m.confirmID = task.ID
		m.mode = ModeConfirm
		return m, nil
	}
	return m, nil
}

func (m *Model) handleConfirmMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		id := m.confirmID
		m.mode = ModeNormal
		return m, m.completeTask(id)
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Quit), msg.String() == "n":
		m.mode = ModeNormal
		m.confirmID = 0
	}
	return m, nil
}

func (m *Model) handleHelpMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Escape) || key.Matches(msg, m.keys.Quit) {
		m.mode = ModeNormal
	}
	return m, nil
}
