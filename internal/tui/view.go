package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/runoshun/weekplan/internal/domain"
)

const (
	hourLabelWidth = 6
	minCellWidth   = 6
	maxCellWidth   = 18
	chromeLines    = 9 // Header, day row, detail panel and footer
)

// View renders the TUI.
func (m *Model) View() string {
	if !m.loaded && m.err == nil {
		return "Loading..."
	}

	var content string
	switch m.mode {
	case ModeHelp:
		content = m.viewHelp()
	case ModeNormal, ModeConfirm:
		content = m.viewMain()
	}
	return m.styles.App.Render(content)
}

func (m *Model) viewMain() string {
	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if m.loaded {
		b.WriteString(m.viewGrid())
		b.WriteString("\n")
		b.WriteString(m.viewDetail())
	}

	if m.mode == ModeConfirm {
		b.WriteString("\n")
		b.WriteString(m.viewConfirmDialog())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m *Model) viewHeader() string {
	title := m.styles.Header.Render("weekplan")
	if !m.loaded {
		return title
	}
	week := fmt.Sprintf("  week of %s", m.weekStart.Format("Mon Jan 2, 2006"))
	counts := fmt.Sprintf("  %d scheduled, %d waiting", len(m.slots), len(m.unslotted))
	return title + m.styles.Footer.Render(week+counts)
}

func (m *Model) cellWidth() int {
	if m.width == 0 {
		return 12
	}
	w := (m.width - hourLabelWidth - 2) / domain.DaysPerWeek
	return max(minCellWidth, min(w, maxCellWidth))
}

// visibleHours returns the hour rows that fit the window, keeping the cursor in view.
func (m *Model) visibleHours() (first, last int) {
	rows := domain.HoursPerDay
	if m.height > 0 {
		rows = max(1, min(m.height-chromeLines, domain.HoursPerDay))
	}
	first = domain.SlotHour(m.cursor) - rows/2
	first = max(0, min(first, domain.HoursPerDay-rows))
	return first, first + rows - 1
}

func (m *Model) viewGrid() string {
	cw := m.cellWidth()
	var b strings.Builder

	b.WriteString(strings.Repeat(" ", hourLabelWidth))
	today := domain.SlotDay(m.current)
	for d := 0; d < domain.DaysPerWeek; d++ {
		date := m.weekStart.AddDate(0, 0, d)
		label := fmt.Sprintf("%s %d", domain.ShortDayNames[d], date.Day())
		style := m.styles.DayHeader
		if d == today {
			style = m.styles.DayToday
		}
		b.WriteString(style.Width(cw).Render(truncate(label, cw-1)))
	}
	b.WriteString("\n")

	first, last := m.visibleHours()
	for h := first; h <= last; h++ {
		b.WriteString(m.styles.HourLabel.Width(hourLabelWidth).Render(fmt.Sprintf("%02d:00", h)))
		for d := 0; d < domain.DaysPerWeek; d++ {
			b.WriteString(m.renderCell(domain.SlotFromDayHour(d, h), cw))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderCell(slot, width int) string {
	text := "·"
	if t := m.slots[slot]; t != nil {
		text = fmt.Sprintf("#%d %s", t.ID, t.Name)
	} else if m.deep[slot] {
		text = "deep"
	} else if m.shallow[slot] {
		text = "shallow"
	}
	text = truncate(text, width-1)

	var style lipgloss.Style
	switch {
	case slot == m.cursor:
		style = m.styles.CellCursor
	case m.slots[slot] != nil:
		style = m.styles.CellTask
	case slot < m.current:
		style = m.styles.CellPast
	case m.deep[slot]:
		style = m.styles.CellDeep
	case m.shallow[slot]:
		style = m.styles.CellShallow
	default:
		style = m.styles.Cell
	}
	return style.Width(width).Render(text)
}

func (m *Model) viewDetail() string {
	var lines []string
	row := func(label, value string) {
		lines = append(lines, m.styles.DetailLabel.Render(label)+m.styles.DetailValue.Render(value))
	}

	at := domain.SlotStart(m.weekStart, m.cursor)
	row("Slot", fmt.Sprintf("%s (%s)", domain.SlotLabel(m.cursor), at.Format("Jan 2 15:04")))
	switch {
	case m.deep[m.cursor]:
		row("Profile", "preferred for deep work")
	case m.shallow[m.cursor]:
		row("Profile", "preferred for shallow work")
	}

	if t := m.SelectedTask(); t != nil {
		row("Task", fmt.Sprintf("#%d %s", t.ID, t.Name))
		row("Minutes", fmt.Sprintf("%d (%s)", t.EffectiveMinutes(), t.Kind(m.deepThreshold())))
		if t.DueDate != nil {
			row("Due", t.DueDate.In(m.loc).Format("Mon Jan 2 15:04"))
		}
		if t.PredictedPriority != "" {
			row("Priority", t.PredictedPriority)
		}
	} else if m.cursor < m.current {
		row("", "past")
	} else {
		row("", "free")
	}
	return strings.Join(lines, "\n") + "\n"
}

func (m *Model) deepThreshold() int {
	if m.container != nil && m.container.AppConfig != nil {
		return m.container.AppConfig.Calendar.DeepWorkThresholdMin
	}
	return domain.DefaultDeepWorkThresholdMin
}

func (m *Model) viewConfirmDialog() string {
	task := m.slots[m.cursor]
	name := ""
	if task != nil {
		name = task.Name
	}
	body := m.styles.DialogTitle.Render("Complete task?") + "\n" +
		fmt.Sprintf("#%d %s", m.confirmID, name) + "\n" +
		m.styles.Footer.Render("y: confirm  n/esc: cancel")
	return m.styles.Dialog.Render(body)
}

func (m *Model) viewFooter() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.styles.Status.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

func (m *Model) viewHelp() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render("weekplan: keys"))
	b.WriteString("\n\n")
	b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	b.WriteString("\n\n")
	b.WriteString(m.styles.Footer.Render("Cells marked deep/shallow are preferred slots from the learned profile."))
	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("Press ? or esc to close."))
	return b.String()
}

func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}
