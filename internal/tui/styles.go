package tui

import "github.com/charmbracelet/lipgloss"

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Background lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	// Slot colors
	Deep    lipgloss.Color
	Shallow lipgloss.Color
	Task    lipgloss.Color
}{
	Primary:    lipgloss.Color("#6C5CE7"), // Purple
	Secondary:  lipgloss.Color("#A29BFE"), // Lavender
	Muted:      lipgloss.Color("#636E72"), // Gray
	Error:      lipgloss.Color("#D63031"), // Red
	Success:    lipgloss.Color("#00B894"), // Green
	Warning:    lipgloss.Color("#FDCB6E"), // Yellow
	Background: lipgloss.Color("#2D3436"), // Dark gray

	TitleNormal:   lipgloss.Color("#DFE6E9"), // Light gray
	TitleSelected: lipgloss.Color("#FFEAA7"), // Yellow

	Deep:    lipgloss.Color("#3B3270"), // Dark purple
	Shallow: lipgloss.Color("#1F4E5F"), // Teal
	Task:    lipgloss.Color("#74B9FF"), // Light blue
}

// Styles contains all the lipgloss styles for the TUI.
type Styles struct {
	App lipgloss.Style

	// Header
	Header    lipgloss.Style
	DayHeader lipgloss.Style
	DayToday  lipgloss.Style
	HourLabel lipgloss.Style

	// Grid cells
	Cell        lipgloss.Style
	CellPast    lipgloss.Style
	CellDeep    lipgloss.Style
	CellShallow lipgloss.Style
	CellTask    lipgloss.Style
	CellCursor  lipgloss.Style

	// Detail panel
	DetailLabel lipgloss.Style
	DetailValue lipgloss.Style

	// Dialog
	Dialog      lipgloss.Style
	DialogTitle lipgloss.Style

	// Footer
	Footer   lipgloss.Style
	Status   lipgloss.Style
	ErrorMsg lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	cell := lipgloss.NewStyle().Foreground(Colors.TitleNormal)
	return Styles{
		App: lipgloss.NewStyle().Padding(0, 1),

		Header: lipgloss.NewStyle().
			Foreground(Colors.Primary).
			Bold(true),
		DayHeader: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Bold(true),
		DayToday: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true).
			Underline(true),
		HourLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Cell:        cell,
		CellPast:    cell.Foreground(Colors.Muted),
		CellDeep:    cell.Background(Colors.Deep),
		CellShallow: cell.Background(Colors.Shallow),
		CellTask: lipgloss.NewStyle().
			Foreground(Colors.Task).
			Bold(true),
		CellCursor: lipgloss.NewStyle().
			Foreground(Colors.Background).
			Background(Colors.TitleSelected).
			Bold(true),

		DetailLabel: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(12),
		DetailValue: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Colors.Warning).
			Padding(0, 1),
		DialogTitle: lipgloss.NewStyle().
			Foreground(Colors.Warning).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(Colors.Muted),
		Status: lipgloss.NewStyle().
			Foreground(Colors.Success),
		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),
	}
}
