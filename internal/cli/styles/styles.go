// Package styles renders the board for the terminal
package styles

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/thenoetrevino/kanban/internal/config"
	"github.com/thenoetrevino/kanban/internal/models"
)

var (
	// Column styles
	ColumnStyle lipgloss.Style
	ColumnWidth = 28

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "ID:", "Column:"
	ValueStyle    lipgloss.Style // For field values

	// Status styles
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
)

// Init initializes all CLI styles with the given color scheme
func Init(colors config.ColorScheme) {
	ColumnStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colors.Accent)).
		Padding(0, 1).
		Width(ColumnWidth)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Title))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colors.Normal))

	SuccessStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.Create))

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.ErrorFg)).
		Background(lipgloss.Color(colors.ErrorBg)).
		Padding(0, 1)

	WarningStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colors.WarningFg)).
		Background(lipgloss.Color(colors.WarningBg)).
		Padding(0, 1)
}

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	if hexColor == "" {
		return text
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// ShortID trims a task ID for display
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// RenderBoard lays the columns out side by side in board order,
// each listing its tasks newest first
func RenderBoard(b models.Board) string {
	byColumn := make(map[string][]models.Task, len(b.Columns))
	for _, task := range b.Tasks {
		byColumn[task.Status] = append(byColumn[task.Status], task)
	}

	rendered := make([]string, 0, len(b.Columns))
	for _, col := range b.Columns {
		rendered = append(rendered, renderColumn(col, byColumn[col.ID]))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func renderColumn(col models.Column, tasks []models.Task) string {
	header := ColoredText(fmt.Sprintf("%s (%d)", col.DisplayTitle, len(tasks)), col.Color)

	var b strings.Builder
	b.WriteString(TitleStyle.Render(header))
	b.WriteString("\n")
	b.WriteString(SubtitleStyle.Render(col.ID))
	b.WriteString("\n")
	if len(tasks) == 0 {
		b.WriteString(SubtitleStyle.Render("(empty)"))
	}
	for i, task := range tasks {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(SubtitleStyle.Render(ShortID(task.ID)))
		b.WriteString(" ")
		b.WriteString(ValueStyle.Render(task.Title))
	}

	return ColumnStyle.Render(b.String())
}

// RenderTask renders one task as labelled fields
func RenderTask(task models.Task) string {
	lines := []string{
		TitleStyle.Render(task.Title),
		LabelStyle.Render("ID:") + " " + ValueStyle.Render(task.ID),
		LabelStyle.Render("Column:") + " " + ValueStyle.Render(task.Status),
	}
	if !task.UpdatedAt.IsZero() {
		lines = append(lines, LabelStyle.Render("Updated:")+" "+SubtitleStyle.Render(task.UpdatedAt.Local().Format("2006-01-02 15:04")))
	}
	return strings.Join(lines, "\n")
}

// Success renders a confirmation line
func Success(msg string) string {
	return SuccessStyle.Render("✓") + " " + msg
}
