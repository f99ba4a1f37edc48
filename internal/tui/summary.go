package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Tone selects how a summary value is rendered, so failure counts stand out
// from rename counts in the end-of-run table.
type Tone int

const (
	ToneNeutral Tone = iota
	ToneSuccess
	ToneWarn
)

// SummaryRow is one line of the end-of-run table.
type SummaryRow struct {
	Label string
	Value string
	Tone  Tone
}

// RenderSummary lays the rows out as a ruled two-column table. Labels are
// dimmed, values are right-aligned and colored by tone.
func RenderSummary(rows []SummaryRow) string {
	labelWidth := 0
	valueWidth := 0
	for _, row := range rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
		if len(row.Value) > valueWidth {
			valueWidth = len(row.Value)
		}
	}

	labelCell := lipgloss.NewStyle().Foreground(ColorDim).Width(labelWidth)
	rule := strings.Repeat("-", labelWidth+valueWidth+3)

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, rule)
	for _, row := range rows {
		value := toneStyle(row.Tone).Align(lipgloss.Right).Width(valueWidth).Render(row.Value)
		lines = append(lines, labelCell.Render(row.Label)+" | "+value)
	}
	lines = append(lines, rule)

	return strings.Join(lines, "\n")
}

func toneStyle(t Tone) lipgloss.Style {
	switch t {
	case ToneSuccess:
		return lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	case ToneWarn:
		return lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(ColorInk).Bold(true)
	}
}
