package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles are the lipgloss styles derived from a Theme.
type Styles struct {
	Header      lipgloss.Style
	Panel       lipgloss.Style
	Graph       lipgloss.Style
	Label       lipgloss.Style
	Value       lipgloss.Style
	KeyHint     lipgloss.Style
	Playing     lipgloss.Style
	Paused      lipgloss.Style
	SparkHigh   lipgloss.Style
	SparkMid    lipgloss.Style
	SparkLow    lipgloss.Style
	TableHeader lipgloss.Style
	TableCell   lipgloss.Style
}

func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Ink).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Faint),
		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Faint).
			Padding(0, 1),
		Graph:       lipgloss.NewStyle().Foreground(t.Trace),
		Label:       lipgloss.NewStyle().Foreground(t.Faint).Width(14),
		Value:       lipgloss.NewStyle().Foreground(t.Trace).Bold(true),
		KeyHint:     lipgloss.NewStyle().Foreground(t.Faint).Italic(true),
		Playing:     lipgloss.NewStyle().Bold(true).Foreground(t.Good),
		Paused:      lipgloss.NewStyle().Bold(true).Foreground(t.Warn),
		SparkHigh:   lipgloss.NewStyle().Foreground(t.Good),
		SparkMid:    lipgloss.NewStyle().Foreground(t.Warn),
		SparkLow:    lipgloss.NewStyle().Foreground(t.Bad),
		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(t.Ink).Padding(0, 1),
		TableCell:   lipgloss.NewStyle().Foreground(t.Ink).Padding(0, 1),
	}
}

// ProgressBar renders a bar filled to percent in [0, 1].
func (s Styles) ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	filled = max(0, min(filled, width))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case percent > 0.8:
		return s.SparkHigh.Render(bar)
	case percent > 0.4:
		return s.SparkMid.Render(bar)
	}
	return s.SparkLow.Render(bar)
}

// Sparkline renders values as block characters, sampled to fit width.
func (s Styles) Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := max(len(values)/width, 1)

	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := max(0, min(int(norm*float64(len(chars)-1)), len(chars)-1))

		c := string(chars[idx])
		switch {
		case norm > 0.7:
			result.WriteString(s.SparkHigh.Render(c))
		case norm > 0.3:
			result.WriteString(s.SparkMid.Render(c))
		default:
			result.WriteString(s.SparkLow.Render(c))
		}
	}
	return result.String()
}
