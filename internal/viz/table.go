package viz

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/contnet/internal/ode"
)

// SchemeTable renders the scheme registry.
func SchemeTable(s Styles, infos []ode.MethodInfo) string {
	header := []string{"SCHEME", "STAGES", "ORDER"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		rows = append(rows, []string{info.Name, strconv.Itoa(info.Stages), strconv.Itoa(info.Order)})
	}
	return renderTable(s, header, rows)
}

func renderTable(s Styles, header []string, rows [][]string) string {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		parts := make([]string, len(cells))
		for i, c := range cells {
			parts[i] = style.Width(widths[i] + 2).Render(c)
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	var b strings.Builder
	b.WriteString(line(header, s.TableHeader))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(line(row, s.TableCell))
	}
	return s.Panel.Render(b.String())
}
