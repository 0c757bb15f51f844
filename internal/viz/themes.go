package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette the replay and scheme table draw with. Good, Warn and
// Bad grade sparklines and progress from high to low.
type Theme struct {
	Name  string
	Ink   lipgloss.Color
	Trace lipgloss.Color
	Faint lipgloss.Color
	Good  lipgloss.Color
	Warn  lipgloss.Color
	Bad   lipgloss.Color
}

var (
	// ThemePhosphor uses ANSI 256 indices so it degrades on limited terminals.
	ThemePhosphor = Theme{
		Name:  "phosphor",
		Ink:   lipgloss.Color("252"),
		Trace: lipgloss.Color("43"),
		Faint: lipgloss.Color("240"),
		Good:  lipgloss.Color("78"),
		Warn:  lipgloss.Color("179"),
		Bad:   lipgloss.Color("167"),
	}

	ThemePaper = Theme{
		Name:  "paper",
		Ink:   lipgloss.Color("#2b2b2b"),
		Trace: lipgloss.Color("#1f5fa8"),
		Faint: lipgloss.Color("#9a9a9a"),
		Good:  lipgloss.Color("#2e7d32"),
		Warn:  lipgloss.Color("#b26a00"),
		Bad:   lipgloss.Color("#b71c1c"),
	}

	Themes = []Theme{ThemePhosphor, ThemePaper}
)

// GetTheme returns the named theme, or ThemePhosphor when none matches.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemePhosphor
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) next() Theme {
	for i, th := range Themes {
		if th.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}
