package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/contnet/internal/analysis"
	"github.com/san-kum/contnet/internal/ode"
	"github.com/san-kum/contnet/internal/storage"
	"github.com/san-kum/contnet/internal/tensor"
)

func testTrajectory() storage.Trajectory {
	return storage.Trajectory{
		Times: []float64{0, 0.25, 0.5, 0.75, 1},
		States: []tensor.Tensor{
			tensor.Vector(1, 0),
			tensor.Vector(0.75, 0.5),
			tensor.Vector(0.5, 1),
			tensor.Vector(0.25, 0.5),
			tensor.Vector(0, 0),
		},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestReplay_PlaysToEnd(t *testing.T) {
	r := NewReplay("decay", testTrajectory(), nil, ThemePaper)
	if r.Init() == nil {
		t.Fatal("Init should schedule a tick")
	}

	for i := 0; i < 10; i++ {
		r.Update(tickMsg{})
	}
	if r.PlayHead() != 4 {
		t.Errorf("play head = %d, want 4", r.PlayHead())
	}
	if r.Playing() {
		t.Error("replay should pause at the final state")
	}
}

func TestReplay_Keys(t *testing.T) {
	r := NewReplay("decay", testTrajectory(), nil, ThemePaper)

	r.Update(key(" "))
	if r.Playing() {
		t.Fatal("space should pause")
	}

	r.Update(key("right"))
	r.Update(key("right"))
	if r.PlayHead() != 2 {
		t.Errorf("play head = %d, want 2", r.PlayHead())
	}
	r.Update(key("left"))
	r.Update(key("left"))
	r.Update(key("left"))
	if r.PlayHead() != 0 {
		t.Errorf("play head = %d, want 0", r.PlayHead())
	}

	r.Update(key("]"))
	if r.Component() != 1 {
		t.Errorf("component = %d, want 1", r.Component())
	}
	r.Update(key("]"))
	if r.Component() != 0 {
		t.Errorf("component should wrap, got %d", r.Component())
	}
	r.Update(key("["))
	if r.Component() != 1 {
		t.Errorf("component should wrap backwards, got %d", r.Component())
	}

	r.Update(key("t"))
	if r.theme.Name == ThemePaper.Name {
		t.Error("t should cycle the theme")
	}

	if _, cmd := r.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}
	if r.View() != "" {
		t.Error("view should be empty after quitting")
	}
}

func TestReplay_View(t *testing.T) {
	r := NewReplay("oscillator", testTrajectory(), map[string]float64{"energy_drift": 0.01}, ThemePhosphor)
	r.Update(key(" "))
	r.Update(key("right"))

	view := r.View()
	for _, want := range []string{"oscillator", "PAUSED", "step 1/4", "energy_drift", "||x||"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestReplay_Empty(t *testing.T) {
	r := NewReplay("none", storage.Trajectory{}, nil, ThemePaper)
	r.Update(tickMsg{})
	if !strings.Contains(r.View(), "empty trajectory") {
		t.Error("empty trajectory should render a placeholder")
	}
}

func TestComponentAndNorms(t *testing.T) {
	traj := testTrajectory()

	got, err := Component(traj.States, 1)
	if err != nil {
		t.Fatal(err)
	}
	want := []float64{0, 0.5, 1, 0.5, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("component[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := Component(traj.States, 2); err == nil {
		t.Error("expected out of range error")
	}

	norms := Norms(traj.States)
	if norms[0] != 1 || norms[4] != 0 {
		t.Errorf("norms = %v", norms)
	}
}

func TestPlots(t *testing.T) {
	traj := testTrajectory()

	out, err := PlotComponent(traj.States, 0, 20, 4)
	if err != nil || !strings.Contains(out, "x0") {
		t.Errorf("PlotComponent = %q, %v", out, err)
	}
	out, err = PlotComponents(traj.States, []int{0, 1}, 20, 4)
	if err != nil || !strings.Contains(out, "components [0 1]") {
		t.Errorf("PlotComponents = %q, %v", out, err)
	}
	if out := PlotNorms(traj.States, 20, 4); !strings.Contains(out, "||x||") {
		t.Errorf("PlotNorms = %q", out)
	}
	if PlotNorms(nil, 20, 4) != "" {
		t.Error("PlotNorms of nothing should be empty")
	}

	res := []analysis.ConvergenceResult{{Method: ode.MethodEuler, Steps: []int{2, 4}, Errors: []float64{0.1, 0.05}}}
	if out := PlotConvergence(res, 20, 4); !strings.Contains(out, "log2") {
		t.Errorf("PlotConvergence = %q", out)
	}
}

func TestSchemeTable(t *testing.T) {
	infos := make([]ode.MethodInfo, 0)
	for _, m := range ode.Methods() {
		infos = append(infos, m.Info())
	}
	out := SchemeTable(NewStyles(ThemePaper), infos)
	for _, want := range []string{"SCHEME", "Euler", "Midpoint", "RK4_38"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestSparkline(t *testing.T) {
	s := NewStyles(ThemePaper)
	if got := s.Sparkline(nil, 5); got != "─────" {
		t.Errorf("empty sparkline = %q", got)
	}
	if out := s.Sparkline([]float64{0, 1, 2, 3}, 4); !strings.Contains(out, "█") || !strings.Contains(out, "▁") {
		t.Errorf("sparkline = %q", out)
	}
}

func TestGetTheme(t *testing.T) {
	if GetTheme("paper").Name != "paper" {
		t.Error("paper theme not found")
	}
	if GetTheme("nope").Name != ThemePhosphor.Name {
		t.Error("unknown theme should fall back to phosphor")
	}
	if ThemePaper.next().Name != ThemePhosphor.Name {
		t.Error("next should wrap to the first theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("ThemeNames length mismatch")
	}
}
