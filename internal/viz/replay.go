package viz

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/contnet/internal/storage"
)

type tickMsg time.Time

// Replay steps through a recorded trajectory one state per frame.
type Replay struct {
	title   string
	traj    storage.Trajectory
	metrics map[string]float64
	norms   []float64

	playHead  int
	component int
	playing   bool
	quitting  bool

	theme  Theme
	styles Styles
	width  int
	height int
	fps    int
}

// NewReplay builds a viewer positioned at the initial state.
func NewReplay(title string, traj storage.Trajectory, metrics map[string]float64, theme Theme) *Replay {
	return &Replay{
		title:   title,
		traj:    traj,
		metrics: metrics,
		norms:   Norms(traj.States),
		playing: true,
		theme:   theme,
		styles:  NewStyles(theme),
		width:   60,
		height:  8,
		fps:     30,
	}
}

func (r *Replay) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(r.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (r *Replay) Init() tea.Cmd {
	return r.tick()
}

// PlayHead is the index of the state on screen.
func (r *Replay) PlayHead() int { return r.playHead }

func (r *Replay) Playing() bool { return r.playing }

func (r *Replay) Component() int { return r.component }

func (r *Replay) last() int { return max(len(r.traj.States)-1, 0) }

func (r *Replay) dim() int {
	if len(r.traj.States) == 0 {
		return 0
	}
	return r.traj.States[0].Len()
}

func (r *Replay) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			r.quitting = true
			return r, tea.Quit
		case " ":
			r.playing = !r.playing
			if r.playing && r.playHead == r.last() {
				r.playHead = 0
			}
		case "left", "h":
			r.playing = false
			r.playHead = max(r.playHead-1, 0)
		case "right", "l":
			r.playing = false
			r.playHead = min(r.playHead+1, r.last())
		case "home":
			r.playHead = 0
		case "end":
			r.playHead = r.last()
		case "[":
			if d := r.dim(); d > 0 {
				r.component = (r.component + d - 1) % d
			}
		case "]":
			if d := r.dim(); d > 0 {
				r.component = (r.component + 1) % d
			}
		case "t":
			r.theme = r.theme.next()
			r.styles = NewStyles(r.theme)
		}

	case tea.WindowSizeMsg:
		r.width = max(msg.Width-20, 20)
		r.height = max(msg.Height/4, 4)

	case tickMsg:
		if r.playing {
			if r.playHead < r.last() {
				r.playHead++
			} else {
				r.playing = false
			}
		}
		return r, r.tick()
	}
	return r, nil
}

func (r *Replay) View() string {
	if r.quitting {
		return ""
	}
	s := r.styles

	var b strings.Builder
	b.WriteString(s.Header.Render(fmt.Sprintf("contnet replay: %s", r.title)))
	b.WriteString("\n\n")

	if len(r.traj.States) == 0 {
		b.WriteString(s.KeyHint.Render("empty trajectory"))
		return b.String()
	}

	status := s.Paused.Render("PAUSED")
	if r.playing {
		status = s.Playing.Render("PLAYING")
	}
	progress := float64(r.playHead) / float64(max(r.last(), 1))
	b.WriteString(fmt.Sprintf("%s  %s  step %d/%d  t=%.4f\n\n",
		status, s.ProgressBar(progress, 20), r.playHead, r.last(), r.traj.Times[r.playHead]))

	upto := r.traj.States[:r.playHead+1]
	if series, err := Component(upto, r.component); err == nil {
		graph := asciigraph.Plot(padSeries(series),
			asciigraph.Height(r.height),
			asciigraph.Width(r.width),
			asciigraph.Caption(fmt.Sprintf("x%d", r.component)))
		b.WriteString(s.Graph.Render(graph))
		b.WriteString("\n\n")
	}

	b.WriteString(s.Label.Render("||x||"))
	b.WriteString(s.Value.Render(fmt.Sprintf("%.6g", r.norms[r.playHead])))
	b.WriteString("  ")
	b.WriteString(s.Sparkline(r.norms[:r.playHead+1], 30))
	b.WriteString("\n")

	if len(r.metrics) > 0 {
		names := make([]string, 0, len(r.metrics))
		for name := range r.metrics {
			names = append(names, name)
		}
		sort.Strings(names)

		rows := make([]string, 0, len(names))
		for _, name := range names {
			rows = append(rows, s.Label.Render(name)+s.Value.Render(fmt.Sprintf("%.6g", r.metrics[name])))
		}
		b.WriteString("\n")
		b.WriteString(s.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.KeyHint.Render("space play/pause  ←/→ step  [/] component  t theme (" + r.theme.Name + ")  q quit"))
	return b.String()
}

// padSeries gives asciigraph at least two points to draw.
func padSeries(v []float64) []float64 {
	if len(v) == 1 {
		return []float64{v[0], v[0]}
	}
	return v
}

// SetFrameRate sets the playback rate in states per second.
func (r *Replay) SetFrameRate(fps int) {
	if fps > 0 {
		r.fps = fps
	}
}
