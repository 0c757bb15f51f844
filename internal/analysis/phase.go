package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/contnet/internal/tensor"
)

// Point is one sample of a phase portrait.
type Point struct{ X, Y float64 }

// PhasePortrait holds two components of a trajectory.
type PhasePortrait struct {
	XIndex, YIndex int
	Points         []Point
}

// NewPhasePortrait extracts components xIdx and yIdx (flat indices) from
// every state of a trajectory.
func NewPhasePortrait(traj []tensor.Tensor, xIdx, yIdx int) (*PhasePortrait, error) {
	p := &PhasePortrait{
		XIndex: xIdx,
		YIndex: yIdx,
		Points: make([]Point, 0, len(traj)),
	}
	for i, x := range traj {
		if xIdx < 0 || yIdx < 0 || xIdx >= x.Len() || yIdx >= x.Len() {
			return nil, fmt.Errorf("analysis: state %d has %d components, cannot plot (%d, %d)", i, x.Len(), xIdx, yIdx)
		}
		p.Points = append(p.Points, Point{X: x.At(xIdx), Y: x.At(yIdx)})
	}
	return p, nil
}

func (p *PhasePortrait) bounds() (minX, maxX, minY, maxY float64) {
	minX, maxX = p.Points[0].X, p.Points[0].X
	minY, maxY = p.Points[0].Y, p.Points[0].Y
	for _, pt := range p.Points {
		minX = min(minX, pt.X)
		maxX = max(maxX, pt.X)
		minY = min(minY, pt.Y)
		maxY = max(maxY, pt.Y)
	}

	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	// 10% padding
	return minX - rangeX*0.1, maxX + rangeX*0.1, minY - rangeY*0.1, maxY + rangeY*0.1
}

// ASCII draws the portrait on a width x height character grid, with axes
// where they cross the visible area. The first point is drawn as 'o'.
func (p *PhasePortrait) ASCII(width, height int) string {
	if p == nil || len(p.Points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX, minY, maxY := p.bounds()
	rangeX, rangeY := maxX-minX, maxY-minY

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}
	cell := func(x, y float64) (int, int) {
		col := int((x - minX) / rangeX * float64(width-1))
		row := height - 1 - int((y-minY)/rangeY*float64(height-1))
		return row, col
	}

	if minX <= 0 && maxX >= 0 {
		_, col := cell(0, minY)
		for row := 0; row < height; row++ {
			canvas[row][col] = '│'
		}
	}
	if minY <= 0 && maxY >= 0 {
		row, _ := cell(minX, 0)
		for col := 0; col < width; col++ {
			if canvas[row][col] == '│' {
				canvas[row][col] = '┼'
			} else {
				canvas[row][col] = '─'
			}
		}
	}

	for i, pt := range p.Points {
		row, col := cell(pt.X, pt.Y)
		if row < 0 || row >= height || col < 0 || col >= width {
			continue
		}
		if i == 0 {
			canvas[row][col] = 'o'
		} else if canvas[row][col] != 'o' {
			canvas[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
