// Package export renders trajectories as standalone SVG documents.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/san-kum/contnet/internal/analysis"
)

var ErrTooFewPoints = errors.New("export: need at least two points")

// SVGOptions control the canvas of a rendered path.
type SVGOptions struct {
	Width       int
	Height      int
	Stroke      string
	Background  string
	StrokeWidth float64
}

func DefaultSVGOptions() SVGOptions {
	return SVGOptions{
		Width:       640,
		Height:      480,
		Stroke:      "#00ff00",
		Background:  "#0a0a0a",
		StrokeWidth: 1.5,
	}
}

// TimeSeries pairs every time with the matching value.
func TimeSeries(times, values []float64) []analysis.Point {
	n := min(len(times), len(values))
	pts := make([]analysis.Point, n)
	for i := range pts {
		pts[i] = analysis.Point{X: times[i], Y: values[i]}
	}
	return pts
}

// WriteSVG draws points as one polyline scaled to fill the canvas with 10%
// padding on each side.
func WriteSVG(w io.Writer, points []analysis.Point, opts SVGOptions) error {
	if len(points) < 2 {
		return ErrTooFewPoints
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX = min(minX, p.X)
		maxX = max(maxX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
<path fill="none" stroke="%s" stroke-width="%.1f" d="M`,
		opts.Width, opts.Height, opts.Width, opts.Height, opts.Background, opts.Stroke, opts.StrokeWidth)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(opts.Width)
		y := float64(opts.Height) - (p.Y-minY)/rangeY*float64(opts.Height)

		if i == 0 {
			fmt.Fprintf(bw, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(bw, " L%.1f,%.1f", x, y)
		}
	}

	bw.WriteString(`"/>
</svg>
`)
	return bw.Flush()
}
