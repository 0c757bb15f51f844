// Package viz renders integration runs in the terminal.
//
//   - [Replay]: a Bubble Tea viewer that steps through a stored trajectory
//   - [PlotComponent] and [PlotNorms]: asciigraph charts of a trajectory
//   - [SchemeTable]: the scheme registry as a styled table
//
// # Key Bindings
//
//	Space - Play/Pause
//	←/→   - Step backward/forward
//	[/]   - Previous/next plotted component
//	T     - Cycle color themes
//	Q     - Quit
package viz
