// Package viz renders filter state in the terminal.
//
// [RenderGrid] draws the pad grid as a colour heat map, [RenderTopPads]
// lists the selected pads and [TracePlot] charts a probability series.
// [Stepper] is a Bubble Tea model for walking a subject through a list of
// rotation angles one step at a time.
//
// # Key Bindings
//
//	→/L/N - Run the next angle (or move forward through history)
//	←/H/P - Step back through earlier results
//	C     - Toggle cumulative stepping
//	R     - Reset to the calibration distribution
//	T     - Cycle color themes
//	Q     - Quit
package viz
