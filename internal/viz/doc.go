// Package viz provides the live terminal view of a flesh body.
//
// The view is a Bubble Tea program drawing the body on a braille [Canvas]
// through a [Viewport], with a side panel of telemetry and tunable
// parameters. Mouse gestures go through an input.Handler: a click strikes,
// holding longer charges the strike, dragging pulls the flesh.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Rebuild the body
//	S     - Strike the centre
//	W     - Toggle mesh/spring drawing
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
