// Package gui is the raylib window front-end. The left pane shows the body in
// world coordinates; the right pane shows telemetry and tunable parameters.
package gui
