// Package viz renders a running engine in the terminal.
//
// [Model] is a Bubble Tea program that ticks the engine with the wall-clock
// time elapsed between frames and draws every sphere through a fly camera
// onto a braille [Canvas]. [Picker] lists the presets and opens a [Model]
// for the chosen one.
//
// # Key Bindings
//
//	Space   - Toggle run state (paused/running)
//	W/A/S/D - Move camera forward/left/back/right
//	E/C     - Move camera up/down
//	Arrows  - Look around (pitch stops at straight up/down)
//	+/-     - Scale the gravity constant by 1.1
//	R       - Reset the scenario
//	T       - Cycle color themes
//	?       - Show help overlay
//	Q       - Quit
package viz
