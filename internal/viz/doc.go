// Package viz draws goal-seeking runs in the terminal.
//
//   - [Canvas]: Braille-based pixel canvas with a world [Viewport]
//   - [Model]: Bubble Tea program stepping a run live with gain tuning
//
// # Key Bindings
//
//	Space  - Pause/Resume simulation
//	R      - Reset to the start pose
//	F      - Toggle forward-only movement
//	Tab    - Select gain
//	Up/K   - Increase gain magnitude (+5%)
//	Down/J - Decrease gain magnitude (-5%)
//	Q      - Quit
package viz
