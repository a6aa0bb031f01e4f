// Package viz draws the hydraulic press in the terminal with Bubble Tea.
//
//   - [Model]: live view of one apparatus, keys become pressure events
//   - [SceneCanvas]: braille raster of the scene, water and piston layers
//   - [NewPicker]: preset menu that opens a live view
//
// # Key Bindings
//
//	Space/Up/+       - Push the piston
//	Down/-/Backspace - Pull the piston
//	P                - Pause/Resume
//	R                - Reset to the initial fill
//	T                - Cycle color themes
//	A                - Toggle the autopilot
//	?                - Help overlay
//	Q                - Quit
package viz
