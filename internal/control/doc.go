// Package control provides the sources of pressure events that drive the
// piston.
//
// Each controller returns the pressure events to apply before a frame is
// stepped:
//
//   - [Manual]: key presses queued by a frontend
//   - [PID]: autopilot that holds the small column at a target height
//   - [None]: never touches the piston
//
// # Usage
//
//	pid := control.NewPID(0.8, 0.01, 0.1, 0.7) // Kp, Ki, Kd, target height
//	events := pid.Compute(app, frame)
//	app.ApplyAll(events)
//
// The live view retargets the autopilot through GetParams/SetParam.
package control
