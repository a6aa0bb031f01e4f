// Package hydro models fluid-pressure equilibrium between two connected
// containers.
//
// A wide "big" container carries a piston; a narrow "small" container is
// joined to it by a tube at the bottom. Pressure at the bottom of each
// column is
//
//	P = density * height * gravity
//
// and is independent of the container's cross section. Pushing the piston
// adds an applied pressure to the big side, which raises the level on the
// small side until both sides balance again.
//
//   - [Container]: one side of the apparatus (height, width, display quad)
//   - [Apparatus]: both containers plus the applied pressure
//   - [PressureEvent]: a discrete change of the applied pressure
//   - [Frame]: immutable per-frame snapshot
//
// # Example
//
//	app := hydro.NewClassic()
//	app.Apply(hydro.Increase())
//	for i := 0; i < 60; i++ {
//	    app.Step()
//	}
//
// # Thread Safety
//
// Apparatus is NOT thread-safe. The owning loop applies events and steps
// the model on a single goroutine.
package hydro
