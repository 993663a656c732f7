// Package motion provides the spring/force simulation primitives for
// pointer-reactive elements.
//
// The package defines the fundamental types for per-element kinematics:
//
//   - [Vec3]: three-component vector for position and velocity
//   - [Body]: kinematic state of one simulated element
//   - [ForceModel]: the law governing how a body reacts to the pointer
//   - [Step]: one semi-implicit Euler integration step
//
// # Example
//
//	model, _ := motion.NewMagnetic(0.3, 200, 10)
//	body := motion.NewBody()
//	body.Activate()
//	rested, _ := motion.Step(&body, model, pointer, dt)
//
// # Thread Safety
//
// Bodies are NOT thread-safe. The scheduler steps every body from a single
// loop; external callers synchronize through the engine handle.
package motion
