// Package v4l2 provides pure Go bindings to the subset of the
// Video4Linux2 API needed for streaming capture: device open and
// capability checks, format and frame-interval negotiation, and a
// memory-mapped buffer ring drained one frame at a time.
//
// The package does not use cgo, enabling simple cross-compilation for
// 64-bit Linux targets (amd64, arm64, riscv64).
package v4l2
