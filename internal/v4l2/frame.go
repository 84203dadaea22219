package v4l2

import "time"

// Frame is a single captured frame.
//
// Data aliases one of the stream's memory-mapped buffer slots and is
// only valid until the following Stream.Next call, which hands the slot
// back to the device. Callers must finish consuming or copy the bytes
// before acquiring the next frame.
type Frame struct {
	Data []byte

	// Sequence is the driver-assigned frame sequence number. It is
	// non-decreasing for the lifetime of a stream.
	Sequence uint64

	// Timestamp is the device clock value at capture time.
	Timestamp time.Duration
}
