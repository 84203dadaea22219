// Package sink routes captured frames to their destination: a plain
// file through buffered sequential writes, or a pipe through zero-copy
// page transfers. The destination kind is probed once when the sink is
// opened; the capture loop only ever sees the Sink interface.
package sink

import (
	"github.com/pkg/errors"
)

// ErrReaderClosed reports that the destination's reader has gone away
// (the broken-pipe condition). It is a clean stop signal for the
// capture loop, not a failure.
var ErrReaderClosed = errors.New("output reader closed")

// Sink is a destination for frame payloads.
//
// Write delivers one whole frame: it either transfers every byte of p
// or returns an error. The zero-copy variant grants p's pages to the
// kernel, so the caller must treat p as consumed once Write returns
// and must not touch the memory again until the backing buffer is
// recycled by the capture stream.
type Sink interface {
	Write(p []byte) error
	Close() error
}
