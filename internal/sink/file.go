package sink

import (
	"io"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// FileSink writes frames to a regular file with plain sequential
// writes. The OS page cache already makes this path cheap, so no
// zero-copy machinery is involved.
type FileSink struct {
	f      io.WriteCloser
	closed bool
}

// NewFileSink wraps an open destination file.
func NewFileSink(f io.WriteCloser) *FileSink {
	return &FileSink{f: f}
}

// Write loops until every byte of p has been written. An interrupted
// write retries the remaining bytes; a vanished reader is reported as
// ErrReaderClosed.
func (s *FileSink) Write(p []byte) error {
	for len(p) > 0 {
		n, err := s.f.Write(p)
		p = p[n:]
		if err == nil {
			continue
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		if errors.Is(err, unix.EPIPE) {
			return ErrReaderClosed
		}
		return errors.Wrap(err, "write frame")
	}
	return nil
}

// Close closes the destination. Safe to call twice.
func (s *FileSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}
