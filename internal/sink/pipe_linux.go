//go:build linux

package sink

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Syscall seams, swapped out by tests.
var (
	vmsplice        = unix.Vmsplice
	fcntlInt        = unix.FcntlInt
	pipeMaxSizeFile = "/proc/sys/fs/pipe-max-size"
)

// PipeSink transfers frames into a pipe with vmsplice(2), gifting the
// frame's pages to the kernel instead of copying them. At tens of
// frames per second and multiple megabytes per frame the saved copy is
// the difference between keeping up and falling behind.
type PipeSink struct {
	f      *os.File
	closed bool
}

// NewPipeSink wraps an open pipe destination. It raises the pipe's
// capacity to the system-wide maximum once, at construction; failing
// to do so only costs throughput, so it is logged and ignored.
func NewPipeSink(f *os.File, log *logrus.Logger) *PipeSink {
	s := &PipeSink{f: f}
	if err := s.raiseCapacity(); err != nil {
		log.WithError(err).Warn("could not raise pipe capacity, continuing with the default")
	}
	return s
}

// Write vmsplices p into the pipe until the kernel has accepted all of
// it. Interrupts retry the remainder; a vanished reader is reported as
// ErrReaderClosed. An empty frame is a no-op.
//
// The pages are gifted to the kernel, so the memory backing p must not
// be reused until the capture stream recycles the buffer.
func (s *PipeSink) Write(p []byte) error {
	for len(p) > 0 {
		iov := unix.Iovec{Base: &p[0]}
		iov.SetLen(len(p))
		n, err := vmsplice(int(s.f.Fd()), []unix.Iovec{iov}, unix.SPLICE_F_GIFT)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			if errors.Is(err, unix.EPIPE) {
				return ErrReaderClosed
			}
			return errors.Wrap(err, "vmsplice frame")
		}
		p = p[n:]
	}
	return nil
}

// Close closes the pipe. Safe to call twice.
func (s *PipeSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.f.Close()
}

// raiseCapacity bumps the pipe buffer to /proc/sys/fs/pipe-max-size.
// The capacity is only ever raised, never lowered.
func (s *PipeSink) raiseCapacity() error {
	max, err := pipeMaxSize()
	if err != nil {
		return err
	}
	cur, err := fcntlInt(s.f.Fd(), unix.F_GETPIPE_SZ, 0)
	if err != nil {
		return errors.Wrap(err, "F_GETPIPE_SZ")
	}
	if cur >= max {
		return nil
	}
	if _, err := fcntlInt(s.f.Fd(), unix.F_SETPIPE_SZ, max); err != nil {
		return errors.Wrapf(err, "F_SETPIPE_SZ %d", max)
	}
	return nil
}

func pipeMaxSize() (int, error) {
	b, err := os.ReadFile(pipeMaxSizeFile)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(string(b)))
	if err != nil {
		return 0, errors.Wrapf(err, "parse %s", pipeMaxSizeFile)
	}
	return n, nil
}
