//go:build linux

package sink

import (
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"
)

// Open creates the destination at path and probes its type once: an
// existing FIFO gets the zero-copy pipe sink, everything else the
// buffered file sink. There is no flag to force a strategy.
func Open(path string, log *logrus.Logger) (Sink, error) {
	// Write-only on purpose: O_RDWR on a FIFO would keep a read end
	// alive in this process and mask the reader-closed condition.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o666)
	if err != nil {
		return nil, errors.Wrapf(err, "create %s", path)
	}

	var st unix.Stat_t
	if err := unix.Fstat(int(f.Fd()), &st); err != nil {
		f.Close()
		return nil, errors.Wrapf(err, "fstat %s", path)
	}
	if st.Mode&unix.S_IFMT == unix.S_IFIFO {
		log.WithField("output", path).Debug("destination is a pipe, using vmsplice")
		return NewPipeSink(f, log), nil
	}
	log.WithField("output", path).Debug("destination is a regular file, using buffered writes")
	return NewFileSink(f), nil
}
