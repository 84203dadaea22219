// Package pipeline drives the capture loop: acquire a frame, deliver
// it, check the shutdown flag and the frame limit, repeat. One logical
// goroutine owns the whole path; the only concurrent actor is the
// signal handler flipping the shutdown flag.
package pipeline

import (
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/babelcloud/vcap/internal/sink"
	"github.com/babelcloud/vcap/internal/v4l2"
)

// Source yields captured frames in order. Next blocks until a frame is
// available and invalidates the previously returned frame, which is why
// the loop always finishes delivering before acquiring again.
type Source interface {
	Next() (v4l2.Frame, error)
}

// Options configure a capture run.
type Options struct {
	// MaxFrames bounds the run; 0 means unbounded.
	MaxFrames uint64

	// RunID tags every log line of this run.
	RunID string

	Log *logrus.Logger
}

// Stats summarize a finished run.
type Stats struct {
	Frames   uint64
	Bytes    uint64
	Duration time.Duration
}

// FPS returns the mean delivery rate over the run.
func (s Stats) FPS() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.Frames) / s.Duration.Seconds()
}

// Run pumps frames from src to out until the flag is cleared, the
// frame limit is reached, the destination's reader goes away, or a
// fatal error occurs. Every clean-stop path returns a nil error.
//
// A frame once acquired is always fully delivered or the run ends with
// an error; there is no mid-frame cancellation.
func Run(src Source, out sink.Sink, flag *ShutdownFlag, opts Options) (Stats, error) {
	log := opts.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	start := time.Now()
	var st Stats
	for flag.Running() {
		frame, err := src.Next()
		if err != nil {
			st.Duration = time.Since(start)
			return st, errors.Wrap(err, "acquire frame")
		}
		log.WithFields(logrus.Fields{
			"run":       opts.RunID,
			"size":      len(frame.Data),
			"seq":       frame.Sequence,
			"timestamp": frame.Timestamp,
		}).Debug("frame")

		if err := out.Write(frame.Data); err != nil {
			st.Duration = time.Since(start)
			if errors.Is(err, sink.ErrReaderClosed) {
				log.WithField("run", opts.RunID).Debug("output reader closed, stopping")
				return st, nil
			}
			return st, errors.Wrap(err, "deliver frame")
		}

		st.Frames++
		st.Bytes += uint64(len(frame.Data))
		if opts.MaxFrames > 0 && st.Frames >= opts.MaxFrames {
			break
		}
	}
	st.Duration = time.Since(start)
	return st, nil
}
