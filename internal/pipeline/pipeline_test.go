package pipeline

import (
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/babelcloud/vcap/internal/sink"
	"github.com/babelcloud/vcap/internal/v4l2"
	"github.com/pkg/errors"
)

// synthSource produces an endless stream of distinct frames, mimicking
// a device that never stalls.
type synthSource struct {
	n   uint64
	err error // returned instead of a frame when set
}

func (s *synthSource) Next() (v4l2.Frame, error) {
	if s.err != nil {
		return v4l2.Frame{}, s.err
	}
	s.n++
	data := make([]byte, 8+s.n%5)
	for i := range data {
		data[i] = byte(s.n)
	}
	return v4l2.Frame{Data: data, Sequence: s.n}, nil
}

// recordingSink captures delivered frames and can fail a chosen write.
type recordingSink struct {
	writes  [][]byte
	failAt  int // 1-based index of the write that fails, 0 = never
	failErr error
	onWrite func(n int)
	closed  int
}

func (s *recordingSink) Write(p []byte) error {
	if s.failAt > 0 && len(s.writes)+1 == s.failAt {
		return s.failErr
	}
	s.writes = append(s.writes, append([]byte(nil), p...))
	if s.onWrite != nil {
		s.onWrite(len(s.writes))
	}
	return nil
}

func (s *recordingSink) Close() error {
	s.closed++
	return nil
}

func TestRunFrameLimit(t *testing.T) {
	// 1 frame, the ring size, and more than the ring size.
	for _, n := range []uint64{1, 4, 9} {
		src := &synthSource{}
		out := &recordingSink{}
		log, _ := logtest.NewNullLogger()

		stats, err := Run(src, out, NewShutdownFlag(), Options{MaxFrames: n, Log: log})
		require.NoError(t, err)
		assert.Equal(t, n, stats.Frames)
		assert.Len(t, out.writes, int(n))
	}
}

func TestRunShutdownFlagStopsWithinOneCycle(t *testing.T) {
	src := &synthSource{}
	out := &recordingSink{}
	flag := NewShutdownFlag()
	out.onWrite = func(n int) {
		if n == 3 {
			flag.Stop() // the signal handler fires mid-run
		}
	}
	log, _ := logtest.NewNullLogger()

	stats, err := Run(src, out, flag, Options{Log: log})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), stats.Frames, "no delivery after the flag is observed cleared")
}

func TestRunSequencesNonDecreasing(t *testing.T) {
	src := &synthSource{}
	out := &recordingSink{}
	log, _ := logtest.NewNullLogger()

	_, err := Run(src, out, NewShutdownFlag(), Options{MaxFrames: 20, Log: log})
	require.NoError(t, err)

	var last uint64
	for i, w := range out.writes {
		seq := uint64(w[0]) // synthSource stamps the sequence into the payload
		assert.GreaterOrEqual(t, seq, last, "write %d out of order", i)
		last = seq
	}
}

func TestRunReaderClosedIsCleanStop(t *testing.T) {
	src := &synthSource{}
	out := &recordingSink{failAt: 4, failErr: sink.ErrReaderClosed}
	log, _ := logtest.NewNullLogger()

	stats, err := Run(src, out, NewShutdownFlag(), Options{Log: log})
	require.NoError(t, err, "a vanished reader is not an error")
	assert.Equal(t, uint64(3), stats.Frames)
}

func TestRunFatalSinkError(t *testing.T) {
	src := &synthSource{}
	out := &recordingSink{failAt: 3, failErr: errors.New("device unplugged")}
	log, _ := logtest.NewNullLogger()

	stats, err := Run(src, out, NewShutdownFlag(), Options{Log: log})
	require.Error(t, err)
	assert.Equal(t, uint64(2), stats.Frames)
	assert.Len(t, out.writes, 2, "no delivery after a fatal sink error")
}

func TestRunFatalSourceError(t *testing.T) {
	src := &synthSource{err: errors.New("VIDIOC_DQBUF: I/O error")}
	out := &recordingSink{}
	log, _ := logtest.NewNullLogger()

	stats, err := Run(src, out, NewShutdownFlag(), Options{Log: log})
	require.Error(t, err)
	assert.Zero(t, stats.Frames)
	assert.Empty(t, out.writes)
}

func TestRunAlreadyStopped(t *testing.T) {
	flag := NewShutdownFlag()
	flag.Stop()
	log, _ := logtest.NewNullLogger()

	stats, err := Run(&synthSource{}, &recordingSink{}, flag, Options{Log: log})
	require.NoError(t, err)
	assert.Zero(t, stats.Frames)
}

func TestStatsFPS(t *testing.T) {
	st := Stats{Frames: 300, Duration: 10e9}
	assert.InDelta(t, 30.0, st.FPS(), 0.001)
	assert.Zero(t, Stats{}.FPS())
}
