package pipeline

import (
	"os"
	"os/signal"
	"sync/atomic"
)

// ShutdownFlag is the process-wide "keep running" flag. The capture
// loop reads it once per iteration; the signal handler goroutine is
// the only writer and only ever flips it true to false. A single
// atomic covers this single-writer/single-reader relationship, no
// lock needed.
type ShutdownFlag struct {
	running atomic.Bool
}

// NewShutdownFlag returns a flag in the running state.
func NewShutdownFlag() *ShutdownFlag {
	f := &ShutdownFlag{}
	f.running.Store(true)
	return f
}

// Running reports whether the capture loop should keep going.
func (f *ShutdownFlag) Running() bool {
	return f.running.Load()
}

// Stop requests shutdown. Idempotent.
func (f *ShutdownFlag) Stop() {
	f.running.Store(false)
}

// HandleInterrupt clears the flag when the process receives an
// interrupt signal. Signals arriving after the first have no further
// effect.
func (f *ShutdownFlag) HandleInterrupt() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	go func() {
		for range ch {
			f.Stop()
		}
	}()
}
