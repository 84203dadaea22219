package pipeline

import (
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShutdownFlag(t *testing.T) {
	f := NewShutdownFlag()
	assert.True(t, f.Running())

	f.Stop()
	assert.False(t, f.Running())

	// Stopping again has no additional effect.
	f.Stop()
	assert.False(t, f.Running())
}

func TestHandleInterrupt(t *testing.T) {
	f := NewShutdownFlag()
	f.HandleInterrupt()

	p, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, p.Signal(syscall.SIGINT))

	assert.Eventually(t, func() bool { return !f.Running() },
		2*time.Second, 10*time.Millisecond)

	// A second interrupt after the flag is cleared is a no-op.
	require.NoError(t, p.Signal(syscall.SIGINT))
	time.Sleep(50 * time.Millisecond)
	assert.False(t, f.Running())
}
