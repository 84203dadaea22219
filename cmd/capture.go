package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/babelcloud/vcap/internal/pipeline"
	"github.com/babelcloud/vcap/internal/sink"
	"github.com/babelcloud/vcap/internal/util"
	"github.com/babelcloud/vcap/internal/v4l2"
)

// Four buffers balance latency (fewer queued ahead of the reader)
// against tolerance for scheduling jitter (more absorb delivery stalls
// without the device dropping frames). Deliberately not user-tunable.
const bufferCount = 4

// CaptureOptions hold the capture parameters resolved from flags,
// environment and config file.
type CaptureOptions struct {
	Width       int
	Height      int
	Framerate   int
	PixelFormat string
	MaxFrames   int
	Verbose     bool
}

func runCapture(opts *CaptureOptions, device, output string) error {
	log := util.InitLogger(opts.Verbose)

	if opts.Width <= 0 || opts.Height <= 0 {
		return usageErrorf("invalid dimensions %dx%d", opts.Width, opts.Height)
	}
	if opts.Framerate <= 0 {
		return usageErrorf("invalid framerate %d", opts.Framerate)
	}
	if opts.MaxFrames < 0 {
		return usageErrorf("invalid max-frames %d", opts.MaxFrames)
	}
	format, err := v4l2.ParseFourCC(opts.PixelFormat)
	if err != nil {
		return &usageError{err: err}
	}

	out, err := sink.Open(output, log)
	if err != nil {
		return err
	}
	defer out.Close()

	dev, err := v4l2.Open(device)
	if err != nil {
		return err
	}
	defer dev.Close()
	log.WithFields(logrus.Fields{
		"driver": dev.Driver,
		"card":   dev.Card,
		"bus":    dev.Bus,
	}).Debug("device opened")

	requested := v4l2.Config{
		Width:    uint32(opts.Width),
		Height:   uint32(opts.Height),
		Format:   format,
		Interval: v4l2.Fraction{Numerator: 1, Denominator: uint32(opts.Framerate)},
	}
	effective, err := dev.Negotiate(requested)
	if err != nil {
		return err
	}

	// The driver is free to round any requested field; everything from
	// here on sizes itself off the effective config.
	log.WithField("config", effective.String()).Info("format in use")
	if effective != requested {
		color.New(color.FgYellow).Fprintf(os.Stderr,
			"device adjusted request: %s -> %s\n", requested, effective)
	}

	stream, err := v4l2.NewStream(dev, bufferCount)
	if err != nil {
		return err
	}
	defer stream.Close()

	flag := pipeline.NewShutdownFlag()
	flag.HandleInterrupt()

	runID := uuid.NewString()
	stats, runErr := pipeline.Run(stream, out, flag, pipeline.Options{
		MaxFrames: uint64(opts.MaxFrames),
		RunID:     runID,
		Log:       log,
	})
	log.WithFields(logrus.Fields{
		"run":      runID,
		"frames":   stats.Frames,
		"bytes":    stats.Bytes,
		"duration": stats.Duration.Round(time.Millisecond).String(),
		"fps":      fmt.Sprintf("%.2f", stats.FPS()),
	}).Info("capture finished")
	return runErr
}
