package cmd

import (
	"github.com/spf13/cobra"

	"github.com/babelcloud/vcap/config"
)

var (
	captureOpts = &CaptureOptions{}

	rootCmd = &cobra.Command{
		Use:   "vcap DEVICE OUTPUT",
		Short: "Capture video frames from a V4L2 device into a file or pipe",
		Long: `vcap streams frames from a V4L2 capture device to an output path as
fast as possible. A regular file gets buffered sequential writes; an
existing FIFO is detected automatically and fed with zero-copy
vmsplice transfers after raising the pipe capacity to the system
maximum. SIGINT stops the capture cleanly.`,
		Example: `  vcap /dev/video0 out.mjpg
  vcap --width 1920 --height 1080 --framerate 25 /dev/video0 out.mjpg
  mkfifo /tmp/frames && vcap /dev/video0 /tmp/frames`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.ExactArgs(2)(cmd, args); err != nil {
				return &usageError{err: err}
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCapture(captureOpts, args[0], args[1])
		},
	}
)

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVar(&captureOpts.Width, "width", config.Width(), "Frame width in pixels")
	flags.IntVar(&captureOpts.Height, "height", config.Height(), "Frame height in pixels")
	flags.IntVar(&captureOpts.Framerate, "framerate", config.Framerate(), "Frame rate in Hz")
	flags.StringVar(&captureOpts.PixelFormat, "pixel-format", config.PixelFormat(), "Four character pixel format code")
	flags.IntVar(&captureOpts.MaxFrames, "max-frames", config.MaxFrames(), "Stop after this many frames (0 = unbounded)")
	flags.BoolVar(&captureOpts.Verbose, "verbose", config.Verbose(), "Enable debug logging")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.AddCommand(NewVersionCommand())
}
