package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"
)

var v *viper.Viper

func init() {
	v = viper.New()

	// Set default capture parameters
	v.SetDefault("capture.width", 640)
	v.SetDefault("capture.height", 480)
	v.SetDefault("capture.framerate", 30)
	v.SetDefault("capture.pixel_format", "MJPG")
	v.SetDefault("capture.max_frames", 0) // 0 = unbounded
	v.SetDefault("log.verbose", false)

	// Environment variables
	v.AutomaticEnv()
	v.BindEnv("capture.width", "VCAP_WIDTH")
	v.BindEnv("capture.height", "VCAP_HEIGHT")
	v.BindEnv("capture.framerate", "VCAP_FRAMERATE")
	v.BindEnv("capture.pixel_format", "VCAP_PIXEL_FORMAT")
	v.BindEnv("capture.max_frames", "VCAP_MAX_FRAMES")
	v.BindEnv("log.verbose", "VCAP_VERBOSE")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Look for config in the following paths
	configPaths := []string{
		".",
		filepath.Join(xdg.Home, ".vcap"),
		"/etc/vcap",
	}

	for _, path := range configPaths {
		expandedPath := os.ExpandEnv(path)
		v.AddConfigPath(expandedPath)
	}

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Config file was found but another error was produced
			panic(fmt.Sprintf("Fatal error reading config file: %s", err))
		}
		// Config file not found; ignore error and use defaults
	}
}

// Width returns the default capture width in pixels
func Width() int {
	return v.GetInt("capture.width")
}

// Height returns the default capture height in pixels
func Height() int {
	return v.GetInt("capture.height")
}

// Framerate returns the default capture frame rate in Hz
func Framerate() int {
	return v.GetInt("capture.framerate")
}

// PixelFormat returns the default four character pixel format code
func PixelFormat() string {
	return v.GetString("capture.pixel_format")
}

// MaxFrames returns the default frame limit, 0 meaning unbounded
func MaxFrames() int {
	return v.GetInt("capture.max_frames")
}

// Verbose returns whether debug logging is enabled by default
func Verbose() bool {
	return v.GetBool("log.verbose")
}
