package v4l2

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFractionFPS(t *testing.T) {
	assert.Equal(t, 30.0, Fraction{Numerator: 1, Denominator: 30}.FPS())
	assert.Equal(t, 15.0, Fraction{Numerator: 2, Denominator: 30}.FPS())
	assert.Equal(t, 0.0, Fraction{}.FPS(), "undefined fraction is 0 fps")
}

func TestConfigString(t *testing.T) {
	f, err := ParseFourCC("MJPG")
	require.NoError(t, err)

	c := Config{
		Width:    640,
		Height:   480,
		Format:   f,
		Interval: Fraction{Numerator: 1, Denominator: 30},
	}
	assert.Equal(t, "640x480 MJPG @ 30 fps", c.String())
}
