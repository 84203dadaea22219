package v4l2

import "fmt"

// Fraction is a rational number. V4L2 expresses the frame interval as
// a fraction of a second, so a 30 fps request is the interval 1/30.
type Fraction struct {
	Numerator   uint32
	Denominator uint32
}

// FPS returns the frame rate implied by the interval, or 0 when the
// fraction is not defined.
func (f Fraction) FPS() float64 {
	if f.Numerator == 0 {
		return 0
	}
	return float64(f.Denominator) / float64(f.Numerator)
}

func (f Fraction) String() string {
	return fmt.Sprintf("%d/%d", f.Numerator, f.Denominator)
}

// Config describes capture parameters: frame dimensions in pixels, the
// pixel format code and the time per frame.
//
// A Config passed to Device.Negotiate is a request. The Config returned
// from it is what the device actually committed to, which may differ in
// any field; all downstream sizing decisions must use the returned one.
type Config struct {
	Width    uint32
	Height   uint32
	Format   FourCC
	Interval Fraction
}

func (c Config) String() string {
	return fmt.Sprintf("%dx%d %s @ %g fps", c.Width, c.Height, c.Format, c.Interval.FPS())
}
