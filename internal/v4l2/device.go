//go:build linux && (amd64 || arm64 || riscv64)

package v4l2

import (
	"bytes"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Device is an open V4L2 capture device.
type Device struct {
	fd   int
	path string

	// Identity reported by VIDIOC_QUERYCAP.
	Driver string
	Card   string
	Bus    string
}

// Open opens the capture device at path and verifies that it supports
// streaming video capture. Any failure here leaves the device in an
// unknown state, so callers should treat it as fatal rather than retry.
func Open(path string) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}

	var caps capability
	if err := ioctl(fd, vidiocQuerycap, unsafe.Pointer(&caps)); err != nil {
		unix.Close(fd)
		return nil, errors.Wrapf(err, "%s: VIDIOC_QUERYCAP", path)
	}
	if caps.capabilities&capVideoCapture == 0 {
		unix.Close(fd)
		return nil, errors.Errorf("%s does not support video capture", path)
	}
	if caps.capabilities&capStreaming == 0 {
		unix.Close(fd)
		return nil, errors.Errorf("%s does not support streaming I/O", path)
	}

	return &Device{
		fd:     fd,
		path:   path,
		Driver: cstr(caps.driver[:]),
		Card:   cstr(caps.card[:]),
		Bus:    cstr(caps.busInfo[:]),
	}, nil
}

// Negotiate writes the requested dimensions, pixel format and frame
// interval to the device and reads back what it actually committed to.
// The returned Config is authoritative: the device is free to round any
// field to the nearest value it supports.
func (d *Device) Negotiate(req Config) (Config, error) {
	var f format
	f.typ = bufTypeVideoCapture
	if err := ioctl(d.fd, vidiocGFmt, unsafe.Pointer(&f)); err != nil {
		return Config{}, errors.Wrap(err, "VIDIOC_G_FMT")
	}
	f.pix.width = req.Width
	f.pix.height = req.Height
	f.pix.pixelformat = uint32(req.Format)
	if err := ioctl(d.fd, vidiocSFmt, unsafe.Pointer(&f)); err != nil {
		return Config{}, errors.Wrap(err, "VIDIOC_S_FMT")
	}

	var p streamParm
	p.typ = bufTypeVideoCapture
	if err := ioctl(d.fd, vidiocGParm, unsafe.Pointer(&p)); err != nil {
		return Config{}, errors.Wrap(err, "VIDIOC_G_PARM")
	}
	p.capture.timeperframe = fract{
		numerator:   req.Interval.Numerator,
		denominator: req.Interval.Denominator,
	}
	if err := ioctl(d.fd, vidiocSParm, unsafe.Pointer(&p)); err != nil {
		return Config{}, errors.Wrap(err, "VIDIOC_S_PARM")
	}

	return Config{
		Width:  f.pix.width,
		Height: f.pix.height,
		Format: FourCC(f.pix.pixelformat),
		Interval: Fraction{
			Numerator:   p.capture.timeperframe.numerator,
			Denominator: p.capture.timeperframe.denominator,
		},
	}, nil
}

// Close releases the device file descriptor. Safe to call twice.
func (d *Device) Close() error {
	if d.fd < 0 {
		return nil
	}
	fd := d.fd
	d.fd = -1
	if err := unix.Close(fd); err != nil {
		return errors.Wrapf(err, "close %s", d.path)
	}
	return nil
}

func cstr(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	return string(b)
}
