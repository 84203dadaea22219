package v4l2

import (
	"github.com/pkg/errors"
)

// FourCC is a four character pixel format code as used by the V4L2 API,
// e.g. "MJPG" or "YUYV". The first character occupies the least
// significant byte.
type FourCC uint32

// ParseFourCC converts a four character string into its numeric code.
// The string must be exactly four printable ASCII characters.
func ParseFourCC(s string) (FourCC, error) {
	if len(s) != 4 {
		return 0, errors.Errorf("pixel format %q must be exactly 4 characters", s)
	}
	for i := 0; i < 4; i++ {
		if s[i] < 0x20 || s[i] > 0x7e {
			return 0, errors.Errorf("pixel format %q contains a non-printable character", s)
		}
	}
	return FourCC(uint32(s[0]) | uint32(s[1])<<8 | uint32(s[2])<<16 | uint32(s[3])<<24), nil
}

// String returns the four characters of the code.
func (f FourCC) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}
