//go:build linux && (amd64 || arm64 || riscv64)

package v4l2

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// Hand-written linux/videodev2.h layouts for 64-bit little-endian
// targets. Field offsets and sizes follow the kernel ABI; the filler
// bytes stand in for the remainder of unions we never touch.

const (
	bufTypeVideoCapture = 1
	memoryMmap          = 1

	capVideoCapture = 0x00000001
	capStreaming    = 0x04000000
)

type capability struct { // size 104
	driver       [16]byte
	card         [32]byte
	busInfo      [32]byte
	version      uint32
	capabilities uint32
	deviceCaps   uint32
	reserved     [3]uint32
}

type pixFormat struct { // size 48
	width        uint32
	height       uint32
	pixelformat  uint32
	field        uint32
	bytesperline uint32
	sizeimage    uint32
	colorspace   uint32
	priv         uint32
	flags        uint32
	ycbcrEnc     uint32
	quantization uint32
	xferFunc     uint32
}

type format struct { // size 208
	typ uint32
	_   [4]byte // fmt union holds pointers, aligned to 8
	pix pixFormat
	_   [152]byte // rest of the 200-byte fmt union
}

type fract struct { // size 8
	numerator   uint32
	denominator uint32
}

type captureParm struct { // size 40
	capability   uint32
	capturemode  uint32
	timeperframe fract
	extendedmode uint32
	readbuffers  uint32
	reserved     [4]uint32
}

type streamParm struct { // size 204
	typ     uint32
	capture captureParm
	_       [160]byte // rest of the 200-byte parm union
}

type requestBuffers struct { // size 20
	count        uint32
	typ          uint32
	memory       uint32
	capabilities uint32
	flags        uint8
	reserved     [3]uint8
}

type timecode struct { // size 16
	typ      uint32
	flags    uint32
	frames   uint8
	seconds  uint8
	minutes  uint8
	hours    uint8
	userbits [4]uint8
}

type buffer struct { // size 88
	index     uint32
	typ       uint32
	bytesused uint32
	flags     uint32
	field     uint32
	_         [4]byte // timestamp aligned to 8
	timestamp unix.Timeval
	timecode  timecode
	sequence  uint32
	memory    uint32
	m         uint64 // union: mmap offset in the low 4 bytes
	length    uint32
	reserved2 uint32
	requestFD uint32
}

// ioctl request encoding, asm-generic/ioctl.h.
const (
	iocWrite = 1
	iocRead  = 2

	iocTypeShift = 8
	iocSizeShift = 16
	iocDirShift  = 30
)

func ioc(dir, nr, size uintptr) uintptr {
	return dir<<iocDirShift | size<<iocSizeShift | 'V'<<iocTypeShift | nr
}

var (
	vidiocQuerycap  = ioc(iocRead, 0, unsafe.Sizeof(capability{}))
	vidiocGFmt      = ioc(iocRead|iocWrite, 4, unsafe.Sizeof(format{}))
	vidiocSFmt      = ioc(iocRead|iocWrite, 5, unsafe.Sizeof(format{}))
	vidiocReqbufs   = ioc(iocRead|iocWrite, 8, unsafe.Sizeof(requestBuffers{}))
	vidiocQuerybuf  = ioc(iocRead|iocWrite, 9, unsafe.Sizeof(buffer{}))
	vidiocQbuf      = ioc(iocRead|iocWrite, 15, unsafe.Sizeof(buffer{}))
	vidiocDqbuf     = ioc(iocRead|iocWrite, 17, unsafe.Sizeof(buffer{}))
	vidiocStreamon  = ioc(iocWrite, 18, unsafe.Sizeof(int32(0)))
	vidiocStreamoff = ioc(iocWrite, 19, unsafe.Sizeof(int32(0)))
	vidiocGParm     = ioc(iocRead|iocWrite, 21, unsafe.Sizeof(streamParm{}))
	vidiocSParm     = ioc(iocRead|iocWrite, 22, unsafe.Sizeof(streamParm{}))
)

// Syscall seams, swapped out by tests.
var (
	ioctl = func(fd int, req uintptr, arg unsafe.Pointer) error {
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), req, uintptr(arg))
		if errno != 0 {
			return errno
		}
		return nil
	}
	mmap   = unix.Mmap
	munmap = unix.Munmap
)
