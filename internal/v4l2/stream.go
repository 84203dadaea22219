//go:build linux && (amd64 || arm64 || riscv64)

package v4l2

import (
	"time"
	"unsafe"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Stream owns a fixed ring of memory-mapped capture buffers and drains
// completed frames from the device in order.
//
// At most one buffer slot is ever handed to the caller: the frame
// returned by Next aliases that slot and stays valid only until the
// following Next call, which queues the slot back to the device before
// dequeuing a new one.
type Stream struct {
	dev     *Device
	buffers [][]byte

	// owned is the slot index currently handed to the caller, -1 when
	// every slot is with the device.
	owned  int
	closed bool
}

// NewStream allocates count memory-mapped buffers on dev, queues all of
// them and starts streaming. A failure at any step tears down whatever
// was set up and is fatal to the run.
func NewStream(dev *Device, count uint32) (*Stream, error) {
	req := requestBuffers{
		count:  count,
		typ:    bufTypeVideoCapture,
		memory: memoryMmap,
	}
	if err := ioctl(dev.fd, vidiocReqbufs, unsafe.Pointer(&req)); err != nil {
		return nil, errors.Wrap(err, "VIDIOC_REQBUFS")
	}
	if req.count < 2 {
		return nil, errors.Errorf("device granted only %d buffers", req.count)
	}

	s := &Stream{dev: dev, owned: -1}
	for i := uint32(0); i < req.count; i++ {
		b := buffer{index: i, typ: bufTypeVideoCapture, memory: memoryMmap}
		if err := ioctl(dev.fd, vidiocQuerybuf, unsafe.Pointer(&b)); err != nil {
			s.unmap()
			return nil, errors.Wrapf(err, "VIDIOC_QUERYBUF %d", i)
		}
		mm, err := mmap(dev.fd, int64(uint32(b.m)), int(b.length),
			unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
		if err != nil {
			s.unmap()
			return nil, errors.Wrapf(err, "mmap buffer %d", i)
		}
		s.buffers = append(s.buffers, mm)
	}

	for i := range s.buffers {
		if err := s.queue(uint32(i)); err != nil {
			s.unmap()
			return nil, err
		}
	}

	typ := int32(bufTypeVideoCapture)
	if err := ioctl(dev.fd, vidiocStreamon, unsafe.Pointer(&typ)); err != nil {
		s.unmap()
		return nil, errors.Wrap(err, "VIDIOC_STREAMON")
	}
	return s, nil
}

// Next blocks until the device fills the next buffer and returns it as
// a Frame. A signal arriving during the wait interrupts the syscall and
// the wait is retried; any other failure means the ring can no longer
// be assumed consistent and the stream must be shut down.
//
// Calling Next invalidates the Frame returned by the previous call.
func (s *Stream) Next() (Frame, error) {
	if s.owned >= 0 {
		if err := s.queue(uint32(s.owned)); err != nil {
			return Frame{}, err
		}
		s.owned = -1
	}

	var b buffer
	for {
		b = buffer{typ: bufTypeVideoCapture, memory: memoryMmap}
		err := ioctl(s.dev.fd, vidiocDqbuf, unsafe.Pointer(&b))
		if err == nil {
			break
		}
		if errors.Is(err, unix.EINTR) {
			continue
		}
		return Frame{}, errors.Wrap(err, "VIDIOC_DQBUF")
	}
	s.owned = int(b.index)

	return Frame{
		Data:     s.buffers[b.index][:b.bytesused],
		Sequence: uint64(b.sequence),
		Timestamp: time.Duration(b.timestamp.Sec)*time.Second +
			time.Duration(b.timestamp.Usec)*time.Microsecond,
	}, nil
}

// Close stops streaming and unmaps the buffer ring. Safe to call twice.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	typ := int32(bufTypeVideoCapture)
	err := ioctl(s.dev.fd, vidiocStreamoff, unsafe.Pointer(&typ))
	s.unmap()
	if err != nil {
		return errors.Wrap(err, "VIDIOC_STREAMOFF")
	}
	return nil
}

func (s *Stream) queue(index uint32) error {
	b := buffer{index: index, typ: bufTypeVideoCapture, memory: memoryMmap}
	if err := ioctl(s.dev.fd, vidiocQbuf, unsafe.Pointer(&b)); err != nil {
		return errors.Wrapf(err, "VIDIOC_QBUF %d", index)
	}
	return nil
}

func (s *Stream) unmap() {
	for _, b := range s.buffers {
		munmap(b)
	}
	s.buffers = nil
}
