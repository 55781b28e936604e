package bank

import (
	"encoding/binary"
	"fmt"
)

// DefaultCapacity bounds the memory image. It is larger than the biggest
// bank the supported devices can hold.
const DefaultCapacity = 64 << 20

// Image is a bank's byte buffer plus its logical size. Growth beyond the
// capacity fails with ErrBankFull instead of reallocating past the bound.
type Image struct {
	buf      []byte
	capacity int
}

// NewImage copies data into a new image bounded by capacity.
func NewImage(data []byte, capacity int) (*Image, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if len(data) > capacity {
		return nil, fmt.Errorf("%w: %d bytes exceeds capacity %d", ErrBankFull, len(data), capacity)
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	return &Image{buf: buf, capacity: capacity}, nil
}

// Size returns the logical size.
func (m *Image) Size() int {
	return len(m.buf)
}

// Capacity returns the growth bound.
func (m *Image) Capacity() int {
	return m.capacity
}

// Bytes returns the meaningful part of the image. The slice aliases the
// image and is invalidated by the next resize.
func (m *Image) Bytes() []byte {
	return m.buf
}

// fits reports whether the image can grow by n bytes.
func (m *Image) fits(n int) error {
	if len(m.buf)+n > m.capacity {
		return fmt.Errorf("%w: need %d bytes, capacity %d", ErrBankFull, len(m.buf)+n, m.capacity)
	}
	return nil
}

// span returns n bytes at off after checking them against the logical size.
func (m *Image) span(off, n int) ([]byte, error) {
	if off < 0 || n < 0 || off+n > len(m.buf) {
		return nil, fmt.Errorf("%w: [%d, %d) outside %d bytes", ErrCorrupt, off, off+n, len(m.buf))
	}
	return m.buf[off : off+n : off+n], nil
}

func (m *Image) u32(off int) uint32 {
	return binary.LittleEndian.Uint32(m.buf[off:])
}

func (m *Image) putU32(off int, v uint32) {
	binary.LittleEndian.PutUint32(m.buf[off:], v)
}

func (m *Image) u16(off int) uint16 {
	return binary.LittleEndian.Uint16(m.buf[off:])
}

func (m *Image) putU16(off int, v uint16) {
	binary.LittleEndian.PutUint16(m.buf[off:], v)
}

// insert opens n zeroed bytes at off, moving [off, size) up by n.
func (m *Image) insert(off, n int) error {
	if off < 0 || off > len(m.buf) || n < 0 {
		return fmt.Errorf("%w: insert %d bytes at %d", ErrCorrupt, n, off)
	}
	if err := m.fits(n); err != nil {
		return err
	}
	size := len(m.buf)
	m.buf = append(m.buf, make([]byte, n)...)
	copy(m.buf[off+n:], m.buf[off:size])
	clear(m.buf[off : off+n])
	return nil
}

// remove deletes n bytes at off, moving the tail down and truncating.
func (m *Image) remove(off, n int) error {
	if off < 0 || n < 0 || off+n > len(m.buf) {
		return fmt.Errorf("%w: remove %d bytes at %d", ErrCorrupt, n, off)
	}
	copy(m.buf[off:], m.buf[off+n:])
	m.buf = m.buf[:len(m.buf)-n]
	return nil
}
