// Package binreader provides the endian-aware reader façade (C1) that the
// ARC and TEX decoders are built against. It is modeled as an interface so
// the core never depends on a concrete stream type; StreamReader is the one
// concrete implementation this module ships.
package binreader

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"reflect"
)

// Reader is the façade the core consumes: positioned reads, a push/pop
// cursor for peek-and-rewind, container reads, seeking, and an endian-swap
// toggle. Grounded on the teacher's pkg/archive/reader.go wrapping style.
type Reader interface {
	io.Reader

	// Tell returns the current absolute offset.
	Tell() int64
	// Seek moves the cursor to an absolute offset.
	Seek(off int64) error
	// Skip moves the cursor by a relative amount, positive or negative.
	Skip(delta int64) error
	// Size returns the total length of the underlying stream.
	Size() int64

	// Push saves the current offset on an internal stack.
	Push()
	// Pop restores the most recently pushed offset.
	Pop() error

	// SwapEndian sets whether multi-byte reads are byte-swapped relative to
	// their natural little-endian encoding.
	SwapEndian(swap bool)
	// Swapped reports the current endian-swap state.
	Swapped() bool

	ReadU8() (uint8, error)
	ReadU16() (uint16, error)
	ReadU32() (uint32, error)
	ReadU64() (uint64, error)
	ReadF32() (float32, error)

	// ReadBuffer reads exactly n raw bytes with no endian interpretation.
	ReadBuffer(n int) ([]byte, error)
	// ReadStruct decodes a fixed-layout struct honouring the current endian
	// setting. v must be a pointer to a fixed-size type.
	ReadStruct(v any) error
	// ReadContainer decodes count copies of a fixed-layout element into a
	// pointer-to-slice v, honouring the current endian setting.
	ReadContainer(v any, count int) error
}

// StreamReader is the default Reader implementation, backed by any
// io.ReadSeeker (a file, bytes.Reader, etc).
type StreamReader struct {
	src   io.ReadSeeker
	size  int64
	swap  bool
	marks []int64
}

// NewStreamReader wraps src, determining its total size via Seek.
func NewStreamReader(src io.ReadSeeker) (*StreamReader, error) {
	size, err := src.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, fmt.Errorf("binreader: determine size: %w", err)
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("binreader: rewind: %w", err)
	}
	return &StreamReader{src: src, size: size}, nil
}

func (r *StreamReader) Read(p []byte) (int, error) {
	return r.src.Read(p)
}

func (r *StreamReader) Tell() int64 {
	off, _ := r.src.Seek(0, io.SeekCurrent)
	return off
}

func (r *StreamReader) Seek(off int64) error {
	_, err := r.src.Seek(off, io.SeekStart)
	if err != nil {
		return fmt.Errorf("binreader: seek %#x: %w", off, err)
	}
	return nil
}

func (r *StreamReader) Skip(delta int64) error {
	_, err := r.src.Seek(delta, io.SeekCurrent)
	if err != nil {
		return fmt.Errorf("binreader: skip %d: %w", delta, err)
	}
	return nil
}

func (r *StreamReader) Size() int64 {
	return r.size
}

func (r *StreamReader) Push() {
	r.marks = append(r.marks, r.Tell())
}

func (r *StreamReader) Pop() error {
	if len(r.marks) == 0 {
		return fmt.Errorf("binreader: pop with empty cursor stack")
	}
	top := r.marks[len(r.marks)-1]
	r.marks = r.marks[:len(r.marks)-1]
	return r.Seek(top)
}

func (r *StreamReader) SwapEndian(swap bool) {
	r.swap = swap
}

func (r *StreamReader) Swapped() bool {
	return r.swap
}

func (r *StreamReader) order() binary.ByteOrder {
	if r.swap {
		return binary.BigEndian
	}
	return binary.LittleEndian
}

func (r *StreamReader) ReadU8() (uint8, error) {
	var b [1]byte
	if _, err := io.ReadFull(r.src, b[:]); err != nil {
		return 0, fmt.Errorf("binreader: read u8: %w", err)
	}
	return b[0], nil
}

func (r *StreamReader) ReadU16() (uint16, error) {
	var b [2]byte
	if _, err := io.ReadFull(r.src, b[:]); err != nil {
		return 0, fmt.Errorf("binreader: read u16: %w", err)
	}
	return r.order().Uint16(b[:]), nil
}

func (r *StreamReader) ReadU32() (uint32, error) {
	var b [4]byte
	if _, err := io.ReadFull(r.src, b[:]); err != nil {
		return 0, fmt.Errorf("binreader: read u32: %w", err)
	}
	return r.order().Uint32(b[:]), nil
}

func (r *StreamReader) ReadU64() (uint64, error) {
	var b [8]byte
	if _, err := io.ReadFull(r.src, b[:]); err != nil {
		return 0, fmt.Errorf("binreader: read u64: %w", err)
	}
	return r.order().Uint64(b[:]), nil
}

func (r *StreamReader) ReadF32() (float32, error) {
	bits, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(bits), nil
}

func (r *StreamReader) ReadBuffer(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, fmt.Errorf("binreader: read buffer of %d: %w", n, err)
	}
	return buf, nil
}

func (r *StreamReader) ReadStruct(v any) error {
	if err := binary.Read(r.src, r.order(), v); err != nil {
		return fmt.Errorf("binreader: read struct: %w", err)
	}
	return nil
}

// ReadContainer decodes into the slice v points to. The slice must already
// be allocated to length count (e.g. via make([]T, count)) — this mirrors
// the teacher's pkg/manifest.go pattern of sizing a field before
// binary.Read rather than growing it during the read.
func (r *StreamReader) ReadContainer(v any, count int) error {
	if n := reflect.ValueOf(v).Elem().Len(); n != count {
		return fmt.Errorf("binreader: container length %d does not match requested count %d", n, count)
	}
	if err := binary.Read(r.src, r.order(), v); err != nil {
		return fmt.Errorf("binreader: read container of %d: %w", count, err)
	}
	return nil
}
