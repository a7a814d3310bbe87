// Package hfs implements C2, the outer envelope sometimes wrapping ARC or
// TEX streams. The wrapper carries a fixed header plus a sequence of sized
// chunks that, concatenated, reproduce the inner byte stream.
package hfs

import (
	"bytes"
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
)

// Magic is the HFS sentinel ("SFH\0", little-endian 0x00484653).
const Magic uint32 = 0x00484653

// headerSize is the fixed portion preceding the chunk-size table: magic,
// header length, chunk count, and one reserved/padding word.
const headerSize = 16

// Strip peeks the leading u32 magic on r. If it matches Magic, the HFS
// wrapper is consumed and validated, and a new Reader over the
// concatenated inner chunk stream is returned. Otherwise r is returned
// unchanged, with its cursor restored to where it started.
//
// Grounded on the teacher's pkg/archive/header.go Header shape (magic +
// declared length fields validated before the payload is trusted).
func Strip(r binreader.Reader) (binreader.Reader, error) {
	r.Push()
	magic, err := r.ReadU32()
	if err != nil {
		r.Pop()
		return nil, fmt.Errorf("hfs: peek magic: %w", err)
	}
	if err := r.Pop(); err != nil {
		return nil, err
	}
	if magic != Magic {
		return r, nil
	}
	if err := r.Skip(4); err != nil { // consume the magic we just peeked
		return nil, fmt.Errorf("hfs: consume magic: %w", err)
	}

	headerLen, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("hfs: read header length: %w", err)
	}
	if headerLen != headerSize {
		return nil, &InvalidHeaderError{Magic: magic}
	}

	numChunks, err := r.ReadU32()
	if err != nil {
		return nil, fmt.Errorf("hfs: read chunk count: %w", err)
	}
	if _, err := r.ReadU32(); err != nil { // reserved
		return nil, fmt.Errorf("hfs: read reserved word: %w", err)
	}

	sizes := make([]uint32, numChunks)
	for i := range sizes {
		sizes[i], err = r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("hfs: read chunk size %d: %w", i, err)
		}
	}

	var inner bytes.Buffer
	for i, size := range sizes {
		chunk, err := r.ReadBuffer(int(size))
		if err != nil {
			return nil, fmt.Errorf("hfs: read chunk %d (%d bytes): %w", i, size, err)
		}
		inner.Write(chunk)
	}

	return binreader.NewStreamReader(bytes.NewReader(inner.Bytes()))
}

// InvalidHeaderError reports a malformed HFS wrapper.
type InvalidHeaderError struct {
	Magic uint32
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("hfs: invalid header (magic %#08x)", e.Magic)
}
