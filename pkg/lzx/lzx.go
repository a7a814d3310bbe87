// Package lzx implements the LZX half of C3, the compression codec ARC
// payloads may be stored under. There is no existing Go LZX codec in the
// reference corpus to adapt (grep across the examples turns up none), so
// this is a from-scratch implementation of the public LZX block format,
// framed the way spec.md §4.2 and original_source/src/arc.cpp's
// mspack-backed DecompressLZX describe: a sequence of length-prefixed
// chunks of compressed bytes feeding one continuous LZX bitstream.
package lzx

import "fmt"

// WindowBits selects the sliding-window size an archive's magic implies —
// spec.md §4.2: 17 for "ARC\0", 15 for every other magic.
type WindowBits int

const (
	Window15 WindowBits = 15
	Window17 WindowBits = 17
)

// DecompressionFailedError reports any failure inside the LZX bitstream
// decoder: a malformed block header, an invalid Huffman code, or a match
// that overruns its block.
type DecompressionFailedError struct {
	Reason error
}

func (e *DecompressionFailedError) Error() string {
	return fmt.Sprintf("lzx: decompression failed: %v", e.Reason)
}

func (e *DecompressionFailedError) Unwrap() error { return e.Reason }

// Decompress expands src — the chunk-framed compressed bytes of a single
// ARC entry — into exactly uncompressedSize bytes.
func Decompress(src []byte, window WindowBits, uncompressedSize int) ([]byte, error) {
	if uncompressedSize < 0 {
		return nil, &DecompressionFailedError{Reason: fmt.Errorf("negative uncompressed size %d", uncompressedSize)}
	}
	if uncompressedSize == 0 {
		return []byte{}, nil
	}

	d, err := newDecoder(newChunkedReader(src), int(window))
	if err != nil {
		return nil, &DecompressionFailedError{Reason: err}
	}
	out, err := d.decompress(uncompressedSize)
	if err != nil {
		return nil, &DecompressionFailedError{Reason: err}
	}
	return out, nil
}
