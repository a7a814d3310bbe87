package lzx

import (
	"bytes"
	"fmt"
	"io"
)

// chunkedReader presents the concatenated raw bytes of a sequence of
// length-prefixed chunks as a single continuous io.Reader, refilling its
// notion of "bytes remaining in this chunk" from the next chunk header
// whenever it runs out — the "refill block header when exhausted"
// behavior spec.md §4.2 describes.
//
// Grounded on original_source/src/arc.cpp's mspack_read: a 0xFF lead byte
// means an extended 5-byte header carrying {uncompressedSize u16 BE,
// compressedSize u16 BE}; any other lead byte is the high byte of a plain
// 2-byte BE compressed size.
type chunkedReader struct {
	r         *bytes.Reader
	remaining int
}

func newChunkedReader(data []byte) *chunkedReader {
	return &chunkedReader{r: bytes.NewReader(data)}
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.remaining == 0 {
		if err := c.refill(); err != nil {
			return 0, err
		}
	}
	n := len(p)
	if n > c.remaining {
		n = c.remaining
	}
	read, err := c.r.Read(p[:n])
	c.remaining -= read
	return read, err
}

func (c *chunkedReader) refill() error {
	lead, err := c.r.ReadByte()
	if err != nil {
		return fmt.Errorf("lzx: read chunk header: %w", err)
	}
	if lead == 0xFF {
		var rest [4]byte
		if _, err := io.ReadFull(c.r, rest[:]); err != nil {
			return fmt.Errorf("lzx: read extended chunk header: %w", err)
		}
		c.remaining = int(rest[2])<<8 | int(rest[3])
		return nil
	}
	hi, err := c.r.ReadByte()
	if err != nil {
		return fmt.Errorf("lzx: read chunk size low byte: %w", err)
	}
	c.remaining = int(lead)<<8 | int(hi)
	return nil
}
