package hfs

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/goopsie/revilformats/pkg/binreader"
)

func TestStrip(t *testing.T) {
	t.Run("PassThroughNonHFS", func(t *testing.T) {
		original := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}

		r, err := binreader.NewStreamReader(bytes.NewReader(original))
		if err != nil {
			t.Fatalf("NewStreamReader: %v", err)
		}

		out, err := Strip(r)
		if err != nil {
			t.Fatalf("Strip: %v", err)
		}
		if out.Tell() != 0 {
			t.Fatalf("cursor = %d, want 0", out.Tell())
		}

		got := make([]byte, len(original))
		if _, err := out.Read(got); err != nil {
			t.Fatalf("read stripped stream: %v", err)
		}
		if !bytes.Equal(got, original) {
			t.Fatalf("content = %v, want %v", got, original)
		}
	})

	t.Run("WrappedSingleChunk", func(t *testing.T) {
		inner := []byte{0xAA, 0xBB, 0xCC, 0xDD}

		var buf bytes.Buffer
		var fixed [16]byte
		binary.LittleEndian.PutUint32(fixed[0:], Magic)
		binary.LittleEndian.PutUint32(fixed[4:], headerSize)
		binary.LittleEndian.PutUint32(fixed[8:], 1) // one chunk
		buf.Write(fixed[:])
		var chunkSize [4]byte
		binary.LittleEndian.PutUint32(chunkSize[:], uint32(len(inner)))
		buf.Write(chunkSize[:])
		buf.Write(inner)

		r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("NewStreamReader: %v", err)
		}

		out, err := Strip(r)
		if err != nil {
			t.Fatalf("Strip: %v", err)
		}
		if out.Tell() != 0 {
			t.Fatalf("cursor = %d, want 0", out.Tell())
		}

		got := make([]byte, len(inner))
		if _, err := out.Read(got); err != nil {
			t.Fatalf("read stripped stream: %v", err)
		}
		if !bytes.Equal(got, inner) {
			t.Fatalf("content = %v, want %v", got, inner)
		}
	})

	t.Run("WrappedMultiChunkConcatenates", func(t *testing.T) {
		chunk0 := []byte{0x01, 0x02, 0x03}
		chunk1 := []byte{0x04, 0x05}
		want := append(append([]byte{}, chunk0...), chunk1...)

		var buf bytes.Buffer
		var fixed [16]byte
		binary.LittleEndian.PutUint32(fixed[0:], Magic)
		binary.LittleEndian.PutUint32(fixed[4:], headerSize)
		binary.LittleEndian.PutUint32(fixed[8:], 2) // two chunks
		buf.Write(fixed[:])
		var sizes [8]byte
		binary.LittleEndian.PutUint32(sizes[0:], uint32(len(chunk0)))
		binary.LittleEndian.PutUint32(sizes[4:], uint32(len(chunk1)))
		buf.Write(sizes[:])
		buf.Write(chunk0)
		buf.Write(chunk1)

		r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("NewStreamReader: %v", err)
		}

		out, err := Strip(r)
		if err != nil {
			t.Fatalf("Strip: %v", err)
		}

		got := make([]byte, len(want))
		if _, err := out.Read(got); err != nil {
			t.Fatalf("read stripped stream: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("content = %v, want %v", got, want)
		}
	})

	t.Run("InvalidHeaderLength", func(t *testing.T) {
		var fixed [16]byte
		binary.LittleEndian.PutUint32(fixed[0:], Magic)
		binary.LittleEndian.PutUint32(fixed[4:], headerSize+1) // wrong
		binary.LittleEndian.PutUint32(fixed[8:], 0)

		r, err := binreader.NewStreamReader(bytes.NewReader(fixed[:]))
		if err != nil {
			t.Fatalf("NewStreamReader: %v", err)
		}

		if _, err := Strip(r); err == nil {
			t.Fatal("expected error for invalid header length")
		}
	})
}
