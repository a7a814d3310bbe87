package lzx

import "testing"

// TestDecompressUncompressedBlock exercises the block-type-3 path end to
// end: chunk framing, the 3-bit type plus 24-bit size header, 16-bit
// alignment, the raw R0/R1/R2 preload, and the literal payload copy.
// The bitstream is hand-assembled from the LZX block format rather than
// produced by an encoder, since none exists in this module.
func TestDecompressUncompressedBlock(t *testing.T) {
	header := []byte{0x00, 0x60, 0x80, 0x00} // type=3, size=4, padded to 16-bit boundary
	offsets := []byte{
		0x01, 0x00, 0x00, 0x00, // R0 = 1
		0x01, 0x00, 0x00, 0x00, // R1 = 1
		0x01, 0x00, 0x00, 0x00, // R2 = 1
	}
	payload := append(append([]byte{}, header...), offsets...)
	payload = append(payload, []byte("TEST")...)

	chunk := append([]byte{0x00, byte(len(payload))}, payload...)

	got, err := Decompress(chunk, Window15, 4)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if string(got) != "TEST" {
		t.Fatalf("got %q, want %q", got, "TEST")
	}
}

func TestDecompressZeroLength(t *testing.T) {
	got, err := Decompress(nil, Window15, 0)
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("got %d bytes, want 0", len(got))
	}
}

func TestDecompressTruncatedInput(t *testing.T) {
	if _, err := Decompress([]byte{0x00}, Window15, 4); err == nil {
		t.Fatal("expected an error for truncated chunk framing")
	}
}
