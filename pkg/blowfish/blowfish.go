// Package blowfish provides the in-place Blowfish decryption ARCC archives
// need (C4). The cipher primitive itself is treated as an external
// collaborator per spec — this package is only the usage around it.
package blowfish

import (
	"crypto/cipher"
	"fmt"

	"golang.org/x/crypto/blowfish"
)

// Decoder decrypts buffers in place with a title-scoped Blowfish key,
// ECB-style (each block decrypted independently, no chaining) — matching
// how the file table and the entry bodies of an ARCC archive are
// encrypted.
//
// Grounded on other_examples/1siamBot-rts-engine__main.go's decryptECB
// helper: iterate BlockSize()-sized chunks, decrypt each in place.
type Decoder struct {
	block cipher.Block
}

// NewDecoder builds a Decoder from a title-scoped key. An empty key means
// the title has no encryption support registered.
func NewDecoder(key string) (*Decoder, error) {
	if key == "" {
		return nil, fmt.Errorf("blowfish: empty key")
	}
	c, err := blowfish.NewCipher([]byte(key))
	if err != nil {
		return nil, fmt.Errorf("blowfish: new cipher: %w", err)
	}
	return &Decoder{block: c}, nil
}

// Decode decrypts buf in place. len(buf) must be a multiple of the cipher's
// block size (8 bytes); any trailing partial block is left untouched, as
// the source format never produces one (entry sizes and the file-table
// region are always 8-byte aligned).
func (d *Decoder) Decode(buf []byte) {
	bs := d.block.BlockSize()
	for i := 0; i+bs <= len(buf); i += bs {
		d.block.Decrypt(buf[i:i+bs], buf[i:i+bs])
	}
}
