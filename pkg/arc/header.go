package arc

import "github.com/goopsie/revilformats/pkg/binreader"

// lzxVersionFlag is the high bit of Header.Version distinguishing LZX
// (set) from zlib (clear) as the archive's compression codec, per
// spec.md §3 ("flag bit derivable from version") and the control flow
// in original_source/src/arc.cpp's hdr.IsLZX() branch.
const lzxVersionFlag = 0x8000

// Header is the fixed-size ARC header: magic, version (carrying the
// LZX/zlib flag), and file count.
type Header struct {
	Magic    uint32
	Version  uint16
	NumFiles uint16
}

// IsLZX reports whether the archive's file bodies use the LZX codec
// rather than zlib.
func (h Header) IsLZX() bool {
	return h.Version&lzxVersionFlag != 0
}

func readHeader(r binreader.Reader) (Header, error) {
	var hdr Header
	if err := r.ReadStruct(&hdr); err != nil {
		return Header{}, err
	}
	return hdr, nil
}
