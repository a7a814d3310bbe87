package tex

import (
	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/hfs"
	"github.com/goopsie/revilformats/pkg/platform"
)

const (
	magicTEX0 = 0x00584554 // "TEX\0"
	magicTEXS = 0x20584554 // "TEX "
	magicXET  = 0x54455800 // "\0XET"
)

// decoderFunc is the per-version decode entry point, grounded on the
// teacher's pkg/asset/asset.go dispatch-to-parse-function shape.
type decoderFunc func(r binreader.Reader, p platform.Platform) (Descriptor, error)

var texLoaders = map[uint32]decoderFunc{
	0x09: loadAndr,
	0x56: nil, // handled specially: rejects big-endian before dispatch
	0x66: loadX66,
	0x70: loadX70,
	0x87: loadX87,
	0x97: loadX9D,
	0x98: loadX9D,
	0x99: loadX9D,
	0x9A: loadX9D,
	0x9D: loadX9D,
	0xA0: loadXA0,
	0xA3: loadXA0,
	0xA4: loadXA4,
	0xA5: loadXA6,
	0xA6: loadXA6,
}

// Load runs the TEX dispatcher (spec.md §4.5): strip any HFS envelope,
// detect endianness from the magic, and hand off to the version-specific
// decoder selected from the header's version field.
func Load(r binreader.Reader, hint platform.Platform) (Descriptor, error) {
	stripped, err := hfs.Strip(r)
	if err != nil {
		return Descriptor{}, err
	}
	r = stripped

	r.Push()
	magic, err := r.ReadU32()
	if err != nil {
		return Descriptor{}, err
	}
	if err := r.Pop(); err != nil {
		return Descriptor{}, err
	}

	switch magic {
	case magicXET:
		r.SwapEndian(true)
	case magicTEX0, magicTEXS:
		// already in the reader's configured endianness
	default:
		return Descriptor{}, &InvalidHeaderError{Magic: magic}
	}

	// Every version-specific decoder re-reads the full header (including
	// the magic) from this cursor position, mirroring the original
	// source's rd.Seek(0) before dispatch.
	versionByte, err := peekVersionByte(r)
	if err != nil {
		return Descriptor{}, err
	}

	if versionByte == 0x56 {
		if r.Swapped() {
			return Descriptor{}, &PlatformUnsupportedError{Platform: platform.X360.String(), Version: 0x56}
		}
		return loadX56(r, platform.Win32)
	}

	version16, err := peekVersion16(r)
	if err != nil {
		return Descriptor{}, err
	}

	effective := hint
	if effective == platform.Auto {
		if r.Swapped() {
			effective = platform.PS3
		} else {
			effective = platform.Win32
		}
	}

	if fn, ok := texLoaders[uint32(version16)]; ok && fn != nil {
		return fn(r, effective)
	}

	version32, err := peekVersion32(r)
	if err != nil {
		return Descriptor{}, err
	}
	if fn, ok := texLoaders[version32]; ok && fn != nil {
		return fn(r, effective)
	}

	return Descriptor{}, &InvalidVersionError{Version: uint32(version16)}
}

// peekVersionByte reads the version field's low byte (offset 4, right
// after the u32 magic) and restores the cursor to the header start.
func peekVersionByte(r binreader.Reader) (uint8, error) {
	r.Push()
	defer r.Pop()
	if err := r.Skip(4); err != nil {
		return 0, err
	}
	return r.ReadU8()
}

func peekVersion16(r binreader.Reader) (uint16, error) {
	r.Push()
	defer r.Pop()
	if err := r.Skip(4); err != nil {
		return 0, err
	}
	return r.ReadU16()
}

func peekVersion32(r binreader.Reader) (uint32, error) {
	r.Push()
	defer r.Pop()
	if err := r.Skip(4); err != nil {
		return 0, err
	}
	return r.ReadU32()
}
