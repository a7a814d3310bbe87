package tex

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

const (
	x56LayoutGeneral   = 0
	x56LayoutIllum     = 1
	x56LayoutCorrected = 4
)

const (
	x56TypeColorPixel = 1
	x56TypeGeneral    = 2
	x56TypeCubemap    = 3
	x56TypeVolume     = 4
)

var texFormatV1Table = map[uint32]PixelFormat{
	fourCC('D', 'X', 'T', '1'): BC1,
	fourCC('D', 'X', 'T', '2'): BC2,
	fourCC('D', 'X', 'T', '3'): BC2,
	fourCC('D', 'X', 'T', '5'): BC3,
	0x15:                       RGBA8,
	0x3c:                       RG8,
}

func fourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

func convertTEXFormatV1(raw uint32, context string) (BaseFormat, error) {
	pf, ok := texFormatV1Table[raw]
	if !ok {
		return BaseFormat{}, &UnknownPixelFormatError{RawEnum: raw, Context: context}
	}
	bf := BaseFormat{Type: pf, Swizzle: IdentitySwizzle}
	if raw == fourCC('D', 'X', 'T', '2') {
		bf.PremultAlpha = true
	}
	if raw == 0x3c {
		bf.Snorm = true
	}
	return bf, nil
}

// x56Header is the earliest TEX layout: an 8-bit version and a texture
// type/layout pair, no bitfield packing.
type x56Header struct {
	ID       uint32
	Version  uint8
	Type     uint8
	Layout   uint8
	NumMips  uint8
	Width    uint32
	Height   uint32
	Array    uint32
	FourCC   uint32
}

// loadX56 implements the earliest TEX version. Volume textures embed a
// DDS sub-header (only DXT5 accepted); cubemaps are rejected outright.
func loadX56(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	var hdr x56Header
	if err := r.ReadStruct(&hdr); err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{Platform: p, ColorCorrection: identityColorCorrection(), NumFaces: 1}

	if hdr.Layout == x56LayoutCorrected {
		for i := range d.ColorCorrection {
			v, err := r.ReadF32()
			if err != nil {
				return Descriptor{}, err
			}
			d.ColorCorrection[i] = v
		}
	}

	switch hdr.Type {
	case x56TypeVolume:
		ddsFormat, width, height, depth, numMips, err := readDDSSubHeader(r)
		if err != nil {
			return Descriptor{}, err
		}
		if ddsFormat != fourCC('D', 'X', 'T', '5') {
			return Descriptor{}, &UnknownPixelFormatError{RawEnum: ddsFormat, Context: "tex x56 volume DDS"}
		}
		d.Width, d.Height, d.Depth, d.NumMipmaps = width, height, depthOrOne(depth), numMips
		d.BaseFormat = BaseFormat{Type: BC3, Swizzle: IdentitySwizzle}
	case x56TypeCubemap:
		return Descriptor{}, &CubemapsUnsupportedError{Version: "x56"}
	default:
		bf, err := convertTEXFormatV1(hdr.FourCC, "tex x56")
		if err != nil {
			return Descriptor{}, err
		}
		d.Width, d.Height, d.Depth, d.NumMipmaps = hdr.Width, hdr.Height, depthOrOne(hdr.Array), hdr.NumMips
		d.BaseFormat = bf
	}

	bufSize := int(r.Size() - r.Tell())
	buf, err := r.ReadBuffer(bufSize)
	if err != nil {
		return Descriptor{}, fmt.Errorf("tex x56: read buffer: %w", err)
	}
	d.Buffer = buf

	applyModifications(&d, platform.Win32)
	return d, nil
}

// readDDSSubHeader reads the "DDS " magic and the full 124-byte DDS_HEADER
// (no DX10 extension) used by TEXx56 Volume. Only the fields loadX56 needs
// are extracted; every other word is read and discarded.
func readDDSSubHeader(r binreader.Reader) (format, width, height, depth uint32, numMips uint8, err error) {
	// DDS_HEADER: magic(4) size(4) flags(4) height(4) width(4) pitch(4)
	// depth(4) mipMapCount(4) reserved1(11*4)
	if _, err = r.ReadU32(); err != nil { // magic "DDS "
		return
	}
	if _, err = r.ReadU32(); err != nil { // size
		return
	}
	if _, err = r.ReadU32(); err != nil { // flags
		return
	}
	if height, err = r.ReadU32(); err != nil {
		return
	}
	if width, err = r.ReadU32(); err != nil {
		return
	}
	if _, err = r.ReadU32(); err != nil { // pitch
		return
	}
	if depth, err = r.ReadU32(); err != nil {
		return
	}
	var mipCount uint32
	if mipCount, err = r.ReadU32(); err != nil {
		return
	}
	numMips = uint8(mipCount)
	if numMips == 0 {
		numMips = 1
	}
	for i := 0; i < 11; i++ {
		if _, err = r.ReadU32(); err != nil {
			return
		}
	}
	// DDS_PIXELFORMAT: size(4) flags(4) fourCC(4) rgbBitCount(4) masks(4*4)
	if _, err = r.ReadU32(); err != nil {
		return
	}
	if _, err = r.ReadU32(); err != nil {
		return
	}
	if format, err = r.ReadU32(); err != nil {
		return
	}
	for i := 0; i < 5; i++ {
		if _, err = r.ReadU32(); err != nil {
			return
		}
	}
	// DDS_HEADER tail: caps(4*4) reserved2(4)
	for i := 0; i < 5; i++ {
		if _, err = r.ReadU32(); err != nil {
			return
		}
	}
	return
}
