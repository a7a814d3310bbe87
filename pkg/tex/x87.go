package tex

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

// x87Header packs two tiers of bitfields (spec.md §9): tier0 carries
// {type:4, numMips:5, numFaces:8, width:13}, tier1 carries
// {height:13, depth:13, null:6}.
type x87Header struct {
	ID      uint32
	Version uint16
	Null    uint16
	Tier0   uint32
	Tier1   uint32
	Format  uint8
}

func x87Type(tier0 uint32) uint32    { return bits32(tier0, 0, 4) }
func x87NumMips(tier0 uint32) uint32 { return bits32(tier0, 4, 5) }
func x87NumFaces(tier0 uint32) uint32 { return bits32(tier0, 9, 8) }
func x87Width(tier0 uint32) uint32   { return bits32(tier0, 17, 13) }
func x87Height(tier1 uint32) uint32  { return bits32(tier1, 0, 13) }
func x87Depth(tier1 uint32) uint32   { return bits32(tier1, 13, 13) }

// loadX87 implements the bitfield-packed revision. The original never
// calls ApplyModifications for this version; preserved here (see
// DESIGN.md) rather than generalized, since no pack source shows x87
// on PS3/PS4/NSW in practice.
func loadX87(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	var hdr x87Header
	if err := r.ReadStruct(&hdr); err != nil {
		return Descriptor{}, err
	}

	if x87Type(hdr.Tier0) == typeLayoutCubemap {
		return Descriptor{}, &CubemapsUnsupportedError{Version: "x87"}
	}

	bf, err := convertTEXFormatV2(uint32(hdr.Format), "tex x87", p)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Platform:   p,
		Width:      x87Width(hdr.Tier0),
		Height:     x87Height(hdr.Tier1),
		Depth:      x87Depth(hdr.Tier1),
		NumMipmaps: uint8(x87NumMips(hdr.Tier0)),
		NumFaces:   1,
		BaseFormat: bf,
		ColorCorrection: identityColorCorrection(),
	}

	numOffsets := int(d.Depth * uint32(d.NumMipmaps))
	offsets := make([]uint32, numOffsets)
	if err := r.ReadContainer(&offsets, numOffsets); err != nil {
		return Descriptor{}, fmt.Errorf("tex x87: read offsets: %w", err)
	}
	d.Offsets = offsets

	bufSize := int(r.Size() - r.Tell())
	if d.Depth != 0 {
		bufSize *= int(d.Depth)
	}
	buf, err := r.ReadBuffer(bufSize)
	if err != nil {
		return Descriptor{}, fmt.Errorf("tex x87: read buffer: %w", err)
	}
	d.Buffer = buf

	if r.Swapped() && d.BaseFormat.Type == RGBA8 {
		d.BaseFormat.SwapPacked = true
	}

	return d, nil
}

// The fmtV2 constants are the format enum shared by x87 and the x9D
// family (convertTEXFormatV2); x66/x70 use convertTEXFormatV1 instead.
// COMPRESSED_GRAYSCALE (0x19) and COMPRESSED_DERIVED_NORMAL_MAP (0x1f)
// resolve differently on PS4/NSW per spec.md §4.6.
const (
	fmtV2RGBA16F         = 0x02
	fmtV2DXT5YUV         = 0x0A
	fmtV2BC7             = 0x10
	fmtV2DXT1            = 0x13
	fmtV2DXT3            = 0x15
	fmtV2DXT5            = 0x17
	fmtV2DXT1Gray        = 0x19
	fmtV2DXT1NormalMap   = 0x1e
	fmtV2DXT5NormalMap   = 0x1f
	fmtV2DXT5Lightmap    = 0x20
	fmtV2DXT5Premult     = 0x25
	fmtV2DXT5ID          = 0x2a
	fmtV2RGBA8           = 0x27
	fmtV2R8PS4           = 0x07
)

func convertTEXFormatV2(raw uint32, context string, p platform.Platform) (BaseFormat, error) {
	platformSensitive := p == platform.PS4 || p == platform.NSW

	switch raw {
	case fmtV2DXT1:
		return BaseFormat{Type: BC1, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT1Gray:
		if platformSensitive {
			return BaseFormat{Type: BC4, Swizzle: IdentitySwizzle}, nil
		}
		return BaseFormat{Type: BC1, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT1NormalMap:
		return BaseFormat{Type: BC1, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT3:
		return BaseFormat{Type: BC2, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT5, fmtV2DXT5Lightmap, fmtV2DXT5Premult, fmtV2DXT5ID, fmtV2DXT5YUV:
		return BaseFormat{Type: BC3, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT5NormalMap:
		if platformSensitive {
			return BaseFormat{Type: BC5, Swizzle: IdentitySwizzle}, nil
		}
		return BaseFormat{Type: BC3, Swizzle: IdentitySwizzle}, nil
	case fmtV2RGBA16F:
		return BaseFormat{Type: RGBA16, Swizzle: IdentitySwizzle}, nil
	case fmtV2RGBA8:
		return BaseFormat{Type: RGBA8, Swizzle: IdentitySwizzle}, nil
	case fmtV2BC7:
		return BaseFormat{Type: BC7, Swizzle: IdentitySwizzle}, nil
	case fmtV2R8PS4:
		if p == platform.PS4 {
			return BaseFormat{Type: R8, Swizzle: IdentitySwizzle}, nil
		}
	}

	return BaseFormat{}, &UnknownPixelFormatError{RawEnum: raw, Context: context}
}
