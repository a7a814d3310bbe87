package tex

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

// 3DS-specific format codes. Not present in original_source/src/tex.cpp
// (this revision predates the 3DS port); built directly from spec.md
// §4.5/§4.6/§9, reusing the x9D tier-bitfield header shape since no
// alternate layout is described for these versions.
const (
	fmt3DSETC1   = 0x00
	fmt3DSETC1A4 = 0x01
	fmt3DSIA8    = 0x02
	fmt3DSAL4    = 0x03
)

// luminanceAlphaSwizzle expands a two-channel luminance+alpha source into
// RGBA: R/G/B all read luminance, A reads alpha (spec.md §9 open question
// on AL4/IA8).
var luminanceAlphaSwizzle = Swizzle{ChannelR, ChannelR, ChannelR, ChannelG}

func convertTEXFormat3DS(raw uint32, context string) (BaseFormat, error) {
	switch raw {
	case fmt3DSETC1:
		return BaseFormat{Type: ETC1, Tile: TileN3DS, Swizzle: IdentitySwizzle}, nil
	case fmt3DSETC1A4:
		return BaseFormat{Type: ETC1A4, Tile: TileN3DS, Swizzle: IdentitySwizzle}, nil
	case fmt3DSIA8:
		return BaseFormat{Type: RG8, Tile: TileN3DS, Swizzle: luminanceAlphaSwizzle}, nil
	case fmt3DSAL4:
		return BaseFormat{Type: RG4, Tile: TileN3DS, Swizzle: luminanceAlphaSwizzle}, nil
	}
	return BaseFormat{}, &UnknownPixelFormatError{RawEnum: raw, Context: context}
}

func load3DS(r binreader.Reader, p platform.Platform, context string, allowCubemap bool) (Descriptor, error) {
	var hdr x9dHeader
	if err := r.ReadStruct(&hdr); err != nil {
		return Descriptor{}, err
	}

	isCubemap := x9dType(hdr.Tier0) == typeLayoutCubemap
	if isCubemap && !allowCubemap {
		return Descriptor{}, &CubemapsUnsupportedError{Version: context}
	}

	d := Descriptor{
		Platform:        platform.N3DS,
		Width:           x9dWidth(hdr.Tier1),
		Height:          x9dHeight(hdr.Tier1),
		Depth:           x9dDepth(hdr.Tier2),
		NumMipmaps:      uint8(x9dNumMips(hdr.Tier1)),
		ColorCorrection: identityColorCorrection(),
	}

	if isCubemap {
		d.NumFaces = 6
		harmonics := make([]float32, 27)
		for i := range harmonics {
			v, err := r.ReadF32()
			if err != nil {
				return Descriptor{}, fmt.Errorf("tex %s: read harmonics: %w", context, err)
			}
			harmonics[i] = v
		}
		d.Harmonics = harmonics
	} else {
		d.NumFaces = 1
	}

	bf, err := convertTEXFormat3DS(x9dFormat(hdr.Tier2), "tex "+context)
	if err != nil {
		return Descriptor{}, err
	}
	d.BaseFormat = bf

	numOffsets := int(maxU32(1, uint32(d.NumFaces)) * uint32(d.NumMipmaps))
	offsets, err := readU32Offsets(r, numOffsets)
	if err != nil {
		return Descriptor{}, err
	}
	d.Offsets = offsets

	bufSize := int(r.Size() - r.Tell())
	if d.Depth != 0 {
		bufSize *= int(d.Depth)
	}
	buf, err := r.ReadBuffer(bufSize)
	if err != nil {
		return Descriptor{}, fmt.Errorf("tex %s: read buffer: %w", context, err)
	}
	d.Buffer = buf

	d.BaseFormat.Tile = TileN3DS
	return d, nil
}

// loadXA4 is the 3DS decoder that rejects cubemaps.
func loadXA4(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	return load3DS(r, p, "xA4", false)
}

// loadXA6 covers 0xA5 and 0xA6, the cubemap-capable 3DS decoder.
func loadXA6(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	return load3DS(r, p, "xA6", true)
}
