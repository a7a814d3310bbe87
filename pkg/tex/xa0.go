package tex

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

// The fmtA0 constants are the TEXFormatA0 enum (spec.md §4.6, xA0 decoder).
const (
	fmtA0R8      = 0x00
	fmtA0RGBA8   = 0x07
	fmtA0BC3YUV  = 0x0A
	fmtA0BC1     = 0x13
	fmtA0BC2     = 0x15
	fmtA0BC3     = 0x17
	fmtA0BC4     = 0x19
	fmtA0BC1NM   = 0x1e
	fmtA0BC5     = 0x1f
)

func convertTEXFormatA0(raw uint32, context string) (BaseFormat, error) {
	switch raw {
	case fmtA0BC1, fmtA0BC1NM:
		return BaseFormat{Type: BC1, Swizzle: IdentitySwizzle}, nil
	case fmtA0BC2:
		return BaseFormat{Type: BC2, Swizzle: IdentitySwizzle}, nil
	case fmtA0BC3, fmtA0BC3YUV:
		return BaseFormat{Type: BC3, Swizzle: IdentitySwizzle}, nil
	case fmtA0BC4:
		return BaseFormat{Type: BC4, Swizzle: IdentitySwizzle}, nil
	case fmtA0BC5:
		return BaseFormat{Type: BC5, Swizzle: Swizzle{ChannelR, ChannelDeriveZ, ChannelZero, ChannelOne}}, nil
	case fmtA0RGBA8:
		return BaseFormat{Type: RGBA8, Swizzle: IdentitySwizzle}, nil
	case fmtA0R8:
		return BaseFormat{Type: R8, Swizzle: IdentitySwizzle}, nil
	}
	return BaseFormat{}, &UnknownPixelFormatError{RawEnum: raw, Context: context}
}

// loadXA0 implements versions 0xA0 and 0xA3. It reuses the x9D header
// shape (same tier0/tier1/tier2 bitfield layout) but carries an explicit
// bufferSize field and, for cubemaps, a faceSize used to expand a single
// mip-offset list across all six faces (spec.md §4.6).
func loadXA0(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	var hdr x9dHeader
	if err := r.ReadStruct(&hdr); err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Platform:        p,
		Width:           x9dWidth(hdr.Tier1),
		Height:          x9dHeight(hdr.Tier1),
		Depth:           x9dDepth(hdr.Tier2),
		NumMipmaps:      uint8(x9dNumMips(hdr.Tier1)),
		ColorCorrection: identityColorCorrection(),
	}

	isCubemap := x9dType(hdr.Tier0) == typeLayoutCubemap
	if isCubemap {
		d.NumFaces = 6
		harmonics := make([]float32, 27)
		for i := range harmonics {
			v, err := r.ReadF32()
			if err != nil {
				return Descriptor{}, fmt.Errorf("tex xa0: read harmonics: %w", err)
			}
			harmonics[i] = v
		}
		d.Harmonics = harmonics
	} else {
		d.NumFaces = 1
	}

	bufferSize, err := r.ReadU32()
	if err != nil {
		return Descriptor{}, err
	}

	numMipOffsets := int(d.NumMipmaps)
	mipOffsets, err := readU32Offsets(r, numMipOffsets)
	if err != nil {
		return Descriptor{}, err
	}

	bf, err := convertTEXFormatA0(x9dFormat(hdr.Tier2), "tex xa0")
	if err != nil {
		return Descriptor{}, err
	}
	d.BaseFormat = bf

	if isCubemap {
		faceSize, err := r.ReadU32()
		if err != nil {
			return Descriptor{}, err
		}
		d.FaceSize = faceSize
		d.Offsets = expandCubemapOffsets(mipOffsets, faceSize)
	} else {
		d.Offsets = mipOffsets
	}

	buf, err := r.ReadBuffer(int(bufferSize))
	if err != nil {
		return Descriptor{}, fmt.Errorf("tex xa0: read buffer: %w", err)
	}
	d.Buffer = buf

	applyModifications(&d, p)
	return d, nil
}

// expandCubemapOffsets appends 5 more copies of the mip-offset list, each
// shifted by an additional faceSize, producing one block of offsets per
// face (spec.md §4.6 "Cubemap offset expansion").
func expandCubemapOffsets(mipOffsets []uint32, faceSize uint32) []uint32 {
	expanded := make([]uint32, 0, len(mipOffsets)*6)
	for face := uint32(0); face < 6; face++ {
		for _, o := range mipOffsets {
			expanded = append(expanded, o+face*faceSize)
		}
	}
	return expanded
}
