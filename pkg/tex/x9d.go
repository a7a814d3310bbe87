package tex

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

// x9dHeader covers versions 0x97, 0x98, 0x99, 0x9A, 0x9D, which all share
// one three-tier bitfield layout: tier0 {version:8, unk0:6, unk1:14,
// type:4}, tier1 {numMips:6, width:13, height:13}, tier2 {numFaces:8,
// format:5, flags:3, depth:16}.
type x9dHeader struct {
	ID    uint32
	Tier0 uint32
	Tier1 uint32
	Tier2 uint32
}

func x9dType(tier0 uint32) uint32    { return bits32(tier0, 28, 4) }
func x9dNumMips(tier1 uint32) uint32 { return bits32(tier1, 0, 6) }
func x9dWidth(tier1 uint32) uint32   { return bits32(tier1, 6, 13) }
func x9dHeight(tier1 uint32) uint32  { return bits32(tier1, 19, 13) }
func x9dNumFaces(tier2 uint32) uint32 { return bits32(tier2, 0, 8) }
func x9dFormat(tier2 uint32) uint32  { return bits32(tier2, 8, 5) }
func x9dDepth(tier2 uint32) uint32   { return bits32(tier2, 16, 16) }

// loadX9D implements the x9D-family decoder. Unlike original_source,
// which throws on cubemap textures here, this decoder supports cubemaps
// generically (harmonics + 6-way offset table) per spec.md §8 scenario 6
// — a deliberate redesign, recorded in DESIGN.md.
func loadX9D(r binreader.Reader, p platform.Platform) (Descriptor, error) {
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
				return Descriptor{}, fmt.Errorf("tex x9d: read harmonics: %w", err)
			}
			harmonics[i] = v
		}
		d.Harmonics = harmonics
	} else {
		d.NumFaces = 1
	}

	numOffsets := int(d.Depth * uint32(d.NumMipmaps))
	if numOffsets == 0 {
		numOffsets = int(maxU32(1, uint32(d.NumFaces)) * uint32(d.NumMipmaps))
	}

	if !r.Swapped() {
		r.Push()
		offset0, err := r.ReadU32()
		if err != nil {
			return Descriptor{}, err
		}
		if err := r.Pop(); err != nil {
			return Descriptor{}, err
		}
		predicted := uint32(numOffsets*4) + uint32(r.Tell())

		if offset0 == predicted {
			offsets, err := readU32Offsets(r, numOffsets)
			if err != nil {
				return Descriptor{}, err
			}
			d.Offsets = offsets
			bf, err := convertTEXFormatV2(x9dFormat(hdr.Tier2), "tex x9d", p)
			if err != nil {
				return Descriptor{}, err
			}
			d.BaseFormat = bf
		} else {
			offsets, err := readU64OffsetsTruncated(r, numOffsets)
			if err != nil {
				return Descriptor{}, err
			}
			d.Offsets = offsets
			p = platform.PS4
			d.Platform = p
			bf, err := convertTEXFormatV2PS4(x9dFormat(hdr.Tier2), "tex x9d ps4")
			if err != nil {
				return Descriptor{}, err
			}
			d.BaseFormat = bf
		}
	} else {
		offsets, err := readU32Offsets(r, numOffsets)
		if err != nil {
			return Descriptor{}, err
		}
		d.Offsets = offsets
		bf, err := convertTEXFormatV2(x9dFormat(hdr.Tier2), "tex x9d", p)
		if err != nil {
			return Descriptor{}, err
		}
		d.BaseFormat = bf
	}

	payloadStart := uint32(r.Tell())
	for i := range d.Offsets {
		d.Offsets[i] -= payloadStart
	}

	bufSize := int(r.Size() - r.Tell())
	if d.Depth != 0 {
		bufSize *= int(d.Depth)
	}
	buf, err := r.ReadBuffer(bufSize)
	if err != nil {
		return Descriptor{}, fmt.Errorf("tex x9d: read buffer: %w", err)
	}
	d.Buffer = buf

	applyModifications(&d, p)
	return d, nil
}

func maxU32(a, b uint32) uint32 {
	if a > b {
		return a
	}
	return b
}

func readU32Offsets(r binreader.Reader, count int) ([]uint32, error) {
	offsets := make([]uint32, count)
	if err := r.ReadContainer(&offsets, count); err != nil {
		return nil, fmt.Errorf("tex: read u32 offsets: %w", err)
	}
	return offsets, nil
}

func readU64OffsetsTruncated(r binreader.Reader, count int) ([]uint32, error) {
	wide := make([]uint64, count)
	if err := r.ReadContainer(&wide, count); err != nil {
		return nil, fmt.Errorf("tex: read u64 offsets: %w", err)
	}
	offsets := make([]uint32, count)
	for i, v := range wide {
		offsets[i] = uint32(v)
	}
	return offsets, nil
}

// convertTEXFormatV2PS4 is the PS4-specific enum table x9D falls back to
// once the PS4 heuristic fires.
func convertTEXFormatV2PS4(raw uint32, context string) (BaseFormat, error) {
	switch raw {
	case 0x07:
		return BaseFormat{Type: R8, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT5YUV:
		return BaseFormat{Type: BC3, Swizzle: IdentitySwizzle}, nil
	case fmtV2BC7:
		return BaseFormat{Type: BC7, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT1:
		return BaseFormat{Type: BC1, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT3:
		return BaseFormat{Type: BC2, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT5:
		return BaseFormat{Type: BC3, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT1NormalMap:
		return BaseFormat{Type: BC1, Swizzle: IdentitySwizzle}, nil
	case 0x1f: // BC5S
		return BaseFormat{Type: BC5, Snorm: true, Swizzle: IdentitySwizzle}, nil
	case fmtV2DXT1Gray: // BC4
		return BaseFormat{Type: BC4, Swizzle: IdentitySwizzle}, nil
	}
	return BaseFormat{}, &UnknownPixelFormatError{RawEnum: raw, Context: context}
}
