// Package tex implements C7 (the TEX dispatcher) and C8 (the per-version
// TEX header decoders), normalizing ~12 on-disk texture layouts into one
// common Descriptor.
//
// Grounded on the teacher's pkg/asset/asset.go (switch-on-discriminant
// dispatch to per-shape parse functions returning a common result type)
// for the dispatch shape, and pkg/texture/texture.go (DXGI format table,
// createDDSHeader) for the format-table and buffer-sizing idiom. Header
// layouts and bitfield widths come from original_source/src/tex.cpp.
package tex

import "fmt"

// PixelFormat is the universal pixel-format taxonomy every version
// decoder's format table maps into (spec.md §3).
type PixelFormat uint8

const (
	PixelFormatUnknown PixelFormat = iota
	BC1
	BC2
	BC3
	BC4
	BC5
	BC6
	BC7
	R8
	RG8
	RGB8
	RGBA8
	RGBA4
	R5G6B5
	RGB10A2
	RGBA16
	ETC1
	ETC1A4
	PVRTC4
	R4
	RG4
)

var pixelFormatNames = map[PixelFormat]string{
	PixelFormatUnknown: "Unknown",
	BC1:                "BC1",
	BC2:                "BC2",
	BC3:                "BC3",
	BC4:                "BC4",
	BC5:                "BC5",
	BC6:                "BC6",
	BC7:                "BC7",
	R8:                 "R8",
	RG8:                "RG8",
	RGB8:               "RGB8",
	RGBA8:              "RGBA8",
	RGBA4:              "RGBA4",
	R5G6B5:             "R5G6B5",
	RGB10A2:            "RGB10A2",
	RGBA16:             "RGBA16",
	ETC1:               "ETC1",
	ETC1A4:             "ETC1A4",
	PVRTC4:             "PVRTC4",
	R4:                 "R4",
	RG4:                "RG4",
}

func (f PixelFormat) String() string {
	if name, ok := pixelFormatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("PixelFormat(%d)", uint8(f))
}

// Channel identifies one of the four pixel channels, or a synthetic
// source for a swizzle target.
type Channel uint8

const (
	ChannelR Channel = iota
	ChannelG
	ChannelB
	ChannelA
	ChannelDeriveZ
	ChannelZero
	ChannelOne
)

// Swizzle remaps each of the four output channels to a source channel.
type Swizzle [4]Channel

// IdentitySwizzle leaves every channel untouched.
var IdentitySwizzle = Swizzle{ChannelR, ChannelG, ChannelB, ChannelA}

// TileMode selects a platform-specific memory tiling the consumer must
// account for when addressing texels.
type TileMode uint8

const (
	TileLinear TileMode = iota
	TileMorton
	TilePS4
	TileNX
	TileN3DS
)

func (t TileMode) String() string {
	switch t {
	case TileLinear:
		return "Linear"
	case TileMorton:
		return "Morton"
	case TilePS4:
		return "PS4"
	case TileNX:
		return "NX"
	case TileN3DS:
		return "N3DS"
	default:
		return fmt.Sprintf("TileMode(%d)", uint8(t))
	}
}

// BaseFormat is a pixel format plus the modifiers version decoders and
// ApplyModifications may set.
type BaseFormat struct {
	Type         PixelFormat
	Snorm        bool
	PremultAlpha bool
	Tile         TileMode
	Swizzle      Swizzle
	SwapPacked   bool
}
