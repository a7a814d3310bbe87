package tex

import "github.com/goopsie/revilformats/pkg/platform"

// Descriptor is the common in-memory texture result every version decoder
// populates (spec.md §3, "Texture descriptor (TEX output)").
type Descriptor struct {
	Width      uint32
	Height     uint32
	Depth      uint32 // array size / volume depth; 0 means "no array dimension"
	NumMipmaps uint8
	NumFaces   uint8 // 0 or 1 for non-cubemap, 6 for cubemap

	BaseFormat BaseFormat

	ColorCorrection [4]float32 // identity (1,1,1,0) when absent

	Offsets []uint32 // payload-relative byte offsets of mip/face sub-payloads
	Buffer  []byte

	Harmonics []float32 // 27 cubemap SH coefficients, when present
	FaceSize  uint32    // per-face stride, for formats that store it explicitly

	Platform platform.Platform
}

func identityColorCorrection() [4]float32 { return [4]float32{1, 1, 1, 0} }

func depthOrOne(depth uint32) uint32 {
	if depth == 0 {
		return 1
	}
	return depth
}

// applyModifications assigns the tile hint per spec.md §4.6. Must run
// after BaseFormat.Type is set and Width/Height are known.
func applyModifications(d *Descriptor, p platform.Platform) {
	switch {
	case d.BaseFormat.Type == RGBA8 && p == platform.PS3 && isPow2(d.Width) && isPow2(d.Height):
		d.BaseFormat.Tile = TileMorton
	case p == platform.PS4:
		d.BaseFormat.Tile = TilePS4
	case p == platform.NSW:
		d.BaseFormat.Tile = TileNX
	}
}

func isPow2(v uint32) bool {
	return v != 0 && v&(v-1) == 0
}
