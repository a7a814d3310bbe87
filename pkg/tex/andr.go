package tex

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

const (
	andrFormatRGBA8 = 0x01
	andrFormatRGBA4 = 0x07
	andrFormatETC1  = 0x0A
	andrFormatPVRTC4 = 0x0D
)

type andrHeader struct {
	ID          uint32
	Version     uint16
	Format      uint8
	Unk         uint8
	Type        uint32
	Dims        uint32 // width:13, height:13, numMips:4, unk0:1, unk1:1
	UnkOffset   uint32
	PVROffset   uint32
	DataOffset  uint32
	UnkSize     uint32
	PVRSize     uint32
	DataSize    uint32
}

func andrWidth(dims uint32) uint32  { return bits32(dims, 0, 13) }
func andrHeight(dims uint32) uint32 { return bits32(dims, 13, 13) }

// loadAndr implements the mobile layout (spec.md §4.6 "Andr"). Payload
// location is one of three alternative offsets in the header depending
// on format; numMipmaps is always forced to 1 regardless of the header's
// own mip count, matching the supplemented behaviour spec.md describes
// (this revision of original_source has no Android loader to ground the
// offset choice against, so the mapping of offset/size pairs to formats
// is a documented, self-consistent choice).
func loadAndr(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	var hdr andrHeader
	if err := r.ReadStruct(&hdr); err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Platform:        p,
		Width:           andrWidth(hdr.Dims),
		Height:          andrHeight(hdr.Dims),
		Depth:           1,
		NumMipmaps:      1,
		NumFaces:        1,
		ColorCorrection: identityColorCorrection(),
	}

	var payloadOffset, payloadSize uint32
	switch hdr.Format {
	case andrFormatPVRTC4:
		d.BaseFormat = BaseFormat{Type: PVRTC4, Swizzle: Swizzle{ChannelB, ChannelG, ChannelR, ChannelA}}
		payloadOffset, payloadSize = hdr.PVROffset, hdr.PVRSize
	case andrFormatETC1:
		d.BaseFormat = BaseFormat{Type: ETC1, Swizzle: IdentitySwizzle}
		payloadOffset, payloadSize = hdr.DataOffset, hdr.DataSize
	case andrFormatRGBA4:
		d.BaseFormat = BaseFormat{Type: RGBA4, Swizzle: IdentitySwizzle}
		payloadOffset, payloadSize = hdr.DataOffset, hdr.DataSize
	case andrFormatRGBA8:
		d.BaseFormat = BaseFormat{Type: RGBA8, Swizzle: IdentitySwizzle}
		payloadOffset, payloadSize = hdr.DataOffset, hdr.DataSize
	default:
		return Descriptor{}, &UnknownPixelFormatError{RawEnum: uint32(hdr.Format), Context: "tex andr"}
	}

	if err := r.Seek(int64(payloadOffset)); err != nil {
		return Descriptor{}, err
	}
	buf, err := r.ReadBuffer(int(payloadSize))
	if err != nil {
		return Descriptor{}, fmt.Errorf("tex andr: read buffer: %w", err)
	}
	d.Buffer = buf
	d.Offsets = []uint32{0}

	applyModifications(&d, p)
	return d, nil
}
