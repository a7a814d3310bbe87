package tex

import (
	"encoding/binary"
	"fmt"
)

// DDS container constants, adapted from the teacher's
// pkg/texture.go createDDSHeader (byte-offset header assembly, DX10
// extension for formats without a legacy FourCC).
const (
	ddsMagic        = 0x20534444 // "DDS "
	ddsHeaderSize   = 124
	ddsFlagsCaps    = 0x1
	ddsFlagsHeight  = 0x2
	ddsFlagsWidth   = 0x4
	ddsFlagsPixfmt  = 0x1000
	ddsFlagsMipmap  = 0x20000
	ddsFlagsLinear  = 0x80000
	ddsCapsTexture  = 0x1000
	ddsCapsMipmap   = 0x400000
	ddsCapsComplex  = 0x8
	ddsCaps2Cubemap = 0x200
	ddsCaps2AllFaces = 0xFC00

	ddsPixfmtSize = 32
	ddsFourCC     = 0x4
	dx10FourCC    = 0x30315844 // "DX10"

	dxgiUnknown  = 0
	dxgiBC1      = 71
	dxgiBC2      = 74
	dxgiBC3      = 77
	dxgiBC4      = 80
	dxgiBC5      = 83
	dxgiBC6H     = 95
	dxgiBC7      = 98
	dxgiR8       = 61
	dxgiRG8      = 49
	dxgiRGBA8    = 28
	dxgiRGBA16F  = 10
	dxgiB5G6R5   = 85
	dxgiRGB10A2  = 24
)

// dxgiFormat maps the universal PixelFormat to its closest DXGI_FORMAT
// for DDS output. Mobile/nibble formats without a DXGI equivalent
// (ETC1, ETC1A4, PVRTC4, R4, RG4) return dxgiUnknown — callers must
// reject those before requesting a DDS container.
func dxgiFormat(pf PixelFormat, snorm bool) (uint32, error) {
	switch pf {
	case BC1:
		return dxgiBC1, nil
	case BC2:
		return dxgiBC2, nil
	case BC3:
		return dxgiBC3, nil
	case BC4:
		return dxgiBC4, nil
	case BC5:
		return dxgiBC5, nil
	case BC6:
		return dxgiBC6H, nil
	case BC7:
		return dxgiBC7, nil
	case R8:
		return dxgiR8, nil
	case RG8:
		return dxgiRG8, nil
	case RGBA8:
		return dxgiRGBA8, nil
	case RGBA16:
		return dxgiRGBA16F, nil
	case R5G6B5:
		return dxgiB5G6R5, nil
	case RGB10A2:
		return dxgiRGB10A2, nil
	default:
		return dxgiUnknown, fmt.Errorf("tex: pixel format %d has no DDS/DXGI equivalent", pf)
	}
}

func ddsBlockSize(format uint32) uint32 {
	if format == dxgiBC1 || format == dxgiBC4 {
		return 8
	}
	return 16
}

func ddsLinearSize(width, height, format uint32) uint32 {
	blocksWide := (width + 3) / 4
	blocksHigh := (height + 3) / 4
	return blocksWide * blocksHigh * ddsBlockSize(format)
}

// EncodeDDS serializes d as a DDS file with a DX10 extension header,
// followed by d's whole payload buffer. Cubemaps set DDSCAPS2_CUBEMAP and
// all six face flags; the linear-size field is computed from 4x4 blocks of
// the format's block size for every format. Grounded on the teacher's
// pkg/texture.go createDDSHeader.
func EncodeDDS(d Descriptor) ([]byte, error) {
	format, err := dxgiFormat(d.BaseFormat.Type, d.BaseFormat.Snorm)
	if err != nil {
		return nil, err
	}

	header := make([]byte, 4+ddsHeaderSize+20)
	binary.LittleEndian.PutUint32(header[0:4], ddsMagic)

	off := 4
	binary.LittleEndian.PutUint32(header[off:off+4], ddsHeaderSize)
	off += 4

	flags := uint32(ddsFlagsCaps | ddsFlagsHeight | ddsFlagsWidth | ddsFlagsPixfmt | ddsFlagsLinear)
	if d.NumMipmaps > 1 {
		flags |= ddsFlagsMipmap
	}
	binary.LittleEndian.PutUint32(header[off:off+4], flags)
	off += 4

	binary.LittleEndian.PutUint32(header[off:off+4], d.Height)
	off += 4
	binary.LittleEndian.PutUint32(header[off:off+4], d.Width)
	off += 4

	linearSize := ddsLinearSize(d.Width, d.Height, format)
	binary.LittleEndian.PutUint32(header[off:off+4], linearSize)
	off += 4

	binary.LittleEndian.PutUint32(header[off:off+4], 0) // depth
	off += 4
	binary.LittleEndian.PutUint32(header[off:off+4], uint32(d.NumMipmaps))
	off += 4

	off += 44 // reserved1

	binary.LittleEndian.PutUint32(header[off:off+4], ddsPixfmtSize)
	off += 4
	binary.LittleEndian.PutUint32(header[off:off+4], ddsFourCC)
	off += 4
	binary.LittleEndian.PutUint32(header[off:off+4], dx10FourCC)
	off += 4
	off += 20 // bit counts / masks, unused under DX10

	caps := uint32(ddsCapsTexture)
	if d.NumMipmaps > 1 {
		caps |= ddsCapsMipmap
	}
	if d.NumFaces == 6 {
		caps |= ddsCapsComplex
	}
	binary.LittleEndian.PutUint32(header[off:off+4], caps)
	off += 4

	caps2 := uint32(0)
	if d.NumFaces == 6 {
		caps2 = ddsCaps2Cubemap | ddsCaps2AllFaces
	}
	binary.LittleEndian.PutUint32(header[off:off+4], caps2)
	off += 4

	off += 8 // caps3, caps4
	off += 4 // reserved2

	binary.LittleEndian.PutUint32(header[off:off+4], format)
	off += 4
	binary.LittleEndian.PutUint32(header[off:off+4], 3) // D3D10_RESOURCE_DIMENSION_TEXTURE2D
	off += 4
	binary.LittleEndian.PutUint32(header[off:off+4], 0) // miscFlag
	off += 4
	arraySize := uint32(1)
	if d.NumFaces == 6 {
		arraySize = 1 // DX10 cubemap arraySize counts array *elements*, not faces
	}
	binary.LittleEndian.PutUint32(header[off:off+4], arraySize)
	off += 4
	binary.LittleEndian.PutUint32(header[off:off+4], 0) // miscFlags2

	out := make([]byte, len(header)+len(d.Buffer))
	copy(out, header)
	copy(out[len(header):], d.Buffer)
	return out, nil
}
