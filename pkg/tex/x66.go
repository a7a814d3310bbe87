package tex

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

const (
	typeLayoutGeneral = 2
	typeLayoutVolume  = 3
	typeLayoutCubemap = 6
)

// x66Header and x70Header share every field except the placement of a
// null u16 padding word before width/height in x70 and the width of
// ArraySize (u16 in x66, u32 in x70); both pack
// {type: 4 bits, subtype: 4 bits} into the low byte of a u16.
type x66Header struct {
	ID              uint32
	Version         uint16
	TypeLayout      uint16
	NumMips         uint8
	NumFaces        uint8
	Width           uint16
	Height          uint16
	ArraySize       uint16
	FourCC          uint32
	ColorCorrection [4]float32
}

type x70Header struct {
	ID              uint32
	Version         uint16
	TypeLayout      uint16
	NumMips         uint8
	NumFaces        uint8
	Null            uint16
	Width           uint16
	Height          uint16
	ArraySize       uint32
	FourCC          uint32
	ColorCorrection [4]float32
}

func textureLayoutType(v uint16) uint32 {
	return uint32(bits16(v, 0, 4))
}

func loadX66(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	var hdr x66Header
	if err := r.ReadStruct(&hdr); err != nil {
		return Descriptor{}, err
	}
	return finishX66(r, p, "x66", uint32(hdr.NumFaces), uint32(hdr.NumMips),
		uint32(hdr.Width), uint32(hdr.Height), uint32(hdr.ArraySize),
		hdr.FourCC, hdr.ColorCorrection, textureLayoutType(hdr.TypeLayout))
}

func loadX70(r binreader.Reader, p platform.Platform) (Descriptor, error) {
	var hdr x70Header
	if err := r.ReadStruct(&hdr); err != nil {
		return Descriptor{}, err
	}
	return finishX66(r, p, "x70", uint32(hdr.NumFaces), uint32(hdr.NumMips),
		uint32(hdr.Width), uint32(hdr.Height), hdr.ArraySize,
		hdr.FourCC, hdr.ColorCorrection, textureLayoutType(hdr.TypeLayout))
}

func finishX66(r binreader.Reader, p platform.Platform, context string, numFaces, numMips, width, height, arraySize, fourcc uint32, colorCorrection [4]float32, textureType uint32) (Descriptor, error) {
	if textureType == typeLayoutCubemap {
		return Descriptor{}, &CubemapsUnsupportedError{Version: context}
	}

	bf, err := convertTEXFormatV1(fourcc, "tex "+context)
	if err != nil {
		return Descriptor{}, err
	}

	d := Descriptor{
		Platform:        p,
		Width:           width,
		Height:          height,
		Depth:           depthOrOne(arraySize),
		NumMipmaps:      uint8(numMips),
		NumFaces:        1,
		BaseFormat:      bf,
		ColorCorrection: colorCorrection,
	}
	if numFaces == 0 {
		numFaces = 1
	}

	offsetCount := int(numFaces * numMips)
	offsets := make([]uint32, offsetCount)
	if err := r.ReadContainer(&offsets, offsetCount); err != nil {
		return Descriptor{}, fmt.Errorf("tex %s: read offsets: %w", context, err)
	}
	payloadStart := uint32(r.Tell())
	for i := range offsets {
		offsets[i] -= payloadStart
	}
	d.Offsets = offsets

	bufSize := int(r.Size() - r.Tell())
	if arraySize != 0 {
		bufSize *= int(arraySize)
	}
	buf, err := r.ReadBuffer(bufSize)
	if err != nil {
		return Descriptor{}, fmt.Errorf("tex %s: read buffer: %w", context, err)
	}
	d.Buffer = buf

	if r.Swapped() && d.BaseFormat.Type == RGBA8 {
		d.BaseFormat.SwapPacked = true
	}

	applyModifications(&d, p)
	return d, nil
}
