package tex

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"testing"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
)

func putF32(buf *bytes.Buffer, order binary.ByteOrder, v float32) {
	var b [4]byte
	order.PutUint32(b[:], math.Float32bits(v))
	buf.Write(b[:])
}

// TestLoadX66RGBA8LE builds spec.md §8 scenario 5: a 4x4 RGBA8 x66
// texture, one mip, one offset, 64-byte payload.
func TestLoadX66RGBA8LE(t *testing.T) {
	var buf bytes.Buffer
	order := binary.LittleEndian

	var u32 [4]byte
	order.PutUint32(u32[:], magicTEX0)
	buf.Write(u32[:])

	var u16 [2]byte
	order.PutUint16(u16[:], 0x66) // version
	buf.Write(u16[:])
	order.PutUint16(u16[:], 0) // type|subtype = General
	buf.Write(u16[:])
	buf.WriteByte(1) // numMips
	buf.WriteByte(1) // numFaces
	order.PutUint16(u16[:], 4) // width
	buf.Write(u16[:])
	order.PutUint16(u16[:], 4) // height
	buf.Write(u16[:])
	order.PutUint16(u16[:], 0) // arraySize
	buf.Write(u16[:])
	order.PutUint32(u32[:], 0x15) // fourcc RGBA8_PACKED
	buf.Write(u32[:])
	for _, v := range [4]float32{1, 1, 1, 0} {
		putF32(&buf, order, v)
	}
	headerEnd := buf.Len()
	order.PutUint32(u32[:], uint32(headerEnd+4)) // single absolute offset = payload start, after the offset table
	buf.Write(u32[:])
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}
	buf.Write(payload)

	r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}

	d, err := Load(r, platform.Auto)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.Width != 4 || d.Height != 4 || d.Depth != 1 || d.NumMipmaps != 1 || d.NumFaces != 1 {
		t.Fatalf("dims = %+v, want 4x4x1 mips=1 faces=1", d)
	}
	if d.BaseFormat.Type != RGBA8 {
		t.Fatalf("format = %v, want RGBA8", d.BaseFormat.Type)
	}
	if len(d.Offsets) != 1 || d.Offsets[0] != uint32(headerEnd+4) {
		t.Fatalf("offsets = %v", d.Offsets)
	}
	if len(d.Buffer) != 64 {
		t.Fatalf("buffer len = %d, want 64", len(d.Buffer))
	}
}

// buildX9DHeader assembles an x9D-family tier0/tier1/tier2 header.
func buildX9DHeader(order binary.ByteOrder, isCubemap bool, numMips, width, height, numFaces, format, depth uint32) []byte {
	var buf bytes.Buffer
	var u32 [4]byte
	order.PutUint32(u32[:], magicTEX0)
	buf.Write(u32[:])

	texType := uint32(typeLayoutGeneral)
	if isCubemap {
		texType = typeLayoutCubemap
	}
	tier0 := (uint32(0x9D) & 0xFF) | texType<<28
	tier1 := (numMips & 0x3F) | (width&0x1FFF)<<6 | (height&0x1FFF)<<19
	tier2 := (numFaces & 0xFF) | (format&0x1F)<<8 | (depth&0xFFFF)<<16

	order.PutUint32(u32[:], tier0)
	buf.Write(u32[:])
	order.PutUint32(u32[:], tier1)
	buf.Write(u32[:])
	order.PutUint32(u32[:], tier2)
	buf.Write(u32[:])
	return buf.Bytes()
}

// TestLoadX9DCubemapHarmonicsNSW builds spec.md §8 scenario 6.
func TestLoadX9DCubemapHarmonicsNSW(t *testing.T) {
	order := binary.LittleEndian
	header := buildX9DHeader(order, true, 1, 4, 4, 6, 0x1f /* DXT5_NM -> BC5 on NSW */, 0)

	var buf bytes.Buffer
	buf.Write(header)
	for i := 0; i < 27; i++ {
		putF32(&buf, order, float32(i))
	}

	headerLen := buf.Len()
	numOffsets := 6 // max(1,numFaces)*numMipmaps = 6*1
	predicted := uint32(headerLen + numOffsets*4)
	var u32 [4]byte
	order.PutUint32(u32[:], predicted)
	buf.Write(u32[:])
	for i := 1; i < numOffsets; i++ {
		order.PutUint32(u32[:], predicted+uint32(i)*16)
		buf.Write(u32[:])
	}
	buf.Write(make([]byte, 16*6))

	r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}

	d, err := Load(r, platform.NSW)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if d.NumFaces != 6 {
		t.Fatalf("numFaces = %d, want 6", d.NumFaces)
	}
	if d.BaseFormat.Type != BC5 {
		t.Fatalf("format = %v, want BC5", d.BaseFormat.Type)
	}
	if d.BaseFormat.Tile != TileNX {
		t.Fatalf("tile = %v, want NX", d.BaseFormat.Tile)
	}
	if len(d.Harmonics) != 27 {
		t.Fatalf("harmonics len = %d, want 27", len(d.Harmonics))
	}
	if len(d.Offsets) != 6 {
		t.Fatalf("offsets len = %d, want 6", len(d.Offsets))
	}
}

// TestLoadX9DPS4Heuristic verifies both the u32 and u64 offset branches.
func TestLoadX9DPS4Heuristic(t *testing.T) {
	order := binary.LittleEndian

	t.Run("u32 offsets", func(t *testing.T) {
		header := buildX9DHeader(order, false, 1, 2, 2, 1, 0x13, 1)
		var buf bytes.Buffer
		buf.Write(header)
		headerLen := buf.Len()
		predicted := uint32(headerLen + 1*4)
		var u32 [4]byte
		order.PutUint32(u32[:], predicted)
		buf.Write(u32[:])
		buf.Write(make([]byte, 8))

		r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("NewStreamReader: %v", err)
		}
		d, err := Load(r, platform.Auto)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if d.Platform == platform.PS4 {
			t.Fatalf("platform = PS4, want non-PS4 for u32 branch")
		}
	})

	t.Run("u64 offsets", func(t *testing.T) {
		header := buildX9DHeader(order, false, 1, 2, 2, 1, 0x13, 1)
		var buf bytes.Buffer
		buf.Write(header)
		// deliberately wrong/mismatched first offset forces the u64 branch
		var u64 [8]byte
		order.PutUint64(u64[:], 0xDEADBEEF00000000)
		buf.Write(u64[:])
		buf.Write(make([]byte, 8))

		r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
		if err != nil {
			t.Fatalf("NewStreamReader: %v", err)
		}
		d, err := Load(r, platform.Auto)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if d.Platform != platform.PS4 {
			t.Fatalf("platform = %v, want PS4", d.Platform)
		}
	})
}

func TestLoadX56VolumeNonDXT5(t *testing.T) {
	order := binary.LittleEndian
	var buf bytes.Buffer
	var u32 [4]byte
	order.PutUint32(u32[:], magicTEX0)
	buf.Write(u32[:])
	buf.WriteByte(0x56)                // version
	buf.WriteByte(x56TypeVolume)       // type
	buf.WriteByte(x56LayoutGeneral)    // layout
	buf.WriteByte(1)                   // numMips
	order.PutUint32(u32[:], 0)
	buf.Write(u32[:]) // width
	buf.Write(u32[:]) // height
	buf.Write(u32[:]) // array
	buf.Write(u32[:]) // fourcc (unused for volume path)

	// DDS sub-header: magic, size, flags, height, width, pitch, depth, mipCount
	for i := 0; i < 8; i++ {
		buf.Write(u32[:])
	}
	for i := 0; i < 11; i++ {
		buf.Write(u32[:])
	}
	// DDS_PIXELFORMAT: size, flags, fourcc(not DXT5), bitcount + masks(5),
	// then caps(4) + reserved2(1)
	buf.Write(u32[:])
	buf.Write(u32[:])
	order.PutUint32(u32[:], fourCC('D', 'X', 'T', '1'))
	buf.Write(u32[:])
	order.PutUint32(u32[:], 0)
	for i := 0; i < 5; i++ {
		buf.Write(u32[:])
	}
	for i := 0; i < 5; i++ {
		buf.Write(u32[:])
	}

	r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}
	_, err = Load(r, platform.Auto)
	var target *UnknownPixelFormatError
	if !errors.As(err, &target) {
		t.Fatalf("err = %v, want *UnknownPixelFormatError", err)
	}
}

func TestLoadX56Cubemap(t *testing.T) {
	order := binary.LittleEndian
	var buf bytes.Buffer
	var u32 [4]byte
	order.PutUint32(u32[:], magicTEX0)
	buf.Write(u32[:])
	buf.WriteByte(0x56)
	buf.WriteByte(x56TypeCubemap)
	buf.WriteByte(x56LayoutGeneral)
	buf.WriteByte(1)
	order.PutUint32(u32[:], 0)
	for i := 0; i < 4; i++ {
		buf.Write(u32[:])
	}

	r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}
	_, err = Load(r, platform.Auto)
	var target *CubemapsUnsupportedError
	if !errors.As(err, &target) {
		t.Fatalf("err = %v, want *CubemapsUnsupportedError", err)
	}
}

func TestLoadX56BigEndianRejected(t *testing.T) {
	order := binary.LittleEndian
	var buf bytes.Buffer
	var u32 [4]byte
	order.PutUint32(u32[:], magicXET)
	buf.Write(u32[:])
	buf.WriteByte(0x56)
	buf.Write(make([]byte, 3))

	r, err := binreader.NewStreamReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}
	_, err = Load(r, platform.Auto)
	var target *PlatformUnsupportedError
	if !errors.As(err, &target) {
		t.Fatalf("err = %v, want *PlatformUnsupportedError", err)
	}
}

func TestLoadInvalidHeaderMagic(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00}
	r, err := binreader.NewStreamReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("NewStreamReader: %v", err)
	}
	_, err = Load(r, platform.Auto)
	var target *InvalidHeaderError
	if !errors.As(err, &target) {
		t.Fatalf("err = %v, want *InvalidHeaderError", err)
	}
}
