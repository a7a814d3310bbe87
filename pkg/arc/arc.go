// Package arc implements C6, the ARC demultiplexer: header parse, file
// table read, optional Blowfish decrypt, per-entry LZX/zlib decompress,
// and dispatch to an extraction sink.
//
// Grounded on the teacher's pkg/manifest/manifest.go (fixed header struct
// decoded via binary.Read, followed by one or more typed sections read in
// sequence) and pkg/manifest/package.go (iterate entries, extract each to
// a sink).
package arc

import (
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/blowfish"
	"github.com/goopsie/revilformats/pkg/hfs"
	"github.com/goopsie/revilformats/pkg/lzx"
	"github.com/goopsie/revilformats/pkg/platform"
	"github.com/goopsie/revilformats/pkg/titles"
)

// Magic values, bit-exact per spec.md §6.
const (
	MagicArc   uint32 = 0x00435241 // "ARC\0"
	MagicArcC  uint32 = 0x43435241 // "ARCC"
	MagicArcBE uint32 = 0x41524300 // "\0CRA", big-endian ARC
)

// minScratch is the minimum size of the reusable uncompressed scratch
// buffer, per spec.md §4.4 step 6.
const minScratch = 32 * 1024

// Warning reports a recoverable condition (currently only a platform/endian
// mismatch) that the caller may want to surface without aborting.
type Warning struct {
	Message string
}

func (w Warning) String() string { return w.Message }

// Extract demultiplexes the ARC archive on r, delivering every entry that
// survives the filter to sink. platformHint may be platform.Auto to let
// the stream's own magic determine endianness.
//
// filter, when non-empty, restricts extraction to entries whose typeHash
// is a member — spec.md §4.4's "filter contract".
func Extract(r binreader.Reader, platformHint platform.Platform, title platform.Title, sink ExtractionSink, filter map[uint32]struct{}) ([]Warning, error) {
	r, err := hfs.Strip(r)
	if err != nil {
		return nil, fmt.Errorf("arc: strip HFS envelope: %w", err)
	}

	var warnings []Warning

	r.Push()
	rawMagic, err := r.ReadU32()
	if err != nil {
		r.Pop()
		return nil, fmt.Errorf("arc: peek magic: %w", err)
	}
	if err := r.Pop(); err != nil {
		return nil, err
	}

	nativePlatform := platform.Win32
	if rawMagic == MagicArcBE {
		nativePlatform = platform.PS3
	}

	effectivePlatform := platformHint
	if platformHint == platform.Auto {
		effectivePlatform = nativePlatform
	} else if platformHint.BigEndian() != nativePlatform.BigEndian() {
		warnings = append(warnings, Warning{Message: fmt.Sprintf(
			"arc: platform hint %s disagrees with stream endianness, overriding to %s", platformHint, nativePlatform)})
		effectivePlatform = nativePlatform
	}

	r.SwapEndian(effectivePlatform.BigEndian())

	hdr, err := readHeader(r)
	if err != nil {
		return nil, err
	}
	if hdr.Magic != MagicArc && hdr.Magic != MagicArcC && hdr.Magic != MagicArcBE {
		return nil, &InvalidHeaderError{Magic: hdr.Magic}
	}

	support := titles.TitleSupport(title, effectivePlatform)
	extended := support.Arc.Flags&titles.ExtendedPath != 0

	tableBuf, err := r.ReadBuffer(entrySize(extended) * int(hdr.NumFiles))
	if err != nil {
		return nil, fmt.Errorf("arc: read file table: %w", err)
	}

	if hdr.Magic == MagicArcC {
		if support.Arc.Key == "" {
			return nil, &EncryptedArchiveUnsupportedError{Title: title}
		}
		dec, err := blowfish.NewDecoder(support.Arc.Key)
		if err != nil {
			return nil, fmt.Errorf("arc: build blowfish decoder: %w", err)
		}
		dec.Decode(tableBuf)
	}

	order := binary.ByteOrder(binary.LittleEndian)
	if r.Swapped() {
		order = binary.BigEndian
	}
	entries, err := parseFileTable(tableBuf, int(hdr.NumFiles), extended, order)
	if err != nil {
		return nil, err
	}

	filtered := make([]fileEntry, 0, len(entries))
	for _, e := range entries {
		if e.CompressedSize == 0 {
			continue
		}
		if len(filter) > 0 {
			if _, ok := filter[e.TypeHash]; !ok {
				continue
			}
		}
		filtered = append(filtered, e)
	}

	if sink.RequiresFolders() {
		seen := map[string]struct{}{}
		for _, e := range filtered {
			dir := parentDir(e.FileName)
			if dir == "" {
				continue
			}
			if _, ok := seen[dir]; ok {
				continue
			}
			seen[dir] = struct{}{}
			sink.AddFolderPath(dir)
		}
		if err := sink.GenerateFolders(); err != nil {
			return warnings, fmt.Errorf("arc: generate folders: %w", err)
		}
	}

	maxCompressed, maxUncompressed := 0, minScratch
	for _, e := range filtered {
		if int(e.CompressedSize) > maxCompressed {
			maxCompressed = int(e.CompressedSize)
		}
		if int(e.UncompressedSize) > maxUncompressed {
			maxUncompressed = int(e.UncompressedSize)
		}
	}
	inScratch := make([]byte, maxCompressed)
	outScratch := make([]byte, maxUncompressed)

	var bfDecoder *blowfish.Decoder
	if hdr.Magic == MagicArcC {
		bfDecoder, _ = blowfish.NewDecoder(support.Arc.Key)
	}

	windowBits := lzx.Window15
	if hdr.Magic == MagicArc || hdr.Magic == MagicArcBE {
		windowBits = lzx.Window17
	}

	for _, e := range filtered {
		if err := r.Seek(int64(e.Offset)); err != nil {
			return warnings, fmt.Errorf("arc: seek to entry %q: %w", e.FileName, err)
		}

		var out []byte
		if e.CompressedSize == e.UncompressedSize {
			// Stored entry: sizes matching means the payload was never run
			// through a codec, regardless of platform (see DESIGN.md's Open
			// Question decision on this — it widens the PS3-only bypass
			// original_source/src/arc.cpp takes, because the alternative
			// leaves non-PS3 stored entries fed through a codec they were
			// never encoded with).
			buf := outScratch[:e.UncompressedSize]
			if _, err := io.ReadFull(r, buf); err != nil {
				return warnings, fmt.Errorf("arc: read entry %q: %w", e.FileName, err)
			}
			if hdr.Magic == MagicArcC && bfDecoder != nil {
				bfDecoder.Decode(buf)
			}
			out = buf
		} else {
			in := inScratch[:e.CompressedSize]
			if _, err := io.ReadFull(r, in); err != nil {
				return warnings, fmt.Errorf("arc: read entry %q: %w", e.FileName, err)
			}
			if hdr.Magic == MagicArcC && bfDecoder != nil {
				bfDecoder.Decode(in)
			}
			if hdr.IsLZX() {
				decoded, err := lzx.Decompress(in, windowBits, int(e.UncompressedSize))
				if err != nil {
					return warnings, &DecompressionFailedError{Codec: "lzx", Err: err}
				}
				out = decoded
			} else {
				decoded, err := inflate(in, int(e.UncompressedSize))
				if err != nil {
					return warnings, &DecompressionFailedError{Codec: "zlib", Err: err}
				}
				out = decoded
			}
		}

		ext, ok := titles.Extension(e.TypeHash, title, effectivePlatform)
		if !ok {
			ext = fmt.Sprintf("%08X", e.TypeHash)
		}
		path := e.FileName + "." + ext

		if err := sink.NewFile(path); err != nil {
			return warnings, fmt.Errorf("arc: new file %q: %w", path, err)
		}
		if err := sink.SendData(out); err != nil {
			return warnings, fmt.Errorf("arc: send data for %q: %w", path, err)
		}
	}

	return warnings, nil
}

func inflate(compressed []byte, uncompressedSize int) ([]byte, error) {
	zr, err := zlib.NewReader(&byteSliceReader{b: compressed})
	if err != nil {
		return nil, fmt.Errorf("zlib: new reader: %w", err)
	}
	defer zr.Close()

	out := make([]byte, uncompressedSize)
	if _, err := io.ReadFull(zr, out); err != nil {
		return nil, fmt.Errorf("zlib: inflate: %w", err)
	}
	return out, nil
}

// byteSliceReader is the minimal io.Reader zlib.NewReader needs; avoids
// pulling in bytes.Reader's Seek/ReadAt surface we don't use here.
type byteSliceReader struct {
	b []byte
}

func (r *byteSliceReader) Read(p []byte) (int, error) {
	if len(r.b) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.b)
	r.b = r.b[n:]
	return n, nil
}

func parentDir(fileName string) string {
	for i := len(fileName) - 1; i >= 0; i-- {
		if fileName[i] == '/' {
			return fileName[:i]
		}
	}
	return ""
}
