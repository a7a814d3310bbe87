package arc

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Fixed filename field widths for the two on-disk entry shapes
// (spec.md §3, "Archive file entry (two shapes)"). The source's private
// entry struct isn't part of the reference pack; these widths are a
// concrete, self-consistent choice wide enough for any path this library
// is expected to see.
const (
	standardNameWidth = 128
	extendedNameWidth = 260
)

// fileEntry is the normalized form of either on-disk entry shape.
type fileEntry struct {
	FileName         string
	TypeHash         uint32
	CompressedSize   uint32
	UncompressedSize uint32
	Offset           uint32
}

func entrySize(extended bool) int {
	nameWidth := standardNameWidth
	if extended {
		nameWidth = extendedNameWidth
	}
	return nameWidth + 4 + 4 + 4 + 4 // name + typeHash + compressedSize + uncompressedSize + offset
}

// parseFileTable decodes count fixed-width entries out of buf, which must
// already be decrypted if the archive is encrypted. order matches the
// reader's endian setting at the time the table was read.
func parseFileTable(buf []byte, count int, extended bool, order binary.ByteOrder) ([]fileEntry, error) {
	size := entrySize(extended)
	nameWidth := standardNameWidth
	if extended {
		nameWidth = extendedNameWidth
	}
	if len(buf) < size*count {
		return nil, fmt.Errorf("arc: file table truncated: have %d bytes, need %d", len(buf), size*count)
	}

	entries := make([]fileEntry, count)
	for i := 0; i < count; i++ {
		rec := buf[i*size : (i+1)*size]
		nameBuf := rec[:nameWidth]
		if nul := bytes.IndexByte(nameBuf, 0); nul >= 0 {
			nameBuf = nameBuf[:nul]
		}

		rest := rec[nameWidth:]
		entries[i] = fileEntry{
			FileName:         string(nameBuf),
			TypeHash:         order.Uint32(rest[0:4]),
			CompressedSize:   order.Uint32(rest[4:8]),
			UncompressedSize: order.Uint32(rest[8:12]),
			Offset:           order.Uint32(rest[12:16]),
		}
	}
	return entries, nil
}
