package lzx

import "fmt"

// huffTree decodes canonical Huffman codes one bit at a time against
// per-length first-code boundaries — the textbook "simple" canonical
// decode, traded for table-driven speed since these trees are rebuilt
// every block and the payloads involved are small.
type huffTree struct {
	maxLen           int
	counts           []int
	firstCode        []uint32
	firstSymbolIndex []int
	symbols          []uint16
}

func buildHuffman(lengths []uint8, maxLen int) (*huffTree, error) {
	counts := make([]int, maxLen+1)
	for _, l := range lengths {
		if int(l) > maxLen {
			return nil, fmt.Errorf("lzx: code length %d exceeds max %d", l, maxLen)
		}
		if l > 0 {
			counts[l]++
		}
	}

	firstCode := make([]uint32, maxLen+1)
	firstSymbolIndex := make([]int, maxLen+1)
	code := uint32(0)
	idx := 0
	for l := 1; l <= maxLen; l++ {
		firstCode[l] = code
		firstSymbolIndex[l] = idx
		code = (code + uint32(counts[l])) << 1
		idx += counts[l]
	}

	pos := make([]int, maxLen+1)
	copy(pos, firstSymbolIndex)
	symbols := make([]uint16, idx)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		symbols[pos[l]] = uint16(sym)
		pos[l]++
	}

	return &huffTree{
		maxLen:           maxLen,
		counts:           counts,
		firstCode:        firstCode,
		firstSymbolIndex: firstSymbolIndex,
		symbols:          symbols,
	}, nil
}

func (t *huffTree) decode(br *bitReader) (uint16, error) {
	code := uint32(0)
	for l := 1; l <= t.maxLen; l++ {
		bit, err := br.readBits(1)
		if err != nil {
			return 0, err
		}
		code = (code << 1) | bit
		if t.counts[l] > 0 && code-t.firstCode[l] < uint32(t.counts[l]) {
			return t.symbols[t.firstSymbolIndex[l]+int(code-t.firstCode[l])], nil
		}
	}
	return 0, fmt.Errorf("lzx: no matching huffman code after %d bits", t.maxLen)
}

// pretree codes delta-encode a target length array against its previous
// contents (all zero on first use), with three escape symbols for runs
// of unchanged/zeroed entries — spec.md doesn't name this scheme since it
// is purely an LZX wire-format detail, not an observable property; this
// follows the public LZX block format.
const (
	pretreeNumElements = 20
	pretreeMaxLen      = 7
)

func readPretree(br *bitReader) (*huffTree, error) {
	lengths := make([]uint8, pretreeNumElements)
	for i := range lengths {
		v, err := br.readBits(4)
		if err != nil {
			return nil, fmt.Errorf("lzx: read pretree length %d: %w", i, err)
		}
		lengths[i] = uint8(v)
	}
	return buildHuffman(lengths, pretreeMaxLen)
}

// readLengths decodes len(prev) code lengths into prev in place,
// RLE-decompressed via a fresh pretree.
func readLengths(br *bitReader, prev []uint8) error {
	pre, err := readPretree(br)
	if err != nil {
		return err
	}
	n := len(prev)
	for i := 0; i < n; {
		sym, err := pre.decode(br)
		if err != nil {
			return fmt.Errorf("lzx: decode length run at %d: %w", i, err)
		}
		switch sym {
		case 17: // run of zeros, short
			extra, err := br.readBits(4)
			if err != nil {
				return err
			}
			run := int(extra) + 4
			for j := 0; j < run && i < n; j++ {
				prev[i] = 0
				i++
			}
		case 18: // run of zeros, long
			extra, err := br.readBits(5)
			if err != nil {
				return err
			}
			run := int(extra) + 20
			for j := 0; j < run && i < n; j++ {
				prev[i] = 0
				i++
			}
		case 19: // run of a single repeated (delta-decoded) length
			extra, err := br.readBits(1)
			if err != nil {
				return err
			}
			run := int(extra) + 4
			deltaSym, err := pre.decode(br)
			if err != nil {
				return err
			}
			newLen := (int(prev[i]) - int(deltaSym) + 17) % 17
			for j := 0; j < run && i < n; j++ {
				prev[i] = uint8(newLen)
				i++
			}
		default:
			newLen := (int(prev[i]) - int(sym) + 17) % 17
			prev[i] = uint8(newLen)
			i++
		}
	}
	return nil
}
