// Package platform describes the closed set of hardware targets that ARC
// and TEX assets can be laid out for, and the endianness each implies.
package platform

import "fmt"

// Platform identifies the target hardware a stream was authored for.
// Auto means "derive the platform from the stream itself".
type Platform uint8

const (
	Auto Platform = iota
	Win32
	PS3
	PS4
	NSW
	N3DS
	X360
	Android
)

func (p Platform) String() string {
	switch p {
	case Auto:
		return "Auto"
	case Win32:
		return "Win32"
	case PS3:
		return "PS3"
	case PS4:
		return "PS4"
	case NSW:
		return "NSW"
	case N3DS:
		return "N3DS"
	case X360:
		return "X360"
	case Android:
		return "Android"
	default:
		return fmt.Sprintf("Platform(%d)", uint8(p))
	}
}

// BigEndian reports whether the platform's native byte order is big-endian.
func (p Platform) BigEndian() bool {
	switch p {
	case PS3, X360:
		return true
	default:
		return false
	}
}

// Title is an opaque identifier selecting per-title behavior: Blowfish key,
// extended file-entry layout, and class-hash to extension mapping. Titles
// are defined by the policy registry in pkg/titles.
type Title string
