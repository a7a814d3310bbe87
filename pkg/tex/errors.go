package tex

import "fmt"

// InvalidHeaderError reports a TEX stream whose leading magic isn't one
// of the accepted set.
type InvalidHeaderError struct {
	Magic uint32
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("tex: invalid header (magic %#08x)", e.Magic)
}

// InvalidVersionError reports a version byte with no registered decoder.
type InvalidVersionError struct {
	Version uint32
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("tex: no decoder registered for version %#x", e.Version)
}

// UnknownPixelFormatError reports a format enum value unrecognized within
// a particular decoder's table.
type UnknownPixelFormatError struct {
	RawEnum uint32
	Context string
}

func (e *UnknownPixelFormatError) Error() string {
	return fmt.Sprintf("tex: unknown pixel format %#x in %s", e.RawEnum, e.Context)
}

// CubemapsUnsupportedError reports a decoder that explicitly rejects
// cubemap textures.
type CubemapsUnsupportedError struct {
	Version string
}

func (e *CubemapsUnsupportedError) Error() string {
	return fmt.Sprintf("tex: cubemaps are not supported by the %s decoder", e.Version)
}

// PlatformUnsupportedError reports a (platform, version) combination the
// format explicitly rejects, e.g. X360 TEX 0x56.
type PlatformUnsupportedError struct {
	Platform string
	Version  uint32
}

func (e *PlatformUnsupportedError) Error() string {
	return fmt.Sprintf("tex: platform %s unsupported for version %#x", e.Platform, e.Version)
}
