package arc

import (
	"fmt"

	"github.com/goopsie/revilformats/pkg/platform"
)

// InvalidHeaderError reports an ARC stream whose magic isn't one of the
// accepted set (spec.md §7).
type InvalidHeaderError struct {
	Magic uint32
}

func (e *InvalidHeaderError) Error() string {
	return fmt.Sprintf("arc: invalid header (magic %#08x)", e.Magic)
}

// EncryptedArchiveUnsupportedError reports an ARCC archive whose title has
// no Blowfish key registered.
type EncryptedArchiveUnsupportedError struct {
	Title platform.Title
}

func (e *EncryptedArchiveUnsupportedError) Error() string {
	return fmt.Sprintf("arc: encrypted archive unsupported: no key registered for title %q", e.Title)
}

// DecompressionFailedError wraps a codec-level failure (spec.md §7's
// DecompressionFailed(codec, code|msg)).
type DecompressionFailedError struct {
	Codec string
	Err   error
}

func (e *DecompressionFailedError) Error() string {
	return fmt.Sprintf("arc: %s decompression failed: %v", e.Codec, e.Err)
}

func (e *DecompressionFailedError) Unwrap() error { return e.Err }

// ImplementationError reports a sink call that the caller's concrete
// ExtractionSink does not support (spec.md §7's ImplementationError,
// the Go analogue of original_source's es::ImplementationError). ARC
// extraction never produces image-context requests itself; this exists
// so an ExtractionSink asked to open one — as original_source/include/
// revil/arc.hpp's ArcExtractContext::NewImage does unconditionally — has
// a standard way to refuse.
type ImplementationError struct {
	Message string
}

func (e *ImplementationError) Error() string {
	return fmt.Sprintf("arc: implementation error: %s", e.Message)
}
