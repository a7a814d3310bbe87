// Package titles is the title/platform policy registry (C5): per-title
// Blowfish keys, the ExtendedPath archive-layout flag, and class-hash to
// extension resolution. It is read-only configuration data loaded once,
// exposed as pure lookup functions — the core never mutates it.
//
// Grounded on original_source/src/arc.cpp's GetTitleSupport/GetExtension
// call shape (spec.md §4.3/§4.4/§6) and on the teacher's pkg/texture.go
// FormatName map-literal idiom for table-driven lookups.
package titles

import (
	"hash/fnv"
	"strings"

	"github.com/goopsie/revilformats/pkg/platform"
)

// ArcFlags is a bitset of per-title archive layout quirks.
type ArcFlags uint32

// ExtendedPath selects the longer fixed-width filename field in the
// archive's file-entry table (spec.md §3, "Archive file entry (two shapes)").
const ExtendedPath ArcFlags = 1 << 0

// ArcSupport describes a title's archive-layout policy.
type ArcSupport struct {
	Flags ArcFlags
	Key   string // Blowfish key; empty means ARCC archives are unsupported
}

// Support bundles every per-title policy the core consults. It may grow
// additional sections (e.g. TEX-specific quirks) without breaking callers,
// since it is always read by name.
type Support struct {
	Arc ArcSupport
}

// platformOverrides maps a platform to a Support value; Auto entries act
// as the fallback used for any platform without an explicit override.
type titleConfig struct {
	platformOverrides map[platform.Platform]Support
	extensions        map[uint32]string
}

func (tc titleConfig) resolve(p platform.Platform) Support {
	if s, ok := tc.platformOverrides[p]; ok {
		return s
	}
	return tc.platformOverrides[platform.Auto]
}

// registry is the built-in policy table. Production deployments that know
// their own titles' real keys and extension maps build their own registry
// with the same shape; this one is illustrative/test-scoped, covering the
// handful of configurations the core's control flow branches on:
// unencrypted standard-path, encrypted (ARCC), and extended-path layouts.
var registry = map[platform.Title]titleConfig{
	"sample": {
		platformOverrides: map[platform.Platform]Support{
			platform.Auto: {Arc: ArcSupport{}},
		},
		extensions: map[uint32]string{
			0x9a8d1c3f: "mesh",
			0x1f2e3d4c: "tex",
		},
	},
	"sample-encrypted": {
		platformOverrides: map[platform.Platform]Support{
			platform.Auto: {Arc: ArcSupport{Key: "sample-archive-key"}},
		},
		extensions: map[uint32]string{
			0x9a8d1c3f: "mesh",
		},
	},
	"sample-extended": {
		platformOverrides: map[platform.Platform]Support{
			platform.Auto: {Arc: ArcSupport{Flags: ExtendedPath}},
		},
	},
}

// TitleSupport resolves the archive/Blowfish policy for title on platform.
// Unknown titles resolve to the zero Support (no key, no flags) so that
// extraction proceeds for unregistered, unencrypted titles rather than
// failing outright.
func TitleSupport(title platform.Title, p platform.Platform) Support {
	tc, ok := registry[title]
	if !ok {
		return Support{}
	}
	return tc.resolve(p)
}

// Extension resolves a class hash to a file extension for title on
// platform. The second return is false when no mapping exists, in which
// case callers fall back to an 8-digit uppercase hex extension
// (spec.md §4.4 step 7) rather than treating it as an error.
func Extension(hash uint32, title platform.Title, p platform.Platform) (string, bool) {
	tc, ok := registry[title]
	if !ok {
		return "", false
	}
	ext, ok := tc.extensions[hash]
	return ext, ok
}

// HashV1 is a 32-bit FNV-1a hash, used by CLI front ends to translate a
// human-readable class-name whitelist into the typeHash values the ARC
// demultiplexer filters on.
func HashV1(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(strings.ToLower(name)))
	return h.Sum32()
}

// HashV2 is a djb2-style multiplicative hash, offered as the registry's
// second naming scheme alongside HashV1 (spec.md §6 names both without
// pinning an exact algorithm — see DESIGN.md's Open Question decision).
func HashV2(name string) uint32 {
	var h uint32 = 5381
	for _, c := range strings.ToLower(name) {
		h = h*33 + uint32(c)
	}
	return h
}
