// Package disksink provides the filesystem-backed arc.ExtractionSink CLI
// front ends use. It is an external collaborator, not part of the core —
// the core never creates directories or opens files itself.
//
// Grounded on the teacher's pkg/manifest/package.go Extract method
// (directory creation ahead of per-file os.Create).
package disksink

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goopsie/revilformats/pkg/arc"
)

// Sink writes extracted members under Root, creating parent directories
// as ARC extraction requests them.
type Sink struct {
	Root string

	folders []string
	current *os.File // currently open output file, nil between extractions
}

// New returns a Sink rooted at root. root is created if it doesn't exist.
func New(root string) (*Sink, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("disksink: create root %q: %w", root, err)
	}
	return &Sink{Root: root}, nil
}

func (s *Sink) RequiresFolders() bool { return true }

func (s *Sink) AddFolderPath(path string) {
	s.folders = append(s.folders, path)
}

func (s *Sink) GenerateFolders() error {
	for _, f := range s.folders {
		full := filepath.Join(s.Root, filepath.FromSlash(f))
		if err := os.MkdirAll(full, 0o755); err != nil {
			return fmt.Errorf("disksink: create folder %q: %w", full, err)
		}
	}
	s.folders = s.folders[:0]
	return nil
}

func (s *Sink) NewFile(path string) error {
	if s.current != nil {
		if err := s.current.Close(); err != nil {
			return fmt.Errorf("disksink: close previous file: %w", err)
		}
		s.current = nil
	}
	full := filepath.Join(s.Root, filepath.FromSlash(path))
	f, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("disksink: create %q: %w", full, err)
	}
	s.current = f
	return nil
}

func (s *Sink) SendData(data []byte) error {
	if s.current == nil {
		return fmt.Errorf("disksink: send_data before new_file")
	}
	if _, err := s.current.Write(data); err != nil {
		return fmt.Errorf("disksink: write: %w", err)
	}
	return nil
}

// NewImage refuses the request: Sink writes raw files only and has no
// image-decoding context to hand back, mirroring original_source's
// ArcExtractContext::NewImage.
func (s *Sink) NewImage(path string) error {
	return &arc.ImplementationError{Message: fmt.Sprintf("disksink: no image context for %q", path)}
}

// Close releases the currently open output file, if any. Callers should
// invoke this once extraction completes.
func (s *Sink) Close() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Close()
	s.current = nil
	return err
}
