// Command texconv decodes RE Engine TEX texture headers and writes the
// described mip/face payload out as a DDS container (or prints a summary
// of the decoded header with -info).
//
// Usage:
//   texconv -input tex_file -output out.dds
//   texconv -input tex_file -info
//   texconv -input tex_file -output out.dds -platform ps4
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/platform"
	"github.com/goopsie/revilformats/pkg/tex"
)

var (
	inputPath    string
	outputPath   string
	platformName string
	infoOnly     bool
)

func init() {
	flag.StringVar(&inputPath, "input", "", "Path to the TEX file")
	flag.StringVar(&outputPath, "output", "", "Output .dds path (ignored with -info)")
	flag.StringVar(&platformName, "platform", "auto", "Platform hint: auto, win32, ps3, ps4, nsw, 3ds, x360, android")
	flag.BoolVar(&infoOnly, "info", false, "Print the decoded header and exit without writing a file")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if inputPath == "" {
		flag.Usage()
		return fmt.Errorf("-input is required")
	}
	if !infoOnly && outputPath == "" {
		flag.Usage()
		return fmt.Errorf("-output is required unless -info is set")
	}

	p, err := parsePlatform(platformName)
	if err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	r, err := binreader.NewStreamReader(f)
	if err != nil {
		return fmt.Errorf("wrap input: %w", err)
	}

	d, err := tex.Load(r, p)
	if err != nil {
		return fmt.Errorf("decode tex: %w", err)
	}

	printInfo(d)
	if infoOnly {
		return nil
	}

	data, err := tex.EncodeDDS(d)
	if err != nil {
		return fmt.Errorf("encode dds: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", outputPath, len(data))
	return nil
}

func printInfo(d tex.Descriptor) {
	fmt.Printf("Platform:    %s\n", d.Platform)
	fmt.Printf("Dimensions:  %dx%dx%d\n", d.Width, d.Height, d.Depth)
	fmt.Printf("Mipmaps:     %d\n", d.NumMipmaps)
	fmt.Printf("Faces:       %d\n", d.NumFaces)
	fmt.Printf("Format:      %s\n", d.BaseFormat.Type)
	fmt.Printf("Tile:        %s\n", d.BaseFormat.Tile)
	fmt.Printf("Offsets:     %d\n", len(d.Offsets))
	fmt.Printf("Buffer size: %d bytes\n", len(d.Buffer))
	if len(d.Harmonics) > 0 {
		fmt.Printf("Harmonics:   %d floats\n", len(d.Harmonics))
	}
}

func parsePlatform(name string) (platform.Platform, error) {
	switch strings.ToLower(name) {
	case "auto", "":
		return platform.Auto, nil
	case "win32":
		return platform.Win32, nil
	case "ps3":
		return platform.PS3, nil
	case "ps4":
		return platform.PS4, nil
	case "nsw":
		return platform.NSW, nil
	case "3ds", "n3ds":
		return platform.N3DS, nil
	case "x360":
		return platform.X360, nil
	case "android":
		return platform.Android, nil
	default:
		return platform.Auto, fmt.Errorf("unknown platform %q", name)
	}
}
