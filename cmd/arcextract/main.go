// Command arcextract demultiplexes an ARC archive to a directory tree.
package main

import (
	"fmt"
	"os"
	"strings"

	"flag"

	"github.com/goopsie/revilformats/pkg/arc"
	"github.com/goopsie/revilformats/pkg/binreader"
	"github.com/goopsie/revilformats/pkg/disksink"
	"github.com/goopsie/revilformats/pkg/platform"
	"github.com/goopsie/revilformats/pkg/titles"
)

var (
	inputPath      string
	outputDir      string
	platformName   string
	titleName      string
	classWhitelist string
	hashScheme     string
)

func init() {
	flag.StringVar(&inputPath, "input", "", "Path to the ARC archive")
	flag.StringVar(&outputDir, "output", "", "Output directory")
	flag.StringVar(&platformName, "platform", "auto", "Target platform: auto, win32, ps3, ps4, nsw, 3ds, x360, android")
	flag.StringVar(&titleName, "title", "", "Title policy name (pkg/titles registry key)")
	flag.StringVar(&classWhitelist, "class-whitelist", "", "Comma-separated class names to extract (default: all)")
	flag.StringVar(&hashScheme, "hash-scheme", "v1", "Class-name hash scheme for -class-whitelist: v1 or v2")
}

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if inputPath == "" || outputDir == "" {
		flag.Usage()
		return fmt.Errorf("-input and -output are required")
	}

	p, err := parsePlatform(platformName)
	if err != nil {
		return err
	}

	filter, err := buildFilter(classWhitelist, hashScheme)
	if err != nil {
		return err
	}

	f, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer f.Close()

	r, err := binreader.NewStreamReader(f)
	if err != nil {
		return fmt.Errorf("wrap archive: %w", err)
	}

	sink, err := disksink.New(outputDir)
	if err != nil {
		return fmt.Errorf("prepare output directory: %w", err)
	}
	defer sink.Close()

	warnings, err := arc.Extract(r, p, platform.Title(titleName), sink, filter)
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w.String())
	}
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	fmt.Printf("Extraction complete. Files written to %s\n", outputDir)
	return nil
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

// buildFilter translates -class-whitelist into the typeHash set
// arc.Extract filters on, hashed with the scheme named by -hash-scheme.
func buildFilter(whitelist, scheme string) (map[uint32]struct{}, error) {
	if whitelist == "" {
		return nil, nil
	}

	var hashFn func(string) uint32
	switch strings.ToLower(scheme) {
	case "v1", "":
		hashFn = titles.HashV1
	case "v2":
		hashFn = titles.HashV2
	default:
		return nil, fmt.Errorf("unknown hash scheme %q", scheme)
	}

	filter := make(map[uint32]struct{})
	for _, name := range strings.Split(whitelist, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		filter[hashFn(name)] = struct{}{}
	}
	return filter, nil
}
