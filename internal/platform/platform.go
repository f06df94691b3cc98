// Package platform identifies the target systems a manifest is composed for.
//
// A platform is named by the conventional "<arch>-<os>" doublet, for example
// "x86_64-linux" or "aarch64-darwin". The doublet is the unit of composition:
// every platform listed in a manifest gets its own independent evaluation and
// its own merged attribute store.
package platform

import (
	"fmt"
	"runtime"
	"strings"
)

// Platform names a single target system.
type Platform struct {
	// Arch is the CPU architecture portion, e.g. "x86_64" or "aarch64".
	Arch string
	// OS is the operating system portion, e.g. "linux" or "darwin".
	OS string
}

// Known architectures and operating systems, in canonical doublet spelling.
var (
	knownArch = map[string]bool{
		"x86_64":  true,
		"aarch64": true,
		"i686":    true,
		"riscv64": true,
	}
	knownOS = map[string]bool{
		"linux":  true,
		"darwin": true,
	}
)

// goarchNames translates runtime.GOARCH to doublet spelling.
var goarchNames = map[string]string{
	"amd64":   "x86_64",
	"arm64":   "aarch64",
	"386":     "i686",
	"riscv64": "riscv64",
}

// String renders the canonical "<arch>-<os>" doublet.
func (p Platform) String() string {
	return p.Arch + "-" + p.OS
}

// Parse validates a doublet string and splits it into its parts. The arch and
// OS must both come from the known sets; anything else is rejected so typos in
// a manifest fail at load time rather than producing an empty build.
func Parse(s string) (Platform, error) {
	arch, os, ok := strings.Cut(s, "-")
	if !ok {
		return Platform{}, fmt.Errorf("invalid platform %q: want \"<arch>-<os>\", e.g. \"x86_64-linux\"", s)
	}
	if !knownArch[arch] {
		return Platform{}, fmt.Errorf("invalid platform %q: unknown architecture %q", s, arch)
	}
	if !knownOS[os] {
		return Platform{}, fmt.Errorf("invalid platform %q: unknown operating system %q", s, os)
	}
	return Platform{Arch: arch, OS: os}, nil
}

// ParseAll parses a list of doublets, preserving order and rejecting
// duplicates.
func ParseAll(names []string) ([]Platform, error) {
	seen := make(map[string]bool, len(names))
	out := make([]Platform, 0, len(names))
	for _, name := range names {
		p, err := Parse(name)
		if err != nil {
			return nil, err
		}
		if seen[p.String()] {
			return nil, fmt.Errorf("duplicate platform %q", p)
		}
		seen[p.String()] = true
		out = append(out, p)
	}
	return out, nil
}

// RustTriple renders the platform as the Rust target triple toolchains and
// cargo understand.
func (p Platform) RustTriple() string {
	switch p.OS {
	case "darwin":
		return p.Arch + "-apple-darwin"
	default:
		arch := p.Arch
		if arch == "riscv64" {
			arch = "riscv64gc"
		}
		return arch + "-unknown-linux-gnu"
	}
}

// Current reports the platform of the running process, translated to doublet
// spelling. It returns an error on combinations the tool does not target,
// such as windows.
func Current() (Platform, error) {
	arch, ok := goarchNames[runtime.GOARCH]
	if !ok {
		return Platform{}, fmt.Errorf("unsupported host architecture %q", runtime.GOARCH)
	}
	if !knownOS[runtime.GOOS] {
		return Platform{}, fmt.Errorf("unsupported host operating system %q", runtime.GOOS)
	}
	return Platform{Arch: arch, OS: runtime.GOOS}, nil
}
