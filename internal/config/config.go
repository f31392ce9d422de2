// Package config loads eacheck.yaml, the per-project checker settings.
//
//	target: x86_64-v3
//	lenient_annotations: false
//	opaque_types: [Matrix, Quaternion]
//	workers: 4
//	profiles:
//	  - name: skylake
//	    arch: x86_64
//	    features: [sse, sse2, sse4.2, avx, avx2, fma]
package config

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/lhaig/eacheck/internal/hwcaps"
)

// FileName is the configuration file looked up by Find
const FileName = "eacheck.yaml"

// Config holds checker settings. Zero values mean defaults.
type Config struct {
	Target             string    `yaml:"target"`
	LenientAnnotations bool      `yaml:"lenient_annotations"`
	OpaqueTypes        []string  `yaml:"opaque_types"`
	Workers            int       `yaml:"workers"`
	Profiles           []Profile `yaml:"profiles"`

	// Path is the file the configuration was loaded from, if any.
	Path string `yaml:"-"`
}

// Profile is a named CPU: an architecture plus an explicit feature list
type Profile struct {
	Name     string   `yaml:"name"`
	Arch     string   `yaml:"arch"`
	Features []string `yaml:"features"`
}

// ValidationError collects every problem found in a configuration file
type ValidationError struct {
	Path   string
	Issues []string
}

func (e *ValidationError) Error() string {
	return "config: " + e.Path + ": " + strings.Join(e.Issues, "; ")
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{Target: "native"}
}

// Load reads and validates the configuration at path
func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: open %s", path)
	}
	defer file.Close()

	cfg, err := decode(file)
	if err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes and validates configuration source. path labels errors.
func Parse(path string, data []byte) (*Config, error) {
	cfg, err := decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrapf(err, "config: parse %s", path)
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)

	cfg := Default()
	if err := decoder.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, err
	}
	if strings.TrimSpace(cfg.Target) == "" {
		cfg.Target = "native"
	}
	return cfg, nil
}

// Find looks for FileName in dir and its parents. It returns "" when no
// configuration file exists.
func Find(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "config: resolve %s", dir)
	}
	for {
		candidate := filepath.Join(abs, FileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return "", nil
		}
		abs = parent
	}
}

// Validate checks profile definitions and numeric settings
func (c *Config) Validate() error {
	errs := &ValidationError{Path: c.Path}
	if c.Path == "" {
		errs.Path = "<inline>"
	}

	if c.Workers < 0 {
		errs.Issues = append(errs.Issues, "workers must not be negative")
	}
	for i, name := range c.OpaqueTypes {
		if strings.TrimSpace(name) == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("opaque_types[%d] must be a non-empty name", i))
		}
	}

	seen := make(map[string]bool)
	for i, p := range c.Profiles {
		where := fmt.Sprintf("profiles[%d]", i)
		if p.Name == "" {
			errs.Issues = append(errs.Issues, where+": name must be provided")
		} else if seen[p.Name] {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: duplicate profile %q", where, p.Name))
		}
		seen[p.Name] = true
		if _, ok := hwcaps.ParseArch(p.Arch); !ok {
			errs.Issues = append(errs.Issues, fmt.Sprintf("%s: unknown arch %q", where, p.Arch))
		}
		for _, f := range p.Features {
			if _, ok := hwcaps.ParseFeature(f); !ok {
				errs.Issues = append(errs.Issues, fmt.Sprintf("%s: unknown feature %q", where, f))
			}
		}
	}

	if len(errs.Issues) > 0 {
		return errs
	}
	return nil
}

// Profile returns the named profile
func (c *Config) Profile(name string) (*Profile, bool) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], true
		}
	}
	return nil, false
}

// WorkerCount returns the configured parallelism, defaulting to GOMAXPROCS
func (c *Config) WorkerCount() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// Detector builds the capability detector the profile describes
func (p *Profile) Detector() (*hwcaps.Detector, error) {
	arch, ok := hwcaps.ParseArch(p.Arch)
	if !ok {
		return nil, errors.Errorf("profile %s: unknown arch %q", p.Name, p.Arch)
	}
	features := make([]hwcaps.Feature, 0, len(p.Features))
	for _, name := range p.Features {
		f, ok := hwcaps.ParseFeature(name)
		if !ok {
			return nil, errors.Errorf("profile %s: unknown feature %q", p.Name, name)
		}
		features = append(features, f)
	}
	return hwcaps.NewDetector(arch, features...).Named(p.Name), nil
}
