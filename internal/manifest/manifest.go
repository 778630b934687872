// Package manifest reads kegfetch.yml, the list of remote
// resources a project keeps local copies of.
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/MrSnakeDoc/kegfetch/internal/compression"
	"github.com/MrSnakeDoc/kegfetch/internal/fetch"
	"github.com/MrSnakeDoc/kegfetch/internal/utils"
)

// FileName is the manifest created by `kegfetch init`.
const FileName = "kegfetch.yml"

const cacheExtension = ".cache"

type Defaults struct {
	Retries  *int   `yaml:"retries,omitempty"`
	CacheDir string `yaml:"cache_dir,omitempty"`
}

type Entry struct {
	Name        string `yaml:"name"`
	URL         string `yaml:"url"`
	Dest        string `yaml:"dest"`
	Compression string `yaml:"compression,omitempty"`
	Retries     *int   `yaml:"retries,omitempty"`
}

type Manifest struct {
	Defaults  Defaults `yaml:"defaults,omitempty"`
	Resources []Entry  `yaml:"resources"`

	// dir is where the manifest lives; relative paths resolve against it.
	dir string
}

// Empty is the content written by `kegfetch init`.
var Empty = []byte("resources: []\n")

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", abs, err)
	}
	m.dir = filepath.Dir(abs)
	return m, nil
}

// Parse decodes and validates a manifest. Unknown keys are rejected.
func Parse(r io.Reader) (*Manifest, error) {
	var m Manifest
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Manifest) Validate() error {
	var errs []error

	if m.Defaults.Retries != nil && *m.Defaults.Retries < 0 {
		errs = append(errs, fmt.Errorf("defaults: retries must be >= 0, got %d", *m.Defaults.Retries))
	}

	seen := make(map[string]struct{}, len(m.Resources))
	for i, e := range m.Resources {
		where := fmt.Sprintf("resources[%d]", i)
		if e.Name != "" {
			where = fmt.Sprintf("resource %q", e.Name)
		}

		if e.Name == "" {
			errs = append(errs, fmt.Errorf("%s: missing name", where))
		} else if _, dup := seen[e.Name]; dup {
			errs = append(errs, fmt.Errorf("%s: duplicate name", where))
		} else {
			seen[e.Name] = struct{}{}
		}

		if e.URL == "" {
			errs = append(errs, fmt.Errorf("%s: missing url", where))
		} else if _, err := utils.ParseFetchURL(e.URL); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}

		if e.Dest == "" {
			errs = append(errs, fmt.Errorf("%s: missing dest", where))
		}

		if _, err := compression.Parse(e.Compression); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		}

		if e.Retries != nil && *e.Retries < 0 {
			errs = append(errs, fmt.Errorf("%s: retries must be >= 0, got %d", where, *e.Retries))
		}
	}

	return errors.Join(errs...)
}

// Dir returns the directory relative paths resolve against.
func (m *Manifest) Dir() string {
	if m.dir == "" {
		if cwd, err := os.Getwd(); err == nil {
			return cwd
		}
	}
	return m.dir
}

func (m *Manifest) Find(name string) (*Entry, bool) {
	for i := range m.Resources {
		if m.Resources[i].Name == name {
			return &m.Resources[i], true
		}
	}
	return nil, false
}

// Select returns the entries named in names, in manifest order, or all of
// them when names is empty.
func (m *Manifest) Select(names []string) ([]Entry, error) {
	if len(names) == 0 {
		return m.Resources, nil
	}

	var unknown []string
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		if _, ok := m.Find(n); !ok {
			unknown = append(unknown, n)
		}
		wanted[n] = struct{}{}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown resource(s): %s", strings.Join(unknown, ", "))
	}

	return utils.Filter(m.Resources, func(e Entry) bool {
		_, ok := wanted[e.Name]
		return ok
	}), nil
}

// Resource turns an entry into what the fetch engine consumes. fallback is
// the retry budget used when neither e nor the defaults set one.
func (m *Manifest) Resource(e Entry, fallback int) (fetch.Resource, error) {
	kind, err := compression.Parse(e.Compression)
	if err != nil {
		return fetch.Resource{}, err
	}
	if e.Compression == "" {
		kind = compression.FromURL(e.URL)
	}

	return fetch.Resource{
		URL:         e.URL,
		Dest:        m.resolve(e.Dest),
		Compression: kind,
		Retries:     m.retries(e, fallback),
	}, nil
}

// RecordPath is where the cache record of e is stored.
func (m *Manifest) RecordPath(e Entry) string {
	if m.Defaults.CacheDir == "" {
		return m.resolve(e.Dest) + cacheExtension
	}
	return filepath.Join(m.resolve(m.Defaults.CacheDir), e.Name+cacheExtension)
}

func (m *Manifest) retries(e Entry, fallback int) int {
	switch {
	case e.Retries != nil:
		return *e.Retries
	case m.Defaults.Retries != nil:
		return *m.Defaults.Retries
	default:
		return fallback
	}
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir(), p)
}
