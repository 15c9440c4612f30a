package blueprints

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and validates a single blueprint YAML file.
func LoadFile(path string) (*Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read blueprint: %w", err)
	}

	var bp Blueprint
	if err := yaml.Unmarshal(data, &bp); err != nil {
		return nil, fmt.Errorf("unmarshal blueprint %s: %w", path, err)
	}
	if err := bp.Validate(); err != nil {
		return nil, err
	}
	return &bp, nil
}

// Registry holds the blueprints discovered at startup.
type Registry struct {
	blueprints map[string]*Blueprint
}

// NewRegistry creates a registry seeded with the builtin blueprint.
func NewRegistry() *Registry {
	r := &Registry{blueprints: make(map[string]*Blueprint)}
	if builtin, err := Builtin(); err == nil {
		r.blueprints[builtin.ID] = builtin
	}
	return r
}

// LoadDirs discovers blueprint files under each dir using a recursive glob.
// Later dirs override earlier ones, and any dir overrides the builtin.
// Missing dirs are skipped; individual load failures are reported but don't
// abort discovery.
func (r *Registry) LoadDirs(dirs []string) []error {
	var errs []error
	for _, dir := range dirs {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			continue
		}
		matches, err := doublestar.Glob(os.DirFS(dir), "**/*.{yaml,yml}")
		if err != nil {
			errs = append(errs, fmt.Errorf("glob %s: %w", dir, err))
			continue
		}
		for _, m := range matches {
			bp, err := LoadFile(filepath.Join(dir, m))
			if err != nil {
				errs = append(errs, err)
				continue
			}
			r.blueprints[bp.ID] = bp
		}
	}
	return errs
}

// Get returns the blueprint with the given id.
func (r *Registry) Get(id string) (*Blueprint, error) {
	bp, ok := r.blueprints[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return bp, nil
}

// List returns all blueprints sorted by id.
func (r *Registry) List() []*Blueprint {
	out := make([]*Blueprint, 0, len(r.blueprints))
	for _, bp := range r.blueprints {
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
