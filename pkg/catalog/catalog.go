// Package catalog holds the ordered list of showcased projects.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sync/atomic"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is returned for catalogs with missing or duplicate ids.
var ErrInvalidCatalog = errors.New("catalog: invalid catalog")

//go:embed default.yaml
var defaultYAML []byte

// file is the YAML document layout.
type file struct {
	Projects []*Project `yaml:"projects"`
}

// Catalog is an immutable, ordered project list. Order is display order.
type Catalog struct {
	projects []*Project
	byID     map[string]*Project
}

// New builds a catalog, rejecting empty or duplicate ids.
func New(projects []*Project) (*Catalog, error) {
	c := &Catalog{
		projects: make([]*Project, 0, len(projects)),
		byID:     make(map[string]*Project, len(projects)),
	}
	for i, p := range projects {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("%w: project %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidCatalog, p.ID)
		}
		c.byID[p.ID] = p
		c.projects = append(c.projects, p)
	}
	return c, nil
}

// Parse decodes a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	return New(f.Projects)
}

// Load reads a YAML catalog from path.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(err)
	}
	return c
}

// List returns the projects in display order.
func (c *Catalog) List() []*Project {
	out := make([]*Project, len(c.projects))
	copy(out, c.projects)
	return out
}

// Get returns the project with id.
func (c *Catalog) Get(id string) (*Project, bool) {
	p, ok := c.byID[id]
	return p, ok
}

// Len returns the number of projects.
func (c *Catalog) Len() int {
	return len(c.projects)
}

// IDs returns the project ids in display order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.projects))
	for i, p := range c.projects {
		ids[i] = p.ID
	}
	return ids
}

// Source hands out the current catalog and lets a watcher swap it.
type Source struct {
	current atomic.Pointer[Catalog]
}

// NewSource creates a source holding c.
func NewSource(c *Catalog) *Source {
	s := &Source{}
	s.current.Store(c)
	return s
}

// Catalog returns the current catalog.
func (s *Source) Catalog() *Catalog {
	return s.current.Load()
}

// Swap replaces the current catalog.
func (s *Source) Swap(c *Catalog) {
	s.current.Store(c)
}
