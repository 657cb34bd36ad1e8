// --- areaquiz-server/ontology/store.go ---
package ontology

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Individual is one instance of an ontology class. Literal values are kept as
// strings; numeric parsing is deferred to consumers. Refs point at other
// individuals by name.
type Individual struct {
	Name    string              `yaml:"name"`
	Classes []string            `yaml:"classes,omitempty"`
	Attrs   map[string][]string `yaml:"attrs,omitempty"`
	Refs    map[string][]string `yaml:"refs,omitempty"`
}

// Class is an entry in the fixed class registry. Parent is empty for roots.
type Class struct {
	Name   string
	Parent string
}

// Store is the in-memory ontology graph backed by a single YAML file. The whole
// store is re-saved after every mutation; there are no transactions. The mutex
// guards in-process access only — concurrent processes sharing the backing file
// still race (last writer wins on Save).
type Store struct {
	path string

	mu          sync.RWMutex
	classes     map[string]Class
	individuals map[string]*Individual
	order       []string // insertion order, for stable enumeration
}

type storeFile struct {
	Individuals []*Individual `yaml:"individuals"`
}

func defaultClasses() map[string]Class {
	classes := map[string]Class{
		"Problem":   {Name: "Problem"},
		"Student":   {Name: "Student"},
		"Attempt":   {Name: "Attempt"},
		"Dimension": {Name: "Dimension"},
		"Shape":     {Name: "Shape"},
	}
	for _, kind := range []string{"Circle", "Square", "Rectangle", "Triangle"} {
		classes[kind] = Class{Name: kind, Parent: "Shape"}
	}
	return classes
}

// New creates an empty store that will persist to path.
func New(path string) *Store {
	return &Store{
		path:        path,
		classes:     defaultClasses(),
		individuals: make(map[string]*Individual),
	}
}

// Load reads the whole ontology file into memory. A missing or unreadable file
// is an error; the caller decides whether that is fatal (it is at startup).
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read ontology file %s: %w", path, err)
	}
	var file storeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse ontology file %s: %w", path, err)
	}
	st := New(path)
	for _, ind := range file.Individuals {
		if ind == nil || ind.Name == "" {
			continue
		}
		if _, exists := st.individuals[ind.Name]; exists {
			log.Printf("Warning: duplicate individual %q in %s, keeping first", ind.Name, path)
			continue
		}
		st.individuals[ind.Name] = ind
		st.order = append(st.order, ind.Name)
	}
	log.Printf("Ontology loaded successfully from %s (%d individuals)", path, len(st.order))
	return st, nil
}

// Save persists the entire store to the backing file. Failure is reported to
// the caller, never raised further down; in-memory state may be left ahead of
// disk. There is no cross-process locking on the file.
func (s *Store) Save() error {
	s.mu.RLock()
	file := storeFile{Individuals: make([]*Individual, 0, len(s.order))}
	for _, name := range s.order {
		file.Individuals = append(file.Individuals, s.individuals[name])
	}
	s.mu.RUnlock()

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal ontology: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to save ontology file %s: %w", s.path, err)
	}
	return nil
}

// GetClass retrieves a class from the registry by name.
func (s *Store) GetClass(name string) (Class, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cls, ok := s.classes[name]
	if !ok {
		return Class{}, fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return cls, nil
}

// GetIndividual returns an individual by short name. Lookup is robust to
// formatting differences: exact name first, then a full scan, then a pattern
// fallback on the fragment after '#' compared case-insensitively.
func (s *Store) GetIndividual(name string) (*Individual, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if ind, ok := s.individuals[name]; ok {
		return ind, nil
	}
	for _, n := range s.order {
		if s.individuals[n].Name == name {
			return s.individuals[n], nil
		}
	}
	frag := name
	if i := strings.LastIndex(name, "#"); i >= 0 {
		frag = name[i+1:]
	}
	for _, n := range s.order {
		if strings.EqualFold(n, frag) {
			return s.individuals[n], nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrIndividualNotFound, name)
}

// InstancesOf enumerates all individuals of a class or any of its subclasses,
// in insertion order.
func (s *Store) InstancesOf(className string) ([]*Individual, error) {
	if _, err := s.GetClass(className); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Individual
	for _, name := range s.order {
		ind := s.individuals[name]
		if s.isInstanceLocked(ind, className) {
			out = append(out, ind)
		}
	}
	return out, nil
}

func (s *Store) isInstanceLocked(ind *Individual, className string) bool {
	for _, tag := range ind.Classes {
		for t := tag; t != ""; {
			if t == className {
				return true
			}
			cls, ok := s.classes[t]
			if !ok {
				break
			}
			t = cls.Parent
		}
	}
	return false
}

// NewIndividual creates a new individual of the given class with a unique name.
// The store is not mutated when the name is already taken.
func (s *Store) NewIndividual(className, name string) (*Individual, error) {
	if _, err := s.GetClass(className); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.individuals[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateIndividual, name)
	}
	ind := &Individual{Name: name, Classes: []string{className}}
	s.individuals[name] = ind
	s.order = append(s.order, name)
	return ind, nil
}

// SetAttr replaces the literal values stored under key.
func (s *Store) SetAttr(ind *Individual, key string, values ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ind.Attrs == nil {
		ind.Attrs = make(map[string][]string)
	}
	ind.Attrs[key] = append([]string(nil), values...)
}

// AppendAttr appends a literal value under key.
func (s *Store) AppendAttr(ind *Individual, key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ind.Attrs == nil {
		ind.Attrs = make(map[string][]string)
	}
	ind.Attrs[key] = append(ind.Attrs[key], value)
}

// SetRef replaces the individuals referenced under key.
func (s *Store) SetRef(ind *Individual, key string, targets ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ind.Refs == nil {
		ind.Refs = make(map[string][]string)
	}
	ind.Refs[key] = append([]string(nil), targets...)
}

// AppendRef appends a referenced individual under key.
func (s *Store) AppendRef(ind *Individual, key, target string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ind.Refs == nil {
		ind.Refs = make(map[string][]string)
	}
	ind.Refs[key] = append(ind.Refs[key], target)
}

// Attrs returns a copy of the literal values stored under key.
func (s *Store) Attrs(ind *Individual, key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), ind.Attrs[key]...)
}

// AttrFirst returns the first literal value under key, if any.
func (s *Store) AttrFirst(ind *Individual, key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals := ind.Attrs[key]
	if len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// RefNames returns a copy of the names referenced under key.
func (s *Store) RefNames(ind *Individual, key string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), ind.Refs[key]...)
}

// Deref resolves the references stored under key. Dangling references are
// skipped with a warning rather than surfaced as errors.
func (s *Store) Deref(ind *Individual, key string) []*Individual {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*Individual
	for _, name := range ind.Refs[key] {
		target, ok := s.individuals[name]
		if !ok {
			log.Printf("Warning: %s.%s references missing individual %q", ind.Name, key, name)
			continue
		}
		out = append(out, target)
	}
	return out
}

// ClassTags returns a copy of the declared class tags of an individual.
func (s *Store) ClassTags(ind *Individual) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), ind.Classes...)
}
