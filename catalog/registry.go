package catalog

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/c360studio/codatagen/codata"
)

// Catalog is the parsed content of one catalog revision.
type Catalog struct {
	// Revision is the label declared by the catalog itself, if any.
	Revision string

	// Source describes where the data came from.
	Source string

	// Entries are the raw constant rows.
	Entries []codata.Entry
}

// Parser decodes catalog content of one format.
type Parser interface {
	// Parse decodes content read from filename.
	Parse(filename string, content []byte) (*Catalog, error)

	// Format returns the format identifier, e.g. "yaml".
	Format() string

	// Extensions returns the file extensions handled, with leading dot.
	Extensions() []string
}

// Registry maps formats and file extensions to parsers.
// Thread-safe for concurrent access.
type Registry struct {
	mu      sync.RWMutex
	parsers map[string]Parser // format → parser
	extMap  map[string]string // extension → format
}

// DefaultRegistry holds the YAML and NIST table parsers.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry with the default parsers.
func NewRegistry() *Registry {
	r := &Registry{
		parsers: make(map[string]Parser),
		extMap:  make(map[string]string),
	}

	r.Register(NewYAMLParser())
	r.Register(NewNISTParser())

	return r
}

// Register adds a parser. The first registration wins on extension conflicts.
func (r *Registry) Register(p Parser) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.parsers[p.Format()] = p
	for _, ext := range p.Extensions() {
		ext = strings.ToLower(ext)
		if _, exists := r.extMap[ext]; !exists {
			r.extMap[ext] = p.Format()
		}
	}
}

// Get returns the parser registered for format.
func (r *Registry) Get(format string) (Parser, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.parsers[format]
	return p, ok
}

// ForPath returns the parser for a file based on its extension.
func (r *Registry) ForPath(path string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.RLock()
	format, ok := r.extMap[ext]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
	p, _ := r.Get(format)
	return p, nil
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
