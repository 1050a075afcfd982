package catalog

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/c360studio/codatagen/codata"
)

// BuiltinScheme prefixes handles that name a catalog compiled into the
// binary, e.g. "builtin:2006".
const BuiltinScheme = "builtin:"

//go:embed data/*.yaml
var builtinFS embed.FS

// BuiltinLabels returns the revision labels of the embedded catalogs.
func BuiltinLabels() []string {
	entries, err := fs.ReadDir(builtinFS, "data")
	if err != nil {
		return nil
	}

	var labels []string
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		labels = append(labels, strings.TrimPrefix(name, "codata_"))
	}
	sort.Strings(labels)
	return labels
}

// Loader resolves catalog handles and parses the catalog behind them.
type Loader struct {
	baseDir  string
	registry *Registry
	builtin  fs.FS
	logger   *slog.Logger
}

// NewLoader creates a loader resolving relative paths against baseDir.
// A nil registry selects DefaultRegistry; a nil logger slog.Default().
func NewLoader(baseDir string, registry *Registry, logger *slog.Logger) *Loader {
	if registry == nil {
		registry = DefaultRegistry
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		baseDir:  baseDir,
		registry: registry,
		builtin:  builtinFS,
		logger:   logger,
	}
}

// IsBuiltin reports whether handle names an embedded catalog.
func IsBuiltin(handle string) bool {
	return strings.HasPrefix(handle, BuiltinScheme)
}

// Path returns the filesystem path of a file handle. Embedded handles have
// no path and return "".
func (l *Loader) Path(handle string) string {
	if IsBuiltin(handle) {
		return ""
	}
	if filepath.IsAbs(handle) || l.baseDir == "" {
		return filepath.Clean(handle)
	}
	return filepath.Join(l.baseDir, handle)
}

// Load reads the catalog for revision label from handle. Every failure is
// returned as a *codata.CatalogError carrying the label.
func (l *Loader) Load(ctx context.Context, label, handle string) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, &codata.CatalogError{Revision: label, Err: err}
	}

	cat, err := l.load(handle)
	if err != nil {
		return nil, &codata.CatalogError{Revision: label, Err: err}
	}

	if cat.Revision != "" && cat.Revision != label {
		return nil, &codata.CatalogError{
			Revision: label,
			Err:      fmt.Errorf("%w: %s declares revision %s", ErrRevisionMismatch, handle, cat.Revision),
		}
	}

	l.logger.Debug("Loaded catalog",
		"revision", label,
		"handle", handle,
		"entries", len(cat.Entries))

	return cat, nil
}

func (l *Loader) load(handle string) (*Catalog, error) {
	if handle == "" {
		return nil, fmt.Errorf("%w: empty handle", ErrNotFound)
	}

	if IsBuiltin(handle) {
		label := strings.TrimPrefix(handle, BuiltinScheme)
		name := "data/codata_" + label + ".yaml"
		content, err := fs.ReadFile(l.builtin, name)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("%w: no embedded catalog for %s", ErrNotFound, label)
			}
			return nil, fmt.Errorf("read embedded catalog: %w", err)
		}
		return NewYAMLParser().Parse(handle, content)
	}

	p := l.Path(handle)
	parser, err := l.registry.ForPath(p)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, p)
		}
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	return parser.Parse(p, content)
}

// LoadRevisionSet loads handle and builds the validated RevisionSet.
func (l *Loader) LoadRevisionSet(ctx context.Context, label, handle string, tr codata.Translator) (*codata.RevisionSet, error) {
	cat, err := l.Load(ctx, label, handle)
	if err != nil {
		return nil, err
	}
	return codata.NewRevisionSet(label, cat.Entries, tr)
}
