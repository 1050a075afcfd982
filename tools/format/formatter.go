// Package format runs clang-format over generated C++ artifacts.
//
// Formatting is best effort: a missing binary, a non-zero exit or a timeout
// leaves the artifact exactly as generated and is reported as a *Warning.
package format

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// DefaultCommand is the formatter binary looked up on PATH.
const DefaultCommand = "clang-format"

// DefaultTimeout bounds a single formatter invocation.
const DefaultTimeout = 30 * time.Second

// ErrEmptyOutput is returned when the formatter succeeds but writes nothing.
var ErrEmptyOutput = errors.New("formatter produced no output")

// Warning reports an artifact that could not be formatted. The file on disk
// is left unchanged.
type Warning struct {
	Path string
	Err  error
}

func (w *Warning) Error() string {
	return fmt.Sprintf("format %s: %v", w.Path, w.Err)
}

func (w *Warning) Unwrap() error {
	return w.Err
}

// Formatter pipes files through an external formatter and replaces them
// atomically with the result.
type Formatter struct {
	command string
	args    []string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithCommand sets the formatter binary.
func WithCommand(command string) Option {
	return func(f *Formatter) {
		if command != "" {
			f.command = command
		}
	}
}

// WithArgs sets extra arguments passed before --assume-filename.
func WithArgs(args ...string) Option {
	return func(f *Formatter) {
		f.args = append([]string(nil), args...)
	}
}

// WithTimeout sets the per-file timeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Formatter) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Formatter) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a Formatter.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		command: DefaultCommand,
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Command returns the formatter binary.
func (f *Formatter) Command() string {
	return f.command
}

// Available reports whether the formatter binary can be found.
func (f *Formatter) Available() bool {
	_, err := exec.LookPath(f.command)
	return err == nil
}

// FormatFile formats path in place. Any failure is returned as a *Warning
// and the file keeps its previous content.
func (f *Formatter) FormatFile(ctx context.Context, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return &Warning{Path: path, Err: err}
	}

	formatted, err := f.run(ctx, path, content)
	if err != nil {
		f.logger.Warn("Formatting skipped", "path", path, "error", err)
		return &Warning{Path: path, Err: err}
	}

	if bytes.Equal(formatted, content) {
		return nil
	}
	if err := WriteFileAtomic(path, formatted); err != nil {
		return &Warning{Path: path, Err: err}
	}

	f.logger.Debug("Formatted file", "path", path)
	return nil
}

// FormatFiles formats each path and returns the warnings collected.
func (f *Formatter) FormatFiles(ctx context.Context, paths []string) []*Warning {
	var warnings []*Warning
	for _, p := range paths {
		if err := f.FormatFile(ctx, p); err != nil {
			var w *Warning
			if errors.As(err, &w) {
				warnings = append(warnings, w)
			}
		}
	}
	return warnings
}

// run pipes content through the formatter and returns its stdout.
func (f *Formatter) run(ctx context.Context, path string, content []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	args := append(append([]string(nil), f.args...), "--assume-filename="+filepath.Base(path))
	cmd := exec.CommandContext(ctx, f.command, args...)
	cmd.Dir = filepath.Dir(path)
	cmd.Stdin = bytes.NewReader(content)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%s: %w", f.command, ctx.Err())
		}
		return nil, fmt.Errorf("%s: %w: %s", f.command, err, strings.TrimSpace(stderr.String()))
	}
	if stdout.Len() == 0 && len(content) > 0 {
		return nil, ErrEmptyOutput
	}
	return stdout.Bytes(), nil
}

// WriteFileAtomic writes data to a temporary file beside path and renames
// it into place, so readers see either the old or the new content.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
