// Package generator drives code generation for every configured catalog
// revision: load, translate, render, write, format and verify.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/c360studio/codatagen/catalog"
	"github.com/c360studio/codatagen/codata"
	"github.com/c360studio/codatagen/export"
	"github.com/c360studio/codatagen/metrics"
	"github.com/c360studio/codatagen/tools/format"
	"github.com/c360studio/codatagen/verify"
)

// RevisionDescriptor names one revision to generate and the catalog it is
// read from.
type RevisionDescriptor struct {
	Label   string
	Catalog string
}

// Formatter rewrites a generated file in place. Failures must leave the
// file untouched and are reported as warnings.
type Formatter interface {
	FormatFile(ctx context.Context, path string) error
}

// Options configures a Driver.
type Options struct {
	// Root is the project root; relative output directories resolve against it.
	Root       string
	IncludeDir string
	TestsDir   string

	Org        string
	Category   string
	NamePrefix string

	Translator  codata.Translator
	TestTypes   []string
	Parallelism int

	Loader    *catalog.Loader
	Formatter Formatter       // nil disables formatting
	Checker   *verify.Checker // nil disables verification
	Metrics   *metrics.Recorder
	Logger    *slog.Logger
}

// Driver runs the generation pipeline over a list of revisions.
type Driver struct {
	revisions []RevisionDescriptor
	opts      Options
	emitters  []export.Emitter
	logger    *slog.Logger
}

// New creates a Driver for revisions.
func New(revisions []RevisionDescriptor, opts Options) (*Driver, error) {
	if err := export.ValidateTestTypes(emptyDefault(opts.TestTypes)); err != nil {
		return nil, err
	}
	if opts.Loader == nil {
		opts.Loader = catalog.NewLoader(opts.Root, nil, opts.Logger)
	}
	if opts.Parallelism < 1 {
		opts.Parallelism = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	emitters := []export.Emitter{
		export.NewHeaderEmitter(),
		export.NewTestEmitter(opts.TestTypes),
	}

	return &Driver{
		revisions: append([]RevisionDescriptor(nil), revisions...),
		opts:      opts,
		emitters:  emitters,
		logger:    logger,
	}, nil
}

func emptyDefault(types []string) []string {
	if len(types) == 0 {
		return export.DefaultTestTypes
	}
	return types
}

// Revisions returns the descriptors the driver runs over.
func (d *Driver) Revisions() []RevisionDescriptor {
	return append([]RevisionDescriptor(nil), d.revisions...)
}

// Namespace returns the C++ namespace for a revision label.
func (d *Driver) Namespace(label string) export.Namespace {
	return export.NewNamespace(d.opts.Org, d.opts.Category, d.opts.NamePrefix, label)
}

// HeaderPath returns the absolute header path for a revision label.
func (d *Driver) HeaderPath(label string) string {
	return d.Namespace(label).HeaderPath(d.resolve(d.opts.IncludeDir))
}

// TestPath returns the absolute test suite path for a revision label.
func (d *Driver) TestPath(label string) string {
	return d.Namespace(label).TestPath(d.resolve(d.opts.TestsDir))
}

func (d *Driver) resolve(dir string) string {
	if filepath.IsAbs(dir) || d.opts.Root == "" {
		return dir
	}
	return filepath.Join(d.opts.Root, dir)
}

// Rendered holds the in-memory artifacts of one revision.
type Rendered struct {
	Set        *codata.RevisionSet
	Namespace  export.Namespace
	HeaderPath string
	TestPath   string
	Header     []byte
	Tests      []byte
}

// Render loads and renders one revision without touching the output tree.
func (d *Driver) Render(ctx context.Context, desc RevisionDescriptor) (*Rendered, error) {
	set, err := d.opts.Loader.LoadRevisionSet(ctx, desc.Label, desc.Catalog, d.opts.Translator)
	if err != nil {
		return nil, err
	}

	ns := d.Namespace(desc.Label)
	r := &Rendered{
		Set:        set,
		Namespace:  ns,
		HeaderPath: d.HeaderPath(desc.Label),
		TestPath:   d.TestPath(desc.Label),
	}

	for _, e := range d.emitters {
		out, err := e.Emit(set, ns)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", e.Format(), err)
		}
		switch e.Format() {
		case export.FormatHeader:
			r.Header = out
		case export.FormatBoostTest:
			r.Tests = out
		}
	}

	return r, nil
}

// Run generates every revision. Failures are isolated per revision and
// recorded in the report; Run itself never aborts early except on context
// cancellation, which marks the remaining revisions skipped.
func (d *Driver) Run(ctx context.Context) *Report {
	report := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now().UTC(),
		Results: make([]RevisionResult, len(d.revisions)),
	}

	d.logger.Info("Starting generation",
		"run_id", report.RunID,
		"revisions", len(d.revisions),
		"parallelism", d.opts.Parallelism)

	if d.opts.Parallelism == 1 {
		for i, desc := range d.revisions {
			report.Results[i] = d.runRevision(ctx, desc)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(d.opts.Parallelism)
		for i, desc := range d.revisions {
			i, desc := i, desc
			g.Go(func() error {
				report.Results[i] = d.runRevision(ctx, desc)
				return nil
			})
		}
		_ = g.Wait()
	}

	report.Finished = time.Now().UTC()
	d.logger.Info("Generation finished",
		"run_id", report.RunID,
		"generated", len(report.Generated()),
		"failed", len(report.Failed()),
		"duration", report.Finished.Sub(report.Started))
	return report
}

func (d *Driver) runRevision(ctx context.Context, desc RevisionDescriptor) RevisionResult {
	res := RevisionResult{Label: desc.Label, Catalog: desc.Catalog}
	start := time.Now()

	if err := ctx.Err(); err != nil {
		res.Outcome = OutcomeSkipped
		res.Err = err
		if d.opts.Metrics != nil {
			d.opts.Metrics.RevisionSkipped()
		}
		return res
	}

	fail := func(err error) RevisionResult {
		res.Outcome = OutcomeFailed
		res.Err = err
		res.Duration = time.Since(start)
		d.logger.Error("Revision failed", "revision", desc.Label, "error", err)
		if d.opts.Metrics != nil {
			d.opts.Metrics.RevisionFailed(desc.Label, res.Duration)
		}
		return res
	}

	r, err := d.Render(ctx, desc)
	if err != nil {
		return fail(err)
	}
	res.HeaderPath = r.HeaderPath
	res.TestPath = r.TestPath
	res.Constants = r.Set.Len()
	res.HeaderDigest = Digest(r.Header)
	res.TestDigest = Digest(r.Tests)

	for _, w := range r.Set.Warnings() {
		d.logger.Warn("Degenerate constant", "revision", desc.Label, "error", w)
		res.Warnings = append(res.Warnings, w)
	}

	if err := format.WriteFileAtomic(r.HeaderPath, r.Header); err != nil {
		return fail(fmt.Errorf("write header: %w", err))
	}
	if err := format.WriteFileAtomic(r.TestPath, r.Tests); err != nil {
		return fail(fmt.Errorf("write tests: %w", err))
	}

	if d.opts.Formatter != nil {
		for _, p := range []string{r.HeaderPath, r.TestPath} {
			if err := d.opts.Formatter.FormatFile(ctx, p); err != nil {
				res.Warnings = append(res.Warnings, err)
				if d.opts.Metrics != nil {
					d.opts.Metrics.FormatWarning()
				}
			}
		}
	}

	if d.opts.Checker != nil {
		if err := d.verify(ctx, r); err != nil {
			return fail(err)
		}
	}

	res.Outcome = OutcomeGenerated
	res.Duration = time.Since(start)
	if d.opts.Metrics != nil {
		d.opts.Metrics.RevisionGenerated(desc.Label, res.Constants, res.Duration)
	}
	d.logger.Info("Generated revision",
		"revision", desc.Label,
		"constants", res.Constants,
		"header", r.HeaderPath,
		"tests", r.TestPath)
	return res
}

// verify checks the artifacts as they are on disk, after formatting.
func (d *Driver) verify(ctx context.Context, r *Rendered) error {
	ids := r.Set.Identifiers()

	header, err := os.ReadFile(r.HeaderPath)
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	if err := d.opts.Checker.CheckHeader(ctx, r.HeaderPath, header, ids); err != nil {
		return err
	}

	tests, err := os.ReadFile(r.TestPath)
	if err != nil {
		return fmt.Errorf("read tests: %w", err)
	}
	return d.opts.Checker.CheckTests(ctx, r.TestPath, tests, ids)
}

// Outcome is the result of one revision.
type Outcome string

const (
	OutcomeGenerated Outcome = metrics.OutcomeGenerated
	OutcomeFailed    Outcome = metrics.OutcomeFailed
	OutcomeSkipped   Outcome = metrics.OutcomeSkipped
)

// RevisionResult reports what happened to one revision.
type RevisionResult struct {
	Label        string
	Catalog      string
	Outcome      Outcome
	HeaderPath   string
	TestPath     string
	Constants    int
	HeaderDigest string // SHA-256 of the unformatted header
	TestDigest   string // SHA-256 of the unformatted test suite
	Duration     time.Duration
	Err          error
	Warnings     []error
}

// Report summarises a run in configuration order.
type Report struct {
	RunID    string
	Started  time.Time
	Finished time.Time
	Results  []RevisionResult
}

// Generated returns the results of revisions written successfully.
func (r *Report) Generated() []RevisionResult {
	return r.filter(OutcomeGenerated)
}

// Failed returns the results of revisions that failed.
func (r *Report) Failed() []RevisionResult {
	return r.filter(OutcomeFailed)
}

func (r *Report) filter(o Outcome) []RevisionResult {
	var out []RevisionResult
	for _, res := range r.Results {
		if res.Outcome == o {
			out = append(out, res)
		}
	}
	return out
}

// Warnings returns every warning in the run.
func (r *Report) Warnings() []error {
	var out []error
	for _, res := range r.Results {
		out = append(out, res.Warnings...)
	}
	return out
}

// Err joins the errors of all revisions that were not generated, or returns
// nil when every revision succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("revision %s: %w", res.Label, res.Err))
		}
	}
	return errors.Join(errs...)
}
