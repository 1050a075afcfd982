package generator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
)

// CheckResult reports the drift check of one revision.
type CheckResult struct {
	Label string
	Err   error // nil when the revision is up to date
}

// Check re-renders every revision in memory and compares the output with a
// second render and with the digests in m. When m is nil only determinism
// is checked. Artifacts recorded in m must also exist on disk.
func (d *Driver) Check(ctx context.Context, m *Manifest) []CheckResult {
	results := make([]CheckResult, 0, len(d.revisions))
	for _, desc := range d.revisions {
		err := d.checkRevision(ctx, desc, m)
		if err != nil {
			d.logger.Warn("Revision out of date", "revision", desc.Label, "error", err)
		} else {
			d.logger.Debug("Revision up to date", "revision", desc.Label)
		}
		results = append(results, CheckResult{Label: desc.Label, Err: err})
	}
	return results
}

func (d *Driver) checkRevision(ctx context.Context, desc RevisionDescriptor, m *Manifest) error {
	first, err := d.Render(ctx, desc)
	if err != nil {
		return err
	}
	second, err := d.Render(ctx, desc)
	if err != nil {
		return err
	}
	if !bytes.Equal(first.Header, second.Header) || !bytes.Equal(first.Tests, second.Tests) {
		return ErrNondeterministic
	}

	if m == nil {
		return nil
	}
	entry, ok := m.Entry(desc.Label)
	if !ok {
		return ErrNotInManifest
	}

	var errs []error
	if Digest(first.Header) != entry.HeaderSHA256 {
		errs = append(errs, fmt.Errorf("%w: header", ErrDrift))
	}
	if Digest(first.Tests) != entry.TestsSHA256 {
		errs = append(errs, fmt.Errorf("%w: tests", ErrDrift))
	}
	for _, p := range []string{first.HeaderPath, first.TestPath} {
		if _, err := os.Stat(p); err != nil {
			errs = append(errs, fmt.Errorf("%w: %s", ErrArtifactMissing, p))
		}
	}
	return errors.Join(errs...)
}

// CheckErr joins the failures in results.
func CheckErr(results []CheckResult) error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, fmt.Errorf("revision %s: %w", r.Label, r.Err))
		}
	}
	return errors.Join(errs...)
}
