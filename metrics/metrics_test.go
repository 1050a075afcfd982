package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counters(t *testing.T) {
	r := NewRecorder()

	r.RevisionGenerated("2002", 58, 10*time.Millisecond)
	r.RevisionGenerated("2006", 326, 20*time.Millisecond)
	r.RevisionFailed("2010", time.Millisecond)
	r.RevisionSkipped()
	r.FormatWarning()
	r.FormatWarning()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.revisions.WithLabelValues(OutcomeGenerated)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.revisions.WithLabelValues(OutcomeFailed)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.revisions.WithLabelValues(OutcomeSkipped)))
	assert.Equal(t, 58.0, testutil.ToFloat64(r.constants.WithLabelValues("2002")))
	assert.Equal(t, 326.0, testutil.ToFloat64(r.constants.WithLabelValues("2006")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.formatWarnings))
	assert.Equal(t, 3, testutil.CollectAndCount(r.duration))
}

func TestRecorder_Expected(t *testing.T) {
	r := NewRecorder()
	r.FormatWarning()

	expected := `
# HELP codatagen_format_warnings_total Artifacts left unformatted because the formatter failed.
# TYPE codatagen_format_warnings_total counter
codatagen_format_warnings_total 1
`
	require.NoError(t, testutil.GatherAndCompare(r.Registry(), strings.NewReader(expected), "codatagen_format_warnings_total"))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.RevisionGenerated("2006", 326, 5*time.Millisecond)

	path := filepath.Join(t.TempDir(), "codatagen.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `codatagen_revisions_total{outcome="generated"} 1`)
	assert.Contains(t, string(data), `codatagen_constants_emitted_total{revision="2006"} 326`)
}

func TestRecorder_WriteTextfileBadDir(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "codatagen.prom"))
	assert.Error(t, err)
}
