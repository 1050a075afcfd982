package generator

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/c360studio/codatagen/tools/format"
)

// Manifest records what the last run generated so later runs can detect
// drift between catalogs, the generator and the artifacts on disk.
type Manifest struct {
	RunID       string          `yaml:"run_id"`
	GeneratedAt time.Time       `yaml:"generated_at"`
	Revisions   []ManifestEntry `yaml:"revisions"`
}

// ManifestEntry records one generated revision. Paths are relative to the
// project root with forward slashes.
type ManifestEntry struct {
	Label        string `yaml:"label"`
	Catalog      string `yaml:"catalog"`
	Constants    int    `yaml:"constants"`
	Header       string `yaml:"header"`
	Tests        string `yaml:"tests"`
	HeaderSHA256 string `yaml:"header_sha256"`
	TestsSHA256  string `yaml:"tests_sha256"`
}

// Digest returns the hex SHA-256 of content.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// NewManifest builds a manifest from the generated revisions of report.
// Paths are made relative to root.
func NewManifest(report *Report, root string) *Manifest {
	m := &Manifest{RunID: report.RunID, GeneratedAt: report.Started}
	for _, res := range report.Generated() {
		m.Revisions = append(m.Revisions, ManifestEntry{
			Label:        res.Label,
			Catalog:      res.Catalog,
			Constants:    res.Constants,
			Header:       relPath(root, res.HeaderPath),
			Tests:        relPath(root, res.TestPath),
			HeaderSHA256: res.HeaderDigest,
			TestsSHA256:  res.TestDigest,
		})
	}
	return m
}

func relPath(root, path string) string {
	if root != "" {
		if rel, err := filepath.Rel(root, path); err == nil {
			path = rel
		}
	}
	return filepath.ToSlash(path)
}

// Entry returns the entry for label.
func (m *Manifest) Entry(label string) (ManifestEntry, bool) {
	for _, e := range m.Revisions {
		if e.Label == label {
			return e, true
		}
	}
	return ManifestEntry{}, false
}

// MergePrevious carries over entries from prev for revisions this manifest
// does not cover, so a partial run keeps the record of the others.
func (m *Manifest) MergePrevious(prev *Manifest) {
	if prev == nil {
		return
	}
	have := make(map[string]bool, len(m.Revisions))
	for _, e := range m.Revisions {
		have[e.Label] = true
	}
	for _, e := range prev.Revisions {
		if !have[e.Label] {
			m.Revisions = append(m.Revisions, e)
		}
	}
	sort.SliceStable(m.Revisions, func(i, j int) bool { return m.Revisions[i].Label < m.Revisions[j].Label })
}

// LoadManifest reads a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m := &Manifest{}
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return m, nil
}

// Save writes the manifest atomically.
func (m *Manifest) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return format.WriteFileAtomic(path, buf.Bytes())
}
