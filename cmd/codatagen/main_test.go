package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/codatagen/catalog"
	"github.com/c360studio/codatagen/config"
)

const projectConfig = `revisions:
  - label: "2002"
    catalog: builtin:2002
  - label: "2010"
    catalog: catalog/codata_2010.txt
format:
  enabled: false
`

// execute runs the root command against dir and returns stdout.
func execute(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())

	var out, errOut bytes.Buffer
	cmd := rootCmd()
	cmd.SetArgs(append([]string{"--dir", dir, "--log-level", "error"}, args...))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

func newProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectConfigFile), []byte(projectConfig), 0o644))
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "codatagen version 0.1.0 (build: dev)\n", out)
}

func TestTranslateCommand(t *testing.T) {
	out, err := execute(t, t.TempDir(), "translate", "speed of light in vacuum", "{220} lattice spacing of silicon")
	require.NoError(t, err)
	assert.Equal(t, "speed_of_light_in_vacuum\nlattice_spacing_of_silicon_220\n", out)

	out, err = execute(t, t.TempDir(), "translate", "--hyphen", "underscore", "alpha particle-electron mass ratio")
	require.NoError(t, err)
	assert.Equal(t, "alpha_particle_electron_mass_ratio\n", out)

	_, err = execute(t, t.TempDir(), "translate", "--hyphen", "dash", "x")
	assert.Error(t, err)

	_, err = execute(t, t.TempDir(), "translate", "2nd radiation constant")
	assert.Error(t, err)
}

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out, err := execute(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "created")

	cfg, err := config.LoadFromFile(filepath.Join(dir, config.ProjectConfigFile))
	require.NoError(t, err)
	assert.NoError(t, cfg.Validate())

	out, err = execute(t, dir, "init")
	require.NoError(t, err)
	assert.Contains(t, out, "already exists")
}

func TestGenerateCommand_PartialFailure(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, dir, "generate")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 2 revisions failed")
	assert.Contains(t, out, "2002")
	assert.Contains(t, out, "generated")
	assert.Contains(t, out, "58 constants")
	assert.Contains(t, out, "2010")
	assert.Contains(t, out, "failed")

	_, statErr := os.Stat(filepath.Join(dir, "include", "triumf", "constants", "codata_2002.hpp"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(dir, "tests", "codata_2002.cpp"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(dir, ".codatagen", "manifest.yaml"))
	assert.NoError(t, statErr, "manifest written for the generated revision")
}

func TestGenerateThenCheck(t *testing.T) {
	dir := newProject(t)

	_, err := execute(t, dir, "check", "--revision", "2002")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run generate first")

	_, err = execute(t, dir, "generate", "--revision", "2002", "--parallelism", "2")
	require.NoError(t, err)

	out, err := execute(t, dir, "check", "--revision", "2002")
	require.NoError(t, err)
	assert.Equal(t, "2002\tok\n", out)

	require.NoError(t, os.Remove(filepath.Join(dir, "tests", "codata_2002.cpp")))
	out, err = execute(t, dir, "check", "--revision", "2002")
	require.Error(t, err)
	assert.Contains(t, out, "stale")
}

func TestGenerateCommand_UnknownRevision(t *testing.T) {
	_, err := execute(t, newProject(t), "generate", "--revision", "1986")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `revision "1986" is not configured`)
}

func TestGenerateCommand_InvalidParallelism(t *testing.T) {
	_, err := execute(t, newProject(t), "generate", "--revision", "2002", "--parallelism", "-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generator.parallelism must be at least 1")
}

func TestGenerateCommand_MissingFormatter(t *testing.T) {
	dir := t.TempDir()
	cfg := `revisions:
  - label: "2002"
    catalog: builtin:2002
format:
  enabled: true
  command: codatagen-no-such-clang-format
metrics:
  textfile: codatagen.prom
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectConfigFile), []byte(cfg), 0o644))

	out, err := execute(t, dir, "generate")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "warning: format "), out)

	prom, err := os.ReadFile(filepath.Join(dir, "codatagen.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(prom), "codatagen_format_warnings_total 2")
}

func TestCatalogCommands(t *testing.T) {
	dir := newProject(t)

	out, err := execute(t, dir, "catalog", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "REVISION")
	assert.Contains(t, out, "58 constants")
	assert.Contains(t, out, "catalog not found")

	out, err = execute(t, dir, "catalog", "show", "2002")
	require.NoError(t, err)
	assert.Contains(t, out, "lattice_spacing_of_silicon_220")
	assert.Contains(t, out, "1.920155965e-10")

	_, err = execute(t, dir, "catalog", "show", "1986")
	assert.Error(t, err)
}

func TestCatalogImportCommand(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "catalog", "codata_2018.yaml")
	src := filepath.Join("..", "..", "catalog", "testdata", "allascii_sample.txt")

	out, err := execute(t, dir, "catalog", "import", src, dest)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 6 constants (revision 2018)")

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	cat, err := catalog.NewYAMLParser().Parse(dest, content)
	require.NoError(t, err)
	assert.Equal(t, "2018", cat.Revision)
	assert.Len(t, cat.Entries, 6)

	_, err = execute(t, dir, "catalog", "import", "constants.csv", dest)
	assert.ErrorIs(t, err, catalog.ErrUnknownFormat)
}

func TestFormatCommand_NoFiles(t *testing.T) {
	out, err := execute(t, newProject(t), "format")
	require.NoError(t, err)
	assert.Equal(t, "no files matched\n", out)
}

func TestWatchCommand_NothingToWatch(t *testing.T) {
	dir := t.TempDir()
	cfg := "revisions:\n  - label: \"2002\"\n    catalog: builtin:2002\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, config.ProjectConfigFile), []byte(cfg), 0o644))

	_, err := execute(t, dir, "watch")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no file-backed catalogs"))
}
