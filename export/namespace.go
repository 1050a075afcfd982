package export

import (
	"path"
	"path/filepath"
	"strings"
)

// Namespace locates a revision's generated code: the C++ namespace
// org::category::name and the artifact paths derived from it.
type Namespace struct {
	// Org is the top-level organisation namespace, e.g. "triumf".
	Org string

	// Category is the constants category namespace, e.g. "constants".
	Category string

	// Name is the revision namespace and file stem, e.g. "codata_2006".
	Name string

	// Label is the revision label, e.g. "2006".
	Label string
}

// NewNamespace builds the namespace for revision label. The revision name
// is prefix + "_" + label, or the bare label when prefix is empty.
func NewNamespace(org, category, prefix, label string) Namespace {
	name := label
	if prefix != "" {
		name = prefix + "_" + label
	}
	return Namespace{
		Org:      org,
		Category: category,
		Name:     name,
		Label:    label,
	}
}

// Qualified returns the fully qualified C++ namespace.
func (n Namespace) Qualified() string {
	return n.Org + "::" + n.Category + "::" + n.Name
}

// Guard returns the header include guard macro.
func (n Namespace) Guard() string {
	return strings.ToUpper(n.Org + "_" + n.Category + "_" + n.Name + "_HPP")
}

// TestModule returns the Boost.Test module name.
func (n Namespace) TestModule() string {
	return strings.ToUpper(n.Name)
}

// IncludePath returns the header path used in #include directives.
func (n Namespace) IncludePath() string {
	info, _ := GetFormatInfo(FormatHeader)
	return path.Join(n.Org, n.Category, n.Name+info.Extension)
}

// HeaderPath returns the header artifact path under includeDir.
func (n Namespace) HeaderPath(includeDir string) string {
	return filepath.Join(includeDir, filepath.FromSlash(n.IncludePath()))
}

// TestPath returns the test artifact path under testsDir.
func (n Namespace) TestPath(testsDir string) string {
	info, _ := GetFormatInfo(FormatBoostTest)
	return filepath.Join(testsDir, n.Name+info.Extension)
}
