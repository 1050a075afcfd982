// Package verify parses generated C++ artifacts with tree-sitter and checks
// that they are syntactically sound and declare exactly the expected
// constants.
package verify

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/cpp"

	"github.com/c360studio/codatagen/codata"
)

// Kind classifies a verification failure.
type Kind string

const (
	// KindSyntax means the artifact does not parse cleanly.
	KindSyntax Kind = "syntax"

	// KindMissing means an expected identifier is absent.
	KindMissing Kind = "missing"

	// KindUnexpected means the header declares a constant nobody asked for.
	KindUnexpected Kind = "unexpected"

	// KindInvalid means an identifier is not a usable C++ type name.
	KindInvalid Kind = "invalid"
)

// Error reports an artifact that failed verification.
type Error struct {
	Path        string
	Kind        Kind
	Identifiers []string // offending identifiers, sorted
	Line        int      // 1-based line of the first syntax error, 0 otherwise
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindSyntax:
		return fmt.Sprintf("verify %s: syntax error near line %d", e.Path, e.Line)
	default:
		return fmt.Sprintf("verify %s: %s identifiers: %s", e.Path, e.Kind, strings.Join(e.Identifiers, ", "))
	}
}

// Checker parses C++ source. It is safe for concurrent use.
type Checker struct {
	mu     sync.Mutex
	parser *sitter.Parser
}

// NewChecker creates a Checker for C++.
func NewChecker() *Checker {
	p := sitter.NewParser()
	p.SetLanguage(cpp.GetLanguage())
	return &Checker{parser: p}
}

func (c *Checker) parse(ctx context.Context, src []byte) (*sitter.Tree, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	tree, err := c.parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return tree, nil
}

// CheckHeader verifies that ids are valid C++ type names, that src parses
// without errors and that the class templates it declares are exactly ids.
func (c *Checker) CheckHeader(ctx context.Context, path string, src []byte, ids []string) error {
	if err := checkIdentifiers(path, ids); err != nil {
		return err
	}

	tree, err := c.parse(ctx, src)
	if err != nil {
		return err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return &Error{Path: path, Kind: KindSyntax, Line: firstErrorLine(root)}
	}

	declared := make(map[string]bool)
	walk(root, func(n *sitter.Node) {
		if n.Type() != "struct_specifier" || n.ChildByFieldName("body") == nil {
			return
		}
		if name := n.ChildByFieldName("name"); name != nil {
			declared[name.Content(src)] = true
		}
	})

	return compare(path, declared, ids, true)
}

// CheckTests verifies that src mentions every identifier in ids. Top-level
// Boost.Test macros are not valid C++ until preprocessed, so parse errors
// are tolerated and only identifier tokens are checked.
func (c *Checker) CheckTests(ctx context.Context, path string, src []byte, ids []string) error {
	tree, err := c.parse(ctx, src)
	if err != nil {
		return err
	}
	defer tree.Close()

	root := tree.RootNode()

	seen := make(map[string]bool)
	walk(root, func(n *sitter.Node) {
		switch n.Type() {
		case "identifier", "type_identifier", "field_identifier", "namespace_identifier":
			seen[n.Content(src)] = true
		}
	})

	return compare(path, seen, ids, false)
}

func checkIdentifiers(path string, ids []string) error {
	var invalid []string
	for _, id := range ids {
		if !codata.ValidIdentifier(id) {
			invalid = append(invalid, id)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return &Error{Path: path, Kind: KindInvalid, Identifiers: invalid}
	}
	return nil
}

// compare reports ids absent from found and, when strict, names in found
// that are not in ids.
func compare(path string, found map[string]bool, ids []string, strict bool) error {
	want := make(map[string]bool, len(ids))
	var missing []string
	for _, id := range ids {
		want[id] = true
		if !found[id] {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return &Error{Path: path, Kind: KindMissing, Identifiers: missing}
	}

	if strict {
		var extra []string
		for name := range found {
			if !want[name] {
				extra = append(extra, name)
			}
		}
		if len(extra) > 0 {
			sort.Strings(extra)
			return &Error{Path: path, Kind: KindUnexpected, Identifiers: extra}
		}
	}
	return nil
}

func walk(n *sitter.Node, fn func(*sitter.Node)) {
	fn(n)
	for i := 0; i < int(n.ChildCount()); i++ {
		walk(n.Child(i), fn)
	}
}

func firstErrorLine(root *sitter.Node) int {
	line := 0
	walk(root, func(n *sitter.Node) {
		if line == 0 && (n.IsError() || n.IsMissing()) {
			line = int(n.StartPoint().Row) + 1
		}
	})
	if line == 0 {
		line = 1
	}
	return line
}
