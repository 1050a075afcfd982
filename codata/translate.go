package codata

import (
	"fmt"
	"strings"
)

// HyphenMode selects how hyphens in constant names are translated.
type HyphenMode string

const (
	// HyphenStrip removes hyphens along with the other punctuation.
	HyphenStrip HyphenMode = "strip"
	// HyphenUnderscore maps hyphens to underscores, matching identifiers
	// published by earlier releases of the headers.
	HyphenUnderscore HyphenMode = "underscore"
)

// ParseHyphenMode converts a configuration string to a HyphenMode.
// An empty string selects HyphenStrip.
func ParseHyphenMode(s string) (HyphenMode, error) {
	switch HyphenMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", HyphenStrip:
		return HyphenStrip, nil
	case HyphenUnderscore:
		return HyphenUnderscore, nil
	default:
		return "", fmt.Errorf("unknown hyphen mode %q (want %q or %q)", s, HyphenStrip, HyphenUnderscore)
	}
}

// phraseRewrites move the crystallographic index of the silicon lattice
// spacing behind the phrase so the identifier does not start with a digit.
var phraseRewrites = []struct{ from, to string }{
	{"{220} lattice spacing of silicon", "lattice spacing of silicon {220}"},
	{"(220) lattice spacing of silicon", "lattice spacing of silicon (220)"},
}

var (
	stripReplacer = strings.NewReplacer(
		".", "", ",", "", "{", "", "}", "", "(", "", ")", "", "-", "",
		" ", "_", "/", "_",
	)
	underscoreReplacer = strings.NewReplacer(
		".", "", ",", "", "{", "", "}", "", "(", "", ")", "", "-", "_",
		" ", "_", "/", "_",
	)
)

// Translator maps human readable constant names to identifier tokens.
// The zero value strips hyphens.
type Translator struct {
	Hyphen HyphenMode
}

// Translate applies the phrase rewrites, strips punctuation and replaces
// spaces and slashes with underscores. Names matching no rewrite fall
// through to the character rules unchanged.
func (t Translator) Translate(name string) string {
	for _, r := range phraseRewrites {
		name = strings.ReplaceAll(name, r.from, r.to)
	}
	if t.Hyphen == HyphenUnderscore {
		return underscoreReplacer.Replace(name)
	}
	return stripReplacer.Replace(name)
}

// Translate converts name with the default Translator.
func Translate(name string) string {
	return Translator{}.Translate(name)
}

// cppKeywords lists reserved words that cannot name a generated struct.
var cppKeywords = map[string]bool{
	"alignas": true, "alignof": true, "and": true, "and_eq": true, "asm": true,
	"auto": true, "bitand": true, "bitor": true, "bool": true, "break": true,
	"case": true, "catch": true, "char": true, "char8_t": true, "char16_t": true,
	"char32_t": true, "class": true, "compl": true, "concept": true, "const": true,
	"consteval": true, "constexpr": true, "constinit": true, "const_cast": true,
	"continue": true, "co_await": true, "co_return": true, "co_yield": true,
	"decltype": true, "default": true, "delete": true, "do": true, "double": true,
	"dynamic_cast": true, "else": true, "enum": true, "explicit": true, "export": true,
	"extern": true, "false": true, "float": true, "for": true, "friend": true,
	"goto": true, "if": true, "inline": true, "int": true, "long": true,
	"mutable": true, "namespace": true, "new": true, "noexcept": true, "not": true,
	"not_eq": true, "nullptr": true, "operator": true, "or": true, "or_eq": true,
	"private": true, "protected": true, "public": true, "register": true,
	"reinterpret_cast": true, "requires": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "static_assert": true,
	"static_cast": true, "struct": true, "switch": true, "template": true,
	"this": true, "thread_local": true, "throw": true, "true": true, "try": true,
	"typedef": true, "typeid": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "wchar_t": true, "while": true, "xor": true, "xor_eq": true,
}

// ValidIdentifier reports whether id can be used as a C++ type name.
func ValidIdentifier(id string) bool {
	if id == "" || cppKeywords[id] {
		return false
	}
	for i, r := range id {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
