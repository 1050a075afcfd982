package catalog

import (
	"bufio"
	"bytes"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/c360studio/codatagen/codata"
)

// NISTParser reads the NIST "allascii" listing of the CODATA recommended
// values (https://physics.nist.gov/cuu/Constants/Table/allascii.txt).
//
// The listing has a free-form preamble, a column header naming Quantity,
// Value, Uncertainty and Unit, a dashed separator and then one constant per
// line. Rows are fixed-width: the 2002 to 2014 listings start the value,
// uncertainty and unit columns at offsets 55, 77 and 99, later listings at
// 60, 85 and 110. Digit groups inside a number are separated by single
// spaces. Rows that do not fit the layout are split on runs of two or more
// spaces.
type NISTParser struct{}

// NewNISTParser creates a NIST table parser.
func NewNISTParser() *NISTParser {
	return &NISTParser{}
}

// Format returns "nist".
func (p *NISTParser) Format() string {
	return "nist"
}

// Extensions returns the NIST table file extensions.
func (p *NISTParser) Extensions() []string {
	return []string{".txt"}
}

var (
	columnSplit    = regexp.MustCompile(`\s{2,}`)
	adjustmentLine = regexp.MustCompile(`\b(\d{4}) CODATA adjustment`)
)

// nistLayout holds the column start offsets of a fixed-width listing.
type nistLayout struct {
	value       int
	uncertainty int
	unit        int
}

var (
	layout2002 = nistLayout{value: 55, uncertainty: 77, unit: 99}
	layout2018 = nistLayout{value: 60, uncertainty: 85, unit: 110}
)

// layoutFor picks the listing layout from the adjustment year, or from the
// header label offsets when the preamble names no year.
func layoutFor(revision, header string) (nistLayout, bool) {
	if year, err := strconv.Atoi(revision); err == nil {
		if year >= 2018 {
			return layout2018, true
		}
		return layout2002, true
	}

	value := strings.Index(header, "Value")
	uncertainty := strings.Index(header, "Uncertainty")
	unit := strings.LastIndex(header, "Unit")
	if value < 0 || uncertainty < 0 || unit < 0 {
		return nistLayout{}, false
	}

	distance := func(l nistLayout) int {
		return abs(value-l.value) + abs(uncertainty-l.uncertainty) + abs(unit-l.unit)
	}
	if distance(layout2018) < distance(layout2002) {
		return layout2018, true
	}
	return layout2002, true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// Parse decodes a NIST table.
func (p *NISTParser) Parse(filename string, content []byte) (*Catalog, error) {
	cat := &Catalog{Source: filename}

	scanner := bufio.NewScanner(bytes.NewReader(content))
	inTable := false
	lineNo := 0
	var header string

	var (
		layout    nistLayout
		hasLayout bool
	)

	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if !inTable {
			if m := adjustmentLine.FindStringSubmatch(line); m != nil {
				cat.Revision = m[1]
			}
			if strings.Contains(line, "Quantity") && strings.Contains(line, "Value") {
				header = line
			}
			if strings.HasPrefix(line, "-----") {
				inTable = true
				layout, hasLayout = layoutFor(cat.Revision, header)
			}
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		var (
			entry codata.Entry
			err   error
		)
		if hasLayout {
			entry, err = parseFixedRow(line, layout)
		}
		if !hasLayout || err != nil {
			if split, splitErr := parseNISTRow(line); splitErr == nil {
				entry, err = split, nil
			} else if err == nil {
				err = splitErr
			}
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %s:%d: %v", ErrMalformed, filename, lineNo, err)
		}
		cat.Entries = append(cat.Entries, entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, filename, err)
	}
	if !inTable {
		return nil, fmt.Errorf("%w: %s: no table separator found", ErrMalformed, filename)
	}

	return cat, nil
}

// parseFixedRow slices a row at the layout's column offsets.
func parseFixedRow(line string, l nistLayout) (codata.Entry, error) {
	if len(line) <= l.value {
		return codata.Entry{}, fmt.Errorf("row shorter than the value column (%d)", l.value)
	}

	column := func(from, to int) string {
		if from >= len(line) {
			return ""
		}
		if to > len(line) || to < 0 {
			to = len(line)
		}
		return strings.TrimSpace(line[from:to])
	}

	name := column(0, l.value)
	if name == "" {
		return codata.Entry{}, fmt.Errorf("empty quantity name")
	}

	value, err := parseNISTNumber(column(l.value, l.uncertainty))
	if err != nil {
		return codata.Entry{}, fmt.Errorf("value of %q: %w", name, err)
	}

	var uncertainty float64
	if u := column(l.uncertainty, l.unit); u != "(exact)" {
		uncertainty, err = parseNISTNumber(u)
		if err != nil {
			return codata.Entry{}, fmt.Errorf("uncertainty of %q: %w", name, err)
		}
	}

	return codata.Entry{
		Name:        name,
		Value:       value,
		Uncertainty: uncertainty,
		Unit:        column(l.unit, -1),
	}, nil
}

// parseNISTRow splits a row on runs of two or more spaces.
func parseNISTRow(line string) (codata.Entry, error) {
	fields := columnSplit.Split(strings.TrimSpace(line), -1)
	if len(fields) < 3 || len(fields) > 4 {
		return codata.Entry{}, fmt.Errorf("expected 3 or 4 columns, got %d", len(fields))
	}

	value, err := parseNISTNumber(fields[1])
	if err != nil {
		return codata.Entry{}, fmt.Errorf("value of %q: %w", fields[0], err)
	}

	var uncertainty float64
	if fields[2] != "(exact)" {
		uncertainty, err = parseNISTNumber(fields[2])
		if err != nil {
			return codata.Entry{}, fmt.Errorf("uncertainty of %q: %w", fields[0], err)
		}
	}

	entry := codata.Entry{
		Name:        fields[0],
		Value:       value,
		Uncertainty: uncertainty,
	}
	if len(fields) == 4 {
		entry.Unit = fields[3]
	}
	return entry, nil
}

// parseNISTNumber joins digit groups and drops the "..." marking a
// truncated decimal expansion: "6.644 657 3357 e-27" → 6.6446573357e-27.
func parseNISTNumber(s string) (float64, error) {
	s = strings.ReplaceAll(s, "...", "")
	s = strings.ReplaceAll(s, " ", "")
	return strconv.ParseFloat(s, 64)
}
