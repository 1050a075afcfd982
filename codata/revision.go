package codata

import (
	"sort"
)

// Entry is a raw catalog row before validation and translation.
type Entry struct {
	Name        string  `yaml:"name"`
	Value       float64 `yaml:"value"`
	Uncertainty float64 `yaml:"uncertainty"`
	Unit        string  `yaml:"unit"`
}

// RevisionSet is the immutable collection of records for one catalog
// revision, keyed by identifier.
type RevisionSet struct {
	label   string
	records []Record       // sorted by name
	byID    map[string]int // identifier → index into records
}

// NewRevisionSet validates entries, translates every name and checks that
// identifiers are unique. Records are ordered by name so that everything
// rendered from the set is independent of catalog order.
func NewRevisionSet(label string, entries []Entry, tr Translator) (*RevisionSet, error) {
	if len(entries) == 0 {
		return nil, &CatalogError{Revision: label, Err: ErrNoConstants}
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	set := &RevisionSet{
		label:   label,
		records: make([]Record, 0, len(sorted)),
		byID:    make(map[string]int, len(sorted)),
	}

	for i, e := range sorted {
		if i > 0 && sorted[i-1].Name == e.Name {
			return nil, &CatalogError{Revision: label, Name: e.Name, Err: ErrDuplicateName}
		}

		rec, err := NewRecord(label, e.Name, e.Value, e.Uncertainty, e.Unit, tr)
		if err != nil {
			return nil, err
		}

		if prev, ok := set.byID[rec.Identifier()]; ok {
			return nil, &IdentifierCollisionError{
				Revision:   label,
				Identifier: rec.Identifier(),
				First:      set.records[prev].Name(),
				Second:     rec.Name(),
			}
		}

		set.byID[rec.Identifier()] = len(set.records)
		set.records = append(set.records, rec)
	}

	return set, nil
}

// Label returns the revision label, e.g. "2006".
func (s *RevisionSet) Label() string { return s.label }

// Len returns the number of records.
func (s *RevisionSet) Len() int { return len(s.records) }

// Records returns a copy of the records ordered by name.
func (s *RevisionSet) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// Lookup returns the record with the given identifier.
func (s *RevisionSet) Lookup(identifier string) (Record, bool) {
	i, ok := s.byID[identifier]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// Identifiers returns every identifier in record order.
func (s *RevisionSet) Identifiers() []string {
	ids := make([]string, len(s.records))
	for i, r := range s.records {
		ids[i] = r.Identifier()
	}
	return ids
}

// Warnings returns a *DegenerateWarning for every zero-valued record.
func (s *RevisionSet) Warnings() []error {
	var warnings []error
	for _, r := range s.records {
		if r.Degenerate() {
			warnings = append(warnings, &DegenerateWarning{Revision: s.label, Name: r.Name()})
		}
	}
	return warnings
}
