// Package catalog reads physical-constant catalogs, one per revision.
//
// A revision is referred to by a handle: either "builtin:<label>" for the
// catalogs embedded in the binary, or a file path whose extension selects a
// Parser from the Registry (.yaml/.yml for the codatagen layout, .txt for
// the NIST allascii listing). Loader turns a handle into raw entries and,
// through LoadRevisionSet, into a validated codata.RevisionSet. The package
// never writes catalogs back except through YAMLParser.Encode, used when
// converting a NIST listing to YAML.
package catalog
