// Package csvwerr defines the error kinds raised by csvw-go's pipeline
// (§7 of the design: metadata validation, dialect tokenization, value
// parsing, source fetching, schema/data mismatches) and the severity
// rules a [Reader] applies to them depending on its processor mode.
package csvwerr

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Mode selects how a Reader treats ParseError and SchemaMismatchError.
type Mode int

const (
	// Strict aborts emission on any error. This is the default when
	// validation is requested.
	Strict Mode = iota
	// Lenient downgrades ParseError and SchemaMismatchError to warnings;
	// the offending cell is emitted as an untyped literal (RDF) or
	// omitted (JSON).
	Lenient
)

func (m Mode) String() string {
	if m == Lenient {
		return "lenient"
	}
	return "strict"
}

// MetadataError is a structural or validation failure in a metadata
// document (e.g. an unrecognized Dialect key, a dangling foreign key
// column reference, a malformed inherited property).
type MetadataError struct {
	Path string // JSON-pointer-ish path within the metadata document, best effort
	Msg  string
}

func (e *MetadataError) Error() string {
	if e.Path == "" {
		return "metadata error: " + e.Msg
	}
	return fmt.Sprintf("metadata error at %s: %s", e.Path, e.Msg)
}

// DialectError reports malformed CSV input: an unterminated quote, an
// unsupported encoding, or a row/column skip that leaves no data.
type DialectError struct {
	Line int // 1-based source line, 0 if unknown
	Msg  string
}

func (e *DialectError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("dialect error at line %d: %s", e.Line, e.Msg)
	}
	return "dialect error: " + e.Msg
}

// ParseError reports that a cell's raw value did not match its
// datatype's pattern, or violated one of its facets.
type ParseError struct {
	Column string
	Value  string
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in column %q (value %q): %s", e.Column, e.Value, e.Msg)
}

// IOError wraps a fetch failure against a CSV or metadata URL.
type IOError struct {
	URL string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// SchemaMismatchError reports that a data row's column count disagrees
// with the schema driving it.
type SchemaMismatchError struct {
	Table    string
	Expected int
	Got      int
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("schema mismatch in table %q: expected %d columns, got %d", e.Table, e.Expected, e.Got)
}

// ForeignKeyError reports that a row's foreign key columns do not
// resolve to any row of the referenced table/schema (scenario S5).
type ForeignKeyError struct {
	Table      string
	Constraint string
	Values     []string
}

func (e *ForeignKeyError) Error() string {
	return fmt.Sprintf("foreign key violation in table %q (%s): no matching row for %v", e.Table, e.Constraint, e.Values)
}

// Downgradable reports whether err should become a warning rather than
// an abort under Lenient mode.
func Downgradable(err error) bool {
	switch err.(type) {
	case *ParseError, *SchemaMismatchError:
		return true
	default:
		return false
	}
}

// AllDowngradable is Downgradable generalized over a
// *multierror.Error's wrapped errors (the row engine's Next
// accumulates one per invalid cell in a row): true only if every
// wrapped error, taken individually, is downgradable.
func AllDowngradable(err error) bool {
	merr, ok := err.(*multierror.Error)
	if !ok {
		return Downgradable(err)
	}
	for _, wrapped := range merr.Errors {
		if !Downgradable(wrapped) {
			return false
		}
	}
	return len(merr.Errors) > 0
}
