package metadata

import (
	"fmt"

	"github.com/csvw-go/rdf-tabular/csvwerr"
)

// MergeTableGroups deep left-merges b into a: wherever both define a
// property, a's value wins; wherever only b defines it, b fills the
// gap (§4.5). Neither input is mutated; the result is a new tree.
//
// This is the engine that combines the discovery sources named in §4.4
// (embedded metadata, a linked metadata document, a well-known link, a
// user-supplied document) into the single tree the row engine runs
// against.
func MergeTableGroups(a, b *TableGroup) (*TableGroup, error) {
	if a == nil {
		return b.Clone(), nil
	}
	if b == nil {
		return a.Clone(), nil
	}

	out := a.Clone()
	bb := b.Clone()

	out.Dialect = mergeDialect(out.Dialect, bb.Dialect)
	out.TableSchema = mergeSchema(out.TableSchema, bb.TableSchema)
	out.Transformations = mergeTransformations(out.Transformations, bb.Transformations)
	if out.TableDirection == "" {
		out.TableDirection = bb.TableDirection
	}
	out.Notes = mergeNotes(out.Notes, bb.Notes)
	out.Inherited = mergeInherited(out.Inherited, bb.Inherited)
	out.Common = mergeCommon(out.Common, bb.Common)
	if out.ID == "" {
		out.ID = bb.ID
	}

	tables, err := mergeTables(out.Tables, bb.Tables)
	if err != nil {
		return nil, err
	}
	out.Tables = tables
	out.AttachParents()

	return out, nil
}

// mergeTables aligns tables by url (§4.5: tables are matched across
// sources by their resource url, the one identity every source must
// agree on), merging matched pairs and appending any b-only tables
// that a did not mention.
func mergeTables(a, b []*Table) ([]*Table, error) {
	out := make([]*Table, len(a))
	copy(out, a)

	byURL := make(map[string]int, len(out))
	for i, t := range out {
		if t.URL != "" {
			byURL[t.URL] = i
		}
	}

	for _, bt := range b {
		if bt.URL != "" {
			if i, ok := byURL[bt.URL]; ok {
				merged, err := mergeTable(out[i], bt)
				if err != nil {
					return nil, fmt.Errorf("table %q: %w", bt.URL, err)
				}
				out[i] = merged
				continue
			}
		}
		out = append(out, bt)
	}
	return out, nil
}

func mergeTable(a, b *Table) (*Table, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	out := a
	if out.URL == "" {
		out.URL = b.URL
	}
	if out.ID == "" {
		out.ID = b.ID
	}
	out.Dialect = mergeDialect(out.Dialect, b.Dialect)
	schema, err := mergeSchemaErr(out.TableSchema, b.TableSchema)
	if err != nil {
		return nil, err
	}
	out.TableSchema = schema
	out.Transformations = mergeTransformations(out.Transformations, b.Transformations)
	out.Notes = mergeNotes(out.Notes, b.Notes)
	out.SuppressOutput = out.SuppressOutput || b.SuppressOutput
	out.Inherited = mergeInherited(out.Inherited, b.Inherited)
	out.Common = mergeCommon(out.Common, b.Common)
	return out, nil
}

func mergeSchema(a, b *Schema) *Schema {
	s, err := mergeSchemaErr(a, b)
	if err != nil {
		// A column count mismatch is not reported here or by Validate;
		// a's schema is kept unchanged so merge never fails a whole
		// tree over it.
		return a
	}
	return s
}

// mergeSchemaErr implements §4.5's array rule for columns: positions
// must align 1:1 between the two sources, since a column's identity is
// its ordinal position, not a name it may lack. A length mismatch is a
// genuine metadata inconsistency and is reported rather than guessed
// at.
func mergeSchemaErr(a, b *Schema) (*Schema, error) {
	if a == nil {
		return b, nil
	}
	if b == nil {
		return a, nil
	}
	out := a
	if out.ID == "" {
		out.ID = b.ID
	}

	switch {
	case len(out.Columns) == 0:
		out.Columns = b.Columns
	case len(b.Columns) == 0:
		// nothing to merge in
	case len(out.Columns) != len(b.Columns):
		return nil, &csvwerr.MetadataError{
			Path: out.ID,
			Msg:  fmt.Sprintf("cannot merge schemas with different column counts (%d vs %d)", len(out.Columns), len(b.Columns)),
		}
	default:
		for i := range out.Columns {
			out.Columns[i] = mergeColumn(out.Columns[i], b.Columns[i])
		}
	}

	if len(out.PrimaryKey) == 0 {
		out.PrimaryKey = b.PrimaryKey
	}
	out.ForeignKeys = mergeForeignKeys(out.ForeignKeys, b.ForeignKeys)
	if len(out.RowTitles) == 0 {
		out.RowTitles = b.RowTitles
	}
	out.Inherited = mergeInherited(out.Inherited, b.Inherited)
	out.Common = mergeCommon(out.Common, b.Common)
	return out, nil
}

func mergeColumn(a, b *Column) *Column {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := a
	if out.Name == "" {
		out.Name = b.Name
	}
	out.Titles = mergeNaturalLanguage(out.Titles, b.Titles)
	out.Virtual = out.Virtual || b.Virtual
	out.SuppressOutput = out.SuppressOutput || b.SuppressOutput
	out.Required = out.Required || b.Required
	out.Inherited = mergeInherited(out.Inherited, b.Inherited)
	out.Common = mergeCommon(out.Common, b.Common)
	return out
}

// mergeForeignKeys unions the two lists, treating structurally equal
// entries (§ForeignKey.Equal) as the same declaration rather than
// duplicating it.
func mergeForeignKeys(a, b []*ForeignKey) []*ForeignKey {
	out := make([]*ForeignKey, len(a))
	copy(out, a)
	for _, fk := range b {
		dup := false
		for _, existing := range out {
			if existing.Equal(fk) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, fk)
		}
	}
	return out
}

func mergeTransformations(a, b []*Transformation) []*Transformation {
	out := make([]*Transformation, len(a))
	copy(out, a)
	seen := make(map[string]bool, len(out))
	for _, tr := range out {
		if tr.URL != "" {
			seen[tr.URL] = true
		}
	}
	for _, tr := range b {
		if tr.URL != "" && seen[tr.URL] {
			continue
		}
		out = append(out, tr)
	}
	return out
}

func mergeNotes(a, b []CommentEntry) []CommentEntry {
	if len(a) == 0 {
		return b
	}
	return a
}

// mergeDialect left-merges field by field; a's explicit value wins,
// b's fills any field a left nil.
func mergeDialect(a, b *Dialect) *Dialect {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if out.Delimiter == nil {
		out.Delimiter = b.Delimiter
	}
	if out.QuoteChar == nil {
		out.QuoteChar = b.QuoteChar
	}
	if out.DoubleQuote == nil {
		out.DoubleQuote = b.DoubleQuote
	}
	if out.LineTerminators == nil {
		out.LineTerminators = b.LineTerminators
	}
	if out.Encoding == nil {
		out.Encoding = b.Encoding
	}
	if out.Header == nil {
		out.Header = b.Header
	}
	if out.HeaderRowCount == nil {
		out.HeaderRowCount = b.HeaderRowCount
	}
	if out.SkipRows == nil {
		out.SkipRows = b.SkipRows
	}
	if out.SkipColumns == nil {
		out.SkipColumns = b.SkipColumns
	}
	if out.SkipBlankRows == nil {
		out.SkipBlankRows = b.SkipBlankRows
	}
	if out.SkipInitialSpace == nil {
		out.SkipInitialSpace = b.SkipInitialSpace
	}
	if out.Trim == nil {
		out.Trim = b.Trim
	}
	if out.CommentPrefix == nil {
		out.CommentPrefix = b.CommentPrefix
	}
	out.Common = mergeCommon(out.Common, b.Common)
	return &out
}

// mergeDatatype left-merges facet by facet.
func mergeDatatype(a, b *Datatype) *Datatype {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	out := *a
	if out.Base == "" {
		out.Base = b.Base
	}
	if out.Length == nil {
		out.Length = b.Length
	}
	if out.MinLength == nil {
		out.MinLength = b.MinLength
	}
	if out.MaxLength == nil {
		out.MaxLength = b.MaxLength
	}
	if out.Minimum == nil {
		out.Minimum = b.Minimum
	}
	if out.Maximum == nil {
		out.Maximum = b.Maximum
	}
	if out.MinInclusive == nil {
		out.MinInclusive = b.MinInclusive
	}
	if out.MaxInclusive == nil {
		out.MaxInclusive = b.MaxInclusive
	}
	if out.MinExclusive == nil {
		out.MinExclusive = b.MinExclusive
	}
	if out.MaxExclusive == nil {
		out.MaxExclusive = b.MaxExclusive
	}
	if out.Format == nil {
		out.Format = b.Format
	}
	if out.NumberFormat == nil {
		out.NumberFormat = b.NumberFormat
	}
	out.Common = mergeCommon(out.Common, b.Common)
	return &out
}

// mergeInherited left-merges the four-kind-shared inherited properties
// field by field (§4.5); it does not walk ancestors, that is Resolve's
// job at Freeze time.
func mergeInherited(a, b InheritedProps) InheritedProps {
	out := a
	if out.AboutURL == nil {
		out.AboutURL = b.AboutURL
	}
	if out.PropertyURL == nil {
		out.PropertyURL = b.PropertyURL
	}
	if out.ValueURL == nil {
		out.ValueURL = b.ValueURL
	}
	out.Datatype = mergeDatatype(out.Datatype, b.Datatype)
	if out.Default == nil {
		out.Default = b.Default
	}
	if out.Lang == nil {
		out.Lang = b.Lang
	}
	if !out.NullSet {
		out.Null = b.Null
		out.NullSet = b.NullSet
	}
	if out.Ordered == nil {
		out.Ordered = b.Ordered
	}
	if out.Required == nil {
		out.Required = b.Required
	}
	if !out.SeparatorSet {
		out.Separator = b.Separator
		out.SeparatorSet = b.SeparatorSet
	}
	if out.TextDirection == nil {
		out.TextDirection = b.TextDirection
	}
	if out.Format == nil {
		out.Format = b.Format
	}
	return out
}

// mergeCommon left-merges two open-property bags key by key; a's value
// wins on a key collision.
func mergeCommon(a, b CommonProperties) CommonProperties {
	if len(b) == 0 {
		return a
	}
	out := make(CommonProperties, len(a)+len(b))
	for k, v := range b {
		out[k] = v
	}
	for k, v := range a {
		out[k] = v
	}
	return out
}

// mergeNaturalLanguage unions per-language value lists; a's values for
// a language come first, followed by any of b's values for that same
// language that a didn't already list, and languages only b defines
// are carried over whole.
func mergeNaturalLanguage(a, b NaturalLanguage) NaturalLanguage {
	if len(a) == 0 {
		return b
	}
	if len(b) == 0 {
		return a
	}
	out := make(NaturalLanguage, len(a))
	for lang, vals := range a {
		out[lang] = append([]string(nil), vals...)
	}
	for lang, vals := range b {
		existing := out[lang]
		have := make(map[string]bool, len(existing))
		for _, v := range existing {
			have[v] = true
		}
		for _, v := range vals {
			if !have[v] {
				existing = append(existing, v)
				have[v] = true
			}
		}
		out[lang] = existing
	}
	return out
}
