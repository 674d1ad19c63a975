// Package metadata implements the CSVW metadata object model: a closed
// tagged union of node kinds (TableGroup, Table, Schema, Column,
// Dialect, Datatype, ForeignKey, Transformation), inherited-property
// resolution, structural validation, and the deep left-merge operation
// used to combine metadata from multiple discovery sources (§3-4.1,
// §4.5, §9).
//
// The source this system is modeled after represents every node as an
// open hash with an intuited "type" key and dynamic attribute access.
// Here each kind is its own Go struct with explicit typed fields plus
// a CommonProperties bag for open (prefixed/IRI-keyed) properties, and
// MetadataNode is a closed interface implemented by exactly those
// eight structs — see §9 design notes.
package metadata

// NodeKind tags a MetadataNode with its concrete type, standing in for
// the dynamically-typed "type" symbol the original representation used.
type NodeKind int

const (
	KindTableGroup NodeKind = iota
	KindTable
	KindSchema
	KindColumn
	KindDialect
	KindDatatype
	KindForeignKey
	KindTransformation
)

func (k NodeKind) String() string {
	switch k {
	case KindTableGroup:
		return "TableGroup"
	case KindTable:
		return "Table"
	case KindSchema:
		return "Schema"
	case KindColumn:
		return "Column"
	case KindDialect:
		return "Dialect"
	case KindDatatype:
		return "Datatype"
	case KindForeignKey:
		return "ForeignKey"
	case KindTransformation:
		return "Transformation"
	default:
		return "Unknown"
	}
}

// MetadataNode is implemented by every node kind in the tree. It is
// intentionally minimal: callers type-switch on the concrete type (or
// branch on Kind()) rather than calling dynamically-dispatched
// accessors, mirroring the "explicit accessors generated per kind"
// design note.
type MetadataNode interface {
	Kind() NodeKind
}

// CommonProperties is the open-property bag every node kind carries
// for arbitrary prefixed- or IRI-keyed metadata CSVW permits alongside
// its typed fields (§9). The parser stores a key expanded to an
// absolute IRI when jsonldctx.Expand recognizes it (a known CURIE
// prefix, a CSVW term, or an absolute IRI); any other key is stored as
// it appeared in the source document.
type CommonProperties map[string]any

// Clone returns a shallow copy of the property bag, or nil if c is nil.
func (c CommonProperties) Clone() CommonProperties {
	if c == nil {
		return nil
	}
	out := make(CommonProperties, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// NaturalLanguage represents a CSVW "natural language" property value
// (titles, notes): a map from BCP47 language tag (or "und") to a list
// of string values in that language, per the merge rule in §4.5.
type NaturalLanguage map[string][]string

// NewNaturalLanguageString promotes a bare string to {"und": [s]}.
func NewNaturalLanguageString(s string) NaturalLanguage {
	return NaturalLanguage{"und": {s}}
}

// NewNaturalLanguageList promotes a bare string list to {"und": list}.
func NewNaturalLanguageList(list []string) NaturalLanguage {
	out := make([]string, len(list))
	copy(out, list)
	return NaturalLanguage{"und": out}
}

// Clone returns a deep-enough copy for merge purposes.
func (n NaturalLanguage) Clone() NaturalLanguage {
	if n == nil {
		return nil
	}
	out := make(NaturalLanguage, len(n))
	for lang, vals := range n {
		cp := make([]string, len(vals))
		copy(cp, vals)
		out[lang] = cp
	}
	return out
}
