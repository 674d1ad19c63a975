package metadata

// ForeignKey declares that one or more columns of the owning Schema
// reference another table's (or schema's) columns (§3).
type ForeignKey struct {
	ColumnReference []string // column names within this schema

	ReferenceResource       string   // another table's "url", or ""
	ReferenceSchemaURL      string   // another schema's "@id"/url, or ""
	ReferenceColumns        []string

	Common CommonProperties
}

func (f *ForeignKey) Kind() NodeKind { return KindForeignKey }

// Equal reports structural equality, used by the merger to align
// foreign keys across two trees by structural equality (§4.5).
func (f *ForeignKey) Equal(o *ForeignKey) bool {
	if f == nil || o == nil {
		return f == o
	}
	return stringSliceEqual(f.ColumnReference, o.ColumnReference) &&
		f.ReferenceResource == o.ReferenceResource &&
		f.ReferenceSchemaURL == o.ReferenceSchemaURL &&
		stringSliceEqual(f.ReferenceColumns, o.ReferenceColumns)
}

func stringSliceEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of f, or nil if f is nil.
func (f *ForeignKey) Clone() *ForeignKey {
	if f == nil {
		return nil
	}
	cp := *f
	cp.ColumnReference = append([]string(nil), f.ColumnReference...)
	cp.ReferenceColumns = append([]string(nil), f.ReferenceColumns...)
	cp.Common = f.Common.Clone()
	return &cp
}
