package metadata

// Table describes one CSV resource (§3). url is required once the
// tree is validated, but is allowed to be empty transiently while
// embedded metadata is being synthesized before the CSV's actual
// location is known.
type Table struct {
	ID             string // @id
	URL            string
	TableSchema    *Schema
	Dialect        *Dialect
	Transformations []*Transformation
	Notes          []CommentEntry
	SuppressOutput bool

	Inherited InheritedProps
	Common    CommonProperties

	parent *TableGroup
}

func (t *Table) Kind() NodeKind { return KindTable }

// CommentEntry is one `commentPrefix`-delimited line captured by the
// dialect engine, attached as a "notes" common-property style entry on
// the enclosing Table (§4.2).
type CommentEntry struct {
	Text string
}

// SetParent records the owning TableGroup, used only for inherited
// property lookup before Freeze caches the resolved view.
func (t *Table) SetParent(g *TableGroup) { t.parent = g }

// Parent returns the owning TableGroup, or nil for a standalone Table.
func (t *Table) Parent() *TableGroup { return t.parent }

// Clone returns a deep copy of t, or nil if t is nil. The parent
// back-reference is not copied; callers must re-attach via SetParent.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	cp := *t
	cp.TableSchema = t.TableSchema.Clone()
	cp.Dialect = t.Dialect.Clone()
	cp.Transformations = make([]*Transformation, len(t.Transformations))
	for i, tr := range t.Transformations {
		cp.Transformations[i] = tr.Clone()
	}
	cp.Notes = append([]CommentEntry(nil), t.Notes...)
	cp.Inherited = t.Inherited.Clone()
	cp.Common = t.Common.Clone()
	cp.parent = nil
	return &cp
}

// EffectiveDialect resolves t's Dialect against its parent TableGroup's
// default Dialect, if any (Dialect is not one of the four "inherited
// property" kinds, but Table/TableGroup dialects nest the same way).
func (t *Table) EffectiveDialect() EffectiveDialect {
	if t.Dialect != nil {
		return t.Dialect.Resolve()
	}
	if t.parent != nil && t.parent.Dialect != nil {
		return t.parent.Dialect.Resolve()
	}
	return (*Dialect)(nil).Resolve()
}
