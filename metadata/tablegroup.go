package metadata

// TableGroup is the root of a CSVW metadata tree: it owns one or more
// Tables plus group-wide defaults (§3).
type TableGroup struct {
	ID              string
	Tables          []*Table
	Dialect         *Dialect
	TableSchema     *Schema
	Transformations []*Transformation
	TableDirection  string // "rtl" | "ltr" | "auto"
	Notes           []CommentEntry

	Inherited InheritedProps
	Common    CommonProperties
}

func (g *TableGroup) Kind() NodeKind { return KindTableGroup }

// TableByURL returns the Table whose url equals url, or nil.
func (g *TableGroup) TableByURL(url string) *Table {
	for _, t := range g.Tables {
		if t.URL == url {
			return t
		}
	}
	return nil
}

// Clone returns a deep copy of g.
func (g *TableGroup) Clone() *TableGroup {
	if g == nil {
		return nil
	}
	cp := *g
	cp.Tables = make([]*Table, len(g.Tables))
	for i, t := range g.Tables {
		ct := t.Clone()
		ct.SetParent(&cp)
		cp.Tables[i] = ct
	}
	cp.Dialect = g.Dialect.Clone()
	cp.TableSchema = g.TableSchema.Clone()
	cp.Transformations = make([]*Transformation, len(g.Transformations))
	for i, tr := range g.Transformations {
		cp.Transformations[i] = tr.Clone()
	}
	cp.Notes = append([]CommentEntry(nil), g.Notes...)
	cp.Inherited = g.Inherited.Clone()
	cp.Common = g.Common.Clone()
	return &cp
}

// AttachParents sets every Table's parent back-reference to g. Called
// after construction/merge, before Freeze.
func (g *TableGroup) AttachParents() {
	for _, t := range g.Tables {
		t.SetParent(g)
	}
}
