package metadata

// Schema is an ordered set of column declarations plus keys (§3).
type Schema struct {
	ID          string // @id, used to align schemas by identity during merge/reference
	Columns     []*Column
	PrimaryKey  []string // column name(s)
	ForeignKeys []*ForeignKey
	RowTitles   []string // column name(s) used to build csvw:describes row titles

	Inherited InheritedProps
	Common    CommonProperties
}

func (s *Schema) Kind() NodeKind { return KindSchema }

// ColumnByName returns the column named name, or nil.
func (s *Schema) ColumnByName(name string) *Column {
	for _, c := range s.Columns {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Clone returns a deep copy of s, or nil if s is nil.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Columns = make([]*Column, len(s.Columns))
	for i, c := range s.Columns {
		cp.Columns[i] = c.Clone()
	}
	cp.PrimaryKey = append([]string(nil), s.PrimaryKey...)
	cp.ForeignKeys = make([]*ForeignKey, len(s.ForeignKeys))
	for i, fk := range s.ForeignKeys {
		cp.ForeignKeys[i] = fk.Clone()
	}
	cp.RowTitles = append([]string(nil), s.RowTitles...)
	cp.Inherited = s.Inherited.Clone()
	cp.Common = s.Common.Clone()
	return &cp
}
