package metadata

import "fmt"

// Freeze resolves inherited properties for every Column in g and
// caches the result, after which the tree must not be mutated again
// (§3 lifecycle). It also assigns each Column's 1-based Position
// within its Schema. Freeze is idempotent.
func (g *TableGroup) Freeze() error {
	g.AttachParents()
	for _, t := range g.Tables {
		if err := freezeTable(g, t); err != nil {
			return fmt.Errorf("table %q: %w", t.URL, err)
		}
	}
	return nil
}

func freezeTable(g *TableGroup, t *Table) error {
	schema := t.TableSchema
	if schema == nil {
		schema = g.TableSchema
	}
	if schema == nil {
		return nil
	}
	for i, col := range schema.Columns {
		col.Position = i + 1
		if col.Name == "" {
			col.Name = ImplicitColumnName(col.Position)
		}
		eff, err := Resolve(&col.Inherited, &schema.Inherited, &t.Inherited, &g.Inherited)
		if err != nil {
			return fmt.Errorf("column %q: %w", col.Name, err)
		}
		if col.Required {
			eff.Required = true
		}
		col.effective = &eff
	}
	return nil
}

// FreezeStandalone resolves a Table's columns when it has no owning
// TableGroup (e.g. embedded metadata before discovery merges it into a
// group).
func FreezeStandalone(t *Table) error {
	g := &TableGroup{Tables: []*Table{t}}
	return g.Freeze()
}
