package csvw

import (
	"context"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/csvw-go/rdf-tabular/csvwerr"
	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/rowengine"
)

// CheckForeignKeys enforces §3's foreign key value constraint: every
// ForeignKey.ColumnReference value in a row must match some row's
// ReferenceColumns value in the table named by ReferenceResource.
// metadata.Validate already rejects a ForeignKey whose columnReference
// names an unknown column (it does not check referenceColumns); this
// only checks that
// the *values* a row actually carries line up, which requires reading
// every table's data once. Call after Validate. A foreign key whose
// ReferenceSchemaURL (rather than ReferenceResource) names the target,
// or whose target table isn't part of this group, is not checked: §3
// only requires enforcement within a discovered TableGroup.
func (r *Reader) CheckForeignKeys(ctx context.Context) error {
	valuesByTable := map[string]map[string]map[string]bool{}
	for _, table := range r.group.Tables {
		if table.TableSchema == nil || table.URL == "" {
			continue
		}
		values, err := r.tableColumnValues(ctx, table)
		if err != nil {
			return err
		}
		valuesByTable[table.URL] = values
	}

	for _, table := range r.group.Tables {
		if table.TableSchema == nil {
			continue
		}
		for _, fk := range table.TableSchema.ForeignKeys {
			if fk.ReferenceResource == "" {
				continue
			}
			refTable := r.tableByURL(fk.ReferenceResource)
			if refTable == nil {
				continue
			}
			known, err := r.referencedKeySet(ctx, refTable, fk.ReferenceColumns, valuesByTable[fk.ReferenceResource])
			if err != nil {
				return err
			}
			if err := r.checkForeignKey(ctx, table, fk, known); err != nil {
				if r.opts.Mode == csvwerr.Lenient && csvwerr.AllDowngradable(err) {
					r.warnings = multierror.Append(r.warnings, err)
				} else {
					return err
				}
			}
		}
	}
	return nil
}

func (r *Reader) tableByURL(url string) *metadata.Table {
	for _, t := range r.group.Tables {
		if t.URL == url {
			return t
		}
	}
	return nil
}

// referencedKeySet returns the set of comma-joined tuples refTable's
// rows take across columns. For a single column this is just
// perColumn[columns[0]]; a composite key requires rebuilding the exact
// tuples (perColumn only records each column's values independently,
// which can't distinguish "rows (a,1) and (b,2)" from "rows (a,2) and
// (b,1)"), so it re-streams refTable once more in that case.
func (r *Reader) referencedKeySet(ctx context.Context, refTable *metadata.Table, columns []string, perColumn map[string]map[string]bool) (map[string]bool, error) {
	if len(columns) <= 1 {
		name := ""
		if len(columns) == 1 {
			name = columns[0]
		}
		return perColumn[name], nil
	}

	reader, err := r.rowSource(ctx, refTable)
	if err != nil {
		return nil, err
	}
	engine := rowengine.NewEngine(refTable, reader)
	set := map[string]bool{}
	for {
		row, err := engine.Next()
		if err == io.EOF {
			break
		}
		if err != nil && !csvwerr.AllDowngradable(err) {
			return nil, err
		}
		if row == nil {
			continue
		}
		byName := map[string]*rowengine.Cell{}
		for _, c := range row.Cells {
			if c.Column != nil {
				byName[c.Column.Name] = c
			}
		}
		if key, ok := foreignKeyValue(byName, columns); ok {
			set[key] = true
		}
	}
	return set, nil
}

// tableColumnValues streams table's rows once and returns, per column
// name, the set of joined cell values that column ever took.
func (r *Reader) tableColumnValues(ctx context.Context, table *metadata.Table) (map[string]map[string]bool, error) {
	out := map[string]map[string]bool{}
	reader, err := r.rowSource(ctx, table)
	if err != nil {
		return nil, err
	}
	engine := rowengine.NewEngine(table, reader)
	for {
		row, err := engine.Next()
		if err == io.EOF {
			break
		}
		if err != nil && !csvwerr.AllDowngradable(err) {
			return nil, err
		}
		if row == nil {
			continue
		}
		for _, c := range row.Cells {
			if c.Column == nil {
				continue
			}
			set := out[c.Column.Name]
			if set == nil {
				set = map[string]bool{}
				out[c.Column.Name] = set
			}
			set[c.Joined()] = true
		}
	}
	return out, nil
}

// checkForeignKey re-streams table's rows and verifies every fk's
// ColumnReference values are present among known's corresponding
// ReferenceColumns values, combining a multi-column key the same way
// uritemplate combines multi-valued cells: comma-joined in column
// order.
func (r *Reader) checkForeignKey(ctx context.Context, table *metadata.Table, fk *metadata.ForeignKey, known map[string]bool) error {
	reader, err := r.rowSource(ctx, table)
	if err != nil {
		return err
	}
	engine := rowengine.NewEngine(table, reader)

	var errs *multierror.Error
	for {
		row, err := engine.Next()
		if err == io.EOF {
			break
		}
		if err != nil && !csvwerr.AllDowngradable(err) {
			return err
		}
		if row == nil {
			continue
		}

		byName := map[string]*rowengine.Cell{}
		for _, c := range row.Cells {
			if c.Column != nil {
				byName[c.Column.Name] = c
			}
		}

		key, ok := foreignKeyValue(byName, fk.ColumnReference)
		if !ok {
			continue
		}
		if !known[key] {
			errs = multierror.Append(errs, &csvwerr.ForeignKeyError{
				Table:      table.URL,
				Constraint: strings.Join(fk.ColumnReference, ","),
				Values:     strings.Split(key, ","),
			})
		}
	}
	return errs.ErrorOrNil()
}

// foreignKeyValue builds the comma-joined key a row contributes for
// columns, reporting ok=false if any named column was empty (a
// foreign key with no value in a row has nothing to check, per §3's
// treatment of optional references).
func foreignKeyValue(byName map[string]*rowengine.Cell, columns []string) (string, bool) {
	parts := make([]string, len(columns))
	for i, name := range columns {
		c, ok := byName[name]
		if !ok || c.IsEmpty() {
			return "", false
		}
		parts[i] = c.Joined()
	}
	return strings.Join(parts, ","), true
}
