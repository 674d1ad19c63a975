// Package rowengine implements §4.6's row engine: turning each
// dialect-tokenized data row into an annotated Row of Cells, applying
// the null/default/separator/datatype/facet pipeline and the three
// per-cell URI template expansions.
package rowengine

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	"github.com/csvw-go/rdf-tabular/csvwerr"
	"github.com/csvw-go/rdf-tabular/datatype"
	"github.com/csvw-go/rdf-tabular/dialect"
	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/uritemplate"
)

// Reader is the minimal surface rowengine needs from a tokenized CSV
// source: satisfied by *dialect.Reader.
type Reader interface {
	ReadRow() ([]string, error)
}

// Engine drives one Table's rows through the §4.6 pipeline. Columns
// must already be frozen (metadata.TableGroup.Freeze or
// metadata.FreezeStandalone) before NewEngine is called.
type Engine struct {
	table  *metadata.Table
	reader Reader

	rowNum    int
	iteration int
}

// NewEngine returns an Engine over table's schema, reading tokenized
// rows from reader (typically a *dialect.Reader already positioned
// past the header rows it consumed).
func NewEngine(table *metadata.Table, reader Reader) *Engine {
	return &Engine{table: table, reader: reader}
}

// Next produces the next annotated Row, or io.EOF when the source is
// exhausted. The returned error, when non-nil and not io.EOF, is a
// *multierror.Error accumulating every cell-level validation failure
// in the row (required-column violations, datatype/facet mismatches);
// callers choose via csvwerr.Mode whether such a Row is fatal or only
// a warning (csvwerr.Downgradable covers the cell-level kinds this
// package raises: csvwerr.ParseError).
func (e *Engine) Next() (*Row, error) {
	fields, err := e.reader.ReadRow()
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, err
	}

	schema := e.table.TableSchema
	if schema == nil {
		return nil, &csvwerr.MetadataError{Msg: fmt.Sprintf("table %q has no schema", e.table.URL)}
	}
	if len(fields) != len(schema.Columns) {
		return nil, &csvwerr.SchemaMismatchError{Table: e.table.URL, Expected: len(schema.Columns), Got: len(fields)}
	}

	e.rowNum++
	e.iteration++
	sourceRow := e.rowNum
	if tok, ok := e.reader.(*dialect.Reader); ok {
		sourceRow = tok.SourceLine
	}

	row := &Row{
		RowNum:    e.rowNum,
		SourceRow: sourceRow,
		Number:    e.iteration,
		Subject:   "row-" + uuid.NewString(),
		TableURL:  e.table.URL,
	}

	var errs *multierror.Error
	cells := make([]*Cell, len(schema.Columns))
	for i, col := range schema.Columns {
		cell := e.buildCell(col, fields[i])
		cells[i] = cell
		if !cell.Valid {
			errs = multierror.Append(errs, cell.Err)
		}
	}

	valueByName := make(map[string]string, len(schema.Columns))
	for i, col := range schema.Columns {
		valueByName[col.Name] = cells[i].Joined()
	}
	for i, col := range schema.Columns {
		e.expandTemplates(cells[i], col, row, valueByName)
	}

	row.Cells = cells
	return row, errs.ErrorOrNil()
}

// buildCell runs the §4.6 step 2-5 value-flow pipeline for one column
// against its raw string.
func (e *Engine) buildCell(col *metadata.Column, raw string) *Cell {
	eff := col.Effective()
	cell := &Cell{Column: col, Raw: raw}

	if isNull(raw, eff.Null) && eff.Default == "" {
		cell.Null = true
		cell.Valid = !eff.Required
		if eff.Required {
			cell.Err = &csvwerr.ParseError{Column: col.Name, Value: raw, Msg: "required column matched a null value"}
		}
		return cell
	}
	if isNull(raw, eff.Null) {
		cell.Null = true
	}

	var subRaws []string
	if eff.HasSeparator && eff.Separator != "" {
		subRaws = strings.Split(raw, eff.Separator)
	} else {
		subRaws = []string{raw}
	}

	var values []string
	for _, sub := range subRaws {
		if isNull(sub, eff.Null) {
			cell.Null = true
			if eff.Default == "" {
				continue
			}
			sub = eff.Default
		} else if sub == "" && eff.Default != "" {
			sub = eff.Default
		}
		lexical, err := datatype.Parse(eff.Datatype, sub)
		if err != nil {
			cell.Err = &csvwerr.ParseError{Column: col.Name, Value: sub, Msg: err.Error()}
			continue
		}
		if err := datatype.ValidateFacets(eff.Datatype, sub, lexical); err != nil {
			cell.Err = &csvwerr.ParseError{Column: col.Name, Value: sub, Msg: err.Error()}
			continue
		}
		values = append(values, lexical)
	}
	cell.Values = values

	switch {
	case cell.Err != nil:
		cell.Valid = false
	case len(values) == 0 && eff.Required:
		cell.Valid = false
		cell.Err = &csvwerr.ParseError{Column: col.Name, Value: raw, Msg: "required column has no value"}
	default:
		cell.Valid = true
	}
	return cell
}

// isNull reports whether raw equals one of the effective null values.
func isNull(raw string, nulls []string) bool {
	for _, n := range nulls {
		if raw == n {
			return true
		}
	}
	return false
}

// expandTemplates fills in cell's three URI templates (§4.6 step 6),
// binding every column's name to its joined cell value (nil when that
// column's cell is empty, removing the variable's expansion per §4.6)
// plus the built-ins _row, _sourceRow, _column, _sourceColumn, _name.
func (e *Engine) expandTemplates(cell *Cell, col *metadata.Column, row *Row, rawByName map[string]string) {
	eff := col.Effective()
	vars := e.templateVars(row, col, rawByName)

	if eff.AboutURL != nil {
		cell.AboutURL = eff.AboutURL.Expand(vars)
	}
	if eff.PropertyURL != nil {
		cell.PropertyURL = eff.PropertyURL.Expand(vars)
	} else if e.table.URL != "" {
		cell.PropertyURL = fmt.Sprintf("%s#%s", e.table.URL, col.Name)
	}
	if eff.ValueURL != nil {
		cell.ValueURL = eff.ValueURL.Expand(vars)
	}
}

// templateVars builds the variable bindings shared by a Row's three
// per-cell URI templates: every schema column's name, bound to that
// column's joined cell values (rawByName holds Cell.Joined per column;
// a column with no values is left unbound), plus the §4.6 built-ins.
func (e *Engine) templateVars(row *Row, col *metadata.Column, rawByName map[string]string) uritemplate.Values {
	vars := uritemplate.Values{}
	for name, raw := range rawByName {
		if raw == "" {
			continue
		}
		vars[name] = uritemplate.Str(raw)
	}
	vars["_row"] = uritemplate.Str(fmt.Sprintf("%d", row.RowNum))
	vars["_sourceRow"] = uritemplate.Str(fmt.Sprintf("%d", row.SourceRow))
	vars["_column"] = uritemplate.Str(fmt.Sprintf("%d", col.Position))
	vars["_sourceColumn"] = uritemplate.Str(fmt.Sprintf("%d", col.Position))
	vars["_name"] = uritemplate.Str(col.Name)
	return vars
}
