package emit

import (
	"github.com/csvw-go/rdf-tabular/jsonldctx"
	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/rowengine"
)

// Document is the canonical "tabular data as JSON" shape (§4.7):
// { "tables": [ { "url": ..., "row": [ { "url": ..., "rownum": N,
// "describes": [ {...} ] } ] } ] }.
type Document struct {
	Tables []TableDoc `json:"tables"`
}

// TableDoc is one Table's contribution to a Document.
type TableDoc struct {
	URL string   `json:"url,omitempty"`
	Row []RowDoc `json:"row"`
}

// RowDoc is one Row's contribution to a TableDoc.
type RowDoc struct {
	URL       string                   `json:"url,omitempty"`
	Rownum    int                      `json:"rownum"`
	Describes []map[string]interface{} `json:"describes"`
}

// NewTableDoc starts a TableDoc for table; call AppendRow for each of
// its rows in order.
func NewTableDoc(table *metadata.Table) *TableDoc {
	return &TableDoc{URL: table.URL}
}

// AppendRow converts row into a RowDoc and appends it to doc.
func (doc *TableDoc) AppendRow(row *rowengine.Row) {
	doc.Row = append(doc.Row, rowToDoc(row))
}

func rowToDoc(row *rowengine.Row) RowDoc {
	rd := RowDoc{URL: row.URL(), Rownum: row.RowNum}

	groups := make(map[string]map[string]interface{})
	var order []string
	for _, about := range row.Describes() {
		groups[about] = map[string]interface{}{}
		order = append(order, about)
	}
	if len(order) == 0 {
		groups[row.Subject] = map[string]interface{}{}
		order = append(order, row.Subject)
	}

	for _, cell := range row.Cells {
		if cell.IsEmpty() && cell.ValueURL == "" {
			continue
		}
		about := cell.AboutURL
		if about == "" {
			about = row.Subject
		}
		group, ok := groups[about]
		if !ok {
			group = map[string]interface{}{}
			groups[about] = group
			order = append(order, about)
		}
		group[predicateKey(cell)] = cellValue(cell)
	}

	for _, about := range order {
		entry := groups[about]
		if about != row.Subject {
			entry["@id"] = about
		}
		rd.Describes = append(rd.Describes, entry)
	}
	return rd
}

// predicateKey compacts a Cell's propertyUrl to a bare CSVW term when
// the context defines one, else uses the full IRI as the JSON key.
func predicateKey(cell *rowengine.Cell) string {
	if term, ok := jsonldctx.Compact(cell.PropertyURL); ok {
		return term
	}
	return cell.PropertyURL
}

// cellValue renders a Cell's RDF object(s) as canonical JSON: a bare
// @id object for valueUrl cells, a single scalar/language-tagged value
// for a single-valued cell, or an array for a separator-split cell.
func cellValue(cell *rowengine.Cell) interface{} {
	if cell.ValueURL != "" {
		return map[string]interface{}{"@id": cell.ValueURL}
	}

	eff := cell.Column.Effective()
	lang := ""
	if metadata.CanonicalBase(eff.Datatype.Base) == "string" && eff.Lang != "" && eff.Lang != "und" {
		lang = eff.Lang
	}

	values := make([]interface{}, len(cell.Values))
	for i, v := range cell.Values {
		if lang != "" {
			values[i] = map[string]interface{}{"@value": v, "@language": lang}
		} else {
			values[i] = v
		}
	}
	if len(values) == 1 {
		return values[0]
	}
	return values
}
