package rowengine

import "fmt"

// Row is one data row's annotated form (§4.6): its position in two
// different counting schemes, a subject resource, and its Cells in
// column order.
type Row struct {
	// RowNum is the 1-based source row number, counted from the first
	// data row over every row the dialect reader actually yields
	// (i.e. after skipRows/header consumption, but including blank
	// rows when skipBlankRows is false).
	RowNum int

	// SourceRow is the source line number in the original file
	// (dialect.Reader.SourceLine), counting header/skipped/comment/blank
	// lines too — §4.6's
	// "_sourceRow" URI template built-in.
	SourceRow int

	// Number is the iteration id, counted strictly after
	// skipBlankRows has removed blank rows from consideration.
	Number int

	// Subject is this row's own blank node label (no "_:" prefix,
	// matching rdf.Term's Blank-kind Value convention), used as the
	// RDF subject typed csvw:Row and as the fallback `about` resource
	// for any Cell that leaves aboutUrl unset.
	Subject string

	TableURL string
	Cells    []*Cell
}

// URL is this row's csvw:url property value, "{table.url}#row=N".
// Empty when the owning Table has no url (e.g. embedded metadata
// before discovery resolves it).
func (r *Row) URL() string {
	if r.TableURL == "" {
		return ""
	}
	return fmt.Sprintf("%s#row=%d", r.TableURL, r.SourceRow)
}

// Describes returns the distinct aboutUrl resources this row's Cells
// point to, in column order, falling back to the Row's own Subject for
// any Cell that left aboutUrl unset (§4.7's csvw:describes list).
func (r *Row) Describes() []string {
	seen := make(map[string]bool, len(r.Cells))
	var out []string
	for _, c := range r.Cells {
		about := c.AboutURL
		if about == "" {
			about = r.Subject
		}
		if !seen[about] {
			seen[about] = true
			out = append(out, about)
		}
	}
	return out
}

// Valid reports whether every Cell in the row validated successfully.
func (r *Row) Valid() bool {
	for _, c := range r.Cells {
		if !c.Valid {
			return false
		}
	}
	return true
}
