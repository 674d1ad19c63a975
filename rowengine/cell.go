package rowengine

import "github.com/csvw-go/rdf-tabular/metadata"

// Cell is one column's contribution to an annotated Row (§4.6). It
// carries every stage of the value-flow pipeline so callers (the
// emitter, or a lenient-mode caller deciding what to do with an
// invalid cell) can inspect raw, null-applied, and parsed forms
// without re-running the pipeline.
type Cell struct {
	Column *metadata.Column

	// Raw is this cell's unprocessed field string.
	Raw string

	// Null reports whether Raw, or any of its separator-split
	// sub-values, matched one of the column's effective null values
	// (§4.6 step 2). Without a default, a match on Raw as a whole ends
	// the pipeline: no separator split or datatype parse is attempted.
	// With a default, each null match is replaced by the default, which
	// is then parsed like any other sub-value.
	Null bool

	// Values holds the canonicalized lexical form of every sub-value
	// that survived null-filtering, default substitution, datatype
	// parsing, and facet validation (§4.6 steps 3-5). Empty when every
	// sub-value matched null and the column has no default.
	Values []string

	// Valid is false if any sub-value failed datatype parsing, failed
	// a facet check, or (when Column.Required/effective Required) the
	// Cell ended up with no values at all. Err holds the first such
	// failure.
	Valid bool
	Err   error

	// AboutURL, PropertyURL, and ValueURL are this cell's three URI
	// templates (§4.6 step 6), already expanded against the owning
	// Row's built-in variables and the row's column values. An empty
	// AboutURL means "use the Row's own subject" and an empty
	// PropertyURL means the §4.7 default predicate
	// "{table.url}#{column.name}"; an empty ValueURL means the cell
	// emits a typed literal built from Values rather than an IRI.
	AboutURL    string
	PropertyURL string
	ValueURL    string
}

// IsEmpty reports whether the cell carries no values at all, either
// because it matched null or because every split sub-value did.
func (c *Cell) IsEmpty() bool { return len(c.Values) == 0 }

// Joined returns the cell's values joined as they would appear as a
// URI template variable's string form: comma-separated, matching how
// a multi-valued (separator-bearing) column collapses to one variable
// binding (§4.6).
func (c *Cell) Joined() string {
	switch len(c.Values) {
	case 0:
		return ""
	case 1:
		return c.Values[0]
	default:
		out := c.Values[0]
		for _, v := range c.Values[1:] {
			out += "," + v
		}
		return out
	}
}
