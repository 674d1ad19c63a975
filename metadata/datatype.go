package metadata

// Datatype describes a column (or inherited ancestor's) value type: a
// base XSD/CSVW type name plus facets and an optional format pattern
// (§3, §6.3). Parsing and facet enforcement live in package pattern
// and package datatype; this struct is purely the declarative model.
type Datatype struct {
	Base string // one of the built-in shortcut names, §6.3

	Length       *int
	MinLength    *int
	MaxLength    *int
	Minimum      *string // lexical form; interpreted per Base
	Maximum      *string
	MinInclusive *string
	MaxInclusive *string
	MinExclusive *string
	MaxExclusive *string

	// Format is either a plain pattern string (dates, regex-checked
	// strings) or, for numeric bases, a NumberFormat describing the
	// UAX#35 number pattern plus group/decimal characters.
	Format       *string
	NumberFormat *NumberFormat

	Common CommonProperties
}

func (d *Datatype) Kind() NodeKind { return KindDatatype }

// NumberFormat is the object form of Datatype.format for numeric base
// types (§4.1).
type NumberFormat struct {
	Pattern     string
	GroupChar   string
	DecimalChar string
}

// Clone returns a deep copy of d, or nil if d is nil.
func (d *Datatype) Clone() *Datatype {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Length = clonePtr(d.Length)
	cp.MinLength = clonePtr(d.MinLength)
	cp.MaxLength = clonePtr(d.MaxLength)
	cp.Minimum = clonePtr(d.Minimum)
	cp.Maximum = clonePtr(d.Maximum)
	cp.MinInclusive = clonePtr(d.MinInclusive)
	cp.MaxInclusive = clonePtr(d.MaxInclusive)
	cp.MinExclusive = clonePtr(d.MinExclusive)
	cp.MaxExclusive = clonePtr(d.MaxExclusive)
	cp.Format = clonePtr(d.Format)
	if d.NumberFormat != nil {
		nf := *d.NumberFormat
		cp.NumberFormat = &nf
	}
	cp.Common = d.Common.Clone()
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// DefaultDatatype is the engine-wide default applied when no ancestor
// defines "datatype" (§3): base type "string".
func DefaultDatatype() *Datatype {
	return &Datatype{Base: "string"}
}

// datatypeAliases maps the §6.3 alias shortcuts (number, binary,
// datetime, any) to the base name each stands for. xml, html and json
// are base names in their own right and have no entry here.
var datatypeAliases = map[string]string{
	"number":   "double",
	"binary":   "base64Binary",
	"datetime": "dateTime",
	"any":      "anySimpleType",
}

// CanonicalBase resolves a §6.3 shortcut (including aliases) to its
// canonical base name.
func CanonicalBase(name string) string {
	if canon, ok := datatypeAliases[name]; ok {
		return canon
	}
	return name
}

// builtinBaseURI maps canonical base names to their backing vocabulary
// IRI: XSD for XSD-derived types, csvw:/rdf: for the three CSVW-special
// shortcuts.
func builtinBaseURI(base string) string {
	switch base {
	case "xml":
		return "http://www.w3.org/1999/02/22-rdf-syntax-ns#XMLLiteral"
	case "html":
		return "http://www.w3.org/1999/02/22-rdf-syntax-ns#HTML"
	case "json":
		return "http://www.w3.org/ns/csvw#JSON"
	case "anySimpleType":
		return "http://www.w3.org/2001/XMLSchema#anySimpleType"
	default:
		return "http://www.w3.org/2001/XMLSchema#" + base
	}
}

// BaseURI returns the backing vocabulary IRI for the datatype's base,
// resolving shortcuts and aliases first.
func (d *Datatype) BaseURI() string {
	if d == nil {
		return builtinBaseURI(DefaultDatatype().Base)
	}
	return builtinBaseURI(CanonicalBase(d.Base))
}
