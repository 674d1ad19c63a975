// Package jsonldctx ships the fixed slice of the CSVW JSON-LD context
// this system needs: expanding a common (prefixed or bare) property
// name into an absolute IRI, and the vocabulary terms CSV2RDF emits
// (§6.7). Full JSON-LD processing — remote context fetching, framing,
// compaction of arbitrary documents — is a Non-goal; this is only the
// lookup table the emitter needs for predicate IRIs.
package jsonldctx

import "strings"

// Prefixes is the fixed set of namespace prefixes CSVW metadata
// documents and the emitted RDF vocabulary use.
var Prefixes = map[string]string{
	"csvw": "http://www.w3.org/ns/csvw#",
	"dc":   "http://purl.org/dc/terms/",
	"dcat": "http://www.w3.org/ns/dcat#",
	"prov": "http://www.w3.org/ns/prov#",
	"xsd":  "http://www.w3.org/2001/XMLSchema#",
	"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
}

// Terms are the bare CSVW vocabulary terms from §6.7, compactable
// without a prefix when the active context is the CSVW default one.
var Terms = map[string]string{
	"Table":                  Prefixes["csvw"] + "Table",
	"TableGroup":             Prefixes["csvw"] + "TableGroup",
	"Row":                    Prefixes["csvw"] + "Row",
	"Column":                 Prefixes["csvw"] + "Column",
	"table":                  Prefixes["csvw"] + "table",
	"row":                    Prefixes["csvw"] + "row",
	"rownum":                 Prefixes["csvw"] + "rownum",
	"url":                    Prefixes["csvw"] + "url",
	"describes":              Prefixes["csvw"] + "describes",
	"notes":                  Prefixes["csvw"] + "notes",
	"primaryKey":             Prefixes["csvw"] + "primaryKey",
	"csvEncodedTabularData":  Prefixes["csvw"] + "csvEncodedTabularData",
	"tabularMetadata":        Prefixes["csvw"] + "tabularMetadata",
	"JSON":                   Prefixes["csvw"] + "JSON",
}

// DefaultLanguage is the engine-wide default for the "lang" inherited
// property (§3): BCP47 "und", undetermined.
const DefaultLanguage = "und"

// Expand resolves a term to an absolute IRI. It accepts:
//   - a bare CSVW vocabulary term ("Table", "rownum", ...)
//   - a "prefix:local" CURIE using a prefix from Prefixes
//   - an already-absolute IRI (returned unchanged)
//
// ok is false when a "prefix:local" CURIE uses an unknown prefix, or
// when a bare term is not a known CSVW vocabulary term.
func Expand(term string) (iri string, ok bool) {
	if iri, ok := Terms[term]; ok {
		return iri, true
	}
	if strings.Contains(term, "://") {
		return term, true
	}
	if idx := strings.IndexByte(term, ':'); idx > 0 {
		prefix, local := term[:idx], term[idx+1:]
		if ns, ok := Prefixes[prefix]; ok {
			return ns + local, true
		}
		return "", false
	}
	// No prefix and not a known term: CSVW falls back to the table's
	// URL-relative default predicate, which the emitter builds itself.
	return "", false
}

var reverseTerms map[string]string

// Compact is Expand's inverse: an absolute IRI that matches a bare
// CSVW vocabulary term compacts back to that term, for the JSON
// emitter's predicate keys (§4.7's canonical JSON shape prefers bare
// property names over full IRIs wherever the CSVW context already
// names them).
func Compact(iri string) (term string, ok bool) {
	if reverseTerms == nil {
		reverseTerms = make(map[string]string, len(Terms))
		for term, full := range Terms {
			reverseTerms[full] = term
		}
	}
	term, ok = reverseTerms[iri]
	return term, ok
}
