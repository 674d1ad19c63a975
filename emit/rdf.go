package emit

import (
	"fmt"

	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/rowengine"
)

const (
	csvwNS = "http://www.w3.org/ns/csvw#"
	rdfNS  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xsdNS  = "http://www.w3.org/2001/XMLSchema#"
)

var rdfType = mustIRI(rdfNS + "type")

func mustIRI(iri string) rdf.Term {
	t, err := rdf.NewIRITerm(iri)
	if err != nil {
		panic(fmt.Sprintf("emit: invalid IRI %q: %v", iri, err))
	}
	return t
}

func mustBlank(label string) rdf.Term {
	t, err := rdf.NewBlankTerm(label)
	if err != nil {
		panic(fmt.Sprintf("emit: invalid blank node label %q: %v", label, err))
	}
	return t
}

// literalTerm builds a literal rdf.Term: a plain/typed literal when
// lang is "" or "und", a language-tagged one otherwise (§4.7: "a typed literal
// (with lang if datatype.base = string)").
func literalTerm(lexical, datatypeIRI, lang string) rdf.Term {
	qual := datatypeIRI
	if lang != "" && lang != "und" {
		qual = lang
	}
	t, err := rdf.NewLiteralTerm(lexical, qual)
	if err != nil {
		panic(fmt.Sprintf("emit: invalid literal %q: %v", lexical, err))
	}
	return t
}

// Emitter walks a frozen metadata tree and rowengine output, issuing
// RDF statements to a Sink (§4.7).
type Emitter struct {
	Sink    Sink
	Minimal bool // suppresses Table/Row/TableGroup skeleton and provenance
}

// NewEmitter returns an Emitter writing to sink.
func NewEmitter(sink Sink, minimal bool) *Emitter {
	return &Emitter{Sink: sink, Minimal: minimal}
}

// subjectTerm resolves a Table's RDF subject: its url as an IRI when
// set, else a fresh blank node.
func subjectTerm(url, blankLabel string) rdf.Term {
	if url != "" {
		return mustIRI(url)
	}
	return mustBlank(blankLabel)
}

// EmitTableGroup emits the TableGroup skeleton (standard mode only):
// its csvw:TableGroup type and one csvw:table link per owned Table
// found in tableSubjects, which maps each Table to the RDF subject
// EmitTable returned for it. The Tables' own triples are not emitted
// here.
func (e *Emitter) EmitTableGroup(group *metadata.TableGroup, blankLabel string, tableSubjects map[*metadata.Table]rdf.Term) error {
	if e.Minimal {
		return nil
	}
	groupSubject := mustBlank(blankLabel)
	if err := e.Sink.Emit(rdf.Statement{Subject: groupSubject, Predicate: rdfType, Object: mustIRI(csvwNS + "TableGroup")}); err != nil {
		return err
	}
	for _, t := range group.Tables {
		subj, ok := tableSubjects[t]
		if !ok {
			continue
		}
		if err := e.Sink.Emit(rdf.Statement{Subject: groupSubject, Predicate: mustIRI(csvwNS + "table"), Object: subj}); err != nil {
			return err
		}
	}
	return nil
}

// EmitTable emits a Table's own skeleton triple (standard mode only)
// and returns its RDF subject, which callers collect into
// EmitTableGroup's tableSubjects map.
func (e *Emitter) EmitTable(table *metadata.Table, blankLabel string) (rdf.Term, error) {
	subj := subjectTerm(table.URL, blankLabel)
	if e.Minimal {
		return subj, nil
	}
	if err := e.Sink.Emit(rdf.Statement{Subject: subj, Predicate: rdfType, Object: mustIRI(csvwNS + "Table")}); err != nil {
		return subj, err
	}
	if table.URL != "" {
		if err := e.Sink.Emit(rdf.Statement{Subject: subj, Predicate: mustIRI(csvwNS + "url"), Object: mustIRI(table.URL)}); err != nil {
			return subj, err
		}
	}
	return subj, nil
}

// EmitRow emits one Row's skeleton (standard mode only) and every Cell
// triple it carries.
func (e *Emitter) EmitRow(row *rowengine.Row) error {
	rowSubject := mustBlank(row.Subject)

	if !e.Minimal {
		if err := e.Sink.Emit(rdf.Statement{Subject: rowSubject, Predicate: rdfType, Object: mustIRI(csvwNS + "Row")}); err != nil {
			return err
		}
		rownum := literalTerm(fmt.Sprintf("%d", row.RowNum), xsdNS+"integer", "")
		if err := e.Sink.Emit(rdf.Statement{Subject: rowSubject, Predicate: mustIRI(csvwNS + "rownum"), Object: rownum}); err != nil {
			return err
		}
		if url := row.URL(); url != "" {
			if err := e.Sink.Emit(rdf.Statement{Subject: rowSubject, Predicate: mustIRI(csvwNS + "url"), Object: mustIRI(url)}); err != nil {
				return err
			}
		}
		for _, about := range row.Describes() {
			if err := e.Sink.Emit(rdf.Statement{Subject: rowSubject, Predicate: mustIRI(csvwNS + "describes"), Object: aboutTerm(about, row.Subject)}); err != nil {
				return err
			}
		}
	}

	for _, cell := range row.Cells {
		if err := e.emitCell(rowSubject, cell); err != nil {
			return err
		}
	}
	return nil
}

// aboutTerm resolves an about-resource string to its RDF term: the
// Row's own blank node when about is its bare label (the fallback
// Row.Describes used when a Cell left aboutUrl unset), an IRI
// otherwise.
func aboutTerm(about, rowSubjectLabel string) rdf.Term {
	if about == rowSubjectLabel {
		return mustBlank(rowSubjectLabel)
	}
	return mustIRI(about)
}

func (e *Emitter) emitCell(rowSubject rdf.Term, cell *rowengine.Cell) error {
	if cell.IsEmpty() && cell.ValueURL == "" {
		return nil
	}

	subj := rowSubject
	if cell.AboutURL != "" {
		subj = mustIRI(cell.AboutURL)
	}

	pred := mustIRI(cell.PropertyURL)

	if cell.ValueURL != "" {
		return e.Sink.Emit(rdf.Statement{Subject: subj, Predicate: pred, Object: mustIRI(cell.ValueURL)})
	}

	eff := cell.Column.Effective()
	datatypeIRI := eff.Datatype.BaseURI()
	lang := ""
	if metadata.CanonicalBase(eff.Datatype.Base) == "string" {
		lang = eff.Lang
	}
	for _, v := range cell.Values {
		obj := literalTerm(v, datatypeIRI, lang)
		if err := e.Sink.Emit(rdf.Statement{Subject: subj, Predicate: pred, Object: obj}); err != nil {
			return err
		}
	}
	return nil
}
