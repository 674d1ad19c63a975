// Package emit implements §4.7's emitter: translating frozen metadata
// plus rowengine.Row/Cell values into RDF statements (rdf.go) or the
// canonical tabular-data-as-JSON shape (json.go), through an
// injectable Sink (sink.go) and with optional provenance (provenance.go).
package emit

import (
	"bufio"
	"fmt"
	"io"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

// Sink is the injectable "RDF graph sink" spec.md §1 lists as an
// out-of-scope collaborator.
type Sink interface {
	Emit(rdf.Statement) error
}

// NTriplesSink writes canonical N-Triples to w, one statement per
// line. Safe for exactly one writer goroutine (§5).
type NTriplesSink struct {
	w *bufio.Writer
}

// NewNTriplesSink wraps w.
func NewNTriplesSink(w io.Writer) *NTriplesSink {
	return &NTriplesSink{w: bufio.NewWriter(w)}
}

func (s *NTriplesSink) Emit(stmt rdf.Statement) error {
	_, err := fmt.Fprintf(s.w, "%s %s %s .\n", termText(stmt.Subject), termText(stmt.Predicate), termText(stmt.Object))
	return err
}

// Flush flushes any buffered output. Callers must call it after the
// last Emit.
func (s *NTriplesSink) Flush() error { return s.w.Flush() }

// NQuadsSink is an NTriplesSink with a fixed graph name appended to
// every statement, per RFC N-Quads.
type NQuadsSink struct {
	w     *bufio.Writer
	graph string
}

// NewNQuadsSink wraps w, tagging every statement with graph, which is
// always written as an IRI ("<graph>").
func NewNQuadsSink(w io.Writer, graph string) *NQuadsSink {
	return &NQuadsSink{w: bufio.NewWriter(w), graph: graph}
}

func (s *NQuadsSink) Emit(stmt rdf.Statement) error {
	_, err := fmt.Fprintf(s.w, "%s %s %s <%s> .\n", termText(stmt.Subject), termText(stmt.Predicate), termText(stmt.Object), s.graph)
	return err
}

func (s *NQuadsSink) Flush() error { return s.w.Flush() }

// termText renders an rdf.Term in N-Triples/N-Quads surface syntax,
// delegating to the term's own String method — the exact inverse of
// what rdf.ParseNQuad/rdf.ParseNTriple consume on the way in, so round
// tripping a Term through String and back reproduces it.
func termText(t rdf.Term) string {
	return t.String()
}

// SliceSink collects statements in memory, for tests and for callers
// that want to post-process before writing.
type SliceSink struct {
	Statements []rdf.Statement
}

func (s *SliceSink) Emit(stmt rdf.Statement) error {
	s.Statements = append(s.Statements, stmt)
	return nil
}
