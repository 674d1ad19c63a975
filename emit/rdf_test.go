package emit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/dialect"
	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/rowengine"
)

func buildRow(t *testing.T, csv string, columns []*metadata.Column) *rowengine.Row {
	t.Helper()
	table := &metadata.Table{
		URL:         "https://example.org/data.csv",
		TableSchema: &metadata.Schema{Columns: columns},
	}
	require.NoError(t, metadata.FreezeStandalone(table))

	d := (*metadata.Dialect)(nil).Resolve()
	r := dialect.NewReader(strings.NewReader(csv), d)
	e := rowengine.NewEngine(table, r)
	row, err := e.Next()
	require.NoError(t, err)
	return row
}

func TestEmitTableStandardModeEmitsSkeleton(t *testing.T) {
	sink := &SliceSink{}
	e := NewEmitter(sink, false)

	table := &metadata.Table{URL: "https://example.org/data.csv"}
	subj, err := e.EmitTable(table, "group")
	require.NoError(t, err)
	assert.NotEmpty(t, sink.Statements)

	var sawType, sawURL bool
	for _, stmt := range sink.Statements {
		assert.Equal(t, subj, stmt.Subject)
		if stmt.Object == mustIRI(csvwNS+"Table") {
			sawType = true
		}
		if stmt.Predicate == mustIRI(csvwNS+"url") {
			sawURL = true
		}
	}
	assert.True(t, sawType)
	assert.True(t, sawURL)
}

func TestEmitTableMinimalModeSuppressesSkeleton(t *testing.T) {
	sink := &SliceSink{}
	e := NewEmitter(sink, true)

	table := &metadata.Table{URL: "https://example.org/data.csv"}
	_, err := e.EmitTable(table, "group")
	require.NoError(t, err)
	assert.Empty(t, sink.Statements)
}

func TestEmitRowEmitsCellLiterals(t *testing.T) {
	row := buildRow(t, "1,Alice\n", []*metadata.Column{
		{Name: "id", Inherited: metadata.InheritedProps{Datatype: &metadata.Datatype{Base: "integer"}}},
		{Name: "name"},
	})

	sink := &SliceSink{}
	e := NewEmitter(sink, false)
	require.NoError(t, e.EmitRow(row))

	rowSubject := mustBlank(row.Subject)
	idPredicate := mustIRI("https://example.org/data.csv#id")
	var sawID bool
	for _, stmt := range sink.Statements {
		if stmt.Subject == rowSubject && stmt.Predicate == idPredicate {
			assert.Equal(t, literalTerm("1", (&metadata.Datatype{Base: "integer"}).BaseURI(), ""), stmt.Object)
			sawID = true
		}
	}
	assert.True(t, sawID)
}

func TestEmitRowMinimalModeSkipsSkeletonButKeepsCells(t *testing.T) {
	row := buildRow(t, "1\n", []*metadata.Column{{Name: "id"}})

	sink := &SliceSink{}
	e := NewEmitter(sink, true)
	require.NoError(t, e.EmitRow(row))

	for _, stmt := range sink.Statements {
		assert.NotEqual(t, mustIRI(csvwNS+"Row"), stmt.Object)
	}
	assert.Len(t, sink.Statements, 1)
}

func TestAboutTermFallsBackToRowSubject(t *testing.T) {
	term := aboutTerm("row-abc", "row-abc")
	assert.Equal(t, mustBlank("row-abc"), term)
}

func TestAboutTermUsesIRIWhenSet(t *testing.T) {
	term := aboutTerm("https://example.org/person/1", "row-abc")
	assert.Equal(t, mustIRI("https://example.org/person/1"), term)
}
