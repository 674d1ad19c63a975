package rowengine

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/dialect"
	"github.com/csvw-go/rdf-tabular/metadata"
)

func freezeTable(t *testing.T, table *metadata.Table) {
	t.Helper()
	require.NoError(t, metadata.FreezeStandalone(table))
}

func TestEngineBasicRow(t *testing.T) {
	table := &metadata.Table{
		URL: "https://example.org/data.csv",
		TableSchema: &metadata.Schema{
			Columns: []*metadata.Column{
				{Name: "id", Inherited: metadata.InheritedProps{Datatype: &metadata.Datatype{Base: "integer"}}},
				{Name: "name"},
			},
		},
	}
	freezeTable(t, table)

	d := (*metadata.Dialect)(nil).Resolve()
	r := dialect.NewReader(strings.NewReader("1,Alice\n2,Bob\n"), d)
	e := NewEngine(table, r)

	row, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, 1, row.RowNum)
	assert.Equal(t, 1, row.SourceRow)
	assert.True(t, row.Valid())
	assert.Equal(t, []string{"1"}, row.Cells[0].Values)
	assert.Equal(t, []string{"Alice"}, row.Cells[1].Values)
	assert.Equal(t, "https://example.org/data.csv#row=1", row.URL())

	row2, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, 2, row2.RowNum)

	_, err = e.Next()
	assert.Equal(t, io.EOF, err)
}

func TestEngineRequiredColumnEmptyFails(t *testing.T) {
	required := true
	table := &metadata.Table{
		URL: "https://example.org/data.csv",
		TableSchema: &metadata.Schema{
			Columns: []*metadata.Column{
				{Name: "id", Inherited: metadata.InheritedProps{Required: &required}},
				{Name: "name"},
			},
		},
	}
	freezeTable(t, table)

	d := (*metadata.Dialect)(nil).Resolve()
	r := dialect.NewReader(strings.NewReader(",Alice\n"), d)
	e := NewEngine(table, r)

	row, err := e.Next()
	require.Error(t, err)
	assert.False(t, row.Cells[0].Valid)
}

func TestEngineNullAndSeparator(t *testing.T) {
	sep := ";"
	nullVal := []string{"NA"}
	table := &metadata.Table{
		URL: "https://example.org/data.csv",
		TableSchema: &metadata.Schema{
			Columns: []*metadata.Column{
				{Name: "tags", Inherited: metadata.InheritedProps{SeparatorSet: true, Separator: &sep, NullSet: true, Null: nullVal}},
			},
		},
	}
	freezeTable(t, table)

	d := (*metadata.Dialect)(nil).Resolve()
	r := dialect.NewReader(strings.NewReader("a;NA;b\n"), d)
	e := NewEngine(table, r)

	row, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, row.Cells[0].Values)
}

func TestEnginePropertyURLDefault(t *testing.T) {
	table := &metadata.Table{
		URL: "https://example.org/data.csv",
		TableSchema: &metadata.Schema{
			Columns: []*metadata.Column{{Name: "id"}},
		},
	}
	freezeTable(t, table)

	d := (*metadata.Dialect)(nil).Resolve()
	r := dialect.NewReader(strings.NewReader("1\n"), d)
	e := NewEngine(table, r)

	row, err := e.Next()
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/data.csv#id", row.Cells[0].PropertyURL)
}
