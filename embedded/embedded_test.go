package embedded

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/metadata"
)

func TestExtractWithHeader(t *testing.T) {
	d := (*metadata.Dialect)(nil).Resolve()
	table, err := Extract(strings.NewReader("name,age\nAlice,30\n"), d, "https://example.org/data.csv")
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/data.csv", table.URL)
	require.Len(t, table.TableSchema.Columns, 2)
	assert.Equal(t, metadata.NewNaturalLanguageString("name"), table.TableSchema.Columns[0].Titles)
	assert.Equal(t, metadata.NewNaturalLanguageString("age"), table.TableSchema.Columns[1].Titles)
}

func TestExtractNoHeader(t *testing.T) {
	header := false
	d := (&metadata.Dialect{Header: &header}).Resolve()
	table, err := Extract(strings.NewReader("Alice,30\n"), d, "https://example.org/data.csv")
	require.NoError(t, err)
	require.Len(t, table.TableSchema.Columns, 2)
	assert.Nil(t, table.TableSchema.Columns[0].Titles)
}
