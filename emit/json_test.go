package emit

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/csvw-go/rdf-tabular/metadata"
)

func TestTableDocSingleRowSingleValue(t *testing.T) {
	row := buildRow(t, "1,Alice\n", []*metadata.Column{
		{Name: "id", Inherited: metadata.InheritedProps{Datatype: &metadata.Datatype{Base: "integer"}}},
		{Name: "name"},
	})

	table := &metadata.Table{URL: "https://example.org/data.csv"}
	doc := NewTableDoc(table)
	doc.AppendRow(row)

	assert.Equal(t, "https://example.org/data.csv", doc.URL)
	assert.Len(t, doc.Row, 1)
	assert.Equal(t, 1, doc.Row[0].Rownum)
	assert.Equal(t, "https://example.org/data.csv#row=1", doc.Row[0].URL)
	assert.Len(t, doc.Row[0].Describes, 1)

	entry := doc.Row[0].Describes[0]
	assert.Equal(t, "1", entry["https://example.org/data.csv#id"])
	assert.Equal(t, "Alice", entry["https://example.org/data.csv#name"])
	assert.NotContains(t, entry, "@id")
}

func TestTableDocSeparatorColumnBecomesArray(t *testing.T) {
	sep := ";"
	row := buildRow(t, "a;b;c\n", []*metadata.Column{
		{Name: "tags", Inherited: metadata.InheritedProps{SeparatorSet: true, Separator: &sep}},
	})

	table := &metadata.Table{URL: "https://example.org/data.csv"}
	doc := NewTableDoc(table)
	doc.AppendRow(row)

	entry := doc.Row[0].Describes[0]
	assert.Equal(t, []interface{}{"a", "b", "c"}, entry["https://example.org/data.csv#tags"])
}

func TestTableDocLanguageTaggedStringValue(t *testing.T) {
	lang := "fr"
	row := buildRow(t, "bonjour\n", []*metadata.Column{
		{Name: "greeting", Inherited: metadata.InheritedProps{Lang: &lang}},
	})

	table := &metadata.Table{URL: "https://example.org/data.csv"}
	doc := NewTableDoc(table)
	doc.AppendRow(row)

	entry := doc.Row[0].Describes[0]
	assert.Equal(t, map[string]interface{}{"@value": "bonjour", "@language": "fr"}, entry["https://example.org/data.csv#greeting"])
}

func TestTableDocValueURLCellBecomesIDReference(t *testing.T) {
	valueURL := "{id}"
	row := buildRow(t, "42\n", []*metadata.Column{
		{Name: "id", Inherited: metadata.InheritedProps{ValueURL: &valueURL, Datatype: &metadata.Datatype{Base: "integer"}}},
	})

	table := &metadata.Table{URL: "https://example.org/data.csv"}
	doc := NewTableDoc(table)
	doc.AppendRow(row)

	entry := doc.Row[0].Describes[0]
	assert.Equal(t, map[string]interface{}{"@id": "42"}, entry["https://example.org/data.csv#id"])
}
