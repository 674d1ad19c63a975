package dialect

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/metadata"
)

func readAll(t *testing.T, r *Reader) [][]string {
	t.Helper()
	var rows [][]string
	for {
		row, err := r.ReadRow()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		rows = append(rows, row)
	}
	return rows
}

func TestTokenizeDefaults(t *testing.T) {
	d := (*metadata.Dialect)(nil).Resolve()
	r := NewReader(strings.NewReader("a,b,c\n1,2,3\n"), d)
	rows := readAll(t, r)
	assert.Equal(t, [][]string{{"a", "b", "c"}, {"1", "2", "3"}}, rows)
}

func TestTokenizeQuotedFieldWithEmbeddedComma(t *testing.T) {
	d := (*metadata.Dialect)(nil).Resolve()
	r := NewReader(strings.NewReader(`a,"b,c",d`+"\n"), d)
	rows := readAll(t, r)
	assert.Equal(t, [][]string{{"a", "b,c", "d"}}, rows)
}

func TestTokenizeQuotedFieldSpanningLines(t *testing.T) {
	d := (*metadata.Dialect)(nil).Resolve()
	r := NewReader(strings.NewReader("a,\"b\nc\",d\n"), d)
	rows := readAll(t, r)
	assert.Equal(t, [][]string{{"a", "b\nc", "d"}}, rows)
}

func TestTokenizeDoubledQuoteEscape(t *testing.T) {
	d := (*metadata.Dialect)(nil).Resolve()
	r := NewReader(strings.NewReader(`a,"b""c",d`+"\n"), d)
	rows := readAll(t, r)
	assert.Equal(t, [][]string{{"a", `b"c`, "d"}}, rows)
}

func TestTokenizeCommentPrefix(t *testing.T) {
	commentPrefix := "#"
	delim := ","
	dl := &metadata.Dialect{CommentPrefix: &commentPrefix, Delimiter: &delim}
	r := NewReader(strings.NewReader("# a note\na,b\n"), dl.Resolve())
	rows := readAll(t, r)
	assert.Equal(t, [][]string{{"a", "b"}}, rows)
	assert.Equal(t, []string{"a note"}, r.Comments)
}

func TestTokenizeSkipBlankRows(t *testing.T) {
	d := (*metadata.Dialect)(nil).Resolve()
	d.SkipBlankRows = true
	r := NewReader(strings.NewReader("a,b\n\n1,2\n"), d)
	rows := readAll(t, r)
	assert.Equal(t, [][]string{{"a", "b"}, {"1", "2"}}, rows)
}

func TestTokenizeTrim(t *testing.T) {
	d := (*metadata.Dialect)(nil).Resolve()
	r := NewReader(strings.NewReader(" a , b \n"), d)
	rows := readAll(t, r)
	assert.Equal(t, [][]string{{"a", "b"}}, rows)
}
