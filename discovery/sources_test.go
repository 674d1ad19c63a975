package discovery

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/metadata"
)

type fakeResp struct {
	status int
	header http.Header
	body   string
}

type fakeFetcher struct {
	responses map[string]fakeResp
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*Response, error) {
	r, ok := f.responses[url]
	if !ok {
		return nil, &notFoundError{url}
	}
	h := r.header
	if h == nil {
		h = http.Header{}
	}
	return &Response{StatusCode: r.status, Header: h, Body: io.NopCloser(strings.NewReader(r.body))}, nil
}

type notFoundError struct{ url string }

func (e *notFoundError) Error() string { return "not found: " + e.url }

func TestDiscoverSiblingMetadataJSON(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "a,b\n1,2\n"},
		csvURL + "-metadata.json": {
			status: 200,
			body:   `{"url": "data.csv", "tableSchema": {"columns": [{"name": "a"}, {"name": "b"}]}}`,
		},
	}}

	d := (*metadata.Dialect)(nil).Resolve()
	group, err := ResolveOne(context.Background(), fetcher, csvURL, Options{}, d, nil)
	require.NoError(t, err)
	require.Len(t, group.Tables, 1)
	assert.Equal(t, csvURL, group.Tables[0].URL)
	require.Len(t, group.Tables[0].TableSchema.Columns, 2)
}

func TestDiscoverFallsBackToEmbedded(t *testing.T) {
	csvURL := "https://example.org/nodoc.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "x,y\n1,2\n"},
	}}

	d := (*metadata.Dialect)(nil).Resolve()
	group, err := ResolveOne(context.Background(), fetcher, csvURL, Options{}, d, nil)
	require.NoError(t, err)
	require.Len(t, group.Tables, 1)
	assert.Equal(t, csvURL, group.Tables[0].URL)
	require.Len(t, group.Tables[0].TableSchema.Columns, 2)
	assert.Equal(t, metadata.NewNaturalLanguageString("x"), group.Tables[0].TableSchema.Columns[0].Titles)
}

func TestDiscoverRejectsNonMatchingTableURL(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "a,b\n1,2\n"},
		csvURL + "-metadata.json": {
			status: 200,
			body:   `{"url": "other.csv", "tableSchema": {"columns": [{"name": "a"}]}}`,
		},
	}}

	d := (*metadata.Dialect)(nil).Resolve()
	group, err := ResolveOne(context.Background(), fetcher, csvURL, Options{}, d, nil)
	require.NoError(t, err)
	// the mismatched sibling document is ignored; only embedded remains
	require.Len(t, group.Tables, 1)
	assert.Equal(t, csvURL, group.Tables[0].URL)
}

func TestDiscoverUserMetadataWins(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "a,b\n1,2\n"},
	}}

	user := &metadata.TableGroup{Tables: []*metadata.Table{
		{URL: csvURL, TableSchema: &metadata.Schema{Columns: []*metadata.Column{
			{Position: 1, Name: "a", Titles: metadata.NewNaturalLanguageString("A")},
		}}},
	}}

	d := (*metadata.Dialect)(nil).Resolve()
	group, err := ResolveOne(context.Background(), fetcher, csvURL, Options{UserMetadata: user}, d, nil)
	require.NoError(t, err)
	require.Len(t, group.Tables, 1)
	assert.Equal(t, metadata.NewNaturalLanguageString("A"), group.Tables[0].TableSchema.Columns[0].Titles)
}

func TestWellKnownCandidatesDefaultTemplates(t *testing.T) {
	candidates, err := WellKnownCandidates("", "https://example.org/data/file.csv")
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, "https://example.org/data/file.csv-metadata.json", candidates[0])
	assert.Equal(t, "https://example.org/data/csv-metadata.json", candidates[1])
}
