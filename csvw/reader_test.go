package csvw

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/discovery"
	"github.com/csvw-go/rdf-tabular/emit"
)

type fakeResp struct {
	status int
	body   string
}

type fakeFetcher struct {
	responses map[string]fakeResp
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) (*discovery.Response, error) {
	r, ok := f.responses[url]
	if !ok {
		return nil, &notFoundError{url}
	}
	return &discovery.Response{StatusCode: r.status, Header: http.Header{}, Body: io.NopCloser(strings.NewReader(r.body))}, nil
}

type notFoundError struct{ url string }

func (e *notFoundError) Error() string { return "not found: " + e.url }

func openTestReader(t *testing.T, fetcher discovery.Fetcher, csvURL string) *Reader {
	t.Helper()
	r, err := Open(context.Background(), csvURL, Options{Fetcher: fetcher})
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	return r
}

func TestOpenDiscoversEmbeddedMetadataAndValidates(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "id,name\n1,Alice\n2,Bob\n"},
	}}

	r := openTestReader(t, fetcher, csvURL)
	require.Equal(t, StateValidated, r.state)
	require.Len(t, r.Tables(), 1)
	assert.Equal(t, csvURL, r.Tables()[0].URL)
}

func TestToJSONProducesOneRowPerDataLine(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "id,name\n1,Alice\n2,Bob\n"},
	}}

	r := openTestReader(t, fetcher, csvURL)
	doc, err := r.ToJSON(context.Background())
	require.NoError(t, err)
	require.Equal(t, StateDone, r.state)
	require.Len(t, doc.Tables, 1)
	assert.Len(t, doc.Tables[0].Row, 2)
	assert.Equal(t, 1, doc.Tables[0].Row[0].Rownum)
	assert.Equal(t, 2, doc.Tables[0].Row[1].Rownum)
}

func TestEmitRDFProducesStatementsForEveryRow(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "id,name\n1,Alice\n"},
	}}

	r := openTestReader(t, fetcher, csvURL)
	sink := &emit.SliceSink{}
	require.NoError(t, r.EmitRDF(context.Background(), sink))
	assert.Equal(t, StateDone, r.state)
	assert.NotEmpty(t, sink.Statements)
}

func TestEmitRDFMinimalSuppressesSkeletonAndProvenance(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: "id,name\n1,Alice\n"},
	}}

	r, err := Open(context.Background(), csvURL, Options{Fetcher: fetcher, Minimal: true})
	require.NoError(t, err)
	require.NoError(t, r.Validate())

	sink := &emit.SliceSink{}
	require.NoError(t, r.EmitRDF(context.Background(), sink))

	for _, stmt := range sink.Statements {
		assert.NotContains(t, stmt.Predicate.String(), "prov#")
	}
}

func TestCheckForeignKeysRejectsDanglingReference(t *testing.T) {
	metaURL := "https://example.org/metadata.json"
	countriesURL := "https://example.org/countries.csv"
	sliceURL := "https://example.org/country_slice.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		metaURL: {status: 200, body: `{
			"tables": [
				{"url": "` + countriesURL + `", "tableSchema": {
					"columns": [{"name": "countryCode"}],
					"primaryKey": "countryCode"
				}},
				{"url": "` + sliceURL + `", "tableSchema": {
					"columns": [{"name": "countryRef"}],
					"foreignKeys": [{
						"columnReference": "countryRef",
						"reference": {"resource": "` + countriesURL + `", "columnReference": "countryCode"}
					}]
				}}
			]
		}`},
		countriesURL: {status: 200, body: "countryCode\nAD\nAL\n"},
		sliceURL:     {status: 200, body: "countryRef\nAD\nXX\n"},
	}}

	r, err := Open(context.Background(), metaURL, Options{Fetcher: fetcher, MetadataURL: metaURL})
	require.NoError(t, err)
	require.NoError(t, r.Validate())

	err = r.CheckForeignKeys(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "foreign key")
}

func TestCheckForeignKeysAcceptsResolvedReferences(t *testing.T) {
	metaURL := "https://example.org/metadata.json"
	countriesURL := "https://example.org/countries.csv"
	sliceURL := "https://example.org/country_slice.csv"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		metaURL: {status: 200, body: `{
			"tables": [
				{"url": "` + countriesURL + `", "tableSchema": {
					"columns": [{"name": "countryCode"}],
					"primaryKey": "countryCode"
				}},
				{"url": "` + sliceURL + `", "tableSchema": {
					"columns": [{"name": "countryRef"}],
					"foreignKeys": [{
						"columnReference": "countryRef",
						"reference": {"resource": "` + countriesURL + `", "columnReference": "countryCode"}
					}]
				}}
			]
		}`},
		countriesURL: {status: 200, body: "countryCode\nAD\nAL\n"},
		sliceURL:     {status: 200, body: "countryRef\nAD\nAL\n"},
	}}

	r, err := Open(context.Background(), metaURL, Options{Fetcher: fetcher, MetadataURL: metaURL})
	require.NoError(t, err)
	require.NoError(t, r.Validate())

	assert.NoError(t, r.CheckForeignKeys(context.Background()))
}

func TestMetadataURLBypassesDiscovery(t *testing.T) {
	csvURL := "https://example.org/data.csv"
	metaURL := "https://example.org/custom-metadata.json"
	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL:  {status: 200, body: "a,b\n1,2\n"},
		metaURL: {status: 200, body: `{"url": "data.csv", "tableSchema": {"columns": [{"name": "a"}, {"name": "b"}]}}`},
	}}

	r, err := Open(context.Background(), csvURL, Options{Fetcher: fetcher, MetadataURL: metaURL})
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	require.Len(t, r.Tables(), 1)
	assert.Equal(t, csvURL, r.Tables()[0].URL)
}
