package csvw_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/csvw"
	"github.com/csvw-go/rdf-tabular/csvwerr"
	"github.com/csvw-go/rdf-tabular/dialect"
	"github.com/csvw-go/rdf-tabular/discovery"
	"github.com/csvw-go/rdf-tabular/emit"
	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/rowengine"
)

// scenario is the shape of one entry in testdata/scenarios/scenarios.yaml.
type scenario struct {
	CSV          string            `yaml:"csv"`
	BadCSV       string            `yaml:"bad_csv"`
	WorseCSV     string            `yaml:"worse_csv"`
	Metadata     string            `yaml:"metadata"`
	UserMetadata string            `yaml:"user_metadata"`
	CSVs         map[string]string `yaml:"csvs"`
}

func loadScenarios(t *testing.T) map[string]scenario {
	t.Helper()
	buf, err := os.ReadFile("testdata/scenarios/scenarios.yaml")
	require.NoError(t, err)
	dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
	var out map[string]scenario
	require.NoError(t, dec.Decode(&out))
	return out
}

// singleTableEngine parses metadataJSON (a lone-Table document),
// freezes it, and returns a rowengine.Engine over csvBody.
func singleTableEngine(t *testing.T, metadataJSON, csvBody string) *rowengine.Engine {
	t.Helper()
	g, err := metadata.ParseTableGroup([]byte(metadataJSON))
	require.NoError(t, err)
	require.NoError(t, g.Freeze())

	table := g.Tables[0]
	d := table.EffectiveDialect()
	reader := dialect.NewReader(strings.NewReader(csvBody), d)
	for i := 0; i < d.HeaderRowCount; i++ {
		_, _ = reader.ReadRow()
	}
	return rowengine.NewEngine(table, reader)
}

func cellByName(row *rowengine.Row, name string) *rowengine.Cell {
	for _, c := range row.Cells {
		if c.Column != nil && c.Column.Name == name {
			return c
		}
	}
	return nil
}

// s1: tree-ops minimal. No metadata at all: columns come from the
// header row's titles, the row subject is a blank node, and every
// cell becomes a literal triple keyed off the table URL.
func TestScenarioS1TreeOpsMinimal(t *testing.T) {
	scenarios := loadScenarios(t)
	sc := scenarios["s1_tree_ops_minimal"]
	require.Len(t, sc.CSVs, 1)

	var csvURL, body string
	for u, b := range sc.CSVs {
		csvURL, body = u, b
	}

	fetcher := &fakeFetcher{responses: map[string]fakeResp{
		csvURL: {status: 200, body: body},
	}}

	r, err := csvw.Open(context.Background(), csvURL, csvw.Options{Fetcher: fetcher})
	require.NoError(t, err)
	require.NoError(t, r.Validate())
	require.Len(t, r.Tables(), 1)

	names := make([]string, 0, 3)
	for _, c := range r.Tables()[0].TableSchema.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"GID", "On Street", "Species"}, names)

	sink := &emit.SliceSink{}
	require.NoError(t, r.EmitRDF(context.Background(), sink))

	var literalCount int
	for _, stmt := range sink.Statements {
		if strings.HasPrefix(stmt.Subject.String(), "_:") {
			literalCount++
		}
	}
	assert.GreaterOrEqual(t, literalCount, 3)
}

// s2: null + default. "NA" matches the column's null value, so the
// default "0" is substituted before datatype parsing.
func TestScenarioS2NullAndDefault(t *testing.T) {
	scenarios := loadScenarios(t)
	sc := scenarios["s2_null_and_default"]

	engine := singleTableEngine(t, sc.Metadata, sc.CSV)
	row, err := engine.Next()
	require.NoError(t, err)
	require.NotNil(t, row)

	cell := cellByName(row, "x")
	require.NotNil(t, cell)
	assert.True(t, cell.Null)
	require.Len(t, cell.Values, 1)
	assert.Equal(t, "0", cell.Values[0])
	assert.True(t, cell.Valid)
}

// s3: number pattern #,##0.00. A correctly grouped value canonicalizes;
// a value missing the required decimal grouping or with a malformed
// group fails to parse.
func TestScenarioS3NumberPattern(t *testing.T) {
	scenarios := loadScenarios(t)
	sc := scenarios["s3_number_pattern"]

	good := singleTableEngine(t, sc.Metadata, sc.CSV)
	row, err := good.Next()
	require.NoError(t, err)
	cell := cellByName(row, "n")
	require.NotNil(t, cell)
	require.True(t, cell.Valid)
	require.Len(t, cell.Values, 1)
	assert.Equal(t, "1234.50", cell.Values[0])

	bad := singleTableEngine(t, sc.Metadata, sc.BadCSV)
	row, err = bad.Next()
	require.NotNil(t, row)
	assertRowRejectsColumn(t, row, "n", err)

	worse := singleTableEngine(t, sc.Metadata, sc.WorseCSV)
	row, err = worse.Next()
	require.NotNil(t, row)
	assertRowRejectsColumn(t, row, "n", err)
}

// s4: date pattern M/d/yyyy. "1/5/2015" canonicalizes to "2015-01-05";
// "13/1/2015" has no valid month and fails to parse.
func TestScenarioS4DatePattern(t *testing.T) {
	scenarios := loadScenarios(t)
	sc := scenarios["s4_date_pattern"]

	good := singleTableEngine(t, sc.Metadata, sc.CSV)
	row, err := good.Next()
	require.NoError(t, err)
	cell := cellByName(row, "d")
	require.NotNil(t, cell)
	require.True(t, cell.Valid)
	require.Len(t, cell.Values, 1)
	assert.Equal(t, "2015-01-05", cell.Values[0])

	bad := singleTableEngine(t, sc.Metadata, sc.BadCSV)
	row, err = bad.Next()
	require.NotNil(t, row)
	assertRowRejectsColumn(t, row, "d", err)
}

// s5: foreign key enforcement. country_slice.csv's second row
// references a countryCode absent from countries.csv.
func TestScenarioS5ForeignKeyEnforcement(t *testing.T) {
	scenarios := loadScenarios(t)
	sc := scenarios["s5_foreign_key_enforcement"]

	metaURL := "https://example.org/metadata.json"
	responses := map[string]fakeResp{metaURL: {status: 200, body: sc.Metadata}}
	for u, b := range sc.CSVs {
		responses[u] = fakeResp{status: 200, body: b}
	}
	fetcher := &fakeFetcher{responses: responses}

	r, err := csvw.Open(context.Background(), metaURL, csvw.Options{Fetcher: fetcher, MetadataURL: metaURL})
	require.NoError(t, err)
	require.NoError(t, r.Validate())

	err = r.CheckForeignKeys(context.Background())
	require.Error(t, err)
	var fkErr *csvwerr.ForeignKeyError
	assert.True(t, errors.As(err, &fkErr) || strings.Contains(err.Error(), "foreign key"))
}

// s6: merge precedence. User-supplied lang wins over located metadata's
// lang, but located metadata's null (absent from user metadata) fills
// the gap.
func TestScenarioS6MergePrecedence(t *testing.T) {
	scenarios := loadScenarios(t)
	sc := scenarios["s6_merge_precedence"]

	user, err := metadata.ParseTableGroup([]byte(sc.UserMetadata))
	require.NoError(t, err)
	located, err := metadata.ParseTableGroup([]byte(sc.Metadata))
	require.NoError(t, err)

	merged, err := metadata.MergeTableGroups(user, located)
	require.NoError(t, err)
	require.Len(t, merged.Tables, 1)

	table := merged.Tables[0]
	require.NotNil(t, table.Inherited.Lang)
	assert.Equal(t, "en", *table.Inherited.Lang)
	require.True(t, table.Inherited.NullSet)
	require.Len(t, table.Inherited.Null, 1)
	assert.Equal(t, "-", table.Inherited.Null[0])
}

// assertRowRejectsColumn asserts that column's cell in row failed to
// validate, and that Next's accompanying error (if any) is entirely
// made of downgradable (cell-level) failures rather than something
// more structural.
func assertRowRejectsColumn(t *testing.T, row *rowengine.Row, column string, err error) {
	t.Helper()
	cell := cellByName(row, column)
	require.NotNil(t, cell)
	assert.False(t, cell.Valid)
	if err != nil {
		assert.True(t, csvwerr.AllDowngradable(err), "expected only cell-level failures, got %v", err)
	}
}

// fakeFetcher/fakeResp duplicate csvw package's own test doubles
// (unexported there, so not importable): a minimal in-memory
// discovery.Fetcher.
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
