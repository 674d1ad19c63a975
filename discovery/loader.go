package discovery

import (
	"context"
	"fmt"

	"github.com/csvw-go/rdf-tabular/metadata"
)

// FetchBytes fetches target and returns its full body, closing the
// underlying stream. Used to read CSV bodies, both for the embedded
// source and for row processing.
func FetchBytes(ctx context.Context, fetcher Fetcher, target string) ([]byte, error) {
	resp, err := fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, err
	}
	return readAll(target, resp.Body)
}

// LoadMetadataURL fetches and parses the metadata document at
// metadataURL directly, per §4.4's "entry point is a metadata URL"
// case: this source is authoritative, so no acceptance check against
// a CSV url is applied; Table.url values are resolved against
// metadataURL for later on-demand CSV fetches.
func LoadMetadataURL(ctx context.Context, fetcher Fetcher, metadataURL string) (*metadata.TableGroup, error) {
	group, sourceURL, err := fetchMetadata(ctx, fetcher, metadataURL)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, fmt.Errorf("discovery: no metadata document at %s", metadataURL)
	}
	resolveTableURLs(group, sourceURL)
	return group, nil
}

// ResolveOne runs Discover for a single CSV URL and returns the
// merged TableGroup as Discover produced it; it is not narrowed to the
// Table describing csvURL. Callers that already have a full TableGroup (the
// metadata-URL entry point) should use that TableGroup directly
// instead of calling this.
func ResolveOne(ctx context.Context, fetcher Fetcher, csvURL string, opts Options, dialect metadata.EffectiveDialect, log Logger) (*metadata.TableGroup, error) {
	csvBody := func() ([]byte, error) { return FetchBytes(ctx, fetcher, csvURL) }
	return Discover(ctx, fetcher, csvURL, opts, dialect, csvBody, log)
}
