package discovery

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/csvw-go/rdf-tabular/embedded"
	"github.com/csvw-go/rdf-tabular/metadata"
)

// Options mirrors the `options` record of §6.1's open() entry point.
type Options struct {
	UserMetadata        *metadata.TableGroup
	Base                string
	HTTPLinkOverride    string
	ContentTypeOverride string
	Validate            bool
	Minimal             bool
	NoProv              bool
}

// Logger receives discovery's §4.4 "ignored with a warning" notices.
// Defaults to slog.Default() when nil, matching how the teacher's CLI
// configures logging via LOG_LEVEL (util.InitSlog) rather than a
// bespoke logging type.
type Logger = *slog.Logger

// candidate is one source attempt in the §4.4 precedence order.
type candidate struct {
	name string
	load func(ctx context.Context) (*metadata.TableGroup, string, error)
}

// Discover walks the §4.4 candidate sources for csvURL in precedence
// order, accepting a source only when one of its Tables' url resolves
// (against the source document's own URL) to csvURL, and left-merges
// every accepted source into the result (earliest accepted source
// wins on conflicts). The embedded source never fails the acceptance
// check, since the embedded Table's url is always set to csvURL
// itself; Discover returns an error only when no source loads at all
// (for instance when the CSV body cannot be fetched or tokenized for
// the embedded source).
func Discover(ctx context.Context, fetcher Fetcher, csvURL string, opts Options, dialect metadata.EffectiveDialect, csvBody func() ([]byte, error), log Logger) (*metadata.TableGroup, error) {
	if log == nil {
		log = slog.Default()
	}

	candidates := buildCandidates(fetcher, csvURL, opts, dialect, csvBody)

	var merged *metadata.TableGroup
	for _, c := range candidates {
		group, sourceURL, err := c.load(ctx)
		if err != nil {
			log.Warn("discovery: source unavailable", "source", c.name, "err", err)
			continue
		}
		if group == nil {
			continue
		}
		resolveTableURLs(group, sourceURL)
		if !groupDescribes(group, csvURL) {
			log.Warn("discovery: source ignored, no table url matches", "source", c.name, "url", sourceURL)
			continue
		}
		if merged == nil {
			merged = group
			continue
		}
		merged, err = metadata.MergeTableGroups(merged, group)
		if err != nil {
			return nil, fmt.Errorf("discovery: merging source %q: %w", c.name, err)
		}
	}

	if merged == nil {
		return nil, fmt.Errorf("discovery: no metadata source resolved for %s", csvURL)
	}
	return merged, nil
}

// buildCandidates constructs the §4.4 source list in precedence order.
// Each entry's load func returns (nil, "", nil) to mean "this source
// has nothing to offer" (e.g. no Link header present) without being
// logged as a failure.
func buildCandidates(fetcher Fetcher, csvURL string, opts Options, dialect metadata.EffectiveDialect, csvBody func() ([]byte, error)) []candidate {
	var out []candidate

	if opts.UserMetadata != nil {
		out = append(out, candidate{
			name: "user_metadata",
			load: func(ctx context.Context) (*metadata.TableGroup, string, error) {
				return opts.UserMetadata.Clone(), opts.Base, nil
			},
		})
	}

	out = append(out, candidate{
		name: "link-header",
		load: func(ctx context.Context) (*metadata.TableGroup, string, error) {
			linkTarget := opts.HTTPLinkOverride
			if linkTarget == "" {
				resp, err := fetcher.Fetch(ctx, csvURL)
				if err != nil {
					return nil, "", err
				}
				resp.Body.Close()
				target, ok := DescribedBy(resp.Header, csvURL)
				if !ok {
					return nil, "", nil
				}
				linkTarget = target
			}
			return fetchMetadata(ctx, fetcher, linkTarget)
		},
	})

	out = append(out, candidate{
		name: "sibling-metadata.json",
		load: func(ctx context.Context) (*metadata.TableGroup, string, error) {
			return fetchMetadata(ctx, fetcher, csvURL+"-metadata.json")
		},
	})

	out = append(out, candidate{
		name: "csv-metadata.json",
		load: func(ctx context.Context) (*metadata.TableGroup, string, error) {
			dir, err := resolveRef(csvURL, ".")
			if err != nil {
				return nil, "", err
			}
			target, err := resolveRef(dir, "csv-metadata.json")
			if err != nil {
				return nil, "", err
			}
			return fetchMetadata(ctx, fetcher, target)
		},
	})

	out = append(out, candidate{
		name: "well-known",
		load: func(ctx context.Context) (*metadata.TableGroup, string, error) {
			wkURL, err := WellKnownURL(csvURL)
			if err != nil {
				return nil, "", err
			}
			// An absent or unreadable resource leaves body empty, so
			// WellKnownCandidates falls back to the §6.6 defaults.
			body := ""
			if resp, err := fetcher.Fetch(ctx, wkURL); err == nil {
				data, err := readAll(wkURL, resp.Body)
				if err == nil && resp.StatusCode < 400 {
					body = string(data)
				}
			}
			candidates, err := WellKnownCandidates(body, csvURL)
			if err != nil {
				return nil, "", err
			}
			for _, target := range candidates {
				group, sourceURL, err := fetchMetadata(ctx, fetcher, target)
				if err == nil && group != nil {
					return group, sourceURL, nil
				}
			}
			return nil, "", nil
		},
	})

	out = append(out, candidate{
		name: "embedded",
		load: func(ctx context.Context) (*metadata.TableGroup, string, error) {
			data, err := csvBody()
			if err != nil {
				return nil, "", err
			}
			table, err := embedded.Extract(bytes.NewReader(data), dialect, csvURL)
			if err != nil {
				return nil, "", err
			}
			return &metadata.TableGroup{Tables: []*metadata.Table{table}}, "", nil
		},
	})

	return out
}

// fetchMetadata fetches and parses a metadata document, reporting the
// document's own URL (for relative Table.url resolution) alongside
// the parsed tree. A 404/non-2xx status is treated as "not present"
// rather than an error, matching §4.4's silent-fallthrough semantics
// for the optional sibling/site-wide sources.
func fetchMetadata(ctx context.Context, fetcher Fetcher, target string) (*metadata.TableGroup, string, error) {
	resp, err := fetcher.Fetch(ctx, target)
	if err != nil {
		return nil, "", nil
	}
	if resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, "", nil
	}
	data, err := readAll(target, resp.Body)
	if err != nil {
		return nil, "", err
	}
	group, err := metadata.ParseTableGroup(data)
	if err != nil {
		return nil, "", fmt.Errorf("parsing metadata at %s: %w", target, err)
	}
	return group, target, nil
}

// resolveTableURLs rewrites every Table.url in group to its absolute
// form, resolved against base (the URL the metadata document itself
// was fetched from). A blank base (embedded/user-supplied metadata)
// leaves urls untouched.
func resolveTableURLs(group *metadata.TableGroup, base string) {
	if base == "" {
		return
	}
	for _, t := range group.Tables {
		if t.URL == "" {
			continue
		}
		if resolved, err := resolveRef(base, t.URL); err == nil {
			t.URL = resolved
		}
	}
}

// groupDescribes reports whether any Table in group has url == csvURL,
// the §4.4 acceptance test.
func groupDescribes(group *metadata.TableGroup, csvURL string) bool {
	for _, t := range group.Tables {
		if t.URL == csvURL || strings.EqualFold(t.URL, csvURL) {
			return true
		}
	}
	return false
}
