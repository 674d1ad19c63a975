// Package discovery implements the §4.4 discovery & loader: locating a
// Table's metadata document by walking the candidate sources in order
// (user override, Link header, sibling -metadata.json, csv-metadata.json
// in the CSV's directory, /.well-known/csvm, embedded) and merging what it
// finds with metadata.MergeTableGroups.
package discovery

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/csvw-go/rdf-tabular/csvwerr"
)

// Response is a fetched resource: status, headers (as received), and a
// body the caller must Close.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       io.ReadCloser
}

// Fetcher is the injectable "HTTP/file fetcher" spec.md §1 lists as an
// out-of-scope collaborator. Discovery, and the row engine's CSV
// retrieval, depend only on this interface so tests can substitute an
// in-memory fake.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*Response, error)
}

// DefaultTimeout is the per-fetch timeout §5 mandates: on expiry a
// non-authoritative source is skipped with a warning, an authoritative
// one fails the Reader.
const DefaultTimeout = 30 * time.Second

// HTTPFetcher fetches over net/http, sending the metadata Accept
// header of §6.5. The same Accept header is sent for every fetch,
// CSV bodies included.
type HTTPFetcher struct {
	Client *http.Client
	Accept string
}

// NewHTTPFetcher returns an HTTPFetcher configured with DefaultTimeout
// and the metadata Accept header of §6.5.
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{Timeout: DefaultTimeout},
		Accept: "application/ld+json, application/json",
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &csvwerr.IOError{URL: rawURL, Err: err}
	}
	if f.Accept != "" {
		req.Header.Set("Accept", f.Accept)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &csvwerr.IOError{URL: rawURL, Err: err}
	}
	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: resp.Body}, nil
}

// FileFetcher resolves file:// URLs and bare local paths, for offline
// use and the scenario fixtures.
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, rawURL string) (*Response, error) {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Scheme == "file" {
		path = u.Path
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, &csvwerr.IOError{URL: rawURL, Err: err}
	}
	return &Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: f}, nil
}

// ChainFetcher tries an HTTPFetcher for http(s) URLs and a FileFetcher
// for everything else, so callers can pass either a URL or a local
// path to Discover without choosing a Fetcher themselves.
type ChainFetcher struct {
	HTTP *HTTPFetcher
	File Fetcher
}

// NewChainFetcher returns a ChainFetcher with sensible defaults.
func NewChainFetcher() *ChainFetcher {
	return &ChainFetcher{HTTP: NewHTTPFetcher(), File: FileFetcher{}}
}

func (c *ChainFetcher) Fetch(ctx context.Context, rawURL string) (*Response, error) {
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return c.HTTP.Fetch(ctx, rawURL)
	}
	return c.File.Fetch(ctx, rawURL)
}

// linkHeaderRe extracts the <url> target from one comma-separated
// segment of an RFC 8288 Link header value; it does not capture the
// segment's parameters.
var linkHeaderRe = regexp.MustCompile(`<([^>]*)>`)

// DescribedBy returns the target URL of the first Link header value
// with rel="describedby", resolved against base. Reports false if no
// such link is present.
func DescribedBy(h http.Header, base string) (string, bool) {
	for _, raw := range h.Values("Link") {
		for _, segment := range splitLinkHeader(raw) {
			m := linkHeaderRe.FindStringSubmatch(segment)
			if m == nil {
				continue
			}
			if !hasParam(segment, "rel", "describedby") {
				continue
			}
			resolved, err := resolveRef(base, m[1])
			if err != nil {
				continue
			}
			return resolved, true
		}
	}
	return "", false
}

// splitLinkHeader splits a Link header value on commas that are not
// inside a quoted parameter value.
func splitLinkHeader(v string) []string {
	var out []string
	var cur strings.Builder
	inQuotes := false
	for _, r := range v {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case r == ',' && !inQuotes:
			out = append(out, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	if cur.Len() > 0 {
		out = append(out, cur.String())
	}
	return out
}

func hasParam(segment, key, value string) bool {
	re := regexp.MustCompile(regexp.QuoteMeta(key) + `\s*=\s*"?` + regexp.QuoteMeta(value) + `"?`)
	return re.MatchString(segment)
}

func resolveRef(base, ref string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	r, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return b.ResolveReference(r).String(), nil
}

// ContentType is the parsed result of content-type recognition, §6.5.
type ContentType struct {
	Type          string // "text/csv", "text/tab-separated-values", "application/csvm+json", or the raw media type
	HeaderAbsent  bool
	Charset       string
	ForceTab      bool
}

// ParseContentType applies §6.5's recognition rules to a Content-Type
// header value.
func ParseContentType(raw string) ContentType {
	if raw == "" {
		return ContentType{}
	}
	mediaType, params, err := mime.ParseMediaType(raw)
	if err != nil {
		return ContentType{Type: raw}
	}
	ct := ContentType{Type: mediaType, Charset: params["charset"]}
	switch mediaType {
	case "text/csv":
		ct.HeaderAbsent = strings.EqualFold(params["header"], "absent")
	case "text/tab-separated-values":
		ct.ForceTab = true
	}
	return ct
}

// readAll reads the whole body and closes it, wrapping I/O errors as
// csvwerr.IOError.
func readAll(rawURL string, body io.ReadCloser) ([]byte, error) {
	defer body.Close()
	buf := bufio.NewReader(body)
	data, err := io.ReadAll(buf)
	if err != nil {
		return nil, &csvwerr.IOError{URL: rawURL, Err: err}
	}
	return data, nil
}

var errNotFound = fmt.Errorf("not found")
