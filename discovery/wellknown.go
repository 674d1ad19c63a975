package discovery

import (
	"net/url"
	"strings"

	"github.com/csvw-go/rdf-tabular/uritemplate"
)

// defaultWellKnown is the §6.6 fallback content used when a site has
// no /.well-known/csvm resource at all.
var defaultWellKnown = []string{"{+url}-metadata.json", "csv-metadata.json"}

// WellKnownCandidates parses a /.well-known/csvm body (one URI
// template per line, single variable "url") and expands each against
// csvURL, resolving the result against csvURL. A blank body
// falls back to defaultWellKnown.
func WellKnownCandidates(body string, csvURL string) ([]string, error) {
	lines := splitNonEmptyLines(body)
	if len(lines) == 0 {
		lines = defaultWellKnown
	}

	var out []string
	for _, line := range lines {
		tmpl, err := uritemplate.Parse(strings.TrimSpace(line))
		if err != nil {
			continue // malformed template line, skip rather than fail discovery
		}
		expanded := tmpl.Expand(uritemplate.Values{"url": uritemplate.Str(csvURL)})
		resolved, err := resolveRef(csvURL, expanded)
		if err != nil {
			continue
		}
		out = append(out, resolved)
	}
	return out, nil
}

func splitNonEmptyLines(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// WellKnownURL returns the /.well-known/csvm location for the site
// that csvURL belongs to.
func WellKnownURL(csvURL string) (string, error) {
	u, err := url.Parse(csvURL)
	if err != nil {
		return "", err
	}
	u.Path = "/.well-known/csvm"
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
