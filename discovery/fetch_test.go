package discovery

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribedByParsesRelLink(t *testing.T) {
	h := http.Header{}
	h.Add("Link", `<data.csv-metadata.json>; rel="describedby"`)
	target, ok := DescribedBy(h, "https://example.org/data.csv")
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/data.csv-metadata.json", target)
}

func TestDescribedByIgnoresOtherRel(t *testing.T) {
	h := http.Header{}
	h.Add("Link", `<other.json>; rel="alternate"`)
	_, ok := DescribedBy(h, "https://example.org/data.csv")
	assert.False(t, ok)
}

func TestDescribedByMultipleLinksInOneHeader(t *testing.T) {
	h := http.Header{}
	h.Add("Link", `<alt.json>; rel="alternate", <meta.json>; rel="describedby"`)
	target, ok := DescribedBy(h, "https://example.org/data.csv")
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/meta.json", target)
}

func TestParseContentTypeTabForced(t *testing.T) {
	ct := ParseContentType("text/tab-separated-values; charset=utf-8")
	assert.True(t, ct.ForceTab)
	assert.Equal(t, "utf-8", ct.Charset)
}

func TestParseContentTypeHeaderAbsent(t *testing.T) {
	ct := ParseContentType(`text/csv; header=absent`)
	assert.True(t, ct.HeaderAbsent)
}

func TestParseContentTypeCSVM(t *testing.T) {
	ct := ParseContentType("application/csvm+json")
	assert.Equal(t, "application/csvm+json", ct.Type)
}
