package jsonldctx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandBareTerm(t *testing.T) {
	iri, ok := Expand("rownum")
	assert.True(t, ok)
	assert.Equal(t, "http://www.w3.org/ns/csvw#rownum", iri)
}

func TestExpandCURIE(t *testing.T) {
	iri, ok := Expand("dc:title")
	assert.True(t, ok)
	assert.Equal(t, "http://purl.org/dc/terms/title", iri)
}

func TestExpandAbsoluteIRIUnchanged(t *testing.T) {
	iri, ok := Expand("https://example.org/ns#foo")
	assert.True(t, ok)
	assert.Equal(t, "https://example.org/ns#foo", iri)
}

func TestExpandUnknownPrefixFails(t *testing.T) {
	_, ok := Expand("bogus:title")
	assert.False(t, ok)
}

func TestExpandBareUnknownTermFails(t *testing.T) {
	_, ok := Expand("notAKnownTerm")
	assert.False(t, ok)
}

func TestCompactIsExpandsInverseForKnownTerms(t *testing.T) {
	term, ok := Compact("http://www.w3.org/ns/csvw#rownum")
	assert.True(t, ok)
	assert.Equal(t, "rownum", term)
}

func TestCompactFailsForArbitraryIRI(t *testing.T) {
	_, ok := Compact("https://example.org/data.csv#id")
	assert.False(t, ok)
}
