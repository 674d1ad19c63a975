package uritemplate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExpandSimple(t *testing.T) {
	tmpl, err := Parse("{+url}-metadata.json")
	assert.NoError(t, err)
	got := tmpl.Expand(Values{"url": Str("http://example.org/a b.csv")})
	assert.Equal(t, "http://example.org/a%20b.csv-metadata.json", got)
}

func TestExpandBuiltins(t *testing.T) {
	tmpl, err := Parse("{#table}#row={_row}")
	assert.NoError(t, err)
	got := tmpl.Expand(Values{"table": Str("x"), "_row": Str("3")})
	assert.Equal(t, "#x#row=3", got)
}

func TestExpandNullRemovesComponent(t *testing.T) {
	tmpl, err := Parse("http://example.org/{gid}/{species}")
	assert.NoError(t, err)
	got := tmpl.Expand(Values{"gid": Str("1"), "species": nil})
	assert.Equal(t, "http://example.org/1/", got)
}

func TestParseRejectsLevel4Modifiers(t *testing.T) {
	_, err := Parse("{list*}")
	assert.Error(t, err)

	_, err = Parse("{var:3}")
	assert.Error(t, err)
}

func TestQueryOperator(t *testing.T) {
	tmpl, err := Parse("{?x,y}")
	assert.NoError(t, err)
	got := tmpl.Expand(Values{"x": Str("1"), "y": Str("")})
	assert.Equal(t, "?x=1&y=", got)
}
