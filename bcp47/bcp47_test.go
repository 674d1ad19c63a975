package bcp47

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateAcceptsWellFormedTags(t *testing.T) {
	assert.NoError(t, Validate("en"))
	assert.NoError(t, Validate("en-US"))
	assert.NoError(t, Validate(Undetermined))
}

func TestValidateRejectsEmptyTag(t *testing.T) {
	assert.Error(t, Validate(""))
}

func TestValidateRejectsMalformedTag(t *testing.T) {
	assert.Error(t, Validate("this is not a tag"))
}

func TestCanonicalNormalizesCase(t *testing.T) {
	assert.Equal(t, "en-US", Canonical("EN-us"))
}

func TestCanonicalFallsBackOnUnparseableTag(t *testing.T) {
	assert.Equal(t, "!!!", Canonical("!!!"))
}
