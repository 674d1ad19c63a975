package csvwerr

import (
	"errors"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
)

func TestDowngradableParseAndSchemaMismatch(t *testing.T) {
	assert.True(t, Downgradable(&ParseError{Column: "a", Value: "x"}))
	assert.True(t, Downgradable(&SchemaMismatchError{Table: "t", Expected: 2, Got: 1}))
}

func TestDowngradableRejectsOtherKinds(t *testing.T) {
	assert.False(t, Downgradable(&MetadataError{Msg: "bad"}))
	assert.False(t, Downgradable(&ForeignKeyError{Table: "t"}))
	assert.False(t, Downgradable(errors.New("plain")))
}

func TestAllDowngradableUnwrapsMultierror(t *testing.T) {
	var errs *multierror.Error
	errs = multierror.Append(errs, &ParseError{Column: "a"})
	errs = multierror.Append(errs, &SchemaMismatchError{Table: "t"})
	assert.True(t, AllDowngradable(errs.ErrorOrNil()))
}

func TestAllDowngradableFailsIfAnyWrappedErrorIsNot(t *testing.T) {
	var errs *multierror.Error
	errs = multierror.Append(errs, &ParseError{Column: "a"})
	errs = multierror.Append(errs, &MetadataError{Msg: "bad"})
	assert.False(t, AllDowngradable(errs.ErrorOrNil()))
}

func TestAllDowngradableFallsBackToDowngradableForBareError(t *testing.T) {
	assert.True(t, AllDowngradable(&ParseError{Column: "a"}))
	assert.False(t, AllDowngradable(errors.New("plain")))
}
