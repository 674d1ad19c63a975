package datatype

import (
	"fmt"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/csvw-go/rdf-tabular/metadata"
)

// ValidateFacets checks the length facets against raw (the original
// string, per §4.1) and the range facets against lexical (the
// already-parsed canonical form), reporting the first violation.
func ValidateFacets(dt *metadata.Datatype, raw, lexical string) error {
	if dt == nil {
		return nil
	}
	if err := validateLength(dt, raw); err != nil {
		return err
	}
	return validateRange(dt, lexical)
}

func validateLength(dt *metadata.Datatype, raw string) error {
	n := utf8.RuneCountInString(raw)
	if dt.Length != nil && n != *dt.Length {
		return fmt.Errorf("datatype: length %d, want %d", n, *dt.Length)
	}
	if dt.MinLength != nil && n < *dt.MinLength {
		return fmt.Errorf("datatype: length %d is below minLength %d", n, *dt.MinLength)
	}
	if dt.MaxLength != nil && n > *dt.MaxLength {
		return fmt.Errorf("datatype: length %d is above maxLength %d", n, *dt.MaxLength)
	}
	return nil
}

// validateRange applies the numeric or lexical range facets. minimum
// and maximum are CSVW's aliases for minInclusive and maxInclusive
// (§4.1's facet list groups them together for that reason).
func validateRange(dt *metadata.Datatype, lexical string) error {
	base := metadata.CanonicalBase(dt.Base)
	kind := KindOf(base)

	minInc, maxInc := dt.MinInclusive, dt.MaxInclusive
	if dt.Minimum != nil {
		minInc = dt.Minimum
	}
	if dt.Maximum != nil {
		maxInc = dt.Maximum
	}

	switch kind {
	case KindNumeric:
		return validateNumericRange(lexical, minInc, maxInc, dt.MinExclusive, dt.MaxExclusive)
	case KindDate, KindTime, KindDateTime, KindOther:
		return validateLexicalRange(lexical, minInc, maxInc, dt.MinExclusive, dt.MaxExclusive)
	default:
		return nil
	}
}

func validateNumericRange(lexical string, minInc, maxInc, minExc, maxExc *string) error {
	if lexical == "NaN" || lexical == "INF" || lexical == "-INF" {
		return nil
	}
	v, err := decimal.NewFromString(lexical)
	if err != nil {
		return nil
	}
	if minInc != nil {
		bound, err := decimal.NewFromString(*minInc)
		if err == nil && v.LessThan(bound) {
			return fmt.Errorf("datatype: %s is below minimum %s", lexical, *minInc)
		}
	}
	if maxInc != nil {
		bound, err := decimal.NewFromString(*maxInc)
		if err == nil && v.GreaterThan(bound) {
			return fmt.Errorf("datatype: %s is above maximum %s", lexical, *maxInc)
		}
	}
	if minExc != nil {
		bound, err := decimal.NewFromString(*minExc)
		if err == nil && !v.GreaterThan(bound) {
			return fmt.Errorf("datatype: %s must be greater than %s", lexical, *minExc)
		}
	}
	if maxExc != nil {
		bound, err := decimal.NewFromString(*maxExc)
		if err == nil && !v.LessThan(bound) {
			return fmt.Errorf("datatype: %s must be less than %s", lexical, *maxExc)
		}
	}
	return nil
}

// validateLexicalRange compares canonical ISO-8601-shaped lexical
// forms as strings: valid only because every component is fixed-width
// and zero-padded, which makes lexical order equal to chronological
// order within a single calendar system.
func validateLexicalRange(lexical string, minInc, maxInc, minExc, maxExc *string) error {
	if minInc != nil && lexical < *minInc {
		return fmt.Errorf("datatype: %s is below minimum %s", lexical, *minInc)
	}
	if maxInc != nil && lexical > *maxInc {
		return fmt.Errorf("datatype: %s is above maximum %s", lexical, *maxInc)
	}
	if minExc != nil && lexical <= *minExc {
		return fmt.Errorf("datatype: %s must be greater than %s", lexical, *minExc)
	}
	if maxExc != nil && lexical >= *maxExc {
		return fmt.Errorf("datatype: %s must be less than %s", lexical, *maxExc)
	}
	return nil
}
