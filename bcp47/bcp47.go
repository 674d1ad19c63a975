// Package bcp47 validates language tags for CSVW's "lang" inherited
// property. It wraps golang.org/x/text/language rather than hand-rolling
// the BCP47 grammar, per the "BCP47 validator" external collaborator
// named in the specification.
package bcp47

import (
	"fmt"

	"golang.org/x/text/language"
)

// Undetermined is the engine-wide default for the "lang" inherited
// property when no ancestor defines one.
const Undetermined = "und"

// Validate reports whether tag is a well-formed BCP47 language tag.
// The empty string is rejected; callers that want the engine default
// should pass [Undetermined] explicitly.
func Validate(tag string) error {
	if tag == "" {
		return fmt.Errorf("bcp47: empty language tag")
	}
	_, err := language.Parse(tag)
	if err != nil {
		return fmt.Errorf("bcp47: invalid language tag %q: %w", tag, err)
	}
	return nil
}

// Canonical returns the canonicalized form of tag (e.g. "EN-us" ->
// "en-US"), or tag unchanged if it fails to parse.
func Canonical(tag string) string {
	t, err := language.Parse(tag)
	if err != nil {
		return tag
	}
	return t.String()
}
