package discovery

import "github.com/csvw-go/rdf-tabular/metadata"

// ApplyContentType overrides fields of d per §6.5's content-type
// recognition rules, returning the adjusted EffectiveDialect. A
// Dialect/metadata value set explicitly always wins over a bare
// recognition default, so this is meant to be applied before any
// metadata-declared Dialect, not after: callers resolve the
// metadata.Dialect last so it can still override tab-forcing or
// header=absent when a document is explicit about it.
func ApplyContentType(d metadata.EffectiveDialect, ct ContentType) metadata.EffectiveDialect {
	if ct.ForceTab {
		d.Delimiter = "\t"
	}
	if ct.HeaderAbsent {
		d.Header = false
		d.HeaderRowCount = 0
	}
	return d
}
