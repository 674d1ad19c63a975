package metadata

import "fmt"

// Trim is the Dialect.trim property's closed value set (§4.2).
type Trim string

const (
	TrimTrue  Trim = "true"
	TrimFalse Trim = "false"
	TrimStart Trim = "start"
	TrimEnd   Trim = "end"
)

// Dialect holds CSV tokenization parameters (§3, §4.2). Pointer fields
// distinguish "unset" (falls through to the §4.2 default) from an
// explicit value, since several defaults are conditional (headerRowCount
// depends on header).
type Dialect struct {
	Delimiter        *string
	QuoteChar        *string // nil means the default `"`; an empty string disables quoting
	DoubleQuote      *bool
	LineTerminators  []string
	Encoding         *string
	Header           *bool
	HeaderRowCount    *int
	SkipRows         *int
	SkipColumns      *int
	SkipBlankRows    *bool
	SkipInitialSpace *bool
	Trim             *Trim
	CommentPrefix    *string

	Common CommonProperties
}

func (d *Dialect) Kind() NodeKind { return KindDialect }

// recognizedDialectKeys is the closed set from §6.2. json tag names as
// they appear in a CSVW metadata document.
var recognizedDialectKeys = map[string]bool{
	"delimiter":        true,
	"quoteChar":        true,
	"doubleQuote":      true,
	"lineTerminators":  true,
	"encoding":         true,
	"header":           true,
	"headerRowCount":   true,
	"skipRows":         true,
	"skipColumns":      true,
	"skipBlankRows":    true,
	"skipInitialSpace": true,
	"trim":             true,
	"commentPrefix":    true,
	"@type":            true,
}

// ValidateDialectKeys reports an error for any key not in the closed
// set §6.2 recognizes.
func ValidateDialectKeys(raw map[string]any) error {
	for k := range raw {
		if k == "@id" || k == "@context" {
			continue
		}
		if !recognizedDialectKeys[k] {
			return fmt.Errorf("dialect: unrecognized key %q", k)
		}
	}
	return nil
}

// EffectiveDialect is a Dialect with every §4.2 default applied, ready
// for the dialect engine to drive tokenization from.
type EffectiveDialect struct {
	Delimiter        string
	QuoteChar        string
	QuotingDisabled  bool
	DoubleQuote      bool
	LineTerminators  []string
	Encoding         string
	Header           bool
	HeaderRowCount   int
	SkipRows         int
	SkipColumns      int
	SkipBlankRows    bool
	SkipInitialSpace bool
	Trim             Trim
	CommentPrefix    string
	HasCommentPrefix bool
}

// Resolve applies §4.2's defaults over d (which may be nil, meaning
// "use an all-default Dialect").
func (d *Dialect) Resolve() EffectiveDialect {
	e := EffectiveDialect{
		Delimiter:       ",",
		QuoteChar:       "\"",
		DoubleQuote:     true,
		LineTerminators: []string{"\r\n", "\n"},
		Encoding:        "utf-8",
		Header:          true,
		SkipInitialSpace: false,
		Trim:            TrimTrue,
		SkipBlankRows:   false,
	}
	e.HeaderRowCount = 1

	if d == nil {
		return e
	}

	if d.Delimiter != nil {
		e.Delimiter = *d.Delimiter
	}
	if d.QuoteChar != nil {
		e.QuoteChar = *d.QuoteChar
		e.QuotingDisabled = *d.QuoteChar == ""
	}
	if d.DoubleQuote != nil {
		e.DoubleQuote = *d.DoubleQuote
	}
	if d.LineTerminators != nil {
		e.LineTerminators = d.LineTerminators
	}
	if d.Encoding != nil {
		e.Encoding = *d.Encoding
	}
	if d.Header != nil {
		e.Header = *d.Header
	}
	if d.HeaderRowCount != nil {
		e.HeaderRowCount = *d.HeaderRowCount
	} else if d.Header != nil && !*d.Header {
		e.HeaderRowCount = 0
	}
	if d.SkipRows != nil {
		e.SkipRows = *d.SkipRows
	}
	if d.SkipColumns != nil {
		e.SkipColumns = *d.SkipColumns
	}
	if d.SkipBlankRows != nil {
		e.SkipBlankRows = *d.SkipBlankRows
	}
	if d.SkipInitialSpace != nil {
		e.SkipInitialSpace = *d.SkipInitialSpace
		if e.SkipInitialSpace {
			start := TrimStart
			e.Trim = start
		}
	}
	if d.Trim != nil {
		e.Trim = *d.Trim
	}
	if d.CommentPrefix != nil {
		e.CommentPrefix = *d.CommentPrefix
		e.HasCommentPrefix = true
	}
	return e
}

// Clone returns a deep-enough copy of d for merge purposes.
func (d *Dialect) Clone() *Dialect {
	if d == nil {
		return nil
	}
	cp := *d
	cp.Delimiter = clonePtr(d.Delimiter)
	cp.QuoteChar = clonePtr(d.QuoteChar)
	cp.DoubleQuote = clonePtr(d.DoubleQuote)
	if d.LineTerminators != nil {
		cp.LineTerminators = append([]string(nil), d.LineTerminators...)
	}
	cp.Encoding = clonePtr(d.Encoding)
	cp.Header = clonePtr(d.Header)
	cp.HeaderRowCount = clonePtr(d.HeaderRowCount)
	cp.SkipRows = clonePtr(d.SkipRows)
	cp.SkipColumns = clonePtr(d.SkipColumns)
	cp.SkipBlankRows = clonePtr(d.SkipBlankRows)
	cp.SkipInitialSpace = clonePtr(d.SkipInitialSpace)
	cp.Trim = clonePtr(d.Trim)
	cp.CommentPrefix = clonePtr(d.CommentPrefix)
	cp.Common = d.Common.Clone()
	return &cp
}
