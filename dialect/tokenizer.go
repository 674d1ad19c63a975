// Package dialect implements the CSV tokenizer driven by a resolved
// metadata.EffectiveDialect (§4.2). encoding/csv hardcodes a
// single-byte comma delimiter and a fixed quoting/escaping scheme, so
// it cannot express an arbitrary delimiter, a disabled quoteChar, or
// backslash escaping — this package hand-rolls the rune-level scanner
// those dialects require.
package dialect

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/csvw-go/rdf-tabular/metadata"
)

// Reader tokenizes a byte stream into logical rows per an
// EffectiveDialect: splitting on lineTerminators (honoring quotes),
// then on delimiter within each row (honoring quoteChar/doubleQuote),
// trimming, comment extraction, and blank-row/column skipping.
type Reader struct {
	d       metadata.EffectiveDialect
	br      *bufio.Reader
	line    int // source lines read so far; a terminator inside a quoted field does not count
	rowNum  int // 1-based logical row counter, after comment/blank filtering
	skipped int // physical rows skipped so far toward d.SkipRows
	done    bool

	// Comments accumulates commentPrefix lines encountered so far,
	// in order, for attachment to the enclosing Table's notes (§4.2).
	Comments []string

	// SourceLine is the 1-based source line number of the row most
	// recently returned by ReadRow, counting header/skipped/comment/
	// blank lines too; a line terminator inside a quoted field does not
	// start a new source line. Used for the row engine's "_sourceRow" URI
	// template built-in (§4.6), which is distinct from rownum (counted
	// only over accepted data rows).
	SourceLine int
}

// NewReader wraps r, stripping a leading UTF-8 BOM if present.
func NewReader(r io.Reader, d metadata.EffectiveDialect) *Reader {
	br := bufio.NewReader(r)
	peek, err := br.Peek(3)
	if err == nil && len(peek) == 3 && peek[0] == 0xEF && peek[1] == 0xBB && peek[2] == 0xBF {
		br.Discard(3)
	}
	return &Reader{d: d, br: br}
}

// ReadRow returns the next logical data row's cells (after comment
// extraction, skipRows, trim, skipBlankRows, and skipColumns have all
// been applied), or io.EOF when the stream is exhausted.
func (r *Reader) ReadRow() ([]string, error) {
	for {
		raw, err := r.readLogicalLine()
		if err != nil {
			return nil, err
		}
		if raw == nil {
			return nil, io.EOF
		}

		line := string(raw)

		if r.skipped < r.d.SkipRows {
			r.skipped++
			r.maybeCapture(line)
			continue
		}

		if r.d.HasCommentPrefix && r.d.CommentPrefix != "" {
			trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
			if strings.HasPrefix(trimmed, r.d.CommentPrefix) {
				r.Comments = append(r.Comments, strings.TrimSpace(strings.TrimPrefix(trimmed, r.d.CommentPrefix)))
				continue
			}
		}

		fields := r.splitFields(line)
		for i := range fields {
			fields[i] = r.applyTrim(fields[i])
		}

		if r.d.SkipBlankRows && allEmpty(fields) {
			continue
		}

		if r.d.SkipColumns > 0 && r.d.SkipColumns < len(fields) {
			fields = fields[r.d.SkipColumns:]
		} else if r.d.SkipColumns >= len(fields) {
			fields = nil
		}

		r.rowNum++
		r.SourceLine = r.line
		return fields, nil
	}
}

func (r *Reader) maybeCapture(line string) {
	if !r.d.HasCommentPrefix || r.d.CommentPrefix == "" {
		return
	}
	trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
	if strings.HasPrefix(trimmed, r.d.CommentPrefix) {
		r.Comments = append(r.Comments, strings.TrimSpace(strings.TrimPrefix(trimmed, r.d.CommentPrefix)))
	}
}

// readLogicalLine reads runes until it finds one of d.LineTerminators
// outside of a quoted field, or EOF. Returns nil, nil at a clean EOF
// with nothing left to read.
func (r *Reader) readLogicalLine() ([]byte, error) {
	if r.done {
		return nil, nil
	}
	var buf strings.Builder
	inQuotes := false
	quote := r.d.QuoteChar
	hasQuote := quote != "" && !r.d.QuotingDisabled

	for {
		if !inQuotes {
			if term, ok := r.peekTerminator(); ok {
				r.br.Discard(len(term))
				r.line++
				return []byte(buf.String()), nil
			}
		}

		ru, _, err := r.br.ReadRune()
		if err != nil {
			if err == io.EOF {
				r.done = true
				if buf.Len() == 0 {
					return nil, nil
				}
				r.line++
				return []byte(buf.String()), nil
			}
			return nil, fmt.Errorf("dialect: read error at line %d: %w", r.line+1, err)
		}

		if hasQuote && string(ru) == quote {
			if inQuotes {
				if r.d.DoubleQuote {
					if peek, err := r.br.Peek(len(quote)); err == nil && string(peek) == quote {
						r.br.Discard(len(quote))
						buf.WriteRune(ru)
						buf.WriteRune(ru)
						continue
					}
				}
				inQuotes = false
				buf.WriteRune(ru)
				continue
			}
			inQuotes = true
			buf.WriteRune(ru)
			continue
		}

		buf.WriteRune(ru)
	}
}

// peekTerminator reports whether the reader's next bytes are one of
// d.LineTerminators, trying longer candidates first so "\r\n" is
// preferred over a lone "\r" when both are configured.
func (r *Reader) peekTerminator() (string, bool) {
	best := ""
	for _, term := range r.d.LineTerminators {
		if len(term) <= len(best) {
			continue
		}
		peek, err := r.br.Peek(len(term))
		if err != nil || string(peek) != term {
			continue
		}
		best = term
	}
	if best == "" {
		return "", false
	}
	return best, true
}

// splitFields splits a logical row on delimiter, honoring quoteChar
// and doubleQuote/backslash escaping within the row.
func (r *Reader) splitFields(line string) []string {
	delim := r.d.Delimiter
	quote := r.d.QuoteChar
	hasQuote := quote != "" && !r.d.QuotingDisabled

	var fields []string
	var cur strings.Builder
	inQuotes := false
	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		ru := runes[i]
		if hasQuote && inQuotes {
			if string(ru) == quote {
				if r.d.DoubleQuote && i+1 < len(runes) && string(runes[i+1]) == quote {
					cur.WriteRune(ru)
					i++
					continue
				}
				if !r.d.DoubleQuote && ru == '\\' && i+1 < len(runes) {
					cur.WriteRune(runes[i+1])
					i++
					continue
				}
				inQuotes = false
				continue
			}
			cur.WriteRune(ru)
			continue
		}
		if hasQuote && string(ru) == quote && cur.Len() == 0 {
			inQuotes = true
			continue
		}
		if matchesAt(runes, i, delim) {
			fields = append(fields, cur.String())
			cur.Reset()
			i += utf8.RuneCountInString(delim) - 1
			continue
		}
		cur.WriteRune(ru)
	}
	fields = append(fields, cur.String())
	return fields
}

func matchesAt(runes []rune, i int, s string) bool {
	sr := []rune(s)
	if i+len(sr) > len(runes) {
		return false
	}
	for j, r := range sr {
		if runes[i+j] != r {
			return false
		}
	}
	return true
}

func (r *Reader) applyTrim(s string) string {
	switch r.d.Trim {
	case metadata.TrimTrue:
		return strings.TrimSpace(s)
	case metadata.TrimStart:
		return strings.TrimLeftFunc(s, unicode.IsSpace)
	case metadata.TrimEnd:
		return strings.TrimRightFunc(s, unicode.IsSpace)
	default:
		return s
	}
}

func allEmpty(fields []string) bool {
	for _, f := range fields {
		if f != "" {
			return false
		}
	}
	return true
}
