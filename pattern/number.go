// Package pattern implements the UAX#35 number and date/time pattern
// engines CSVW datatypes use for their "format" facet (§4.1, §6.4).
// Parsing never uses floating point for the decimal scaling percent
// and per-mille patterns require; github.com/shopspring/decimal keeps
// the shift exact.
package pattern

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// Number is a compiled UAX#35 number pattern, ready to validate and
// canonicalize lexical values against a fixed (pattern, groupChar,
// decimalChar) triple.
type Number struct {
	re            *regexp.Regexp
	groupChar     string
	decimalChar   string
	hasGrouping   bool
	hasFraction   bool
	hasExponent   bool
	minFracDigits int
	percent       bool
	perMille      bool
	expForceSign  bool
}

type numberKey struct {
	pattern, groupChar, decimalChar string
}

var numberCache sync.Map // numberKey -> *Number or error

// CompileNumber builds (or returns a cached) *Number for pattern under
// the given grouping and decimal separator characters. Compiled
// regexes are cached by the full key since the regex build is
// expensive and the same pattern is reused for every cell in a column
// (§9: "cache compiled regexes by (pattern, groupChar, decimalChar)").
func CompileNumber(pattern, groupChar, decimalChar string) (*Number, error) {
	if groupChar == "" {
		groupChar = ","
	}
	if decimalChar == "" {
		decimalChar = "."
	}
	key := numberKey{pattern, groupChar, decimalChar}
	if v, ok := numberCache.Load(key); ok {
		if n, ok := v.(*Number); ok {
			return n, nil
		}
		return nil, v.(error)
	}
	n, err := buildNumber(pattern, groupChar, decimalChar)
	if err != nil {
		numberCache.Store(key, err)
		return nil, err
	}
	numberCache.Store(key, n)
	return n, nil
}

func buildNumber(pattern, groupChar, decimalChar string) (*Number, error) {
	percent := strings.ContainsRune(pattern, '%')
	perMille := strings.ContainsRune(pattern, '‰')

	runes := []rune(pattern)
	first, last := -1, -1
	for i, r := range runes {
		if r == '0' || r == '#' {
			if first == -1 {
				first = i
			}
			last = i
		}
	}
	if runes2 := findExponentDigits(runes); runes2 > last {
		last = runes2
	}
	if first == -1 {
		return nil, fmt.Errorf("pattern: %q has no digit placeholders", pattern)
	}

	prefix := string(runes[:first])
	core := string(runes[first : last+1])
	suffix := string(runes[last+1:])

	mantissa := core
	expPart := ""
	hasExp := false
	if idx := strings.IndexRune(core, 'E'); idx >= 0 {
		hasExp = true
		mantissa = core[:idx]
		expPart = core[idx+1:]
	}

	intCore := mantissa
	fracCore := ""
	hasFrac := false
	if idx := strings.Index(mantissa, decimalChar); idx >= 0 {
		hasFrac = true
		intCore = mantissa[:idx]
		fracCore = mantissa[idx+len(decimalChar):]
	}

	intRe, hasGrouping, err := buildIntRegex(intCore, groupChar)
	if err != nil {
		return nil, err
	}

	var fracRe string
	minFracDigits := 0
	if hasFrac {
		fracRe = buildFracRegex(fracCore)
		minFracDigits = strings.Count(fracCore, "0")
	}

	expForceSign := strings.HasPrefix(expPart, "+")
	var expRe string
	if hasExp {
		expDigits := strings.TrimPrefix(expPart, "+")
		min := strings.Count(expDigits, "0")
		max := min + strings.Count(expDigits, "#")
		if max == 0 {
			max = min
		}
		expRe = digitCountRegex(min, max)
	}

	var body strings.Builder
	body.WriteString(`-?`)
	body.WriteString(regexp.QuoteMeta(prefix))
	body.WriteString(intRe)
	if hasFrac {
		body.WriteString(regexp.QuoteMeta(decimalChar))
		body.WriteString(fracRe)
	}
	if hasExp {
		body.WriteString(`E[-+]?`)
		body.WriteString(expRe)
	}
	body.WriteString(regexp.QuoteMeta(suffix))

	full := `^(?:NaN|-?INF|` + body.String() + `)$`
	re, err := regexp.Compile(full)
	if err != nil {
		return nil, fmt.Errorf("pattern: failed to compile %q: %w", pattern, err)
	}

	return &Number{
		re:            re,
		groupChar:     groupChar,
		decimalChar:   decimalChar,
		hasGrouping:   hasGrouping,
		hasFraction:   hasFrac,
		hasExponent:   hasExp,
		minFracDigits: minFracDigits,
		percent:       percent,
		perMille:      perMille,
		expForceSign:  expForceSign,
	}, nil
}

func findExponentDigits(runes []rune) int {
	for i, r := range runes {
		if r == 'E' {
			j := i + 1
			if j < len(runes) && runes[j] == '+' {
				j++
			}
			last := j - 1
			for j < len(runes) && (runes[j] == '0' || runes[j] == '#') {
				last = j
				j++
			}
			return last
		}
	}
	return -1
}

// buildIntRegex returns a regex fragment matching the integer part,
// honoring primary/secondary grouping if groupChar appears in core.
func buildIntRegex(core, groupChar string) (string, bool, error) {
	if !strings.Contains(core, groupChar) {
		min := strings.Count(core, "0")
		if min < 1 {
			min = 1
		}
		return digitCountRegex(min, -1), false, nil
	}
	groups := strings.Split(core, groupChar)
	if strings.Count(core, groupChar) > 0 {
		for _, g := range groups {
			if g == "" {
				return "", false, fmt.Errorf("pattern: repeated group separator in %q", core)
			}
		}
	}
	last := groups[len(groups)-1]
	primary := len(last)
	secondary := primary
	if len(groups) >= 3 {
		secondary = len(groups[len(groups)-2])
	}
	q := regexp.QuoteMeta(groupChar)
	re := fmt.Sprintf(`(?:\d{1,%d}(?:%s\d{%d})*%s)?\d{1,%d}`, secondary, q, secondary, q, primary)
	return re, true, nil
}

func buildFracRegex(core string) string {
	min := strings.Count(core, "0")
	max := min + strings.Count(core, "#")
	return digitCountRegex(min, max)
}

func digitCountRegex(min, max int) string {
	if max < 0 {
		if min <= 1 {
			return `\d+`
		}
		return fmt.Sprintf(`\d{%d,}`, min)
	}
	if min == max {
		return fmt.Sprintf(`\d{%d}`, max)
	}
	if min == 0 {
		return fmt.Sprintf(`\d{0,%d}`, max)
	}
	return fmt.Sprintf(`\d{%d,%d}`, min, max)
}

// Parse validates value against the compiled pattern and returns the
// XSD canonical lexical form, or a non-nil error if value does not
// match.
func (n *Number) Parse(value string) (string, error) {
	if !n.re.MatchString(value) {
		return "", fmt.Errorf("pattern: value %q does not match number pattern", value)
	}
	if value == "NaN" || value == "INF" || value == "-INF" {
		return value, nil
	}

	neg := strings.HasPrefix(value, "-")
	if neg {
		value = value[1:]
	}

	mantissa := value
	exponent := ""
	hasExp := false
	if n.hasExponent {
		if idx := strings.IndexByte(value, 'E'); idx >= 0 {
			mantissa = value[:idx]
			exponent = value[idx+1:]
			hasExp = true
		}
	}

	d, err := decimal.NewFromString(normalizeMantissa(mantissa, n))
	if err != nil {
		return "", fmt.Errorf("pattern: %q: %w", value, err)
	}
	if neg {
		d = d.Neg()
	}
	if n.percent {
		d = d.Shift(-2)
	} else if n.perMille {
		d = d.Shift(-3)
	}

	canon := canonicalDecimalString(d, n.minFracDigits)
	if hasExp {
		expSign := ""
		expDigits := exponent
		if strings.HasPrefix(expDigits, "+") {
			expSign = "+"
			expDigits = expDigits[1:]
		} else if strings.HasPrefix(expDigits, "-") {
			expSign = "-"
			expDigits = expDigits[1:]
		} else if n.expForceSign {
			expSign = "+"
		}
		canon = canon + "e" + expSign + expDigits
	}
	return canon, nil
}

// canonicalDecimalString renders d as the XSD canonical decimal
// lexical form: fixed-point, trailing fractional zeros trimmed down to
// (but never below) the pattern's own minimum fraction-digit count,
// and no trailing "." when that count is zero and the fractional part
// is otherwise empty. decimal.String() trims trailing fractional zeros,
// so the padding back up to the pattern's minimum happens here; the
// Shift/Neg arithmetic in Parse is exact and loses no digits.
func canonicalDecimalString(d decimal.Decimal, minFracDigits int) string {
	s := d.String()
	dot := strings.IndexByte(s, '.')
	if dot < 0 {
		if minFracDigits > 0 {
			return s + "." + strings.Repeat("0", minFracDigits)
		}
		return s
	}
	intPart, frac := s[:dot], s[dot+1:]
	for len(frac) > minFracDigits && strings.HasSuffix(frac, "0") {
		frac = frac[:len(frac)-1]
	}
	if len(frac) < minFracDigits {
		frac += strings.Repeat("0", minFracDigits-len(frac))
	}
	if frac == "" {
		return intPart
	}
	return intPart + "." + frac
}

// normalizeMantissa rewrites a matched mantissa into a form
// decimal.NewFromString accepts: group separators removed, the
// pattern's decimalChar replaced with ".".
func normalizeMantissa(s string, n *Number) string {
	if n.hasGrouping && n.groupChar != "" {
		s = strings.ReplaceAll(s, n.groupChar, "")
	}
	if n.hasFraction && n.decimalChar != "." {
		s = strings.Replace(s, n.decimalChar, ".", 1)
	}
	return s
}
