package datatype

import (
	"fmt"
	"math/big"
	"net/url"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/pattern"
)

var (
	integerRe    = regexp.MustCompile(`^[+-]?\d+$`)
	decimalRe    = regexp.MustCompile(`^[+-]?\d+(\.\d+)?$`)
	floatRe      = regexp.MustCompile(`^[+-]?(\d+(\.\d+)?([eE][+-]?\d+)?)$`)
	dateRe       = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}$`)
	timeRe       = regexp.MustCompile(`^\d{2}:\d{2}:\d{2}(\.\d+)?$`)
	dateTimeRe   = regexp.MustCompile(`^-?\d{4,}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(\.\d+)?$`)
	tzSuffixStrip = regexp.MustCompile(`(Z|[+-]\d{2}:\d{2})$`)
	durationRe   = regexp.MustCompile(`^-?P(\d+Y)?(\d+M)?(\d+D)?(T(\d+H)?(\d+M)?(\d+(\.\d+)?S)?)?$`)
	hexBinaryRe  = regexp.MustCompile(`^([0-9a-fA-F]{2})*$`)
	base64Re     = regexp.MustCompile(`^[A-Za-z0-9+/]*={0,2}$`)
	gYearRe      = regexp.MustCompile(`^-?\d{4,}$`)
	gYearMonthRe = regexp.MustCompile(`^-?\d{4,}-\d{2}$`)
	gMonthDayRe  = regexp.MustCompile(`^--\d{2}-\d{2}$`)
	gDayRe       = regexp.MustCompile(`^---\d{2}$`)
	gMonthRe     = regexp.MustCompile(`^--\d{2}$`)
)

// Parse converts a Cell's raw sub-value into its XSD canonical
// lexical form per dt, using the format facet (via package pattern)
// when present and a default lexical check otherwise (§4.1).
func Parse(dt *metadata.Datatype, raw string) (string, error) {
	if dt == nil {
		dt = metadata.DefaultDatatype()
	}
	base := metadata.CanonicalBase(dt.Base)
	kind := KindOf(base)

	if dt.NumberFormat != nil && kind == KindNumeric {
		np, err := pattern.CompileNumber(dt.NumberFormat.Pattern, dt.NumberFormat.GroupChar, dt.NumberFormat.DecimalChar)
		if err != nil {
			return "", err
		}
		return np.Parse(raw)
	}
	if dt.Format != nil && (kind == KindDate || kind == KindTime || kind == KindDateTime) {
		dp, err := pattern.CompileDateTime(*dt.Format)
		if err != nil {
			return "", err
		}
		return dp.Parse(raw)
	}
	if dt.Format != nil && kind == KindString {
		re, err := regexp.Compile(*dt.Format)
		if err != nil {
			return "", fmt.Errorf("datatype: invalid format regex %q: %w", *dt.Format, err)
		}
		if !re.MatchString(raw) {
			return "", fmt.Errorf("datatype: %q does not match format %q", raw, *dt.Format)
		}
		return raw, nil
	}

	switch kind {
	case KindString:
		return raw, nil
	case KindBoolean:
		return parseBoolean(raw)
	case KindNumeric:
		return parseNumeric(base, raw)
	case KindDate:
		return matchCanonical(dateRe, raw)
	case KindTime:
		return matchCanonical(timeRe, raw)
	case KindDateTime:
		return matchCanonical(dateTimeRe, raw)
	case KindDuration:
		return matchCanonical(durationRe, raw)
	case KindBinary:
		return parseBinary(base, raw)
	case KindURI:
		if _, err := url.Parse(raw); err != nil {
			return "", fmt.Errorf("datatype: %q is not a valid URI: %w", raw, err)
		}
		return raw, nil
	default:
		return parseOther(base, raw)
	}
}

func matchCanonical(re *regexp.Regexp, raw string) (string, error) {
	body := tzSuffixStrip.ReplaceAllString(raw, "")
	tz := raw[len(body):]
	if !re.MatchString(body) {
		return "", fmt.Errorf("datatype: %q does not match the expected lexical form", raw)
	}
	return body + tz, nil
}

func parseBoolean(raw string) (string, error) {
	switch raw {
	case "true", "1":
		return "true", nil
	case "false", "0":
		return "false", nil
	default:
		return "", fmt.Errorf("datatype: %q is not a valid boolean", raw)
	}
}

func parseOther(base, raw string) (string, error) {
	switch base {
	case "gYear":
		return matchCanonical(gYearRe, raw)
	case "gYearMonth":
		return matchCanonical(gYearMonthRe, raw)
	case "gMonthDay":
		return matchCanonical(gMonthDayRe, raw)
	case "gDay":
		return matchCanonical(gDayRe, raw)
	case "gMonth":
		return matchCanonical(gMonthRe, raw)
	case "xml", "html", "json":
		return raw, nil
	default:
		return raw, nil
	}
}

func parseBinary(base, raw string) (string, error) {
	switch base {
	case "hexBinary":
		if !hexBinaryRe.MatchString(raw) {
			return "", fmt.Errorf("datatype: %q is not valid hexBinary", raw)
		}
		return strings.ToLower(raw), nil
	case "base64Binary":
		if !base64Re.MatchString(strings.ReplaceAll(raw, "\n", "")) {
			return "", fmt.Errorf("datatype: %q is not valid base64Binary", raw)
		}
		return raw, nil
	default:
		return raw, nil
	}
}

func parseNumeric(base, raw string) (string, error) {
	if base == "float" || base == "double" {
		if raw == "NaN" || raw == "INF" || raw == "-INF" {
			return raw, nil
		}
		if !floatRe.MatchString(raw) {
			return "", fmt.Errorf("datatype: %q is not a valid %s", raw, base)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return "", err
		}
		return trimTrailingZeros(d.String()), nil
	}

	if base == "decimal" {
		if !decimalRe.MatchString(raw) {
			return "", fmt.Errorf("datatype: %q is not a valid decimal", raw)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return "", err
		}
		return trimTrailingZeros(d.String()), nil
	}

	// Integer and its derived types: exact arithmetic via math/big so
	// unsignedLong's range (up to 2^64-1) never overflows.
	if !integerRe.MatchString(raw) {
		return "", fmt.Errorf("datatype: %q is not a valid %s", raw, base)
	}
	n := new(big.Int)
	if _, ok := n.SetString(raw, 10); !ok {
		return "", fmt.Errorf("datatype: %q is not a valid integer", raw)
	}
	if bounds, ok := integerRanges[base]; ok {
		if err := checkIntegerRange(n, bounds); err != nil {
			return "", fmt.Errorf("datatype: %q: %w", raw, err)
		}
	}
	return n.String(), nil
}

func checkIntegerRange(n *big.Int, bounds [2]string) error {
	if bounds[0] != "-infinity" {
		min := new(big.Int)
		min.SetString(bounds[0], 10)
		if n.Cmp(min) < 0 {
			return fmt.Errorf("below minimum %s", bounds[0])
		}
	}
	if bounds[1] != "infinity" {
		max := new(big.Int)
		max.SetString(bounds[1], 10)
		if n.Cmp(max) > 0 {
			return fmt.Errorf("above maximum %s", bounds[1])
		}
	}
	return nil
}

func trimTrailingZeros(s string) string {
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
