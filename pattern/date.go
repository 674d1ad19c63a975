package pattern

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// dateLayouts enumerates the §6.4 recognized date patterns, each
// mapped to the equivalent Go reference-time layout used to parse it.
// "/" and "." separator variants are generated from the "-" forms.
var dateLayouts = buildDateLayouts()

var timeLayouts = map[string]string{
	"HH:mm:ss":  "15:04:05",
	"HHmmss":    "150405",
	"HH:mm":     "15:04",
	"HHmm":      "1504",
}

func buildDateLayouts() map[string]string {
	base := map[string]string{
		"yyyy-MM-dd": "2006-01-02",
		"yyyyMMdd":   "20060102",
		"dd-MM-yyyy": "02-01-2006",
		"d-M-yyyy":   "2-1-2006",
		"d-M-yy":     "2-1-06",
		"MM-dd-yyyy": "01-02-2006",
		"M-d-yyyy":   "1-2-2006",
		"M-d-yy":     "1-2-06",
	}
	out := make(map[string]string, len(base)*3)
	for k, v := range base {
		out[k] = v
		slash := strings.ReplaceAll(k, "-", "/")
		out[slash] = strings.ReplaceAll(v, "-", "/")
		dot := strings.ReplaceAll(k, "-", ".")
		out[dot] = strings.ReplaceAll(v, "-", ".")
	}
	// "d-M-y" / "M-d-y": a two-or-more digit year, not fixed-width, so
	// these are handled specially rather than via a reference layout.
	return out
}

// Kind distinguishes what shape of value a DateTime pattern produces.
type Kind int

const (
	KindDate Kind = iota
	KindTime
	KindDateTime
)

// DateTime is a compiled UAX#35 date/time pattern.
type DateTime struct {
	kind       Kind
	datePart   string // key into dateLayouts, or "" if time-only
	timePart   string // key into timeLayouts, or "" if date-only
	fracDigits int     // count of "S" after "." in the time pattern; 0 rejects fractional seconds, any other value accepts any digit count
	hasTZ      bool
	sep        string // "T" or " " joining date and time in a datetime pattern
	shortYear  bool   // pattern ends in "-y"/"/y"/".y": variable-width year, needs expansion
}

var tzSuffixRe = regexp.MustCompile(`(xxx|XXX|xx|XX|x|X)$`)

// CompileDateTime parses a §6.4 pattern string into a *DateTime.
func CompileDateTime(raw string) (*DateTime, error) {
	pattern := raw
	hasTZ := false
	if m := tzSuffixRe.FindString(pattern); m != "" {
		hasTZ = true
		pattern = strings.TrimSuffix(pattern, m)
	}

	dt := &DateTime{hasTZ: hasTZ}

	if idx := strings.IndexAny(pattern, "T "); idx >= 0 && looksLikeDatePrefix(pattern[:idx]) {
		dt.kind = KindDateTime
		dt.datePart = pattern[:idx]
		dt.sep = string(pattern[idx])
		dt.timePart = pattern[idx+1:]
	} else if looksLikeTimePattern(pattern) {
		dt.kind = KindTime
		dt.timePart = pattern
	} else {
		dt.kind = KindDate
		dt.datePart = pattern
	}

	if dt.datePart != "" {
		if strings.HasSuffix(dt.datePart, "-y") || strings.HasSuffix(dt.datePart, "/y") || strings.HasSuffix(dt.datePart, ".y") {
			dt.shortYear = true
		} else if _, ok := dateLayouts[dt.datePart]; !ok {
			return nil, fmt.Errorf("pattern: unrecognized date pattern %q", dt.datePart)
		}
	}
	if dt.timePart != "" {
		core := dt.timePart
		if idx := strings.Index(core, "."); idx >= 0 {
			frac := strings.TrimPrefix(core[idx:], ".")
			dt.fracDigits = strings.Count(frac, "S")
			core = core[:idx]
		}
		if _, ok := timeLayouts[core]; !ok {
			return nil, fmt.Errorf("pattern: unrecognized time pattern %q", dt.timePart)
		}
		dt.timePart = core
	}

	return dt, nil
}

func looksLikeDatePrefix(s string) bool {
	_, ok := dateLayouts[s]
	return ok || strings.HasSuffix(s, "-y") || strings.HasSuffix(s, "/y") || strings.HasSuffix(s, ".y")
}

func looksLikeTimePattern(s string) bool {
	core := s
	if idx := strings.Index(core, "."); idx >= 0 {
		core = core[:idx]
	}
	_, ok := timeLayouts[core]
	return ok
}

// Parse validates value against the compiled pattern and returns the
// XSD canonical lexical form (§4.1): "YYYY-MM-DD", "HH:MM:SS[.sss]",
// or the datetime combination, with any timezone suffix normalized to
// "Z" or "±HH:MM".
func (dt *DateTime) Parse(value string) (string, error) {
	rest := value
	tz := ""
	if dt.hasTZ {
		var err error
		rest, tz, err = splitTimezone(rest)
		if err != nil {
			return "", err
		}
	}

	var datePortion, timePortion string
	switch dt.kind {
	case KindDate:
		datePortion = rest
	case KindTime:
		timePortion = rest
	case KindDateTime:
		idx := strings.IndexAny(rest, "T ")
		if idx < 0 {
			return "", fmt.Errorf("pattern: %q is missing the date/time separator", value)
		}
		datePortion = rest[:idx]
		timePortion = rest[idx+1:]
	}

	var canonDate, canonTime string
	var err error
	if datePortion != "" {
		canonDate, err = dt.parseDatePortion(datePortion)
		if err != nil {
			return "", err
		}
	}
	if timePortion != "" {
		canonTime, err = dt.parseTimePortion(timePortion)
		if err != nil {
			return "", err
		}
	}

	switch dt.kind {
	case KindDate:
		return canonDate + tz, nil
	case KindTime:
		return canonTime + tz, nil
	default:
		return canonDate + "T" + canonTime + tz, nil
	}
}

func (dt *DateTime) parseDatePortion(value string) (string, error) {
	if dt.shortYear {
		return parseShortYearDate(dt.datePart, value)
	}
	layout, ok := dateLayouts[dt.datePart]
	if !ok {
		return "", fmt.Errorf("pattern: unrecognized date pattern %q", dt.datePart)
	}
	y, m, d, err := parseWithLayout(layout, value)
	if err != nil {
		return "", fmt.Errorf("pattern: %q does not match %q: %w", value, dt.datePart, err)
	}
	return fmt.Sprintf("%04d-%02d-%02d", y, m, d), nil
}

func (dt *DateTime) parseTimePortion(value string) (string, error) {
	core := value
	var frac string
	if idx := strings.Index(value, "."); idx >= 0 {
		core = value[:idx]
		frac = value[idx+1:]
		if dt.fracDigits == 0 {
			return "", fmt.Errorf("pattern: %q does not accept fractional seconds", value)
		}
		for _, r := range frac {
			if r < '0' || r > '9' {
				return "", fmt.Errorf("pattern: %q has a non-digit fractional-second component", value)
			}
		}
	}

	var h, mi, s int
	var err error
	switch dt.timePart {
	case "HH:mm:ss":
		h, mi, s, err = splitFixedWidth2(core, ":", ":")
	case "HHmmss":
		h, mi, s, err = splitFixedWidth2(core, "", "")
	case "HH:mm":
		h, mi, err = splitFixedWidth1(core, ":")
		s = 0
	case "HHmm":
		h, mi, err = splitFixedWidth1(core, "")
		s = 0
	default:
		return "", fmt.Errorf("pattern: unrecognized time pattern %q", dt.timePart)
	}
	if err != nil {
		return "", fmt.Errorf("pattern: %q does not match %q: %w", value, dt.timePart, err)
	}
	if h > 24 || mi > 59 || s > 60 {
		return "", fmt.Errorf("pattern: %q is out of range", value)
	}

	out := fmt.Sprintf("%02d:%02d:%02d", h, mi, s)
	if frac != "" {
		out += "." + frac
	}
	return out, nil
}

// splitFixedWidth2 parses a three-field 2-digit-per-field value such
// as "13:04:05" (sep1=":", sep2=":") or "130405" (sep1=sep2="").
func splitFixedWidth2(s, sep1, sep2 string) (a, b, c int, err error) {
	if sep1 == "" {
		if len(s) != 6 {
			return 0, 0, 0, fmt.Errorf("expected 6 digits, got %q", s)
		}
		a, err = strconv.Atoi(s[0:2])
		if err != nil {
			return
		}
		b, err = strconv.Atoi(s[2:4])
		if err != nil {
			return
		}
		c, err = strconv.Atoi(s[4:6])
		return
	}
	parts := strings.Split(s, sep1)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("field count mismatch in %q", s)
	}
	a, err = strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	b, err = strconv.Atoi(parts[1])
	if err != nil {
		return
	}
	c, err = strconv.Atoi(parts[2])
	return
}

// splitFixedWidth1 parses a two-field 2-digit-per-field value such as
// "13:04" (sep=":") or "1304" (sep="").
func splitFixedWidth1(s, sep string) (a, b int, err error) {
	if sep == "" {
		if len(s) != 4 {
			return 0, 0, fmt.Errorf("expected 4 digits, got %q", s)
		}
		a, err = strconv.Atoi(s[0:2])
		if err != nil {
			return
		}
		b, err = strconv.Atoi(s[2:4])
		return
	}
	parts := strings.Split(s, sep)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("field count mismatch in %q", s)
	}
	a, err = strconv.Atoi(parts[0])
	if err != nil {
		return
	}
	b, err = strconv.Atoi(parts[1])
	return
}

// parseWithLayout parses value against a Go reference-time layout
// built from the fixed-width §6.4 date patterns, returning the
// numeric year/month/day components (not time.Time, since years
// outside Go's supported range and the §4.1 year-expansion rule don't
// fit time.Parse's model).
func parseWithLayout(layout, value string) (year, month, day int, err error) {
	litems := splitLayout(layout)
	vitems, err := splitValueLikeLayout(layout, value)
	if err != nil {
		return 0, 0, 0, err
	}
	if len(litems) != len(vitems) {
		return 0, 0, 0, fmt.Errorf("field count mismatch")
	}
	for i, tok := range litems {
		n, convErr := strconv.Atoi(vitems[i])
		if convErr != nil {
			return 0, 0, 0, convErr
		}
		switch tok {
		case "2006":
			year = n
		case "06":
			year = expandTwoDigitYear(n)
		case "01", "1":
			month = n
		case "02", "2":
			day = n
		}
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return 0, 0, 0, fmt.Errorf("out of range")
	}
	return year, month, day, nil
}

// parseShortYearDate handles the "d-M-y"/"M-d-y" family, whose year
// component has no fixed width and is expanded per §4.1's rule once
// its digit count is known.
func parseShortYearDate(pattern, value string) (string, error) {
	sep := "-"
	if strings.Contains(pattern, "/") {
		sep = "/"
	} else if strings.Contains(pattern, ".") {
		sep = "."
	}
	fields := strings.Split(value, sep)
	if len(fields) != 3 {
		return "", fmt.Errorf("pattern: %q does not match %q", value, pattern)
	}
	first, second, yearStr := fields[0], fields[1], fields[2]
	var dayStr, monthStr string
	if strings.HasPrefix(pattern, "d") {
		dayStr, monthStr = first, second
	} else {
		monthStr, dayStr = first, second
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		return "", err
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return "", err
	}
	yearNum, err := strconv.Atoi(yearStr)
	if err != nil {
		return "", err
	}
	year := expandYear(yearNum, len(yearStr))
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return "", fmt.Errorf("pattern: %q is out of range", value)
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day), nil
}

// expandYear applies §4.1's rule for a year component shorter than 4
// digits: 0-69 -> 2000-2069, 70-99 -> 1970-1999, 100-999 -> 2100-2999.
func expandYear(n, digits int) int {
	if digits >= 4 {
		return n
	}
	switch {
	case n <= 69:
		return 2000 + n
	case n <= 99:
		return 1900 + n
	default:
		return 2000 + n
	}
}

func expandTwoDigitYear(n int) int { return expandYear(n, 2) }

func splitLayout(layout string) []string {
	var out []string
	for _, sep := range []string{"-", "/", "."} {
		if strings.Contains(layout, sep) {
			return strings.Split(layout, sep)
		}
	}
	out = append(out, layout)
	return out
}

func splitValueLikeLayout(layout, value string) ([]string, error) {
	for _, sep := range []string{"-", "/", "."} {
		if strings.Contains(layout, sep) {
			parts := strings.Split(value, sep)
			if len(parts) != len(strings.Split(layout, sep)) {
				return nil, fmt.Errorf("field count mismatch in %q", value)
			}
			return parts, nil
		}
	}
	// No separator: fixed-width layout (yyyy-MM-dd without dashes, i.e.
	// yyyyMMdd), slice by the corresponding token widths.
	if layout == "20060102" {
		if len(value) != 8 {
			return nil, fmt.Errorf("expected 8 digits, got %q", value)
		}
		return []string{value[0:4], value[4:6], value[6:8]}, nil
	}
	return nil, fmt.Errorf("unsupported fixed-width layout %q", layout)
}

// splitTimezone strips a trailing timezone component (Z, or ±HH:MM /
// ±HHMM / ±HH) and returns the remainder plus the canonical form.
func splitTimezone(value string) (rest, canonical string, err error) {
	if strings.HasSuffix(value, "Z") {
		return strings.TrimSuffix(value, "Z"), "Z", nil
	}
	re := regexp.MustCompile(`([+-])(\d{2}):?(\d{2})?$`)
	m := re.FindStringSubmatchIndex(value)
	if m == nil {
		return value, "", nil
	}
	sign := value[m[2]:m[3]]
	hh := value[m[4]:m[5]]
	mm := "00"
	if m[6] >= 0 {
		mm = value[m[6]:m[7]]
	}
	return value[:m[0]], sign + hh + ":" + mm, nil
}
