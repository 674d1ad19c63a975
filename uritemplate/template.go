// Package uritemplate implements RFC 6570 URI Templates, levels 1
// through 3, which is the subset the CSVW specification requires for
// aboutUrl/propertyUrl/valueUrl expansion (§4.6, §9 design notes).
// Level 4 features (prefix and explode value modifiers, composite
// values) are rejected at parse time: CSVW's template variables are
// always scalar (a column's string value, or one of the _row/_name
// built-ins), so they are never needed and their absence keeps the
// expander small enough to have a single, auditable implementation.
package uritemplate

import (
	"fmt"
	"strings"
)

// Template is a parsed RFC 6570 template string.
type Template struct {
	raw      string
	segments []segment
}

type segment struct {
	literal string // non-empty for literal segments
	expr    *expression
}

type expression struct {
	op   byte // 0, '+', '#', '.', '/', ';', '?', '&'
	vars []string
}

// unreserved = ALPHA / DIGIT / "-" / "." / "_" / "~"
func isUnreserved(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '.' || b == '_' || b == '~':
		return true
	}
	return false
}

// gen-delims / sub-delims, the "reserved" set that "+" and "#" leave
// unescaped in addition to unreserved characters.
const reservedSet = ":/?#[]@!$&'()*+,;="

func isReserved(b byte) bool {
	return strings.IndexByte(reservedSet, b) >= 0
}

// Parse compiles a URI template. It rejects RFC 6570 level 4 operators
// (variable modifiers ":" prefix-length and "*" explode) with an error,
// matching the specification's "reject higher-level operators... at
// validation time" design note.
func Parse(raw string) (*Template, error) {
	t := &Template{raw: raw}
	i := 0
	for i < len(raw) {
		if raw[i] == '{' {
			end := strings.IndexByte(raw[i:], '}')
			if end < 0 {
				return nil, fmt.Errorf("uritemplate: unterminated expression in %q", raw)
			}
			end += i
			expr, err := parseExpression(raw[i+1 : end])
			if err != nil {
				return nil, err
			}
			t.segments = append(t.segments, segment{expr: expr})
			i = end + 1
		} else {
			start := i
			for i < len(raw) && raw[i] != '{' {
				i++
			}
			t.segments = append(t.segments, segment{literal: raw[start:i]})
		}
	}
	return t, nil
}

// MustParse is like Parse but panics on error; useful for static
// built-in templates.
func MustParse(raw string) *Template {
	t, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return t
}

func parseExpression(body string) (*expression, error) {
	if body == "" {
		return nil, fmt.Errorf("uritemplate: empty expression")
	}

	expr := &expression{}
	rest := body
	switch body[0] {
	case '+', '#', '.', '/', ';', '?', '&':
		expr.op = body[0]
		rest = body[1:]
	case '=', ',', '!', '@', '|':
		return nil, fmt.Errorf("uritemplate: reserved-for-future-use operator %q is not supported", string(body[0]))
	}

	if rest == "" {
		return nil, fmt.Errorf("uritemplate: expression %q has no variables", body)
	}

	for _, varspec := range strings.Split(rest, ",") {
		varspec = strings.TrimSpace(varspec)
		if varspec == "" {
			return nil, fmt.Errorf("uritemplate: empty variable name in %q", body)
		}
		if strings.ContainsAny(varspec, "*") || strings.Contains(varspec, ":") {
			return nil, fmt.Errorf("uritemplate: level 4 variable modifiers are not supported (got %q)", varspec)
		}
		if !isValidVarname(varspec) {
			return nil, fmt.Errorf("uritemplate: invalid variable name %q", varspec)
		}
		expr.vars = append(expr.vars, varspec)
	}
	return expr, nil
}

func isValidVarname(s string) bool {
	for i := 0; i < len(s); i++ {
		b := s[i]
		if isUnreserved(b) || b == '%' || b == '.' || b == '_' {
			continue
		}
		return false
	}
	return true
}

// Variables returns the set of variable names referenced anywhere in
// the template, in first-use order.
func (t *Template) Variables() []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range t.segments {
		if s.expr == nil {
			continue
		}
		for _, v := range s.expr.vars {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// Values supplies variable bindings to Expand. A variable that is
// present-but-nil is "null": per §4.6, a null-valued variable removes
// its component from the expansion entirely rather than contributing
// an empty string.
type Values map[string]*string

// Str is a convenience constructor for a defined value.
func Str(s string) *string { return &s }

// Expand substitutes vars into the template per RFC 6570 §3.2,
// restricted to levels 1-3 (simple string expansion, reserved/fragment
// expansion, and the label/path/path-parameter/query operators).
func (t *Template) Expand(vars Values) string {
	var buf strings.Builder
	for _, s := range t.segments {
		if s.expr == nil {
			buf.WriteString(s.literal)
			continue
		}
		buf.WriteString(expandExpression(s.expr, vars))
	}
	return buf.String()
}

func expandExpression(e *expression, vars Values) string {
	type binding struct {
		name  string
		value string
	}
	var defined []binding
	for _, name := range e.vars {
		v, ok := vars[name]
		if !ok || v == nil {
			continue
		}
		defined = append(defined, binding{name: name, value: *v})
	}
	if len(defined) == 0 {
		return ""
	}

	first, sep, named, ifemp, allowReserved := operatorBehavior(e.op)

	var parts []string
	for _, b := range defined {
		encoded := pctEncode(b.value, allowReserved)
		if named {
			if encoded == "" {
				parts = append(parts, b.name+ifemp)
			} else {
				parts = append(parts, b.name+"="+encoded)
			}
		} else {
			parts = append(parts, encoded)
		}
	}
	return first + strings.Join(parts, sep)
}

// operatorBehavior returns, for a given operator byte, the prefix
// emitted before the first substituted variable, the separator between
// multiple variables, whether substitutions are "name=value" pairs,
// the suffix appended to a named substitution whose value is empty,
// and whether reserved characters pass through unescaped.
func operatorBehavior(op byte) (first, sep string, named bool, ifemp string, allowReserved bool) {
	switch op {
	case '+':
		return "", ",", false, "", true
	case '#':
		return "#", ",", false, "", true
	case '.':
		return ".", ".", false, "", false
	case '/':
		return "/", "/", false, "", false
	case ';':
		return ";", ";", true, "", false
	case '?':
		return "?", "&", true, "=", false
	case '&':
		return "&", "&", true, "=", false
	default:
		return "", ",", false, "", false
	}
}

func pctEncode(s string, allowReserved bool) string {
	var buf strings.Builder
	for i := 0; i < len(s); i++ {
		b := s[i]
		switch {
		case isUnreserved(b):
			buf.WriteByte(b)
		case allowReserved && isReserved(b):
			buf.WriteByte(b)
		case allowReserved && b == '%' && isPctTriple(s, i):
			buf.WriteByte(b)
		default:
			fmt.Fprintf(&buf, "%%%02X", b)
		}
	}
	return buf.String()
}

func isPctTriple(s string, i int) bool {
	if i+2 >= len(s) {
		return false
	}
	return isHex(s[i+1]) && isHex(s[i+2])
}

func isHex(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// Raw returns the original template string.
func (t *Template) Raw() string { return t.raw }
