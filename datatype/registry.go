// Package datatype implements the §6.3 built-in datatype registry and
// the facet-checking logic (§4.1) that runs after a Cell's raw string
// has been converted to its lexical form by package pattern.
package datatype

// Kind groups the built-in base names by what shape of parsing and
// facet support they need.
type Kind int

const (
	KindString Kind = iota
	KindBoolean
	KindNumeric
	KindDate
	KindTime
	KindDateTime
	KindDuration
	KindBinary
	KindURI
	KindOther
)

// baseKinds classifies every canonical base name from §6.3 (after
// datatypeAliases resolution, which package metadata already applies).
var baseKinds = map[string]Kind{
	"anySimpleType":     KindString,
	"string":            KindString,
	"normalizedString":  KindString,
	"token":             KindString,
	"language":          KindString,
	"Name":              KindString,
	"NCName":            KindString,
	"boolean":           KindBoolean,
	"decimal":           KindNumeric,
	"integer":           KindNumeric,
	"nonPositiveInteger": KindNumeric,
	"negativeInteger":   KindNumeric,
	"long":              KindNumeric,
	"int":               KindNumeric,
	"short":             KindNumeric,
	"byte":              KindNumeric,
	"nonNegativeInteger": KindNumeric,
	"unsignedLong":      KindNumeric,
	"unsignedInt":       KindNumeric,
	"unsignedShort":     KindNumeric,
	"unsignedByte":      KindNumeric,
	"positiveInteger":   KindNumeric,
	"float":             KindNumeric,
	"double":            KindNumeric,
	"duration":          KindDuration,
	"dateTime":          KindDateTime,
	"time":              KindTime,
	"date":              KindDate,
	"gYearMonth":        KindOther,
	"gYear":             KindOther,
	"gMonthDay":         KindOther,
	"gDay":              KindOther,
	"gMonth":            KindOther,
	"hexBinary":         KindBinary,
	"base64Binary":      KindBinary,
	"anyURI":            KindURI,
	"xml":               KindOther,
	"html":              KindOther,
	"json":              KindOther,
}

// KindOf returns the Kind for a canonical base name, defaulting to
// KindString for any name the registry does not recognize (the
// engine-wide default datatype is itself "string").
func KindOf(base string) Kind {
	if k, ok := baseKinds[base]; ok {
		return k
	}
	return KindString
}

// integerRanges gives the inclusive [min, max] bounds of the XSD
// integer derived types as lexical strings, "-infinity"/"infinity"
// marking an unbounded side; decimal and integer themselves have no
// entry.
var integerRanges = map[string][2]string{
	"nonPositiveInteger": {"-infinity", "0"},
	"negativeInteger":    {"-infinity", "-1"},
	"long":               {"-9223372036854775808", "9223372036854775807"},
	"int":                {"-2147483648", "2147483647"},
	"short":              {"-32768", "32767"},
	"byte":               {"-128", "127"},
	"nonNegativeInteger": {"0", "infinity"},
	"unsignedLong":       {"0", "18446744073709551615"},
	"unsignedInt":        {"0", "4294967295"},
	"unsignedShort":      {"0", "65535"},
	"unsignedByte":       {"0", "255"},
	"positiveInteger":    {"1", "infinity"},
}
