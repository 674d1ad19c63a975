package metadata

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/csvw-go/rdf-tabular/csvwerr"
	"github.com/csvw-go/rdf-tabular/jsonldctx"
)

// inheritedKeys and commonKeys classify a raw JSON object's keys so
// Parse can route each one to the right typed field or the
// CommonProperties bag, rather than guessing from the value's shape.
var inheritedKeys = map[string]bool{
	"aboutUrl": true, "propertyUrl": true, "valueUrl": true,
	"datatype": true, "default": true, "lang": true, "null": true,
	"ordered": true, "required": true, "separator": true,
	"textDirection": true, "format": true,
}

// ParseTableGroup decodes a CSVW table group description document from
// raw JSON bytes into a typed tree. It does not resolve inherited
// properties or validate structural invariants; call [Validate] and
// [TableGroup.Freeze] afterward (§4.1, §9).
func ParseTableGroup(data []byte) (*TableGroup, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, &csvwerr.MetadataError{Msg: fmt.Sprintf("invalid JSON: %v", err)}
	}
	return parseTableGroupObject(raw)
}

func parseTableGroupObject(raw map[string]any) (*TableGroup, error) {
	g := &TableGroup{Common: CommonProperties{}}

	if typ, ok := raw["@type"].(string); ok && typ != "TableGroup" && typ != "" {
		return nil, &csvwerr.MetadataError{Msg: fmt.Sprintf("top-level @type must be \"TableGroup\" (or omitted), got %q", typ)}
	}
	if id, ok := raw["@id"].(string); ok {
		g.ID = id
	}
	if dir, ok := raw["tableDirection"].(string); ok {
		g.TableDirection = dir
	}

	if rawTables, ok := raw["tables"].([]any); ok {
		for _, rt := range rawTables {
			obj, ok := rt.(map[string]any)
			if !ok {
				return nil, &csvwerr.MetadataError{Msg: "tables[] entries must be objects"}
			}
			t, err := parseTable(obj)
			if err != nil {
				return nil, err
			}
			g.Tables = append(g.Tables, t)
		}
	} else if rawTable, ok := raw["url"]; ok {
		_ = rawTable
		// A lone Table document used directly as a group of one,
		// tolerated the way discovery's embedded-metadata extractor
		// needs to (§4.3).
		t, err := parseTable(raw)
		if err != nil {
			return nil, err
		}
		g.Tables = append(g.Tables, t)
		return g, nil
	}

	if rawDialect, ok := raw["dialect"].(map[string]any); ok {
		d, err := parseDialect(rawDialect)
		if err != nil {
			return nil, err
		}
		g.Dialect = d
	}
	if rawSchema, ok := raw["tableSchema"].(map[string]any); ok {
		s, err := parseSchema(rawSchema)
		if err != nil {
			return nil, err
		}
		g.TableSchema = s
	}
	if rawTrans, ok := raw["transformations"].([]any); ok {
		for _, rt := range rawTrans {
			obj, ok := rt.(map[string]any)
			if !ok {
				continue
			}
			g.Transformations = append(g.Transformations, parseTransformation(obj))
		}
	}
	if notes, ok := raw["notes"].([]any); ok {
		g.Notes = parseNotes(notes)
	}

	inh, err := parseInherited(raw)
	if err != nil {
		return nil, err
	}
	g.Inherited = inh
	g.Common = parseCommon(raw, reservedTableGroupKeys)

	g.AttachParents()
	return g, nil
}

var reservedTableGroupKeys = map[string]bool{
	"@context": true, "@id": true, "@type": true, "tables": true,
	"dialect": true, "tableSchema": true, "transformations": true,
	"tableDirection": true, "notes": true,
}

var reservedTableKeys = map[string]bool{
	"@id": true, "@type": true, "url": true, "tableSchema": true,
	"dialect": true, "transformations": true, "notes": true,
	"suppressOutput": true,
}

var reservedSchemaKeys = map[string]bool{
	"@id": true, "@type": true, "columns": true, "primaryKey": true,
	"foreignKeys": true, "rowTitles": true,
}

var reservedColumnKeys = map[string]bool{
	"@id": true, "@type": true, "name": true, "titles": true,
	"virtual": true, "suppressOutput": true,
}

func parseTable(raw map[string]any) (*Table, error) {
	t := &Table{}
	if id, ok := raw["@id"].(string); ok {
		t.ID = id
	}
	if url, ok := raw["url"].(string); ok {
		t.URL = url
	}
	if sup, ok := raw["suppressOutput"].(bool); ok {
		t.SuppressOutput = sup
	}
	if rawSchema, ok := raw["tableSchema"].(map[string]any); ok {
		s, err := parseSchema(rawSchema)
		if err != nil {
			return nil, err
		}
		t.TableSchema = s
	}
	if rawDialect, ok := raw["dialect"].(map[string]any); ok {
		d, err := parseDialect(rawDialect)
		if err != nil {
			return nil, err
		}
		t.Dialect = d
	}
	if rawTrans, ok := raw["transformations"].([]any); ok {
		for _, rt := range rawTrans {
			if obj, ok := rt.(map[string]any); ok {
				t.Transformations = append(t.Transformations, parseTransformation(obj))
			}
		}
	}
	if notes, ok := raw["notes"].([]any); ok {
		t.Notes = parseNotes(notes)
	}
	inh, err := parseInherited(raw)
	if err != nil {
		return nil, err
	}
	t.Inherited = inh
	t.Common = parseCommon(raw, reservedTableKeys)
	return t, nil
}

func parseSchema(raw map[string]any) (*Schema, error) {
	s := &Schema{}
	if id, ok := raw["@id"].(string); ok {
		s.ID = id
	}
	if cols, ok := raw["columns"].([]any); ok {
		for i, rc := range cols {
			obj, ok := rc.(map[string]any)
			if !ok {
				return nil, &csvwerr.MetadataError{Path: s.ID, Msg: "columns[] entries must be objects"}
			}
			col, err := parseColumn(obj, i+1)
			if err != nil {
				return nil, err
			}
			s.Columns = append(s.Columns, col)
		}
	}
	s.PrimaryKey = stringOrArray(raw["primaryKey"])
	s.RowTitles = stringOrArray(raw["rowTitles"])
	if fks, ok := raw["foreignKeys"].([]any); ok {
		for _, rf := range fks {
			if obj, ok := rf.(map[string]any); ok {
				s.ForeignKeys = append(s.ForeignKeys, parseForeignKey(obj))
			}
		}
	}
	inh, err := parseInherited(raw)
	if err != nil {
		return nil, err
	}
	s.Inherited = inh
	s.Common = parseCommon(raw, reservedSchemaKeys)
	return s, nil
}

func parseColumn(raw map[string]any, pos int) (*Column, error) {
	c := &Column{Position: pos}
	if name, ok := raw["name"].(string); ok {
		c.Name = name
	} else {
		c.Name = ImplicitColumnName(pos)
	}
	if titles, ok := raw["titles"]; ok {
		c.Titles = parseNaturalLanguage(titles)
	}
	if v, ok := raw["virtual"].(bool); ok {
		c.Virtual = v
	}
	if v, ok := raw["suppressOutput"].(bool); ok {
		c.SuppressOutput = v
	}
	if v, ok := raw["required"].(bool); ok {
		c.Required = v
	}
	inh, err := parseInherited(raw)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Name, err)
	}
	c.Inherited = inh
	c.Common = parseCommon(raw, reservedColumnKeys)
	return c, nil
}

func parseForeignKey(raw map[string]any) *ForeignKey {
	fk := &ForeignKey{ColumnReference: stringOrArray(raw["columnReference"])}
	if ref, ok := raw["reference"].(map[string]any); ok {
		if res, ok := ref["resource"].(string); ok {
			fk.ReferenceResource = res
		}
		if su, ok := ref["schemaUrl"].(string); ok {
			fk.ReferenceSchemaURL = su
		}
		fk.ReferenceColumns = stringOrArray(ref["columnReference"])
	}
	return fk
}

func parseTransformation(raw map[string]any) *Transformation {
	tr := &Transformation{}
	if url, ok := raw["url"].(string); ok {
		tr.URL = url
	}
	if sf, ok := raw["scriptFormat"].(string); ok {
		tr.ScriptFormat = sf
	}
	if tf, ok := raw["targetFormat"].(string); ok {
		tr.TargetFormat = tf
	}
	if src, ok := raw["source"].(string); ok {
		tr.Source = src
	}
	if titles, ok := raw["titles"]; ok {
		tr.Titles = parseNaturalLanguage(titles)
	}
	return tr
}

func parseDialect(raw map[string]any) (*Dialect, error) {
	if err := ValidateDialectKeys(raw); err != nil {
		return nil, err
	}
	d := &Dialect{}
	if v, ok := raw["delimiter"].(string); ok {
		d.Delimiter = &v
	}
	if v, ok := raw["quoteChar"]; ok {
		if s, ok := v.(string); ok {
			d.QuoteChar = &s
		} else if v == nil {
			empty := ""
			d.QuoteChar = &empty
		}
	}
	if v, ok := raw["doubleQuote"].(bool); ok {
		d.DoubleQuote = &v
	}
	if v := stringOrArray(raw["lineTerminators"]); v != nil {
		d.LineTerminators = v
	}
	if v, ok := raw["encoding"].(string); ok {
		d.Encoding = &v
	}
	if v, ok := raw["header"].(bool); ok {
		d.Header = &v
	}
	if v, ok := numberField(raw["headerRowCount"]); ok {
		d.HeaderRowCount = &v
	}
	if v, ok := numberField(raw["skipRows"]); ok {
		d.SkipRows = &v
	}
	if v, ok := numberField(raw["skipColumns"]); ok {
		d.SkipColumns = &v
	}
	if v, ok := raw["skipBlankRows"].(bool); ok {
		d.SkipBlankRows = &v
	}
	if v, ok := raw["skipInitialSpace"].(bool); ok {
		d.SkipInitialSpace = &v
	}
	if v, ok := raw["trim"]; ok {
		switch tv := v.(type) {
		case bool:
			t := Trim(strconv.FormatBool(tv))
			d.Trim = &t
		case string:
			t := Trim(tv)
			d.Trim = &t
		}
	}
	if v, ok := raw["commentPrefix"].(string); ok {
		d.CommentPrefix = &v
	}
	d.Common = parseCommon(raw, recognizedDialectKeys)
	return d, nil
}

func parseDatatype(v any) (*Datatype, error) {
	switch t := v.(type) {
	case string:
		return &Datatype{Base: CanonicalBase(t)}, nil
	case map[string]any:
		dt := &Datatype{Base: "string"}
		if base, ok := t["base"].(string); ok {
			dt.Base = CanonicalBase(base)
		}
		if v, ok := numberField(t["length"]); ok {
			dt.Length = &v
		}
		if v, ok := numberField(t["minLength"]); ok {
			dt.MinLength = &v
		}
		if v, ok := numberField(t["maxLength"]); ok {
			dt.MaxLength = &v
		}
		dt.Minimum = lexicalField(t["minimum"])
		dt.Maximum = lexicalField(t["maximum"])
		dt.MinInclusive = lexicalField(t["minInclusive"])
		dt.MaxInclusive = lexicalField(t["maxInclusive"])
		dt.MinExclusive = lexicalField(t["minExclusive"])
		dt.MaxExclusive = lexicalField(t["maxExclusive"])
		switch f := t["format"].(type) {
		case string:
			dt.Format = &f
		case map[string]any:
			nf := &NumberFormat{}
			if p, ok := f["pattern"].(string); ok {
				nf.Pattern = p
			}
			if g, ok := f["groupChar"].(string); ok {
				nf.GroupChar = g
			}
			if dc, ok := f["decimalChar"].(string); ok {
				nf.DecimalChar = dc
			}
			dt.NumberFormat = nf
		}
		return dt, nil
	case nil:
		return nil, nil
	default:
		return nil, &csvwerr.MetadataError{Msg: "datatype must be a string or object"}
	}
}

func parseInherited(raw map[string]any) (InheritedProps, error) {
	var p InheritedProps
	if v, ok := raw["aboutUrl"].(string); ok {
		p.AboutURL = &v
	}
	if v, ok := raw["propertyUrl"].(string); ok {
		p.PropertyURL = &v
	}
	if v, ok := raw["valueUrl"].(string); ok {
		p.ValueURL = &v
	}
	if v, ok := raw["datatype"]; ok {
		dt, err := parseDatatype(v)
		if err != nil {
			return p, err
		}
		p.Datatype = dt
	}
	if v, ok := raw["default"].(string); ok {
		p.Default = &v
	}
	if v, ok := raw["lang"].(string); ok {
		p.Lang = &v
	}
	if v, ok := raw["null"]; ok {
		p.Null = stringOrArray(v)
		p.NullSet = true
	}
	if v, ok := raw["ordered"].(bool); ok {
		p.Ordered = &v
	}
	if v, ok := raw["required"].(bool); ok {
		p.Required = &v
	}
	if v, ok := raw["separator"]; ok {
		if s, ok := v.(string); ok {
			p.Separator = &s
			p.SeparatorSet = true
		}
	}
	if v, ok := raw["textDirection"].(string); ok {
		p.TextDirection = &v
	}
	if v, ok := raw["format"].(string); ok {
		p.Format = &v
	}
	return p, nil
}

func parseCommon(raw map[string]any, reserved map[string]bool) CommonProperties {
	out := CommonProperties{}
	for k, v := range raw {
		if k == "@context" || reserved[k] || inheritedKeys[k] {
			continue
		}
		if iri, ok := jsonldctx.Expand(k); ok {
			out[iri] = v
		} else {
			out[k] = v
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func parseNotes(raw []any) []CommentEntry {
	var out []CommentEntry
	for _, r := range raw {
		if s, ok := r.(string); ok {
			out = append(out, CommentEntry{Text: s})
		}
	}
	return out
}

func parseNaturalLanguage(v any) NaturalLanguage {
	switch t := v.(type) {
	case string:
		return NewNaturalLanguageString(t)
	case []any:
		var list []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				list = append(list, s)
			}
		}
		return NewNaturalLanguageList(list)
	case map[string]any:
		out := NaturalLanguage{}
		for lang, vals := range t {
			out[lang] = stringOrArray(vals)
		}
		return out
	default:
		return nil
	}
}

func stringOrArray(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		out := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func numberField(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

func lexicalField(v any) *string {
	switch t := v.(type) {
	case string:
		return &t
	case json.Number:
		s := t.String()
		return &s
	case nil:
		return nil
	default:
		s := fmt.Sprint(t)
		return &s
	}
}
