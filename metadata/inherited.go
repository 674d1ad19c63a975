package metadata

import "github.com/csvw-go/rdf-tabular/uritemplate"

// InheritedProps holds the subset of properties TableGroup, Table,
// Schema, and Column all share, whose *effective* value is resolved by
// walking up to the nearest ancestor that defines it (§3). A nil/unset
// field here means "not defined at this node"; [Resolve]
// walks the chain and falls back to engine-wide defaults when no node
// defines a property at all.
type InheritedProps struct {
	AboutURL      *string
	PropertyURL   *string
	ValueURL      *string
	Datatype      *Datatype
	Default       *string
	Lang          *string
	Null          []string // distinguished from unset by NullSet
	NullSet       bool
	Ordered       *bool
	Required      *bool
	Separator     *string // distinguished from "no separator" by SeparatorSet
	SeparatorSet  bool
	TextDirection *string
	Format        *string // shorthand override of Datatype.Format, §3
}

// Clone returns a deep-enough copy of p for merge purposes.
func (p InheritedProps) Clone() InheritedProps {
	cp := p
	cp.AboutURL = clonePtr(p.AboutURL)
	cp.PropertyURL = clonePtr(p.PropertyURL)
	cp.ValueURL = clonePtr(p.ValueURL)
	cp.Datatype = p.Datatype.Clone()
	cp.Default = clonePtr(p.Default)
	cp.Lang = clonePtr(p.Lang)
	if p.Null != nil {
		cp.Null = append([]string(nil), p.Null...)
	}
	cp.Ordered = clonePtr(p.Ordered)
	cp.Required = clonePtr(p.Required)
	cp.Separator = clonePtr(p.Separator)
	cp.TextDirection = clonePtr(p.TextDirection)
	cp.Format = clonePtr(p.Format)
	return cp
}

// EffectiveProps is the fully-resolved view of InheritedProps used by
// the row engine: every field has a concrete value, engine defaults
// already applied. Computed once per Column at freeze time (§9:
// "replicate inherited properties into children at freeze time so that
// runtime lookup is local").
type EffectiveProps struct {
	AboutURL      *uritemplate.Template
	PropertyURL   *uritemplate.Template
	ValueURL      *uritemplate.Template
	Datatype      *Datatype
	Default       string
	Lang          string
	Null          []string
	Ordered       bool
	Required      bool
	Separator     string
	HasSeparator  bool
	TextDirection string
}

// chain walks from the most specific node (index 0, typically a
// Column) to the least specific (a TableGroup), used by Resolve to
// find the nearest ancestor defining each property.
type chain []*InheritedProps

// Resolve computes the effective properties for the most specific node
// in the chain (chain[0]), applying §3's "nearest ancestor that defines
// it" rule and falling back to the engine-wide defaults when nothing in
// the chain defines a property.
func Resolve(ancestors ...*InheritedProps) (EffectiveProps, error) {
	c := chain(ancestors)
	var eff EffectiveProps

	if about := c.firstString(func(p *InheritedProps) *string { return p.AboutURL }); about != nil {
		t, err := uritemplate.Parse(*about)
		if err != nil {
			return eff, err
		}
		eff.AboutURL = t
	}
	if prop := c.firstString(func(p *InheritedProps) *string { return p.PropertyURL }); prop != nil {
		t, err := uritemplate.Parse(*prop)
		if err != nil {
			return eff, err
		}
		eff.PropertyURL = t
	}
	if val := c.firstString(func(p *InheritedProps) *string { return p.ValueURL }); val != nil {
		t, err := uritemplate.Parse(*val)
		if err != nil {
			return eff, err
		}
		eff.ValueURL = t
	}

	eff.Datatype = c.firstDatatype()
	if eff.Datatype == nil {
		eff.Datatype = DefaultDatatype()
	} else {
		eff.Datatype = eff.Datatype.Clone()
	}
	// The shorthand "format" inherited property overrides the
	// effective datatype's own Format facet only when the datatype
	// itself leaves Format unset (§3).
	if eff.Datatype.Format == nil {
		if f := c.firstString(func(p *InheritedProps) *string { return p.Format }); f != nil {
			eff.Datatype.Format = f
		}
	}

	if def := c.firstString(func(p *InheritedProps) *string { return p.Default }); def != nil {
		eff.Default = *def
	}

	eff.Lang = "und"
	if lang := c.firstString(func(p *InheritedProps) *string { return p.Lang }); lang != nil {
		eff.Lang = *lang
	}

	eff.Null = []string{""}
	if nullList, ok := c.firstNull(); ok {
		eff.Null = nullList
	}

	if ord := c.firstBool(func(p *InheritedProps) *bool { return p.Ordered }); ord != nil {
		eff.Ordered = *ord
	}
	if req := c.firstBool(func(p *InheritedProps) *bool { return p.Required }); req != nil {
		eff.Required = *req
	}

	if sep, ok := c.firstSeparator(); ok {
		eff.Separator = sep
		eff.HasSeparator = true
	}

	eff.TextDirection = "auto"
	if td := c.firstString(func(p *InheritedProps) *string { return p.TextDirection }); td != nil {
		eff.TextDirection = *td
	}

	return eff, nil
}

func (c chain) firstString(get func(*InheritedProps) *string) *string {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v := get(p); v != nil {
			return v
		}
	}
	return nil
}

func (c chain) firstBool(get func(*InheritedProps) *bool) *bool {
	for _, p := range c {
		if p == nil {
			continue
		}
		if v := get(p); v != nil {
			return v
		}
	}
	return nil
}

func (c chain) firstDatatype() *Datatype {
	for _, p := range c {
		if p == nil {
			continue
		}
		if p.Datatype != nil {
			return p.Datatype
		}
	}
	return nil
}

func (c chain) firstNull() ([]string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if p.NullSet {
			return p.Null, true
		}
	}
	return nil, false
}

func (c chain) firstSeparator() (string, bool) {
	for _, p := range c {
		if p == nil {
			continue
		}
		if p.SeparatorSet {
			return *p.Separator, true
		}
	}
	return "", false
}
