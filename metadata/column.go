package metadata

// Column is one schema column declaration (§3).
type Column struct {
	Name          string // must match [A-Za-z_][A-Za-z0-9_.%-]* and not start with "_"
	Titles        NaturalLanguage
	Virtual       bool
	SuppressOutput bool
	Required      bool // also settable via the inherited "required" property; see EffectiveRequired

	Inherited InheritedProps
	Common    CommonProperties

	// Position is this column's 1-based ordinal within its Schema,
	// filled in by the schema that owns it. Used for the "_column"
	// and "_sourceColumn" URI template built-ins.
	Position int

	// effective is computed by Freeze and cached for the row engine.
	effective *EffectiveProps
}

func (c *Column) Kind() NodeKind { return KindColumn }

// Effective returns the cached, fully-resolved properties computed by
// the owning Schema/Table/TableGroup's Freeze pass. Calling it before
// Freeze panics, since the row engine must never observe a half-built
// tree (§3 lifecycle: "mutated only during merge and inheritance
// resolution, then frozen before the row engine runs").
func (c *Column) Effective() EffectiveProps {
	if c.effective == nil {
		panic("metadata: Column.Effective called before Freeze")
	}
	return *c.effective
}

// Clone returns a deep-enough copy of c for merge purposes. The
// effective-properties cache is not copied; callers must re-Freeze.
func (c *Column) Clone() *Column {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Titles = c.Titles.Clone()
	cp.Inherited = c.Inherited.Clone()
	cp.Common = c.Common.Clone()
	cp.effective = nil
	return &cp
}
