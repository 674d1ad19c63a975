package metadata

import (
	"fmt"

	"github.com/csvw-go/rdf-tabular/csvwerr"
	multierror "github.com/hashicorp/go-multierror"
)

// Validate checks the structural invariants of §3 against g and returns a
// *multierror.Error (nil if there were no problems). Range facets are
// only checked for mutual exclusivity (e.g. minimum with minExclusive);
// their values are not compared, so a minimum above its maximum is not
// reported. Errors are accumulated in the same
// accumulation style the pack's own CSV decoding library
// (tiendc/go-csvlib) uses to collect per-row problems instead of
// aborting on the first one.
func Validate(g *TableGroup) error {
	var errs *multierror.Error

	if g.TableSchema != nil {
		for _, t := range g.Tables {
			if t.TableSchema != nil {
				errs = multierror.Append(errs, &csvwerr.MetadataError{
					Msg: fmt.Sprintf("table %q: a TableGroup's default schema cannot be further nested inside a Table that also owns a schema without resolving which wins (treat Table.tableSchema as already resolved)", t.URL),
				})
			}
		}
	}

	for _, t := range g.Tables {
		if t.URL == "" {
			errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "table is missing required \"url\""})
		}
		schema := t.TableSchema
		if schema == nil {
			schema = g.TableSchema
		}
		if schema != nil {
			if err := validateSchema(t.URL, schema); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
		if t.Dialect != nil {
			if err := validateDialectTyped(t.Dialect); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}
	if g.Dialect != nil {
		if err := validateDialectTyped(g.Dialect); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}

func validateDialectTyped(d *Dialect) error {
	if d.Common == nil {
		return nil
	}
	raw := map[string]any{}
	for k, v := range d.Common {
		raw[k] = v
	}
	return ValidateDialectKeys(raw)
}

func validateSchema(tableURL string, s *Schema) error {
	var errs *multierror.Error

	seen := map[string]bool{}
	names := map[string]bool{}
	for _, c := range s.Columns {
		if c.Name != "" {
			if !ValidColumnName(c.Name) {
				errs = multierror.Append(errs, &csvwerr.MetadataError{
					Path: tableURL,
					Msg:  fmt.Sprintf("column name %q is invalid: must match [A-Za-z_][A-Za-z0-9_.%%-]* and not start with \"_\"", c.Name),
				})
			}
			if seen[c.Name] {
				errs = multierror.Append(errs, &csvwerr.MetadataError{
					Path: tableURL,
					Msg:  fmt.Sprintf("duplicate column name %q", c.Name),
				})
			}
			seen[c.Name] = true
			names[c.Name] = true
		}
	}

	for _, name := range s.PrimaryKey {
		if !names[name] {
			errs = multierror.Append(errs, &csvwerr.MetadataError{
				Path: tableURL,
				Msg:  fmt.Sprintf("primaryKey references unknown column %q", name),
			})
		}
	}

	for _, fk := range s.ForeignKeys {
		for _, name := range fk.ColumnReference {
			if !names[name] {
				errs = multierror.Append(errs, &csvwerr.MetadataError{
					Path: tableURL,
					Msg:  fmt.Sprintf("foreignKey columnReference references unknown column %q", name),
				})
			}
		}
	}

	for _, c := range s.Columns {
		if err := validateDatatypeFacets(c.Inherited.Datatype); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("column %q: %w", c.Name, err))
		}
	}

	return errs.ErrorOrNil()
}

func validateDatatypeFacets(dt *Datatype) error {
	if dt == nil {
		return nil
	}
	var errs *multierror.Error

	if dt.Length != nil {
		if dt.MinLength != nil && *dt.MinLength != *dt.Length {
			errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "length and minLength must be equal when both are set"})
		}
		if dt.MaxLength != nil && *dt.MaxLength != *dt.Length {
			errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "length and maxLength must be equal when both are set"})
		}
		if !isStringOrBinaryBase(dt.Base) {
			errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: fmt.Sprintf("length facet requires a string or binary datatype, got %q", dt.Base)})
		}
	}

	if dt.MinLength != nil && dt.MaxLength != nil && *dt.MinLength > *dt.MaxLength {
		errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "minLength must be <= maxLength"})
	}

	if dt.Minimum != nil && dt.MinExclusive != nil {
		errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "minimum and minExclusive are mutually exclusive"})
	}
	if dt.Maximum != nil && dt.MaxExclusive != nil {
		errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "maximum and maxExclusive are mutually exclusive"})
	}
	if dt.MinInclusive != nil && dt.MinExclusive != nil {
		errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "minInclusive and minExclusive are mutually exclusive"})
	}
	if dt.MaxInclusive != nil && dt.MaxExclusive != nil {
		errs = multierror.Append(errs, &csvwerr.MetadataError{Msg: "maxInclusive and maxExclusive are mutually exclusive"})
	}

	return errs.ErrorOrNil()
}

func isStringOrBinaryBase(base string) bool {
	switch CanonicalBase(base) {
	case "string", "normalizedString", "token", "language", "Name", "NCName",
		"hexBinary", "base64Binary", "anySimpleType", "anyURI":
		return true
	default:
		return false
	}
}
