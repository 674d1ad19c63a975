// Package csvw is the root orchestrator: it drives a CSV (or metadata)
// URL through discovery, validation, the row engine, and the emitter,
// exposing the result as a small state machine (§5, §6.1).
package csvw

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"gonum.org/v1/gonum/graph/formats/rdf"

	"github.com/csvw-go/rdf-tabular/csvwerr"
	"github.com/csvw-go/rdf-tabular/dialect"
	"github.com/csvw-go/rdf-tabular/discovery"
	"github.com/csvw-go/rdf-tabular/emit"
	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/rowengine"
)

// State is a Reader's position in its lifecycle: Created, Discovered,
// Validated, Emitting, Done, or Failed from any of the above.
type State int

const (
	StateCreated State = iota
	StateDiscovered
	StateValidated
	StateEmitting
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateDiscovered:
		return "discovered"
	case StateValidated:
		return "validated"
	case StateEmitting:
		return "emitting"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Options configures Open, mirroring §6.1's open() entry point plus
// the processor-mode and provenance switches of §7.
type Options struct {
	// UserMetadata, when set, is the highest-precedence discovery
	// source (§4.4's user-supplied metadata).
	UserMetadata *metadata.TableGroup

	// Base resolves UserMetadata's relative URLs (e.g. a metadata
	// document loaded from a local file with no meaningful URL of its
	// own).
	Base string

	// MetadataURL, when set, bypasses discovery's precedence chain
	// entirely: the entry point IS a metadata document (§4.4).
	MetadataURL string

	HTTPLinkOverride    string
	ContentTypeOverride string

	// Mode selects strict/lenient handling of cell-level errors (§7).
	Mode csvwerr.Mode

	// Validate requests the §3 structural invariant check against the
	// discovered metadata tree (metadata.Validate), beyond the
	// discovery-time acceptance test already always applied.
	Validate bool

	Minimal bool
	NoProv  bool

	Fetcher discovery.Fetcher
	Logger  *slog.Logger
}

// Reader drives one csvURL (or metadata document) through the
// pipeline. Not safe for concurrent use from multiple goroutines;
// callers wanting parallel conversions should each own a Reader (§5).
type Reader struct {
	opts    Options
	fetcher discovery.Fetcher
	log     *slog.Logger

	state State
	group *metadata.TableGroup

	startedAt time.Time
	sources   []emit.SourceUsage
	warnings  *multierror.Error
}

// Open runs discovery for csvURL (or, when opts.MetadataURL is set,
// loads that metadata document directly) and returns a Reader
// positioned at StateDiscovered. The returned error, if any, leaves no
// usable Reader (StateFailed is only observable via a Reader that
// later transitions there from Validate/Emit).
func Open(ctx context.Context, csvURL string, opts Options) (*Reader, error) {
	if opts.Fetcher == nil {
		opts.Fetcher = discovery.NewChainFetcher()
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	r := &Reader{
		opts:      opts,
		fetcher:   opts.Fetcher,
		log:       log,
		state:     StateCreated,
		startedAt: time.Now(),
	}

	if err := r.discover(ctx, csvURL); err != nil {
		r.state = StateFailed
		return nil, err
	}
	r.state = StateDiscovered
	return r, nil
}

func (r *Reader) discover(ctx context.Context, csvURL string) error {
	if r.opts.MetadataURL != "" {
		group, err := discovery.LoadMetadataURL(ctx, r.fetcher, r.opts.MetadataURL)
		if err != nil {
			return err
		}
		r.sources = append(r.sources, emit.SourceUsage{URL: r.opts.MetadataURL, Role: emit.RoleMetadata})
		r.group = group
		return nil
	}

	dopts := discovery.Options{
		UserMetadata:        r.opts.UserMetadata,
		Base:                r.opts.Base,
		HTTPLinkOverride:    r.opts.HTTPLinkOverride,
		ContentTypeOverride: r.opts.ContentTypeOverride,
		Minimal:             r.opts.Minimal,
		NoProv:              r.opts.NoProv,
	}

	d := (*metadata.Dialect)(nil).Resolve()
	if r.opts.ContentTypeOverride != "" {
		d = discovery.ApplyContentType(d, discovery.ParseContentType(r.opts.ContentTypeOverride))
	}

	group, err := discovery.ResolveOne(ctx, r.fetcher, csvURL, dopts, d, r.log)
	if err != nil {
		return err
	}
	r.sources = append(r.sources, emit.SourceUsage{URL: csvURL, Role: emit.RoleCSV})
	r.group = group
	return nil
}

// Validate resolves inherited properties across the discovered tree
// (metadata.TableGroup.Freeze, a prerequisite for every later stage)
// and, if opts.Validate was requested, runs the §3 structural
// invariant checks, recording failures as warnings rather than
// aborting under Lenient mode.
func (r *Reader) Validate() error {
	if err := r.group.Freeze(); err != nil {
		r.state = StateFailed
		return err
	}
	if r.opts.Validate {
		if err := metadata.Validate(r.group); err != nil {
			if r.opts.Mode == csvwerr.Lenient {
				r.warnings = multierror.Append(r.warnings, err)
			} else {
				r.state = StateFailed
				return err
			}
		}
	}
	r.state = StateValidated
	return nil
}

// Tables returns every Table the discovered metadata tree owns.
func (r *Reader) Tables() []*metadata.Table { return r.group.Tables }

// Warnings flattens every warning accumulated so far (cell-level
// validation failures downgraded under Lenient mode, plus any
// structural validation failures likewise downgraded).
func (r *Reader) Warnings() []error {
	if r.warnings == nil {
		return nil
	}
	return r.warnings.Errors
}

// rowSource fetches table's CSV body and returns a rowengine.Reader
// over it, having consumed (and discarded) its header rows per the
// table's effective dialect.
func (r *Reader) rowSource(ctx context.Context, table *metadata.Table) (rowengine.Reader, error) {
	data, err := discovery.FetchBytes(ctx, r.fetcher, table.URL)
	if err != nil {
		return nil, &csvwerr.IOError{URL: table.URL, Err: err}
	}
	d := table.EffectiveDialect()
	tok := dialect.NewReader(bytes.NewReader(data), d)
	for i := 0; i < d.HeaderRowCount; i++ {
		if _, err := tok.ReadRow(); err != nil && err != io.EOF {
			return nil, &csvwerr.DialectError{Msg: fmt.Sprintf("reading header row %d of %s: %v", i+1, table.URL, err)}
		}
	}
	return tok, nil
}

// EmitRDF drives every Table's rows through the row engine and emits
// RDF statements to sink, honoring Minimal/NoProv and accumulating
// Lenient-mode warnings rather than aborting.
func (r *Reader) EmitRDF(ctx context.Context, sink emit.Sink) error {
	r.state = StateEmitting
	emitter := emit.NewEmitter(sink, r.opts.Minimal)
	groupLabel := "group-" + uuid.NewString()

	termsByTable, err := r.emitTables(ctx, emitter)
	if err != nil {
		r.state = StateFailed
		return err
	}

	if err := emitter.EmitTableGroup(r.group, groupLabel, termsByTable); err != nil {
		r.state = StateFailed
		return err
	}

	if !r.opts.NoProv {
		if err := emitter.EmitProvenance(groupLabel, r.startedAt, time.Now(), r.sources); err != nil {
			r.state = StateFailed
			return err
		}
	}

	r.state = StateDone
	return nil
}

// emitTables emits each Table's skeleton and rows, returning the map
// EmitTableGroup needs to list its csvw:table triples.
func (r *Reader) emitTables(ctx context.Context, emitter *emit.Emitter) (map[*metadata.Table]rdf.Term, error) {
	out := map[*metadata.Table]rdf.Term{}
	for _, table := range r.group.Tables {
		tableLabel := "table-" + uuid.NewString()
		subj, err := emitter.EmitTable(table, tableLabel)
		if err != nil {
			return nil, err
		}
		out[table] = subj

		reader, err := r.rowSource(ctx, table)
		if err != nil {
			return nil, err
		}
		engine := rowengine.NewEngine(table, reader)
		for {
			row, err := engine.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				if r.opts.Mode == csvwerr.Lenient && csvwerr.AllDowngradable(err) {
					r.warnings = multierror.Append(r.warnings, err)
				} else {
					return nil, err
				}
			}
			if row == nil {
				continue
			}
			if err := emitter.EmitRow(row); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// ToJSON drives every Table's rows through the row engine and builds
// the canonical tabular-data-as-JSON document (§4.7), accumulating
// Lenient-mode warnings rather than aborting.
func (r *Reader) ToJSON(ctx context.Context) (*emit.Document, error) {
	r.state = StateEmitting
	doc := &emit.Document{}

	for _, table := range r.group.Tables {
		tableDoc := emit.NewTableDoc(table)

		reader, err := r.rowSource(ctx, table)
		if err != nil {
			r.state = StateFailed
			return nil, err
		}
		engine := rowengine.NewEngine(table, reader)
		for {
			row, err := engine.Next()
			if err == io.EOF {
				break
			}
			if err != nil {
				if r.opts.Mode == csvwerr.Lenient && csvwerr.AllDowngradable(err) {
					r.warnings = multierror.Append(r.warnings, err)
				} else {
					r.state = StateFailed
					return nil, err
				}
			}
			if row == nil {
				continue
			}
			tableDoc.AppendRow(row)
		}
		doc.Tables = append(doc.Tables, *tableDoc)
	}

	r.state = StateDone
	return doc, nil
}
