package emit

import (
	"strconv"
	"time"

	"gonum.org/v1/gonum/graph/formats/rdf"
)

const provNS = "http://www.w3.org/ns/prov#"

// SourceRole is the prov:Role a fetched source played (§6.7).
type SourceRole string

const (
	RoleCSV      SourceRole = csvwNS + "csvEncodedTabularData"
	RoleMetadata SourceRole = csvwNS + "tabularMetadata"
)

// SourceUsage records one CSV/metadata source the Reader consumed,
// for the provenance activity's prov:qualifiedUsage entries.
type SourceUsage struct {
	URL  string
	Role SourceRole
}

// EmitProvenance attaches a prov:Activity (unless Minimal or the
// caller's noProv option suppressed this call entirely) with
// startedAtTime/endedAtTime and one prov:qualifiedUsage blank node per
// source (§4.7).
func (e *Emitter) EmitProvenance(activityLabel string, started, ended time.Time, sources []SourceUsage) error {
	if e.Minimal {
		return nil
	}

	activity := mustBlank(activityLabel)
	if err := e.Sink.Emit(rdf.Statement{Subject: activity, Predicate: rdfType, Object: mustIRI(provNS + "Activity")}); err != nil {
		return err
	}
	if err := e.Sink.Emit(rdf.Statement{
		Subject:   activity,
		Predicate: mustIRI(provNS + "startedAtTime"),
		Object:    literalTerm(started.UTC().Format(time.RFC3339), xsdNS+"dateTime", ""),
	}); err != nil {
		return err
	}
	if err := e.Sink.Emit(rdf.Statement{
		Subject:   activity,
		Predicate: mustIRI(provNS + "endedAtTime"),
		Object:    literalTerm(ended.UTC().Format(time.RFC3339), xsdNS+"dateTime", ""),
	}); err != nil {
		return err
	}

	for i, src := range sources {
		usage := mustBlank(activityLabel + "-usage-" + strconv.Itoa(i))
		if err := e.Sink.Emit(rdf.Statement{Subject: activity, Predicate: mustIRI(provNS + "qualifiedUsage"), Object: usage}); err != nil {
			return err
		}
		if err := e.Sink.Emit(rdf.Statement{Subject: usage, Predicate: rdfType, Object: mustIRI(provNS + "Usage")}); err != nil {
			return err
		}
		if err := e.Sink.Emit(rdf.Statement{Subject: usage, Predicate: mustIRI(provNS + "entity"), Object: mustIRI(src.URL)}); err != nil {
			return err
		}
		if err := e.Sink.Emit(rdf.Statement{Subject: usage, Predicate: mustIRI(provNS + "hadRole"), Object: mustIRI(string(src.Role))}); err != nil {
			return err
		}
	}
	return nil
}
