// Command csvw2rdf converts a CSV (or metadata document) URL to RDF,
// as N-Triples by default or N-Quads when --graph is given (§6.8).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/csvw-go/rdf-tabular/cli"
	"github.com/csvw-go/rdf-tabular/csvw"
	"github.com/csvw-go/rdf-tabular/emit"
	"github.com/csvw-go/rdf-tabular/metadata"
	"github.com/csvw-go/rdf-tabular/util"
)

var version = "dev"

func main() {
	f, rest, parser := cli.Parse("[options] url", os.Args[1:])

	if f.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	fc, err := cli.LoadFileConfig(f.Config)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cli.Merge(f, fc)

	if len(rest) != 1 {
		fmt.Fprintln(os.Stderr, "exactly one URL argument is required")
		parser.WriteHelp(os.Stdout)
		os.Exit(1)
	}
	csvURL := rest[0]

	logger := util.NewLogger(util.ParseLogLevel(f.LogLevel), f.LogFormat)

	var userMetadata *metadata.TableGroup
	if f.UserMetadata != "" {
		userMetadata, err = loadUserMetadata(f.UserMetadata)
		if err != nil {
			logger.Error("reading user metadata", "err", err)
			os.Exit(1)
		}
	}

	opts := csvw.Options{
		UserMetadata:        userMetadata,
		Base:                f.Base,
		MetadataURL:         f.MetadataURL,
		HTTPLinkOverride:    f.HTTPLink,
		ContentTypeOverride: f.ContentType,
		Mode:                cli.ParseMode(f.Mode),
		Validate:            f.Validate,
		Minimal:             f.Minimal,
		NoProv:              f.NoProv,
		Logger:              logger,
	}

	reader, err := csvw.Open(context.Background(), csvURL, opts)
	if err != nil {
		logger.Error("discovery failed", "err", err)
		os.Exit(1)
	}

	if f.Debug {
		pp.Println(reader.Tables())
	}

	if err := reader.Validate(); err != nil {
		logger.Error("validation failed", "err", err)
		os.Exit(1)
	}

	if f.CheckForeignKeys {
		if err := reader.CheckForeignKeys(context.Background()); err != nil {
			logger.Error("foreign key check failed", "err", err)
			os.Exit(1)
		}
	}

	var sink interface {
		emit.Sink
		Flush() error
	}
	if f.Graph != "" {
		sink = emit.NewNQuadsSink(os.Stdout, f.Graph)
	} else {
		sink = emit.NewNTriplesSink(os.Stdout)
	}
	if err := reader.EmitRDF(context.Background(), sink); err != nil {
		logger.Error("emission failed", "err", err)
		os.Exit(1)
	}
	if err := sink.Flush(); err != nil {
		logger.Error("flush failed", "err", err)
		os.Exit(1)
	}

	for _, w := range reader.Warnings() {
		logger.Warn("downgraded error", "err", w)
	}
}

func loadUserMetadata(path string) (*metadata.TableGroup, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return metadata.ParseTableGroup(buf)
}
