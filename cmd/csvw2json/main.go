// Command csvw2json converts a CSV (or metadata document) URL to the
// canonical tabular-data-as-JSON shape (§4.7, §6.8).
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/k0kubun/pp/v3"

	"github.com/csvw-go/rdf-tabular/cli"
	"github.com/csvw-go/rdf-tabular/csvw"
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
		buf, err := os.ReadFile(f.UserMetadata)
		if err != nil {
			logger.Error("reading user metadata", "err", err)
			os.Exit(1)
		}
		userMetadata, err = metadata.ParseTableGroup(buf)
		if err != nil {
			logger.Error("parsing user metadata", "err", err)
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

	doc, err := reader.ToJSON(context.Background())
	if err != nil {
		logger.Error("conversion failed", "err", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		logger.Error("encoding failed", "err", err)
		os.Exit(1)
	}

	for _, w := range reader.Warnings() {
		logger.Warn("downgraded error", "err", w)
	}
}
