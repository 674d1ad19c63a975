// Package cli holds the flag and config-file plumbing shared by
// cmd/csvw2rdf and cmd/csvw2json (§6.8, §6.9): both binaries expose the
// same processor switches over the same Reader, differing only in
// which output format they drive.
package cli

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/jessevdk/go-flags"

	"github.com/csvw-go/rdf-tabular/csvwerr"
)

// Flags is the struct jessevdk/go-flags parses command-line arguments
// into. Field order matches the --help listing.
type Flags struct {
	UserMetadata        string `long:"user-metadata" description:"Path to a metadata document to use as user-supplied metadata" value-name:"path"`
	MetadataURL         string `long:"metadata-url" description:"Treat the URL argument itself as a metadata document, bypassing discovery" value-name:"url"`
	Base                string `long:"base" description:"Base URL to resolve a local file argument against" value-name:"uri"`
	HTTPLink            string `long:"link-header" description:"Override the Link header that would otherwise be read from the CSV response" value-name:"header"`
	ContentType         string `long:"content-type" description:"Content-Type whose parameters adjust the CSV dialect; the CSV response's own Content-Type header is not read" value-name:"content-type"`
	Mode                string `long:"mode" description:"Processor mode: strict or lenient" value-name:"mode" default:"strict"`
	Validate            bool   `long:"validate" description:"Run structural validation against the discovered metadata tree"`
	CheckForeignKeys    bool   `long:"check-foreign-keys" description:"Enforce foreign key values across tables"`
	Minimal             bool   `long:"minimal" description:"Suppress group/table/row skeleton triples and provenance, emitting only cell data"`
	NoProv              bool   `long:"no-prov" description:"Suppress PROV-O provenance output"`
	Graph               string `long:"graph" description:"Emit N-Quads with every statement placed in this graph name, instead of N-Triples (csvw2rdf only)" value-name:"name"`
	Config              string `long:"config" description:"YAML file of default flag values, overridden by any flag given explicitly" value-name:"path"`
	LogLevel            string `long:"log-level" description:"debug, info, warn, or error" value-name:"level" default:"info"`
	LogFormat           string `long:"log-format" description:"text or json" value-name:"format" default:"text"`
	Debug               bool   `long:"debug" description:"Dump the discovered metadata tree with k0kubun/pp before processing"`
	Help                bool   `long:"help" description:"Show this help"`
	Version             bool   `long:"version" description:"Show this version"`
}

// FileConfig is the shape of the YAML file named by --config. Every
// field mirrors a Flags field; a flag given explicitly on the command
// line always overrides the corresponding config-file value.
type FileConfig struct {
	UserMetadata string `yaml:"user_metadata"`
	MetadataURL  string `yaml:"metadata_url"`
	Base         string `yaml:"base"`
	HTTPLink     string `yaml:"link_header"`
	ContentType  string `yaml:"content_type"`
	Mode             string `yaml:"mode"`
	Validate         *bool  `yaml:"validate"`
	CheckForeignKeys *bool  `yaml:"check_foreign_keys"`
	Minimal          *bool  `yaml:"minimal"`
	NoProv           *bool  `yaml:"no_prov"`
	Graph            string `yaml:"graph"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
}

// Parse runs go-flags over args, prints help/version and exits when
// asked to, and returns the remaining positional arguments (expected
// to be exactly one: the CSV or metadata URL).
func Parse(usage string, args []string) (*Flags, []string, *flags.Parser) {
	var f Flags
	parser := flags.NewParser(&f, flags.None)
	parser.Usage = usage

	rest, err := parser.ParseArgs(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if f.Help {
		parser.WriteHelp(os.Stdout)
		os.Exit(0)
	}

	return &f, rest, parser
}

// LoadFileConfig reads and decodes path, returning a zero FileConfig
// when path is empty.
func LoadFileConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return FileConfig{}, fmt.Errorf("reading config %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(buf), yaml.DisallowUnknownField())
	var fc FileConfig
	if err := dec.Decode(&fc); err != nil {
		return FileConfig{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return fc, nil
}

// Merge overlays fc onto f wherever f's flag kept its flags-default
// value (string flags, since go-flags leaves no trace of whether a
// bool flag was explicitly set) — flags.Parser already applied real
// command-line overrides before Merge ever sees f, so fc only fills
// gaps the user left unflagged.
func Merge(f *Flags, fc FileConfig) {
	if f.UserMetadata == "" {
		f.UserMetadata = fc.UserMetadata
	}
	if f.MetadataURL == "" {
		f.MetadataURL = fc.MetadataURL
	}
	if f.Base == "" {
		f.Base = fc.Base
	}
	if f.HTTPLink == "" {
		f.HTTPLink = fc.HTTPLink
	}
	if f.ContentType == "" {
		f.ContentType = fc.ContentType
	}
	if f.Mode == "strict" && fc.Mode != "" {
		f.Mode = fc.Mode
	}
	if !f.Validate && fc.Validate != nil {
		f.Validate = *fc.Validate
	}
	if !f.CheckForeignKeys && fc.CheckForeignKeys != nil {
		f.CheckForeignKeys = *fc.CheckForeignKeys
	}
	if !f.Minimal && fc.Minimal != nil {
		f.Minimal = *fc.Minimal
	}
	if !f.NoProv && fc.NoProv != nil {
		f.NoProv = *fc.NoProv
	}
	if f.Graph == "" {
		f.Graph = fc.Graph
	}
	if f.LogLevel == "info" && fc.LogLevel != "" {
		f.LogLevel = fc.LogLevel
	}
	if f.LogFormat == "text" && fc.LogFormat != "" {
		f.LogFormat = fc.LogFormat
	}
}

// ParseMode maps a flag/config mode string to csvwerr.Mode, defaulting
// to Strict for anything other than "lenient".
func ParseMode(s string) csvwerr.Mode {
	if strings.EqualFold(s, "lenient") {
		return csvwerr.Lenient
	}
	return csvwerr.Strict
}
