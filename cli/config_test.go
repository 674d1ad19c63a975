package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csvw-go/rdf-tabular/csvwerr"
)

func TestLoadFileConfigEmptyPathReturnsZeroValue(t *testing.T) {
	fc, err := LoadFileConfig("")
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, fc)
}

func TestLoadFileConfigParsesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mode: lenient\nvalidate: true\nlog_level: debug\n"), 0o644))

	fc, err := LoadFileConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "lenient", fc.Mode)
	require.NotNil(t, fc.Validate)
	assert.True(t, *fc.Validate)
	assert.Equal(t, "debug", fc.LogLevel)
}

func TestLoadFileConfigRejectsUnknownField(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bogus_field: true\n"), 0o644))

	_, err := LoadFileConfig(path)
	assert.Error(t, err)
}

func TestMergeOnlyFillsUnflaggedDefaults(t *testing.T) {
	f := &Flags{Mode: "strict", LogLevel: "info", LogFormat: "text"}
	validateOn := true
	fc := FileConfig{Mode: "lenient", Validate: &validateOn, UserMetadata: "meta.json"}

	Merge(f, fc)

	assert.Equal(t, "lenient", f.Mode)
	assert.True(t, f.Validate)
	assert.Equal(t, "meta.json", f.UserMetadata)
}

func TestMergeLeavesExplicitFlagsAlone(t *testing.T) {
	f := &Flags{Mode: "lenient", LogLevel: "debug", LogFormat: "json"}
	fc := FileConfig{Mode: "strict", LogLevel: "error", LogFormat: "text"}

	Merge(f, fc)

	assert.Equal(t, "lenient", f.Mode)
	assert.Equal(t, "debug", f.LogLevel)
	assert.Equal(t, "json", f.LogFormat)
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, csvwerr.Lenient, ParseMode("lenient"))
	assert.Equal(t, csvwerr.Lenient, ParseMode("LENIENT"))
	assert.Equal(t, csvwerr.Strict, ParseMode("strict"))
	assert.Equal(t, csvwerr.Strict, ParseMode(""))
}
