package emit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitProvenanceRecordsUsagePerSource(t *testing.T) {
	sink := &SliceSink{}
	e := NewEmitter(sink, false)

	started := time.Date(2026, 7, 30, 12, 0, 0, 0, time.UTC)
	ended := started.Add(2 * time.Second)

	err := e.EmitProvenance("activity", started, ended, []SourceUsage{
		{URL: "https://example.org/data.csv", Role: RoleCSV},
		{URL: "https://example.org/data.csv-metadata.json", Role: RoleMetadata},
	})
	require.NoError(t, err)

	var roleObjects []interface{}
	for _, stmt := range sink.Statements {
		if stmt.Predicate == mustIRI(provNS+"hadRole") {
			roleObjects = append(roleObjects, stmt.Object)
		}
	}
	require.Len(t, roleObjects, 2)
	assert.Equal(t, mustIRI(string(RoleCSV)), roleObjects[0])
	assert.Equal(t, mustIRI(string(RoleMetadata)), roleObjects[1])

	var sawActivity bool
	for _, stmt := range sink.Statements {
		if stmt.Object == mustIRI(provNS+"Activity") {
			sawActivity = true
		}
	}
	assert.True(t, sawActivity)
}

func TestEmitProvenanceMinimalModeIsNoOp(t *testing.T) {
	sink := &SliceSink{}
	e := NewEmitter(sink, true)

	err := e.EmitProvenance("activity", time.Now(), time.Now(), []SourceUsage{{URL: "https://example.org/data.csv", Role: RoleCSV}})
	require.NoError(t, err)
	assert.Empty(t, sink.Statements)
}
