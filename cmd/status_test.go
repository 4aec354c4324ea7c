package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rossinienergy/citypages/internal/model"
	"github.com/rossinienergy/citypages/internal/monitoring"
)

func TestFormatStatus(t *testing.T) {
	started := time.Date(2026, 10, 16, 9, 30, 0, 0, time.UTC)
	completed := started.Add(95 * time.Second)
	snap := &monitoring.Snapshot{
		Entities:     200,
		WithGeometry: 198,
		Coverage: []monitoring.GroupCoverage{
			{Group: model.GroupSolar, Present: 150, Ratio: 0.75},
			{Group: model.GroupClimate, Present: 0, Ratio: 0},
		},
		LastRuns: []model.PassRun{
			{
				ID: "abc12345-6789-0000-0000-000000000000", Pass: "solar", Status: model.RunStatusComplete,
				StartedAt: started, CompletedAt: &completed,
				PassCounts: model.PassCounts{Pending: 50, Enriched: 47, Skipped: 2, NoResult: 1},
			},
			{
				ID: "def12345-6789-0000-0000-000000000000", Pass: "pois", Status: model.RunStatusRunning,
				StartedAt: started.Add(-time.Hour),
			},
		},
	}

	var buf bytes.Buffer
	formatStatus(&buf, snap)
	out := buf.String()

	assert.Contains(t, out, "Localities:")
	assert.Contains(t, out, "200")
	assert.Contains(t, out, "150/200")
	assert.Contains(t, out, "75.0%")
	assert.Contains(t, out, "0/200")
	assert.Contains(t, out, "abc12345")
	assert.NotContains(t, out, "abc12345-6789")
	assert.Contains(t, out, "2026-10-16 09:30")
	assert.Contains(t, out, "1m35s")
	assert.Contains(t, out, "running")
}

func TestFormatStatus_RunLogDisabled(t *testing.T) {
	var buf bytes.Buffer
	formatStatus(&buf, &monitoring.Snapshot{RunLogDisabled: true})
	assert.Contains(t, buf.String(), "Run log disabled.")
}

func TestFormatStatus_NoRuns(t *testing.T) {
	var buf bytes.Buffer
	formatStatus(&buf, &monitoring.Snapshot{Entities: 3})
	assert.Contains(t, buf.String(), "No pass runs recorded.")
}

func TestFormatPassResults(t *testing.T) {
	var buf bytes.Buffer
	formatPassResults(&buf, []passResult{
		{Pass: "climate", Counts: model.PassCounts{Pending: 12, Enriched: 10, NoResult: 1, Failed: 1}},
	})
	out := buf.String()
	assert.Contains(t, out, "PASS")
	assert.Contains(t, out, "NO_RESULT")
	assert.Contains(t, out, "climate")
	assert.Contains(t, out, "12")
}

func TestTruncateID(t *testing.T) {
	assert.Equal(t, "abc12345", truncateID("abc12345-6789"))
	assert.Equal(t, "short", truncateID("short"))
}
