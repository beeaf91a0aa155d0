package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lipid/internal/models"
	"lipid/internal/store"
	"lipid/internal/testutil"
)

func newTestAudit(t *testing.T) (AuditServiceInterface, *store.MemStore, *testutil.MockMetrics) {
	t.Helper()
	st := store.NewMemStore()
	metrics := &testutil.MockMetrics{}
	return NewAuditService(st, &testutil.MockLogger{}, metrics), st, metrics
}

func TestAuditService_RecordActivityNewestFirst(t *testing.T) {
	a, _, _ := newTestAudit(t)

	a.RecordActivity("jane", "first question")
	a.RecordActivity("bob", "second question")

	logs := a.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "second question", logs[0].Query)
	assert.Equal(t, "bob", logs[0].User)
	assert.Equal(t, "first question", logs[1].Query)
	assert.NotEmpty(t, logs[0].ID)
	assert.NotEqual(t, logs[0].ID, logs[1].ID)
}

func TestAuditService_CapEvictsOldest(t *testing.T) {
	a, _, _ := newTestAudit(t)

	for i := 0; i < 51; i++ {
		a.RecordActivity("jane", fmt.Sprintf("query %d", i))
	}

	logs := a.Logs()
	require.Len(t, logs, 50)
	assert.Equal(t, "query 50", logs[0].Query)
	assert.Equal(t, "query 1", logs[49].Query)
}

func TestAuditService_TruncatesLongQueries(t *testing.T) {
	a, _, _ := newTestAudit(t)

	long := strings.Repeat("x", 150)
	entry := a.RecordActivity("jane", long)
	assert.Len(t, []rune(entry.Query), 100)

	// Multi-byte runes count as one character
	devanagari := strings.Repeat("ल", 120)
	entry = a.RecordActivity("jane", devanagari)
	assert.Len(t, []rune(entry.Query), 100)

	short := "short enough"
	entry = a.RecordActivity("jane", short)
	assert.Equal(t, short, entry.Query)
}

func TestAuditService_FlagsBannedSubstrings(t *testing.T) {
	a, _, metrics := newTestAudit(t)

	tests := []struct {
		query   string
		flagged bool
	}{
		{"let's hack the test", true},
		{"HOW TO CHEAT on homework", true},
		{"Hackathon ideas", true},
		{"what is photosynthesis", false},
		{"teach me chess", false},
	}
	for _, tt := range tests {
		entry := a.RecordActivity("jane", tt.query)
		assert.Equal(t, tt.flagged, entry.Flagged, tt.query)
	}
	assert.Equal(t, 3, metrics.FlaggedQueries)
}

func TestAuditService_TruncationKeepsFlagFromFullQuery(t *testing.T) {
	a, _, _ := newTestAudit(t)

	// Banned word sits past the truncation point
	query := strings.Repeat("a", 100) + " hack"
	entry := a.RecordActivity("jane", query)
	assert.True(t, entry.Flagged)
	assert.NotContains(t, entry.Query, "hack")
}

func TestAuditService_ClearLogs(t *testing.T) {
	a, st, _ := newTestAudit(t)

	a.RecordActivity("jane", "something")
	a.ClearLogs()

	assert.Empty(t, a.Logs())

	// Cleared, not removed: the key persists as an empty list
	raw, ok := st.Get("db_ai_global_logs")
	require.True(t, ok)
	assert.Equal(t, "[]", raw)
}

func TestAuditService_CorruptLogTreatedAsEmpty(t *testing.T) {
	a, st, _ := newTestAudit(t)
	st.Set("db_ai_global_logs", "{nope")

	assert.Empty(t, a.Logs())

	a.RecordActivity("jane", "fresh")
	assert.Len(t, a.Logs(), 1)
}

func TestAuditService_ExportLogsFormat(t *testing.T) {
	a, _, _ := newTestAudit(t)

	a.RecordActivity("jane", "what is gravity")
	a.RecordActivity("bob", "hack the planet")

	export := a.ExportLogs()
	lines := strings.Split(export, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "USER: bob | QUERY: hack the planet | FLAG: YES")
	assert.Contains(t, lines[1], "USER: jane | QUERY: what is gravity | FLAG: NO")
	assert.True(t, strings.HasPrefix(lines[0], "["))
}

func TestAuditService_ConfigSeedsDefault(t *testing.T) {
	a, st, _ := newTestAudit(t)

	cfg := a.Config()
	assert.Equal(t, models.SafetyStandard, cfg.SafetyLevel)
	assert.NotEmpty(t, cfg.Instruction)

	// First read seeds the store so later reads are stable
	_, ok := st.Get("db_ai_global_config")
	assert.True(t, ok)
}

func TestAuditService_ConfigRoundTrip(t *testing.T) {
	a, _, _ := newTestAudit(t)

	cfg := a.Config()
	cfg.SafetyLevel = models.SafetyStrict
	cfg.Instruction = "be brief"
	cfg.FeaturedPrompts = []string{"draw a rocket"}
	a.SaveConfig(cfg)

	got := a.Config()
	assert.Equal(t, cfg, got)
}

func TestAuditService_CorruptConfigReseeded(t *testing.T) {
	a, st, _ := newTestAudit(t)
	st.Set("db_ai_global_config", "broken{")

	cfg := a.Config()
	assert.Equal(t, models.DefaultSystemConfig().SafetyLevel, cfg.SafetyLevel)

	raw, _ := st.Get("db_ai_global_config")
	assert.NotEqual(t, "broken{", raw)
}
