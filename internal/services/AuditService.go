package services

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"lipid/internal/models"
	"lipid/internal/providers"
	"lipid/internal/store"
)

const (
	logKey    = "db_ai_global_logs"
	configKey = "db_ai_global_config"

	maxLogEntries = 50
	maxQueryLen   = 100
)

var bannedSubstrings = []string{"hack", "cheat"}

type AuditServiceInterface interface {
	RecordActivity(user, query string) models.LogEntry
	Logs() []models.LogEntry
	ClearLogs()
	ExportLogs() string
	Config() models.SystemConfig
	SaveConfig(cfg models.SystemConfig)
}

// AuditService keeps the cross-user activity log and the singleton system
// configuration. The log is newest-first and hard-capped at 50 entries.
type AuditService struct {
	store   store.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	// Serializes read-modify-write cycles on the shared log key.
	mu sync.Mutex
}

func NewAuditService(st store.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) AuditServiceInterface {
	return &AuditService{store: st, logger: logger, metrics: metrics}
}

func (a *AuditService) RecordActivity(user, query string) models.LogEntry {
	entry := models.LogEntry{
		ID:        uuid.NewString(),
		User:      user,
		Query:     truncate(query, maxQueryLen),
		Timestamp: time.Now(),
		Flagged:   isFlagged(query),
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	logs := a.loadLogs()
	logs = append([]models.LogEntry{entry}, logs...)
	if len(logs) > maxLogEntries {
		logs = logs[:maxLogEntries]
	}
	a.persistLogs(logs)

	if entry.Flagged {
		a.metrics.IncFlaggedQueries()
		a.logger.Warnf(providers.TypeApp, "Flagged query from %s: %q", user, entry.Query)
	}
	return entry
}

func (a *AuditService) Logs() []models.LogEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loadLogs()
}

func (a *AuditService) ClearLogs() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.persistLogs([]models.LogEntry{})
}

func (a *AuditService) ExportLogs() string {
	logs := a.Logs()
	lines := make([]string, 0, len(logs))
	for _, l := range logs {
		flag := "NO"
		if l.Flagged {
			flag = "YES"
		}
		lines = append(lines, fmt.Sprintf("[%s] USER: %s | QUERY: %s | FLAG: %s",
			l.Timestamp.Format(time.RFC3339), l.User, l.Query, flag))
	}
	return strings.Join(lines, "\n")
}

// Config returns the persisted system configuration, seeding and returning
// the hardcoded default when none exists.
func (a *AuditService) Config() models.SystemConfig {
	var cfg models.SystemConfig
	res := store.DecodeJSON(a.store, configKey, &cfg)
	if res.State == store.LoadOk {
		return cfg
	}
	if res.State == store.LoadCorrupt {
		a.logger.Warnf(providers.TypeApp, "Corrupt system config, reseeding default")
	}
	cfg = models.DefaultSystemConfig()
	a.SaveConfig(cfg)
	return cfg
}

func (a *AuditService) SaveConfig(cfg models.SystemConfig) {
	if err := store.EncodeJSON(a.store, configKey, cfg); err != nil {
		a.logger.Errorf(providers.TypeApp, "Failed to persist system config: %s", err)
	}
}

func (a *AuditService) loadLogs() []models.LogEntry {
	var logs []models.LogEntry
	res := store.DecodeJSON(a.store, logKey, &logs)
	if res.State == store.LoadCorrupt {
		a.logger.Warnf(providers.TypeApp, "Corrupt activity log, treating as empty")
	}
	return logs
}

func (a *AuditService) persistLogs(logs []models.LogEntry) {
	if err := store.EncodeJSON(a.store, logKey, logs); err != nil {
		a.logger.Errorf(providers.TypeApp, "Failed to persist activity log: %s", err)
	}
}

func isFlagged(query string) bool {
	q := strings.ToLower(query)
	for _, banned := range bannedSubstrings {
		if strings.Contains(q, banned) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
