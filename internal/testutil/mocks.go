package testutil

import (
	"context"
	"sync"
	"time"

	"lipid/internal/models"
	"lipid/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogLine
}

type LogLine struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogLine{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockMetrics implements providers.MetricsProviderInterface and counts
// the calls tests care about.
type MockMetrics struct {
	mu              sync.Mutex
	FlaggedQueries  int
	CollectionSizes map[string]int
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration)       {}

func (m *MockMetrics) SetCollectionSize(kind string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CollectionSizes == nil {
		m.CollectionSizes = make(map[string]int)
	}
	m.CollectionSizes[kind] = count
}

func (m *MockMetrics) IncFlaggedQueries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FlaggedQueries++
}

// MockMentor implements services.MentorServiceInterface without touching
// the network.
type MockMentor struct {
	mu         sync.Mutex
	Reply      models.Message
	Image      models.GeneratedImage
	Err        error
	ChatCalls  []string
	ImageCalls []string
}

func (m *MockMentor) Chat(_ context.Context, _ models.User, prompt string, _ []models.Message, _ models.SystemConfig, _ []byte) (models.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatCalls = append(m.ChatCalls, prompt)
	if m.Err != nil {
		return models.Message{}, m.Err
	}
	reply := m.Reply
	if reply.Content == "" {
		reply = models.Message{Role: models.RoleModelMsg, Content: "mock reply", Timestamp: time.Now()}
	}
	return reply, nil
}

func (m *MockMentor) GenerateImage(_ context.Context, prompt string, _ models.SystemConfig) (models.GeneratedImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ImageCalls = append(m.ImageCalls, prompt)
	if m.Err != nil {
		return models.GeneratedImage{}, m.Err
	}
	img := m.Image
	if img.URL == "" {
		img = models.GeneratedImage{URL: "data:image/png;base64,bW9jaw==", Prompt: prompt, Timestamp: time.Now()}
	}
	return img, nil
}

func (m *MockMentor) Close() {}
