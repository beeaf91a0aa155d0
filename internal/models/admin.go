package models

import "time"

type SafetyLevel string

const (
	SafetyStandard SafetyLevel = "Standard"
	SafetyStrict   SafetyLevel = "Strict"
	SafetyRelaxed  SafetyLevel = "Relaxed"
)

// LogEntry is one cross-user activity record. The log is bounded to the 50
// most recent entries, oldest evicted first.
type LogEntry struct {
	ID        string    `json:"id"`
	User      string    `json:"user"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Flagged   bool      `json:"flagged"`
}

// SystemConfig is the single mutable configuration record shared by all
// users. It is replaced wholesale on save, never patched.
type SystemConfig struct {
	Instruction     string      `json:"instruction"`
	SafetyLevel     SafetyLevel `json:"safetyLevel"`
	FeaturedPrompts []string    `json:"featuredPrompts"`
}

func DefaultSystemConfig() SystemConfig {
	return SystemConfig{
		Instruction: "You are Lipi AI, a global genius mentor for youth worldwide. " +
			"Be extremely fast, compassionate, and concise.",
		SafetyLevel: SafetyStandard,
		FeaturedPrompts: []string{
			"How can I help my global community?",
			"Design a low-cost water filter",
			"Explain AI ethics for youth",
		},
	}
}
