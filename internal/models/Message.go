package models

import "time"

type MessageRole string

const (
	RoleUserMsg  MessageRole = "user"
	RoleModelMsg MessageRole = "model"
)

// GroundingSource is a citation returned alongside a model response when
// the provider consulted external search.
type GroundingSource struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Message is a single chat turn. Messages are append-only: once written to
// a collection they are never mutated.
type Message struct {
	Role        MessageRole       `json:"role"`
	Content     string            `json:"content"`
	Translation string            `json:"translation,omitempty"`
	Timestamp   time.Time         `json:"timestamp"`
	Sources     []GroundingSource `json:"sources,omitempty"`
	ImageURL    string            `json:"imageUrl,omitempty"`
}

// GeneratedImage is one entry of the art collection, most-recent-first.
type GeneratedImage struct {
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	Timestamp time.Time `json:"timestamp"`
}

// GeneratedVideo is one entry of the video collection, most-recent-first.
type GeneratedVideo struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Prompt      string    `json:"prompt"`
	Timestamp   time.Time `json:"timestamp"`
	AspectRatio string    `json:"aspectRatio,omitempty"`
}
