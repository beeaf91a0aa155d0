package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"lipid/internal/models"
	"lipid/internal/providers"
	"lipid/internal/structures"
)

const fallbackReply = "I'm sorry, I couldn't generate a response at this time. Please try again."

type MentorServiceInterface interface {
	Chat(ctx context.Context, user models.User, prompt string, history []models.Message, cfg models.SystemConfig, imageData []byte) (models.Message, error)
	GenerateImage(ctx context.Context, prompt string, cfg models.SystemConfig) (models.GeneratedImage, error)
	Close()
}

// MentorService brokers calls to the Gemini API. System instruction and
// safety level come from the admin-managed SystemConfig; conversation
// context is capped to the most recent turns.
type MentorService struct {
	client *genai.Client
	conf   *structures.Config
	logger providers.Logger
}

func NewMentorService(conf *structures.Config, logger providers.Logger) (MentorServiceInterface, error) {
	if conf.Mentor.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(conf.Mentor.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}
	return &MentorService{client: client, conf: conf, logger: logger}, nil
}

func (m *MentorService) Close() {
	if m.client != nil {
		if err := m.client.Close(); err != nil {
			m.logger.Errorf(providers.TypeApp, "Error closing GenAI client: %s", err)
		}
	}
}

func (m *MentorService) Chat(ctx context.Context, user models.User, prompt string, history []models.Message, cfg models.SystemConfig, imageData []byte) (models.Message, error) {
	model := m.client.GenerativeModel(m.conf.Mentor.ChatModel)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(cfg.Instruction)},
	}
	model.SafetySettings = safetySettings(cfg.SafetyLevel)

	session := model.StartChat()
	session.History = toContents(lastTurns(history, m.conf.Mentor.HistoryTurns))

	parts := []genai.Part{genai.Text(prompt)}
	if len(imageData) > 0 {
		parts = append(parts, genai.ImageData("png", imageData))
	}

	resp, err := session.SendMessage(ctx, parts...)
	if err != nil {
		return models.Message{}, fmt.Errorf("gemini chat request failed: %w", err)
	}

	reply := models.Message{
		Role:      models.RoleModelMsg,
		Timestamp: time.Now(),
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		m.logger.Warnf(providers.TypeApp, "Empty Gemini response for user %s", user.Username)
		reply.Content = fallbackReply
		return reply, nil
	}

	candidate := resp.Candidates[0]
	for _, part := range candidate.Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			reply.Content += string(p)
		case genai.Blob:
			if reply.ImageURL == "" {
				reply.ImageURL = blobToDataURI(p)
			}
		}
	}
	reply.Sources = extractSources(candidate)

	if reply.Content == "" && reply.ImageURL == "" {
		reply.Content = fallbackReply
	}
	return reply, nil
}

func (m *MentorService) GenerateImage(ctx context.Context, prompt string, cfg models.SystemConfig) (models.GeneratedImage, error) {
	model := m.client.GenerativeModel(m.conf.Mentor.ImageModel)
	model.SafetySettings = safetySettings(cfg.SafetyLevel)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return models.GeneratedImage{}, fmt.Errorf("gemini image request failed: %w", err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return models.GeneratedImage{}, fmt.Errorf("no candidates in image response")
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return models.GeneratedImage{
				URL:       blobToDataURI(blob),
				Prompt:    prompt,
				Timestamp: time.Now(),
			}, nil
		}
	}
	return models.GeneratedImage{}, fmt.Errorf("no inline image data in response")
}

func safetySettings(level models.SafetyLevel) []*genai.SafetySetting {
	threshold := genai.HarmBlockMediumAndAbove
	switch level {
	case models.SafetyStrict:
		threshold = genai.HarmBlockLowAndAbove
	case models.SafetyRelaxed:
		threshold = genai.HarmBlockOnlyHigh
	}

	categories := []genai.HarmCategory{
		genai.HarmCategoryHarassment,
		genai.HarmCategoryHateSpeech,
		genai.HarmCategorySexuallyExplicit,
		genai.HarmCategoryDangerousContent,
	}
	settings := make([]*genai.SafetySetting, 0, len(categories))
	for _, c := range categories {
		settings = append(settings, &genai.SafetySetting{Category: c, Threshold: threshold})
	}
	return settings
}

// lastTurns keeps only the n most recent messages as conversation context.
func lastTurns(history []models.Message, n int) []models.Message {
	if n <= 0 || len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}

func toContents(history []models.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		if msg.Content == "" {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  string(msg.Role),
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

func blobToDataURI(blob genai.Blob) string {
	mime := blob.MIMEType
	if mime == "" {
		mime = "image/png"
	}
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(blob.Data)
}

func extractSources(candidate *genai.Candidate) []models.GroundingSource {
	if candidate.CitationMetadata == nil {
		return nil
	}
	var sources []models.GroundingSource
	for _, cs := range candidate.CitationMetadata.CitationSources {
		if cs.URI == nil || *cs.URI == "" {
			continue
		}
		title := *cs.URI
		if u, err := url.Parse(*cs.URI); err == nil && u.Host != "" {
			title = u.Host
		}
		sources = append(sources, models.GroundingSource{Title: title, URI: *cs.URI})
	}
	return sources
}
