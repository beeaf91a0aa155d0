package services

import (
	"strings"

	"go.uber.org/atomic"

	"lipid/internal/models"
	"lipid/internal/store"
)

const maxResultsPerKind = 5

// SearchResult is a read-only projection over the chat and art
// collections. Collection order is preserved; there is no relevance
// ranking.
type SearchResult struct {
	Query string                  `json:"query"`
	Chats []models.Message        `json:"chats"`
	Art   []models.GeneratedImage `json:"art"`
}

type SearchServiceInterface interface {
	Search(owner, query string) SearchResult
	FilterNotes(owner, query string) []models.Note
	Generation() uint64
}

// SearchService runs an on-demand linear scan. Collections are small
// (bounded by manual user activity), so no index is built. The generation
// counter advances whenever a collection key changes; callers fold it into
// cache keys so cached results never outlive the data they were built from.
type SearchService struct {
	history HistoryServiceInterface
	gen     atomic.Uint64
}

func NewSearchService(history HistoryServiceInterface, st store.StoreInterface) SearchServiceInterface {
	s := &SearchService{history: history}
	st.Subscribe(func(key string) {
		if strings.HasPrefix(key, keyPrefix) {
			s.gen.Inc()
		}
	})
	return s
}

func (s *SearchService) Generation() uint64 {
	return s.gen.Load()
}

func (s *SearchService) Search(owner, query string) SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		// Idle state: nothing is scanned for an empty query.
		return SearchResult{}
	}
	q := strings.ToLower(query)

	result := SearchResult{Query: query}

	chats, _ := s.history.LoadChat(owner)
	for _, m := range chats {
		if len(result.Chats) == maxResultsPerKind {
			break
		}
		if strings.Contains(strings.ToLower(m.Content), q) ||
			(m.Translation != "" && strings.Contains(strings.ToLower(m.Translation), q)) {
			result.Chats = append(result.Chats, m)
		}
	}

	art, _ := s.history.LoadArt(owner)
	for _, a := range art {
		if len(result.Art) == maxResultsPerKind {
			break
		}
		if strings.Contains(strings.ToLower(a.Prompt), q) {
			result.Art = append(result.Art, a)
		}
	}

	return result
}

func (s *SearchService) FilterNotes(owner, query string) []models.Note {
	notes, _ := s.history.LoadNotes(owner)
	query = strings.TrimSpace(query)
	if query == "" {
		return notes
	}
	q := strings.ToLower(query)

	filtered := make([]models.Note, 0, len(notes))
	for _, n := range notes {
		if strings.Contains(strings.ToLower(n.Content), q) ||
			strings.Contains(strings.ToLower(n.Title), q) {
			filtered = append(filtered, n)
		}
	}
	return filtered
}
