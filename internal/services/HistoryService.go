package services

import (
	"regexp"
	"sync"

	"lipid/internal/models"
	"lipid/internal/providers"
	"lipid/internal/store"
)

// Kind names a history collection type. The value doubles as the key
// segment, so renaming one orphans existing data.
type Kind string

const (
	KindChat  Kind = "chat_history"
	KindArt   Kind = "art_history"
	KindNotes Kind = "notes"
	KindVideo Kind = "video_history"
)

const keyPrefix = "db_ai_"

// CollectionID identifies one per-user, per-kind collection. Key derivation
// lives here and nowhere else.
type CollectionID struct {
	Kind  Kind
	Owner string
}

func (c CollectionID) Key() string {
	return keyPrefix + string(c.Kind) + "_" + Sanitize(c.Owner)
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Sanitize replaces runs of whitespace in a username with a single
// underscore. Idempotent. Distinct usernames can still collide after
// sanitizing; that is accepted, the store is single-browser-profile scoped.
func Sanitize(username string) string {
	return whitespaceRun.ReplaceAllString(username, "_")
}

type HistoryServiceInterface interface {
	LoadChat(owner string) ([]models.Message, store.LoadState)
	AppendChat(owner string, msg models.Message)
	ResetChat(owner string, welcome models.Message)

	LoadArt(owner string) ([]models.GeneratedImage, store.LoadState)
	AddArt(owner string, img models.GeneratedImage)
	ClearArt(owner string)

	LoadVideos(owner string) ([]models.GeneratedVideo, store.LoadState)
	AddVideo(owner string, vid models.GeneratedVideo)
	ClearVideos(owner string)

	LoadNotes(owner string) ([]models.Note, store.LoadState)
	AddNote(owner string, note models.Note)
	DeleteNote(owner string, id string) bool

	SetPrivate(owner string, private bool)
	Purge(owner string)
}

// HistoryService owns the per-user ordered logs. Every mutation persists
// the whole collection immediately; there is no batching. Private users get
// a memory-only chat overlay that never reaches the store.
type HistoryService struct {
	store   store.StoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	mu           sync.Mutex
	privateChats map[string][]models.Message
}

func NewHistoryService(st store.StoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) HistoryServiceInterface {
	return &HistoryService{
		store:        st,
		logger:       logger,
		metrics:      metrics,
		privateChats: make(map[string][]models.Message),
	}
}

func (h *HistoryService) isPrivate(owner string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	_, ok := h.privateChats[Sanitize(owner)]
	return ok
}

func (h *HistoryService) SetPrivate(owner string, private bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	key := Sanitize(owner)
	if private {
		if _, ok := h.privateChats[key]; !ok {
			h.privateChats[key] = nil
		}
		return
	}
	delete(h.privateChats, key)
}

func (h *HistoryService) LoadChat(owner string) ([]models.Message, store.LoadState) {
	if h.isPrivate(owner) {
		h.mu.Lock()
		defer h.mu.Unlock()
		msgs := h.privateChats[Sanitize(owner)]
		out := make([]models.Message, len(msgs))
		copy(out, msgs)
		return out, store.LoadOk
	}

	var msgs []models.Message
	state := h.decode(CollectionID{KindChat, owner}, &msgs)
	return msgs, state
}

func (h *HistoryService) AppendChat(owner string, msg models.Message) {
	if h.isPrivate(owner) {
		h.mu.Lock()
		defer h.mu.Unlock()
		key := Sanitize(owner)
		h.privateChats[key] = append(h.privateChats[key], msg)
		return
	}

	msgs, _ := h.LoadChat(owner)
	msgs = append(msgs, msg)
	h.persist(CollectionID{KindChat, owner}, msgs)
	h.metrics.SetCollectionSize("chat", len(msgs))
}

func (h *HistoryService) ResetChat(owner string, welcome models.Message) {
	seeded := []models.Message{welcome}
	if h.isPrivate(owner) {
		h.mu.Lock()
		defer h.mu.Unlock()
		h.privateChats[Sanitize(owner)] = seeded
		return
	}
	h.persist(CollectionID{KindChat, owner}, seeded)
	h.metrics.SetCollectionSize("chat", 1)
}

func (h *HistoryService) LoadArt(owner string) ([]models.GeneratedImage, store.LoadState) {
	var imgs []models.GeneratedImage
	state := h.decode(CollectionID{KindArt, owner}, &imgs)
	return imgs, state
}

// AddArt prepends: the art collection reads most-recent-first.
func (h *HistoryService) AddArt(owner string, img models.GeneratedImage) {
	imgs, _ := h.LoadArt(owner)
	imgs = append([]models.GeneratedImage{img}, imgs...)
	h.persist(CollectionID{KindArt, owner}, imgs)
	h.metrics.SetCollectionSize("art", len(imgs))
}

func (h *HistoryService) ClearArt(owner string) {
	h.store.Remove(CollectionID{KindArt, owner}.Key())
	h.metrics.SetCollectionSize("art", 0)
}

func (h *HistoryService) LoadVideos(owner string) ([]models.GeneratedVideo, store.LoadState) {
	var vids []models.GeneratedVideo
	state := h.decode(CollectionID{KindVideo, owner}, &vids)
	return vids, state
}

func (h *HistoryService) AddVideo(owner string, vid models.GeneratedVideo) {
	vids, _ := h.LoadVideos(owner)
	vids = append([]models.GeneratedVideo{vid}, vids...)
	h.persist(CollectionID{KindVideo, owner}, vids)
	h.metrics.SetCollectionSize("video", len(vids))
}

func (h *HistoryService) ClearVideos(owner string) {
	h.store.Remove(CollectionID{KindVideo, owner}.Key())
	h.metrics.SetCollectionSize("video", 0)
}

func (h *HistoryService) LoadNotes(owner string) ([]models.Note, store.LoadState) {
	var notes []models.Note
	state := h.decode(CollectionID{KindNotes, owner}, &notes)
	return notes, state
}

func (h *HistoryService) AddNote(owner string, note models.Note) {
	notes, _ := h.LoadNotes(owner)
	notes = append(notes, note)
	h.persist(CollectionID{KindNotes, owner}, notes)
	h.metrics.SetCollectionSize("notes", len(notes))
}

func (h *HistoryService) DeleteNote(owner string, id string) bool {
	notes, _ := h.LoadNotes(owner)
	kept := notes[:0]
	found := false
	for _, n := range notes {
		if n.ID == id {
			found = true
			continue
		}
		kept = append(kept, n)
	}
	if !found {
		return false
	}
	h.persist(CollectionID{KindNotes, owner}, kept)
	h.metrics.SetCollectionSize("notes", len(kept))
	return true
}

// Purge removes every collection a user owns. The session record is not
// touched; logout is a separate concern.
func (h *HistoryService) Purge(owner string) {
	for _, kind := range []Kind{KindChat, KindArt, KindNotes, KindVideo} {
		h.store.Remove(CollectionID{kind, owner}.Key())
	}
	h.mu.Lock()
	delete(h.privateChats, Sanitize(owner))
	h.mu.Unlock()
}

func (h *HistoryService) decode(id CollectionID, v any) store.LoadState {
	res := store.DecodeJSON(h.store, id.Key(), v)
	if res.State == store.LoadCorrupt {
		h.logger.Warnf(providers.TypeApp, "Corrupt collection %s, treating as empty", id.Key())
	}
	return res.State
}

func (h *HistoryService) persist(id CollectionID, v any) {
	if err := store.EncodeJSON(h.store, id.Key(), v); err != nil {
		h.logger.Errorf(providers.TypeApp, "Failed to persist collection %s: %s", id.Key(), err)
	}
}
