package controllers

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"lipid/internal/models"
	"lipid/internal/providers"
	"lipid/internal/services"
)

// Inline images travel as data URIs, so the body cap is generous.
const maxRequestBodySize = 8 << 20 // 8 MB

type ApiController struct {
	logger  providers.Logger
	session services.SessionServiceInterface
	history services.HistoryServiceInterface
	search  services.SearchServiceInterface
	audit   services.AuditServiceInterface
	mentor  services.MentorServiceInterface
	cache   providers.CacheProviderInterface
}

func NewApiController(logger providers.Logger, session services.SessionServiceInterface, history services.HistoryServiceInterface, search services.SearchServiceInterface, audit services.AuditServiceInterface, mentor services.MentorServiceInterface, cache providers.CacheProviderInterface) *ApiController {
	return &ApiController{
		logger:  logger,
		session: session,
		history: history,
		search:  search,
		audit:   audit,
		mentor:  mentor,
		cache:   cache,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (ac *ApiController) currentUser(w http.ResponseWriter) (models.User, bool) {
	user, ok := ac.session.Current()
	if !ok {
		http.Error(w, "Not Logged In", http.StatusUnauthorized)
	}
	return user, ok
}

func (ac *ApiController) currentAdmin(w http.ResponseWriter) (models.User, bool) {
	user, ok := ac.currentUser(w)
	if !ok {
		return models.User{}, false
	}
	if user.Role != models.RoleAdmin {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return models.User{}, false
	}
	return user, true
}

type loginRequest struct {
	Mode         string `json:"mode"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	Name         string `json:"name"`
	ProfilePhoto string `json:"profilePhoto"`
	IsPrivate    bool   `json:"isPrivate"`
}

func (ac *ApiController) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	var (
		user models.User
		err  error
	)
	if req.Mode == "admin" {
		user, err = ac.session.LoginAdmin(req.Username, req.Password)
	} else {
		user, err = ac.session.LoginUser(req.Name, req.ProfilePhoto, req.IsPrivate)
	}
	if err != nil {
		status := http.StatusBadRequest
		if err == services.ErrBadCredentials {
			status = http.StatusUnauthorized
		}
		http.Error(w, err.Error(), status)
		return
	}

	ac.logger.Infof(providers.TypePost, "User %s logged in as %s", user.Username, user.Role)
	writeJSON(w, http.StatusOK, user)
}

func (ac *ApiController) Logout(w http.ResponseWriter, r *http.Request) {
	ac.session.Logout()
	w.WriteHeader(http.StatusNoContent)
}

type sessionResponse struct {
	User *models.User   `json:"user"`
	View models.AppView `json:"view"`
}

func (ac *ApiController) GetSession(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{View: ac.session.View()}
	if user, ok := ac.session.Current(); ok {
		resp.User = &user
	}
	writeJSON(w, http.StatusOK, resp)
}

func (ac *ApiController) SetView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		View models.AppView `json:"view"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := ac.session.SetView(req.View); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type chatRequest struct {
	Content string `json:"content"`
	// Image is base64-encoded PNG bytes attached to the message.
	Image string `json:"image"`
}

func (ac *ApiController) SendChat(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}

	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" && req.Image == "" {
		http.Error(w, "Empty Message", http.StatusBadRequest)
		return
	}

	var imageData []byte
	if req.Image != "" {
		var err error
		imageData, err = base64.StdEncoding.DecodeString(req.Image)
		if err != nil {
			http.Error(w, "Invalid Image Encoding", http.StatusBadRequest)
			return
		}
	}

	userMsg := models.Message{
		Role:      models.RoleUserMsg,
		Content:   content,
		Timestamp: time.Now(),
	}
	if len(imageData) > 0 {
		userMsg.ImageURL = "data:image/png;base64," + req.Image
	}

	history, _ := ac.history.LoadChat(user.Username)
	ac.history.AppendChat(user.Username, userMsg)
	ac.audit.RecordActivity(user.Username, content)

	cfg := ac.audit.Config()
	reply, err := ac.mentor.Chat(r.Context(), user, content, history, cfg, imageData)
	if err != nil {
		// Network and provider failures become a generic fallback message
		// in the transcript rather than an HTTP error.
		ac.logger.Errorf(providers.TypePost, "Mentor chat failed for %s: %s", user.Username, err)
		reply = models.Message{
			Role:      models.RoleModelMsg,
			Content:   "I'm sorry, I encountered an error while processing your request.",
			Timestamp: time.Now(),
		}
	}
	ac.history.AppendChat(user.Username, reply)

	writeJSON(w, http.StatusOK, reply)
}

func (ac *ApiController) GetChat(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}

	msgs, _ := ac.history.LoadChat(user.Username)
	if len(msgs) == 0 {
		welcome := welcomeMessage(user.Username)
		ac.history.AppendChat(user.Username, welcome)
		msgs = []models.Message{welcome}
	}
	writeJSON(w, http.StatusOK, msgs)
}

func (ac *ApiController) ResetChat(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}
	reset := models.Message{
		Role:      models.RoleModelMsg,
		Content:   fmt.Sprintf("Memory reset successful. I'm ready for new instructions, %s.", user.Username),
		Timestamp: time.Now(),
	}
	ac.history.ResetChat(user.Username, reset)
	writeJSON(w, http.StatusOK, []models.Message{reset})
}

func (ac *ApiController) ExportChat(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}

	msgs, _ := ac.history.LoadChat(user.Username)
	var b strings.Builder
	for i, m := range msgs {
		if i > 0 {
			b.WriteString("\n\n")
		}
		name := "Lipi AI"
		if m.Role == models.RoleUserMsg {
			name = user.Username
		}
		fmt.Fprintf(&b, "[%s] %s: %s", m.Timestamp.Format(time.RFC3339), name, m.Content)
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=LipiAI_Transcript_%s.txt", time.Now().Format("2006-01-02")))
	_, _ = w.Write([]byte(b.String()))
}

type artRequest struct {
	Prompt string `json:"prompt"`
}

func (ac *ApiController) GenerateArt(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}

	var req artRequest
	if !decodeBody(w, r, &req) {
		return
	}
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		http.Error(w, "Empty Prompt", http.StatusBadRequest)
		return
	}

	img, err := ac.mentor.GenerateImage(r.Context(), prompt, ac.audit.Config())
	if err != nil {
		ac.logger.Errorf(providers.TypePost, "Image generation failed for %s: %s", user.Username, err)
		http.Error(w, "Image Generation Failed", http.StatusBadGateway)
		return
	}

	ac.history.AddArt(user.Username, img)
	writeJSON(w, http.StatusOK, img)
}

func (ac *ApiController) GetArt(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}
	imgs, _ := ac.history.LoadArt(user.Username)
	writeJSON(w, http.StatusOK, imgs)
}

type confirmRequest struct {
	Confirm bool `json:"confirm"`
}

func (ac *ApiController) ClearArt(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Confirm {
		http.Error(w, "Confirmation Required", http.StatusBadRequest)
		return
	}
	ac.history.ClearArt(user.Username)
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) GetNotes(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}
	notes := ac.search.FilterNotes(user.Username, r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, notes)
}

type noteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (ac *ApiController) AddNote(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}
	var req noteRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		http.Error(w, "Empty Note", http.StatusBadRequest)
		return
	}

	note := models.Note{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Timestamp: time.Now(),
	}
	ac.history.AddNote(user.Username, note)
	writeJSON(w, http.StatusCreated, note)
}

func (ac *ApiController) DeleteNote(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}
	var req struct {
		ID string `json:"id"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !ac.history.DeleteNote(user.Username, req.ID) {
		http.Error(w, "Note Not Found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (ac *ApiController) Search(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}

	query := r.URL.Query().Get("q")
	// The generation changes with every collection mutation, so stale
	// results are never served from the cache.
	cacheKey := "search:" + strconv.FormatUint(ac.search.Generation(), 10) + ":" +
		services.Sanitize(user.Username) + ":" + strings.ToLower(strings.TrimSpace(query))

	if data, ok := ac.cache.Get(cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
		return
	}

	result := ac.search.Search(user.Username, query)
	gson, err := json.Marshal(result)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	ac.cache.Set(cacheKey, gson)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func (ac *ApiController) Purge(w http.ResponseWriter, r *http.Request) {
	user, ok := ac.currentUser(w)
	if !ok {
		return
	}
	var req confirmRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Confirm {
		http.Error(w, "Confirmation Required", http.StatusBadRequest)
		return
	}

	ac.history.Purge(user.Username)
	ac.session.Logout()
	ac.logger.Infof(providers.TypePost, "Purged all collections for %s", user.Username)
	w.WriteHeader(http.StatusNoContent)
}

type speechRequest struct {
	// PCM is base64-encoded raw little-endian samples as returned by the
	// provider's speech endpoint.
	PCM           string `json:"pcm"`
	SampleRate    int    `json:"sampleRate"`
	Channels      int    `json:"channels"`
	BitsPerSample int    `json:"bitsPerSample"`
}

func (ac *ApiController) FrameSpeech(w http.ResponseWriter, r *http.Request) {
	if _, ok := ac.currentUser(w); !ok {
		return
	}
	var req speechRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pcm, err := base64.StdEncoding.DecodeString(req.PCM)
	if err != nil || len(pcm) == 0 {
		http.Error(w, "Invalid PCM Payload", http.StatusBadRequest)
		return
	}
	if req.SampleRate <= 0 {
		req.SampleRate = 24000
	}
	if req.Channels <= 0 {
		req.Channels = 1
	}
	if req.BitsPerSample <= 0 {
		req.BitsPerSample = 16
	}

	w.Header().Set("Content-Type", "audio/wav")
	_, _ = w.Write(services.EncodeWAV(pcm, req.SampleRate, req.Channels, req.BitsPerSample))
}

func welcomeMessage(username string) models.Message {
	return models.Message{
		Role: models.RoleModelMsg,
		Content: fmt.Sprintf("Hello %s! I am Lipi AI. I can visualize your project ideas or generate "+
			"educational imagery directly here. Just ask me to \"generate an image of...\" or "+
			"\"draw a project mockup\". How can I assist you?", username),
		Timestamp: time.Now(),
	}
}
