package services

import (
	"errors"
	"strings"
	"sync"

	"lipid/internal/models"
	"lipid/internal/providers"
	"lipid/internal/store"
	"lipid/internal/structures"
)

const sessionKey = "db_ai_session_user"

var (
	ErrBadCredentials = errors.New("incorrect admin credentials")
	ErrNameTooShort   = errors.New("display name must be at least 2 characters")
)

type SessionServiceInterface interface {
	Restore()
	LoginAdmin(username, password string) (models.User, error)
	LoginUser(name, profilePhoto string, isPrivate bool) (models.User, error)
	Logout()
	Current() (models.User, bool)
	SetView(view models.AppView) error
	View() models.AppView
}

// SessionService holds the single current-user identity and selected view.
// Login is a UX gate, not authentication: the admin pair is a plain
// equality check and any display name of two or more characters enters as
// a regular user. Kept that way on purpose for frictionless entry.
type SessionService struct {
	conf    *structures.Config
	store   store.StoreInterface
	logger  providers.Logger
	history HistoryServiceInterface

	mu       sync.RWMutex
	user     *models.User
	view     models.AppView
}

func NewSessionService(conf *structures.Config, st store.StoreInterface, logger providers.Logger, history HistoryServiceInterface) SessionServiceInterface {
	return &SessionService{
		conf:    conf,
		store:   st,
		logger:  logger,
		history: history,
		view:    models.ViewDashboard,
	}
}

// Restore reloads the logged-in user from the store. Malformed session
// data is treated as absence, never surfaced.
func (s *SessionService) Restore() {
	var user models.User
	res := store.DecodeJSON(s.store, sessionKey, &user)
	if res.State != store.LoadOk || user.Username == "" {
		if res.State == store.LoadCorrupt {
			s.logger.Warnf(providers.TypeApp, "Malformed session record, starting logged out")
		}
		return
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
	s.history.SetPrivate(user.Username, user.IsPrivate)
	s.logger.Infof(providers.TypeApp, "Restored session for %s", user.Username)
}

func (s *SessionService) LoginAdmin(username, password string) (models.User, error) {
	if username != s.conf.Admin.Username || password != s.conf.Admin.Password {
		return models.User{}, ErrBadCredentials
	}
	user := models.User{Username: s.conf.Admin.Username, Role: models.RoleAdmin}
	s.login(user)
	return user, nil
}

func (s *SessionService) LoginUser(name, profilePhoto string, isPrivate bool) (models.User, error) {
	name = strings.TrimSpace(name)
	if len(name) < 2 {
		return models.User{}, ErrNameTooShort
	}
	user := models.User{
		Username:     name,
		Role:         models.RoleUser,
		ProfilePhoto: profilePhoto,
		IsPrivate:    isPrivate,
	}
	s.login(user)
	return user, nil
}

func (s *SessionService) login(user models.User) {
	s.mu.Lock()
	s.user = &user
	s.view = models.ViewDashboard
	s.mu.Unlock()

	s.history.SetPrivate(user.Username, user.IsPrivate)

	// The session record itself is persisted even for private users; only
	// chat data is suppressed.
	if err := store.EncodeJSON(s.store, sessionKey, user); err != nil {
		s.logger.Errorf(providers.TypeApp, "Failed to persist session: %s", err)
	}
}

func (s *SessionService) Logout() {
	s.mu.Lock()
	user := s.user
	s.user = nil
	s.view = models.ViewDashboard
	s.mu.Unlock()

	if user != nil {
		s.history.SetPrivate(user.Username, false)
	}
	s.store.Remove(sessionKey)
}

func (s *SessionService) Current() (models.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.User{}, false
	}
	return *s.user, true
}

func (s *SessionService) SetView(view models.AppView) error {
	if !view.Valid() {
		return errors.New("unknown view: " + string(view))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = view
	return nil
}

func (s *SessionService) View() models.AppView {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}
