package store

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"taskdeck/internal/models"
)

// sessionKey versions the persisted blob so future field additions
// don't corrupt old state; bump it when the schema changes.
const sessionKey = "session/v1"

// Settings is the durable key/value store backing the persisted
// stores. *localdb.DB satisfies it.
type Settings interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

type sessionState struct {
	User            *models.User `json:"user"`
	Token           string       `json:"token"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

// UserPatch is a partial user update for UpdateUser; nil fields are
// left unchanged.
type UserPatch struct {
	Email    *string
	Username *string
	FullName *string
	Role     *models.Role
	IsActive *bool
}

// SessionStore is the single source of truth for who is logged in.
// State survives restarts via the settings store; a missing, corrupt,
// or expired persisted session loads as fully logged out.
//
// All mutation happens on the UI loop, so the store takes no locks.
type SessionStore struct {
	settings Settings
	state    sessionState
}

// NewSessionStore creates the store and loads any persisted session.
// A nil settings store keeps the session in memory only.
func NewSessionStore(settings Settings) *SessionStore {
	s := &SessionStore{settings: settings}
	s.load()
	return s
}

func (s *SessionStore) load() {
	if s.settings == nil {
		return
	}
	blob, err := s.settings.GetSetting(sessionKey)
	if err != nil || blob == "" {
		return
	}

	var state sessionState
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return
	}
	if state.IsAuthenticated && tokenExpired(state.Token, time.Now()) {
		return
	}
	s.state = state
}

// tokenExpired reports whether the bearer token carries an exp claim
// in the past. The client has no signing key, so the claims are read
// unverified; a token that isn't a parseable JWT is kept as-is and
// left for the server to reject.
func tokenExpired(token string, now time.Time) bool {
	if token == "" {
		return false
	}
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return false
	}
	return claims.ExpiresAt != nil && claims.ExpiresAt.Before(now)
}

func (s *SessionStore) save() {
	if s.settings == nil {
		return
	}
	blob, err := json.Marshal(s.state)
	if err != nil {
		return
	}
	// Persistence is best-effort; the in-memory state stays
	// authoritative for the running session.
	_ = s.settings.SetSetting(sessionKey, string(blob))
}

// Login overwrites the identity and token unconditionally
func (s *SessionStore) Login(user models.User, token string) {
	s.state = sessionState{
		User:            &user,
		Token:           token,
		IsAuthenticated: true,
	}
	s.save()
}

// Logout clears the session. Calling it while already logged out is a
// no-op landing in the same terminal state.
func (s *SessionStore) Logout() {
	s.state = sessionState{}
	s.save()
}

// UpdateUser shallow-merges the supplied fields into the current
// identity. With no identity present it is a harmless no-op.
func (s *SessionStore) UpdateUser(patch UserPatch) {
	if s.state.User == nil {
		return
	}
	if patch.Email != nil {
		s.state.User.Email = *patch.Email
	}
	if patch.Username != nil {
		s.state.User.Username = *patch.Username
	}
	if patch.FullName != nil {
		s.state.User.FullName = *patch.FullName
	}
	if patch.Role != nil {
		s.state.User.Role = *patch.Role
	}
	if patch.IsActive != nil {
		s.state.User.IsActive = *patch.IsActive
	}
	s.save()
}

// User returns the current identity, or nil when logged out. The
// returned value is a copy; mutating it does not affect the store.
func (s *SessionStore) User() *models.User {
	if s.state.User == nil {
		return nil
	}
	u := *s.state.User
	return &u
}

// Token returns the current bearer token, or "" when logged out
func (s *SessionStore) Token() string {
	return s.state.Token
}

// IsAuthenticated reports whether a login is in effect
func (s *SessionStore) IsAuthenticated() bool {
	return s.state.IsAuthenticated
}
