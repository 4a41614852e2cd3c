package store

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"taskdeck/internal/models"
)

// memSettings is an in-memory Settings for tests
type memSettings struct {
	values map[string]string
}

func newMemSettings() *memSettings {
	return &memSettings{values: make(map[string]string)}
}

func (m *memSettings) GetSetting(key string) (string, error) {
	return m.values[key], nil
}

func (m *memSettings) SetSetting(key, value string) error {
	m.values[key] = value
	return nil
}

func TestSessionLoginLogout(t *testing.T) {
	s := NewSessionStore(nil)
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())

	s.Login(models.User{ID: 1, Email: "a@b.com", Role: models.RoleRegular}, "tok")
	require.True(t, s.IsAuthenticated())
	require.Equal(t, int64(1), s.User().ID)
	require.Equal(t, "tok", s.Token())

	s.Logout()
	require.Nil(t, s.User())
	require.Empty(t, s.Token())
	require.False(t, s.IsAuthenticated())

	// Logging out again lands in the same terminal state
	s.Logout()
	require.False(t, s.IsAuthenticated())
}

func TestSessionUpdateUser(t *testing.T) {
	s := NewSessionStore(nil)
	s.Login(models.User{ID: 7, Email: "old@x.com", FullName: "Old Name", Role: models.RoleRegular}, "tok")

	email := "new@x.com"
	s.UpdateUser(UserPatch{Email: &email})

	u := s.User()
	require.Equal(t, "new@x.com", u.Email)
	require.Equal(t, "Old Name", u.FullName)
	require.Equal(t, models.RoleRegular, u.Role)
}

func TestSessionUpdateUserWithoutIdentity(t *testing.T) {
	s := NewSessionStore(nil)
	email := "a@b.com"
	s.UpdateUser(UserPatch{Email: &email})
	require.Nil(t, s.User())
	require.False(t, s.IsAuthenticated())
}

func TestSessionPersistsAcrossRestart(t *testing.T) {
	settings := newMemSettings()

	first := NewSessionStore(settings)
	first.Login(models.User{ID: 3, Email: "c@d.com", Role: models.RoleAdmin}, "tok-3")

	second := NewSessionStore(settings)
	require.True(t, second.IsAuthenticated())
	require.Equal(t, int64(3), second.User().ID)
	require.Equal(t, "tok-3", second.Token())
}

func TestSessionCorruptBlobLoadsLoggedOut(t *testing.T) {
	settings := newMemSettings()
	settings.values["session/v1"] = "{not json"

	s := NewSessionStore(settings)
	require.False(t, s.IsAuthenticated())
	require.Nil(t, s.User())
}

func TestSessionExpiredTokenDiscardedOnLoad(t *testing.T) {
	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	})
	token, err := expired.SignedString([]byte("irrelevant"))
	require.NoError(t, err)

	settings := newMemSettings()
	first := NewSessionStore(settings)
	first.Login(models.User{ID: 9, Email: "e@f.com", Role: models.RoleRegular}, token)

	second := NewSessionStore(settings)
	require.False(t, second.IsAuthenticated())
	require.Nil(t, second.User())
}

func TestSessionOpaqueTokenKeptOnLoad(t *testing.T) {
	settings := newMemSettings()
	first := NewSessionStore(settings)
	first.Login(models.User{ID: 4, Email: "g@h.com", Role: models.RoleRegular}, "not-a-jwt")

	second := NewSessionStore(settings)
	require.True(t, second.IsAuthenticated())
	require.Equal(t, "not-a-jwt", second.Token())
}
