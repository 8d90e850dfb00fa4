package httpapi

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/highlighter/internal/server/auth"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterLoginMe(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/users/register", map[string]string{"user_id": "alice", "password": "p1"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	reg := decode[authResponse](t, rec)
	assert.Equal(t, "alice", reg.User.UserID)
	assert.Empty(t, reg.User.Credential)
	assert.NotContains(t, rec.Body.String(), "credential")

	rec = f.do(t, http.MethodPost, "/users/register", map[string]string{"user_id": "alice", "password": "other"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Detail, "already exists")

	rec = f.do(t, http.MethodPost, "/users/login", map[string]string{"username": "alice", "password": "p1"})
	require.Equal(t, http.StatusOK, rec.Code)
	login := decode[authResponse](t, rec)
	assert.NotContains(t, rec.Body.String(), "credential")
	assert.Equal(t, "bearer", login.TokenType)

	id, err := auth.GetUserIDFromToken(login.AccessToken, []byte("test-secret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", id)

	rec = f.do(t, http.MethodPost, "/users/login", map[string]string{"user_id": "alice", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/me", nil, "Authorization", "Bearer "+login.AccessToken)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", decode[userResponse](t, rec).Data.UserID)

	rec = f.do(t, http.MethodGet, "/users/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/me", nil, "Authorization", "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/users/register", map[string]string{"user_id": "bob"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/users/register", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUser_CreatesDefaults(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/users/carol", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	u := decode[userResponse](t, rec).Data
	assert.Equal(t, "auto", u.SourceLanguage)
	assert.Equal(t, "Spanish", u.TargetLanguage)
	assert.Empty(t, u.HighlightedWords)

	require.NotNil(t, f.store.saved)
	assert.Contains(t, f.store.saved.Users, "carol")
}

func TestUpdateLanguages_PartialUpdate(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/users/languages", map[string]string{"user_id": "bob", "source_language": "fr"})
	require.Equal(t, http.StatusOK, rec.Code)

	u := decode[userResponse](t, rec).Data
	assert.Equal(t, "fr", u.SourceLanguage)
	assert.Equal(t, "Spanish", u.TargetLanguage)

	rec = f.do(t, http.MethodPost, "/users/languages", map[string]string{"source_language": "fr"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWords_AddListRemove(t *testing.T) {
	f := newFixture(t)

	for _, w := range []string{"gato", "perro", "gato"} {
		rec := f.do(t, http.MethodPost, "/users/dana/words", map[string]string{"word": w})
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := f.do(t, http.MethodGet, "/users/dana/words", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"gato", "perro"}, decode[wordsResponse](t, rec).Words)

	rec = f.do(t, http.MethodDelete, "/users/dana/words/gato", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"perro"}, decode[wordsResponse](t, rec).Words)

	rec = f.do(t, http.MethodDelete, "/users/dana/words/absent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"perro"}, decode[wordsResponse](t, rec).Words)
}

func TestUserStatsAndDelete(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/users/erin/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	f.do(t, http.MethodPost, "/users/erin/words", map[string]string{"word": "uno"})
	f.do(t, http.MethodPost, "/users/erin/words", map[string]string{"word": "dos"})

	rec = f.do(t, http.MethodGet, "/users/erin/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	st := decode[models.UserStats](t, rec)
	assert.Equal(t, 2, st.TotalWords)
	assert.Equal(t, []string{"dos", "uno"}, st.RecentWords)

	rec = f.do(t, http.MethodDelete, "/users/erin", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/users/erin/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSetPreferences(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/users/set-preferences", map[string]any{
		"user_id": "frank",
		"preferences": map[string]string{
			"experience_level":   "beginner",
			"learning_goal":      "travel",
			"practice_frequency": "daily",
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[struct {
		User models.User `json:"user"`
	}](t, rec)
	assert.True(t, body.User.PreferencesSet)
	require.NotNil(t, body.User.Preferences)
	assert.Equal(t, "travel", body.User.Preferences.LearningGoal)
}

func TestPersistenceFailureIs503(t *testing.T) {
	f := newFixture(t)
	f.store.failSaves(errors.New("disk full"))

	rec := f.do(t, http.MethodPost, "/users/gina/words", map[string]string{"word": "sol"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, decode[errorResponse](t, rec).Detail, "persistence")
}
