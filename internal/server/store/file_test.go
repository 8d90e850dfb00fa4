package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *models.Snapshot {
	s := models.NewSnapshot()
	alice := models.NewUser("alice", "en", "French")
	alice.HighlightedWords = []string{"bonjour", "merci"}
	alice.Credential = "p1"
	alice.Preferences = &models.Preferences{
		ExperienceLevel:   "beginner",
		LearningGoal:      "travel",
		PracticeFrequency: "daily",
	}
	alice.PreferencesSet = true
	s.Users["alice"] = alice
	s.Users["bob"] = models.NewUser("bob", "auto", "Spanish")
	return s
}

func TestFileStore_LoadMissingInitializesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "store.json")
	st := NewFileStore(path)

	got, err := st.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got.Users)

	raw, err := os.ReadFile(path)
	require.NoError(t, err, "load must persist the empty document")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))
	assert.Equal(t, map[string]any{"users": map[string]any{}}, doc)
}

func TestFileStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	st := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	want := sampleSnapshot()
	require.NoError(t, st.Save(ctx, want))

	got, err := st.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(want, got))
}

func TestFileStore_SaveIsPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	st := NewFileStore(path)

	require.NoError(t, st.Save(context.Background(), sampleSnapshot()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "\n  \"users\": {")
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path).Load(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrorPersistence))
}

func TestFileStore_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	st := NewFileStore(filepath.Join(blocker, "store.json"))
	err := st.Save(context.Background(), sampleSnapshot())
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrorPersistence)
}

func TestDecode_EmptyAndLegacy(t *testing.T) {
	s, err := Decode(nil)
	require.NoError(t, err)
	assert.NotNil(t, s.Users)

	s, err = Decode([]byte(`{"users":{"carol":{"source_language":"de","target_language":"Italian"}}}`))
	require.NoError(t, err)
	require.Contains(t, s.Users, "carol")
	assert.Equal(t, "carol", s.Users["carol"].UserID)
	assert.Equal(t, []string{}, s.Users["carol"].HighlightedWords)
}
