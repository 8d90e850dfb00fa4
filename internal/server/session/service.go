// Package session owns the in-memory user document and keeps it in step with
// the durable store. Every mutating operation is write-through: the change is
// applied in memory and the whole document is saved before the lock is
// released.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/dmitrijs2005/highlighter/internal/common"
	"github.com/dmitrijs2005/highlighter/internal/logging"
	"github.com/dmitrijs2005/highlighter/internal/server/models"
	"github.com/dmitrijs2005/highlighter/internal/server/store"
)

// recentWordsLimit caps UserStats.RecentWords.
const recentWordsLimit = 10

// Service serializes all access to the document with one mutex. The lock is
// held across mutate and save, so saves land in mutation order and a slow
// save can never overwrite newer state.
type Service struct {
	mu     sync.Mutex
	snap   *models.Snapshot
	store  store.Store
	logger logging.Logger

	defaultSource string
	defaultTarget string
}

// New loads the document from st. A failed load is logged and the service
// starts from an empty document so the process can still come up; the
// returned error reports what happened.
func New(ctx context.Context, st store.Store, logger logging.Logger) (*Service, error) {
	s := &Service{
		store:         st,
		logger:        logger.With("module", "session"),
		defaultSource: common.DefaultSourceLanguage,
		defaultTarget: common.DefaultTargetLanguage,
	}

	snap, err := st.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "store load failed, starting empty", "error", err)
		s.snap = models.NewSnapshot()
		return s, err
	}

	s.snap = snap
	s.logger.Info(ctx, "store loaded", "users", len(snap.Users))
	return s, nil
}

// GetOrCreateUser returns the record for id, creating and persisting a
// default one when absent.
func (s *Service) GetOrCreateUser(ctx context.Context, id string) (models.User, error) {
	if err := validateID(id); err != nil {
		return models.User{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.getOrCreate(ctx, id)
	if u == nil {
		return models.User{}, err
	}
	return u.Public(), err
}

// GetUser returns the record for id without creating it.
func (s *Service) GetUser(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.snap.Users[id]
	if !ok {
		return models.User{}, fmt.Errorf("user %q: %w", id, common.ErrorNotFound)
	}
	return u.Public(), nil
}

// UpdateLanguages overwrites the non-empty language fields.
func (s *Service) UpdateLanguages(ctx context.Context, id, source, target string) error {
	return s.mutate(ctx, id, func(u *models.User) bool {
		if source != "" {
			u.SourceLanguage = source
		}
		if target != "" {
			u.TargetLanguage = target
		}
		return true
	})
}

// AddHighlightedWord appends word unless it is already present. Adding a
// word twice succeeds and leaves a single occurrence.
func (s *Service) AddHighlightedWord(ctx context.Context, id, word string) error {
	if word == "" {
		return fmt.Errorf("%w: word cannot be empty", common.ErrorValidation)
	}
	return s.mutate(ctx, id, func(u *models.User) bool {
		if u.HasWord(word) {
			return false
		}
		u.HighlightedWords = append(u.HighlightedWords, word)
		s.logger.Debug(ctx, "word added", "user_id", id, "word", word)
		return true
	})
}

// RemoveHighlightedWord removes word if present; an absent word is not an
// error.
func (s *Service) RemoveHighlightedWord(ctx context.Context, id, word string) error {
	return s.mutate(ctx, id, func(u *models.User) bool {
		i := slices.Index(u.HighlightedWords, word)
		if i < 0 {
			return false
		}
		u.HighlightedWords = slices.Delete(u.HighlightedWords, i, i+1)
		s.logger.Debug(ctx, "word removed", "user_id", id, "word", word)
		return true
	})
}

// HighlightedWords returns a copy of the user's list, creating the user
// when absent.
func (s *Service) HighlightedWords(ctx context.Context, id string) ([]string, error) {
	u, err := s.GetOrCreateUser(ctx, id)
	return u.HighlightedWords, err
}

// Stats aggregates over the in-memory document. It never persists.
func (s *Service) Stats() models.StoreStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := models.StoreStats{Users: make([]string, 0, len(s.snap.Users))}
	for id, u := range s.snap.Users {
		st.TotalUsers++
		st.TotalHighlightedWords += len(u.HighlightedWords)
		st.Users = append(st.Users, id)
	}
	sort.Strings(st.Users)
	return st
}

// UserStats summarizes one existing user for the dashboard.
func (s *Service) UserStats(_ context.Context, id string) (models.UserStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.snap.Users[id]
	if !ok {
		return models.UserStats{}, fmt.Errorf("user %q: %w", id, common.ErrorNotFound)
	}

	c := u.Public()
	recent := c.HighlightedWords
	if len(recent) > recentWordsLimit {
		recent = recent[len(recent)-recentWordsLimit:]
	}
	recent = slices.Clone(recent)
	slices.Reverse(recent)

	return models.UserStats{
		UserID:         id,
		TotalWords:     len(c.HighlightedWords),
		RecentWords:    recent,
		SourceLanguage: c.SourceLanguage,
		TargetLanguage: c.TargetLanguage,
		PreferencesSet: c.PreferencesSet,
		Preferences:    c.Preferences,
	}, nil
}

// DeleteUser removes id if present.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.snap.Users[id]; !ok {
		return nil
	}
	delete(s.snap.Users, id)
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return s.persist(ctx)
}

// Register claims id with credential. An id that already carries a
// credential is a conflict; a record created earlier by plain use is
// claimed in place.
func (s *Service) Register(ctx context.Context, id, credential string) (models.User, error) {
	if err := validateID(id); err != nil {
		return models.User{}, err
	}
	if credential == "" {
		return models.User{}, fmt.Errorf("%w: credential cannot be empty", common.ErrorValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.snap.Users[id]
	if ok && u.Credential != "" {
		return models.User{}, fmt.Errorf("user %q: %w", id, common.ErrorAlreadyExists)
	}
	if !ok {
		u = models.NewUser(id, s.defaultSource, s.defaultTarget)
		s.snap.Users[id] = u
	}
	u.Credential = credential
	s.logger.Info(ctx, "user registered", "user_id", id)

	return u.Public(), s.persist(ctx)
}

// Login checks credential against the stored one. A missing user and a
// wrong credential are indistinguishable to the caller.
func (s *Service) Login(_ context.Context, id, credential string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.snap.Users[id]
	if !ok || u.Credential == "" || !checkCredential(u.Credential, credential) {
		return models.User{}, common.ErrorUnauthorized
	}
	return u.Public(), nil
}

// SetPreferences stores the questionnaire answers and marks them as set.
func (s *Service) SetPreferences(ctx context.Context, id string, prefs models.Preferences) (models.User, error) {
	var out models.User
	err := s.mutate(ctx, id, func(u *models.User) bool {
		p := prefs
		u.Preferences = &p
		u.PreferencesSet = true
		out = u.Public()
		return true
	})
	return out, err
}

// --- helpers below ---

// mutate runs fn on the (possibly new) record under the lock and persists
// when fn reports a change. A failed save keeps the in-memory change and
// returns an error wrapping common.ErrorPersistence.
func (s *Service) mutate(ctx context.Context, id string, fn func(u *models.User) bool) error {
	if err := validateID(id); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	u, err := s.getOrCreate(ctx, id)
	if u == nil {
		return err
	}
	if !fn(u) {
		return err
	}
	return s.persist(ctx)
}

// getOrCreate must be called with mu held. It returns the live record; a
// non-nil error alongside a record means the creation was not persisted.
func (s *Service) getOrCreate(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.snap.Users[id]; ok {
		return u, nil
	}

	u := models.NewUser(id, s.defaultSource, s.defaultTarget)
	s.snap.Users[id] = u
	s.logger.Info(ctx, "user created", "user_id", id)

	return u, s.persist(ctx)
}

// persist must be called with mu held. The save is detached from ctx
// cancellation: a client hanging up must not leave memory and the durable
// copy apart.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(context.WithoutCancel(ctx), s.snap.Clone()); err != nil {
		s.logger.Error(ctx, "store save failed", "error", err)
		if !errors.Is(err, common.ErrorPersistence) {
			err = fmt.Errorf("%w: %w", common.ErrorPersistence, err)
		}
		return fmt.Errorf("save store: %w", err)
	}
	return nil
}

func validateID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: user id cannot be empty", common.ErrorValidation)
	}
	return nil
}

func checkCredential(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
