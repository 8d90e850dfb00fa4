// Package models defines the persisted user state and the read-only views
// derived from it.
package models

import "slices"

// Preferences is the answer set of the onboarding questionnaire.
type Preferences struct {
	ExperienceLevel   string `json:"experience_level"`
	LearningGoal      string `json:"learning_goal"`
	PracticeFrequency string `json:"practice_frequency"`
}

// User is the state bundle kept for one user id.
//
// Credential is stored verbatim and is stripped by Public before a record
// leaves the service.
type User struct {
	UserID           string       `json:"user_id"`
	SourceLanguage   string       `json:"source_language"`
	TargetLanguage   string       `json:"target_language"`
	HighlightedWords []string     `json:"highlighted_words"`
	Credential       string       `json:"credential,omitempty"`
	Preferences      *Preferences `json:"preferences,omitempty"`
	PreferencesSet   bool         `json:"preferences_set"`
}

// NewUser returns a record with the documented defaults.
func NewUser(id, sourceLanguage, targetLanguage string) *User {
	return &User{
		UserID:           id,
		SourceLanguage:   sourceLanguage,
		TargetLanguage:   targetLanguage,
		HighlightedWords: []string{},
	}
}

// Clone returns a deep copy of u.
func (u *User) Clone() User {
	c := *u
	c.HighlightedWords = slices.Clone(u.HighlightedWords)
	if c.HighlightedWords == nil {
		c.HighlightedWords = []string{}
	}
	if u.Preferences != nil {
		p := *u.Preferences
		c.Preferences = &p
	}
	return c
}

// Public returns a deep copy without the credential.
func (u *User) Public() User {
	c := u.Clone()
	c.Credential = ""
	return c
}

// HasWord reports whether word is already highlighted.
func (u *User) HasWord(word string) bool {
	return slices.Contains(u.HighlightedWords, word)
}
