package client

// Preferences mirrors the questionnaire answers.
type Preferences struct {
	ExperienceLevel   string `json:"experience_level"`
	LearningGoal      string `json:"learning_goal"`
	PracticeFrequency string `json:"practice_frequency"`
}

type User struct {
	UserID           string       `json:"user_id"`
	SourceLanguage   string       `json:"source_language"`
	TargetLanguage   string       `json:"target_language"`
	HighlightedWords []string     `json:"highlighted_words"`
	Preferences      *Preferences `json:"preferences,omitempty"`
	PreferencesSet   bool         `json:"preferences_set"`
}

type UserStats struct {
	UserID         string   `json:"user_id"`
	TotalWords     int      `json:"total_words"`
	RecentWords    []string `json:"recent_words"`
	SourceLanguage string   `json:"source_language"`
	TargetLanguage string   `json:"target_language"`
	PreferencesSet bool     `json:"preferences_set"`
}

type Translation struct {
	TranslatedText string `json:"translated_text"`
	SourceLanguage string `json:"source_language"`
	TargetLanguage string `json:"target_language"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
