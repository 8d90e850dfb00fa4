package models

// StoreStats aggregates over every record.
type StoreStats struct {
	TotalUsers            int      `json:"total_users"`
	TotalHighlightedWords int      `json:"total_highlighted_words"`
	Users                 []string `json:"users"`
}

// UserStats is the per-user dashboard summary.
type UserStats struct {
	UserID         string       `json:"user_id"`
	TotalWords     int          `json:"total_words"`
	RecentWords    []string     `json:"recent_words"`
	SourceLanguage string       `json:"source_language"`
	TargetLanguage string       `json:"target_language"`
	PreferencesSet bool         `json:"preferences_set"`
	Preferences    *Preferences `json:"preferences,omitempty"`
}
