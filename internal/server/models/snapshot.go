package models

// Snapshot is the whole persisted document: {"users": {<user_id>: User}}.
type Snapshot struct {
	Users map[string]*User `json:"users"`
}

// NewSnapshot returns an empty document.
func NewSnapshot() *Snapshot {
	return &Snapshot{Users: map[string]*User{}}
}

// Clone returns a deep copy, safe to hand to a store while the original
// keeps changing.
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot()
	for id, u := range s.Users {
		uc := u.Clone()
		c.Users[id] = &uc
	}
	return c
}

// Normalize fixes up documents decoded from older or hand-edited files:
// nil maps and word lists become empty and missing ids are filled from
// the map key.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = map[string]*User{}
	}
	for id, u := range s.Users {
		if u == nil {
			delete(s.Users, id)
			continue
		}
		if u.UserID == "" {
			u.UserID = id
		}
		if u.HighlightedWords == nil {
			u.HighlightedWords = []string{}
		}
	}
}
