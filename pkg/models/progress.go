package models

import "encoding/json"

// Status is the cached classification of a progress record.
// It is recomputed every session from IsLearned and NextReviewDate.
type Status string

const (
	StatusNew    Status = "new"
	StatusDue    Status = "due"
	StatusNotDue Status = "not_due"
	// StatusLearned appears in records written by older clients; it is read but never written
	StatusLearned Status = "learned"
)

// Valid reports whether s is one of the known statuses
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusDue, StatusNotDue, StatusLearned:
		return true
	}
	return false
}

// UnmarshalJSON reads unknown or non-string values as the empty status.
// The status is recomputed before use.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*s = ""
		return nil
	}
	st := Status(raw)
	if !st.Valid() {
		st = ""
	}
	*s = st
	return nil
}

// LearningProgress tracks one (word, category) pair.
// IsLearned and NextReviewDate are authoritative, Status is derived.
type LearningProgress struct {
	Word           string    `json:"word" validate:"required"`
	Category       string    `json:"category"`
	IsLearned      bool      `json:"isLearned"`
	ReviewCount    int       `json:"reviewCount" validate:"min=0"`
	LastPlayedDate LocalDate `json:"lastPlayedDate"`
	CreatedDate    LocalDate `json:"createdDate"`
	NextReviewDate LocalDate `json:"nextReviewDate"`
	Status         Status    `json:"status"`
}

// Key returns the store key of the record
func (p LearningProgress) Key() string {
	return ProgressKey(p.Word, p.Category)
}

// Matches reports whether the record belongs to the given word
func (p LearningProgress) Matches(word, category string) bool {
	return p.Word == word && p.Category == category
}
