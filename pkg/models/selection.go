package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Severity is the user-selected daily workload tier
type Severity string

const (
	SeverityLight    Severity = "light"
	SeverityModerate Severity = "moderate"
	SeverityIntense  Severity = "intense"
)

// Severities lists the tiers from lightest to heaviest
var Severities = []Severity{SeverityLight, SeverityModerate, SeverityIntense}

// ParseSeverity accepts exactly the three tier names (case-insensitive, trimmed)
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(strings.ToLower(strings.TrimSpace(s)))
	if sev.Rank() < 0 {
		return "", fmt.Errorf("unknown severity %q (want light, moderate or intense)", s)
	}
	return sev, nil
}

// Rank orders tiers by workload; -1 for unknown values
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if s == sev {
			return i
		}
	}
	return -1
}

// Lighter reports whether s is a smaller workload than o
func (s Severity) Lighter(o Severity) bool {
	return s.Rank() < o.Rank()
}

func (s *Severity) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = Severity(raw)
	return nil
}

// DailySelection is the cached list of words for one calendar day
type DailySelection struct {
	NewWords    []LearningProgress `json:"newWords" validate:"dive"`
	ReviewWords []LearningProgress `json:"reviewWords" validate:"dive"`
	TotalCount  int                `json:"totalCount" validate:"min=0"`
	Severity    Severity           `json:"severity" validate:"oneof=light moderate intense"`
	Date        LocalDate          `json:"date"`
}

// Clone returns a deep copy so callers cannot mutate a cached selection
func (s *DailySelection) Clone() *DailySelection {
	if s == nil {
		return nil
	}
	c := *s
	c.NewWords = cloneProgress(s.NewWords)
	c.ReviewWords = cloneProgress(s.ReviewWords)
	return &c
}

func cloneProgress(list []LearningProgress) []LearningProgress {
	if list == nil {
		return nil
	}
	out := make([]LearningProgress, len(list))
	copy(out, list)
	return out
}

// Contains reports whether the (word, category) pair is still on today's list
func (s *DailySelection) Contains(word, category string) bool {
	for _, lists := range [][]LearningProgress{s.NewWords, s.ReviewWords} {
		for _, p := range lists {
			if p.Matches(word, category) {
				return true
			}
		}
	}
	return false
}

// Remove drops the pair from both lists and keeps TotalCount in step.
// It reports whether anything was removed.
func (s *DailySelection) Remove(word, category string) bool {
	var removed bool
	s.NewWords, removed = removeProgress(s.NewWords, word, category)
	var fromReview bool
	s.ReviewWords, fromReview = removeProgress(s.ReviewWords, word, category)
	removed = removed || fromReview
	s.TotalCount = len(s.NewWords) + len(s.ReviewWords)
	return removed
}

// Recount sets TotalCount from the lists
func (s *DailySelection) Recount() {
	s.TotalCount = len(s.NewWords) + len(s.ReviewWords)
}

func removeProgress(list []LearningProgress, word, category string) ([]LearningProgress, bool) {
	out := make([]LearningProgress, 0, len(list))
	removed := false
	for _, p := range list {
		if p.Matches(word, category) {
			removed = true
			continue
		}
		out = append(out, p)
	}
	return out, removed
}
