package spaced_repetition

import "github.com/example/vocabday/pkg/models"

// NewProgress creates the record for a word that has never been reviewed
func NewProgress(word models.Word, today models.LocalDate) models.LearningProgress {
	return models.LearningProgress{
		Word:           word.Word,
		Category:       word.Category,
		CreatedDate:    today,
		NextReviewDate: today,
		Status:         models.StatusNew,
	}
}

// DeriveStatus classifies a record as of today. Only IsLearned and NextReviewDate matter.
func DeriveStatus(p models.LearningProgress, today models.LocalDate) models.Status {
	if !p.IsLearned {
		return models.StatusNew
	}
	// a learned word with no review date is overdue, not lost
	if p.NextReviewDate.IsZero() || !p.NextReviewDate.After(today) {
		return models.StatusDue
	}
	return models.StatusNotDue
}

// Refresh rewrites the cached status of p
func Refresh(p *models.LearningProgress, today models.LocalDate) {
	p.Status = DeriveStatus(*p, today)
}

// MarkReviewed records a successful review and schedules the next one
func (pol *Policy) MarkReviewed(p *models.LearningProgress, today models.LocalDate) {
	if p.ReviewCount < 0 {
		p.ReviewCount = 0
	}
	p.ReviewCount++
	p.NextReviewDate = AddIntervalDays(today, pol.NextIntervalDays(p.ReviewCount))
	p.IsLearned = true
	p.LastPlayedDate = today
	if p.CreatedDate.IsZero() {
		p.CreatedDate = today
	}
	Refresh(p, today)
}

// MarkPlayed notes that the word was shown today without touching its schedule
func MarkPlayed(p *models.LearningProgress, today models.LocalDate) {
	p.LastPlayedDate = today
	if p.CreatedDate.IsZero() {
		p.CreatedDate = today
	}
	Refresh(p, today)
}

// ResetToNew puts the word back at the start of the cycle
func ResetToNew(p *models.LearningProgress, today models.LocalDate) {
	p.ReviewCount = 0
	p.IsLearned = false
	p.NextReviewDate = today
	if p.CreatedDate.IsZero() {
		p.CreatedDate = today
	}
	Refresh(p, today)
}
