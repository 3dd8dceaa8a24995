package spaced_repetition

import "github.com/example/vocabday/pkg/models"

// Classification partitions the vocabulary for one day.
// Each bucket keeps the order of the input word list.
type Classification struct {
	Due    []models.LearningProgress
	NotDue []models.LearningProgress
	New    []models.Word
}

// Classify puts every word of the vocabulary into exactly one bucket.
// A word without a usable progress record is new. Repeated (word, category)
// pairs are only classified the first time they appear.
func Classify(words []models.Word, progress map[string]models.LearningProgress, today models.LocalDate) Classification {
	c := Classification{
		Due:    make([]models.LearningProgress, 0),
		NotDue: make([]models.LearningProgress, 0),
		New:    make([]models.Word, 0),
	}
	seen := make(map[string]bool, len(words))

	for _, w := range words {
		key := w.Key()
		if seen[key] {
			continue
		}
		seen[key] = true

		p, ok := progress[key]
		if !ok || !p.Matches(w.Word, w.Category) {
			c.New = append(c.New, w)
			continue
		}

		Refresh(&p, today)
		switch p.Status {
		case models.StatusDue:
			c.Due = append(c.Due, p)
		case models.StatusNotDue:
			c.NotDue = append(c.NotDue, p)
		default:
			c.New = append(c.New, w)
		}
	}

	return c
}

// DueBefore orders records earliest-due first. A missing review date counts as overdue.
func DueBefore(a, b models.LearningProgress) bool {
	return a.NextReviewDate.Before(b.NextReviewDate)
}
