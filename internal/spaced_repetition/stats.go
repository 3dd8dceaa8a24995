package spaced_repetition

import "github.com/example/vocabday/pkg/models"

// CategoryStats tracks completion of one category
type CategoryStats struct {
	Category string
	Total    int
	Learned  int
}

// CompletionPercentage is the share of the category already in the review cycle
func (c CategoryStats) CompletionPercentage() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.Learned) / float64(c.Total) * 100
}

// Stats summarises a user's progress over the whole vocabulary
type Stats struct {
	TotalWords  int
	NewWords    int
	DueToday    int
	NotDue      int
	Categories  []CategoryStats
	TotalReview int // sum of review counts over learned words
}

// Learned is the number of words that entered the review cycle
func (s Stats) Learned() int {
	return s.DueToday + s.NotDue
}

// Summarize computes Stats from the same classification the daily list uses
func Summarize(words []models.Word, progress map[string]models.LearningProgress, today models.LocalDate) Stats {
	c := Classify(words, progress, today)

	stats := Stats{
		NewWords: len(c.New),
		DueToday: len(c.Due),
		NotDue:   len(c.NotDue),
	}
	stats.TotalWords = stats.NewWords + stats.DueToday + stats.NotDue

	index := make(map[string]int)
	category := func(name string) *CategoryStats {
		i, ok := index[name]
		if !ok {
			i = len(stats.Categories)
			index[name] = i
			stats.Categories = append(stats.Categories, CategoryStats{Category: name})
		}
		return &stats.Categories[i]
	}

	// categories are listed in vocabulary order
	for _, w := range words {
		category(w.Category)
	}
	for _, w := range c.New {
		category(w.Category).Total++
	}
	for _, list := range [][]models.LearningProgress{c.Due, c.NotDue} {
		for _, p := range list {
			cs := category(p.Category)
			cs.Total++
			cs.Learned++
			stats.TotalReview += p.ReviewCount
		}
	}

	return stats
}
