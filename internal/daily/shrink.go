package daily

import (
	"sort"

	"github.com/example/vocabday/internal/spaced_repetition"
	"github.com/example/vocabday/pkg/models"
)

// Shrink trims sel to a lighter tier without rebuilding it.
//
// Review words are kept up to rng.Max: words played today first, then the earliest
// nextReviewDate, then list position. New words are kept up to the tier's target for the
// kept review count: words played today first, then list position. Kept words stay in their
// current relative order, so the round-robin prefix of the new list stays category-fair.
func Shrink(sel *models.DailySelection, rng spaced_repetition.SeverityRange, severity models.Severity, today models.LocalDate) *models.DailySelection {
	reviews := keep(sel.ReviewWords, rng.Max, spaced_repetition.DueBefore, today)
	newWords := keep(sel.NewWords, rng.NewWordTarget(len(reviews)), nil, today)

	out := &models.DailySelection{
		NewWords:    newWords,
		ReviewWords: reviews,
		Severity:    severity,
		Date:        sel.Date,
	}
	out.Recount()
	return out
}

// keep returns at most limit records of list chosen by priority, in list order
func keep(list []models.LearningProgress, limit int, earlier func(a, b models.LearningProgress) bool, today models.LocalDate) []models.LearningProgress {
	if limit < 0 {
		limit = 0
	}
	if len(list) <= limit {
		return append(make([]models.LearningProgress, 0, len(list)), list...)
	}

	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		a, b := list[idx[i]], list[idx[j]]
		pa, pb := a.LastPlayedDate.Equal(today), b.LastPlayedDate.Equal(today)
		if pa != pb {
			return pa
		}
		if earlier != nil {
			return earlier(a, b)
		}
		return false
	})

	chosen := idx[:limit]
	sort.Ints(chosen)
	out := make([]models.LearningProgress, 0, limit)
	for _, i := range chosen {
		out = append(out, list[i])
	}
	return out
}
